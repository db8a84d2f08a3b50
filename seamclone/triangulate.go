package seamclone

import "math"

// defaultRefiner is the built-in [Refiner]: ear-clipping to build an
// initial constrained triangulation of the polygon, Lawson edge flips to
// make it Delaunay away from constrained edges, and a Ruppert-style
// refinement loop that inserts circumcenters (splitting a boundary edge
// instead when the triangle's smallest angle faces it, and inserting the
// longest edge's midpoint when a circumcenter would fall outside the
// domain) until every triangle meets minAngle or the step budget runs out.
//
// This is the concrete [Refiner] BuildMesh calls by default: its internals
// are not part of the public contract, only [Refiner.Refine]'s behavior is.
type defaultRefiner struct{}

// NewDefaultRefiner returns the built-in constrained Delaunay refiner
// used by [Context] when no other [Refiner] is supplied via
// [WithRefiner].
func NewDefaultRefiner() Refiner { return defaultRefiner{} }

func (defaultRefiner) Refine(polygon []Point, minAngle float64, maxSteps int) RefineResult {
	wm := newWorkMesh(polygon)
	wm.delaunayize(wm.allInteriorEdges())
	wm.refine(minAngle, maxSteps)
	return wm.toResult()
}

// --- internal triangle-mesh representation -------------------------------

type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

type workTri struct {
	v   [3]int
	nbr [3]int // nbr[i] is the triangle across edge (v[i], v[(i+1)%3]); -1 if none
}

func (t *workTri) edgeSlot(a, b int) int {
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if (t.v[i] == a && t.v[j] == b) || (t.v[i] == b && t.v[j] == a) {
			return i
		}
	}
	return -1
}

type workMesh struct {
	v           []vec2
	boundary    []bool
	numDomain   int // number of original domain vertices (before any edge splits)
	t           []workTri
	constrained map[edgeKey]bool
	domain      []vec2 // fixed snapshot of the original polygon, for point-in-domain tests
}

func newWorkMesh(polygon []Point) *workMesh {
	n := len(polygon)
	v := make([]vec2, n)
	domain := make([]vec2, n)
	boundary := make([]bool, n)
	for i, p := range polygon {
		v[i] = vec2{p.X, p.Y}
		domain[i] = v[i]
		boundary[i] = true
	}

	wm := &workMesh{
		v:           v,
		boundary:    boundary,
		numDomain:   n,
		constrained: make(map[edgeKey]bool, n),
		domain:      domain,
	}
	for i := 0; i < n; i++ {
		wm.constrained[makeEdgeKey(i, (i+1)%n)] = true
	}

	tris := earClip(v)
	wm.t = make([]workTri, len(tris))
	for i, tri := range tris {
		wm.t[i].v = tri
	}
	wm.rebuildNeighbors()
	return wm
}

func (wm *workMesh) rebuildNeighbors() {
	type occupant struct{ tri, edge int }
	occ := make(map[edgeKey][]occupant, len(wm.t)*3)
	for i := range wm.t {
		wm.t[i].nbr = [3]int{-1, -1, -1}
		for e := 0; e < 3; e++ {
			a, b := wm.t[i].v[e], wm.t[i].v[(e+1)%3]
			k := makeEdgeKey(a, b)
			occ[k] = append(occ[k], occupant{i, e})
		}
	}
	for _, lst := range occ {
		if len(lst) == 2 {
			wm.t[lst[0].tri].nbr[lst[0].edge] = lst[1].tri
			wm.t[lst[1].tri].nbr[lst[1].edge] = lst[0].tri
		}
	}
}

func (wm *workMesh) allInteriorEdges() []edgeKey {
	seen := make(map[edgeKey]bool)
	var edges []edgeKey
	for _, tri := range wm.t {
		for e := 0; e < 3; e++ {
			a, b := tri.v[e], tri.v[(e+1)%3]
			k := makeEdgeKey(a, b)
			if wm.constrained[k] || seen[k] {
				continue
			}
			seen[k] = true
			edges = append(edges, k)
		}
	}
	return edges
}

// delaunayize runs Lawson edge flips starting from the given candidate
// edges until no flip is needed or a safety iteration cap is hit
// (numerical degeneracies could otherwise cycle forever).
func (wm *workMesh) delaunayize(queue []edgeKey) {
	pending := make(map[edgeKey]bool, len(queue))
	stack := append([]edgeKey(nil), queue...)
	for _, k := range queue {
		pending[k] = true
	}

	guard := 0
	maxGuard := 64 * (len(wm.t) + 8)
	for len(stack) > 0 && guard < maxGuard {
		guard++
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(pending, k)

		if wm.constrained[k] {
			continue
		}
		ti, tj, ei, ej, ok := wm.findSharedEdge(k)
		if !ok {
			continue
		}

		a, b := wm.t[ti].v[ei], wm.t[ti].v[(ei+1)%3]
		apexI := wm.t[ti].v[(ei+2)%3]
		apexJ := wm.t[tj].v[(ej+2)%3]

		if !inCircle(wm.v[a], wm.v[b], wm.v[apexI], wm.v[apexJ]) {
			continue
		}

		newEdges := wm.flipEdge(ti, tj, ei, ej)
		for _, ne := range newEdges {
			if wm.constrained[ne] || pending[ne] {
				continue
			}
			pending[ne] = true
			stack = append(stack, ne)
		}
	}
}

// findSharedEdge locates the two triangles sharing edge k, if any.
func (wm *workMesh) findSharedEdge(k edgeKey) (ti, tj, ei, ej int, ok bool) {
	for i := range wm.t {
		e := wm.t[i].edgeSlot(k.a, k.b)
		if e < 0 {
			continue
		}
		nb := wm.t[i].nbr[e]
		if nb < 0 {
			return 0, 0, 0, 0, false
		}
		ej := wm.t[nb].edgeSlot(k.a, k.b)
		return i, nb, e, ej, true
	}
	return 0, 0, 0, 0, false
}

// flipEdge replaces triangles ti/tj (which share edge (v[ei],v[ei+1]) of
// ti) with the two triangles formed by swapping to the opposite
// diagonal. It returns the four new "outer" edges of the resulting quad,
// for re-queuing. Neighbor bookkeeping is resolved generically by edge
// membership rather than by assumed slot positions, since the winding of
// the replacement triangles is normalized independently.
func (wm *workMesh) flipEdge(ti, tj, ei, ej int) []edgeKey {
	a := wm.t[ti].v[ei]
	b := wm.t[ti].v[(ei+1)%3]
	apexI := wm.t[ti].v[(ei+2)%3]
	apexJ := wm.t[tj].v[(ej+2)%3]

	nAApexJ := wm.t[tj].nbr[(ej+1)%3]   // edge (a, apexJ)
	nApexJB := wm.t[tj].nbr[(ej+2)%3]   // edge (apexJ, b)
	nApexIA := wm.t[ti].nbr[(ei+2)%3]   // edge (apexI, a)
	nBApexI := wm.t[ti].nbr[(ei+1)%3]   // edge (b, apexI)

	wm.t[ti].v = ccwTriangle(wm.v, a, apexJ, apexI)
	wm.t[tj].v = ccwTriangle(wm.v, apexJ, b, apexI)

	internal := makeEdgeKey(apexI, apexJ)
	wm.assignNeighbors(ti, map[edgeKey]int{
		makeEdgeKey(a, apexJ):   nAApexJ,
		makeEdgeKey(apexI, a):   nApexIA,
	}, internal, tj)
	wm.assignNeighbors(tj, map[edgeKey]int{
		makeEdgeKey(apexJ, b): nApexJB,
		makeEdgeKey(b, apexI): nBApexI,
	}, internal, ti)

	return []edgeKey{
		makeEdgeKey(a, apexJ),
		makeEdgeKey(apexJ, b),
		makeEdgeKey(b, apexI),
		makeEdgeKey(apexI, a),
	}
}

// assignNeighbors sets tri's three neighbor slots: internalEdge maps to
// internalNbr (the other half of the flipped/split pair), and every other
// edge is looked up in outer (re-pointing that outer neighbor's own
// back-reference at tri via retarget).
func (wm *workMesh) assignNeighbors(tri int, outer map[edgeKey]int, internalEdge edgeKey, internalNbr int) {
	t := &wm.t[tri]
	for s := 0; s < 3; s++ {
		x, y := t.v[s], t.v[(s+1)%3]
		k := makeEdgeKey(x, y)
		if k == internalEdge {
			t.nbr[s] = internalNbr
			continue
		}
		if nb, ok := outer[k]; ok {
			t.nbr[s] = nb
			wm.retarget(nb, x, y, tri)
		}
	}
}

// refine runs a bounded Ruppert-style loop: find the worst (smallest
// min-angle) triangle; if it fails minAngle, split its boundary edge at
// the midpoint when its smallest angle faces that edge, otherwise insert
// its circumcenter (when that point lies within the original domain) or
// the midpoint of its longest edge (when the circumcenter would fall
// outside the domain).
func (wm *workMesh) refine(minAngle float64, maxSteps int) {
	for step := 0; step < maxSteps; step++ {
		worst, worstAngle := wm.worstTriangle()
		if worst < 0 || worstAngle >= minAngle {
			return
		}

		if !wm.insertCircumcenterOrSplit(worst) {
			// Nothing could be done for this triangle (degenerate
			// geometry); skip it so the loop can make progress on
			// others, but count it against the step budget.
			continue
		}
	}
}

func (wm *workMesh) worstTriangle() (idx int, angle float64) {
	idx = -1
	angle = math.Inf(1)
	for i, tri := range wm.t {
		a := wm.triMinAngle(tri)
		if a < angle {
			angle, idx = a, i
		}
	}
	return idx, angle
}

func (wm *workMesh) triMinAngle(tri workTri) float64 {
	a, b, c := wm.v[tri.v[0]], wm.v[tri.v[1]], wm.v[tri.v[2]]
	return math.Min(angleAt(a, b, c), math.Min(angleAt(b, c, a), angleAt(c, a, b)))
}

// insertCircumcenterOrSplit attempts one refinement step for triangle
// worst. It returns false if no progress could be made.
func (wm *workMesh) insertCircumcenterOrSplit(worst int) bool {
	tri := wm.t[worst]
	a, b, c := wm.v[tri.v[0]], wm.v[tri.v[1]], wm.v[tri.v[2]]

	// A triangle with a constrained edge whose opposite angle is the bad
	// one is best fixed by splitting that boundary edge (Ruppert's
	// segment-splitting rule), rather than inserting a circumcenter that
	// may fall outside the domain.
	pts := [3]vec2{a, b, c}
	minAng := wm.triMinAngle(tri)
	for e := 0; e < 3; e++ {
		v0, v1 := tri.v[e], tri.v[(e+1)%3]
		opposite := angleAt(pts[(e+2)%3], pts[e], pts[(e+1)%3])
		if wm.constrained[makeEdgeKey(v0, v1)] && opposite <= minAng {
			return wm.splitBoundaryEdge(worst, e)
		}
	}

	center, ok := circumcenter(a, b, c)
	if !ok || !pointInPolygon(wm.domain, center) {
		// Fall back to inserting the longest edge's midpoint as an
		// interior Steiner point, as long as it lies within the domain.
		longest := wm.longestEdge(tri)
		mid := vec2{(wm.v[longest[0]].X + wm.v[longest[1]].X) / 2, (wm.v[longest[0]].Y + wm.v[longest[1]].Y) / 2}
		if !pointInPolygon(wm.domain, mid) {
			return false
		}
		return wm.insertInterior(mid)
	}

	return wm.insertInterior(center)
}

func (wm *workMesh) longestEdge(tri workTri) [2]int {
	best := [2]int{tri.v[0], tri.v[1]}
	bestLen := wm.v[tri.v[0]].sub(wm.v[tri.v[1]]).lenSquared()
	edges := [3][2]int{{tri.v[0], tri.v[1]}, {tri.v[1], tri.v[2]}, {tri.v[2], tri.v[0]}}
	for _, e := range edges {
		l := wm.v[e[0]].sub(wm.v[e[1]]).lenSquared()
		if l > bestLen {
			bestLen, best = l, e
		}
	}
	return best
}

// insertInterior inserts p as a new interior Steiner point by locating
// its containing triangle and splitting it into three, then restoring
// the Delaunay property locally.
func (wm *workMesh) insertInterior(p vec2) bool {
	ti, ok := wm.locate(p)
	if !ok {
		return false
	}
	newIdx := len(wm.v)
	wm.v = append(wm.v, p)
	wm.boundary = append(wm.boundary, false)

	tri := wm.t[ti]
	v0, v1, v2 := tri.v[0], tri.v[1], tri.v[2]
	n0, n1, n2 := tri.nbr[0], tri.nbr[1], tri.nbr[2]

	triB := len(wm.t)
	triC := triB + 1

	wm.t[ti] = workTri{v: [3]int{v0, v1, newIdx}, nbr: [3]int{n0, triB, triC}}
	wm.t = append(wm.t,
		workTri{v: [3]int{v1, v2, newIdx}, nbr: [3]int{n1, triC, ti}},
		workTri{v: [3]int{v2, v0, newIdx}, nbr: [3]int{n2, ti, triB}},
	)

	wm.retarget(n0, v0, v1, ti)
	wm.retarget(n1, v1, v2, triB)
	wm.retarget(n2, v2, v0, triC)

	var candidates []edgeKey
	for _, e := range [][2]int{{v0, v1}, {v1, v2}, {v2, v0}} {
		if !wm.constrained[makeEdgeKey(e[0], e[1])] {
			candidates = append(candidates, makeEdgeKey(e[0], e[1]))
		}
	}
	wm.delaunayize(candidates)
	return true
}

// splitBoundaryEdge splits the constrained edge at slot e of triangle ti
// at its midpoint, replacing ti with two triangles and promoting the
// midpoint to a boundary vertex.
func (wm *workMesh) splitBoundaryEdge(ti, e int) bool {
	tri := wm.t[ti]
	a, b := tri.v[e], tri.v[(e+1)%3]
	c := tri.v[(e+2)%3]
	nOuterAC := tri.nbr[(e+2)%3] // edge (c, a) — careful: slot for edge (v[i],v[i+1])
	nOuterBC := tri.nbr[(e+1)%3]

	mid := vec2{(wm.v[a].X + wm.v[b].X) / 2, (wm.v[a].Y + wm.v[b].Y) / 2}
	newIdx := len(wm.v)
	wm.v = append(wm.v, mid)
	wm.boundary = append(wm.boundary, true)

	delete(wm.constrained, makeEdgeKey(a, b))
	wm.constrained[makeEdgeKey(a, newIdx)] = true
	wm.constrained[makeEdgeKey(newIdx, b)] = true

	triNew := len(wm.t)
	// (a, mid, c) reuses slot ti; (mid, b, c) is new. Edge (mid, c) is the
	// new internal edge shared between the two; the other two edges of
	// each keep their old outer neighbor (boundary edges a-mid/mid-b have
	// none, by construction).
	wm.t[ti] = workTri{v: [3]int{a, newIdx, c}, nbr: [3]int{-1, triNew, nOuterAC}}
	wm.t = append(wm.t, workTri{v: [3]int{newIdx, b, c}, nbr: [3]int{-1, nOuterBC, ti}})

	wm.retarget(nOuterBC, b, c, triNew)

	var candidates []edgeKey
	if !wm.constrained[makeEdgeKey(a, c)] {
		candidates = append(candidates, makeEdgeKey(a, c))
	}
	if !wm.constrained[makeEdgeKey(b, c)] {
		candidates = append(candidates, makeEdgeKey(b, c))
	}
	wm.delaunayize(candidates)
	return true
}

// retarget updates the neighbor triangle across edge (a, b) — previously
// pointing back at some triangle that used to own that edge — so that it
// points at newOwner instead. If nb < 0 there is no neighbor to update.
func (wm *workMesh) retarget(nb, a, b, newOwner int) {
	if nb < 0 {
		return
	}
	e := wm.t[nb].edgeSlot(a, b)
	if e >= 0 {
		wm.t[nb].nbr[e] = newOwner
	}
}

// locate returns the index of the triangle containing p via a linear
// scan over every triangle.
func (wm *workMesh) locate(p vec2) (int, bool) {
	for i, tri := range wm.t {
		a, b, c := wm.v[tri.v[0]], wm.v[tri.v[1]], wm.v[tri.v[2]]
		if _, _, ok := barycentric(a, b, c, p); ok {
			return i, true
		}
	}
	return 0, false
}

func (wm *workMesh) toResult() RefineResult {
	verts := make([]Point, len(wm.v))
	for i, p := range wm.v {
		verts[i] = Point{X: p.X, Y: p.Y}
	}
	tris := make([][3]int, len(wm.t))
	for i, t := range wm.t {
		tris[i] = t.v
	}
	return RefineResult{Vertices: verts, Boundary: wm.boundary, Triangles: tris}
}

// --- free geometry helpers ------------------------------------------------

// signedArea2 returns twice the signed area of triangle (a, b, c);
// positive when CCW.
func signedArea2(a, b, c vec2) float64 {
	return b.sub(a).cross(c.sub(a))
}

// inCircle reports whether point d lies strictly inside the circumcircle
// of the CCW triangle (a, b, c).
func inCircle(a, b, c, d vec2) bool {
	ax, ay := a.X-d.X, a.Y-d.Y
	bx, by := b.X-d.X, b.Y-d.Y
	cx, cy := c.X-d.X, c.Y-d.Y

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	return det > 1e-9
}

// circumcenter returns the circumcenter of triangle (a, b, c), or ok=false
// if the triangle is degenerate (collinear).
func circumcenter(a, b, c vec2) (vec2, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return vec2{}, false
	}
	ax2ay2 := a.X*a.X + a.Y*a.Y
	bx2by2 := b.X*b.X + b.Y*b.Y
	cx2cy2 := c.X*c.X + c.Y*c.Y

	ux := (ax2ay2*(b.Y-c.Y) + bx2by2*(c.Y-a.Y) + cx2cy2*(a.Y-b.Y)) / d
	uy := (ax2ay2*(c.X-b.X) + bx2by2*(a.X-c.X) + cx2cy2*(b.X-a.X)) / d
	return vec2{ux, uy}, true
}

// pointInPolygon is a standard even-odd ray cast test against a simple
// polygon given in order (CW or CCW).
func pointInPolygon(poly []vec2, p vec2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xIntersect := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// earClip triangulates a simple polygon (convex or concave, CW or CCW,
// no holes) by ear clipping. The result is a set of CCW-wound triangles
// indexing into poly.
func earClip(poly []vec2) [][3]int {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	orient := 1.0
	if polygonSignedArea(poly) < 0 {
		orient = -1
	}

	var tris [][3]int
	guard := 0
	for len(idx) > 3 && guard < n*n+16 {
		guard++
		m := len(idx)
		clipped := false
		for i := 0; i < m; i++ {
			ia := idx[(i-1+m)%m]
			ib := idx[i]
			ic := idx[(i+1)%m]

			cross := signedArea2(poly[ia], poly[ib], poly[ic])
			if cross*orient <= 1e-12 {
				continue // reflex or degenerate, not a valid ear
			}

			if anyOtherVertexInside(poly, idx, i, ia, ib, ic) {
				continue
			}

			tris = append(tris, ccwTriangle(poly, ia, ib, ic))
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break // degenerate remainder; fan-triangulate what's left
		}
	}

	for len(idx) >= 3 {
		tris = append(tris, ccwTriangle(poly, idx[0], idx[1], idx[2]))
		idx = append(idx[:1], idx[2:]...)
	}

	return tris
}

func polygonSignedArea(poly []vec2) float64 {
	area := 0.0
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return area / 2
}

func ccwTriangle(poly []vec2, a, b, c int) [3]int {
	if signedArea2(poly[a], poly[b], poly[c]) < 0 {
		return [3]int{a, c, b}
	}
	return [3]int{a, b, c}
}

func anyOtherVertexInside(poly []vec2, idx []int, skip, a, b, c int) bool {
	for k, vi := range idx {
		if k == skip || vi == a || vi == b || vi == c {
			continue
		}
		if _, _, ok := barycentric(poly[a], poly[b], poly[c], poly[vi]); ok {
			return true
		}
	}
	return false
}
