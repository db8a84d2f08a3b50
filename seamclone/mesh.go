package seamclone

import "math"

// Point is a real-valued 2-D coordinate, the input/output vertex type of
// the [Refiner] collaborator interface.
type Point struct{ X, Y float64 }

// RefineResult is what a [Refiner] hands back to [BuildMesh]: a vertex set
// (the original polygon vertices first, in order, followed by any points
// the refiner added) and a triangulation over it.
type RefineResult struct {
	// Vertices holds every mesh vertex. Vertices[:len(polygon)] are, in
	// order, exactly the input polygon; the rest are the points the
	// refiner added, in insertion order, which may mix points inserted by
	// constrained-edge splitting (marked boundary) with interior Steiner
	// points.
	Vertices []Point

	// Boundary marks, parallel to Vertices, which vertices lie on the
	// constrained outline (as opposed to being added during refinement).
	Boundary []bool

	// Triangles indexes into Vertices, three per triangle, wound
	// counter-clockwise.
	Triangles [][3]int
}

// Refiner is the constrained Delaunay refiner collaborator BuildMesh uses
// to turn an inset outline polygon into a quality mesh: given a closed
// polygon (a planar straight-line graph whose edges are the constraint
// cycle), a minimum-angle quality threshold, and a Steiner-point step
// budget, produce a refined triangulation that preserves the constraint
// edges and the Delaunay property, adding only interior vertices.
type Refiner interface {
	Refine(polygon []Point, minAngle float64, maxSteps int) RefineResult
}

// Vertex is one mesh vertex. Vertices are addressable by identity (the
// pointer itself is usable as a hash key, e.g. as a map key in
// [MeshSampling] and [RenderCache]).
type Vertex struct {
	X, Y     float64
	boundary bool
}

// OnOutline reports whether v lies on the mesh's constrained outline, as
// opposed to being an interior Steiner point added during refinement.
func (v *Vertex) OnOutline() bool { return v.boundary }

// Triangle is one mesh triangle, wound counter-clockwise.
type Triangle struct {
	V [3]*Vertex
}

// Mesh is a constrained Delaunay triangulation of an [Outline] (inset by
// ¼ pixel along each outward normal) plus Steiner points added during
// refinement.
type Mesh struct {
	Vertices  []*Vertex
	Triangles []*Triangle
}

// DefaultMinAngle is the π/6 minimum-angle quality target every mesh
// triangle aims for, refinement budget permitting.
const DefaultMinAngle = math.Pi / 6

// BuildMesh constructs the mesh for outline: it computes the quarter-pixel
// outward inset of each outline point, hands the resulting polygon to
// refiner, and returns the resulting [Mesh] together with mesh_bounds, the
// integer-inclusive bounding box of the inset outline vertices only (not
// of any interior Steiner points the refiner adds).
func BuildMesh(outline *Outline, maxRefineSteps int, refiner Refiner) (*Mesh, Rect) {
	n := outline.Len()
	polygon := make([]Point, n)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for i, pt := range outline.Points {
		dx, dy := pt.Normal.Offset(0.25)
		x, y := float64(pt.X)+dx, float64(pt.Y)+dy
		polygon[i] = Point{X: x, Y: y}

		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}

	bounds := Rect{
		X: int(math.Floor(minX)),
		Y: int(math.Floor(minY)),
		W: int(math.Ceil(maxX)) + 1 - int(math.Floor(minX)),
		H: int(math.Ceil(maxY)) + 1 - int(math.Floor(minY)),
	}

	result := refiner.Refine(polygon, DefaultMinAngle, maxRefineSteps)
	return buildFromResult(result), bounds
}

func buildFromResult(r RefineResult) *Mesh {
	verts := make([]*Vertex, len(r.Vertices))
	for i, p := range r.Vertices {
		verts[i] = &Vertex{X: p.X, Y: p.Y, boundary: r.Boundary[i]}
	}

	tris := make([]*Triangle, len(r.Triangles))
	for i, t := range r.Triangles {
		tris[i] = &Triangle{V: [3]*Vertex{verts[t[0]], verts[t[1]], verts[t[2]]}}
	}

	return &Mesh{Vertices: verts, Triangles: tris}
}

// MinAngle returns the smallest interior angle of t, in radians.
func (t *Triangle) MinAngle() float64 {
	a, b, c := vec2{t.V[0].X, t.V[0].Y}, vec2{t.V[1].X, t.V[1].Y}, vec2{t.V[2].X, t.V[2].Y}
	angA := angleAt(a, b, c)
	angB := angleAt(b, c, a)
	angC := angleAt(c, a, b)
	return math.Min(angA, math.Min(angB, angC))
}

// angleAt returns the interior angle at vertex p of the triangle (p, q, r).
func angleAt(p, q, r vec2) float64 {
	u, v := q.sub(p), r.sub(p)
	cosA := u.dot(v) / math.Sqrt(u.lenSquared()*v.lenSquared())
	cosA = clampUnit(cosA)
	return math.Acos(cosA)
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// containingTriangle returns the index of the mesh triangle containing
// (x, y), or -1 if none does (the point lies outside the mesh).
// barycentric reports the barycentric coordinates (u, v) of (x, y) in
// that triangle, where the point equals V[0] + u*(V[1]-V[0]) +
// v*(V[2]-V[0]).
func (m *Mesh) containingTriangle(x, y float64) (idx int, u, v float64) {
	p := vec2{x, y}
	for i, t := range m.Triangles {
		a := vec2{t.V[0].X, t.V[0].Y}
		b := vec2{t.V[1].X, t.V[1].Y}
		c := vec2{t.V[2].X, t.V[2].Y}
		if bu, bv, ok := barycentric(a, b, c, p); ok {
			return i, bu, bv
		}
	}
	return -1, 0, 0
}

// barycentric computes the (u, v) barycentric coordinates of p in
// triangle (a, b, c) and reports whether p lies within the triangle,
// within a small slack tolerance to absorb floating-point rounding at
// shared triangle edges.
func barycentric(a, b, c, p vec2) (u, v float64, ok bool) {
	v0, v1, v2 := b.sub(a), c.sub(a), p.sub(a)
	d00 := v0.dot(v0)
	d01 := v0.dot(v1)
	d11 := v1.dot(v1)
	d20 := v2.dot(v0)
	d21 := v2.dot(v1)
	denom := d00*d11 - d01*d01
	if denom == 0 {
		return 0, 0, false
	}
	uu := (d11*d20 - d01*d21) / denom
	vv := (d00*d21 - d01*d20) / denom
	const slack = 1e-7
	if uu < -slack || vv < -slack || uu+vv > 1+slack {
		return 0, 0, false
	}
	return uu, vv, true
}
