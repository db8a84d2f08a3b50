package seamclone

import "math"

// sampleBasePointCount is the number of initial outline arcs the sample
// planner splits into before adaptive subdivision.
const sampleBasePointCount = 16

// SampleList is, per mesh vertex, either a direct outline sample or a
// weighted set of outline points approximating mean-value boundary
// interpolation.
type SampleList struct {
	// Direct is true when the vertex itself lies on the outline: sampling
	// uses the vertex position directly, and Points/Weights are unused.
	Direct bool

	Points []OutlinePoint
	Weights []float64

	// TotalWeight is the sum of Weights[1:]; it excludes Weights[0] by
	// construction, except after the zero-distance collapse to a single
	// point, where it is 1. PrepareRender doesn't use it for normalization
	// — it divides by the accumulated weight of only the samples that
	// resolved successfully instead.
	TotalWeight float64
}

// MeshSampling maps every mesh vertex to its [SampleList]. Its lifetime is
// bound to the [Mesh] it was computed for; entries are non-owning with
// respect to the outline.
type MeshSampling map[*Vertex]*SampleList

// ComputeSampling builds the [MeshSampling] for every vertex of mesh
// against outline: boundary vertices get a direct sample, interior
// vertices get a weighted sample list computed by [sampleListCompute].
func ComputeSampling(outline *Outline, mesh *Mesh) MeshSampling {
	sampling := make(MeshSampling, len(mesh.Vertices))
	for _, v := range mesh.Vertices {
		if v.OnOutline() {
			sampling[v] = &SampleList{Direct: true}
		} else {
			sampling[v] = sampleListCompute(outline, v.X, v.Y)
		}
	}
	return sampling
}

// sampleListCompute collects a subset of outline points around (px, py)
// via adaptive arc subdivision, then computes mean-value-style weights
// for them.
func sampleListCompute(outline *Outline, px, py float64) *SampleList {
	n := outline.Len()
	sl := &SampleList{}

	if n <= sampleBasePointCount {
		sl.Points = append(sl.Points, outline.Points...)
	} else {
		for i := 0; i < sampleBasePointCount; i++ {
			i1 := i * n / sampleBasePointCount
			i2 := (i + 1) * n / sampleBasePointCount
			collectArc(outline, i1, i2, px, py, 0, sl)
		}
	}

	computeWeights(px, py, sl)
	return sl
}

// collectArc recursively subdivides the outline arc [i1, i2) around
// (px, py), stopping once an arc is both short enough in angle and far
// enough away to treat as flat. It appends points up to (but excluding)
// the point at index i2; the caller's next arc supplies that point.
func collectArc(outline *Outline, i1, i2 int, px, py float64, depth int, sl *SampleList) {
	n := outline.Len()
	pt1 := outline.at(i1)
	pt2 := outline.at(i2)

	dx1, dy1 := px-float64(pt1.X), py-float64(pt1.Y)
	dx2, dy2 := px-float64(pt2.X), py-float64(pt2.Y)
	norm1 := math.Hypot(dx1, dy1)
	norm2 := math.Hypot(dx2, dy2)

	cosT := (dx1*dx2 + dy1*dy2) / (norm1 * norm2)
	theta := math.Acos(clampUnit(cosT))

	edist := float64(n) / (float64(sampleBasePointCount) * math.Pow(2.5, float64(depth)))
	eang := 0.75 * math.Pow(0.8, float64(depth))

	fineEnough := norm1 > edist && norm2 > edist && theta < eang

	if fineEnough || i2-i1 <= 1 {
		sl.Points = append(sl.Points, pt1)
		return
	}

	mid := (i1 + i2) / 2
	collectArc(outline, i1, mid, px, py, depth+1, sl)
	collectArc(outline, mid, i2, px, py, depth+1, sl)
}

// computeWeights derives mean-value-like boundary interpolation weights
// for the points already collected in sl.Points, using the tangent of
// half the angle each point subtends at (px, py).
func computeWeights(px, py float64, sl *SampleList) {
	n := len(sl.Points)
	if n == 0 {
		return
	}

	tanHalf := make([]float64, n)
	norms := make([]float64, n)

	for i := 0; i < n; i++ {
		pt1 := sl.Points[i]
		pt2 := sl.Points[(i+1)%n]

		dx1, dy1 := px-float64(pt1.X), py-float64(pt1.Y)
		dx2, dy2 := px-float64(pt2.X), py-float64(pt2.Y)
		norm1 := math.Hypot(dx1, dy1)
		norm2 := math.Hypot(dx2, dy2)

		norms[i] = norm1

		if norm1 == 0 {
			// Degenerate: the vertex coincides exactly with an outline
			// point. Collapse to a single direct-weight sample.
			sl.Points = []OutlinePoint{pt1}
			sl.Weights = []float64{1}
			sl.TotalWeight = 1
			return
		}

		cosT := (dx1*dx2 + dy1*dy2) / (norm1 * norm2)
		var ang float64
		if cosT <= 1 && cosT >= -1 {
			ang = math.Acos(cosT)
		}
		tanHalf[i] = math.Abs(math.Tan(ang / 2))
	}

	sl.Weights = make([]float64, n)
	sl.Weights[0] = (tanHalf[0] + tanHalf[n-1]) / norms[0]

	sl.TotalWeight = 0
	for i := 1; i < n; i++ {
		w := (tanHalf[i-1] + tanHalf[i%n]) / (norms[i%n] * norms[i%n])
		sl.Weights[i] = w
		sl.TotalWeight += w
	}
}
