package seamclone

// RenderInfo carries the per-render parameters: the background and
// foreground buffers and their rectangles, and the integer offset
// translating foreground coordinates into background coordinates.
type RenderInfo struct {
	Bg     Buffer
	BgRect Rect

	Fg     Buffer
	FgRect Rect

	XOff, YOff int

	// RenderBG is reserved for hosts that want to composite the
	// background into out before the corrected foreground; the core
	// itself never reads it.
	RenderBG bool
}

// uvtSample is one entry of the optional per-pixel UV cache: the
// containing triangle's index into Mesh.Triangles (-1 if the pixel falls
// outside every triangle) plus its barycentric (u, v) coordinates.
type uvtSample struct {
	tri  int
	u, v float64
}

// uvtCache is the optional per-pixel (triangle, barycentric) buffer over
// the foreground bounding box, precomputed so Render can skip the
// per-pixel triangle search.
type uvtCache struct {
	rect    Rect
	samples []uvtSample
}

func computeUVTCache(mesh *Mesh, rect Rect) *uvtCache {
	c := &uvtCache{rect: rect, samples: make([]uvtSample, rect.W*rect.H)}
	for y := 0; y < rect.H; y++ {
		for x := 0; x < rect.W; x++ {
			px := float64(rect.X+x) + 0.5
			py := float64(rect.Y+y) + 0.5
			ti, u, v := mesh.containingTriangle(px, py)
			c.samples[y*rect.W+x] = uvtSample{tri: ti, u: u, v: v}
		}
	}
	return c
}

func (c *uvtCache) at(x, y int) (uvtSample, bool) {
	if c == nil || !c.rect.Contains(x, y) {
		return uvtSample{tri: -1}, false
	}
	return c.samples[(y-c.rect.Y)*c.rect.W+(x-c.rect.X)], true
}

// RenderCache holds the precomputed per-vertex correction colors and,
// optionally, the per-pixel UV cache.
type RenderCache struct {
	vertexColors map[*Vertex]Color
	valid        bool
	uvt          *uvtCache
}

func newRenderCache() *RenderCache {
	return &RenderCache{vertexColors: make(map[*Vertex]Color)}
}

// updateVertexColors recomputes every vertex's correction color, reusing
// existing map storage for vertices that persist across calls, and
// pruning vertices no longer present in sampling. It returns false
// (leaving rc invalid) if any vertex's color could not be computed.
func (rc *RenderCache) updateVertexColors(sampling MeshSampling, info RenderInfo) bool {
	if rc.vertexColors == nil {
		rc.vertexColors = make(map[*Vertex]Color, len(sampling))
	}

	for v, sl := range sampling {
		c, ok := computeVertexColor(info, v, sl)
		if !ok {
			return false
		}
		rc.vertexColors[v] = c
	}

	if len(sampling) < len(rc.vertexColors) {
		for v := range rc.vertexColors {
			if _, ok := sampling[v]; !ok {
				delete(rc.vertexColors, v)
			}
		}
	}

	return true
}

// computeVertexColor computes the correction color for a single mesh
// vertex v with sample list sl: for a direct (boundary) sample it's the
// background-minus-foreground difference at the vertex itself; for a
// weighted sample list it's the weighted average of that difference over
// sl.Points, skipping any point whose background sample falls outside
// the background rectangle.
func computeVertexColor(info RenderInfo, v *Vertex, sl *SampleList) (Color, bool) {
	if sl.Direct {
		diff, ok := sampleDiff(info, v.X, v.Y)
		if !ok {
			return Color{}, false
		}
		diff.A = 1
		return diff, true
	}

	var sum Color
	var effectiveWeight float64
	for i, pt := range sl.Points {
		diff, ok := sampleDiff(info, float64(pt.X), float64(pt.Y))
		if !ok {
			continue
		}
		w := sl.Weights[i]
		sum.R += w * diff.R
		sum.G += w * diff.G
		sum.B += w * diff.B
		effectiveWeight += w
	}

	if effectiveWeight == 0 {
		return Color{}, false
	}

	return Color{
		R: sum.R / effectiveWeight,
		G: sum.G / effectiveWeight,
		B: sum.B / effectiveWeight,
		A: 1,
	}, true
}

// sampleDiff computes background-minus-foreground RGB at foreground
// coordinate (x, y). It fails if the translated background coordinate
// falls outside info.BgRect; the foreground sample is always in range
// by construction (the point is inside the mesh, which is inside the
// outline, which is inside info.FgRect).
func sampleDiff(info RenderInfo, x, y float64) (Color, bool) {
	bx, by := x+float64(info.XOff), y+float64(info.YOff)
	if !info.BgRect.ContainsF(bx, by) {
		return Color{}, false
	}
	fg := info.Fg.At(x, y)
	bg := info.Bg.At(bx, by)
	return Color{R: bg.R - fg.R, G: bg.G - fg.G, B: bg.B - fg.B, A: 1}, true
}
