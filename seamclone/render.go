package seamclone

// blockRows is the scanline block height the tile renderer iterates over
// the target rectangle in. It has no effect on the result, only on how
// writes to out are grouped.
const blockRows = 32

// prepareRenderCache recomputes the render cache's vertex colors against
// info, optionally computes the per-pixel UV cache over info.FgRect, and
// marks the cache valid on success. On failure the cache is left invalid.
func prepareRenderCache(mesh *Mesh, sampling MeshSampling, cacheUVT bool, info RenderInfo, rc *RenderCache) bool {
	rc.valid = false

	if !rc.updateVertexColors(sampling, info) {
		Logger().Warn("seamclone: prepare_render: foreground/background do not overlap")
		return false
	}

	if cacheUVT && rc.uvt == nil {
		rc.uvt = computeUVTCache(mesh, info.FgRect)
	}

	rc.valid = true
	return true
}

// Render writes the seamless-clone-corrected foreground into out over
// the portion of partRect that overlaps the mesh, leaving every other
// pixel of out untouched. It performs no mutation of mesh, sampling, or
// rc; it may safely be called concurrently by multiple goroutines
// against the same valid cache.
func Render(mesh *Mesh, meshBounds Rect, rc *RenderCache, info RenderInfo, partRect Rect, out WritableBuffer) bool {
	if rc == nil || !rc.valid {
		Logger().Warn("seamclone: render: no valid render cache")
		return false
	}
	if meshBounds.Empty() {
		return true
	}
	if !info.FgRect.ContainsRect(meshBounds) {
		Logger().Warn("seamclone: render: mesh bounds fall outside the foreground rectangle")
		return false
	}

	fgArea := meshBounds.Translate(info.XOff, info.YOff)
	toRender := partRect.Intersect(fgArea)
	if toRender.Empty() {
		return true
	}

	for blockY := toRender.Y; blockY < toRender.Y+toRender.H; blockY += blockRows {
		rows := min(blockRows, toRender.Y+toRender.H-blockY)
		renderBlock(mesh, rc, info, Rect{X: toRender.X, Y: blockY, W: toRender.W, H: rows}, out)
	}

	return true
}

func renderBlock(mesh *Mesh, rc *RenderCache, info RenderInfo, block Rect, out WritableBuffer) {
	for y := block.Y; y < block.Y+block.H; y++ {
		for x := block.X; x < block.X+block.W; x++ {
			xf := float64(x - info.XOff)
			yf := float64(y - info.YOff)

			fg := info.Fg.At(xf, yf)

			tri, u, v, ok := lookupUVT(mesh, rc, int(xf), int(yf), xf, yf)
			if !ok {
				out.Set(x, y, fg)
				continue
			}

			corr := barycentricColor(rc, mesh.Triangles[tri], u, v)
			out.Set(x, y, Color{
				R: fg.R + corr.R,
				G: fg.G + corr.G,
				B: fg.B + corr.B,
				A: fg.A,
			})
		}
	}
}

// lookupUVT resolves the (triangle, u, v) for foreground pixel (xf, yf):
// from rc's UV cache if present, otherwise by a direct mesh lookup at the
// pixel center.
func lookupUVT(mesh *Mesh, rc *RenderCache, xi, yi int, xf, yf float64) (tri int, u, v float64, ok bool) {
	if rc.uvt != nil {
		s, cached := rc.uvt.at(xi, yi)
		if !cached {
			return 0, 0, 0, false
		}
		return s.tri, s.u, s.v, s.tri >= 0
	}
	ti, bu, bv := mesh.containingTriangle(xf+0.5, yf+0.5)
	return ti, bu, bv, ti >= 0
}

func barycentricColor(rc *RenderCache, t *Triangle, u, v float64) Color {
	c0 := rc.vertexColors[t.V[0]]
	c1 := rc.vertexColors[t.V[1]]
	c2 := rc.vertexColors[t.V[2]]
	w0 := 1 - u - v
	return Color{
		R: w0*c0.R + u*c1.R + v*c2.R,
		G: w0*c0.G + u*c1.G + v*c2.G,
		B: w0*c0.B + u*c1.B + v*c2.B,
	}
}
