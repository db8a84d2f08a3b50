package seamclone

import "testing"

func TestRenderFailsWithoutValidCache(t *testing.T) {
	fgRect := Rect{X: 0, Y: 0, W: 4, H: 4}
	mesh := &Mesh{}
	info := RenderInfo{FgRect: fgRect}
	out := NewFloatBuffer(fgRect)

	if Render(mesh, Rect{X: 0, Y: 0, W: 2, H: 2}, newRenderCache(), info, fgRect, out) {
		t.Fatal("expected Render to fail when the cache is not valid")
	}
}

func TestRenderEmptyMeshBoundsSucceedsNoOp(t *testing.T) {
	mesh := &Mesh{}
	rc := newRenderCache()
	rc.valid = true
	fgRect := Rect{X: 0, Y: 0, W: 4, H: 4}
	info := RenderInfo{FgRect: fgRect}
	out := NewFloatBuffer(fgRect)

	if !Render(mesh, Rect{}, rc, info, fgRect, out) {
		t.Fatal("expected Render to succeed trivially for empty mesh bounds")
	}
}

func TestRenderFailsWhenMeshBoundsOutsideForeground(t *testing.T) {
	mesh := &Mesh{}
	rc := newRenderCache()
	rc.valid = true
	fgRect := Rect{X: 0, Y: 0, W: 4, H: 4}
	meshBounds := Rect{X: 10, Y: 10, W: 2, H: 2}
	info := RenderInfo{FgRect: fgRect}
	out := NewFloatBuffer(fgRect)

	if Render(mesh, meshBounds, rc, info, fgRect, out) {
		t.Fatal("expected Render to fail when mesh bounds are outside the foreground rectangle")
	}
}
