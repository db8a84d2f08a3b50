package seamclone

import (
	"math"
	"testing"
)

func TestRenderSolidRegionReimposesBackground(t *testing.T) {
	fgRect := Rect{X: 0, Y: 0, W: 10, H: 10}
	fg := NewFloatBuffer(fgRect)
	fillRect(fg, Rect{X: 1, Y: 1, W: 8, H: 8}, Color{R: 0.2, G: 0.3, B: 0.4, A: 1})

	bg := NewFloatBuffer(fgRect)
	bgColor := Color{R: 0.9, G: 0.8, B: 0.7, A: 1}
	fillRect(bg, fgRect, bgColor)

	ctx, err := New(fg, fgRect, 0.5)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info := RenderInfo{Bg: bg, BgRect: fgRect, Fg: fg, FgRect: fgRect}
	if !ctx.PrepareRender(info) {
		t.Fatal("PrepareRender() = false")
	}

	out := NewFloatBuffer(fgRect)
	if !ctx.Render(info, fgRect, out) {
		t.Fatal("Render() = false")
	}

	for y := 2; y < 8; y++ {
		for x := 2; x < 8; x++ {
			got := out.At(float64(x)+0.5, float64(y)+0.5)
			if math.Abs(got.R-bgColor.R) > 1e-6 || math.Abs(got.G-bgColor.G) > 1e-6 || math.Abs(got.B-bgColor.B) > 1e-6 {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, bgColor)
			}
		}
	}
}

func TestContextUpdateUnchangedOutlineReusesMesh(t *testing.T) {
	fgRect := Rect{X: 0, Y: 0, W: 10, H: 10}
	fg := NewFloatBuffer(fgRect)
	fillRect(fg, Rect{X: 1, Y: 1, W: 8, H: 8}, Color{A: 1})

	ctx, err := New(fg, fgRect, 0.5)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	originalMesh := ctx.mesh

	ok, err := ctx.Update(fg, fgRect, 0.5)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !ok {
		t.Fatal("Update() = false, want true for unchanged outline")
	}
	if ctx.mesh != originalMesh {
		t.Fatal("Update() rebuilt the mesh even though the outline did not change")
	}
}

func TestContextPrepareRenderFailsWhenBackgroundDoesNotOverlap(t *testing.T) {
	fgRect := Rect{X: 0, Y: 0, W: 10, H: 10}
	fg := NewFloatBuffer(fgRect)
	fillRect(fg, Rect{X: 1, Y: 1, W: 8, H: 8}, Color{A: 1})

	ctx, err := New(fg, fgRect, 0.5)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Background rectangle does not cover the translated foreground mesh
	// area at all.
	bgRect := Rect{X: 100, Y: 100, W: 10, H: 10}
	bg := NewFloatBuffer(bgRect)
	fillRect(bg, bgRect, Color{A: 1})

	info := RenderInfo{Bg: bg, BgRect: bgRect, Fg: fg, FgRect: fgRect}
	if ctx.PrepareRender(info) {
		t.Fatal("PrepareRender() = true, want false when background does not overlap")
	}

	out := NewFloatBuffer(fgRect)
	if ctx.Render(info, fgRect, out) {
		t.Fatal("Render() = true, want false after a failed PrepareRender")
	}
	zero := NewFloatBuffer(fgRect)
	for i := range out.data {
		if out.data[i] != zero.data[i] {
			t.Fatal("Render() wrote to out_buf despite returning false")
		}
	}
}

func TestPrepareRenderAndRenderAreIdempotent(t *testing.T) {
	fgRect := Rect{X: 0, Y: 0, W: 10, H: 10}
	fg := NewFloatBuffer(fgRect)
	fillRect(fg, Rect{X: 1, Y: 1, W: 8, H: 8}, Color{R: 0.25, G: 0.5, B: 0.75, A: 1})

	bg := NewFloatBuffer(fgRect)
	fillRect(bg, fgRect, Color{R: 0.1, G: 0.2, B: 0.3, A: 1})

	ctx, err := New(fg, fgRect, 0.5)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info := RenderInfo{Bg: bg, BgRect: fgRect, Fg: fg, FgRect: fgRect}

	if !ctx.PrepareRender(info) {
		t.Fatal("PrepareRender() = false")
	}
	out1 := NewFloatBuffer(fgRect)
	if !ctx.Render(info, fgRect, out1) {
		t.Fatal("Render() = false")
	}

	if !ctx.PrepareRender(info) {
		t.Fatal("second PrepareRender() = false")
	}
	out2 := NewFloatBuffer(fgRect)
	if !ctx.Render(info, fgRect, out2) {
		t.Fatal("second Render() = false")
	}

	for i := range out1.data {
		if out1.data[i] != out2.data[i] {
			t.Fatalf("pixel data differs between successive prepare/render passes at index %d: %v vs %v", i, out1.data[i], out2.data[i])
		}
	}
}

func TestRenderInvariantUnderSharedTranslation(t *testing.T) {
	build := func(dx, dy int) (out *FloatBuffer, rect Rect) {
		fgRect := Rect{X: dx, Y: dy, W: 10, H: 10}
		fg := NewFloatBuffer(fgRect)
		fillRect(fg, Rect{X: dx + 1, Y: dy + 1, W: 8, H: 8}, Color{R: 0.2, G: 0.3, B: 0.4, A: 1})

		bgRect := Rect{X: dx, Y: dy, W: 10, H: 10}
		bg := NewFloatBuffer(bgRect)
		fillRect(bg, bgRect, Color{R: 0.9, G: 0.8, B: 0.7, A: 1})

		ctx, err := New(fg, fgRect, 0.5)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		info := RenderInfo{Bg: bg, BgRect: bgRect, Fg: fg, FgRect: fgRect}
		if !ctx.PrepareRender(info) {
			t.Fatal("PrepareRender() = false")
		}

		out = NewFloatBuffer(fgRect)
		if !ctx.Render(info, fgRect, out) {
			t.Fatal("Render() = false")
		}
		return out, fgRect
	}

	baseOut, baseRect := build(0, 0)
	shiftedOut, shiftedRect := build(137, -41)

	for y := 2; y < 8; y++ {
		for x := 2; x < 8; x++ {
			base := baseOut.At(float64(baseRect.X+x)+0.5, float64(baseRect.Y+y)+0.5)
			shifted := shiftedOut.At(float64(shiftedRect.X+x)+0.5, float64(shiftedRect.Y+y)+0.5)
			if math.Abs(base.R-shifted.R) > 1e-6 || math.Abs(base.G-shifted.G) > 1e-6 || math.Abs(base.B-shifted.B) > 1e-6 {
				t.Fatalf("pixel (%d,%d): shifted result = %+v, base result = %+v", x, y, shifted, base)
			}
		}
	}
}

func TestContextFreeClearsState(t *testing.T) {
	fgRect := Rect{X: 0, Y: 0, W: 10, H: 10}
	fg := NewFloatBuffer(fgRect)
	fillRect(fg, Rect{X: 1, Y: 1, W: 8, H: 8}, Color{A: 1})

	ctx, err := New(fg, fgRect, 0.5)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx.Free()

	if ctx.mesh != nil || ctx.outline != nil || ctx.sampling != nil || ctx.renderCache != nil {
		t.Fatal("Free() left state behind")
	}
}
