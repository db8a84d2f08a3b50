package seamclone

import (
	"math"
	"testing"
)

// squareOutline builds the outline of a w x h solid rectangle placed at
// (x0, y0), in the same point/normal convention [FindOutline] produces,
// without going through pixel scanning.
func squareOutline(x0, y0, w, h int) *Outline {
	roi := Rect{X: x0 - 1, Y: y0 - 1, W: w + 2, H: h + 2}
	buf := NewFloatBuffer(roi)
	fillRect(buf, Rect{X: x0, Y: y0, W: w, H: h}, Color{A: 1})
	outline, _, err := FindOutline(buf, roi, 0.5)
	if err != nil {
		panic(err)
	}
	return outline
}

func TestBuildMeshMinAngle(t *testing.T) {
	outline := squareOutline(0, 0, 2, 3) // a narrow 2-pixel-wide strip
	refiner := NewDefaultRefiner()

	mesh, bounds := BuildMesh(outline, 50, refiner)
	if bounds.Empty() {
		t.Fatal("expected non-empty mesh bounds")
	}
	if len(mesh.Triangles) == 0 {
		t.Fatal("expected at least one triangle")
	}

	for i, tri := range mesh.Triangles {
		if a := tri.MinAngle(); a < DefaultMinAngle-1e-6 {
			t.Errorf("triangle %d min angle = %v rad, want >= %v", i, a, DefaultMinAngle)
		}
	}
}

func TestBuildMeshBoundsFormula(t *testing.T) {
	outline := squareOutline(0, 0, 4, 4)
	_, bounds := BuildMesh(outline, 20, NewDefaultRefiner())

	// Every outline point is moved a quarter pixel along its normal before
	// the bounds are taken; the floor/ceil-plus-one formula must still
	// cover every outline pixel.
	if bounds.W <= 0 || bounds.H <= 0 {
		t.Fatalf("expected non-empty bounds, got %+v", bounds)
	}
	for _, pt := range outline.Points {
		if !bounds.Contains(pt.X, pt.Y) {
			t.Errorf("bounds %+v do not contain outline point (%d,%d)", bounds, pt.X, pt.Y)
		}
	}
}

func TestContainingTriangleCoversMesh(t *testing.T) {
	outline := squareOutline(0, 0, 6, 6)
	mesh, bounds := BuildMesh(outline, 40, NewDefaultRefiner())

	cx := float64(bounds.X) + float64(bounds.W)/2
	cy := float64(bounds.Y) + float64(bounds.H)/2
	idx, u, v := mesh.containingTriangle(cx, cy)
	if idx < 0 {
		t.Fatalf("expected center point (%v,%v) to fall inside some triangle", cx, cy)
	}
	if u < -1e-6 || v < -1e-6 || u+v > 1+1e-6 {
		t.Fatalf("barycentric (u,v) = (%v,%v) out of range", u, v)
	}
}

func TestAngleAtRightAngle(t *testing.T) {
	p := vec2{0, 0}
	q := vec2{1, 0}
	r := vec2{0, 1}
	got := angleAt(p, q, r)
	if math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("angleAt() = %v, want pi/2", got)
	}
}
