package seamclone

import "testing"

func TestFloatBufferSetAt(t *testing.T) {
	b := NewFloatBuffer(Rect{X: -2, Y: -2, W: 4, H: 4})
	c := Color{R: 0.1, G: 0.2, B: 0.3, A: 1}
	b.Set(-1, 0, c)

	got := b.At(-0.9, 0.4)
	if got != c {
		t.Errorf("At() = %+v, want %+v", got, c)
	}
}

func TestFloatBufferOutOfBounds(t *testing.T) {
	b := NewFloatBuffer(Rect{X: 0, Y: 0, W: 2, H: 2})
	b.Set(10, 10, Color{R: 1, G: 1, B: 1, A: 1}) // no-op, out of bounds

	if got := b.At(10, 10); got != (Color{}) {
		t.Errorf("At() out of bounds = %+v, want zero value", got)
	}
}

func TestFloatBufferFill(t *testing.T) {
	b := NewFloatBuffer(Rect{X: 0, Y: 0, W: 3, H: 3})
	c := Color{R: 1, G: 0.5, B: 0.25, A: 1}
	b.Fill(c)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := b.At(float64(x)+0.5, float64(y)+0.5); got != c {
				t.Fatalf("At(%d,%d) = %+v, want %+v", x, y, got, c)
			}
		}
	}
}
