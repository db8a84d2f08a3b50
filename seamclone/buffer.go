package seamclone

import "math"

// Color is a straight (non-premultiplied) R'G'B'A color with float64
// channels in alpha-last order. Color differences computed by
// the sample planner may have negative R, G, or B channels; Color does
// not clamp.
type Color struct {
	R, G, B, A float64
}

// Buffer is the pixel-buffer collaborator the compositor reads from and
// writes to: a rectangular, random-access, nearest-neighbor-sampled pixel
// source. Implementations
// are supplied by the host; seamclone never retains a Buffer across calls
// to [Context.PrepareRender] or [Context.Render].
type Buffer interface {
	// Bounds returns the rectangle of pixels the buffer holds.
	Bounds() Rect

	// At returns the nearest-neighbor sample at the real coordinate
	// (x, y). Implementations should round toward the containing pixel
	// center the same way [math.Floor] does. The result is undefined if
	// (x, y) lies outside Bounds(); callers are responsible for the
	// bounds check (outline extraction and rendering both perform it
	// explicitly before sampling).
	At(x, y float64) Color
}

// WritableBuffer is a [Buffer] that also supports writes, used for the
// tile renderer's output.
type WritableBuffer interface {
	Buffer
	Set(x, y int, c Color)
}

// FloatBuffer is the default, in-memory [WritableBuffer] implementation:
// a dense array of float64 R'G'B'A samples, alpha last, row-major from the
// rectangle's origin. It plays the same role for this package that
// gg.Pixmap plays for the host drawing library, generalized from 8-bit
// integer channels to float channels so color differences can be
// negative and must not clip.
type FloatBuffer struct {
	rect Rect
	data []float64 // 4 floats per pixel: R, G, B, A
}

// NewFloatBuffer creates a zero-filled buffer covering rect.
func NewFloatBuffer(rect Rect) *FloatBuffer {
	w, h := max(rect.W, 0), max(rect.H, 0)
	return &FloatBuffer{rect: rect, data: make([]float64, w*h*4)}
}

// Bounds implements Buffer.
func (b *FloatBuffer) Bounds() Rect { return b.rect }

func (b *FloatBuffer) index(x, y int) (int, bool) {
	if !b.rect.Contains(x, y) {
		return 0, false
	}
	lx, ly := x-b.rect.X, y-b.rect.Y
	return (ly*b.rect.W + lx) * 4, true
}

// At implements Buffer using nearest-neighbor sampling: the real
// coordinate is floored to the containing pixel. Samples outside the
// buffer's bounds return the zero Color (transparent black).
func (b *FloatBuffer) At(x, y float64) Color {
	i, ok := b.index(int(math.Floor(x)), int(math.Floor(y)))
	if !ok {
		return Color{}
	}
	return Color{b.data[i], b.data[i+1], b.data[i+2], b.data[i+3]}
}

// Set implements WritableBuffer.
func (b *FloatBuffer) Set(x, y int, c Color) {
	i, ok := b.index(x, y)
	if !ok {
		return
	}
	b.data[i+0] = c.R
	b.data[i+1] = c.G
	b.data[i+2] = c.B
	b.data[i+3] = c.A
}

// Fill sets every pixel in b to c, useful for building test fixtures.
func (b *FloatBuffer) Fill(c Color) {
	for y := b.rect.Y; y < b.rect.Y+b.rect.H; y++ {
		for x := b.rect.X; x < b.rect.X+b.rect.W; x++ {
			b.Set(x, y, c)
		}
	}
}
