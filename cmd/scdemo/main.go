// Command scdemo demonstrates the seamclone compositor end to end: it
// loads a foreground and a background PNG from disk, computes the
// seam-corrected foreground for the foreground placed at a given offset
// within the background, and writes it as an image the size of the
// foreground. The background is sampled to compute the correction; it is
// not copied into the output image.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/seamclone/seamclone"
)

func main() {
	var (
		fgPath    = flag.String("fg", "", "foreground PNG path")
		bgPath    = flag.String("bg", "", "background PNG path")
		outPath   = flag.String("out", "out.png", "output PNG path")
		xoff      = flag.Int("xoff", 0, "x offset of the foreground within the background")
		yoff      = flag.Int("yoff", 0, "y offset of the foreground within the background")
		threshold = flag.Float64("threshold", 0.5, "opacity threshold, 0-1")
		scale     = flag.Float64("scale", 1, "resize the foreground by this factor before cloning")
		cacheUVT  = flag.Bool("uvt-cache", false, "precompute the per-pixel triangle cache")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *fgPath == "" || *bgPath == "" {
		log.Fatal("both -fg and -bg are required")
	}

	if *verbose {
		seamclone.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	if err := run(*fgPath, *bgPath, *outPath, *xoff, *yoff, *threshold, *scale, *cacheUVT); err != nil {
		log.Fatal(err)
	}
}

func run(fgPath, bgPath, outPath string, xoff, yoff int, threshold, scale float64, cacheUVT bool) error {
	fgImg, err := loadPNG(fgPath)
	if err != nil {
		return fmt.Errorf("load foreground: %w", err)
	}
	bgImg, err := loadPNG(bgPath)
	if err != nil {
		return fmt.Errorf("load background: %w", err)
	}

	if scale != 1 {
		fgImg = resize(fgImg, scale)
	}

	fg := newImageBuffer(fgImg)
	bg := newImageBuffer(bgImg)

	ctx, err := seamclone.New(fg, fg.Bounds(), threshold)
	if err != nil {
		return fmt.Errorf("seamclone.New: %w", err)
	}
	defer ctx.Free()

	ctx.SetUVTCache(cacheUVT)

	info := seamclone.RenderInfo{
		Bg: bg, BgRect: bg.Bounds(),
		Fg: fg, FgRect: fg.Bounds(),
		XOff: xoff, YOff: yoff,
	}

	if !ctx.PrepareRender(info) {
		return fmt.Errorf("prepare render: foreground and background do not overlap")
	}

	// Render writes in background coordinates, so the output covers the
	// foreground rectangle translated by the offset.
	outRect := fg.Bounds().Translate(xoff, yoff)
	out := seamclone.NewFloatBuffer(outRect)
	// Start from the plain foreground everywhere; Render only overwrites
	// pixels inside the mesh and leaves the rest untouched.
	for y := outRect.Y; y < outRect.Y+outRect.H; y++ {
		for x := outRect.X; x < outRect.X+outRect.W; x++ {
			out.Set(x, y, fg.At(float64(x-xoff)+0.5, float64(y-yoff)+0.5))
		}
	}

	if !ctx.Render(info, outRect, out) {
		return fmt.Errorf("render: failed, see log")
	}

	return savePNG(outPath, out)
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func savePNG(path string, buf *seamclone.FloatBuffer) error {
	b := buf.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			c := buf.At(float64(b.X+x)+0.5, float64(b.Y+y)+0.5)
			img.Set(x, y, toNRGBA(c))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func toNRGBA(c seamclone.Color) color.NRGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.NRGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}

// resize scales img by factor using golang.org/x/image/draw's high
// quality interpolator, so seamclone always sees the mesh at the scale
// it will actually be rendered at.
func resize(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx())*factor + 0.5)
	h := int(float64(b.Dy())*factor + 0.5)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// imageBuffer adapts a standard library image.Image to seamclone.Buffer,
// unpremultiplying alpha to straight, non-linear R'G'B'A float64 on read.
type imageBuffer struct {
	img   image.Image
	bound seamclone.Rect
}

func newImageBuffer(img image.Image) *imageBuffer {
	r := img.Bounds()
	return &imageBuffer{img: img, bound: seamclone.Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}}
}

func (b *imageBuffer) Bounds() seamclone.Rect { return b.bound }

func (b *imageBuffer) At(x, y float64) seamclone.Color {
	px, py := int(x), int(y)
	if !b.bound.Contains(px, py) {
		return seamclone.Color{}
	}
	r, g, bl, a := b.img.At(px, py).RGBA()
	const maxVal = 0xffff
	if a == 0 {
		return seamclone.Color{}
	}
	return seamclone.Color{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(bl) / float64(a),
		A: float64(a) / maxVal,
	}
}
