// Package preview rasterizes flowstroke geometry on the CPU.
//
// It is a reference renderer for inspecting pipeline output without a GPU:
// ribbons and tails are filled with golang.org/x/image/vector, opacity
// follows energy, and single-point flows are drawn as a dot.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/internal/fmath"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// energyLevels is the number of opacity steps a ribbon is split into.
const energyLevels = 8

// Options controls how geometry is rasterized.
type Options struct {
	Width, Height int

	Background color.Color

	// Ink is the stroke color at full energy.
	Ink color.NRGBA

	// MinAlpha is the opacity multiplier at energy 0.
	MinAlpha float64

	// TailAlpha scales the opacity of tails.
	TailAlpha float64

	// DotRadius is the radius of the dot drawn for single-point flows.
	// Zero disables dots.
	DotRadius float64

	// Label, if set, is drawn in the top-left corner.
	Label string
}

// DefaultOptions returns options for a w×h preview with black ink on white.
func DefaultOptions(w, h int) Options {
	return Options{
		Width:      w,
		Height:     h,
		Background: color.White,
		Ink:        color.NRGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff},
		MinAlpha:   0.35,
		TailAlpha:  0.6,
		DotRadius:  3,
	}
}

// Render draws geo into a new image.
func Render(geo []flowstroke.FlowGeometry, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(1, opts.Width), max(1, opts.Height)))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	Draw(img, geo, opts)
	return img
}

// Draw draws geo over dst. Width, Height and Background are ignored.
func Draw(dst draw.Image, geo []flowstroke.FlowGeometry, opts Options) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	r := &renderer{dst: dst, z: z, opts: opts}

	var dots int
	for i := range geo {
		g := &geo[i]
		if g.Mesh.IsEmpty() {
			if len(g.Curve) > 0 && opts.DotRadius > 0 {
				r.dot(g.Anchor(), g.Curve[0].Energy)
				dots++
			}
			continue
		}
		r.ribbon(g.Mesh, 1)
		if !g.TailMesh.IsEmpty() {
			r.ribbon(g.TailMesh, opts.TailAlpha)
		}
	}
	if opts.Label != "" {
		drawLabel(dst, opts.Label, opts.Ink)
	}

	flowstroke.Logger().Debug("preview: rendered",
		"flows", len(geo),
		"dots", dots,
		"size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
}

type renderer struct {
	dst  draw.Image
	z    *vector.Rasterizer
	opts Options
}

// level quantizes energy into one of energyLevels opacity steps.
func level(energy float64) int {
	return min(energyLevels-1, int(fmath.Saturate(energy)*energyLevels))
}

func (r *renderer) alpha(lvl int, scale float64) color.NRGBA {
	e := (float64(lvl) + 0.5) / energyLevels
	a := fmath.Lerp(r.opts.MinAlpha, 1, e) * scale * float64(r.opts.Ink.A) / 255
	c := r.opts.Ink
	c.A = uint8(math.Round(fmath.Saturate(a) * 255))
	return c
}

// ribbon fills a strip mesh as runs of cross-sections sharing an opacity
// level. Each run is one closed outline: left side forward, right side back.
func (r *renderer) ribbon(m flowstroke.Mesh, scale float64) {
	sections := len(m.Vertices) / 2
	start := 0
	for start < sections-1 {
		lvl := level(quadEnergy(m, start))
		end := start + 1
		for end < sections-1 && level(quadEnergy(m, end)) == lvl {
			end++
		}
		r.outline(m, start, end)
		r.fill(r.alpha(lvl, scale))
		start = end
	}
}

// quadEnergy is the mean energy of the quad between sections i and i+1.
func quadEnergy(m flowstroke.Mesh, i int) float64 {
	return (m.Vertices[2*i].Energy + m.Vertices[2*i+2].Energy) / 2
}

func (r *renderer) outline(m flowstroke.Mesh, from, to int) {
	p := m.Vertices[2*from].Position()
	r.z.MoveTo(float32(p.X), float32(p.Y))
	for i := from + 1; i <= to; i++ {
		p = m.Vertices[2*i].Position()
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	for i := to; i >= from; i-- {
		p = m.Vertices[2*i+1].Position()
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
}

func (r *renderer) dot(c flowstroke.Point, energy float64) {
	const segments = 24
	rad := r.opts.DotRadius
	r.z.MoveTo(float32(c.X+rad), float32(c.Y))
	for k := 1; k < segments; k++ {
		a := 2 * math.Pi * float64(k) / segments
		r.z.LineTo(float32(c.X+rad*math.Cos(a)), float32(c.Y+rad*math.Sin(a)))
	}
	r.z.ClosePath()
	r.fill(r.alpha(level(energy), 1))
}

func (r *renderer) fill(c color.NRGBA) {
	b := r.dst.Bounds()
	r.z.Draw(r.dst, b, image.NewUniform(c), image.Point{})
	r.z.Reset(b.Dx(), b.Dy())
}

func drawLabel(dst draw.Image, label string, ink color.NRGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dst.Bounds().Min.X+6, dst.Bounds().Min.Y+16),
	}
	d.DrawString(label)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("preview: encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to the named file as PNG.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("preview: %w", cerr)
		}
	}()
	if err := EncodePNG(f, img); err != nil {
		return err
	}
	flowstroke.Logger().Info("preview: wrote", "path", path)
	return nil
}
