// Implements a backend drawing with the github.com/gogpu/gg 2D library.
// Importing this package registers the "gg" device type, which
// writes each page to a PNG file. Use New to draw into an existing
// gg.Context instead.
package plotgg

import (
	"image/color"
	"os"

	"github.com/benoitkugler/okplot/plot"
	"github.com/gogpu/gg"
	"golang.org/x/image/math/fixed"
)

var _ plot.Driver = (*Renderer)(nil) // assert interface conformance

func init() {
	plot.Register("gg", func(cfg plot.Config) plot.Driver { return NewRenderer(cfg) })
}

// Default size of the pages, in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Renderer maps the driver operations onto a gg.Context.
type Renderer struct {
	plot.NotInteractive

	cfg  plot.Config
	dc   *gg.Context
	own  bool   // dc is created on Open, and pages are saved to files
	file string // only used when own is true
	page int
	out  *os.File
}

// NewRenderer returns an unopened renderer, which creates
// its own context and saves the pages as PNG files.
func NewRenderer(cfg plot.Config) *Renderer {
	return &Renderer{cfg: cfg, own: true, file: cfg.FileOr("okplot.png")}
}

// New returns a renderer drawing into `dc`, which stays owned by the caller:
// pages are not saved, and `dc` is not closed.
func New(dc *gg.Context) *Renderer {
	return &Renderer{dc: dc}
}

// Context returns the underlying gg context, which is nil
// before the first Open of a renderer created by NewRenderer.
func (r *Renderer) Context() *gg.Context { return r.dc }

// PageFile returns the file of the current page.
func (r *Renderer) PageFile() string { return plot.PageFile(r.file, r.page) }

func (r *Renderer) Open() error {
	if r.own {
		if err := r.createPage(); err != nil {
			return err
		}
		w, h := r.cfg.SizeOr(DefaultWidth, DefaultHeight)
		r.dc = gg.NewContext(w, h)
	}
	r.dc.Identity()
	return nil
}

func (r *Renderer) createPage() error {
	f, err := os.Create(r.PageFile())
	if err != nil {
		return &plot.ResourceError{Device: "gg", Err: err}
	}
	r.out = f
	return nil
}

func (r *Renderer) writePage() error {
	if r.out == nil { // the page file could not be created
		return nil
	}
	err := r.dc.EncodePNG(r.out)
	if errc := r.out.Close(); err == nil {
		err = errc
	}
	r.out = nil
	return err
}

func (r *Renderer) InitNorm() plot.Size {
	return plot.Size{Width: float64(r.dc.Width()), Height: float64(r.dc.Height())}
}

// Flush pushes the pending accelerated operations, if any.
func (r *Renderer) Flush() error { return r.dc.FlushGPU() }

func (r *Renderer) ChangePage() error {
	if !r.own {
		return nil
	}
	if err := r.writePage(); err != nil {
		return err
	}
	r.page++
	return r.createPage()
}

func (r *Renderer) Close() error {
	if !r.own {
		return r.dc.FlushGPU()
	}
	err := r.writePage()
	if errc := r.dc.Close(); err == nil {
		err = errc
	}
	return err
}

func (r *Renderer) DrawBackground() error {
	r.dc.ClearWithColor(gg.FromColor(r.cfg.BackgroundColor()))
	return nil
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

func (r *Renderer) ExpandClipping(clip fixed.Rectangle26_6) {
	x0, y0 := fixedTof(clip.Min)
	x1, y1 := fixedTof(clip.Max)
	r.dc.ResetClip()
	r.dc.ClipRect(x0, y0, x1-x0, y1-y0)
}

func (r *Renderer) Clear() { r.dc.ClearPath() }

func (r *Renderer) Start(a fixed.Point26_6) { r.dc.MoveTo(fixedTof(a)) }

func (r *Renderer) Line(b fixed.Point26_6) { r.dc.LineTo(fixedTof(b)) }

func (r *Renderer) Stop(closeLoop bool) {
	if closeLoop {
		r.dc.ClosePath()
	}
}

var (
	capToCap = [...]gg.LineCap{
		plot.ButtCap:   gg.LineCapButt,
		plot.SquareCap: gg.LineCapSquare,
		plot.RoundCap:  gg.LineCapRound,
	}
	joinToJoin = [...]gg.LineJoin{
		plot.Round: gg.LineJoinRound,
		plot.Bevel: gg.LineJoinBevel,
		plot.Miter: gg.LineJoinMiter,
	}
)

func (r *Renderer) SetStrokeOptions(options plot.StrokeOptions) {
	r.dc.SetLineWidth(float64(options.LineWidth) / 64)
	r.dc.SetMiterLimit(float64(options.MiterLimit) / 64)
	r.dc.SetLineCap(capToCap[options.Cap])
	r.dc.SetLineJoin(joinToJoin[options.Join])
	r.dc.SetDash(options.Dash.Dash...)
	if len(options.Dash.Dash) != 0 {
		r.dc.SetDashOffset(options.Dash.DashOffset)
	}
}

func (r *Renderer) SetColor(c color.Color) { r.dc.SetColor(c) }

func (r *Renderer) Stroke() error { return r.dc.Stroke() }
