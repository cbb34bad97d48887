// Implements a vector backend writing PDF documents,
// using github.com/benoitkugler/pdf.
// Importing this package registers the "pdf" (landscape A4)
// and "vpdf" (portrait A4) device types.
package plotpdf

import (
	"image/color"
	"os"

	"github.com/benoitkugler/okplot/plot"
	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"golang.org/x/image/math/fixed"
)

var _ plot.Driver = (*Renderer)(nil) // assert interface conformance

// A4 size, in PDF points.
const (
	a4Long  = 841.89
	a4Short = 595.28
)

func init() {
	plot.Register("pdf", func(cfg plot.Config) plot.Driver { return NewRenderer(cfg, false) })
	plot.Register("vpdf", func(cfg plot.Config) plot.Driver { return NewRenderer(cfg, true) })
}

// Renderer accumulates the pages in memory, and writes
// the document when closed.
type Renderer struct {
	plot.NotInteractive

	cfg           plot.Config
	file          string
	width, height float64 // in points

	out   *os.File
	doc   model.Document
	pages int

	page          *contentstream.Appearance
	clipped       bool
	clip          fixed.Rectangle26_6
	opacityStates map[float64]*model.GraphicState // per page

	path []contentstream.Operation // path being built
}

// NewRenderer returns an unopened renderer, on an A4 page by default.
// The `cfg` size, if given, is in points.
func NewRenderer(cfg plot.Config, portrait bool) *Renderer {
	w, h := a4Long, a4Short
	if portrait {
		w, h = h, w
	}
	if cfg.Width > 0 {
		w = float64(cfg.Width)
	}
	if cfg.Height > 0 {
		h = float64(cfg.Height)
	}
	return &Renderer{cfg: cfg, file: cfg.FileOr("okplot.pdf"), width: w, height: h}
}

// Pages returns the number of pages completed so far.
func (r *Renderer) Pages() int { return r.pages }

func (r *Renderer) Open() error {
	f, err := os.Create(r.file)
	if err != nil {
		return &plot.ResourceError{Device: r.cfg.Type, Err: err}
	}
	r.out = f
	r.doc = model.Document{}
	r.pages = 0
	r.newPage()
	return nil
}

func (r *Renderer) newPage() {
	page := contentstream.NewAppearance(r.width, r.height)
	r.page = &page
	r.clipped = false
	r.opacityStates = make(map[float64]*model.GraphicState)
	// device coordinates have their origin at the top left corner
	r.page.Ops(
		contentstream.OpSave{},
		contentstream.OpConcat{Matrix: model.Matrix{1, 0, 0, -1, 0, r.height}},
	)
}

func (r *Renderer) endPage() {
	if r.clipped {
		r.page.Ops(contentstream.OpRestore{})
	}
	r.page.Ops(contentstream.OpRestore{})
	page := new(model.PageObject)
	r.page.ApplyToPageObject(page, true)
	r.doc.Catalog.Pages.Kids = append(r.doc.Catalog.Pages.Kids, page)
	r.pages++
}

func (r *Renderer) InitNorm() plot.Size { return plot.Size{Width: r.width, Height: r.height} }

// Flush is a no-op: the document is written when closed.
func (r *Renderer) Flush() error { return nil }

func (r *Renderer) ChangePage() error {
	r.endPage()
	r.newPage()
	return nil
}

func (r *Renderer) Close() error {
	r.endPage()
	err := r.doc.Write(r.out, nil)
	if errc := r.out.Close(); err == nil {
		err = errc
	}
	r.out = nil
	return err
}

// ExpandClipping replaces the current clip: since PDF clips may only
// shrink, the previous one is dropped by restoring the graphic state.
func (r *Renderer) ExpandClipping(clip fixed.Rectangle26_6) {
	r.clip = clip
	if r.clipped {
		r.page.Ops(contentstream.OpRestore{})
	}
	x0, y0 := fixedTof(clip.Min)
	x1, y1 := fixedTof(clip.Max)
	r.page.Ops(
		contentstream.OpSave{},
		contentstream.OpRectangle{X: x0, Y: y0, W: x1 - x0, H: y1 - y0},
		contentstream.OpClip{},
		contentstream.OpEndPath{},
	)
	r.clipped = true
}

// DrawBackground fills the whole page, outside of the clip.
func (r *Renderer) DrawBackground() error {
	clipped := r.clipped
	if clipped {
		r.page.Ops(contentstream.OpRestore{})
		r.clipped = false
	}
	r.page.Ops(contentstream.OpSave{})
	r.page.SetColorFill(r.cfg.BackgroundColor())
	r.page.Ops(
		contentstream.OpRectangle{X: 0, Y: 0, W: r.width, H: r.height},
		contentstream.OpFill{},
		contentstream.OpRestore{},
	)
	if clipped {
		r.ExpandClipping(r.clip)
	}
	return nil
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// Clear drops the pending path.
func (r *Renderer) Clear() { r.path = r.path[:0] }

func (r *Renderer) Start(a fixed.Point26_6) {
	x, y := fixedTof(a)
	r.path = append(r.path, contentstream.OpMoveTo{X: x, Y: y})
}

func (r *Renderer) Line(b fixed.Point26_6) {
	x, y := fixedTof(b)
	r.path = append(r.path, contentstream.OpLineTo{X: x, Y: y})
}

func (r *Renderer) Stop(closeLoop bool) {
	if closeLoop {
		r.path = append(r.path, contentstream.OpClosePath{})
	}
}

var (
	capStyles = [...]uint8{
		plot.ButtCap:   0,
		plot.RoundCap:  1,
		plot.SquareCap: 2,
	}
	joinStyles = [...]uint8{
		plot.Miter: 0,
		plot.Round: 1,
		plot.Bevel: 2,
	}
)

func (r *Renderer) SetStrokeOptions(options plot.StrokeOptions) {
	r.page.Ops(
		contentstream.OpSetDash{Dash: model.DashPattern{
			Array: options.Dash.Dash,
			Phase: options.Dash.DashOffset,
		}},
		contentstream.OpSetLineWidth{W: float64(options.LineWidth) / 64},
		contentstream.OpSetLineCap{Style: capStyles[options.Cap]},
		contentstream.OpSetLineJoin{Style: joinStyles[options.Join]},
		contentstream.OpSetMiterLimit{Limit: float64(options.MiterLimit) / 64},
	)
}

// SetColor sets the stroke color, with its opacity
// expressed as a cached external graphic state.
func (r *Renderer) SetColor(c color.Color) {
	r.page.SetColorStroke(c)
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	opacity := float64(nc.A) / 255
	gs, ok := r.opacityStates[opacity]
	if !ok {
		gs = &model.GraphicState{CA: model.ObjFloat(opacity), BM: []model.Name{"Normal"}}
		r.opacityStates[opacity] = gs
	}
	name := r.page.AddExtGState(gs)
	r.page.Ops(contentstream.OpSetExtGState{Dict: name})
}

// Stroke writes the buffered path: the state operators sent by
// SetStrokeOptions and SetColor must come before it in the content stream.
func (r *Renderer) Stroke() error {
	if len(r.path) == 0 {
		return nil
	}
	r.page.Ops(r.path...)
	r.page.Ops(contentstream.OpStroke{})
	r.Clear()
	return nil
}
