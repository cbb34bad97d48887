package plotraster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/benoitkugler/okplot/plot"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ plot.Painter = (*Canvas)(nil) // assert interface conformance

// Canvas is an in memory paint surface, rasterized by rasterx.
// It implements the drawing half of a plot.Driver, and is shared
// by the backends working on pixels.
type Canvas struct {
	img        *image.RGBA
	dasher     *rasterx.Dasher
	background color.Color

	dirty image.Rectangle // area modified since the last ResetDirty
}

// NewCanvas returns a canvas with a ScannerGV scanner.
func NewCanvas(width, height int, background color.Color) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &Canvas{
		img:        img,
		dasher:     rasterx.NewDasher(width, height, scanner),
		background: background,
	}
}

// Image returns the pixels painted so far.
func (cv *Canvas) Image() *image.RGBA { return cv.img }

// Dirty returns the area painted since the last call to ResetDirty.
func (cv *Canvas) Dirty() image.Rectangle { return cv.dirty }

func (cv *Canvas) ResetDirty() { cv.dirty = image.Rectangle{} }

func (cv *Canvas) InitNorm() plot.Size {
	b := cv.img.Bounds()
	return plot.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// DrawBackground paints the whole image, ignoring the clip.
func (cv *Canvas) DrawBackground() error {
	draw.Draw(cv.img, cv.img.Bounds(), image.NewUniform(cv.background), image.Point{}, draw.Src)
	cv.dirty = cv.img.Bounds()
	return nil
}

func (cv *Canvas) ExpandClipping(clip fixed.Rectangle26_6) {
	r := image.Rect(clip.Min.X.Floor(), clip.Min.Y.Floor(), clip.Max.X.Ceil(), clip.Max.Y.Ceil())
	cv.dasher.SetClip(r.Intersect(cv.img.Bounds()))
}

func (cv *Canvas) Clear() {
	cv.dasher.Clear()
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		plot.Round: rasterx.Round,
		plot.Bevel: rasterx.Bevel,
		plot.Miter: rasterx.Miter,
	}

	capToFunc = [...]rasterx.CapFunc{
		plot.ButtCap:   rasterx.ButtCap,
		plot.SquareCap: rasterx.SquareCap,
		plot.RoundCap:  rasterx.RoundCap,
	}
)

func (cv *Canvas) SetStrokeOptions(options plot.StrokeOptions) {
	cv.dasher.SetStroke(
		options.LineWidth, options.MiterLimit, capToFunc[options.Cap],
		capToFunc[options.Cap], rasterx.FlatGap,
		joinToJoin[options.Join], options.Dash.Dash, options.Dash.DashOffset,
	)
}

func (cv *Canvas) SetColor(c color.Color) {
	cv.dasher.SetColor(c)
}

func (cv *Canvas) Start(a fixed.Point26_6) {
	cv.dasher.Start(a)
}

func (cv *Canvas) Line(b fixed.Point26_6) {
	cv.dasher.Line(b)
}

func (cv *Canvas) Stop(closeLoop bool) {
	cv.dasher.Stop(closeLoop)
}

// Stroke rasterizes the accumulated path.
func (cv *Canvas) Stroke() error {
	extent := cv.dasher.Scanner.GetPathExtent()
	cv.dasher.Draw()

	// one more pixel on each side for the anti-aliasing
	r := image.Rect(extent.Min.X.Floor()-1, extent.Min.Y.Floor()-1, extent.Max.X.Ceil()+1, extent.Max.Y.Ceil()+1)
	cv.dirty = cv.dirty.Union(r.Intersect(cv.img.Bounds()))
	return nil
}
