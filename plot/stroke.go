package plot

import (
	"image/color"
	"math"

	"golang.org/x/image/math/fixed"
)

// LineStyle holds the pen used by the stroking operations.
type LineStyle struct {
	Width float64     // in device units
	Color color.Color // nil means black
	Join  JoinMode
	Cap   CapMode
	Dash  []float64 // in device units, nil for a solid line
}

// DefaultLineStyle is a 1 unit wide, solid black line,
// with round joins and butt caps.
var DefaultLineStyle = LineStyle{
	Width: 1,
	Color: color.Black,
	Join:  Round,
	Cap:   ButtCap,
}

func (ls LineStyle) strokeOptions() StrokeOptions {
	return StrokeOptions{
		LineWidth:  fixed.Int26_6(math.Round(ls.Width * 64)),
		MiterLimit: fixed.Int26_6(4 * 64),
		Join:       ls.Join,
		Cap:        ls.Cap,
		Dash:       DashOptions{Dash: ls.Dash},
	}
}

func (ls LineStyle) color() color.Color {
	if ls.Color == nil {
		return color.Black
	}
	return ls.Color
}

// SetLineStyle changes the pen used by the next drawing calls.
func (c *Context) SetLineStyle(ls LineStyle) { c.style = ls }

// LineStyle returns the current pen.
func (c *Context) LineStyle() LineStyle { return c.style }

// Stroke draws `p`, whose points are expressed in the current
// transform, with the current line style.
func (c *Context) Stroke(p Path) error {
	if !c.checkReady("Stroke") {
		return ErrNotReady
	}
	if err := c.stroke(p); err != nil {
		return err
	}
	return c.flushIfUnbuffered()
}

// stroke applies the installed transform to `p` and commits it
// to the device. The device must be open.
func (c *Context) stroke(p Path) error {
	d := c.driver
	d.Clear()
	d.SetStrokeOptions(c.style.strokeOptions())

	M := c.Matrix(c.Transform())
	for _, op := range p {
		op.drawTo(d, M)
	}
	d.Stop(false)

	d.SetColor(c.style.color())
	return d.Stroke()
}

// Line draws the polyline through the points (xs[i], ys[i]), in world
// coordinates. Extra values of the longest slice are ignored.
func (c *Context) Line(xs, ys []float64) error {
	if !c.checkReady("Line") {
		return ErrNotReady
	}
	n := min(len(xs), len(ys))
	if n < 2 {
		return nil
	}

	p := make(Path, 0, n)
	p.MoveTo(xs[0], ys[0])
	for i := 1; i < n; i++ {
		p.LineTo(xs[i], ys[i])
	}

	err := c.withTransform(TransWorld, func() error { return c.stroke(p) })
	if err != nil {
		return err
	}
	return c.flushIfUnbuffered()
}
