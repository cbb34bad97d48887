package plot

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Transform names one of the coordinate systems a path can be expressed in.
type Transform uint8

const (
	TransDevice Transform = iota // device units, origin top-left, y down
	TransNDC                     // normalized device coordinates, [0,1], y up
	TransWorld                   // user coordinates, mapped onto the viewport
)

func (t Transform) String() string {
	switch t {
	case TransDevice:
		return "Device"
	case TransNDC:
		return "NDC"
	case TransWorld:
		return "World"
	default:
		return "<unknown Transform>"
	}
}

// Matrix2D is an affine transform: (x, y) -> (Ax + Cy + E, Bx + Dy + F)
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Transform applies the matrix to the point (x, y).
func (a Matrix2D) Transform(x, y float64) (float64, float64) {
	return x*a.A + y*a.C + a.E, x*a.B + y*a.D + a.F
}

// Mult returns the transform applying `b` first, then `a`.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Translate prepends a translation by (x, y).
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale prepends a scaling by (x, y).
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Invert returns the inverse matrix. A singular matrix
// yields non finite coefficients.
func (a Matrix2D) Invert() Matrix2D {
	det := a.A*a.D - a.B*a.C
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}
}

func fToFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))}
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// Transform returns the current transform.
func (c *Context) Transform() Transform { return c.trans }

// SetTransform installs `t` as the current transform.
// Callers changing the transform for a sub operation must
// restore the previous one themselves.
func (c *Context) SetTransform(t Transform) { c.trans = t }

// withTransform runs `fn` with `t` installed, and restores the
// previous transform when `fn` returns, panics included.
func (c *Context) withTransform(t Transform, fn func() error) error {
	old := c.Transform()
	c.SetTransform(t)
	defer c.SetTransform(old)
	return fn()
}

// Matrix returns the mapping from the coordinate space `t` to
// device coordinates. It is only meaningful while a device is open.
func (c *Context) Matrix(t Transform) Matrix2D {
	switch t {
	case TransNDC:
		return c.ndcMatrix()
	case TransWorld:
		return c.world
	default:
		return Identity
	}
}

// ToDevice maps (x, y), expressed in the current transform, to device coordinates.
func (c *Context) ToDevice(x, y float64) (float64, float64) {
	return c.Matrix(c.trans).Transform(x, y)
}

// FromDevice is the inverse of ToDevice.
func (c *Context) FromDevice(x, y float64) (float64, float64) {
	return c.Matrix(c.trans).Invert().Transform(x, y)
}

// NDC space has its origin at the bottom left corner,
// so the y axis is flipped.
func (c *Context) ndcMatrix() Matrix2D {
	return Identity.Translate(0, c.size.Height).Scale(c.size.Width, -c.size.Height)
}

// updateWorld recomputes the world matrix and the effective viewport
// from the environment and the device size.
func (c *Context) updateWorld() {
	box := c.viewport
	if c.env.Just {
		box = justify(box, c.env, c.size)
	}
	c.box = box
	sx := (box.X1 - box.X0) / (c.env.Xmax - c.env.Xmin)
	sy := (box.Y1 - box.Y0) / (c.env.Ymax - c.env.Ymin)
	toNDC := Identity.Translate(box.X0, box.Y0).Scale(sx, sy).Translate(-c.env.Xmin, -c.env.Ymin)
	c.world = c.ndcMatrix().Mult(toNDC)
}

// justify shrinks the viewport so that one world unit has the same
// device length on both axes, keeping it centered.
func justify(vp Viewport, env Environment, size Size) Viewport {
	w, h := (vp.X1-vp.X0)*size.Width, (vp.Y1-vp.Y0)*size.Height
	dx, dy := math.Abs(env.Xmax-env.Xmin), math.Abs(env.Ymax-env.Ymin)
	s := math.Min(w/dx, h/dy)
	nw, nh := s*dx/size.Width, s*dy/size.Height
	cx, cy := (vp.X0+vp.X1)/2, (vp.Y0+vp.Y1)/2
	return Viewport{X0: cx - nw/2, X1: cx + nw/2, Y0: cy - nh/2, Y1: cy + nh/2}
}

// clipRect returns the device rectangle covered by the effective viewport.
func (c *Context) clipRect() fixed.Rectangle26_6 {
	m := c.ndcMatrix()
	x0, y0 := m.Transform(c.box.X0, c.box.Y0)
	x1, y1 := m.Transform(c.box.X1, c.box.Y1)
	return fixed.Rectangle26_6{
		Min: fToFixed(math.Min(x0, x1), math.Min(y0, y1)),
		Max: fToFixed(math.Max(x0, x1), math.Max(y0, y1)),
	}
}
