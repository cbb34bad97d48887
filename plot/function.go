package plot

import (
	"fmt"
	"math"
)

// Float is the numeric type of the sampled functions.
type Float interface {
	~float32 | ~float64
}

// fit selects the axes whose range is computed from the samples.
type fit uint8

const (
	fitX fit = 1 << iota
	fitY
)

// widen expands [lo, hi] by 5% of its length on each side,
// or by 1 on each side if it is empty.
func widen[F Float](lo, hi F) (F, F) {
	if hi-lo == 0 {
		return lo - 1, hi + 1
	}
	margin := F(0.05) * (hi - lo)
	return lo - margin, hi + margin
}

func finite[F Float](v F) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// bounds accumulates the range of the finite samples.
type bounds[F Float] struct {
	xmin, xmax, ymin, ymax F
	found                  bool
}

func (b *bounds[F]) add(x, y F) {
	if !finite(x) || !finite(y) {
		return
	}
	if !b.found {
		b.xmin, b.xmax, b.ymin, b.ymax = x, x, y, y
		b.found = true
		return
	}
	b.xmin, b.xmax = min(b.xmin, x), max(b.xmax, x)
	b.ymin, b.ymax = min(b.ymin, y), max(b.ymax, y)
}

// curve samples `at` on the n+1 points t0 + i*dt, i = 0..n, and strokes
// the resulting polyline in world coordinates.
// With `auto` set, the samples are walked a first time to compute the
// environment. Both walks use the same grid, sharing the first sample,
// so that `at` is called exactly 2n+1 times (n+1 without `auto`).
// Non finite samples (NaN or infinite) are ignored by the range
// computation, and break the polyline.
// All the arithmetic is done with the precision of F.
func curve[F Float](c *Context, fn string, n int, t0, t1 F, auto fit, at func(t F) (x, y F)) error {
	if !c.checkReady(fn) {
		return ErrNotReady
	}
	if n < 1 {
		return nil
	}

	dt := (t1 - t0) / F(n)
	x0, y0 := at(t0)

	if auto != 0 {
		var b bounds[F]
		b.add(x0, y0)
		for i := 1; i <= n; i++ {
			b.add(at(t0 + F(i)*dt))
		}
		if !b.found {
			return fmt.Errorf("%w: %s has no finite sample on [%g, %g]", ErrInvalidWindow, fn, t0, t1)
		}
		xmin, xmax, ymin, ymax := b.xmin, b.xmax, b.ymin, b.ymax

		// the axis which is not fitted spans the parameter range
		wx0, wx1, wy0, wy1 := t0, t1, t0, t1
		if auto&fitX != 0 {
			wx0, wx1 = widen(xmin, xmax)
		}
		if auto&fitY != 0 {
			wy0, wy1 = widen(ymin, ymax)
		}
		err := c.SetEnvironment(float64(wx0), float64(wx1), float64(wy0), float64(wy1), false)
		if err != nil {
			return err
		}
	}

	err := c.withTransform(TransWorld, func() error {
		p := make(Path, 0, n+1)
		pen := false
		add := func(x, y F) {
			switch {
			case !finite(x) || !finite(y):
				pen = false
			case pen:
				p.LineTo(float64(x), float64(y))
			default:
				p.MoveTo(float64(x), float64(y))
				pen = true
			}
		}
		add(x0, y0)
		for i := 1; i <= n; i++ {
			add(at(t0 + F(i)*dt))
		}
		return c.stroke(p)
	})
	if err != nil {
		return err
	}
	return c.flushIfUnbuffered()
}

func autoFit(autoRange bool, axes fit) fit {
	if autoRange {
		return axes
	}
	return 0
}

// FunctionY draws the curve x = fn(y), for y in [ymin, ymax],
// using n segments.
// If autoRange is true, the environment is first set to
// the range of x (expanded by 5%) and [ymin, ymax]; fn is then
// called 2n+1 times, n+1 times otherwise. With autoRange and
// ymin == ymax, ErrInvalidWindow is returned after the n+1
// evaluations of the range pass, and nothing is drawn.
// A non positive n is ignored.
func (c *Context) FunctionY(fn func(y float64) float64, n int, ymin, ymax float64, autoRange bool) error {
	return curve(c, "FunctionY", n, ymin, ymax, autoFit(autoRange, fitX),
		func(y float64) (float64, float64) { return fn(y), y })
}

// FunctionYFloat32 is the same as FunctionY, with float32 arithmetic.
func (c *Context) FunctionYFloat32(fn func(y float32) float32, n int, ymin, ymax float32, autoRange bool) error {
	return curve(c, "FunctionYFloat32", n, ymin, ymax, autoFit(autoRange, fitX),
		func(y float32) (float32, float32) { return fn(y), y })
}

// FunctionX draws the curve y = fn(x), for x in [xmin, xmax],
// using n segments.
// If autoRange is true, the environment is first set to
// [xmin, xmax] and the range of y (expanded by 5%).
func (c *Context) FunctionX(fn func(x float64) float64, n int, xmin, xmax float64, autoRange bool) error {
	return curve(c, "FunctionX", n, xmin, xmax, autoFit(autoRange, fitY),
		func(x float64) (float64, float64) { return x, fn(x) })
}

// FunctionXFloat32 is the same as FunctionX, with float32 arithmetic.
func (c *Context) FunctionXFloat32(fn func(x float32) float32, n int, xmin, xmax float32, autoRange bool) error {
	return curve(c, "FunctionXFloat32", n, xmin, xmax, autoFit(autoRange, fitY),
		func(x float32) (float32, float32) { return x, fn(x) })
}

// FunctionT draws the parametric curve (fx(t), fy(t)), for t in [tmin, tmax],
// using n segments.
// If autoRange is true, the environment is first set to the
// ranges of x and y, both expanded by 5%.
func (c *Context) FunctionT(fx, fy func(t float64) float64, n int, tmin, tmax float64, autoRange bool) error {
	return curve(c, "FunctionT", n, tmin, tmax, autoFit(autoRange, fitX|fitY),
		func(t float64) (float64, float64) { return fx(t), fy(t) })
}

// FunctionTFloat32 is the same as FunctionT, with float32 arithmetic.
func (c *Context) FunctionTFloat32(fx, fy func(t float32) float32, n int, tmin, tmax float32, autoRange bool) error {
	return curve(c, "FunctionTFloat32", n, tmin, tmax, autoFit(autoRange, fitX|fitY),
		func(t float32) (float32, float32) { return fx(t), fy(t) })
}
