// Package plot provides a thin 2D scientific plotting layer.
// Drawing calls are expressed in world coordinates, mapped to
// device units through the transforms of a Context, and emitted
// into a Driver, such as an image file, a PDF document or
// an interactive window.
// See for example okplot/plotraster or okplot/plotpdf .
package plot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Environment is the world window mapped onto the viewport.
type Environment struct {
	Xmin, Xmax, Ymin, Ymax float64
	Just                   bool // use the same scale on both axes
}

// Viewport is a rectangle in normalized device coordinates.
type Viewport struct {
	X0, X1, Y0, Y1 float64
}

// DefaultViewport leaves a 10% margin on each side of the page.
var DefaultViewport = Viewport{X0: 0.1, X1: 0.9, Y0: 0.1, Y1: 0.9}

// Context holds the plotting state: the active device,
// the current transform, the environment and the line style.
// A Context is not safe for concurrent use, but independent
// contexts may be used concurrently.
type Context struct {
	driver   Driver
	name     string // for the logs
	size     Size
	buffered bool

	trans    Transform
	env      Environment
	viewport Viewport // as requested
	box      Viewport // effective viewport, after justification
	world    Matrix2D // world to device

	style  LineStyle
	logger *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger uses `l` instead of the package logger.
func WithLogger(l *slog.Logger) Option { return func(c *Context) { c.logger = l } }

// WithBuffering starts the context in buffered mode: the device
// is only flushed on explicit requests.
func WithBuffering(buffered bool) Option { return func(c *Context) { c.buffered = buffered } }

// WithLineStyle sets the initial pen.
func WithLineStyle(ls LineStyle) Option { return func(c *Context) { c.style = ls } }

// WithViewport sets the initial viewport.
func WithViewport(vp Viewport) Option { return func(c *Context) { c.viewport = vp } }

// New returns a context without device.
func New(opts ...Option) *Context {
	c := &Context{
		trans:    TransWorld,
		env:      Environment{Xmin: 0, Xmax: 1, Ymin: 0, Ymax: 1},
		viewport: DefaultViewport,
		style:    DefaultLineStyle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Context) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// checkReady is the gate of every drawing entry point.
func (c *Context) checkReady(fn string) bool {
	if c.driver != nil {
		return true
	}
	c.log().Warn("no device open", "func", fn)
	return false
}

// Ready returns true if a device is open.
func (c *Context) Ready() bool { return c.driver != nil }

// Driver returns the active device, or nil.
func (c *Context) Driver() Driver { return c.driver }

// Size returns the size of the active device.
func (c *Context) Size() Size { return c.size }

// Open parses `spec` (see ParseDeviceSpec), creates the
// registered driver and opens it.
func (c *Context) Open(spec string) error {
	cfg, err := ParseDeviceSpec(spec)
	if err != nil {
		return err
	}
	return c.OpenConfig(cfg)
}

// OpenConfig creates the driver registered for `cfg.Type` and opens it.
// A nil `cfg.Logger` is replaced by the logger of the context.
func (c *Context) OpenConfig(cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = c.log()
	}
	d, err := NewDriver(cfg)
	if err != nil {
		return err
	}
	return c.openDriver(cfg.Type, d)
}

// OpenDriver opens `d` and makes it the active device.
// If `d` fails to open, the previous device, if any, is left untouched.
// Otherwise the previous device is closed.
func (c *Context) OpenDriver(d Driver) error {
	return c.openDriver(fmt.Sprintf("%T", d), d)
}

func (c *Context) openDriver(name string, d Driver) error {
	if err := d.Open(); err != nil {
		var re *ResourceError
		if !errors.As(err, &re) {
			err = &ResourceError{Device: name, Err: err}
		}
		c.log().Error("opening device", "device", name, "err", err)
		return err
	}

	if c.driver != nil {
		if err := c.Close(); err != nil {
			c.log().Error("closing previous device", "device", c.name, "err", err)
		}
	}

	c.driver, c.name = d, name
	c.size = d.InitNorm()
	c.env = Environment{Xmin: 0, Xmax: 1, Ymin: 0, Ymax: 1}
	c.updateWorld()
	d.ExpandClipping(c.clipRect())
	c.log().Debug("device open", "device", name, "width", c.size.Width, "height", c.size.Height)

	if err := d.DrawBackground(); err != nil {
		return err
	}
	return c.flushIfUnbuffered()
}

// Close closes the active device.
func (c *Context) Close() error {
	if !c.checkReady("Close") {
		return ErrNotReady
	}
	d, name := c.driver, c.name
	c.driver, c.name = nil, ""
	c.log().Debug("closing device", "device", name)
	return d.Close()
}

// Flush makes the drawing done so far visible.
func (c *Context) Flush() error {
	if !c.checkReady("Flush") {
		return ErrNotReady
	}
	return c.driver.Flush()
}

func (c *Context) flushIfUnbuffered() error {
	if c.buffered {
		return nil
	}
	return c.driver.Flush()
}

// Buffering returns true if the device is only flushed on request.
func (c *Context) Buffering() bool { return c.buffered }

// BeginBuffer stops the implicit flush after each drawing call.
func (c *Context) BeginBuffer() { c.buffered = true }

// EndBuffer restores the implicit flushes, and flushes
// the device if one is open.
func (c *Context) EndBuffer() error {
	c.buffered = false
	if c.driver == nil {
		return nil
	}
	return c.driver.Flush()
}

// ChangePage advances the device to a new, blank page.
func (c *Context) ChangePage() error {
	if !c.checkReady("ChangePage") {
		return ErrNotReady
	}
	d := c.driver
	if err := d.ChangePage(); err != nil {
		return err
	}
	c.log().Debug("new page", "device", c.name)
	d.ExpandClipping(c.clipRect())
	if err := d.DrawBackground(); err != nil {
		return err
	}
	return c.flushIfUnbuffered()
}

// Environment returns the current world window.
func (c *Context) Environment() Environment { return c.env }

// SetEnvironment sets the world window mapped onto the viewport.
// When `just` is true, both axes use the same scale.
// Empty or non finite ranges are rejected with ErrInvalidWindow.
func (c *Context) SetEnvironment(xmin, xmax, ymin, ymax float64, just bool) error {
	if !c.checkReady("SetEnvironment") {
		return ErrNotReady
	}
	if xmin == xmax || ymin == ymax || !finiteWindow(xmin, xmax, ymin, ymax) {
		return fmt.Errorf("%w: [%g, %g] x [%g, %g]", ErrInvalidWindow, xmin, xmax, ymin, ymax)
	}
	c.env = Environment{Xmin: xmin, Xmax: xmax, Ymin: ymin, Ymax: ymax, Just: just}
	c.updateWorld()
	c.driver.ExpandClipping(c.clipRect())
	return nil
}

func finiteWindow(bounds ...float64) bool {
	for _, v := range bounds {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Viewport returns the requested viewport.
func (c *Context) Viewport() Viewport { return c.viewport }

// SetViewport changes the area of the page, in normalized device
// coordinates, where the world window is drawn.
func (c *Context) SetViewport(vp Viewport) {
	c.viewport = vp
	if c.driver == nil {
		return
	}
	c.updateWorld()
	c.driver.ExpandClipping(c.clipRect())
}

// Cursor waits for the user to select a point, drawing the rubber
// band `mode` anchored at (anchorX, anchorY). Points are in world coordinates.
// The wait is abandoned when `ctx` is done.
// Devices without input return ErrNotInteractive.
func (c *Context) Cursor(ctx context.Context, mode BandMode, moveCursor bool, anchorX, anchorY float64) (x, y float64, key rune, err error) {
	if !c.checkReady("Cursor") {
		return 0, 0, 0, ErrNotReady
	}
	d := c.driver
	if mode != BandNone {
		if err = d.InitBand(mode); err != nil {
			return 0, 0, 0, err
		}
	}
	if err = d.Flush(); err != nil {
		return 0, 0, 0, err
	}

	anchor := fToFixed(c.world.Transform(anchorX, anchorY))
	kp, err := d.GetKeyPress(ctx, mode, moveCursor, anchor)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y = c.world.Invert().Transform(fixedTof(kp.Point))
	return x, y, kp.Key, nil
}
