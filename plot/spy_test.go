package plot

import (
	"context"
	"errors"
	"image/color"

	"golang.org/x/image/math/fixed"
)

var _ Driver = (*spyDriver)(nil)

// spyDriver records the calls it receives.
type spyDriver struct {
	size        Size
	openErr     error
	interactive bool
	key         KeyPress

	calls   []string
	points  [][]fixed.Point26_6 // one slice per stroked sub path
	current []fixed.Point26_6
	clip    fixed.Rectangle26_6
	anchor  fixed.Point26_6
	options StrokeOptions
	color   color.Color
	flushes int
	closed  bool
}

func newSpy() *spyDriver { return &spyDriver{size: Size{Width: 800, Height: 600}} }

func (d *spyDriver) record(name string) { d.calls = append(d.calls, name) }

func (d *spyDriver) count(name string) int {
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (d *spyDriver) reset() {
	d.calls, d.points, d.flushes = nil, nil, 0
}

func (d *spyDriver) Open() error {
	d.record("Open")
	return d.openErr
}

func (d *spyDriver) Close() error {
	d.record("Close")
	d.closed = true
	return nil
}

func (d *spyDriver) Flush() error {
	d.record("Flush")
	d.flushes++
	return nil
}

func (d *spyDriver) ChangePage() error     { d.record("ChangePage"); return nil }
func (d *spyDriver) DrawBackground() error { d.record("DrawBackground"); return nil }

func (d *spyDriver) ExpandClipping(clip fixed.Rectangle26_6) {
	d.record("ExpandClipping")
	d.clip = clip
}

func (d *spyDriver) InitNorm() Size { d.record("InitNorm"); return d.size }

func (d *spyDriver) InitBand(BandMode) error {
	d.record("InitBand")
	if !d.interactive {
		return ErrNotInteractive
	}
	return nil
}

func (d *spyDriver) GetKeyPress(ctx context.Context, _ BandMode, _ bool, anchor fixed.Point26_6) (KeyPress, error) {
	d.record("GetKeyPress")
	if !d.interactive {
		return KeyPress{}, ErrNotInteractive
	}
	if err := ctx.Err(); err != nil {
		return KeyPress{}, err
	}
	d.anchor = anchor
	return d.key, nil
}

func (d *spyDriver) Clear() {
	d.record("Clear")
	d.current = nil
}

func (d *spyDriver) Start(a fixed.Point26_6) {
	d.record("Start")
	if len(d.current) > 0 {
		d.points = append(d.points, d.current)
	}
	d.current = []fixed.Point26_6{a}
}

func (d *spyDriver) Line(b fixed.Point26_6) {
	d.record("Line")
	d.current = append(d.current, b)
}

func (d *spyDriver) Stop(closeLoop bool) {
	d.record("Stop")
	if closeLoop && len(d.current) > 0 {
		d.current = append(d.current, d.current[0])
	}
}

func (d *spyDriver) SetStrokeOptions(options StrokeOptions) {
	d.record("SetStrokeOptions")
	d.options = options
}

func (d *spyDriver) SetColor(c color.Color) {
	d.record("SetColor")
	d.color = c
}

func (d *spyDriver) Stroke() error {
	d.record("Stroke")
	if len(d.current) > 0 {
		d.points = append(d.points, d.current)
		d.current = nil
	}
	return nil
}

// openSpy returns a context with an open spy device,
// with the calls made while opening forgotten.
func openSpy(opts ...Option) (*Context, *spyDriver) {
	d := newSpy()
	c := New(opts...)
	if err := c.OpenDriver(d); err != nil {
		panic(err)
	}
	d.reset()
	return c, d
}

var errBoom = errors.New("boom")
