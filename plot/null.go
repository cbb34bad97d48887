package plot

import (
	"image/color"

	"golang.org/x/image/math/fixed"
)

var _ Driver = (*nullDriver)(nil) // assert interface conformance

func init() {
	Register("null", func(cfg Config) Driver {
		w, h := cfg.SizeOr(800, 600)
		return &nullDriver{size: Size{Width: float64(w), Height: float64(h)}}
	})
}

// nullDriver discards everything.
type nullDriver struct {
	NotInteractive
	size Size
}

func (*nullDriver) Open() error { return nil }
func (*nullDriver) Close() error { return nil }
func (*nullDriver) Flush() error { return nil }
func (*nullDriver) ChangePage() error { return nil }
func (*nullDriver) DrawBackground() error { return nil }
func (*nullDriver) ExpandClipping(fixed.Rectangle26_6) {}
func (d *nullDriver) InitNorm() Size { return d.size }
func (*nullDriver) Clear() {}
func (*nullDriver) Start(fixed.Point26_6) {}
func (*nullDriver) Line(fixed.Point26_6) {}
func (*nullDriver) Stop(bool) {}
func (*nullDriver) SetStrokeOptions(StrokeOptions) {}
func (*nullDriver) SetColor(color.Color) {}
func (*nullDriver) Stroke() error { return nil }
