package plotlcd

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/okplot/plot"
)

// countingDisplay records the traffic sent to the display.
type countingDisplay struct {
	*FrameBuffer
	pixels, refreshes int
}

func (d *countingDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.pixels++
	d.FrameBuffer.SetPixel(x, y, c)
}

func (d *countingDisplay) Display() error {
	d.refreshes++
	return nil
}

func TestFlushDirtyArea(t *testing.T) {
	d := &countingDisplay{FrameBuffer: NewFrameBuffer(64, 48)}
	c := plot.New(plot.WithBuffering(true), plot.WithLineStyle(plot.LineStyle{Width: 2}))
	if err := c.OpenDriver(New(d, nil)); err != nil {
		t.Fatal(err)
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if d.pixels != 64*48 || d.refreshes != 1 {
		t.Errorf("background not sent: %d pixels, %d refreshes", d.pixels, d.refreshes)
	}

	d.pixels = 0
	if err := c.Line([]float64{0.5, 0.5}, []float64{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if d.pixels == 0 || d.pixels >= 64*48/2 {
		t.Errorf("expected a partial update, got %d pixels", d.pixels)
	}
	x, y := c.Matrix(plot.TransWorld).Transform(0.5, 0.5)
	if p := d.At(int(x), int(y)); p.R > 0x80 {
		t.Errorf("no ink at (%g, %g): %v", x, y, p)
	}
	if p := d.At(1, 1); p != (color.RGBA{0xF8, 0xFC, 0xF8, 0xFF}) {
		t.Errorf("unexpected background %v", p)
	}

	d.pixels = 0
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if d.pixels != 0 {
		t.Errorf("nothing should be sent without change, got %d pixels", d.pixels)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestInvalidDisplay(t *testing.T) {
	c := plot.New()
	err := c.OpenDriver(New(NewFrameBuffer(0, 0), nil))
	var re *plot.ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("expected a ResourceError, got %v", err)
	}
}

func TestRGB565(t *testing.T) {
	fb := NewFrameBuffer(2, 1)
	fb.SetPixel(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	fb.SetPixel(1, 0, color.RGBA{G: 0xFF, B: 0xFF, A: 0xFF})
	fb.SetPixel(5, 5, color.RGBA{A: 0xFF}) // ignored
	if fb.Pix[0] != 0x00 || fb.Pix[1] != 0xF8 {
		t.Errorf("unexpected red encoding %x", fb.Pix[:2])
	}
	if fb.Pix[2] != 0xFF || fb.Pix[3] != 0x07 {
		t.Errorf("unexpected cyan encoding %x", fb.Pix[2:])
	}
}

func TestFileDevice(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "fb.raw")
	c := plot.New()
	if err := c.OpenConfig(plot.Config{Type: "lcd", File: filename, Width: 40, Height: 30}); err != nil {
		t.Fatal(err)
	}
	if err := c.FunctionY(math.Sqrt, 20, 0, 4, true); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 2*40*30 {
		t.Errorf("unexpected frame buffer size %d", len(b))
	}
}
