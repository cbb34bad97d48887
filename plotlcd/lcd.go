// Implements a backend for small pixel displays, through the
// tinygo.org/x/drivers Displayer interface.
// The drawing is rasterized in memory by plotraster, and only the
// modified area is sent to the display when flushing.
//
// Importing this package registers the "lcd" device type, which
// writes an RGB565 frame buffer to a file, such as a Linux /dev/fb device.
package plotlcd

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/benoitkugler/okplot/plot"
	"github.com/benoitkugler/okplot/plotraster"
	"tinygo.org/x/drivers"
)

var _ plot.Driver = (*Renderer)(nil) // assert interface conformance

func init() {
	plot.Register("lcd", func(cfg plot.Config) plot.Driver { return newFileRenderer(cfg) })
}

// Renderer draws onto a drivers.Displayer.
type Renderer struct {
	plot.NotInteractive
	*plotraster.Canvas

	background color.Color
	open       func() (drivers.Displayer, io.Closer, error)

	disp   drivers.Displayer
	closer io.Closer // may be nil
}

// New returns an unopened renderer for `d`. The display is
// not released on Close.
func New(d drivers.Displayer, background color.Color) *Renderer {
	if background == nil {
		background = color.White
	}
	return &Renderer{
		background: background,
		open:       func() (drivers.Displayer, io.Closer, error) { return d, nil, nil },
	}
}

func (r *Renderer) Open() error {
	d, closer, err := r.open()
	if err != nil {
		return &plot.ResourceError{Device: "lcd", Err: err}
	}
	w, h := d.Size()
	if w <= 0 || h <= 0 {
		if closer != nil {
			closer.Close()
		}
		return &plot.ResourceError{Device: "lcd", Err: fmt.Errorf("invalid display size %dx%d", w, h)}
	}
	r.disp, r.closer = d, closer
	r.Canvas = plotraster.NewCanvas(int(w), int(h), r.background)
	return nil
}

// Flush sends the pixels modified since the last flush,
// then refreshes the display.
func (r *Renderer) Flush() error {
	dirty := r.Dirty()
	img := r.Image()
	for y := dirty.Min.Y; y < dirty.Max.Y; y++ {
		for x := dirty.Min.X; x < dirty.Max.X; x++ {
			r.disp.SetPixel(int16(x), int16(y), img.RGBAAt(x, y))
		}
	}
	r.ResetDirty()
	return r.disp.Display()
}

// ChangePage has nothing to do: the context repaints the background.
func (r *Renderer) ChangePage() error { return nil }

func (r *Renderer) Close() error {
	err := r.Flush()
	if r.closer != nil {
		if errc := r.closer.Close(); err == nil {
			err = errc
		}
	}
	r.disp, r.closer = nil, nil
	return err
}

// FrameBuffer is an in memory RGB565 (little endian) display.
type FrameBuffer struct {
	Width, Height int
	Pix           []byte
}

var _ drivers.Displayer = (*FrameBuffer)(nil)

func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{Width: width, Height: height, Pix: make([]byte, 2*width*height)}
}

func (fb *FrameBuffer) Size() (x, y int16) { return int16(fb.Width), int16(fb.Height) }

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func (fb *FrameBuffer) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= fb.Width || iy < 0 || iy >= fb.Height {
		return
	}
	pixel := rgb565From888(c.R, c.G, c.B)
	off := 2 * (iy*fb.Width + ix)
	fb.Pix[off] = byte(pixel)
	fb.Pix[off+1] = byte(pixel >> 8)
}

// At returns the stored pixel, expanded to 8 bits per channel.
func (fb *FrameBuffer) At(x, y int) color.RGBA {
	off := 2 * (y*fb.Width + x)
	pixel := uint16(fb.Pix[off]) | uint16(fb.Pix[off+1])<<8
	r, g, b := uint8(pixel>>11)<<3, uint8(pixel>>5&0x3F)<<2, uint8(pixel&0x1F)<<3
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func (fb *FrameBuffer) Display() error { return nil }

// fileDisplayer copies its frame buffer to a file on each Display.
type fileDisplayer struct {
	*FrameBuffer
	f *os.File
}

func (d fileDisplayer) Display() error {
	_, err := d.f.WriteAt(d.Pix, 0)
	return err
}

func (d fileDisplayer) Close() error { return d.f.Close() }

// Default size of the "lcd" frame buffer, in pixels.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
)

func newFileRenderer(cfg plot.Config) *Renderer {
	r := New(nil, cfg.BackgroundColor())
	r.open = func() (drivers.Displayer, io.Closer, error) {
		f, err := os.OpenFile(cfg.FileOr("okplot.rgb565"), os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, h := cfg.SizeOr(DefaultWidth, DefaultHeight)
		d := fileDisplayer{FrameBuffer: NewFrameBuffer(w, h), f: f}
		return d, d, nil
	}
	return r
}
