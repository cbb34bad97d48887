// Implements raster backends writing image files,
// by wrapping rasterx.
// Importing this package registers the "png", "jpg", "bmp" and "tiff"
// device types. Each page is written to its own file, see plot.PageFile.
package plotraster

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/benoitkugler/okplot/plot"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var _ plot.Driver = (*Renderer)(nil) // assert interface conformance

type encoder func(w io.Writer, m image.Image) error

var encoders = map[string]encoder{
	"png": png.Encode,
	"jpg": func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
	},
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	},
}

func init() {
	for format := range encoders {
		plot.Register(format, func(cfg plot.Config) plot.Driver { return NewRenderer(cfg) })
	}
}

// Default size of the images, in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Renderer paints into an image, written to disk when the
// page changes or when the device is closed.
type Renderer struct {
	plot.NotInteractive
	*Canvas

	cfg    plot.Config
	encode encoder
	file   string
	page   int
	out    *os.File // output of the current page
}

// NewRenderer returns an unopened renderer. The image format
// is given by `cfg.Type`.
func NewRenderer(cfg plot.Config) *Renderer {
	return &Renderer{
		cfg:    cfg,
		encode: encoders[cfg.Type],
		file:   cfg.FileOr("okplot." + cfg.Type),
	}
}

// PageFile returns the file of the current page.
func (rd *Renderer) PageFile() string { return plot.PageFile(rd.file, rd.page) }

func (rd *Renderer) Open() error {
	if rd.encode == nil {
		return &plot.ResourceError{Device: rd.cfg.Type, Err: fmt.Errorf("unsupported image format %q", rd.cfg.Type)}
	}
	if err := rd.createPage(); err != nil {
		return err
	}
	w, h := rd.cfg.SizeOr(DefaultWidth, DefaultHeight)
	rd.Canvas = NewCanvas(w, h, rd.cfg.BackgroundColor())
	return nil
}

// createPage creates the output file early, so that
// an unwritable destination is reported at once.
func (rd *Renderer) createPage() error {
	f, err := os.Create(rd.PageFile())
	if err != nil {
		return &plot.ResourceError{Device: rd.cfg.Type, Err: err}
	}
	rd.out = f
	return nil
}

// writePage encodes the current image and closes its file.
// It does nothing if the file of the page could not be created.
func (rd *Renderer) writePage() error {
	if rd.out == nil {
		return nil
	}
	err := rd.encode(rd.out, rd.img)
	if errc := rd.out.Close(); err == nil {
		err = errc
	}
	rd.out = nil
	if err != nil {
		return fmt.Errorf("plotraster: writing %s: %w", rd.PageFile(), err)
	}
	return nil
}

// Flush is a no-op: the strokes are rasterized immediately,
// and the file is written at the end of the page.
func (rd *Renderer) Flush() error { return nil }

func (rd *Renderer) ChangePage() error {
	if err := rd.writePage(); err != nil {
		return err
	}
	rd.page++
	return rd.createPage()
}

func (rd *Renderer) Close() error {
	return rd.writePage()
}
