// Implements an interactive window backend, drawing
// through the Plan 9 devdraw protocol (9fans.net/go/draw).
// Importing this package registers the "xw" device type.
//
// This is the only backend supporting the capture of points,
// with rubber bands. Mouse buttons are reported as the keys
// 'A', 'D' and 'X'.
package plotwin

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"9fans.net/go/draw"
	"github.com/benoitkugler/okplot/plot"
	"golang.org/x/image/math/fixed"
)

var _ plot.Driver = (*Window)(nil) // assert interface conformance

func init() {
	plot.Register("xw", func(cfg plot.Config) plot.Driver { return New(cfg) })
}

// Default size of the window, in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// conn is the devdraw connection, shared by the successive windows.
// The input readers of 9fans.net/go/draw exit the process when their
// connection fails, so once they are started by a capture the
// connection is kept for the life of the process, and reused by the
// next Open.
var conn struct {
	sync.Mutex
	display *draw.Display
	mouse   *draw.Mousectl
	keys    *draw.Keyboardctl
	owner   *Window
}

// Window draws into a devdraw window.
// Dashes are computed on the client side, and all
// line joins are the ones of draw.Image.Poly.
// Only one Window may be open at a time.
type Window struct {
	cfg plot.Config

	display *draw.Display
	screen  *draw.Image
	mouse   *draw.Mousectl    // started by the first capture
	keys    *draw.Keyboardctl // started by the first capture
	saved   *draw.Image       // screen content under the rubber band

	done    chan struct{} // closed by Close
	capture sync.Mutex    // held while waiting for a key

	colors     map[draw.Color]*draw.Image
	ink        *draw.Image
	background *draw.Image
	clip       image.Rectangle // in window coordinates

	radius     int
	end        draw.End
	dash       []float64
	dashOffset float64
	path       [][]image.Point // sub paths, in screen coordinates
}

// New returns an unopened window.
func New(cfg plot.Config) *Window { return &Window{cfg: cfg} }

func (w *Window) Open() error {
	conn.Lock()
	defer conn.Unlock()
	if conn.owner != nil {
		return &plot.ResourceError{Device: "xw", Err: errors.New("a window is already open")}
	}

	width, height := w.cfg.SizeOr(DefaultWidth, DefaultHeight)
	label := w.cfg.Label
	if label == "" {
		label = "okplot"
	}
	d := conn.display
	if d == nil {
		var err error
		d, err = draw.Init(nil, "", label, fmt.Sprintf("%dx%d", width, height))
		if err != nil {
			return &plot.ResourceError{Device: "xw", Err: err}
		}
		conn.display = d
	} else {
		d.SetLabel(label)
	}

	w.display = d
	w.screen = d.ScreenImage
	w.colors = make(map[draw.Color]*draw.Image)
	bg, err := w.colorImage(w.cfg.BackgroundColor())
	if err != nil {
		w.release()
		return &plot.ResourceError{Device: "xw", Err: err}
	}
	w.background = bg
	w.ink = d.Black
	w.end = draw.EndSquare
	w.done = make(chan struct{})
	conn.owner = w
	return nil
}

// release frees the images of the window, and closes
// the connection if no input reader uses it.
// It must be called with conn locked.
func (w *Window) release() error {
	for _, img := range w.colors {
		img.Free()
	}
	if w.saved != nil {
		w.saved.Free()
	}
	d := w.display
	w.colors, w.saved, w.ink, w.background = nil, nil, nil, nil
	w.display, w.screen, w.mouse, w.keys = nil, nil, nil, nil
	if conn.owner == w {
		conn.owner = nil
	}

	if conn.mouse != nil {
		d.ScreenImage.Draw(d.ScreenImage.R, d.White, nil, image.Point{})
		return d.Flush()
	}
	conn.display = nil
	return d.Close()
}

func toDrawColor(c color.Color) draw.Color {
	r, g, b, a := c.RGBA() // premultiplied, as draw.Color
	return draw.Color(r>>8<<24 | g>>8<<16 | b>>8<<8 | a>>8)
}

// colorImage returns a cached replicated 1x1 image.
func (w *Window) colorImage(c color.Color) (*draw.Image, error) {
	col := toDrawColor(c)
	if img, ok := w.colors[col]; ok {
		return img, nil
	}
	img, err := w.display.AllocImage(image.Rect(0, 0, 1, 1), w.screen.Pix, true, col)
	if err != nil {
		return nil, err
	}
	w.colors[col] = img
	return img, nil
}

// Close stops a pending capture, which returns plot.ErrDeviceClosed,
// and releases the window.
func (w *Window) Close() error {
	if w.display == nil {
		return plot.ErrDeviceClosed
	}
	close(w.done)
	w.capture.Lock()
	defer w.capture.Unlock()

	conn.Lock()
	defer conn.Unlock()
	return w.release()
}

func (w *Window) Flush() error { return w.display.Flush() }

// ChangePage has nothing to do: the window is cleared
// by DrawBackground.
func (w *Window) ChangePage() error { return nil }

func (w *Window) InitNorm() plot.Size {
	return plot.Size{Width: float64(w.screen.R.Dx()), Height: float64(w.screen.R.Dy())}
}

// toScreen converts a device point, relative to the
// window, to screen coordinates.
func (w *Window) toScreen(p fixed.Point26_6) image.Point {
	return image.Pt(p.X.Round(), p.Y.Round()).Add(w.screen.R.Min)
}

func (w *Window) fromScreen(p image.Point) fixed.Point26_6 {
	p = p.Sub(w.screen.R.Min)
	return fixed.P(p.X, p.Y)
}

func (w *Window) ExpandClipping(clip fixed.Rectangle26_6) {
	w.clip = image.Rect(clip.Min.X.Floor(), clip.Min.Y.Floor(), clip.Max.X.Ceil(), clip.Max.Y.Ceil())
	w.restoreClip()
}

// DrawBackground paints the whole window, ignoring the clip.
func (w *Window) DrawBackground() error {
	w.screen.ReplClipr(false, w.screen.R)
	w.screen.Draw(w.screen.R, w.background, nil, image.Point{})
	w.restoreClip()
	return nil
}

func (w *Window) Clear() { w.path = w.path[:0] }

func (w *Window) Start(a fixed.Point26_6) {
	w.path = append(w.path, []image.Point{w.toScreen(a)})
}

func (w *Window) Line(b fixed.Point26_6) {
	if len(w.path) == 0 {
		w.Start(b)
		return
	}
	last := len(w.path) - 1
	w.path[last] = append(w.path[last], w.toScreen(b))
}

func (w *Window) Stop(closeLoop bool) {
	if !closeLoop || len(w.path) == 0 {
		return
	}
	last := w.path[len(w.path)-1]
	w.path[len(w.path)-1] = append(last, last[0])
}

// lineRadius returns the Poly radius, which draws
// lines 1+2*radius pixels wide.
func lineRadius(width fixed.Int26_6) int {
	r := (width.Round() - 1) / 2
	if r < 0 {
		return 0
	}
	return r
}

func (w *Window) SetStrokeOptions(options plot.StrokeOptions) {
	w.radius = lineRadius(options.LineWidth)
	w.end = draw.EndSquare
	if options.Cap == plot.RoundCap {
		w.end = draw.EndDisc
	}
	w.dash, w.dashOffset = options.Dash.Dash, options.Dash.DashOffset
}

func (w *Window) SetColor(c color.Color) {
	img, err := w.colorImage(c)
	if err != nil {
		w.cfg.Log().Warn("allocating color", "device", "xw", "err", err)
		img = w.display.Black
	}
	w.ink = img
}

func (w *Window) Stroke() error {
	for _, sub := range w.path {
		if len(sub) < 2 {
			continue
		}
		for _, pts := range dashed(sub, w.dash, w.dashOffset) {
			w.screen.Poly(pts, w.end, w.end, w.radius, w.ink, image.Point{})
		}
	}
	w.Clear()
	return nil
}

// InitBand starts the input devices, and allocates
// the backup of the screen used to erase the band.
func (w *Window) InitBand(mode plot.BandMode) error {
	if w.display == nil {
		return plot.ErrDeviceClosed
	}
	w.initInput()
	return w.allocBackup()
}

// allocBackup makes sure the backup matches the screen.
func (w *Window) allocBackup() error {
	if w.saved != nil && w.saved.R == w.screen.R {
		return nil
	}
	if w.saved != nil {
		w.saved.Free()
		w.saved = nil
	}
	saved, err := w.display.AllocImage(w.screen.R, w.screen.Pix, false, draw.NoFill)
	if err != nil {
		return fmt.Errorf("plotwin: allocating screen backup: %w", err)
	}
	w.saved = saved
	return nil
}

func (w *Window) initInput() {
	conn.Lock()
	defer conn.Unlock()
	if conn.mouse == nil {
		conn.mouse = w.display.InitMouse()
		conn.keys = w.display.InitKeyboard()
	}
	w.mouse, w.keys = conn.mouse, conn.keys
}

func (w *Window) restoreClip() {
	w.screen.ReplClipr(false, w.clip.Add(w.screen.R.Min).Intersect(w.screen.R))
}

func (w *Window) eraseBand() {
	w.screen.ReplClipr(false, w.screen.R)
	w.screen.Draw(w.screen.R, w.saved, nil, w.saved.R.Min)
}

func (w *Window) drawBand(mode plot.BandMode, anchor, cursor image.Point) {
	for _, seg := range bandSegments(mode, anchor, cursor, w.screen.R) {
		w.screen.Line(seg[0], seg[1], draw.EndSquare, draw.EndSquare, 0, w.display.Black, image.Point{})
	}
}

// reattach follows a resize of the window: the drawing is
// copied back at the top left corner of the new window.
func (w *Window) reattach() error {
	old := w.saved
	if err := w.display.Attach(draw.RefNone); err != nil {
		return fmt.Errorf("plotwin: attaching to the resized window: %w", err)
	}
	w.screen = w.display.ScreenImage
	w.screen.ReplClipr(false, w.screen.R)
	w.screen.Draw(w.screen.R, w.background, nil, image.Point{})
	w.screen.Draw(w.screen.R, old, nil, old.R.Min)
	if err := w.allocBackup(); err != nil {
		return err
	}
	w.saved.Draw(w.screen.R, w.screen, nil, w.screen.R.Min)
	return nil
}

// GetKeyPress waits for a mouse button or a key,
// drawing the rubber band while the mouse moves.
// It returns plot.ErrDeviceClosed if the window is closed meanwhile.
func (w *Window) GetKeyPress(ctx context.Context, mode plot.BandMode, moveCursor bool, anchor fixed.Point26_6) (plot.KeyPress, error) {
	w.capture.Lock()
	defer w.capture.Unlock()
	if w.display == nil {
		return plot.KeyPress{}, plot.ErrDeviceClosed
	}
	if err := w.InitBand(mode); err != nil {
		return plot.KeyPress{}, err
	}
	banding := mode != plot.BandNone
	a := w.toScreen(anchor)
	if moveCursor {
		if err := w.display.MoveCursor(a); err != nil {
			return plot.KeyPress{}, err
		}
		w.mouse.Point = a
	}
	w.saved.Draw(w.screen.R, w.screen, nil, w.screen.R.Min)
	defer func() {
		if banding {
			w.eraseBand()
		}
		w.restoreClip()
		w.display.Flush()
	}()

	moved := func(m draw.Mouse) {
		if !banding {
			return
		}
		w.eraseBand()
		w.drawBand(mode, a, m.Point)
		w.display.Flush()
	}
	resized := func() error {
		if err := w.reattach(); err != nil {
			return err
		}
		a = w.toScreen(anchor)
		moved(w.mouse.Mouse)
		return w.display.Flush()
	}
	in := inputs{mouse: w.mouse.C, resize: w.mouse.Resize, keys: w.keys.C, done: w.done}
	key, err := waitKey(ctx, in, &w.mouse.Mouse, moved, resized)
	if err != nil {
		return plot.KeyPress{}, err
	}
	return plot.KeyPress{Point: w.fromScreen(w.mouse.Point), Key: key}, nil
}
