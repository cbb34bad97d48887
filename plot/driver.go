package plot

import (
	"context"
	"image/color"

	"golang.org/x/image/math/fixed"
)

// Painter knows how to do the actual draw operations
// but doesn't need any plotting knowledge.
// In particular, transforms are already applied to the points
// before sending them to the Painter: they are in device units.
type Painter interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// Start starts a new sub path at the given point.
	Start(a fixed.Point26_6)

	// Line adds a line from the current point to `b`
	Line(b fixed.Point26_6)

	// Closes the sub path to its start point if `closeLoop` is true
	Stop(closeLoop bool)

	// SetStrokeOptions parametrizes the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)

	// SetColor sets the ink for the current path
	SetColor(c color.Color)

	// Stroke commits the accumulated path to the paint surface.
	Stroke() error
}

// Driver is implemented by every output backend.
// A Context only talks to its device through this interface.
type Driver interface {
	Painter

	// Open acquires the backend resources (window, output file).
	// A failure should be reported as a *ResourceError.
	Open() error

	// Close releases all the resources. It is called once per successful Open.
	Close() error

	// Flush makes the buffered drawing visible or durable.
	Flush() error

	// ChangePage advances to a fresh page or frame.
	ChangePage() error

	// DrawBackground paints the default background of the page.
	DrawBackground() error

	// ExpandClipping restricts the drawing to `clip`, in device units.
	// It is called each time the environment changes.
	ExpandClipping(clip fixed.Rectangle26_6)

	// InitNorm returns the physical size of the device, which
	// defines the mapping from normalized device coordinates.
	InitNorm() Size

	// InitBand prepares the resources needed by GetKeyPress for `mode`.
	InitBand(mode BandMode) error

	// GetKeyPress blocks until the user selects a point, `ctx` is done
	// or the device is closed. `anchor` is the fixed end of the rubber band,
	// and the cursor is first moved to it if `moveCursor` is true.
	GetKeyPress(ctx context.Context, mode BandMode, moveCursor bool, anchor fixed.Point26_6) (KeyPress, error)
}

// Size is the extent of a device, in device units.
type Size struct {
	Width, Height float64
}

// KeyPress is the result of an interactive capture.
type KeyPress struct {
	Point fixed.Point26_6 // device coordinates
	Key   rune
}

// NotInteractive may be embedded by backends without
// any input mechanism.
type NotInteractive struct{}

func (NotInteractive) InitBand(BandMode) error { return ErrNotInteractive }

func (NotInteractive) GetKeyPress(context.Context, BandMode, bool, fixed.Point26_6) (KeyPress, error) {
	return KeyPress{}, ErrNotInteractive
}

// BandMode selects the rubber band drawn during a capture.
type BandMode uint8

const (
	BandNone       BandMode = iota
	BandLine                // line from the anchor to the cursor
	BandRectangle           // rectangle with the anchor and the cursor as corners
	BandHorizontal          // horizontal lines through the anchor and the cursor
	BandVertical            // vertical lines through the anchor and the cursor
	BandCrossHair           // full width and height lines through the cursor
)

func (b BandMode) String() string {
	switch b {
	case BandNone:
		return "None"
	case BandLine:
		return "Line"
	case BandRectangle:
		return "Rectangle"
	case BandHorizontal:
		return "Horizontal"
	case BandVertical:
		return "Vertical"
	case BandCrossHair:
		return "CrossHair"
	default:
		return "<unknown BandMode>"
	}
}

// JoinMode type to specify how segments join.
type JoinMode uint8

const (
	Round JoinMode = iota
	Bevel
	Miter
)

func (s JoinMode) String() string {
	switch s {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	ButtCap CapMode = iota
	SquareCap
	RoundCap
)

func (c CapMode) String() string {
	switch c {
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	default:
		return "<unknown CapMode>"
	}
}

type DashOptions struct {
	Dash       []float64 // values for the dash pattern (nil or an empty slice for no dashes)
	DashOffset float64   // starting offset into the dash array
}

type StrokeOptions struct {
	LineWidth  fixed.Int26_6 // width of the line
	MiterLimit fixed.Int26_6
	Join       JoinMode
	Cap        CapMode
	Dash       DashOptions
}
