package plotwin

import (
	"context"
	"image"
	"math"

	"9fans.net/go/draw"
	"github.com/benoitkugler/okplot/plot"
)

// bandSegments returns the lines of the rubber band `mode`,
// for the given anchor and cursor positions, inside `bounds`.
func bandSegments(mode plot.BandMode, anchor, cursor image.Point, bounds image.Rectangle) [][2]image.Point {
	hline := func(y int) [2]image.Point {
		return [2]image.Point{{bounds.Min.X, y}, {bounds.Max.X - 1, y}}
	}
	vline := func(x int) [2]image.Point {
		return [2]image.Point{{x, bounds.Min.Y}, {x, bounds.Max.Y - 1}}
	}
	switch mode {
	case plot.BandLine:
		return [][2]image.Point{{anchor, cursor}}
	case plot.BandRectangle:
		r := image.Rectangle{Min: anchor, Max: cursor}.Canon()
		tl, tr := r.Min, image.Pt(r.Max.X, r.Min.Y)
		bl, br := image.Pt(r.Min.X, r.Max.Y), r.Max
		return [][2]image.Point{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
	case plot.BandHorizontal:
		return [][2]image.Point{hline(anchor.Y), hline(cursor.Y)}
	case plot.BandVertical:
		return [][2]image.Point{vline(anchor.X), vline(cursor.X)}
	case plot.BandCrossHair:
		return [][2]image.Point{hline(cursor.Y), vline(cursor.X)}
	default:
		return nil
	}
}

// buttonKey maps the mouse buttons to the keys
// reported by a capture: A, D and X for the left,
// middle and right buttons.
func buttonKey(buttons int) (rune, bool) {
	switch {
	case buttons&1 != 0:
		return 'A', true
	case buttons&2 != 0:
		return 'D', true
	case buttons&4 != 0:
		return 'X', true
	default:
		return 0, false
	}
}

// inputs are the event sources of a capture.
type inputs struct {
	mouse  <-chan draw.Mouse
	resize <-chan bool
	keys   <-chan rune
	done   <-chan struct{} // closed with the window
}

// waitKey returns the first mouse button pressed or key typed.
// `m` holds the last mouse state, and is updated by every event.
// `moved` is called for the other mouse events, and `resized`
// after each resize of the window.
func waitKey(ctx context.Context, in inputs, m *draw.Mouse, moved func(draw.Mouse), resized func() error) (rune, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-in.done:
			return 0, plot.ErrDeviceClosed
		case <-in.resize:
			if err := resized(); err != nil {
				return 0, err
			}
		case next := <-in.mouse:
			pressed := next.Buttons &^ m.Buttons
			*m = next
			if key, ok := buttonKey(pressed); ok {
				return key, nil
			}
			moved(next)
		case r := <-in.keys:
			return r, nil
		}
	}
}

// dashed splits the polyline `pts` into the "on" parts of
// `pattern`, started `offset` units into the pattern.
// An empty pattern returns the whole polyline.
func dashed(pts []image.Point, pattern []float64, offset float64) [][]image.Point {
	var total float64
	for _, d := range pattern {
		total += d
	}
	if len(pattern) == 0 || total <= 0 {
		return [][]image.Point{pts}
	}
	if len(pattern)%2 == 1 {
		pattern = append(pattern[:len(pattern):len(pattern)], pattern...)
		total *= 2
	}

	i, rem := 0, pattern[0]
	offset = math.Mod(offset, total)
	if offset < 0 {
		offset += total
	}
	for offset > 0 {
		if offset < rem {
			rem -= offset
			break
		}
		offset -= rem
		i = (i + 1) % len(pattern)
		rem = pattern[i]
	}

	var (
		out     [][]image.Point
		current []image.Point
	)
	for k := 1; k < len(pts); k++ {
		a, b := pts[k-1], pts[k]
		dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		at := func(pos float64) image.Point {
			t := pos / length
			return image.Pt(a.X+int(math.Round(dx*t)), a.Y+int(math.Round(dy*t)))
		}
		for pos := 0.; pos < length; {
			on := i%2 == 0
			step := math.Min(rem, length-pos)
			if on {
				if len(current) == 0 {
					current = append(current, at(pos))
				}
				current = append(current, at(pos+step))
			}
			pos += step
			rem -= step
			if rem <= 1e-9 {
				if on && len(current) >= 2 {
					out = append(out, current)
				}
				current = nil
				i = (i + 1) % len(pattern)
				rem = pattern[i]
			}
		}
	}
	if len(current) >= 2 {
		out = append(out, current)
	}
	return out
}
