package plot

import (
	"fmt"
	"strings"
)

// This file defines the basic path structure

// Point is a position in any of the coordinate spaces.
type Point struct{ X, Y float64 }

// Operation groups the different path commands
type Operation interface {
	// add itself on the painter `p`, after applying the transform `M`
	drawTo(p Painter, M Matrix2D)
}

type MoveTo Point

type LineTo Point

type Close struct{}

// starts a new sub path at the given point.
func (op MoveTo) drawTo(p Painter, M Matrix2D) {
	p.Start(fToFixed(M.Transform(op.X, op.Y)))
}

// draw a line
func (op LineTo) drawTo(p Painter, M Matrix2D) {
	p.Line(fToFixed(M.Transform(op.X, op.Y)))
}

func (op Close) drawTo(p Painter, _ Matrix2D) {
	p.Stop(true)
}

// Path describes a sequence of basic operations, expressed
// in the coordinates of the transform installed when it is stroked.
type Path []Operation

// String returns a readable, SVG like, representation of a Path.
func (p Path) String() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%4.3f,%4.3f", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%4.3f,%4.3f", op.X, op.Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// MoveTo starts a new sub path at the given point.
func (p *Path) MoveTo(x, y float64) {
	*p = append(*p, MoveTo{x, y})
}

// LineTo adds a linear segment to the current sub path.
func (p *Path) LineTo(x, y float64) {
	*p = append(*p, LineTo{x, y})
}

// Close joins the ends of the current sub path.
func (p *Path) Close() {
	*p = append(*p, Close{})
}
