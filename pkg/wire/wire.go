// Package wire models a single straight copper trace on a flat board.
//
// Coordinates are board-plane millimeters: x runs across the board and
// becomes the circumferential direction once the board is wrapped onto a
// cylinder, y runs along the board and becomes the cylinder axis. Current
// is taken to flow from (X1, Y1) to (X2, Y2).
package wire

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is returned by Validate for geometry that cannot be wrapped
var ErrInvalid = errors.New("invalid wire")

// Wire is one straight trace segment. It is a plain value and is never
// modified after construction.
type Wire struct {
	X1, Y1 float64 // end the current flows from (mm)
	X2, Y2 float64 // end the current flows to (mm)
	Width  float64 // trace width (mm)

	// Depth is the offset from the board's outer wrapped surface towards
	// the cylinder axis: 0 for outer-face traces, the board thickness for
	// inner-face traces.
	Depth float64

	Layer string // source layer name, informational
	Net   string // source net name, informational
}

// New returns a wire from (x1, y1) to (x2, y2)
func New(x1, y1, x2, y2, width, depth float64) Wire {
	return Wire{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Depth: depth}
}

// IsArc reports whether the wire turns into a curve when wrapped, i.e. its
// end points differ in the circumferential direction.
func (w Wire) IsArc() bool {
	return w.X1 != w.X2
}

// IsDegenerate reports whether both end points coincide
func (w Wire) IsDegenerate() bool {
	return w.X1 == w.X2 && w.Y1 == w.Y2
}

// Length is the flat-board length of the wire
func (w Wire) Length() float64 {
	return math.Hypot(w.X2-w.X1, w.Y2-w.Y1)
}

// Reversed returns the same trace with the current direction swapped
func (w Wire) Reversed() Wire {
	w.X1, w.Y1, w.X2, w.Y2 = w.X2, w.Y2, w.X1, w.Y1
	return w
}

// Validate checks that every field is finite and the width is positive
func (w Wire) Validate() error {
	for _, v := range []float64{w.X1, w.Y1, w.X2, w.Y2, w.Width, w.Depth} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v: non-finite coordinate", ErrInvalid, w)
		}
	}
	if w.Width <= 0 {
		return fmt.Errorf("%w: %v: width must be positive", ErrInvalid, w)
	}
	if w.Depth < 0 {
		return fmt.Errorf("%w: %v: depth must not be negative", ErrInvalid, w)
	}
	return nil
}

func (w Wire) String() string {
	s := fmt.Sprintf("%g mm wide wire from (%g, %g) to (%g, %g), %g mm from the outer surface",
		w.Width, w.X1, w.Y1, w.X2, w.Y2, w.Depth)
	if w.Layer != "" {
		s += " on " + w.Layer
	}
	if w.Net != "" {
		s += " net " + w.Net
	}
	return s
}
