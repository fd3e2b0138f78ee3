package convert

import (
	"github.com/OpenTraceLab/magwrap/pkg/cylinder"
	"github.com/OpenTraceLab/magwrap/pkg/magli"
	"github.com/OpenTraceLab/magwrap/pkg/wire"
	"gonum.org/v1/gonum/spatial/r3"
)

// mmPerMeter converts board millimeters to solver meters
const mmPerMeter = 1000

// Reason explains why a wire has no command
type Reason int

const (
	// ReasonDegenerate marks a wire whose end points coincide
	ReasonDegenerate Reason = iota + 1
	// ReasonSkewed marks a wire that is neither axial nor circumferential
	ReasonSkewed
)

func (r Reason) String() string {
	switch r {
	case ReasonDegenerate:
		return "degenerate wire (both end points coincide)"
	case ReasonSkewed:
		return "skewed wire (neither axial nor circumferential)"
	}
	return "unknown"
}

// Classify returns the command kind w becomes once wrapped. A non-zero
// reason means w has no command and the kind is not meaningful.
func Classify(w wire.Wire) (magli.Kind, Reason) {
	switch {
	case w.IsDegenerate():
		return 0, ReasonDegenerate
	case w.IsArc() && w.Y1 != w.Y2:
		return 0, ReasonSkewed
	case w.IsArc():
		return magli.KindArc, 0
	}
	return magli.KindLine, 0
}

// Emitter turns single wires into commands
type Emitter struct {
	Cylinder cylinder.Cylinder
	Current  float64 // A, magnitude
	Segments int
}

// Emit classifies w and returns its command. When w has no representation
// the command is nil and the reason says why. An error is returned only for
// wires whose depth leaves no positive wrapping radius.
//
// Arc currents are written unsigned whatever the end-point order; only
// line currents take the sign of the wire direction.
func (e Emitter) Emit(w wire.Wire) (magli.Command, Reason, error) {
	kind, reason := Classify(w)
	if reason == ReasonDegenerate {
		return nil, reason, nil
	}

	m, err := e.Cylinder.ForDepth(w.Depth)
	if err != nil {
		return nil, 0, err
	}

	if reason != 0 {
		return nil, reason, nil
	}
	if kind == magli.KindArc {
		return magli.ArcCommand{
			CenterZ:    w.Y1 / mmPerMeter,
			Radius:     m.Radius / mmPerMeter,
			StartAngle: m.AngleAt(w.X1),
			EndAngle:   m.AngleAt(w.X2),
			Segments:   e.Segments,
			Current:    e.Current,
		}, 0, nil
	}

	px, py := m.PointAt(w.X1)
	current := e.Current
	if w.Y1 > w.Y2 {
		current = -current
	}
	return magli.LineCommand{
		Center:   r3.Scale(1.0/mmPerMeter, r3.Vec{X: px, Y: py, Z: (w.Y1 + w.Y2) / 2}),
		Length:   w.Length() / mmPerMeter,
		Segments: e.Segments,
		Current:  current,
	}, 0, nil
}
