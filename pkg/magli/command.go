// Package magli reads and writes the primitive current-path commands of the
// MagLi magnetic field solver's spec files.
//
// Only two primitives exist: a straight line parallel to the z axis and a
// circular arc in a plane of constant z. All lengths are in meters and all
// angles in degrees. Every numeric field is written with five decimals.
package magli

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies a command primitive
type Kind int

const (
	// KindLine is a straight conductor parallel to the z axis
	KindLine Kind = iota
	// KindArc is a circular conductor in a plane of constant z
	KindArc
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is a single spec-file statement
type Command interface {
	Kind() Kind
	// String renders the statement, including the trailing ';' but no
	// newline.
	String() string
}

// LineCommand is a straight conductor parallel to the z axis
type LineCommand struct {
	Center   r3.Vec  // midpoint (m)
	Length   float64 // m
	Segments int
	Current  float64 // signed: positive flows towards +z
}

func (LineCommand) Kind() Kind { return KindLine }

func (c LineCommand) String() string {
	return fmt.Sprintf("line(2, %.5f, %.5f, %.5f, 0, 0, 0, %.5f, %.5f, %.5f);",
		c.Center.X, c.Center.Y, c.Center.Z, c.Length, float64(c.Segments), c.Current)
}

// ArcCommand is a circular conductor around the z axis at height CenterZ
type ArcCommand struct {
	CenterZ    float64 // m
	Radius     float64 // m
	StartAngle float64 // degrees
	EndAngle   float64 // degrees
	RotX       float64
	RotY       float64
	RotZ       float64
	Segments   int
	Current    float64
}

func (ArcCommand) Kind() Kind { return KindArc }

func (c ArcCommand) String() string {
	return fmt.Sprintf("arc(0, 0, 0, %.5f, %.5f, %.5f, %.5f, %.5f, %.5f, %.5f, %.5f, %.5f);",
		c.CenterZ, c.RotX, c.RotY, c.RotZ, c.StartAngle, c.EndAngle, c.Radius, float64(c.Segments), c.Current)
}

// Sweep returns the signed angular extent of the arc in degrees
func (c ArcCommand) Sweep() float64 {
	return c.EndAngle - c.StartAngle
}

// Write writes each command on its own line
func Write(w io.Writer, cmds []Command) (int, error) {
	n := 0
	for _, c := range cmds {
		if _, err := io.WriteString(w, c.String()+"\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Summary describes a command list
type Summary struct {
	Lines       int
	Arcs        int
	LineLength  float64 // total line length (m)
	ArcLength   float64 // total arc conductor length (m)
	MinZ, MaxZ  float64 // axial extent (m)
	MinRadius   float64 // m
	MaxRadius   float64 // m
	NetLineAmps float64 // sum of signed line currents
}

// Summarize totals a command list. Extents are zero for an empty list.
func Summarize(cmds []Command) Summary {
	s := Summary{
		MinZ: math.Inf(1), MaxZ: math.Inf(-1),
		MinRadius: math.Inf(1), MaxRadius: math.Inf(-1),
	}
	for _, c := range cmds {
		switch c := c.(type) {
		case LineCommand:
			s.Lines++
			s.LineLength += c.Length
			s.NetLineAmps += c.Current
			s.MinZ = math.Min(s.MinZ, c.Center.Z-c.Length/2)
			s.MaxZ = math.Max(s.MaxZ, c.Center.Z+c.Length/2)
			r := math.Hypot(c.Center.X, c.Center.Y)
			s.MinRadius = math.Min(s.MinRadius, r)
			s.MaxRadius = math.Max(s.MaxRadius, r)
		case ArcCommand:
			s.Arcs++
			s.ArcLength += math.Abs(c.Sweep()) * math.Pi / 180 * c.Radius
			s.MinZ = math.Min(s.MinZ, c.CenterZ)
			s.MaxZ = math.Max(s.MaxZ, c.CenterZ)
			s.MinRadius = math.Min(s.MinRadius, c.Radius)
			s.MaxRadius = math.Max(s.MaxRadius, c.Radius)
		}
	}
	if s.Lines+s.Arcs == 0 {
		s.MinZ, s.MaxZ, s.MinRadius, s.MaxRadius = 0, 0, 0, 0
	}
	return s
}
