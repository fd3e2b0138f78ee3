// Package cylinder maps board-plane x coordinates onto a cylinder the board
// is wrapped around.
//
// Wrapping a flat sheet onto a cylinder preserves distances measured along
// the surface, so a displacement dx across the board becomes an arc of the
// same length: dx / r radians at radius r. An AngleReference pins one board
// x coordinate to a known angle; every other angle follows from it.
package cylinder

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRadius is returned when a radius is zero, negative or not finite
var ErrInvalidRadius = errors.New("cylinder radius must be positive")

// AngleReference anchors board x coordinate X at angle Degrees
type AngleReference struct {
	X       float64 // board x coordinate (mm)
	Degrees float64 // angle around the cylinder axis at X
}

// Mapping converts board x coordinates at one fixed radius
type Mapping struct {
	Ref    AngleReference
	Radius float64 // mm
}

// New returns a mapping at radius, anchored at ref
func New(ref AngleReference, radius float64) (Mapping, error) {
	if err := checkRadius(radius); err != nil {
		return Mapping{}, err
	}
	return Mapping{Ref: ref, Radius: radius}, nil
}

func checkRadius(radius float64) error {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidRadius, radius)
	}
	return nil
}

// AngleAt returns the angle, in degrees, of board coordinate x
func (m Mapping) AngleAt(x float64) float64 {
	return m.Ref.Degrees + 360*(x-m.Ref.X)/(2*math.Pi*m.Radius)
}

// PointAt returns the cross-section position of board coordinate x
func (m Mapping) PointAt(x float64) (px, py float64) {
	sin, cos := math.Sincos(AngleToRadians(m.AngleAt(x)))
	return m.Radius * cos, m.Radius * sin
}

// Cylinder is the wrapping surface shared by every wire of a board
type Cylinder struct {
	Radius float64 // outer surface radius (mm)
	Ref    AngleReference
}

// Validate checks the outer radius
func (c Cylinder) Validate() error {
	return checkRadius(c.Radius)
}

// EffectiveRadius is the radius a trace depth mm below the outer surface
// wraps at
func (c Cylinder) EffectiveRadius(depth float64) float64 {
	return c.Radius - depth
}

// ForDepth returns the mapping for traces depth mm below the outer surface.
// It fails when the depth reaches the cylinder axis.
func (c Cylinder) ForDepth(depth float64) (Mapping, error) {
	r := c.EffectiveRadius(depth)
	if err := checkRadius(r); err != nil {
		return Mapping{}, fmt.Errorf("depth %g mm on a %g mm cylinder: %w", depth, c.Radius, err)
	}
	return Mapping{Ref: c.Ref, Radius: r}, nil
}

// AngleToRadians converts degrees to radians
func AngleToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
