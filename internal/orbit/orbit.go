// Package orbit wraps SGP4 propagation behind a small interface so the
// rest of satviz can be exercised with deterministic fakes.
package orbit

import (
	"errors"
	"math"
	"time"

	"github.com/large-farva/satviz/internal/celestrak"
)

var (
	// ErrInvalidElements is returned when a TLE cannot be parsed.
	ErrInvalidElements = errors.New("invalid orbital elements")
	// ErrPropagation is returned when SGP4 yields a non-physical state,
	// typically for decayed objects or epochs far from the elements.
	ErrPropagation = errors.New("propagation failed")
)

// Vector is a Cartesian triple in kilometres (or km/s for velocities).
type Vector struct {
	X, Y, Z float64
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Scale divides every component by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X / f, Y: v.Y / f, Z: v.Z / f}
}

func (v Vector) finite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// State is an Earth-centred inertial position/velocity at one instant.
type State struct {
	Time     time.Time
	Position Vector // km
	Velocity Vector // km/s
}

// GroundPoint is the sub-satellite point.
type GroundPoint struct {
	Lat float64 // degrees North
	Lon float64 // degrees East, [-180, 180)
	Alt float64 // km above the ellipsoid
}

// Propagator computes states from one fixed set of elements. Implementations
// must be pure functions of the requested instant.
type Propagator interface {
	Propagate(t time.Time) (State, error)
	GroundTrack(s State) GroundPoint
}

// Cataloged is implemented by propagators that know their NORAD catalog
// number.
type Cataloged interface {
	NoradID() int
}

// Loader builds a Propagator from catalog elements.
type Loader func(el celestrak.Elements) (Propagator, error)
