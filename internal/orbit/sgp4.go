package orbit

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"
	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/large-farva/satviz/internal/celestrak"
)

const (
	tleLineLength = 69
	radToDeg      = 180.0 / math.Pi

	// Anything closer to the geocentre than this is a decayed or garbage state.
	minRadiusKm = 1000.0
)

// SGP4 propagates one TLE. Elements are checked with akhenakh/sgp4 before
// go-satellite sees them; go-satellite panics on fields it cannot read.
type SGP4 struct {
	name    string
	noradID int
	sat     satellite.Satellite
}

// NewSGP4 validates el and prepares it for propagation with WGS72 constants.
func NewSGP4(el celestrak.Elements) (*SGP4, error) {
	if err := checkLine(el.Line1, '1'); err != nil {
		return nil, fmt.Errorf("%w: line 1: %v", ErrInvalidElements, err)
	}
	if err := checkLine(el.Line2, '2'); err != nil {
		return nil, fmt.Errorf("%w: line 2: %v", ErrInvalidElements, err)
	}

	tle, err := sgp4.ParseTLE(el.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidElements, err)
	}

	sat, err := toSat(el)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(tle.Name)
	if name == "" {
		name = el.Title
	}
	return &SGP4{name: name, noradID: tle.SatelliteNumber, sat: sat}, nil
}

// LoadSGP4 adapts NewSGP4 to the Loader signature.
func LoadSGP4(el celestrak.Elements) (Propagator, error) {
	return NewSGP4(el)
}

// NoradID is the catalog number from line 1.
func (p *SGP4) NoradID() int { return p.noradID }

// Propagate returns the TEME state at t, truncated to whole seconds.
func (p *SGP4) Propagate(t time.Time) (State, error) {
	t = t.UTC().Truncate(time.Second)
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	pos, vel := satellite.Propagate(p.sat, year, int(month), day, hour, minute, sec)

	st := State{
		Time:     t,
		Position: Vector{X: pos.X, Y: pos.Y, Z: pos.Z},
		Velocity: Vector{X: vel.X, Y: vel.Y, Z: vel.Z},
	}
	if !st.Position.finite() || !st.Velocity.finite() || st.Position.Norm() < minRadiusKm {
		return State{}, fmt.Errorf("%w: %s at %s", ErrPropagation, p.name, t.Format(time.RFC3339))
	}
	return st, nil
}

// GroundTrack rotates the state into the Earth-fixed frame using sidereal
// time at s.Time and returns geodetic latitude, longitude and altitude.
func (p *SGP4) GroundTrack(s State) GroundPoint {
	t := s.Time.UTC()
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	jd := satellite.JDay(year, int(month), day, hour, minute, sec)
	gmst := satellite.ThetaG_JD(jd)

	alt, _, ll := satellite.ECIToLLA(satellite.Vector3{X: s.Position.X, Y: s.Position.Y, Z: s.Position.Z}, gmst)
	return GroundPoint{
		Lat: ll.Latitude * radToDeg,
		Lon: normalizeLon(ll.Longitude * radToDeg),
		Alt: alt,
	}
}

func normalizeLon(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}

func checkLine(line string, want byte) error {
	if len(line) < tleLineLength {
		return fmt.Errorf("want %d characters, got %d", tleLineLength, len(line))
	}
	if line[0] != want || line[1] != ' ' {
		return fmt.Errorf("must start with %q", string(want)+" ")
	}
	return nil
}

func toSat(el celestrak.Elements) (sat satellite.Satellite, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidElements, r)
		}
	}()
	return satellite.TLEToSat(el.Line1, el.Line2, satellite.GravityWGS72), nil
}
