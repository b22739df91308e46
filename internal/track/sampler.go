// Package track samples a propagator at a fixed cadence to build the short
// trajectory used for animation.
package track

import (
	"errors"
	"fmt"
	"time"

	"github.com/large-farva/satviz/internal/orbit"
)

// Defaults matching the animation front end: one point every 10 s of
// simulated time over 90 minutes, positions in thousands of km.
const (
	DefaultStep         = 10 * time.Second
	DefaultHorizon      = 90 * time.Minute
	DefaultDisplayScale = 1000.0
)

// Sample is one trajectory point.
type Sample struct {
	Time time.Time
	// Display-scaled TEME position.
	X, Y, Z float64
	Lat     float64
	Lon     float64
	Alt     float64 // km
}

// Sampler holds the fixed sampling policy. The step is a design constant,
// not derived from the orbital period.
type Sampler struct {
	Step         time.Duration
	Horizon      time.Duration
	DisplayScale float64
}

// NewSampler returns a Sampler with the default cadence.
func NewSampler() Sampler {
	return Sampler{Step: DefaultStep, Horizon: DefaultHorizon, DisplayScale: DefaultDisplayScale}
}

// Count is the number of samples Sample produces.
func (s Sampler) Count() int {
	if s.Step <= 0 {
		return 0
	}
	return int(s.Horizon / s.Step)
}

// Sample propagates p at start, start+Step, ... and returns Count() points
// in increasing time order. Any propagation error aborts the whole run.
func (s Sampler) Sample(p orbit.Propagator, start time.Time) ([]Sample, error) {
	if s.Step <= 0 {
		return nil, errors.New("sampler step must be positive")
	}
	if s.DisplayScale <= 0 {
		return nil, errors.New("sampler display scale must be positive")
	}

	n := s.Count()
	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * s.Step)
		st, err := p.Propagate(t)
		if err != nil {
			return nil, fmt.Errorf("sample %d of %d: %w", i, n, err)
		}
		gp := p.GroundTrack(st)
		pos := st.Position.Scale(s.DisplayScale)
		out = append(out, Sample{
			Time: t,
			X:    pos.X,
			Y:    pos.Y,
			Z:    pos.Z,
			Lat:  gp.Lat,
			Lon:  gp.Lon,
			Alt:  gp.Alt,
		})
	}
	return out, nil
}
