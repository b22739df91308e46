package track

import (
	"errors"
	"testing"
	"time"

	"github.com/large-farva/satviz/internal/orbit"
)

// linearPropagator moves along X at 1 km/s and reports the elapsed seconds
// as latitude, so sample times can be read back from the output.
type linearPropagator struct {
	epoch  time.Time
	failAt int // call index that fails, -1 for never
	calls  int
}

func (p *linearPropagator) Propagate(t time.Time) (orbit.State, error) {
	defer func() { p.calls++ }()
	if p.calls == p.failAt {
		return orbit.State{}, orbit.ErrPropagation
	}
	dt := t.Sub(p.epoch).Seconds()
	return orbit.State{
		Time:     t,
		Position: orbit.Vector{X: 7000 + dt, Y: 2000, Z: -1000},
		Velocity: orbit.Vector{X: 1},
	}, nil
}

func (p *linearPropagator) GroundTrack(s orbit.State) orbit.GroundPoint {
	return orbit.GroundPoint{Lat: s.Time.Sub(p.epoch).Seconds(), Lon: -10, Alt: 420}
}

func TestSampleCountAndSpacing(t *testing.T) {
	start := time.Date(2025, 5, 18, 9, 0, 0, 0, time.UTC)

	for _, minutes := range []int{1, 15, 90} {
		s := NewSampler()
		s.Horizon = time.Duration(minutes) * time.Minute
		p := &linearPropagator{epoch: start, failAt: -1}

		samples, err := s.Sample(p, start)
		if err != nil {
			t.Fatalf("%d min: %v", minutes, err)
		}
		if len(samples) != minutes*6 {
			t.Fatalf("%d min: got %d samples, want %d", minutes, len(samples), minutes*6)
		}
		for i, smp := range samples {
			want := start.Add(time.Duration(i) * 10 * time.Second)
			if !smp.Time.Equal(want) {
				t.Fatalf("sample %d at %v, want %v", i, smp.Time, want)
			}
			if smp.Lat != float64(i*10) {
				t.Fatalf("sample %d propagated at +%vs, want +%ds", i, smp.Lat, i*10)
			}
		}
	}
}

func TestSampleDefaultHorizonIs540(t *testing.T) {
	if got := NewSampler().Count(); got != 540 {
		t.Errorf("Count() = %d, want 540", got)
	}
}

func TestSampleScalesPosition(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	s := Sampler{Step: 10 * time.Second, Horizon: 20 * time.Second, DisplayScale: 1000}

	samples, err := s.Sample(&linearPropagator{epoch: start, failAt: -1}, start)
	if err != nil {
		t.Fatal(err)
	}
	first := samples[0]
	if first.X != 7 || first.Y != 2 || first.Z != -1 {
		t.Errorf("scaled position = (%v, %v, %v), want (7, 2, -1)", first.X, first.Y, first.Z)
	}
	if samples[1].X != 7.01 {
		t.Errorf("second sample X = %v, want 7.01", samples[1].X)
	}
	if first.Lon != -10 || first.Alt != 420 {
		t.Errorf("ground track not carried: %+v", first)
	}
}

func TestSampleFailsWhole(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	s := NewSampler()

	samples, err := s.Sample(&linearPropagator{epoch: start, failAt: 3}, start)
	if !errors.Is(err, orbit.ErrPropagation) {
		t.Fatalf("expected ErrPropagation, got %v", err)
	}
	if samples != nil {
		t.Errorf("expected no partial samples, got %d", len(samples))
	}
}

func TestSampleRejectsBadPolicy(t *testing.T) {
	p := &linearPropagator{failAt: -1}
	if _, err := (Sampler{Step: 0, Horizon: time.Minute, DisplayScale: 1}).Sample(p, time.Now()); err == nil {
		t.Error("expected error for zero step")
	}
	if _, err := (Sampler{Step: time.Second, Horizon: time.Minute, DisplayScale: 0}).Sample(p, time.Now()); err == nil {
		t.Error("expected error for zero scale")
	}
}
