// Package report assembles the JSON payloads returned to visualization
// clients. Everything here is a pure transformation with no I/O.
package report

import (
	"math"

	"github.com/large-farva/satviz/internal/orbit"
	"github.com/large-farva/satviz/internal/proximity"
	"github.com/large-farva/satviz/internal/track"
)

// SpeedOfLightKmS is used for the one-way signal latency estimate.
const SpeedOfLightKmS = 299792.458

// Hint is shown with every failure so users know what inputs work.
const Hint = "Try: ISS, Starlink, Hubble, NOAA, Tiangong"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type GroundTrack struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt"`
}

// Stats are rounded for display: altitude/latency/distance to 0.1,
// velocity to 0.01.
type Stats struct {
	Altitude float64 `json:"altitude"` // km
	Velocity float64 `json:"velocity"` // km/s
	Latency  float64 `json:"latency"`  // ms
	Distance float64 `json:"distance"` // km from Earth's centre
}

type TrajectoryPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt"`
}

// Response is the success payload for POST /.
type Response struct {
	Success     bool              `json:"success"`
	Name        string            `json:"name"`
	Position    Position          `json:"position"`
	GroundTrack GroundTrack       `json:"groundTrack"`
	Stats       Stats             `json:"stats"`
	Trajectory  []TrajectoryPoint `json:"trajectory"`
	CityPasses  []proximity.Pass  `json:"cityPasses"`
	Cities      []proximity.City  `json:"cities"`
}

// Failure is the error envelope. Success is always false.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Input carries everything computed for one request.
type Input struct {
	Name         string
	State        orbit.State
	Ground       orbit.GroundPoint
	DisplayScale float64
	Trajectory   []track.Sample
	Passes       []proximity.Pass
	Cities       []proximity.City
}

// Assemble builds the success payload. Slices in the result are never nil.
func Assemble(in Input) Response {
	scale := in.DisplayScale
	if scale <= 0 {
		scale = track.DefaultDisplayScale
	}
	pos := in.State.Position.Scale(scale)

	traj := make([]TrajectoryPoint, len(in.Trajectory))
	for i, s := range in.Trajectory {
		traj[i] = TrajectoryPoint{X: s.X, Y: s.Y, Z: s.Z, Lat: s.Lat, Lon: s.Lon, Alt: s.Alt}
	}

	passes := in.Passes
	if passes == nil {
		passes = []proximity.Pass{}
	}
	cities := in.Cities
	if cities == nil {
		cities = []proximity.City{}
	}

	return Response{
		Success:     true,
		Name:        in.Name,
		Position:    Position{X: pos.X, Y: pos.Y, Z: pos.Z},
		GroundTrack: GroundTrack{Lat: in.Ground.Lat, Lon: in.Ground.Lon, Alt: in.Ground.Alt},
		Stats:       ComputeStats(in.State, in.Ground),
		Trajectory:  traj,
		CityPasses:  passes,
		Cities:      cities,
	}
}

// ComputeStats derives the observer statistics from one state.
func ComputeStats(st orbit.State, gp orbit.GroundPoint) Stats {
	distance := st.Position.Norm()
	return Stats{
		Altitude: round(gp.Alt, 1),
		Velocity: round(st.Velocity.Norm(), 2),
		Latency:  round(distance/SpeedOfLightKmS*1000, 1),
		Distance: round(distance, 1),
	}
}

// Fail builds the error envelope for err.
func Fail(err error) Failure {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Failure{Success: false, Error: msg, Message: Hint}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
