// Package proximity reports which reference cities lie near a
// sub-satellite point.
//
// Distances are Euclidean in latitude/longitude degree space, not great
// circle. That is good enough for a coarse near/far overlay at moderate
// latitudes and is known to misjudge distances near the poles and across
// the antimeridian.
package proximity

import (
	"math"

	"github.com/large-farva/satviz/internal/orbit"
)

const (
	DefaultThresholdDegrees = 10.0
	DefaultKmPerDegree      = 111.0
)

// City is a named reference point.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Pass is a city close to the current ground track point.
type Pass struct {
	City     string  `json:"city"`
	Distance float64 `json:"distance"` // km, one decimal
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Analyzer matches ground points against a fixed city table.
type Analyzer struct {
	cities      []City
	threshold   float64
	kmPerDegree float64
}

// New copies cities (order preserved) into an Analyzer.
func New(cities []City, thresholdDegrees, kmPerDegree float64) *Analyzer {
	cp := make([]City, len(cities))
	copy(cp, cities)
	return &Analyzer{cities: cp, threshold: thresholdDegrees, kmPerDegree: kmPerDegree}
}

// Cities returns a copy of the reference table.
func (a *Analyzer) Cities() []City {
	cp := make([]City, len(a.cities))
	copy(cp, a.cities)
	return cp
}

// Near returns the cities strictly within the threshold of gp, in table
// order. The result is never nil.
func (a *Analyzer) Near(gp orbit.GroundPoint) []Pass {
	passes := []Pass{}
	for _, c := range a.cities {
		d := math.Hypot(gp.Lat-c.Lat, gp.Lon-c.Lon)
		if d >= a.threshold {
			continue
		}
		passes = append(passes, Pass{
			City:     c.Name,
			Distance: round(d*a.kmPerDegree, 1),
			Lat:      c.Lat,
			Lon:      c.Lon,
		})
	}
	return passes
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
