package plot

import (
	"math"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

// Summary describes a series of samples for the chart info bar.
type Summary struct {
	Count   int
	Stalls  int // samples with a stall warning
	Skipped int // samples left off the chart, see Render

	MinAoA  float64 // degrees
	MaxAoA  float64 // degrees
	MinLift float64 // N
	MaxLift float64 // N
}

// Summarize computes the summary of samples. The zero Summary is returned for
// an empty series.
func Summarize(samples []flight.Sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	sum := Summary{
		MinAoA:  math.Inf(1),
		MaxAoA:  math.Inf(-1),
		MinLift: math.Inf(1),
		MaxLift: math.Inf(-1),
	}
	for _, s := range samples {
		sum.Count++
		if s.StallWarning() {
			sum.Stalls++
		}
		sum.MinAoA = math.Min(sum.MinAoA, s.AoADeg)
		sum.MaxAoA = math.Max(sum.MaxAoA, s.AoADeg)
		sum.MinLift = math.Min(sum.MinLift, s.LiftForce)
		sum.MaxLift = math.Max(sum.MaxLift, s.LiftForce)
	}
	return sum
}
