package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	boundsMargin   = 0.1  // fraction of the data span added on both sides
	pixelsPerLabel = 90.0 // target distance between tick labels
	maxTicks       = 1000

	// maxPlotValue keeps every axis span, margins and snapping included,
	// well inside the float64 range.
	maxPlotValue = 1e300
)

// plottable reports whether v can be placed on an axis.
func plottable(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= maxPlotValue
}

// Bounds is a closed axis interval.
type Bounds struct {
	Min float64
	Max float64
}

// Span returns the width of the interval.
func (b Bounds) Span() float64 {
	return b.Max - b.Min
}

func (b Bounds) valid() bool {
	return b.Min < b.Max && !math.IsInf(b.Span(), 0) && !math.IsNaN(b.Span())
}

// Range converts the bounds into a go-chart range.
func (b Bounds) Range() *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: b.Min, Max: b.Max}
}

// dataBounds returns the extent of values widened by a 10% margin. The span
// is never narrower than minSpan, so a single value still gets an axis.
// Values that cannot be plotted are left out.
func dataBounds(values []float64, minSpan float64) Bounds {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !plottable(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return Bounds{Min: -minSpan / 2, Max: minSpan / 2}
	}

	if hi-lo < minSpan {
		center := (hi + lo) / 2
		lo = center - minSpan/2
		hi = center + minSpan/2
	}

	margin := (hi - lo) * boundsMargin
	return Bounds{Min: lo - margin, Max: hi + margin}
}

// niceStep picks a 1, 2 or 5 times power of ten step giving roughly one label
// per pixelsPerLabel pixels.
func niceStep(span float64, pixels int) float64 {
	if !(span > 0) || math.IsInf(span, 0) || pixels <= 0 {
		return 1
	}

	desiredSteps := math.Max(float64(pixels)/pixelsPerLabel, 2)
	targetStep := span / desiredSteps

	mag := math.Pow(10, math.Floor(math.Log10(targetStep)))
	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * mag; step >= targetStep {
			return step
		}
	}
	return 10 * mag
}

// snap widens b outwards to the nearest multiples of step.
func (b Bounds) snap(step float64) Bounds {
	return Bounds{
		Min: math.Floor(b.Min/step) * step,
		Max: math.Ceil(b.Max/step) * step,
	}
}

// axis snaps b to a nice step for an axis of the given length in pixels and
// lays out a labelled tick on every step. go-chart stretches the axis to the
// first and last tick, so both ends of the snapped bounds get one.
func axis(b Bounds, pixels int) (Bounds, []chart.Tick) {
	if !b.valid() {
		b = Bounds{Min: -1, Max: 1}
	}

	step := niceStep(b.Span(), pixels)
	snapped := b.snap(step)
	n := math.Round(snapped.Span() / step)
	if !snapped.valid() || !(n >= 1 && n <= maxTicks) {
		return b, edgeTicks(b)
	}
	b = snapped
	format := labelFormat(step)

	out := make([]chart.Tick, 0, int(n)+1)
	for i := 0; i <= int(n); i++ {
		v := b.Min + float64(i)*step
		if math.Abs(v) < step*1e-9 {
			v = 0 // avoid "-0"
		}
		out = append(out, chart.Tick{Value: v, Label: format(v)})
	}
	return b, out
}

// edgeTicks labels only both ends of b.
func edgeTicks(b Bounds) []chart.Tick {
	format := labelFormat(b.Span())
	return []chart.Tick{
		{Value: b.Min, Label: format(b.Min)},
		{Value: b.Max, Label: format(b.Max)},
	}
}

// labelFormat returns a formatter with just enough decimals for step.
// Steps of a billion and more switch to exponent notation.
func labelFormat(step float64) func(float64) string {
	if step >= 1e9 {
		return func(v float64) string {
			return fmt.Sprintf("%.3g", v)
		}
	}

	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
	}
	return func(v float64) string {
		return fmt.Sprintf("%.*f", decimals, v)
	}
}
