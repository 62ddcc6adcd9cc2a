package plot

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

const (
	hueStart = 236.0 // blue, level flight
	hueEnd   = 0.0   // red, at or past the stall angle
)

var (
	lineColor = drawing.ColorFromHex("1f77b4")
	gridColor = drawing.ColorFromHex("dddddd")
)

// aoaColor maps an angle of attack onto a blue to red hue ramp that reaches
// red at flight.StallAngle. Negative angles stay blue.
func aoaColor(aoaDeg float64) drawing.Color {
	hPerDeg := (hueStart - hueEnd) / flight.StallAngle

	hue := hueStart - aoaDeg*hPerDeg
	hue = math.Min(math.Max(hue, hueEnd), hueStart)

	r, g, b := colorful.Hsv(hue, 1, 0.90).RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

// markerColor colours each marker by its x value, the angle of attack.
func markerColor(_, _ chart.Range, _ int, x, _ float64) drawing.Color {
	return aoaColor(x)
}
