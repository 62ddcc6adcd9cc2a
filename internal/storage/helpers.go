package storage

import (
	"strconv"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// formatFloat writes the shortest decimal that parses back to the same value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toRow(s flight.Sample) []string {
	return []string{
		formatFloat(s.VerticalSpeed),
		formatFloat(s.HorizontalSpeed),
		formatFloat(s.AoADeg),
		formatFloat(s.LiftForce),
		formatFloat(s.LiftCoefficient),
	}
}
