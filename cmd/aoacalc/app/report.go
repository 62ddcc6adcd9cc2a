package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

const (
	stallWarningText = "Stall Warning! High AoA"
	inputErrorText   = "Input Error: Please enter valid numeric values."
)

// reporter writes the user facing messages of a run.
type reporter struct {
	out io.Writer
}

func (r reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

func (r reporter) result(s flight.Sample) {
	r.printf("AoA: %.2f°", s.AoADeg)
	r.printf("Lift: %.2f N", s.LiftForce)
	r.printf("Cl: %.2f", s.LiftCoefficient)
	if s.StallWarning() {
		r.printf(stallWarningText)
	}
}

func (r reporter) inputError() {
	r.printf(inputErrorText)
}

func (r reporter) loadError(err error) {
	r.printf("Failed to load file: %s", cause(err))
}

func (r reporter) saveError(err error) {
	r.printf("Could not save file: %s", cause(err))
}

func (r reporter) saved(path string) {
	r.printf("Flight data appended to %s", path)
}

// cause strips the path wrapper from file errors, the message already names
// the operation.
func cause(err error) error {
	var readErr *flight.FileReadError
	if errors.As(err, &readErr) {
		return readErr.Err
	}
	var writeErr *flight.FileWriteError
	if errors.As(err, &writeErr) {
		return writeErr.Err
	}
	return err
}
