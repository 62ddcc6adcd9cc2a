package storage

import (
	"github.com/roman-kulish/flight-aoa/internal/flight"
)

// Store provides an interface for saving and loading flight records.
// Operations run to completion before returning; a Store is not safe for
// concurrent use with the same session.
type Store interface {
	// Export appends every sample of the history to the file at path and
	// clears the history on success.
	//
	// Parameters:
	//   - path: Destination file, created with a header row if it does not exist
	//   - h: History to flush
	//
	// Returns:
	//   - rows: Number of rows written
	//   - error: *flight.FileWriteError on any I/O failure, the history is left unchanged
	Export(path string, h *flight.History) (rows int, err error)

	// Import reads flight records from path and evaluates each of them in the
	// session using the given airframe. Derived columns stored in the file are
	// ignored and recomputed.
	//
	// Parameters:
	//   - path: Source file
	//   - s: Session the records are evaluated into
	//   - a: Wing area and air density to evaluate with
	//
	// Returns:
	//   - rows: Number of records evaluated, including those before a failure
	//   - error: *flight.FileReadError if the file cannot be opened or parsed
	Import(path string, s *flight.Session, a flight.Airframe) (rows int, err error)
}
