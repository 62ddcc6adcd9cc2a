package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

const defaultFileMode fs.FileMode = 0o644

// WithFileMode sets the permissions used when a new file is created.
func WithFileMode(mode fs.FileMode) func(*CSVStore) {
	return func(s *CSVStore) {
		s.fileMode = mode
	}
}

// WithCRLF terminates rows with \r\n instead of \n.
func WithCRLF(useCRLF bool) func(*CSVStore) {
	return func(s *CSVStore) {
		s.useCRLF = useCRLF
	}
}

// CSVStore keeps flight records in flat CSV files. Files are only ever
// appended to; the header row is written when a file is created.
type CSVStore struct {
	fileMode fs.FileMode
	useCRLF  bool
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore creates a new CSV store.
func NewCSVStore(options ...func(*CSVStore)) *CSVStore {
	s := CSVStore{fileMode: defaultFileMode}
	for _, option := range options {
		option(&s)
	}
	return &s
}

// Export appends the history to path and clears it once every row is written.
func (s *CSVStore) Export(path string, h *flight.History) (int, error) {
	samples := h.Samples()
	if err := s.appendRows(path, samples); err != nil {
		return 0, &flight.FileWriteError{Path: path, Err: err}
	}

	h.Clear()
	return len(samples), nil
}

func (s *CSVStore) appendRows(path string, samples []flight.Sample) (err error) {
	writeHeader := false
	if _, statErr := os.Stat(path); statErr != nil {
		if !errors.Is(statErr, fs.ErrNotExist) {
			return fmt.Errorf("checking file: %w", statErr)
		}
		writeHeader = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, s.fileMode)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer closeWithError(f, &err)

	w := csv.NewWriter(f)
	w.UseCRLF = s.useCRLF

	if writeHeader {
		if err = w.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, sample := range samples {
		if err = w.Write(toRow(sample)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("flushing rows: %w", err)
	}
	return nil
}

// Import evaluates every record of path in the session. Records evaluated
// before a malformed row stay in the session.
func (s *CSVStore) Import(path string, sess *flight.Session, a flight.Airframe) (rows int, err error) {
	r, err := OpenCSVSampleReader(path)
	if err != nil {
		return 0, &flight.FileReadError{Path: path, Err: err}
	}
	defer func() {
		if cErr := r.Close(); cErr != nil && err == nil {
			err = &flight.FileReadError{Path: path, Err: fmt.Errorf("closing file: %w", cErr)}
		}
	}()

	for r.Next() {
		sess.Evaluate(r.Current().Inputs(a))
		rows++
	}
	if err = r.Error(); err != nil {
		return rows, &flight.FileReadError{Path: path, Err: err}
	}
	return rows, nil
}
