package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing column")

// CSVSampleReader iterates over the records of a flight record file.
//
//	r, err := OpenCSVSampleReader(path)
//	...
//	defer r.Close()
//	for r.Next() {
//		rec := r.Current()
//	}
//	if err := r.Error(); err != nil { ... }
type CSVSampleReader struct {
	closer io.Closer
	reader *csv.Reader

	verticalIdx   int
	horizontalIdx int

	current Record
	done    bool
	err     error
}

// OpenCSVSampleReader opens the file at path and reads its header.
func OpenCSVSampleReader(path string) (*CSVSampleReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	sr, err := NewCSVSampleReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sr.closer = f
	return sr, nil
}

// NewCSVSampleReader reads the header from r and returns a reader positioned
// on the first record. An empty input yields no records and no error.
func NewCSVSampleReader(r io.Reader) (*CSVSampleReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows are matched to the header by name
	cr.ReuseRecord = true

	sr := &CSVSampleReader{reader: cr}
	if err := sr.readHeader(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	return sr, nil
}

func (sr *CSVSampleReader) readHeader() error {
	header, err := sr.reader.Read()
	if errors.Is(err, io.EOF) {
		sr.done = true
		return nil
	}
	if err != nil {
		return err
	}

	sr.verticalIdx, sr.horizontalIdx = -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		switch name {
		case ColumnVerticalSpeed:
			if sr.verticalIdx < 0 {
				sr.verticalIdx = i
			}
		case ColumnHorizontalSpeed:
			if sr.horizontalIdx < 0 {
				sr.horizontalIdx = i
			}
		}
	}

	if sr.verticalIdx < 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, ColumnVerticalSpeed)
	}
	if sr.horizontalIdx < 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, ColumnHorizontalSpeed)
	}
	return nil
}

// Next advances to the next record. It returns false at the end of the input
// or on the first malformed row; Error distinguishes the two.
func (sr *CSVSampleReader) Next() bool {
	if sr.done || sr.err != nil {
		return false
	}

	row, err := sr.reader.Read()
	if errors.Is(err, io.EOF) {
		sr.done = true
		return false
	}
	if err != nil {
		sr.err = err
		return false
	}

	line, _ := sr.reader.FieldPos(0)

	vertical, err := sr.field(row, sr.verticalIdx, ColumnVerticalSpeed, line)
	if err != nil {
		sr.err = err
		return false
	}
	horizontal, err := sr.field(row, sr.horizontalIdx, ColumnHorizontalSpeed, line)
	if err != nil {
		sr.err = err
		return false
	}

	sr.current = Record{
		Line:            line,
		VerticalSpeed:   vertical,
		HorizontalSpeed: horizontal,
	}
	return true
}

func (sr *CSVSampleReader) field(row []string, idx int, column string, line int) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("line %d: no %s value", line, column)
	}
	v, err := flight.ParseNumber(row[idx])
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s %q: %w", line, column, row[idx], err)
	}
	return v, nil
}

// Current returns the record read by the last successful call to Next.
func (sr *CSVSampleReader) Current() Record {
	return sr.current
}

// Error returns the error that stopped the iteration, if any.
func (sr *CSVSampleReader) Error() error {
	return sr.err
}

// Close releases the underlying file, if the reader owns one.
func (sr *CSVSampleReader) Close() error {
	sr.done = true
	if sr.closer != nil {
		err := sr.closer.Close()
		sr.closer = nil
		return err
	}
	return nil
}
