package storage

import "github.com/roman-kulish/flight-aoa/internal/flight"

// Column names of the flight record file.
const (
	ColumnVerticalSpeed   = "VerticalSpeed"
	ColumnHorizontalSpeed = "HorizontalSpeed"
	ColumnAoA             = "AoA"
	ColumnLift            = "Lift"
	ColumnCl              = "Cl"
)

// Header is the header row written to newly created files.
var Header = []string{ColumnVerticalSpeed, ColumnHorizontalSpeed, ColumnAoA, ColumnLift, ColumnCl}

// Record is a single row read back from a flight record file. Only the speed
// components are kept, anything derived from them is recomputed on import.
type Record struct {
	Line            int     // 1-based line number in the source file
	VerticalSpeed   float64 // m/s
	HorizontalSpeed float64 // m/s
}

// Inputs combines the record with an airframe.
func (r Record) Inputs(a flight.Airframe) flight.Inputs {
	return a.Inputs(r.VerticalSpeed, r.HorizontalSpeed)
}
