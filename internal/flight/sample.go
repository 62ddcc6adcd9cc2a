package flight

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Airframe holds the parameters that stay fixed between evaluations of
// different speed readings.
type Airframe struct {
	WingArea   float64 `yaml:"wingArea" json:"wingArea"`     // Wing area in m²
	AirDensity float64 `yaml:"airDensity" json:"airDensity"` // Air density in kg/m³
}

// DefaultAirframe returns an airframe with no wing area and sea level air density.
func DefaultAirframe() Airframe {
	return Airframe{AirDensity: DefaultAirDensity}
}

// Inputs combines the airframe with a pair of speed components.
func (a Airframe) Inputs(verticalSpeed, horizontalSpeed float64) Inputs {
	return Inputs{
		VerticalSpeed:   verticalSpeed,
		HorizontalSpeed: horizontalSpeed,
		WingArea:        a.WingArea,
		AirDensity:      a.AirDensity,
	}
}

// Inputs are the four scalars a single evaluation is computed from.
type Inputs struct {
	VerticalSpeed   float64 // m/s, signed
	HorizontalSpeed float64 // m/s, signed, zero is allowed
	WingArea        float64 // m²
	AirDensity      float64 // kg/m³
}

// Airframe returns the airframe part of the inputs.
func (in Inputs) Airframe() Airframe {
	return Airframe{WingArea: in.WingArea, AirDensity: in.AirDensity}
}

// RawInputs are the inputs as typed by the user, before parsing.
type RawInputs struct {
	VerticalSpeed   string
	HorizontalSpeed string
	WingArea        string
	AirDensity      string
}

// ParseInputs converts raw text fields into Inputs. Every field must parse as a
// finite real number; the first field that does not is reported in an
// *InvalidInputError.
func ParseInputs(raw RawInputs) (Inputs, error) {
	var in Inputs
	err := parseFields([]field{
		{"vertical speed", raw.VerticalSpeed, &in.VerticalSpeed},
		{"horizontal speed", raw.HorizontalSpeed, &in.HorizontalSpeed},
		{"wing area", raw.WingArea, &in.WingArea},
		{"air density", raw.AirDensity, &in.AirDensity},
	})
	if err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// ParseAirframe is ParseInputs for the airframe fields alone.
func ParseAirframe(wingArea, airDensity string) (Airframe, error) {
	var a Airframe
	err := parseFields([]field{
		{"wing area", wingArea, &a.WingArea},
		{"air density", airDensity, &a.AirDensity},
	})
	if err != nil {
		return Airframe{}, err
	}
	return a, nil
}

type field struct {
	name  string
	value string
	dst   *float64
}

func parseFields(fields []field) error {
	for _, f := range fields {
		v, err := ParseNumber(f.value)
		if err != nil {
			return &InvalidInputError{Field: f.name, Value: f.value, Err: err}
		}
		*f.dst = v
	}
	return nil
}

// ParseNumber parses a single decimal field. Surrounding whitespace is ignored.
// A sign, a fraction, an exponent and underscores between digits ("1_000")
// are accepted. Hexadecimal notation is not.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if isHex(s) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// Sample is one evaluated flight record.
type Sample struct {
	VerticalSpeed   float64 `json:"verticalSpeed"`   // m/s
	HorizontalSpeed float64 `json:"horizontalSpeed"` // m/s
	WingArea        float64 `json:"wingArea"`        // m²
	AirDensity      float64 `json:"airDensity"`      // kg/m³

	AoARad          float64 `json:"aoaRad"`          // Angle of attack in radians
	AoADeg          float64 `json:"aoaDeg"`          // Angle of attack in degrees
	LiftCoefficient float64 `json:"liftCoefficient"` // Thin-airfoil Cl
	LiftForce       float64 `json:"liftForce"`       // Lift in newtons
}

// Calculate evaluates inputs without recording the result anywhere.
func Calculate(in Inputs) Sample {
	vTotal := math.Hypot(in.VerticalSpeed, in.HorizontalSpeed)
	rad, deg := ComputeAoA(in.VerticalSpeed, in.HorizontalSpeed)
	cl := LiftCoefficient(rad)

	return Sample{
		VerticalSpeed:   in.VerticalSpeed,
		HorizontalSpeed: in.HorizontalSpeed,
		WingArea:        in.WingArea,
		AirDensity:      in.AirDensity,
		AoARad:          rad,
		AoADeg:          deg,
		LiftCoefficient: cl,
		LiftForce:       ComputeLift(in.AirDensity, in.WingArea, vTotal, cl),
	}
}

// VTotal returns the magnitude of the velocity vector in m/s.
func (s Sample) VTotal() float64 {
	return math.Hypot(s.VerticalSpeed, s.HorizontalSpeed)
}

// StallWarning reports whether the angle of attack is above StallAngle.
func (s Sample) StallWarning() bool {
	return s.AoADeg > StallAngle
}

func (s Sample) String() string {
	return fmt.Sprintf("AoA=%.2f° Cl=%.2f Lift=%.2fN", s.AoADeg, s.LiftCoefficient, s.LiftForce)
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
