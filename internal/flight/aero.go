package flight

import "math"

const (
	DefaultAirDensity = 1.225 // kg/m³, ISA sea level
	StallAngle        = 15.0  // degrees, stall warning is raised strictly above it
)

// ComputeAoA returns the angle of attack in radians and degrees derived from
// the vertical and horizontal speed components.
//
// A zero horizontal speed is pinned to exactly 90° whatever the vertical speed,
// zero included. Otherwise a single-quadrant arctangent is used, so the sign of
// the horizontal speed does not change the quadrant.
func ComputeAoA(verticalSpeed, horizontalSpeed float64) (rad, deg float64) {
	if horizontalSpeed == 0 {
		return math.Pi / 2, 90.0
	}
	rad = math.Atan(verticalSpeed / horizontalSpeed)
	return rad, degrees(rad)
}

func degrees(rad float64) float64 {
	return rad * (180 / math.Pi)
}

// LiftCoefficient is the thin-airfoil approximation Cl = 2π·α.
func LiftCoefficient(aoaRad float64) float64 {
	return 2 * math.Pi * aoaRad
}

// ComputeLift returns the lift force in newtons: ½·ρ·V²·S·Cl.
// No constraints are applied to the sign or magnitude of any argument.
func ComputeLift(airDensity, wingArea, vTotal, cl float64) float64 {
	return 0.5 * airDensity * vTotal * vTotal * wingArea * cl
}
