package physics

import "math"

// Conditions describes the atmosphere and wind for a shot. Zero value means
// calm standard conditions at sea level once normalized by AirDensity.
type Conditions struct {
	Temperature     float64 `json:"temperature"`      // Celsius
	Humidity        float64 `json:"humidity"`         // relative, 0..1
	Pressure        float64 `json:"pressure"`         // Pa; 0 = derive from altitude
	Altitude        float64 `json:"altitude"`         // m above sea level
	Wind            Vector3 `json:"wind"`             // m/s, same axes as the trajectory
	GroundElevation float64 `json:"ground_elevation"` // m, landing plane offset
}

const (
	seaLevelPressure = 101325.0 // Pa
	dryAirGasConst   = 287.058  // J/(kg*K)
	vaporGasConst    = 461.495  // J/(kg*K)
)

// AirDensity computes air density in kg/m^3 from the conditions using the
// standard atmosphere with a humidity partial-pressure correction.
// Out-of-range inputs are clamped to physical bounds so the result is
// always positive and finite.
func AirDensity(c Conditions) float64 {
	tempC := clamp(c.Temperature, -50, 60)
	humidity := clamp(c.Humidity, 0, 1)

	pressure := c.Pressure
	if pressure <= 0 {
		// Barometric formula from altitude
		alt := clamp(c.Altitude, -500, 9000)
		pressure = seaLevelPressure * math.Pow(1-2.25577e-5*alt, 5.25588)
	}
	pressure = clamp(pressure, 30000, 110000)

	tempK := tempC + 273.15

	// Tetens saturation vapor pressure, Pa
	satVapor := 610.78 * math.Exp(17.27*tempC/(tempC+237.3))
	vaporPressure := humidity * satVapor
	dryPressure := pressure - vaporPressure

	return dryPressure/(dryAirGasConst*tempK) + vaporPressure/(vaporGasConst*tempK)
}

// ReynoldsNumber for the ball at the given relative airspeed.
func (cfg EngineConfig) ReynoldsNumber(relSpeed, airDensity float64) float64 {
	return airDensity * relSpeed * 2 * cfg.BallRadius / cfg.AirViscosity
}

// dragCurve holds (Reynolds number, Cd) knots. A dimpled ball trips the
// boundary layer early, so Cd drops sharply through the transition regime.
var dragCurve = [...][2]float64{
	{2.0e4, 0.55},
	{5.0e4, 0.50},
	{7.5e4, 0.28},
	{1.0e5, 0.25},
	{2.0e5, 0.24},
}

// DragCoefficient interpolates the drag curve at the given Reynolds number,
// clamping outside the tabulated range.
func DragCoefficient(reynolds float64) float64 {
	if reynolds <= dragCurve[0][0] {
		return dragCurve[0][1]
	}
	last := len(dragCurve) - 1
	if reynolds >= dragCurve[last][0] {
		return dragCurve[last][1]
	}
	for i := 1; i <= last; i++ {
		if reynolds <= dragCurve[i][0] {
			lo, hi := dragCurve[i-1], dragCurve[i]
			f := (reynolds - lo[0]) / (hi[0] - lo[0])
			return lo[1] + f*(hi[1]-lo[1])
		}
	}
	return dragCurve[last][1]
}

// LiftCoefficient models the Magnus effect as a function of spin ratio
// (spin surface speed over linear speed). It saturates at high spin ratios
// instead of growing without bound.
func LiftCoefficient(spinRatio float64) float64 {
	if spinRatio <= 0 {
		return 0
	}
	return 1.2 * spinRatio / (1 + 1.8*spinRatio)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
