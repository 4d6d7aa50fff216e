package physics

import "math"

// Unit conversions between device-native units (mph, degrees, rpm, yards)
// and the SI units the engine works in. Each forward/inverse pair composes
// to the identity. Device readers convert at the boundary; nothing inside
// the engine touches device units.

const (
	metersPerMile  = 1609.344
	secondsPerHour = 3600.0
	feetPerMeter   = 3.280839895013123
	yardsPerMeter  = 1.0936132983377078
)

func MphToMs(mph float64) float64 {
	return mph * metersPerMile / secondsPerHour
}

func MsToMph(ms float64) float64 {
	return ms * secondsPerHour / metersPerMile
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func MetersToYards(m float64) float64 {
	return m * yardsPerMeter
}

func YardsToMeters(yd float64) float64 {
	return yd / yardsPerMeter
}

func MetersToFeet(m float64) float64 {
	return m * feetPerMeter
}

func FeetToMeters(ft float64) float64 {
	return ft / feetPerMeter
}

func RpmToRadPerSec(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}

func RadPerSecToRpm(rad float64) float64 {
	return rad * 60 / (2 * math.Pi)
}
