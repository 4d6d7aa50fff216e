package physics

import "math"

// EngineConfig is the immutable block of physical and integration constants
// used by a flight engine. It is built once at startup and never mutated, so
// Simulate stays referentially transparent.
type EngineConfig struct {
	BallMass   float64 // kg
	BallRadius float64 // m
	BallArea   float64 // cross-sectional area, m^2
	Gravity    float64 // m/s^2, positive down

	AirViscosity float64 // dynamic viscosity of air, kg/(m*s)

	DT            float64 // integration step, s
	MaxIterations int     // hard cap on integration steps
	MaxSimTime    float64 // hard cap on simulated flight time, s

	MaxTrajectoryPoints int // retained samples after down-sampling

	SpinDecayRate float64 // exponential decay constant, 1/s
	TeeHeight     float64 // launch height above the ground, m
}

// DefaultConfig returns the standard configuration for a regulation golf ball.
func DefaultConfig() EngineConfig {
	const radius = 0.02135
	return EngineConfig{
		BallMass:            0.04593,
		BallRadius:          radius,
		BallArea:            math.Pi * radius * radius,
		Gravity:             9.80665,
		AirViscosity:        1.8e-5,
		DT:                  0.001,
		MaxIterations:       30000,
		MaxSimTime:          30.0,
		MaxTrajectoryPoints: 200,
		SpinDecayRate:       0.04,
		TeeHeight:           0.0,
	}
}
