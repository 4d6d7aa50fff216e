package physics

import (
	"fmt"
	"math"
)

// LaunchData is the canonical SI representation of a shot's initial state.
// Device readers convert mph/degrees/rpm at the boundary; the engine only
// ever sees these units.
type LaunchData struct {
	Speed         float64 `json:"speed"`          // ball speed, m/s
	VerticalAngle float64 `json:"vertical_angle"` // launch angle, rad, (-pi/2, pi/2)
	Azimuth       float64 `json:"azimuth"`        // lateral launch direction, rad
	Backspin      float64 `json:"backspin"`       // rad/s
	Sidespin      float64 `json:"sidespin"`       // rad/s, positive curves right
}

// InvalidInputError reports a launch parameter that fails validation.
// No integration is attempted when one is returned.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid launch input %s: %s", e.Field, e.Reason)
}

// SimulationTruncatedError signals that the safety cap was reached before
// the ball landed. It is a soft failure: the partial result is still
// returned alongside it, flagged as truncated.
type SimulationTruncatedError struct {
	Elapsed    float64
	Iterations int
}

func (e *SimulationTruncatedError) Error() string {
	return fmt.Sprintf("simulation truncated after %.2fs (%d iterations) without landing", e.Elapsed, e.Iterations)
}

// Validate fails fast on inputs the integrator cannot handle.
func (l LaunchData) Validate() error {
	if math.IsNaN(l.Speed) || math.IsInf(l.Speed, 0) || l.Speed <= 0 {
		return &InvalidInputError{Field: "speed", Reason: "must be a positive finite number"}
	}
	if math.IsNaN(l.VerticalAngle) || math.Abs(l.VerticalAngle) >= math.Pi/2 {
		return &InvalidInputError{Field: "vertical_angle", Reason: "must be within (-90, 90) degrees"}
	}
	if math.IsNaN(l.Azimuth) || math.IsInf(l.Azimuth, 0) {
		return &InvalidInputError{Field: "azimuth", Reason: "must be finite"}
	}
	if math.IsNaN(l.Backspin) || math.IsInf(l.Backspin, 0) {
		return &InvalidInputError{Field: "backspin", Reason: "must be finite"}
	}
	if math.IsNaN(l.Sidespin) || math.IsInf(l.Sidespin, 0) {
		return &InvalidInputError{Field: "sidespin", Reason: "must be finite"}
	}
	return nil
}

// initialVelocity decomposes speed, launch angle and azimuth into a velocity
// vector on the engine's axes.
func (l LaunchData) initialVelocity() Vector3 {
	horizontal := l.Speed * math.Cos(l.VerticalAngle)
	return Vector3{
		X: horizontal * math.Cos(l.Azimuth),
		Y: horizontal * math.Sin(l.Azimuth),
		Z: l.Speed * math.Sin(l.VerticalAngle),
	}
}

// spinVector builds the angular velocity vector from back/side spin.
// Backspin rotates about the lateral axis so the Magnus force points up;
// sidespin rotates about the vertical axis and curves the flight sideways.
// The axis is rotated to follow the launch azimuth.
func (l LaunchData) spinVector() Vector3 {
	sinA, cosA := math.Sincos(l.Azimuth)
	return Vector3{
		X: l.Backspin * sinA,
		Y: -l.Backspin * cosA,
		Z: l.Sidespin,
	}
}
