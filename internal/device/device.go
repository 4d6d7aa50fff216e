package device

import (
	"fmt"
	"math"
	"strconv"

	"github.com/openrange/backend/internal/physics"
)

// Launch monitors report string-keyed fields in device-native units: ball
// speed in mph, angles in degrees, spin in rpm. This package owns the
// validated mapping into physics.LaunchData; the engine itself never parses
// device text or sees device units.

// Field keys as sent by the monitor firmware.
const (
	FieldBallSpeed   = "ball_speed"   // mph
	FieldLaunchAngle = "launch_angle" // degrees
	FieldAzimuth     = "azimuth"      // degrees, positive = right
	FieldBackspin    = "backspin"     // rpm
	FieldSidespin    = "sidespin"     // rpm
)

// ParseLaunch converts a raw device packet into SI launch data. Ball speed
// and launch angle are required; azimuth and spin default to zero. Values
// must parse as finite numbers.
func ParseLaunch(fields map[string]string) (physics.LaunchData, error) {
	ballSpeed, err := requiredField(fields, FieldBallSpeed)
	if err != nil {
		return physics.LaunchData{}, err
	}
	launchAngle, err := requiredField(fields, FieldLaunchAngle)
	if err != nil {
		return physics.LaunchData{}, err
	}
	azimuth, err := optionalField(fields, FieldAzimuth)
	if err != nil {
		return physics.LaunchData{}, err
	}
	backspin, err := optionalField(fields, FieldBackspin)
	if err != nil {
		return physics.LaunchData{}, err
	}
	sidespin, err := optionalField(fields, FieldSidespin)
	if err != nil {
		return physics.LaunchData{}, err
	}

	launch := physics.LaunchData{
		Speed:         physics.MphToMs(ballSpeed),
		VerticalAngle: physics.DegToRad(launchAngle),
		Azimuth:       physics.DegToRad(azimuth),
		Backspin:      physics.RpmToRadPerSec(backspin),
		Sidespin:      physics.RpmToRadPerSec(sidespin),
	}
	if err := launch.Validate(); err != nil {
		return physics.LaunchData{}, err
	}
	return launch, nil
}

func requiredField(fields map[string]string, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return 0, fmt.Errorf("device field %q missing", key)
	}
	return parseField(key, raw)
}

func optionalField(fields map[string]string, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return 0, nil
	}
	return parseField(key, raw)
}

func parseField(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("device field %q: %w", key, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("device field %q is not finite", key)
	}
	return v, nil
}
