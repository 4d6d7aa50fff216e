package device

import (
	"errors"
	"math"
	"testing"

	"github.com/openrange/backend/internal/physics"
)

func TestParseLaunchConvertsToSI(t *testing.T) {
	fields := map[string]string{
		"ball_speed":   "150",
		"launch_angle": "12.5",
		"azimuth":      "-1.4",
		"backspin":     "2800",
		"sidespin":     "-350",
	}

	launch, err := ParseLaunch(fields)
	if err != nil {
		t.Fatalf("ParseLaunch failed: %v", err)
	}

	if math.Abs(launch.Speed-physics.MphToMs(150)) > 1e-9 {
		t.Errorf("Speed = %v m/s, want %v", launch.Speed, physics.MphToMs(150))
	}
	if math.Abs(launch.VerticalAngle-physics.DegToRad(12.5)) > 1e-9 {
		t.Errorf("VerticalAngle = %v rad", launch.VerticalAngle)
	}
	if math.Abs(launch.Backspin-physics.RpmToRadPerSec(2800)) > 1e-9 {
		t.Errorf("Backspin = %v rad/s", launch.Backspin)
	}
	if launch.Sidespin >= 0 {
		t.Errorf("Sidespin should stay negative, got %v", launch.Sidespin)
	}
}

func TestParseLaunchDefaultsOptionalFields(t *testing.T) {
	launch, err := ParseLaunch(map[string]string{
		"ball_speed":   "120",
		"launch_angle": "15",
	})
	if err != nil {
		t.Fatalf("ParseLaunch failed: %v", err)
	}
	if launch.Azimuth != 0 || launch.Backspin != 0 || launch.Sidespin != 0 {
		t.Errorf("Optional fields should default to zero: %+v", launch)
	}
}

func TestParseLaunchRejectsBadPackets(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
	}{
		{"missing speed", map[string]string{"launch_angle": "12"}},
		{"missing angle", map[string]string{"ball_speed": "150"}},
		{"non-numeric", map[string]string{"ball_speed": "fast", "launch_angle": "12"}},
		{"nan spin", map[string]string{"ball_speed": "150", "launch_angle": "12", "backspin": "NaN"}},
		{"negative speed", map[string]string{"ball_speed": "-10", "launch_angle": "12"}},
		{"angle out of range", map[string]string{"ball_speed": "150", "launch_angle": "120"}},
	}

	for _, tc := range cases {
		if _, err := ParseLaunch(tc.fields); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestParseLaunchSurfacesEngineValidation(t *testing.T) {
	_, err := ParseLaunch(map[string]string{"ball_speed": "-10", "launch_angle": "12"})
	var invalid *physics.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidInputError for negative speed, got %v", err)
	}
}
