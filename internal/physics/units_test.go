package physics

import (
	"math"
	"testing"
)

func TestUnitRoundTrips(t *testing.T) {
	pairs := []struct {
		name    string
		forward func(float64) float64
		inverse func(float64) float64
	}{
		{"mph/ms", MphToMs, MsToMph},
		{"deg/rad", DegToRad, RadToDeg},
		{"meters/yards", MetersToYards, YardsToMeters},
		{"meters/feet", MetersToFeet, FeetToMeters},
		{"rpm/rads", RpmToRadPerSec, RadPerSecToRpm},
	}

	values := []float64{0, 0.001, 1, 12.75, 100, 2500, 1e6}
	for _, p := range pairs {
		for _, v := range values {
			got := p.inverse(p.forward(v))
			if v == 0 {
				if got != 0 {
					t.Errorf("%s: round trip of 0 gave %v", p.name, got)
				}
				continue
			}
			if rel := math.Abs(got-v) / v; rel > 1e-6 {
				t.Errorf("%s: round trip of %v gave %v (rel err %g)", p.name, v, got, rel)
			}
		}
	}
}

func TestKnownConversions(t *testing.T) {
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"100 mph", MphToMs(100), 44.704},
		{"90 deg", DegToRad(90), math.Pi / 2},
		{"100 m in yards", MetersToYards(100), 109.3613},
		{"3000 rpm", RpmToRadPerSec(3000), 314.1593},
	}
	for _, c := range cases {
		if math.Abs(c.got-c.want) > 1e-3 {
			t.Errorf("%s: got %.4f, want %.4f", c.name, c.got, c.want)
		}
	}
}

func TestVectorBasics(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(4, -5, 6)

	if got := a.Dot(b); got != 1*4+2*-5+3*6 {
		t.Errorf("Dot = %v", got)
	}

	cross := a.Cross(b)
	// Cross product is perpendicular to both inputs.
	if math.Abs(cross.Dot(a)) > 1e-12 || math.Abs(cross.Dot(b)) > 1e-12 {
		t.Errorf("Cross not perpendicular: %+v", cross)
	}

	unit := b.Normalize()
	if math.Abs(unit.Magnitude()-1) > 1e-12 {
		t.Errorf("Normalize magnitude = %v", unit.Magnitude())
	}

	if (Vector3{}).Normalize() != (Vector3{}) {
		t.Error("Normalize of zero vector should be zero")
	}

	if !a.IsFinite() || (Vector3{X: math.NaN()}).IsFinite() {
		t.Error("IsFinite misbehaving")
	}
}
