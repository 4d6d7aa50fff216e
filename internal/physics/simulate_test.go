package physics

import (
	"errors"
	"math"
	"testing"
)

// Mild summer day used by most scenarios: rho ~1.204 kg/m^3.
func calmConditions() Conditions {
	return Conditions{Temperature: 20}
}

func testEngine() *Engine {
	return NewEngine(DefaultConfig())
}

func TestDragOnlyReferenceShot(t *testing.T) {
	// Golden regression: 70 m/s at 12 degrees, no spin, no wind. Reference
	// values computed with the same constants and step size.
	engine := testEngine()
	launch := LaunchData{Speed: 70, VerticalAngle: DegToRad(12)}

	result, err := engine.Simulate(launch, calmConditions())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"carry", result.Summary.Carry, 130.476},
		{"apex", result.Summary.Apex, 8.456},
		{"flight time", result.Summary.FlightTime, 2.615},
	}
	for _, c := range checks {
		if rel := math.Abs(c.got-c.want) / c.want; rel > 0.01 {
			t.Errorf("%s = %.3f, want %.3f (±1%%)", c.name, c.got, c.want)
		}
	}
}

func TestDriverShotWithBackspin(t *testing.T) {
	// 75 m/s, 11 degrees, 2700 rpm backspin: the Magnus lift should carry
	// the ball well past the drag-only range and raise the apex.
	engine := testEngine()
	launch := LaunchData{
		Speed:         75,
		VerticalAngle: DegToRad(11),
		Backspin:      RpmToRadPerSec(2700),
	}

	result, err := engine.Simulate(launch, calmConditions())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if rel := math.Abs(result.Summary.Carry-207.60) / 207.60; rel > 0.01 {
		t.Errorf("driver carry = %.2f m, want ~207.60 m", result.Summary.Carry)
	}
	if rel := math.Abs(result.Summary.Apex-17.20) / 17.20; rel > 0.01 {
		t.Errorf("driver apex = %.2f m, want ~17.20 m", result.Summary.Apex)
	}
}

func TestTrajectoryWellFormed(t *testing.T) {
	engine := testEngine()
	launch := LaunchData{
		Speed:         53,
		VerticalAngle: DegToRad(19),
		Backspin:      RpmToRadPerSec(7000),
	}

	result, err := engine.Simulate(launch, calmConditions())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	points := result.Trajectory
	if len(points) < 2 {
		t.Fatalf("Trajectory too short: %d points", len(points))
	}
	if len(points) > engine.Config().MaxTrajectoryPoints {
		t.Errorf("Trajectory not down-sampled: %d points > %d", len(points), engine.Config().MaxTrajectoryPoints)
	}

	for i := 1; i < len(points); i++ {
		if points[i].Time <= points[i-1].Time {
			t.Fatalf("Time not strictly increasing at %d: %.4f then %.4f", i, points[i-1].Time, points[i].Time)
		}
	}

	// No interior point below ground; last point on the ground.
	for i, p := range points[:len(points)-1] {
		if p.Position.Z < 0 {
			t.Errorf("Interior point %d below ground: z=%.4f", i, p.Position.Z)
		}
	}
	final := points[len(points)-1]
	if math.Abs(final.Position.Z) > 1e-9 {
		t.Errorf("Landing point not on the ground: z=%.6f", final.Position.Z)
	}
	if final.Phase != PhaseLanded {
		t.Errorf("Final phase = %s, want %s", final.Phase, PhaseLanded)
	}

	if result.Summary.Carry < 0 {
		t.Errorf("Carry must be non-negative, got %.2f", result.Summary.Carry)
	}
}

func TestPhaseTransitionsAreOneWay(t *testing.T) {
	engine := testEngine()
	launch := LaunchData{Speed: 60, VerticalAngle: DegToRad(15), Backspin: RpmToRadPerSec(3000)}

	result, err := engine.Simulate(launch, calmConditions())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	order := map[Phase]int{PhaseAscent: 0, PhaseDescent: 1, PhaseLanded: 2}
	prev := -1
	for i, p := range result.Trajectory {
		rank, ok := order[p.Phase]
		if !ok {
			t.Fatalf("Unknown phase %q at point %d", p.Phase, i)
		}
		if rank < prev {
			t.Fatalf("Phase went backwards at point %d: %s", i, p.Phase)
		}
		prev = rank
	}
	if prev != order[PhaseLanded] {
		t.Error("Trajectory did not end in LANDED")
	}
}

func TestCarryMonotonicInBallSpeed(t *testing.T) {
	engine := testEngine()
	cond := calmConditions()

	prevCarry := -1.0
	for _, speed := range []float64{50, 60, 70, 80} {
		launch := LaunchData{
			Speed:         speed,
			VerticalAngle: DegToRad(12),
			Backspin:      RpmToRadPerSec(2500),
		}
		result, err := engine.Simulate(launch, cond)
		if err != nil {
			t.Fatalf("Simulate failed at speed %.0f: %v", speed, err)
		}
		if result.Summary.Carry <= prevCarry {
			t.Errorf("Carry not increasing with speed: %.2f m at %.0f m/s after %.2f m", result.Summary.Carry, speed, prevCarry)
		}
		prevCarry = result.Summary.Carry
	}
}

func TestHeadwindShortensTailwindLengthens(t *testing.T) {
	engine := testEngine()
	launch := LaunchData{Speed: 70, VerticalAngle: DegToRad(12), Backspin: RpmToRadPerSec(2500)}

	carry := func(wind Vector3) float64 {
		cond := calmConditions()
		cond.Wind = wind
		result, err := engine.Simulate(launch, cond)
		if err != nil {
			t.Fatalf("Simulate failed (wind %+v): %v", wind, err)
		}
		return result.Summary.Carry
	}

	calm := carry(Vector3{})
	head := carry(Vector3{X: -5})
	tail := carry(Vector3{X: 5})

	if !(head < calm && calm < tail) {
		t.Errorf("Wind ordering wrong: head=%.2f calm=%.2f tail=%.2f", head, calm, tail)
	}
}

func TestSidespinCurvesFlight(t *testing.T) {
	engine := testEngine()
	launch := LaunchData{
		Speed:         70,
		VerticalAngle: DegToRad(12),
		Backspin:      RpmToRadPerSec(2500),
		Sidespin:      RpmToRadPerSec(500),
	}

	result, err := engine.Simulate(launch, calmConditions())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	// Positive sidespin pushes the ball right of the target line.
	if result.Summary.LateralOffset <= 1 {
		t.Errorf("Expected rightward curve, lateral offset = %.2f m", result.Summary.LateralOffset)
	}
}

func TestDeterminism(t *testing.T) {
	// Fixed-step RK4: identical inputs must produce bit-identical results.
	engine := testEngine()
	launch := LaunchData{
		Speed:         68.5,
		VerticalAngle: DegToRad(14.3),
		Azimuth:       DegToRad(1.2),
		Backspin:      RpmToRadPerSec(3100),
		Sidespin:      RpmToRadPerSec(-420),
	}
	cond := Conditions{Temperature: 27, Humidity: 0.65, Wind: Vector3{X: -2, Y: 1.5}}

	r1, err1 := engine.Simulate(launch, cond)
	r2, err2 := engine.Simulate(launch, cond)
	if err1 != nil || err2 != nil {
		t.Fatalf("Simulate failed: %v / %v", err1, err2)
	}

	if r1.Summary != r2.Summary {
		t.Errorf("Summaries differ: %+v vs %+v", r1.Summary, r2.Summary)
	}
	if len(r1.Trajectory) != len(r2.Trajectory) {
		t.Fatalf("Trajectory lengths differ: %d vs %d", len(r1.Trajectory), len(r2.Trajectory))
	}
	for i := range r1.Trajectory {
		if r1.Trajectory[i] != r2.Trajectory[i] {
			t.Fatalf("Point %d differs: %+v vs %+v", i, r1.Trajectory[i], r2.Trajectory[i])
		}
	}
}

func TestBoundedTerminationUnderUpdraft(t *testing.T) {
	// A 40 m/s updraft exceeds the ball's terminal velocity, so it never
	// comes down. The safety cap must stop the run and flag it truncated.
	engine := testEngine()
	launch := LaunchData{
		Speed:         50,
		VerticalAngle: DegToRad(45),
		Backspin:      RpmToRadPerSec(3000),
	}
	cond := calmConditions()
	cond.Wind = Vector3{Z: 40}

	result, err := engine.Simulate(launch, cond)
	if result == nil {
		t.Fatal("Expected partial result on truncation, got nil")
	}
	if !result.Truncated {
		t.Error("Expected result flagged truncated")
	}

	var truncErr *SimulationTruncatedError
	if !errors.As(err, &truncErr) {
		t.Fatalf("Expected SimulationTruncatedError, got %v", err)
	}

	cfg := engine.Config()
	if truncErr.Iterations > cfg.MaxIterations {
		t.Errorf("Iterations %d exceeded cap %d", truncErr.Iterations, cfg.MaxIterations)
	}
	if result.Summary.FlightTime > cfg.MaxSimTime+cfg.DT {
		t.Errorf("Flight time %.2f exceeded cap %.2f", result.Summary.FlightTime, cfg.MaxSimTime)
	}
	if len(result.Trajectory) > cfg.MaxTrajectoryPoints {
		t.Errorf("Truncated trajectory not down-sampled: %d points", len(result.Trajectory))
	}
}

func TestInvalidInputRejectedBeforeIntegration(t *testing.T) {
	engine := testEngine()
	cond := calmConditions()

	cases := []struct {
		name   string
		launch LaunchData
	}{
		{"negative speed", LaunchData{Speed: -5, VerticalAngle: DegToRad(12)}},
		{"zero speed", LaunchData{Speed: 0}},
		{"angle too steep", LaunchData{Speed: 50, VerticalAngle: DegToRad(95)}},
		{"NaN backspin", LaunchData{Speed: 50, VerticalAngle: DegToRad(12), Backspin: math.NaN()}},
		{"infinite sidespin", LaunchData{Speed: 50, VerticalAngle: DegToRad(12), Sidespin: math.Inf(1)}},
	}

	for _, tc := range cases {
		result, err := engine.Simulate(tc.launch, cond)
		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("%s: expected InvalidInputError, got %v", tc.name, err)
		}
		if result != nil {
			t.Errorf("%s: expected no result, got %d trajectory points", tc.name, len(result.Trajectory))
		}
	}
}

func TestAirDensityPlausible(t *testing.T) {
	cases := []struct {
		name string
		cond Conditions
		lo   float64
		hi   float64
	}{
		{"sea level 15C", Conditions{Temperature: 15}, 1.20, 1.25},
		{"hot humid", Conditions{Temperature: 35, Humidity: 0.9}, 1.10, 1.16},
		{"altitude 2000m", Conditions{Temperature: 15, Altitude: 2000}, 0.95, 1.05},
		{"absurd cold clamped", Conditions{Temperature: -500}, 1.0, 2.0},
		{"absurd humidity clamped", Conditions{Temperature: 20, Humidity: 40}, 1.15, 1.25},
	}

	for _, tc := range cases {
		rho := AirDensity(tc.cond)
		if math.IsNaN(rho) || rho <= 0 {
			t.Errorf("%s: non-physical density %v", tc.name, rho)
			continue
		}
		if rho < tc.lo || rho > tc.hi {
			t.Errorf("%s: density %.4f outside [%.2f, %.2f]", tc.name, rho, tc.lo, tc.hi)
		}
	}
}

func TestDragCoefficientTransition(t *testing.T) {
	// Cd drops through the boundary-layer transition and is clamped outside
	// the tabulated range.
	low := DragCoefficient(1e4)
	mid := DragCoefficient(6e4)
	high := DragCoefficient(1.5e5)

	if low != 0.55 {
		t.Errorf("Cd below table = %.3f, want clamp at 0.55", low)
	}
	if !(mid < low && high < mid) {
		t.Errorf("Cd not decreasing through transition: %.3f, %.3f, %.3f", low, mid, high)
	}
	if huge := DragCoefficient(1e9); huge != 0.24 {
		t.Errorf("Cd above table = %.3f, want clamp at 0.24", huge)
	}
}

func TestLiftCoefficientSaturates(t *testing.T) {
	if cl := LiftCoefficient(0); cl != 0 {
		t.Errorf("Cl(0) = %.3f, want 0", cl)
	}
	if cl := LiftCoefficient(-1); cl != 0 {
		t.Errorf("Cl(negative) = %.3f, want 0", cl)
	}

	prev := 0.0
	for _, s := range []float64{0.05, 0.1, 0.2, 0.5, 1, 5, 100} {
		cl := LiftCoefficient(s)
		if cl <= prev {
			t.Errorf("Cl not increasing at spin ratio %.2f: %.4f after %.4f", s, cl, prev)
		}
		if cl > 1.2/1.8+1e-9 {
			t.Errorf("Cl(%.2f) = %.4f exceeds saturation bound", s, cl)
		}
		prev = cl
	}
}
