package physics

// Phase tags where in its flight the ball is. Transitions are one-way:
// Ascent -> Descent once vertical velocity turns negative, and either ->
// Landed at ground contact. There is no transition out of Landed.
type Phase string

const (
	PhaseAscent  Phase = "ASCENT"
	PhaseDescent Phase = "DESCENT"
	PhaseLanded  Phase = "LANDED"
)

// TrajectoryPoint is one retained sample of the flight. Points in a
// trajectory are ordered by strictly increasing time.
type TrajectoryPoint struct {
	Time     float64 `json:"t"` // s since launch
	Position Vector3 `json:"position"`
	Velocity Vector3 `json:"velocity"`
	Phase    Phase   `json:"phase"`
}

// ShotSummary carries the landing-derived flight metrics. It is the shape
// persisted by the history layer.
type ShotSummary struct {
	Carry         float64 `json:"carry"`          // horizontal distance at landing, m
	Apex          float64 `json:"apex"`           // peak height, m
	FlightTime    float64 `json:"flight_time"`    // s
	LateralOffset float64 `json:"lateral_offset"` // landing Y, m; positive = right
}

// ShotResult is the complete output of one Simulate call: the down-sampled
// trajectory plus the summary. Truncated is set when the safety cap stopped
// the integration before a natural landing.
type ShotResult struct {
	Trajectory []TrajectoryPoint `json:"trajectory"`
	Summary    ShotSummary       `json:"summary"`
	Truncated  bool              `json:"truncated"`
}
