package physics

import "math"

// Engine runs ball-flight simulations against a fixed configuration block.
// Simulate is side-effect free and safe to call concurrently: each call owns
// its working state and shares nothing.
type Engine struct {
	cfg EngineConfig
}

// NewEngine creates an engine closed over the given constants.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration block.
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// simulationState is the integrator's working state for one call. It is
// discarded once the result is materialized.
type simulationState struct {
	pos     Vector3
	vel     Vector3
	elapsed float64
	phase   Phase
}

// Simulate integrates the equations of motion (gravity, aerodynamic drag,
// Magnus lift, spin decay, wind) with fixed-step 4th-order Runge-Kutta and
// returns the trajectory from launch to ground contact plus summary metrics.
//
// The fixed step keeps trajectories bit-for-bit reproducible for identical
// inputs. If the safety cap stops the integration before a natural landing,
// the partial result is returned flagged Truncated together with a
// *SimulationTruncatedError.
func (e *Engine) Simulate(launch LaunchData, cond Conditions) (*ShotResult, error) {
	if err := launch.Validate(); err != nil {
		return nil, err
	}

	cfg := e.cfg
	rho := AirDensity(cond)
	ground := cond.GroundElevation

	spin0 := launch.spinVector()
	spinMag0 := spin0.Magnitude()
	spinAxis := spin0.Normalize()

	// Spin magnitude decays continuously over the flight, lowering the lift
	// coefficient input each step.
	spinAt := func(t float64) Vector3 {
		if spinMag0 == 0 {
			return Vector3{}
		}
		return spinAxis.Times(spinMag0 * math.Exp(-cfg.SpinDecayRate*t))
	}

	state := simulationState{
		pos:   Vector3{Z: ground + cfg.TeeHeight},
		vel:   launch.initialVelocity(),
		phase: PhaseAscent,
	}
	if state.vel.Z <= 0 {
		state.phase = PhaseDescent
	}

	points := make([]TrajectoryPoint, 0, cfg.MaxIterations/64)
	points = append(points, TrajectoryPoint{
		Time:     0,
		Position: state.pos,
		Velocity: state.vel,
		Phase:    state.phase,
	})

	apex := state.pos.Z
	landed := false
	iterations := 0

	for {
		if iterations >= cfg.MaxIterations || state.elapsed >= cfg.MaxSimTime {
			break
		}

		prev := state
		state = e.step(state, spinAt, rho, cond.Wind)
		iterations++

		if state.pos.Z > apex {
			apex = state.pos.Z
		}

		// Phase transitions are one-way; recompute from the vertical
		// velocity sign only while airborne.
		if state.phase == PhaseAscent && state.vel.Z <= 0 {
			state.phase = PhaseDescent
		}

		if state.pos.Z <= ground {
			// Refine the crossing so the landing point sits on the ground
			// instead of overshooting below it.
			state = interpolateLanding(prev, state, ground)
			state.phase = PhaseLanded
			points = append(points, TrajectoryPoint{
				Time:     state.elapsed,
				Position: state.pos,
				Velocity: state.vel,
				Phase:    state.phase,
			})
			landed = true
			break
		}

		points = append(points, TrajectoryPoint{
			Time:     state.elapsed,
			Position: state.pos,
			Velocity: state.vel,
			Phase:    state.phase,
		})
	}

	result := &ShotResult{
		Trajectory: downsample(points, cfg.MaxTrajectoryPoints),
		Summary: ShotSummary{
			Carry:         state.pos.HorizontalDistance(),
			Apex:          apex - ground,
			FlightTime:    state.elapsed,
			LateralOffset: state.pos.Y,
		},
		Truncated: !landed,
	}

	if !landed {
		return result, &SimulationTruncatedError{Elapsed: state.elapsed, Iterations: iterations}
	}
	return result, nil
}

// step advances the state by one RK4 step of size cfg.DT.
func (e *Engine) step(s simulationState, spinAt func(float64) Vector3, rho float64, wind Vector3) simulationState {
	dt := e.cfg.DT
	t := s.elapsed
	half := dt / 2

	k1v := e.acceleration(s.vel, spinAt(t), rho, wind)
	k1x := s.vel

	k2v := e.acceleration(s.vel.Plus(k1v.Times(half)), spinAt(t+half), rho, wind)
	k2x := s.vel.Plus(k1v.Times(half))

	k3v := e.acceleration(s.vel.Plus(k2v.Times(half)), spinAt(t+half), rho, wind)
	k3x := s.vel.Plus(k2v.Times(half))

	k4v := e.acceleration(s.vel.Plus(k3v.Times(dt)), spinAt(t+dt), rho, wind)
	k4x := s.vel.Plus(k3v.Times(dt))

	sixth := dt / 6
	s.vel = s.vel.Plus(k1v.Plus(k2v.Times(2)).Plus(k3v.Times(2)).Plus(k4v).Times(sixth))
	s.pos = s.pos.Plus(k1x.Plus(k2x.Times(2)).Plus(k3x.Times(2)).Plus(k4x).Times(sixth))
	s.elapsed = t + dt
	return s
}

// acceleration is gravity plus (drag + Magnus lift)/mass, computed against
// the velocity relative to the wind.
func (e *Engine) acceleration(vel, spin Vector3, rho float64, wind Vector3) Vector3 {
	cfg := e.cfg
	gravity := Vector3{Z: -cfg.Gravity}

	rel := vel.Minus(wind)
	speed := rel.Magnitude()
	if speed < 1e-9 {
		return gravity
	}

	q := 0.5 * rho * speed * speed * cfg.BallArea
	relDir := rel.Normalize()

	cd := DragCoefficient(cfg.ReynoldsNumber(speed, rho))
	force := relDir.Times(-q * cd)

	if spinMag := spin.Magnitude(); spinMag > 0 {
		spinRatio := spinMag * cfg.BallRadius / speed
		cl := LiftCoefficient(spinRatio)
		liftDir := spin.Normalize().Cross(relDir)
		force = force.Plus(liftDir.Times(q * cl))
	}

	return gravity.Plus(force.Times(1 / cfg.BallMass))
}

// interpolateLanding linearly interpolates between the last airborne state
// and the first below-ground state so the reported landing height is the
// ground plane.
func interpolateLanding(prev, cur simulationState, ground float64) simulationState {
	dz := prev.pos.Z - cur.pos.Z
	f := 1.0
	if dz > 0 {
		f = (prev.pos.Z - ground) / dz
	}

	out := cur
	out.pos = prev.pos.Plus(cur.pos.Minus(prev.pos).Times(f))
	out.pos.Z = ground
	out.vel = prev.vel.Plus(cur.vel.Minus(prev.vel).Times(f))
	out.elapsed = prev.elapsed + f*(cur.elapsed-prev.elapsed)
	return out
}

// downsample reduces the point count to at most max, keeping even spacing
// and always preserving the first and last point.
func downsample(points []TrajectoryPoint, max int) []TrajectoryPoint {
	if max < 2 || len(points) <= max {
		return points
	}
	out := make([]TrajectoryPoint, max)
	last := len(points) - 1
	for i := 0; i < max; i++ {
		out[i] = points[i*last/(max-1)]
	}
	out[max-1] = points[last]
	return out
}
