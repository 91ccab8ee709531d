package ik

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/kinematics"
	"go.viam.com/relaxedik/spatial"
)

// DefaultMaxIterations bounds the optimizer's inner loop per solve call,
// matching original_source's relaxed_ik_core default iteration budget.
const DefaultMaxIterations = 100

// GoalPose is a single chain's target position and orientation, supplied by
// callers of Solve/SolveRelative.
type GoalPose struct {
	Position r3.Vector
	Rotation spatial.Rotation
	// Tolerance is (tx, ty, tz, rx, ry, rz); zero means an exact groove
	// attractor on that axis.
	Tolerance [6]float64
}

// Solver is the top-level relaxed-IK driver described in spec.md section
// 4.4, grounded on original_source/src/lib.rs's RelaxedIK struct: it owns a
// State, an ObjectiveSet, and an Optimizer, and exposes the solve/reset/
// configuration entry points the boundary packages call into.
type Solver struct {
	Robot     kinematics.Robot
	State     *State
	Set       ObjectiveSet
	Optimizer Optimizer
	MaxIters  int
}

// NewSolver builds a Solver over robot starting at initState, using the
// relaxed-IK objective preset and the pure-Go gradient descent optimizer by
// default.
func NewSolver(robot kinematics.Robot, initState []float64) (*Solver, error) {
	s, err := NewState(robot, initState)
	if err != nil {
		return nil, err
	}
	return &Solver{
		Robot:     robot,
		State:     s,
		Set:       NewRelaxedIKObjectiveSet(robot),
		Optimizer: NewGradientDescentOptimizer(),
		MaxIters:  DefaultMaxIterations,
	}, nil
}

func (solver *Solver) applyGoals(goals []GoalPose) error {
	if len(goals) != solver.Robot.NumChains() {
		return fmt.Errorf("ik: got %d goal poses, robot has %d chains", len(goals), solver.Robot.NumChains())
	}
	for i, g := range goals {
		chainGoals := solver.State.Goals[i]
		last := len(chainGoals) - 1
		chainGoals[last].Position = g.Position
		chainGoals[last].Rotation = g.Rotation
		chainGoals[last].Tolerance = g.Tolerance
	}
	return nil
}

// Solve drives the optimizer toward absolute goal poses, one per chain, and
// advances the configuration history on success, per spec.md section 4.4
// solve(goal_positions, goal_quats, tolerances).
func (solver *Solver) Solve(goals []GoalPose) ([]float64, error) {
	if err := solver.applyGoals(goals); err != nil {
		return nil, err
	}
	xopt := solver.Optimizer.Minimize(solver.Set, solver.State, solver.State.Xopt, solver.MaxIters)
	solver.State.Update(xopt)
	return cloneF64(xopt), nil
}

// SolveRelative interprets goals as displacements from the initial
// end-effector snapshot taken at construction or the last Reset, per spec.md
// section 4.4 solve_relative.
func (solver *Solver) SolveRelative(deltas []GoalPose) ([]float64, error) {
	if len(deltas) != solver.Robot.NumChains() {
		return nil, fmt.Errorf("ik: got %d goal deltas, robot has %d chains", len(deltas), solver.Robot.NumChains())
	}
	absolute := make([]GoalPose, len(deltas))
	for i, d := range deltas {
		init := solver.State.InitEEPoses[i]
		absolute[i] = GoalPose{
			Position:  init.Position.Add(d.Position),
			Rotation:  init.Rotation.Mul(d.Rotation),
			Tolerance: d.Tolerance,
		}
	}
	return solver.Solve(absolute)
}

// SolveVelocity integrates per-chain linear and angular velocity commands
// over dt into absolute goal poses anchored at the current end-effector
// pose, then solves, per spec.md section 4.4 solve_velocity. AngularVelocity
// is a scaled-axis (rotation vector) rate.
func (solver *Solver) SolveVelocity(linearVelocity, angularVelocity []r3.Vector, dt float64) ([]float64, error) {
	n := solver.Robot.NumChains()
	if len(linearVelocity) != n || len(angularVelocity) != n {
		return nil, fmt.Errorf("ik: velocity command length mismatch: robot has %d chains", n)
	}
	eePoses := solver.Robot.EEPosesAt(solver.State.Xopt)
	goals := make([]GoalPose, n)
	for i := 0; i < n; i++ {
		cur := eePoses[i]
		goals[i] = GoalPose{
			Position: cur.Position.Add(linearVelocity[i].Mul(dt)),
			// goal_quat = q_from_axis(rot_vel * dt) * goal_quat, per spec.md
			// section 6 / original_source solve_velocity_helper: the angular
			// delta premultiplies the current orientation.
			Rotation: spatial.FromAxisAngle(angularVelocity[i].Mul(dt)).Mul(cur.Rotation),
		}
	}
	return solver.Solve(goals)
}

// Reset reinitializes configuration history and the relative-goal snapshot,
// per spec.md section 4.4 reset(p3, p2, p1, init).
func (solver *Solver) Reset(prev3, prev2, prev1, initState []float64) error {
	return solver.State.Reset(prev3, prev2, prev1, initState)
}

// SetEEOnly sets the ee_only flag and re-snaps goals; see State.SetEEOnly.
func (solver *Solver) SetEEOnly(eeOnly bool) {
	solver.State.SetEEOnly(eeOnly)
}

// SetValidChains records which chains are active in State.ValidChains. No
// objective or boundary function reads the mask: every chain's objectives
// contribute to the cost whatever it holds.
func (solver *Solver) SetValidChains(valid []int) {
	solver.State.SetValidChains(valid)
}

// GetFrames returns the full per-link frame bundle at the current
// configuration, per spec.md section 5's get_frames operation.
func (solver *Solver) GetFrames() kinematics.FrameBundle {
	return solver.Robot.FramesAt(solver.State.Xopt)
}

// GetEEPoses returns only the end-effector pose per chain at the current
// configuration, the "lite mode" projection of GetFrames.
func (solver *Solver) GetEEPoses() []kinematics.EEPose {
	return solver.Robot.EEPosesAt(solver.State.Xopt)
}
