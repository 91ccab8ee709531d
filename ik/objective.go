package ik

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/kinematics"
	"go.viam.com/relaxedik/spatial"
)

// Objective is a single weighted term of the relaxed-IK cost function, per
// spec.md section 4.2. Value computes the term's contribution given the
// candidate configuration, the solver state it reads goals/history from, and
// the frame bundle forward kinematics produced at x.
//
// Grounded on original_source/src/groove/objective.rs's ObjectiveTrait: call()
// maps directly to Value, and gradient_type() maps to the optional
// AnalyticGradient interface below.
type Objective interface {
	Value(x []float64, s *State, frames kinematics.FrameBundle) float64
}

// AnalyticGradient is implemented by objectives whose gradient can be written
// in closed form. Objectives that don't implement it fall back to the
// assembler's batched finite-difference path, per spec.md section 4.2's
// "hybrid assembler" design.
type AnalyticGradient interface {
	Gradient(x []float64, s *State, frames kinematics.FrameBundle, grad []float64)
}

// LiteObjective is implemented by objectives that can be scored from only the
// end-effector poses, without running full per-link forward kinematics, per
// spec.md section 4.3's mode flag. EEPosGoals and EEQuatGoals are standard-
// IK's lite preset and the only implementers; ObjectiveSet.Value falls back
// to the full FrameBundle for any objective that doesn't implement this.
type LiteObjective interface {
	ValueLite(x []float64, s *State, eePoses []kinematics.EEPose) float64
}

// --- End-effector position, one axis at a time -----------------------------

// Axis3 names one of the three position or rotation axes an objective acts
// on.
type Axis3 int

const (
	AxisX Axis3 = iota
	AxisY
	AxisZ
)

// EEPositionPerAxis penalizes deviation of chain ChainIdx's end-effector
// position, along one axis, from its goal, via groove when the goal's
// tolerance on that axis is at most 0.01 or swamp-groove when it is larger.
// Grounded on original_source/src/groove/objective.rs MatchEEPosiDoF.
type EEPositionPerAxis struct {
	ChainIdx int
	Axis     Axis3
	Weight   float64
}

func axisValue(v [3]float64, a Axis3) float64 { return v[a] }

// component returns the signed residual along Axis, expressed in the goal's
// own local frame: dist = (R_goal^-1 * (p_ee - p_goal))[axis]. Per
// original_source/src/groove/objective.rs MatchEEPosiDoF, the raw world-frame
// displacement is rotated into the goal frame before any axis is read off, so
// a goal's per-axis tolerance band is meaningful even when the goal
// orientation isn't the identity.
func (o EEPositionPerAxis) component(s *State, frames kinematics.FrameBundle) (dist, tol float64) {
	chain := frames[o.ChainIdx]
	pos := chain.Positions[len(chain.Positions)-1]
	g := s.EEGoal(o.ChainIdx)
	disp := pos.Sub(g.Position)
	local := g.Rotation.Inverse().Rotate(disp)
	arr := [3]float64{local.X, local.Y, local.Z}
	return axisValue(arr, o.Axis), g.Tolerance[o.Axis]
}

func (o EEPositionPerAxis) Value(_ []float64, s *State, frames kinematics.FrameBundle) float64 {
	dist, tol := o.component(s, frames)
	if tol <= 0.01 {
		return o.Weight * Groove(dist, 0, 2, 0.1, 10.0, 2)
	}
	// Nonzero tolerance: swamp_groove_loss keeps a gentle Gaussian pull toward
	// the goal-frame center while flattening within [-tol, tol] and rising
	// steeply outside it, per spec.md section 4.1/4.2.
	return o.Weight * SwampGroove(dist, 0, -tol, tol, 2*tol, 1.0, 0.01, 100.0, 20)
}

// EERotationPerAxis penalizes deviation of chain ChainIdx's end-effector
// rotation from its goal along one scaled-axis component, grounded on
// original_source/src/groove/objective.rs MatchEERotaDoF. Unlike position,
// the value compared is the absolute rotation-vector component between the
// current and goal orientation (spec.md section 4.1's "per-axis rotation
// error"), not an absolute coordinate.
type EERotationPerAxis struct {
	ChainIdx int
	Axis     Axis3
	Weight   float64
}

func (o EERotationPerAxis) Value(_ []float64, s *State, frames kinematics.FrameBundle) float64 {
	chain := frames[o.ChainIdx]
	rot := chain.Rotations[len(chain.Rotations)-1]
	g := s.EEGoal(o.ChainIdx)
	disp := g.Rotation.Inverse().Mul(rot).ScaledAxis()
	arr := [3]float64{disp.X, disp.Y, disp.Z}
	// original_source's MatchEERotaDoF reads the abs() of the scaled-axis
	// component -- sign carries no meaning for a single-axis rotation error.
	v := math.Abs(axisValue(arr, o.Axis))
	tol := g.Tolerance[3+o.Axis]
	switch {
	case tol <= 0.01:
		return o.Weight * Groove(v, 0, 2, 0.1, 10.0, 2)
	case tol >= math.Pi:
		// A tolerance covering the full rotation range degenerates to a bare
		// swamp band: there's no meaningful groove attractor to shape.
		return o.Weight * Swamp(v, -tol, tol, 100.0, 0.1, 20)
	default:
		return o.Weight * SwampGroove(v, 0, -tol, tol, 2*tol, 1.0, 0.01, 100.0, 20)
	}
}

// JointPositionPerAxis penalizes deviation of a single joint's value from its
// nested per-joint goal. Not part of either objective-set preset (spec.md
// section 4.3 lists none), but available for bespoke objective sets the way
// original_source's MatchJointPosiDoF is available but unused by
// relaxed_ik/standard_ik's default constructors.
type JointPositionPerAxis struct {
	ChainIdx     int
	JointInChain int
	Weight       float64
}

func (o JointPositionPerAxis) Value(x []float64, s *State, _ kinematics.FrameBundle) float64 {
	dofIdx := s.Robot.ChainIndices()[o.ChainIdx][o.JointInChain]
	goal := s.Goals[o.ChainIdx][o.JointInChain]
	return o.Weight * Groove(x[dofIdx], goal.Position.X, 2, 0.1, 10.0, 2)
}

// JointLimit keeps joint DoFIdx within [Lower, Upper] using the swamp band
// penalty, per spec.md section 4.2 and original_source's JointLimits
// objective.
type JointLimit struct {
	DoFIdx       int
	Lower, Upper float64
	Weight       float64
}

// JointLimit has no AnalyticGradient: original_source only gives a closed
// form for swamp_groove_loss, not the plain swamp_loss band this objective
// uses, so the assembler finite-diffs it (see objective_test.go).
func (o JointLimit) Value(x []float64, _ *State, _ kinematics.FrameBundle) float64 {
	return o.Weight * Swamp(x[o.DoFIdx], o.Lower, o.Upper, 10, 10, 20)
}

// --- Smoothness objectives ---------------------------------------------

// MinimizeVelocity penalizes joint-space displacement from the previous
// configuration, grounded on original_source's MinimizeVelocity objective.
type MinimizeVelocity struct {
	Weight float64
}

func (o MinimizeVelocity) Value(x []float64, s *State, _ kinematics.FrameBundle) float64 {
	types := s.Robot.JointTypes()
	sum := 0.0
	for i := range x {
		d := x[i] - s.Prev1[i]
		if i < len(types) && types[i] == kinematics.Prismatic {
			// Prismatic joints move in meters while revolute joints move in
			// radians; original_source scales prismatic velocity by 10 so the
			// two units contribute comparably to the norm.
			d *= 10
		}
		sum += d * d
	}
	return o.Weight * Groove(math.Sqrt(sum), 0, 2, 0.1, 10.0, 2)
}

// MinimizeAcceleration penalizes the second finite difference of joint
// configuration across the last three solves (x, x-1, x-2), grounded on
// original_source's MinimizeAcceleration objective.
type MinimizeAcceleration struct {
	Weight float64
}

func (o MinimizeAcceleration) Value(x []float64, s *State, _ kinematics.FrameBundle) float64 {
	sum := 0.0
	for i := range x {
		d := x[i] - 2*s.Prev1[i] + s.Prev2[i]
		sum += d * d
	}
	return o.Weight * Groove(math.Sqrt(sum), 0, 2, 0.1, 10.0, 2)
}

// MinimizeJerk penalizes the third finite difference across (x, x-1, x-2,
// x-3), grounded on original_source's MinimizeJerk objective.
type MinimizeJerk struct {
	Weight float64
}

func (o MinimizeJerk) Value(x []float64, s *State, _ kinematics.FrameBundle) float64 {
	sum := 0.0
	for i := range x {
		d := x[i] - 3*s.Prev1[i] + 3*s.Prev2[i] - s.Prev3[i]
		sum += d * d
	}
	return o.Weight * Groove(math.Sqrt(sum), 0, 2, 0.1, 10.0, 2)
}

// MaximizeManipulability rewards configurations away from kinematic
// singularities with a groove term that pulls the Yoshikawa manipulability
// measure toward 1,
// grounded on original_source's MaximizeManipulability objective (there
// implemented against a Jacobian from the k-nearest-neighbor/URDF FK layer;
// here against kinematics.Robot.Manipulability, the out-of-scope FK engine's
// equivalent surface per spec.md section 5).
type MaximizeManipulability struct {
	Weight float64
}

func (o MaximizeManipulability) Value(x []float64, s *State, _ kinematics.FrameBundle) float64 {
	// groove pulls the manipulability measure toward 1 rather than merely
	// negating it, so the penalty saturates instead of rewarding arbitrarily
	// large measures away from any particular target.
	return o.Weight * Groove(s.Robot.Manipulability(x), 1, 2, 0.5, 0.1, 2)
}

// --- Self collision (not enabled by any preset by default) ---------------

// SelfCollision penalizes link pairs that approach closer than the sum of
// their radii, per spec.md section 4.2's optional self-collision extension.
// Disabled by default in both objective-set presets (see objectiveset.go);
// callers opt in explicitly. Grounded on original_source's collision_grad.rs
// sphere-sphere proxy model, simplified here to pairs of end-effector-chain
// links since the minimal kinematics.Robot surface exposes no link-radius
// metadata beyond Settings.LinkRadius (see settings.go).
type SelfCollision struct {
	ChainA, LinkA int
	ChainB, LinkB int
	RadiusA       float64
	RadiusB       float64
	Weight        float64
}

func (o SelfCollision) Value(_ []float64, _ *State, frames kinematics.FrameBundle) float64 {
	a := frames[o.ChainA].Positions[o.LinkA]
	b := frames[o.ChainB].Positions[o.LinkB]
	d := a.Sub(b).Norm()
	minSep := o.RadiusA + o.RadiusB
	if d >= minSep {
		return 0
	}
	return o.Weight * (minSep - d) * (minSep - d)
}

// --- Per-axis fan-out helpers -----------------------------------------

// EEPosGoal fans out to three EEPositionPerAxis terms, one per axis, for
// callers who want independent per-axis tolerance bands instead of a single
// Euclidean residual. Not used by either default preset (see EEPosGoals
// below for what standard-IK actually adds); available the way
// original_source's MatchEEPosiDoF is available standalone of
// MatchEEPosGoals.
func EEPosGoal(chainIdx int, weight float64) []Objective {
	return []Objective{
		EEPositionPerAxis{ChainIdx: chainIdx, Axis: AxisX, Weight: weight},
		EEPositionPerAxis{ChainIdx: chainIdx, Axis: AxisY, Weight: weight},
		EEPositionPerAxis{ChainIdx: chainIdx, Axis: AxisZ, Weight: weight},
	}
}

// EEQuatGoal is the rotational analogue of EEPosGoal.
func EEQuatGoal(chainIdx int, weight float64) []Objective {
	return []Objective{
		EERotationPerAxis{ChainIdx: chainIdx, Axis: AxisX, Weight: weight},
		EERotationPerAxis{ChainIdx: chainIdx, Axis: AxisY, Weight: weight},
		EERotationPerAxis{ChainIdx: chainIdx, Axis: AxisZ, Weight: weight},
	}
}

// --- Whole-pose goal objectives (standard-IK's lite preset) ---------------

// EEPosGoals penalizes the Euclidean distance between chain ChainIdx's
// end-effector position and its goal as a single groove term, per spec.md
// section 4.2/4.3's EEPosGoals and original_source's MatchEEPosGoals. Unlike
// EEPositionPerAxis, this is the objective standard-IK's preset actually
// uses: one term per chain, not three.
type EEPosGoals struct {
	ChainIdx int
	Weight   float64
}

func eePosResidual(pos, goal r3.Vector) float64 {
	return pos.Sub(goal).Norm()
}

func (o EEPosGoals) Value(_ []float64, s *State, frames kinematics.FrameBundle) float64 {
	chain := frames[o.ChainIdx]
	pos := chain.Positions[len(chain.Positions)-1]
	g := s.EEGoal(o.ChainIdx)
	return o.Weight * Groove(eePosResidual(pos, g.Position), 0, 2, 0.1, 10.0, 2)
}

func (o EEPosGoals) ValueLite(_ []float64, s *State, eePoses []kinematics.EEPose) float64 {
	g := s.EEGoal(o.ChainIdx)
	return o.Weight * Groove(eePosResidual(eePoses[o.ChainIdx].Position, g.Position), 0, 2, 0.1, 10.0, 2)
}

// EEQuatGoals penalizes the shortest-arc angle between chain ChainIdx's
// end-effector orientation and its goal, handling the quaternion double
// cover via spatial.AngleBetween's min(angle(q, g), angle(q, -g)), per
// spec.md section 4.2/4.3's EEQuatGoals and original_source's
// MatchEEQuatGoals.
type EEQuatGoals struct {
	ChainIdx int
	Weight   float64
}

func (o EEQuatGoals) Value(_ []float64, s *State, frames kinematics.FrameBundle) float64 {
	chain := frames[o.ChainIdx]
	rot := chain.Rotations[len(chain.Rotations)-1]
	g := s.EEGoal(o.ChainIdx)
	return o.Weight * Groove(spatial.AngleBetween(rot, g.Rotation), 0, 2, 0.1, 10.0, 2)
}

func (o EEQuatGoals) ValueLite(_ []float64, s *State, eePoses []kinematics.EEPose) float64 {
	g := s.EEGoal(o.ChainIdx)
	return o.Weight * Groove(spatial.AngleBetween(eePoses[o.ChainIdx].Rotation, g.Rotation), 0, 2, 0.1, 10.0, 2)
}
