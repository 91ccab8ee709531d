package ik

import "go.viam.com/relaxedik/kinematics"

// Mode selects whether an ObjectiveSet scores its objectives against the
// full per-link FrameBundle ("standard") or the cheaper end-effector-only
// projection ("lite"), per spec.md section 4.3's mode flag.
type Mode int

const (
	// ModeStandard evaluates every objective against the full FrameBundle.
	ModeStandard Mode = iota
	// ModeLite evaluates LiteObjective implementers against EEPosesAt's
	// cheaper output, falling back to the full FrameBundle for any
	// objective that doesn't implement LiteObjective.
	ModeLite
)

// GradientStrategy selects how ObjectiveSet.ValueAndGradient assembles a
// gradient, per spec.md section 4.3's gradient-strategy flag.
type GradientStrategy int

const (
	// GradientStrategyPerObjective uses the hybrid per-objective assembler
	// (assembler.go's ValueAndGradient): AnalyticGradient implementers
	// contribute their closed-form gradient, everything else is
	// finite-differenced with one shared FK evaluation per perturbed
	// dimension.
	GradientStrategyPerObjective GradientStrategy = iota
	// GradientStrategyFiniteDiffAll finite-differences the set's total
	// value as a single lump sum, grounded on
	// original_source/src/groove/objective_master.rs's
	// __gradient_finite_diff/__gradient_finite_diff_lite.
	GradientStrategyFiniteDiffAll
)

// ObjectiveSet is the full weighted collection of objectives a Solver scores
// and differentiates each iteration, per spec.md section 4.3. It is mostly a
// plain slice wrapper because weights live on each concrete Objective
// already; grounded on
// original_source/src/groove/objective_master.rs's ObjectiveMaster, which
// likewise just walks a Vec of boxed objectives (here augmented with the
// Mode/GradientStrategy flags that ObjectiveMaster also carries).
type ObjectiveSet struct {
	Objectives       []Objective
	Mode             Mode
	GradientStrategy GradientStrategy
}

// Value sums every objective's contribution at x, dispatching to the lite
// projection when Mode is ModeLite.
func (os ObjectiveSet) Value(x []float64, s *State) float64 {
	if os.Mode == ModeLite {
		return os.valueLite(x, s)
	}
	frames := s.Robot.FramesAt(x)
	total := 0.0
	for _, o := range os.Objectives {
		total += o.Value(x, s, frames)
	}
	return total
}

func (os ObjectiveSet) valueLite(x []float64, s *State) float64 {
	eePoses := s.Robot.EEPosesAt(x)
	var frames kinematics.FrameBundle
	total := 0.0
	for _, o := range os.Objectives {
		if lo, ok := o.(LiteObjective); ok {
			total += lo.ValueLite(x, s, eePoses)
			continue
		}
		if frames == nil {
			frames = s.Robot.FramesAt(x)
		}
		total += o.Value(x, s, frames)
	}
	return total
}

// ValueAndGradient assembles a gradient using whichever GradientStrategy the
// set carries.
func (os ObjectiveSet) ValueAndGradient(x []float64, s *State, step float64) (float64, []float64) {
	if os.GradientStrategy == GradientStrategyFiniteDiffAll {
		return ValueAndGradientFiniteDiffAll(os, x, s, step)
	}
	return ValueAndGradient(os.Objectives, x, s, step)
}

// NewStandardIKObjectiveSet builds the "standard IK" preset of spec.md
// section 4.3: per chain, a single EEPosGoals and EEQuatGoals term (no
// per-axis fan-out, no joint limits), run in lite mode with the
// finite-diff-all gradient strategy. Grounded on
// original_source/src/groove/objective_master.rs standard_ik.
func NewStandardIKObjectiveSet(robot kinematics.Robot) ObjectiveSet {
	var objs []Objective
	for c := 0; c < robot.NumChains(); c++ {
		objs = append(objs, EEPosGoals{ChainIdx: c, Weight: 1.0})
		objs = append(objs, EEQuatGoals{ChainIdx: c, Weight: 1.0})
	}
	return ObjectiveSet{
		Objectives:       objs,
		Mode:             ModeLite,
		GradientStrategy: GradientStrategyFiniteDiffAll,
	}
}

// NewRelaxedIKObjectiveSet builds the "relaxed IK" preset of spec.md section
// 4.3: the standard-IK terms plus velocity/acceleration/jerk smoothness and
// a manipulability term, all weighted to shape the error landscape around
// the hard position/rotation goals so motion stays smooth rather than
// snapping exactly onto the target. Unlike standard-IK, relaxed-IK runs in
// standard mode with the per-objective gradient strategy, since its
// smoothness terms read configuration history rather than end-effector
// poses. Self-collision is available but not included by default; see
// SelfCollision and DESIGN.md. Grounded on
// original_source/src/groove/objective_master.rs relaxed_ik.
func NewRelaxedIKObjectiveSet(robot kinematics.Robot) ObjectiveSet {
	set := NewStandardIKObjectiveSet(robot)
	set.Mode = ModeStandard
	set.GradientStrategy = GradientStrategyPerObjective
	set.Objectives = append(set.Objectives,
		MinimizeVelocity{Weight: 0.7},
		MinimizeAcceleration{Weight: 0.5},
		MinimizeJerk{Weight: 0.3},
		MaximizeManipulability{Weight: 1.0},
	)
	return set
}

// WithSelfCollision returns a copy of the set with the given self-collision
// pairs appended, for callers who opt into the optional extension of
// spec.md section 4.2.
func (os ObjectiveSet) WithSelfCollision(pairs []SelfCollision) ObjectiveSet {
	out := os
	out.Objectives = append([]Objective(nil), os.Objectives...)
	for _, p := range pairs {
		out.Objectives = append(out.Objectives, p)
	}
	return out
}
