package ik

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/relaxedik/kinematics"
)

func TestStandardIKObjectiveSetSizing(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	set := NewStandardIKObjectiveSet(robot)
	// One EEPosGoals + one EEQuatGoals per chain, no joint limits.
	test.That(t, len(set.Objectives), test.ShouldEqual, 2)
	test.That(t, set.Mode, test.ShouldEqual, ModeLite)
	test.That(t, set.GradientStrategy, test.ShouldEqual, GradientStrategyFiniteDiffAll)
}

func TestRelaxedIKObjectiveSetAddsSmoothnessTerms(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	standard := NewStandardIKObjectiveSet(robot)
	relaxed := NewRelaxedIKObjectiveSet(robot)
	test.That(t, len(relaxed.Objectives), test.ShouldEqual, len(standard.Objectives)+4)
}

func TestObjectiveSetValueIsNotNaNAtGoalConfiguration(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := make([]float64, 6)
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)

	set := NewStandardIKObjectiveSet(robot)
	v := set.Value(x, s)
	// Confirm the lite-mode, finite-diff-all set yields a gradient of the
	// right length and a value that is not NaN at a valid configuration.
	_, grad := set.ValueAndGradient(x, s, DefaultFiniteDiffStep)
	test.That(t, len(grad), test.ShouldEqual, 6)
	test.That(t, math.IsNaN(v), test.ShouldBeFalse)
}

func TestWithSelfCollisionAppendsObjectives(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	set := NewStandardIKObjectiveSet(robot)
	before := len(set.Objectives)
	withCollision := set.WithSelfCollision([]SelfCollision{
		{ChainA: 0, LinkA: 0, ChainB: 0, LinkB: 3, RadiusA: 0.02, RadiusB: 0.02, Weight: 1.0},
	})
	test.That(t, len(withCollision.Objectives), test.ShouldEqual, before+1)
	test.That(t, len(set.Objectives), test.ShouldEqual, before)
	// WithSelfCollision must preserve the mode/gradient-strategy flags, not
	// just the objective slice.
	test.That(t, withCollision.Mode, test.ShouldEqual, set.Mode)
	test.That(t, withCollision.GradientStrategy, test.ShouldEqual, set.GradientStrategy)
}

func TestLiteModeMatchesStandardModeValue(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := []float64{0.1, -0.2, 0.3, 0, 0.05, -0.1}
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)

	lite := NewStandardIKObjectiveSet(robot)
	standard := lite
	standard.Mode = ModeStandard

	test.That(t, lite.Value(x, s), test.ShouldAlmostEqual, standard.Value(x, s), 1e-9)
}

func TestFiniteDiffAllMatchesPerObjectiveGradient(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := []float64{0.1, -0.2, 0.3, 0, 0.05, -0.1}
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)
	s.Goals[0][len(s.Goals[0])-1].Position.X += 0.1

	set := NewStandardIKObjectiveSet(robot)
	set.Mode = ModeStandard // isolate the gradient-strategy comparison from mode

	set.GradientStrategy = GradientStrategyFiniteDiffAll
	vAll, gradAll := set.ValueAndGradient(x, s, DefaultFiniteDiffStep)

	set.GradientStrategy = GradientStrategyPerObjective
	vPer, gradPer := set.ValueAndGradient(x, s, DefaultFiniteDiffStep)

	test.That(t, vAll, test.ShouldAlmostEqual, vPer, 1e-9)
	test.That(t, len(gradAll), test.ShouldEqual, len(gradPer))
	for i := range gradAll {
		test.That(t, gradAll[i], test.ShouldAlmostEqual, gradPer[i], 1e-6)
	}
}
