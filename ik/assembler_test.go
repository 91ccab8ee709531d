package ik

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/relaxedik/kinematics"
)

func TestValueAndGradientMatchesSumOfValues(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := []float64{0.1, 0.2, -0.1, 0.05, 0, 0.2}
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)

	objs := []Objective{
		EEPositionPerAxis{ChainIdx: 0, Axis: AxisX, Weight: 1.0},
		EEPositionPerAxis{ChainIdx: 0, Axis: AxisY, Weight: 1.0},
		JointLimit{DoFIdx: 0, Lower: -1, Upper: 1, Weight: 1.0},
	}
	value, grad := ValueAndGradient(objs, x, s, DefaultFiniteDiffStep)
	test.That(t, len(grad), test.ShouldEqual, 6)

	frames := robot.FramesAt(x)
	var want float64
	for _, o := range objs {
		want += o.Value(x, s, frames)
	}
	test.That(t, value, test.ShouldAlmostEqual, want, 1e-9)
}

func TestFiniteDiffGradientPointsDownhill(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := []float64{0, 0, 0, 0, 0, 0}
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)
	// Perturb the goal so x=0 is no longer optimal for chain 0's X position.
	s.Goals[0][len(s.Goals[0])-1].Position.X = 0.3

	objs := []Objective{EEPositionPerAxis{ChainIdx: 0, Axis: AxisX, Weight: 1.0}}
	value0, grad := ValueAndGradient(objs, x, s, DefaultFiniteDiffStep)

	step := 0.01
	xNext := make([]float64, len(x))
	for i := range x {
		xNext[i] = x[i] - step*grad[i]
	}
	value1, _ := ValueAndGradient(objs, xNext, s, DefaultFiniteDiffStep)
	test.That(t, value1, test.ShouldBeLessThan, value0)
}

func TestValueAndGradientRunsWithSmoothnessTerm(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := make([]float64, 6)
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)

	// MinimizeVelocity has no AnalyticGradient implementation either, so this
	// just confirms the assembler runs end to end with a smoothness term.
	// The groove-wrapped norm has a kink at zero velocity, so the
	// finite-differenced gradient there is small but not exactly zero.
	objs := []Objective{MinimizeVelocity{Weight: 1.0}}
	_, grad := ValueAndGradient(objs, x, s, DefaultFiniteDiffStep)
	for _, g := range grad {
		test.That(t, g, test.ShouldAlmostEqual, 0, 1e-3)
	}
}
