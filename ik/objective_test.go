package ik

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/relaxedik/kinematics"
)

func TestEEPositionPerAxisZeroAtGoal(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := make([]float64, 6)
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)

	frames := robot.FramesAt(x)
	obj := EEPositionPerAxis{ChainIdx: 0, Axis: AxisZ, Weight: 1.0}
	v := obj.Value(x, s, frames)
	test.That(t, v, test.ShouldAlmostEqual, Groove(0, 0, 2, 0.1, 10.0, 2), 1e-9)
}

func TestEEPositionPerAxisGrowsAwayFromGoal(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x0 := make([]float64, 6)
	s, err := NewState(robot, x0)
	test.That(t, err, test.ShouldBeNil)

	obj := EEPositionPerAxis{ChainIdx: 0, Axis: AxisX, Weight: 1.0}
	atGoal := obj.Value(x0, s, robot.FramesAt(x0))

	x1 := []float64{0, 0.3, 0, 0, 0, 0}
	away := obj.Value(x1, s, robot.FramesAt(x1))
	test.That(t, away, test.ShouldBeGreaterThan, atGoal)
}

func TestJointLimitPenalizesOutOfRange(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := make([]float64, 6)
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)

	obj := JointLimit{DoFIdx: 0, Lower: -1, Upper: 1, Weight: 1.0}
	inside := obj.Value([]float64{0, 0, 0, 0, 0, 0}, s, nil)
	outside := obj.Value([]float64{5, 0, 0, 0, 0, 0}, s, nil)
	test.That(t, outside, test.ShouldBeGreaterThan, inside)

	_, implementsGradient := Objective(obj).(AnalyticGradient)
	test.That(t, implementsGradient, test.ShouldBeFalse)
}

func TestMinimizeVelocityZeroWhenStationary(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x := []float64{0.1, 0.2, 0.3, 0, 0, 0}
	s, err := NewState(robot, x)
	test.That(t, err, test.ShouldBeNil)

	obj := MinimizeVelocity{Weight: 1.0}
	stationary := obj.Value(x, s, nil)
	test.That(t, stationary, test.ShouldAlmostEqual, Groove(0, 0, 2, 0.1, 10.0, 2), 1e-9)

	moved := []float64{0.2, 0.2, 0.3, 0, 0, 0}
	test.That(t, obj.Value(moved, s, nil), test.ShouldBeGreaterThan, stationary)
}

func TestSelfCollisionZeroWhenFarApart(t *testing.T) {
	robot := kinematics.BimanualFixture()
	x := make([]float64, 6)
	frames := robot.FramesAt(x)
	obj := SelfCollision{ChainA: 0, LinkA: 0, ChainB: 1, LinkB: 0, RadiusA: 0.05, RadiusB: 0.05, Weight: 1.0}
	test.That(t, obj.Value(x, nil, frames), test.ShouldAlmostEqual, 0, 1e-12)
}
