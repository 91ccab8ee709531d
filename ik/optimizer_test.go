package ik

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/relaxedik/kinematics"
)

func TestGradientDescentOptimizerReducesObjectiveValue(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x0 := make([]float64, 6)
	s, err := NewState(robot, x0)
	test.That(t, err, test.ShouldBeNil)

	// Move the goal so x0 is no longer optimal.
	s.Goals[0][len(s.Goals[0])-1].Position.X = 0.2
	set := ObjectiveSet{Objectives: []Objective{EEPositionPerAxis{ChainIdx: 0, Axis: AxisX, Weight: 1.0}}}

	before := set.Value(x0, s)
	opt := NewGradientDescentOptimizer()
	xopt := opt.Minimize(set, s, x0, 50)
	after := set.Value(xopt, s)

	test.That(t, after, test.ShouldBeLessThan, before)
}

func TestGradientDescentOptimizerStopsAtConvergence(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	x0 := make([]float64, 6)
	s, err := NewState(robot, x0)
	test.That(t, err, test.ShouldBeNil)

	set := NewStandardIKObjectiveSet(robot)
	opt := NewGradientDescentOptimizer()
	xopt := opt.Minimize(set, s, x0, 20)
	test.That(t, len(xopt), test.ShouldEqual, 6)
}
