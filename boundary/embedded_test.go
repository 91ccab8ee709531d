package boundary

import (
	"encoding/json"
	"testing"

	"go.viam.com/test"

	"go.viam.com/relaxedik/kinematics"
)

func fixtureRobotBuilder(robot kinematics.Robot) RobotFromURDF {
	return func(_ string, _ Config) (kinematics.Robot, error) {
		return robot, nil
	}
}

func newTestEmbedded(t *testing.T) *Embedded {
	t.Helper()
	cfg := Config{BaseLinks: []string{"base"}, EELinks: []string{"tool"}}
	body, err := json.Marshal(cfg)
	test.That(t, err, test.ShouldBeNil)

	e, err := NewEmbedded(body, "", fixtureRobotBuilder(kinematics.SixDoFArmFixture()))
	test.That(t, err, test.ShouldBeNil)
	return e
}

func TestNewEmbeddedRejectsMismatchedLinkLists(t *testing.T) {
	cfg := Config{BaseLinks: []string{"b1", "b2"}, EELinks: []string{"tool"}}
	body, err := json.Marshal(cfg)
	test.That(t, err, test.ShouldBeNil)

	_, err = NewEmbedded(body, "", fixtureRobotBuilder(kinematics.SixDoFArmFixture()))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolvePositionReturnsDElementConfig(t *testing.T) {
	e := newTestEmbedded(t)
	pos := []float64{0, 0, 0.9}
	quat := []float64{0, 0, 0, 1}
	tol := make([]float64, 6)

	xopt, err := e.SolvePosition(pos, quat, tol)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(xopt), test.ShouldEqual, 6)
}

func TestSolvePositionRejectsWrongSizedArrays(t *testing.T) {
	e := newTestEmbedded(t)
	_, err := e.SolvePosition([]float64{0, 0}, []float64{0, 0, 0, 1}, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolvePositionRelativeNearZeroMotionForIdentityDelta(t *testing.T) {
	e := newTestEmbedded(t)
	pos := []float64{0, 0, 0}
	quat := []float64{0, 0, 0, 1}

	xopt, err := e.SolvePositionRelative(pos, quat, nil)
	test.That(t, err, test.ShouldBeNil)
	for _, v := range xopt {
		test.That(t, v, test.ShouldAlmostEqual, 0, 1e-2)
	}
}

func TestResetWithNilRestoresSavedInit(t *testing.T) {
	e := newTestEmbedded(t)
	err := e.Reset(nil)
	test.That(t, err, test.ShouldBeNil)
}

func TestResetRejectsWrongLength(t *testing.T) {
	e := newTestEmbedded(t)
	err := e.Reset([]float64{0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}
