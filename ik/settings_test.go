package ik

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/relaxedik/kinematics"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	test.That(t, os.WriteFile(path, []byte(body), 0o600), test.ShouldBeNil)
	return path
}

func TestLoadSettingsAppliesDefaults(t *testing.T) {
	path := writeSettings(t, `
urdf: arm.urdf
base_links: [base]
ee_links: [tool]
`)
	s, err := LoadSettings(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.EEOnlyOrDefault(), test.ShouldBeTrue)
	test.That(t, len(s.StartingConfig), test.ShouldEqual, 0)
}

func TestLoadSettingsHonorsExplicitEEOnly(t *testing.T) {
	path := writeSettings(t, `
urdf: arm.urdf
base_links: [base]
ee_links: [tool]
ee_only: false
`)
	s, err := LoadSettings(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.EEOnlyOrDefault(), test.ShouldBeFalse)
}

func TestLoadSettingsRejectsMissingURDF(t *testing.T) {
	path := writeSettings(t, `
base_links: [base]
ee_links: [tool]
`)
	_, err := LoadSettings(path)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadSettingsRejectsMismatchedLinkLists(t *testing.T) {
	path := writeSettings(t, `
urdf: arm.urdf
base_links: [base1, base2]
ee_links: [tool]
`)
	_, err := LoadSettings(path)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewSolverFromConfigDefaultsStartingConfig(t *testing.T) {
	robot := kinematics.SixDoFArmFixture()
	s := &Settings{URDF: "arm.urdf", BaseLinks: []string{"base"}, EELinks: []string{"tool"}}
	solver, err := NewSolverFromConfig(s, robot)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(solver.State.Xopt), test.ShouldEqual, 6)
	test.That(t, solver.State.EEOnly, test.ShouldBeTrue)
}
