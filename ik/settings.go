package ik

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go.viam.com/relaxedik/kinematics"
)

// Settings is the YAML configuration document described in spec.md section
// 6: urdf (filename), base_links, ee_links, an optional joint_ordering,
// an optional starting_config (default zeros), an optional ee_only
// (default true), and link_radius for the self-collision extension.
// Grounded on the teacher's own yaml-driven settings files
// (components/arm/fake/kinematics's JSON fixtures play the analogous role;
// go.viam.com/test-adjacent config loaders in the pack use gopkg.in/yaml.v3
// the same way).
type Settings struct {
	URDF           string    `yaml:"urdf"`
	BaseLinks      []string  `yaml:"base_links"`
	EELinks        []string  `yaml:"ee_links"`
	JointOrdering  []string  `yaml:"joint_ordering,omitempty"`
	StartingConfig []float64 `yaml:"starting_config,omitempty"`
	EEOnly         *bool     `yaml:"ee_only,omitempty"`
	LinkRadius     float64   `yaml:"link_radius,omitempty"`
}

// EEOnlyOrDefault resolves the optional ee_only key to its spec.md default
// of true.
func (s *Settings) EEOnlyOrDefault() bool {
	if s.EEOnly == nil {
		return true
	}
	return *s.EEOnly
}

// LoadSettings reads and validates a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ik: reading settings file %q: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("ik: parsing settings file %q: %w", path, err)
	}
	if s.URDF == "" {
		return nil, fmt.Errorf("ik: settings file %q is missing required key %q", path, "urdf")
	}
	if len(s.BaseLinks) == 0 || len(s.EELinks) == 0 {
		return nil, fmt.Errorf("ik: settings file %q must list at least one base_links and ee_links entry", path)
	}
	if len(s.BaseLinks) != len(s.EELinks) {
		return nil, fmt.Errorf("ik: settings file %q has %d base_links but %d ee_links", path, len(s.BaseLinks), len(s.EELinks))
	}
	return &s, nil
}

// NewSolverFromConfig builds a Solver from settings and an already-built
// Robot. Parsing s.URDF into a Robot is the out-of-scope forward-kinematics
// engine's job per spec.md section 5 -- callers resolve base_links/ee_links/
// joint_ordering against their own URDF/frame-system loader and hand the
// resulting kinematics.Robot in here, mirroring how the teacher's
// referenceframe package (absent from this pack) sits below motionplan/ik.
func NewSolverFromConfig(settings *Settings, robot kinematics.Robot) (*Solver, error) {
	starting := settings.StartingConfig
	if len(starting) == 0 {
		starting = make([]float64, robot.NumDoFs())
	}
	if len(starting) != robot.NumDoFs() {
		return nil, fmt.Errorf("ik: starting_config has %d entries, robot has %d DoFs", len(starting), robot.NumDoFs())
	}
	solver, err := NewSolver(robot, starting)
	if err != nil {
		return nil, err
	}
	solver.State.SetEEOnly(settings.EEOnlyOrDefault())
	return solver, nil
}
