// Package boundary implements the external interfaces of spec.md section 6:
// Embedded (this file) mirrors the browser/JS-style embedded-runtime
// boundary original_source exposes through wasm-bindgen; package
// boundary/cabi mirrors the C-ABI boundary.
package boundary

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/ik"
	"go.viam.com/relaxedik/kinematics"
	"go.viam.com/relaxedik/spatial"
)

// Config is the embedded boundary's construction payload, per spec.md
// section 6: "new(configs_json, urdf_text) -- JSON with link_radius,
// base_links, ee_links, joint_ordering, starting_config, ee_only".
type Config struct {
	LinkRadius     float64   `json:"link_radius"`
	BaseLinks      []string  `json:"base_links"`
	EELinks        []string  `json:"ee_links"`
	JointOrdering  []string  `json:"joint_ordering"`
	StartingConfig []float64 `json:"starting_config"`
	EEOnly         *bool     `json:"ee_only"`
}

func (c *Config) eeOnlyOrDefault() bool {
	if c.EEOnly == nil {
		return true
	}
	return *c.EEOnly
}

// RobotFromURDF resolves a URDF document plus the link/joint names named in
// Config into a kinematics.Robot. Parsing URDF XML is the out-of-scope
// forward-kinematics engine's job (spec.md section 5); callers supply it.
type RobotFromURDF func(urdfText string, cfg Config) (kinematics.Robot, error)

// Embedded is the embedded-runtime boundary of spec.md section 6: JSON
// configuration in, flat float arrays in and out, quaternions exchanged in
// (x, y, z, w) order.
type Embedded struct {
	solver *ik.Solver
}

// NewEmbedded constructs an Embedded boundary, grounded on original_source's
// relaxed_ik_wrapper.rs Opt::new (the wasm-bindgen constructor every JS host
// call goes through).
func NewEmbedded(configsJSON []byte, urdfText string, buildRobot RobotFromURDF) (*Embedded, error) {
	var cfg Config
	if err := json.Unmarshal(configsJSON, &cfg); err != nil {
		return nil, fmt.Errorf("boundary: parsing configs_json: %w", err)
	}
	if len(cfg.BaseLinks) == 0 || len(cfg.EELinks) == 0 {
		return nil, errors.New("boundary: configs_json must list at least one base_links and ee_links entry")
	}
	if len(cfg.BaseLinks) != len(cfg.EELinks) {
		return nil, fmt.Errorf("boundary: configs_json has %d base_links but %d ee_links", len(cfg.BaseLinks), len(cfg.EELinks))
	}

	robot, err := buildRobot(urdfText, cfg)
	if err != nil {
		return nil, fmt.Errorf("boundary: building robot from urdf: %w", err)
	}

	starting := cfg.StartingConfig
	if len(starting) == 0 {
		starting = make([]float64, robot.NumDoFs())
	}
	if len(starting) != robot.NumDoFs() {
		return nil, fmt.Errorf("boundary: starting_config has %d entries, robot has %d DoFs", len(starting), robot.NumDoFs())
	}

	solver, err := ik.NewSolver(robot, starting)
	if err != nil {
		return nil, fmt.Errorf("boundary: constructing solver: %w", err)
	}
	solver.State.SetEEOnly(cfg.eeOnlyOrDefault())
	return &Embedded{solver: solver}, nil
}

// Reset restores configuration history. A nil initState restores the
// previously saved init_state; otherwise its length must equal D, per
// spec.md section 6 reset(init_state_or_null).
func (e *Embedded) Reset(initState []float64) error {
	d := e.solver.Robot.NumDoFs()
	if initState == nil {
		saved := e.solver.State.InitState
		return e.solver.Reset(saved, saved, saved, saved)
	}
	if len(initState) != d {
		return fmt.Errorf("boundary: reset init_state has %d entries, want %d", len(initState), d)
	}
	return e.solver.Reset(initState, initState, initState, initState)
}

func packGoals(pos []float64, quat []float64, tolerance []float64, n int) ([]ik.GoalPose, error) {
	if len(pos) != 3*n {
		return nil, fmt.Errorf("boundary: position array has %d entries, want %d (3*%d chains)", len(pos), 3*n, n)
	}
	if len(quat) != 4*n {
		return nil, fmt.Errorf("boundary: quaternion array has %d entries, want %d (4*%d chains)", len(quat), 4*n, n)
	}
	if len(tolerance) != 0 && len(tolerance) != 6*n {
		return nil, fmt.Errorf("boundary: tolerance array has %d entries, want %d (6*%d chains)", len(tolerance), 6*n, n)
	}
	goals := make([]ik.GoalPose, n)
	for i := 0; i < n; i++ {
		g := ik.GoalPose{
			Position: r3.Vector{X: pos[3*i], Y: pos[3*i+1], Z: pos[3*i+2]},
			// Embedded boundary exchanges quaternions as (x, y, z, w);
			// spatial.Rotation is stored (w, x, y, z) internally, per
			// spec.md section 6's convention split.
			Rotation: spatial.NewRotationWXYZ(quat[4*i+3], quat[4*i+0], quat[4*i+1], quat[4*i+2]),
		}
		if len(tolerance) == 6*n {
			copy(g.Tolerance[:], tolerance[6*i:6*i+6])
		}
		goals[i] = g
	}
	return goals, nil
}

// SolvePosition is spec.md section 6's solve_position(pos, quat, tolerance):
// absolute goals, flat position (3*N), flat quaternion (4*N) in (x,y,z,w)
// order, flat tolerance (6*N). Returns the D-element configuration.
func (e *Embedded) SolvePosition(pos, quat, tolerance []float64) ([]float64, error) {
	n := e.solver.Robot.NumChains()
	goals, err := packGoals(pos, quat, tolerance, n)
	if err != nil {
		return nil, err
	}
	return e.solver.Solve(goals)
}

// SolvePositionRelative is solve_position_relative: same array shapes,
// treated as offsets from the initial end-effector snapshot.
func (e *Embedded) SolvePositionRelative(pos, quat, tolerance []float64) ([]float64, error) {
	n := e.solver.Robot.NumChains()
	deltas, err := packGoals(pos, quat, tolerance, n)
	if err != nil {
		return nil, err
	}
	return e.solver.SolveRelative(deltas)
}
