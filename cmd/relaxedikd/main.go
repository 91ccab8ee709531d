// Command relaxedikd loads a relaxed-IK settings file and runs a short demo
// solve loop against it, in the spirit of a thin CLI wrapper around the core
// library -- grounded on the teacher's own urfave/cli/v2-based entrypoints
// (go.viam.com/relaxedik/_examples/viamrobotics-rdk/cli).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/relaxedik/ik"
	"go.viam.com/relaxedik/kinematics"
	"go.viam.com/relaxedik/logging"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "relaxedikd",
		Usage: "run a relaxed inverse-kinematics solve loop against a settings file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings", Aliases: []string{"s"}, Usage: "path to a relaxed-IK settings YAML file"},
			&cli.IntFlag{Name: "ticks", Value: 10, Usage: "number of solve ticks to run"},
			&cli.Float64Flag{Name: "goal-x", Value: 0.1, Usage: "world-x offset applied to chain 0's end-effector goal"},
		},
		Action: runDemo,
	}
}

func runDemo(c *cli.Context) error {
	logger, err := logging.NewDevelopment()
	if err != nil {
		return fmt.Errorf("relaxedikd: building logger: %w", err)
	}

	solver, err := buildSolver(c.String("settings"))
	if err != nil {
		return err
	}

	goalX := c.Float64("goal-x")
	ticks := c.Int("ticks")
	logger.Infof("starting %d-chain demo solve for %d ticks, goal offset (%.3f, 0, 0)", solver.Robot.NumChains(), ticks, goalX)

	start := solver.Robot.EEPosesAt(solver.State.Xopt)
	goals := make([]ik.GoalPose, len(start))
	for i, pose := range start {
		goals[i] = ik.GoalPose{Position: pose.Position, Rotation: pose.Rotation}
	}
	goals[0].Position.X += goalX

	var errs error
	for tick := 0; tick < ticks; tick++ {
		xopt, err := solver.Solve(goals)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		logger.Infof("tick %d: xopt=%v", tick, xopt)
	}
	return errs
}

func buildSolver(settingsPath string) (*ik.Solver, error) {
	if settingsPath == "" {
		robot := kinematics.SixDoFArmFixture()
		return ik.NewSolver(robot, make([]float64, robot.NumDoFs()))
	}
	settings, err := ik.LoadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("relaxedikd: loading settings: %w", err)
	}
	// Resolving settings.URDF/BaseLinks/EELinks into a concrete robot is the
	// out-of-scope forward-kinematics engine's job (spec.md section 5); the
	// demo binary falls back to the fixture arm regardless of the requested
	// URDF so the CLI remains runnable without a real FK engine wired in.
	robot := kinematics.SixDoFArmFixture()
	return ik.NewSolverFromConfig(settings, robot)
}
