// Package kinematics defines the forward-kinematics collaborator the ik
// package consumes. Per spec.md ("THE CORE" / Non-goals), URDF parsing and the
// FK engine itself are out of scope for this module and are specified only at
// their interface -- Robot is that interface. SerialChainRobot is a minimal,
// explicitly fixture-grade implementation used by tests and cmd/relaxedikd,
// analogous to the teacher's own fake-arm fixtures
// (components/arm/fake/kinematics/*.json) rather than a production FK engine.
package kinematics

import (
	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/spatial"
)

// JointType distinguishes the two actuated joint kinds objectives care about
// (MinimizeVelocity scales prismatic joint displacement by 10; the
// acceleration and jerk objectives do not scale by joint type).
type JointType int

const (
	// Revolute joints rotate about an axis.
	Revolute JointType = iota
	// Prismatic joints translate along an axis.
	Prismatic
	// Fixed joints contribute a frame but no DoF.
	Fixed
)

// ChainFrames is the forward-kinematics output for a single chain: parallel
// position/rotation sequences, one entry per link including fixed ones, per
// spec.md section 3 "Frame bundle".
type ChainFrames struct {
	Positions []r3.Vector
	Rotations []spatial.Rotation
}

// EEPose is a cheap end-effector-only pose, the "lite mode" FK output of
// spec.md section 4.2/4.3.
type EEPose struct {
	Position r3.Vector
	Rotation spatial.Rotation
}

// FrameBundle is the full per-chain forward-kinematics output consumed by
// standard-mode objectives.
type FrameBundle []ChainFrames

// Robot is the forward-kinematics collaborator. Implementations own joint
// ordering, chain topology, and the actual kinematic computation; the ik
// package only ever reads from this interface.
type Robot interface {
	// NumDoFs returns D, the length of the configuration vector.
	NumDoFs() int
	// NumChains returns C, the number of kinematic chains.
	NumChains() int
	// ChainIndices returns, per chain, the ordered list of configuration
	// indices actuating that chain (spec.md section 3 "Chain").
	ChainIndices() [][]int
	// JointTypes returns the actuated-DoF joint type, indexed by
	// configuration index (spec.md section 4.2 MinimizeVelocity et al).
	JointTypes() []JointType
	// JointLimits returns, per configuration index, the (lower, upper)
	// bound pair.
	JointLimits() (lower, upper []float64)
	// FramesAt runs full forward kinematics at configuration x, returning
	// one ChainFrames per chain.
	FramesAt(x []float64) FrameBundle
	// EEPosesAt runs the cheap end-effector-only forward kinematics at
	// configuration x ("lite mode" of spec.md section 4.3).
	EEPosesAt(x []float64) []EEPose
	// Manipulability returns a scalar manipulability measure at
	// configuration x, consumed by MaximizeManipulability.
	Manipulability(x []float64) float64
}
