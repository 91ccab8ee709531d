package ik

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/kinematics"
	"go.viam.com/relaxedik/spatial"
)

// JointGoal is a single per-joint (or, at the end of a chain, per-end-effector)
// target pose plus its per-axis tolerance band, per spec.md section 3 "Goal
// set". Tolerance is (tx, ty, tz, rx, ry, rz).
type JointGoal struct {
	Position  r3.Vector
	Rotation  spatial.Rotation
	Tolerance [6]float64
}

// State is the solver's state carrier: spec.md section 3's "solver state"
// component, grounded on original_source/src/groove/vars.rs RelaxedIKVars.
//
// Goals is stored in the nested (per-joint) representation spec.md section 3
// says subsumes the flat (per-chain) one: Goals[i] has one entry per actuated
// joint in chain i, in chain order, and the end-effector goal is always the
// last entry. EEOnly records the ee_only flag; goals are stored per joint
// whatever its value, and the solve driver takes one goal per chain and
// writes only each chain's end-effector entry in both modes.
type State struct {
	Robot kinematics.Robot

	Goals       [][]JointGoal
	EEOnly      bool
	ValidChains []bool

	InitState []float64
	Xopt      []float64
	Prev1     []float64
	Prev2     []float64
	Prev3     []float64

	InitEEPoses []kinematics.EEPose
}

// NewState builds a State at the given starting configuration, with goals
// snapped to the robot's current end-effector poses and zero tolerances --
// the same initial condition original_source's from_local_settings/
// from_jsvalue constructors establish.
func NewState(robot kinematics.Robot, initState []float64) (*State, error) {
	if len(initState) != robot.NumDoFs() {
		return nil, fmt.Errorf("ik: starting configuration has %d entries, robot has %d DoFs", len(initState), robot.NumDoFs())
	}
	s := &State{
		Robot:       robot,
		EEOnly:      true,
		ValidChains: allTrue(robot.NumChains()),
		InitState:   cloneF64(initState),
		Xopt:        cloneF64(initState),
		Prev1:       cloneF64(initState),
		Prev2:       cloneF64(initState),
		Prev3:       cloneF64(initState),
	}
	s.snapInitSnapshot()
	s.SetEEOnly(true)
	return s, nil
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

func cloneF64(x []float64) []float64 { return append([]float64(nil), x...) }

func (s *State) snapInitSnapshot() {
	s.InitEEPoses = s.Robot.EEPosesAt(s.InitState)
}

// Update shifts the configuration history, per spec.md section 3:
// "after each successful solve, x-3<-x-2, x-2<-x-1, x-1<-xopt, xopt<-x_new".
func (s *State) Update(xNew []float64) {
	s.Prev3 = s.Prev2
	s.Prev2 = s.Prev1
	s.Prev1 = s.Xopt
	s.Xopt = cloneF64(xNew)
}

// Reset clears history to the supplied values and recomputes the initial
// end-effector snapshot from forward kinematics at init, per spec.md section
// 4.4 reset(p3, p2, p1, init).
func (s *State) Reset(prev3, prev2, prev1, initState []float64) error {
	if len(initState) != s.Robot.NumDoFs() {
		return fmt.Errorf("ik: reset init has %d entries, robot has %d DoFs", len(initState), s.Robot.NumDoFs())
	}
	s.Prev3 = cloneF64(prev3)
	s.Prev2 = cloneF64(prev2)
	s.Prev1 = cloneF64(prev1)
	s.InitState = cloneF64(initState)
	s.Xopt = cloneF64(initState)
	s.snapInitSnapshot()
	return nil
}

// SetEEOnly records the ee_only flag and re-snaps every goal to the current
// pose with zero tolerances. Goal storage stays one entry per actuated joint
// whichever the flag.
func (s *State) SetEEOnly(eeOnly bool) {
	s.EEOnly = eeOnly
	chainIndices := s.Robot.ChainIndices()
	frames := s.Robot.FramesAt(s.Xopt)
	goals := make([][]JointGoal, len(chainIndices))
	for i, idxs := range chainIndices {
		n := len(idxs)
		goals[i] = make([]JointGoal, n)
		for j := 0; j < n; j++ {
			goals[i][j] = JointGoal{
				Position: frames[i].Positions[linkIndexForJoint(i, j, chainIndices)],
				Rotation: frames[i].Rotations[linkIndexForJoint(i, j, chainIndices)],
			}
		}
	}
	s.Goals = goals
}

// linkIndexForJoint maps "the j-th actuated joint in chain i" to its link
// index in the FramesAt/per-link frame arrays. SerialChainRobot (and, by
// contract, any Robot) places one frame per joint including fixed ones, so
// for this minimal FK model the actuated joint order matches the frame
// order 1:1; a Robot with interleaved fixed joints would need to walk its own
// joint-type list the way original_source's MatchJointPosiDoF does (spec.md
// section 4.2), which is exactly the indices ChainIndices already resolves
// for us.
func linkIndexForJoint(_ int, j int, _ [][]int) int { return j }

// SetValidChains updates the active-chain mask (spec.md section 4.4).
func (s *State) SetValidChains(valid []int) {
	mask := make([]bool, s.Robot.NumChains())
	for _, c := range valid {
		if c >= 0 && c < len(mask) {
			mask[c] = true
		}
	}
	s.ValidChains = mask
}

// EEGoal returns the end-effector goal of chain i -- the last entry of its
// nested goal list, per the canonical representation documented on State.
func (s *State) EEGoal(chainIdx int) JointGoal {
	g := s.Goals[chainIdx]
	return g[len(g)-1]
}
