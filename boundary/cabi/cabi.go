// Package cabi is the C-ABI boundary of spec.md section 6, exporting the
// relaxed-IK solver to a C caller via cgo, grounded on the teacher's own
// cgo-gated native bindings (e.g. the nlopt wrapper original_source links
// against, and viamrobotics-rdk's "!windows && !no_cgo" build-tagged native
// code paths). Pointers and lengths are marshaled explicitly at every
// exported function; Go values never cross the boundary as raw pointers,
// per Go's cgo pointer-passing rules -- each *ik.Solver is tracked behind a
// runtime/cgo.Handle and the C side only ever holds the handle's integer
// value.
package cabi

/*
#include <stdlib.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/ik"
	"go.viam.com/relaxedik/kinematics"
	"go.viam.com/relaxedik/spatial"
)

// RobotBuilder resolves a YAML settings file's urdf/base_links/ee_links into
// a kinematics.Robot. A C-ABI binary built from this package links in a
// concrete forward-kinematics engine (out of scope here, per spec.md section
// 5) and assigns RobotBuilder once during program initialization before any
// exported function is called.
var RobotBuilder func(settings *ik.Settings) (kinematics.Robot, error)

// floatArray is the {data, length} pair spec.md section 6's solve() returns.
type floatArray struct {
	Data   *C.double
	Length C.int
}

func cFloatArray(xs []float64) floatArray {
	if len(xs) == 0 {
		return floatArray{}
	}
	buf := C.malloc(C.size_t(len(xs)) * C.size_t(unsafe.Sizeof(C.double(0))))
	out := (*[1 << 30]C.double)(buf)[:len(xs):len(xs)]
	for i, x := range xs {
		out[i] = C.double(x)
	}
	return floatArray{Data: (*C.double)(buf), Length: C.int(len(xs))}
}

func goFloatSlice(data *C.double, length C.int) []float64 {
	if data == nil || length == 0 {
		return nil
	}
	src := (*[1 << 30]C.double)(unsafe.Pointer(data))[:int(length):int(length)]
	out := make([]float64, int(length))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

func solverFromHandle(h C.uintptr_t) *ik.Solver {
	return cgo.Handle(h).Value().(*ik.Solver)
}

// relaxed_ik_new is new(path_to_yaml_cstr) -> *Solver.
//
//export relaxed_ik_new
func relaxed_ik_new(pathToYamlCStr *C.char) C.uintptr_t {
	if RobotBuilder == nil {
		return 0
	}
	path := C.GoString(pathToYamlCStr)
	settings, err := ik.LoadSettings(path)
	if err != nil {
		return 0
	}
	robot, err := RobotBuilder(settings)
	if err != nil {
		return 0
	}
	solver, err := ik.NewSolverFromConfig(settings, robot)
	if err != nil {
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(solver))
}

// relaxed_ik_free is free(*Solver).
//
//export relaxed_ik_free
func relaxed_ik_free(handle C.uintptr_t) {
	cgo.Handle(handle).Delete()
}

// reset is reset(solver, p3, p2, p1, init, lengths...).
//
//export reset
func reset(handle C.uintptr_t, p3, p2, p1, initState *C.double, n C.int) C.int {
	solver := solverFromHandle(handle)
	err := solver.Reset(
		goFloatSlice(p3, n),
		goFloatSlice(p2, n),
		goFloatSlice(p1, n),
		goFloatSlice(initState, n),
	)
	if err != nil {
		return -1
	}
	return 0
}

// solve is solve(solver, pos, n_pos, quat, n_quat, tol, n_tol) -> {data, length}.
// Quaternions are exchanged as (qw, qx, qy, qz), per spec.md section 6's
// C-boundary convention.
//
//export solve
func solve(handle C.uintptr_t, pos *C.double, nPos C.int, quat *C.double, nQuat C.int, tol *C.double, nTol C.int) floatArray {
	solver := solverFromHandle(handle)
	n := solver.Robot.NumChains()

	posSlice, quatSlice, tolSlice := goFloatSlice(pos, nPos), goFloatSlice(quat, nQuat), goFloatSlice(tol, nTol)
	if len(posSlice) != 3*n || len(quatSlice) != 4*n {
		return floatArray{}
	}
	goals, err := packGoalsQWFirst(posSlice, quatSlice, tolSlice, n)
	if err != nil {
		return floatArray{}
	}
	xopt, err := solver.Solve(goals)
	if err != nil {
		return floatArray{}
	}
	return cFloatArray(xopt)
}

// solve_velocity is solve_velocity(solver, pos_vel, n_pos_vel, rot_vel,
// n_rot_vel, dt): integrates velocities over dt into goals before solving.
// It takes no tolerance argument; the solve uses zero tolerances.
//
//export solve_velocity
func solve_velocity(handle C.uintptr_t, posVel *C.double, nPosVel C.int, rotVel *C.double, nRotVel C.int, dt C.double) floatArray {
	solver := solverFromHandle(handle)
	n := solver.Robot.NumChains()

	linear := goFloatSlice(posVel, nPosVel)
	angular := goFloatSlice(rotVel, nRotVel)
	if len(linear) != 3*n || len(angular) != 3*n {
		return floatArray{}
	}
	linVel := make([]r3.Vector, n)
	angVel := make([]r3.Vector, n)
	for i := 0; i < n; i++ {
		linVel[i] = r3.Vector{X: linear[3*i], Y: linear[3*i+1], Z: linear[3*i+2]}
		angVel[i] = r3.Vector{X: angular[3*i], Y: angular[3*i+1], Z: angular[3*i+2]}
	}
	xopt, err := solver.SolveVelocity(linVel, angVel, float64(dt))
	if err != nil {
		return floatArray{}
	}
	return cFloatArray(xopt)
}

func packPoses(poses []kinematics.EEPose) floatArray {
	flat := make([]float64, 0, len(poses)*7)
	for _, p := range poses {
		w, x, y, z := p.Rotation.WXYZ()
		flat = append(flat, p.Position.X, p.Position.Y, p.Position.Z, w, x, y, z)
	}
	return cFloatArray(flat)
}

// get_ee_poses returns (x,y,z,qw,qx,qy,qz) tuples concatenated, one per
// chain.
//
//export get_ee_poses
func get_ee_poses(handle C.uintptr_t) floatArray {
	solver := solverFromHandle(handle)
	return packPoses(solver.GetEEPoses())
}

// get_frames returns (x,y,z,qw,qx,qy,qz) tuples concatenated for every link
// in every chain, per spec.md section 5's get_frames.
//
//export get_frames
func get_frames(handle C.uintptr_t) floatArray {
	solver := solverFromHandle(handle)
	bundle := solver.GetFrames()
	var poses []kinematics.EEPose
	for _, chain := range bundle {
		for i := range chain.Positions {
			poses = append(poses, kinematics.EEPose{Position: chain.Positions[i], Rotation: chain.Rotations[i]})
		}
	}
	return packPoses(poses)
}

// set_ee_only is set_ee_only(flag).
//
//export set_ee_only
func set_ee_only(handle C.uintptr_t, flag C.int) {
	solverFromHandle(handle).SetEEOnly(flag != 0)
}

// set_valid_chains is set_valid_chains(mask, n): mask[i] != 0 means chain i
// is active.
//
//export set_valid_chains
func set_valid_chains(handle C.uintptr_t, mask *C.int, n C.int) {
	solver := solverFromHandle(handle)
	if mask == nil || n == 0 {
		solver.SetValidChains(nil)
		return
	}
	src := (*[1 << 30]C.int)(unsafe.Pointer(mask))[:int(n):int(n)]
	var valid []int
	for i, v := range src {
		if v != 0 {
			valid = append(valid, i)
		}
	}
	solver.SetValidChains(valid)
}

func packGoalsQWFirst(pos, quat, tolerance []float64, n int) ([]ik.GoalPose, error) {
	goals := make([]ik.GoalPose, n)
	for i := 0; i < n; i++ {
		g := ik.GoalPose{
			Position: r3.Vector{X: pos[3*i], Y: pos[3*i+1], Z: pos[3*i+2]},
			Rotation: spatial.NewRotationWXYZ(quat[4*i], quat[4*i+1], quat[4*i+2], quat[4*i+3]),
		}
		if len(tolerance) == 6*n {
			copy(g.Tolerance[:], tolerance[6*i:6*i+6])
		}
		goals[i] = g
	}
	return goals, nil
}

// get_wrist_poses is intentionally not exported here: original_source
// hardcodes chain indices [0, 5] and frame index 7, which spec.md section 9
// calls out as robot-specific scaffolding that should not be reimplemented
// as part of the core.
