package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/spatial"
)

// SixDoFArmFixture returns a single-chain, six-revolute-joint arm used by ik
// package tests and cmd/relaxedikd, in the same spirit as the teacher's
// components/arm/fake/kinematics/xarm6.json fixture: a small, deterministic
// stand-in for a real URDF-parsed arm.
func SixDoFArmFixture() *SerialChainRobot {
	const link = 0.15
	axes := []r3.Vector{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	joints := make([]Joint, len(axes))
	for i, axis := range axes {
		joints[i] = Joint{
			Type:           Revolute,
			Origin:         r3.Vector{X: 0, Y: 0, Z: link},
			OriginRotation: spatial.IdentityRotation(),
			Axis:           axis,
			DoFIndex:       i,
			Lower:          -math.Pi,
			Upper:          math.Pi,
		}
	}
	return NewSerialChainRobot([]Chain{{Joints: joints}})
}

// BimanualFixture returns a two-chain robot with independent three-DoF arms
// (disjoint DoF ranges), used for the bimanual scenario of spec.md section 8
// (S6).
func BimanualFixture() *SerialChainRobot {
	const link = 0.2
	build := func(base int, origin r3.Vector) []Joint {
		axes := []r3.Vector{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}
		joints := make([]Joint, len(axes))
		for i, axis := range axes {
			o := r3.Vector{X: 0, Y: 0, Z: link}
			if i == 0 {
				o = origin
			}
			joints[i] = Joint{
				Type:           Revolute,
				Origin:         o,
				OriginRotation: spatial.IdentityRotation(),
				Axis:           axis,
				DoFIndex:       base + i,
				Lower:          -math.Pi,
				Upper:          math.Pi,
			}
		}
		return joints
	}
	left := build(0, r3.Vector{X: -0.3, Y: 0, Z: 0})
	right := build(3, r3.Vector{X: 0.3, Y: 0, Z: 0})
	return NewSerialChainRobot([]Chain{{Joints: left}, {Joints: right}})
}
