// Package spatial provides the minimal rotation/vector primitives the ik
// objectives need. It deliberately does not attempt to be a general pose or
// mesh library -- that is the out-of-scope FK engine's job (see kinematics.Robot
// and SPEC_FULL.md section 0).
package spatial

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Rotation is a unit quaternion, stored (w, x, y, z) to match the internal
// convention spec.md section 6 mandates ("stored as (w, x, y, z) internally").
type Rotation struct {
	q quat.Number
}

// IdentityRotation returns the rotation that leaves every vector unchanged.
func IdentityRotation() Rotation {
	return Rotation{q: quat.Number{Real: 1}}
}

// NewRotationWXYZ builds a Rotation from raw (w, x, y, z) components,
// normalizing to guard against drift.
func NewRotationWXYZ(w, x, y, z float64) Rotation {
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	return Rotation{q: normalize(q)}
}

func normalize(q quat.Number) quat.Number {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// WXYZ returns the raw (w, x, y, z) components.
func (r Rotation) WXYZ() (w, x, y, z float64) {
	return r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag
}

// FromAxisAngle builds the rotation corresponding to a scaled-axis
// (rotation vector) representation: direction is the rotation axis, norm is
// the rotation angle in radians. This is the same construction the C-ABI
// solve_velocity boundary applies to integrate an angular velocity into a
// goal quaternion (spec.md section 6 / original_source relaxed_ik_wrapper.rs
// solve_velocity_helper: "goal_quat = q_from_axis(rot_vel) * goal_quat").
func FromAxisAngle(axisAngle r3.Vector) Rotation {
	angle := axisAngle.Norm()
	if angle < 1e-15 {
		return IdentityRotation()
	}
	half := angle / 2
	s := math.Sin(half) / angle
	return Rotation{q: quat.Number{
		Real: math.Cos(half),
		Imag: axisAngle.X * s,
		Jmag: axisAngle.Y * s,
		Kmag: axisAngle.Z * s,
	}}
}

// Inverse returns the conjugate, which for a unit quaternion is also the
// inverse rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation{q: quat.Conj(r.q)}
}

// Mul composes two rotations: (r.Mul(s)) applies s first, then r -- matching
// nalgebra's UnitQuaternion multiplication order used throughout
// original_source (goal_quat.inverse() * ee_quat, etc).
func (r Rotation) Mul(s Rotation) Rotation {
	return Rotation{q: quat.Mul(r.q, s.q)}
}

// Rotate applies the rotation to a vector.
func (r Rotation) Rotate(v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	out := quat.Mul(quat.Mul(r.q, p), quat.Conj(r.q))
	return r3.Vector{X: out.Imag, Y: out.Jmag, Z: out.Kmag}
}

// ScaledAxis returns the rotation vector (axis * angle) representation,
// the quantity original_source's MatchEERotaDoF reads per-axis
// ("rotation.scaled_axis()").
func (r Rotation) ScaledAxis() r3.Vector {
	w := r.q.Real
	if w > 1 {
		w = 1
	}
	if w < -1 {
		w = -1
	}
	angle := 2 * math.Acos(w)
	sinHalf := math.Sqrt(1 - w*w)
	if sinHalf < 1e-12 {
		return r3.Vector{}
	}
	scale := angle / sinHalf
	return r3.Vector{X: r.q.Imag * scale, Y: r.q.Jmag * scale, Z: r.q.Kmag * scale}
}

// Negate returns the antipodal quaternion representation (-w, -x, -y, -z),
// the other point on the double cover of the same rotation.
func (r Rotation) Negate() Rotation {
	return Rotation{q: quat.Scale(-1, r.q)}
}

// AngleBetween returns the shortest rotation angle between two unit
// quaternions, handling the double cover the way
// original_source's MatchEEQuatGoals does: min(angle(q, p), angle(q, -p)).
func AngleBetween(a, b Rotation) float64 {
	direct := angleBetweenDirect(a, b)
	alt := angleBetweenDirect(a, b.Negate())
	if alt < direct {
		return alt
	}
	return direct
}

func angleBetweenDirect(a, b Rotation) float64 {
	dot := a.q.Real*b.q.Real + a.q.Imag*b.q.Imag + a.q.Jmag*b.q.Jmag + a.q.Kmag*b.q.Kmag
	if dot > 1 {
		dot = 1
	}
	if dot < -1 {
		dot = -1
	}
	return 2 * math.Acos(math.Abs(dot))
}
