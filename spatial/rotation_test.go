package spatial

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// TestAngleBetweenInvariantUnderSignFlip is invariant 3 of spec.md section 8:
// quaternion double cover means q and -q represent the same rotation, so
// AngleBetween must agree regardless of which sign either operand carries.
func TestAngleBetweenInvariantUnderSignFlip(t *testing.T) {
	a := FromAxisAngle(r3.Vector{X: 0, Y: 0, Z: math.Pi / 3})
	b := FromAxisAngle(r3.Vector{X: 0, Y: 0, Z: math.Pi / 5})

	direct := AngleBetween(a, b)
	test.That(t, AngleBetween(a, b.Negate()), test.ShouldAlmostEqual, direct, 1e-9)
	test.That(t, AngleBetween(a.Negate(), b), test.ShouldAlmostEqual, direct, 1e-9)
	test.That(t, AngleBetween(a.Negate(), b.Negate()), test.ShouldAlmostEqual, direct, 1e-9)
}

func TestAngleBetweenZeroForIdenticalRotation(t *testing.T) {
	a := FromAxisAngle(r3.Vector{X: 0.1, Y: 0.2, Z: 0.3})
	test.That(t, AngleBetween(a, a), test.ShouldAlmostEqual, 0, 1e-9)
}

func TestFromAxisAngleMatchesExpectedAngle(t *testing.T) {
	angle := math.Pi / 2
	r := FromAxisAngle(r3.Vector{X: 0, Y: 0, Z: angle})
	v := r.Rotate(r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, v.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, v.Y, test.ShouldAlmostEqual, 1, 1e-9)
}

func TestInverseUndoesRotation(t *testing.T) {
	r := FromAxisAngle(r3.Vector{X: 0.3, Y: -0.2, Z: 0.5})
	roundTrip := r.Inverse().Mul(r)
	w, x, y, z := roundTrip.WXYZ()
	test.That(t, math.Abs(w), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, x, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, z, test.ShouldAlmostEqual, 0, 1e-9)
}
