// Package ik implements the relaxed inverse-kinematics core: loss
// primitives, objectives, the per-objective gradient assembler, solver state,
// and the solve driver described in spec.md sections 4.1-4.4.
package ik

import "math"

// Groove is the well-shaped penalty combining a negated Gaussian attractor at
// t with a polynomial containment term, per spec.md section 4.1:
//
//	L = -exp(-(v-t)^d / (2c^2)) + f*(v-t)^g
//
// Transcribed from original_source/src/groove/objective.rs groove_loss.
func Groove(v, t float64, d int, c, f float64, g int) float64 {
	diff := v - t
	return -math.Exp(-ipow(diff, d)/(2*c*c)) + f*ipow(diff, g)
}

// GrooveDerivative is dL/dv for Groove.
// Follows groove_loss_derivative, generalized from d = g = 2 to any
// exponents.
func GrooveDerivative(v, t float64, d int, c, f float64, g int) float64 {
	diff := v - t
	return -math.Exp(-ipow(diff, d)/(2*c*c))*((-float64(d)*ipow(diff, d-1))/(2*c*c)) + float64(g)*f*ipow(diff, g-1)
}

// Swamp is the flat-bottomed penalty: -1 at the band centre, flat across
// most of [L, U], rising sharply near and beyond the edges, per spec.md
// section 4.1:
//
//	x = (2v - L - U)/(U - L)
//	L = (f1 + f2*x^2)*(1 - exp(-(x/b)^p)) - 1
//
// Transcribed from original_source/src/groove/objective.rs swamp_loss.
func Swamp(v, lower, upper, f1, f2 float64, p int) float64 {
	x := (2*v - lower - upper) / (upper - lower)
	b := swampB(p)
	return (f1+f2*x*x)*(1-math.Exp(-ipow(x/b, p))) - 1
}

// SwampGroove is the Gaussian-attractor-plus-containment penalty used when
// tolerances are nonzero, per spec.md section 4.1.
// Transcribed from original_source/src/groove/objective.rs swamp_groove_loss.
func SwampGroove(v, g, lower, upper, c, f1, f2, f3 float64, p int) float64 {
	x := (2*v - lower - upper) / (upper - lower)
	b := swampB(p)
	return -f1*math.Exp(-ipow(v-g, 2)/(2*c*c)) +
		f2*ipow(v-g, 2) +
		f3*(1-math.Exp(-ipow(x/b, p)))
}

// SwampGrooveDerivative is dL/dv for SwampGroove, with the numerical guard
// spec.md section 4.1 requires: "at |2v-L-U| < 1e-8 the derivative is defined
// as 0". Follows swamp_groove_loss_derivative, with the attractor offset g
// applied to the Gaussian and quadratic terms.
func SwampGrooveDerivative(v, g, lower, upper, c, f1, f2, f3 float64, p int) float64 {
	if math.Abs(2*v-lower-upper) < 1e-8 {
		return 0
	}
	x := (2*v - lower - upper) / (upper - lower)
	b := swampB(p)
	diff := v - g
	return -f1*math.Exp(-ipow(diff, 2)/(2*c*c))*((-2*diff)/(2*c*c)) +
		2*f2*diff +
		f3/(2*v-lower-upper)*(2*ipow(x/b, p)*float64(p)*math.Exp(-ipow(x/b, p)))
}

func swampB(p int) float64 {
	return math.Pow(-1/math.Log(0.05), 1/float64(p))
}

// ipow is integer-exponent pow matching Rust's f64::powi semantics (handles
// negative bases the way the loss formulas expect -- e.g. (-2.0).powi(2) = 4).
func ipow(base float64, exp int) float64 {
	if exp < 0 {
		return 1 / ipow(base, -exp)
	}
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
