package ik

import "math"

// Optimizer minimizes an ObjectiveSet's scalar cost starting from x0, per
// spec.md section 4.4's "any equivalent unconstrained local minimizer is
// acceptable" guidance. Two implementations are provided: GradientDescentOptimizer
// (pure Go, no cgo, used as the package default and in every test) and, behind
// a build tag, NloptOptimizer (optimizer_nlopt.go), which wraps the
// production solver original_source actually drives: SLSQP via
// github.com/go-nlopt/nlopt.
type Optimizer interface {
	Minimize(set ObjectiveSet, s *State, x0 []float64, maxIters int) []float64
}

// GradientDescentOptimizer is a backtracking-line-search gradient descent
// minimizer, grounded on the teacher's nlopt-free fallback paths
// (go-nlopt/nlopt only builds when cgo is available, mirroring
// motionplan.cBiRRT's "!windows && !no_cgo" split in viamrobotics-rdk) and on
// the unconstrained-minimization shape original_source hands to NLopt.
type GradientDescentOptimizer struct {
	// StepSize is the initial step length tried each iteration.
	StepSize float64
	// FiniteDiffStep is forwarded to the assembler for non-analytic
	// objectives.
	FiniteDiffStep float64
}

// NewGradientDescentOptimizer returns an optimizer with spec.md-recommended
// defaults.
func NewGradientDescentOptimizer() *GradientDescentOptimizer {
	return &GradientDescentOptimizer{StepSize: 0.5, FiniteDiffStep: DefaultFiniteDiffStep}
}

func (g *GradientDescentOptimizer) Minimize(set ObjectiveSet, s *State, x0 []float64, maxIters int) []float64 {
	step := g.StepSize
	if step <= 0 {
		step = 0.5
	}
	fdStep := g.FiniteDiffStep
	if fdStep <= 0 {
		fdStep = DefaultFiniteDiffStep
	}
	lower, upper := s.Robot.JointLimits()
	clamp := len(lower) == len(x0)

	x := cloneF64(x0)
	for iter := 0; iter < maxIters; iter++ {
		value, grad := set.ValueAndGradient(x, s, fdStep)
		gradNorm := 0.0
		for _, gi := range grad {
			gradNorm += gi * gi
		}
		gradNorm = math.Sqrt(gradNorm)
		if gradNorm < 1e-10 {
			break
		}

		alpha := step
		accepted := false
		for backtrack := 0; backtrack < 30; backtrack++ {
			candidate := make([]float64, len(x))
			for i := range x {
				candidate[i] = x[i] - alpha*grad[i]
				if clamp {
					candidate[i] = clampValue(candidate[i], lower[i], upper[i])
				}
			}
			candidateValue := set.Value(candidate, s)
			if candidateValue < value {
				x = candidate
				accepted = true
				break
			}
			alpha *= 0.5
		}
		if !accepted {
			break
		}
	}
	return x
}

func clampValue(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
