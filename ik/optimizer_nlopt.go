//go:build !windows && !no_cgo

package ik

import (
	"github.com/go-nlopt/nlopt"
)

// NloptOptimizer wraps go-nlopt/nlopt's SLSQP algorithm as the production
// minimizer, mirroring viamrobotics-rdk's own cgo-gated motion planning code
// paths (e.g. cBiRRT.go's "!windows && !no_cgo" build tag). Since relaxed-IK
// is unconstrained, bounds are the only constraint passed to the optimizer;
// everything else flows through the objective gradient from ValueAndGradient.
type NloptOptimizer struct {
	FiniteDiffStep float64
	XTolRel        float64
}

// NewNloptOptimizer returns an optimizer with spec.md-recommended defaults.
func NewNloptOptimizer() *NloptOptimizer {
	return &NloptOptimizer{FiniteDiffStep: DefaultFiniteDiffStep, XTolRel: 1e-8}
}

func (n *NloptOptimizer) Minimize(set ObjectiveSet, s *State, x0 []float64, maxIters int) []float64 {
	fdStep := n.FiniteDiffStep
	if fdStep <= 0 {
		fdStep = DefaultFiniteDiffStep
	}
	xtol := n.XTolRel
	if xtol <= 0 {
		xtol = 1e-8
	}

	dims := uint(len(x0))
	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, dims)
	if err != nil {
		return NewGradientDescentOptimizer().Minimize(set, s, x0, maxIters)
	}
	defer opt.Destroy()

	lower, upper := s.Robot.JointLimits()
	if len(lower) == len(x0) {
		_ = opt.SetLowerBounds(lower)
		_ = opt.SetUpperBounds(upper)
	}

	_ = opt.SetMinObjective(func(x, gradient []float64) float64 {
		value, grad := set.ValueAndGradient(x, s, fdStep)
		if len(gradient) == len(grad) {
			copy(gradient, grad)
		}
		return value
	})
	_ = opt.SetXtolRel(xtol)
	_ = opt.SetMaxEval(maxIters)

	xopt, _, err := opt.Optimize(cloneF64(x0))
	if err != nil {
		return NewGradientDescentOptimizer().Minimize(set, s, x0, maxIters)
	}
	return xopt
}
