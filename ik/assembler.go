package ik

// DefaultFiniteDiffStep is the forward-difference step used by the
// assembler for objectives with no closed-form gradient. original_source
// mixes 1e-7 and 1e-9 across different objectives; DESIGN.md documents the
// decision to standardize on one value everywhere.
const DefaultFiniteDiffStep = 1e-6

// ValueAndGradient evaluates the weighted sum of objs at x and assembles its
// gradient, per spec.md section 4.2's hybrid assembler: objectives
// implementing AnalyticGradient contribute their gradient directly; every
// other objective is finite-differenced, and the forward-kinematics
// evaluation at each perturbed dimension is computed once and shared across
// all finite-diff objectives rather than once per objective.
func ValueAndGradient(objs []Objective, x []float64, s *State, step float64) (float64, []float64) {
	if step <= 0 {
		step = DefaultFiniteDiffStep
	}
	n := len(x)
	grad := make([]float64, n)

	frames := s.Robot.FramesAt(x)

	var analytic []AnalyticGradient
	var finiteDiff []Objective
	baseFD := make([]float64, 0, len(objs))

	total := 0.0
	for _, obj := range objs {
		v := obj.Value(x, s, frames)
		total += v
		if ag, ok := obj.(AnalyticGradient); ok {
			analytic = append(analytic, ag)
		} else {
			finiteDiff = append(finiteDiff, obj)
			baseFD = append(baseFD, v)
		}
	}

	tmp := make([]float64, n)
	for _, ag := range analytic {
		for i := range tmp {
			tmp[i] = 0
		}
		ag.Gradient(x, s, frames, tmp)
		for i := range grad {
			grad[i] += tmp[i]
		}
	}

	if len(finiteDiff) > 0 {
		xp := cloneF64(x)
		for i := 0; i < n; i++ {
			orig := xp[i]
			xp[i] = orig + step
			framesPerturbed := s.Robot.FramesAt(xp)
			for j, obj := range finiteDiff {
				vPlus := obj.Value(xp, s, framesPerturbed)
				grad[i] += (vPlus - baseFD[j]) / step
			}
			xp[i] = orig
		}
	}

	return total, grad
}

// ValueAndGradientFiniteDiffAll finite-differences an ObjectiveSet's total
// value as a single lump sum rather than assembling per-objective
// contributions, per spec.md section 4.3's finite-diff-all gradient
// strategy. Grounded on original_source/src/groove/objective_master.rs's
// __gradient_finite_diff (and __gradient_finite_diff_lite, which differs
// only in calling the lite projection of Value -- handled here by os.Value
// itself dispatching on os.Mode). Standard-IK's preset selects this strategy
// because its objectives have no closed-form gradient worth special-casing.
func ValueAndGradientFiniteDiffAll(os ObjectiveSet, x []float64, s *State, step float64) (float64, []float64) {
	if step <= 0 {
		step = DefaultFiniteDiffStep
	}
	n := len(x)
	grad := make([]float64, n)
	base := os.Value(x, s)

	xp := cloneF64(x)
	for i := 0; i < n; i++ {
		orig := xp[i]
		xp[i] = orig + step
		vPlus := os.Value(xp, s)
		grad[i] = (vPlus - base) / step
		xp[i] = orig
	}
	return base, grad
}
