package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/relaxedik/spatial"
)

// Joint describes a single link-to-link transform along a chain: a static
// origin offset/rotation followed by the joint's own motion about Axis (a
// rotation for Revolute, a translation for Prismatic; Fixed joints contribute
// no motion and claim no DoFIndex).
type Joint struct {
	Type           JointType
	Origin         r3.Vector
	OriginRotation spatial.Rotation
	Axis           r3.Vector
	// DoFIndex is this joint's index into the shared configuration vector.
	// Ignored when Type == Fixed.
	DoFIndex int
	Lower    float64
	Upper    float64
}

// Chain is an ordered base-to-end-effector list of joints, fixed joints
// interleaved, matching spec.md section 3's "Chain" definition.
type Chain struct {
	Joints []Joint
}

// SerialChainRobot is a minimal multi-chain forward-kinematics model: see the
// package doc for why this stands in for a real URDF/FK engine.
type SerialChainRobot struct {
	chains     []Chain
	numDoFs    int
	jointTypes []JointType
	lower      []float64
	upper      []float64
}

// NewSerialChainRobot builds a Robot from explicit chain descriptions. DoF
// indices across chains must be disjoint and dense from 0..numDoFs-1.
func NewSerialChainRobot(chains []Chain) *SerialChainRobot {
	maxIdx := -1
	for _, c := range chains {
		for _, j := range c.Joints {
			if j.Type != Fixed && j.DoFIndex > maxIdx {
				maxIdx = j.DoFIndex
			}
		}
	}
	numDoFs := maxIdx + 1
	jointTypes := make([]JointType, numDoFs)
	lower := make([]float64, numDoFs)
	upper := make([]float64, numDoFs)
	for _, c := range chains {
		for _, j := range c.Joints {
			if j.Type == Fixed {
				continue
			}
			jointTypes[j.DoFIndex] = j.Type
			lower[j.DoFIndex] = j.Lower
			upper[j.DoFIndex] = j.Upper
		}
	}
	return &SerialChainRobot{chains: chains, numDoFs: numDoFs, jointTypes: jointTypes, lower: lower, upper: upper}
}

// NumDoFs implements Robot.
func (r *SerialChainRobot) NumDoFs() int { return r.numDoFs }

// NumChains implements Robot.
func (r *SerialChainRobot) NumChains() int { return len(r.chains) }

// ChainIndices implements Robot.
func (r *SerialChainRobot) ChainIndices() [][]int {
	out := make([][]int, len(r.chains))
	for i, c := range r.chains {
		for _, j := range c.Joints {
			if j.Type != Fixed {
				out[i] = append(out[i], j.DoFIndex)
			}
		}
	}
	return out
}

// JointTypes implements Robot.
func (r *SerialChainRobot) JointTypes() []JointType { return r.jointTypes }

// JointLimits implements Robot.
func (r *SerialChainRobot) JointLimits() (lower, upper []float64) { return r.lower, r.upper }

func chainFramesAt(c Chain, x []float64) ChainFrames {
	pos := r3.Vector{}
	rot := spatial.IdentityRotation()
	frames := ChainFrames{
		Positions: make([]r3.Vector, 0, len(c.Joints)),
		Rotations: make([]spatial.Rotation, 0, len(c.Joints)),
	}
	for _, j := range c.Joints {
		pos = pos.Add(rot.Rotate(j.Origin))
		frameRot := rot.Mul(j.OriginRotation)
		switch j.Type {
		case Revolute:
			frameRot = frameRot.Mul(spatial.FromAxisAngle(j.Axis.Mul(x[j.DoFIndex])))
		case Prismatic:
			pos = pos.Add(frameRot.Rotate(j.Axis.Mul(x[j.DoFIndex])))
		case Fixed:
			// no motion contribution
		}
		rot = frameRot
		frames.Positions = append(frames.Positions, pos)
		frames.Rotations = append(frames.Rotations, rot)
	}
	return frames
}

// FramesAt implements Robot.
func (r *SerialChainRobot) FramesAt(x []float64) FrameBundle {
	bundle := make(FrameBundle, len(r.chains))
	for i, c := range r.chains {
		bundle[i] = chainFramesAt(c, x)
	}
	return bundle
}

// EEPosesAt implements Robot.
func (r *SerialChainRobot) EEPosesAt(x []float64) []EEPose {
	poses := make([]EEPose, len(r.chains))
	for i, c := range r.chains {
		frames := chainFramesAt(c, x)
		last := len(frames.Positions) - 1
		poses[i] = EEPose{Position: frames.Positions[last], Rotation: frames.Rotations[last]}
	}
	return poses
}

// Manipulability implements Robot as sqrt(det(J J^T)) of the positional
// Jacobian of chain 0, a standard scalar manipulability measure (Yoshikawa).
// Multi-chain robots report the minimum across chains, since the objective
// should penalize any chain nearing a singularity.
func (r *SerialChainRobot) Manipulability(x []float64) float64 {
	best := math.Inf(1)
	for ci, c := range r.chains {
		m := chainManipulability(c, r.ChainIndices()[ci], x)
		if m < best {
			best = m
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

func chainManipulability(c Chain, dofIndices []int, x []float64) float64 {
	const h = 1e-6
	base := chainFramesAt(c, x)
	p0 := base.Positions[len(base.Positions)-1]

	// 3 x len(dofIndices) positional Jacobian via forward differences.
	jac := make([][3]float64, len(dofIndices))
	for k, idx := range dofIndices {
		xh := append([]float64(nil), x...)
		xh[idx] += h
		fh := chainFramesAt(c, xh)
		ph := fh.Positions[len(fh.Positions)-1]
		jac[k] = [3]float64{(ph.X - p0.X) / h, (ph.Y - p0.Y) / h, (ph.Z - p0.Z) / h}
	}

	// J J^T is 3x3; compute directly.
	var jjt [3][3]float64
	for _, col := range jac {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				jjt[a][b] += col[a] * col[b]
			}
		}
	}
	det := jjt[0][0]*(jjt[1][1]*jjt[2][2]-jjt[1][2]*jjt[2][1]) -
		jjt[0][1]*(jjt[1][0]*jjt[2][2]-jjt[1][2]*jjt[2][0]) +
		jjt[0][2]*(jjt[1][0]*jjt[2][1]-jjt[1][1]*jjt[2][0])
	if det < 0 {
		det = 0
	}
	return math.Sqrt(det)
}
