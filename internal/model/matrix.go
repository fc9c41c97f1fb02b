// Package model evaluates RSM node transforms so that node geometry can be
// baked into model space.
package model

import (
	"github.com/Faultbox/meshexport/pkg/formats"
	"github.com/Faultbox/meshexport/pkg/math"
)

// StaticPoseTime is the animation time used for static exports.
const StaticPoseTime = 0

// BuildNodeMatrix returns the matrix taking node vertices to model space at
// timeMs. It is the inherited hierarchy matrix followed by the node's
// vertex-only offset and 3x3 matrix.
func BuildNodeMatrix(node *formats.RSMNode, rsm *formats.RSM, timeMs float32) math.Mat4 {
	m := hierarchyMatrix(node, rsm, timeMs, make(map[string]bool))
	m = m.Mul(math.Translate(node.Offset[0], node.Offset[1], node.Offset[2]))
	return m.Mul(math.FromMat3x3(node.Matrix))
}

// hierarchyMatrix is parent * Position * Rotation * Scale, the part children inherit.
func hierarchyMatrix(node *formats.RSMNode, rsm *formats.RSM, timeMs float32, visited map[string]bool) math.Mat4 {
	if visited[node.Name] {
		return math.Identity()
	}
	visited[node.Name] = true

	pos := node.Position
	if keyed, ok := SamplePosition(node.PosKeys, timeMs); ok {
		pos = keyed
	}
	local := math.Translate(pos[0], pos[1], pos[2])

	// Rotation keys replace the axis-angle rotation.
	if len(node.RotKeys) > 0 {
		local = local.Mul(SampleRotation(node.RotKeys, timeMs).ToMat4())
	} else if node.RotAngle != 0 {
		if axis := math.V3(node.RotAxis); axis.Length() > 1e-6 {
			local = local.Mul(math.RotateAxis(axis.Normalize().Array(), node.RotAngle))
		}
	}

	local = local.Mul(math.Scale(node.Scale[0], node.Scale[1], node.Scale[2]))
	if len(node.ScaleKeys) > 0 {
		s := SampleScale(node.ScaleKeys, timeMs)
		local = local.Mul(math.Scale(s[0], s[1], s[2]))
	}

	if node.Parent == "" || node.Parent == node.Name {
		return local
	}
	parent := rsm.NodeByName(node.Parent)
	if parent == nil {
		return local
	}
	return hierarchyMatrix(parent, rsm, timeMs, visited).Mul(local)
}

// MirrorsWinding reports whether m flips handedness, which reverses the
// winding of every transformed face.
func MirrorsWinding(m math.Mat4) bool {
	det := m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
	return det < 0
}
