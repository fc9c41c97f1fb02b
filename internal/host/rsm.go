package host

import (
	"fmt"
	"slices"

	"github.com/Faultbox/meshexport/internal/model"
	"github.com/Faultbox/meshexport/pkg/formats"
	"github.com/Faultbox/meshexport/pkg/math"
	"github.com/Faultbox/meshexport/pkg/mesh"
)

// UVChannelName names the single UV channel of RSM and OBJ meshes.
const UVChannelName = "UVMap"

// FromRSM builds a scene with one object per RSM node, in file order.
// Nodes without geometry become empty objects. The node's static-pose
// transform is attached as a modifier, so raw snapshots stay in node space.
func FromRSM(rsm *formats.RSM) (*mesh.Collection, error) {
	scene := &mesh.Collection{}
	for i := range rsm.Nodes {
		node := &rsm.Nodes[i]
		if len(node.Vertices) == 0 && len(node.Faces) == 0 {
			scene.Add(&mesh.Node{ObjectName: node.Name, ObjectKind: mesh.KindEmpty})
			continue
		}

		base, err := rsmNodeMesh(node)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.Name, err)
		}
		scene.Add(&mesh.Node{
			ObjectName: node.Name,
			ObjectKind: mesh.KindMesh,
			Base:       base,
			Modifiers:  []mesh.Modifier{staticPose(model.BuildNodeMatrix(node, rsm, model.StaticPoseTime))},
		})
	}
	return scene, nil
}

func rsmNodeMesh(node *formats.RSMNode) (*mesh.Mesh, error) {
	m := &mesh.Mesh{
		Positions: node.Vertices,
		Faces:     make([]mesh.Face, len(node.Faces)),
	}

	var uvs [][][2]float32
	if len(node.TexCoords) > 0 {
		uvs = make([][][2]float32, len(node.Faces))
	}
	for i, f := range node.Faces {
		m.Faces[i] = mesh.Face{Vertices: []int{int(f.VertexIDs[0]), int(f.VertexIDs[1]), int(f.VertexIDs[2])}}
		if uvs == nil {
			continue
		}
		corners := make([][2]float32, 3)
		for c, id := range f.TexCoordIDs {
			if int(id) >= len(node.TexCoords) {
				return nil, fmt.Errorf("face %d references texcoord %d of %d", i, id, len(node.TexCoords))
			}
			tc := node.TexCoords[id]
			corners[c] = [2]float32{tc.U, tc.V}
		}
		uvs[i] = corners
	}
	if uvs != nil {
		m.UVLayers = []mesh.UVLayer{{Name: UVChannelName, Coords: uvs}}
	}
	return m, m.Validate()
}

// staticPose bakes a node transform and restores outward winding when the
// transform mirrors the geometry.
func staticPose(matrix math.Mat4) mesh.Modifier {
	transform := mesh.TransformModifier{Matrix: matrix}
	if !model.MirrorsWinding(matrix) {
		return transform
	}
	return mesh.ModifierFunc(func(m *mesh.Mesh) (*mesh.Mesh, error) {
		out, err := transform.Apply(m)
		if err != nil {
			return nil, err
		}
		reverseWinding(out)
		return out, nil
	})
}

// reverseWinding reverses every face's corner order in place, keeping UVs
// attached to their corners.
func reverseWinding(m *mesh.Mesh) {
	for _, f := range m.Faces {
		slices.Reverse(f.Vertices)
	}
	for _, layer := range m.UVLayers {
		for _, corners := range layer.Coords {
			slices.Reverse(corners)
		}
	}
}
