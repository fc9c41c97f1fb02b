package host

import (
	"slices"

	"github.com/Faultbox/meshexport/pkg/formats"
	"github.com/Faultbox/meshexport/pkg/math"
	"github.com/Faultbox/meshexport/pkg/mesh"
)

// FromOBJ builds a scene with one mesh object per OBJ object. OBJ geometry is
// already in model space, so objects carry no modifiers.
func FromOBJ(obj *formats.OBJ) *mesh.Collection {
	scene := &mesh.Collection{}
	for i := range obj.Objects {
		scene.Add(&mesh.Node{
			ObjectName: obj.Objects[i].Name,
			ObjectKind: mesh.KindMesh,
			Base:       objMesh(obj, &obj.Objects[i]),
		})
	}
	return scene
}

// objMesh re-indexes the file-wide position pool for one object, in order of
// first use. A vertex normal is the normalized average of the vn entries its
// corners reference; if any vertex has none, all normals are derived from the
// faces instead. A UV channel exists iff some corner references a vt, and
// corners without one read (0, 0).
func objMesh(obj *formats.OBJ, o *formats.OBJObject) *mesh.Mesh {
	m := &mesh.Mesh{Faces: make([]mesh.Face, len(o.Faces))}
	local := make(map[int]int)
	var normalSums []math.Vec3
	var normalSeen []bool
	anyNormal, anyUV := false, false

	uvs := make([][][2]float32, len(o.Faces))
	for fi, f := range o.Faces {
		verts := make([]int, len(f.Corners))
		corners := make([][2]float32, len(f.Corners))
		for ci, c := range f.Corners {
			v, ok := local[c.Position]
			if !ok {
				v = len(m.Positions)
				local[c.Position] = v
				m.Positions = append(m.Positions, obj.Positions[c.Position])
				normalSums = append(normalSums, math.Vec3{})
				normalSeen = append(normalSeen, false)
			}
			verts[ci] = v

			if c.Normal >= 0 {
				normalSums[v] = normalSums[v].Add(math.V3(obj.Normals[c.Normal]))
				normalSeen[v] = true
				anyNormal = true
			}
			if c.TexCoord >= 0 {
				corners[ci] = obj.TexCoords[c.TexCoord]
				anyUV = true
			}
		}
		m.Faces[fi] = mesh.Face{Vertices: verts}
		uvs[fi] = corners
	}

	if anyUV {
		m.UVLayers = []mesh.UVLayer{{Name: UVChannelName, Coords: uvs}}
	}
	if anyNormal && !slices.Contains(normalSeen, false) {
		m.Normals = make([][3]float32, len(normalSums))
		for i, s := range normalSums {
			m.Normals[i] = s.Normalize().Array()
		}
	}
	return m
}
