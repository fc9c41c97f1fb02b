package export

import (
	"fmt"

	"github.com/Faultbox/meshexport/pkg/mesh"
)

// FaceCorner is the attribute tuple of one face corner. UVs holds one
// coordinate per UV channel, so len(UVs) is the corner's channel count.
type FaceCorner struct {
	Position   [3]float32
	Normal     [3]float32
	FaceNormal [3]float32
	UVs        [][2]float32
}

// UVChannelCount returns the number of UV channels carried by the corner.
func (c FaceCorner) UVChannelCount() int {
	return len(c.UVs)
}

// SelectObjects enumerates the objects taking part in a run: all objects, or
// only the selected ones, keeping mesh objects and silently dropping the rest.
func SelectObjects(scene mesh.Scene, opts Options) ([]mesh.Object, error) {
	objects, err := scene.Objects(opts.SelectionOnly)
	if err != nil {
		return nil, newError(ErrHostAccess, StageEnumerate, "", err)
	}
	meshes := objects[:0:0]
	for _, obj := range objects {
		if obj.Kind() == mesh.KindMesh {
			meshes = append(meshes, obj)
		}
	}
	return meshes, nil
}

// CollectFaces reads every face of src, in face order, as a list of corners in
// winding order.
func CollectFaces(src mesh.Source) ([][]FaceCorner, error) {
	vertexCount := src.VertexCount()
	channels := len(src.UVChannels())

	faces := make([][]FaceCorner, src.FaceCount())
	for fi := range faces {
		verts := src.FaceVertices(fi)
		if len(verts) < 3 {
			return nil, newError(ErrHostAccess, StageCollect, "",
				fmt.Errorf("face %d has %d corners", fi, len(verts)))
		}

		uvs := make([][][2]float32, channels)
		for ch := range uvs {
			uvs[ch] = src.FaceUVs(ch, fi)
			if len(uvs[ch]) != len(verts) {
				return nil, newError(ErrHostAccess, StageCollect, "",
					fmt.Errorf("face %d: uv channel %d has %d coordinates for %d corners", fi, ch, len(uvs[ch]), len(verts)))
			}
		}

		faceNormal := src.FaceNormal(fi)
		corners := make([]FaceCorner, len(verts))
		for ci, v := range verts {
			if v < 0 || v >= vertexCount {
				return nil, newError(ErrHostAccess, StageCollect, "",
					fmt.Errorf("face %d corner %d references vertex %d of %d", fi, ci, v, vertexCount))
			}
			corner := FaceCorner{
				Position:   src.VertexPosition(v),
				Normal:     src.VertexNormal(v),
				FaceNormal: faceNormal,
				UVs:        make([][2]float32, channels),
			}
			for ch := range uvs {
				corner.UVs[ch] = uvs[ch][ci]
			}
			corners[ci] = corner
		}
		faces[fi] = corners
	}
	return faces, nil
}
