// Package mesh defines the read-only view of host geometry consumed by the
// exporter, together with an in-memory implementation used by the file-based
// hosts and by tests.
package mesh

import (
	"fmt"

	"github.com/Faultbox/meshexport/pkg/math"
)

// Kind classifies scene objects. Only KindMesh objects carry geometry.
type Kind int

const (
	KindMesh  Kind = iota // polygon mesh
	KindEmpty             // helper/transform node without geometry
	KindOther             // anything else the host knows about (cameras, lights)
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindEmpty:
		return "empty"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source is a read-only snapshot of one mesh. Implementations must not change
// while the exporter reads them.
type Source interface {
	VertexCount() int
	FaceCount() int
	// FaceVertices returns the vertex indices of a face's corners, in winding order.
	FaceVertices(face int) []int
	VertexPosition(v int) [3]float32
	VertexNormal(v int) [3]float32
	FaceNormal(face int) [3]float32
	// UVChannels returns the names of the UV channels, in host order.
	UVChannels() []string
	// FaceUVs returns one coordinate per corner of face for the given channel.
	FaceUVs(channel, face int) [][2]float32
}

// Object is one entry of the host scene.
type Object interface {
	Name() string
	Kind() Kind
	// Mesh returns a geometry snapshot, with the object's modifiers applied if requested.
	// Calling Mesh on a non-mesh object is an error.
	Mesh(applyModifiers bool) (Source, error)
}

// Scene enumerates exportable objects in a stable order.
type Scene interface {
	Objects(selectedOnly bool) ([]Object, error)
}

// Face is a polygon referencing mesh vertices by index.
type Face struct {
	Vertices []int
	// Normal overrides the computed face normal when non-zero.
	Normal [3]float32
}

// UVLayer is a named UV channel. Coords holds, for every face, one coordinate per corner.
type UVLayer struct {
	Name   string
	Coords [][][2]float32
}

// Mesh is an in-memory Source.
type Mesh struct {
	Positions [][3]float32
	// Normals holds per-vertex normals. When empty they are derived from the faces.
	Normals  [][3]float32
	Faces    []Face
	UVLayers []UVLayer

	faceNormals   [][3]float32
	vertexNormals [][3]float32
}

var _ Source = (*Mesh)(nil)

// VertexCount implements Source.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// FaceCount implements Source.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// FaceVertices implements Source.
func (m *Mesh) FaceVertices(face int) []int { return m.Faces[face].Vertices }

// VertexPosition implements Source.
func (m *Mesh) VertexPosition(v int) [3]float32 { return m.Positions[v] }

// VertexNormal implements Source. Supplied normals win; otherwise the normal is
// the normalized sum of the normals of every face using the vertex.
func (m *Mesh) VertexNormal(v int) [3]float32 {
	if len(m.Normals) > 0 {
		return m.Normals[v]
	}
	if m.vertexNormals == nil {
		m.vertexNormals = m.computeVertexNormals()
	}
	return m.vertexNormals[v]
}

// FaceNormal implements Source.
func (m *Mesh) FaceNormal(face int) [3]float32 {
	if n := m.Faces[face].Normal; n != ([3]float32{}) {
		return n
	}
	if m.faceNormals == nil {
		m.faceNormals = make([][3]float32, len(m.Faces))
		for i := range m.Faces {
			m.faceNormals[i] = m.computeFaceNormal(i)
		}
	}
	return m.faceNormals[face]
}

// UVChannels implements Source.
func (m *Mesh) UVChannels() []string {
	names := make([]string, len(m.UVLayers))
	for i, l := range m.UVLayers {
		names[i] = l.Name
	}
	return names
}

// FaceUVs implements Source.
func (m *Mesh) FaceUVs(channel, face int) [][2]float32 {
	coords := m.UVLayers[channel].Coords
	if face >= len(coords) {
		return nil
	}
	return coords[face]
}

// Validate checks that faces reference existing vertices and that every UV
// layer has one coordinate per face corner.
func (m *Mesh) Validate() error {
	if len(m.Normals) > 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("mesh has %d normals for %d vertices", len(m.Normals), len(m.Positions))
	}
	for fi, f := range m.Faces {
		if len(f.Vertices) < 3 {
			return fmt.Errorf("face %d has %d corners", fi, len(f.Vertices))
		}
		for _, v := range f.Vertices {
			if v < 0 || v >= len(m.Positions) {
				return fmt.Errorf("face %d references vertex %d of %d", fi, v, len(m.Positions))
			}
		}
	}
	for _, l := range m.UVLayers {
		if len(l.Coords) != len(m.Faces) {
			return fmt.Errorf("uv layer %q covers %d of %d faces", l.Name, len(l.Coords), len(m.Faces))
		}
		for fi, c := range l.Coords {
			if len(c) != len(m.Faces[fi].Vertices) {
				return fmt.Errorf("uv layer %q face %d has %d coordinates for %d corners",
					l.Name, fi, len(c), len(m.Faces[fi].Vertices))
			}
		}
	}
	return nil
}

// Clone returns a deep copy without cached normals.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Positions: append([][3]float32(nil), m.Positions...),
		Normals:   append([][3]float32(nil), m.Normals...),
		Faces:     make([]Face, len(m.Faces)),
		UVLayers:  make([]UVLayer, len(m.UVLayers)),
	}
	for i, f := range m.Faces {
		c.Faces[i] = Face{Vertices: append([]int(nil), f.Vertices...), Normal: f.Normal}
	}
	for i, l := range m.UVLayers {
		coords := make([][][2]float32, len(l.Coords))
		for fi, fc := range l.Coords {
			coords[fi] = append([][2]float32(nil), fc...)
		}
		c.UVLayers[i] = UVLayer{Name: l.Name, Coords: coords}
	}
	return c
}

func (m *Mesh) computeFaceNormal(face int) [3]float32 {
	verts := m.Faces[face].Vertices
	points := make([]math.Vec3, len(verts))
	for i, v := range verts {
		points[i] = math.V3(m.Positions[v])
	}
	return math.PolygonNormal(points).Array()
}

func (m *Mesh) computeVertexNormals() [][3]float32 {
	sums := make([]math.Vec3, len(m.Positions))
	for fi, f := range m.Faces {
		n := math.V3(m.FaceNormal(fi))
		for _, v := range f.Vertices {
			sums[v] = sums[v].Add(n)
		}
	}
	normals := make([][3]float32, len(sums))
	for i, s := range sums {
		normals[i] = s.Normalize().Array()
	}
	return normals
}
