package export

// Buffer is a flattened mesh: one vertex row per face corner and, per face,
// the indices of its rows.
type Buffer struct {
	Layout   *Layout
	Vertices [][]float32
	Faces    [][]int
}

// VertexCount returns the number of flattened vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices)
}

// Flatten expands faces into one vertex per corner. Indices start at 0 and
// follow face order, then corner order; no two corners share a vertex.
func Flatten(faces [][]FaceCorner, layout *Layout) *Buffer {
	total := 0
	for _, corners := range faces {
		total += len(corners)
	}

	b := &Buffer{
		Layout:   layout,
		Vertices: make([][]float32, 0, total),
		Faces:    make([][]int, len(faces)),
	}
	for fi, corners := range faces {
		indices := make([]int, len(corners))
		for ci, c := range corners {
			indices[ci] = len(b.Vertices)
			b.Vertices = append(b.Vertices, layout.Row(c))
		}
		b.Faces[fi] = indices
	}
	return b
}
