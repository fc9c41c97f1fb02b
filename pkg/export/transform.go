package export

// YUp relabels axes from (x, y, z) to (y, z, x). Three applications are the
// identity.
func YUp(v [3]float32) [3]float32 {
	return [3]float32{v[1], v[2], v[0]}
}

// FlipV maps (u, v) to (u, 1-v). It is its own inverse.
func FlipV(uv [2]float32) [2]float32 {
	return [2]float32{uv[0], 1 - uv[1]}
}

// TransformVertex applies the axis remap and UV flip selected by opts to one
// row laid out by l, in place.
func TransformVertex(row []float32, l *Layout, opts Options) {
	off := 0
	for _, a := range l.Attributes {
		n := a.Kind.Components()
		switch a.Kind {
		case AttrPosition, AttrNormal:
			if opts.UseYUp {
				v := YUp([3]float32(row[off : off+3]))
				copy(row[off:], v[:])
			}
		case AttrUV:
			if opts.InvertUVs {
				uv := FlipV([2]float32(row[off : off+2]))
				copy(row[off:], uv[:])
			}
		}
		off += n
	}
}

// Transform applies TransformVertex to every row of the buffer.
func (b *Buffer) Transform(opts Options) {
	if !opts.UseYUp && !opts.InvertUVs {
		return
	}
	for _, row := range b.Vertices {
		TransformVertex(row, b.Layout, opts)
	}
}
