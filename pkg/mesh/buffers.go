package mesh

// Buffers is the render-ready output of an Object (or of a whole scene).
// Vertices are interleaved position+color records, LineIndices holds
// pairs of indices forming wireframe segments and TriangleIndices holds
// triples of indices forming faces.
type Buffers struct {
	Vertices        []RenderVertex `json:"vertices"`
	LineIndices     []uint32       `json:"lineIndices"`
	TriangleIndices []uint32       `json:"triangleIndices"`
}

// VertexCount returns the number of vertices.
func (b Buffers) VertexCount() int {
	return len(b.Vertices)
}

// LineCount returns the number of wireframe segments.
func (b Buffers) LineCount() int {
	return len(b.LineIndices) / 2
}

// TriangleCount returns the number of triangles.
func (b Buffers) TriangleCount() int {
	return len(b.TriangleIndices) / 3
}

// IsEmpty returns true if the buffers hold no geometry.
func (b Buffers) IsEmpty() bool {
	return len(b.Vertices) == 0
}

// Interleaved flattens the vertex buffer into
// [x0,y0,z0,r0,g0,b0, x1,y1,z1,r1,g1,b1, ...] for upload.
func (b Buffers) Interleaved() []float32 {
	out := make([]float32, 0, len(b.Vertices)*6)
	for _, v := range b.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Color[0], v.Color[1], v.Color[2],
		)
	}
	return out
}

// clone returns a deep copy so callers cannot alias an owner's buffers.
func (b Buffers) clone() Buffers {
	return Buffers{
		Vertices:        append([]RenderVertex(nil), b.Vertices...),
		LineIndices:     append([]uint32(nil), b.LineIndices...),
		TriangleIndices: append([]uint32(nil), b.TriangleIndices...),
	}
}
