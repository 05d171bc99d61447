package mesh

import "github.com/google/uuid"

// VertexID is a handle into an Object's vertex pool.
type VertexID int

// EdgeID is a handle into an Object's edge pool.
type EdgeID int

// Vertex is a unique point of an Object.
type Vertex struct {
	Position Position
}

// Edge joins two vertices. Equality is undirected: the edge (A,B) is the
// same edge as (B,A), but the orientation it was created with is kept.
type Edge struct {
	Origin      VertexID
	Destination VertexID
}

// Face is a triangle made of three edges: start=(v0,v1), middle=(v1,v2)
// and end=(v2,v0) as resolved at insertion time.
type Face struct {
	Start  EdgeID
	Middle EdgeID
	End    EdgeID
}

// Edges returns the three edge handles in start, middle, end order.
func (f Face) Edges() [3]EdgeID {
	return [3]EdgeID{f.Start, f.Middle, f.End}
}

// edgeKey is the unordered vertex pair used for edge deduplication.
type edgeKey struct {
	lo, hi VertexID
}

func makeEdgeKey(a, b VertexID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// Object owns a deduplicated vertex/edge/face pool, a transform and the
// buffers derived from both. The pools only grow; there is no removal of
// individual elements.
//
// Every mutator recomputes the derived buffers before returning. An Object
// is not safe for concurrent use.
type Object struct {
	ID string

	vertices  []Vertex
	edges     []Edge
	edgeFaces []int // faces referencing each edge, parallel to edges
	faces     []Face

	vertexIndex map[Position]VertexID
	edgeIndex   map[edgeKey]EdgeID

	position  Position
	rotation  Rotation
	scale     Scale
	extrusion float64
	extruded  bool

	buffers Buffers
}

// NewObject creates an empty Object at the given position with no
// rotation, unit scale and no extrusion.
func NewObject(position Position) *Object {
	o := &Object{
		ID:          uuid.NewString(),
		vertexIndex: make(map[Position]VertexID),
		edgeIndex:   make(map[edgeKey]EdgeID),
		position:    position,
		scale:       Scale{1, 1, 1},
	}
	o.updateBuffers()
	return o
}

// AddFace inserts a triangle. Corners reuse an existing vertex with an
// exactly equal Position; corner pairs reuse an existing edge with the same
// unordered vertex pair. A new Face is always appended, even when an
// identical one exists. Degenerate triangles are accepted.
func (o *Object) AddFace(t Triangle) {
	v0 := o.resolveVertex(t[0])
	v1 := o.resolveVertex(t[1])
	v2 := o.resolveVertex(t[2])

	f := Face{
		Start:  o.resolveEdge(v0, v1),
		Middle: o.resolveEdge(v1, v2),
		End:    o.resolveEdge(v2, v0),
	}
	for _, e := range f.Edges() {
		o.edgeFaces[e]++
	}
	o.faces = append(o.faces, f)

	o.updateBuffers()
}

// AddFaces inserts each triangle in order.
func (o *Object) AddFaces(ts []Triangle) {
	for _, t := range ts {
		o.AddFace(t)
	}
}

func (o *Object) resolveVertex(p Position) VertexID {
	if id, ok := o.vertexIndex[p]; ok {
		return id
	}
	id := VertexID(len(o.vertices))
	o.vertices = append(o.vertices, Vertex{Position: p})
	o.vertexIndex[p] = id
	return id
}

func (o *Object) resolveEdge(origin, destination VertexID) EdgeID {
	key := makeEdgeKey(origin, destination)
	if id, ok := o.edgeIndex[key]; ok {
		return id
	}
	id := EdgeID(len(o.edges))
	o.edges = append(o.edges, Edge{Origin: origin, Destination: destination})
	o.edgeFaces = append(o.edgeFaces, 0)
	o.edgeIndex[key] = id
	return id
}

// ---------------------------------------------------------------------------
// Topology queries
// ---------------------------------------------------------------------------

// VertexCount returns the number of unique vertices.
func (o *Object) VertexCount() int { return len(o.vertices) }

// EdgeCount returns the number of unique edges.
func (o *Object) EdgeCount() int { return len(o.edges) }

// FaceCount returns the number of faces.
func (o *Object) FaceCount() int { return len(o.faces) }

// Vertex returns the vertex with the given handle.
func (o *Object) Vertex(id VertexID) Vertex { return o.vertices[id] }

// Edge returns the edge with the given handle.
func (o *Object) Edge(id EdgeID) Edge { return o.edges[id] }

// Face returns the i-th face.
func (o *Object) Face(i int) Face { return o.faces[i] }

// EdgeFaceCount returns how many face references point at the edge.
// A face that names the same edge twice (a degenerate triangle) counts twice.
func (o *Object) EdgeFaceCount(id EdgeID) int { return o.edgeFaces[id] }

// IsBoundary reports whether the edge is referenced by exactly one face.
func (o *Object) IsBoundary(id EdgeID) bool { return o.edgeFaces[id] == 1 }

// FindEdge returns the edge joining the two positions, in either direction.
func (o *Object) FindEdge(a, b Position) (EdgeID, bool) {
	va, ok := o.vertexIndex[a]
	if !ok {
		return 0, false
	}
	vb, ok := o.vertexIndex[b]
	if !ok {
		return 0, false
	}
	id, ok := o.edgeIndex[makeEdgeKey(va, vb)]
	return id, ok
}

// ---------------------------------------------------------------------------
// Transform accessors and mutators
// ---------------------------------------------------------------------------

// Position returns the object's translation.
func (o *Object) Position() Position { return o.position }

// Rotation returns the object's Euler angles in degrees.
func (o *Object) Rotation() Rotation { return o.rotation }

// Scale returns the object's per-axis scale.
func (o *Object) Scale() Scale { return o.scale }

// Extrusion returns the extrusion depth and whether extrusion is enabled.
func (o *Object) Extrusion() (float64, bool) { return o.extrusion, o.extruded }

// SetPosition sets the translation and recomputes the buffers.
func (o *Object) SetPosition(p Position) {
	o.position = p
	o.updateBuffers()
}

// SetRotation sets the Euler angles (degrees) and recomputes the buffers.
func (o *Object) SetRotation(r Rotation) {
	o.rotation = r
	o.updateBuffers()
}

// SetScale sets the per-axis scale and recomputes the buffers.
func (o *Object) SetScale(s Scale) {
	o.scale = s
	o.updateBuffers()
}

// SetExtrusion turns the flat outline into a solid of the given depth and
// recomputes the buffers.
func (o *Object) SetExtrusion(depth float64) {
	o.extrusion = depth
	o.extruded = true
	o.updateBuffers()
}

// ClearExtrusion returns the object to a flat shape and recomputes the
// buffers.
func (o *Object) ClearExtrusion() {
	o.extrusion = 0
	o.extruded = false
	o.updateBuffers()
}

// ---------------------------------------------------------------------------
// Derived buffers
// ---------------------------------------------------------------------------

// Buffers returns a copy of the derived render buffers.
func (o *Object) Buffers() Buffers { return o.buffers.clone() }

// Vertices returns a copy of the transformed vertex buffer.
func (o *Object) Vertices() []RenderVertex {
	return append([]RenderVertex(nil), o.buffers.Vertices...)
}

// LineIndices returns a copy of the wireframe index buffer.
func (o *Object) LineIndices() []uint32 {
	return append([]uint32(nil), o.buffers.LineIndices...)
}

// TriangleIndices returns a copy of the triangle index buffer.
func (o *Object) TriangleIndices() []uint32 {
	return append([]uint32(nil), o.buffers.TriangleIndices...)
}

// updateBuffers rebuilds every derived buffer from the topology and
// transform. It is a pure function of that state.
func (o *Object) updateBuffers() {
	m := composeTransform(o.position, o.rotation, o.scale)
	n := len(o.vertices)

	source := make([]Position, 0, n*2)
	if o.extruded {
		half := o.extrusion / 2
		for _, v := range o.vertices {
			source = append(source, Position{v.Position[0], v.Position[1], -half, 1})
		}
		for _, v := range o.vertices {
			source = append(source, Position{v.Position[0], v.Position[1], half, 1})
		}
	} else {
		for _, v := range o.vertices {
			source = append(source, v.Position)
		}
	}

	vertices := make([]RenderVertex, 0, len(source))
	for _, p := range source {
		vertices = append(vertices, RenderVertex{
			Position: applyTransform(m, p),
			Color:    White,
		})
	}

	shift := uint32(n)
	lines := make([]uint32, 0, len(o.edges)*2)
	for i, e := range o.edges {
		origin, destination := uint32(e.Origin), uint32(e.Destination)
		lines = append(lines, origin, destination)
		if !o.extruded {
			continue
		}
		lines = append(lines, origin+shift, destination+shift)
		if o.edgeFaces[i] == 1 {
			lines = append(lines,
				origin, origin+shift,
				destination, destination+shift,
				origin, destination+shift,
			)
		}
	}

	triangles := make([]uint32, 0, len(o.faces)*3)
	for _, f := range o.faces {
		for _, e := range f.Edges() {
			triangles = append(triangles, uint32(o.edges[e].Origin))
		}
	}

	o.buffers = Buffers{
		Vertices:        vertices,
		LineIndices:     lines,
		TriangleIndices: triangles,
	}
}
