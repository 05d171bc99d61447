// Package scene aggregates mesh objects into the single vertex and
// line-index buffer pair shared by every viewport, and tracks which
// object (if any) is selected for editing.
package scene

import (
	"slices"

	"github.com/chazu/blockletter/pkg/mesh"
)

// SelectedColor is the color given to every vertex of the selected object.
var SelectedColor = mesh.Magenta

// Frame is a read-only snapshot of the merged buffers. Slices in a Frame
// are never written after the Frame is produced; a rebuild allocates new
// ones.
type Frame struct {
	Vertices    []mesh.RenderVertex `json:"vertices"`
	LineIndices []uint32            `json:"lineIndices"`
}

// LineIndexCount returns the number of indices to draw.
func (f Frame) LineIndexCount() int {
	return len(f.LineIndices)
}

// Scene is an ordered collection of objects plus an optional selection.
// Insertion order is significant: it is the layout order and the order
// SelectNext / SelectPrevious walk.
//
// Every mutation rebuilds the merged buffers before returning. A Scene is
// not safe for concurrent use.
type Scene struct {
	objects  []*mesh.Object
	selected int
	hasSel   bool
	frame    Frame
}

// New returns an empty scene.
func New() *Scene {
	s := &Scene{}
	s.Rebuild()
	return s
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Object returns the object at index i. Mutating the returned object
// directly bypasses the rebuild; call Rebuild afterwards or use the
// Set* methods.
func (s *Scene) Object(i int) (*mesh.Object, bool) {
	if i < 0 || i >= len(s.objects) {
		return nil, false
	}
	return s.objects[i], true
}

// Objects returns the objects in order.
func (s *Scene) Objects() []*mesh.Object {
	return append([]*mesh.Object(nil), s.objects...)
}

// IndexOf returns the index of o, or -1 if o is not in the scene.
func (s *Scene) IndexOf(o *mesh.Object) int {
	for i, obj := range s.objects {
		if obj == o {
			return i
		}
	}
	return -1
}

// Selected returns the selected index and whether anything is selected.
func (s *Scene) Selected() (int, bool) {
	return s.selected, s.hasSel
}

// SelectedObject returns the selected object, if any.
func (s *Scene) SelectedObject() (*mesh.Object, bool) {
	if !s.hasSel {
		return nil, false
	}
	return s.objects[s.selected], true
}

// ---------------------------------------------------------------------------
// Object lifecycle
// ---------------------------------------------------------------------------

// Add creates a new object at (Len(), 0, 0), inserts the faces into it,
// appends it and rebuilds. It returns the new object's index.
func (s *Scene) Add(faces []mesh.Triangle) int {
	o := mesh.NewObject(mesh.Point(float64(len(s.objects)), 0, 0))
	o.AddFaces(faces)
	s.objects = append(s.objects, o)
	s.Rebuild()
	return len(s.objects) - 1
}

// Remove deletes the object at index i. Out-of-range indices are ignored.
// When the scene becomes empty the selection is cleared; when the
// selection now points one past the end it moves down by one.
func (s *Scene) Remove(i int) {
	if i < 0 || i >= len(s.objects) {
		return
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	if s.hasSel {
		switch {
		case len(s.objects) == 0:
			s.hasSel = false
			s.selected = 0
		case s.selected == len(s.objects):
			s.selected--
		}
	}
	s.Rebuild()
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// SelectNext moves the selection forward, stopping at the last object.
// With nothing selected it selects the first object, if there is one.
func (s *Scene) SelectNext() {
	switch {
	case !s.hasSel:
		s.selectFirst()
	case s.selected+1 < len(s.objects):
		s.selected++
	}
	s.Rebuild()
}

// SelectPrevious moves the selection backward, stopping at the first
// object. With nothing selected it selects the first object, if there is one.
func (s *Scene) SelectPrevious() {
	switch {
	case !s.hasSel:
		s.selectFirst()
	case s.selected > 0:
		s.selected--
	}
	s.Rebuild()
}

// Select selects the object at index i. Out-of-range indices are ignored.
func (s *Scene) Select(i int) {
	if i < 0 || i >= len(s.objects) {
		return
	}
	s.selected = i
	s.hasSel = true
	s.Rebuild()
}

// ClearSelection deselects everything.
func (s *Scene) ClearSelection() {
	s.selected = 0
	s.hasSel = false
	s.Rebuild()
}

func (s *Scene) selectFirst() {
	if len(s.objects) > 0 {
		s.selected = 0
		s.hasSel = true
	}
}

// ---------------------------------------------------------------------------
// Transform routing
// ---------------------------------------------------------------------------

// update applies fn to object i and rebuilds. Out-of-range indices are
// ignored.
func (s *Scene) update(i int, fn func(o *mesh.Object)) {
	o, ok := s.Object(i)
	if !ok {
		return
	}
	fn(o)
	s.Rebuild()
}

// SetPosition moves object i.
func (s *Scene) SetPosition(i int, p mesh.Position) {
	s.update(i, func(o *mesh.Object) { o.SetPosition(p) })
}

// SetRotation rotates object i (Euler angles in degrees).
func (s *Scene) SetRotation(i int, r mesh.Rotation) {
	s.update(i, func(o *mesh.Object) { o.SetRotation(r) })
}

// SetScale scales object i.
func (s *Scene) SetScale(i int, sc mesh.Scale) {
	s.update(i, func(o *mesh.Object) { o.SetScale(sc) })
}

// SetExtrusion extrudes object i to the given depth.
func (s *Scene) SetExtrusion(i int, depth float64) {
	s.update(i, func(o *mesh.Object) { o.SetExtrusion(depth) })
}

// ClearExtrusion flattens object i.
func (s *Scene) ClearExtrusion(i int) {
	s.update(i, func(o *mesh.Object) { o.ClearExtrusion() })
}

// ---------------------------------------------------------------------------
// Aggregation
// ---------------------------------------------------------------------------

// Rebuild merges every object's buffers into a fresh Frame. Vertices of
// the selected object take SelectedColor; line indices are offset by the
// number of vertices emitted before their object.
func (s *Scene) Rebuild() {
	var vertices []mesh.RenderVertex
	var lines []uint32
	for i, o := range s.objects {
		offset := uint32(len(vertices))
		highlight := s.hasSel && i == s.selected

		for _, v := range o.Vertices() {
			if highlight {
				v.Color = SelectedColor
			}
			vertices = append(vertices, v)
		}
		for _, idx := range o.LineIndices() {
			lines = append(lines, idx+offset)
		}
	}

	s.frame = Frame{
		Vertices:    vertices,
		LineIndices: lines,
	}
}

// Frame returns the merged buffers produced by the last rebuild.
func (s *Scene) Frame() Frame {
	return s.frame
}

// Vertices returns the merged vertex buffer. Callers must not modify it.
func (s *Scene) Vertices() []mesh.RenderVertex {
	return s.frame.Vertices
}

// LineIndices returns the merged line-index buffer. Callers must not
// modify it.
func (s *Scene) LineIndices() []uint32 {
	return s.frame.LineIndices
}

// LineIndexCount returns the number of merged line indices.
func (s *Scene) LineIndexCount() int {
	return s.frame.LineIndexCount()
}
