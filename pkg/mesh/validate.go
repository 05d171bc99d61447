package mesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// WarningKind classifies an advisory topology finding.
type WarningKind int

const (
	WarnDegenerateFace WarningKind = iota // zero-area triangle
	WarnNonManifoldEdge                   // edge shared by more than two faces
	WarnZeroScale                         // a scale component of zero flattens the shape
)

func (k WarningKind) String() string {
	switch k {
	case WarnDegenerateFace:
		return "degenerate-face"
	case WarnNonManifoldEdge:
		return "non-manifold-edge"
	case WarnZeroScale:
		return "zero-scale"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning describes a non-blocking finding about an Object. Index is the
// face index, edge handle or scale axis the finding refers to.
type Warning struct {
	Kind    WarningKind
	Index   int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

// Validate inspects the object's topology and transform and returns
// advisory warnings. It never mutates the object and never rejects
// geometry; degenerate input stays renderable.
func Validate(o *Object) []Warning {
	var warnings []Warning
	warnings = append(warnings, validateFaces(o)...)
	warnings = append(warnings, validateEdges(o)...)
	warnings = append(warnings, validateScale(o)...)
	return warnings
}

// faceCorners returns the distinct vertices touched by a face.
func (o *Object) faceCorners(f Face) []VertexID {
	seen := make(map[VertexID]bool, 3)
	var corners []VertexID
	for _, e := range f.Edges() {
		edge := o.edges[e]
		for _, v := range [2]VertexID{edge.Origin, edge.Destination} {
			if !seen[v] {
				seen[v] = true
				corners = append(corners, v)
			}
		}
	}
	return corners
}

func toVec(p Position) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func validateFaces(o *Object) []Warning {
	var warnings []Warning
	for i, f := range o.faces {
		corners := o.faceCorners(f)
		degenerate := len(corners) < 3
		if !degenerate {
			a := toVec(o.vertices[corners[0]].Position)
			b := toVec(o.vertices[corners[1]].Position)
			c := toVec(o.vertices[corners[2]].Position)
			degenerate = b.Sub(a).Cross(c.Sub(a)).Length() == 0
		}
		if degenerate {
			warnings = append(warnings, Warning{
				Kind:    WarnDegenerateFace,
				Index:   i,
				Message: fmt.Sprintf("face %d has zero area", i),
			})
		}
	}
	return warnings
}

func validateEdges(o *Object) []Warning {
	var warnings []Warning
	for i, count := range o.edgeFaces {
		if count > 2 {
			warnings = append(warnings, Warning{
				Kind:    WarnNonManifoldEdge,
				Index:   i,
				Message: fmt.Sprintf("edge %d is shared by %d faces", i, count),
			})
		}
	}
	return warnings
}

func validateScale(o *Object) []Warning {
	var warnings []Warning
	for axis, s := range o.scale {
		if s == 0 {
			warnings = append(warnings, Warning{
				Kind:    WarnZeroScale,
				Index:   axis,
				Message: fmt.Sprintf("scale along %c is zero", "xyz"[axis]),
			})
		}
	}
	return warnings
}
