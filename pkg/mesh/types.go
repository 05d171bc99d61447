// Package mesh holds the per-object topology and transform engine.
// An Object deduplicates vertices and edges as triangles are added,
// applies its affine transform (and optional extrusion) and keeps
// render-ready vertex and index buffers in sync with every mutation.
package mesh

// Position is a homogeneous point (x, y, z, w). Affine points carry w = 1.
// Positions compare by exact value; no epsilon is applied anywhere.
type Position [4]float64

// Point returns the affine Position (x, y, z, 1).
func Point(x, y, z float64) Position {
	return Position{x, y, z, 1}
}

// Rotation holds Euler angles in degrees about the X, Y and Z axes.
type Rotation [3]float64

// Scale holds per-axis scale factors.
type Scale [3]float64

// Triangle is the unit of face insertion: three corners in winding order.
type Triangle [3]Position

// Tri is shorthand for building a Triangle from three corners.
func Tri(a, b, c Position) Triangle {
	return Triangle{a, b, c}
}

// Color is an RGB triple in the 0..1 range.
type Color [3]float32

var (
	// White is the base color of every render vertex.
	White = Color{1, 1, 1}
	// Magenta marks the vertices of the selected object.
	Magenta = Color{1, 0, 1}
)

// RenderVertex is one record of a vertex buffer: a single precision
// position followed by its color. The layout matches a GPU vertex stream
// of two float32x3 attributes.
type RenderVertex struct {
	Position [3]float32 `json:"position"`
	Color    Color      `json:"color"`
}
