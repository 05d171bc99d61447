package view

import (
	"fmt"

	"github.com/chazu/blockletter/pkg/mesh"
)

// Orientation selects the axis an orthographic viewport looks along.
type Orientation int

const (
	// Front looks down -Z: screen right is +X, screen up is +Y.
	Front Orientation = iota
	// Side looks down -X from +X: screen right is -Z, screen up is +Y.
	Side
	// Top looks down -Y from +Y: screen right is +X, screen up is -Z.
	Top
)

func (o Orientation) String() string {
	switch o {
	case Front:
		return "front"
	case Side:
		return "side"
	case Top:
		return "top"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// project drops the viewing axis.
func (o Orientation) project(p [3]float32) (x, y float64) {
	switch o {
	case Side:
		return -float64(p[2]), float64(p[1])
	case Top:
		return float64(p[0]), -float64(p[2])
	default:
		return float64(p[0]), float64(p[1])
	}
}

// Orthographic is a parallel-projection viewport.
type Orthographic struct {
	orientation Orientation
	extent      float64
	target
}

var _ Viewport = (*Orthographic)(nil)

// NewOrthographic returns a viewport of the given size. extent is the
// world half-size mapped onto the shorter side; values <= 0 mean 1.
func NewOrthographic(orientation Orientation, width, height int, extent float64, style Style) *Orthographic {
	if extent <= 0 {
		extent = 1
	}
	v := &Orthographic{orientation: orientation, extent: extent}
	v.style = style
	v.resize(width, height)
	return v
}

// Orientation returns the viewing axis.
func (v *Orthographic) Orientation() Orientation { return v.orientation }

// Name implements Viewport.
func (v *Orthographic) Name() string { return v.orientation.String() }

// Size implements Viewport.
func (v *Orthographic) Size() (int, int) { return v.width, v.height }

// Resize implements Viewport. Sizes below one pixel are clamped to one.
func (v *Orthographic) Resize(width, height int) { v.resize(width, height) }

// Render implements Viewport.
func (v *Orthographic) Render(vertices []mesh.RenderVertex, indices []uint32, count int) {
	projected := make([]screenPoint, len(vertices))
	for i, vx := range vertices {
		x, y := v.orientation.project(vx.Position)
		projected[i] = v.toScreen(x/v.extent, y/v.extent)
	}
	v.draw(vertices, projected, indices, count)
}

// Segments returns how many segments the last Render drew.
func (v *Orthographic) Segments() int { return v.segments }

// Show implements Viewport.
func (v *Orthographic) Show() string { return v.show() }
