package view

import (
	"math"

	"github.com/chazu/blockletter/pkg/mesh"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Camera places the perspective viewport's eye. It always looks at the
// origin with +Y up.
type Camera struct {
	Eye  v3.Vec
	FOV  float64 // vertical field of view in degrees
	Near float64
}

// DefaultCamera sits three units in front of the origin.
var DefaultCamera = Camera{
	Eye:  v3.Vec{X: 0, Y: 0, Z: 3},
	FOV:  60,
	Near: 0.1,
}

// basis returns the camera's right, up and forward axes.
func (c Camera) basis() (right, up, forward v3.Vec) {
	forward = v3.Vec{}.Sub(c.Eye).Normalize()
	worldUp := v3.Vec{X: 0, Y: 1, Z: 0}
	right = forward.Cross(worldUp)
	if right.Length() == 0 {
		// Looking straight along Y; pick -Z as up instead.
		right = forward.Cross(v3.Vec{X: 0, Y: 0, Z: -1})
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// Perspective is a pinhole-camera viewport.
type Perspective struct {
	camera Camera
	target
}

var _ Viewport = (*Perspective)(nil)

// NewPerspective returns a perspective viewport of the given size.
// Zero camera fields take DefaultCamera's values.
func NewPerspective(width, height int, camera Camera, style Style) *Perspective {
	if camera.FOV <= 0 || camera.FOV >= 180 {
		camera.FOV = DefaultCamera.FOV
	}
	if camera.Near <= 0 {
		camera.Near = DefaultCamera.Near
	}
	if camera.Eye.Length() == 0 {
		camera.Eye = DefaultCamera.Eye
	}
	v := &Perspective{camera: camera}
	v.style = style
	v.resize(width, height)
	return v
}

// Camera returns the viewport's camera.
func (v *Perspective) Camera() Camera { return v.camera }

// Name implements Viewport.
func (v *Perspective) Name() string { return "perspective" }

// Size implements Viewport.
func (v *Perspective) Size() (int, int) { return v.width, v.height }

// Resize implements Viewport. Sizes below one pixel are clamped to one.
func (v *Perspective) Resize(width, height int) { v.resize(width, height) }

// Render implements Viewport. Segments with an endpoint closer than the
// near plane are not drawn.
func (v *Perspective) Render(vertices []mesh.RenderVertex, indices []uint32, count int) {
	right, up, forward := v.camera.basis()
	focal := 1 / math.Tan(v.camera.FOV*math.Pi/360)

	projected := make([]screenPoint, len(vertices))
	for i, vx := range vertices {
		p := v3.Vec{X: float64(vx.Position[0]), Y: float64(vx.Position[1]), Z: float64(vx.Position[2])}
		d := p.Sub(v.camera.Eye)
		depth := d.Dot(forward)
		if depth < v.camera.Near {
			continue
		}
		projected[i] = v.toScreen(
			focal*d.Dot(right)/depth,
			focal*d.Dot(up)/depth,
		)
	}
	v.draw(vertices, projected, indices, count)
}

// Segments returns how many segments the last Render drew.
func (v *Perspective) Segments() int { return v.segments }

// Show implements Viewport.
func (v *Perspective) Show() string { return v.show() }
