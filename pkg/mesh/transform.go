package mesh

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// radians converts degrees to radians.
func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// composeTransform builds T · S · Rz · Ry · Rx. Applied to a point this
// rotates about X, then Y, then Z, then scales, then translates. The order
// is fixed; changing it changes every rendered scene.
func composeTransform(p Position, r Rotation, s Scale) sdf.M44 {
	t := sdf.Translate3d(v3.Vec{X: p[0], Y: p[1], Z: p[2]})
	sc := sdf.Scale3d(v3.Vec{X: s[0], Y: s[1], Z: s[2]})
	rx := sdf.RotateX(radians(r[0]))
	ry := sdf.RotateY(radians(r[1]))
	rz := sdf.RotateZ(radians(r[2]))
	return t.Mul(sc).Mul(rz).Mul(ry).Mul(rx)
}

// applyTransform carries an affine point through m and narrows it to
// single precision. The point's w component is taken to be 1.
func applyTransform(m sdf.M44, p Position) [3]float32 {
	v := m.MulPosition(v3.Vec{X: p[0], Y: p[1], Z: p[2]})
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Transform returns the world position of a local point under the
// object's current transform, in double precision.
func (o *Object) Transform(p Position) Position {
	m := composeTransform(o.position, o.rotation, o.scale)
	v := m.MulPosition(v3.Vec{X: p[0], Y: p[1], Z: p[2]})
	return Point(v.X, v.Y, v.Z)
}
