// Package glyph holds the block letter outlines as flat triangle lists in
// the z = 0 plane, each roughly centred on the origin inside a 0.6 x 1.0 box.
package glyph

import (
	"sort"
	"strings"

	"github.com/chazu/blockletter/pkg/mesh"
	"github.com/samber/lo"
)

// p is shorthand for an affine point in the glyph plane.
func p(x, y float64) mesh.Position {
	return mesh.Point(x, y, 0)
}

// I is the letter I: a top bar, a stem and a bottom bar.
var I = func() []mesh.Triangle {
	a, b, c, d := p(-0.3, 0.3), p(-0.1, 0.5), p(-0.3, 0.5), p(-0.1, 0.3)
	e, f, g, h := p(0.1, 0.3), p(0.1, 0.5), p(0.3, 0.5), p(0.3, 0.3)
	i, j, k, l := p(-0.1, -0.3), p(0.1, -0.3), p(-0.3, -0.3), p(0.3, -0.3)
	m, n, o, q := p(-0.3, -0.5), p(-0.1, -0.5), p(0.1, -0.5), p(0.3, -0.5)
	return []mesh.Triangle{
		mesh.Tri(a, b, c),
		mesh.Tri(a, b, d),
		mesh.Tri(b, d, e),
		mesh.Tri(b, e, f),
		mesh.Tri(e, f, g),
		mesh.Tri(e, g, h),
		mesh.Tri(e, d, i),
		mesh.Tri(e, i, j),
		mesh.Tri(i, k, m),
		mesh.Tri(i, m, n),
		mesh.Tri(i, n, o),
		mesh.Tri(i, j, o),
		mesh.Tri(j, l, o),
		mesh.Tri(l, o, q),
	}
}()

// L is the letter L: a stem and a foot.
var L = func() []mesh.Triangle {
	a, b, c, d := p(-0.3, 0.5), p(-0.3, -0.3), p(-0.1, -0.3), p(-0.1, 0.5)
	e, f, g, h := p(-0.3, -0.5), p(-0.1, -0.5), p(0.3, -0.3), p(0.3, -0.5)
	return []mesh.Triangle{
		mesh.Tri(a, b, c),
		mesh.Tri(a, c, d),
		mesh.Tri(c, e, b),
		mesh.Tri(c, e, f),
		mesh.Tri(c, f, h),
		mesh.Tri(c, h, g),
	}
}()

// U is the letter U: two stems joined by a pointed bowl.
var U = func() []mesh.Triangle {
	a, b, c, d, e := p(-0.3, 0.5), p(-0.1, 0.5), p(-0.3, -0.4), p(-0.1, -0.3), p(-0.2, -0.5)
	f, g, h, i, j := p(0.3, 0.5), p(0.1, 0.5), p(0.3, -0.4), p(0.1, -0.3), p(0.2, -0.5)
	return []mesh.Triangle{
		mesh.Tri(a, b, d),
		mesh.Tri(a, c, d),
		mesh.Tri(c, d, e),
		mesh.Tri(d, e, i),
		mesh.Tri(e, i, j),
		mesh.Tri(f, g, i),
		mesh.Tri(f, h, i),
		mesh.Tri(h, i, j),
	}
}()

// Z is the letter Z: two bars joined by a diagonal.
var Z = func() []mesh.Triangle {
	a, b, c := p(-0.3, 0.5), p(0.1, 0.5), p(0.3, 0.5)
	d, e, f := p(-0.3, 0.3), p(0.1, 0.3), p(0.3, 0.3)
	g, h, i := p(-0.3, -0.3), p(-0.1, -0.3), p(0.3, -0.3)
	j, k, l := p(-0.3, -0.5), p(-0.1, -0.5), p(0.3, -0.5)
	return []mesh.Triangle{
		mesh.Tri(a, b, e),
		mesh.Tri(a, d, e),
		mesh.Tri(b, c, e),
		mesh.Tri(c, e, f),
		mesh.Tri(e, f, h),
		mesh.Tri(e, g, h),
		mesh.Tri(g, h, j),
		mesh.Tri(h, j, k),
		mesh.Tri(h, k, l),
		mesh.Tri(h, i, l),
	}
}()

var table = map[string][]mesh.Triangle{
	"I": I,
	"L": L,
	"U": U,
	"Z": Z,
}

// Lookup returns a copy of the triangles for the named letter.
// Names are case-insensitive.
func Lookup(name string) ([]mesh.Triangle, bool) {
	faces, ok := table[strings.ToUpper(name)]
	if !ok {
		return nil, false
	}
	return append([]mesh.Triangle(nil), faces...), true
}

// Names returns the available letter names in sorted order.
func Names() []string {
	names := lo.Keys(table)
	sort.Strings(names)
	return names
}
