package view

import (
	"bytes"
	"fmt"
	"math"

	"github.com/chazu/blockletter/pkg/mesh"

	svg "github.com/ajstarks/svgo"
)

// Style holds the drawing settings shared by every viewport.
type Style struct {
	Background string
	LineWidth  float64
}

// DefaultStyle draws white-on-black hairlines.
var DefaultStyle = Style{Background: "black", LineWidth: 1}

// screenPoint is a projected vertex in pixel coordinates. ok is false
// for vertices the camera cannot see (behind the near plane).
type screenPoint struct {
	x, y float64
	ok   bool
}

// target is the offscreen surface a viewport draws into.
type target struct {
	width, height int
	style         Style
	doc           []byte
	segments      int
}

func (t *target) resize(width, height int) {
	t.width = max(width, 1)
	t.height = max(height, 1)
	t.doc = nil
	t.segments = 0
}

// toScreen maps normalised device coordinates onto the target. The
// shorter side spans [-1, 1] so the aspect ratio is preserved; y points up.
func (t *target) toScreen(nx, ny float64) screenPoint {
	half := float64(min(t.width, t.height)) / 2
	return screenPoint{
		x:  float64(t.width)/2 + nx*half,
		y:  float64(t.height)/2 - ny*half,
		ok: true,
	}
}

// draw renders the first count indices of indices as line segments.
// Pairs referencing out-of-range or invisible vertices are skipped.
func (t *target) draw(vertices []mesh.RenderVertex, projected []screenPoint, indices []uint32, count int) {
	count = min(count, len(indices))
	count -= count % 2

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(t.width, t.height)
	canvas.Rect(0, 0, t.width, t.height, "fill:"+t.style.Background)
	canvas.Gstyle(fmt.Sprintf("stroke-width:%g;stroke-linecap:round", t.style.LineWidth))

	drawn := 0
	for i := 0; i < count; i += 2 {
		a, b := int(indices[i]), int(indices[i+1])
		if a >= len(projected) || b >= len(projected) {
			continue
		}
		pa, pb := projected[a], projected[b]
		if !pa.ok || !pb.ok {
			continue
		}
		canvas.Line(
			round(pa.x), round(pa.y), round(pb.x), round(pb.y),
			"stroke:"+rgb(vertices[a].Color),
		)
		drawn++
	}

	canvas.Gend()
	canvas.End()
	t.doc = buf.Bytes()
	t.segments = drawn
}

func (t *target) show() string {
	if t.doc == nil {
		t.draw(nil, nil, nil, 0)
	}
	return string(t.doc)
}

func round(v float64) int {
	return int(math.Round(v))
}

// rgb formats a 0..1 color as an SVG rgb() value.
func rgb(c mesh.Color) string {
	ch := func(v float32) int {
		return int(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", ch(c[0]), ch(c[1]), ch(c[2]))
}
