// Package view draws the merged scene buffers from several cameras. Each
// viewport renders line segments into its own offscreen SVG document.
package view

import (
	"fmt"
	"strings"

	"github.com/chazu/blockletter/pkg/mesh"
)

// Viewport consumes the merged vertex and line-index buffers read-only.
type Viewport interface {
	Name() string
	Size() (width, height int)
	Resize(width, height int)
	// Render draws the first count entries of indices as segments.
	Render(vertices []mesh.RenderVertex, indices []uint32, count int)
	// Show returns the last rendered frame as an SVG document.
	Show() string
}

// Mode is the visualization: all four views in a grid or one of them
// filling the view area.
type Mode int

const (
	All Mode = iota
	FrontOnly
	SideOnly
	TopOnly
	PerspectiveOnly
)

var modeNames = [...]string{"all", "front", "side", "top", "perspective"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts the names produced by String, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return All, fmt.Errorf("view: unknown mode %q", s)
}

// Layout describes the window regions the views share.
type Layout struct {
	SidebarWidth int
	Spacing      int
}

// DefaultLayout matches the control panel width of the desktop shell.
var DefaultLayout = Layout{SidebarWidth: 320, Spacing: 10}

// ViewSize returns the size of each visible view for a window of the
// given size. In All mode the four views share a 2x2 grid.
func (l Layout) ViewSize(mode Mode, width, height int) (int, int) {
	if mode == All {
		return (width - (3*l.Spacing + l.SidebarWidth)) / 2, (height - 3*l.Spacing) / 2
	}
	return width - (2*l.Spacing + l.SidebarWidth), height - 2*l.Spacing
}

// Set owns the front, side, top and perspective viewports and decides
// which of them are visible.
type Set struct {
	layout Layout
	mode   Mode
	views  [4]Viewport // front, side, top, perspective
}

// Options configures NewSet.
type Options struct {
	Layout Layout
	Mode   Mode
	Extent float64
	Camera Camera
	Style  Style
	Width  int // window width
	Height int // window height
}

// NewSet builds the four viewports and sizes them for the window.
func NewSet(opts Options) *Set {
	w, h := opts.Layout.ViewSize(opts.Mode, opts.Width, opts.Height)
	return &Set{
		layout: opts.Layout,
		mode:   opts.Mode,
		views: [4]Viewport{
			NewOrthographic(Front, w, h, opts.Extent, opts.Style),
			NewOrthographic(Side, w, h, opts.Extent, opts.Style),
			NewOrthographic(Top, w, h, opts.Extent, opts.Style),
			NewPerspective(w, h, opts.Camera, opts.Style),
		},
	}
}

// Mode returns the current visualization.
func (s *Set) Mode() Mode { return s.mode }

// SetMode switches the visualization and resizes the newly visible views
// for a window of the given size.
func (s *Set) SetMode(mode Mode, width, height int) {
	s.mode = mode
	s.Resize(width, height)
}

// Visible returns the views shown in the current mode, in grid order.
func (s *Set) Visible() []Viewport {
	if s.mode == All {
		return s.views[:]
	}
	return []Viewport{s.views[s.mode-1]}
}

// View returns a viewport by name ("front", "side", "top", "perspective").
func (s *Set) View(name string) (Viewport, bool) {
	for _, v := range s.views {
		if v.Name() == name {
			return v, true
		}
	}
	return nil, false
}

// Resize recomputes the view size for a window of the given size. Only
// the visible views are resized.
func (s *Set) Resize(width, height int) {
	w, h := s.layout.ViewSize(s.mode, width, height)
	for _, v := range s.Visible() {
		v.Resize(w, h)
	}
}

// Render draws the frame into every visible view.
func (s *Set) Render(vertices []mesh.RenderVertex, indices []uint32, count int) {
	for _, v := range s.Visible() {
		v.Render(vertices, indices, count)
	}
}

// Show returns the SVG of every visible view keyed by view name.
func (s *Set) Show() map[string]string {
	out := make(map[string]string, 4)
	for _, v := range s.Visible() {
		out[v.Name()] = v.Show()
	}
	return out
}
