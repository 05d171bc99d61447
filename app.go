package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/blockletter/pkg/config"
	"github.com/chazu/blockletter/pkg/engine"
	"github.com/chazu/blockletter/pkg/glyph"
	"github.com/chazu/blockletter/pkg/mesh"
	"github.com/chazu/blockletter/pkg/scene"
	"github.com/chazu/blockletter/pkg/view"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// rotationLimit bounds the rotation sliders, in degrees.
const rotationLimit = 180.0

// App is the Wails backend. It owns the scene, the viewports and the
// editing form, and exposes methods to the frontend via bindings.
// Every binding returns the complete State so the frontend never has to
// track anything itself.
type App struct {
	ctx    context.Context
	logger *slog.Logger
	cfg    config.Config
	engine *engine.Engine

	mu     sync.Mutex
	scene  *scene.Scene
	views  *view.Set
	width  int
	height int
	form   Form
}

// Form is the editing panel for the selected object. Text fields hold
// exactly what the user typed until Apply parses them; the Error flags
// report the last failed Apply of each group.
type Form struct {
	Position      [3]string  `json:"position"`
	PositionError bool       `json:"positionError"`
	Scale         [3]string  `json:"scale"`
	ScaleError    bool       `json:"scaleError"`
	Extruded      bool       `json:"extruded"`
	Extrusion     string     `json:"extrusion"`
	ExtrusionErr  bool       `json:"extrusionError"`
	Rotation      [3]float64 `json:"rotation"`
}

// ObjectData describes one scene object for the frontend.
type ObjectData struct {
	ID        string     `json:"id"`
	Index     int        `json:"index"`
	Selected  bool       `json:"selected"`
	Position  [3]float64 `json:"position"`
	Rotation  [3]float64 `json:"rotation"`
	Scale     [3]float64 `json:"scale"`
	Extruded  bool       `json:"extruded"`
	Extrusion float64    `json:"extrusion"`
	Vertices  int        `json:"vertices"`
	Edges     int        `json:"edges"`
	Faces     int        `json:"faces"`
	Warnings  []string   `json:"warnings"`
}

// State is the full UI state returned by every binding.
type State struct {
	Objects        []ObjectData      `json:"objects"`
	Selected       int               `json:"selected"` // -1 when nothing is selected
	Form           Form              `json:"form"`
	Mode           string            `json:"mode"`
	Views          map[string]string `json:"views"`
	VertexCount    int               `json:"vertexCount"`
	LineIndexCount int               `json:"lineIndexCount"`
	Errors         []EvalErrorData   `json:"errors"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// NewApp creates an App with the default configuration.
func NewApp() *App {
	return NewAppWithConfig(config.Default(), slog.Default())
}

// NewAppWithConfig creates an App from cfg. An unknown layout mode falls
// back to showing all views.
func NewAppWithConfig(cfg config.Config, logger *slog.Logger) *App {
	mode, err := view.ParseMode(cfg.Layout.Mode)
	if err != nil {
		logger.Warn("config: falling back to all views", "error", err)
	}
	eye := cfg.View.Perspective.Eye
	a := &App{
		logger: logger,
		cfg:    cfg,
		engine: engine.NewEngine(engine.WithTimeout(cfg.Engine.EvalTimeout.Duration)),
		scene:  scene.New(),
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	a.views = view.NewSet(view.Options{
		Layout: view.Layout{
			SidebarWidth: cfg.Layout.SidebarWidth,
			Spacing:      cfg.Layout.ViewsSpacing,
		},
		Mode:   mode,
		Extent: cfg.View.OrthoExtent,
		Camera: view.Camera{
			Eye:  v3.Vec{X: eye[0], Y: eye[1], Z: eye[2]},
			FOV:  cfg.View.Perspective.FOV,
			Near: cfg.View.Perspective.Near,
		},
		Style: view.Style{
			Background: cfg.View.Background,
			LineWidth:  cfg.View.LineWidth,
		},
		Width:  a.width,
		Height: a.height,
	})
	a.refreshForm()
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// ---------------------------------------------------------------------------
// Scene commands
// ---------------------------------------------------------------------------

// HandleKey runs the keyboard command bound to key (a DOM KeyboardEvent.key
// value). Unbound keys leave the state unchanged.
func (a *App) HandleKey(key string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch key {
	case "ArrowLeft":
		a.scene.SelectPrevious()
	case "ArrowRight":
		a.scene.SelectNext()
	case "Delete":
		if i, ok := a.scene.Selected(); ok {
			a.scene.Remove(i + 1)
		}
	case "Backspace":
		if i, ok := a.scene.Selected(); ok {
			a.scene.Remove(i)
		}
	default:
		if len(key) == 1 {
			if faces, ok := glyph.Lookup(key); ok {
				a.scene.Add(faces)
				break
			}
		}
		return a.state(nil)
	}
	a.changed("key", "key", key)
	return a.state(nil)
}

// AddLetter appends the named letter to the scene.
func (a *App) AddLetter(name string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	faces, ok := glyph.Lookup(name)
	if !ok {
		a.logger.Warn("add letter: unknown letter", "name", name)
		return a.state([]EvalErrorData{{
			Message: fmt.Sprintf("unknown letter %q, expected one of %s", name, strings.Join(glyph.Names(), ", ")),
		}})
	}
	a.scene.Add(faces)
	a.changed("add", "letter", strings.ToUpper(name))
	return a.state(nil)
}

// RemoveObject removes the object at index i; out-of-range indices are
// ignored.
func (a *App) RemoveObject(i int) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scene.Remove(i)
	a.changed("remove", "index", i)
	return a.state(nil)
}

// Select selects the object at index i.
func (a *App) Select(i int) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scene.Select(i)
	a.changed("select", "index", i)
	return a.state(nil)
}

// SelectNext moves the selection forward.
func (a *App) SelectNext() State {
	return a.HandleKey("ArrowRight")
}

// SelectPrevious moves the selection backward.
func (a *App) SelectPrevious() State {
	return a.HandleKey("ArrowLeft")
}

// ---------------------------------------------------------------------------
// Editing form
// ---------------------------------------------------------------------------

// ApplyPosition parses the three position fields and moves the selected
// object. On a parse failure nothing moves and PositionError is set.
func (a *App) ApplyPosition(x, y, z string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.form.Position = [3]string{x, y, z}
	i, ok := a.scene.Selected()
	if !ok {
		return a.state(nil)
	}
	p, err := parseTriple(a.form.Position)
	if err != nil {
		a.form.PositionError = true
		a.logger.Warn("apply position", "error", err)
		return a.state(nil)
	}
	a.form.PositionError = false
	a.scene.SetPosition(i, mesh.Point(p[0], p[1], p[2]))
	a.changed("position", "index", i)
	return a.state(nil)
}

// RestorePosition resets the position fields from the selected object.
func (a *App) RestorePosition() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if o, ok := a.scene.SelectedObject(); ok {
		p := o.Position()
		a.form.Position = formatTriple([3]float64{p[0], p[1], p[2]})
	}
	return a.state(nil)
}

// ApplyScale parses the three scale fields and scales the selected object.
// On a parse failure nothing changes and ScaleError is set.
func (a *App) ApplyScale(x, y, z string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.form.Scale = [3]string{x, y, z}
	i, ok := a.scene.Selected()
	if !ok {
		return a.state(nil)
	}
	s, err := parseTriple(a.form.Scale)
	if err != nil {
		a.form.ScaleError = true
		a.logger.Warn("apply scale", "error", err)
		return a.state(nil)
	}
	a.form.ScaleError = false
	a.scene.SetScale(i, s)
	a.changed("scale", "index", i)
	return a.state(nil)
}

// RestoreScale resets the scale fields from the selected object.
func (a *App) RestoreScale() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if o, ok := a.scene.SelectedObject(); ok {
		a.form.Scale = formatTriple(o.Scale())
	}
	return a.state(nil)
}

// SetRotation sets the rotation sliders, clamped to [-180, 180], and
// rotates the selected object.
func (a *App) SetRotation(x, y, z float64) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := mesh.Rotation{clampAngle(x), clampAngle(y), clampAngle(z)}
	a.form.Rotation = r
	if i, ok := a.scene.Selected(); ok {
		a.scene.SetRotation(i, r)
		a.changed("rotation", "index", i)
	}
	return a.state(nil)
}

// SetExtruded toggles the extrusion checkbox. Unchecking flattens the
// selected object; checking only reveals the depth field.
func (a *App) SetExtruded(on bool) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.form.Extruded = on
	if on {
		return a.state(nil)
	}
	if o, ok := a.scene.SelectedObject(); ok {
		if _, extruded := o.Extrusion(); extruded {
			i, _ := a.scene.Selected()
			a.scene.ClearExtrusion(i)
			a.changed("flatten", "index", i)
		}
	}
	return a.state(nil)
}

// ApplyExtrusion parses the depth field and extrudes the selected object.
// On a parse failure nothing changes and ExtrusionErr is set.
func (a *App) ApplyExtrusion(depth string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.form.Extrusion = depth
	i, ok := a.scene.Selected()
	if !ok {
		return a.state(nil)
	}
	d, err := parseFloat(depth)
	if err != nil {
		a.form.ExtrusionErr = true
		a.logger.Warn("apply extrusion", "error", err)
		return a.state(nil)
	}
	a.form.ExtrusionErr = false
	a.scene.SetExtrusion(i, d)
	a.changed("extrude", "index", i, "depth", d)
	return a.state(nil)
}

// RestoreExtrusion resets the depth field from the selected object. An
// object without extrusion also unchecks the checkbox.
func (a *App) RestoreExtrusion() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if o, ok := a.scene.SelectedObject(); ok {
		if d, extruded := o.Extrusion(); extruded {
			a.form.Extrusion = formatFloat(d)
		} else {
			a.form.Extrusion = ""
			a.form.Extruded = false
		}
	}
	return a.state(nil)
}

// ---------------------------------------------------------------------------
// Views
// ---------------------------------------------------------------------------

// SetVisualization switches between all views and a single view
// ("all", "front", "side", "top", "perspective").
func (a *App) SetVisualization(mode string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := view.ParseMode(mode)
	if err != nil {
		a.logger.Warn("set visualization", "error", err)
		return a.state([]EvalErrorData{{Message: err.Error()}})
	}
	a.views.SetMode(m, a.width, a.height)
	return a.state(nil)
}

// Resize relays the window size to the visible views.
func (a *App) Resize(width, height int) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.width, a.height = width, height
	a.views.Resize(width, height)
	return a.state(nil)
}

// State returns the current state without changing anything.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state(nil)
}

// ---------------------------------------------------------------------------
// Scripting
// ---------------------------------------------------------------------------

// Evaluate runs a scene script and, on success, replaces the scene with
// its result. On failure the current scene is kept and the errors are
// returned in State.Errors.
func (a *App) Evaluate(source string) State {
	// Evaluation runs without the lock so slow scripts do not block
	// the other bindings.
	s, evalErrs, err := a.engine.Evaluate(source)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Error("evaluate", "error", err)
		return a.state([]EvalErrorData{{Message: err.Error()}})
	}
	if len(evalErrs) > 0 {
		a.logger.Warn("evaluate", "errors", len(evalErrs))
		return a.state(lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		}))
	}

	a.scene = s
	a.changed("evaluate", "objects", s.Len())
	return a.state(nil)
}

// ---------------------------------------------------------------------------
// Internals; callers hold a.mu.
// ---------------------------------------------------------------------------

// changed refreshes the form from the selection after a scene mutation.
func (a *App) changed(msg string, args ...any) {
	a.refreshForm()
	a.logger.Debug("scene "+msg, append(args,
		"objects", a.scene.Len(),
		"vertices", len(a.scene.Vertices()),
		"lineIndices", a.scene.LineIndexCount(),
	)...)
}

// refreshForm loads the form from the selected object, or clears it.
// Error flags are left as they are.
func (a *App) refreshForm() {
	o, ok := a.scene.SelectedObject()
	if !ok {
		a.form.Position = [3]string{}
		a.form.Scale = [3]string{}
		a.form.Extrusion = ""
		a.form.Rotation = [3]float64{}
		return
	}
	p := o.Position()
	a.form.Position = formatTriple([3]float64{p[0], p[1], p[2]})
	a.form.Scale = formatTriple(o.Scale())
	a.form.Rotation = o.Rotation()
	d, extruded := o.Extrusion()
	a.form.Extruded = extruded
	a.form.Extrusion = ""
	if extruded {
		a.form.Extrusion = formatFloat(d)
	}
}

// state renders the visible views and projects the scene for the frontend.
func (a *App) state(errs []EvalErrorData) State {
	frame := a.scene.Frame()
	a.views.Render(frame.Vertices, frame.LineIndices, frame.LineIndexCount())

	selected, hasSel := a.scene.Selected()
	if !hasSel {
		selected = -1
	}
	if errs == nil {
		errs = []EvalErrorData{}
	}

	return State{
		Objects: lo.Map(a.scene.Objects(), func(o *mesh.Object, i int) ObjectData {
			p := o.Position()
			d, extruded := o.Extrusion()
			return ObjectData{
				ID:        o.ID,
				Index:     i,
				Selected:  i == selected,
				Position:  [3]float64{p[0], p[1], p[2]},
				Rotation:  o.Rotation(),
				Scale:     o.Scale(),
				Extruded:  extruded,
				Extrusion: d,
				Vertices:  o.VertexCount(),
				Edges:     o.EdgeCount(),
				Faces:     o.FaceCount(),
				Warnings:  lo.Map(mesh.Validate(o), func(w mesh.Warning, _ int) string { return w.String() }),
			}
		}),
		Selected:       selected,
		Form:           a.form,
		Mode:           a.views.Mode().String(),
		Views:          a.views.Show(),
		VertexCount:    len(frame.Vertices),
		LineIndexCount: frame.LineIndexCount(),
		Errors:         errs,
	}
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func parseTriple(fields [3]string) ([3]float64, error) {
	var out [3]float64
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return out, fmt.Errorf("%c: %w", "xyz"[i], err)
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTriple(v [3]float64) [3]string {
	return [3]string{formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2])}
}

func clampAngle(deg float64) float64 {
	return min(max(deg, -rotationLimit), rotationLimit)
}
