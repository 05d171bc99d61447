package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Keyboard commands
// ---------------------------------------------------------------------------

func TestHandleKeyAddsLetters(t *testing.T) {
	app := NewApp()
	for _, key := range []string{"i", "l", "u", "z"} {
		app.HandleKey(key)
	}
	state := app.HandleKey("q") // unbound

	require.Len(t, state.Objects, 4)
	assert.Equal(t, []int{16, 8, 10, 12}, []int{
		state.Objects[0].Vertices, state.Objects[1].Vertices,
		state.Objects[2].Vertices, state.Objects[3].Vertices,
	})
	assert.Equal(t, -1, state.Selected)
	assert.Equal(t, [3]string{}, state.Form.Position, "form is blank without a selection")
}

func TestHandleKeySelection(t *testing.T) {
	app := NewApp()
	app.HandleKey("i")
	app.HandleKey("l")

	state := app.HandleKey("ArrowLeft")
	assert.Equal(t, 0, state.Selected, "either direction selects the first object")

	state = app.HandleKey("ArrowRight")
	assert.Equal(t, 1, state.Selected)
	state = app.HandleKey("ArrowRight")
	assert.Equal(t, 1, state.Selected, "no wraparound")
	assert.Equal(t, [3]string{"1", "0", "0"}, state.Form.Position)

	state = app.SelectPrevious()
	assert.Equal(t, 0, state.Selected)
	state = app.SelectNext()
	assert.Equal(t, 1, state.Selected)
}

func TestHandleKeyRemoval(t *testing.T) {
	app := NewApp()
	app.HandleKey("i")
	app.HandleKey("l")
	app.HandleKey("u")

	// Delete without a selection does nothing.
	state := app.HandleKey("Delete")
	require.Len(t, state.Objects, 3)

	app.Select(0)
	state = app.HandleKey("Delete") // removes the object after the selection
	require.Len(t, state.Objects, 2)
	assert.Equal(t, 16, state.Objects[0].Vertices)
	assert.Equal(t, 10, state.Objects[1].Vertices)
	assert.Equal(t, 0, state.Selected)

	app.Select(1)
	state = app.HandleKey("Backspace") // removes the selection itself
	require.Len(t, state.Objects, 1)
	assert.Equal(t, 0, state.Selected, "selection shifts down from the removed last index")

	state = app.HandleKey("Backspace")
	assert.Empty(t, state.Objects)
	assert.Equal(t, -1, state.Selected)
}

func TestAddLetterUnknown(t *testing.T) {
	app := NewApp()
	state := app.AddLetter("x")
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0].Message, "unknown letter")
	assert.Empty(t, state.Objects)

	state = app.AddLetter("Z")
	assert.Empty(t, state.Errors)
	assert.Len(t, state.Objects, 1)
}

func TestRemoveObjectOutOfRange(t *testing.T) {
	app := NewApp()
	app.AddLetter("i")
	state := app.RemoveObject(4)
	assert.Len(t, state.Objects, 1)
}

// ---------------------------------------------------------------------------
// Editing form
// ---------------------------------------------------------------------------

func selectedApp(t *testing.T) *App {
	t.Helper()
	app := NewApp()
	app.AddLetter("l")
	state := app.SelectNext()
	require.Equal(t, 0, state.Selected)
	return app
}

func TestApplyPosition(t *testing.T) {
	app := selectedApp(t)

	state := app.ApplyPosition("1.5", " -2", "3")
	assert.False(t, state.Form.PositionError)
	assert.Equal(t, [3]float64{1.5, -2, 3}, state.Objects[0].Position)
	assert.Equal(t, [3]string{"1.5", "-2", "3"}, state.Form.Position)

	state = app.ApplyPosition("1", "oops", "3")
	assert.True(t, state.Form.PositionError)
	assert.Equal(t, [3]float64{1.5, -2, 3}, state.Objects[0].Position, "parse failure does not mutate")
	assert.Equal(t, [3]string{"1", "oops", "3"}, state.Form.Position, "typed text is kept")

	state = app.RestorePosition()
	assert.Equal(t, [3]string{"1.5", "-2", "3"}, state.Form.Position)

	state = app.ApplyPosition("0", "0", "0")
	assert.False(t, state.Form.PositionError, "a successful apply clears the flag")
}

func TestApplyScale(t *testing.T) {
	app := selectedApp(t)

	state := app.ApplyScale("2", "", "1")
	assert.True(t, state.Form.ScaleError)
	assert.Equal(t, [3]float64{1, 1, 1}, state.Objects[0].Scale)

	state = app.ApplyScale("2", "0", "1")
	assert.False(t, state.Form.ScaleError)
	assert.Equal(t, [3]float64{2, 0, 1}, state.Objects[0].Scale)
	assert.Contains(t, state.Objects[0].Warnings, "[zero-scale] scale along y is zero")

	app.form.Scale = [3]string{"9", "9", "9"}
	state = app.RestoreScale()
	assert.Equal(t, [3]string{"2", "0", "1"}, state.Form.Scale)
}

func TestApplyWithoutSelection(t *testing.T) {
	app := NewApp()
	app.AddLetter("l")

	state := app.ApplyPosition("5", "5", "5")
	assert.Equal(t, [3]float64{0, 0, 0}, state.Objects[0].Position)
	state = app.ApplyExtrusion("1")
	assert.False(t, state.Objects[0].Extruded)
}

func TestExtrusionForm(t *testing.T) {
	app := selectedApp(t)

	state := app.SetExtruded(true)
	assert.True(t, state.Form.Extruded)
	assert.False(t, state.Objects[0].Extruded, "checking the box alone does not extrude")

	state = app.ApplyExtrusion("abc")
	assert.True(t, state.Form.ExtrusionErr)
	assert.False(t, state.Objects[0].Extruded)

	state = app.ApplyExtrusion("0.3")
	assert.False(t, state.Form.ExtrusionErr)
	assert.True(t, state.Objects[0].Extruded)
	assert.Equal(t, 0.3, state.Objects[0].Extrusion)
	assert.Equal(t, 16, state.VertexCount)

	state = app.SetExtruded(false)
	assert.False(t, state.Objects[0].Extruded)
	assert.Equal(t, 8, state.VertexCount)

	// Restoring with no extrusion clears the field and the checkbox.
	app.SetExtruded(true)
	state = app.RestoreExtrusion()
	assert.False(t, state.Form.Extruded)
	assert.Empty(t, state.Form.Extrusion)
}

func TestSetRotationClamps(t *testing.T) {
	app := selectedApp(t)

	state := app.SetRotation(270, -45, -900)
	assert.Equal(t, [3]float64{180, -45, -180}, state.Form.Rotation)
	assert.Equal(t, [3]float64{180, -45, -180}, state.Objects[0].Rotation)
}

func TestFormFollowsSelection(t *testing.T) {
	app := NewApp()
	app.AddLetter("i")
	app.AddLetter("u")
	app.SelectNext()
	app.ApplyExtrusion("0.5")
	app.SetRotation(0, 0, 30)

	state := app.SelectNext()
	assert.Equal(t, [3]string{"1", "0", "0"}, state.Form.Position)
	assert.False(t, state.Form.Extruded)
	assert.Equal(t, [3]float64{}, state.Form.Rotation)

	state = app.SelectPrevious()
	assert.True(t, state.Form.Extruded)
	assert.Equal(t, "0.5", state.Form.Extrusion)
	assert.Equal(t, [3]float64{0, 0, 30}, state.Form.Rotation)
}

// ---------------------------------------------------------------------------
// Views
// ---------------------------------------------------------------------------

func TestSetVisualization(t *testing.T) {
	app := NewApp()
	app.AddLetter("z")

	state := app.State()
	assert.Equal(t, "all", state.Mode)
	assert.Len(t, state.Views, 4)

	state = app.SetVisualization("top")
	assert.Equal(t, "top", state.Mode)
	require.Len(t, state.Views, 1)
	assert.Contains(t, state.Views["top"], "<line")

	state = app.SetVisualization("sideways")
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "top", state.Mode)
}

func TestResize(t *testing.T) {
	app := NewApp()
	app.SetVisualization("front")
	app.Resize(1000, 500)

	v, ok := app.views.View("front")
	require.True(t, ok)
	w, h := v.Size()
	assert.Equal(t, 1000-(20+320), w)
	assert.Equal(t, 500-20, h)

	// Smaller than the sidebar still leaves a 1x1 view.
	app.Resize(100, 10)
	w, h = v.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}
