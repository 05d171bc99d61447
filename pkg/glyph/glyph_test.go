package glyph

import (
	"testing"

	"github.com/chazu/blockletter/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterTopology(t *testing.T) {
	tests := []struct {
		name     string
		vertices int
		edges    int
		faces    int
		boundary int
	}{
		{"I", 16, 29, 14, 16},
		{"L", 8, 13, 6, 8},
		{"U", 10, 17, 8, 10},
		{"Z", 12, 21, 10, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, ok := Lookup(tt.name)
			require.True(t, ok)

			o := mesh.NewObject(mesh.Point(0, 0, 0))
			o.AddFaces(faces)
			assert.Equal(t, tt.vertices, o.VertexCount())
			assert.Equal(t, tt.edges, o.EdgeCount())
			assert.Equal(t, tt.faces, o.FaceCount())

			boundary := 0
			for id := mesh.EdgeID(0); int(id) < o.EdgeCount(); id++ {
				if o.IsBoundary(id) {
					boundary++
				}
			}
			assert.Equal(t, tt.boundary, boundary)
			assert.Empty(t, mesh.Validate(o), "letters are clean triangulations")

			// Extruded: front + back per edge, plus three walls per boundary edge.
			o.SetExtrusion(0.2)
			b := o.Buffers()
			assert.Equal(t, 2*tt.edges+3*tt.boundary, b.LineCount())
		})
	}
}

func TestLettersAreFlat(t *testing.T) {
	for _, name := range Names() {
		faces, _ := Lookup(name)
		for _, tri := range faces {
			for _, corner := range tri {
				assert.Zero(t, corner[2], "letter %s", name)
				assert.Equal(t, 1.0, corner[3], "letter %s", name)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	faces, ok := Lookup("l")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Len(t, faces, 6)

	faces[0] = mesh.Triangle{}
	again, _ := Lookup("L")
	assert.NotEqual(t, mesh.Triangle{}, again[0], "lookup returns a copy")

	_, ok = Lookup("Q")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"I", "L", "U", "Z"}, Names())
}
