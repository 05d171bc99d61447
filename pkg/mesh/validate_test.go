package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanQuad(t *testing.T) {
	o := NewObject(Point(0, 0, 0))
	o.AddFaces(unitQuad())
	assert.Empty(t, Validate(o))
}

func TestValidateDegenerateFaces(t *testing.T) {
	tests := []struct {
		name string
		tri  Triangle
	}{
		{"repeated corner", Tri(pA, pA, pB)},
		{"collinear", Tri(pA, pB, Point(2, 0, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewObject(Point(0, 0, 0))
			o.AddFace(tt.tri)

			warnings := Validate(o)
			require.Len(t, warnings, 1)
			assert.Equal(t, WarnDegenerateFace, warnings[0].Kind)
			assert.Equal(t, 0, warnings[0].Index)
			assert.Contains(t, warnings[0].String(), "degenerate-face")
		})
	}
}

func TestValidateNonManifoldEdge(t *testing.T) {
	o := NewObject(Point(0, 0, 0))
	o.AddFaces(unitQuad())
	o.AddFace(Tri(pB, pC, Point(0, 0, 1)))

	warnings := Validate(o)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnNonManifoldEdge, warnings[0].Kind)

	bc, ok := o.FindEdge(pB, pC)
	require.True(t, ok)
	assert.Equal(t, int(bc), warnings[0].Index)
}

func TestValidateZeroScale(t *testing.T) {
	o := NewObject(Point(0, 0, 0))
	o.SetScale(Scale{1, 0, 1})

	warnings := Validate(o)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnZeroScale, warnings[0].Kind)
	assert.Equal(t, 1, warnings[0].Index)
	assert.Equal(t, "scale along y is zero", warnings[0].Message)
}

func TestWarningKindString(t *testing.T) {
	assert.Equal(t, "non-manifold-edge", WarnNonManifoldEdge.String())
	assert.Equal(t, "WarningKind(42)", WarningKind(42).String())
}
