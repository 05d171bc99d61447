package engine

import (
	"strings"
	"testing"

	"github.com/chazu/blockletter/pkg/mesh"
	"github.com/chazu/blockletter/pkg/scene"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(letter :l)`,
			expect: `(letter "__kw_l")`,
		},
		{
			name:   "multiple keywords",
			input:  `(rotate a :x 90 :z 45)`,
			expect: `(rotate a "__kw_x" 90 "__kw_z" 45)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"say \":depth\"" :depth`,
			expect: `"say \":depth\"" "__kw_depth"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`select-next :x`",
			expect: "`select-next :x`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(select-next)`,
			expect: `(select_next)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 -0.3 0.5 0)`,
			expect: `(vec3 -0.3 0.5 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; simple comment\n(count)",
			expect: "// simple comment\n(count)",
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:face-depth`,
			expect: `"__kw_face-depth"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEvaluate(t *testing.T, source string) *scene.Scene {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if sc == nil {
		t.Fatal("expected non-nil scene")
	}
	return sc
}

func mustFail(t *testing.T, source, want string) {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if sc != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if !strings.Contains(evalErrs[0].Message, want) {
		t.Errorf("message = %q, want containing %q", evalErrs[0].Message, want)
	}
}

func object(t *testing.T, sc *scene.Scene, i int) *mesh.Object {
	t.Helper()
	o, ok := sc.Object(i)
	if !ok {
		t.Fatalf("no object at index %d (scene has %d)", i, sc.Len())
	}
	return o
}

// ---------------------------------------------------------------------------
// Letters and shapes
// ---------------------------------------------------------------------------

func TestLetter(t *testing.T) {
	sc := mustEvaluate(t, `(letter :l) (letter "Z")`)
	if sc.Len() != 2 {
		t.Fatalf("expected 2 objects, got %d", sc.Len())
	}

	l := object(t, sc, 0)
	if l.VertexCount() != 8 || l.FaceCount() != 6 {
		t.Errorf("L: got %d vertices / %d faces, want 8 / 6", l.VertexCount(), l.FaceCount())
	}
	z := object(t, sc, 1)
	if z.VertexCount() != 12 {
		t.Errorf("Z: got %d vertices, want 12", z.VertexCount())
	}
	if got := z.Position(); got != mesh.Point(1, 0, 0) {
		t.Errorf("second object should be laid out at x=1, got %v", got)
	}
}

func TestUnknownLetter(t *testing.T) {
	mustFail(t, `(letter :q)`, "unknown letter")
}

func TestShape(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name: "tri arguments",
			source: `(shape (tri (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0))
                            (tri (vec3 1 0 0) (vec3 1 1 0) (vec3 0 1 0)))`,
		},
		{
			name: "list of tris",
			source: `(def a (vec3 0 0 0))
(def b (vec3 1 0 0))
(def c (vec3 0 1 0))
(def d (vec3 1 1 0))
(shape (list (tri a b c) (tri b d c)))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := mustEvaluate(t, tt.source)
			o := object(t, sc, 0)
			if o.VertexCount() != 4 || o.EdgeCount() != 5 || o.FaceCount() != 2 {
				t.Errorf("got %d/%d/%d vertices/edges/faces, want 4/5/2",
					o.VertexCount(), o.EdgeCount(), o.FaceCount())
			}
		})
	}
}

func TestShapeErrors(t *testing.T) {
	mustFail(t, `(shape)`, "at least one tri")
	mustFail(t, `(shape 1)`, "expected tri")
	mustFail(t, `(tri (vec3 0 0 0) 1 (vec3 0 1 0))`, "corner 1")
	mustFail(t, `(vec3 1 2)`, "exactly 3 arguments")
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

func TestTransforms(t *testing.T) {
	sc := mustEvaluate(t, `
(def a (letter :u))
(place a :at (vec3 0 2 0))
(place a :z 1)
(rotate a :z 90)
(scale a 2)
(scale a :y 3)
(extrude a :depth 0.2)
`)
	o := object(t, sc, 0)
	if got := o.Position(); got != mesh.Point(0, 2, 1) {
		t.Errorf("position = %v, want (0,2,1)", got)
	}
	if got := o.Rotation(); got != (mesh.Rotation{0, 0, 90}) {
		t.Errorf("rotation = %v, want {0 0 90}", got)
	}
	if got := o.Scale(); got != (mesh.Scale{2, 3, 2}) {
		t.Errorf("scale = %v, want {2 3 2}", got)
	}
	depth, ok := o.Extrusion()
	if !ok || depth != 0.2 {
		t.Errorf("extrusion = %v, %v; want 0.2, true", depth, ok)
	}
	if len(sc.Vertices()) != 2*o.VertexCount() {
		t.Errorf("extruded object should double its render vertices")
	}
}

func TestTransformsThread(t *testing.T) {
	sc := mustEvaluate(t, `(unextrude (extrude (rotate (letter :i) (vec3 10 20 30)) 0.5))`)
	o := object(t, sc, 0)
	if got := o.Rotation(); got != (mesh.Rotation{10, 20, 30}) {
		t.Errorf("rotation = %v, want {10 20 30}", got)
	}
	if _, ok := o.Extrusion(); ok {
		t.Error("unextrude should clear the extrusion")
	}
}

func TestUnextrude(t *testing.T) {
	sc := mustEvaluate(t, `(def a (letter :i)) (letter :l) (extrude a 0.5) (extrude 1 0.5) (unextrude a) (unextrude 1)`)
	for i := 0; i < sc.Len(); i++ {
		if _, ok := object(t, sc, i).Extrusion(); ok {
			t.Errorf("object %d is still extruded", i)
		}
	}
	if got, want := len(sc.Vertices()), 16+8; got != want {
		t.Errorf("merged vertices = %d, want %d", got, want)
	}

	mustFail(t, `(unextrude 0)`, "out of range")
}

func TestExtrudeRequiresDepth(t *testing.T) {
	mustFail(t, `(extrude (letter :i))`, "requires a depth")
	mustFail(t, `(extrude (letter :i) :depth "deep")`, "expected number")
}

func TestTransformByIndex(t *testing.T) {
	sc := mustEvaluate(t, `(letter :i) (letter :l) (place 1 :y 5)`)
	if got := object(t, sc, 1).Position(); got != mesh.Point(1, 5, 0) {
		t.Errorf("position = %v, want (1,5,0)", got)
	}
	mustFail(t, `(place 0 :y 5)`, "out of range")
	mustFail(t, `(rotate "a" :z 5)`, "expected object or index")
}

// ---------------------------------------------------------------------------
// Selection and removal
// ---------------------------------------------------------------------------

func TestSelection(t *testing.T) {
	sc := mustEvaluate(t, `(letter :i) (letter :l) (letter :u) (select-next) (select-next)`)
	if i, ok := sc.Selected(); !ok || i != 1 {
		t.Errorf("selected = %d, %v; want 1, true", i, ok)
	}

	sc = mustEvaluate(t, `(def z (letter :z)) (letter :l) (select z) (select-prev)`)
	if i, ok := sc.Selected(); !ok || i != 0 {
		t.Errorf("selected = %d, %v; want 0, true", i, ok)
	}
}

func TestRemove(t *testing.T) {
	sc := mustEvaluate(t, `(def a (letter :i)) (letter :l) (remove a)`)
	if sc.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", sc.Len())
	}
	if got := object(t, sc, 0).VertexCount(); got != 8 {
		t.Errorf("remaining object should be the L, got %d vertices", got)
	}

	mustFail(t, `(def a (letter :i)) (remove a) (place a :x 1)`, "removed")
	mustFail(t, `(remove 0)`, "out of range")
}

func TestCount(t *testing.T) {
	sc := mustEvaluate(t, `(letter :i) (cond (== (count) 1) (letter :z) (letter :l))`)
	if got := object(t, sc, 1).VertexCount(); got != 12 {
		t.Errorf("count should report 1 and add the Z, got %d vertices", got)
	}

	// The last index is one less than the count.
	sc = mustEvaluate(t, `(letter :i) (letter :l) (letter :u) (place (- (count) 1) :y 5)`)
	if got := object(t, sc, 2).Position(); got != mesh.Point(2, 5, 0) {
		t.Errorf("position = %v, want (2,5,0)", got)
	}

	sc = mustEvaluate(t, `(def n (count)) (cond (== n 0) (letter :u) (letter :z))`)
	if got := object(t, sc, 0).VertexCount(); got != 10 {
		t.Errorf("empty scene should count 0 and add the U, got %d vertices", got)
	}
}

func TestVariableReference(t *testing.T) {
	sc := mustEvaluate(t, `
(def depth 0.25)
(def a (letter :l))
(extrude a depth)
`)
	if d, _ := object(t, sc, 0).Extrusion(); d != 0.25 {
		t.Errorf("extrusion = %v, want 0.25 from variable", d)
	}
}

func TestEachEvaluationBuildsFreshScene(t *testing.T) {
	eng := NewEngine()
	a, _, err := eng.Evaluate(`(letter :i)`)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := eng.Evaluate(`(letter :i)`)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expected distinct scenes")
	}
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("each scene should hold one object, got %d and %d", a.Len(), b.Len())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	sc := mustEvaluate(t, `(place (letter :i) :x (* 2 1.5))`)
	if got := object(t, sc, 0).Position(); got != mesh.Point(3, 0, 0) {
		t.Errorf("position = %v, want (3,0,0)", got)
	}
}
