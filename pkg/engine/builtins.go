package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/blockletter/pkg/glyph"
	"github.com/chazu/blockletter/pkg/mesh"
	"github.com/chazu/blockletter/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpObject refers to an object in the scene being built. Indices shift
// when objects are removed, so the object itself is held.
type sexpObject struct {
	obj  *mesh.Object
	name string // letter name or "shape"
}

func (o *sexpObject) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %q %s)", o.name, o.obj.ID[:8])
}
func (o *sexpObject) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a point or per-axis triple.
type sexpVec3 struct {
	vec [3]float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpTri wraps a triangle for `shape`.
type sexpTri struct {
	tri mesh.Triangle
}

func (t *sexpTri) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(tri %v %v %v)", t.tri[0][:3], t.tri[1][:3], t.tri[2][:3])
}
func (t *sexpTri) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_l) and plain strings ("l").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toVec3 extracts a triple from a sexpVec3.
func toVec3(s zygo.Sexp) ([3]float64, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return [3]float64{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toTriangles flattens tri values and lists of tri values.
func toTriangles(s zygo.Sexp) ([]mesh.Triangle, error) {
	if t, ok := s.(*sexpTri); ok {
		return []mesh.Triangle{t.tri}, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected tri or list of tri: %w", err)
	}
	var out []mesh.Triangle
	for _, item := range items {
		tris, err := toTriangles(item)
		if err != nil {
			return nil, err
		}
		out = append(out, tris...)
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toIndex resolves an object reference or an integer index into a
// current scene index.
func toIndex(s *scene.Scene, x zygo.Sexp) (int, error) {
	switch v := x.(type) {
	case *sexpObject:
		i := s.IndexOf(v.obj)
		if i < 0 {
			return 0, fmt.Errorf("%s was removed from the scene", v.SexpString(nil))
		}
		return i, nil
	case *zygo.SexpInt:
		i := int(v.Val)
		if i < 0 || i >= s.Len() {
			return 0, fmt.Errorf("index %d out of range [0, %d)", i, s.Len())
		}
		return i, nil
	}
	return 0, fmt.Errorf("expected object or index, got %T (%s)", x, x.SexpString(nil))
}

// withAxes starts from base, replaces it with a positional or :at vec3
// when given, then applies :x :y :z overrides.
func withAxes(base [3]float64, pa kwArgs, vecKey string) ([3]float64, error) {
	out := base
	if len(pa.positional) > 1 {
		v, err := toVec3(pa.positional[1])
		if err != nil {
			return out, err
		}
		out = v
	}
	if v, ok := pa.kw[vecKey]; ok && vecKey != "" {
		vec, err := toVec3(v)
		if err != nil {
			return out, fmt.Errorf("%s: %w", vecKey, err)
		}
		out = vec
	}
	for axis, key := range []string{"x", "y", "z"} {
		if v, ok := pa.kw[key]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return out, fmt.Errorf("%s: %w", key, err)
			}
			out[axis] = f
		}
	}
	return out, nil
}

// target resolves the first positional argument of a transform builtin.
func target(s *scene.Scene, fn string, pa kwArgs) (int, *mesh.Object, error) {
	if len(pa.positional) < 1 {
		return 0, nil, fmt.Errorf("%s requires an object as first argument", fn)
	}
	i, err := toIndex(s, pa.positional[0])
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", fn, err)
	}
	o, _ := s.Object(i)
	return i, o, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// The builtins mutate s during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	ref := func(i int, name string) zygo.Sexp {
		o, _ := s.Object(i)
		return &sexpObject{obj: o, name: name}
	}

	// -----------------------------------------------------------------------
	// (letter :l) (letter "Z")
	// -----------------------------------------------------------------------
	env.AddFunction("letter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("letter requires exactly 1 argument, got %d", len(args))
		}
		letter, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("letter: %w", err)
		}
		faces, ok := glyph.Lookup(letter)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("letter: unknown letter %q, expected one of %s",
				letter, strings.Join(glyph.Names(), ", "))
		}
		return ref(s.Add(faces), strings.ToUpper(letter)), nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v sexpVec3
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v.vec[i] = f
		}
		return &v, nil
	})

	// -----------------------------------------------------------------------
	// (tri (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("tri", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("tri requires exactly 3 corners, got %d", len(args))
		}
		var t sexpTri
		for i, arg := range args {
			v, err := toVec3(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tri: corner %d: %w", i, err)
			}
			t.tri[i] = mesh.Point(v[0], v[1], v[2])
		}
		return &t, nil
	})

	// -----------------------------------------------------------------------
	// (shape (tri ...) (tri ...)) or (shape (list (tri ...) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var faces []mesh.Triangle
		for i, arg := range args {
			tris, err := toTriangles(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: argument %d: %w", i, err)
			}
			faces = append(faces, tris...)
		}
		if len(faces) == 0 {
			return zygo.SexpNull, fmt.Errorf("shape requires at least one tri")
		}
		return ref(s.Add(faces), "shape"), nil
	})

	// -----------------------------------------------------------------------
	// (place obj (vec3 0 1 0)) (place obj :at (vec3 0 1 0)) (place obj :z 2)
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		i, o, err := target(s, "place", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		cur := o.Position()
		p, err := withAxes([3]float64{cur[0], cur[1], cur[2]}, pa, "at")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		s.SetPosition(i, mesh.Point(p[0], p[1], p[2]))
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (rotate obj :z 90) (rotate obj (vec3 0 45 90))
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		i, o, err := target(s, "rotate", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := withAxes(o.Rotation(), pa, "")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		s.SetRotation(i, r)
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (scale obj 2) (scale obj (vec3 1 2 1)) (scale obj :y 2)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		i, o, err := target(s, "scale", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) > 1 {
			if f, err := toFloat64(pa.positional[1]); err == nil {
				// Uniform factor; explicit :x :y :z still win.
				pa.positional = pa.positional[:1]
				for _, key := range []string{"x", "y", "z"} {
					if _, ok := pa.kw[key]; !ok {
						pa.kw[key] = &zygo.SexpFloat{Val: f}
					}
				}
			}
		}
		sc, err := withAxes(o.Scale(), pa, "")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		s.SetScale(i, sc)
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (extrude obj 0.2) (extrude obj :depth 0.2)
	// -----------------------------------------------------------------------
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		i, _, err := target(s, "extrude", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		var depthArg zygo.Sexp
		switch {
		case len(pa.positional) > 1:
			depthArg = pa.positional[1]
		case pa.kw["depth"] != nil:
			depthArg = pa.kw["depth"]
		default:
			return zygo.SexpNull, fmt.Errorf("extrude requires a depth")
		}
		depth, err := toFloat64(depthArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: depth: %w", err)
		}
		s.SetExtrusion(i, depth)
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (unextrude obj)
	//
	// Not "flatten": zygomys resolves its own builtins before globals.
	// -----------------------------------------------------------------------
	env.AddFunction("unextrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		i, _, err := target(s, "unextrude", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		s.ClearExtrusion(i)
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (select obj) (select 0)
	// -----------------------------------------------------------------------
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		i, _, err := target(s, "select", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Select(i)
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (select-next) (select-prev)
	//
	// Registered with underscores; preprocessSource rewrites the hyphens.
	// -----------------------------------------------------------------------
	env.AddFunction("select_next", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s.SelectNext()
		return selectedIndex(s), nil
	})
	env.AddFunction("select_prev", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s.SelectPrevious()
		return selectedIndex(s), nil
	})

	// -----------------------------------------------------------------------
	// (remove obj) (remove 0)
	// -----------------------------------------------------------------------
	env.AddFunction("remove", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		i, _, err := target(s, "remove", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Remove(i)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (count)
	// -----------------------------------------------------------------------
	env.AddFunction("count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(s.Len())}, nil
	})
}

// selectedIndex returns the selection as an integer, or SexpNull.
func selectedIndex(s *scene.Scene) zygo.Sexp {
	if i, ok := s.Selected(); ok {
		return &zygo.SexpInt{Val: int64(i)}
	}
	return zygo.SexpNull
}
