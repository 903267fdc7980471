// Package manifest parses and models a module's declarative descriptor.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/addonlint/addonlint/internal/pyast"
	"github.com/addonlint/addonlint/internal/pyparse"
)

// ErrNotMapping is returned when the descriptor file parses but does not
// evaluate to a single mapping literal.
var ErrNotMapping = errors.New("manifest: descriptor is not a mapping literal")

// Record is a parsed module descriptor. Values carries the evaluated
// literals (string, bool, float64, []any, map[string]any, nil); Keys keeps
// declaration order so repeated validation emits findings in a stable
// order.
type Record struct {
	Path   string
	Keys   []string
	Values map[string]any
	KeyPos map[string]pyast.Position
}

// Parse evaluates descriptor source into a Record. The caller turns a
// failure into a single "not parseable" finding and skips every other
// manifest check for the file; errors never cascade further.
func Parse(path string, src []byte) (*Record, error) {
	mod, _, err := pyparse.ParseFile(path, src)
	if err != nil {
		return nil, err
	}

	dict := findMapping(mod)
	if dict == nil {
		return nil, ErrNotMapping
	}

	rec := &Record{
		Path:   path,
		Values: map[string]any{},
		KeyPos: map[string]pyast.Position{},
	}
	for _, item := range dict.Items {
		if item.Key == nil {
			continue
		}
		key, ok := item.Key.(*pyast.Str)
		if !ok {
			return nil, fmt.Errorf("manifest: non-string key %s", pyast.Format(item.Key))
		}
		if _, seen := rec.Values[key.Value]; !seen {
			rec.Keys = append(rec.Keys, key.Value)
		}
		rec.Values[key.Value] = evaluate(item.Value)
		rec.KeyPos[key.Value] = item.Key.Pos()
	}
	return rec, nil
}

// findMapping locates the descriptor's top-level dict literal. A leading
// docstring is tolerated.
func findMapping(mod *pyast.Module) *pyast.Dict {
	for _, stmt := range mod.Body {
		expr, ok := stmt.(*pyast.ExprStmt)
		if !ok {
			return nil
		}
		switch v := expr.Value.(type) {
		case *pyast.Dict:
			return v
		case *pyast.Str:
			continue // module docstring
		default:
			return nil
		}
	}
	return nil
}

// evaluate reduces a literal expression to a plain Go value. Expressions
// that are not plain literals come back as their formatted source text so
// checkers can still mention them.
func evaluate(n pyast.Node) any {
	switch v := n.(type) {
	case *pyast.Str:
		return v.Value
	case *pyast.Num:
		return v.Value
	case *pyast.Const:
		switch v.Value {
		case "True":
			return true
		case "False":
			return false
		case "None":
			return nil
		}
		return v.Value
	case *pyast.List:
		return evaluateSeq(v.Elts)
	case *pyast.Tuple:
		return evaluateSeq(v.Elts)
	case *pyast.Set:
		return evaluateSeq(v.Elts)
	case *pyast.Dict:
		out := map[string]any{}
		for _, item := range v.Items {
			if key, ok := item.Key.(*pyast.Str); ok {
				out[key.Value] = evaluate(item.Value)
			}
		}
		return out
	default:
		return pyast.Format(n)
	}
}

func evaluateSeq(elts []pyast.Node) []any {
	out := make([]any, 0, len(elts))
	for _, e := range elts {
		out = append(out, evaluate(e))
	}
	return out
}

// Pos returns the source position of a key, falling back to line 1.
func (r *Record) Pos(key string) pyast.Position {
	if pos, ok := r.KeyPos[key]; ok {
		return pos
	}
	return pyast.Position{Filename: r.Path, Line: 1, Col: 1}
}

// Has reports whether the descriptor declares key.
func (r *Record) Has(key string) bool {
	_, ok := r.Values[key]
	return ok
}

// String returns the string value of key, or "" when absent or not a
// string.
func (r *Record) String(key string) string {
	s, _ := r.Values[key].(string)
	return s
}

// StringList returns the value of key as a string slice. Non-string
// elements are skipped; a scalar value yields nil.
func (r *Record) StringList(key string) []string {
	seq, ok := r.Values[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// AuthorSet splits the author field into a trimmed name set. A list-typed
// author contributes its elements; a comma-separated string is split.
func (r *Record) AuthorSet() map[string]bool {
	out := map[string]bool{}
	switch v := r.Values["author"].(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out[part] = true
			}
		}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out[s] = true
				}
			}
		}
	}
	return out
}
