package parser

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/asyncdocs/asyncerrors"
	"github.com/erraggy/asyncdocs/internal/pathutil"
)

// maxExpandDepth bounds schema expansion for trees that nest without refs.
const maxExpandDepth = 512

// Schema is a payload schema fragment. It keeps references unexpanded so
// that self-referential schemas stay finite.
type Schema struct {
	raw     any
	pointer string
	root    map[string]any
}

// NewSchema wraps a schema fragment whose local references resolve
// against root. root may be nil when the fragment has no references.
func NewSchema(raw any, root map[string]any) *Schema {
	return &Schema{raw: raw, root: root}
}

// Raw returns the schema fragment as written.
func (s *Schema) Raw() any { return s.raw }

// Pointer returns the JSON pointer where the schema is defined.
func (s *Schema) Pointer() string { return s.pointer }

// Title returns the schema title, if any.
func (s *Schema) Title() string {
	m, _ := s.raw.(map[string]any)
	return str(m, "title")
}

// Type returns the schema type keyword, if it is a single string.
func (s *Schema) Type() string {
	m, _ := s.raw.(map[string]any)
	return str(m, "type")
}

// Examples returns the schema's examples, falling back to a lone example.
func (s *Schema) Examples() []any {
	m, _ := s.raw.(map[string]any)
	if ex := list(m, "examples"); len(ex) > 0 {
		return ex
	}
	if ex, ok := m["example"]; ok {
		return []any{ex}
	}
	return nil
}

// Expand returns a copy of the schema with local references replaced by
// their targets. A reference that is already being expanded higher up
// yields an *asyncerrors.ReferenceError with IsCircular set.
func (s *Schema) Expand() (any, error) {
	return s.expand(s.raw, map[string]bool{}, 0)
}

// JSON returns the expanded schema as JSON.
func (s *Schema) JSON() ([]byte, error) {
	expanded, err := s.Expand()
	if err != nil {
		return nil, err
	}
	return json.Marshal(expanded)
}

func (s *Schema) expand(v any, active map[string]bool, depth int) (any, error) {
	if depth > maxExpandDepth {
		return nil, &asyncerrors.ReferenceError{
			Ref:        s.pointer,
			IsCircular: true,
			Message:    fmt.Sprintf("schema nests deeper than %d levels", maxExpandDepth),
		}
	}
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok && pathutil.IsLocal(ref) {
			if active[ref] {
				return nil, &asyncerrors.ReferenceError{Ref: ref, IsCircular: true}
			}
			target, err := pathutil.ResolveDeep(s.root, ref)
			if err != nil {
				return nil, &asyncerrors.ReferenceError{Ref: ref, Cause: err}
			}
			active[ref] = true
			out, err := s.expand(target, active, depth+1)
			delete(active, ref)
			return out, err
		}
		out := make(map[string]any, len(t))
		for k, child := range t {
			expanded, err := s.expand(child, active, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			expanded, err := s.expand(child, active, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}
