package pathutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Escape escapes a single JSON Pointer token.
// Per RFC 6901, ~ becomes ~0 and / becomes ~1.
func Escape(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// Unescape reverses Escape.
func Unescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// Pointer builds an escaped JSON Pointer ("/a/b~1c") from raw tokens.
func Pointer(tokens ...string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}
	return b.String()
}

// IsLocal reports whether ref points into the current document.
func IsLocal(ref string) bool {
	return strings.HasPrefix(ref, "#")
}

// Split returns the unescaped tokens of a local reference or pointer.
// "#/a/b" and "/a/b" both yield ["a", "b"]; "#" and "" yield nil.
func Split(ref string) []string {
	ref = strings.TrimPrefix(ref, "#")
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" {
		return nil
	}
	parts := strings.Split(ref, "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts
}

// Dotted joins tokens with dots for diagnostic display.
func Dotted(tokens []string) string {
	return strings.Join(tokens, ".")
}

// Resolve walks root following a local reference.
func Resolve(root any, ref string) (any, error) {
	if !IsLocal(ref) {
		return nil, fmt.Errorf("pathutil: only local references are supported: %s", ref)
	}
	current := root
	parts := Split(ref)
	for i, part := range parts {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("pathutil: reference not found: #%s (missing key: %s)", Pointer(parts[:i+1]...), part)
			}
			current = next
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(v) {
				return nil, fmt.Errorf("pathutil: invalid array index %q in reference: #%s", part, Pointer(parts[:i+1]...))
			}
			current = v[index]
		default:
			return nil, fmt.Errorf("pathutil: cannot traverse into type %T at #%s", v, Pointer(parts[:i]...))
		}
	}
	return current, nil
}

// maxHops bounds how many intermediate references ResolveDeep follows.
const maxHops = 64

// ResolveDeep is Resolve, except that reference objects met along the way
// are followed before descending. "#/channels/a/messages/b" resolves even
// when channels.a is itself a $ref.
func ResolveDeep(root any, ref string) (any, error) {
	if !IsLocal(ref) {
		return nil, fmt.Errorf("pathutil: only local references are supported: %s", ref)
	}
	current := root
	hops := 0
	parts := Split(ref)
	for i, part := range parts {
		for {
			m, ok := current.(map[string]any)
			if !ok {
				break
			}
			inner, ok := m["$ref"].(string)
			if !ok || !IsLocal(inner) {
				break
			}
			if hops++; hops > maxHops {
				return nil, fmt.Errorf("pathutil: too many nested references at #%s", Pointer(parts[:i]...))
			}
			next, err := Resolve(root, inner)
			if err != nil {
				return nil, err
			}
			current = next
		}
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("pathutil: reference not found: #%s (missing key: %s)", Pointer(parts[:i+1]...), part)
			}
			current = next
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(v) {
				return nil, fmt.Errorf("pathutil: invalid array index %q in reference: #%s", part, Pointer(parts[:i+1]...))
			}
			current = v[index]
		default:
			return nil, fmt.Errorf("pathutil: cannot traverse into type %T at #%s", v, Pointer(parts[:i]...))
		}
	}
	return current, nil
}
