package parser

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/internal/pathutil"
)

// keyOrder maps a JSON pointer to the declaration order of the mapping
// found there.
type keyOrder map[string][]string

// keys returns the keys of m in source order. Keys the source did not
// record (or maps built after decoding) fall back to sorted order.
func (o keyOrder) keys(ptr string, m map[string]any) []string {
	if recorded, ok := o[ptr]; ok && len(recorded) == len(m) {
		return recorded
	}
	return maputil.SortedKeys(m)
}

// decodeDocument reads YAML or JSON into a generic tree with string keys,
// plus the key order of every mapping. A non-nil Diagnostic means the data
// is not a document at all.
func decodeDocument(data []byte) (map[string]any, keyOrder, *Diagnostic) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, nil, &Diagnostic{
			Code:     CodeSyntax,
			Message:  fmt.Sprintf("failed to parse YAML/JSON: %v", err),
			Severity: SeverityError,
		}
	}

	if node.Kind == 0 || (node.Kind == yaml.DocumentNode && len(node.Content) == 0) {
		return nil, nil, &Diagnostic{Code: CodeInvalidRoot, Message: "document is empty", Severity: SeverityError}
	}

	var raw any
	if err := node.Decode(&raw); err != nil {
		return nil, nil, &Diagnostic{
			Code:     CodeSyntax,
			Message:  fmt.Sprintf("failed to decode YAML/JSON: %v", err),
			Severity: SeverityError,
		}
	}

	root, ok := normalizeKeys(raw).(map[string]any)
	if !ok {
		return nil, nil, &Diagnostic{
			Code:     CodeInvalidRoot,
			Message:  fmt.Sprintf("document must be a mapping, got %T", raw),
			Severity: SeverityError,
		}
	}

	order := keyOrder{}
	recordOrder(&node, "", order, 0)
	return root, order, nil
}

// maxNodeDepth bounds recursion through pathological alias graphs.
const maxNodeDepth = 256

// recordOrder walks node and stores the key order of each mapping.
func recordOrder(node *yaml.Node, ptr string, order keyOrder, depth int) {
	if node == nil || depth > maxNodeDepth {
		return
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			recordOrder(node.Content[0], ptr, order, depth+1)
		}
	case yaml.AliasNode:
		recordOrder(node.Alias, ptr, order, depth+1)
	case yaml.MappingNode:
		seen := make(map[string]bool, len(node.Content)/2)
		keys := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k := node.Content[i]
			if k.Kind != yaml.ScalarNode || k.Value == "<<" {
				continue
			}
			if !seen[k.Value] {
				seen[k.Value] = true
				keys = append(keys, k.Value)
			}
			recordOrder(node.Content[i+1], ptr+"/"+pathutil.Escape(k.Value), order, depth+1)
		}
		order[ptr] = keys
	case yaml.SequenceNode:
		for i, item := range node.Content {
			recordOrder(item, fmt.Sprintf("%s/%d", ptr, i), order, depth+1)
		}
	}
}

// normalizeKeys converts map[any]any values produced for non-string YAML
// keys into map[string]any, recursively.
func normalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeKeys(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeKeys(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalizeKeys(child)
		}
		return t
	default:
		return v
	}
}

// detectVersion reads the asyncapi field and checks that its major
// version is supported.
func detectVersion(root map[string]any) (string, *Diagnostic) {
	raw, ok := root["asyncapi"]
	if !ok || raw == nil {
		return "", &Diagnostic{
			Code:     CodeMissingVersion,
			Message:  "document is missing the asyncapi version field",
			Severity: SeverityError,
		}
	}
	version := strings.TrimSpace(fmt.Sprint(raw))
	if !strings.HasPrefix(version, "2.") && !strings.HasPrefix(version, "3.") {
		return version, &Diagnostic{
			Code:     CodeUnsupportedVersion,
			Message:  fmt.Sprintf("unsupported AsyncAPI version %q (supported: 2.x, 3.x)", version),
			Path:     []string{"asyncapi"},
			Severity: SeverityError,
		}
	}
	return version, nil
}

// Small typed getters over the generic tree.

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func obj(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	o, _ := m[key].(map[string]any)
	return o
}

func list(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	l, _ := m[key].([]any)
	return l
}
