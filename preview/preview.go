package preview

import (
	"fmt"
	"strings"

	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/normalizer"
)

// Kind separates an operation's messages from its reply messages.
type Kind string

const (
	KindMessage Kind = "message"
	KindReply   Kind = "reply"
)

// Parameter is one row of a message's parameter table.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tab is one message as shown in an operation's message tabs.
type Tab struct {
	Key         string      `json:"key" yaml:"key"`
	Label       string      `json:"label" yaml:"label"`
	Kind        Kind        `json:"kind" yaml:"kind"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Example     any         `json:"example,omitempty" yaml:"example,omitempty"`
	// Draft is set for KindMessage tabs only.
	Draft any `json:"draft,omitempty" yaml:"draft,omitempty"`
}

// ServerOption is a connection target for the try-it client.
type ServerOption struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Tabs returns a tab per message of op followed by a tab per reply message.
func Tabs(op *normalizer.OperationInfo) []Tab {
	if op == nil {
		return nil
	}
	tabs := make([]Tab, 0, len(op.Messages))
	for i := range op.Messages {
		tabs = append(tabs, NewTab(&op.Messages[i], KindMessage, i))
	}
	if op.Reply != nil {
		for i := range op.Reply.Messages {
			tabs = append(tabs, NewTab(&op.Reply.Messages[i], KindReply, i))
		}
	}
	return tabs
}

// NewTab builds the tab for msg at position index among its kind.
func NewTab(msg *normalizer.MessageInfo, kind Kind, index int) Tab {
	id := firstNonEmpty(msg.Name, msg.Title)
	if id == "" {
		id = fmt.Sprint(index)
	}
	tab := Tab{
		Key:         string(kind) + "-" + id,
		Label:       TabLabel(msg, kind, index),
		Kind:        kind,
		Description: msg.Description,
		Parameters:  Parameters(msg),
		Example:     Example(msg),
	}
	if kind == KindMessage {
		tab.Draft = Draft(msg)
	}
	return tab
}

// TabLabel is the message title, else its name, else "Message N" or
// "Reply N" counting from one.
func TabLabel(msg *normalizer.MessageInfo, kind Kind, index int) string {
	if label := firstNonEmpty(msg.Title, msg.Name); label != "" {
		return label
	}
	if kind == KindReply {
		return fmt.Sprintf("Reply %d", index+1)
	}
	return fmt.Sprintf("Message %d", index+1)
}

// Example returns the payload of the first example, the first example
// itself when it has no payload, or else the payload schema.
func Example(msg *normalizer.MessageInfo) any {
	if v, ok := firstExample(msg); ok {
		return v
	}
	if msg.Payload != nil {
		return msg.Payload
	}
	return msg.Schema
}

// Draft returns an editable starting payload: the first example when
// there is one, else a skeleton built from the schema's properties.
func Draft(msg *normalizer.MessageInfo) any {
	if v, ok := firstExample(msg); ok {
		return v
	}
	return Skeleton(schemaOf(msg))
}

// Skeleton builds a placeholder object from schema's properties. Strings,
// numbers and booleans take their default or zero value, arrays hold one
// placeholder of their items, and objects recurse.
func Skeleton(schema any) map[string]any {
	out := map[string]any{}
	m, _ := record(schema)
	props, ok := record(m["properties"])
	if !ok {
		return out
	}
	for name, def := range props {
		out[name] = placeholder(def, 0)
	}
	return out
}

// maxSkeletonDepth bounds recursion for schemas that contain themselves
// after expansion.
const maxSkeletonDepth = 32

func placeholder(schema any, depth int) any {
	m, ok := record(schema)
	if !ok || depth > maxSkeletonDepth {
		return nil
	}
	switch m["type"] {
	case "string":
		return defaultOr(m, "")
	case "number", "integer":
		return defaultOr(m, 0)
	case "boolean":
		return defaultOr(m, false)
	case "array":
		items := m["items"]
		if list, ok := items.([]any); ok {
			if len(list) == 0 {
				return []any{}
			}
			items = list[0]
		}
		if items == nil {
			return []any{}
		}
		return []any{placeholder(items, depth+1)}
	}
	if props, ok := record(m["properties"]); ok || m["type"] == "object" {
		out := map[string]any{}
		for name, def := range props {
			out[name] = placeholder(def, depth+1)
		}
		return out
	}
	return nil
}

// Parameters lists the payload's properties. When the payload wraps its
// content in a params, result or data object, that object's properties
// are listed instead.
func Parameters(msg *normalizer.MessageInfo) []Parameter {
	schema, ok := record(schemaOf(msg))
	if !ok {
		return nil
	}
	props, ok := record(schema["properties"])
	if !ok {
		return nil
	}
	for _, key := range []string{"params", "result", "data"} {
		candidate, ok := record(props[key])
		if !ok {
			continue
		}
		if inner, ok := record(candidate["properties"]); ok {
			schema, props = candidate, inner
			break
		}
	}

	required := map[string]bool{}
	if list, ok := schema["required"].([]any); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := maputil.SortedKeys(props)

	params := make([]Parameter, 0, len(names))
	for _, name := range names {
		def, _ := record(props[name])
		desc, _ := def["description"].(string)
		params = append(params, Parameter{
			Name:        name,
			Type:        schemaType(def),
			Required:    required[name],
			Description: desc,
		})
	}
	return params
}

// ServerOptions lists the servers of doc that have a URL.
func ServerOptions(doc *normalizer.ProcessedDocument) []ServerOption {
	if doc == nil {
		return nil
	}
	var out []ServerOption
	for _, s := range doc.Servers {
		if s.URL == "" {
			continue
		}
		out = append(out, ServerOption{
			Name: firstNonEmpty(s.Name, s.URL, s.Protocol, "Server"),
			URL:  s.URL,
		})
	}
	return out
}

// FindOperation returns the first operation of doc whose operationId or
// id equals operationID. With an empty operationID it returns the first
// operation on channel, restricted to direction when that is set.
func FindOperation(doc *normalizer.ProcessedDocument, operationID, channel, direction string) *normalizer.OperationInfo {
	if doc == nil {
		return nil
	}
	direction = strings.ToLower(strings.TrimSpace(direction))
	for _, op := range doc.Operations {
		if operationID != "" {
			if op.OperationID == operationID || op.ID == operationID {
				return op
			}
			continue
		}
		if op.Channel != channel {
			continue
		}
		if direction == "" || string(op.Direction) == direction {
			return op
		}
	}
	return nil
}

func schemaType(def map[string]any) string {
	if def == nil {
		return ""
	}
	switch t := def["type"].(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, " | ")
	}
	if enum, ok := def["enum"].([]any); ok {
		return fmt.Sprintf("enum(%d)", len(enum))
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		alts, ok := def[key].([]any)
		if !ok {
			continue
		}
		parts := make([]string, 0, len(alts))
		for _, alt := range alts {
			m, _ := record(alt)
			t := schemaType(m)
			if t == "" {
				t = "unknown"
			}
			parts = append(parts, t)
		}
		return strings.Join(parts, " | ")
	}
	return ""
}

// firstExample is the first example's payload, or the first example when
// it carries no payload.
func firstExample(msg *normalizer.MessageInfo) (any, bool) {
	if len(msg.Examples) == 0 {
		return nil, false
	}
	sample := msg.Examples[0]
	if m, ok := record(sample); ok {
		if payload, ok := m["payload"]; ok && payload != nil {
			return payload, true
		}
	}
	return sample, true
}

// schemaOf prefers the expanded schema, which has no $ref left to follow.
func schemaOf(msg *normalizer.MessageInfo) any {
	if _, ok := record(msg.Schema); ok {
		return msg.Schema
	}
	return msg.Payload
}

func defaultOr(m map[string]any, zero any) any {
	if v, ok := m["default"]; ok {
		return v
	}
	return zero
}

func record(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
