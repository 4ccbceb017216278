package preview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/internal/testutil"
	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/parser"
)

func process(t *testing.T, src string) *normalizer.ProcessedDocument {
	t.Helper()
	result, err := parser.New().Parse(context.Background(), []byte(src), "test.yaml")
	require.NoError(t, err)
	doc, err := parser.Check(result, "test.yaml")
	require.NoError(t, err)
	return normalizer.Normalize(doc)
}

func TestExample(t *testing.T) {
	t.Run("payload of first example", func(t *testing.T) {
		msg := &normalizer.MessageInfo{Examples: []any{
			map[string]any{"name": "a", "payload": map[string]any{"id": 1}},
			map[string]any{"payload": map[string]any{"id": 2}},
		}}
		assert.Equal(t, map[string]any{"id": 1}, Example(msg))
	})

	t.Run("example without payload", func(t *testing.T) {
		msg := &normalizer.MessageInfo{Examples: []any{"raw"}}
		assert.Equal(t, "raw", Example(msg))
	})

	t.Run("falls back to payload schema", func(t *testing.T) {
		payload := map[string]any{"type": "object"}
		msg := &normalizer.MessageInfo{Payload: payload}
		assert.Equal(t, payload, Example(msg))
	})
}

func TestDraftSkeleton(t *testing.T) {
	msg := &normalizer.MessageInfo{Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":    map[string]any{"type": "string"},
			"mode":    map[string]any{"type": "string", "default": "fast"},
			"count":   map[string]any{"type": "integer"},
			"ratio":   map[string]any{"type": "number", "default": 0.5},
			"enabled": map[string]any{"type": "boolean"},
			"tags":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"empty":   map[string]any{"type": "array"},
			"meta": map[string]any{
				"type":       "object",
				"properties": map[string]any{"source": map[string]any{"type": "string"}},
			},
			"anything": map[string]any{},
		},
	}}

	assert.Equal(t, map[string]any{
		"name":     "",
		"mode":     "fast",
		"count":    0,
		"ratio":    0.5,
		"enabled":  false,
		"tags":     []any{""},
		"empty":    []any{},
		"meta":     map[string]any{"source": ""},
		"anything": nil,
	}, Draft(msg))
}

func TestDraftPrefersExample(t *testing.T) {
	msg := &normalizer.MessageInfo{
		Examples: []any{map[string]any{"payload": map[string]any{"ok": true}}},
		Schema:   map[string]any{"properties": map[string]any{"ok": map[string]any{"type": "boolean"}}},
	}
	assert.Equal(t, map[string]any{"ok": true}, Draft(msg))
	assert.Equal(t, map[string]any{}, Draft(&normalizer.MessageInfo{}))
}

func TestParameters(t *testing.T) {
	t.Run("top level", func(t *testing.T) {
		doc := process(t, testutil.ChatV2)
		params := Parameters(&doc.Operations[0].Messages[0])
		require.Len(t, params, 2)
		assert.Equal(t, Parameter{Name: "mentions", Type: "array"}, params[0])
		assert.Equal(t, Parameter{Name: "text", Type: "string", Required: true, Description: "Message body"}, params[1])
	})

	t.Run("nested params object", func(t *testing.T) {
		msg := &normalizer.MessageInfo{Payload: map[string]any{
			"properties": map[string]any{
				"jsonrpc": map[string]any{"type": "string"},
				"params": map[string]any{
					"required": []any{"id"},
					"properties": map[string]any{
						"id":    map[string]any{"type": []any{"string", "integer"}},
						"level": map[string]any{"enum": []any{"a", "b"}},
						"value": map[string]any{"oneOf": []any{map[string]any{"type": "string"}, map[string]any{}}},
					},
				},
			},
		}}
		params := Parameters(msg)
		require.Len(t, params, 3)
		assert.Equal(t, Parameter{Name: "id", Type: "string | integer", Required: true}, params[0])
		assert.Equal(t, "enum(2)", params[1].Type)
		assert.Equal(t, "string | unknown", params[2].Type)
	})

	t.Run("no schema", func(t *testing.T) {
		assert.Nil(t, Parameters(&normalizer.MessageInfo{Schema: "Schema"}))
	})
}

func TestTabs(t *testing.T) {
	doc := process(t, testutil.StreetlightsV3)
	var turnOn *normalizer.OperationInfo
	for _, op := range doc.Operations {
		if op.ID == "turnOn" {
			turnOn = op
		}
	}
	require.NotNil(t, turnOn)

	tabs := Tabs(turnOn)
	require.Len(t, tabs, 2)
	assert.Equal(t, "message-turnOn", tabs[0].Key)
	assert.Equal(t, "turnOn", tabs[0].Label)
	assert.Equal(t, map[string]any{"command": "on"}, tabs[0].Draft)
	assert.Equal(t, KindReply, tabs[1].Kind)
	assert.Equal(t, "reply-ack", tabs[1].Key)
	assert.Nil(t, tabs[1].Draft)

	assert.Nil(t, Tabs(nil))
}

func TestTabLabel(t *testing.T) {
	assert.Equal(t, "Title", TabLabel(&normalizer.MessageInfo{Title: "Title", Name: "name"}, KindMessage, 0))
	assert.Equal(t, "name", TabLabel(&normalizer.MessageInfo{Name: "name"}, KindMessage, 0))
	assert.Equal(t, "Message 2", TabLabel(&normalizer.MessageInfo{}, KindMessage, 1))
	assert.Equal(t, "Reply 1", TabLabel(&normalizer.MessageInfo{}, KindReply, 0))
}

func TestServerOptions(t *testing.T) {
	doc := process(t, testutil.StreetlightsV3)
	assert.Equal(t, []ServerOption{
		{Name: "production", URL: "wss://api.streetlights.io/ws"},
		{Name: "staging", URL: "ws://staging.streetlights.io"},
	}, ServerOptions(doc))

	assert.Nil(t, ServerOptions(nil))
	assert.Nil(t, ServerOptions(&normalizer.ProcessedDocument{Servers: []normalizer.ServerInfo{{Name: "x"}}}))
}

func TestFindOperation(t *testing.T) {
	doc := process(t, testutil.ChatV2)

	pub := FindOperation(doc, "", "room/{roomId}", "")
	require.NotNil(t, pub)
	assert.Equal(t, normalizer.DirectionPublish, pub.Direction)

	sub := FindOperation(doc, "", "room/{roomId}", " Subscribe ")
	require.NotNil(t, sub)
	assert.Equal(t, normalizer.DirectionSubscribe, sub.Direction)

	byID := FindOperation(doc, "room/{roomId}_subscribe", "", "")
	assert.Same(t, sub, byID)

	assert.Nil(t, FindOperation(doc, "missing", "room/{roomId}", ""))
	assert.Nil(t, FindOperation(doc, "", "lobby", ""))
	assert.Nil(t, FindOperation(nil, "x", "", ""))
}
