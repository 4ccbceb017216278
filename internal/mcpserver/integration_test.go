package mcpserver

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/internal/testutil"
)

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := newServer()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	// Run blocks until the connection closes.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Len(t, result.Tools, 4, "expected 4 registered tools")

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	for _, name := range []string{"parse", "operations", "pages", "example"} {
		assert.True(t, slices.Contains(names, name), "missing tool: %s", name)
	}

	for _, tool := range result.Tools {
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
}

func TestIntegration_CallTool_Parse(t *testing.T) {
	withConfig(t, nil)
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "parse",
		Arguments: map[string]any{
			"spec": map[string]any{
				"content": testutil.StreetlightsV3,
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "parse should succeed on a valid document")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "3.0.0", structured["version"])
	assert.Equal(t, "Streetlights API", structured["title"])
	assert.Equal(t, float64(3), structured["channel_count"])
	assert.Equal(t, float64(4), structured["operation_count"])
	assert.Equal(t, float64(2), structured["server_count"])
}

func TestIntegration_CallTool_Operations(t *testing.T) {
	withConfig(t, nil)
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "operations",
		Arguments: map[string]any{
			"spec": map[string]any{
				"content": testutil.StreetlightsV3,
			},
			"tag": []string{"lighting"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "operations should succeed")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, float64(4), structured["total"])
	assert.Equal(t, float64(2), structured["matched"])

	summaries, ok := structured["summaries"].([]any)
	require.True(t, ok, "summaries should be an array")

	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		m, ok := s.(map[string]any)
		require.True(t, ok, "expected summary to be map[string]any, got %T", s)
		id, ok := m["id"].(string)
		require.True(t, ok, "expected id to be string, got %T", m["id"])
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"receiveLightMeasurement", "publishLightMeasurement"}, ids)
}

func TestIntegration_CallTool_Pages(t *testing.T) {
	withConfig(t, nil)
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "pages",
		Arguments: map[string]any{
			"spec": map[string]any{
				"content": testutil.ChatV2,
			},
			"per": "tag",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "pages should succeed")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "tag", structured["per"])
	assert.Equal(t, float64(2), structured["total"])
}

func TestIntegration_CallTool_Example(t *testing.T) {
	withConfig(t, nil)
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "example",
		Arguments: map[string]any{
			"spec": map[string]any{
				"content": testutil.StreetlightsV3,
			},
			"operation_id": "receiveLightMeasurement",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "example should succeed")

	structured := unmarshalStructured(t, result)
	tabs, ok := structured["tabs"].([]any)
	require.True(t, ok, "tabs should be an array")
	require.Len(t, tabs, 1)
	tab, ok := tabs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"id": float64(7), "lumens": float64(3)}, tab["example"])
}

func TestIntegration_CallTool_Error_InvalidSpec(t *testing.T) {
	withConfig(t, nil)
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "parse",
		Arguments: map[string]any{
			"spec": map[string]any{
				"content": "this is not an AsyncAPI document",
			},
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "parse should return IsError for unparseable input")

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "error content should be TextContent")
	assert.NotEmpty(t, text.Text)
}

func TestIntegration_CallTool_Error_MissingSpec(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "parse",
		Arguments: map[string]any{
			"spec": map[string]any{},
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "parse should return IsError when no spec source is provided")
}

// unmarshalStructured extracts the structured output from a CallToolResult.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	// Prefer structured content if available.
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	// Fall back to parsing text content.
	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
