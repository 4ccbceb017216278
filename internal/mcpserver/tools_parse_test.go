package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/internal/testutil"
)

func TestHandleParse_Summary(t *testing.T) {
	withConfig(t, nil)

	result, output, err := handleParse(context.Background(), nil, parseInput{
		Spec: specInput{Content: testutil.ChatV2},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "2.6.0", output.Version)
	assert.Equal(t, "Chat", output.Title)
	assert.Equal(t, "1.0.0", output.APIVersion)
	assert.Equal(t, "Chat rooms.", output.Description)
	assert.Equal(t, "yaml", output.Format)
	assert.Equal(t, 1, output.ChannelCount)
	assert.Equal(t, 2, output.OperationCount)
	assert.Equal(t, 1, output.ServerCount)
	assert.Equal(t, []string{"room/{roomId}"}, output.Channels)
	assert.Equal(t, []string{"chat", "events"}, output.Tags)
	require.Len(t, output.Servers, 1)
	assert.Equal(t, "public", output.Servers[0].Name)
	assert.Equal(t, "wss://chat.example.com/socket", output.Servers[0].URL)
	assert.Empty(t, output.FullDocument)
}

func TestHandleParse_Full(t *testing.T) {
	withConfig(t, nil)

	_, output, err := handleParse(context.Background(), nil, parseInput{
		Spec: specInput{Content: testutil.StreetlightsV3},
		Full: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, output.FullDocument)

	var full map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.FullDocument), &full))
	assert.Len(t, full["channels"], 3)
	assert.Len(t, full["operations"], 4)
}

func TestHandleParse_ReportsCacheHit(t *testing.T) {
	withConfig(t, nil)
	input := parseInput{Spec: specInput{Content: testutil.OrdersV2}}

	_, first, err := handleParse(context.Background(), nil, input)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	_, second, err := handleParse(context.Background(), nil, input)
	require.NoError(t, err)
	assert.True(t, second.Cached)
}

func TestHandleParse_InvalidDocument(t *testing.T) {
	withConfig(t, nil)

	result, _, err := handleParse(context.Background(), nil, parseInput{
		Spec: specInput{Content: "asyncapi: 9.0.0\n"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
