package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/internal/envconfig"
	"github.com/erraggy/asyncdocs/internal/testutil"
	"github.com/erraggy/asyncdocs/pages"
)

func pagePaths(output pagesOutput) []string {
	paths := make([]string, 0, len(output.Pages))
	for _, p := range output.Pages {
		paths = append(paths, p.Path)
	}
	return paths
}

func TestHandlePages_ChannelMode(t *testing.T) {
	withConfig(t, nil)
	path := testutil.WriteTempFile(t, "chat.yaml", testutil.ChatV2)

	result, output, err := handlePages(context.Background(), nil, pagesInput{Spec: specInput{File: path}})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "channel", output.Per)
	assert.Equal(t, "none", output.GroupBy)
	assert.Equal(t, []string{"chat/room-roomid"}, pagePaths(output))
	assert.Equal(t, "room/{roomId}", output.Pages[0].Title)
	assert.Equal(t, "room/{roomId}", output.Pages[0].Channel)
}

func TestHandlePages_OperationMode(t *testing.T) {
	withConfig(t, nil)

	_, output, err := handlePages(context.Background(), nil, pagesInput{
		Spec: specInput{Content: testutil.ChatV2},
		Per:  "operation",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"inline-asyncapi/room-roomid-room-roomid-publish",
		"inline-asyncapi/room-roomid-room-roomid-subscribe",
	}, pagePaths(output))
	assert.Equal(t, "publish", output.Pages[0].Direction)
	assert.Equal(t, "Publish: room/{roomId}", output.Pages[0].Title)
}

func TestHandlePages_ConfiguredDefaults(t *testing.T) {
	withConfig(t, func(c *envconfig.Config) {
		c.PageMode = pages.ModeOperation
		c.GroupBy = pages.GroupByTag
	})

	_, output, err := handlePages(context.Background(), nil, pagesInput{Spec: specInput{Content: testutil.ChatV2}})
	require.NoError(t, err)
	assert.Equal(t, "operation", output.Per)
	assert.Equal(t, "tag", output.GroupBy)
	assert.Equal(t, []string{
		"inline-asyncapi/chat/room-roomid-room-roomid-publish",
		"inline-asyncapi/chat/room-roomid-room-roomid-subscribe",
	}, pagePaths(output))
}

func TestHandlePages_InvalidMode(t *testing.T) {
	withConfig(t, nil)

	result, _, err := handlePages(context.Background(), nil, pagesInput{
		Spec: specInput{Content: testutil.ChatV2},
		Per:  "message",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
