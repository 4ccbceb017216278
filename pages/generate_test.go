package pages

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/asyncdocs/internal/testutil"
	"github.com/erraggy/asyncdocs/normalizer"
)

type staticProvider map[string]*normalizer.ProcessedDocument

func (p staticProvider) Schemas(context.Context) (map[string]*normalizer.ProcessedDocument, error) {
	return p, nil
}

func frontmatterOf(t *testing.T, content []byte) map[string]any {
	t.Helper()
	parts := strings.SplitN(string(content), "---\n", 3)
	require.Len(t, parts, 3)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &out))
	return out
}

func TestGenerateFiles(t *testing.T) {
	schemas := map[string]*normalizer.ProcessedDocument{
		"chat.yaml": process(t, testutil.ChatV2),
	}
	files, err := GenerateFiles(schemas, GenerateOptions{
		Options:   Options{Per: ModeOperation},
		Imports:   []string{"import { AsyncAPIPage } from '@/components/asyncapi'"},
		RootIndex: true,
	})
	require.NoError(t, err)
	require.Len(t, files, 3)

	pub := files[0]
	assert.Equal(t, "chat/room-roomid-room-roomid-publish.mdx", pub.Path)
	content := string(pub.Content)
	assert.Contains(t, content, GeneratedComment)
	assert.Contains(t, content, "import { AsyncAPIPage } from '@/components/asyncapi'")
	assert.Contains(t, content, `<AsyncAPIPage document={"chat.yaml"} channel={"room/{roomId}"} direction={"publish"}`)
	assert.Contains(t, content, `tags={["chat"]} />`)

	fm := frontmatterOf(t, pub.Content)
	assert.Equal(t, "Publish: room/{roomId}", fm["title"])
	meta, ok := fm[MetaKey].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "publish", meta["direction"])

	index := files[2]
	assert.Equal(t, IndexPath, index.Path)
	assert.Contains(t, string(index.Content), "- [Publish: room/{roomId}](./chat/room-roomid-room-roomid-publish)")
}

func TestGenerateFilesUniqueAcrossDocuments(t *testing.T) {
	schemas := map[string]*normalizer.ProcessedDocument{
		"a/orders.yaml": process(t, testutil.OrdersV2),
		"b/orders.yaml": process(t, testutil.OrdersV2),
	}
	files, err := GenerateFiles(schemas, GenerateOptions{Component: "Page", SkipGeneratedComment: true})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "orders/orders-created.mdx", files[0].Path)
	assert.Equal(t, "orders/orders-created-1.mdx", files[1].Path)
	assert.NotContains(t, string(files[0].Content), GeneratedComment)
	assert.Contains(t, string(files[0].Content), `<Page document={"a/orders.yaml"} channel={"orders.created"} />`)
}

func TestWriteFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "docs")
	files := []File{
		{Path: "orders/orders-created.mdx", Content: []byte("a")},
		{Path: IndexPath, Content: []byte("b")},
	}
	require.NoError(t, WriteFiles(out, files))

	data, err := os.ReadFile(filepath.Join(out, "orders", "orders-created.mdx"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	err = WriteFiles(out, []File{{Path: "../escape.mdx", Content: []byte("x")}})
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	provider := staticProvider{
		"https://chat.example.com/asyncapi.yaml": process(t, testutil.ChatV2),
		"orders.yaml":                            process(t, testutil.OrdersV2),
	}
	files, err := Source(context.Background(), provider, SourceOptions{
		Options: Options{Per: ModeTag},
		BaseDir: "/docs/events/",
	})
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		assert.Equal(t, "page", f.Type)
		assert.Empty(t, f.Data.AsyncAPI.Channel)
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		"docs/events/chat-example-com/chat",
		"docs/events/chat-example-com/events",
	}, paths)
}

func TestSourceSuffixesCollisions(t *testing.T) {
	const twins = `asyncapi: 3.0.0
info:
  title: Twins
  version: 1.0.0
channels:
  user.created:
    address: users/created
  user_created:
    address: users/created/v2
`
	files, err := SourceFrom(map[string]*normalizer.ProcessedDocument{
		"twins.yaml": process(t, twins),
	}, SourceOptions{Options: Options{
		Name: func(ctx Context) string { return ctx.Channel.Address },
	}})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "twins/user-created", files[0].Path)
	assert.Equal(t, "users/created", files[0].Data.Title)
	assert.Equal(t, "twins/user-created-1", files[1].Path)
}
