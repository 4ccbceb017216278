package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/internal/testutil"
)

func TestSetupPagesFlags(t *testing.T) {
	fs, flags := SetupPagesFlags()
	require.NoError(t, fs.Parse([]string{"--per", "tag", "--group-by", "server", "--base-dir", "docs", "chat.yaml"}))

	assert.Equal(t, "tag", flags.Per)
	assert.Equal(t, "server", flags.GroupBy)
	assert.Equal(t, "docs", flags.BaseDir)
	assert.Equal(t, FormatText, flags.Format)
}

func TestHandlePages(t *testing.T) {
	path := testutil.WriteTempFile(t, "chat.yaml", testutil.ChatV2)

	assert.NoError(t, HandlePages([]string{"--per", "operation", path}))
	assert.NoError(t, HandlePages([]string{"--format", "yaml", "--base-dir", "/docs/", path}))
	assert.Error(t, HandlePages([]string{"--per", "message", path}))
	assert.Error(t, HandlePages([]string{}))
}

func TestSetupGenerateFlags(t *testing.T) {
	fs, flags := SetupGenerateFlags()
	require.NoError(t, fs.Parse([]string{
		"-o", "out", "--import", "import A from 'a'", "--import", "import B from 'b'",
		"--no-comment", "--index", "chat.yaml",
	}))

	assert.Equal(t, "out", flags.Output)
	assert.Equal(t, stringList{"import A from 'a'", "import B from 'b'"}, flags.Imports)
	assert.True(t, flags.NoComment)
	assert.True(t, flags.Index)
	assert.False(t, flags.DryRun)
	assert.Equal(t, "AsyncAPIPage", flags.Component)
}

func TestHandleGenerate(t *testing.T) {
	path := testutil.WriteTempFile(t, "chat.yaml", testutil.ChatV2)
	out := t.TempDir()

	require.NoError(t, HandleGenerate([]string{"-o", out, "-q", "--per", "operation", "--index", path}))

	for _, name := range []string{
		"index.mdx",
		"chat/room-roomid-room-roomid-publish.mdx",
		"chat/room-roomid-room-roomid-subscribe.mdx",
	} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(name)))
		assert.NoError(t, err, "expected %s", name)
	}

	data, err := os.ReadFile(filepath.Join(out, "chat", "room-roomid-room-roomid-publish.mdx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "full: true")
	assert.Contains(t, string(data), `<AsyncAPIPage document={"`)
}

func TestHandleGenerate_DryRun(t *testing.T) {
	path := testutil.WriteTempFile(t, "chat.yaml", testutil.ChatV2)
	out := filepath.Join(t.TempDir(), "never")

	require.NoError(t, HandleGenerate([]string{"--dry-run", "-o", out, path}))
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestHandleGenerate_RequiresOutput(t *testing.T) {
	path := testutil.WriteTempFile(t, "chat.yaml", testutil.ChatV2)
	assert.Error(t, HandleGenerate([]string{path}))
}
