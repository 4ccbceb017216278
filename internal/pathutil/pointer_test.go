package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	tests := []struct {
		raw     string
		escaped string
	}{
		{"orders", "orders"},
		{"orders/created", "orders~1created"},
		{"a~b", "a~0b"},
		{"~/", "~0~1"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.escaped, Escape(tt.raw))
			assert.Equal(t, tt.raw, Unescape(tt.escaped))
		})
	}
}

func TestPointerAndSplit(t *testing.T) {
	ptr := Pointer("channels", "user/signedup", "messages")
	assert.Equal(t, "/channels/user~1signedup/messages", ptr)
	assert.Equal(t, []string{"channels", "user/signedup", "messages"}, Split("#"+ptr))
	assert.Nil(t, Split("#"))
	assert.Empty(t, Pointer())
	assert.Equal(t, "channels.user/signedup", Dotted([]string{"channels", "user/signedup"}))
}

func TestRefName(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		prefixes []string
		want     string
		wantOK   bool
	}{
		{"server", "#/servers/production", []string{RefPrefixServers}, "production", true},
		{"escaped channel", "#/channels/orders~1created", []string{RefPrefixChannels}, "orders/created", true},
		{"second prefix", "#/components/channels/lobby", []string{RefPrefixChannels, RefPrefixComponentChannels}, "lobby", true},
		{"nested", "#/servers/production/variables/port", []string{RefPrefixServers}, "", false},
		{"other section", "#/components/servers/production", []string{RefPrefixServers}, "", false},
		{"empty name", "#/servers/", []string{RefPrefixServers}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RefName(tt.ref, tt.prefixes...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	root := map[string]any{
		"channels": map[string]any{
			"orders/created": map[string]any{"address": "orders.created"},
		},
		"list": []any{"zero", "one"},
	}

	t.Run("map path", func(t *testing.T) {
		node, err := Resolve(root, "#/channels/orders~1created")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"address": "orders.created"}, node)
	})

	t.Run("array index", func(t *testing.T) {
		node, err := Resolve(root, "#/list/1")
		require.NoError(t, err)
		assert.Equal(t, "one", node)
	})

	t.Run("root", func(t *testing.T) {
		node, err := Resolve(root, "#")
		require.NoError(t, err)
		assert.Equal(t, root, node)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := Resolve(root, "#/channels/nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing key: nope")
	})

	t.Run("bad index", func(t *testing.T) {
		_, err := Resolve(root, "#/list/7")
		require.Error(t, err)
	})

	t.Run("external refs unsupported", func(t *testing.T) {
		_, err := Resolve(root, "other.yaml#/channels")
		require.Error(t, err)
	})
}

func TestResolveDeep(t *testing.T) {
	root := map[string]any{
		"channels": map[string]any{
			"orders": map[string]any{"$ref": "#/components/channels/orders"},
			"loop":   map[string]any{"$ref": "#/channels/loop"},
		},
		"components": map[string]any{
			"channels": map[string]any{
				"orders": map[string]any{
					"messages": map[string]any{"created": map[string]any{"name": "OrderCreated"}},
				},
			},
		},
	}

	node, err := ResolveDeep(root, "#/channels/orders/messages/created")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "OrderCreated"}, node)

	_, err = Resolve(root, "#/channels/orders/messages/created")
	require.Error(t, err)

	_, err = ResolveDeep(root, "#/channels/loop/messages")
	require.Error(t, err)
}

func TestSafeJoin(t *testing.T) {
	dir := t.TempDir()

	t.Run("nested new file", func(t *testing.T) {
		p, err := SafeJoin(dir, "orders/orders-created.mdx")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "orders", "orders-created.mdx"), p)
	})

	t.Run("escape rejected", func(t *testing.T) {
		_, err := SafeJoin(dir, "../outside.mdx")
		require.Error(t, err)
	})

	t.Run("symlink rejected", func(t *testing.T) {
		target := filepath.Join(dir, "target.mdx")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
		link := filepath.Join(dir, "link.mdx")
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
		_, err := SafeJoin(dir, "link.mdx")
		require.Error(t, err)
	})
}
