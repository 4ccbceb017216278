package mcpserver

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	ops := []string{"sendMessage", "receiveMessage", "turnOn", "turnOff", "dimLight"}

	tests := []struct {
		name   string
		items  []string
		offset int
		limit  int
		want   []string
	}{
		{name: "default limit", items: ops, want: ops},
		{name: "negative limit uses default", items: ops, limit: -1, want: ops},
		{name: "limit", items: ops, limit: 2, want: []string{"sendMessage", "receiveMessage"}},
		{name: "offset", items: ops, offset: 3, want: []string{"turnOff", "dimLight"}},
		{name: "offset and limit", items: ops, offset: 1, limit: 2, want: []string{"receiveMessage", "turnOn"}},
		{name: "limit past end", items: ops, offset: 4, limit: 10, want: []string{"dimLight"}},
		{name: "offset past end", items: ops, offset: 5, limit: 1},
		{name: "negative offset", items: ops, offset: -1, limit: 1},
		{name: "nil", limit: 1},
		{name: "overflowing limit", items: ops, offset: 2, limit: math.MaxInt, want: []string{"turnOn", "turnOff", "dimLight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_Caps(t *testing.T) {
	items := make([]int, maxLimit+500)
	assert.Len(t, paginate(items, 0, 0), defaultLimit)
	assert.Len(t, paginate(items, 0, len(items)), maxLimit)
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{
			name: "absolute path",
			err:  fmt.Errorf("load /home/ada/specs/chat.yaml: no such file"),
			want: "load <path>: no such file",
		},
		{
			name: "file URL",
			err:  errors.New("unsupported locator file:///srv/docs/orders.yaml"),
			want: "unsupported locator file://<path>",
		},
		{
			name: "several paths",
			err:  errors.New("/tmp/a.yaml and /tmp/b.yaml share a fingerprint"),
			want: "<path> and <path> share a fingerprint",
		},
		{
			name: "no path",
			err:  errors.New(`channel "room/{roomId}" has no operations`),
			want: `channel "room/{roomId}" has no operations`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	result := errResult(fmt.Errorf("read /root/specs/chat.yaml: denied"))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "read <path>: denied", text.Text)
}
