package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestFixturesAreValidYAML(t *testing.T) {
	fixtures := map[string]string{
		"OrdersV2":       OrdersV2,
		"ChatV2":         ChatV2,
		"StreetlightsV3": StreetlightsV3,
		"CyclicV3":       CyclicV3,
		"OrphansV3":      OrphansV3,
		"BrokenRefV3":    BrokenRefV3,
	}
	for name, src := range fixtures {
		t.Run(name, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
			assert.Contains(t, doc, "asyncapi")
			assert.True(t, strings.HasPrefix(src, "asyncapi:"))
		})
	}
}

func TestWriteTempYAML(t *testing.T) {
	path := WriteTempYAML(t, map[string]any{"asyncapi": "3.0.0"})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "asyncapi: 3.0.0")
}

func TestWriteTempJSON(t *testing.T) {
	path := WriteTempJSON(t, map[string]any{"asyncapi": "3.0.0"})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"asyncapi": "3.0.0"`)
}
