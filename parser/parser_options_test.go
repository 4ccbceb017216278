package parser

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/asyncerrors"
	"github.com/erraggy/asyncdocs/internal/testutil"
)

func TestParseWithOptions_InputSources(t *testing.T) {
	t.Run("bytes with source name", func(t *testing.T) {
		result, err := ParseWithOptions(
			WithBytes([]byte(testutil.OrdersV2)),
			WithSourceName("orders.yaml"),
		)
		require.NoError(t, err)
		assert.Equal(t, "orders.yaml", result.SourceName)
		assert.Equal(t, "orders.yaml", result.Document.SourceName())
		assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	})

	t.Run("reader", func(t *testing.T) {
		result, err := ParseWithOptions(WithReader(bytes.NewReader([]byte(testutil.ChatV2))))
		require.NoError(t, err)
		assert.Equal(t, "ParseReader", result.SourceName)
		assert.Equal(t, "2.6.0", result.Version)
	})

	t.Run("file path", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "streetlights.yaml", testutil.StreetlightsV3)
		result, err := ParseWithOptions(WithFilePath(path))
		require.NoError(t, err)
		assert.Equal(t, path, result.SourceName)
		assert.Len(t, result.Document.Operations(), 4)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseWithOptions(WithFilePath("does-not-exist.yaml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, asyncerrors.ErrLoad))
	})
}

func TestParseWithOptions_Validation(t *testing.T) {
	_, err := ParseWithOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify an input source")
	assert.True(t, errors.Is(err, asyncerrors.ErrConfig))

	_, err = ParseWithOptions(WithBytes([]byte("a")), WithFilePath("b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one input source")

	_, err = ParseWithOptions(WithReader(nil))
	require.Error(t, err)

	_, err = ParseWithOptions(WithBytes(nil))
	require.Error(t, err)

	//nolint:staticcheck // nil context is the case under test
	_, err = ParseWithOptions(WithBytes([]byte("a")), WithContext(nil))
	require.Error(t, err)
}

func TestParseWithOptions_Config(t *testing.T) {
	result, err := ParseWithOptions(
		WithBytes([]byte(testutil.StreetlightsV3)),
		WithApplyTraits(false),
		WithRuleset(Ruleset{Recommended: true}),
		WithLogger(NopLogger{}),
		WithContext(context.Background()),
	)
	require.NoError(t, err)
	assert.Empty(t, result.Document.Operations()[1].Summary())
	assert.NotEmpty(t, result.Diagnostics)
	assert.False(t, result.HasErrors())
}
