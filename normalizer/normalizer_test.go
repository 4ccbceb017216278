package normalizer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/internal/testutil"
	"github.com/erraggy/asyncdocs/parser"
)

func parse(t *testing.T, src string) *parser.Document {
	t.Helper()
	result, err := parser.New().Parse(context.Background(), []byte(src), "test.yaml")
	require.NoError(t, err)
	doc, err := parser.Check(result, "test.yaml")
	require.NoError(t, err)
	return doc
}

func newNormalizer(t *testing.T, opts ...Option) *Normalizer {
	t.Helper()
	n, err := New(opts...)
	require.NoError(t, err)
	return n
}

func TestNormalizeSingleChannel(t *testing.T) {
	processed := Normalize(parse(t, testutil.OrdersV2))

	require.Len(t, processed.Channels, 1)
	require.Len(t, processed.Operations, 1)
	op := processed.Operations[0]
	assert.Equal(t, DirectionPublish, op.Direction)
	assert.Equal(t, "orders.created", op.Channel)
	assert.Equal(t, "notifyOrder", op.OperationID)
	assert.Equal(t, "notifyOrder", op.Summary)
	assert.Same(t, op, processed.Channels[0].Operations[0])
	assert.Nil(t, processed.Components)
	assert.Empty(t, processed.Servers)
}

func TestNormalizeMemoizesByHandle(t *testing.T) {
	n := newNormalizer(t)
	doc := parse(t, testutil.OrdersV2)

	first := n.Normalize(doc)
	assert.Same(t, first, n.Normalize(doc))
	assert.Same(t, doc, first.Document)

	other := parse(t, testutil.OrdersV2)
	assert.NotSame(t, first, n.Normalize(other))
	assert.Nil(t, n.Normalize(nil))
}

func TestNormalizeMemoIsBounded(t *testing.T) {
	n := newNormalizer(t, WithMemoSize(1))
	a := parse(t, testutil.OrdersV2)
	b := parse(t, testutil.ChatV2)

	first := n.Normalize(a)
	n.Normalize(b)
	assert.NotSame(t, first, n.Normalize(a))
}

func TestNewRejectsBadMemoSize(t *testing.T) {
	_, err := New(WithMemoSize(0))
	assert.Error(t, err)
}

func TestNormalizeStreetlights(t *testing.T) {
	processed := newNormalizer(t).Normalize(parse(t, testutil.StreetlightsV3))

	names := make([]string, 0, len(processed.Channels))
	for _, ch := range processed.Channels {
		names = append(names, ch.Name)
	}
	assert.Equal(t, []string{"lightingMeasured", "lightsControl", "dimming"}, names)

	require.Len(t, processed.Operations, 4)
	byID := map[string]*OperationInfo{}
	for _, op := range processed.Operations {
		_, dup := byID[op.ID]
		assert.False(t, dup, "operation %s listed twice", op.ID)
		byID[op.ID] = op
	}

	receive := byID["receiveLightMeasurement"]
	assert.Equal(t, DirectionSubscribe, receive.Direction)
	assert.Equal(t, "lightingMeasured", receive.Channel)
	assert.Equal(t, []string{"lighting", "telemetry"}, receive.Tags)
	assert.Equal(t, []string{"production"}, receive.Servers)
	assert.Nil(t, receive.Reply)

	require.Len(t, receive.Messages, 1)
	msg := receive.Messages[0]
	assert.Equal(t, "lightMeasured", msg.Name)
	assert.Equal(t, "Environmental lighting conditions.", msg.Description)
	assert.Len(t, msg.Examples, 1)
	schema, ok := msg.Schema.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "LightMeasuredPayload", schema["title"])
	assert.NotNil(t, msg.Payload)

	assert.Equal(t, DirectionPublish, byID["publishLightMeasurement"].Direction)
	assert.Equal(t, "Publish a measurement.", byID["publishLightMeasurement"].Summary)

	dim := byID["dimLight"]
	assert.Equal(t, "dimming", dim.Channel)
	dimming := processed.Channel("dimming")
	require.NotNil(t, dimming)
	assert.Equal(t, "smartylighting/streetlights/{streetlightId}/dim", dimming.Address)
	assert.Same(t, dim, dimming.Operations[0])

	reply := byID["turnOn"].Reply
	require.NotNil(t, reply)
	require.NotNil(t, reply.Channel)
	assert.Equal(t, "lightsControl", reply.Channel.Name)
	assert.Equal(t, "$message.header#/replyTo", reply.Address.Location)
	require.Len(t, reply.Messages, 1)
	assert.Equal(t, "ack", reply.Messages[0].Name)

	require.Len(t, processed.Servers, 2)
	assert.Equal(t, "wss://api.streetlights.io/ws", processed.Servers[0].URL)
	assert.NotNil(t, processed.Server("staging"))
	assert.Nil(t, processed.Server("nope"))
	assert.Contains(t, processed.Components, "schemas")
}

func TestNormalizeFallbackChannels(t *testing.T) {
	var buf bytes.Buffer
	logger := parser.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	processed := newNormalizer(t, WithLogger(logger)).Normalize(parse(t, testutil.OrphansV3))

	require.Len(t, processed.Channels, 2)
	require.Len(t, processed.Operations, 2)

	heartbeat := processed.Channel("heartbeat")
	require.NotNil(t, heartbeat)
	assert.Equal(t, "Periodic heartbeat.", heartbeat.Description)
	assert.Equal(t, "heartbeat", processed.Operations[0].Channel)

	audit := processed.Operations[1]
	assert.Equal(t, "emitAudit", audit.Channel)
	assert.Equal(t, DirectionPublish, audit.Direction)
	assert.NotNil(t, processed.Channel("emitAudit"))
	assert.Contains(t, buf.String(), "unknown operation action")
	assert.Contains(t, buf.String(), "action=emit")
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "notify", fallbackName("notify", "x", 0))
	assert.Equal(t, "x", fallbackName("", "x", 0))
	assert.Equal(t, "operation-3", fallbackName("", "", 2))
}

func TestNormalizeCyclicSchema(t *testing.T) {
	t.Run("titled", func(t *testing.T) {
		processed := newNormalizer(t).Normalize(parse(t, testutil.CyclicV3))
		msg := processed.Operations[0].Messages[0]
		assert.Equal(t, "TreeNode", msg.Schema)
		assert.NotNil(t, msg.Payload)

		// the processed document must still serialize
		_, err := json.Marshal(processed)
		assert.NoError(t, err)
	})

	t.Run("untitled", func(t *testing.T) {
		src := strings.Replace(testutil.CyclicV3, "      title: TreeNode\n", "", 1)
		processed := newNormalizer(t).Normalize(parse(t, src))
		assert.Equal(t, "Schema", processed.Operations[0].Messages[0].Schema)
	})

	t.Run("self alias", func(t *testing.T) {
		src := `asyncapi: 3.0.0
info:
  title: Aliases
  version: 1.0.0
channels:
  events:
    messages:
      event:
        payload:
          $ref: '#/components/schemas/Event'
operations:
  onEvent:
    action: receive
    channel:
      $ref: '#/channels/events'
components:
  schemas:
    Event:
      $ref: '#/components/schemas/Event'
`
		processed := newNormalizer(t).Normalize(parse(t, src))
		require.Len(t, processed.Operations, 1)
		require.Len(t, processed.Operations[0].Messages, 1)
		assert.Equal(t, "Schema", processed.Operations[0].Messages[0].Schema)
	})
}

func TestNormalizeChannelOperationsSeenOnce(t *testing.T) {
	processed := newNormalizer(t).Normalize(parse(t, testutil.ChatV2))
	require.Len(t, processed.Channels, 1)
	require.Len(t, processed.Operations, 2)
	assert.Equal(t, DirectionPublish, processed.Operations[0].Direction)
	assert.Equal(t, DirectionSubscribe, processed.Operations[1].Direction)
	assert.Len(t, processed.Operations[1].Messages, 2)
	assert.Equal(t, []string{"public"}, processed.Operations[0].Servers)
}

const sharedNameV3 = `asyncapi: 3.0.0
info:
  title: Shared
  version: 1.0.0
channels:
  jobs:
    address: jobs
operations:
  enqueue:
    action: send
    channel:
      $ref: '#/channels/jobs'
    tags:
      - name: queue
      - name: queue
      - name: batch
  drain:
    action: receive
    channel:
      $ref: '#/components/channels/jobs'
    reply: {}
components:
  channels:
    jobs:
      address: jobs.internal
`

func TestNormalizeSharesChannelsByName(t *testing.T) {
	processed := newNormalizer(t).Normalize(parse(t, sharedNameV3))

	require.Len(t, processed.Channels, 1)
	jobs := processed.Channels[0]
	assert.Equal(t, "jobs", jobs.Name)
	require.Len(t, jobs.Operations, 2)
	assert.Equal(t, "drain", jobs.Operations[1].ID)

	assert.Equal(t, []string{"queue", "batch"}, processed.Operations[0].Tags)
	assert.Nil(t, processed.Operations[1].Reply)
}
