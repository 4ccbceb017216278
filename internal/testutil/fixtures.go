// Package testutil provides AsyncAPI fixtures and file helpers for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// OrdersV2 is the smallest useful document: one channel, one publish
// operation with an operationId.
const OrdersV2 = `asyncapi: 2.6.0
info:
  title: Orders
  version: 1.0.0
channels:
  orders.created:
    publish:
      operationId: notifyOrder
      message:
        name: OrderCreated
        payload:
          type: object
          properties:
            id:
              type: string
`

// ChatV2 has one channel with both a publish and a subscribe operation,
// no operationIds, tags, a server, and a oneOf message.
const ChatV2 = `asyncapi: '2.6.0'
info:
  title: Chat
  version: '1.0.0'
  description: Chat rooms.
servers:
  public:
    url: wss://chat.example.com/socket
    protocol: wss
    description: Public endpoint
channels:
  room/{roomId}:
    description: A chat room.
    publish:
      summary: Send a chat message.
      tags:
        - name: chat
      message:
        $ref: '#/components/messages/ChatMessage'
    subscribe:
      summary: Receive room events.
      tags:
        - name: chat
        - name: events
      message:
        oneOf:
          - $ref: '#/components/messages/ChatMessage'
          - $ref: '#/components/messages/UserJoined'
components:
  messages:
    ChatMessage:
      name: chatMessage
      title: Chat message
      payload:
        type: object
        required:
          - text
        properties:
          text:
            type: string
            description: Message body
          mentions:
            type: array
            items:
              type: string
    UserJoined:
      name: userJoined
      examples:
        - payload:
            user: ada
      payload:
        type: object
        properties:
          user:
            type: string
`

// StreetlightsV3 exercises the 3.x graph: server restrictions, traits,
// replies, shared component messages, and an operation whose channel
// lives under components.
const StreetlightsV3 = `asyncapi: 3.0.0
info:
  title: Streetlights API
  version: 1.0.0
  description: Turn streetlights on and off.
servers:
  production:
    host: api.streetlights.io
    pathname: /ws
    protocol: wss
    description: Production broker
  staging:
    host: staging.streetlights.io
    protocol: ws
channels:
  lightingMeasured:
    address: smartylighting/streetlights/{streetlightId}/lighting/measured
    description: Lighting measurements from a streetlight.
    servers:
      - $ref: '#/servers/production'
    messages:
      lightMeasured:
        $ref: '#/components/messages/LightMeasured'
  lightsControl:
    address: smartylighting/streetlights/{streetlightId}/command
    messages:
      turnOn:
        $ref: '#/components/messages/TurnOn'
      ack:
        $ref: '#/components/messages/Ack'
operations:
  receiveLightMeasurement:
    action: receive
    channel:
      $ref: '#/channels/lightingMeasured'
    summary: Inform about environmental lighting conditions.
    tags:
      - name: lighting
      - name: telemetry
    messages:
      - $ref: '#/channels/lightingMeasured/messages/lightMeasured'
  publishLightMeasurement:
    action: send
    channel:
      $ref: '#/channels/lightingMeasured'
    tags:
      - name: lighting
    traits:
      - $ref: '#/components/operationTraits/kafka'
  turnOn:
    action: send
    channel:
      $ref: '#/channels/lightsControl'
    summary: Turn a streetlight on.
    messages:
      - $ref: '#/channels/lightsControl/messages/turnOn'
    reply:
      address:
        location: '$message.header#/replyTo'
        description: Reply inbox
      channel:
        $ref: '#/channels/lightsControl'
      messages:
        - $ref: '#/channels/lightsControl/messages/ack'
  dimLight:
    action: send
    channel:
      $ref: '#/components/channels/dimming'
    summary: Dim a streetlight.
components:
  channels:
    dimming:
      address: smartylighting/streetlights/{streetlightId}/dim
      messages:
        dim:
          $ref: '#/components/messages/Dim'
  messages:
    LightMeasured:
      name: lightMeasured
      title: Light measured
      summary: Environmental lighting conditions.
      payload:
        $ref: '#/components/schemas/lightMeasuredPayload'
      examples:
        - name: dusk
          payload:
            id: 7
            lumens: 3
    TurnOn:
      name: turnOn
      payload:
        type: object
        properties:
          command:
            type: string
            default: "on"
    Ack:
      name: ack
      payload:
        type: object
        properties:
          ok:
            type: boolean
    Dim:
      name: dim
      traits:
        - $ref: '#/components/messageTraits/commonHeaders'
      payload:
        type: object
        properties:
          percentage:
            type: integer
            minimum: 0
            maximum: 100
  schemas:
    lightMeasuredPayload:
      type: object
      title: LightMeasuredPayload
      properties:
        id:
          type: integer
          minimum: 0
        lumens:
          type: integer
        sentAt:
          type: string
          format: date-time
  operationTraits:
    kafka:
      summary: Publish a measurement.
      bindings:
        kafka:
          clientId: my-app
  messageTraits:
    commonHeaders:
      description: Carries the common header set.
`

// CyclicV3 has a payload schema that refers to itself through items.
const CyclicV3 = `asyncapi: 3.0.0
info:
  title: Tree
  version: 1.0.0
channels:
  tree:
    address: tree.updated
    messages:
      nodeUpdated:
        payload:
          $ref: '#/components/schemas/Node'
operations:
  publishTree:
    action: send
    channel:
      $ref: '#/channels/tree'
components:
  schemas:
    Node:
      type: object
      title: TreeNode
      properties:
        children:
          type: array
          items:
            $ref: '#/components/schemas/Node'
`

// OrphansV3 declares operations without channels, one with an action
// outside the send/receive vocabulary.
const OrphansV3 = `asyncapi: 3.0.0
info:
  title: Orphans
  version: 1.0.0
operations:
  heartbeat:
    action: send
    summary: Periodic heartbeat.
  emitAudit:
    action: emit
`

// BrokenRefV3 references a message that does not exist.
const BrokenRefV3 = `asyncapi: 3.0.0
info:
  title: Broken
  version: 1.0.0
channels:
  events:
    address: events
    messages:
      missing:
        $ref: '#/components/messages/Missing'
`

// WriteTempFile writes content to name inside a fresh temp dir and
// returns the path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}

// WriteTempYAML marshals doc to YAML and writes it to a temporary file.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteTempFile(t, "asyncapi.yaml", string(data))
}

// WriteTempJSON marshals doc to JSON and writes it to a temporary file.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return WriteTempFile(t, "asyncapi.json", string(data))
}
