package normalizer

import (
	"github.com/erraggy/asyncdocs/parser"
)

// Direction is the simplified operation direction shown on pages.
type Direction string

const (
	// DirectionPublish covers send and publish actions.
	DirectionPublish Direction = "publish"
	// DirectionSubscribe covers receive and subscribe actions.
	DirectionSubscribe Direction = "subscribe"
)

// ProcessedDocument is the normalized projection of a parsed document.
// Treat it as read-only; the same value is handed to every caller that
// normalizes the same Document.
type ProcessedDocument struct {
	// Document is the originating graph. It is excluded from serialization.
	Document   *parser.Document `json:"-" yaml:"-"`
	Channels   []*ChannelInfo   `json:"channels" yaml:"channels"`
	Operations []*OperationInfo `json:"operations" yaml:"operations"`
	Servers    []ServerInfo     `json:"servers" yaml:"servers"`
	Components map[string]any   `json:"components,omitempty" yaml:"components,omitempty"`
}

// ChannelInfo is a channel and the operations attached to it.
type ChannelInfo struct {
	Name        string           `json:"name" yaml:"name"`
	Address     string           `json:"address,omitempty" yaml:"address,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	Operations  []*OperationInfo `json:"operations" yaml:"operations"`
}

// OperationInfo is one operation as attached to one channel.
type OperationInfo struct {
	Channel     string              `json:"channel" yaml:"channel"`
	Direction   Direction           `json:"direction" yaml:"direction"`
	ID          string              `json:"id,omitempty" yaml:"id,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Messages    []MessageInfo       `json:"messages" yaml:"messages"`
	Bindings    map[string]any      `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Servers     []string            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Reply       *OperationReplyInfo `json:"reply,omitempty" yaml:"reply,omitempty"`
}

// MessageInfo describes a message payload.
type MessageInfo struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Payload is the schema fragment as written, with references intact.
	Payload any `json:"payload,omitempty" yaml:"payload,omitempty"`
	// Schema is the payload with local references expanded. For cyclic
	// schemas it is the schema title, or "Schema".
	Schema   any            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Examples []any          `json:"examples,omitempty" yaml:"examples,omitempty"`
	Bindings map[string]any `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// OperationReplyInfo describes the reply to a request operation.
type OperationReplyInfo struct {
	Channel  *ReplyChannelInfo `json:"channel,omitempty" yaml:"channel,omitempty"`
	Address  *ReplyAddressInfo `json:"address,omitempty" yaml:"address,omitempty"`
	Messages []MessageInfo     `json:"messages" yaml:"messages"`
	Bindings map[string]any    `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// ReplyChannelInfo is the reduced channel carried by a reply.
type ReplyChannelInfo struct {
	ID          string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Address     string         `json:"address,omitempty" yaml:"address,omitempty"`
	Bindings    map[string]any `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// ReplyAddressInfo is a runtime expression for the reply destination.
type ReplyAddressInfo struct {
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ServerInfo is a connection target.
type ServerInfo struct {
	Name        string         `json:"name" yaml:"name"`
	URL         string         `json:"url" yaml:"url"`
	Protocol    string         `json:"protocol" yaml:"protocol"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Bindings    map[string]any `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// Channel returns the channel with the given name, or nil.
func (d *ProcessedDocument) Channel(name string) *ChannelInfo {
	for _, ch := range d.Channels {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

// Server returns the server with the given name, or nil.
func (d *ProcessedDocument) Server(name string) *ServerInfo {
	for i := range d.Servers {
		if d.Servers[i].Name == name {
			return &d.Servers[i]
		}
	}
	return nil
}
