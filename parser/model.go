package parser

// Info holds the document's info object.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Document is a parsed AsyncAPI document graph.
//
// Documents are read-only after parsing. Channels and messages reached
// through several references are shared values.
type Document struct {
	handle     string
	version    string
	sourceName string
	info       Info
	channels   []*Channel
	operations []*Operation
	servers    []*Server
	components *Components
	raw        map[string]any
}

// Handle returns the opaque identity of this document. It is unique per
// parse, even when two parses read identical bytes.
func (d *Document) Handle() string { return d.handle }

// Version returns the declared asyncapi version.
func (d *Document) Version() string { return d.version }

// IsV2 reports whether the document declares an AsyncAPI 2.x version.
func (d *Document) IsV2() bool { return len(d.version) > 1 && d.version[:2] == "2." }

// SourceName returns the name the document was parsed under.
func (d *Document) SourceName() string { return d.sourceName }

// Info returns the info object.
func (d *Document) Info() Info { return d.info }

// Channels returns channels declared under the root channels object, in
// source order.
func (d *Document) Channels() []*Channel { return d.channels }

// Operations returns every operation in the document, in source order.
// For 2.x documents these are the publish and subscribe operations of each
// channel.
func (d *Document) Operations() []*Operation { return d.operations }

// Servers returns the declared servers in source order.
func (d *Document) Servers() []*Server { return d.servers }

// Components returns the components object. It is never nil.
func (d *Document) Components() *Components { return d.components }

// Raw returns the decoded document tree. Callers must not modify it.
func (d *Document) Raw() map[string]any { return d.raw }

// Channel is a communication topic.
type Channel struct {
	id          string
	address     string
	description string
	pointer     string
	tags        []string
	bindings    map[string]any
	servers     []string
	messages    []*Message
	operations  []*Operation
}

// ID returns the channel's key in the document, if it has one.
func (c *Channel) ID() string { return c.id }

// Address returns the channel address. For 2.x documents this is the key.
func (c *Channel) Address() string { return c.address }

// Description returns the channel description.
func (c *Channel) Description() string { return c.description }

// Pointer returns the JSON pointer where the channel is defined.
func (c *Channel) Pointer() string { return c.pointer }

// Tags returns the names of the channel's tags.
func (c *Channel) Tags() []string { return c.tags }

// Bindings returns protocol bindings, or nil.
func (c *Channel) Bindings() map[string]any { return c.bindings }

// Servers returns the names of servers the channel is restricted to.
// An empty result means every server.
func (c *Channel) Servers() []string { return c.servers }

// Messages returns the messages that can flow on the channel.
func (c *Channel) Messages() []*Message { return c.messages }

// Operations returns the operations bound to the channel.
func (c *Channel) Operations() []*Operation { return c.operations }

// Operation is a send or receive action on one or more channels.
type Operation struct {
	id          string
	operationID string
	action      string
	summary     string
	description string
	pointer     string
	tags        []string
	bindings    map[string]any
	channels    []*Channel
	messages    []*Message
	servers     []string
	reply       *Reply
}

// ID returns the operation identifier. 2.x operations without an
// operationId get "<address>_<action>".
func (o *Operation) ID() string { return o.id }

// OperationID returns the declared operationId. For 3.x documents this is
// the operation's key.
func (o *Operation) OperationID() string { return o.operationID }

// Action returns the declared action: send, receive, publish or subscribe.
func (o *Operation) Action() string { return o.action }

// Summary returns the operation summary.
func (o *Operation) Summary() string { return o.summary }

// Description returns the operation description.
func (o *Operation) Description() string { return o.description }

// Pointer returns the JSON pointer where the operation is defined.
func (o *Operation) Pointer() string { return o.pointer }

// Tags returns the names of the operation's tags.
func (o *Operation) Tags() []string { return o.tags }

// Bindings returns protocol bindings, or nil.
func (o *Operation) Bindings() map[string]any { return o.bindings }

// Channels returns the channels the operation is attached to.
func (o *Operation) Channels() []*Channel { return o.channels }

// Messages returns the operation's messages.
func (o *Operation) Messages() []*Message { return o.messages }

// Servers returns the names of servers the operation is available on.
func (o *Operation) Servers() []string { return o.servers }

// Reply returns the reply definition, or nil.
func (o *Operation) Reply() *Reply { return o.reply }

// Message describes a payload flowing on a channel.
type Message struct {
	id          string
	name        string
	title       string
	summary     string
	description string
	pointer     string
	payload     *Schema
	examples    []any
	bindings    map[string]any
}

// ID returns the message's key or messageId.
func (m *Message) ID() string { return m.id }

// Name returns the machine-friendly message name.
func (m *Message) Name() string { return m.name }

// Title returns the human-friendly message title.
func (m *Message) Title() string { return m.title }

// Summary returns the message summary.
func (m *Message) Summary() string { return m.summary }

// Description returns the message description.
func (m *Message) Description() string { return m.description }

// Pointer returns the JSON pointer where the message is defined.
func (m *Message) Pointer() string { return m.pointer }

// Payload returns the payload schema, or nil.
func (m *Message) Payload() *Schema { return m.payload }

// Examples returns the message examples as written.
func (m *Message) Examples() []any { return m.examples }

// Bindings returns protocol bindings, or nil.
func (m *Message) Bindings() map[string]any { return m.bindings }

// ReplyAddress is a runtime expression locating the reply channel.
type ReplyAddress struct {
	Location    string
	Description string
}

// Reply describes the response to a request operation.
type Reply struct {
	channel  *Channel
	address  *ReplyAddress
	messages []*Message
	bindings map[string]any
}

// Channel returns the reply channel, or nil.
func (r *Reply) Channel() *Channel { return r.channel }

// Address returns the reply address, or nil.
func (r *Reply) Address() *ReplyAddress { return r.address }

// Messages returns the reply messages.
func (r *Reply) Messages() []*Message { return r.messages }

// Bindings returns protocol bindings, or nil.
func (r *Reply) Bindings() map[string]any { return r.bindings }

// Server is a broker or endpoint a client can connect to.
type Server struct {
	name            string
	url             string
	protocol        string
	protocolVersion string
	description     string
	bindings        map[string]any
}

// Name returns the server's key.
func (s *Server) Name() string { return s.name }

// URL returns the connection URL. For 3.x documents it is built from
// protocol, host and pathname.
func (s *Server) URL() string { return s.url }

// Protocol returns the protocol, such as ws, mqtt or kafka.
func (s *Server) Protocol() string { return s.protocol }

// ProtocolVersion returns the protocol version, if declared.
func (s *Server) ProtocolVersion() string { return s.protocolVersion }

// Description returns the server description.
func (s *Server) Description() string { return s.description }

// Bindings returns protocol bindings, or nil.
func (s *Server) Bindings() map[string]any { return s.bindings }

// Components wraps the components object.
type Components struct {
	raw map[string]any
}

// IsEmpty reports whether no components are declared.
func (c *Components) IsEmpty() bool { return c == nil || len(c.raw) == 0 }

// Raw returns the decoded components object, or nil.
func (c *Components) Raw() map[string]any {
	if c == nil {
		return nil
	}
	return c.raw
}
