package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/parser"
)

var (
	// ErrURLRequired is returned by Connect for an empty URL.
	ErrURLRequired = errors.New("WebSocket URL is required")
	// ErrNotConnected is returned by Send without an open connection.
	ErrNotConnected = errors.New("Connect to a server before sending messages")
	// ErrEmptyPayload is returned by Send for blank data.
	ErrEmptyPayload = errors.New("Payload cannot be empty")
)

// connectFailed is the state error after a failed dial.
const connectFailed = "Failed to connect to server"

// Direction says whether a message was sent or received.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Message is one frame seen by the client. Data is the JSON-decoded text
// when it parses, else the text itself; binary frames carry their bytes.
type Message struct {
	Data      any       `json:"data"`
	Raw       string    `json:"raw,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
}

// State is the connection state reported to OnStateChange callbacks.
type State struct {
	Connected bool   `json:"connected"`
	URL       string `json:"url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Option configures a Client.
type Option func(*config) error

type config struct {
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	logger           parser.Logger
}

// DefaultHandshakeTimeout bounds the opening handshake.
const DefaultHandshakeTimeout = 45 * time.Second

// DefaultWriteTimeout bounds a single Send.
const DefaultWriteTimeout = 10 * time.Second

// WithHandshakeTimeout sets the opening handshake timeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("wsclient: handshake timeout must be positive")
		}
		c.handshakeTimeout = d
		return nil
	}
}

// WithWriteTimeout sets the deadline applied to each Send.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("wsclient: write timeout must be positive")
		}
		c.writeTimeout = d
		return nil
	}
}

// WithLogger sets a structured logger for connection events.
func WithLogger(l parser.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// Client is a single-connection WebSocket client. It is safe for
// concurrent use. Callbacks run on the goroutine that caused the event
// and must not block.
type Client struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	state     State
	onMessage func(Message)
	onState   func(State)

	writeMu      sync.Mutex
	dialer       *websocket.Dialer
	writeTimeout time.Duration
	logger       parser.Logger
}

// New creates a disconnected Client.
func New(opts ...Option) (*Client, error) {
	cfg := &config{
		handshakeTimeout: DefaultHandshakeTimeout,
		writeTimeout:     DefaultWriteTimeout,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &Client{
		dialer:       &websocket.Dialer{HandshakeTimeout: cfg.handshakeTimeout},
		writeTimeout: cfg.writeTimeout,
		logger:       parser.LoggerOrNop(cfg.logger),
	}, nil
}

// OnMessage sets the message callback, replacing any previous one.
func (c *Client) OnMessage(fn func(Message)) {
	c.mu.Lock()
	c.onMessage = fn
	c.mu.Unlock()
}

// OnStateChange sets the state callback and calls it once with the
// current state.
func (c *Client) OnStateChange(fn func(State)) {
	c.mu.Lock()
	c.onState = fn
	state := c.state
	c.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect closes any open connection and dials rawURL. Failures are
// recorded in the state error as well as returned.
func (c *Client) Connect(ctx context.Context, rawURL string, protocols ...string) error {
	if strings.TrimSpace(rawURL) == "" {
		c.update(func(s *State) { s.Error = ErrURLRequired.Error() })
		return ErrURLRequired
	}

	c.Disconnect()
	c.update(func(s *State) {
		s.Connected = false
		s.URL = rawURL
		s.Error = ""
	})

	dialer := *c.dialer
	dialer.Subprotocols = protocols
	conn, _, err := dialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		c.logger.Debug("websocket dial failed", "url", rawURL, "error", err)
		c.update(func(s *State) { s.Error = connectFailed })
		return fmt.Errorf("wsclient: %s: %w", connectFailed, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Debug("websocket connected", "url", rawURL)
	c.update(func(s *State) {
		s.Connected = true
		s.Error = ""
	})

	go c.readLoop(conn)
	return nil
}

// Disconnect closes the connection, if any, and reports disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = conn.Close()
	}
	c.update(func(s *State) { s.Connected = false })
}

// Send writes data as a text frame and echoes it to the message callback.
func (c *Client) Send(data string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.update(func(s *State) { s.Error = ErrNotConnected.Error() })
		return ErrNotConnected
	}
	if strings.TrimSpace(data) == "" {
		c.update(func(s *State) { s.Error = ErrEmptyPayload.Error() })
		return ErrEmptyPayload
	}

	c.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	err := conn.WriteMessage(websocket.TextMessage, []byte(data))
	c.writeMu.Unlock()
	if err != nil {
		c.update(func(s *State) { s.Error = err.Error() })
		return fmt.Errorf("wsclient: send: %w", err)
	}

	c.emit(Message{Data: decode(data), Timestamp: time.Now(), Direction: DirectionOut})
	c.update(func(s *State) { s.Error = "" })
	return nil
}

// readLoop delivers frames until conn fails. A loop whose connection has
// been replaced exits without touching the state.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			current := c.conn == conn
			if current {
				c.conn = nil
			}
			c.mu.Unlock()
			if current {
				c.logger.Debug("websocket closed", "error", err)
				_ = conn.Close()
				c.update(func(s *State) { s.Connected = false })
			}
			return
		}

		msg := Message{Timestamp: time.Now(), Direction: DirectionIn}
		if kind == websocket.TextMessage {
			msg.Raw = string(data)
			msg.Data = decode(msg.Raw)
		} else {
			msg.Data = data
		}
		c.emit(msg)
	}
}

func (c *Client) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	state, cb := c.state, c.onState
	c.mu.Unlock()
	if cb != nil {
		cb(state)
	}
}

func (c *Client) emit(m Message) {
	c.mu.Lock()
	cb := c.onMessage
	c.mu.Unlock()
	if cb != nil {
		cb(m)
	}
}

// decode returns the JSON value of s, or s when it is not JSON.
func decode(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// WebSocketURL returns the URL a browser-style client would dial for
// server. ws and wss URLs are used as is; http and https map to ws and
// wss. A URL without a scheme takes the server protocol when that is a
// WebSocket protocol.
func WebSocketURL(server normalizer.ServerInfo) (string, bool) {
	raw := strings.TrimSpace(server.URL)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		switch p := strings.ToLower(server.Protocol); p {
		case "ws", "wss":
			raw = p + "://" + raw
		default:
			return "", false
		}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", false
	}
	return u.String(), true
}
