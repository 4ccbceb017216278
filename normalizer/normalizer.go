package normalizer

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erraggy/asyncdocs/parser"
)

// DefaultMemoSize is the number of processed documents kept per Normalizer.
const DefaultMemoSize = 256

// Normalizer converts parsed documents and memoizes the results by
// Document handle. It is safe for concurrent use.
type Normalizer struct {
	logger parser.Logger
	memo   *lru.Cache[string, *ProcessedDocument]
}

// Option configures a Normalizer.
type Option func(*config) error

type config struct {
	memoSize int
	logger   parser.Logger
}

// WithMemoSize bounds how many processed documents are remembered.
// Default: DefaultMemoSize
func WithMemoSize(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("normalizer: memo size must be positive, got %d", n)
		}
		c.memoSize = n
		return nil
	}
}

// WithLogger sets a structured logger.
func WithLogger(l parser.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// New creates a Normalizer.
func New(opts ...Option) (*Normalizer, error) {
	cfg := &config{memoSize: DefaultMemoSize}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	memo, err := lru.New[string, *ProcessedDocument](cfg.memoSize)
	if err != nil {
		return nil, fmt.Errorf("normalizer: %w", err)
	}
	return &Normalizer{logger: parser.LoggerOrNop(cfg.logger), memo: memo}, nil
}

var defaultNormalizer, _ = New()

// Normalize converts doc using a package-level Normalizer.
func Normalize(doc *parser.Document) *ProcessedDocument {
	return defaultNormalizer.Normalize(doc)
}

// Normalize converts doc. Calls with the same Document return the same
// *ProcessedDocument while it stays in the memo. A nil doc yields nil.
func (n *Normalizer) Normalize(doc *parser.Document) *ProcessedDocument {
	if doc == nil {
		return nil
	}
	if cached, ok := n.memo.Get(doc.Handle()); ok {
		n.logger.Debug("normalize memo hit", "handle", doc.Handle())
		return cached
	}

	processed := n.process(doc)
	if prev, found, _ := n.memo.PeekOrAdd(doc.Handle(), processed); found {
		return prev
	}
	return processed
}

// state holds the in-progress channel map for one document.
type state struct {
	n          *Normalizer
	channels   []*ChannelInfo
	channelMap map[string]*ChannelInfo
	operations []*OperationInfo
}

func (n *Normalizer) process(doc *parser.Document) *ProcessedDocument {
	st := &state{n: n, channelMap: make(map[string]*ChannelInfo)}
	seen := make(map[string]bool)

	for _, ch := range doc.Channels() {
		info := st.channel(ch)
		for _, op := range ch.Operations() {
			if p := op.Pointer(); p != "" {
				seen[p] = true
			}
			st.attach(info, op)
		}
	}

	for _, op := range doc.Operations() {
		if seen[op.Pointer()] {
			continue
		}
		opChannels := op.Channels()
		if len(opChannels) == 0 {
			st.attach(st.fallbackChannel(op), op)
			continue
		}
		for _, ch := range opChannels {
			st.attach(st.channel(ch), op)
		}
	}

	servers := make([]ServerInfo, 0, len(doc.Servers()))
	for _, s := range doc.Servers() {
		servers = append(servers, ServerInfo{
			Name:        s.Name(),
			URL:         s.URL(),
			Protocol:    s.Protocol(),
			Description: s.Description(),
			Bindings:    s.Bindings(),
		})
	}

	processed := &ProcessedDocument{
		Document:   doc,
		Channels:   st.channels,
		Operations: st.operations,
		Servers:    servers,
	}
	if c := doc.Components(); !c.IsEmpty() {
		processed.Components = c.Raw()
	}

	n.logger.Debug("normalized document",
		"handle", doc.Handle(),
		"channels", len(processed.Channels),
		"operations", len(processed.Operations))
	return processed
}

// channelName is the first non-empty of id, address and pointer.
func channelName(ch *parser.Channel) string {
	return firstNonEmpty(ch.ID(), ch.Address(), ch.Pointer())
}

// channel returns the ChannelInfo for ch, creating it on first sight.
func (st *state) channel(ch *parser.Channel) *ChannelInfo {
	name := channelName(ch)
	if existing, ok := st.channelMap[name]; ok {
		return existing
	}
	info := &ChannelInfo{
		Name:        name,
		Address:     ch.Address(),
		Description: ch.Description(),
		Tags:        uniqueTags(ch.Tags()),
		Operations:  []*OperationInfo{},
	}
	st.channelMap[name] = info
	st.channels = append(st.channels, info)
	return info
}

// fallbackName names the channel of an operation that has none.
func fallbackName(operationID, id string, known int) string {
	if name := firstNonEmpty(operationID, id); name != "" {
		return name
	}
	return fmt.Sprintf("operation-%d", known+1)
}

func (st *state) fallbackChannel(op *parser.Operation) *ChannelInfo {
	name := fallbackName(op.OperationID(), op.ID(), len(st.channelMap))
	if existing, ok := st.channelMap[name]; ok {
		return existing
	}
	info := &ChannelInfo{
		Name:        name,
		Description: firstNonEmpty(op.Summary(), op.Description()),
		Operations:  []*OperationInfo{},
	}
	st.channelMap[name] = info
	st.channels = append(st.channels, info)
	st.n.logger.Debug("operation has no channel", "operation", op.ID(), "fallback", name)
	return info
}

func (st *state) attach(ch *ChannelInfo, op *parser.Operation) {
	info := st.operation(op, ch.Name)
	ch.Operations = append(ch.Operations, info)
	st.operations = append(st.operations, info)
}

func (st *state) operation(op *parser.Operation, channel string) *OperationInfo {
	info := &OperationInfo{
		Channel:     channel,
		Direction:   st.direction(op),
		ID:          op.ID(),
		OperationID: op.OperationID(),
		Summary:     firstNonEmpty(op.Summary(), op.OperationID(), op.ID()),
		Description: op.Description(),
		Messages:    st.messages(op.Messages()),
		Bindings:    op.Bindings(),
		Tags:        uniqueTags(op.Tags()),
		Reply:       st.reply(op.Reply()),
	}
	if servers := op.Servers(); len(servers) > 0 {
		info.Servers = append([]string(nil), servers...)
	}
	return info
}

// direction maps an action onto publish or subscribe. Anything that is not
// a known receive action is treated as publish.
func (st *state) direction(op *parser.Operation) Direction {
	switch op.Action() {
	case "receive", "subscribe":
		return DirectionSubscribe
	case "send", "publish":
		return DirectionPublish
	default:
		st.n.logger.Warn("unknown operation action, defaulting to publish",
			"operation", op.ID(), "action", op.Action())
		return DirectionPublish
	}
}

func (st *state) messages(msgs []*parser.Message) []MessageInfo {
	out := make([]MessageInfo, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, st.message(m))
	}
	return out
}

func (st *state) message(m *parser.Message) MessageInfo {
	info := MessageInfo{
		Name:        m.Name(),
		Title:       m.Title(),
		Description: firstNonEmpty(m.Description(), m.Summary()),
		Examples:    m.Examples(),
		Bindings:    m.Bindings(),
	}
	if schema := m.Payload(); schema != nil {
		info.Payload = schema.Raw()
		info.Schema = st.safeSchema(schema)
		if len(info.Examples) == 0 {
			info.Examples = schema.Examples()
		}
	}
	return info
}

// safeSchema expands schema, substituting its title or "Schema" when the
// expansion fails.
func (st *state) safeSchema(schema *parser.Schema) any {
	expanded, err := schema.Expand()
	if err == nil {
		return expanded
	}
	st.n.logger.Debug("schema not expandable, using placeholder",
		"pointer", schema.Pointer(), "error", err)
	if title := schema.Title(); title != "" {
		return title
	}
	return "Schema"
}

func (st *state) reply(r *parser.Reply) *OperationReplyInfo {
	if r == nil {
		return nil
	}
	info := &OperationReplyInfo{
		Messages: st.messages(r.Messages()),
		Bindings: r.Bindings(),
	}
	if ch := r.Channel(); ch != nil {
		info.Channel = &ReplyChannelInfo{
			ID:          ch.ID(),
			Name:        channelName(ch),
			Description: ch.Description(),
			Address:     ch.Address(),
			Bindings:    ch.Bindings(),
		}
	}
	if a := r.Address(); a != nil {
		info.Address = &ReplyAddressInfo{Location: a.Location, Description: a.Description}
	}
	if info.Channel == nil && info.Address == nil && len(info.Messages) == 0 && len(info.Bindings) == 0 {
		return nil
	}
	return info
}

func uniqueTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
