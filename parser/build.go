package parser

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erraggy/asyncdocs/internal/pathutil"
)

// builder turns a decoded tree into a Document graph. Channels and
// messages are interned by JSON pointer so that every reference to the
// same definition yields the same value.
type builder struct {
	p           *Parser
	root        map[string]any
	order       keyOrder
	diags       []Diagnostic
	channels    map[string]*Channel
	messages    map[string]*Message
	serverNames []string
}

func newBuilder(p *Parser, root map[string]any, order keyOrder) *builder {
	return &builder{
		p:        p,
		root:     root,
		order:    order,
		channels: make(map[string]*Channel),
		messages: make(map[string]*Message),
	}
}

func (b *builder) addDiag(sev Severity, code, msg, at string) {
	b.diags = append(b.diags, Diagnostic{
		Code:     code,
		Message:  msg,
		Path:     pathutil.Split(at),
		Severity: sev,
	})
}

// build assembles the Document for the given version.
func (b *builder) build(version, sourceName string) *Document {
	b.checkRefs(b.root, "", 0)

	info := obj(b.root, "info")
	doc := &Document{
		handle:     uuid.NewString(),
		version:    version,
		sourceName: sourceName,
		info: Info{
			Title:       str(info, "title"),
			Version:     str(info, "version"),
			Description: str(info, "description"),
		},
		components: &Components{raw: obj(b.root, "components")},
		raw:        b.root,
	}

	for _, section := range []string{"channels", "operations", "servers", "components"} {
		if v, ok := b.root[section]; ok && v != nil {
			if _, isMap := v.(map[string]any); !isMap {
				b.addDiag(SeverityError, CodeInvalidSection,
					fmt.Sprintf("%s must be an object, got %T", section, v), "/"+section)
			}
		}
	}

	doc.servers = b.buildServers()
	if doc.IsV2() {
		b.buildV2(doc)
	} else {
		b.buildV3(doc)
	}
	return doc
}

// checkRefs reports every local $ref in the tree that does not resolve,
// and every external $ref, which is never followed.
func (b *builder) checkRefs(v any, at string, depth int) {
	if depth > maxNodeDepth {
		return
	}
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok {
			if !pathutil.IsLocal(ref) {
				b.addDiag(SeverityWarning, CodeExternalRef,
					fmt.Sprintf("external reference %q is not followed", ref), at)
			} else if _, err := pathutil.ResolveDeep(b.root, ref); err != nil {
				b.addDiag(SeverityError, CodeUnresolvedRef,
					fmt.Sprintf("reference %q could not be resolved", ref), at)
			}
		}
		for k, child := range t {
			b.checkRefs(child, at+"/"+pathutil.Escape(k), depth+1)
		}
	case []any:
		for i, child := range t {
			b.checkRefs(child, fmt.Sprintf("%s/%d", at, i), depth+1)
		}
	}
}

// canonical turns "#/a/b" into the escaped pointer "/a/b".
func canonical(ref string) string {
	return pathutil.Pointer(pathutil.Split(ref)...)
}

// lastToken returns the final unescaped token of a pointer or reference.
func lastToken(ptr string) string {
	tokens := pathutil.Split(ptr)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// localRef returns the local $ref of v, if v is a reference object.
func localRef(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	ref, ok := m["$ref"].(string)
	if !ok || !pathutil.IsLocal(ref) {
		return "", false
	}
	return ref, true
}

// deref follows $ref chains starting at v, located at pointer at. It
// returns the target object and the pointer where it lives.
func (b *builder) deref(v any, at string) (map[string]any, string, bool) {
	seen := map[string]bool{}
	for {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, "", false
		}
		ref, isRef := m["$ref"].(string)
		if !isRef {
			return m, at, true
		}
		if !pathutil.IsLocal(ref) {
			return nil, "", false
		}
		if seen[ref] {
			b.addDiag(SeverityError, CodeUnresolvedRef,
				fmt.Sprintf("reference %q never reaches a definition", ref), at)
			return nil, "", false
		}
		seen[ref] = true
		target, err := pathutil.ResolveDeep(b.root, ref)
		if err != nil {
			return nil, "", false
		}
		v = target
		at = canonical(ref)
	}
}

// derefMap is deref for optional objects such as bindings.
func (b *builder) derefMap(v any, at string) map[string]any {
	if v == nil {
		return nil
	}
	m, _, ok := b.deref(v, at)
	if !ok || len(m) == 0 {
		return nil
	}
	return m
}

// withTraits returns m with its traits merged in. Keys m already defines win.
func (b *builder) withTraits(m map[string]any, at string) map[string]any {
	traits := list(m, "traits")
	if !b.p.ApplyTraits || len(traits) == 0 {
		return m
	}
	merged := make(map[string]any, len(m))
	for k, v := range m {
		if k != "traits" {
			merged[k] = v
		}
	}
	for i, t := range traits {
		tm, _, ok := b.deref(t, fmt.Sprintf("%s/traits/%d", at, i))
		if !ok {
			continue
		}
		for k, v := range tm {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}
	b.p.log().Debug("applied traits", "pointer", at, "traits", len(traits))
	return merged
}

func (b *builder) tags(m map[string]any, at string) []string {
	var out []string
	for i, t := range list(m, "tags") {
		tm, _, ok := b.deref(t, fmt.Sprintf("%s/tags/%d", at, i))
		if !ok {
			continue
		}
		if name := strings.TrimSpace(str(tm, "name")); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// serverRefs reads a channel's servers list: names in 2.x, references in 3.x.
func (b *builder) serverRefs(items []any) []string {
	var out []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if ref, ok := localRef(v); ok {
				// anything outside #/servers stays as written so lint flags it
				if name, ok := pathutil.RefName(ref, pathutil.RefPrefixServers); ok {
					out = append(out, name)
				} else {
					out = append(out, ref)
				}
			}
		}
	}
	return out
}

func (b *builder) buildServers() []*Server {
	servers := obj(b.root, "servers")
	var out []*Server
	for _, name := range b.order.keys("/servers", servers) {
		at := pathutil.Pointer("servers", name)
		m, target, ok := b.deref(servers[name], at)
		if !ok {
			continue
		}
		s := &Server{
			name:            name,
			url:             str(m, "url"),
			protocol:        str(m, "protocol"),
			protocolVersion: str(m, "protocolVersion"),
			description:     str(m, "description"),
			bindings:        b.derefMap(m["bindings"], target+"/bindings"),
		}
		if s.url == "" {
			s.url = serverURL(s.protocol, str(m, "host"), str(m, "pathname"))
		}
		b.serverNames = append(b.serverNames, name)
		out = append(out, s)
	}
	return out
}

// serverURL assembles a 3.x server URL from its parts.
func serverURL(protocol, host, pathname string) string {
	if host == "" {
		return ""
	}
	if protocol == "" || strings.Contains(host, "://") {
		return host + pathname
	}
	return protocol + "://" + host + pathname
}

// message interns the message at v. key is used as the id when the
// message declares no messageId.
func (b *builder) message(v any, at, key string) *Message {
	if ref, ok := localRef(v); ok {
		if msg, ok := b.messages[canonical(ref)]; ok {
			b.messages[at] = msg
			return msg
		}
		if key == "" {
			key = lastToken(ref)
		}
	}
	m, target, ok := b.deref(v, at)
	if !ok {
		return nil
	}
	if msg, ok := b.messages[target]; ok {
		b.messages[at] = msg
		return msg
	}
	m = b.withTraits(m, target)

	id := str(m, "messageId")
	if id == "" {
		id = key
	}
	msg := &Message{
		id:          id,
		name:        str(m, "name"),
		title:       str(m, "title"),
		summary:     str(m, "summary"),
		description: str(m, "description"),
		pointer:     target,
		examples:    list(m, "examples"),
		bindings:    b.derefMap(m["bindings"], target+"/bindings"),
	}
	if p, ok := m["payload"]; ok && p != nil {
		msg.payload = b.schema(p, target+"/payload")
	}
	b.messages[target] = msg
	b.messages[at] = msg
	return msg
}

// messageRef resolves an entry of an operation or reply messages list.
func (b *builder) messageRef(v any, at string) *Message {
	if ref, ok := localRef(v); ok {
		if msg, ok := b.messages[canonical(ref)]; ok {
			return msg
		}
	}
	return b.message(v, at, "")
}

// schema follows pure $ref aliases and multi-format wrappers down to the
// schema object. An alias chain that loops stops at the repeated
// reference, whose Expand then reports the cycle.
func (b *builder) schema(v any, at string) *Schema {
	seen := map[string]bool{}
	for {
		if ref, ok := localRef(v); ok {
			if seen[ref] {
				b.p.log().Debug("circular schema alias", "pointer", at, "ref", ref)
				return &Schema{raw: v, pointer: at, root: b.root}
			}
			seen[ref] = true
			target, err := pathutil.ResolveDeep(b.root, ref)
			if err != nil {
				return nil
			}
			v, at = target, canonical(ref)
			continue
		}
		// multi-format schema object
		if m, ok := v.(map[string]any); ok {
			if inner, ok := m["schema"]; ok {
				if _, hasFormat := m["schemaFormat"]; hasFormat {
					v, at = inner, at+"/schema"
					continue
				}
			}
		}
		return &Schema{raw: v, pointer: at, root: b.root}
	}
}

// operationServers returns the servers of the given channels, or every
// server when none of them restricts the list.
func (b *builder) operationServers(channels []*Channel) []string {
	seen := map[string]bool{}
	var out []string
	for _, ch := range channels {
		for _, s := range ch.servers {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		out = append(out, b.serverNames...)
	}
	return out
}

func (b *builder) buildV3(doc *Document) {
	chans := obj(b.root, "channels")
	for _, key := range b.order.keys("/channels", chans) {
		at := pathutil.Pointer("channels", key)
		m, target, ok := b.deref(chans[key], at)
		if !ok {
			continue
		}
		ch := b.channelV3(key, m, at, target)
		b.channels[at] = ch
		b.channels[target] = ch
		doc.channels = append(doc.channels, ch)
	}

	ops := obj(b.root, "operations")
	for _, key := range b.order.keys("/operations", ops) {
		at := pathutil.Pointer("operations", key)
		m, target, ok := b.deref(ops[key], at)
		if !ok {
			continue
		}
		m = b.withTraits(m, target)

		op := &Operation{
			id:          key,
			operationID: key,
			action:      str(m, "action"),
			summary:     str(m, "summary"),
			description: str(m, "description"),
			pointer:     at,
			tags:        b.tags(m, target),
			bindings:    b.derefMap(m["bindings"], target+"/bindings"),
		}
		if ch := b.channelRef(m["channel"], target+"/channel"); ch != nil {
			op.channels = []*Channel{ch}
			ch.operations = append(ch.operations, op)
		}
		for i, item := range list(m, "messages") {
			if msg := b.messageRef(item, fmt.Sprintf("%s/messages/%d", target, i)); msg != nil {
				op.messages = append(op.messages, msg)
			}
		}
		if len(op.messages) == 0 && len(op.channels) > 0 {
			op.messages = append(op.messages, op.channels[0].messages...)
		}
		op.servers = b.operationServers(op.channels)
		if r, ok := m["reply"]; ok && r != nil {
			op.reply = b.reply(r, target+"/reply")
		}
		doc.operations = append(doc.operations, op)
	}
}

func (b *builder) channelV3(id string, m map[string]any, at, target string) *Channel {
	ch := &Channel{
		id:          id,
		address:     str(m, "address"),
		description: str(m, "description"),
		pointer:     at,
		tags:        b.tags(m, target),
		bindings:    b.derefMap(m["bindings"], target+"/bindings"),
		servers:     b.serverRefs(list(m, "servers")),
	}
	msgs := obj(m, "messages")
	for _, key := range b.order.keys(target+"/messages", msgs) {
		if msg := b.message(msgs[key], target+"/messages/"+pathutil.Escape(key), key); msg != nil {
			ch.messages = append(ch.messages, msg)
			if at != target {
				b.messages[at+"/messages/"+pathutil.Escape(key)] = msg
			}
		}
	}
	return ch
}

// channelRef resolves an operation's or reply's channel. Channels that are
// not declared under the root channels object are built on demand and
// interned, but never added to Document.Channels.
func (b *builder) channelRef(v any, at string) *Channel {
	if v == nil {
		return nil
	}
	id := ""
	if ref, ok := localRef(v); ok {
		if ch, ok := b.channels[canonical(ref)]; ok {
			return ch
		}
		if name, ok := pathutil.RefName(ref, pathutil.RefPrefixChannels, pathutil.RefPrefixComponentChannels); ok {
			id = name
		} else {
			id = lastToken(ref)
		}
	}
	m, target, ok := b.deref(v, at)
	if !ok {
		return nil
	}
	if ch, ok := b.channels[target]; ok {
		return ch
	}
	ch := b.channelV3(id, m, target, target)
	b.channels[target] = ch
	b.p.log().Debug("channel outside root channels", "pointer", target)
	return ch
}

func (b *builder) reply(v any, at string) *Reply {
	m, target, ok := b.deref(v, at)
	if !ok {
		return nil
	}
	r := &Reply{
		channel:  b.channelRef(m["channel"], target+"/channel"),
		bindings: b.derefMap(m["bindings"], target+"/bindings"),
	}
	if a, ok := m["address"]; ok && a != nil {
		if am, _, ok := b.deref(a, target+"/address"); ok {
			r.address = &ReplyAddress{
				Location:    str(am, "location"),
				Description: str(am, "description"),
			}
		}
	}
	for i, item := range list(m, "messages") {
		if msg := b.messageRef(item, fmt.Sprintf("%s/messages/%d", target, i)); msg != nil {
			r.messages = append(r.messages, msg)
		}
	}
	return r
}

func (b *builder) buildV2(doc *Document) {
	chans := obj(b.root, "channels")
	for _, address := range b.order.keys("/channels", chans) {
		at := pathutil.Pointer("channels", address)
		m, target, ok := b.deref(chans[address], at)
		if !ok {
			continue
		}
		ch := &Channel{
			id:          address,
			address:     address,
			description: str(m, "description"),
			pointer:     at,
			bindings:    b.derefMap(m["bindings"], target+"/bindings"),
			servers:     b.serverRefs(list(m, "servers")),
		}
		b.channels[at] = ch
		doc.channels = append(doc.channels, ch)

		seenMsg := map[*Message]bool{}
		for _, action := range b.order.keys(target, m) {
			if action != "publish" && action != "subscribe" {
				continue
			}
			op := b.operationV2(ch, action, m[action], at+"/"+pathutil.Escape(action))
			if op == nil {
				continue
			}
			for _, msg := range op.messages {
				if !seenMsg[msg] {
					seenMsg[msg] = true
					ch.messages = append(ch.messages, msg)
				}
			}
			ch.operations = append(ch.operations, op)
			doc.operations = append(doc.operations, op)
		}
	}
}

func (b *builder) operationV2(ch *Channel, action string, v any, at string) *Operation {
	m, target, ok := b.deref(v, at)
	if !ok {
		return nil
	}
	m = b.withTraits(m, target)

	opID := str(m, "operationId")
	id := opID
	if id == "" {
		id = ch.address + "_" + action
	}
	op := &Operation{
		id:          id,
		operationID: opID,
		action:      action,
		summary:     str(m, "summary"),
		description: str(m, "description"),
		pointer:     at,
		tags:        b.tags(m, target),
		bindings:    b.derefMap(m["bindings"], target+"/bindings"),
		channels:    []*Channel{ch},
	}
	op.messages = b.messagesV2(m["message"], target+"/message")
	op.servers = b.operationServers(op.channels)
	return op
}

// messagesV2 reads a 2.x operation message, which may be a oneOf list.
func (b *builder) messagesV2(v any, at string) []*Message {
	if v == nil {
		return nil
	}
	m, target, ok := b.deref(v, at)
	if !ok {
		return nil
	}
	if variants, ok := m["oneOf"].([]any); ok {
		var out []*Message
		for i, item := range variants {
			if msg := b.message(item, fmt.Sprintf("%s/oneOf/%d", target, i), ""); msg != nil {
				out = append(out, msg)
			}
		}
		return out
	}
	if msg := b.message(v, at, ""); msg != nil {
		return []*Message{msg}
	}
	return nil
}
