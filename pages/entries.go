package pages

import (
	"net/url"
	"strings"

	"github.com/erraggy/asyncdocs/internal/naming"
	"github.com/erraggy/asyncdocs/normalizer"
)

// MetaKey is the frontmatter key holding the entry's Meta.
const MetaKey = "_asyncapi"

// DefaultSlug replaces slugs that would otherwise be empty.
const DefaultSlug = "asyncapi"

// Meta is the reserved frontmatter block linking a page to its source.
// Channel is empty for tag entries.
type Meta struct {
	Document    string               `json:"document" yaml:"document"`
	Channel     string               `json:"channel,omitempty" yaml:"channel,omitempty"`
	Direction   normalizer.Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
	OperationID string               `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Entry is one documentation page.
type Entry struct {
	Document    *normalizer.ProcessedDocument
	Channel     *normalizer.ChannelInfo
	Operation   *normalizer.OperationInfo
	DocumentKey string
	Title       string
	Description string
	// Frontmatter holds title, description, full, the Meta under MetaKey,
	// and any keys added by Options.Frontmatter.
	Frontmatter  map[string]any
	Meta         *Meta
	Slug         string
	GroupSlug    string
	Tags         []string
	PathSegments []string
}

// BuildEntries builds the page entries of one document. The result is
// deterministic for the same inputs; path collisions are left to PathSet.
func BuildEntries(documentKey string, doc *normalizer.ProcessedDocument, opts Options) ([]*Entry, error) {
	mode, err := ParseMode(string(opts.Per))
	if err != nil {
		return nil, err
	}
	group, err := ParseGroupBy(string(opts.GroupBy))
	if err != nil {
		return nil, err
	}
	opts.Per, opts.GroupBy = mode, group
	if doc == nil {
		return nil, nil
	}

	b := &entryBuilder{
		key:     documentKey,
		doc:     doc,
		opts:    opts,
		docSlug: Slugify(DocumentName(documentKey)),
	}
	if mode == ModeTag {
		return b.tagEntries(), nil
	}

	var entries []*Entry
	for _, ch := range doc.Channels {
		if mode == ModeChannel {
			entries = append(entries, b.entry(ch, nil))
			continue
		}
		for _, op := range ch.Operations {
			entries = append(entries, b.entry(ch, op))
		}
	}
	return entries, nil
}

type entryBuilder struct {
	key     string
	doc     *normalizer.ProcessedDocument
	opts    Options
	docSlug string
}

func (b *entryBuilder) entry(ch *normalizer.ChannelInfo, op *normalizer.OperationInfo) *Entry {
	ctx := Context{Document: b.doc, Channel: ch, Operation: op}

	title := defaultTitle(ch, op)
	if b.opts.Name != nil {
		title = b.opts.Name(ctx)
	}
	var description string
	if b.opts.Description != nil {
		description = b.opts.Description(ctx)
	} else {
		description = ch.Description
		if op != nil {
			description = firstNonEmpty(op.Summary, ch.Description, op.Description)
		}
	}

	var opTags []string
	if op != nil {
		opTags = op.Tags
	}
	tags := dedupe(append(append([]string{}, ch.Tags...), opTags...))

	meta := &Meta{Document: b.key, Channel: ch.Name, Tags: tags}
	if op != nil {
		meta.Direction = op.Direction
		meta.OperationID = firstNonEmpty(op.OperationID, op.ID)
	}

	frontmatter := map[string]any{
		"title": title,
		"full":  true,
		MetaKey: meta,
	}
	if description != "" {
		frontmatter["description"] = description
	}
	if b.opts.Frontmatter != nil {
		for k, v := range b.opts.Frontmatter(ctx) {
			frontmatter[k] = v
		}
	}

	slug := entrySlug(ch, op)
	group := groupSlug(ch, op, b.opts.GroupBy)
	return &Entry{
		Document:     b.doc,
		Channel:      ch,
		Operation:    op,
		DocumentKey:  b.key,
		Title:        title,
		Description:  description,
		Frontmatter:  frontmatter,
		Meta:         meta,
		Slug:         slug,
		GroupSlug:    group,
		Tags:         tags,
		PathSegments: pathSegments(b.docSlug, group, slug),
	}
}

// tagEntries builds one entry per distinct trimmed operation tag, in order
// of first appearance. Each is built from a placeholder channel that is
// then detached from the entry.
func (b *entryBuilder) tagEntries() []*Entry {
	var order []string
	seen := make(map[string]bool)
	for _, ch := range b.doc.Channels {
		for _, op := range ch.Operations {
			for _, tag := range op.Tags {
				tag = strings.TrimSpace(tag)
				if tag == "" || seen[tag] {
					continue
				}
				seen[tag] = true
				order = append(order, tag)
			}
		}
	}

	entries := make([]*Entry, 0, len(order))
	for _, tag := range order {
		placeholder := &normalizer.ChannelInfo{
			Name:        tag,
			Description: `Operations tagged "` + tag + `"`,
			Tags:        []string{tag},
		}
		e := b.entry(placeholder, nil)
		e.Channel = nil
		e.Tags = []string{tag}
		e.Meta.Channel = ""
		e.Meta.Tags = e.Tags
		entries = append(entries, e)
	}
	return entries
}

func defaultTitle(ch *normalizer.ChannelInfo, op *normalizer.OperationInfo) string {
	if op != nil && op.Direction == normalizer.DirectionPublish {
		return "Publish: " + ch.Name
	}
	return ch.Name
}

// entrySlug adds an operation hint to the channel name so that two
// operations on one channel get distinct slugs.
func entrySlug(ch *normalizer.ChannelInfo, op *normalizer.OperationInfo) string {
	if op == nil {
		return Slugify(ch.Name)
	}
	hint := firstNonEmpty(op.OperationID, op.ID, string(op.Direction), "operation")
	return Slugify(ch.Name + "-" + hint)
}

func groupSlug(ch *normalizer.ChannelInfo, op *normalizer.OperationInfo, groupBy GroupBy) string {
	switch groupBy {
	case GroupByServer:
		if op != nil && len(op.Servers) > 0 {
			return Slugify(op.Servers[0])
		}
	case GroupByTag:
		if op != nil && len(op.Tags) > 0 {
			return Slugify(op.Tags[0])
		}
		if len(ch.Tags) > 0 {
			return Slugify(ch.Tags[0])
		}
	}
	return ""
}

func pathSegments(docSlug, group, slug string) []string {
	segments := []string{docSlug}
	if group != "" {
		segments = append(segments, group)
	}
	if slug == "" {
		slug = DefaultSlug
	}
	return append(segments, slug)
}

// Slugify returns the slug of s, or DefaultSlug when s has no letters or
// digits.
func Slugify(s string) string {
	if slug := naming.Slug(s); slug != "" {
		return slug
	}
	return DefaultSlug
}

// DocumentName derives a display name from a document key: the host of a
// URL key, else the last path segment without its extension.
func DocumentName(key string) string {
	if u, err := url.Parse(key); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Hostname()
	}
	normalized := strings.ReplaceAll(key, `\`, "/")
	last := normalized[strings.LastIndex(normalized, "/")+1:]
	if dot := strings.LastIndex(last, "."); dot > 0 {
		return last[:dot]
	}
	if last == "" {
		return DefaultSlug
	}
	return last
}

func dedupe(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
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
