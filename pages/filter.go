package pages

import (
	"slices"
	"strings"

	"github.com/erraggy/asyncdocs/internal/naming"
	"github.com/erraggy/asyncdocs/normalizer"
)

// Filter narrows the operations shown on a page. Empty fields match
// everything; values within one field are alternatives.
type Filter struct {
	Channels   []string
	Directions []string
	Operations []string
	Tags       []string
}

// ChannelBlock is a channel with the operations that passed a Filter.
type ChannelBlock struct {
	Channel    *normalizer.ChannelInfo
	Operations []*normalizer.OperationInfo
}

// FilterOperations returns a block per channel with at least one matching
// operation, in document order.
func FilterOperations(doc *normalizer.ProcessedDocument, f Filter) []ChannelBlock {
	if doc == nil {
		return nil
	}
	channels := normalizeFilter(f.Channels)
	directions := normalizeFilter(f.Directions)
	operations := normalizeFilter(f.Operations)
	tags := normalizeFilter(f.Tags)

	var blocks []ChannelBlock
	for _, ch := range doc.Channels {
		var ops []*normalizer.OperationInfo
		for _, op := range ch.Operations {
			switch {
			case len(channels) > 0 && !matchesIdentifier(channels, ch.Name):
			case len(directions) > 0 && !slices.Contains(directions, string(op.Direction)):
			case len(operations) > 0 && !matchesIdentifier(operations, op.OperationID, op.ID, op.Summary):
			case len(tags) > 0 && !matchesTags(tags, ch, op):
			default:
				ops = append(ops, op)
			}
		}
		if len(ops) > 0 {
			blocks = append(blocks, ChannelBlock{Channel: ch, Operations: ops})
		}
	}
	return blocks
}

// normalizeFilter trims and lower-cases values, dropping blanks.
func normalizeFilter(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// matchesIdentifier reports whether a filter equals an identifier or its
// slug, compared in lower case.
func matchesIdentifier(filters []string, identifiers ...string) bool {
	for _, id := range identifiers {
		if id == "" {
			continue
		}
		lower := strings.ToLower(id)
		slug := naming.Slug(id)
		for _, f := range filters {
			if f == lower || f == slug {
				return true
			}
		}
	}
	return false
}

func matchesTags(filters []string, ch *normalizer.ChannelInfo, op *normalizer.OperationInfo) bool {
	for _, tag := range append(append([]string{}, ch.Tags...), op.Tags...) {
		if slices.Contains(filters, strings.ToLower(strings.TrimSpace(tag))) {
			return true
		}
	}
	return false
}
