package pages

import (
	"strings"

	"github.com/erraggy/asyncdocs/asyncerrors"
	"github.com/erraggy/asyncdocs/normalizer"
)

// Mode selects what each page entry represents.
type Mode string

const (
	// ModeChannel builds one entry per channel. It is the default.
	ModeChannel Mode = "channel"
	// ModeOperation builds one entry per operation of each channel.
	ModeOperation Mode = "operation"
	// ModeTag builds one entry per distinct operation tag.
	ModeTag Mode = "tag"
)

// ParseMode validates s as a Mode. Empty selects ModeChannel.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeChannel, nil
	case ModeChannel, ModeOperation, ModeTag:
		return m, nil
	default:
		return "", &asyncerrors.ConfigError{
			Option:  "per",
			Value:   s,
			Message: `unsupported mode; supported values are "channel", "operation", and "tag"`,
		}
	}
}

// GroupBy selects the optional middle path segment.
type GroupBy string

const (
	// GroupByNone disables grouping.
	GroupByNone GroupBy = "none"
	// GroupByServer groups by the operation's first server.
	GroupByServer GroupBy = "server"
	// GroupByTag groups by the operation's first tag, else the channel's.
	GroupByTag GroupBy = "tag"
)

// ParseGroupBy validates s as a GroupBy. Empty selects GroupByNone.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GroupByNone, nil
	case GroupByNone, GroupByServer, GroupByTag:
		return g, nil
	default:
		return "", &asyncerrors.ConfigError{
			Option:  "groupBy",
			Value:   s,
			Message: `supported values are "server", "tag", and "none"`,
		}
	}
}

// Context is what the override hooks see for one entry. Operation is nil
// for channel and tag entries.
type Context struct {
	Document  *normalizer.ProcessedDocument
	Channel   *normalizer.ChannelInfo
	Operation *normalizer.OperationInfo
}

// Options controls entry building.
type Options struct {
	// Per is the entry mode. Empty means ModeChannel.
	Per Mode
	// GroupBy adds a group path segment. Empty means GroupByNone.
	GroupBy GroupBy
	// Name overrides the default title.
	Name func(Context) string
	// Description overrides the default description.
	Description func(Context) string
	// Frontmatter adds keys to, or replaces keys of, the generated frontmatter.
	Frontmatter func(Context) map[string]any
}
