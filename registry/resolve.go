package registry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/erraggy/asyncdocs/asyncerrors"
	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/loader"
	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/parser"
)

// ErrNotFound is returned by Resolve when a string names no document.
var ErrNotFound = errors.New("document not found")

var fileReferencePattern = regexp.MustCompile(`(?i)[\\/]|\.(ya?ml|json)$`)

// Resolve turns input into a processed document. input may be a
// *normalizer.ProcessedDocument (returned as is), a *parser.Document
// (normalized), or a string.
//
// A string is first looked up as a key of reg, when reg is non-nil. If it
// is not a key but looks like inline text, a URL or a file reference, it
// is loaded through a throw-away registry with caching disabled. That
// registry uses reg's loader (work dir, HTTP client), parser, normalizer
// and logger.
func Resolve(ctx context.Context, reg *Registry, input any) (*normalizer.ProcessedDocument, error) {
	switch v := input.(type) {
	case *normalizer.ProcessedDocument:
		if v == nil {
			break
		}
		return v, nil
	case *parser.Document:
		if v == nil {
			break
		}
		if reg != nil {
			return reg.normalizer.Normalize(v), nil
		}
		return normalizer.Normalize(v), nil
	case string:
		return resolveString(ctx, reg, strings.TrimSpace(v))
	}
	return nil, &asyncerrors.UnsupportedInputError{Type: fmt.Sprintf("%T", input)}
}

func resolveString(ctx context.Context, reg *Registry, s string) (*normalizer.ProcessedDocument, error) {
	var available []string
	lookedUp := false
	if reg != nil {
		schemas, err := reg.Schemas(ctx)
		if err == nil {
			lookedUp = true
			if doc, ok := schemas[s]; ok {
				return doc, nil
			}
			available = maputil.SortedKeys(schemas)
		} else {
			reg.logger.Debug("registry lookup failed", "error", err)
		}
	}

	if shouldLoad(s) {
		key := s
		if loader.IsInline(s) && !loader.IsURL(s) {
			key = loader.InlineKey
		}
		value := s
		inline, err := New(
			WithDisableCache(true),
			WithRecord(func(context.Context) (map[string]loader.Value, error) {
				return map[string]loader.Value{key: loader.Text(value)}, nil
			}),
		)
		if err != nil {
			return nil, err
		}
		if reg != nil {
			inline.inherit(reg)
		}
		schemas, err := inline.Schemas(ctx)
		if err != nil {
			return nil, err
		}
		doc, ok := schemas[key]
		if !ok {
			return nil, fmt.Errorf("registry: %q: %w", key, asyncerrors.ErrNoDocument)
		}
		return doc, nil
	}

	if lookedUp {
		hint := "No AsyncAPI schemas are currently loaded."
		if len(available) > 0 {
			hint = "Available keys: " + strings.Join(available, ", ")
		}
		return nil, fmt.Errorf("%w: AsyncAPI document %q not found. %s", ErrNotFound, s, hint)
	}
	return nil, fmt.Errorf("%w: unable to resolve AsyncAPI document from string input; "+
		"provide a registered key, file path or URL, or inline AsyncAPI text", ErrNotFound)
}

// inherit makes r load, parse, normalize and log the way from does.
func (r *Registry) inherit(from *Registry) {
	r.loader = from.loader
	r.parser = from.parser
	r.normalizer = from.normalizer
	r.logger = from.logger
}

// shouldLoad reports whether s is worth loading directly.
func shouldLoad(s string) bool {
	if s == "" {
		return false
	}
	return loader.IsInline(s) ||
		strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "file:") ||
		fileReferencePattern.MatchString(s)
}
