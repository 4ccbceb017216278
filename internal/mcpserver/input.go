package mcpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erraggy/asyncdocs"
	"github.com/erraggy/asyncdocs/internal/options"
	"github.com/erraggy/asyncdocs/loader"
	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/parser"
)

// specInput represents the three ways an AsyncAPI document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an AsyncAPI file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an AsyncAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline AsyncAPI document content (JSON or YAML)"`
}

// cachedDoc is what the cache keeps per content fingerprint.
type cachedDoc struct {
	result    *parser.ParseResult
	processed *normalizer.ProcessedDocument
}

// resolvedSpec is a document ready for the tools. Key names the input:
// the file path, the URL, or loader.InlineKey for inline content.
type resolvedSpec struct {
	Key       string
	Result    *parser.ParseResult
	Processed *normalizer.ProcessedDocument
	Cached    bool
}

func (s specInput) key() string {
	switch {
	case s.File != "":
		return s.File
	case s.URL != "":
		return s.URL
	default:
		return loader.InlineKey
	}
}

// resolve loads, parses and normalizes the document. Results are cached
// by the SHA-256 of the loaded content, so an edited file is reparsed and
// the same content under two names is parsed once.
func (s specInput) resolve(ctx context.Context) (*resolvedSpec, error) {
	if err := options.ValidateSingleInputSource("spec",
		"exactly one of file, url, or content must be provided",
		"exactly one of file, url, or content must be provided",
		s.File != "", s.URL != "", s.Content != ""); err != nil {
		return nil, err
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set ASYNCDOCS_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	if s.URL != "" && !loader.IsURL(s.URL) {
		return nil, fmt.Errorf("url %q is not an http, https or file URL", s.URL)
	}

	key := s.key()
	data, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	fp := loader.Fingerprint(data)
	if cfg.CacheEnabled {
		if c, ok := docCache.Get(fp); ok {
			return &resolvedSpec{Key: key, Result: c.result, Processed: c.processed, Cached: true}, nil
		}
	}

	result, err := parser.New().Parse(ctx, data, key)
	if err != nil {
		return nil, err
	}
	doc, err := parser.Check(result, key)
	if err != nil {
		return nil, err
	}
	processed := normalizer.Normalize(doc)

	if cfg.CacheEnabled {
		docCache.Add(fp, &cachedDoc{result: result, processed: processed})
	}
	return &resolvedSpec{Key: key, Result: result, Processed: processed}, nil
}

func (s specInput) load(ctx context.Context, key string) ([]byte, error) {
	if s.Content != "" {
		return []byte(s.Content), nil
	}

	l := &loader.Loader{UserAgent: asyncdocs.UserAgent()}
	if s.URL != "" {
		if cfg.AllowPrivateIPs {
			l.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
		} else {
			l.HTTPClient = newSafeHTTPClient(cfg.HTTPTimeout)
		}
	}
	entry, err := l.LoadTarget(ctx, loader.Target{Key: key, Locator: key})
	if err != nil {
		return nil, err
	}
	return entry.Source, nil
}
