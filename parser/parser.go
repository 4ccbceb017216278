package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/asyncdocs/asyncerrors"
)

// Ruleset selects which lint rule sets run after structural parsing.
type Ruleset struct {
	// Core enables structural consistency rules (errors)
	Core bool
	// Recommended enables documentation quality rules (warnings and infos)
	Recommended bool
}

// Parser handles AsyncAPI document parsing
type Parser struct {
	// ApplyTraits merges operation and message traits into their targets.
	// Default: true
	ApplyTraits bool
	// Ruleset selects lint rule sets. Both are off by default.
	Ruleset Ruleset
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		ApplyTraits: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	return LoggerOrNop(p.Logger)
}

// SourceFormat represents the format of the source document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains the parsed document and everything the parser
// noticed along the way.
//
// Document is nil when the input could not be read as an AsyncAPI document
// at all (syntax errors, unsupported versions). When Document is non-nil it
// may still carry error diagnostics; use Check before handing it on.
type ParseResult struct {
	// SourceName identifies where the document came from
	SourceName string
	// SourceFormat is the format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the declared asyncapi version (e.g., "2.6.0", "3.0.0")
	Version string
	// Document is the parsed document graph, or nil
	Document *Document
	// Diagnostics lists every finding at any severity
	Diagnostics []Diagnostic
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// HasErrors reports whether any diagnostic has error severity.
func (pr *ParseResult) HasErrors() bool {
	return len(ErrorsOf(pr.Diagnostics)) > 0
}

// Parse parses AsyncAPI source text. sourceName is recorded on the result
// and on the document; it does not need to be a path.
//
// Problems with the document are reported as diagnostics, not errors. The
// returned error is non-nil only when ctx is done.
func (p *Parser) Parse(ctx context.Context, data []byte, sourceName string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ParseResult{
		SourceName:   sourceName,
		SourceFormat: detectFormat(data, sourceName),
		SourceSize:   int64(len(data)),
	}

	root, order, diag := decodeDocument(data)
	if diag != nil {
		result.Diagnostics = append(result.Diagnostics, *diag)
		p.log().Debug("document rejected", "source", sourceName, "code", diag.Code)
		return result, nil
	}

	version, diag := detectVersion(root)
	result.Version = version
	if diag != nil {
		result.Diagnostics = append(result.Diagnostics, *diag)
		p.log().Debug("document rejected", "source", sourceName, "code", diag.Code, "version", version)
		return result, nil
	}

	b := newBuilder(p, root, order)
	doc := b.build(version, sourceName)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.lint(doc)
	result.Document = doc
	result.Diagnostics = append(result.Diagnostics, b.diags...)

	p.log().Debug("parsed document",
		"source", sourceName,
		"version", version,
		"channels", len(doc.channels),
		"operations", len(doc.operations),
		"diagnostics", len(result.Diagnostics))

	return result, nil
}

// ParseReader parses an AsyncAPI document from an io.Reader.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader, sourceName string) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	return p.Parse(ctx, data, sourceName)
}

// ParseFile reads and parses the document at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &asyncerrors.LoadError{Locator: path, Cause: err}
	}
	return p.Parse(ctx, data, path)
}

// Check turns a ParseResult into a usable Document.
//
// Error diagnostics become an *asyncerrors.ParseError listing each message
// and its dotted path. A result without errors and without a document wraps
// asyncerrors.ErrNoDocument. Diagnostics below error severity are ignored.
func Check(result *ParseResult, key string) (*Document, error) {
	if result == nil {
		return nil, fmt.Errorf("parser: %q: %w", key, asyncerrors.ErrNoDocument)
	}
	if errs := ErrorsOf(result.Diagnostics); len(errs) > 0 {
		problems := make([]asyncerrors.Problem, 0, len(errs))
		for _, d := range errs {
			problems = append(problems, asyncerrors.Problem{Message: d.Message, Path: d.PathString()})
		}
		return nil, &asyncerrors.ParseError{Key: key, Problems: problems}
	}
	if result.Document == nil {
		return nil, fmt.Errorf("parser: %q: %w", key, asyncerrors.ErrNoDocument)
	}
	return result.Document, nil
}
