package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/erraggy/asyncdocs/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	applyTraits bool
	ruleset     Ruleset
	logger      Logger
	ctx         context.Context

	// Source identification
	sourceName *string
}

// ParseWithOptions parses an AsyncAPI document using functional options.
// This combines input source selection and configuration in a single call.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("asyncapi.yaml"),
//	    parser.WithRuleset(parser.Ruleset{Core: true}),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		ApplyTraits: cfg.applyTraits,
		Ruleset:     cfg.ruleset,
		Logger:      cfg.logger,
	}

	var result *ParseResult
	var parseErr error
	switch {
	case cfg.filePath != nil:
		result, parseErr = p.ParseFile(cfg.ctx, *cfg.filePath)
	case cfg.reader != nil:
		result, parseErr = p.ParseReader(cfg.ctx, cfg.reader, "ParseReader")
	case cfg.bytes != nil:
		result, parseErr = p.Parse(cfg.ctx, cfg.bytes, "ParseBytes")
	default:
		return nil, fmt.Errorf("parser: no input source specified")
	}
	if parseErr != nil {
		return result, parseErr
	}

	if result != nil && cfg.sourceName != nil {
		result.SourceName = *cfg.sourceName
		if result.Document != nil {
			result.Document.sourceName = *cfg.sourceName
		}
	}

	return result, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		applyTraits: true,
		ctx:         context.Background(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"input",
		"must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("parser: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("parser: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithSourceName overrides the source name recorded on the result.
// Useful with WithBytes and WithReader, which otherwise report a method name.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = &name
		return nil
	}
}

// WithApplyTraits enables or disables trait merging
// Default: true
func WithApplyTraits(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.applyTraits = enabled
		return nil
	}
}

// WithRuleset selects lint rule sets
// Default: none
func WithRuleset(rs Ruleset) Option {
	return func(cfg *parseConfig) error {
		cfg.ruleset = rs
		return nil
	}
}

// WithLogger sets a structured logger for debug output.
// Pass nil to disable logging (default).
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithContext sets the context checked before and after parsing.
// Default: context.Background()
func WithContext(ctx context.Context) Option {
	return func(cfg *parseConfig) error {
		if ctx == nil {
			return fmt.Errorf("parser: context cannot be nil")
		}
		cfg.ctx = ctx
		return nil
	}
}
