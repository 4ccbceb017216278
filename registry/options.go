package registry

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/erraggy/asyncdocs/asyncerrors"
	"github.com/erraggy/asyncdocs/loader"
	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/parser"
)

// FailurePolicy decides what a batch does when one key fails.
type FailurePolicy int

const (
	// FailFast aborts the batch on the first failure.
	FailFast FailurePolicy = iota
	// Isolate processes every key and reports failures together.
	Isolate
)

// String returns the policy name.
func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case Isolate:
		return "isolate"
	default:
		return "unknown"
	}
}

// ParseFailurePolicy parses "fail-fast" or "isolate".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "isolate":
		return Isolate, nil
	default:
		return FailFast, &asyncerrors.ConfigError{
			Option:  "failure policy",
			Value:   s,
			Message: "expected fail-fast or isolate",
		}
	}
}

// DocumentParser is the parsing step of a batch. *parser.Parser
// satisfies it.
type DocumentParser interface {
	Parse(ctx context.Context, data []byte, sourceName string) (*parser.ParseResult, error)
}

// RecordFunc produces a keyed input record for one batch.
type RecordFunc func(ctx context.Context) (map[string]loader.Value, error)

// DefaultConcurrency is the number of keys processed at once.
const DefaultConcurrency = 4

// Option configures a Registry.
type Option func(*config) error

type config struct {
	locators     []string
	record       RecordFunc
	disableCache bool
	parser       DocumentParser
	normalizer   *normalizer.Normalizer
	policy       FailurePolicy
	logger       parser.Logger
	httpClient   *http.Client
	userAgent    string
	workDir      string
	concurrency  int
}

// WithLocators sets the input to a list of paths, URLs or inline texts.
func WithLocators(locators ...string) Option {
	return func(c *config) error {
		c.locators = append(c.locators, locators...)
		return nil
	}
}

// WithRecord sets the input to a record factory, called once per batch.
func WithRecord(fn RecordFunc) Option {
	return func(c *config) error {
		if fn == nil {
			return fmt.Errorf("registry: record func cannot be nil")
		}
		c.record = fn
		return nil
	}
}

// WithDisableCache makes every batch reparse every key.
// Default: false
func WithDisableCache(disabled bool) Option {
	return func(c *config) error {
		c.disableCache = disabled
		return nil
	}
}

// WithParser replaces the parsing step.
// Default: parser.New()
func WithParser(p DocumentParser) Option {
	return func(c *config) error {
		if p == nil {
			return fmt.Errorf("registry: parser cannot be nil")
		}
		c.parser = p
		return nil
	}
}

// WithNormalizer replaces the normalizer.
func WithNormalizer(n *normalizer.Normalizer) Option {
	return func(c *config) error {
		if n == nil {
			return fmt.Errorf("registry: normalizer cannot be nil")
		}
		c.normalizer = n
		return nil
	}
}

// WithFailurePolicy sets how per-key failures affect the batch.
// Default: FailFast
func WithFailurePolicy(p FailurePolicy) Option {
	return func(c *config) error {
		c.policy = p
		return nil
	}
}

// WithLogger sets a structured logger for cache and load events.
func WithLogger(l parser.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithHTTPClient sets the client used to fetch URL locators.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) error {
		c.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent for URL fetches.
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		c.userAgent = ua
		return nil
	}
}

// WithWorkDir sets the directory relative paths resolve against.
func WithWorkDir(dir string) Option {
	return func(c *config) error {
		c.workDir = dir
		return nil
	}
}

// WithConcurrency bounds how many keys are loaded and parsed at once.
// Default: DefaultConcurrency
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return &asyncerrors.ConfigError{Option: "concurrency", Value: n, Message: "must be positive"}
		}
		c.concurrency = n
		return nil
	}
}
