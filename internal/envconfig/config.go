// Package envconfig reads ASYNCDOCS_* settings for the CLI and the MCP
// server, after loading an optional .env file.
package envconfig

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/erraggy/asyncdocs/pages"
	"github.com/erraggy/asyncdocs/registry"
)

// Environment keys.
const (
	KeyCacheEnabled  = "ASYNCDOCS_CACHE_ENABLED"
	KeyCacheMaxSize  = "ASYNCDOCS_CACHE_MAX_SIZE"
	KeyCacheTTL      = "ASYNCDOCS_CACHE_TTL"
	KeyHTTPTimeout   = "ASYNCDOCS_HTTP_TIMEOUT"
	KeyConcurrency   = "ASYNCDOCS_CONCURRENCY"
	KeyFailurePolicy = "ASYNCDOCS_FAILURE_POLICY"
	KeyPageMode      = "ASYNCDOCS_PAGE_MODE"
	KeyGroupBy       = "ASYNCDOCS_GROUP_BY"
	KeyMaxInlineSize = "ASYNCDOCS_MAX_INLINE_SIZE"
	KeyAllowPrivate  = "ASYNCDOCS_ALLOW_PRIVATE_IPS"
)

// Keys lists every key Load reads.
var Keys = []string{
	KeyCacheEnabled, KeyCacheMaxSize, KeyCacheTTL, KeyHTTPTimeout,
	KeyConcurrency, KeyFailurePolicy, KeyPageMode, KeyGroupBy, KeyMaxInlineSize,
	KeyAllowPrivate,
}

// Config holds the settings shared by the CLI and the MCP server.
type Config struct {
	// MCP document cache.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration

	// Loading.
	HTTPTimeout   time.Duration
	Concurrency   int
	FailurePolicy registry.FailurePolicy
	MaxInlineSize int64

	// AllowPrivateIPs lets the MCP server fetch URLs on private networks.
	AllowPrivateIPs bool

	// Page defaults.
	PageMode pages.Mode
	GroupBy  pages.GroupBy
}

// Load reads a .env file, then the environment. With no files it tries
// ".env" in the working directory; a missing file is not an error.
// Variables already set in the environment win over the file. Invalid
// values log a warning and fall back to the default.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		slog.Warn("could not load env file, continuing with the environment", "files", files, "error", err) //nolint:gosec // G706: values are structured log fields, not format strings
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		CacheEnabled:    envBool(KeyCacheEnabled, true),
		CacheMaxSize:    envInt(KeyCacheMaxSize, 10),
		CacheTTL:        envDuration(KeyCacheTTL, 15*time.Minute),
		HTTPTimeout:     envDuration(KeyHTTPTimeout, 30*time.Second),
		Concurrency:     envInt(KeyConcurrency, registry.DefaultConcurrency),
		FailurePolicy:   envPolicy(KeyFailurePolicy),
		MaxInlineSize:   int64(envInt(KeyMaxInlineSize, 10*1024*1024)),
		AllowPrivateIPs: envBool(KeyAllowPrivate, false),
		PageMode:        envMode(KeyPageMode),
		GroupBy:         envGroupBy(KeyGroupBy),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func envPolicy(key string) registry.FailurePolicy {
	v := os.Getenv(key)
	p, err := registry.ParseFailurePolicy(v)
	if err != nil {
		slog.Warn("invalid failure policy env var, using default", "key", key, "value", v, "default", p) //nolint:gosec // G706: values are structured log fields, not format strings
	}
	return p
}

func envMode(key string) pages.Mode {
	v := os.Getenv(key)
	m, err := pages.ParseMode(v)
	if err != nil {
		slog.Warn("invalid page mode env var, using default", "key", key, "value", v, "default", pages.ModeChannel) //nolint:gosec // G706: values are structured log fields, not format strings
		return pages.ModeChannel
	}
	return m
}

func envGroupBy(key string) pages.GroupBy {
	v := os.Getenv(key)
	g, err := pages.ParseGroupBy(v)
	if err != nil {
		slog.Warn("invalid group-by env var, using default", "key", key, "value", v, "default", pages.GroupByNone) //nolint:gosec // G706: values are structured log fields, not format strings
		return pages.GroupByNone
	}
	return g
}
