package mcpserver

import (
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erraggy/asyncdocs/internal/envconfig"
)

// Walk-style result limits for the pages and operations tools.
const (
	defaultLimit = 100
	maxLimit     = 1000
)

// cfg is the active server configuration. Run replaces it with the
// configuration the CLI loaded.
var cfg = envconfig.FromEnv()

// docCache maps a content fingerprint to its parsed and processed document.
var docCache = newDocCache()

func newDocCache() *expirable.LRU[string, *cachedDoc] {
	size := cfg.CacheMaxSize
	if size <= 0 {
		size = 1
	}
	return expirable.NewLRU[string, *cachedDoc](size, nil, cfg.CacheTTL)
}

// configure installs c and resets the cache to its size and TTL.
func configure(c *envconfig.Config) {
	if c == nil {
		return
	}
	cfg = c
	docCache = newDocCache()
}
