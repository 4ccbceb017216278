package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/erraggy/asyncdocs/asyncerrors"
	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/internal/options"
	"github.com/erraggy/asyncdocs/loader"
	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/parser"
)

// Registry is the fingerprint-keyed document cache.
type Registry struct {
	// mu serializes batches and guards the maps below.
	mu           sync.Mutex
	cache        map[string]*normalizer.ProcessedDocument
	fingerprints map[string]string

	locators     []string
	record       RecordFunc
	disableCache bool
	parser       DocumentParser
	normalizer   *normalizer.Normalizer
	loader       *loader.Loader
	policy       FailurePolicy
	concurrency  int
	logger       parser.Logger
}

// New creates a Registry. Locators and a record are mutually exclusive;
// supplying neither is allowed here but makes Schemas fail.
func New(opts ...Option) (*Registry, error) {
	cfg := &config{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("registry: invalid options: %w", err)
		}
	}
	if options.CountSet(len(cfg.locators) > 0, cfg.record != nil) > 1 {
		return nil, &asyncerrors.ConfigError{
			Option:  "input",
			Message: "use either WithLocators or WithRecord, not both",
		}
	}

	logger := parser.LoggerOrNop(cfg.logger)
	if cfg.parser == nil {
		p := parser.New()
		p.Logger = cfg.logger
		cfg.parser = p
	}
	if cfg.normalizer == nil {
		n, err := normalizer.New(normalizer.WithLogger(cfg.logger))
		if err != nil {
			return nil, err
		}
		cfg.normalizer = n
	}

	return &Registry{
		cache:        make(map[string]*normalizer.ProcessedDocument),
		fingerprints: make(map[string]string),
		locators:     cfg.locators,
		record:       cfg.record,
		disableCache: cfg.disableCache,
		parser:       cfg.parser,
		normalizer:   cfg.normalizer,
		loader: &loader.Loader{
			HTTPClient: cfg.httpClient,
			UserAgent:  cfg.userAgent,
			WorkDir:    cfg.workDir,
			Logger:     cfg.logger,
		},
		policy:      cfg.policy,
		concurrency: cfg.concurrency,
		logger:      logger,
	}, nil
}

// job is one key of a batch and how to load it.
type job struct {
	key  string
	load func(ctx context.Context) (*loader.Entry, error)
}

// outcome is the result of processing one job.
type outcome struct {
	processed   *normalizer.ProcessedDocument
	fingerprint string
	err         error
}

// Schemas resolves the configured inputs and returns key to processed
// document. Keys whose content fingerprint is unchanged are served from
// cache without reparsing.
//
// Under FailFast the first failure is returned and stale keys are not
// evicted. Under Isolate the successful keys are returned along with a
// *BatchError when any key failed.
func (r *Registry) Schemas(ctx context.Context) (map[string]*normalizer.ProcessedDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := r.jobs(ctx)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, &asyncerrors.ConfigError{Option: "input", Message: "no AsyncAPI inputs provided"}
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		firstMu  sync.Mutex
		firstErr error
	)
	outcomes := make([]outcome, len(jobs))
	p := pool.New().WithMaxGoroutines(r.concurrency)
	for i := range jobs {
		i := i
		p.Go(func() {
			outcomes[i] = r.process(batchCtx, jobs[i])
			if outcomes[i].err != nil && r.policy == FailFast {
				firstMu.Lock()
				if firstErr == nil {
					firstErr = outcomes[i].err
					cancel()
				}
				firstMu.Unlock()
			}
		})
	}
	p.Wait()

	result := make(map[string]*normalizer.ProcessedDocument, len(jobs))
	seen := make(map[string]bool, len(jobs))
	failures := make(map[string]error)
	for i, j := range jobs {
		seen[j.key] = true
		o := outcomes[i]
		if o.err != nil {
			failures[j.key] = o.err
			continue
		}
		r.cache[j.key] = o.processed
		r.fingerprints[j.key] = o.fingerprint
		result[j.key] = o.processed
	}

	if firstErr != nil {
		return nil, firstErr
	}

	for key := range r.cache {
		if !seen[key] {
			delete(r.cache, key)
			delete(r.fingerprints, key)
			r.logger.Debug("evicted stale document", "key", key)
		}
	}

	if len(failures) > 0 {
		return result, &BatchError{Failures: failures}
	}
	return result, nil
}

// jobs turns the configured input into one job per key.
func (r *Registry) jobs(ctx context.Context) ([]job, error) {
	var jobs []job
	switch {
	case len(r.locators) > 0:
		for _, t := range loader.Targets(r.locators) {
			t := t
			jobs = append(jobs, job{key: t.Key, load: func(ctx context.Context) (*loader.Entry, error) {
				return r.loader.LoadTarget(ctx, t)
			}})
		}
	case r.record != nil:
		record, err := r.record(ctx)
		if err != nil {
			return nil, fmt.Errorf("registry: input record: %w", err)
		}
		for _, key := range maputil.SortedKeys(record) {
			key, value := key, record[key]
			jobs = append(jobs, job{key: key, load: func(ctx context.Context) (*loader.Entry, error) {
				return r.loader.LoadValue(ctx, key, value)
			}})
		}
	}
	return jobs, nil
}

// process loads, fingerprints and, unless cached, parses and normalizes
// a single key. It only reads the cache maps; Schemas writes them after
// every job has finished.
func (r *Registry) process(ctx context.Context, j job) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{err: err}
	}
	entry, err := j.load(ctx)
	if err != nil {
		return outcome{err: err}
	}

	if !r.disableCache {
		if fp, ok := r.fingerprints[j.key]; ok && fp == entry.Fingerprint {
			if cached, ok := r.cache[j.key]; ok {
				r.logger.Debug("cache hit", "key", j.key)
				return outcome{processed: cached, fingerprint: fp}
			}
		}
	}
	r.logger.Debug("cache miss", "key", j.key, "fingerprint", entry.Fingerprint)

	doc := entry.Document
	if doc == nil {
		result, err := r.parser.Parse(ctx, entry.Source, j.key)
		if err != nil {
			return outcome{err: err}
		}
		doc, err = parser.Check(result, j.key)
		if err != nil {
			return outcome{err: err}
		}
	}
	return outcome{processed: r.normalizer.Normalize(doc), fingerprint: entry.Fingerprint}
}

// Cached reports whether key currently has a cached result.
func (r *Registry) Cached(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cache[key]
	return ok
}

// Keys returns the cached keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maputil.SortedKeys(r.cache)
}

// Fingerprint returns the fingerprint recorded for key.
func (r *Registry) Fingerprint(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fp, ok := r.fingerprints[key]
	return fp, ok
}

// BatchError collects per-key failures under the Isolate policy.
type BatchError struct {
	Failures map[string]error
}

// Error lists each failed key with its error.
func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "registry: %d document(s) failed", len(e.Failures))
	for _, k := range maputil.SortedKeys(e.Failures) {
		fmt.Fprintf(&b, "\n%s: %v", k, e.Failures[k])
	}
	return b.String()
}

// Unwrap returns the per-key errors in key order.
func (e *BatchError) Unwrap() []error {
	keys := maputil.SortedKeys(e.Failures)
	errs := make([]error, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, e.Failures[k])
	}
	return errs
}
