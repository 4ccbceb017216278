package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/asyncdocs"
	"github.com/erraggy/asyncdocs/asyncerrors"
	"github.com/erraggy/asyncdocs/parser"
)

// InlineKey is the key given to unnamed inline document text.
const InlineKey = "inline-asyncapi"

// DefaultTimeout is the HTTP timeout used when no client is configured.
const DefaultTimeout = 30 * time.Second

// Entry is a loaded input: exactly one of Source and Document is set.
type Entry struct {
	// Key identifies the document across batches
	Key string
	// Locator is where the entry came from (empty for record documents)
	Locator string
	// Source holds raw document text
	Source []byte
	// Document holds an already-parsed document
	Document *parser.Document
	// Fingerprint is the hex SHA-256 of Source or of Document's JSON
	Fingerprint string
}

// Value is an entry of a keyed input record: text (inline, a path or a
// URL) or a parsed document.
type Value struct {
	text string
	doc  *parser.Document
}

// Text returns a Value holding a string.
func Text(s string) Value { return Value{text: s} }

// Parsed returns a Value holding a parsed document.
func Parsed(doc *parser.Document) Value { return Value{doc: doc} }

// Target pairs a locator with the key its entry will carry.
type Target struct {
	Key     string
	Locator string
}

// Loader reads locators. The zero value is usable.
type Loader struct {
	// HTTPClient fetches URLs. If nil, a client with DefaultTimeout is used.
	HTTPClient *http.Client
	// UserAgent is sent with HTTP requests. Defaults to asyncdocs.UserAgent().
	UserAgent string
	// WorkDir resolves relative paths. Defaults to the process working directory.
	WorkDir string
	// Logger is the structured logger for debug output
	Logger parser.Logger
}

// New creates a Loader with default settings.
func New() *Loader {
	return &Loader{}
}

func (l *Loader) log() parser.Logger {
	return parser.LoggerOrNop(l.Logger)
}

// IsURL reports whether s is an http, https or file URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "file":
		return true
	default:
		return false
	}
}

// IsInline reports whether s looks like document text rather than a locator.
func IsInline(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") ||
		strings.HasPrefix(trimmed, "asyncapi:") ||
		strings.Contains(trimmed, "\n")
}

// Targets assigns keys to locators. URLs and paths are their own key;
// inline text gets InlineKey, numbered from the second occurrence on.
func Targets(locators []string) []Target {
	out := make([]Target, 0, len(locators))
	inline := 0
	for _, loc := range locators {
		key := loc
		if !IsURL(loc) && IsInline(loc) {
			inline++
			key = InlineKey
			if inline > 1 {
				key = fmt.Sprintf("%s-%d", InlineKey, inline)
			}
		}
		out = append(out, Target{Key: key, Locator: loc})
	}
	return out
}

// Fingerprint returns the hex SHA-256 digest of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintDocument fingerprints the canonical JSON of doc's tree.
// encoding/json sorts map keys, so equal trees give equal fingerprints.
func FingerprintDocument(doc *parser.Document) (string, error) {
	data, err := json.Marshal(doc.Raw())
	if err != nil {
		return "", fmt.Errorf("loader: failed to serialize document: %w", err)
	}
	return Fingerprint(data), nil
}

// Load reads a single locator, keyed per Targets.
func (l *Loader) Load(ctx context.Context, locator string) (*Entry, error) {
	return l.LoadTarget(ctx, Targets([]string{locator})[0])
}

// LoadTarget reads t.Locator into an Entry keyed t.Key.
func (l *Loader) LoadTarget(ctx context.Context, t Target) (*Entry, error) {
	var data []byte
	var err error
	switch {
	case IsURL(t.Locator):
		data, err = l.readURL(ctx, t.Locator)
	case IsInline(t.Locator):
		data = []byte(t.Locator)
	default:
		data, err = l.readFile(t.Locator)
	}
	if err != nil {
		return nil, err
	}
	return &Entry{Key: t.Key, Locator: t.Locator, Source: data, Fingerprint: Fingerprint(data)}, nil
}

// LoadValue resolves a record value. Text naming an existing file or a URL
// is loaded and replaces the literal before fingerprinting; any other text
// is used as is.
func (l *Loader) LoadValue(ctx context.Context, key string, v Value) (*Entry, error) {
	if v.doc != nil {
		fp, err := FingerprintDocument(v.doc)
		if err != nil {
			return nil, &asyncerrors.LoadError{Locator: key, Cause: err}
		}
		return &Entry{Key: key, Document: v.doc, Fingerprint: fp}, nil
	}

	if target := l.loadableTarget(v.text); target != "" {
		entry, err := l.LoadTarget(ctx, Target{Key: key, Locator: target})
		if err != nil {
			return nil, err
		}
		l.log().Debug("record value loaded from locator", "key", key, "locator", target)
		return entry, nil
	}
	data := []byte(v.text)
	return &Entry{Key: key, Source: data, Fingerprint: Fingerprint(data)}, nil
}

// loadableTarget returns s when it is a URL or an existing file.
func (l *Loader) loadableTarget(s string) string {
	if IsURL(s) {
		return s
	}
	if s == "" || IsInline(s) {
		return ""
	}
	if info, err := os.Stat(l.abs(s)); err == nil && !info.IsDir() {
		return s
	}
	return ""
}

func (l *Loader) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	dir := l.WorkDir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	return filepath.Join(dir, path)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(l.abs(path))
	if err != nil {
		return nil, &asyncerrors.LoadError{Locator: path, Message: "failed to read file", Cause: err}
	}
	l.log().Debug("read file", "path", path, "size", parser.FormatBytes(int64(len(data))))
	return data, nil
}

func (l *Loader) readURL(ctx context.Context, locator string) ([]byte, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, &asyncerrors.LoadError{Locator: locator, Message: "invalid URL", Cause: err}
	}
	if u.Scheme == "file" {
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		data, err := os.ReadFile(filepath.FromSlash(path))
		if err != nil {
			return nil, &asyncerrors.LoadError{Locator: locator, Message: "failed to read file", Cause: err}
		}
		return data, nil
	}
	return l.fetch(ctx, locator)
}

func (l *Loader) fetch(ctx context.Context, locator string) ([]byte, error) {
	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, &asyncerrors.LoadError{Locator: locator, Message: "failed to create request", Cause: err}
	}
	userAgent := l.UserAgent
	if userAgent == "" {
		userAgent = asyncdocs.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req) //nolint:gosec // URL is a configured document locator
	if err != nil {
		return nil, &asyncerrors.LoadError{Locator: locator, Message: "failed to fetch URL", Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &asyncerrors.LoadError{
			Locator:    locator,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &asyncerrors.LoadError{Locator: locator, Message: "failed to read response body", Cause: err}
	}
	l.log().Debug("fetched URL", "url", locator, "status", resp.StatusCode, "size", parser.FormatBytes(int64(len(data))))
	return data, nil
}
