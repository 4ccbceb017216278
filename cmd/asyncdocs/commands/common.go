// Package commands provides CLI command handlers for asyncdocs.
package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/asyncdocs"
	"github.com/erraggy/asyncdocs/internal/cliutil"
	"github.com/erraggy/asyncdocs/internal/envconfig"
	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/parser"
	"github.com/erraggy/asyncdocs/registry"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// RenderSummaryTable renders a table of results.
// In quiet mode, headers are omitted and rows are tab-separated for piping.
func RenderSummaryTable(w io.Writer, headers []string, rows [][]string, quiet bool) {
	cliutil.WriteTable(w, headers, rows, quiet)
}

// CommonFlags are shared by every command that reads documents.
type CommonFlags struct {
	Format  string
	EnvFile string
	Verbose bool
	Quiet   bool
}

func (c *CommonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Format, "format", FormatText, "Output format: text, json, yaml")
	fs.StringVar(&c.EnvFile, "env-file", "", "load ASYNCDOCS_* settings from this .env file")
	fs.BoolVar(&c.Verbose, "verbose", false, "log debug output to stderr")
	fs.BoolVar(&c.Verbose, "v", false, "log debug output to stderr (shorthand)")
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress headers and decoration")
	fs.BoolVar(&c.Quiet, "q", false, "suppress headers and decoration (shorthand)")
}

// config loads the environment configuration, honoring --env-file.
func (c *CommonFlags) config() *envconfig.Config {
	if c.EnvFile != "" {
		return envconfig.Load(c.EnvFile)
	}
	return envconfig.Load()
}

// logger returns a stderr slog logger, at debug level with --verbose.
func (c *CommonFlags) logger() parser.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return parser.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newRegistry builds a registry over locators using the loaded configuration.
func newRegistry(cfg *envconfig.Config, log parser.Logger, locators []string) (*registry.Registry, error) {
	return registry.New(
		registry.WithLocators(locators...),
		registry.WithDisableCache(!cfg.CacheEnabled),
		registry.WithFailurePolicy(cfg.FailurePolicy),
		registry.WithConcurrency(cfg.Concurrency),
		registry.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		registry.WithUserAgent(asyncdocs.UserAgent()),
		registry.WithLogger(log),
	)
}

// loadSchemas loads and normalizes every locator.
func loadSchemas(ctx context.Context, flags *CommonFlags, locators []string) (map[string]*normalizer.ProcessedDocument, *envconfig.Config, error) {
	cfg := flags.config()
	reg, err := newRegistry(cfg, flags.logger(), locators)
	if err != nil {
		return nil, nil, err
	}
	schemas, err := reg.Schemas(ctx)
	if err != nil {
		return nil, nil, err
	}
	return schemas, cfg, nil
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
