package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erraggy/asyncdocs"
	"github.com/erraggy/asyncdocs/internal/cliutil"
	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/internal/naming"
	"github.com/erraggy/asyncdocs/normalizer"
)

// SetupParseFlags creates and configures a FlagSet for the parse command.
// Returns the FlagSet and a CommonFlags struct with bound flag variables.
func SetupParseFlags() (*flag.FlagSet, *CommonFlags) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags := &CommonFlags{}
	flags.register(fs)

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: asyncdocs parse [flags] <file|url>...\n\n")
		cliutil.Writef(output, "Parse AsyncAPI documents and list their channels and operations.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  asyncdocs parse asyncapi.yaml\n")
		cliutil.Writef(output, "  asyncdocs parse --format json orders.yaml chat.yaml\n")
		cliutil.Writef(output, "  asyncdocs parse https://example.com/asyncapi.yaml\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    Parsing successful\n")
		cliutil.Writef(output, "  1    A document could not be loaded or has errors\n")
	}

	return fs, flags
}

// HandleParse executes the parse command
func HandleParse(args []string) error {
	fs, flags := SetupParseFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("parse command requires at least one file path or URL")
	}

	ctx, stop := signalContext()
	defer stop()

	schemas, _, err := loadSchemas(ctx, flags, fs.Args())
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	if flags.Format != FormatText {
		return OutputStructured(os.Stdout, schemas, flags.Format)
	}
	for _, key := range maputil.SortedKeys(schemas) {
		renderDocument(os.Stdout, key, schemas[key], flags.Quiet)
	}
	return nil
}

func renderDocument(w io.Writer, key string, doc *normalizer.ProcessedDocument, quiet bool) {
	if !quiet {
		info := doc.Document.Info()
		cliutil.Writef(w, "asyncdocs version: %s\n", asyncdocs.Version())
		cliutil.Writef(w, "Document: %s\n", key)
		cliutil.Writef(w, "AsyncAPI Version: %s\n", doc.Document.Version())
		cliutil.Writef(w, "Title: %s\n", info.Title)
		if info.Version != "" {
			cliutil.Writef(w, "Version: %s\n", info.Version)
		}
		cliutil.Writef(w, "Channels: %d\n", len(doc.Channels))
		cliutil.Writef(w, "Operations: %d\n", len(doc.Operations))
		cliutil.Writef(w, "Servers: %d\n\n", len(doc.Servers))
	}

	rows := make([][]string, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		rows = append(rows, []string{
			op.Channel,
			naming.ToTitleCase(string(op.Direction)),
			firstNonEmpty(op.OperationID, op.ID),
			strings.Join(op.Tags, ","),
			op.Summary,
		})
	}
	RenderSummaryTable(w, []string{"CHANNEL", "DIRECTION", "OPERATION", "TAGS", "SUMMARY"}, rows, quiet)
	if !quiet {
		cliutil.Writef(w, "\n")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
