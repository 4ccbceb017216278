package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/asyncdocs/internal/cliutil"
	"github.com/erraggy/asyncdocs/pages"
)

// PagesFlags contains flags for the pages command
type PagesFlags struct {
	CommonFlags
	Per     string
	GroupBy string
	BaseDir string
}

// SetupPagesFlags creates and configures a FlagSet for the pages command.
func SetupPagesFlags() (*flag.FlagSet, *PagesFlags) {
	fs := flag.NewFlagSet("pages", flag.ContinueOnError)
	flags := &PagesFlags{}
	flags.register(fs)

	fs.StringVar(&flags.Per, "per", "", "one page per channel, operation, or tag (default from ASYNCDOCS_PAGE_MODE, else channel)")
	fs.StringVar(&flags.GroupBy, "group-by", "", "group pages by none, server, or tag (default from ASYNCDOCS_GROUP_BY, else none)")
	fs.StringVar(&flags.BaseDir, "base-dir", "", "prefix every page path with this directory")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: asyncdocs pages [flags] <file|url>...\n\n")
		cliutil.Writef(output, "List the documentation pages that would be generated, with their virtual paths.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  asyncdocs pages asyncapi.yaml\n")
		cliutil.Writef(output, "  asyncdocs pages --per operation --group-by tag asyncapi.yaml\n")
		cliutil.Writef(output, "  asyncdocs pages --base-dir docs/events --format json orders.yaml chat.yaml\n")
	}

	return fs, flags
}

// HandlePages executes the pages command
func HandlePages(args []string) error {
	fs, flags := SetupPagesFlags()

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
		return fmt.Errorf("pages command requires at least one file path or URL")
	}

	ctx, stop := signalContext()
	defer stop()

	schemas, cfg, err := loadSchemas(ctx, &flags.CommonFlags, fs.Args())
	if err != nil {
		return fmt.Errorf("pages: %w", err)
	}
	opts, err := pageOptions(flags.Per, flags.GroupBy, cfg.PageMode, cfg.GroupBy)
	if err != nil {
		return err
	}

	files, err := pages.SourceFrom(schemas, pages.SourceOptions{Options: opts, BaseDir: flags.BaseDir})
	if err != nil {
		return fmt.Errorf("pages: %w", err)
	}

	if flags.Format != FormatText {
		return OutputStructured(os.Stdout, files, flags.Format)
	}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Path, f.Data.Title, f.Data.AsyncAPI.Document})
	}
	RenderSummaryTable(os.Stdout, []string{"PATH", "TITLE", "DOCUMENT"}, rows, flags.Quiet)
	if len(rows) == 0 && !flags.Quiet {
		cliutil.Writef(os.Stderr, "No pages.\n")
	}
	return nil
}

// pageOptions resolves --per and --group-by, falling back to the
// configured defaults when a flag is empty.
func pageOptions(per, groupBy string, defaultMode pages.Mode, defaultGroupBy pages.GroupBy) (pages.Options, error) {
	opts := pages.Options{Per: defaultMode, GroupBy: defaultGroupBy}
	if per != "" {
		m, err := pages.ParseMode(per)
		if err != nil {
			return pages.Options{}, err
		}
		opts.Per = m
	}
	if groupBy != "" {
		g, err := pages.ParseGroupBy(groupBy)
		if err != nil {
			return pages.Options{}, err
		}
		opts.GroupBy = g
	}
	return opts, nil
}
