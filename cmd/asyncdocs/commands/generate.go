package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/erraggy/asyncdocs/internal/cliutil"
	"github.com/erraggy/asyncdocs/pages"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	CommonFlags
	Output    string
	Per       string
	GroupBy   string
	Component string
	Imports   stringList
	NoComment bool
	Index     bool
	DryRun    bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}
	flags.register(fs)

	fs.StringVar(&flags.Output, "o", "", "output directory (required)")
	fs.StringVar(&flags.Output, "output", "", "output directory (required)")
	fs.StringVar(&flags.Per, "per", "", "one page per channel, operation, or tag")
	fs.StringVar(&flags.GroupBy, "group-by", "", "group pages by none, server, or tag")
	fs.StringVar(&flags.Component, "component", pages.DefaultComponent, "page component rendered in every file")
	fs.Var(&flags.Imports, "import", "import line written after the frontmatter (repeatable)")
	fs.BoolVar(&flags.NoComment, "no-comment", false, "omit the generated-file comment")
	fs.BoolVar(&flags.Index, "index", false, "also write an index.mdx linking every page")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "list the files without writing them")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: asyncdocs generate -o <dir> [flags] <file|url>...\n\n")
		cliutil.Writef(output, "Write one MDX page per entry of every document.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  asyncdocs generate -o content/docs/events asyncapi.yaml\n")
		cliutil.Writef(output, "  asyncdocs generate -o docs --per operation --index --import \"import { AsyncAPIPage } from '@/components/asyncapi'\" asyncapi.yaml\n")
		cliutil.Writef(output, "  asyncdocs generate -o docs --dry-run orders.yaml chat.yaml\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Output == "" && !flags.DryRun {
		fs.Usage()
		return fmt.Errorf("generate command requires an output directory (-o)")
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("generate command requires at least one file path or URL")
	}

	ctx, stop := signalContext()
	defer stop()

	schemas, cfg, err := loadSchemas(ctx, &flags.CommonFlags, fs.Args())
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	opts, err := pageOptions(flags.Per, flags.GroupBy, cfg.PageMode, cfg.GroupBy)
	if err != nil {
		return err
	}

	files, err := pages.GenerateFiles(schemas, pages.GenerateOptions{
		Options:              opts,
		Imports:              flags.Imports,
		Component:            flags.Component,
		SkipGeneratedComment: flags.NoComment,
		RootIndex:            flags.Index,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if !flags.DryRun {
		if err := pages.WriteFiles(flags.Output, files); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	if flags.Format != FormatText {
		return OutputStructured(os.Stdout, map[string]any{
			"output":  flags.Output,
			"dry_run": flags.DryRun,
			"files":   paths,
		}, flags.Format)
	}
	for _, p := range paths {
		cliutil.Writef(os.Stdout, "%s\n", p)
	}
	if !flags.Quiet {
		verb := "Wrote"
		if flags.DryRun {
			verb = "Would write"
		}
		cliutil.Writef(os.Stderr, "%s %d files to %s\n", verb, len(files), flags.Output)
	}
	return nil
}
