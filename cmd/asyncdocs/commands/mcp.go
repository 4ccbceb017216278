package commands

import (
	"errors"
	"flag"

	"github.com/erraggy/asyncdocs/internal/cliutil"
	"github.com/erraggy/asyncdocs/internal/envconfig"
	"github.com/erraggy/asyncdocs/internal/mcpserver"
)

// MCPFlags contains flags for the mcp command
type MCPFlags struct {
	EnvFile string
}

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() (*flag.FlagSet, *MCPFlags) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	flags := &MCPFlags{}

	fs.StringVar(&flags.EnvFile, "env-file", "", "load ASYNCDOCS_* settings from this .env file")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: asyncdocs mcp [flags]\n\n")
		cliutil.Writef(output, "Serve the parse, operations, pages and example tools over MCP (stdio).\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nSettings are read from ASYNCDOCS_* environment variables.\n")
	}

	return fs, flags
}

// HandleMCP runs the MCP server over stdio until the client disconnects.
func HandleMCP(args []string) error {
	fs, flags := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	var cfg *envconfig.Config
	if flags.EnvFile != "" {
		cfg = envconfig.Load(flags.EnvFile)
	} else {
		cfg = envconfig.Load()
	}

	ctx, stop := signalContext()
	defer stop()
	return mcpserver.Run(ctx, cfg)
}
