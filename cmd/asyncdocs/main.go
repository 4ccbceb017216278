package main

import (
	"fmt"
	"os"

	"github.com/erraggy/asyncdocs"
	"github.com/erraggy/asyncdocs/cmd/asyncdocs/commands"
)

// commandNames lists every top-level command for typo suggestions.
var commandNames = []string{"parse", "pages", "generate", "try", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("asyncdocs v%s\n", asyncdocs.Version())
		fmt.Println(asyncdocs.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "parse":
		err = commands.HandleParse(os.Args[2:])
	case "pages":
		err = commands.HandlePages(os.Args[2:])
	case "generate":
		err = commands.HandleGenerate(os.Args[2:])
	case "try":
		err = commands.HandleTry(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the command closest to input within an edit
// distance of 2, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`asyncdocs - AsyncAPI documentation tools

Usage:
  asyncdocs <command> [options]

Commands:
  parse       Parse AsyncAPI documents and list their operations
  pages       List the documentation pages for AsyncAPI documents
  generate    Write MDX pages for AsyncAPI documents
  try         Send an example message to an operation's WebSocket server
  mcp         Serve asyncdocs tools over the Model Context Protocol (stdio)
  version     Show version information
  help        Show this help message

Examples:
  asyncdocs parse asyncapi.yaml
  asyncdocs pages --per operation --group-by tag asyncapi.yaml
  asyncdocs generate -o content/docs/events asyncapi.yaml
  asyncdocs try --operation sendMessage chat.yaml

Settings such as caching and timeouts are read from ASYNCDOCS_* environment
variables or a .env file.

Run 'asyncdocs <command> --help' for more information on a command.`)
}
