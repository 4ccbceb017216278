package commands

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/asyncdocs/internal/envconfig"
)

var (
	docFlagRe = regexp.MustCompile(`--([a-zA-Z][a-zA-Z0-9-]*)`)
	docEnvRe  = regexp.MustCompile("`(ASYNCDOCS_[A-Z_]+)`")
)

// readCLIReference returns the first table cell of every row in
// docs/cli-reference.md, grouped by the "## " section it appears under.
func readCLIReference(t *testing.T) map[string][]string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	data, err := os.ReadFile(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "docs", "cli-reference.md"))
	require.NoError(t, err)

	sections := make(map[string][]string)
	var section string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if header, ok := strings.CutPrefix(line, "## "); ok {
			section = strings.ToLower(strings.TrimSpace(header))
			continue
		}
		if section == "" || !strings.HasPrefix(line, "|") {
			continue
		}
		if cells := strings.SplitN(line, "|", 3); len(cells) == 3 {
			sections[section] = append(sections[section], cells[1])
		}
	}
	return sections
}

func documentedFlags(cells []string) map[string]bool {
	out := make(map[string]bool)
	for _, cell := range cells {
		for _, m := range docFlagRe.FindAllStringSubmatch(cell, -1) {
			out[m[1]] = true
		}
	}
	return out
}

// registeredFlags returns the long flag names of fs.
func registeredFlags(fs *flag.FlagSet) map[string]bool {
	out := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		if len(f.Name) > 1 {
			out[f.Name] = true
		}
	})
	return out
}

func flagSet[T any](fs *flag.FlagSet, _ T) *flag.FlagSet { return fs }

func TestCLIReferenceMatchesFlags(t *testing.T) {
	sections := readCLIReference(t)
	commands := map[string]*flag.FlagSet{
		"parse":    flagSet(SetupParseFlags()),
		"pages":    flagSet(SetupPagesFlags()),
		"generate": flagSet(SetupGenerateFlags()),
		"try":      flagSet(SetupTryFlags()),
		"mcp":      flagSet(SetupMCPFlags()),
	}

	for name, fs := range commands {
		t.Run(name, func(t *testing.T) {
			cells, ok := sections[name]
			require.True(t, ok, "docs/cli-reference.md has no %q section", name)
			assert.Equal(t, registeredFlags(fs), documentedFlags(cells))
		})
	}
}

func TestCLIReferenceCommonFlags(t *testing.T) {
	fs := flag.NewFlagSet("common", flag.ContinueOnError)
	var common CommonFlags
	common.register(fs)
	assert.Equal(t, registeredFlags(fs), documentedFlags(readCLIReference(t)["common flags"]))
}

func TestCLIReferenceEnvironment(t *testing.T) {
	var documented []string
	for _, cell := range readCLIReference(t)["environment"] {
		if m := docEnvRe.FindStringSubmatch(cell); m != nil {
			documented = append(documented, m[1])
		}
	}
	assert.ElementsMatch(t, envconfig.Keys, documented)
}
