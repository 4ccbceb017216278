package parser

import (
	"fmt"

	"github.com/erraggy/asyncdocs/internal/pathutil"
	"github.com/erraggy/asyncdocs/internal/severity"
)

// Severity is the level of a Diagnostic. Lower values are more severe.
type Severity = severity.Severity

// Severity levels re-exported for callers of this package.
const (
	SeverityError   = severity.SeverityError
	SeverityWarning = severity.SeverityWarning
	SeverityInfo    = severity.SeverityInfo
	SeverityHint    = severity.SeverityHint
)

// Diagnostic codes reported by the parser.
const (
	CodeSyntax             = "syntax"
	CodeInvalidRoot        = "invalid-root"
	CodeMissingVersion     = "missing-version"
	CodeUnsupportedVersion = "unsupported-version"
	CodeInvalidSection     = "invalid-section"
	CodeUnresolvedRef      = "unresolved-ref"
	CodeExternalRef        = "external-ref"
	CodeDuplicateOpID      = "operation-operationId-uniqueness"
	CodeUnknownServer      = "channel-servers"
	CodeInfoDescription    = "info-description"
	CodeOperationSummary   = "operation-description"
)

// Diagnostic is a single finding reported while parsing a document.
type Diagnostic struct {
	// Code identifies the rule or check that produced the diagnostic
	Code string
	// Message is a human-readable description
	Message string
	// Path is the location within the document as raw tokens
	Path []string
	// Severity indicates how serious the finding is
	Severity Severity
}

// PathString returns the dot-joined path, or "unknown" when there is none.
func (d Diagnostic) PathString() string {
	if len(d.Path) == 0 {
		return "unknown"
	}
	return pathutil.Dotted(d.Path)
}

// String returns a formatted representation of the diagnostic.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s at %s", d.Severity, d.Message, d.PathString())
}

// ErrorsOf returns the diagnostics with error severity.
func ErrorsOf(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity.AtLeast(SeverityError) {
			out = append(out, d)
		}
	}
	return out
}
