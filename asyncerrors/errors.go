package asyncerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrLoad indicates a document could not be loaded from its locator.
	ErrLoad = errors.New("load error")

	// ErrParse indicates a document failed to parse.
	ErrParse = errors.New("parse error")

	// ErrNoDocument indicates the parser returned neither errors nor a document.
	ErrNoDocument = errors.New("parser returned no document")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrUnsupportedInput indicates a value of an unsupported shape was passed.
	ErrUnsupportedInput = errors.New("unsupported input")
)

// ConfigError represents an invalid configuration or input set.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// LoadError represents a failure to read a document from a file, URL or record value.
type LoadError struct {
	// Locator is the path or URL that was being loaded
	Locator string
	// StatusCode is the HTTP status for non-2xx responses (0 otherwise)
	StatusCode int
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Locator != "" {
		msg += fmt.Sprintf(" for %q", e.Locator)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// Problem is a single error-severity diagnostic carried by a ParseError.
type Problem struct {
	// Message describes the problem
	Message string
	// Path is the dot-joined location in the document ("unknown" when absent)
	Path string
}

// ParseError represents a document that produced error-severity diagnostics.
type ParseError struct {
	// Key is the document key being parsed
	Key string
	// Problems lists each offending diagnostic
	Problems []Problem
	// Cause is the underlying error, if any (e.g. a YAML syntax error)
	Cause error
}

// Error returns a human-readable error message listing every problem.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Key != "" {
		fmt.Fprintf(&b, ": failed to parse AsyncAPI document %q", e.Key)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	for _, p := range e.Problems {
		path := p.Path
		if path == "" {
			path = "unknown"
		}
		fmt.Fprintf(&b, "\n%s at %s", p.Message, path)
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a $ref that could not be followed.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// IsCircular is true if the reference revisits itself
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when IsCircular is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// UnsupportedInputError is returned when a value is neither a locator string,
// a parsed document, nor a processed document.
type UnsupportedInputError struct {
	// Type is the Go type of the rejected value
	Type string
}

// Error returns a human-readable error message with the accepted shapes.
func (e *UnsupportedInputError) Error() string {
	msg := "unsupported input"
	if e.Type != "" {
		msg += " of type " + e.Type
	}
	return msg + ": pass a registered key, file path, URL, inline AsyncAPI text, *parser.Document or *normalizer.ProcessedDocument"
}

// Is reports whether target matches this error type.
func (e *UnsupportedInputError) Is(target error) bool {
	return target == ErrUnsupportedInput
}
