// Package severity provides the severity levels attached to parser diagnostics.
//
// The numeric values follow the convention used by AsyncAPI tooling, where
// zero is the most severe level:
//   - SeverityError: the document cannot be processed
//   - SeverityWarning: the document is usable but likely wrong
//   - SeverityInfo: informational notes
//   - SeverityHint: style suggestions
//
// Only SeverityError aborts processing.
package severity

// Severity indicates how serious a diagnostic is. Lower values are more severe.
type Severity int

const (
	// SeverityError indicates a structural problem that prevents processing.
	SeverityError Severity = iota

	// SeverityWarning indicates a problem that does not prevent processing.
	SeverityWarning

	// SeverityInfo indicates an informational notice.
	SeverityInfo

	// SeverityHint indicates a style suggestion.
	SeverityHint
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is as severe as, or more severe than, threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s <= threshold
}
