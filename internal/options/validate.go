// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/asyncdocs/asyncerrors"

// CountSet returns how many of the given flags are true.
func CountSet(sources ...bool) int {
	n := 0
	for _, set := range sources {
		if set {
			n++
		}
	}
	return n
}

// ValidateSingleInputSource ensures exactly one input source is specified.
// option names the option group in the returned *asyncerrors.ConfigError.
func ValidateSingleInputSource(option, noSourceMsg, multiSourceMsg string, sources ...bool) error {
	switch CountSet(sources...) {
	case 0:
		return &asyncerrors.ConfigError{Option: option, Message: noSourceMsg}
	case 1:
		return nil
	default:
		return &asyncerrors.ConfigError{Option: option, Message: multiSourceMsg}
	}
}
