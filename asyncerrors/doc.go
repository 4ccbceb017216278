// Package asyncerrors provides structured error types for asyncdocs.
//
// Import path: github.com/erraggy/asyncdocs/asyncerrors
//
// The types enable programmatic error handling via [errors.Is] and [errors.As],
// so callers can tell configuration mistakes from load failures, parse failures
// and recoverable schema issues.
//
// # Error Types
//
//   - [ConfigError]: no inputs, unsupported page mode, invalid option values
//   - [LoadError]: missing files, non-2xx HTTP responses, unreadable locators
//   - [ParseError]: error-severity diagnostics reported while parsing a document
//   - [ReferenceError]: unresolvable or circular $ref pointers
//   - [UnsupportedInputError]: a value that is neither a locator nor a document
//
// # Sentinel Errors
//
//   - [ErrConfig]: matches any [ConfigError]
//   - [ErrLoad]: matches any [LoadError]
//   - [ErrParse]: matches any [ParseError]
//   - [ErrNoDocument]: the parser reported no errors but returned no document
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrCircularReference]: matches [ReferenceError] with IsCircular=true
//   - [ErrUnsupportedInput]: matches any [UnsupportedInputError]
//
// # Usage
//
//	schemas, err := reg.Schemas(ctx)
//	if err != nil {
//	    var parseErr *asyncerrors.ParseError
//	    if errors.As(err, &parseErr) {
//	        for _, p := range parseErr.Problems {
//	            fmt.Println(p.Path, p.Message)
//	        }
//	    }
//	}
package asyncerrors
