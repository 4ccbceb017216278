// Package parser turns AsyncAPI 2.x and 3.x documents into a traversable
// document graph.
//
// The parser accepts YAML or JSON, follows local $ref pointers, merges
// operation and message traits, and reports problems as Diagnostics rather
// than failing outright. Only diagnostics at SeverityError make a document
// unusable; Check converts them into an *asyncerrors.ParseError.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("asyncapi.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := parser.Check(result, "asyncapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ch := range doc.Channels() {
//	    fmt.Println(ch.ID(), ch.Address())
//	}
//
// # Document Graph
//
// A Document exposes channels, operations, servers and components through
// accessor methods. Channels and messages that are reached through more than
// one $ref are the same Go value, so callers can compare them by pointer.
// Every Document carries a Handle, a UUID minted at parse time, that
// downstream caches use as its identity.
//
// Payload schemas may reference themselves. Schema.Raw returns the fragment
// as written; Schema.JSON expands local references and reports an
// *asyncerrors.ReferenceError with IsCircular set when the expansion would
// never terminate.
//
// # Linting
//
// Rule sets are off by default. Enable them with WithRuleset:
//   - Core: operationId uniqueness and channel server references
//   - Recommended: info.description and operation summaries
package parser
