// Package normalizer flattens a parsed AsyncAPI document into the
// page-friendly ProcessedDocument model.
//
// Operations are discovered in two passes. The first walks every declared
// channel and its bound operations; the second walks the document's global
// operation list and skips anything the first pass already saw, identified
// by JSON pointer. Operations without a channel get a fallback channel named
// after their operationId or id.
//
// Results are memoized per Document handle:
//
//	processed := normalizer.Normalize(doc)
//	again := normalizer.Normalize(doc) // same pointer
package normalizer
