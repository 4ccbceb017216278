// Package registry loads, parses and normalizes a set of AsyncAPI documents
// and caches the results by content fingerprint.
//
// Each call to Schemas resolves the configured inputs, reuses the cached
// ProcessedDocument for any key whose fingerprint is unchanged, reprocesses
// the rest concurrently, and finally evicts keys that are no longer part of
// the input set. Calls on one Registry are serialized.
//
// # Quick Start
//
//	reg, err := registry.New(registry.WithLocators("asyncapi.yaml", "https://example.com/events.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	schemas, err := reg.Schemas(ctx)
//
// # Failure Policy
//
// By default the first load or parse failure aborts the batch (FailFast).
// With Isolate, every key is attempted; successful keys are returned
// together with a *BatchError describing the failures.
package registry
