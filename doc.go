// Package asyncdocs turns AsyncAPI documents into documentation pages.
//
// The module is split into small packages that form one pipeline:
//
//   - loader: resolve file paths, URLs and inline text into source bytes
//   - parser: parse AsyncAPI 2.x and 3.x documents into a traversable graph
//   - normalizer: flatten the graph into channels, operations, messages and servers
//   - registry: fingerprint inputs and cache normalized documents between passes
//   - pages: derive page entries, virtual paths and MDX files from normalized documents
//   - preview: example payloads and parameter tables for rendering and try-it clients
//   - wsclient: a small WebSocket client for sending and receiving example messages
//
// # Quick Start
//
//	reg, err := registry.New(registry.WithLocators("asyncapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	schemas, err := reg.Schemas(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for key, doc := range schemas {
//		entries, err := pages.BuildEntries(key, doc, pages.Options{Per: pages.ModeOperation})
//		if err != nil {
//			log.Fatal(err)
//		}
//		for _, e := range entries {
//			fmt.Println(strings.Join(e.PathSegments, "/"), e.Title)
//		}
//	}
//
// # Caching
//
// A registry remembers the SHA-256 fingerprint of every input it processed.
// When the same key is seen again with identical content the cached result is
// returned without parsing. Keys that disappear from the input set are evicted
// once the whole batch has been resolved.
package asyncdocs
