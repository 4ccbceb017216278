// Package pages turns processed AsyncAPI documents into documentation
// page entries.
//
// BuildEntries produces one Entry per channel, per operation, or per tag.
// Each entry carries a title, a description, YAML-ready frontmatter with a
// reserved "_asyncapi" block, and path segments of the form
// [document, group, slug]. Path uniqueness is enforced by a PathSet at the
// point where paths are assigned:
//
//	entries, err := pages.BuildEntries("specs/orders.yaml", processed, pages.Options{
//		Per:     pages.ModeOperation,
//		GroupBy: pages.GroupByTag,
//	})
//	used := pages.NewPathSet()
//	for _, e := range entries {
//		fmt.Println(used.Reserve(e.PathSegments))
//	}
//
// Source assigns virtual paths for every document a provider returns,
// GenerateFiles renders MDX pages and WriteFiles writes them under an
// output directory. FilterOperations narrows a document to the channel
// blocks matching channel, direction, operation and tag filters.
package pages
