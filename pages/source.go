package pages

import (
	"context"
	"strings"

	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/normalizer"
)

// SchemaProvider returns the current processed documents by key.
// *registry.Registry satisfies it.
type SchemaProvider interface {
	Schemas(ctx context.Context) (map[string]*normalizer.ProcessedDocument, error)
}

// PageData is the data attached to a virtual page.
type PageData struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	AsyncAPI    Meta   `json:"_asyncapi" yaml:"_asyncapi"`
}

// VirtualFile is a page in a virtual file tree.
type VirtualFile struct {
	Type string   `json:"type" yaml:"type"`
	Path string   `json:"path" yaml:"path"`
	Data PageData `json:"data" yaml:"data"`
}

// SourceOptions controls Source.
type SourceOptions struct {
	Options
	// BaseDir prefixes every path. Leading and trailing slashes are dropped.
	BaseDir string
}

// Source builds page entries for every document of provider, in key
// order, and assigns each a virtual path. Paths are unique per document.
func Source(ctx context.Context, provider SchemaProvider, opts SourceOptions) ([]VirtualFile, error) {
	schemas, err := provider.Schemas(ctx)
	if err != nil {
		return nil, err
	}
	return SourceFrom(schemas, opts)
}

// SourceFrom is Source over an already resolved document set.
func SourceFrom(schemas map[string]*normalizer.ProcessedDocument, opts SourceOptions) ([]VirtualFile, error) {
	base := strings.TrimSuffix(strings.TrimPrefix(opts.BaseDir, "/"), "/")

	var files []VirtualFile
	for _, key := range maputil.SortedKeys(schemas) {
		entries, err := BuildEntries(key, schemas[key], opts.Options)
		if err != nil {
			return nil, err
		}
		used := NewPathSet()
		for _, e := range entries {
			path := used.Reserve(e.PathSegments)
			if base != "" {
				path = base + "/" + path
			}
			files = append(files, VirtualFile{
				Type: "page",
				Path: path,
				Data: PageData{Title: e.Title, Description: e.Description, AsyncAPI: *e.Meta},
			})
		}
	}
	return files, nil
}
