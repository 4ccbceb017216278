package pages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/asyncdocs/internal/fileutil"
	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/internal/pathutil"
	"github.com/erraggy/asyncdocs/normalizer"
)

// DefaultComponent is the page component rendered by generated files.
const DefaultComponent = "AsyncAPIPage"

// GeneratedComment heads every generated file unless disabled.
const GeneratedComment = "{/* This file was generated by asyncdocs. Do not edit manually. */}"

// IndexPath is the path of the optional root index page.
const IndexPath = "index.mdx"

// GenerateOptions controls GenerateFiles.
type GenerateOptions struct {
	Options
	// Imports are written verbatim after the frontmatter.
	Imports []string
	// Component is the page component tag. Default: DefaultComponent
	Component string
	// SkipGeneratedComment omits GeneratedComment.
	SkipGeneratedComment bool
	// RootIndex adds an index.mdx linking every page.
	RootIndex bool
}

// File is a generated page. Path is slash-separated and relative to the
// output directory.
type File struct {
	Path    string
	Content []byte
}

// GenerateFiles renders one MDX file per entry of every document, in key
// order. Paths are unique across the whole set.
func GenerateFiles(schemas map[string]*normalizer.ProcessedDocument, opts GenerateOptions) ([]File, error) {
	component := opts.Component
	if component == "" {
		component = DefaultComponent
	}

	used := NewPathSet()

	var (
		files []File
		index []indexLink
	)
	for _, key := range maputil.SortedKeys(schemas) {
		entries, err := BuildEntries(key, schemas[key], opts.Options)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			path := used.Reserve(e.PathSegments)
			content, err := renderPage(e, component, opts)
			if err != nil {
				return nil, fmt.Errorf("pages: %s: %w", path, err)
			}
			files = append(files, File{Path: path + ".mdx", Content: content})
			index = append(index, indexLink{title: e.Title, path: path})
		}
	}

	if opts.RootIndex {
		content, err := renderIndex(index, opts)
		if err != nil {
			return nil, fmt.Errorf("pages: %s: %w", IndexPath, err)
		}
		files = append(files, File{Path: IndexPath, Content: content})
	}
	return files, nil
}

// WriteFiles writes files under outputDir, creating directories as
// needed. Paths that would escape outputDir are rejected.
func WriteFiles(outputDir string, files []File) error {
	if err := os.MkdirAll(outputDir, fileutil.DirMode); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, f := range files {
		target, err := pathutil.SafeJoin(outputDir, f.Path)
		if err != nil {
			return fmt.Errorf("invalid file path %q: %w", f.Path, err)
		}
		if err := os.MkdirAll(filepath.Dir(target), fileutil.DirMode); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		if err := os.WriteFile(target, f.Content, fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("failed to write file %s: %w", f.Path, err)
		}
	}
	return nil
}

type indexLink struct {
	title string
	path  string
}

func renderPage(e *Entry, component string, opts GenerateOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeFrontmatter(&buf, e.Frontmatter); err != nil {
		return nil, err
	}
	writeHeader(&buf, opts)

	buf.WriteString("<" + component)
	props := []struct {
		name  string
		value any
		set   bool
	}{
		{"document", e.DocumentKey, true},
		{"channel", e.Meta.Channel, e.Meta.Channel != ""},
		{"direction", e.Meta.Direction, e.Meta.Direction != ""},
		{"operationId", e.Meta.OperationID, e.Meta.OperationID != ""},
		{"tags", e.Meta.Tags, len(e.Meta.Tags) > 0},
	}
	for _, p := range props {
		if !p.set {
			continue
		}
		v, err := jsxValue(p.value)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, " %s={%s}", p.name, v)
	}
	buf.WriteString(" />\n")
	return buf.Bytes(), nil
}

func renderIndex(links []indexLink, opts GenerateOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeFrontmatter(&buf, map[string]any{"title": "AsyncAPI"}); err != nil {
		return nil, err
	}
	if !opts.SkipGeneratedComment {
		buf.WriteString(GeneratedComment + "\n\n")
	}
	for _, l := range links {
		fmt.Fprintf(&buf, "- [%s](./%s)\n", escapeLinkText(l.title), l.path)
	}
	return buf.Bytes(), nil
}

func writeFrontmatter(buf *bytes.Buffer, frontmatter map[string]any) error {
	data, err := yaml.Marshal(frontmatter)
	if err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	buf.WriteString("---\n")
	buf.Write(data)
	buf.WriteString("---\n\n")
	return nil
}

func writeHeader(buf *bytes.Buffer, opts GenerateOptions) {
	if !opts.SkipGeneratedComment {
		buf.WriteString(GeneratedComment + "\n\n")
	}
	if len(opts.Imports) > 0 {
		for _, imp := range opts.Imports {
			buf.WriteString(strings.TrimSpace(imp) + "\n")
		}
		buf.WriteString("\n")
	}
}

// jsxValue encodes v as a JSON literal for a JSX expression attribute.
func jsxValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func escapeLinkText(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
