package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/erraggy/asyncdocs/parser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseInput struct {
	Spec specInput `json:"spec"           jsonschema:"The AsyncAPI document to parse"`
	Full bool      `json:"full,omitempty" jsonschema:"Return the normalized document as JSON in addition to the summary"`
}

type parseSummaryServer struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Protocol string `json:"protocol,omitempty"`
}

type parseOutput struct {
	Version        string               `json:"version"`
	Title          string               `json:"title"`
	APIVersion     string               `json:"api_version,omitempty"`
	Description    string               `json:"description,omitempty"`
	Format         string               `json:"format"`
	ChannelCount   int                  `json:"channel_count"`
	OperationCount int                  `json:"operation_count"`
	ServerCount    int                  `json:"server_count"`
	Servers        []parseSummaryServer `json:"servers,omitempty"`
	Channels       []string             `json:"channels,omitempty"`
	Tags           []string             `json:"tags,omitempty"`
	Warnings       []string             `json:"warnings,omitempty"`
	Cached         bool                 `json:"cached,omitempty"`
	FullDocument   string               `json:"full_document,omitempty"`
}

func handleParse(ctx context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	doc := spec.Processed
	info := doc.Document.Info()
	output := parseOutput{
		Version:        spec.Result.Version,
		Title:          info.Title,
		APIVersion:     info.Version,
		Description:    info.Description,
		Format:         string(spec.Result.SourceFormat),
		ChannelCount:   len(doc.Channels),
		OperationCount: len(doc.Operations),
		ServerCount:    len(doc.Servers),
		Cached:         spec.Cached,
	}

	for _, s := range doc.Servers {
		output.Servers = append(output.Servers, parseSummaryServer{Name: s.Name, URL: s.URL, Protocol: s.Protocol})
	}

	seen := make(map[string]bool)
	for _, ch := range doc.Channels {
		output.Channels = append(output.Channels, ch.Name)
		for _, tag := range ch.Tags {
			if !seen[tag] {
				seen[tag] = true
				output.Tags = append(output.Tags, tag)
			}
		}
	}
	for _, op := range doc.Operations {
		for _, tag := range op.Tags {
			if !seen[tag] {
				seen[tag] = true
				output.Tags = append(output.Tags, tag)
			}
		}
	}

	for _, d := range spec.Result.Diagnostics {
		if d.Severity == parser.SeverityWarning {
			output.Warnings = append(output.Warnings, d.String())
		}
	}

	if input.Full {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return errResult(err), parseOutput{}, nil
		}
		output.FullDocument = string(data)
	}

	return nil, output, nil
}
