package mcpserver

import (
	"context"

	"github.com/erraggy/asyncdocs/pages"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type operationsInput struct {
	Spec      specInput `json:"spec"                jsonschema:"The AsyncAPI document to query"`
	Channel   []string  `json:"channel,omitempty"   jsonschema:"Filter by channel name or slug"`
	Direction []string  `json:"direction,omitempty" jsonschema:"Filter by direction: publish or subscribe"`
	Operation []string  `json:"operation,omitempty" jsonschema:"Filter by operation id, operationId, or summary (exact or slug)"`
	Tag       []string  `json:"tag,omitempty"       jsonschema:"Filter by channel or operation tag (case-insensitive)"`
	Offset    int       `json:"offset,omitempty"    jsonschema:"Skip the first N results"`
	Limit     int       `json:"limit,omitempty"     jsonschema:"Maximum results to return (default 100)"`
}

type operationSummary struct {
	Channel     string   `json:"channel"`
	Direction   string   `json:"direction"`
	ID          string   `json:"id,omitempty"`
	OperationID string   `json:"operation_id,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Servers     []string `json:"servers,omitempty"`
	Messages    []string `json:"messages,omitempty"`
	HasReply    bool     `json:"has_reply,omitempty"`
}

type operationsOutput struct {
	Total     int                `json:"total"`
	Matched   int                `json:"matched"`
	Returned  int                `json:"returned"`
	Summaries []operationSummary `json:"summaries,omitempty"`
}

func handleOperations(ctx context.Context, _ *mcp.CallToolRequest, input operationsInput) (*mcp.CallToolResult, operationsOutput, error) {
	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), operationsOutput{}, nil
	}

	blocks := pages.FilterOperations(spec.Processed, pages.Filter{
		Channels:   input.Channel,
		Directions: input.Direction,
		Operations: input.Operation,
		Tags:       input.Tag,
	})

	var summaries []operationSummary
	for _, b := range blocks {
		for _, op := range b.Operations {
			s := operationSummary{
				Channel:     op.Channel,
				Direction:   string(op.Direction),
				ID:          op.ID,
				OperationID: op.OperationID,
				Summary:     op.Summary,
				Tags:        op.Tags,
				Servers:     op.Servers,
				HasReply:    op.Reply != nil,
			}
			for _, m := range op.Messages {
				s.Messages = append(s.Messages, firstNonEmpty(m.Name, m.Title))
			}
			summaries = append(summaries, s)
		}
	}

	page := paginate(summaries, input.Offset, input.Limit)
	return nil, operationsOutput{
		Total:     len(spec.Processed.Operations),
		Matched:   len(summaries),
		Returned:  len(page),
		Summaries: page,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
