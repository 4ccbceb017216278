package mcpserver

import (
	"context"

	"github.com/erraggy/asyncdocs/pages"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type pagesInput struct {
	Spec    specInput `json:"spec"               jsonschema:"The AsyncAPI document to plan pages for"`
	Per     string    `json:"per,omitempty"      jsonschema:"One page per channel, operation, or tag"`
	GroupBy string    `json:"group_by,omitempty" jsonschema:"Group pages by none, server, or tag"`
	Offset  int       `json:"offset,omitempty"   jsonschema:"Skip the first N pages"`
	Limit   int       `json:"limit,omitempty"    jsonschema:"Maximum pages to return (default 100)"`
}

type pageSummary struct {
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	Direction   string   `json:"direction,omitempty"`
	OperationID string   `json:"operation_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type pagesOutput struct {
	Document string        `json:"document"`
	Per      string        `json:"per"`
	GroupBy  string        `json:"group_by"`
	Total    int           `json:"total"`
	Returned int           `json:"returned"`
	Pages    []pageSummary `json:"pages,omitempty"`
}

func handlePages(ctx context.Context, _ *mcp.CallToolRequest, input pagesInput) (*mcp.CallToolResult, pagesOutput, error) {
	per := cfg.PageMode
	if input.Per != "" {
		m, err := pages.ParseMode(input.Per)
		if err != nil {
			return errResult(err), pagesOutput{}, nil
		}
		per = m
	}
	groupBy := cfg.GroupBy
	if input.GroupBy != "" {
		g, err := pages.ParseGroupBy(input.GroupBy)
		if err != nil {
			return errResult(err), pagesOutput{}, nil
		}
		groupBy = g
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), pagesOutput{}, nil
	}

	entries, err := pages.BuildEntries(spec.Key, spec.Processed, pages.Options{Per: per, GroupBy: groupBy})
	if err != nil {
		return errResult(err), pagesOutput{}, nil
	}

	paths := pages.NewPathSet()
	summaries := make([]pageSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, pageSummary{
			Path:        paths.Reserve(e.PathSegments),
			Title:       e.Title,
			Description: e.Description,
			Channel:     e.Meta.Channel,
			Direction:   string(e.Meta.Direction),
			OperationID: e.Meta.OperationID,
			Tags:        e.Tags,
		})
	}

	page := paginate(summaries, input.Offset, input.Limit)
	return nil, pagesOutput{
		Document: spec.Key,
		Per:      string(per),
		GroupBy:  string(groupBy),
		Total:    len(summaries),
		Returned: len(page),
		Pages:    page,
	}, nil
}
