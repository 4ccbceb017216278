package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/asyncdocs/preview"
	"github.com/erraggy/asyncdocs/wsclient"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type exampleInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The AsyncAPI document containing the operation"`
	OperationID string    `json:"operation_id,omitempty" jsonschema:"Operation id or operationId"`
	Channel     string    `json:"channel,omitempty"      jsonschema:"Channel name, used with direction when operation_id is not set"`
	Direction   string    `json:"direction,omitempty"    jsonschema:"publish or subscribe; optional with channel"`
}

type exampleServer struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	WebSocketURL string `json:"websocket_url,omitempty"`
}

type exampleOutput struct {
	Channel     string          `json:"channel"`
	Direction   string          `json:"direction"`
	OperationID string          `json:"operation_id,omitempty"`
	Tabs        []preview.Tab   `json:"tabs,omitempty"`
	Servers     []exampleServer `json:"servers,omitempty"`
}

func handleExample(ctx context.Context, _ *mcp.CallToolRequest, input exampleInput) (*mcp.CallToolResult, exampleOutput, error) {
	if input.OperationID == "" && input.Channel == "" {
		return errResult(fmt.Errorf("one of operation_id or channel must be provided")), exampleOutput{}, nil
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), exampleOutput{}, nil
	}

	op := preview.FindOperation(spec.Processed, input.OperationID, input.Channel, input.Direction)
	if op == nil {
		return errResult(fmt.Errorf("no operation matches operation_id %q, channel %q, direction %q",
			input.OperationID, input.Channel, input.Direction)), exampleOutput{}, nil
	}

	output := exampleOutput{
		Channel:     op.Channel,
		Direction:   string(op.Direction),
		OperationID: firstNonEmpty(op.OperationID, op.ID),
		Tabs:        preview.Tabs(op),
	}
	for _, name := range op.Servers {
		s := spec.Processed.Server(name)
		if s == nil {
			continue
		}
		es := exampleServer{Name: s.Name, URL: s.URL}
		if u, ok := wsclient.WebSocketURL(*s); ok {
			es.WebSocketURL = u
		}
		output.Servers = append(output.Servers, es)
	}
	return nil, output, nil
}
