package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/assistant"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/normalizer"
)

const ToolName = "generate_code"

// GenerateInput is the MCP tool input schema (matches the HTTP API field name).
type GenerateInput struct {
	Question string `json:"question" jsonschema:"natural-language data-science question"`
}

type GenerateOutput struct {
	Answer string          `json:"answer" jsonschema:"normalized code snippet or plain-text answer"`
	Tier   normalizer.Tier `json:"tier" jsonschema:"extraction strategy that produced the answer: fenced, heuristic or plain"`
	Model  string          `json:"model" jsonschema:"backend model ID"`
}

// NewGenerateHandler returns a tool handler backed by the given service.
// Pass the returned function to mcp.AddTool.
func NewGenerateHandler(service *assistant.Service) func(context.Context, *mcp.CallToolRequest, GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
		return GenerateCode(ctx, service, req, input)
	}
}

func GenerateCode(
	ctx context.Context,
	service *assistant.Service,
	req *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	answer, err := service.Ask(ctx, input.Question)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	return nil, GenerateOutput{
		Answer: answer.Answer,
		Tier:   answer.Tier,
		Model:  answer.Model,
	}, nil
}

func NewServer(service *assistant.Service, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ds-assistant",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Generate a short, runnable Python snippet for a data-science task",
	}, NewGenerateHandler(service))

	return server
}
