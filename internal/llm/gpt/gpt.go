package gpt

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
)

// buildParams maps a request onto chat completion params. OpenAI has no top-k
// sampling, so TopK is dropped.
func (c *Client) buildParams(request llm.LLMRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		Temperature: openai.Float(request.Temperature),
		Model:       openai.ChatModel(c.ModelID),
	}

	if request.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(request.MaxTokens))
	}
	if request.TopP > 0 {
		params.TopP = openai.Float(request.TopP)
	}

	return params
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	output, err := c.Client.Chat.Completions.New(ctx, c.buildParams(request))
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gpt model: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	response := output.Choices[0]
	if strings.TrimSpace(response.Message.Content) == "" {
		return nil, llm.ErrEmptyResponse
	}

	return &llm.LLMResponse{
		Content:    response.Message.Content,
		StopReason: string(response.FinishReason),
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return llm.Retry(ctx, c.Retry, func(ctx context.Context) (*llm.LLMResponse, error) {
		return c.InvokeModel(ctx, request)
	})
}
