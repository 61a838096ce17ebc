package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
)

type Client struct {
	Client  openai.Client
	ModelID string
	Retry   llm.RetryConfig
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	// retries are handled by llm.Retry so the SDK must not retry on its own
	openaiClient := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &Client{
		Client:  openaiClient,
		ModelID: model,
		Retry:   llm.DefaultRetryConfig(),
	}, nil
}

func (c *Client) Model() string {
	return c.ModelID
}
