package gemini

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
	"google.golang.org/genai"
)

const DefaultModelID = "gemini-2.0-flash"

// generator is the subset of *genai.Models used by the client.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey  string
	ModelID string
	// Safety maps a harm category (HARASSMENT, HATE_SPEECH, SEXUAL, DANGEROUS) to a
	// block threshold (block_only_high, block_medium_and_above, ...).
	Safety map[string]string
	Retry  llm.RetryConfig
}

type Client struct {
	models         generator
	modelID        string
	safetySettings []*genai.SafetySetting
	retry          llm.RetryConfig
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newClient(genaiClient.Models, cfg)
}

func newClient(models generator, cfg Config) (*Client, error) {
	safety, err := SafetySettings(cfg.Safety)
	if err != nil {
		return nil, err
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = DefaultModelID
	}

	retry := cfg.Retry
	if retry.Attempts == 0 {
		retry = llm.DefaultRetryConfig()
	}

	return &Client{
		models:         models,
		modelID:        modelID,
		safetySettings: safety,
		retry:          retry,
	}, nil
}

func (c *Client) Model() string {
	return c.modelID
}
