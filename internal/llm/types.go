package llm

import "errors"

var ErrEmptyResponse = errors.New("model returned an empty response")

type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
	TopK        int
}

type LLMResponse struct {
	Content    string
	StopReason string
}

// GenerationParams are the sampling settings applied to every request.
type GenerationParams struct {
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	TopK            int
	Retry           bool
}

func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		MaxOutputTokens: 2048,
		Temperature:     0.4,
		TopP:            0.9,
		TopK:            50,
		Retry:           true,
	}
}

func (p GenerationParams) Request(prompt string) LLMRequest {
	return LLMRequest{
		Prompt:      prompt,
		MaxTokens:   p.MaxOutputTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
		TopK:        p.TopK,
	}
}
