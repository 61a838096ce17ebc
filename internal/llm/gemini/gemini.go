package gemini

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
	"google.golang.org/genai"
)

var harmCategories = map[string]genai.HarmCategory{
	"HARASSMENT":  genai.HarmCategoryHarassment,
	"HATE_SPEECH": genai.HarmCategoryHateSpeech,
	"SEXUAL":      genai.HarmCategorySexuallyExplicit,
	"DANGEROUS":   genai.HarmCategoryDangerousContent,
}

var blockThresholds = map[string]genai.HarmBlockThreshold{
	"block_none":             genai.HarmBlockThresholdBlockNone,
	"block_only_high":        genai.HarmBlockThresholdBlockOnlyHigh,
	"block_medium_and_above": genai.HarmBlockThresholdBlockMediumAndAbove,
	"block_low_and_above":    genai.HarmBlockThresholdBlockLowAndAbove,
	"off":                    genai.HarmBlockThresholdOff,
}

// DefaultSafety only blocks high-confidence violations.
func DefaultSafety() map[string]string {
	return map[string]string{
		"HARASSMENT":  "block_only_high",
		"HATE_SPEECH": "block_only_high",
		"SEXUAL":      "block_only_high",
		"DANGEROUS":   "block_only_high",
	}
}

// SafetySettings converts category/threshold names into genai settings, ordered by category.
func SafetySettings(rules map[string]string) ([]*genai.SafetySetting, error) {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	settings := make([]*genai.SafetySetting, 0, len(rules))
	for _, name := range names {
		category, ok := harmCategories[strings.ToUpper(name)]
		if !ok {
			return nil, fmt.Errorf("unknown harm category %q", name)
		}

		threshold, ok := blockThresholds[strings.ToLower(rules[name])]
		if !ok {
			return nil, fmt.Errorf("unknown block threshold %q for category %s", rules[name], name)
		}

		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}

	return settings, nil
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	output, err := c.models.GenerateContent(ctx, c.modelID, genai.Text(request.Prompt), c.generateConfig(request))
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gemini model: %w", err)
	}

	if output.PromptFeedback != nil && output.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked by gemini: %s", output.PromptFeedback.BlockReason)
	}

	content := output.Text()
	if strings.TrimSpace(content) == "" {
		return nil, llm.ErrEmptyResponse
	}

	var stopReason string
	if len(output.Candidates) > 0 {
		stopReason = string(output.Candidates[0].FinishReason)
	}

	return &llm.LLMResponse{
		Content:    content,
		StopReason: stopReason,
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return llm.Retry(ctx, c.retry, func(ctx context.Context) (*llm.LLMResponse, error) {
		return c.InvokeModel(ctx, request)
	})
}

func (c *Client) generateConfig(request llm.LLMRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(float32(request.Temperature)),
		SafetySettings: c.safetySettings,
	}

	if request.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(request.MaxTokens)
	}
	if request.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(request.TopP))
	}
	if request.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(request.TopK))
	}

	return cfg
}
