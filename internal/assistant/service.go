package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/normalizer"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/prompt"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/ratelimit"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyQuestion      = errors.New("No question provided")
	ErrRateLimited        = errors.New("too many requests")
	ErrBackendUnavailable = errors.New("code generation backend unavailable")
)

const maxLoggedQuestion = 80

type Answer struct {
	Answer string
	Tier   normalizer.Tier
	Model  string
}

// Service turns a question into a presentable code answer. It keeps no state
// between calls.
type Service struct {
	llmClient  llm.LLMClient
	builder    *prompt.Builder
	normalizer *normalizer.Normalizer
	limiter    ratelimit.Limiter
	params     llm.GenerationParams
	logger     *zerolog.Logger
}

func NewService(
	llmClient llm.LLMClient,
	builder *prompt.Builder,
	normalizer *normalizer.Normalizer,
	limiter ratelimit.Limiter,
	params llm.GenerationParams,
	logger *zerolog.Logger,
) *Service {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	return &Service{
		llmClient:  llmClient,
		builder:    builder,
		normalizer: normalizer,
		limiter:    limiter,
		params:     params,
		logger:     logger,
	}
}

func (s *Service) Model() string {
	return s.llmClient.Model()
}

func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	allowed, err := s.limiter.Allow(ctx)
	if err != nil {
		// fail open, the limiter only protects the backend quota
		s.logger.Warn().Err(err).Msg("Rate limiter unavailable")
	} else if !allowed {
		return nil, ErrRateLimited
	}

	start := time.Now()
	request := s.params.Request(s.builder.Build(question))

	var resp *llm.LLMResponse
	if s.params.Retry {
		resp, err = s.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = s.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("model", s.llmClient.Model()).
			Str("question", truncate(question, maxLoggedQuestion)).
			Msg("LLM call failed")
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	result := s.normalizer.Extract(resp.Content)

	s.logger.Info().
		Str("model", s.llmClient.Model()).
		Str("question", truncate(question, maxLoggedQuestion)).
		Str("tier", string(result.Tier)).
		Str("stop_reason", resp.StopReason).
		Int("raw_length", len(resp.Content)).
		Dur("duration", time.Since(start)).
		Msg("Answer generated")

	return &Answer{
		Answer: result.Answer,
		Tier:   result.Tier,
		Model:  s.llmClient.Model(),
	}, nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
