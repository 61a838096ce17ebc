package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/assistant"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/config"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm/gemini"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm/mock"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/normalizer"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/prompt"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/ratelimit"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	ProviderMock    = "mock"
)

const rateLimitKeyPrefix = "ds-assistant:ratelimit"

type Config struct {
	Provider       string
	GeminiAPIKey   string
	GeminiModelID  string
	AWSRegion      string
	ClaudeModelID  string
	OpenAIKey      string
	OpenAIModelID  string
	Host           string
	Port           int
	LogLevel       string
	MockDelay      time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	RedisAddr      string
	RedisPassword  string
}

type Dependencies struct {
	Service        *assistant.Service
	AllowedOrigins []string
	Logger         *zerolog.Logger
	redisClient    *goredis.Client
}

func LoadConfig() *Config {
	return &Config{
		Provider:       getEnv("LLM_PROVIDER", ProviderGemini),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", gemini.DefaultModelID),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:  getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:      getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:  getEnv("OPEN_AI_MODEL_ID", ""),
		Host:           getEnv("ASSISTANT_HOST", "127.0.0.1"),
		Port:           getEnvInt("ASSISTANT_PORT", 5050),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MockDelay:      getEnvDuration("MOCK_DELAY", time.Second),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 1),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	assistantConfig, err := config.LoadAssistantConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load assistant config: %w", err)
	}

	llmClient, err := createLLMClient(ctx, cfg, assistantConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	deps := &Dependencies{
		AllowedOrigins: assistantConfig.CORS.AllowedOrigins,
		Logger:         logger,
	}

	limiter, err := deps.createLimiter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	builder := prompt.NewBuilder(assistantConfig.Prompt)
	answerNormalizer := normalizer.NewNormalizer(assistantConfig.Normalizer)

	deps.Service = assistant.NewService(
		llmClient,
		builder,
		answerNormalizer,
		limiter,
		assistantConfig.GenerationParams(),
		logger,
	)

	logger.Info().
		Str("provider", cfg.Provider).
		Str("model", llmClient.Model()).
		Int("preamble_length", len(builder.Preamble())).
		Bool("custom_preamble", builder.Preamble() != prompt.DefaultPreamble).
		Str("language", answerNormalizer.Language()).
		Strs("indicators", answerNormalizer.Indicators()).
		Msg("Assistant wired")

	return deps, nil
}

// Close releases connections opened by Wire.
func (d *Dependencies) Close() error {
	if d.redisClient != nil {
		return d.redisClient.Close()
	}
	return nil
}

func (d *Dependencies) createLimiter(ctx context.Context, cfg *Config) (ratelimit.Limiter, error) {
	if cfg.RateLimitRPS <= 0 {
		return ratelimit.Unlimited{}, nil
	}

	if cfg.RedisAddr == "" {
		return ratelimit.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 5, d.Logger)
	if err != nil {
		return nil, err
	}
	d.redisClient = client

	limit := int(cfg.RateLimitRPS)
	if limit < 1 {
		limit = 1
	}
	return ratelimit.NewRedisLimiter(client, rateLimitKeyPrefix, limit)
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, cfg *Config, assistantConfig *config.AssistantConfig) (llm.LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			ModelID: cfg.GeminiModelID,
			Safety:  assistantConfig.Safety,
			Retry:   llm.DefaultRetryConfig(),
		})
	case ProviderBedrock:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case ProviderOpenAI:
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	case ProviderMock:
		return mock.NewClient(cfg.MockDelay), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
