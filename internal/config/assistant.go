package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm/gemini"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/normalizer"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/prompt"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "configs/assistant.yaml"

var DefaultAllowedOrigins = []string{
	"chrome-extension://*",
	"moz-extension://*",
	"http://localhost:*",
	"http://127.0.0.1:*",
}

// AssistantConfig is the optional YAML file tuning prompt, extraction and backend behaviour.
type AssistantConfig struct {
	Prompt     prompt.Config     `yaml:"prompt"`
	Normalizer normalizer.Config `yaml:"normalizer"`
	Generation GenerationConfig  `yaml:"generation"`
	Safety     map[string]string `yaml:"safety"`
	CORS       CORSConfig        `yaml:"cors"`
}

// GenerationConfig uses pointers so an explicit zero survives applyDefaults.
type GenerationConfig struct {
	MaxOutputTokens *int     `yaml:"max_output_tokens"`
	Temperature     *float64 `yaml:"temperature"`
	TopP            *float64 `yaml:"top_p"`
	TopK            *int     `yaml:"top_k"`
	Retry           *bool    `yaml:"retry"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoadAssistantConfig reads ASSISTANT_CONFIG_PATH, or configs/assistant.yaml when
// unset. A missing default file yields the built-in defaults.
func LoadAssistantConfig() (*AssistantConfig, error) {
	path := os.Getenv("ASSISTANT_CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			data = nil
		} else {
			return nil, fmt.Errorf("read assistant config %q: %w", path, err)
		}
	}

	return ParseAssistantConfig(data)
}

func ParseAssistantConfig(data []byte) (*AssistantConfig, error) {
	var cfg AssistantConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal assistant config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *AssistantConfig) {
	defaults := llm.DefaultGenerationParams()

	if cfg.Generation.MaxOutputTokens == nil {
		cfg.Generation.MaxOutputTokens = &defaults.MaxOutputTokens
	}
	if cfg.Generation.Temperature == nil {
		cfg.Generation.Temperature = &defaults.Temperature
	}
	if cfg.Generation.TopP == nil {
		cfg.Generation.TopP = &defaults.TopP
	}
	if cfg.Generation.TopK == nil {
		cfg.Generation.TopK = &defaults.TopK
	}
	if cfg.Generation.Retry == nil {
		cfg.Generation.Retry = &defaults.Retry
	}

	if cfg.Normalizer.Language == "" {
		cfg.Normalizer.Language = normalizer.DefaultLanguage
	}
	if cfg.Normalizer.Indicators == nil {
		cfg.Normalizer.Indicators = append([]string(nil), normalizer.DefaultIndicators...)
	}

	if len(cfg.Safety) == 0 {
		cfg.Safety = gemini.DefaultSafety()
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}
}

func (c *AssistantConfig) Validate() error {
	gen := c.Generation
	if *gen.MaxOutputTokens <= 0 {
		return fmt.Errorf("generation.max_output_tokens must be positive, got %d", *gen.MaxOutputTokens)
	}
	if *gen.Temperature < 0 || *gen.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be within [0, 2], got %f", *gen.Temperature)
	}
	if *gen.TopP <= 0 || *gen.TopP > 1 {
		return fmt.Errorf("generation.top_p must be within (0, 1], got %f", *gen.TopP)
	}
	if *gen.TopK < 0 {
		return fmt.Errorf("generation.top_k must not be negative, got %d", *gen.TopK)
	}

	if strings.ContainsAny(c.Normalizer.Language, " \t\r\n`") {
		return fmt.Errorf("normalizer.language %q must be a single word", c.Normalizer.Language)
	}

	if _, err := gemini.SafetySettings(c.Safety); err != nil {
		return fmt.Errorf("safety: %w", err)
	}

	return nil
}

func (c *AssistantConfig) GenerationParams() llm.GenerationParams {
	return llm.GenerationParams{
		MaxOutputTokens: *c.Generation.MaxOutputTokens,
		Temperature:     *c.Generation.Temperature,
		TopP:            *c.Generation.TopP,
		TopK:            *c.Generation.TopK,
		Retry:           *c.Generation.Retry,
	}
}
