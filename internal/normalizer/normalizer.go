package normalizer

import (
	"regexp"
	"strings"
)

// Tier identifies which strategy resolved a response.
type Tier string

const (
	TierFenced    Tier = "fenced"
	TierHeuristic Tier = "heuristic"
	TierPlain     Tier = "plain"
)

const DefaultLanguage = "python"

// DefaultIndicators are the substrings that mark an unfenced response as code.
var DefaultIndicators = []string{"import ", "def ", "plt.", "np.", "pd.", "__name__"}

// fencedBlock matches a ``` fence with an optional tag. The interior must be
// separated from both fences by at least one line break.
var fencedBlock = regexp.MustCompile("```[^\\s`]*[ \\t]*[\\r\\n]+([\\s\\S]*?)[\\r\\n]+```")

type Config struct {
	Language   string   `yaml:"language"`
	Indicators []string `yaml:"indicators"`
}

type Result struct {
	Answer string
	Tier   Tier
}

// Normalizer turns free-form model output into a canonical fenced block or plain text.
// It is immutable and safe for concurrent use.
type Normalizer struct {
	language   string
	indicators []string
}

func NewNormalizer(cfg Config) *Normalizer {
	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}

	indicators := cfg.Indicators
	if indicators == nil {
		indicators = DefaultIndicators
	}

	return &Normalizer{
		language:   language,
		indicators: append([]string(nil), indicators...),
	}
}

func (n *Normalizer) Normalize(raw string) string {
	return n.Extract(raw).Answer
}

// Extract applies the fenced, heuristic and plain strategies in that order.
func (n *Normalizer) Extract(raw string) Result {
	if match := fencedBlock.FindStringSubmatch(raw); match != nil {
		return Result{
			Answer: n.fence(strings.TrimSpace(match[1])),
			Tier:   TierFenced,
		}
	}

	if n.looksLikeCode(raw) {
		return Result{
			Answer: n.fence(unquote(strings.TrimSpace(raw))),
			Tier:   TierHeuristic,
		}
	}

	return Result{
		Answer: strings.TrimSpace(raw),
		Tier:   TierPlain,
	}
}

func (n *Normalizer) Language() string {
	return n.language
}

func (n *Normalizer) Indicators() []string {
	return append([]string(nil), n.indicators...)
}

func (n *Normalizer) looksLikeCode(text string) bool {
	for _, indicator := range n.indicators {
		if indicator != "" && strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

func (n *Normalizer) fence(code string) string {
	return "```" + n.language + "\n" + code + "\n```"
}

// unquote removes one layer of matching single or double quotes.
func unquote(text string) string {
	if len(text) < 2 {
		return text
	}

	first, last := text[0], text[len(text)-1]
	if first == last && (first == '"' || first == '\'') {
		return text[1 : len(text)-1]
	}
	return text
}
