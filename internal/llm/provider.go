package llm

import (
	"context"
	"fmt"

	"github.com/ramckay/voiceloom/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative voice summary with strict quote mode
	Summarize(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for LLM summarization
type Request struct {
	// Analysis is the completed voice analysis to narrate
	Analysis *model.Analysis

	// AllowedQuotes is the STRICT allowlist of dialogue lines the LLM can
	// quote. This prevents hallucination: the model cannot cite any passage
	// not actually attributed in the manuscript.
	AllowedQuotes []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the LLM's summary output
type Response struct {
	// Summary is the generated narrative text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictQuotes enforces the dialogue allowlist (should always be true)
	StrictQuotes bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:     "", // Disabled by default
		Model:        "",
		Timeout:      30,
		StrictQuotes: true, // Always enforce
		MaxTokens:    1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:     mc.Provider,
		Model:        mc.Model,
		APIKey:       mc.APIKey,
		BaseURL:      mc.BaseURL,
		Timeout:      mc.Timeout,
		StrictQuotes: mc.StrictQuotes,
		MaxTokens:    mc.MaxTokens,
	}
}

// BuildPrompt constructs the default prompt with strict quote mode.
// The summary describes voice consistency; it never rewrites dialogue and it
// never affects any score.
func BuildPrompt(analysis *model.Analysis, allowedQuotes []string) string {
	prompt := fmt.Sprintf(`You are narrating a character voice consistency report for a fiction manuscript.

CRITICAL RULES:
1. You may ONLY quote dialogue from this allowed list:
%s

2. DO NOT invent, paraphrase-as-quote, or cite any passage not in this list.
3. Describe each character's voice in terms of the four dimensions:
   vocabulary level, sentence structure, verbal tics, formality.
4. Describe CONSISTENCY, not quality. Never judge the writing.
5. If a character has insufficient dialogue, state that explicitly.

Analysis summary:
- Characters: %d
- Dialogue spans: %d (%d unresolved)
- Flags: %d

Characters:
`, joinQuotes(allowedQuotes), len(analysis.Characters), analysis.Stats.DialogueSpans,
		analysis.Stats.UnresolvedSpans, len(analysis.Flags))

	for _, c := range analysis.Characters {
		prompt += fmt.Sprintf("- %s: score %d/100, %d lines, %d flags",
			c.Name, c.Score, len(c.Lines), len(analysis.CharacterFlags(c.ID)))
		if prof, ok := analysis.Profiles[c.ID]; ok {
			prompt += fmt.Sprintf(" (%s; %s)", prof.Formality.Summary, prof.Vocabulary.Summary)
		} else {
			prompt += " (insufficient dialogue to profile)"
		}
		prompt += "\n"
	}

	prompt += "\nProvide a short per-character narrative of voice consistency, 2-3 sentences each."
	return prompt
}

func joinQuotes(quotes []string) string {
	if len(quotes) == 0 {
		return "(No dialogue available)"
	}
	result := ""
	for i, q := range quotes {
		if i >= 40 { // Limit to avoid token bloat
			result += fmt.Sprintf("\n... and %d more lines", len(quotes)-40)
			break
		}
		result += fmt.Sprintf("\n- %q", q)
	}
	return result
}
