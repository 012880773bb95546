package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all engine and collaborator-layer configuration
type Config struct {
	Resolver    ResolverConfig    `yaml:"resolver" validate:"required"`
	Profiler    ProfilerConfig    `yaml:"profiler" validate:"required"`
	Scorer      ScorerConfig      `yaml:"scorer" validate:"required"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" validate:"required"`
	Session     SessionConfig     `yaml:"session" validate:"required"`
	LLM         LLMConfig         `yaml:"llm"`
	Loader      LoaderConfig      `yaml:"loader"`
	Output      OutputConfig      `yaml:"output"`
}

// ResolverConfig controls character resolution and alias merging
type ResolverConfig struct {
	// AttributionVerbs is the closed set of verbs recognized next to quotes
	AttributionVerbs []string `yaml:"attribution_verbs" validate:"min=1"`
	// MinDialogueLines is the minimum attributed lines for a character to be
	// surfaced at all; characters below it are still created
	MinDialogueLines int `yaml:"min_dialogue_lines" validate:"min=1"`
}

// ProfilerConfig controls voice profile generation
type ProfilerConfig struct {
	// MinLines is the minimum attributed lines needed to build a profile;
	// characters below it are marked insufficient_data
	MinLines int `yaml:"min_lines" validate:"min=1"`
	// MaxQuotes caps representative quotes retained per dimension
	MaxQuotes int `yaml:"max_quotes" validate:"min=1,max=10"`
	// WarnBelowLines attaches a low-data warning to characters profiled from
	// fewer lines than this
	WarnBelowLines int `yaml:"warn_below_lines" validate:"min=1"`
}

// DimensionValues holds one float per voice dimension
type DimensionValues struct {
	Vocabulary float64 `yaml:"vocabulary_level" validate:"gt=0"`
	Sentence   float64 `yaml:"sentence_structure" validate:"gt=0"`
	Tics       float64 `yaml:"verbal_tics" validate:"gt=0"`
	Formality  float64 `yaml:"formality" validate:"gt=0"`
}

// For returns the value for the given dimension
func (v DimensionValues) For(d Dimension) float64 {
	switch d {
	case DimVocabulary:
		return v.Vocabulary
	case DimSentence:
		return v.Sentence
	case DimTics:
		return v.Tics
	case DimFormality:
		return v.Formality
	}
	return 0
}

// ScorerConfig controls deviation thresholds per dimension
type ScorerConfig struct {
	// Thresholds are the per-dimension deviation cutoffs; severity bands are
	// [t,2t) low, [2t,3t) medium, >=3t high
	Thresholds DimensionValues `yaml:"thresholds" validate:"required"`
	// Floors bound the standard deviation from below so zero-variance voices
	// never flag themselves
	Floors DimensionValues `yaml:"floors" validate:"required"`
	// MinDeviations gate flags on a minimum absolute distance from the
	// baseline mean. The line metrics move in coarse steps (marker words,
	// clause counts), so small wobble must never flag a consistent voice.
	MinDeviations DimensionValues `yaml:"min_deviations" validate:"required"`
}

// ConcurrencyConfig controls chapter-level parallelism during extraction
type ConcurrencyConfig struct {
	ChapterWorkers int `yaml:"chapter_workers" validate:"min=1"`
}

// SessionConfig controls the in-memory analysis session store
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" validate:"min=1m"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" validate:"min=1m"`
}

// LLMConfig controls the optional narrative summarizer.
// The summarizer never affects any score.
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // openai, anthropic, ollama, or "" (disabled)
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url"`
	Timeout           int     `yaml:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens"`
	StrictQuotes      bool    `yaml:"strict_quotes"` // Restrict citations to the character's own lines
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// LoaderConfig controls manuscript loading
type LoaderConfig struct {
	// MaxFileBytes rejects manuscripts larger than this; non-positive
	// values fall back to the loader default
	MaxFileBytes int64 `yaml:"max_file_bytes"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the engine defaults
func DefaultConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			AttributionVerbs: []string{
				"said", "asked", "replied", "whispered", "exclaimed",
				"shouted", "called", "answered", "responded", "added",
				"continued", "muttered", "murmured",
			},
			MinDialogueLines: 1,
		},
		Profiler: ProfilerConfig{
			MinLines:       3,
			MaxQuotes:      5,
			WarnBelowLines: 20,
		},
		Scorer: ScorerConfig{
			Thresholds: DimensionValues{
				Vocabulary: 1.5,
				Sentence:   1.5,
				Tics:       1.5,
				Formality:  0.6,
			},
			Floors: DimensionValues{
				Vocabulary: 0.8,  // characters of mean word length
				Sentence:   0.75, // clauses per sentence
				Tics:       0.08, // tic-token density
				Formality:  0.15, // formality index
			},
			MinDeviations: DimensionValues{
				Vocabulary: 1.5,  // characters of mean word length
				Sentence:   1.5,  // clauses per sentence
				Tics:       0.25, // tic-token density
				Formality:  0.35, // one marker word shifts the index by 0.25
			},
		},
		Concurrency: ConcurrencyConfig{
			ChapterWorkers: 4,
		},
		Session: SessionConfig{
			TTL:             2 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:          "", // Disabled by default
			Timeout:           30,
			MaxTokens:         1000,
			StrictQuotes:      true,
			RequestsPerSecond: 1,
		},
		Loader: LoaderConfig{
			MaxFileBytes: 10 << 20,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// Validate checks the configuration for structural problems
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
