package llm

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ramckay/voiceloom/internal/model"
)

// Limiter throttles requests per provider. Implementations key on the
// provider name so several analyses can share one budget.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Summary is the optional narrative layer on top of an analysis.
// It never feeds back into scores or flags.
type Summary struct {
	Enabled      bool      `json:"enabled"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model,omitempty"`
	StrictQuotes bool      `json:"strict_quotes"`
	SummaryMD    string    `json:"summary_md,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
	GeneratedAt  time.Time `json:"generated_at,omitempty"`
	TokensUsed   int       `json:"tokens_used,omitempty"`
}

// Summarizer turns a finished analysis into a prose voice report.
type Summarizer struct {
	config   Config
	provider Provider
	limiter  Limiter
}

// NewSummarizer creates a summarizer from config. A config with no
// provider yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return &Summarizer{config: config, provider: provider}, nil
}

// SetLimiter installs a rate limiter. Nil disables throttling.
func (s *Summarizer) SetLimiter(l Limiter) {
	s.limiter = l
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary asks the provider for a narrative built only from the
// representative quotes already selected by the profiler.
func (s *Summarizer) GenerateSummary(ctx context.Context, analysis *model.Analysis) (*Summary, error) {
	if !s.IsEnabled() {
		return &Summary{Enabled: false, StrictQuotes: s.config.StrictQuotes}, nil
	}
	if analysis == nil {
		return nil, fmt.Errorf("nil analysis")
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	allowed := AllowedQuotes(analysis)
	resp, err := s.provider.Summarize(ctx, Request{
		Analysis:      analysis,
		AllowedQuotes: allowed,
		Model:         s.config.Model,
		MaxTokens:     s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	summary := &Summary{
		Enabled:      true,
		Provider:     s.provider.Name(),
		Model:        resp.Model,
		StrictQuotes: s.config.StrictQuotes,
		SummaryMD:    resp.Summary,
		GeneratedAt:  time.Now().UTC(),
		TokensUsed:   resp.TokensUsed,
	}

	if s.config.StrictQuotes {
		summary.Warnings = verifyQuotes(resp.Summary, allowed)
	}
	return summary, nil
}

// AllowedQuotes collects every representative quote from every profile
// dimension, deduplicated and sorted for a stable prompt.
func AllowedQuotes(analysis *model.Analysis) []string {
	seen := make(map[string]struct{})
	var quotes []string
	for _, profile := range analysis.Profiles {
		if profile == nil {
			continue
		}
		for _, d := range model.AllDimensions() {
			base := profile.Dim(d)
			for _, q := range base.Quotes {
				q = strings.TrimSpace(q)
				if q == "" {
					continue
				}
				if _, ok := seen[q]; ok {
					continue
				}
				seen[q] = struct{}{}
				quotes = append(quotes, q)
			}
		}
	}
	sort.Strings(quotes)
	return quotes
}

var quotedTextRE = regexp.MustCompile(`["“]([^"“”]{4,})["”]`)

// verifyQuotes flags any quoted passage in the model output that is not
// present verbatim in the allowlist. Leaks are reported, not redacted,
// so collaborators can see exactly what the model fabricated.
func verifyQuotes(output string, allowed []string) []string {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, q := range allowed {
		allowedSet[normalizeQuote(q)] = struct{}{}
	}

	var warnings []string
	seen := make(map[string]struct{})
	for _, m := range quotedTextRE.FindAllStringSubmatch(output, -1) {
		candidate := normalizeQuote(m[1])
		if candidate == "" {
			continue
		}
		if _, ok := allowedSet[candidate]; ok {
			continue
		}
		if substringOfAllowed(candidate, allowed) {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		warnings = append(warnings, fmt.Sprintf("quote not in source dialogue: %q", m[1]))
	}
	return warnings
}

// substringOfAllowed accepts partial quotations of an allowed line.
func substringOfAllowed(candidate string, allowed []string) bool {
	for _, q := range allowed {
		if strings.Contains(normalizeQuote(q), candidate) {
			return true
		}
	}
	return false
}

func normalizeQuote(q string) string {
	q = strings.TrimSpace(q)
	q = strings.Trim(q, `"'“”‘’`)
	q = strings.TrimRight(q, ".,!?;:")
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// RenderSeparateMarkdown formats the summary as a standalone document,
// kept apart from the deterministic report on purpose.
func RenderSeparateMarkdown(summary *Summary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Voice Summary (LLM-generated)\n\n")
	fmt.Fprintf(&b, "> Generated by %s", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, " (%s)", summary.Model)
	}
	if !summary.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, " at %s", summary.GeneratedAt.Format(time.RFC3339))
	}
	b.WriteString(".\n> This narrative does not affect consistency scores.\n\n")

	b.WriteString(summary.SummaryMD)
	b.WriteString("\n")

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
