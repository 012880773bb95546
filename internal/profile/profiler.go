package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ramckay/voiceloom/internal/model"
)

// Profiler aggregates a character's attributed dialogue into a four-dimension
// baseline descriptor. Baselines use only the character's own line
// population; there is no cross-character normalization.
type Profiler struct {
	cfg model.ProfilerConfig
}

// NewProfiler creates a profiler
func NewProfiler(cfg model.ProfilerConfig) *Profiler {
	return &Profiler{cfg: cfg}
}

// MinLines returns the profiling threshold
func (p *Profiler) MinLines() int {
	return p.cfg.MinLines
}

// Build computes the full profile for a character. Returns (nil, false) when
// the character has too few attributed lines to profile. Given the same
// dialogue set, Build produces bit-identical baselines on every run.
func (p *Profiler) Build(c *model.Character) (*model.VoiceProfile, bool) {
	if len(c.Lines) < p.cfg.MinLines {
		return nil, false
	}

	texts := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		texts[i] = l.Text
	}
	tics := DetectTics(texts, 5)
	ticSet := TicSet(tics)

	prof := &model.VoiceProfile{CharacterID: c.ID, TicTokens: tics}
	for _, d := range model.AllDimensions() {
		metrics := make([]float64, len(c.Lines))
		for i, l := range c.Lines {
			metrics[i] = LineMetric(d, l.Text, ticSet)
		}
		mean, std := meanStdDev(metrics)
		prof.SetDim(d, model.Baseline{
			Mean:    mean,
			StdDev:  std,
			Summary: p.summarize(d, mean, tics),
			Quotes:  p.representativeQuotes(c.Lines, metrics),
		})
	}
	return prof, true
}

// summarize renders the per-dimension summary statistic for display
func (p *Profiler) summarize(d model.Dimension, mean float64, tics []model.TicToken) string {
	switch d {
	case model.DimVocabulary:
		return fmt.Sprintf("Average word length: %.1f characters", mean)
	case model.DimSentence:
		return fmt.Sprintf("Average clauses per sentence: %.1f", mean)
	case model.DimTics:
		if len(tics) == 0 {
			return "Recurring patterns: none detected"
		}
		tokens := make([]string, len(tics))
		for i, t := range tics {
			tokens[i] = t.Token
		}
		return "Recurring patterns: " + strings.Join(tokens, ", ")
	case model.DimFormality:
		return fmt.Sprintf("Overall formality: %s (index %.2f)", formalityLabel(mean), mean)
	}
	return ""
}

func formalityLabel(mean float64) string {
	switch {
	case mean >= 0.65:
		return "formal"
	case mean <= 0.35:
		return "informal"
	default:
		return "neutral"
	}
}

// representativeQuotes selects up to MaxQuotes lines, most dimension-typical
// (highest metric) first. Ties break on earliest Location, then start offset,
// keeping selection deterministic. Duplicate texts collapse to their first
// occurrence.
func (p *Profiler) representativeQuotes(lines []model.DialogueLine, metrics []float64) []string {
	type cand struct {
		line   model.DialogueLine
		metric float64
	}
	seen := make(map[string]struct{})
	cands := make([]cand, 0, len(lines))
	for i, l := range lines {
		if _, dup := seen[l.Text]; dup {
			continue
		}
		seen[l.Text] = struct{}{}
		cands = append(cands, cand{line: l, metric: metrics[i]})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].metric != cands[j].metric {
			return cands[i].metric > cands[j].metric
		}
		if cands[i].line.Location != cands[j].line.Location {
			return cands[i].line.Location.Before(cands[j].line.Location)
		}
		return cands[i].line.Start < cands[j].line.Start
	})

	n := len(cands)
	if n > p.cfg.MaxQuotes {
		n = p.cfg.MaxQuotes
	}
	quotes := make([]string, n)
	for i := 0; i < n; i++ {
		quotes[i] = cands[i].line.Text
	}
	return quotes
}

// meanStdDev returns the mean and population standard deviation
func meanStdDev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	varSum := 0.0
	for _, x := range xs {
		d := x - mean
		varSum += d * d
	}
	return mean, math.Sqrt(varSum / float64(len(xs)))
}
