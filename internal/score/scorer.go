package score

import (
	"github.com/google/uuid"
	"github.com/ramckay/voiceloom/internal/model"
	"github.com/ramckay/voiceloom/internal/profile"
)

// Scorer compares each dialogue line against its character's own baseline and
// emits consistency flags for outliers.
type Scorer struct {
	cfg model.ScorerConfig
}

// NewScorer creates a scorer
func NewScorer(cfg model.ScorerConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Flags evaluates every attributed line of one character against the
// character's baseline. At most one flag is created per
// (character, Location, dimension); when several lines in one paragraph fire
// the same dimension, the most severe deviation wins.
func (s *Scorer) Flags(c *model.Character, p *model.VoiceProfile) []*model.ConsistencyFlag {
	if p == nil || len(c.Lines) == 0 {
		return nil
	}
	ticSet := profile.TicSet(p.TicTokens)

	type key struct {
		loc model.Location
		dim model.Dimension
	}
	index := make(map[key]int)
	var flags []*model.ConsistencyFlag

	for _, line := range c.Lines {
		for _, d := range model.AllDimensions() {
			base := p.Dim(d)
			metric := profile.LineMetric(d, line.Text, ticSet)

			// Leaning on one's own habitual tic IS the established voice;
			// only dropout below the baseline can flag this dimension.
			if d == model.DimTics && metric >= base.Mean {
				continue
			}
			// The metrics move in coarse steps, so wobble under the
			// absolute gate never flags regardless of spread.
			if absDiff(metric, base.Mean) < s.cfg.MinDeviations.For(d) {
				continue
			}

			dev := deviation(metric, base, s.cfg.Floors.For(d))
			sev, ok := severityFor(dev, s.cfg.Thresholds.For(d))
			if !ok {
				continue
			}

			k := key{loc: line.Location, dim: d}
			if i, exists := index[k]; exists {
				prior := flags[i]
				if sev.Rank() > prior.Severity.Rank() ||
					(sev.Rank() == prior.Severity.Rank() && dev > prior.Deviation) {
					prior.Severity = sev
					prior.Deviation = dev
					prior.Passage = line.Text
				}
				continue
			}

			index[k] = len(flags)
			flags = append(flags, &model.ConsistencyFlag{
				ID:          uuid.NewString(),
				CharacterID: c.ID,
				Dimension:   d,
				Severity:    sev,
				Location:    line.Location,
				Passage:     line.Text,
				Deviation:   dev,
			})
		}
	}
	return flags
}

func absDiff(a, b float64) float64 {
	if a < b {
		return b - a
	}
	return a - b
}

// deviation measures how far a line's metric sits from the baseline mean, in
// units of the character's own spread. The floor bounds the spread from below
// so a zero-variance voice never flags itself.
func deviation(metric float64, base model.Baseline, floor float64) float64 {
	spread := base.StdDev
	if spread < floor {
		spread = floor
	}
	diff := metric - base.Mean
	if diff < 0 {
		diff = -diff
	}
	return diff / spread
}

// severityFor maps a deviation to a severity band:
// [t,2t) low, [2t,3t) medium, >=3t high.
func severityFor(dev, threshold float64) (model.Severity, bool) {
	switch {
	case dev >= 3*threshold:
		return model.SeverityHigh, true
	case dev >= 2*threshold:
		return model.SeverityMedium, true
	case dev >= threshold:
		return model.SeverityLow, true
	}
	return "", false
}

// Compute derives a character's consistency score from the current flag set:
// 100 minus the summed severity weights of non-dismissed flags, clamped at 0.
// It is a pure function of the flags' dismissed states; dismissing every flag
// yields exactly 100 by construction.
func Compute(flags []*model.ConsistencyFlag, characterID string) int {
	penalty := 0
	for _, f := range flags {
		if f.CharacterID != characterID || f.Dismissed {
			continue
		}
		penalty += f.Severity.Weight()
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return score
}
