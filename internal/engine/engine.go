package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ramckay/voiceloom/internal/extract"
	"github.com/ramckay/voiceloom/internal/model"
	"github.com/ramckay/voiceloom/internal/profile"
	"github.com/ramckay/voiceloom/internal/resolve"
	"github.com/ramckay/voiceloom/internal/score"
	"github.com/ramckay/voiceloom/internal/segment"
)

// Engine is the analytical core: it turns one manuscript snapshot into
// characters, voice profiles, and consistency flags, and supports interactive
// flag dismissal and character merging on the resulting session.
// It performs no network or file I/O.
type Engine struct {
	cfg       *model.Config
	segmenter *segment.Segmenter
	profiler  *profile.Profiler
	scorer    *score.Scorer
	sessions  Store

	mu sync.Mutex // serializes session mutations (dismiss, merge)
}

// New creates an engine from the given configuration; nil means defaults
func New(cfg *model.Config) (*Engine, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		segmenter: segment.NewSegmenter(),
		profiler:  profile.NewProfiler(cfg.Profiler),
		scorer:    score.NewScorer(cfg.Scorer),
		sessions:  NewMemoryStore(cfg.Session.TTL, cfg.Session.CleanupInterval),
	}, nil
}

// Analyze runs all five stages over one complete manuscript snapshot and
// returns the full result set. The run is deterministic for a fixed input
// text and configuration. The analysis is retained in the session store so
// DismissFlag and MergeCharacters can operate on it.
func (e *Engine) Analyze(ctx context.Context, text string) (*model.Analysis, error) {
	ms, err := e.segmenter.Segment(text)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Resolution scans every chapter before any alias merging happens; the
	// registry is immutable once built.
	resolver := resolve.NewResolver(e.cfg.Resolver)
	registry := resolver.Resolve(ms)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Chapters share no mutable state during extraction, so they may run in
	// parallel; attribution state never crosses a chapter boundary.
	extractor := extract.New(registry, e.cfg.Resolver.AttributionVerbs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency.ChapterWorkers)
	for i := range ms.Chapters {
		ch := &ms.Chapters[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			extractor.ExtractChapter(ch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	analysis := &model.Analysis{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Characters: registry.Characters,
		Profiles:   make(map[string]*model.VoiceProfile),
		Stats: model.Stats{
			Chapters:   len(ms.Chapters),
			Paragraphs: ms.ParagraphCount(),
		},
	}

	// Attach attributed spans to their characters, in manuscript order
	byID := make(map[string]*model.Character, len(registry.Characters))
	for _, c := range registry.Characters {
		byID[c.ID] = c
	}
	for _, ch := range ms.Chapters {
		for _, para := range ch.Paragraphs {
			for _, span := range para.Spans {
				analysis.Stats.DialogueSpans++
				if span.SpeakerID == model.SpeakerUnresolved {
					analysis.Stats.UnresolvedSpans++
					continue
				}
				c := byID[span.SpeakerID]
				if c == nil {
					return nil, fmt.Errorf("attribute: span at %s references unknown character %q", span.Location, span.SpeakerID)
				}
				c.Lines = append(c.Lines, model.DialogueLine{
					Text:     span.Text,
					Location: span.Location,
					Start:    span.Start,
					End:      span.End,
				})
			}
		}
	}

	for _, c := range analysis.Characters {
		c.SortLines()
		prof, ok := e.profiler.Build(c)
		if !ok {
			c.Status = model.StatusInsufficientData
			c.Score = 100
			continue
		}
		c.Status = model.StatusProfiled
		if len(c.Lines) < e.cfg.Profiler.WarnBelowLines {
			c.Warning = fmt.Sprintf("Character has only %d dialogue lines. Voice profile may be inaccurate.", len(c.Lines))
		}
		analysis.Profiles[c.ID] = prof

		flags := e.scorer.Flags(c, prof)
		for _, f := range flags {
			if !ms.Contains(f.Location) {
				// Engine bug: abort rather than silently drop the flag
				return nil, &model.MalformedLocationError{Location: f.Location}
			}
		}
		analysis.Flags = append(analysis.Flags, flags...)
		c.Score = score.Compute(analysis.Flags, c.ID)
	}

	e.sessions.Put(analysis)
	return analysis, nil
}

// DismissFlag sets a flag's dismissed state and returns the owning
// character's recomputed score. The operation is idempotent; under concurrent
// requests the last written value wins, and the recomputation always rereads
// the full current flag set.
func (e *Engine) DismissFlag(analysisID, flagID string, dismissed bool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	analysis, ok := e.sessions.Get(analysisID)
	if !ok {
		return 0, ErrAnalysisNotFound
	}
	flag := analysis.Flag(flagID)
	if flag == nil {
		return 0, ErrFlagNotFound
	}
	flag.Dismissed = dismissed

	newScore := score.Compute(analysis.Flags, flag.CharacterID)
	if c := analysis.Character(flag.CharacterID); c != nil {
		c.Score = newScore
	}
	return newScore, nil
}

// MergeCharacters merges two characters into one identity: dialogue lines,
// aliases, and flags are re-unioned, and the profile and score are recomputed
// for the merged identity only. The flag union is deduplicated per
// (Location, dimension); prior dismissals survive the merge.
func (e *Engine) MergeCharacters(analysisID, idA, idB string) (*model.Character, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	analysis, ok := e.sessions.Get(analysisID)
	if !ok {
		return nil, ErrAnalysisNotFound
	}
	if idA == idB {
		return nil, ErrSelfMerge
	}
	ca := analysis.Character(idA)
	cb := analysis.Character(idB)
	if ca == nil || cb == nil {
		return nil, ErrCharacterNotFound
	}

	merged := &model.Character{
		ID:      uuid.NewString(),
		Name:    ca.Name,
		Aliases: unionAliases(ca.Aliases, cb.Aliases),
		Lines:   append(append([]model.DialogueLine{}, ca.Lines...), cb.Lines...),
	}
	if len(cb.Lines) > len(ca.Lines) {
		merged.Name = cb.Name
	}
	merged.SortLines()

	// Union the two flag sets, one flag per (Location, dimension)
	type key struct {
		loc model.Location
		dim model.Dimension
	}
	seen := make(map[key]*model.ConsistencyFlag)
	var mergedFlags []*model.ConsistencyFlag
	var remaining []*model.ConsistencyFlag
	for _, f := range analysis.Flags {
		if f.CharacterID != idA && f.CharacterID != idB {
			remaining = append(remaining, f)
			continue
		}
		k := key{loc: f.Location, dim: f.Dimension}
		if prior, dup := seen[k]; dup {
			if f.Severity.Rank() > prior.Severity.Rank() {
				prior.Severity = f.Severity
				prior.Deviation = f.Deviation
				prior.Passage = f.Passage
			}
			prior.Dismissed = prior.Dismissed || f.Dismissed
			continue
		}
		f.CharacterID = merged.ID
		seen[k] = f
		mergedFlags = append(mergedFlags, f)
	}
	analysis.Flags = append(remaining, mergedFlags...)

	// Replace the two originals with the merged identity
	var characters []*model.Character
	for _, c := range analysis.Characters {
		if c.ID == idA || c.ID == idB {
			continue
		}
		characters = append(characters, c)
	}
	analysis.Characters = append(characters, merged)
	delete(analysis.Profiles, idA)
	delete(analysis.Profiles, idB)

	// Profile and score recompute for the merged identity only
	if prof, ok := e.profiler.Build(merged); ok {
		merged.Status = model.StatusProfiled
		analysis.Profiles[merged.ID] = prof
		if len(merged.Lines) < e.cfg.Profiler.WarnBelowLines {
			merged.Warning = fmt.Sprintf("Character has only %d dialogue lines. Voice profile may be inaccurate.", len(merged.Lines))
		}
	} else {
		merged.Status = model.StatusInsufficientData
	}
	merged.Score = score.Compute(analysis.Flags, merged.ID)

	return merged, nil
}

// Analysis returns a stored analysis session by id
func (e *Engine) Analysis(analysisID string) (*model.Analysis, bool) {
	return e.sessions.Get(analysisID)
}

func unionAliases(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
