package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ramckay/voiceloom/internal/model"
)

const nameExpr = `(?:(?:Mr|Mrs|Ms|Dr|Prof)\.\s+|(?:Sir|Lady|Lord|Captain|Professor)\s+)?[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}`

// Resolver scans paragraphs for proper-noun mentions and dialogue-attribution
// cues and builds the character registry with merged alias sets.
type Resolver struct {
	cfg      model.ResolverConfig
	tagAfter *regexp.Regexp // `"..." said Sarah` / `"..." Sarah said`
	tagPre   *regexp.Regexp // `Sarah said, "..."`
}

// NewResolver creates a resolver using the configured attribution verb set
func NewResolver(cfg model.ResolverConfig) *Resolver {
	verbs := strings.Join(cfg.AttributionVerbs, "|")
	return &Resolver{
		cfg: cfg,
		tagAfter: regexp.MustCompile(
			fmt.Sprintf(`["”][,.]?\s*(?:(?:%s)\s+(%s)|(%s)\s+(?:%s))`, verbs, nameExpr, nameExpr, verbs),
		),
		tagPre: regexp.MustCompile(
			fmt.Sprintf(`(%s)\s+(?:%s)[^"“”]{0,40}["“]`, nameExpr, verbs),
		),
	}
}

// Resolve scans the whole manuscript and produces the character registry.
// All chapters are scanned before any alias merging happens; the builder is
// job-scoped and discarded here.
func (r *Resolver) Resolve(ms *model.Manuscript) *Registry {
	b := newAliasBuilder()
	for _, ch := range ms.Chapters {
		for _, para := range ch.Paragraphs {
			r.scanParagraph(b, &para)
		}
	}
	return b.build()
}

// scanParagraph records attribution cues first, then bare mentions
func (r *Resolver) scanParagraph(b *aliasBuilder, para *model.Paragraph) {
	attributed := make(map[string]struct{})

	for _, m := range r.tagAfter.FindAllStringSubmatch(para.Text, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name = CleanName(name); name != "" && !isStopword(name) {
			b.observe(name, para.Location, true)
			attributed[name] = struct{}{}
		}
	}
	for _, m := range r.tagPre.FindAllStringSubmatch(para.Text, -1) {
		if name := CleanName(m[1]); name != "" && !isStopword(name) {
			b.observe(name, para.Location, true)
			attributed[name] = struct{}{}
		}
	}

	// Bare proper-noun mentions outside quoted speech
	narration := stripQuoted(para.Text)
	for _, raw := range namePattern.FindAllString(narration, -1) {
		name := CleanName(raw)
		if name == "" || isStopword(name) {
			continue
		}
		if _, done := attributed[name]; done {
			continue
		}
		b.observe(name, para.Location, false)
	}
}

// stripQuoted blanks out quoted spans so names spoken inside dialogue do not
// count as narration mentions.
func stripQuoted(text string) string {
	var out strings.Builder
	inQuote := false
	for _, r := range text {
		switch r {
		case '“':
			inQuote = true
		case '”':
			inQuote = false
			continue
		case '"':
			inQuote = !inQuote
			continue
		}
		if inQuote {
			out.WriteRune(' ')
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// MinDialogueLines returns the configured registry surfacing threshold
func (r *Resolver) MinDialogueLines() int {
	return r.cfg.MinDialogueLines
}
