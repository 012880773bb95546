package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ramckay/voiceloom/internal/model"
	"github.com/ramckay/voiceloom/internal/resolve"
)

const nameExpr = `(?:(?:Mr|Mrs|Ms|Dr|Prof)\.\s+|(?:Sir|Lady|Lord|Captain|Professor)\s+)?[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}`

// quoteSpan is a raw scanned quote before attribution
type quoteSpan struct {
	start  int // byte offset of the opening quote mark
	end    int // byte offset just past the closing mark (or end of paragraph)
	text   string
	closed bool
}

// Extractor finds quoted spans and attributes each to a character using the
// registry plus local attribution heuristics.
type Extractor struct {
	reg        *resolve.Registry
	afterName  *regexp.Regexp // `"...," said Sarah` / `"..." Sarah said`
	preName    *regexp.Regexp // `Sarah said, "..."`
	afterPron  *regexp.Regexp // `"..." he said` / `"..." said she`
	prePron    *regexp.Regexp // `he asked, "..."`
}

// New creates an extractor bound to a resolved registry
func New(reg *resolve.Registry, verbs []string) *Extractor {
	v := strings.Join(verbs, "|")
	return &Extractor{
		reg: reg,
		afterName: regexp.MustCompile(
			fmt.Sprintf(`^[,.!?;:]?\s*(?:(?:%s)\s+(%s)|(%s)\s+(?:%s))\b`, v, nameExpr, nameExpr, v),
		),
		preName: regexp.MustCompile(
			fmt.Sprintf(`(%s)\s+(?:%s)\s*[,:]?\s*$`, nameExpr, v),
		),
		afterPron: regexp.MustCompile(
			fmt.Sprintf(`^[,.!?;:]?\s*(?:(?:he|she|they)\s+(?:%s)|(?:%s)\s+(?:he|she|they))\b`, v, v),
		),
		prePron: regexp.MustCompile(
			fmt.Sprintf(`\b(?:he|she|they|He|She|They)\s+(?:%s)\s*[,:]?\s*$`, v),
		),
	}
}

// ExtractChapter scans one chapter's paragraphs in order, attributes every
// quoted span, and attaches the spans to their paragraphs. Chapters share no
// mutable state, so callers may run chapters concurrently.
func (e *Extractor) ExtractChapter(ch *model.Chapter) []model.DialogueSpan {
	tracker := resolve.NewSpeakerTracker(ch.Index)
	var out []model.DialogueSpan

	carrying := false // an unclosed quote is being carried across paragraphs
	carrySpeaker := model.SpeakerUnresolved

	for pi := range ch.Paragraphs {
		para := &ch.Paragraphs[pi]
		raw := scanQuotes(para.Text)
		if len(raw) == 0 {
			carrying = false
			carrySpeaker = model.SpeakerUnresolved
			continue
		}

		for qi, q := range raw {
			// Only the paragraph's first span can continue a quote left
			// open at the previous paragraph break
			continued := carrying && qi == 0
			span := model.DialogueSpan{
				Text:      q.text,
				Start:     q.start,
				End:       q.end,
				Location:  para.Location,
				SpeakerID: model.SpeakerUnresolved,
				Continued: continued,
			}

			// Priority 1: explicit attribution tag adjacent to the quote
			if id, ok := e.taggedSpeaker(para.Text, q, para.Location, tracker); ok {
				span.SpeakerID = id
				carrySpeaker = id
			} else if continued {
				// Carried-over monologue keeps the prior speaker until a
				// new tag appears
				span.SpeakerID = carrySpeaker
			} else if id := tracker.Resolve(para.Location); id != "" {
				// Priority 2: most recently attributed speaker in window
				span.SpeakerID = id
			}

			if span.SpeakerID != model.SpeakerUnresolved {
				tracker.Observe(para.Location, span.SpeakerID)
			}
			para.Spans = append(para.Spans, span)
			out = append(out, span)
		}

		last := raw[len(raw)-1]
		if !last.closed {
			carrying = true
			carrySpeaker = para.Spans[len(para.Spans)-1].SpeakerID
		} else {
			carrying = false
			carrySpeaker = model.SpeakerUnresolved
		}
	}
	return out
}

// taggedSpeaker looks for an attribution tag physically adjacent to the quote
// in the same paragraph: a named tag first, then a pronoun tag resolved via
// the tracker.
func (e *Extractor) taggedSpeaker(text string, q quoteSpan, loc model.Location, tracker *resolve.SpeakerTracker) (string, bool) {
	after := text[q.end:]
	before := text[:q.start]

	if m := e.afterName.FindStringSubmatch(after); m != nil {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if c, ok := e.reg.Lookup(name); ok {
			return c.ID, true
		}
	}
	if m := e.preName.FindStringSubmatch(before); m != nil {
		if c, ok := e.reg.Lookup(m[1]); ok {
			return c.ID, true
		}
	}
	if e.afterPron.MatchString(after) || e.prePron.MatchString(before) {
		if id := tracker.Resolve(loc); id != "" {
			return id, true
		}
	}
	return "", false
}

// scanQuotes performs a balanced double-quote scan over one paragraph.
// Curly quotes pair explicitly; straight quotes toggle. Single quotes inside
// dialogue are treated as plain text, so nested emphasis never breaks a span.
func scanQuotes(text string) []quoteSpan {
	var spans []quoteSpan
	open := -1      // byte offset of current opening quote, -1 when outside
	openLen := 0    // byte length of the opening quote mark
	for i, r := range text {
		switch r {
		case '“':
			if open < 0 {
				open, openLen = i, len("“")
			}
		case '”':
			if open >= 0 {
				spans = append(spans, quoteSpan{
					start:  open,
					end:    i + len("”"),
					text:   text[open+openLen : i],
					closed: true,
				})
				open = -1
			}
		case '"':
			if open < 0 {
				open, openLen = i, 1
			} else {
				spans = append(spans, quoteSpan{
					start:  open,
					end:    i + 1,
					text:   text[open+openLen : i],
					closed: true,
				})
				open = -1
			}
		}
	}
	if open >= 0 {
		// Quote left unclosed at the paragraph break: the span continues in
		// the next paragraph
		tail := strings.TrimSpace(text[open+openLen:])
		if tail != "" {
			spans = append(spans, quoteSpan{start: open, end: len(text), text: tail, closed: false})
		}
	}
	// Drop empty quotes
	filtered := spans[:0]
	for _, s := range spans {
		if strings.TrimSpace(s.text) != "" {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
