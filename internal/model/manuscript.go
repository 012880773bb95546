package model

import "fmt"

// SpeakerUnresolved marks a dialogue span whose speaker could not be attributed.
const SpeakerUnresolved = "unresolved"

// Location identifies where a span occurs in the manuscript
type Location struct {
	Chapter   int `json:"chapter"`   // Chapter index (0-based)
	Paragraph int `json:"paragraph"` // Paragraph index within the chapter (0-based)
}

// Before reports whether l occurs strictly earlier in the manuscript than other
func (l Location) Before(other Location) bool {
	if l.Chapter != other.Chapter {
		return l.Chapter < other.Chapter
	}
	return l.Paragraph < other.Paragraph
}

func (l Location) String() string {
	return fmt.Sprintf("ch%d:p%d", l.Chapter, l.Paragraph)
}

// DialogueSpan is a quoted passage found within a paragraph
type DialogueSpan struct {
	Text      string   `json:"text"`       // Verbatim quoted text, quote marks stripped
	Start     int      `json:"start"`      // Byte offset of the opening quote within the paragraph
	End       int      `json:"end"`        // Byte offset just past the closing quote
	Location  Location `json:"location"`   // Owning paragraph
	SpeakerID string   `json:"speaker_id"` // Character id, or SpeakerUnresolved
	Continued bool     `json:"continued,omitempty"` // Span carried over from an unclosed quote in the prior paragraph
}

// Paragraph is a blank-line-delimited block of manuscript text
type Paragraph struct {
	Location Location       `json:"location"`
	Text     string         `json:"text"`
	Spans    []DialogueSpan `json:"spans,omitempty"`
}

// Chapter is an ordered sequence of paragraphs under one heading
type Chapter struct {
	Index      int         `json:"index"`
	Title      string      `json:"title,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Manuscript is the segmented form of one complete manuscript snapshot.
// It is immutable once analysis starts.
type Manuscript struct {
	Chapters []Chapter `json:"chapters"`
}

// Contains reports whether loc refers to a paragraph inside the manuscript
func (m *Manuscript) Contains(loc Location) bool {
	if loc.Chapter < 0 || loc.Chapter >= len(m.Chapters) {
		return false
	}
	return loc.Paragraph >= 0 && loc.Paragraph < len(m.Chapters[loc.Chapter].Paragraphs)
}

// ParagraphAt returns the paragraph at loc, if it exists
func (m *Manuscript) ParagraphAt(loc Location) (*Paragraph, bool) {
	if !m.Contains(loc) {
		return nil, false
	}
	return &m.Chapters[loc.Chapter].Paragraphs[loc.Paragraph], true
}

// ParagraphCount returns the total number of paragraphs across all chapters
func (m *Manuscript) ParagraphCount() int {
	total := 0
	for _, ch := range m.Chapters {
		total += len(ch.Paragraphs)
	}
	return total
}
