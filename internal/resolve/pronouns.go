package resolve

import "github.com/ramckay/voiceloom/internal/model"

// SpeakerTracker resolves pronoun-only attributions ("he said") to the most
// recently attributed character. It is an explicit state machine carrying the
// last resolved speaker per chapter; ambiguity never reaches across chapters.
type SpeakerTracker struct {
	chapter int
	lastID  string
	lastLoc model.Location
}

// NewSpeakerTracker creates a tracker for a single chapter walk
func NewSpeakerTracker(chapter int) *SpeakerTracker {
	return &SpeakerTracker{chapter: chapter}
}

// Observe records a successfully attributed speaker at loc
func (t *SpeakerTracker) Observe(loc model.Location, characterID string) {
	if loc.Chapter != t.chapter || characterID == "" || characterID == model.SpeakerUnresolved {
		return
	}
	t.lastID = characterID
	t.lastLoc = loc
}

// Resolve returns the last attributed character if it was observed in the
// same paragraph or the immediately preceding one; otherwise "".
func (t *SpeakerTracker) Resolve(loc model.Location) string {
	if t.lastID == "" || loc.Chapter != t.chapter {
		return ""
	}
	if loc.Paragraph-t.lastLoc.Paragraph <= 1 && loc.Paragraph >= t.lastLoc.Paragraph {
		return t.lastID
	}
	return ""
}

// Last returns the most recent resolved speaker in the chapter regardless of
// distance. Used for quotes carried across a paragraph break.
func (t *SpeakerTracker) Last() string {
	return t.lastID
}
