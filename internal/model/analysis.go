package model

import "time"

// Stats carries non-fatal counters surfaced alongside the result set.
// Low-confidence attribution is signaled here, never by omitting data.
type Stats struct {
	Chapters        int `json:"chapters"`
	Paragraphs      int `json:"paragraphs"`
	DialogueSpans   int `json:"dialogue_spans"`
	UnresolvedSpans int `json:"unresolved_spans"` // Spans left unattributed and excluded from profiling
}

// Analysis is the full result set of one analysis run: every character,
// profile, and flag for a manuscript is created together and replaced
// wholesale on re-analysis.
type Analysis struct {
	ID         string                   `json:"id"`
	CreatedAt  time.Time                `json:"created_at"`
	Characters []*Character             `json:"characters"`
	Profiles   map[string]*VoiceProfile `json:"profiles"` // Keyed by character id; absent for insufficient-data characters
	Flags      []*ConsistencyFlag       `json:"flags"`
	Stats      Stats                    `json:"stats"`
}

// Character returns the character with the given id, or nil
func (a *Analysis) Character(id string) *Character {
	for _, c := range a.Characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Flag returns the flag with the given id, or nil
func (a *Analysis) Flag(id string) *ConsistencyFlag {
	for _, f := range a.Flags {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// CharacterFlags returns all flags owned by the given character, in creation order
func (a *Analysis) CharacterFlags(characterID string) []*ConsistencyFlag {
	var out []*ConsistencyFlag
	for _, f := range a.Flags {
		if f.CharacterID == characterID {
			out = append(out, f)
		}
	}
	return out
}
