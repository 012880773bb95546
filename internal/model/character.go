package model

import "sort"

// CharacterStatus describes whether a character carries a voice profile
type CharacterStatus string

const (
	StatusProfiled         CharacterStatus = "profiled"          // Enough lines to build a baseline
	StatusInsufficientData CharacterStatus = "insufficient_data" // Registered, but too few lines to profile
)

// DialogueLine is a dialogue span attributed to a character, referenced
// by Location plus offsets within the owning paragraph
type DialogueLine struct {
	Text     string   `json:"text"`
	Location Location `json:"location"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// Character is one speaking identity in the manuscript with its merged alias set
type Character struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`    // Canonical display name (most frequent full form)
	Aliases []string        `json:"aliases"` // All co-referring forms, sorted, including Name
	Lines   []DialogueLine  `json:"lines"`   // Attributed dialogue, ordered by Location then Start
	Status  CharacterStatus `json:"status"`
	Warning string          `json:"warning,omitempty"` // Set when the line count is low enough to weaken the profile
	Score   int             `json:"score"`             // Derived consistency score, 0-100
}

// HasAlias reports whether name is one of the character's known forms
func (c *Character) HasAlias(name string) bool {
	for _, a := range c.Aliases {
		if a == name {
			return true
		}
	}
	return false
}

// SortLines orders the character's dialogue by Location, then by start offset
func (c *Character) SortLines() {
	sort.SliceStable(c.Lines, func(i, j int) bool {
		li, lj := c.Lines[i], c.Lines[j]
		if li.Location != lj.Location {
			return li.Location.Before(lj.Location)
		}
		return li.Start < lj.Start
	})
}
