package model

// Severity indicates how far a flagged line strayed from the baseline
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight returns the score penalty of an active flag of this severity
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return 2
	case SeverityMedium:
		return 5
	case SeverityHigh:
		return 10
	}
	return 0
}

// Rank orders severities for tie-breaking; higher is more severe
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	}
	return 0
}

// ConsistencyFlag records one dialogue line deviating from its character's
// baseline in one dimension. Flags are created once per analysis run;
// dismissal is the only post-creation mutation.
type ConsistencyFlag struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Dimension   Dimension `json:"dimension"`
	Severity    Severity  `json:"severity"`
	Location    Location  `json:"location"`
	Passage     string    `json:"passage"`   // Verbatim quoted passage
	Deviation   float64   `json:"deviation"` // Deviation in units of the character's own spread
	Dismissed   bool      `json:"dismissed"`
}
