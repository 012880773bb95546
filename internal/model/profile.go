package model

// Dimension is one of the four stylistic dimensions of a voice profile.
// The set is a closed contract, not an extension point.
type Dimension string

const (
	DimVocabulary Dimension = "vocabulary_level"
	DimSentence   Dimension = "sentence_structure"
	DimTics       Dimension = "verbal_tics"
	DimFormality  Dimension = "formality"
)

// AllDimensions returns the four dimensions in their canonical order
func AllDimensions() [4]Dimension {
	return [4]Dimension{DimVocabulary, DimSentence, DimTics, DimFormality}
}

// Valid reports whether d is one of the four known dimensions
func (d Dimension) Valid() bool {
	switch d {
	case DimVocabulary, DimSentence, DimTics, DimFormality:
		return true
	}
	return false
}

// Baseline is the per-dimension descriptor of a character's established voice
type Baseline struct {
	Mean    float64  `json:"mean"`    // Mean of the per-line metric over the character's full dialogue set
	StdDev  float64  `json:"std_dev"` // Population standard deviation of the same metric
	Summary string   `json:"summary"` // Human-readable summary statistic
	Quotes  []string `json:"quotes"`  // Up to 5 representative lines, most dimension-typical first
}

// TicToken is one entry of the verbal-tic frequency table
type TicToken struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// VoiceProfile is a character's four-dimension baseline descriptor.
// Profiles are recomputed in full whenever the dialogue set changes;
// they are never partially patched.
type VoiceProfile struct {
	CharacterID string     `json:"character_id"`
	Vocabulary  Baseline   `json:"vocabulary_level"`
	Sentence    Baseline   `json:"sentence_structure"`
	Tics        Baseline   `json:"verbal_tics"`
	Formality   Baseline   `json:"formality"`
	TicTokens   []TicToken `json:"tic_tokens,omitempty"` // Detected tics backing the verbal_tics baseline
}

// Dim returns the baseline for the given dimension
func (p *VoiceProfile) Dim(d Dimension) Baseline {
	switch d {
	case DimVocabulary:
		return p.Vocabulary
	case DimSentence:
		return p.Sentence
	case DimTics:
		return p.Tics
	case DimFormality:
		return p.Formality
	}
	return Baseline{}
}

// SetDim stores the baseline for the given dimension
func (p *VoiceProfile) SetDim(d Dimension, b Baseline) {
	switch d {
	case DimVocabulary:
		p.Vocabulary = b
	case DimSentence:
		p.Sentence = b
	case DimTics:
		p.Tics = b
	case DimFormality:
		p.Formality = b
	}
}
