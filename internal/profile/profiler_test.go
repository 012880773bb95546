package profile

import (
	"reflect"
	"testing"

	"github.com/ramckay/voiceloom/internal/model"
)

func testProfilerConfig() model.ProfilerConfig {
	return model.ProfilerConfig{MinLines: 3, MaxQuotes: 5, WarnBelowLines: 20}
}

func characterWithLines(texts []string) *model.Character {
	c := &model.Character{ID: "char-1", Name: "Test"}
	for i, text := range texts {
		c.Lines = append(c.Lines, model.DialogueLine{
			Text:     text,
			Location: model.Location{Chapter: 0, Paragraph: i},
		})
	}
	return c
}

func TestProfiler_Build_BelowMinLines(t *testing.T) {
	p := NewProfiler(testProfilerConfig())

	c := characterWithLines([]string{"One line.", "Two lines."})
	if prof, ok := p.Build(c); ok || prof != nil {
		t.Errorf("Expected no profile below the line threshold, got %+v", prof)
	}
}

func TestProfiler_Build_AllDimensionsPopulated(t *testing.T) {
	p := NewProfiler(testProfilerConfig())

	c := characterWithLines([]string{
		"The weather is rather pleasant today.",
		"I believe we should proceed with caution.",
		"Perhaps the answer lies elsewhere.",
	})
	prof, ok := p.Build(c)
	if !ok {
		t.Fatal("Expected a profile")
	}
	if prof.CharacterID != c.ID {
		t.Errorf("Profile bound to wrong character: %q", prof.CharacterID)
	}
	for _, d := range model.AllDimensions() {
		base := prof.Dim(d)
		if base.Summary == "" {
			t.Errorf("Dimension %s has no summary", d)
		}
		if len(base.Quotes) == 0 {
			t.Errorf("Dimension %s has no representative quotes", d)
		}
		if len(base.Quotes) > testProfilerConfig().MaxQuotes {
			t.Errorf("Dimension %s exceeds quote cap: %d", d, len(base.Quotes))
		}
	}
}

func TestProfiler_Build_Deterministic(t *testing.T) {
	p := NewProfiler(testProfilerConfig())

	texts := []string{
		"Well, I suppose we could try.",
		"Well, that went badly.",
		"Honestly, I expected worse.",
		"Well, honestly, who knows.",
	}
	a, _ := p.Build(characterWithLines(texts))
	b, _ := p.Build(characterWithLines(texts))

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Profiles differ between identical runs:\n%+v\n%+v", a, b)
	}
}

func TestProfiler_Build_ZeroVarianceBaseline(t *testing.T) {
	p := NewProfiler(testProfilerConfig())

	c := characterWithLines([]string{"Yes indeed.", "Yes indeed.", "Yes indeed."})
	prof, ok := p.Build(c)
	if !ok {
		t.Fatal("Expected a profile")
	}
	for _, d := range model.AllDimensions() {
		if std := prof.Dim(d).StdDev; std != 0 {
			t.Errorf("Dimension %s: expected zero spread for identical lines, got %f", d, std)
		}
	}
}

func TestProfiler_RepresentativeQuotes_DedupeAndCap(t *testing.T) {
	p := NewProfiler(model.ProfilerConfig{MinLines: 1, MaxQuotes: 2, WarnBelowLines: 20})

	lines := []model.DialogueLine{
		{Text: "Alpha.", Location: model.Location{Paragraph: 0}},
		{Text: "Alpha.", Location: model.Location{Paragraph: 1}}, // duplicate text collapses
		{Text: "Beta.", Location: model.Location{Paragraph: 2}},
		{Text: "Gamma.", Location: model.Location{Paragraph: 3}},
	}
	metrics := []float64{1, 1, 3, 2}

	quotes := p.representativeQuotes(lines, metrics)
	want := []string{"Beta.", "Gamma."}
	if !reflect.DeepEqual(quotes, want) {
		t.Errorf("Expected %v, got %v", want, quotes)
	}
}

func TestFormality_Markers(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"Indeed, the evening is lovely.", 0.75},
		{"Yo, what's up, dudes?", 0},
		{"The door is open.", 0.5},
		{"", 0.5},
	}
	for _, c := range cases {
		if got := Formality(c.text); got != c.want {
			t.Errorf("Formality(%q) = %f, want %f", c.text, got, c.want)
		}
	}
}

func TestFormality_Clamped(t *testing.T) {
	if got := Formality("Indeed, therefore, thus, hence we proceed."); got != 1 {
		t.Errorf("Expected clamp at 1, got %f", got)
	}
	if got := Formality("Yo dude, nah bro, whatever."); got != 0 {
		t.Errorf("Expected clamp at 0, got %f", got)
	}
}

func TestWordLength(t *testing.T) {
	// "One two six." -> lengths 3, 3, 3
	if got := WordLength("One two six."); got != 3 {
		t.Errorf("WordLength = %f, want 3", got)
	}
	if got := WordLength(""); got != 0 {
		t.Errorf("WordLength of empty = %f, want 0", got)
	}
}

func TestClauseCount(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"We left.", 1},
		{"We left, and we never returned.", 3}, // comma + conjunction
		{"Run! Hide.", 1},                      // two single-clause sentences
	}
	for _, c := range cases {
		if got := ClauseCount(c.text); got != c.want {
			t.Errorf("ClauseCount(%q) = %f, want %f", c.text, got, c.want)
		}
	}
}

func TestDetectTics_ThresholdAndOrder(t *testing.T) {
	lines := []string{
		"Honestly, I cannot say.",
		"Honestly, you know the answer.",
		"Honestly, you know better.",
		"That is all.",
	}
	tics := DetectTics(lines, 5)

	if len(tics) == 0 {
		t.Fatal("Expected tics to be detected")
	}
	if tics[0].Token != "honestly" || tics[0].Count != 3 {
		t.Errorf("Expected 'honestly' x3 first, got %+v", tics[0])
	}
	for _, tic := range tics {
		if tic.Token == "that" {
			t.Errorf("Stopword leaked into tics: %+v", tics)
		}
	}
	// Deterministic ordering: count descending, then token ascending
	for i := 1; i < len(tics); i++ {
		if tics[i-1].Count < tics[i].Count {
			t.Errorf("Tics out of order: %+v", tics)
		}
		if tics[i-1].Count == tics[i].Count && tics[i-1].Token > tics[i].Token {
			t.Errorf("Tie-break out of order: %+v", tics)
		}
	}
}

func TestDetectTics_PerLineDedup(t *testing.T) {
	// A word repeated many times in a single line counts once per line
	lines := []string{
		"Fish fish fish fish fish.",
		"Nothing here.",
		"Nothing there.",
	}
	for _, tic := range DetectTics(lines, 5) {
		if tic.Token == "fish" {
			t.Errorf("Single-line repetition became a tic: %+v", tic)
		}
	}
}

func TestTicDensity(t *testing.T) {
	tics := map[string]struct{}{"honestly": {}, "you know": {}}

	// 5 tokens: honestly(hit), you, know, the, answer + bigram "you know"(hit)
	got := TicDensity("Honestly, you know the answer.", tics)
	want := 2.0 / 5.0
	if got != want {
		t.Errorf("TicDensity = %f, want %f", got, want)
	}

	if got := TicDensity("No hits here.", tics); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
	if got := TicDensity("Honestly.", nil); got != 0 {
		t.Errorf("Empty tic set: expected 0, got %f", got)
	}
}

func TestLineMetric_MatchesDimensionFunctions(t *testing.T) {
	text := "Well, I suppose we could try, honestly."
	tics := map[string]struct{}{"honestly": {}}

	if LineMetric(model.DimVocabulary, text, tics) != WordLength(text) {
		t.Error("Vocabulary metric mismatch")
	}
	if LineMetric(model.DimSentence, text, tics) != ClauseCount(text) {
		t.Error("Sentence metric mismatch")
	}
	if LineMetric(model.DimTics, text, tics) != TicDensity(text, tics) {
		t.Error("Tic metric mismatch")
	}
	if LineMetric(model.DimFormality, text, tics) != Formality(text) {
		t.Error("Formality metric mismatch")
	}
}
