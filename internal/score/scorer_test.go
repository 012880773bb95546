package score

import (
	"testing"

	"github.com/ramckay/voiceloom/internal/model"
	"github.com/ramckay/voiceloom/internal/profile"
)

func testScorerConfig() model.ScorerConfig {
	return model.DefaultConfig().Scorer
}

func profiledCharacter(t *testing.T, texts []string) (*model.Character, *model.VoiceProfile) {
	t.Helper()
	c := &model.Character{ID: "char-1", Name: "Test"}
	for i, text := range texts {
		c.Lines = append(c.Lines, model.DialogueLine{
			Text:     text,
			Location: model.Location{Chapter: 0, Paragraph: i},
		})
	}
	prof, ok := profile.NewProfiler(model.ProfilerConfig{MinLines: 1, MaxQuotes: 5, WarnBelowLines: 20}).Build(c)
	if !ok {
		t.Fatal("Expected a profile")
	}
	return c, prof
}

func TestScorer_Flags_FormalityOutlierIsHighSeverity(t *testing.T) {
	// Four consistently formal lines and one slang line. The outlier sits
	// more than three thresholds from the baseline mean.
	c, prof := profiledCharacter(t, []string{
		"Indeed, the evening is lovely.",
		"We shall dine at eight.",
		"That would be quite acceptable.",
		"I suggest we retire early.",
		"Yo, what's up, dudes?",
	})

	flags := NewScorer(testScorerConfig()).Flags(c, prof)

	var hit *model.ConsistencyFlag
	for _, f := range flags {
		if f.Dimension == model.DimFormality && f.Location.Paragraph == 4 {
			hit = f
		}
	}
	if hit == nil {
		t.Fatalf("Expected a formality flag on the slang line, got %+v", flags)
	}
	if hit.Severity != model.SeverityHigh {
		t.Errorf("Expected high severity, got %s (deviation %f)", hit.Severity, hit.Deviation)
	}
	if hit.Passage != "Yo, what's up, dudes?" {
		t.Errorf("Flag carries wrong passage: %q", hit.Passage)
	}
	if hit.CharacterID != c.ID {
		t.Errorf("Flag bound to wrong character: %q", hit.CharacterID)
	}
	if hit.Dismissed {
		t.Errorf("New flags must start active")
	}
}

func TestScorer_Flags_MarkerWobbleStaysBelowGate(t *testing.T) {
	// Every line is formal; they differ only in how many marker words they
	// carry. The metric moves in 0.25 steps per marker, so a low-variance
	// voice would clear the floored threshold without the absolute gate.
	c, prof := profiledCharacter(t, []string{
		"Certainly, this arrangement looks quite prudent.",
		"Indeed, your proposal sounds quite sensible.",
		"Moreover, the outcome appears quite certain.",
		"Therefore, our schedule remains quite fixed.",
		"Undoubtedly, the weather stayed mild today.",
	})

	flags := NewScorer(testScorerConfig()).Flags(c, prof)
	for _, f := range flags {
		if f.Dimension == model.DimFormality {
			t.Errorf("Formality flagged on consistent dialogue: %+v", f)
		}
	}
}

func TestScorer_Flags_HabitualTicNeverSelfFlags(t *testing.T) {
	// "quite" is this character's detected tic. Lines using it sit above
	// the baseline density and must never flag; the one line without it
	// sits below by less than the absolute gate.
	c, prof := profiledCharacter(t, []string{
		"Certainly, this arrangement looks quite prudent.",
		"Indeed, your proposal sounds quite sensible.",
		"Moreover, the outcome appears quite certain.",
		"Therefore, our schedule remains quite fixed.",
		"Undoubtedly, the weather stayed mild today.",
	})
	found := false
	for _, tic := range prof.TicTokens {
		if tic.Token == "quite" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected quite in the tic table, got %+v", prof.TicTokens)
	}

	flags := NewScorer(testScorerConfig()).Flags(c, prof)
	for _, f := range flags {
		if f.Dimension == model.DimTics {
			t.Errorf("Verbal tics flagged on habitual usage: %+v", f)
		}
	}
}

func TestScorer_Flags_TicDropoutFlagsBelowBaseline(t *testing.T) {
	// A voice saturated with its tic that suddenly drops it entirely is an
	// inconsistency; the dropout sits far below the mean.
	c, prof := profiledCharacter(t, []string{
		"Basically it works, basically.",
		"Basically we win, basically.",
		"Basically they left, basically.",
		"Basically she knows, basically.",
		"The harvest festival opens tomorrow evening downtown.",
	})
	if len(prof.TicTokens) == 0 {
		t.Fatalf("Expected a detected tic, got none")
	}

	flags := NewScorer(testScorerConfig()).Flags(c, prof)
	var hit *model.ConsistencyFlag
	for _, f := range flags {
		if f.Dimension == model.DimTics {
			hit = f
		}
	}
	if hit == nil {
		t.Fatalf("Expected a tic-dropout flag, got %+v", flags)
	}
	if hit.Location.Paragraph != 4 {
		t.Errorf("Dropout flag on wrong line: %+v", hit)
	}
}

func TestScorer_Flags_ConsistentVoiceProducesNone(t *testing.T) {
	c, prof := profiledCharacter(t, []string{
		"The morning was quiet.",
		"The evening was quiet.",
		"The night was quiet.",
	})

	if flags := NewScorer(testScorerConfig()).Flags(c, prof); len(flags) != 0 {
		t.Errorf("Expected no flags for a uniform voice, got %+v", flags)
	}
}

func TestScorer_Flags_OnePerLocationAndDimension(t *testing.T) {
	c, prof := profiledCharacter(t, []string{
		"Indeed, the evening is lovely.",
		"We shall dine at eight.",
		"That would be quite acceptable.",
		"I suggest we retire early.",
		"Yo, what's up, dudes?",
	})
	// Duplicate the outlier at the same Location to force the dedupe path
	c.Lines = append(c.Lines, model.DialogueLine{
		Text:     "Yo, what's up, dudes?",
		Location: model.Location{Chapter: 0, Paragraph: 4},
		Start:    50,
	})

	flags := NewScorer(testScorerConfig()).Flags(c, prof)

	type key struct {
		loc model.Location
		dim model.Dimension
	}
	seen := make(map[key]bool)
	for _, f := range flags {
		k := key{loc: f.Location, dim: f.Dimension}
		if seen[k] {
			t.Errorf("Duplicate flag for %s/%s", f.Location, f.Dimension)
		}
		seen[k] = true
	}
}

func TestScorer_Flags_NilProfile(t *testing.T) {
	c := &model.Character{ID: "char-1"}
	if flags := NewScorer(testScorerConfig()).Flags(c, nil); flags != nil {
		t.Errorf("Expected nil flags without a profile, got %+v", flags)
	}
}

func TestCompute_SeverityWeights(t *testing.T) {
	flags := []*model.ConsistencyFlag{
		{ID: "a", CharacterID: "c1", Severity: model.SeverityLow},
		{ID: "b", CharacterID: "c1", Severity: model.SeverityMedium},
		{ID: "c", CharacterID: "c1", Severity: model.SeverityHigh},
	}

	if got := Compute(flags, "c1"); got != 100-2-5-10 {
		t.Errorf("Expected 83, got %d", got)
	}
}

func TestCompute_IgnoresOtherCharacters(t *testing.T) {
	flags := []*model.ConsistencyFlag{
		{ID: "a", CharacterID: "c1", Severity: model.SeverityHigh},
		{ID: "b", CharacterID: "c2", Severity: model.SeverityHigh},
	}

	if got := Compute(flags, "c1"); got != 90 {
		t.Errorf("Expected 90, got %d", got)
	}
}

func TestCompute_AllDismissedIsHundred(t *testing.T) {
	flags := []*model.ConsistencyFlag{
		{ID: "a", CharacterID: "c1", Severity: model.SeverityHigh, Dismissed: true},
		{ID: "b", CharacterID: "c1", Severity: model.SeverityMedium, Dismissed: true},
		{ID: "c", CharacterID: "c1", Severity: model.SeverityLow, Dismissed: true},
	}

	if got := Compute(flags, "c1"); got != 100 {
		t.Errorf("Dismissing every flag must yield 100, got %d", got)
	}
}

func TestCompute_ToggleRestoresScore(t *testing.T) {
	flags := []*model.ConsistencyFlag{
		{ID: "a", CharacterID: "c1", Severity: model.SeverityMedium},
		{ID: "b", CharacterID: "c1", Severity: model.SeverityLow},
	}
	before := Compute(flags, "c1")

	flags[0].Dismissed = true
	dismissed := Compute(flags, "c1")
	if dismissed != before+5 {
		t.Errorf("Expected %d after dismissal, got %d", before+5, dismissed)
	}

	flags[0].Dismissed = false
	if got := Compute(flags, "c1"); got != before {
		t.Errorf("Un-dismissing must restore the score exactly: want %d, got %d", before, got)
	}
}

func TestCompute_ClampsAtZero(t *testing.T) {
	var flags []*model.ConsistencyFlag
	for i := 0; i < 15; i++ {
		flags = append(flags, &model.ConsistencyFlag{CharacterID: "c1", Severity: model.SeverityHigh})
	}

	if got := Compute(flags, "c1"); got != 0 {
		t.Errorf("Expected clamp at 0, got %d", got)
	}
}

func TestSeverityFor_Bands(t *testing.T) {
	cases := []struct {
		dev  float64
		want model.Severity
		ok   bool
	}{
		{0.5, "", false},
		{1.5, model.SeverityLow, true},
		{2.9, model.SeverityLow, true},
		{3.0, model.SeverityMedium, true},
		{4.4, model.SeverityMedium, true},
		{4.5, model.SeverityHigh, true},
		{9.0, model.SeverityHigh, true},
	}
	for _, c := range cases {
		got, ok := severityFor(c.dev, 1.5)
		if ok != c.ok || got != c.want {
			t.Errorf("severityFor(%f, 1.5) = (%s, %v), want (%s, %v)", c.dev, got, ok, c.want, c.ok)
		}
	}
}

func TestDeviation_FloorBoundsSpread(t *testing.T) {
	base := model.Baseline{Mean: 0.5, StdDev: 0.001}

	// Without a floor the tiny spread would explode the deviation
	want := (0.6 - 0.5) / 0.15
	if got := deviation(0.6, base, 0.15); got != want {
		t.Errorf("Expected floored deviation %f, got %f", want, got)
	}
	// A spread above the floor is used as-is
	base.StdDev = 0.3
	if got := deviation(0.6, base, 0.15); got < 0.333 || got > 0.334 {
		t.Errorf("Expected ~0.333, got %f", got)
	}
}
