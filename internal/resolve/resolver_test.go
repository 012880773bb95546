package resolve

import (
	"reflect"
	"sort"
	"testing"

	"github.com/ramckay/voiceloom/internal/model"
	"github.com/ramckay/voiceloom/internal/segment"
)

func testConfig() model.ResolverConfig {
	return model.ResolverConfig{
		AttributionVerbs: []string{"said", "asked", "replied", "whispered", "shouted"},
		MinDialogueLines: 1,
	}
}

func resolveText(t *testing.T, text string) *Registry {
	t.Helper()
	ms, err := segment.NewSegmenter().Segment(text)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	return NewResolver(testConfig()).Resolve(ms)
}

func TestResolver_Resolve_SubstringAliasMerge(t *testing.T) {
	text := `"Hello," said Sarah Connor.

Sarah walked to the door. Sarah Connor did not look back.

"Goodbye," said Sarah.`

	reg := resolveText(t, text)

	if len(reg.Characters) != 1 {
		t.Fatalf("Expected Sarah and Sarah Connor to merge into 1 character, got %d: %+v",
			len(reg.Characters), reg.Characters)
	}
	c := reg.Characters[0]
	wantAliases := []string{"Sarah", "Sarah Connor"}
	if !reflect.DeepEqual(c.Aliases, wantAliases) {
		t.Errorf("Expected aliases %v, got %v", wantAliases, c.Aliases)
	}

	// Both forms resolve to the same character
	a, okA := reg.Lookup("Sarah")
	b, okB := reg.Lookup("Sarah Connor")
	if !okA || !okB || a != b {
		t.Errorf("Lookup did not resolve both alias forms to one character")
	}
}

func TestResolver_Resolve_DiminutiveMerge(t *testing.T) {
	text := `"Ready?" asked Michael.

Mike grabbed the rope. Mike never hesitated.`

	reg := resolveText(t, text)

	if len(reg.Characters) != 1 {
		t.Fatalf("Expected Mike and Michael to merge, got %d characters", len(reg.Characters))
	}
	c := reg.Characters[0]
	if !c.HasAlias("Mike") || !c.HasAlias("Michael") {
		t.Errorf("Expected both alias forms, got %v", c.Aliases)
	}
}

func TestResolver_Resolve_CoAttributedDiminutivesStaySeparate(t *testing.T) {
	// Mike and Michael converse in adjacent paragraphs: both are attributed
	// speakers in the same window, so the diminutive rule must not merge them.
	text := `"Take the shot," said Michael.

"Not yet," said Mike.

"Now," said Michael.

"Fine," said Mike.`

	reg := resolveText(t, text)

	if len(reg.Characters) != 2 {
		t.Fatalf("Expected co-attributed Mike and Michael to stay separate, got %d characters",
			len(reg.Characters))
	}
}

func TestResolver_Resolve_DistinctNamesStaySeparate(t *testing.T) {
	text := `"Morning," said John.

"Morning yourself," said Sarah.`

	reg := resolveText(t, text)

	if len(reg.Characters) != 2 {
		t.Fatalf("Expected 2 characters, got %d", len(reg.Characters))
	}
	names := []string{reg.Characters[0].Name, reg.Characters[1].Name}
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"John", "Sarah"}) {
		t.Errorf("Expected John and Sarah, got %v", names)
	}
}

func TestResolver_Resolve_SingleNarrationMentionExcluded(t *testing.T) {
	// A name mentioned once in narration with no attribution is not a character
	text := `The letter was addressed to Hawthorne and nobody else.

The rain kept falling on the empty street.`

	reg := resolveText(t, text)

	if len(reg.Characters) != 0 {
		t.Errorf("Expected no characters, got %+v", reg.Characters)
	}
}

func TestResolver_Resolve_RepeatedNarrationMentionIncluded(t *testing.T) {
	text := `Hawthorne studied the letter.

Hawthorne folded it twice.`

	reg := resolveText(t, text)

	if len(reg.Characters) != 1 || reg.Characters[0].Name != "Hawthorne" {
		t.Fatalf("Expected Hawthorne from repeated mentions, got %+v", reg.Characters)
	}
}

func TestResolver_Resolve_TitleStripping(t *testing.T) {
	text := `"Welcome," said Dr. Hart.

Hart nodded at the guests. Hart smiled.`

	reg := resolveText(t, text)

	if len(reg.Characters) != 1 {
		t.Fatalf("Expected Dr. Hart and Hart to merge, got %d characters", len(reg.Characters))
	}
	if !reg.Characters[0].HasAlias("Hart") {
		t.Errorf("Expected title-stripped alias, got %v", reg.Characters[0].Aliases)
	}
}

func TestResolver_Resolve_NamesInsideQuotesNotMentions(t *testing.T) {
	// "Watson" spoken inside dialogue is not a narration mention
	text := `"Watson, come here," said Holmes.

"Watson, I need you," said Holmes.`

	reg := resolveText(t, text)

	for _, c := range reg.Characters {
		if c.HasAlias("Watson") {
			t.Errorf("Name spoken inside quotes became a character: %+v", c)
		}
	}
}

func TestResolver_Resolve_Deterministic(t *testing.T) {
	text := `"One," said Anna.

"Two," said Ben.

Anna laughed. Ben did not.`

	a := resolveText(t, text)
	b := resolveText(t, text)

	if len(a.Characters) != len(b.Characters) {
		t.Fatalf("Run sizes differ: %d vs %d", len(a.Characters), len(b.Characters))
	}
	for i := range a.Characters {
		if a.Characters[i].Name != b.Characters[i].Name {
			t.Errorf("Character order differs at %d: %q vs %q", i, a.Characters[i].Name, b.Characters[i].Name)
		}
		if !reflect.DeepEqual(a.Characters[i].Aliases, b.Characters[i].Aliases) {
			t.Errorf("Alias sets differ for %q", a.Characters[i].Name)
		}
	}
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Mr. Darcy", "Darcy"},
		{"Professor Moody", "Moody"},
		{"Sarah,", "Sarah"},
		{"  Anna  ", "Anna"},
		{"Elizabeth", "Elizabeth"},
	}
	for _, c := range cases {
		if got := CleanName(c.in); got != c.want {
			t.Errorf("CleanName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWordSubstring(t *testing.T) {
	cases := []struct {
		short, long string
		want        bool
	}{
		{"Sarah", "Sarah Connor", true},
		{"Connor", "Sarah Connor", true},
		{"Sara", "Sarah", false},     // not at word boundary
		{"Sarah", "Sarah", false},    // identical forms are not substrings
		{"Sarah Connor", "Sarah", false},
		{"Ann", "Annabelle Lee", false},
	}
	for _, c := range cases {
		if got := wordSubstring(c.short, c.long); got != c.want {
			t.Errorf("wordSubstring(%q, %q) = %v, want %v", c.short, c.long, got, c.want)
		}
	}
}

func TestSpeakerTracker_Window(t *testing.T) {
	tr := NewSpeakerTracker(0)

	tr.Observe(model.Location{Chapter: 0, Paragraph: 2}, "id-anna")

	if got := tr.Resolve(model.Location{Chapter: 0, Paragraph: 2}); got != "id-anna" {
		t.Errorf("Same paragraph: got %q", got)
	}
	if got := tr.Resolve(model.Location{Chapter: 0, Paragraph: 3}); got != "id-anna" {
		t.Errorf("Next paragraph: got %q", got)
	}
	if got := tr.Resolve(model.Location{Chapter: 0, Paragraph: 5}); got != "" {
		t.Errorf("Outside window: expected empty, got %q", got)
	}
	if got := tr.Resolve(model.Location{Chapter: 1, Paragraph: 3}); got != "" {
		t.Errorf("Different chapter: expected empty, got %q", got)
	}
	if got := tr.Last(); got != "id-anna" {
		t.Errorf("Last: got %q", got)
	}
}
