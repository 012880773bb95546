package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ramckay/voiceloom/internal/model"
)

// Renderer writes analysis reports as JSON, Markdown, or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full analysis as indented JSON
func (r *Renderer) RenderJSON(analysis *model.Analysis, path string) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable voice report
func (r *Renderer) RenderMarkdown(analysis *model.Analysis, path string) error {
	var b strings.Builder

	b.WriteString("# Voice Consistency Report\n\n")
	fmt.Fprintf(&b, "Analyzed %s. %d chapters, %d paragraphs, %d dialogue spans (%d unresolved).\n\n",
		analysis.CreatedAt.Format("2006-01-02 15:04 MST"),
		analysis.Stats.Chapters, analysis.Stats.Paragraphs,
		analysis.Stats.DialogueSpans, analysis.Stats.UnresolvedSpans)

	for _, c := range sortedCharacters(analysis) {
		fmt.Fprintf(&b, "## %s\n\n", c.Name)
		if len(c.Aliases) > 1 {
			fmt.Fprintf(&b, "Also appears as: %s\n\n", strings.Join(otherAliases(c), ", "))
		}

		if c.Status == model.StatusInsufficientData {
			fmt.Fprintf(&b, "Insufficient dialogue to profile (%d lines).\n\n", len(c.Lines))
			continue
		}

		fmt.Fprintf(&b, "**Consistency score: %d/100** over %d lines.\n\n", c.Score, len(c.Lines))
		if c.Warning != "" {
			fmt.Fprintf(&b, "> %s\n\n", c.Warning)
		}

		if profile, ok := analysis.Profiles[c.ID]; ok {
			b.WriteString("### Voice profile\n\n")
			for _, d := range model.AllDimensions() {
				base := profile.Dim(d)
				fmt.Fprintf(&b, "- **%s**: %s\n", dimensionLabel(d), base.Summary)
			}
			b.WriteString("\n")

			if quotes := profile.Dim(model.DimVocabulary).Quotes; len(quotes) > 0 {
				b.WriteString("Representative lines:\n\n")
				for _, q := range quotes {
					fmt.Fprintf(&b, "> %q\n", q)
				}
				b.WriteString("\n")
			}
		}

		flags := analysis.CharacterFlags(c.ID)
		if len(flags) > 0 {
			b.WriteString("### Flags\n\n")
			for _, f := range flags {
				status := ""
				if f.Dismissed {
					status = " (dismissed)"
				}
				fmt.Fprintf(&b, "- [%s] %s at %s%s: %q\n",
					f.Severity, dimensionLabel(f.Dimension), f.Location.String(), status, f.Passage)
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by voiceloom. Scores reflect deviation from each character's own baseline, not writing quality.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderLLMMarkdown writes the already-rendered LLM narrative to its own file
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write LLM markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a terse per-character summary to stdout
func (r *Renderer) RenderSummary(analysis *model.Analysis) {
	fmt.Printf("\nCharacters: %d  Dialogue spans: %d  Unresolved: %d\n\n",
		len(analysis.Characters), analysis.Stats.DialogueSpans, analysis.Stats.UnresolvedSpans)

	for _, c := range sortedCharacters(analysis) {
		if c.Status == model.StatusInsufficientData {
			fmt.Printf("  %-24s insufficient data (%d lines)\n", c.Name, len(c.Lines))
			continue
		}
		active := 0
		for _, f := range analysis.CharacterFlags(c.ID) {
			if !f.Dismissed {
				active++
			}
		}
		fmt.Printf("  %-24s score %3d  lines %4d  flags %d\n", c.Name, c.Score, len(c.Lines), active)
	}
	fmt.Println()
}

// sortedCharacters orders by score ascending so the shakiest voices lead,
// with insufficient-data characters last
func sortedCharacters(analysis *model.Analysis) []*model.Character {
	out := make([]*model.Character, len(analysis.Characters))
	copy(out, analysis.Characters)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Status == model.StatusInsufficientData) != (b.Status == model.StatusInsufficientData) {
			return b.Status == model.StatusInsufficientData
		}
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return a.Name < b.Name
	})
	return out
}

func otherAliases(c *model.Character) []string {
	var out []string
	for _, a := range c.Aliases {
		if a != c.Name {
			out = append(out, a)
		}
	}
	return out
}

func dimensionLabel(d model.Dimension) string {
	switch d {
	case model.DimVocabulary:
		return "Vocabulary"
	case model.DimSentence:
		return "Sentence structure"
	case model.DimTics:
		return "Verbal tics"
	case model.DimFormality:
		return "Formality"
	}
	return string(d)
}
