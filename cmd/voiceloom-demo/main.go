// Demo program that runs the analysis engine on an embedded manuscript.
// Useful for eyeballing attribution, profiling, and flagging end to end
// without a manuscript file on hand.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ramckay/voiceloom/internal/engine"
	"github.com/ramckay/voiceloom/internal/model"
)

const sample = `Chapter 1: The Meeting

"Good evening, Professor. I trust the journey was not too arduous?" said Eleanor.

"It was fine, thank you for asking," replied Marcus. "The roads were clear."

"Splendid. Perhaps we might discuss the manuscript over dinner," Eleanor said.

"I would be delighted to examine the findings," said Marcus.

Ellie turned to the window. "The weather has been remarkably pleasant this season."

Chapter 2: The Falling Out

"Yo, gimme that thing already!" Eleanor shouted.

"I beg your pardon?" asked Marcus.

"Forgive me. I hardly know what came over me," said Eleanor.
`

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eng, err := engine.New(model.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}

	analysis, err := eng.Analyze(ctx, sample)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chapters: %d  Paragraphs: %d  Spans: %d  Unresolved: %d\n\n",
		analysis.Stats.Chapters, analysis.Stats.Paragraphs,
		analysis.Stats.DialogueSpans, analysis.Stats.UnresolvedSpans)

	for _, c := range analysis.Characters {
		fmt.Printf("%s\n%s\n", c.Name, strings.Repeat("-", len(c.Name)))
		fmt.Printf("  aliases: %s\n", strings.Join(c.Aliases, ", "))
		fmt.Printf("  lines:   %d\n", len(c.Lines))

		if c.Status == model.StatusInsufficientData {
			fmt.Printf("  status:  insufficient data\n\n")
			continue
		}
		fmt.Printf("  score:   %d/100\n", c.Score)

		if profile, ok := analysis.Profiles[c.ID]; ok {
			for _, d := range model.AllDimensions() {
				fmt.Printf("  %-20s %s\n", d, profile.Dim(d).Summary)
			}
		}

		for _, f := range analysis.CharacterFlags(c.ID) {
			fmt.Printf("  FLAG [%s] %s at %s: %q (deviation %.2f)\n",
				f.Severity, f.Dimension, f.Location.String(), f.Passage, f.Deviation)
		}
		fmt.Println()
	}
}
