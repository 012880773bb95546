package segment

import (
	"regexp"
	"strings"

	"github.com/ramckay/voiceloom/internal/model"
)

// chapterHeading matches conventional chapter headings: "Chapter 3",
// "CHAPTER XII: The Storm", "Ch. 2 - Homecoming", "Chapter One".
var chapterHeading = regexp.MustCompile(
	`(?i)^\s*(?:chapter|ch\.)\s+(?:[0-9]+|[ivxlcdm]+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)\b\s*[:\-–—]?\s*(.*)$`,
)

// Segmenter splits raw manuscript text into ordered chapters and paragraphs
type Segmenter struct{}

// NewSegmenter creates a new segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment splits text into chapters and blank-line-delimited paragraphs.
// Every non-blank, non-heading line lands in exactly one paragraph; text with
// no recognized heading becomes a single implicit chapter.
func (s *Segmenter) Segment(text string) (*model.Manuscript, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrEmptyInput
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	ms := &model.Manuscript{}
	chapter := -1 // index into ms.Chapters; -1 until the first paragraph or heading
	var buf []string

	flushParagraph := func() {
		if len(buf) == 0 {
			return
		}
		if chapter < 0 {
			// Implicit chapter for text preceding any heading
			ms.Chapters = append(ms.Chapters, model.Chapter{Index: 0})
			chapter = 0
		}
		ch := &ms.Chapters[chapter]
		ch.Paragraphs = append(ch.Paragraphs, model.Paragraph{
			Location: model.Location{Chapter: chapter, Paragraph: len(ch.Paragraphs)},
			Text:     strings.Join(buf, " "),
		})
		buf = buf[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushParagraph()
			continue
		}
		if m := chapterHeading.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			ms.Chapters = append(ms.Chapters, model.Chapter{
				Index: len(ms.Chapters),
				Title: strings.TrimSpace(m[1]),
			})
			chapter = len(ms.Chapters) - 1
			continue
		}
		buf = append(buf, trimmed)
	}
	flushParagraph()

	if ms.ParagraphCount() == 0 {
		return nil, model.ErrEmptyInput
	}

	return ms, nil
}
