package segment

import (
	"errors"
	"testing"

	"github.com/ramckay/voiceloom/internal/model"
)

func TestSegmenter_Segment_ChapterHeadings(t *testing.T) {
	s := NewSegmenter()

	text := `Chapter 1: The Meeting

It was a dark night.

Chapter 2 - Homecoming

The morning came slowly.

CHAPTER III

Nothing stirred.`

	ms, err := s.Segment(text)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if len(ms.Chapters) != 3 {
		t.Fatalf("Expected 3 chapters, got %d", len(ms.Chapters))
	}
	if ms.Chapters[0].Title != "The Meeting" {
		t.Errorf("Expected title %q, got %q", "The Meeting", ms.Chapters[0].Title)
	}
	if ms.Chapters[1].Title != "Homecoming" {
		t.Errorf("Expected title %q, got %q", "Homecoming", ms.Chapters[1].Title)
	}
	if ms.Chapters[2].Title != "" {
		t.Errorf("Expected empty title, got %q", ms.Chapters[2].Title)
	}
	for i, ch := range ms.Chapters {
		if ch.Index != i {
			t.Errorf("Chapter %d has index %d", i, ch.Index)
		}
		if len(ch.Paragraphs) != 1 {
			t.Errorf("Chapter %d: expected 1 paragraph, got %d", i, len(ch.Paragraphs))
		}
	}
}

func TestSegmenter_Segment_ImplicitChapter(t *testing.T) {
	s := NewSegmenter()

	ms, err := s.Segment("Just a short story.\n\nWith two paragraphs.")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if len(ms.Chapters) != 1 {
		t.Fatalf("Expected 1 implicit chapter, got %d", len(ms.Chapters))
	}
	if ms.Chapters[0].Index != 0 {
		t.Errorf("Expected chapter index 0, got %d", ms.Chapters[0].Index)
	}
	if len(ms.Chapters[0].Paragraphs) != 2 {
		t.Errorf("Expected 2 paragraphs, got %d", len(ms.Chapters[0].Paragraphs))
	}
}

func TestSegmenter_Segment_ParagraphJoining(t *testing.T) {
	s := NewSegmenter()

	// Consecutive non-blank lines belong to one paragraph
	ms, err := s.Segment("First line of the paragraph\nsecond line of the same.\n\nNew paragraph.")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	paras := ms.Chapters[0].Paragraphs
	if len(paras) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(paras))
	}
	want := "First line of the paragraph second line of the same."
	if paras[0].Text != want {
		t.Errorf("Expected %q, got %q", want, paras[0].Text)
	}
	if paras[0].Location != (model.Location{Chapter: 0, Paragraph: 0}) {
		t.Errorf("Unexpected location: %+v", paras[0].Location)
	}
	if paras[1].Location != (model.Location{Chapter: 0, Paragraph: 1}) {
		t.Errorf("Unexpected location: %+v", paras[1].Location)
	}
}

func TestSegmenter_Segment_CRLF(t *testing.T) {
	s := NewSegmenter()

	ms, err := s.Segment("One.\r\n\r\nTwo.")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if ms.ParagraphCount() != 2 {
		t.Errorf("Expected 2 paragraphs, got %d", ms.ParagraphCount())
	}
}

func TestSegmenter_Segment_TextBeforeFirstHeading(t *testing.T) {
	s := NewSegmenter()

	ms, err := s.Segment("A prologue paragraph.\n\nChapter 1\n\nThe story begins.")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if len(ms.Chapters) != 2 {
		t.Fatalf("Expected 2 chapters, got %d", len(ms.Chapters))
	}
	if len(ms.Chapters[0].Paragraphs) != 1 || ms.Chapters[0].Paragraphs[0].Text != "A prologue paragraph." {
		t.Errorf("Prologue not captured in implicit chapter: %+v", ms.Chapters[0])
	}
}

func TestSegmenter_Segment_EmptyInput(t *testing.T) {
	s := NewSegmenter()

	for _, input := range []string{"", "   \n\n  \t\n"} {
		if _, err := s.Segment(input); !errors.Is(err, model.ErrEmptyInput) {
			t.Errorf("Segment(%q): expected ErrEmptyInput, got %v", input, err)
		}
	}
}

func TestSegmenter_Segment_HeadingOnlyIsEmpty(t *testing.T) {
	s := NewSegmenter()

	// A manuscript of headings with no prose has no analyzable text
	if _, err := s.Segment("Chapter 1\n\nChapter 2\n"); !errors.Is(err, model.ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestSegmenter_Segment_MidParagraphChapterWordIgnored(t *testing.T) {
	s := NewSegmenter()

	// "chapter" inside a sentence is not a heading
	ms, err := s.Segment("She closed the chapter 3 summary and sighed.")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(ms.Chapters) != 1 || ms.Chapters[0].Title != "" {
		t.Errorf("Sentence mentioning a chapter was treated as a heading: %+v", ms.Chapters)
	}
}
