package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// DefaultMaxFileBytes caps manuscript size when no explicit limit is set
const DefaultMaxFileBytes = 10 << 20

// Loader reads manuscripts from disk. Plain text and Markdown pass
// through untouched; HTML is flattened to paragraph-separated text.
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader. Non-positive maxBytes falls back to
// DefaultMaxFileBytes; the cap is always enforced.
func NewLoader(maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	return &Loader{maxBytes: maxBytes}
}

// Load reads a manuscript file and returns its text
func (l *Loader) Load(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat manuscript: %w", err)
	}
	if info.Size() > l.maxBytes {
		return "", fmt.Errorf("manuscript %s exceeds %d bytes", path, l.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read manuscript: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return flattenHTML(string(data))
	default:
		return string(data), nil
	}
}

// blockTags are elements that end a paragraph when flattening HTML
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true,
}

// flattenHTML extracts visible text, inserting blank lines at block
// boundaries so paragraph segmentation still works downstream.
func flattenHTML(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n\n")
		}
	}
	walk(doc)

	return buf.String(), nil
}
