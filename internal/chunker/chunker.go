// Package chunker splits long text into overlapping windows sized for one prompt.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"quiz-gen/internal/domain"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// separators are tried in order: paragraph, line, sentence, word, then a hard cut.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits on natural boundaries with a fixed character overlap.
type Chunker struct {
	size     int
	overlap  int
	splitter textsplitter.RecursiveCharacter
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{
		size:    size,
		overlap: overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(separators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// NewDefault returns a chunker with 1000-character windows and 100 characters of overlap.
func NewDefault() *Chunker {
	c, _ := New(DefaultChunkSize, DefaultChunkOverlap)
	return c
}

// Split returns the ordered chunks of text. Blank input yields no chunks;
// anything else yields at least one.
func (c *Chunker) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			out = append(out, chunk)
		}
	}
	if len(out) == 0 {
		return hardSplit(strings.TrimSpace(text), c.size, c.overlap), nil
	}
	return out, nil
}

// hardSplit cuts fixed rune windows, each starting overlap runes before the
// end of the previous one.
func hardSplit(text string, size, overlap int) []string {
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - overlap
	}
	return chunks
}

var _ domain.TextSplitter = (*Chunker)(nil)
