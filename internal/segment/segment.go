// Package segment splits transcript text into sentences for the extraction
// pipeline.
package segment

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits text into an ordered list of sentences. Implementations
// must never return empty or whitespace-only entries.
type Segmenter interface {
	Segment(text string) []string
}

// PunktSegmenter is a Segmenter backed by a trained punkt sentence tokenizer.
type PunktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// Ensure PunktSegmenter implements Segmenter
var _ Segmenter = (*PunktSegmenter)(nil)

// NewPunktSegmenter builds a segmenter with the bundled English training data.
func NewPunktSegmenter() (*PunktSegmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &PunktSegmenter{tokenizer: tokenizer}, nil
}

// Segment splits text into trimmed, non-empty sentences in document order.
func (s *PunktSegmenter) Segment(text string) []string {
	var out []string
	for _, sentence := range s.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(sentence.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
