// Package segment turns sentences into ordered word spans and enumerates the
// bounded-length sub-segments used as units of translation evidence.
//
// All offsets are rune offsets relative to the tokenized text.
package segment

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Word is a span of a sentence. Values are never mutated after tokenization.
type Word struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// End returns the rune offset just past the word.
func (w Word) End() int {
	return w.Offset + w.Length
}

// Segment is one sentence as an ordered sequence of words.
type Segment struct {
	Words []Word
}

// NewSegment tokenizes text with tok.
func NewSegment(text string, tok Tokenizer) Segment {
	return Segment{Words: tok.Tokenize(text)}
}

// Len returns the number of words.
func (s Segment) Len() int {
	return len(s.Words)
}

// Text joins the words with single spaces.
func (s Segment) Text() string {
	return joinWords(s.Words)
}

// Normalized returns the normalized form of every word, in order.
func (s Segment) Normalized() []string {
	out := make([]string, len(s.Words))
	for i, w := range s.Words {
		out[i] = Normalize(w.Text)
	}
	return out
}

// TranslationUnit is a translation-memory match under evaluation.
type TranslationUnit struct {
	Source Segment
	Target Segment
}

// Empty reports whether either side of the unit has no words.
func (tu TranslationUnit) Empty() bool {
	return tu.Source.Len() == 0 || tu.Target.Len() == 0
}

var folder = cases.Fold()

// Normalize folds case, applies NFC and collapses runs of whitespace.
// Dictionary keys and containment checks always go through it.
func Normalize(text string) string {
	text = folder.String(text)
	text = norm.NFC.String(text)
	return strings.Join(strings.Fields(text), " ")
}

func joinWords(words []Word) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Text)
	}
	return sb.String()
}
