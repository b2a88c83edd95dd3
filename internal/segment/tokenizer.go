package segment

import "unicode"

// Tokenizer splits text into words. An empty result means the text cannot be
// used for a recommendation pass.
type Tokenizer interface {
	Tokenize(text string) []Word
}

// TokenizerFunc adapts a plain function to Tokenizer.
type TokenizerFunc func(text string) []Word

func (f TokenizerFunc) Tokenize(text string) []Word {
	return f(text)
}

// WordTokenizer is the default tokenizer. Letters, digits and combining marks
// form words; an apostrophe or hyphen between two word runes stays inside the
// word; every other non-space rune is a word of its own. Whitespace never
// produces a word.
type WordTokenizer struct{}

func (WordTokenizer) Tokenize(text string) []Word {
	runes := []rune(text)
	var words []Word

	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, Word{Offset: start, Length: end - start, Text: string(runes[start:end])})
			start = -1
		}
	}

	for i, r := range runes {
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case isJoiner(r) && start >= 0 && i+1 < len(runes) && isWordRune(runes[i+1]):
			// keep going: "don't", "well-known"
		case unicode.IsSpace(r):
			flush(i)
		default:
			flush(i)
			words = append(words, Word{Offset: i, Length: 1, Text: string(r)})
		}
	}
	flush(len(runes))

	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '-', '‐':
		return true
	}
	return false
}
