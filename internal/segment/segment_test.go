package segment

import (
	"reflect"
	"testing"
)

func texts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func TestWordTokenizer_Tokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"spaces only", "   \t", nil},
		{"simple", "the cat sat", []string{"the", "cat", "sat"}},
		{"punctuation", "Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"apostrophe inside word", "don't stop", []string{"don't", "stop"}},
		{"hyphen inside word", "well-known fact", []string{"well-known", "fact"}},
		{"trailing hyphen", "pre- and post", []string{"pre", "-", "and", "post"}},
		{"unicode", "кіт сидів", []string{"кіт", "сидів"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(WordTokenizer{}.Tokenize(tt.text))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestWordTokenizer_RuneOffsets(t *testing.T) {
	text := "café au lait"
	words := WordTokenizer{}.Tokenize(text)
	runes := []rune(text)

	for _, w := range words {
		if got := string(runes[w.Offset:w.End()]); got != w.Text {
			t.Errorf("offsets [%d,%d) give %q, want %q", w.Offset, w.End(), got, w.Text)
		}
	}
	if words[1].Offset != 5 {
		t.Errorf("expected second word at rune offset 5, got %d", words[1].Offset)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"The  Cat":        "the cat",
		"  STRASSE ":      "strasse",
		"e\u0301":         "\u00e9",
		"Stra\u00dfe":     "strasse",
		"":                "",
		"one\ttwo\nthree": "one two three",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSegment_Text(t *testing.T) {
	seg := NewSegment("Hello,   world", WordTokenizer{})
	if got := seg.Text(); got != "Hello , world" {
		t.Errorf("Text() = %q", got)
	}
	if seg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", seg.Len())
	}
}

func TestTranslationUnit_Empty(t *testing.T) {
	tok := WordTokenizer{}
	if !(TranslationUnit{Source: NewSegment("a", tok)}).Empty() {
		t.Error("unit without target words should be empty")
	}
	tu := TranslationUnit{Source: NewSegment("a", tok), Target: NewSegment("b", tok)}
	if tu.Empty() {
		t.Error("unit with words on both sides should not be empty")
	}
}
