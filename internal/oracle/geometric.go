package oracle

import (
	"context"
	"math"
	"strings"

	"github.com/valpere/edithints/internal/segment"
)

// Geometric scores target words by the evidence phrases that cover them.
//
// A dictionary pair (s, t) votes when s occurs in the match source and t in
// the match target. Every target word under an occurrence of t gets a keep
// vote if s also occurs in the new sentence, a change vote otherwise.
type Geometric struct {
	// Tokenizer splits evidence phrases the same way the segments were
	// split. Defaults to segment.WordTokenizer.
	Tokenizer segment.Tokenizer
}

func NewGeometric(tok segment.Tokenizer) *Geometric {
	return &Geometric{Tokenizer: tok}
}

func (g *Geometric) Classify(ctx context.Context, in Input) ([]Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := in.Unit.Target.Normalized()
	if len(target) == 0 || in.Evidence.Len() == 0 {
		return nil, nil
	}

	window := in.Options.WindowSize
	if window <= 0 {
		window = DefaultOptions().WindowSize
	}
	source := ngramIndex(in.Unit.Source.Normalized(), window)
	sentence := ngramIndex(in.Sentence.Normalized(), window)
	targets := ngramIndex(target, window)

	keep := make([]float64, len(target))
	change := make([]float64, len(target))

	in.Evidence.Each(func(s, t string) {
		sKey, sLen := g.phrase(s)
		tKey, tLen := g.phrase(t)
		if sLen == 0 || tLen == 0 || sLen > window || tLen > window {
			return
		}
		if _, ok := source[sKey]; !ok {
			return
		}
		starts, ok := targets[tKey]
		if !ok {
			return
		}

		vote := 1 / float64(tLen)
		if in.Options.Symmetric {
			vote = 1 / math.Sqrt(float64(sLen*tLen))
		}
		_, kept := sentence[sKey]
		for _, start := range starts {
			for i := start; i < start+tLen; i++ {
				if kept {
					keep[i] += vote
				} else {
					change[i] += vote
				}
			}
		}
	})

	w := in.Options.Weight
	classes := make([]Classification, len(target))
	for i := range target {
		classes[i] = decide(w*keep[i], (1-w)*change[i])
	}
	if allNone(classes) {
		return nil, nil
	}
	return classes, nil
}

// phrase re-tokenizes a dictionary entry so that punctuation is split the
// same way as in the segments.
func (g *Geometric) phrase(text string) (string, int) {
	tok := g.Tokenizer
	if tok == nil {
		tok = segment.WordTokenizer{}
	}
	words := segment.NewSegment(text, tok).Normalized()
	return strings.Join(words, " "), len(words)
}

func decide(keep, change float64) Classification {
	total := keep + change
	if total == 0 {
		return None
	}
	switch p := keep / total; {
	case p > 0.5:
		return Keep
	case p < 0.5:
		return Change
	default:
		return None
	}
}

// ngramIndex maps every phrase of up to maxLen words to its start indices.
func ngramIndex(words []string, maxLen int) map[string][]int {
	index := make(map[string][]int)
	for i := range words {
		for k := 1; k <= maxLen && i+k <= len(words); k++ {
			key := strings.Join(words[i:i+k], " ")
			index[key] = append(index[key], i)
		}
	}
	return index
}
