// Package oracle classifies every word of a translation-memory match target
// as worth keeping or worth changing, given translation evidence.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/edithints/internal/evidence"
	"github.com/valpere/edithints/internal/segment"
)

// Classification is the verdict for one target word.
type Classification int

const (
	None Classification = iota
	Keep
	Change
)

func (c Classification) String() string {
	switch c {
	case Keep:
		return "keep"
	case Change:
		return "change"
	default:
		return "none"
	}
}

func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Classification) UnmarshalText(b []byte) error {
	v, err := ParseClassification(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseClassification accepts the lower-case names produced by String.
func ParseClassification(s string) (Classification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep":
		return Keep, nil
	case "change", "edit":
		return Change, nil
	case "none", "":
		return None, nil
	}
	return None, fmt.Errorf("unknown classification %q", s)
}

// Options tune the scoring.
type Options struct {
	// WindowSize is the longest phrase, in words, that is considered.
	WindowSize int
	// Symmetric weighs a vote by both phrase lengths instead of only the
	// target side.
	Symmetric bool
	// Weight in [0,1] biases toward keep (1) or change (0).
	Weight float64
}

// DefaultOptions match the defaults of the settings object.
func DefaultOptions() Options {
	return Options{WindowSize: 3, Weight: 0.5}
}

// Input is everything one classification needs.
type Input struct {
	// Sentence is the new source sentence being translated.
	Sentence segment.Segment
	// Unit is the match: its Source is similar to Sentence, its Target is
	// the text being classified.
	Unit     segment.TranslationUnit
	Evidence *evidence.Dictionary
	Options  Options
}

// Oracle produces one Classification per word of Input.Unit.Target.
// A nil slice with a nil error means there is nothing to recommend.
type Oracle interface {
	Classify(ctx context.Context, in Input) ([]Classification, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, in Input) ([]Classification, error)

func (f OracleFunc) Classify(ctx context.Context, in Input) ([]Classification, error) {
	return f(ctx, in)
}

// allNone reports whether classes carries no recommendation.
func allNone(classes []Classification) bool {
	for _, c := range classes {
		if c != None {
			return false
		}
	}
	return true
}
