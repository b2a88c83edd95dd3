package oracle

import (
	"context"
	"reflect"
	"testing"

	"github.com/valpere/edithints/internal/evidence"
	"github.com/valpere/edithints/internal/segment"
)

func seg(text string) segment.Segment {
	return segment.NewSegment(text, segment.WordTokenizer{})
}

func catInput(opts Options) Input {
	dict := evidence.NewDictionary()
	dict.Add("the", "el")
	dict.Add("cat", "gato")
	dict.Add("sat", "se sentó")
	dict.Add("the cat", "el gato")
	return Input{
		Sentence: seg("the dog sat"),
		Unit: segment.TranslationUnit{
			Source: seg("the cat sat"),
			Target: seg("el gato se sentó"),
		},
		Evidence: dict,
		Options:  opts,
	}
}

func TestGeometric_Classify(t *testing.T) {
	got, err := NewGeometric(nil).Classify(context.Background(), catInput(DefaultOptions()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Classification{Keep, Change, Keep, Keep}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGeometric_Symmetric(t *testing.T) {
	opts := DefaultOptions()
	opts.Symmetric = true
	got, err := NewGeometric(nil).Classify(context.Background(), catInput(opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Classification{Keep, Change, Keep, Keep}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGeometric_WeightBias(t *testing.T) {
	// "el" has keep 1 and change 0.5; a strong change bias flips it.
	opts := DefaultOptions()
	opts.Weight = 0.2
	got, _ := NewGeometric(nil).Classify(context.Background(), catInput(opts))
	if got[0] != Change {
		t.Errorf("expected first word to flip to change, got %v", got[0])
	}

	opts.Weight = 1
	got, _ = NewGeometric(nil).Classify(context.Background(), catInput(opts))
	if got[1] != None {
		t.Errorf("with weight 1 a word with only change votes has no verdict, got %v", got[1])
	}
}

func TestGeometric_NoEvidence(t *testing.T) {
	in := catInput(DefaultOptions())
	in.Evidence = evidence.NewDictionary()
	got, err := NewGeometric(nil).Classify(context.Background(), in)
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}

	in.Evidence = nil
	if got, _ := NewGeometric(nil).Classify(context.Background(), in); got != nil {
		t.Errorf("expected nil for missing dictionary, got %v", got)
	}
}

func TestGeometric_IrrelevantEvidenceIsNone(t *testing.T) {
	in := catInput(DefaultOptions())
	in.Evidence = evidence.NewDictionary()
	in.Evidence.Add("dog", "perro")
	got, err := NewGeometric(nil).Classify(context.Background(), in)
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestGeometric_PunctuationIsRetokenized(t *testing.T) {
	dict := evidence.NewDictionary()
	dict.Add("cat.", "gato.")
	in := Input{
		Sentence: seg("the dog."),
		Unit: segment.TranslationUnit{
			Source: seg("the cat."),
			Target: seg("el gato."),
		},
		Evidence: dict,
		Options:  DefaultOptions(),
	}
	got, _ := NewGeometric(nil).Classify(context.Background(), in)
	want := []Classification{None, Change, Change}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGeometric_WindowLimitsPhrases(t *testing.T) {
	opts := DefaultOptions()
	opts.WindowSize = 1
	in := catInput(opts)
	in.Evidence = evidence.NewDictionary()
	in.Evidence.Add("the cat", "el gato")
	got, _ := NewGeometric(nil).Classify(context.Background(), in)
	if got != nil {
		t.Errorf("two-word pairs should be ignored with window 1, got %v", got)
	}
}

func TestGeometric_Deterministic(t *testing.T) {
	g := NewGeometric(nil)
	first, _ := g.Classify(context.Background(), catInput(DefaultOptions()))
	second, _ := g.Classify(context.Background(), catInput(DefaultOptions()))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs gave %v and %v", first, second)
	}
}

func TestGeometric_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewGeometric(nil).Classify(ctx, catInput(DefaultOptions())); err == nil {
		t.Error("expected context error")
	}
}

func TestParseClassification(t *testing.T) {
	for in, want := range map[string]Classification{"keep": Keep, " Change ": Change, "edit": Change, "none": None, "": None} {
		got, err := ParseClassification(in)
		if err != nil || got != want {
			t.Errorf("ParseClassification(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseClassification("maybe"); err == nil {
		t.Error("expected error for unknown label")
	}
}
