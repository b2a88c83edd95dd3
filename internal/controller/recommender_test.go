package controller

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/valpere/edithints/internal/evidence"
	"github.com/valpere/edithints/internal/oracle"
	"github.com/valpere/edithints/internal/translator"
)

var enes = map[string]string{
	"the":           "el",
	"cat":           "gato",
	"dog":           "perro",
	"sat":           "se sentó",
	"the cat":       "el gato",
	"cat sat":       "gato se sentó",
	"the cat sat":   "el gato se sentó",
	"el":            "the",
	"gato":          "cat",
	"se":            "itself",
	"sentó":         "sat",
	"el gato":       "the cat",
	"gato se":       "cat itself",
	"se sentó":      "sat",
	"el gato se":    "the cat itself",
	"gato se sentó": "cat sat",
}

// lexiconService translates every <p> piece through enes.
type lexiconService struct {
	calls atomic.Int32
}

func (s *lexiconService) Name() string { return "lexicon" }

func (s *lexiconService) Translate(_ context.Context, _ translator.ServiceConfig, req translator.TranslateRequest) (*translator.ServiceResult, error) {
	s.calls.Add(1)
	pieces, err := evidence.Decode(req.Text)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(pieces))
	for i, p := range pieces {
		if v, ok := enes[strings.ToLower(p)]; ok {
			out[i] = v
		} else {
			out[i] = p
		}
	}
	return &translator.ServiceResult{ServiceName: s.Name(), TranslatedText: evidence.Encode(out)}, nil
}

func (s *lexiconService) IsAvailable(context.Context) error { return nil }
func (s *lexiconService) SupportedLanguages(context.Context) ([]string, error) {
	return []string{"en", "es"}, nil
}

type fixedLanguages map[string]string

func (f fixedLanguages) Resolve(lang, text string) (string, bool) {
	if lang != "" && lang != "auto" {
		return lang, true
	}
	code, ok := f[text]
	return code, ok
}

func testRecommender(langs LanguageResolver) *Recommender {
	return NewRecommender(RecommenderConfig{
		Collector: evidence.NewCollector(evidence.CollectorConfig{Logger: discard}),
		Languages: langs,
		Logger:    discard,
	})
}

func catPass(settings Settings) PassInput {
	return PassInput{
		Sentence:  "the dog sat",
		Match:     Match{Index: 0, Source: "the cat sat", Translation: "el gato se sentó"},
		Providers: translator.NewSet(&lexiconService{}),
		Settings:  settings,
	}
}

func TestRecommender_Recommend(t *testing.T) {
	settings := DefaultSettings()
	settings.SourceLang, settings.TargetLang = "en", "es"

	res, err := testRecommender(nil).Recommend(context.Background(), catPass(settings))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 4 || res.Evidence == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Classes[1] != oracle.Change {
		t.Errorf("'gato' translates the replaced word and should change, got %v", res.Classes)
	}
	if res.Classes[0] != oracle.Keep {
		t.Errorf("'el' should be kept, got %v", res.Classes)
	}
}

func TestRecommender_Idempotent(t *testing.T) {
	settings := DefaultSettings()
	settings.SourceLang, settings.TargetLang = "en", "es"
	r := testRecommender(nil)

	first, err1 := r.Recommend(context.Background(), catPass(settings))
	second, err2 := r.Recommend(context.Background(), catPass(settings))
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(first.Classes, second.Classes) {
		t.Errorf("identical passes differ: %v vs %v", first.Classes, second.Classes)
	}
}

func TestRecommender_DetectsLanguages(t *testing.T) {
	langs := fixedLanguages{"the cat sat": "en", "el gato se sentó": "es"}
	res, err := testRecommender(langs).Recommend(context.Background(), catPass(DefaultSettings()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SourceLang != "en" || res.TargetLang != "es" {
		t.Errorf("got %q -> %q", res.SourceLang, res.TargetLang)
	}
}

func TestRecommender_UndetectableLanguage(t *testing.T) {
	_, err := testRecommender(nil).Recommend(context.Background(), catPass(DefaultSettings()))
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRecommender_EmptySentenceSkipsProviders(t *testing.T) {
	svc := &lexiconService{}
	in := catPass(DefaultSettings())
	in.Sentence = "   "
	in.Providers = translator.NewSet(svc)

	res, err := testRecommender(nil).Recommend(context.Background(), in)
	if err != nil || res.Classes != nil {
		t.Errorf("expected no recommendation, got %v, %v", res.Classes, err)
	}
	if svc.calls.Load() != 0 {
		t.Error("providers must not be called for an empty sentence")
	}
}

func TestRecommender_OracleError(t *testing.T) {
	settings := DefaultSettings()
	settings.SourceLang, settings.TargetLang = "en", "es"
	r := NewRecommender(RecommenderConfig{
		Collector: evidence.NewCollector(evidence.CollectorConfig{Logger: discard}),
		Oracle: oracle.OracleFunc(func(context.Context, oracle.Input) ([]oracle.Classification, error) {
			return nil, oracle.ErrLabelCount
		}),
		Logger: discard,
	})
	if _, err := r.Recommend(context.Background(), catPass(settings)); !errors.Is(err, oracle.ErrLabelCount) {
		t.Errorf("expected oracle error, got %v", err)
	}
}
