package controller

import (
	"context"
	"errors"
	"log/slog"

	"github.com/valpere/edithints/internal/detector"
	"github.com/valpere/edithints/internal/evidence"
	"github.com/valpere/edithints/internal/oracle"
	"github.com/valpere/edithints/internal/segment"
	"github.com/valpere/edithints/internal/translator"
)

// ErrUnknownLanguage is returned when an "auto" language cannot be detected.
var ErrUnknownLanguage = errors.New("cannot detect language")

// Settings is the part of the configuration a pass depends on.
type Settings struct {
	MaxSubSegmentLength int
	Symmetric           bool
	Weight              float64
	SourceLang          string
	TargetLang          string
}

// DefaultSettings returns the defaults of the settings object.
func DefaultSettings() Settings {
	return Settings{
		MaxSubSegmentLength: 3,
		Weight:              0.5,
		SourceLang:          detector.Auto,
		TargetLang:          detector.Auto,
	}
}

// PassInput is a snapshot of everything one pass needs.
type PassInput struct {
	Sentence  string
	Match     Match
	Providers *translator.Set
	Settings  Settings
}

// Result is the outcome of one pass. Classes is nil when there is nothing to
// recommend; otherwise it has one entry per word of Words.
type Result struct {
	Match      Match                   `json:"-"`
	SourceLang string                  `json:"source_lang"`
	TargetLang string                  `json:"target_lang"`
	Words      []segment.Word          `json:"words"`
	Classes    []oracle.Classification `json:"classes"`
	Evidence   int                     `json:"evidence_pairs"`
}

// PassRunner computes a Result. Recommender is the production
// implementation.
type PassRunner interface {
	Recommend(ctx context.Context, in PassInput) (Result, error)
}

// LanguageResolver resolves "auto" language codes.
type LanguageResolver interface {
	Resolve(lang, text string) (string, bool)
}

type RecommenderConfig struct {
	Tokenizer segment.Tokenizer
	Collector *evidence.Collector
	Oracle    oracle.Oracle
	// Languages is only needed when a language is "auto".
	Languages LanguageResolver
	Logger    *slog.Logger
}

// Recommender runs tokenization, evidence collection and classification.
type Recommender struct {
	tok       segment.Tokenizer
	collector *evidence.Collector
	oracle    oracle.Oracle
	languages LanguageResolver
	logger    *slog.Logger
}

func NewRecommender(config RecommenderConfig) *Recommender {
	r := &Recommender{
		tok:       config.Tokenizer,
		collector: config.Collector,
		oracle:    config.Oracle,
		languages: config.Languages,
		logger:    config.Logger,
	}
	if r.tok == nil {
		r.tok = segment.WordTokenizer{}
	}
	if r.oracle == nil {
		r.oracle = oracle.NewGeometric(r.tok)
	}
	if r.collector == nil {
		r.collector = evidence.NewCollector(evidence.CollectorConfig{Logger: config.Logger})
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func (r *Recommender) Recommend(ctx context.Context, in PassInput) (Result, error) {
	res := Result{Match: in.Match}

	sentence := segment.NewSegment(in.Sentence, r.tok)
	unit := segment.TranslationUnit{
		Source: segment.NewSegment(in.Match.Source, r.tok),
		Target: segment.NewSegment(in.Match.Translation, r.tok),
	}
	res.Words = unit.Target.Words
	if sentence.Len() == 0 || unit.Empty() {
		r.logger.Debug("nothing to recommend", "match", in.Match.Index)
		return res, nil
	}

	var err error
	if res.SourceLang, err = r.resolve(in.Settings.SourceLang, in.Match.Source); err != nil {
		return res, err
	}
	if res.TargetLang, err = r.resolve(in.Settings.TargetLang, in.Match.Translation); err != nil {
		return res, err
	}

	dict := r.collector.Collect(ctx, evidence.Request{
		Unit:       unit,
		SourceLang: res.SourceLang,
		TargetLang: res.TargetLang,
		MaxLen:     in.Settings.MaxSubSegmentLength,
	}, in.Providers)
	res.Evidence = dict.Len()
	if dict.Len() == 0 {
		return res, nil
	}

	classes, err := r.oracle.Classify(ctx, oracle.Input{
		Sentence: sentence,
		Unit:     unit,
		Evidence: dict,
		Options: oracle.Options{
			WindowSize: in.Settings.MaxSubSegmentLength,
			Symmetric:  in.Settings.Symmetric,
			Weight:     in.Settings.Weight,
		},
	})
	if err != nil {
		return res, err
	}
	if len(classes) > 0 {
		res.Classes = classes
	}
	return res, nil
}

func (r *Recommender) resolve(lang, text string) (string, error) {
	if lang != "" && lang != detector.Auto {
		return lang, nil
	}
	if r.languages == nil {
		return "", ErrUnknownLanguage
	}
	code, ok := r.languages.Resolve(lang, text)
	if !ok {
		return "", ErrUnknownLanguage
	}
	return code, nil
}
