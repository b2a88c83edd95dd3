// Package detector resolves "auto" language codes from the text itself.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Auto is the language code that asks for detection.
const Auto = "auto"

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector for the given ISO 639-1 codes. With fewer than two
// known codes every supported language is considered.
func New(codes ...string) *Detector {
	builder := lingua.NewLanguageDetectorBuilder()

	var langs []lingua.Language
	for _, lang := range lingua.AllLanguages() {
		for _, code := range codes {
			if strings.EqualFold(lang.IsoCode639_1().String(), code) {
				langs = append(langs, lang)
			}
		}
	}

	var detector lingua.LanguageDetector
	if len(langs) >= 2 {
		detector = builder.FromLanguages(langs...).Build()
	} else {
		detector = builder.FromAllLanguages().Build()
	}
	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of text.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Resolve returns lang unless it is empty or Auto, in which case the
// language of text is detected.
func (d *Detector) Resolve(lang, text string) (string, bool) {
	if lang != "" && !strings.EqualFold(lang, Auto) {
		return lang, true
	}
	return d.DetectISO(text)
}
