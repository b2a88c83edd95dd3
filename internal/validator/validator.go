// Package validator checks that provider responses are in the language that
// was asked for.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/edithints/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

var (
	ErrEmpty         = errors.New("translation is empty")
	ErrWrongLanguage = errors.New("unexpected language")
)

// Validator checks that translated pieces are written in the expected target language.
// The underlying language detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator on top of det, or a fresh detector when det is nil.
func New(det *detector.Detector) *Validator {
	if det == nil {
		det = detector.New()
	}
	return &Validator{det: det}
}

// IsValid returns true when translatedText appears to be written in targetLang.
//
// Short texts (fewer than minValidationLength runes) and texts whose language
// cannot be determined pass without error. When the detected language differs
// from targetLang the returned error names both codes.
func (v *Validator) IsValid(translatedText, targetLang string) (bool, error) {
	if targetLang == "" || strings.EqualFold(targetLang, detector.Auto) {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, ErrEmpty
	}

	// Detector is unreliable for very short texts; skip validation.
	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return true, nil
	}

	if !strings.EqualFold(detected, targetLang) {
		return false, fmt.Errorf("%w: expected %s but detected %s", ErrWrongLanguage, targetLang, detected)
	}

	return true, nil
}

// Check validates a decoded provider response as a whole.
func (v *Validator) Check(pieces []string, targetLang string) error {
	_, err := v.IsValid(strings.Join(pieces, " "), targetLang)
	return err
}
