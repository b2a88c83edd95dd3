// Package translator defines the machine-translation provider contract and
// the concrete providers used to gather sub-segment evidence.
package translator

import (
	"context"
	"time"
)

// Request formats. Evidence requests are always HTML so that every
// sub-segment travels inside its own <p> element.
const (
	FormatText = "text"
	FormatHTML = "html"
)

type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Format     string `json:"format"`
}

// IsHTML reports whether the request text is markup.
func (r TranslateRequest) IsHTML() bool {
	return r.Format == FormatHTML
}

type ServiceResult struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Metadata       map[string]string `json:"metadata"`
	Latency        time.Duration     `json:"latency"`
	Error          string            `json:"error,omitempty"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}

// RequestLimiter is implemented by services that reject requests longer than
// a fixed number of characters. Callers split their payload accordingly.
type RequestLimiter interface {
	MaxRequestChars() int
}

// MaxRequestChars returns the request limit of svc, or 0 when unlimited.
func MaxRequestChars(svc TranslationService) int {
	if l, ok := svc.(RequestLimiter); ok {
		return l.MaxRequestChars()
	}
	return 0
}
