package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ApertiumService talks to an Apertium APy server. Apertium only supports
// explicit language pairs, so "auto" is rejected.
type ApertiumService struct {
	baseURL string
	client  *http.Client
}

func NewApertiumService(baseURL string) *ApertiumService {
	if baseURL == "" {
		baseURL = "https://apertium.org/apy"
	}
	return &ApertiumService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ApertiumService) Name() string {
	return "apertium"
}

func (s *ApertiumService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if req.SourceLang == "" || req.SourceLang == "auto" {
		result.Error = "Apertium requires an explicit source language"
		return result, fmt.Errorf("Apertium requires an explicit source language")
	}

	format := FormatText
	if req.IsHTML() {
		format = FormatHTML
	}

	query := url.Values{}
	query.Set("q", req.Text)
	query.Set("langpair", fmt.Sprintf("%s|%s", req.SourceLang, req.TargetLang))
	query.Set("format", format)
	query.Set("markUnknown", "no")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/translate?"+query.Encode(), nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	text, err := decodeResponseData(resp)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	result.TranslatedText = text
	return result, nil
}

func (s *ApertiumService) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/listPairs", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Apertium not available: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Apertium returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *ApertiumService) SupportedLanguages(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/listPairs", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var pairs struct {
		ResponseData []struct {
			SourceLanguage string `json:"sourceLanguage"`
			TargetLanguage string `json:"targetLanguage"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pairs); err != nil {
		return nil, fmt.Errorf("failed to decode language pairs: %w", err)
	}

	seen := make(map[string]bool)
	var langs []string
	for _, p := range pairs.ResponseData {
		for _, l := range []string{p.SourceLanguage, p.TargetLanguage} {
			if !seen[l] {
				seen[l] = true
				langs = append(langs, l)
			}
		}
	}
	return langs, nil
}
