package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()
	if !s.Enabled || s.MaxSubSegmentLength != 3 || s.Weight != 0.5 || s.Symmetric {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.ProviderTimeout != 30*time.Second || s.Concurrency != 4 || s.CacheSize != 4096 {
		t.Errorf("unexpected runtime defaults %+v", s)
	}
	if s.Oracle != OracleGeometric || s.SourceLang != "auto" || len(s.Providers) != 0 {
		t.Errorf("unexpected defaults %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edithints.yaml")
	content := `
max_subsegment_length: 2
symmetric: true
weight: 0.7
providers: [google, Apertium]
source_lang: en
target_lang: es
provider_timeout: 5s
log:
  level: debug
services:
  apertium:
    base_url: http://localhost:2737
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.MaxSubSegmentLength != 2 || !s.Symmetric || s.Weight != 0.7 {
		t.Errorf("unexpected settings %+v", s)
	}
	if !reflect.DeepEqual(s.Providers, []string{"google", "apertium"}) {
		t.Errorf("unexpected providers %v", s.Providers)
	}
	if s.ProviderTimeout != 5*time.Second || s.Log.Level != "debug" {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.Services.Apertium.BaseURL != "http://localhost:2737" {
		t.Errorf("unexpected apertium url %q", s.Services.Apertium.BaseURL)
	}
	if s.Services.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("default service settings lost: %q", s.Services.Ollama.BaseURL)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("EDITHINTS_WEIGHT", "0.25")
	t.Setenv("EDITHINTS_PROVIDERS", "google, mymemory")
	t.Setenv("EDITHINTS_LOG_FORMAT", "json")
	t.Setenv("EDITHINTS_SERVICES_SYSTRAN_API_KEY", "secret")

	s, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Weight != 0.25 || s.Log.Format != "json" || s.Services.Systran.APIKey != "secret" {
		t.Errorf("environment not applied: %+v", s)
	}
	if !reflect.DeepEqual(s.Providers, []string{"google", "mymemory"}) {
		t.Errorf("unexpected providers %v", s.Providers)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"weight too high", func(s *Settings) { s.Weight = 1.5 }, "weight"},
		{"weight negative", func(s *Settings) { s.Weight = -0.1 }, "weight"},
		{"zero length", func(s *Settings) { s.MaxSubSegmentLength = 0 }, "max_subsegment_length"},
		{"oracle", func(s *Settings) { s.Oracle = "magic" }, "oracle"},
		{"provider", func(s *Settings) { s.Providers = []string{"babelfish"} }, "babelfish"},
		{"timeout", func(s *Settings) { s.ProviderTimeout = 0 }, "provider_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestValidate_Boundaries(t *testing.T) {
	for _, w := range []float64{0, 1} {
		s := Default()
		s.Weight = w
		if err := s.Validate(); err != nil {
			t.Errorf("weight %v should be valid: %v", w, err)
		}
	}
}
