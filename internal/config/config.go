// Package config loads settings from defaults, an optional config file and
// EDITHINTS_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: EDITHINTS_LOG_LEVEL sets log.level.
const EnvPrefix = "EDITHINTS"

const (
	OracleGeometric = "geometric"
	OracleLLM       = "llm"
)

// KnownProviders lists the provider names Validate accepts.
var KnownProviders = []string{"apertium", "google", "mymemory", "ollama", "openrouter", "systran"}

var ErrInvalid = errors.New("invalid configuration")

type Settings struct {
	Enabled             bool          `mapstructure:"enabled"`
	MaxSubSegmentLength int           `mapstructure:"max_subsegment_length"`
	Symmetric           bool          `mapstructure:"symmetric"`
	Weight              float64       `mapstructure:"weight"`
	Providers           []string      `mapstructure:"providers"`
	SourceLang          string        `mapstructure:"source_lang"`
	TargetLang          string        `mapstructure:"target_lang"`
	ProviderTimeout     time.Duration `mapstructure:"provider_timeout"`
	Concurrency         int           `mapstructure:"concurrency"`
	CacheSize           int           `mapstructure:"cache_size"`
	// CacheDB is the sqlite file for provider responses. Empty disables it.
	CacheDB string `mapstructure:"cache_db"`
	// ValidateLanguage drops provider responses detected to be in the
	// wrong language.
	ValidateLanguage bool     `mapstructure:"validate_language"`
	Oracle           string   `mapstructure:"oracle"`
	OracleModel      string   `mapstructure:"oracle_model"`
	Log              Log      `mapstructure:"log"`
	Services         Services `mapstructure:"services"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Services struct {
	Google struct {
		Credentials string `mapstructure:"credentials"`
	} `mapstructure:"google"`
	Systran struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"systran"`
	MyMemory struct {
		Email string `mapstructure:"email"`
	} `mapstructure:"mymemory"`
	Apertium struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"apertium"`
	Ollama struct {
		BaseURL string   `mapstructure:"base_url"`
		Models  []string `mapstructure:"models"`
	} `mapstructure:"ollama"`
	OpenRouter struct {
		APIKey string   `mapstructure:"api_key"`
		Models []string `mapstructure:"models"`
	} `mapstructure:"openrouter"`
}

var defaults = map[string]any{
	"enabled":                     true,
	"max_subsegment_length":       3,
	"symmetric":                   false,
	"weight":                      0.5,
	"providers":                   []string{},
	"source_lang":                 "auto",
	"target_lang":                 "auto",
	"provider_timeout":            30 * time.Second,
	"concurrency":                 4,
	"cache_size":                  4096,
	"cache_db":                    "",
	"validate_language":           false,
	"oracle":                      OracleGeometric,
	"oracle_model":                "llama3.2",
	"log.level":                   "info",
	"log.format":                  "text",
	"services.google.credentials": "",
	"services.systran.api_key":    "",
	"services.mymemory.email":     "",
	"services.apertium.base_url":  "",
	"services.ollama.base_url":    "http://localhost:11434",
	"services.ollama.models":      []string{},
	"services.openrouter.api_key": "",
	"services.openrouter.models":  []string{},
}

// New returns a viper instance with defaults and environment binding. The
// caller may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the settings without any file or environment.
func Default() Settings {
	s, err := decode(New())
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads path, if given, into v and returns validated settings.
func Load(v *viper.Viper, path string) (Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	s, err := decode(v)
	if err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	s.Providers = splitList(s.Providers)
	return s, nil
}

// Validate reports every problem at once.
func (s Settings) Validate() error {
	var errs []error
	if s.Weight < 0 || s.Weight > 1 {
		errs = append(errs, fmt.Errorf("weight %v is outside [0,1]", s.Weight))
	}
	if s.MaxSubSegmentLength < 1 {
		errs = append(errs, fmt.Errorf("max_subsegment_length must be at least 1, got %d", s.MaxSubSegmentLength))
	}
	if s.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", s.Concurrency))
	}
	if s.ProviderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("provider_timeout must be positive, got %s", s.ProviderTimeout))
	}
	if s.Oracle != OracleGeometric && s.Oracle != OracleLLM {
		errs = append(errs, fmt.Errorf("unknown oracle %q", s.Oracle))
	}
	for _, p := range s.Providers {
		if !slices.Contains(KnownProviders, p) {
			errs = append(errs, fmt.Errorf("unknown provider %q", p))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// splitList accepts both list values and a single comma separated string,
// which is how providers arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" && !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}
