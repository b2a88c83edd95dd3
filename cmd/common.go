/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/valpere/edithints/internal/config"
	"github.com/valpere/edithints/internal/controller"
	"github.com/valpere/edithints/internal/detector"
	"github.com/valpere/edithints/internal/evidence"
	"github.com/valpere/edithints/internal/oracle"
	"github.com/valpere/edithints/internal/segment"
	"github.com/valpere/edithints/internal/store"
	"github.com/valpere/edithints/internal/translator"
	"github.com/valpere/edithints/internal/validator"
)

var (
	defaultOllamaModels = []string{
		"gemma2:27b", "aya:35b", "mixtral:8x7b", "qwen3:14b",
		"gemma3:12b-it-qat", "phi4:14b-q4_K_M", "llama3.1:8b", "mistral:7b",
	}
	defaultOpenRouterModels = []string{
		"google/gemini-2.5-flash-preview:free",
		"qwen/qwen2.5-72b-instruct:free",
		"mistralai/mistral-nemo:free",
		"meta-llama/llama-3.1-8b-instruct:free",
	}
)

// buildProviders constructs the provider set named in the settings.
func buildProviders(s config.Settings) (*translator.Set, error) {
	ollamaModels := s.Services.Ollama.Models
	if len(ollamaModels) == 0 {
		ollamaModels = defaultOllamaModels
	}
	openrouterModels := s.Services.OpenRouter.Models
	if len(openrouterModels) == 0 {
		openrouterModels = defaultOpenRouterModels
	}

	var list []translator.TranslationService
	for _, name := range s.Providers {
		switch name {
		case "apertium":
			list = append(list, translator.NewApertiumService(s.Services.Apertium.BaseURL))
		case "google":
			list = append(list, translator.NewGoogleService(s.Services.Google.Credentials))
		case "systran":
			list = append(list, translator.NewSystranService(s.Services.Systran.APIKey))
		case "mymemory":
			list = append(list, translator.NewMyMemoryService(s.Services.MyMemory.Email))
		case "ollama":
			list = append(list, translator.NewOllamaTranslator(s.Services.Ollama.BaseURL, ollamaModels))
		case "openrouter":
			list = append(list, translator.NewOpenRouterService(s.Services.OpenRouter.APIKey, "", openrouterModels))
		default:
			return nil, fmt.Errorf("unknown provider: %s", name)
		}
	}
	return translator.NewSet(list...), nil
}

// buildRecommender wires cache, collector, oracle and language detection.
// The returned close function releases the cache database.
func buildRecommender(s config.Settings, logger *slog.Logger) (*controller.Recommender, func() error, error) {
	closeFn := func() error { return nil }

	mem, err := evidence.NewMemoryCache(s.CacheSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cache: %w", err)
	}
	var cache evidence.Cache = mem
	if s.CacheDB != "" {
		db, err := store.New(s.CacheDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		cache = evidence.NewLayeredCache(mem, db, logger)
		closeFn = db.Close
	}

	var det *detector.Detector
	if s.SourceLang == detector.Auto || s.TargetLang == detector.Auto || s.ValidateLanguage {
		det = detector.New(s.SourceLang, s.TargetLang)
	}

	var checker evidence.ResponseChecker
	if s.ValidateLanguage {
		checker = validator.New(det)
	}

	collector := evidence.NewCollector(evidence.CollectorConfig{
		Service:     translator.ServiceConfig{Credentials: s.Services.Google.Credentials, Timeout: s.ProviderTimeout},
		Timeout:     s.ProviderTimeout,
		Concurrency: s.Concurrency,
		Cache:       cache,
		Checker:     checker,
		Logger:      logger,
	})

	tok := segment.WordTokenizer{}
	var orc oracle.Oracle = oracle.NewGeometric(tok)
	if s.Oracle == config.OracleLLM {
		orc = oracle.NewLLM(s.OracleModel, s.Services.Ollama.BaseURL)
	}

	var langs controller.LanguageResolver
	if det != nil {
		langs = det
	}

	return controller.NewRecommender(controller.RecommenderConfig{
		Tokenizer: tok,
		Collector: collector,
		Oracle:    orc,
		Languages: langs,
		Logger:    logger,
	}), closeFn, nil
}

func passSettings(s config.Settings) controller.Settings {
	return controller.Settings{
		MaxSubSegmentLength: s.MaxSubSegmentLength,
		Symmetric:           s.Symmetric,
		Weight:              s.Weight,
		SourceLang:          s.SourceLang,
		TargetLang:          s.TargetLang,
	}
}
