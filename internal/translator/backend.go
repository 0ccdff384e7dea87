package translator

import (
	"context"
	"fmt"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// Backend names accepted in configuration.
const (
	BackendGoogle = "google"
	BackendLLM    = "llm"
)

// New builds the translation client selected by cfg.Backend, wiring in
// a SQLite cache when cfg.CachePath is set.
func New(ctx context.Context, cfg *types.Config) (Client, error) {
	var cache *Cache
	if cfg.CachePath != "" {
		cache = NewCache(cfg.CachePath)
	}

	switch cfg.Backend {
	case BackendGoogle, "":
		logger.Info("using Google translation backend",
			logger.String("srcLang", cfg.SourceLang),
			logger.String("tgtLang", cfg.TargetLang),
			logger.Bool("cache", cache != nil))
		return NewGoogleClient(cfg.SourceLang, cfg.TargetLang, cache, DefaultGoogleSettings())
	case BackendLLM:
		return NewLLMClient(ctx, cfg.SourceLang, cfg.TargetLang, cache, LLMConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	default:
		return nil, types.NewAppErrorWithDetails(
			types.ErrConfig,
			"unknown translation backend",
			fmt.Sprintf("backend %q (expected %q or %q)", cfg.Backend, BackendGoogle, BackendLLM),
			nil,
		)
	}
}
