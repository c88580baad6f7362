package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/catalog"
	"github.com/jtarasov/rolefit/internal/logger"
	"github.com/jtarasov/rolefit/internal/narrative"
	"github.com/jtarasov/rolefit/internal/narrative/gemini"
	"github.com/jtarasov/rolefit/internal/recommend"
	"github.com/jtarasov/rolefit/internal/secrets"
)

const defaultNarrativeTimeoutSeconds = 30

// buildService loads the catalog and wires the recommendation service,
// including the optional narrative summarizer.
func buildService(ctx context.Context, config *Config, log *zap.Logger) (*recommend.Service, error) {
	if config == nil || strings.TrimSpace(config.Catalog) == "" {
		return nil, fmt.Errorf("catalog path is required (set 'catalog' in the configuration file)")
	}

	cat, err := catalog.Load(config.Catalog, log)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	summarizer, err := newSummarizer(ctx, config.AI, log)
	if err != nil {
		log.Warn("narrative summaries disabled", zap.Error(err))
		summarizer = nil
	}

	timeout := defaultNarrativeTimeoutSeconds
	if config.AI != nil && config.AI.TimeoutSeconds > 0 {
		timeout = config.AI.TimeoutSeconds
	}

	return recommend.NewService(recommend.Deps{
		Catalog:          cat,
		Summarizer:       summarizer,
		NarrativeTimeout: time.Duration(timeout) * time.Second,
		Logger:           log,
	}), nil
}

// newSummarizer builds the Gemini-backed summarizer when the AI section is
// enabled. Any configuration problem disables summaries rather than the run.
func newSummarizer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (narrative.Summarizer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported narrative provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(log, logger.NarrativeFields("gemini", cfg.Gemini.Model)...)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewSummarizer(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}
