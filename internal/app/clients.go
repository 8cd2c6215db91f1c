package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/cache"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/textgen"
)

type Clients struct {
	TextGen   textgen.Generator
	ViewCache cache.ViewCache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	viewCache, err := cache.New(ctx, cache.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		TTL:       cfg.Redis.CacheTTL,
		KeyPrefix: cfg.Redis.KeyPrefix,
	}, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init view cache: %w", err)
	}

	// Text generation
	gen, err := textgen.New(textgen.Config{
		Provider:   textgen.Provider(cfg.TextGen.Provider),
		APIKey:     cfg.TextGen.APIKey,
		BaseURL:    cfg.TextGen.BaseURL,
		Model:      cfg.TextGen.Model,
		Timeout:    cfg.TextGen.Timeout,
		MaxRetries: cfg.TextGen.MaxRetries,
	}, log, metrics)
	if errors.Is(err, textgen.ErrNotConfigured) {
		log.Warn("text generation api key not set; roadmap generation will fail")
		gen = textgen.Func(func(context.Context, string) (string, error) {
			return "", textgen.ErrNotConfigured
		})
		err = nil
	}
	if err != nil {
		_ = viewCache.Close()
		return Clients{}, fmt.Errorf("init text generation: %w", err)
	}

	return Clients{TextGen: gen, ViewCache: viewCache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ViewCache != nil {
		_ = c.ViewCache.Close()
	}
}
