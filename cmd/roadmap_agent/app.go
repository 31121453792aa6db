package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/analysis"
	"github.com/jonathan/roadmap-generator/internal/cache"
	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/config"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/logger"
	"github.com/jonathan/roadmap-generator/internal/observability"
	"github.com/jonathan/roadmap-generator/internal/roadmap"
	"github.com/jonathan/roadmap-generator/internal/types"
)

// resolveConfig loads the layered configuration and applies the root flags on top.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = strings.ToLower(rootProvider)
		if !flags.Changed("api-key") {
			cfg.APIKey = config.APIKeyFromEnv(cfg.Provider)
		}
	}
	if flags.Changed("model") {
		cfg.Model = rootModel
	}
	if flags.Changed("api-key") {
		cfg.APIKey = rootAPIKey
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds the collaborators shared by the model-backed commands
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	registry  *prometheus.Registry
	metrics   *observability.Metrics
	catalog   *catalog.Catalog
	client    *llm.Client
	generator *roadmap.Generator
	analyzer  *analysis.Analyzer
	closers   []io.Closer
}

// newApp wires logging, metrics, caches and the model gateway for cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set %s or use --api-key)", apiKeyVar(cfg.Provider))
	}

	level := ""
	if cfg.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Mode: cfg.LogMode, File: cfg.LogFile, Level: level})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, log: log, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if a.metrics, err = observability.NewMetrics(a.registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	if a.catalog, err = catalog.Default(); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.CacheBackend == config.CacheRedis {
		if rdb, err = connectRedis(ctx, cfg.RedisURL); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb)
	}

	transport, err := llm.NewTransport(ctx, llmConfig(cfg), cfg.APIKey)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create model transport: %w", err)
	}
	a.client = llm.NewClient(transport,
		llm.WithLogger(log.With("component", "llm")),
		llm.WithObserver(a.metrics))
	a.closers = append(a.closers, a.client)

	a.generator = roadmap.NewGenerator(a.client, a.catalog,
		roadmap.WithCache(newStore[types.Document](cfg, rdb, "roadmap:", log)),
		roadmap.WithLogger(log.With("component", "roadmap")),
		roadmap.WithRecorder(a.metrics),
		roadmap.WithTimeout(cfg.GenerationTimeout()),
		roadmap.WithMaxTokens(cfg.GenerationMaxTokens))

	a.analyzer = analysis.NewAnalyzer(a.client, a.catalog,
		analysis.WithProfileCache(newStore[types.Profile](cfg, rdb, "profile:", log)),
		analysis.WithRecommendationCache(newStore[[]types.DomainRecommendation](cfg, rdb, "domains:", log)),
		analysis.WithChatCache(newStore[string](cfg, rdb, "chat:", log)),
		analysis.WithLogger(log.With("component", "analysis")),
		analysis.WithTimeout(cfg.QuickTimeout()))

	log.Debug("application wired",
		"provider", cfg.Provider,
		"model", a.client.Model(llm.TierStandard),
		"cache", cfg.CacheBackend)
	return a, nil
}

// Close releases the gateway and cache connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("failed to close resource", "error", err)
		}
	}
	a.closers = nil
	a.log.Sync()
}

// llmConfig maps the flat configuration onto the provider defaults.
func llmConfig(cfg *config.Config) *llm.Config {
	c := llm.ConfigFor(llm.Provider(cfg.Provider))
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		c = c.WithSingleModel(cfg.Model)
	}
	return c
}

func apiKeyVar(provider string) string {
	if provider == string(llm.ProviderGemini) {
		return "GEMINI_API_KEY"
	}
	return "OPENROUTER_API_KEY"
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// newStore picks the cache implementation for the configured backend.
func newStore[V any](cfg *config.Config, rdb *redis.Client, prefix string, log *logger.Logger) cache.Store[V] {
	switch cfg.CacheBackend {
	case config.CacheNone:
		return cache.Noop[V]{}
	case config.CacheRedis:
		return cache.NewRedisWithClient[V](rdb, prefix, cfg.CacheTTL(), log)
	default:
		return cache.NewMemory[V](
			cache.WithTTL[V](cfg.CacheTTL()),
			cache.WithSweepThreshold[V](cfg.CacheSweepThreshold))
	}
}
