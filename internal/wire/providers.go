// Package wire assembles bootstrap.App through explicit provider functions
// instead of the single monolithic bootstrap.New constructor, for
// entrypoints that want google/wire's compile-time dependency injection
// rather than cmd/kit's direct call.
package wire

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/wire"

	"github.com/sevigo/codewarden-kit/internal/bootstrap"
	"github.com/sevigo/codewarden-kit/internal/config"
	"github.com/sevigo/codewarden-kit/internal/costtracker"
	"github.com/sevigo/codewarden-kit/internal/llmclient"
	"github.com/sevigo/codewarden-kit/internal/logger"
	"github.com/sevigo/codewarden-kit/internal/metrics"
	"github.com/sevigo/codewarden-kit/internal/registry"
	"github.com/sevigo/codewarden-kit/internal/reposync"
	"github.com/sevigo/codewarden-kit/internal/review"
	"github.com/sevigo/codewarden-kit/internal/server"
)

// ProviderSet is the full set wire.Build draws from to assemble a
// *bootstrap.App for cmd/server's InitializeApp.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideCache,
	ProvideRegistry,
	ProvideMetrics,
	ProvideLLM,
	ProvideCostTracker,
	ProvideHistoryStore,
	ProvideService,
	ProvideApp,
)

func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

func ProvideLogger(cfg *config.Config) *slog.Logger {
	return logger.NewLogger(cfg.Logging, os.Stderr)
}

func ProvideCache(cfg *config.Config, log *slog.Logger) *reposync.Cache {
	return reposync.New(cfg.Cache.Root, time.Duration(cfg.Cache.TTLHours)*time.Hour, log)
}

func ProvideRegistry(cfg *config.Config, cache *reposync.Cache, log *slog.Logger) *registry.Registry {
	resolver := registry.NewGitHubResolver(func(string, string) string { return cfg.GitHub.Token })
	return registry.New(cache, resolver, log)
}

func ProvideMetrics(reg *registry.Registry) *metrics.Metrics {
	m := metrics.New()
	m.SetHandleCount(len(reg.List()))
	return m
}

func ProvideLLM(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) llmclient.Client {
	return metrics.Instrument(bootstrap.BuildLLMRouter(cfg, log), m)
}

func ProvideCostTracker(cfg *config.Config) *costtracker.Tracker {
	return costtracker.New(bootstrap.CostPricingTable(cfg))
}

// HistoryStore bundles review.Store with the teardown its construction may
// need (a Postgres connection), since wire providers return a single value
// set rather than a tuple a caller destructures positionally.
type HistoryStore struct {
	Store review.Store
	Close func()
}

func ProvideHistoryStore(cfg *config.Config, log *slog.Logger) (HistoryStore, error) {
	store, closeFn, err := bootstrap.BuildHistoryStore(cfg, log)
	if err != nil {
		return HistoryStore{}, err
	}
	return HistoryStore{Store: store, Close: closeFn}, nil
}

func ProvideService(reg *registry.Registry, llm llmclient.Client) *server.RepositoryService {
	return server.NewRepositoryService(reg, llm)
}

func ProvideApp(cfg *config.Config, log *slog.Logger, cache *reposync.Cache, svc *server.RepositoryService, llm llmclient.Client, costs *costtracker.Tracker, history HistoryStore, m *metrics.Metrics) *bootstrap.App {
	return &bootstrap.App{
		Cfg:     cfg,
		Log:     log,
		Cache:   cache,
		Service: svc,
		LLM:     llm,
		Costs:   costs,
		History: history.Store,
		Metrics: m,
		CloseDB: history.Close,
	}
}
