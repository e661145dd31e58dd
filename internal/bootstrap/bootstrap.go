// Package bootstrap builds the shared wiring every entrypoint needs: the
// loaded config, the structured logger, the repository registry backing
// Gateway-HTTP and Gateway-ToolCall, and the GitHub/LLM/cost-tracking/history
// clients the review pipeline and serve loop pull from. cmd/kit, cmd/server
// and cmd/toolcall all start from the same App rather than duplicating this
// construction three times.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sevigo/codewarden-kit/internal/config"
	"github.com/sevigo/codewarden-kit/internal/costtracker"
	"github.com/sevigo/codewarden-kit/internal/githubapi"
	"github.com/sevigo/codewarden-kit/internal/llmclient"
	"github.com/sevigo/codewarden-kit/internal/logger"
	"github.com/sevigo/codewarden-kit/internal/metrics"
	"github.com/sevigo/codewarden-kit/internal/registry"
	"github.com/sevigo/codewarden-kit/internal/reposync"
	"github.com/sevigo/codewarden-kit/internal/review"
	"github.com/sevigo/codewarden-kit/internal/server"
	"github.com/sevigo/codewarden-kit/internal/storage"
)

// App is the fully wired graph shared by every binary entrypoint.
type App struct {
	Cfg     *config.Config
	Log     *slog.Logger
	Cache   *reposync.Cache
	Service *server.RepositoryService
	LLM     llmclient.Client
	Costs   *costtracker.Tracker
	History review.Store
	Metrics *metrics.Metrics
	CloseDB func()
}

// New loads configuration and constructs the full App graph. cmd/kit and
// cmd/toolcall call this once at startup; cmd/server builds the same graph
// through internal/wire's InitializeApp instead.
func New() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log := logger.NewLogger(cfg.Logging, os.Stderr)

	cache := reposync.New(cfg.Cache.Root, time.Duration(cfg.Cache.TTLHours)*time.Hour, log)

	resolver := registry.NewGitHubResolver(func(string, string) string { return cfg.GitHub.Token })
	reg := registry.New(cache, resolver, log)

	m := metrics.New()
	m.SetHandleCount(len(reg.List()))

	llm := metrics.Instrument(BuildLLMRouter(cfg, log), m)

	costs := costtracker.New(CostPricingTable(cfg))

	svc := server.NewRepositoryService(reg, llm)

	history, closeDB, err := BuildHistoryStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build review history store: %w", err)
	}

	return &App{Cfg: cfg, Log: log, Cache: cache, Service: svc, LLM: llm, Costs: costs, History: history, Metrics: m, CloseDB: closeDB}, nil
}

// CostPricingTable turns the config's custom-pricing list into the lookup
// map costtracker.New expects; exported so internal/wire's providers can
// build a *costtracker.Tracker without duplicating this conversion.
func CostPricingTable(cfg *config.Config) map[costtracker.Key]costtracker.Price {
	pricing := make(map[costtracker.Key]costtracker.Price, len(cfg.CostTrack.CustomPricing))
	for _, p := range cfg.CostTrack.CustomPricing {
		pricing[costtracker.Key{Provider: p.Provider, Model: p.Model}] = costtracker.Price{InputPer1K: p.InputPer1K, OutputPer1K: p.OutputPer1K}
	}
	return pricing
}

// BuildHistoryStore picks the JSONL file-backed review history sink, or a
// Postgres-backed one when Database.Driver is set, matching the teacher's
// app.go choice between a no-op and a real database.
func BuildHistoryStore(cfg *config.Config, log *slog.Logger) (review.Store, func(), error) {
	if cfg.Database.Driver == "postgres" {
		store, closeFn, err := storage.NewPostgresStore(&cfg.Database, log)
		if err != nil {
			return nil, func() {}, err
		}
		return store, closeFn, nil
	}
	store, err := review.NewJSONLStore(filepath.Join(cfg.Cache.Root, "reviews.jsonl"))
	if err != nil {
		return nil, func() {}, err
	}
	return store, func() {}, nil
}

// BuildLLMRouter assembles the provider-dispatching llmclient.Client from
// whichever API keys/hosts the config supplies.
func BuildLLMRouter(cfg *config.Config, log *slog.Logger) llmclient.Client {
	estimator := llmclient.NewBPEEstimator(cfg.LLM.TokenizerFilePath, log)
	ceiling := cfg.LLM.PromptCeilingTokens

	var openaiClient, anthropicClient, googleClient, localClient llmclient.Client
	if cfg.LLM.OpenAIAPIKey != "" {
		openaiClient = llmclient.NewCloudChat(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, estimator, ceiling)
	}
	if cfg.LLM.AnthropicAPIKey != "" {
		anthropicClient = llmclient.NewCloudMessages(cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicBaseURL, estimator, ceiling)
	}
	if cfg.LLM.GoogleAPIKey != "" {
		if gen, err := llmclient.NewCloudGenerate(context.Background(), cfg.LLM.GoogleAPIKey, estimator, ceiling); err == nil {
			googleClient = gen
		} else {
			log.Warn("failed to initialize Google provider, summaries via gemini-* models will be unavailable", "error", err)
		}
	}
	localClient = llmclient.NewLocalGenerate(cfg.LLM.LocalHost, estimator, ceiling)

	return llmclient.NewRouter(openaiClient, anthropicClient, googleClient, localClient)
}

// GitHubClient builds a githubapi.Client from whichever credential the
// config supplies, preferring a GitHub App installation token over a plain
// PAT when both are configured.
func (a *App) GitHubClient(ctx context.Context, installationID int64) (githubapi.Client, error) {
	if a.Cfg.GitHub.AppID != 0 && installationID != 0 {
		client, _, err := githubapi.NewInstallationClient(ctx, githubapi.AppCredentials{
			AppID:          a.Cfg.GitHub.AppID,
			PrivateKeyPath: a.Cfg.GitHub.PrivateKeyPath,
		}, installationID, a.Log)
		if err != nil {
			return nil, fmt.Errorf("build GitHub App client: %w", err)
		}
		return client, nil
	}
	if a.Cfg.GitHub.Token == "" {
		return nil, fmt.Errorf("no GitHub credentials configured (set github.token or github.app_id)")
	}
	return githubapi.NewPAT(ctx, a.Cfg.GitHub.Token, a.Log), nil
}
