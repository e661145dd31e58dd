// Command server runs Gateway-HTTP standalone, without the rest of the kit
// CLI's subcommands. It builds the same App graph cmd/kit assembles
// directly, but through google/wire's generated injector.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/sevigo/codewarden-kit/internal/server"
	"github.com/sevigo/codewarden-kit/internal/wire"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed to run", "error", err)
		os.Exit(1)
	}
}

func run() error {
	a, err := wire.InitializeApp()
	if err != nil {
		return fmt.Errorf("build app wiring: %w", err)
	}
	defer a.CloseDB()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	janitor := cron.New()
	_, _ = janitor.AddFunc("@every 30m", func() {
		if err := a.Cache.Cleanup(context.Background(), a.Cfg.Cache.MaxSizeGB); err != nil {
			a.Log.Warn("scheduled cache cleanup failed", "error", err)
		}
		cacheStatus := a.Cache.Status()
		a.Metrics.SetCacheBytes(cacheStatus.SizeBytes)
		a.Metrics.SetCostTotalUSD(a.Costs.Total())
	})
	janitor.Start()
	defer janitor.Stop()

	srv := server.NewServer(ctx, a.Cfg.Server.Port, a.Service, a.Log, a.Metrics.Handler())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		return srv.Stop()
	case err := <-errCh:
		return err
	}
}
