package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/sevigo/codewarden-kit/internal/server"
	"github.com/sevigo/codewarden-kit/internal/toolcall"
)

var serveToolCall bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run Gateway-HTTP (default) or Gateway-ToolCall (--toolcall) over the repository-intelligence core.",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.CloseDB()

		mode := serveToolCall || a.Cfg.Server.ToolCallMode
		if mode {
			gw := toolcall.New(a.Service, a.Log)
			return gw.Serve(context.Background(), os.Stdin, os.Stdout)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		m := a.Metrics
		janitor := cron.New()
		// The teacher's app.go left periodic cache eviction as a TODO; this
		// fills it in, matching the gateway's own RepoCache.Cleanup contract.
		_, _ = janitor.AddFunc("@every 30m", func() {
			if err := a.Cache.Cleanup(context.Background(), a.Cfg.Cache.MaxSizeGB); err != nil {
				a.Log.Warn("scheduled cache cleanup failed", "error", err)
			}
			cacheStatus := a.Cache.Status()
			m.SetCacheBytes(cacheStatus.SizeBytes)
			m.SetCostTotalUSD(a.Costs.Total())
		})
		janitor.Start()
		defer janitor.Stop()

		srv := server.NewServer(ctx, a.Cfg.Server.Port, a.Service, a.Log, m.Handler())
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case <-ctx.Done():
			return srv.Stop()
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveToolCall, "toolcall", false, "serve Gateway-ToolCall (stdio) instead of Gateway-HTTP")
	rootCmd.AddCommand(serveCmd)
}
