package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reviewCacheCmd = &cobra.Command{
	Use:       "review-cache {status|cleanup|clear}",
	Short:     "Inspect or prune the shared repository cache.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"status", "cleanup", "clear"},
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		switch args[0] {
		case "status":
			return printJSON(a.Cache.Status())
		case "cleanup":
			return a.Cache.Cleanup(context.Background(), a.Cfg.Cache.MaxSizeGB)
		case "clear":
			return a.Cache.Clear()
		default:
			return fmt.Errorf("unknown review-cache subcommand %q", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(reviewCacheCmd)
}
