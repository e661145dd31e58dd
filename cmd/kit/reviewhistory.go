package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/codewarden-kit/internal/gitutil"
)

var reviewHistoryLatestOnly bool

var reviewHistoryCmd = &cobra.Command{
	Use:   "review-history <pr_url>",
	Short: "Show recorded review runs for a pull request.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		owner, repo, number, err := gitutil.ParsePullRequestURL(args[0])
		if err != nil {
			return fmt.Errorf("parse PR URL: %w", err)
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()
		if reviewHistoryLatestOnly {
			rec, err := a.History.Latest(ctx, owner, repo, number)
			if err != nil {
				return err
			}
			return printJSON(rec)
		}
		all, err := a.History.All(ctx, owner, repo, number)
		if err != nil {
			return err
		}
		return printJSON(all)
	},
}

func init() {
	reviewHistoryCmd.Flags().BoolVar(&reviewHistoryLatestOnly, "latest", false, "only show the most recent recorded run")
	rootCmd.AddCommand(reviewHistoryCmd)
}
