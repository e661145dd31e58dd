package main

import (
	"github.com/spf13/cobra"
)

var (
	flagRef   string
	flagPlain bool
)

var rootCmd = &cobra.Command{
	Use:   "kit",
	Short: "kit is a CLI for repository intelligence: browsing, search, symbols, and PR review.",
	Long:  `kit materializes repositories into RepoHandles and exposes file, symbol, search, chunk, and PR-review operations over them, over HTTP, over stdio, or directly from the command line.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRef, "ref", "", "git ref to resolve the repository at (branch, tag, or SHA)")
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "suppress status chatter and emoji markers; emit only the requested output")
}
