package main

import (
	"context"

	"github.com/spf13/cobra"
)

var gitInfoCmd = &cobra.Command{
	Use:   "git-info <path-or-url>",
	Short: "Print the git identity (SHA, branch, remote) of a repository checkout.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := openRepo(a, args[0])
		if err != nil {
			return err
		}
		h, err := a.Service.HandleFor(context.Background(), id)
		if err != nil {
			return err
		}
		return printJSON(h.GitInfo())
	},
}

func init() {
	rootCmd.AddCommand(gitInfoCmd)
}
