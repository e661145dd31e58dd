package main

import (
	"github.com/spf13/cobra"
)

var searchPattern string

var searchCmd = &cobra.Command{
	Use:   "search <path-or-url> <query>",
	Short: "Search file contents for a literal or regex query, optionally filtered by glob pattern.",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := openRepo(a, args[0])
		if err != nil {
			return err
		}
		pattern := searchPattern
		if pattern == "" {
			pattern = "*"
		}
		hits, err := a.Service.Search(id, args[1], pattern)
		if err != nil {
			return err
		}
		return printJSON(hits)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchPattern, "pattern", "*", "glob pattern restricting which files are searched, e.g. *.py")
	rootCmd.AddCommand(searchCmd)
}
