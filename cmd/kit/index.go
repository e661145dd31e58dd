package main

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <path-or-url>",
	Short: "Print the combined file-tree and extracted-symbols payload for a repository.",
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
		result, err := a.Service.Index(id)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
