package main

import (
	"github.com/spf13/cobra"
)

var fileTreeCmd = &cobra.Command{
	Use:   "file-tree <path-or-url>",
	Short: "List every file and directory in a repository.",
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
		tree, err := a.Service.FileTree(id)
		if err != nil {
			return err
		}
		return printJSON(tree)
	},
}

func init() {
	rootCmd.AddCommand(fileTreeCmd)
}
