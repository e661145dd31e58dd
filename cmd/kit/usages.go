package main

import (
	"github.com/spf13/cobra"
)

var (
	usagesSymbolType string
	usagesFilePath   string
)

var usagesCmd = &cobra.Command{
	Use:   "usages <path-or-url> <symbol-name>",
	Short: "Find textual usages of a symbol name across the repository.",
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
		usages, err := a.Service.Usages(id, args[1], usagesSymbolType, usagesFilePath)
		if err != nil {
			return err
		}
		return printJSON(usages)
	},
}

func init() {
	usagesCmd.Flags().StringVar(&usagesSymbolType, "type", "", "restrict to a symbol type")
	usagesCmd.Flags().StringVar(&usagesFilePath, "file", "", "restrict to a single file")
	rootCmd.AddCommand(usagesCmd)
}
