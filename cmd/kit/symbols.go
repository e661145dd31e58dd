package main

import (
	"github.com/spf13/cobra"
)

var (
	symbolsFilePath   string
	symbolsSymbolType string
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <path-or-url>",
	Short: "Extract symbols from one file or across the whole repository.",
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
		syms, err := a.Service.Symbols(id, symbolsFilePath, symbolsSymbolType)
		if err != nil {
			return err
		}
		return printJSON(syms)
	},
}

func init() {
	symbolsCmd.Flags().StringVar(&symbolsFilePath, "file", "", "restrict extraction to a single file (all files if omitted)")
	symbolsCmd.Flags().StringVar(&symbolsSymbolType, "type", "", "restrict to a symbol type (function, method, class, variable, constant, interface, other)")
	rootCmd.AddCommand(symbolsCmd)
}
