package main

import (
	"context"

	"github.com/spf13/cobra"
)

var chunkSymbolsCmd = &cobra.Command{
	Use:   "chunk-symbols <path-or-url> <file>",
	Short: "Split a file into symbol-bounded chunks (one per function/method/class).",
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
		extractor, err := a.Service.ChunkExtractor(context.Background(), id)
		if err != nil {
			return err
		}
		idx, err := a.Service.SymbolIndex(context.Background(), id)
		if err != nil {
			return err
		}
		chunks, err := extractor.ChunkBySymbols(args[1], idx)
		if err != nil {
			return err
		}
		return printJSON(chunks)
	},
}

func init() {
	rootCmd.AddCommand(chunkSymbolsCmd)
}
