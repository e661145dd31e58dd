package main

import (
	"context"

	"github.com/spf13/cobra"
)

var chunkLinesMax int

var chunkLinesCmd = &cobra.Command{
	Use:   "chunk-lines <path-or-url> <file>",
	Short: "Split a file into fixed-size line-window chunks.",
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
		chunks, err := extractor.ChunkByLines(args[1], chunkLinesMax)
		if err != nil {
			return err
		}
		return printJSON(chunks)
	},
}

func init() {
	chunkLinesCmd.Flags().IntVar(&chunkLinesMax, "max-lines", 50, "maximum lines per chunk")
	rootCmd.AddCommand(chunkLinesCmd)
}
