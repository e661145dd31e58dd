package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	contextBefore int
	contextAfter  int
)

var contextCmd = &cobra.Command{
	Use:   "context <path-or-url> <file> <line>",
	Short: "Print a line-window of context around a given line number.",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		line, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
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
		chunk, err := extractor.ContextAroundLine(args[1], line, contextBefore, contextAfter)
		if err != nil {
			return err
		}
		return printJSON(chunk)
	},
}

func init() {
	contextCmd.Flags().IntVar(&contextBefore, "before", 5, "lines of context before the target line")
	contextCmd.Flags().IntVar(&contextAfter, "after", 5, "lines of context after the target line")
	rootCmd.AddCommand(contextCmd)
}
