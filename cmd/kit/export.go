package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportRepo       string
	exportFilePath   string
	exportSymbolName string
)

var exportCmd = &cobra.Command{
	Use:   "export {index|symbols|file-tree|symbol-usages} <out>",
	Short: "Write a repository-intelligence payload to a file as JSON.",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		kind, out := args[0], args[1]
		if exportRepo == "" {
			return fmt.Errorf("--repo is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := openRepo(a, exportRepo)
		if err != nil {
			return err
		}

		var payload any
		switch kind {
		case "index":
			payload, err = a.Service.Index(id)
		case "symbols":
			payload, err = a.Service.Symbols(id, exportFilePath, "")
		case "file-tree":
			payload, err = a.Service.FileTree(id)
		case "symbol-usages":
			if exportSymbolName == "" {
				return fmt.Errorf("--symbol is required for symbol-usages")
			}
			payload, err = a.Service.Usages(id, exportSymbolName, "", exportFilePath)
		default:
			return fmt.Errorf("unknown export kind %q (want index, symbols, file-tree, or symbol-usages)", kind)
		}
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal export payload: %w", err)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write export file %s: %w", out, err)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRepo, "repo", "", "repository path or URL to export from")
	exportCmd.Flags().StringVar(&exportFilePath, "file", "", "restrict to a single file (symbols/symbol-usages; index and file-tree ignore it)")
	exportCmd.Flags().StringVar(&exportSymbolName, "symbol", "", "symbol name (required for symbol-usages)")
	rootCmd.AddCommand(exportCmd)
}
