package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fileContentCmd = &cobra.Command{
	Use:   "file-content <path-or-url> <file>",
	Short: "Print the contents of a single file.",
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
		content, err := a.Service.FileContent(id, args[1])
		if err != nil {
			return err
		}
		fmt.Print(string(content))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fileContentCmd)
}
