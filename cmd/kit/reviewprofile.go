package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/profile"
)

var (
	profileDescription string
	profileContext      string
	profileContextFile   string
	profileTags          string
)

func loadProfileStore() (*profile.Store, error) {
	return profile.New("")
}

func resolveProfileContext() (string, error) {
	if profileContextFile != "" {
		data, err := os.ReadFile(profileContextFile)
		if err != nil {
			return "", fmt.Errorf("read --context-file: %w", err)
		}
		return string(data), nil
	}
	return profileContext, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

var reviewProfileCmd = &cobra.Command{
	Use:   "review-profile",
	Short: "Create, inspect, and manage reviewer guidance profiles.",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Create a new reviewer profile.",
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		ctxText, err := resolveProfileContext()
		if err != nil {
			return err
		}
		return s.Create(core.Profile{
			Name:        args[0],
			Description: profileDescription,
			Context:     ctxText,
			Tags:        splitTags(profileTags),
		})
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored reviewer profile.",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		list, err := s.List()
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Print a single reviewer profile.",
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		p, err := s.Get(args[0])
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Edit a reviewer profile's description, context, or tags.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		p, err := s.Edit(args[0], func(p *core.Profile) {
			if cmd.Flags().Changed("description") {
				p.Description = profileDescription
			}
			if cmd.Flags().Changed("context") || cmd.Flags().Changed("context-file") {
				if ctxText, err := resolveProfileContext(); err == nil {
					p.Context = ctxText
				}
			}
			if cmd.Flags().Changed("tags") {
				p.Tags = splitTags(profileTags)
			}
		})
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Delete a reviewer profile.",
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		return s.Delete(args[0])
	},
}

var profileCopyCmd = &cobra.Command{
	Use:   "copy <name> <new-name>",
	Args:  cobra.ExactArgs(2),
	Short: "Duplicate a reviewer profile under a new name.",
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		p, err := s.Copy(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var profileExportCmd = &cobra.Command{
	Use:   "export <name> <out>",
	Args:  cobra.ExactArgs(2),
	Short: "Export a reviewer profile to a YAML file.",
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		data, err := s.Export(args[0])
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], data, 0o644)
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Args:  cobra.ExactArgs(1),
	Short: "Import a reviewer profile from a YAML file produced by export.",
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := loadProfileStore()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		p, err := s.Import(data)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

func init() {
	profileCreateCmd.Flags().StringVar(&profileDescription, "description", "", "short description of the profile")
	profileCreateCmd.Flags().StringVar(&profileContext, "context", "", "reviewer guidance text prepended to the review prompt")
	profileCreateCmd.Flags().StringVar(&profileContextFile, "context-file", "", "read guidance text from a file instead of --context")
	profileCreateCmd.Flags().StringVar(&profileTags, "tags", "", "comma-separated tags")

	profileEditCmd.Flags().StringVar(&profileDescription, "description", "", "new description")
	profileEditCmd.Flags().StringVar(&profileContext, "context", "", "new guidance text")
	profileEditCmd.Flags().StringVar(&profileContextFile, "context-file", "", "read new guidance text from a file")
	profileEditCmd.Flags().StringVar(&profileTags, "tags", "", "new comma-separated tags")

	reviewProfileCmd.AddCommand(profileCreateCmd, profileListCmd, profileShowCmd, profileEditCmd, profileDeleteCmd, profileCopyCmd, profileExportCmd, profileImportCmd)
	rootCmd.AddCommand(reviewProfileCmd)
}
