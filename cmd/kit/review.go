package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/codewarden-kit/internal/costtracker"
	"github.com/sevigo/codewarden-kit/internal/gitutil"
	"github.com/sevigo/codewarden-kit/internal/profile"
	"github.com/sevigo/codewarden-kit/internal/review"
	"github.com/sevigo/codewarden-kit/internal/search"
	"github.com/sevigo/codewarden-kit/internal/symbols"
)

var (
	reviewMode           string
	reviewModel          string
	reviewProfileName    string
	reviewPriority       string
	reviewInstallationID int64
	reviewDryRun         bool
	reviewInitConfig     bool
)

// defaultReviewConfig is written by `kit review --init-config`, restoring
// the original CLI's `create_default_config_file` behavior.
type defaultReviewConfig struct {
	Mode  string `yaml:"mode"`
	Model string `yaml:"model"`
}

var reviewCmd = &cobra.Command{
	Use:   "review [pr_url]",
	Short: "Run the PR review pipeline against a GitHub pull request.",
	Args: func(_ *cobra.Command, args []string) error {
		if reviewInitConfig {
			return nil
		}
		return cobra.ExactArgs(1)(nil, args)
	},
	RunE: func(_ *cobra.Command, args []string) error {
		if reviewInitConfig {
			return writeDefaultReviewConfig()
		}
		if len(args) != 1 {
			return fmt.Errorf("review requires a pull request URL (or --init-config)")
		}
		if !costtracker.IsValidModel(reviewModel) {
			suggestions := costtracker.SuggestModels(reviewModel, 3)
			return fmt.Errorf("unknown model %q, did you mean one of %v?", reviewModel, suggestions)
		}

		owner, repo, number, err := gitutil.ParsePullRequestURL(args[0])
		if err != nil {
			return fmt.Errorf("parse PR URL: %w", err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := context.Background()
		status("reviewing %s/%s#%d with %s (%s, up to %d turns)", owner, repo, number, reviewModel, reviewMode, review.DefaultMaxTurns())

		gh, err := a.GitHubClient(ctx, reviewInstallationID)
		if err != nil {
			return err
		}

		toolset, err := buildReviewToolset(a, fmt.Sprintf("%s/%s", owner, repo))
		if err != nil {
			a.Log.Warn("continuing review without a tool-call toolset", "error", err)
		}

		pipeline := review.New(gh, a.LLM, a.Costs, toolset, a.Log).WithHistory(a.History)

		var profileContext string
		if reviewProfileName != "" {
			profileContext, err = loadReviewProfileContext(reviewProfileName)
			if err != nil {
				return fmt.Errorf("load review profile %q: %w", reviewProfileName, err)
			}
		}

		req := review.Request{
			Owner:          owner,
			Repo:           repo,
			PRNumber:       number,
			Mode:           review.Mode(reviewMode),
			Model:          reviewModel,
			ReturnOnly:     reviewDryRun || flagPlain,
			ProfileContext: profileContext,
			PriorityFilter: review.ParsePriorityFilter(reviewPriority),
		}

		out, err := pipeline.Run(ctx, req)
		if err != nil {
			return err
		}
		if flagPlain {
			fmt.Println(out.Markdown)
			return nil
		}
		return printJSON(out)
	},
}

func buildReviewToolset(a *app, slug string) (*review.RepoToolset, error) {
	id, err := openRepo(a, slug)
	if err != nil {
		return nil, err
	}
	h, err := a.Service.HandleFor(context.Background(), id)
	if err != nil {
		return nil, err
	}
	idx := symbols.NewIndex(h)
	return &review.RepoToolset{
		Files:   h,
		Search:  search.New(h),
		Symbols: idx,
	}, nil
}

func loadReviewProfileContext(name string) (string, error) {
	s, err := profile.New("")
	if err != nil {
		return "", err
	}
	p, err := s.Get(name)
	if err != nil {
		return "", err
	}
	return p.Context, nil
}

// writeDefaultReviewConfig writes ~/.kit/review-config.yaml with built-in
// defaults and exits, mirroring the original CLI's `--init-config` branch.
func writeDefaultReviewConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".kit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "review-config.yaml")
	data, err := yaml.Marshal(defaultReviewConfig{Mode: "basic", Model: "claude-3-5-sonnet-20241022"})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote default review config to %s\n", path)
	return nil
}

func init() {
	reviewCmd.Flags().StringVar(&reviewMode, "mode", "basic", "file prioritization mode: basic or smart")
	reviewCmd.Flags().StringVar(&reviewModel, "model", "claude-3-5-sonnet-20241022", "model name; its prefix selects the provider")
	reviewCmd.Flags().StringVar(&reviewProfileName, "profile", "", "reviewer guidance profile to apply")
	reviewCmd.Flags().StringVar(&reviewPriority, "priority", "", "comma-separated severities to focus the review on, e.g. high,medium")
	reviewCmd.Flags().Int64Var(&reviewInstallationID, "installation-id", 0, "GitHub App installation id (uses a PAT when omitted)")
	reviewCmd.Flags().BoolVar(&reviewDryRun, "dry-run", false, "run the pipeline and print the result without posting a comment")
	reviewCmd.Flags().BoolVar(&reviewInitConfig, "init-config", false, "write a default review config file to ~/.kit/review-config.yaml and exit")
	rootCmd.AddCommand(reviewCmd)
}
