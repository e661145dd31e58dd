// Package githubapi wraps the official go-github client behind a small
// interface scoped to what the review pipeline and repository-intelligence
// gateways need: pull request metadata, diffs, changed files, and posting
// results back as comments or check runs.
package githubapi

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// DraftReviewComment is a single line-anchored comment to include in a review.
type DraftReviewComment struct {
	Path string
	Line int
	Body string
}

//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client

// Client is the focused surface this module drives the GitHub API through.
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*core.PRContext, error)
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.PRFile, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	CreateReview(ctx context.Context, owner, repo string, number int, body string, comments []DraftReviewComment) error
	CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, error)
	UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, error)
}

type client struct {
	gh     *github.Client
	logger *slog.Logger
}

// New wraps an already-authenticated go-github client.
func New(gh *github.Client, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &client{gh: gh, logger: logger}
}

// NewPAT builds a client authenticated with a personal access token, for CLI
// and local-development use where a GitHub App installation isn't available.
func NewPAT(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return New(github.NewClient(tc), logger)
}

func (c *client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*core.PRContext, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		c.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, core.WrapError(core.KindProviderUnavailable, "fetch pull request", err)
	}

	ctxOut := &core.PRContext{
		Owner:    owner,
		Repo:     repo,
		PRNumber: number,
		Title:    pr.GetTitle(),
		Author:   pr.GetUser().GetLogin(),
		BaseSHA:  pr.GetBase().GetSHA(),
		HeadSHA:  pr.GetHead().GetSHA(),
	}
	return ctxOut, nil
}

func (c *client) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		c.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", core.WrapError(core.KindProviderUnavailable, "fetch pull request diff", err)
	}
	return diff, nil
}

// GetChangedFiles pages through every file GitHub reports as touched by the
// pull request; the API caps a single page at 100 entries.
func (c *client) GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.PRFile, error) {
	var allFiles []core.PRFile
	opts := &github.ListOptions{PerPage: 100}

	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			c.logger.Error("failed to list changed files", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, core.WrapError(core.KindProviderUnavailable, "list changed files", err)
		}

		for _, f := range files {
			allFiles = append(allFiles, core.PRFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Patch:     f.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

func (c *client) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		c.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
		return core.WrapError(core.KindProviderUnavailable, "create issue comment", err)
	}
	return nil
}

func (c *client) CreateReview(ctx context.Context, owner, repo string, number int, body string, comments []DraftReviewComment) error {
	var ghComments []*github.DraftReviewComment
	for _, comment := range comments {
		comment := comment
		ghComments = append(ghComments, &github.DraftReviewComment{
			Path: &comment.Path,
			Line: &comment.Line,
			Body: &comment.Body,
		})
	}

	req := &github.PullRequestReviewRequest{
		Body:     &body,
		Event:    github.Ptr("COMMENT"),
		Comments: ghComments,
	}

	_, _, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, number, req)
	if err != nil {
		c.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "error", err)
		return core.WrapError(core.KindProviderUnavailable, "create pull request review", err)
	}
	return nil
}

func (c *client) CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, error) {
	run, _, err := c.gh.Checks.CreateCheckRun(ctx, owner, repo, opts)
	if err != nil {
		c.logger.Error("failed to create check run", "owner", owner, "repo", repo, "error", err)
		return nil, core.WrapError(core.KindProviderUnavailable, "create check run", err)
	}
	return run, nil
}

func (c *client) UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, error) {
	run, _, err := c.gh.Checks.UpdateCheckRun(ctx, owner, repo, checkRunID, opts)
	if err != nil {
		c.logger.Error("failed to update check run", "owner", owner, "repo", repo, "checkRunID", checkRunID, "error", err)
		return nil, core.WrapError(core.KindProviderUnavailable, "update check run", err)
	}
	return run, nil
}
