package review

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/githubapi"
	"github.com/sevigo/codewarden-kit/internal/llmclient"
)

const (
	defaultMaxTurns         = 15
	defaultFinalizeThreshold = 15
)

// DefaultMaxTurns reports the agentic loop's default turn budget, used by
// CLI progress chatter when a Request doesn't override MaxTurns.
func DefaultMaxTurns() int { return defaultMaxTurns }

// Toolset exposes a handful of RepoHandle/SymbolIndex/SearchEngine reads the
// agentic loop may pull mid-review, keyed by the tool-call gateway's own
// catalog names so prompts and the stdio gateway agree on vocabulary.
type Toolset interface {
	GetFileContent(path string) (string, error)
	SearchCode(query string) (string, error)
	FindSymbolUsages(name string) (string, error)
}

// Request describes one pipeline run.
type Request struct {
	Owner, Repo string
	PRNumber    int
	Mode        Mode
	FileLimit   int
	MaxTurns    int
	// FinalizeThreshold forces the loop to stop honoring further TOOL:
	// directives once this many turns have run, even if MaxTurns allows
	// more, so a model stuck issuing lookups still produces an answer.
	FinalizeThreshold int
	Model             string
	Temperature float64

	// ReturnOnly suppresses CreateComment/CreateCheckRun side effects; used
	// by --dry-run/--plain CLI invocations and by callers that want the
	// markdown back without posting it anywhere.
	ReturnOnly bool

	// ProfileContext is a reviewer-guidance profile's stored text, prepended
	// to the prompt ahead of the PR details.
	ProfileContext string

	// PriorityFilter, when non-empty, hints the prompt toward the requested
	// severities and narrows the final findings to only those severities.
	PriorityFilter PriorityFilter
}

// Pipeline drives PARSE_URL -> FETCH_META -> FETCH_FILES -> FETCH_DIFF ->
// PRIORITIZE -> PROMPT -> LLM -> VALIDATE -> EMIT.
type Pipeline struct {
	gh      githubapi.Client
	llm     llmclient.Client
	costs   CostTracker
	tools   Toolset
	logger  Logger
	history Store
}

// WithHistory attaches a Store a completed run is recorded into; it
// returns p for chaining at construction time.
func (p *Pipeline) WithHistory(store Store) *Pipeline {
	p.history = store
	return p
}

// CostTracker is the subset of costtracker.Tracker the pipeline needs.
type CostTracker interface {
	Track(provider, model string, inputTokens, outputTokens int) float64
}

// Logger is the subset of *slog.Logger used here, kept narrow so tests don't
// need a real logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

func New(gh githubapi.Client, llm llmclient.Client, costs CostTracker, tools Toolset, logger Logger) *Pipeline {
	return &Pipeline{gh: gh, llm: llm, costs: costs, tools: tools, logger: logger}
}

var toolDirective = regexp.MustCompile(`(?m)^TOOL:\s*(\w+)\s+(.+)$`)

// Run executes the full pipeline and returns the review output. A low
// quality score does not fail the run (warn-not-fail); PromptTooLarge on a
// Smart-mode prompt downgrades once to Basic before failing for good.
func (p *Pipeline) Run(ctx context.Context, req Request) (*core.ReviewOutput, error) {
	if req.MaxTurns <= 0 {
		req.MaxTurns = defaultMaxTurns
	}
	if req.FinalizeThreshold <= 0 {
		req.FinalizeThreshold = defaultFinalizeThreshold
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeBasic
	}

	pr, err := p.gh.GetPullRequest(ctx, req.Owner, req.Repo, req.PRNumber)
	if err != nil {
		return nil, err
	}

	files, err := p.gh.GetChangedFiles(ctx, req.Owner, req.Repo, req.PRNumber)
	if err != nil {
		return nil, err
	}
	pr.Files = files

	diff, err := p.gh.GetPullRequestDiff(ctx, req.Owner, req.Repo, req.PRNumber)
	if err != nil {
		return nil, err
	}
	pr.Diff = diff

	output, runErr := p.runWithPrioritization(ctx, req, pr, mode)
	if runErr != nil && mode == ModeSmart && core.KindOf(runErr) == core.KindPromptTooLarge {
		p.logger.Warn("smart prompt too large, downgrading to basic once", "owner", req.Owner, "repo", req.Repo, "pr", req.PRNumber)
		output, runErr = p.runWithPrioritization(ctx, req, pr, ModeBasic)
	}
	if runErr != nil {
		return nil, runErr
	}

	if p.history != nil {
		if err := p.history.Save(ctx, HistoryRecord{
			Owner: req.Owner, Repo: req.Repo, PRNumber: req.PRNumber,
			CreatedAt: time.Now().UTC(), Output: *output,
		}); err != nil {
			p.logger.Warn("failed to record review history", "owner", req.Owner, "repo", req.Repo, "pr", req.PRNumber, "error", err)
		}
	}

	if err := p.emit(ctx, req, output, pr); err != nil {
		return output, err
	}
	return output, nil
}

func (p *Pipeline) runWithPrioritization(ctx context.Context, req Request, pr *core.PRContext, mode Mode) (*core.ReviewOutput, error) {
	kept, dropped := Prioritize(mode, pr.Files, req.FileLimit)
	prompt := buildPrompt(pr, kept, dropped, req.ProfileContext, req.PriorityFilter)

	text, usage, err := p.agenticLoop(ctx, req, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := parseReviewMarkdown(text)
	if err != nil {
		return nil, err
	}
	parsed.Suggestions = FilterSuggestions(parsed.Suggestions, req.PriorityFilter)

	score := scoreQuality(pr, text, parsed)
	if isLowQuality(score) {
		p.logger.Warn("review output scored below quality floor", "score", score, "owner", req.Owner, "repo", req.Repo, "pr", req.PRNumber)
	}

	findings := make([]core.PriorityFinding, 0, len(parsed.Suggestions))
	for _, s := range parsed.Suggestions {
		findings = append(findings, core.PriorityFinding{
			Severity: s.Severity,
			File:     s.FilePath,
			Line:     s.LineNumber,
			Message:  s.Comment,
		})
	}

	return &core.ReviewOutput{
		Markdown:         renderMarkdown(parsed),
		PriorityFindings: findings,
		QualityScore:     score,
		Issues:           len(parsed.Suggestions),
		CostUSD:          usage.cost,
		InputTokens:      usage.input,
		OutputTokens:     usage.output,
	}, nil
}

type turnUsage struct {
	input, output int
	cost          float64
}

// agenticLoop runs up to req.MaxTurns LLM turns, executing any TOOL:
// directive the model emits and feeding its result back as additional
// context. The prompt for the last turn allowed by MaxTurns or the finalize
// threshold tells the model to answer now with what it has, and that turn's
// TOOL: directives are not executed.
func (p *Pipeline) agenticLoop(ctx context.Context, req Request, initialPrompt string) (string, turnUsage, error) {
	userPrompt := initialPrompt
	var lastText string
	var usage turnUsage

	for turn := 0; turn < req.MaxTurns; turn++ {
		result, err := p.llm.Summarize(ctx, systemPrompt, userPrompt, llmclient.Params{
			Model:       req.Model,
			Temperature: req.Temperature,
		})
		if err != nil {
			return "", usage, err
		}
		usage.input += result.InputTokens
		usage.output += result.OutputTokens
		if p.costs != nil {
			usage.cost += p.costs.Track(llmclient.DetectProvider(req.Model), req.Model, result.InputTokens, result.OutputTokens)
		}
		lastText = result.Text

		directives := toolDirective.FindAllStringSubmatch(result.Text, -1)
		atFinalTurn := turn == req.MaxTurns-1 || turn+1 >= req.FinalizeThreshold
		if len(directives) == 0 || p.tools == nil || atFinalTurn {
			return result.Text, usage, nil
		}

		var toolResults strings.Builder
		for _, d := range directives {
			out, toolErr := p.runTool(d[1], d[2])
			if toolErr != nil {
				out = fmt.Sprintf("error: %v", toolErr)
			}
			fmt.Fprintf(&toolResults, "--- result of %s %s ---\n%s\n", d[1], d[2], out)
		}

		instruction := "Continue the review using this additional context. If you have enough information, respond with the final structured review and no further TOOL: lines."
		if next := turn + 1; next == req.MaxTurns-1 || next+1 >= req.FinalizeThreshold {
			instruction = "This is your final turn: respond now with the final structured review using what you have, and no TOOL: lines."
		}
		userPrompt = fmt.Sprintf("%s\n\nTool results:\n%s\n\n%s", initialPrompt, toolResults.String(), instruction)
	}
	return lastText, usage, nil
}

func (p *Pipeline) runTool(name, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	switch name {
	case "get_file_content":
		return p.tools.GetFileContent(arg)
	case "search_code":
		return p.tools.SearchCode(arg)
	case "find_symbol_usages":
		return p.tools.FindSymbolUsages(arg)
	default:
		return "", core.NewError(core.KindUnsupported, fmt.Sprintf("unknown tool %q", name))
	}
}

func renderMarkdown(r *core.StructuredReview) string {
	var b strings.Builder
	b.WriteString("# REVIEW SUMMARY\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n# VERDICT\n")
	b.WriteString(r.Verdict)
	if len(r.Suggestions) > 0 {
		b.WriteString("\n\n# SUGGESTIONS\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "## Suggestion %s:%d\n**Severity:** %s\n**Category:** %s\n### Comment\n%s\n\n", s.FilePath, s.LineNumber, s.Severity, s.Category, s.Comment)
		}
	}
	return strings.TrimSpace(b.String())
}

// emit posts the review unless the request asked to return it only. Findings
// that land on a line the pull request's diff actually touches go out as
// inline review comments; findings off the diff (or when none anchor
// cleanly) fall back to a single top-level comment so nothing gets dropped.
func (p *Pipeline) emit(ctx context.Context, req Request, output *core.ReviewOutput, pr *core.PRContext) error {
	if req.ReturnOnly {
		return nil
	}

	comments := inlineComments(pr, output.PriorityFindings)
	if len(comments) == 0 {
		if err := p.gh.CreateComment(ctx, req.Owner, req.Repo, req.PRNumber, output.Markdown); err != nil {
			p.logger.Error("failed to post review comment", "owner", req.Owner, "repo", req.Repo, "pr", req.PRNumber, "error", err)
			return err
		}
		return nil
	}

	if err := p.gh.CreateReview(ctx, req.Owner, req.Repo, req.PRNumber, output.Markdown, comments); err != nil {
		p.logger.Error("failed to post review", "owner", req.Owner, "repo", req.Repo, "pr", req.PRNumber, "error", err)
		return err
	}
	return nil
}

// validLineIndex maps each changed file to the set of diff line numbers
// GitHub will accept a review comment against, shared by inlineComments'
// posting path and validate.go's diff-resolvability quality signal.
func validLineIndex(pr *core.PRContext) map[string]map[int]struct{} {
	validLines := make(map[string]map[int]struct{}, len(pr.Files))
	for _, f := range pr.Files {
		validLines[f.Filename] = githubapi.ValidCommentLines(f.Patch)
	}
	return validLines
}

// inlineComments maps findings onto the diff lines GitHub will actually
// accept a comment against, dropping any finding whose line falls outside
// every hunk of its file's patch.
func inlineComments(pr *core.PRContext, findings []core.PriorityFinding) []githubapi.DraftReviewComment {
	validLines := validLineIndex(pr)

	var comments []githubapi.DraftReviewComment
	for _, finding := range findings {
		lines, ok := validLines[finding.File]
		if !ok || finding.Line <= 0 {
			continue
		}
		if _, ok := lines[finding.Line]; !ok {
			continue
		}
		comments = append(comments, githubapi.DraftReviewComment{
			Path: finding.File,
			Line: finding.Line,
			Body: fmt.Sprintf("**%s**: %s", finding.Severity, finding.Message),
		})
	}
	return comments
}
