package review

import (
	"context"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/githubapi"
	"github.com/sevigo/codewarden-kit/internal/llmclient"
)

type fakeGH struct {
	pr       *core.PRContext
	files    []core.PRFile
	diff     string
	comments []string
}

func (f *fakeGH) GetPullRequest(context.Context, string, string, int) (*core.PRContext, error) {
	cp := *f.pr
	return &cp, nil
}
func (f *fakeGH) GetPullRequestDiff(context.Context, string, string, int) (string, error) {
	return f.diff, nil
}
func (f *fakeGH) GetChangedFiles(context.Context, string, string, int) ([]core.PRFile, error) {
	return f.files, nil
}
func (f *fakeGH) CreateComment(_ context.Context, _, _ string, _ int, body string) error {
	f.comments = append(f.comments, body)
	return nil
}
func (f *fakeGH) CreateReview(context.Context, string, string, int, string, []githubapi.DraftReviewComment) error {
	return nil
}
func (f *fakeGH) CreateCheckRun(context.Context, string, string, github.CreateCheckRunOptions) (*github.CheckRun, error) {
	return nil, nil
}
func (f *fakeGH) UpdateCheckRun(context.Context, string, string, int64, github.UpdateCheckRunOptions) (*github.CheckRun, error) {
	return nil, nil
}

type fakeLLM struct {
	texts []string
	i     int
}

func (f *fakeLLM) Summarize(context.Context, string, string, llmclient.Params) (*llmclient.Result, error) {
	t := f.texts[f.i]
	if f.i < len(f.texts)-1 {
		f.i++
	}
	return &llmclient.Result{Text: t, InputTokens: 100, OutputTokens: 50}, nil
}

type noopCosts struct{}

func (noopCosts) Track(string, string, int, int) float64 { return 0.01 }

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

const sampleReview = `# REVIEW SUMMARY
Looks good overall.

# VERDICT
APPROVE

# SUGGESTIONS
## Suggestion main.go:10
**Severity:** Low
**Category:** Style
### Comment
Consider renaming this variable.
`

func TestPipelineRunPostsComment(t *testing.T) {
	gh := &fakeGH{
		pr:    &core.PRContext{Owner: "o", Repo: "r", PRNumber: 1, Title: "t"},
		files: []core.PRFile{{Filename: "main.go", Additions: 5, Deletions: 1, Patch: "+foo"}},
		diff:  "diff",
	}
	llm := &fakeLLM{texts: []string{sampleReview}}
	p := New(gh, llm, noopCosts{}, nil, noopLogger{})

	out, err := p.Run(context.Background(), Request{Owner: "o", Repo: "r", PRNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Issues)
	assert.InDelta(t, 0.01, out.CostUSD, 1e-9)
	assert.Len(t, gh.comments, 1)
}

func TestPipelineReturnOnlySuppressesComment(t *testing.T) {
	gh := &fakeGH{
		pr:    &core.PRContext{Owner: "o", Repo: "r", PRNumber: 1},
		files: []core.PRFile{{Filename: "main.go"}},
	}
	llm := &fakeLLM{texts: []string{sampleReview}}
	p := New(gh, llm, noopCosts{}, nil, noopLogger{})

	_, err := p.Run(context.Background(), Request{Owner: "o", Repo: "r", PRNumber: 1, ReturnOnly: true})
	require.NoError(t, err)
	assert.Empty(t, gh.comments)
}

func TestScoreQualityPenalizesMalformedAndUnresolvableSuggestions(t *testing.T) {
	pr := &core.PRContext{
		Files: []core.PRFile{{Filename: "a.go", Patch: "@@ -1,1 +1,1 @@\n+foo"}},
	}
	r := &core.StructuredReview{
		Summary: "ok",
		Verdict: "APPROVE",
		Suggestions: []core.Suggestion{
			{FilePath: "a.go", LineNumber: 1, Severity: "High", Comment: "fix it"},
			{FilePath: "", LineNumber: 0, Severity: "", Comment: ""},
		},
	}
	score := scoreQuality(pr, sampleReview, r)
	// sectionCoverage=0.2, referencePresence=0.1 (1/2 well-formed),
	// diffResolvability=0.1 (1/2 resolve against pr.Files), lengthBand=0.2
	// (sampleReview is well within band), duplicatePenalty=0.2 (no dupes).
	assert.InDelta(t, 0.2+0.1+0.1+0.2+0.2, score, 1e-9)
}

func TestScoreQualityPenalizesDuplicateSuggestions(t *testing.T) {
	pr := &core.PRContext{
		Files: []core.PRFile{{Filename: "a.go", Patch: "@@ -1,2 +1,2 @@\n+foo\n+bar"}},
	}
	r := &core.StructuredReview{
		Summary: "ok",
		Verdict: "APPROVE",
		Suggestions: []core.Suggestion{
			{FilePath: "a.go", LineNumber: 1, Severity: "High", Comment: "same issue"},
			{FilePath: "a.go", LineNumber: 2, Severity: "High", Comment: "same issue"},
		},
	}
	score := scoreQuality(pr, sampleReview, r)
	assert.Less(t, duplicatePenalty(r), 0.2)
	assert.InDelta(t, 0.2+0.2+0.2+0.2+duplicatePenalty(r), score, 1e-9)
}

func TestPipelineRunHonorsPriorityFilter(t *testing.T) {
	const mixedReview = `# REVIEW SUMMARY
Mixed severities.

# VERDICT
COMMENT

# SUGGESTIONS
## Suggestion main.go:10
**Severity:** Low
**Category:** Style
### Comment
Minor nit.

## Suggestion main.go:20
**Severity:** High
**Category:** Bug
### Comment
Actual bug here.
`
	gh := &fakeGH{
		pr:    &core.PRContext{Owner: "o", Repo: "r", PRNumber: 1, Title: "t"},
		files: []core.PRFile{{Filename: "main.go", Additions: 5, Deletions: 1, Patch: "+foo"}},
		diff:  "diff",
	}
	llm := &fakeLLM{texts: []string{mixedReview}}
	p := New(gh, llm, noopCosts{}, nil, noopLogger{})

	out, err := p.Run(context.Background(), Request{
		Owner: "o", Repo: "r", PRNumber: 1, ReturnOnly: true,
		PriorityFilter: ParsePriorityFilter("high"),
	})
	require.NoError(t, err)
	require.Len(t, out.PriorityFindings, 1)
	assert.Equal(t, "High", out.PriorityFindings[0].Severity)
}

func TestPrioritizeSmartRanksChurnAndExtension(t *testing.T) {
	files := []core.PRFile{
		{Filename: "README.md", Additions: 200, Deletions: 0},
		{Filename: "main.go", Additions: 10, Deletions: 2},
	}
	kept, _ := Prioritize(ModeSmart, files, 2)
	require.Len(t, kept, 2)
	assert.Equal(t, "main.go", kept[0].Filename)
}

func TestPrioritizeBasicTruncatesAndCountsDropped(t *testing.T) {
	files := []core.PRFile{{Filename: "a.go"}, {Filename: "b.go"}, {Filename: "c.go"}}
	kept, dropped := Prioritize(ModeBasic, files, 2)
	assert.Len(t, kept, 2)
	assert.Equal(t, 1, dropped)
}
