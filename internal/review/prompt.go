package review

import (
	"fmt"
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

const systemPrompt = `You are an expert code reviewer. Review the given pull request diff and
respond with exactly this structure:

# REVIEW SUMMARY
<one paragraph>

# VERDICT
<one of APPROVE, REQUEST_CHANGES, COMMENT>

# SUGGESTIONS
## Suggestion <file>:<line>
**Severity:** <Low|Medium|High|Critical>
**Category:** <Bug|Security|Style|Best Practice|Performance>
### Comment
<comment text>

Repeat the "## Suggestion" block for every issue found. Omit the SUGGESTIONS
section entirely if there is nothing to flag.`

// buildPrompt renders the pull request context and prioritized files into a
// single user-turn prompt for the first LLM call in the agentic loop.
// profileContext, when non-empty, is a reviewer-guidance profile's stored
// text prepended ahead of the PR details. filter, when non-empty, hints the
// model to focus only on the requested severities; the final output is also
// narrowed to those severities regardless of what the model returns.
func buildPrompt(pr *core.PRContext, files []core.PRFile, dropped int, profileContext string, filter PriorityFilter) string {
	var b strings.Builder
	if profileContext != "" {
		fmt.Fprintf(&b, "Reviewer guidance:\n%s\n\n", profileContext)
	}
	if levels := filter.Levels(); len(levels) > 0 {
		fmt.Fprintf(&b, "Priority filter: only report findings at %s severity.\n\n", strings.Join(levels, ", "))
	}
	fmt.Fprintf(&b, "Pull request #%d: %s\nAuthor: %s\n\n", pr.PRNumber, pr.Title, pr.Author)

	if dropped > 0 {
		fmt.Fprintf(&b, "(%d additional changed file(s) were excluded from this review for scope.)\n\n", dropped)
	}

	for _, f := range files {
		fmt.Fprintf(&b, "--- %s (%s, +%d/-%d) ---\n", f.Filename, f.Status, f.Additions, f.Deletions)
		if f.Patch != "" {
			b.WriteString(f.Patch)
			b.WriteString("\n")
		}
	}
	return b.String()
}
