package review

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

var (
	reSuggestionHeader = regexp.MustCompile(`^##\s+Suggestion\s+(.+?):(\d+)$`)
	reSeverity         = regexp.MustCompile(`^\*\*Severity:\*\*\s*(.+)$`)
	reCategory         = regexp.MustCompile(`^\*\*Category:\*\*\s*(.+)$`)
)

const (
	stateNone = iota
	stateSummary
	stateVerdict
	stateInSuggestion
	stateInComment
)

// parseReviewMarkdown parses the LLM's structured markdown output:
//
//	# REVIEW SUMMARY
//	...
//	# VERDICT
//	...
//	# SUGGESTIONS
//	## Suggestion path/to/file.go:123
//	**Severity:** High
//	**Category:** Bug
//	### Comment
//	...
func parseReviewMarkdown(raw string) (*core.StructuredReview, error) {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	review := &core.StructuredReview{}
	var current *core.Suggestion
	var comment strings.Builder
	state := stateNone

	flushSuggestion := func() {
		if current != nil {
			current.Comment = strings.TrimSpace(comment.String())
			review.Suggestions = append(review.Suggestions, *current)
			comment.Reset()
			current = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "# REVIEW SUMMARY"):
			state = stateSummary
			continue
		case strings.HasPrefix(line, "# VERDICT"):
			flushSuggestion()
			state = stateVerdict
			continue
		case strings.HasPrefix(line, "# SUGGESTIONS"):
			flushSuggestion()
			state = stateNone
			continue
		case strings.HasPrefix(line, "## Suggestion"):
			flushSuggestion()
			if m := reSuggestionHeader.FindStringSubmatch(line); len(m) == 3 {
				lineNum, _ := strconv.Atoi(m[2])
				current = &core.Suggestion{FilePath: strings.TrimSpace(m[1]), LineNumber: lineNum}
				state = stateInSuggestion
			}
			continue
		case strings.HasPrefix(line, "### Comment"):
			state = stateInComment
			continue
		}

		switch state {
		case stateSummary:
			if trimmed != "" || review.Summary != "" {
				if review.Summary != "" {
					review.Summary += "\n"
				}
				review.Summary += line
			}
		case stateVerdict:
			if trimmed != "" && review.Verdict == "" {
				review.Verdict = trimmed
			}
		case stateInSuggestion:
			if m := reSeverity.FindStringSubmatch(trimmed); len(m) >= 2 {
				current.Severity = strings.TrimSpace(m[1])
			} else if m := reCategory.FindStringSubmatch(trimmed); len(m) >= 2 {
				current.Category = strings.TrimSpace(m[1])
			}
		case stateInComment:
			comment.WriteString(line + "\n")
		}
	}
	flushSuggestion()

	review.Summary = strings.TrimSpace(review.Summary)
	review.Verdict = strings.TrimSpace(review.Verdict)

	if review.Summary == "" && review.Verdict == "" && len(review.Suggestions) == 0 {
		return nil, core.NewError(core.KindEmptyResponse, "could not parse any structured content from review output")
	}
	return review, nil
}
