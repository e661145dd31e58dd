package review

import (
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// qualityFailureThreshold is a warn-not-fail floor: a low-scoring review is
// still emitted, but the caller is told to surface a warning alongside it.
const qualityFailureThreshold = 0.6

var validVerdicts = map[string]bool{
	"APPROVE": true, "REQUEST_CHANGES": true, "COMMENT": true,
}

var validSeverities = map[string]bool{
	"LOW": true, "MEDIUM": true, "HIGH": true, "CRITICAL": true,
}

// minReviewLength/maxReviewLength bound the "reasonable" raw markdown length
// band: shorter reviews tend to be rubber-stamps, much longer ones tend to
// restate the diff back at the author.
const (
	minReviewLength = 120
	maxReviewLength = 12000
)

// scoreQuality rates a parsed review on [0,1] across five equally weighted
// signals: section coverage (summary/verdict present), reference presence
// (suggestions carry a well-formed file:line + severity + comment),
// diff-resolvability (those references actually land on a line the pull
// request's diff touches), length band (the raw markdown isn't a rubber
// stamp or a wall of restated diff), and a duplicate-content penalty.
func scoreQuality(pr *core.PRContext, raw string, r *core.StructuredReview) float64 {
	return sectionCoverage(r) +
		referencePresence(r) +
		diffResolvability(pr, r) +
		lengthBand(raw) +
		duplicatePenalty(r)
}

func sectionCoverage(r *core.StructuredReview) float64 {
	var score float64
	if strings.TrimSpace(r.Summary) != "" {
		score += 0.1
	}
	if validVerdicts[strings.ToUpper(r.Verdict)] {
		score += 0.1
	}
	return score
}

// referencePresence rewards suggestions that carry a file path, a positive
// line number, a recognized severity, and a non-empty comment.
func referencePresence(r *core.StructuredReview) float64 {
	if len(r.Suggestions) == 0 {
		// Nothing to flag is not itself a defect.
		return 0.2
	}
	var wellFormed int
	for _, s := range r.Suggestions {
		if s.FilePath != "" && s.LineNumber > 0 && validSeverities[strings.ToUpper(s.Severity)] && strings.TrimSpace(s.Comment) != "" {
			wellFormed++
		}
	}
	return 0.2 * float64(wellFormed) / float64(len(r.Suggestions))
}

// diffResolvability rewards suggestions whose file:line actually resolves
// against a line the pull request's diff touches, reusing the same index the
// inline-comment poster uses so "resolvable" means the same thing in both
// places.
func diffResolvability(pr *core.PRContext, r *core.StructuredReview) float64 {
	if len(r.Suggestions) == 0 {
		return 0.2
	}
	validLines := validLineIndex(pr)
	var resolvable int
	for _, s := range r.Suggestions {
		lines, ok := validLines[s.FilePath]
		if !ok {
			continue
		}
		if _, ok := lines[s.LineNumber]; ok {
			resolvable++
		}
	}
	return 0.2 * float64(resolvable) / float64(len(r.Suggestions))
}

// lengthBand rewards raw markdown that falls within a plausible length for a
// genuine review, penalizing both rubber-stamp-short and diff-restating-long
// outputs.
func lengthBand(raw string) float64 {
	n := len(strings.TrimSpace(raw))
	switch {
	case n < minReviewLength:
		return 0.2 * float64(n) / float64(minReviewLength)
	case n <= maxReviewLength:
		return 0.2
	default:
		over := float64(n-maxReviewLength) / float64(maxReviewLength)
		score := 0.2 * (1 - over)
		if score < 0 {
			score = 0
		}
		return score
	}
}

// duplicatePenalty docks the score for suggestions that repeat the same
// comment text (a model looping or padding with restated findings).
func duplicatePenalty(r *core.StructuredReview) float64 {
	if len(r.Suggestions) == 0 {
		return 0.2
	}
	seen := make(map[string]int, len(r.Suggestions))
	for _, s := range r.Suggestions {
		key := strings.ToLower(strings.TrimSpace(s.Comment))
		if key == "" {
			continue
		}
		seen[key]++
	}
	var duplicates int
	for _, count := range seen {
		if count > 1 {
			duplicates += count - 1
		}
	}
	return 0.2 * (1 - float64(duplicates)/float64(len(r.Suggestions)))
}

func isLowQuality(score float64) bool {
	return score < qualityFailureThreshold
}
