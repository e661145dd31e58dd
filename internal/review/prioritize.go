// Package review implements PRReviewPipeline (J): a staged pull-request
// review run from URL to posted (or returned) markdown output, file
// prioritization, an agentic LLM tool-calling loop, and an output quality
// validator.
package review

import (
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Mode selects how changed files are prioritized before prompting the LLM.
type Mode string

const (
	// ModeBasic keeps the first N files in API order.
	ModeBasic Mode = "basic"
	// ModeSmart scores and ranks files by a weighted heuristic.
	ModeSmart Mode = "smart"
)

const defaultBasicFileLimit = 8

// extensionWeight biases Smart scoring toward source files over config/docs,
// mirroring validation.go's codeExtensions/nonReviewableExtensions split.
var extensionWeight = map[string]float64{
	".go": 1.0, ".py": 1.0, ".js": 0.9, ".ts": 0.9, ".tsx": 0.9, ".jsx": 0.9,
	".java": 0.9, ".rs": 0.9, ".c": 0.8, ".cpp": 0.8, ".rb": 0.8, ".php": 0.7,
	".sql": 0.6, ".sh": 0.5,
	".md": 0.1, ".yml": 0.1, ".yaml": 0.1, ".json": 0.1, ".lock": 0.0, ".sum": 0.0,
}

// pathWeight further biases toward application code over tests and vendored
// or generated trees, which dominate diff size without needing review depth.
func pathWeight(path string) float64 {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "vendor/"), strings.Contains(lower, "node_modules/"):
		return 0.0
	case strings.Contains(lower, "_test."), strings.Contains(lower, "/test/"), strings.Contains(lower, "/tests/"):
		return 0.4
	case strings.Contains(lower, "/generated/"), strings.HasSuffix(lower, ".pb.go"), strings.HasSuffix(lower, ".gen.go"):
		return 0.1
	default:
		return 1.0
	}
}

func isGenerated(f core.PRFile) bool {
	lower := strings.ToLower(f.Filename)
	return strings.HasSuffix(lower, ".min.js") || strings.HasSuffix(lower, ".min.css") ||
		strings.Contains(lower, "/generated/") || strings.HasSuffix(lower, ".pb.go")
}

// Prioritize orders pr.Files by mode and returns at most limit files, plus
// the count of files dropped from consideration.
func Prioritize(mode Mode, files []core.PRFile, limit int) (kept []core.PRFile, dropped int) {
	if limit <= 0 {
		limit = defaultBasicFileLimit
	}

	reviewable := make([]core.PRFile, 0, len(files))
	for _, f := range files {
		if isReviewableFile(f.Filename) {
			reviewable = append(reviewable, f)
		}
	}
	dropped = len(files) - len(reviewable)

	if mode == ModeSmart {
		sortBySmartScore(reviewable)
	}

	if len(reviewable) > limit {
		dropped += len(reviewable) - limit
		reviewable = reviewable[:limit]
	}
	return reviewable, dropped
}

func sortBySmartScore(files []core.PRFile) {
	scores := make(map[string]float64, len(files))
	for _, f := range files {
		scores[f.Filename] = smartScore(f)
	}
	sort.SliceStable(files, func(i, j int) bool {
		return scores[files[i].Filename] > scores[files[j].Filename]
	})
}

// smartScore implements s = a*log(1+churn) + b*extension_weight + c*path_weight - d*generated_penalty.
const (
	weightChurn     = 0.5
	weightExtension = 0.3
	weightPath      = 0.2
	generatedPenalty = 5.0
)

func smartScore(f core.PRFile) float64 {
	churn := float64(f.Additions + f.Deletions)
	ext := filepath.Ext(strings.ToLower(f.Filename))

	s := weightChurn*math.Log1p(churn) + weightExtension*extensionWeight[ext] + weightPath*pathWeight(f.Filename)
	if isGenerated(f) {
		s -= generatedPenalty
	}
	return s
}

var nonReviewableExtensions = map[string]bool{
	".md": true, ".markdown": true, ".rst": true, ".adoc": true,
	".yml": true, ".yaml": true, ".json": true, ".jsonc": true,
	".toml": true, ".ini": true, ".cfg": true, ".conf": true,
	".lock": true, ".sum": true,
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true, ".webp": true, ".pdf": true,
}

var codeExtensions = map[string]bool{
	".go": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
	".py": true, ".java": true, ".c": true, ".cpp": true, ".h": true, ".hpp": true,
	".rs": true, ".rb": true, ".php": true, ".cs": true, ".sh": true, ".sql": true,
}

// isReviewableFile mirrors the teacher's review-input filter: minified
// bundles, .d.ts files and a few extensionless build files (Makefile,
// Dockerfile, ...) are dropped, then known code extensions pass, known
// non-code extensions are dropped, and anything unrecognized is kept (err on
// the side of reviewing).
func isReviewableFile(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".min.js") || strings.HasSuffix(lower, ".min.css") || strings.HasSuffix(lower, ".d.ts") {
		return false
	}
	ext := filepath.Ext(lower)
	if codeExtensions[ext] {
		return true
	}
	if ext == "" {
		switch filepath.Base(lower) {
		case "makefile", "dockerfile", "rakefile", "gemfile", "procfile":
			return false
		}
		return true
	}
	return !nonReviewableExtensions[ext]
}

// PriorityFilter restricts a review to a caller-chosen subset of severities
// ("high", "medium", "low"). A nil or empty filter allows everything.
type PriorityFilter map[string]bool

// ParsePriorityFilter splits a comma-separated --priority value (e.g.
// "high,medium") into a PriorityFilter, lower-casing and trimming each
// level. An empty string yields a nil filter (no restriction).
func ParsePriorityFilter(raw string) PriorityFilter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	filter := make(PriorityFilter)
	for _, part := range strings.Split(raw, ",") {
		level := strings.ToLower(strings.TrimSpace(part))
		if level != "" {
			filter[level] = true
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

// Allows reports whether severity passes the filter. An empty/nil filter
// allows every severity.
func (f PriorityFilter) Allows(severity string) bool {
	if len(f) == 0 {
		return true
	}
	return f[strings.ToLower(severity)]
}

// Levels returns the filter's severities in a stable, sorted order, for
// rendering into the prompt hint.
func (f PriorityFilter) Levels() []string {
	if len(f) == 0 {
		return nil
	}
	levels := make([]string, 0, len(f))
	for level := range f {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	return levels
}

// FilterSuggestions drops suggestions whose Severity the filter disallows.
// An empty/nil filter returns suggestions unchanged.
func FilterSuggestions(suggestions []core.Suggestion, filter PriorityFilter) []core.Suggestion {
	if len(filter) == 0 {
		return suggestions
	}
	kept := make([]core.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if filter.Allows(s.Severity) {
			kept = append(kept, s)
		}
	}
	return kept
}
