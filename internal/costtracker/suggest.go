package costtracker

import "strings"

// knownModels is the set of model names the CLI will validate `--model`
// against, restored from the original kit CLI's model-validation step
// (cli.py's `review` command rejects typo'd model names up front instead of
// failing after a network round trip).
var knownModels = []string{
	"gpt-4o", "gpt-4o-mini", "gpt-4-turbo",
	"claude-3-5-sonnet-20241022", "claude-3-opus-20240229", "claude-3-haiku-20240307",
	"gemini-1.5-pro", "gemini-1.5-flash",
	"llama3.1", "codellama", "mistral", "deepseek-coder", "qwen2.5-coder",
}

// IsValidModel reports whether model is in the known-model table.
func IsValidModel(model string) bool {
	for _, m := range knownModels {
		if m == model {
			return true
		}
	}
	return false
}

// SuggestModels returns known model names close to the typo'd input,
// ranked by ascending edit distance, for a CLI error message like
// `unknown model "cluade-3-opus", did you mean "claude-3-opus-20240229"?`.
func SuggestModels(input string, max int) []string {
	type scored struct {
		name string
		dist int
	}
	candidates := make([]scored, 0, len(knownModels))
	for _, m := range knownModels {
		candidates = append(candidates, scored{name: m, dist: editDistance(strings.ToLower(input), strings.ToLower(m))})
	}
	// simple selection sort over a small, fixed-size list
	for i := 0; i < len(candidates); i++ {
		min := i
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].dist < candidates[min].dist {
				min = j
			}
		}
		candidates[i], candidates[min] = candidates[min], candidates[i]
	}
	if max > len(candidates) {
		max = len(candidates)
	}
	out := make([]string, 0, max)
	for _, c := range candidates[:max] {
		out = append(out, c.name)
	}
	return out
}

// editDistance is a plain Levenshtein distance. No third-party library in
// the corpus offers string-distance scoring, so this small hand-rolled
// implementation is the stdlib-justified exception for this one helper.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
