// Package llmclient implements LLMClient (I): a single capability,
// Summarize, exposed uniformly over four tagged provider variants
// (Cloud-Chat, Cloud-Messages, Cloud-Generate, Local-Generate).
package llmclient

import (
	"context"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Params tunes a single Summarize call.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Result is the outcome of a successful Summarize call.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Client is the single capability every provider variant implements.
// Failure modes are tagged core.Error kinds: KindProviderUnavailable
// (transport), KindProviderRefused (safety block), KindEmptyResponse (no
// text returned), KindPromptTooLarge (estimated prompt tokens over the
// configured ceiling — checked by every variant before issuing the
// request).
type Client interface {
	Summarize(ctx context.Context, systemPrompt, userPrompt string, params Params) (*Result, error)
}

// Estimator computes an approximate input-token count for a prompt. The
// default implementation (see tokenizer.go) uses a BPE-like encoder when one
// is configured and falls back to ceil(chars/4).
type Estimator interface {
	EstimateTokens(text string) int
}

// ceilingGuard is embedded by every variant to enforce the PromptTooLarge
// contract uniformly instead of duplicating the check four times.
type ceilingGuard struct {
	estimator Estimator
	ceiling   int
}

func newCeilingGuard(estimator Estimator, ceiling int) ceilingGuard {
	if ceiling <= 0 {
		ceiling = 15000
	}
	return ceilingGuard{estimator: estimator, ceiling: ceiling}
}

func (g ceilingGuard) check(systemPrompt, userPrompt string) error {
	estimated := g.estimator.EstimateTokens(systemPrompt + "\n" + userPrompt)
	if estimated > g.ceiling {
		return core.NewError(core.KindPromptTooLarge, "estimated prompt tokens exceed configured ceiling")
	}
	return nil
}

// DetectProvider routes a model name to the provider variant that should
// serve it, per spec §6's model-name prefix table.
func DetectProvider(model string) string {
	switch {
	case hasAnyPrefix(model, "gpt-", "o1", "o3", "o4"):
		return "openai"
	case hasAnyPrefix(model, "claude-"):
		return "anthropic"
	case hasAnyPrefix(model, "gemini-"):
		return "google"
	case hasAnyPrefix(model, "llama", "codellama", "mistral", "deepseek", "qwen", "phi", "gemma", "starcoder", "wizardcoder", "devstral"):
		return "local"
	default:
		return ""
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
