package llmclient

import (
	"context"
	"fmt"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Router dispatches Summarize calls to the right provider variant by
// model-name prefix, so callers only ever talk to a single Client.
type Router struct {
	variants map[string]Client
}

func NewRouter(openai, anthropic, google, local Client) *Router {
	return &Router{variants: map[string]Client{
		"openai":    openai,
		"anthropic": anthropic,
		"google":    google,
		"local":     local,
	}}
}

func (r *Router) Summarize(ctx context.Context, systemPrompt, userPrompt string, params Params) (*Result, error) {
	provider := DetectProvider(params.Model)
	if provider == "" {
		return nil, core.NewError(core.KindUnsupported, fmt.Sprintf("no provider route for model %q", params.Model))
	}
	variant, ok := r.variants[provider]
	if !ok || variant == nil {
		return nil, core.NewError(core.KindUnsupported, fmt.Sprintf("provider %q is not configured", provider))
	}
	return variant.Summarize(ctx, systemPrompt, userPrompt, params)
}
