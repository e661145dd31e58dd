package llmclient

import (
	"context"

	"google.golang.org/genai"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// CloudGenerate is the Google-style variant: a single-turn generate-content
// call against the Gemini API via the official genai SDK.
type CloudGenerate struct {
	ceilingGuard
	client *genai.Client
}

func NewCloudGenerate(ctx context.Context, apiKey string, estimator Estimator, ceiling int) (*CloudGenerate, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "create genai client", err)
	}
	return &CloudGenerate{ceilingGuard: newCeilingGuard(estimator, ceiling), client: client}, nil
}

func (c *CloudGenerate) Summarize(ctx context.Context, systemPrompt, userPrompt string, params Params) (*Result, error) {
	if err := c.check(systemPrompt, userPrompt); err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(params.Temperature)),
	}
	if params.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(params.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, params.Model, genai.Text(userPrompt), cfg)
	if err != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "generate content failed", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, core.NewError(core.KindProviderRefused, string(resp.PromptFeedback.BlockReason))
	}

	text := resp.Text()
	if text == "" {
		return nil, core.NewError(core.KindEmptyResponse, "provider returned no text")
	}

	result := &Result{Text: text}
	if resp.UsageMetadata != nil {
		result.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return result, nil
}
