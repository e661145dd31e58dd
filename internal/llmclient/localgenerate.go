package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// LocalGenerate is the HTTP-local-model variant: a single-turn call to an
// Ollama-compatible /api/generate endpoint. Local models never incur cost
// (see costtracker), but the same prompt-ceiling check as the cloud variants
// still runs before the request, since oversize prompts still risk the local
// model's own context window.
type LocalGenerate struct {
	ceilingGuard
	httpClient *http.Client
	host       string
}

func NewLocalGenerate(host string, estimator Estimator, ceiling int) *LocalGenerate {
	if host == "" {
		host = "http://localhost:11434"
	}
	return &LocalGenerate{
		ceilingGuard: newCeilingGuard(estimator, ceiling),
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		host:         host,
	}
}

type localGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type localGenerateResponse struct {
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (c *LocalGenerate) Summarize(ctx context.Context, systemPrompt, userPrompt string, params Params) (*Result, error) {
	if err := c.check(systemPrompt, userPrompt); err != nil {
		return nil, err
	}

	reqBody := localGenerateRequest{
		Model:  params.Model,
		Prompt: userPrompt,
		System: systemPrompt,
		Stream: false,
	}
	reqBody.Options.Temperature = params.Temperature
	reqBody.Options.NumPredict = params.MaxTokens

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "encode local generate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "build local generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "local model request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, core.NewError(core.KindProviderUnavailable, fmt.Sprintf("local model server returned status %d", resp.StatusCode))
	}

	var decoded localGenerateResponse
	if decErr := json.NewDecoder(resp.Body).Decode(&decoded); decErr != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "decode local generate response", decErr)
	}
	if decoded.Response == "" {
		return nil, core.NewError(core.KindEmptyResponse, "local model returned no text")
	}

	return &Result{
		Text:         decoded.Response,
		InputTokens:  decoded.PromptEvalCount,
		OutputTokens: decoded.EvalCount,
	}, nil
}
