package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// CloudMessages is the Anthropic-style variant: a top-level system string
// plus a messages array, single user turn.
type CloudMessages struct {
	ceilingGuard
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewCloudMessages(apiKey, baseURL string, estimator Estimator, ceiling int) *CloudMessages {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}
	return &CloudMessages{
		ceilingGuard: newCeilingGuard(estimator, ceiling),
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		baseURL:      baseURL,
		apiKey:       apiKey,
	}
}

type messagesRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *CloudMessages) Summarize(ctx context.Context, systemPrompt, userPrompt string, params Params) (*Result, error) {
	if err := c.check(systemPrompt, userPrompt); err != nil {
		return nil, err
	}

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	body, err := json.Marshal(messagesRequest{
		Model:     params.Model,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "encode messages request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "build messages request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "messages request failed", err)
	}
	defer resp.Body.Close()

	var decoded messagesResponse
	if decErr := json.NewDecoder(resp.Body).Decode(&decoded); decErr != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "decode messages response", decErr)
	}
	if decoded.Error != nil {
		return nil, core.NewError(core.KindProviderUnavailable, decoded.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, core.NewError(core.KindProviderUnavailable, fmt.Sprintf("messages provider returned status %d", resp.StatusCode))
	}
	if decoded.StopReason == "refusal" {
		return nil, core.NewError(core.KindProviderRefused, "provider refused the request on safety grounds")
	}

	var sb strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, core.NewError(core.KindEmptyResponse, "provider returned no text")
	}

	return &Result{
		Text:         sb.String(),
		InputTokens:  decoded.Usage.InputTokens,
		OutputTokens: decoded.Usage.OutputTokens,
	}, nil
}
