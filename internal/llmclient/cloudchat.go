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

// CloudChat is the OpenAI-compatible chat-completions variant: a system
// message plus a user message, POSTed as a single-turn chat completion.
type CloudChat struct {
	ceilingGuard
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewCloudChat(apiKey, baseURL string, estimator Estimator, ceiling int) *CloudChat {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &CloudChat{
		ceilingGuard: newCeilingGuard(estimator, ceiling),
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		baseURL:      baseURL,
		apiKey:       apiKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *CloudChat) Summarize(ctx context.Context, systemPrompt, userPrompt string, params Params) (*Result, error) {
	if err := c.check(systemPrompt, userPrompt); err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatRequest{
		Model: params.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "encode chat request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "build chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "chat completions request failed", err)
	}
	defer resp.Body.Close()

	var decoded chatResponse
	if decErr := json.NewDecoder(resp.Body).Decode(&decoded); decErr != nil {
		return nil, core.WrapError(core.KindProviderUnavailable, "decode chat response", decErr)
	}
	if decoded.Error != nil {
		if decoded.Error.Code == "content_filter" {
			return nil, core.NewError(core.KindProviderRefused, decoded.Error.Message)
		}
		return nil, core.NewError(core.KindProviderUnavailable, decoded.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, core.NewError(core.KindProviderUnavailable, fmt.Sprintf("chat provider returned status %d", resp.StatusCode))
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return nil, core.NewError(core.KindEmptyResponse, "provider returned no text")
	}

	return &Result{
		Text:         decoded.Choices[0].Message.Content,
		InputTokens:  decoded.Usage.PromptTokens,
		OutputTokens: decoded.Usage.CompletionTokens,
	}, nil
}
