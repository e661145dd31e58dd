package llmclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
)

type fakeClient struct {
	result *Result
	err    error
}

func (f *fakeClient) Summarize(context.Context, string, string, Params) (*Result, error) {
	return f.result, f.err
}

func TestDetectProvider(t *testing.T) {
	assert.Equal(t, "openai", DetectProvider("gpt-4o"))
	assert.Equal(t, "anthropic", DetectProvider("claude-3-5-sonnet"))
	assert.Equal(t, "google", DetectProvider("gemini-1.5-pro"))
	assert.Equal(t, "local", DetectProvider("qwen2.5-coder"))
	assert.Equal(t, "", DetectProvider("unknown-model-x"))
}

func TestRouterDispatchesByModel(t *testing.T) {
	openai := &fakeClient{result: &Result{Text: "ok-openai"}}
	local := &fakeClient{result: &Result{Text: "ok-local"}}
	router := NewRouter(openai, nil, nil, local)

	res, err := router.Summarize(context.Background(), "sys", "user", Params{Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "ok-openai", res.Text)

	res, err = router.Summarize(context.Background(), "sys", "user", Params{Model: "qwen2.5-coder"})
	require.NoError(t, err)
	assert.Equal(t, "ok-local", res.Text)
}

func TestRouterUnknownModel(t *testing.T) {
	router := NewRouter(nil, nil, nil, nil)
	_, err := router.Summarize(context.Background(), "sys", "user", Params{Model: "wat-1"})
	require.Error(t, err)
	assert.Equal(t, core.KindUnsupported, core.KindOf(err))
}

func TestRouterUnconfiguredProvider(t *testing.T) {
	router := NewRouter(nil, nil, nil, nil)
	_, err := router.Summarize(context.Background(), "sys", "user", Params{Model: "gpt-4o"})
	require.Error(t, err)
	assert.Equal(t, core.KindUnsupported, core.KindOf(err))
}

func TestCharEstimateFallback(t *testing.T) {
	e := NewBPEEstimator("", nil)
	assert.Equal(t, 3, e.EstimateTokens("1234567890")) // ceil(10/4)
}
