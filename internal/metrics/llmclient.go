package metrics

import (
	"context"
	"time"

	"github.com/sevigo/codewarden-kit/internal/llmclient"
)

// InstrumentedClient wraps an llmclient.Client, recording a call counter,
// error counter, and latency histogram per provider/model on every
// Summarize call.
type InstrumentedClient struct {
	next    llmclient.Client
	metrics *Metrics
}

// Instrument wraps next so every Summarize call is observed by m.
func Instrument(next llmclient.Client, m *Metrics) *InstrumentedClient {
	return &InstrumentedClient{next: next, metrics: m}
}

func (c *InstrumentedClient) Summarize(ctx context.Context, systemPrompt, userPrompt string, params llmclient.Params) (*llmclient.Result, error) {
	start := time.Now()
	result, err := c.next.Summarize(ctx, systemPrompt, userPrompt, params)
	c.metrics.ObserveLLMCall(llmclient.DetectProvider(params.Model), params.Model, time.Since(start), err)
	return result, err
}
