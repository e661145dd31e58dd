// Package costtracker implements CostTracker (K): a per-pipeline-run token
// ledger over a per-provider, per-model USD price table.
package costtracker

import (
	"strings"
	"sync"
)

// Price is the USD cost per 1,000 tokens for one side of a call.
type Price struct {
	InputPer1K  float64
	OutputPer1K float64
}

// Key identifies a priced model.
type Key struct {
	Provider string
	Model    string
}

// usageRecord is one tracked call.
type usageRecord struct {
	Key          Key
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// Tracker accumulates usage for a single pipeline run; it is never shared
// across runs (spec §5's "Cost tracker is per-pipeline-run, not shared").
type Tracker struct {
	mu      sync.Mutex
	prices  map[Key]Price
	records []usageRecord
}

// New builds a Tracker seeded with the built-in default price table,
// overlaid with any custom entries (custom wins on key collision).
func New(custom map[Key]Price) *Tracker {
	prices := make(map[Key]Price, len(defaultPrices)+len(custom))
	for k, v := range defaultPrices {
		prices[k] = v
	}
	for k, v := range custom {
		prices[k] = v
	}
	return &Tracker{prices: prices}
}

// Track appends a usage record and returns its cost. A (provider, model)
// pair with no price-table row, local or cloud, is tracked at a zero price
// rather than failing the call — a reviewer should never lose a review over
// a missing price-table row.
func (t *Tracker) Track(provider, model string, inputTokens, outputTokens int) float64 {
	key := Key{Provider: provider, Model: model}

	t.mu.Lock()
	defer t.mu.Unlock()

	price, ok := t.prices[key]
	if !ok && isLocalProvider(provider) {
		price = Price{} // zero price for unregistered local models
	} else if !ok {
		price = Price{} // unpriced cloud model still tracked, cost 0 until configured
	}

	cost := float64(inputTokens)/1000*price.InputPer1K + float64(outputTokens)/1000*price.OutputPer1K
	t.records = append(t.records, usageRecord{Key: key, InputTokens: inputTokens, OutputTokens: outputTokens, CostUSD: cost})
	return cost
}

// Total sums the USD cost of every tracked call so far.
func (t *Tracker) Total() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total float64
	for _, r := range t.records {
		total += r.CostUSD
	}
	return total
}

// InputOutputTotals sums tracked tokens across every call, used to populate
// ReviewOutput.InputTokens/OutputTokens.
func (t *Tracker) InputOutputTotals() (input, output int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.records {
		input += r.InputTokens
		output += r.OutputTokens
	}
	return input, output
}

func isLocalProvider(provider string) bool {
	return strings.EqualFold(provider, "local")
}

// defaultPrices seeds well-known cloud models; Local-provider rows are
// intentionally absent since Track already zero-prices unregistered local
// models.
var defaultPrices = map[Key]Price{
	{Provider: "openai", Model: "gpt-4o"}:        {InputPer1K: 0.0025, OutputPer1K: 0.01},
	{Provider: "openai", Model: "gpt-4o-mini"}:   {InputPer1K: 0.00015, OutputPer1K: 0.0006},
	{Provider: "anthropic", Model: "claude-3-5-sonnet-20241022"}: {InputPer1K: 0.003, OutputPer1K: 0.015},
	{Provider: "anthropic", Model: "claude-3-haiku-20240307"}:    {InputPer1K: 0.00025, OutputPer1K: 0.00125},
	{Provider: "google", Model: "gemini-1.5-pro"}:   {InputPer1K: 0.00125, OutputPer1K: 0.005},
	{Provider: "google", Model: "gemini-1.5-flash"}: {InputPer1K: 0.000075, OutputPer1K: 0.0003},
}
