package costtracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackAndTotal(t *testing.T) {
	tr := New(nil)
	cost := tr.Track("openai", "gpt-4o", 1000, 500)
	assert.InDelta(t, 1000.0/1000*0.0025+500.0/1000*0.01, cost, 1e-9)
	assert.InDelta(t, cost, tr.Total(), 1e-9)
}

func TestTrackLocalProviderIsZero(t *testing.T) {
	tr := New(nil)
	cost := tr.Track("local", "qwen2.5-coder", 1000, 500)
	assert.Equal(t, 0.0, cost)
	assert.Equal(t, 0.0, tr.Total())
}

func TestCustomPricingOverridesDefault(t *testing.T) {
	tr := New(map[Key]Price{{Provider: "openai", Model: "gpt-4o"}: {InputPer1K: 1, OutputPer1K: 1}})
	cost := tr.Track("openai", "gpt-4o", 1000, 1000)
	assert.Equal(t, 2.0, cost)
}

func TestSuggestModels(t *testing.T) {
	suggestions := SuggestModels("cluade-3-opus", 3)
	assert.Contains(t, suggestions, "claude-3-opus-20240229")
}

func TestIsValidModel(t *testing.T) {
	assert.True(t, IsValidModel("gpt-4o"))
	assert.False(t, IsValidModel("not-a-model"))
}
