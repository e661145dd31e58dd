package llmclient

import (
	"log/slog"
	"math"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// BPEEstimator adapts a sugarme/tokenizer BPE model to the Estimator
// interface, falling back to a character-based approximation when no
// tokenizer file is configured or it fails to load — this mirrors the
// teacher's OllamaTokenizerAdapter.EstimateTokens character-ratio fallback,
// generalized to a real BPE encoder when one is available.
type BPEEstimator struct {
	tk     *tokenizer.Tokenizer
	logger *slog.Logger
}

// NewBPEEstimator loads a HuggingFace-format tokenizer.json from path. An
// empty path or a load failure leaves tk nil, so EstimateTokens always falls
// back to ceil(chars/4) rather than erroring.
func NewBPEEstimator(tokenizerFilePath string, logger *slog.Logger) *BPEEstimator {
	if logger == nil {
		logger = slog.Default()
	}
	e := &BPEEstimator{logger: logger}
	if tokenizerFilePath == "" {
		return e
	}
	tk, err := pretrained.FromFile(tokenizerFilePath)
	if err != nil {
		logger.Warn("failed to load BPE tokenizer, falling back to char estimate", "path", tokenizerFilePath, "error", err)
		return e
	}
	e.tk = tk
	return e
}

func (e *BPEEstimator) EstimateTokens(text string) int {
	if e.tk == nil {
		return charEstimate(text)
	}
	encoding, err := e.tk.EncodeSingle(text, true)
	if err != nil || encoding == nil {
		return charEstimate(text)
	}
	return len(encoding.Ids)
}

func charEstimate(text string) int {
	return int(math.Ceil(float64(len(text)) / 4.0))
}
