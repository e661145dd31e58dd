package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/llmclient"
)

type fakeHandle struct {
	files map[string][]byte
}

func (h *fakeHandle) FileContent(rel string) ([]byte, error) {
	c, ok := h.files[rel]
	if !ok {
		return nil, core.NewError(core.KindNotFound, "no such file")
	}
	return c, nil
}

type fakeSymbols struct {
	syms []core.Symbol
}

func (s *fakeSymbols) Extract(string) ([]core.Symbol, error) { return s.syms, nil }

type fakeLLM struct {
	result *llmclient.Result
	err    error
}

func (f *fakeLLM) Summarize(context.Context, string, string, llmclient.Params) (*llmclient.Result, error) {
	return f.result, f.err
}

func TestSummarizeFile(t *testing.T) {
	h := &fakeHandle{files: map[string][]byte{"main.go": []byte("package main")}}
	llm := &fakeLLM{result: &llmclient.Result{Text: "a small go file"}}
	s := New(h, &fakeSymbols{}, llm)

	out, err := s.SummarizeFile(context.Background(), "main.go", llmclient.Params{Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "a small go file", out)
}

func TestSummarizeFileOversize(t *testing.T) {
	h := &fakeHandle{files: map[string][]byte{"big.go": []byte(strings.Repeat("x", maxFileSummarizeChars+1))}}
	s := New(h, &fakeSymbols{}, &fakeLLM{})

	out, err := s.SummarizeFile(context.Background(), "big.go", llmclient.Params{})
	require.NoError(t, err)
	assert.Contains(t, out, "too large")
}

func TestSummarizeFunctionNotFound(t *testing.T) {
	s := New(&fakeHandle{}, &fakeSymbols{}, &fakeLLM{})
	_, err := s.SummarizeFunction(context.Background(), "main.go", "DoThing", llmclient.Params{})
	require.Error(t, err)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func TestSummarizeClassOversize(t *testing.T) {
	sym := core.Symbol{Name: "Big", Type: core.SymbolClass, Code: strings.Repeat("y", maxCodeLengthChars+1)}
	s := New(&fakeHandle{}, &fakeSymbols{syms: []core.Symbol{sym}}, &fakeLLM{})

	out, err := s.SummarizeClass(context.Background(), "main.go", "Big", llmclient.Params{})
	require.NoError(t, err)
	assert.Contains(t, out, "too large")
}

func TestSummarizeFunctionEmptyResponseIsError(t *testing.T) {
	sym := core.Symbol{Name: "Do", Type: core.SymbolFunction, Code: "func Do() {}"}
	s := New(&fakeHandle{}, &fakeSymbols{syms: []core.Symbol{sym}}, &fakeLLM{result: &llmclient.Result{Text: ""}})

	_, err := s.SummarizeFunction(context.Background(), "main.go", "Do", llmclient.Params{})
	require.Error(t, err)
	assert.Equal(t, core.KindEmptyResponse, core.KindOf(err))
}
