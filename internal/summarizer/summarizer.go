// Package summarizer implements the Summarizer component (spec §4.4):
// file/function/class summarization over SymbolIndex and LLMClient, with
// exact oversize-placeholder semantics carried over from the original kit
// implementation (src/kit/summaries.py).
package summarizer

import (
	"context"
	"fmt"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/llmclient"
)

const (
	// maxFileSummarizeChars is the oversize threshold for summarizeFile,
	// ported verbatim from the original's MAX_FILE_SUMMARIZE_CHARS.
	maxFileSummarizeChars = 25000
	// maxCodeLengthChars is the oversize threshold for summarizeFunction and
	// summarizeClass, ported verbatim from MAX_CODE_LENGTH_CHARS.
	maxCodeLengthChars = 50000
)

const systemPrompt = "You are an expert software engineer. Provide a concise, accurate summary of the given code. Focus on purpose and behavior, not syntax."

// Handle is the subset of repohandle.Handle Summarizer needs.
type Handle interface {
	FileContent(rel string) ([]byte, error)
}

// SymbolLocator is the subset of symbols.Index Summarizer needs to find a
// named function or class span.
type SymbolLocator interface {
	Extract(rel string) ([]core.Symbol, error)
}

type Summarizer struct {
	handle  Handle
	symbols SymbolLocator
	llm     llmclient.Client
}

func New(handle Handle, symbols SymbolLocator, llm llmclient.Client) *Summarizer {
	return &Summarizer{handle: handle, symbols: symbols, llm: llm}
}

// SummarizeFile fetches rel and asks the LLM for a summary; a file over
// maxFileSummarizeChars returns the placeholder string instead of ever
// reaching the provider.
func (s *Summarizer) SummarizeFile(ctx context.Context, rel string, params llmclient.Params) (string, error) {
	content, err := s.handle.FileContent(rel)
	if err != nil {
		return "", err
	}
	text := string(content)
	if len(text) > maxFileSummarizeChars {
		return fmt.Sprintf("File content too large (%d characters) to summarize.", len(text)), nil
	}

	userPrompt := fmt.Sprintf("Summarize the following file (%s):\n\n%s", rel, text)
	return s.callLLM(ctx, userPrompt, params)
}

// SummarizeFunction locates a function/method symbol named name in rel and
// summarizes its code span.
func (s *Summarizer) SummarizeFunction(ctx context.Context, rel, name string, params llmclient.Params) (string, error) {
	sym, err := s.findSymbol(rel, name, core.SymbolFunction, core.SymbolMethod)
	if err != nil {
		return "", err
	}
	if len(sym.Code) > maxCodeLengthChars {
		return fmt.Sprintf("Function content too large (%d characters) to summarize.", len(sym.Code)), nil
	}
	userPrompt := fmt.Sprintf("Summarize the following function %q from %s:\n\n%s", name, rel, sym.Code)
	return s.callLLM(ctx, userPrompt, params)
}

// SummarizeClass locates a class symbol named name in rel and summarizes
// its code span.
func (s *Summarizer) SummarizeClass(ctx context.Context, rel, name string, params llmclient.Params) (string, error) {
	sym, err := s.findSymbol(rel, name, core.SymbolClass)
	if err != nil {
		return "", err
	}
	if len(sym.Code) > maxCodeLengthChars {
		return fmt.Sprintf("Class content too large (%d characters) to summarize.", len(sym.Code)), nil
	}
	userPrompt := fmt.Sprintf("Summarize the following class %q from %s:\n\n%s", name, rel, sym.Code)
	return s.callLLM(ctx, userPrompt, params)
}

func (s *Summarizer) findSymbol(rel, name string, want ...core.SymbolType) (*core.Symbol, error) {
	syms, err := s.symbols.Extract(rel)
	if err != nil {
		return nil, err
	}
	wantSet := make(map[core.SymbolType]bool, len(want))
	for _, w := range want {
		wantSet[w] = true
	}
	for i := range syms {
		if (syms[i].Name == name || syms[i].NodePath == name) && wantSet[syms[i].Type] {
			return &syms[i], nil
		}
	}
	return nil, core.NewError(core.KindNotFound, fmt.Sprintf("symbol %q not found in %s", name, rel))
}

func (s *Summarizer) callLLM(ctx context.Context, userPrompt string, params llmclient.Params) (string, error) {
	result, err := s.llm.Summarize(ctx, systemPrompt, userPrompt, params)
	if err != nil {
		return "", err
	}
	if result.Text == "" {
		return "", core.NewError(core.KindEmptyResponse, "provider returned no text")
	}
	return result.Text, nil
}
