package toolcall

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sevigo/codewarden-kit/internal/core"
)

type toolHandler func(ctx context.Context, params json.RawMessage) (Response, error)

func (g *Gateway) handlers() map[string]toolHandler {
	return map[string]toolHandler{
		"open_repository":      g.openRepository,
		"search_code":          g.searchCode,
		"get_file_content":     g.getFileContent,
		"extract_symbols":      g.extractSymbols,
		"find_symbol_usages":   g.findSymbolUsages,
		"get_file_tree":        g.getFileTree,
		"semantic_search":      g.searchCode, // textual search stands in for semantic_search; no embedding index in this surface
		"get_documentation":    g.getCodeSummary,
		"get_code_summary":     g.getCodeSummary,
		"analyze_dependencies": g.analyzeDependencies,
		"list_prompts":         g.listPrompts,
		"get_prompt":           g.getPrompt,
	}
}

func decode[T any](params json.RawMessage) (T, error) {
	var v T
	if len(params) == 0 {
		return v, core.NewError(core.KindInvalidInput, "missing params")
	}
	if err := json.Unmarshal(params, &v); err != nil {
		return v, core.WrapError(core.KindInvalidInput, "decode tool params", err)
	}
	return v, nil
}

type openRepositoryParams struct {
	PathOrURL   string `json:"path_or_url"`
	Ref         string `json:"ref"`
	GitHubToken string `json:"github_token"`
}

func (g *Gateway) openRepository(ctx context.Context, params json.RawMessage) (Response, error) {
	p, err := decode[openRepositoryParams](params)
	if err != nil {
		return Response{}, err
	}
	if p.PathOrURL == "" {
		return Response{}, core.NewError(core.KindInvalidInput, "path_or_url is required")
	}
	id, err := g.core.OpenRepository(ctx, p.PathOrURL, p.Ref, p.GitHubToken)
	if err != nil {
		return Response{}, err
	}
	return Response{Content: fmt.Sprintf(`{"id":%q}`, id)}, nil
}

type repoAndPathParams struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func (g *Gateway) getFileContent(_ context.Context, params json.RawMessage) (Response, error) {
	p, err := decode[repoAndPathParams](params)
	if err != nil {
		return Response{}, err
	}
	content, err := g.core.FileContent(p.ID, p.Path)
	if err != nil {
		return Response{}, err
	}
	if len(content) > 8192 {
		return Response{Resource: fmt.Sprintf("/repos/%s/files/%s", p.ID, p.Path)}, nil
	}
	return Response{Content: string(content)}, nil
}

func (g *Gateway) getFileTree(_ context.Context, params json.RawMessage) (Response, error) {
	type req struct {
		ID string `json:"id"`
	}
	p, err := decode[req](params)
	if err != nil {
		return Response{}, err
	}
	tree, err := g.core.FileTree(p.ID)
	if err != nil {
		return Response{}, err
	}
	if len(tree) > 200 {
		return Response{Resource: fmt.Sprintf("/repos/%s/tree", p.ID)}, nil
	}
	encoded, _ := json.Marshal(tree)
	return Response{Content: string(encoded)}, nil
}

type searchParams struct {
	ID      string `json:"id"`
	Query   string `json:"query"`
	Pattern string `json:"pattern"`
}

func (g *Gateway) searchCode(_ context.Context, params json.RawMessage) (Response, error) {
	p, err := decode[searchParams](params)
	if err != nil {
		return Response{}, err
	}
	pattern := p.Pattern
	if pattern == "" {
		pattern = "*"
	}
	hits, err := g.core.Search(p.ID, p.Query, pattern)
	if err != nil {
		return Response{}, err
	}
	encoded, _ := json.Marshal(hits)
	return Response{Content: string(encoded)}, nil
}

type extractSymbolsParams struct {
	ID         string `json:"id"`
	FilePath   string `json:"file_path"`
	SymbolType string `json:"symbol_type"`
}

func (g *Gateway) extractSymbols(_ context.Context, params json.RawMessage) (Response, error) {
	p, err := decode[extractSymbolsParams](params)
	if err != nil {
		return Response{}, err
	}
	syms, err := g.core.Symbols(p.ID, p.FilePath, p.SymbolType)
	if err != nil {
		return Response{}, err
	}
	encoded, _ := json.Marshal(syms)
	return Response{Content: string(encoded)}, nil
}

type findSymbolUsagesParams struct {
	ID         string `json:"id"`
	SymbolName string `json:"symbol_name"`
	SymbolType string `json:"symbol_type"`
	FilePath   string `json:"file_path"`
}

func (g *Gateway) findSymbolUsages(_ context.Context, params json.RawMessage) (Response, error) {
	p, err := decode[findSymbolUsagesParams](params)
	if err != nil {
		return Response{}, err
	}
	if p.SymbolName == "" {
		return Response{}, core.NewError(core.KindInvalidInput, "symbol_name is required")
	}
	usages, err := g.core.Usages(p.ID, p.SymbolName, p.SymbolType, p.FilePath)
	if err != nil {
		return Response{}, err
	}
	encoded, _ := json.Marshal(usages)
	return Response{Content: string(encoded)}, nil
}

type getCodeSummaryParams struct {
	ID         string `json:"id"`
	FilePath   string `json:"file_path"`
	SymbolName string `json:"symbol_name"`
}

func (g *Gateway) getCodeSummary(ctx context.Context, params json.RawMessage) (Response, error) {
	p, err := decode[getCodeSummaryParams](params)
	if err != nil {
		return Response{}, err
	}
	if p.FilePath == "" {
		return Response{}, core.NewError(core.KindInvalidInput, "file_path is required")
	}
	summary, err := g.core.Summary(ctx, p.ID, p.FilePath, p.SymbolName)
	if err != nil {
		return Response{}, err
	}
	return Response{Content: summary}, nil
}

// analyzeDependencies is a supplemented tool beyond the original fixed
// catalog, mirroring the HTTP gateway's GET .../dependencies endpoint.
func (g *Gateway) analyzeDependencies(_ context.Context, params json.RawMessage) (Response, error) {
	type req struct {
		ID       string `json:"id"`
		Language string `json:"language"`
		FilePath string `json:"file_path"`
		Depth    int    `json:"depth"`
	}
	p, err := decode[req](params)
	if err != nil {
		return Response{}, err
	}
	graph, err := g.core.Dependencies(p.ID, p.Language, p.FilePath, p.Depth)
	if err != nil {
		return Response{}, err
	}
	encoded, _ := json.Marshal(graph)
	return Response{Content: string(encoded)}, nil
}
