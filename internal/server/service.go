package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/sevigo/codewarden-kit/internal/chunk"
	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/depgraph"
	"github.com/sevigo/codewarden-kit/internal/llmclient"
	"github.com/sevigo/codewarden-kit/internal/registry"
	"github.com/sevigo/codewarden-kit/internal/repohandle"
	"github.com/sevigo/codewarden-kit/internal/search"
	"github.com/sevigo/codewarden-kit/internal/summarizer"
	"github.com/sevigo/codewarden-kit/internal/symbols"
)

// RepositoryService composes the registry with per-handle symbol indices
// and search engines to implement the Core interface both Gateway-HTTP and
// Gateway-ToolCall drive.
type RepositoryService struct {
	registry *registry.Registry
	llm      llmclient.Client

	mu      sync.Mutex
	indices map[string]*symbols.Index
}

func NewRepositoryService(reg *registry.Registry, llm llmclient.Client) *RepositoryService {
	return &RepositoryService{registry: reg, llm: llm, indices: make(map[string]*symbols.Index)}
}

func (s *RepositoryService) OpenRepository(ctx context.Context, pathOrURL, ref, githubToken string) (string, error) {
	id := s.registry.Add(pathOrURL, ref)
	// Eagerly materialize so a bad source or ref surfaces at open time,
	// matching the gateway's "201 on success, 400 otherwise" contract.
	if _, err := s.registry.Get(ctx, id); err != nil {
		s.registry.Delete(id)
		return "", err
	}
	return id, nil
}

func (s *RepositoryService) CloseRepository(id string) error {
	s.registry.Delete(id)
	s.mu.Lock()
	delete(s.indices, id)
	s.mu.Unlock()
	return nil
}

func (s *RepositoryService) handleFor(ctx context.Context, id string) (*repohandle.Handle, error) {
	return s.registry.Get(ctx, id)
}

func (s *RepositoryService) indexFor(ctx context.Context, id string) (*symbols.Index, error) {
	s.mu.Lock()
	idx, ok := s.indices[id]
	s.mu.Unlock()
	if ok {
		return idx, nil
	}

	h, err := s.handleFor(ctx, id)
	if err != nil {
		return nil, err
	}
	idx = symbols.NewIndex(h)

	s.mu.Lock()
	s.indices[id] = idx
	s.mu.Unlock()
	return idx, nil
}

func (s *RepositoryService) FileTree(idRaw string) ([]core.FileEntry, error) {
	ctx := context.Background()
	h, err := s.handleFor(ctx, idRaw)
	if err != nil {
		return nil, err
	}
	return h.FileTree()
}

func (s *RepositoryService) FileContent(idRaw, path string) ([]byte, error) {
	ctx := context.Background()
	h, err := s.handleFor(ctx, idRaw)
	if err != nil {
		return nil, err
	}
	return h.FileContent(path)
}

func (s *RepositoryService) Search(idRaw, query, pattern string) ([]core.SearchHit, error) {
	ctx := context.Background()
	h, err := s.handleFor(ctx, idRaw)
	if err != nil {
		return nil, err
	}
	return search.New(h).Search(query, pattern)
}

func (s *RepositoryService) Symbols(idRaw, filePath, symbolType string) ([]core.Symbol, error) {
	ctx := context.Background()
	idx, err := s.indexFor(ctx, idRaw)
	if err != nil {
		return nil, err
	}

	var all []core.Symbol
	if filePath != "" {
		all, err = idx.Extract(filePath)
	} else {
		var result core.IndexResult
		result, err = s.fullIndex(ctx, idRaw)
		all = result.Symbols
	}
	if err != nil {
		return nil, err
	}

	if symbolType == "" {
		return all, nil
	}
	filtered := make([]core.Symbol, 0, len(all))
	for _, sym := range all {
		if string(sym.Type) == symbolType {
			filtered = append(filtered, sym)
		}
	}
	return filtered, nil
}

func (s *RepositoryService) fullIndex(ctx context.Context, idRaw string) (core.IndexResult, error) {
	idx, err := s.indexFor(ctx, idRaw)
	if err != nil {
		return core.IndexResult{}, err
	}
	result, err := idx.Index()
	if err != nil {
		return core.IndexResult{}, err
	}
	return *result, nil
}

func (s *RepositoryService) Usages(idRaw, symbolName, symbolType, filePath string) ([]core.Usage, error) {
	ctx := context.Background()
	idx, err := s.indexFor(ctx, idRaw)
	if err != nil {
		return nil, err
	}
	var typ *core.SymbolType
	if symbolType != "" {
		t := core.SymbolType(symbolType)
		typ = &t
	}
	usages, err := idx.FindUsages(symbolName, typ)
	if err != nil {
		return nil, err
	}
	if filePath == "" {
		return usages, nil
	}
	filtered := make([]core.Usage, 0, len(usages))
	for _, u := range usages {
		if u.File == filePath {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (s *RepositoryService) Index(idRaw string) (*core.IndexResult, error) {
	result, err := s.fullIndex(context.Background(), idRaw)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *RepositoryService) Summary(ctx context.Context, idRaw, filePath, symbolName string) (string, error) {
	h, err := s.handleFor(ctx, idRaw)
	if err != nil {
		return "", err
	}
	idx, err := s.indexFor(ctx, idRaw)
	if err != nil {
		return "", err
	}
	if s.llm == nil {
		return "", core.NewError(core.KindUnsupported, "no LLM provider configured")
	}
	sm := summarizer.New(h, idx, s.llm)

	if symbolName == "" {
		return sm.SummarizeFile(ctx, filePath, llmclient.Params{})
	}

	if out, err := sm.SummarizeFunction(ctx, filePath, symbolName, llmclient.Params{}); err == nil {
		return out, nil
	} else if core.KindOf(err) != core.KindNotFound {
		return "", err
	}
	out, err := sm.SummarizeClass(ctx, filePath, symbolName, llmclient.Params{})
	if err != nil {
		return "", fmt.Errorf("symbol %q not found as function or class in %s: %w", symbolName, filePath, err)
	}
	return out, nil
}

func (s *RepositoryService) Dependencies(idRaw, language, filePath string, depth int) (*depgraph.Graph, error) {
	ctx := context.Background()
	h, err := s.handleFor(ctx, idRaw)
	if err != nil {
		return nil, err
	}
	return depgraph.Analyze(h, language, filePath, depth)
}

// HandleFor returns the open handle for id, for CLI commands operating
// directly on it without going through the JSON surface.
func (s *RepositoryService) HandleFor(ctx context.Context, id string) (*repohandle.Handle, error) {
	return s.handleFor(ctx, id)
}

func (s *RepositoryService) SymbolIndex(ctx context.Context, id string) (*symbols.Index, error) {
	return s.indexFor(ctx, id)
}

func (s *RepositoryService) ChunkExtractor(ctx context.Context, id string) (*chunk.Extractor, error) {
	h, err := s.handleFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return chunk.New(h), nil
}
