package symbols

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Handle is the subset of repohandle.Handle the SymbolIndex needs, kept as
// an interface so tests can supply a fake.
type Handle interface {
	FileTree() ([]core.FileEntry, error)
	FileContent(rel string) ([]byte, error)
	AbsPath(rel string) (string, error)
}

type cacheKey struct {
	relPath string
	mtime   int64
	size    int64
}

// Index is a per-handle, memoized SymbolIndex. Because a RepoHandle is
// immutable once constructed, a per-file cache keyed by (path, mtime, size)
// never needs invalidation for the lifetime of the handle.
type Index struct {
	handle Handle

	mu    sync.Mutex
	cache map[cacheKey][]core.Symbol
}

func NewIndex(handle Handle) *Index {
	return &Index{handle: handle, cache: make(map[cacheKey][]core.Symbol)}
}

// Extract returns the symbols of a single file, deterministic across calls.
func (idx *Index) Extract(rel string) ([]core.Symbol, error) {
	abs, err := idx.handle.AbsPath(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, core.NewError(core.KindNotFound, fmt.Sprintf("File not found: %s", rel))
	}
	key := cacheKey{relPath: rel, mtime: info.ModTime().UnixNano(), size: info.Size()}

	idx.mu.Lock()
	if cached, ok := idx.cache[key]; ok {
		idx.mu.Unlock()
		return cached, nil
	}
	idx.mu.Unlock()

	content, err := idx.handle.FileContent(rel)
	if err != nil {
		return nil, err
	}
	syms, supported, err := extractFile(rel, content)
	if err != nil {
		return nil, err
	}
	if !supported {
		return nil, core.NewError(core.KindUnsupported, fmt.Sprintf("no grammar registered for %s", filepath.Ext(rel)))
	}

	idx.mu.Lock()
	idx.cache[key] = syms
	idx.mu.Unlock()
	return syms, nil
}

// ExtractAll unions Extract over every registered-extension file in the
// tree, ordered by file path then in-file order.
func (idx *Index) ExtractAll() ([]core.Symbol, error) {
	tree, err := idx.handle.FileTree()
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(tree))
	for _, e := range tree {
		if e.IsDir {
			continue
		}
		if _, ok := languageFor(strings.ToLower(filepath.Ext(e.Path))); ok {
			files = append(files, e.Path)
		}
	}
	sort.Strings(files)

	var all []core.Symbol
	for _, f := range files {
		syms, err := idx.Extract(f)
		if err != nil {
			if core.KindOf(err) == core.KindUnsupported {
				continue
			}
			return nil, err
		}
		all = append(all, syms...)
	}
	return all, nil
}

// Index returns the combined file-tree + ExtractAll payload.
func (idx *Index) Index() (*core.IndexResult, error) {
	tree, err := idx.handle.FileTree()
	if err != nil {
		return nil, err
	}
	syms, err := idx.ExtractAll()
	if err != nil {
		return nil, err
	}
	return &core.IndexResult{Files: tree, Symbols: syms}, nil
}

// FindUsages performs a textual, word-boundary scan for name across every
// file the symbol extractor can process (per spec §9's Open Question:
// usages are textual, not scope-aware, by design). When symType is given
// and no symbol named name of that type is defined anywhere in the tree, the
// result is empty; otherwise the filter does not narrow which files' usages
// are returned.
func (idx *Index) FindUsages(name string, symType *core.SymbolType) ([]core.Usage, error) {
	if name == "" {
		return nil, core.NewError(core.KindInvalidInput, "symbol_name is required")
	}
	tree, err := idx.handle.FileTree()
	if err != nil {
		return nil, err
	}

	if symType != nil {
		defSyms, err := idx.ExtractAll()
		if err != nil {
			return nil, err
		}
		hasMatchingDef := false
		for _, d := range defSyms {
			if (d.Name == name || d.NodePath == name) && d.Type == *symType {
				hasMatchingDef = true
				break
			}
		}
		if !hasMatchingDef {
			return []core.Usage{}, nil
		}
	}

	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)

	var usages []core.Usage
	for _, e := range tree {
		if e.IsDir {
			continue
		}
		if _, ok := languageFor(strings.ToLower(filepath.Ext(e.Path))); !ok {
			continue
		}

		content, err := idx.handle.FileContent(e.Path)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(string(content), "\n") {
			if pattern.MatchString(line) {
				usages = append(usages, core.Usage{
					File:        e.Path,
					LineNumber:  i + 1,
					LineContent: line,
					SymbolType:  symType,
				})
			}
		}
	}
	return usages, nil
}
