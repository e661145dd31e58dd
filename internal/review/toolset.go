package review

import (
	"fmt"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// FileReader, CodeSearcher, and UsageFinder are the narrow reads a
// RepoHandle-backed Toolset composes from repohandle.Handle, search.Engine,
// and symbols.Index respectively.
type FileReader interface {
	FileContent(rel string) ([]byte, error)
}

type CodeSearcher interface {
	Search(query, pattern string) ([]core.SearchHit, error)
}

type UsageFinder interface {
	FindUsages(name string, symType *core.SymbolType) ([]core.Usage, error)
}

// RepoToolset adapts a single repository's handle/search/symbol index into
// the Toolset the agentic review loop calls mid-run.
type RepoToolset struct {
	Files   FileReader
	Search  CodeSearcher
	Symbols UsageFinder
}

func (t *RepoToolset) GetFileContent(path string) (string, error) {
	content, err := t.Files.FileContent(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (t *RepoToolset) SearchCode(query string) (string, error) {
	hits, err := t.Search.Search(query, "*")
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "no matches", nil
	}
	out := ""
	for i, h := range hits {
		if i >= 20 {
			out += fmt.Sprintf("... and %d more\n", len(hits)-20)
			break
		}
		out += fmt.Sprintf("%s:%d: %s\n", h.File, h.LineNumber, h.Line)
	}
	return out, nil
}

func (t *RepoToolset) FindSymbolUsages(name string) (string, error) {
	usages, err := t.Symbols.FindUsages(name, nil)
	if err != nil {
		return "", err
	}
	if len(usages) == 0 {
		return "no usages found", nil
	}
	out := ""
	for i, u := range usages {
		if i >= 20 {
			out += fmt.Sprintf("... and %d more\n", len(usages)-20)
			break
		}
		out += fmt.Sprintf("%s:%d: %s\n", u.File, u.LineNumber, u.LineContent)
	}
	return out, nil
}
