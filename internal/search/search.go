// Package search implements SearchEngine: glob-filtered textual/regex line
// search over a RepoHandle.
package search

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Handle is the subset of repohandle.Handle SearchEngine needs.
type Handle interface {
	FileTree() ([]core.FileEntry, error)
	FileContent(rel string) ([]byte, error)
}

type Engine struct {
	handle Handle
}

func New(handle Handle) *Engine {
	return &Engine{handle: handle}
}

// Search scans every file whose base name matches pattern (a filepath.Match
// glob, default "*") for lines matching q. q is always compiled as a regular
// expression; plain text is a valid (degenerate) regular expression, so a
// literal query works as long as it has no regex metacharacters.
func (e *Engine) Search(q, pattern string) ([]core.SearchHit, error) {
	if pattern == "" {
		pattern = "*"
	}
	re, err := regexp.Compile(q)
	if err != nil {
		return nil, core.WrapError(core.KindInvalidInput, "invalid search pattern", err)
	}

	tree, err := e.handle.FileTree()
	if err != nil {
		return nil, err
	}

	var hits []core.SearchHit
	for _, entry := range tree {
		if entry.IsDir {
			continue
		}
		matched, merr := filepath.Match(pattern, entry.Name)
		if merr != nil {
			return nil, core.WrapError(core.KindInvalidInput, "invalid glob pattern", merr)
		}
		if !matched {
			continue
		}

		content, err := e.handle.FileContent(entry.Path)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(string(content), "\n") {
			if re.MatchString(line) {
				hits = append(hits, core.SearchHit{
					File:       entry.Path,
					LineNumber: i + 1,
					Line:       line,
				})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].File != hits[j].File {
			return hits[i].File < hits[j].File
		}
		return hits[i].LineNumber < hits[j].LineNumber
	})
	if hits == nil {
		hits = []core.SearchHit{}
	}
	return hits, nil
}
