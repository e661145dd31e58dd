// Package depgraph builds a shallow import graph for a single file or an
// entire handle by pattern-matching each language's import statement
// syntax, without parsing a full module resolution tree.
package depgraph

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Handle is the subset of repohandle.Handle depgraph needs.
type Handle interface {
	FileTree() ([]core.FileEntry, error)
	FileContent(rel string) ([]byte, error)
}

// Edge is one file-to-import dependency.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the dependency analysis result for one query.
type Graph struct {
	Language string `json:"language"`
	Nodes    []string `json:"nodes"`
	Edges    []Edge   `json:"edges"`
}

var importPatterns = map[string][]*regexp.Regexp{
	"go": {
		regexp.MustCompile(`(?m)^\s*"([^"]+)"\s*$`),
		regexp.MustCompile(`(?m)^\s*import\s+"([^"]+)"`),
	},
	"python": {
		regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`),
		regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import`),
	},
	"javascript": {
		regexp.MustCompile(`(?m)import\s+.*?from\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`(?m)require\(['"]([^'"]+)['"]\)`),
	},
	"typescript": {
		regexp.MustCompile(`(?m)import\s+.*?from\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`(?m)require\(['"]([^'"]+)['"]\)`),
	},
}

var extToLanguage = map[string]string{
	".go":  "go",
	".py":  "python",
	".js":  "javascript",
	".jsx": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",
}

// LanguageFor maps an extension to the import-pattern language key.
func LanguageFor(ext string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(ext)]
	return lang, ok
}

// Analyze builds the import graph for filePath (when given) or every
// recognized file in the handle (when filePath is empty), limited to depth
// hops of import-following for a single seed file. depth <= 1 returns the
// direct imports only.
func Analyze(h Handle, language, filePath string, depth int) (*Graph, error) {
	if depth <= 0 {
		depth = 1
	}

	if language == "" && filePath != "" {
		if lang, ok := LanguageFor(filepath.Ext(filePath)); ok {
			language = lang
		}
	}
	if language == "" {
		return nil, core.NewError(core.KindInvalidInput, "language is required when file_path has no recognized extension")
	}
	patterns, ok := importPatterns[language]
	if !ok {
		return nil, core.NewError(core.KindUnsupported, fmt.Sprintf("no import pattern registered for language %q", language))
	}

	if filePath != "" {
		return analyzeFromSeed(h, language, patterns, filePath, depth)
	}
	return analyzeWhole(h, language, patterns)
}

func analyzeFromSeed(h Handle, language string, patterns []*regexp.Regexp, seed string, depth int) (*Graph, error) {
	nodeSet := map[string]bool{seed: true}
	var edges []Edge
	frontier := []string{seed}

	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, file := range frontier {
			content, err := h.FileContent(file)
			if err != nil {
				continue
			}
			for _, imp := range extractImports(string(content), patterns) {
				edges = append(edges, Edge{From: file, To: imp})
				if !nodeSet[imp] {
					nodeSet[imp] = true
					next = append(next, imp)
				}
			}
		}
		frontier = next
	}

	return &Graph{Language: language, Nodes: sortedKeys(nodeSet), Edges: edges}, nil
}

func analyzeWhole(h Handle, language string, patterns []*regexp.Regexp) (*Graph, error) {
	tree, err := h.FileTree()
	if err != nil {
		return nil, err
	}

	nodeSet := map[string]bool{}
	var edges []Edge
	for _, e := range tree {
		if e.IsDir {
			continue
		}
		lang, ok := LanguageFor(filepath.Ext(e.Path))
		if !ok || lang != language {
			continue
		}
		nodeSet[e.Path] = true
		content, err := h.FileContent(e.Path)
		if err != nil {
			continue
		}
		for _, imp := range extractImports(string(content), patterns) {
			edges = append(edges, Edge{From: e.Path, To: imp})
		}
	}
	return &Graph{Language: language, Nodes: sortedKeys(nodeSet), Edges: edges}, nil
}

func extractImports(content string, patterns []*regexp.Regexp) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(content, -1) {
			imp := m[1]
			if !seen[imp] {
				seen[imp] = true
				out = append(out, imp)
			}
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
