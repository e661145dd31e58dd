package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
)

type fakeHandle struct {
	files map[string][]byte
	tree  []core.FileEntry
}

func (f *fakeHandle) FileTree() ([]core.FileEntry, error) { return f.tree, nil }
func (f *fakeHandle) FileContent(rel string) ([]byte, error) {
	if content, ok := f.files[rel]; ok {
		return content, nil
	}
	return nil, core.NewError(core.KindNotFound, "not found")
}

func TestAnalyzeFromSeedGo(t *testing.T) {
	h := &fakeHandle{files: map[string][]byte{
		"main.go": []byte("package main\n\nimport (\n\t\"fmt\"\n\t\"os\"\n)\n"),
	}}
	graph, err := Analyze(h, "", "main.go", 1)
	require.NoError(t, err)
	assert.Equal(t, "go", graph.Language)
	assert.Contains(t, graph.Nodes, "fmt")
	assert.Contains(t, graph.Nodes, "os")
}

func TestAnalyzeWholeRepoPython(t *testing.T) {
	h := &fakeHandle{
		tree: []core.FileEntry{{Path: "a.py"}, {Path: "b.py"}},
		files: map[string][]byte{
			"a.py": []byte("import os\nfrom collections import OrderedDict\n"),
			"b.py": []byte("import sys\n"),
		},
	}
	graph, err := Analyze(h, "python", "", 1)
	require.NoError(t, err)
	assert.Len(t, graph.Edges, 3)
}

func TestAnalyzeUnknownLanguageIsUnsupported(t *testing.T) {
	h := &fakeHandle{}
	_, err := Analyze(h, "cobol", "x.cob", 1)
	assert.Equal(t, core.KindUnsupported, core.KindOf(err))
}

func TestAnalyzeMissingLanguageIsInvalidInput(t *testing.T) {
	h := &fakeHandle{}
	_, err := Analyze(h, "", "noext", 1)
	assert.Equal(t, core.KindInvalidInput, core.KindOf(err))
}
