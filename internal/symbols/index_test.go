package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/repohandle"
)

func newTestHandle(t *testing.T, files map[string]string) *repohandle.Handle {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	h, err := repohandle.New("h1", dir, dir, "")
	require.NoError(t, err)
	return h
}

func TestExtractJavaScriptFunctionsAndClasses(t *testing.T) {
	h := newTestHandle(t, map[string]string{
		"sample.js": "function alpha() {}\nclass Beta {}\n",
	})
	idx := NewIndex(h)

	syms, err := idx.Extract("sample.js")
	require.NoError(t, err)

	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "alpha")
	assert.Contains(t, names, "Beta")
}

func TestExtractPythonFunctionUsage(t *testing.T) {
	h := newTestHandle(t, map[string]string{
		"sample.py": "def foo(): pass\nfoo()\n",
	})
	idx := NewIndex(h)

	fn := core.SymbolFunction
	usages, err := idx.FindUsages("foo", &fn)
	require.NoError(t, err)
	require.NotEmpty(t, usages)
	assert.Contains(t, usages[len(usages)-1].LineContent, "foo")
}

func TestExtractAllIsDeterministic(t *testing.T) {
	h := newTestHandle(t, map[string]string{
		"a.go": "package a\n\nfunc Alpha() {}\n",
		"b.go": "package a\n\nfunc Beta() {}\n",
	})
	idx := NewIndex(h)

	first, err := idx.ExtractAll()
	require.NoError(t, err)
	second, err := idx.ExtractAll()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	h := newTestHandle(t, map[string]string{
		"notes.txt": "just text",
	})
	idx := NewIndex(h)

	_, err := idx.Extract("notes.txt")
	require.Error(t, err)
	assert.Equal(t, core.KindUnsupported, core.KindOf(err))
}
