package repohandle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTreeAndContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file1.txt"), []byte("content of file1"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dir1", "file2.py"), []byte("# python file"), 0o644))

	h, err := New("h1", dir, dir, "")
	require.NoError(t, err)

	tree, err := h.FileTree()
	require.NoError(t, err)

	paths := make([]string, 0, len(tree))
	for _, e := range tree {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "file1.txt")
	assert.Contains(t, paths, "dir1")
	assert.Contains(t, paths, "dir1/file2.py")

	content, err := h.FileContent("file1.txt")
	require.NoError(t, err)
	assert.Equal(t, "content of file1", string(content))
}

func TestFileContentNotFound(t *testing.T) {
	dir := t.TempDir()
	h, err := New("h1", dir, dir, "")
	require.NoError(t, err)

	_, err = h.FileContent("missing.txt")
	require.Error(t, err)
}

func TestFileContentPathEscape(t *testing.T) {
	dir := t.TempDir()
	h, err := New("h1", dir, dir, "")
	require.NoError(t, err)

	_, err = h.FileContent("../../etc/passwd")
	require.Error(t, err)
}

func TestGitInfoNonGitTree(t *testing.T) {
	dir := t.TempDir()
	h, err := New("h1", dir, dir, "")
	require.NoError(t, err)

	info := h.GitInfo()
	assert.Empty(t, info.SHA)
	assert.Empty(t, info.Branch)
}
