package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/repohandle"
)

func TestSearchMatchesFiltered(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("def foo(): pass\nfoo()\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("foo mentioned here too\n"), 0o644))

	h, err := repohandle.New("h1", dir, dir, "")
	require.NoError(t, err)

	e := New(h)
	hits, err := e.Search("foo", "*.py")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a.py", hits[0].File)
}

func TestSearchNoMatchReturnsEmptyNotError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("nothing here\n"), 0o644))

	h, err := repohandle.New("h1", dir, dir, "")
	require.NoError(t, err)

	e := New(h)
	hits, err := e.Search("zzz_not_present", "*.py")
	require.NoError(t, err)
	assert.Empty(t, hits)
}
