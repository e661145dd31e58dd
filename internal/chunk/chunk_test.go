package chunk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/repohandle"
)

func TestContextAroundLine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("l1\nl2\nl3\nl4\nl5\n"), 0o644))
	h, err := repohandle.New("h1", dir, dir, "")
	require.NoError(t, err)

	x := New(h)
	c, err := x.ContextAroundLine("f.txt", 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.StartLine)
	assert.Equal(t, 4, c.EndLine)
	assert.Equal(t, "l2\nl3\nl4", c.Code)
}

func TestChunkByLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("a\nb\nc\nd\ne\n"), 0o644))
	h, err := repohandle.New("h1", dir, dir, "")
	require.NoError(t, err)

	x := New(h)
	chunks, err := x.ChunkByLines("f.txt", 2)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 2, chunks[0].EndLine)
}
