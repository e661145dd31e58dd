package pathsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
)

func TestResolveWithinRoot(t *testing.T) {
	got, err := Resolve("/repo/root", "dir1/file2.py")
	require.NoError(t, err)
	assert.Equal(t, "/repo/root/dir1/file2.py", got)
}

func TestResolveEmptyRel(t *testing.T) {
	got, err := Resolve("/repo/root", "")
	require.NoError(t, err)
	assert.Equal(t, "/repo/root", got)
}

func TestResolveRejectsTraversal(t *testing.T) {
	_, err := Resolve("/repo/root", "../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidInput, core.KindOf(err))
	assert.Contains(t, err.Error(), "Path traversal")
}

func TestResolveRejectsDeepTraversal(t *testing.T) {
	_, err := Resolve("/repo/root", "dir1/../../../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidInput, core.KindOf(err))
}

func TestToRel(t *testing.T) {
	assert.Equal(t, "dir1/file2.py", ToRel("/repo/root", "/repo/root/dir1/file2.py"))
}
