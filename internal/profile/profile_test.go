package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Create(core.Profile{Name: "strict", Context: "be pedantic about error handling"}))

	p, err := s.Get("strict")
	require.NoError(t, err)
	assert.Equal(t, "be pedantic about error handling", p.Context)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateDuplicateFails(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Create(core.Profile{Name: "strict", Context: "x"}))
	err := s.Create(core.Profile{Name: "strict", Context: "y"})
	assert.ErrorIs(t, err, ErrAlreadyExist)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.Get("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSortsByName(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Create(core.Profile{Name: "zebra", Context: "z"}))
	require.NoError(t, s.Create(core.Profile{Name: "alpha", Context: "a"}))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zebra", list[1].Name)
}

func TestEditBumpsUpdatedAt(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Create(core.Profile{Name: "strict", Context: "old"}))
	orig, _ := s.Get("strict")

	edited, err := s.Edit("strict", func(p *core.Profile) { p.Context = "new" })
	require.NoError(t, err)
	assert.Equal(t, "new", edited.Context)
	assert.True(t, !edited.UpdatedAt.Before(orig.UpdatedAt))
}

func TestDeleteRemovesProfile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Create(core.Profile{Name: "strict", Context: "x"}))
	require.NoError(t, s.Delete("strict"))
	_, err := s.Get("strict")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCopyDuplicatesContext(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Create(core.Profile{Name: "strict", Context: "be pedantic", Tags: []string{"security"}}))

	copied, err := s.Copy("strict", "strict-v2")
	require.NoError(t, err)
	assert.Equal(t, "be pedantic", copied.Context)
	assert.Equal(t, []string{"security"}, copied.Tags)
}

func TestExportImportRoundTripPreservesContext(t *testing.T) {
	src := newStore(t)
	require.NoError(t, src.Create(core.Profile{
		Name:    "strict",
		Context: "line 1\nline 2\n  indented\n",
		Tags:    []string{"a", "b"},
	}))

	data, err := src.Export("strict")
	require.NoError(t, err)

	dst := newStore(t)
	imported, err := dst.Import(data)
	require.NoError(t, err)

	original, err := src.Get("strict")
	require.NoError(t, err)
	assert.Equal(t, original.Context, imported.Context)
	assert.Equal(t, original.Tags, imported.Tags)
}

func TestInvalidNameRejected(t *testing.T) {
	s := newStore(t)
	err := s.Create(core.Profile{Name: "../escape", Context: "x"})
	assert.Error(t, err)
}
