package registry

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
)

type fakeMaterializer struct {
	mu    sync.Mutex
	calls int
	path  string
	err   error
}

func (f *fakeMaterializer) Materialize(context.Context, string, string, string, string, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.path, f.err
}

type fakeResolver struct {
	owner, repo, cloneURL, token string
	isLocal                      bool
	err                          error
}

func (f *fakeResolver) Resolve(string) (string, string, string, string, bool, error) {
	return f.owner, f.repo, f.cloneURL, f.token, f.isLocal, f.err
}

func TestAddIsIdempotent(t *testing.T) {
	reg := New(&fakeMaterializer{}, &fakeResolver{}, nil)
	id1 := reg.Add("owner/repo", "main")
	id2 := reg.Add("owner/repo", "main")
	assert.Equal(t, id1, id2)
	assert.Len(t, reg.List(), 1)
}

func TestHandleIDDeterministic(t *testing.T) {
	assert.Equal(t, HandleID("owner/repo", "main"), HandleID("owner/repo", "main"))
	assert.Equal(t, HandleID("owner/repo/", "main"), HandleID("owner/repo", "main"))
	assert.NotEqual(t, HandleID("owner/repo", "main"), HandleID("owner/repo", "dev"))
}

func TestGetConstructsLocalHandleLazily(t *testing.T) {
	dir := t.TempDir()
	mat := &fakeMaterializer{}
	reg := New(mat, &fakeResolver{isLocal: true}, nil)
	id := reg.Add(dir, "")

	h, err := reg.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, dir, h.LocalPath)
	assert.Equal(t, 0, mat.calls)
}

func TestGetConstructsRemoteHandleViaMaterializer(t *testing.T) {
	dir := t.TempDir()
	mat := &fakeMaterializer{path: dir}
	reg := New(mat, &fakeResolver{owner: "o", repo: "r", cloneURL: "https://github.com/o/r.git"}, nil)
	id := reg.Add("o/r", "main")

	h, err := reg.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, dir, h.LocalPath)
	assert.Equal(t, 1, mat.calls)

	// second Get reuses the constructed handle, no further materialize calls
	_, err = reg.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, mat.calls)
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	reg := New(&fakeMaterializer{}, &fakeResolver{}, nil)
	_, err := reg.Get(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func TestConcurrentGetCoalescesMaterialize(t *testing.T) {
	dir := t.TempDir()
	mat := &fakeMaterializer{path: dir}
	reg := New(mat, &fakeResolver{owner: "o", repo: "r"}, nil)
	id := reg.Add("o/r", "main")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Get(context.Background(), id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, mat.calls)
}

func TestDeleteEvictsEntry(t *testing.T) {
	reg := New(&fakeMaterializer{}, &fakeResolver{isLocal: true}, nil)
	id := reg.Add(os.TempDir(), "")
	reg.Delete(id)
	assert.Empty(t, reg.List())
}
