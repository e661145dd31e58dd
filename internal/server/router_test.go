package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/depgraph"
)

type fakeCore struct {
	openErr error
	id      string
	tree    []core.FileEntry
	content []byte
}

func (f *fakeCore) OpenRepository(context.Context, string, string, string) (string, error) {
	return f.id, f.openErr
}
func (f *fakeCore) CloseRepository(string) error                             { return nil }
func (f *fakeCore) FileTree(string) ([]core.FileEntry, error)                { return f.tree, nil }
func (f *fakeCore) FileContent(_, path string) ([]byte, error) {
	if path == "missing.go" {
		return nil, core.NewError(core.KindNotFound, "not found")
	}
	return f.content, nil
}
func (f *fakeCore) Search(string, string, string) ([]core.SearchHit, error)   { return nil, nil }
func (f *fakeCore) Symbols(string, string, string) ([]core.Symbol, error)     { return nil, nil }
func (f *fakeCore) Usages(string, string, string, string) ([]core.Usage, error) {
	return nil, nil
}
func (f *fakeCore) Index(string) (*core.IndexResult, error) { return &core.IndexResult{}, nil }
func (f *fakeCore) Summary(context.Context, string, string, string) (string, error) {
	return "a summary", nil
}
func (f *fakeCore) Dependencies(string, string, string, int) (*depgraph.Graph, error) {
	return &depgraph.Graph{}, nil
}

func TestCreateRepositoryReturns201(t *testing.T) {
	c := &fakeCore{id: "abc123"}
	r := NewRouter(c, nil)

	req := httptest.NewRequest(http.MethodPost, "/repository/", strings.NewReader(`{"path_or_url":"o/r"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "abc123")
}

func TestCreateRepositoryMissingFieldReturns400(t *testing.T) {
	c := &fakeCore{}
	r := NewRouter(c, nil)

	req := httptest.NewRequest(http.MethodPost, "/repository/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFileContentNotFoundReturns404(t *testing.T) {
	c := &fakeCore{}
	r := NewRouter(c, nil)

	req := httptest.NewRequest(http.MethodGet, "/repository/abc/files/missing.go", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileTreeReturns200(t *testing.T) {
	c := &fakeCore{tree: []core.FileEntry{{Path: "main.go", Name: "main.go"}}}
	r := NewRouter(c, nil)

	req := httptest.NewRequest(http.MethodGet, "/repository/abc/file-tree", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "main.go")
}

func TestHealthEndpoint(t *testing.T) {
	r := NewRouter(&fakeCore{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
