package toolcall

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/depgraph"
)

type fakeCore struct{}

func (f *fakeCore) OpenRepository(context.Context, string, string, string) (string, error) {
	return "repo-1", nil
}
func (f *fakeCore) CloseRepository(string) error { return nil }
func (f *fakeCore) FileTree(string) ([]core.FileEntry, error) {
	return []core.FileEntry{{Path: "main.go"}}, nil
}
func (f *fakeCore) FileContent(string, string) ([]byte, error) { return []byte("package main"), nil }
func (f *fakeCore) Search(string, string, string) ([]core.SearchHit, error) {
	return []core.SearchHit{{File: "main.go", LineNumber: 1}}, nil
}
func (f *fakeCore) Symbols(string, string, string) ([]core.Symbol, error) { return nil, nil }
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

func serveOne(t *testing.T, reqJSON string) Response {
	t.Helper()
	g := New(&fakeCore{}, nil)
	var out bytes.Buffer
	err := g.Serve(context.Background(), strings.NewReader(reqJSON+"\n"), &out)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

func TestOpenRepositoryTool(t *testing.T) {
	resp := serveOne(t, `{"id":"1","tool":"open_repository","params":{"path_or_url":"o/r"}}`)
	assert.Nil(t, resp.Error)
	assert.Contains(t, resp.Content, "repo-1")
}

func TestUnknownToolReturnsInvalidParams(t *testing.T) {
	resp := serveOne(t, `{"id":"1","tool":"not_a_tool","params":{}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "InvalidParams", resp.Error.Code)
}

func TestMalformedRequestReturnsInvalidParams(t *testing.T) {
	resp := serveOne(t, `not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "InvalidParams", resp.Error.Code)
}

func TestGetFileTreeSmallReturnsInlineContent(t *testing.T) {
	resp := serveOne(t, `{"id":"1","tool":"get_file_tree","params":{"id":"repo-1"}}`)
	assert.Nil(t, resp.Error)
	assert.Contains(t, resp.Content, "main.go")
	assert.Empty(t, resp.Resource)
}

func TestSearchCodeTool(t *testing.T) {
	resp := serveOne(t, `{"id":"1","tool":"search_code","params":{"id":"repo-1","query":"foo"}}`)
	assert.Nil(t, resp.Error)
	assert.Contains(t, resp.Content, "main.go")
}
