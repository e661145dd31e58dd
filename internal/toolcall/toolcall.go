// Package toolcall implements Gateway-ToolCall (H): a stdio-framed
// request/response loop exposing a fixed tool catalog over the same Core
// logic surface Gateway-HTTP drives.
package toolcall

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/server"
)

// Request is one framed stdio request: a newline-delimited JSON object.
type Request struct {
	ID     string          `json:"id"`
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params"`
}

// Response is one framed stdio response.
type Response struct {
	ID      string       `json:"id"`
	Content string       `json:"content,omitempty"`
	// Resource holds an embedded-resource reference for large payloads,
	// e.g. "/repos/{id}/files/{path}" or "/repos/{id}/tree".
	Resource string       `json:"resource,omitempty"`
	Error    *ErrorObject `json:"error,omitempty"`
}

type ErrorObject struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toolNames is the fixed catalog; unknown tool names fail with InvalidParams.
var toolNames = map[string]bool{
	"open_repository":    true,
	"search_code":        true,
	"get_file_content":   true,
	"extract_symbols":    true,
	"find_symbol_usages": true,
	"get_file_tree":      true,
	"semantic_search":    true,
	"get_documentation":  true,
	"get_code_summary":   true,
	// supplemented beyond the original catalog
	"analyze_dependencies": true,
	"list_prompts":         true,
	"get_prompt":           true,
}

// Gateway reads framed requests from r and writes framed responses to w,
// one JSON object per line, until r is exhausted or ctx is canceled.
type Gateway struct {
	core   server.Core
	logger *slog.Logger
}

func New(c server.Core, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{core: c, logger: logger}
}

// Serve runs the read-dispatch-write loop until EOF or ctx cancellation.
func (g *Gateway) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			_ = enc.Encode(Response{Error: &ErrorObject{Code: "InvalidParams", Message: "malformed request: " + err.Error()}})
			continue
		}

		resp := g.dispatch(ctx, req)
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (g *Gateway) dispatch(ctx context.Context, req Request) Response {
	if !toolNames[req.Tool] {
		return Response{ID: req.ID, Error: &ErrorObject{Code: "InvalidParams", Message: "unknown tool: " + req.Tool}}
	}

	handler, ok := g.handlers()[req.Tool]
	if !ok {
		return Response{ID: req.ID, Error: &ErrorObject{Code: "InvalidParams", Message: "tool not implemented: " + req.Tool}}
	}

	resp, err := handler(ctx, req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: toErrorObject(err)}
	}
	resp.ID = req.ID
	return resp
}

func toErrorObject(err error) *ErrorObject {
	kind := core.KindOf(err)
	code := "InternalError"
	switch kind {
	case core.KindInvalidInput, core.KindPromptTooLarge:
		code = "InvalidParams"
	case core.KindNotFound:
		code = "NotFound"
	case core.KindUnsupported:
		code = "Unsupported"
	case core.KindProviderUnavailable, core.KindProviderRefused, core.KindEmptyResponse, core.KindRefUnresolvable:
		code = "ProviderError"
	}
	return &ErrorObject{Code: code, Message: err.Error()}
}
