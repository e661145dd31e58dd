package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/depgraph"
)

// Core is the subset of repository-intelligence operations Gateway-HTTP
// drives; the concrete implementation composes registry.Registry,
// symbols.Index, search.Engine, chunk.Extractor, and summarizer.Summarizer.
type Core interface {
	OpenRepository(ctx context.Context, pathOrURL, ref, githubToken string) (string, error)
	CloseRepository(id string) error
	FileTree(id string) ([]core.FileEntry, error)
	FileContent(id, path string) ([]byte, error)
	Search(id, query, pattern string) ([]core.SearchHit, error)
	Symbols(id, filePath, symbolType string) ([]core.Symbol, error)
	Usages(id, symbolName, symbolType, filePath string) ([]core.Usage, error)
	Index(id string) (*core.IndexResult, error)
	Summary(ctx context.Context, id, filePath, symbolName string) (string, error)
	Dependencies(id, language, filePath string, depth int) (*depgraph.Graph, error)
}

type handler struct {
	core   Core
	logger *slog.Logger
}

// NewRouter builds the chi router for every endpoint in the HTTP surface,
// with the teacher's middleware stack (request ID, real IP, access log,
// panic recovery, request timeout).
func NewRouter(c Core, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{core: c, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/repository", func(r chi.Router) {
		r.Post("/", h.createRepository)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.deleteRepository)
			r.Get("/file-tree", h.fileTree)
			r.Get("/files/{path}", h.fileContent)
			r.Get("/search", h.search)
			r.Get("/symbols", h.symbols)
			r.Get("/usages", h.usages)
			r.Get("/index", h.index)
			r.Get("/summary", h.summary)
			r.Get("/dependencies", h.dependencies)
		})
	})

	return r
}

// MountMetrics adds a /metrics route serving handler's Prometheus
// exposition, when a metrics handler is configured.
func MountMetrics(r chi.Router, handler http.Handler) {
	if handler == nil {
		return
	}
	r.Handle("/metrics", handler)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a core.ErrorKind to its HTTP status per the gateway's
// error-to-status table.
func (h *handler) writeError(w http.ResponseWriter, err error) {
	kind := core.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case core.KindInvalidInput, core.KindPromptTooLarge, core.KindRefUnresolvable:
		status = http.StatusBadRequest
	case core.KindNotFound:
		status = http.StatusNotFound
	case core.KindUnsupported:
		status = http.StatusNotImplemented
	case core.KindProviderUnavailable, core.KindProviderRefused, core.KindEmptyResponse:
		status = http.StatusServiceUnavailable
	}
	h.logger.Error("request failed", "kind", kind, "error", err)
	h.writeJSON(w, status, errorBody{Code: string(kind), Message: err.Error()})
}

type createRepositoryRequest struct {
	PathOrURL   string `json:"path_or_url"`
	Ref         string `json:"ref"`
	GitHubToken string `json:"github_token"`
}

func (h *handler) createRepository(w http.ResponseWriter, r *http.Request) {
	var req createRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, core.WrapError(core.KindInvalidInput, "decode request body", err))
		return
	}
	if req.PathOrURL == "" {
		h.writeError(w, core.NewError(core.KindInvalidInput, "path_or_url is required"))
		return
	}

	id, err := h.core.OpenRepository(r.Context(), req.PathOrURL, req.Ref, req.GitHubToken)
	if err != nil {
		// Any failure to open the source is a 400 for this endpoint.
		h.writeError(w, core.WrapError(core.KindInvalidInput, "open repository", err))
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handler) deleteRepository(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.core.CloseRepository(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) fileTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries, err := h.core.FileTree(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *handler) fileContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path := chi.URLParam(r, "path")
	content, err := h.core.FileContent(id, path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, string(content))
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query().Get("q")
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = "*"
	}
	hits, err := h.core.Search(id, q, pattern)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, hits)
}

func (h *handler) symbols(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	filePath := r.URL.Query().Get("file_path")
	symbolType := r.URL.Query().Get("symbol_type")
	symbols, err := h.core.Symbols(id, filePath, symbolType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, symbols)
}

func (h *handler) usages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := r.URL.Query().Get("symbol_name")
	symbolType := r.URL.Query().Get("symbol_type")
	filePath := r.URL.Query().Get("file_path")
	usages, err := h.core.Usages(id, name, symbolType, filePath)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, usages)
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.core.Index(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	filePath := r.URL.Query().Get("file_path")
	symbolName := r.URL.Query().Get("symbol_name")
	if filePath == "" {
		h.writeError(w, core.NewError(core.KindInvalidInput, "file_path is required"))
		return
	}

	summary, err := h.core.Summary(r.Context(), id, filePath, symbolName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (h *handler) dependencies(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	language := r.URL.Query().Get("language")
	filePath := r.URL.Query().Get("file_path")
	depth := 1
	if raw := r.URL.Query().Get("depth"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			depth = parsed
		}
	}

	graph, err := h.core.Dependencies(id, language, filePath, depth)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, graph)
}
