// Package registry implements HandleRegistry: a map from deterministic
// handle IDs to live repohandle.Handle instances, lazily constructing
// remote handles through a reposync.Cache and coalescing concurrent
// construction for the same ID.
package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/repohandle"
)

// Materializer is the subset of reposync.Cache the registry needs to turn a
// remote source into a local working tree.
type Materializer interface {
	Materialize(ctx context.Context, owner, repo, ref, cloneURL, token string) (string, error)
}

// Resolver resolves a normalized source string into (owner, repo, cloneURL, token).
// Local filesystem sources are detected and bypass the Materializer entirely.
type Resolver interface {
	Resolve(source string) (owner, repo, cloneURL, token string, isLocal bool, err error)
}

type entry struct {
	handle *repohandle.Handle
	source string
	ref    string
}

// Registry maps handle_id -> live handle, per spec's HandleRegistry (F).
type Registry struct {
	materializer Materializer
	resolver     Resolver
	logger       *slog.Logger

	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
}

func New(materializer Materializer, resolver Resolver, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		materializer: materializer,
		resolver:     resolver,
		logger:       logger,
		entries:      make(map[string]*entry),
	}
}

// HandleID derives the deterministic id hash(normalized_source + "@" + ref).
func HandleID(source, ref string) string {
	normalized := normalizeSource(source)
	sum := sha256.Sum256([]byte(normalized + "@" + ref))
	return hex.EncodeToString(sum[:])[:16]
}

func normalizeSource(source string) string {
	s := strings.TrimSpace(source)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	return strings.ToLower(s)
}

// Add registers (source, ref) and returns its handle_id. Idempotent: calling
// Add twice for the same (source, ref) returns the same id without
// constructing anything.
func (r *Registry) Add(source, ref string) string {
	id := HandleID(source, ref)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		r.entries[id] = &entry{source: source, ref: ref}
	}
	return id
}

// Get returns the live handle for id, lazily constructing it on first
// access. Concurrent Get calls for the same id coalesce onto one
// construction via singleflight.
func (r *Registry) Get(ctx context.Context, id string) (*repohandle.Handle, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok && e.handle != nil {
		h := e.handle
		r.mu.Unlock()
		return h, nil
	}
	r.mu.Unlock()
	if !ok {
		return nil, core.NewError(core.KindNotFound, fmt.Sprintf("no repository registered for handle %q", id))
	}

	v, err, _ := r.flight.Do(id, func() (any, error) {
		r.mu.Lock()
		e := r.entries[id]
		if e.handle != nil {
			h := e.handle
			r.mu.Unlock()
			return h, nil
		}
		source, ref := e.source, e.ref
		r.mu.Unlock()

		h, buildErr := r.build(ctx, id, source, ref)
		if buildErr != nil {
			return nil, buildErr
		}

		r.mu.Lock()
		r.entries[id].handle = h
		r.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repohandle.Handle), nil
}

func (r *Registry) build(ctx context.Context, id, source, ref string) (*repohandle.Handle, error) {
	owner, repo, cloneURL, token, isLocal, err := r.resolver.Resolve(source)
	if err != nil {
		return nil, err
	}

	if isLocal {
		return repohandle.New(id, source, source, ref)
	}

	localPath, err := r.materializer.Materialize(ctx, owner, repo, ref, cloneURL, token)
	if err != nil {
		return nil, err
	}
	return repohandle.New(id, localPath, source, ref)
}

// Delete evicts the in-memory handle for id. It does not remove the
// underlying RepoCache entry; a subsequent Add+Get for the same source
// reuses whatever materialized working tree survives on disk.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// List returns the handle_ids currently registered, regardless of whether
// their handle has been constructed yet.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}
