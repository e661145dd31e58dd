// Package repohandle implements RepoHandle: a git-ref-bound, read-only view
// of a repository tree on local disk.
package repohandle

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/pathsafe"
)

// Handle is an immutable, process-scoped view of a repository at a specific
// ref. Once constructed its files and ref never change; a different ref
// yields a different Handle.
type Handle struct {
	ID          string
	LocalPath   string
	Source      string
	Ref         string
	ResolvedSHA string
	Branch      string
	RemoteURL   string
}

// New builds a Handle over an already-materialized local_path. For remote
// sources the caller (HandleRegistry, via RepoCache) is responsible for
// cloning/checking out beforehand; New itself never clones.
func New(id, localPath, source, ref string) (*Handle, error) {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "resolve handle local path", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, core.NewError(core.KindNotFound, fmt.Sprintf("local path does not exist or is not a directory: %s", localPath))
	}

	h := &Handle{ID: id, LocalPath: abs, Source: source, Ref: ref}

	repo, err := git.PlainOpen(abs)
	if err != nil {
		// Not a git tree: ref is not checked, and GitInfo() reports all-zero fields.
		return h, nil
	}
	head, err := repo.Head()
	if err == nil {
		h.ResolvedSHA = head.Hash().String()
		if head.Name().IsBranch() {
			h.Branch = head.Name().Short()
		}
	}
	if remotes, rerr := repo.Remotes(); rerr == nil && len(remotes) > 0 {
		cfg := remotes[0].Config()
		if len(cfg.URLs) > 0 {
			h.RemoteURL = cfg.URLs[0]
		}
	}
	return h, nil
}

// FileTree walks the handle's working tree in pre-order, skipping .git.
// WalkDir already visits each directory's entries in lexicographic name
// order, so the result is pre-order without any further sorting; re-sorting
// the flattened list by full path would interleave a directory's children
// with its unrelated same-prefix siblings (e.g. "a/" vs "a.txt").
func (h *Handle) FileTree() ([]core.FileEntry, error) {
	var entries []core.FileEntry

	err := filepath.WalkDir(h.LocalPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == h.LocalPath {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		rel := pathsafe.ToRel(h.LocalPath, path)
		var size int64
		if !d.IsDir() {
			if fi, statErr := d.Info(); statErr == nil {
				size = fi.Size()
			}
		}
		entries = append(entries, core.FileEntry{
			Path:  rel,
			Name:  d.Name(),
			IsDir: d.IsDir(),
			Size:  size,
		})
		return nil
	})
	if err != nil {
		return nil, core.WrapError(core.KindInternal, "walk repository tree", err)
	}

	return entries, nil
}

// FileContent returns the raw bytes of the file at rel, which is resolved
// and guarded against traversal outside LocalPath.
func (h *Handle) FileContent(rel string) ([]byte, error) {
	abs, err := pathsafe.Resolve(h.LocalPath, rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewError(core.KindNotFound, fmt.Sprintf("File not found: %s", rel))
		}
		return nil, core.WrapError(core.KindInternal, "read file", err)
	}
	return data, nil
}

// GitInfo reports the handle's git identity; all fields are zero for a
// plain, non-git local directory.
func (h *Handle) GitInfo() core.GitInfo {
	info := core.GitInfo{Branch: h.Branch, RemoteURL: h.RemoteURL}
	if h.ResolvedSHA != "" {
		info.SHA = h.ResolvedSHA
		short := h.ResolvedSHA
		if len(short) > 7 {
			short = short[:7]
		}
		info.ShortSHA = short
	}
	return info
}

// AbsPath resolves and guards rel, exposed for components (symbols, search,
// chunk) that need the filesystem path rather than the raw bytes.
func (h *Handle) AbsPath(rel string) (string, error) {
	return pathsafe.Resolve(h.LocalPath, rel)
}
