// Package reposync implements RepoCache: an on-disk, SHA/ref-addressed
// working-copy pool for remote repositories, with TTL-based eviction and a
// size cap. It adapts the teacher's repomanager clone/fetch/diff pipeline
// (go-git) to a cache keyed strictly by (owner, repo, ref) rather than by a
// single "latest" checkout per repository.
package reposync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/gofrs/flock"
	"github.com/rs/xid"
	"golang.org/x/sync/singleflight"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/gitutil"
)

// Cache materializes working trees under root/<owner>/<repo>/<ref>/.
type Cache struct {
	root   string
	ttl    time.Duration
	git    *gitutil.Client
	logger *slog.Logger

	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]*core.CacheEntry // key: owner/repo/ref
}

func New(root string, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		root:    root,
		ttl:     ttl,
		git:     gitutil.NewClient(logger),
		logger:  logger,
		entries: make(map[string]*core.CacheEntry),
	}
}

func entryKey(owner, repo, ref string) string {
	return owner + "/" + repo + "/" + ref
}

// Materialize returns the local path of a complete working tree for
// (owner, repo, ref), cloning and checking it out if absent. Concurrent
// callers within this process coalesce onto a single clone via singleflight;
// callers in other processes (cmd/kit, cmd/server, cmd/toolcall can all run
// against the same cache root) coalesce via a flock'd lockfile per key, so
// only one process ever clones into finalPath and the rest simply wait and
// then observe the winner's committed directory.
func (c *Cache) Materialize(ctx context.Context, owner, repo, ref, cloneURL, token string) (string, error) {
	key := entryKey(owner, repo, ref)
	finalPath := filepath.Join(c.root, owner, repo, ref)

	v, err, _ := c.flight.Do(key, func() (any, error) {
		if c.has(key) {
			c.touch(key)
			return finalPath, nil
		}
		if info, statErr := os.Stat(finalPath); statErr == nil && info.IsDir() {
			// Survives a process restart: the directory is already committed.
			c.record(owner, repo, ref, finalPath)
			return finalPath, nil
		}

		if mkErr := os.MkdirAll(filepath.Dir(finalPath), 0o755); mkErr != nil {
			return "", core.WrapError(core.KindInternal, "create cache parent dir", mkErr)
		}

		fl := flock.New(finalPath + ".lock")
		lockCtx := ctx
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			lockCtx, cancel = context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
		}
		locked, lockErr := fl.TryLockContext(lockCtx, 200*time.Millisecond)
		if lockErr != nil {
			return "", core.WrapError(core.KindInternal, "acquire materialize lock", lockErr)
		}
		if !locked {
			return "", core.NewError(core.KindInternal, fmt.Sprintf("timed out waiting for materialize lock on %s/%s@%s", owner, repo, ref))
		}
		defer func() { _ = fl.Unlock() }()

		// Re-check now that the lock is held: another process may have
		// finished materializing this ref while we were waiting for it.
		if info, statErr := os.Stat(finalPath); statErr == nil && info.IsDir() {
			c.record(owner, repo, ref, finalPath)
			return finalPath, nil
		}

		tmpPath := finalPath + ".tmp-" + xid.New().String()
		gitRepo, cloneErr := c.cloneWithRetry(ctx, cloneURL, tmpPath, token)
		if cloneErr != nil {
			_ = os.RemoveAll(tmpPath)
			return "", cloneErr
		}

		sha := ref
		if sha == "" {
			resolved, resolveErr := c.git.GetDefaultBranchHeadSHA(cloneURL, token)
			if resolveErr != nil {
				_ = os.RemoveAll(tmpPath)
				return "", core.WrapError(core.KindRefUnresolvable, "resolve default branch", resolveErr)
			}
			sha = resolved
		}
		if checkoutErr := c.git.Checkout(gitRepo, sha); checkoutErr != nil {
			_ = os.RemoveAll(tmpPath)
			return "", core.WrapError(core.KindRefUnresolvable, fmt.Sprintf("checkout ref %q", ref), checkoutErr)
		}

		if renameErr := os.Rename(tmpPath, finalPath); renameErr != nil {
			_ = os.RemoveAll(tmpPath)
			return "", core.WrapError(core.KindInternal, "commit materialized checkout", renameErr)
		}

		c.record(owner, repo, ref, finalPath)
		return finalPath, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// cloneWithRetry retries once on a transient network failure with a fixed
// backoff, per spec §7's cache-materialization retry policy.
func (c *Cache) cloneWithRetry(ctx context.Context, cloneURL, path, token string) (*git.Repository, error) {
	var repo *git.Repository
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		repo, err = c.git.Clone(ctx, cloneURL, path, token)
		if err == nil {
			return repo, nil
		}
		if attempt == 0 {
			c.logger.Warn("clone failed, retrying once", "url", cloneURL, "error", err)
			time.Sleep(2 * time.Second)
		}
	}
	return nil, core.WrapError(core.KindProviderUnavailable, "clone repository", err)
}

func (c *Cache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *Cache) touch(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.LastAccessed = time.Now()
	}
}

func (c *Cache) record(owner, repo, ref, path string) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entryKey(owner, repo, ref)] = &core.CacheEntry{
		Owner: owner, Repo: repo, Ref: ref, Path: path,
		ClonedAt: now, LastAccessed: now, SizeBytes: dirSize(path),
	}
}

// Status reports the aggregate size, entry count, and configured TTL.
func (c *Cache) Status() core.CacheStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, e := range c.entries {
		total += e.SizeBytes
	}
	return core.CacheStatus{
		Dir:        c.root,
		SizeBytes:  total,
		EntryCount: len(c.entries),
		TTLHours:   c.ttl.Hours(),
	}
}

// Cleanup removes entries older than the cache's TTL, then — if maxSizeGB is
// positive and the cache still exceeds it — evicts least-recently-accessed
// entries until under the limit. An entry currently being materialized is
// never visible in c.entries (it's recorded only after the atomic rename),
// so cleanup can never race a write.
func (c *Cache) Cleanup(ctx context.Context, maxSizeGB float64) error {
	now := time.Now()

	c.mu.Lock()
	var expired []string
	for key, e := range c.entries {
		if c.ttl > 0 && now.Sub(e.LastAccessed) > c.ttl {
			expired = append(expired, key)
		}
	}
	c.mu.Unlock()

	for _, key := range expired {
		if err := c.evict(key); err != nil {
			return err
		}
	}

	if maxSizeGB <= 0 {
		return nil
	}
	limitBytes := int64(maxSizeGB * 1024 * 1024 * 1024)

	for {
		status := c.Status()
		if status.SizeBytes <= limitBytes {
			return nil
		}
		key := c.leastRecentlyAccessed()
		if key == "" {
			return nil
		}
		if err := c.evict(key); err != nil {
			return err
		}
	}
}

func (c *Cache) leastRecentlyAccessed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var oldestKey string
	var oldestTime time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.LastAccessed.Before(oldestTime) {
			oldestKey, oldestTime = key, e.LastAccessed
		}
	}
	return oldestKey
}

func (c *Cache) evict(key string) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if !ok {
		return nil
	}
	if err := os.RemoveAll(e.Path); err != nil {
		return core.WrapError(core.KindInternal, "evict cache entry", err)
	}
	return nil
}

// Clear removes everything under root.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]*core.CacheEntry)
	c.mu.Unlock()
	if err := os.RemoveAll(c.root); err != nil {
		return core.WrapError(core.KindInternal, "clear cache root", err)
	}
	return os.MkdirAll(c.root, 0o755)
}

func dirSize(root string) int64 {
	var size int64
	_ = filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// OwnerRepoFromURL splits "https://github.com/owner/repo(.git)" into its
// owner/repo components for cache directory naming.
func OwnerRepoFromURL(rawURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(rawURL, "/"), ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", core.NewError(core.KindInvalidInput, fmt.Sprintf("cannot derive owner/repo from %q", rawURL))
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
