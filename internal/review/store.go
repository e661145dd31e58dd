package review

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// HistoryRecord is one completed pipeline run, kept for `kit review-history`
// and for the re-review idiom (diffing a run against the last one for the
// same PR).
type HistoryRecord struct {
	Owner     string           `json:"owner"`
	Repo      string           `json:"repo"`
	PRNumber  int              `json:"pr_number"`
	CreatedAt time.Time        `json:"created_at"`
	Output    core.ReviewOutput `json:"output"`
}

//go:generate mockgen -destination=../../mocks/mock_store.go -package=mocks github.com/sevigo/codewarden-kit/internal/review Store

// Store persists completed review runs for later lookup. It is optional:
// a Pipeline with no Store configured simply skips history recording.
type Store interface {
	Save(ctx context.Context, rec HistoryRecord) error
	Latest(ctx context.Context, owner, repo string, prNumber int) (*HistoryRecord, error)
	All(ctx context.Context, owner, repo string, prNumber int) ([]HistoryRecord, error)
}

// JSONLStore is the default Store: one append-only JSONL file under the
// cache root, guarded by an in-process mutex since a single kit invocation
// never writes concurrently to the same file from multiple goroutines.
type JSONLStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONLStore opens (creating if needed) a JSONL-backed history store at
// path. The parent directory is created with the cache root's permissions.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create review history directory: %w", err)
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Save(_ context.Context, rec HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open review history file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	return enc.Encode(rec)
}

func (s *JSONLStore) Latest(ctx context.Context, owner, repo string, prNumber int) (*HistoryRecord, error) {
	all, err := s.All(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, core.NewError(core.KindNotFound, fmt.Sprintf("no review history for %s/%s#%d", owner, repo, prNumber))
	}
	return &all[len(all)-1], nil
}

func (s *JSONLStore) All(_ context.Context, owner, repo string, prNumber int) ([]HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open review history file: %w", err)
	}
	defer f.Close()

	var matches []HistoryRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec HistoryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // skip a malformed line rather than fail the whole read
		}
		if rec.Owner == owner && rec.Repo == repo && rec.PRNumber == prNumber {
			matches = append(matches, rec)
		}
	}
	return matches, scanner.Err()
}
