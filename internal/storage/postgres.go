// Package storage holds the optional Postgres-backed review-history
// sink; the default sink is review.JSONLStore, used whenever
// Database.Driver is not "postgres".
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/codewarden-kit/internal/config"
	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/db"
	"github.com/sevigo/codewarden-kit/internal/review"
)

// PostgresStore persists review.HistoryRecord rows to Postgres, selected at
// wiring time whenever Database.Driver == "postgres". It satisfies
// review.Store structurally.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore opens a connection pool against cfg and runs pending
// migrations; the returned func closes the pool.
func NewPostgresStore(cfg *config.DBConfig, logger *slog.Logger) (*PostgresStore, func(), error) {
	conn, closeFn, err := db.Open(cfg.GetDSN(), cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, logger)
	if err != nil {
		return nil, func() {}, err
	}
	return &PostgresStore{db: conn}, closeFn, nil
}

type reviewRow struct {
	Owner     string    `db:"owner"`
	Repo      string    `db:"repo"`
	PRNumber  int       `db:"pr_number"`
	CreatedAt time.Time `db:"created_at"`
	Output    []byte    `db:"output"`
}

func (s *PostgresStore) Save(ctx context.Context, rec review.HistoryRecord) error {
	payload, err := json.Marshal(rec.Output)
	if err != nil {
		return fmt.Errorf("marshal review output: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO review_history (owner, repo, pr_number, created_at, output) VALUES ($1, $2, $3, $4, $5)`,
		rec.Owner, rec.Repo, rec.PRNumber, rec.CreatedAt, payload)
	if err != nil {
		return fmt.Errorf("insert review history row: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, owner, repo string, prNumber int) (*review.HistoryRecord, error) {
	var row reviewRow
	err := s.db.GetContext(ctx, &row,
		`SELECT owner, repo, pr_number, created_at, output FROM review_history
		 WHERE owner = $1 AND repo = $2 AND pr_number = $3
		 ORDER BY created_at DESC LIMIT 1`,
		owner, repo, prNumber)
	if err != nil {
		return nil, core.NewError(core.KindNotFound, fmt.Sprintf("no review history for %s/%s#%d", owner, repo, prNumber))
	}
	rec, err := rowToRecord(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) All(ctx context.Context, owner, repo string, prNumber int) ([]review.HistoryRecord, error) {
	var rows []reviewRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT owner, repo, pr_number, created_at, output FROM review_history
		 WHERE owner = $1 AND repo = $2 AND pr_number = $3
		 ORDER BY created_at ASC`,
		owner, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("select review history: %w", err)
	}
	out := make([]review.HistoryRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := rowToRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func rowToRecord(row reviewRow) (review.HistoryRecord, error) {
	var output core.ReviewOutput
	if err := json.Unmarshal(row.Output, &output); err != nil {
		return review.HistoryRecord{}, fmt.Errorf("unmarshal stored review output: %w", err)
	}
	return review.HistoryRecord{
		Owner: row.Owner, Repo: row.Repo, PRNumber: row.PRNumber,
		CreatedAt: row.CreatedAt, Output: output,
	}, nil
}
