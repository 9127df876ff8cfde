package runs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/tradeline-atlas/pkg/models/store"
	"github.com/de-tools/tradeline-atlas/pkg/store/sqlite"
)

const DefaultListLimit = 20

// Store is the append-only analysis run log.
type Store interface {
	Add(ctx context.Context, run store.AnalysisRun) error
	ListRecent(ctx context.Context, limit int) ([]store.AnalysisRun, error)
}

type runStore struct {
	db        *sql.DB
	retention int
}

type Option func(*runStore)

// WithRetention keeps only the newest n runs; older ones are deleted in the same
// transaction as each insert. n <= 0 keeps everything.
func WithRetention(n int) Option {
	return func(s *runStore) { s.retention = n }
}

func NewStore(db *sql.DB, opts ...Option) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	s := &runStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *runStore) Add(ctx context.Context, run store.AnalysisRun) error {
	if s.retention <= 0 {
		return s.insert(ctx, run)
	}
	return sqlite.InTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.insert(ctx, run); err != nil {
			return err
		}
		return s.prune(ctx)
	})
}

func (s *runStore) prune(ctx context.Context) error {
	query := `
		DELETE FROM analysis_runs
		WHERE id NOT IN (
			SELECT id FROM analysis_runs
			ORDER BY created_at DESC, id
			LIMIT ?
		)`

	if _, err := sqlite.Conn(ctx, s.db).ExecContext(ctx, query, s.retention); err != nil {
		return fmt.Errorf("failed to prune analysis runs: %w", err)
	}
	return nil
}

func (s *runStore) insert(ctx context.Context, run store.AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs (
			id, created_at, user_id, bureaus, account_count, conflict_count,
			action_count, total_savings_usd, requires_manual_review, engine_version
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)`

	_, err := sqlite.Conn(ctx, s.db).ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UnixMilli(),
		run.UserID,
		run.Bureaus,
		run.AccountCount,
		run.ConflictCount,
		run.ActionCount,
		run.TotalSavingsUSD,
		run.RequiresManualReview,
		run.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run %s: %w", run.ID, err)
	}
	return nil
}

// ListRecent returns the newest runs first. A non-positive limit means DefaultListLimit.
func (s *runStore) ListRecent(ctx context.Context, limit int) ([]store.AnalysisRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, created_at, user_id, bureaus, account_count, conflict_count,
		       action_count, total_savings_usd, requires_manual_review, engine_version
		FROM analysis_runs
		ORDER BY created_at DESC, id
		LIMIT ?`

	rows, err := sqlite.Conn(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	runs := []store.AnalysisRun{}
	for rows.Next() {
		var (
			run       store.AnalysisRun
			createdAt int64
		)
		err := rows.Scan(
			&run.ID,
			&createdAt,
			&run.UserID,
			&run.Bureaus,
			&run.AccountCount,
			&run.ConflictCount,
			&run.ActionCount,
			&run.TotalSavingsUSD,
			&run.RequiresManualReview,
			&run.EngineVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(createdAt).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysis runs: %w", err)
	}
	return runs, nil
}
