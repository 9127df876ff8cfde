package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

const AnalysisRunsSchema = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT NOT NULL PRIMARY KEY,
		created_at INTEGER NOT NULL, -- unix milliseconds
		user_id TEXT NOT NULL,
		bureaus TEXT NOT NULL,
		account_count INTEGER NOT NULL,
		conflict_count INTEGER NOT NULL,
		action_count INTEGER NOT NULL,
		total_savings_usd REAL NOT NULL,
		requires_manual_review BOOLEAN NOT NULL,
		engine_version TEXT NOT NULL
	);
`

const AnalysisRunsIndex = `
	CREATE INDEX IF NOT EXISTS analysis_runs_created_at ON analysis_runs (created_at);
`

var bootQueries = []string{
	AnalysisRunsSchema,
	AnalysisRunsIndex,
}

type Settings struct {
	DbPath string
}

func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	path := settings.DbPath
	if path == "" {
		path = MemoryPath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// every connection to :memory: is a separate database
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to bootstrap sqlite schema: %w", err)
		}
	}
	return db, nil
}
