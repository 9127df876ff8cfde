// Package app wires the analysis service from loaded configuration. Both binaries share it.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/tradeline-atlas/pkg/config"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	thresholds "github.com/de-tools/tradeline-atlas/pkg/services/config"
	"github.com/de-tools/tradeline-atlas/pkg/store/sqlite"
	"github.com/de-tools/tradeline-atlas/pkg/store/sqlite/runs"
	"github.com/rs/zerolog"
)

type App struct {
	Service *analysis.Service
	db      *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	registry := thresholds.NewDefaultRegistry()
	if cfg.Thresholds.Path != "" {
		var err error
		registry, err = thresholds.NewRegistry(cfg.Thresholds.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create thresholds registry: %w", err)
		}
		profiles, _ := registry.GetProfiles(ctx)
		logger.Info().Strs("bureaus", profiles).Msgf("Thresholds loaded from `%s`", cfg.Thresholds.Path)
	}

	a := &App{}
	var opts []analysis.Option
	if cfg.Storage.DBPath != "" {
		db, err := sqlite.NewDB(ctx, sqlite.Settings{DbPath: cfg.Storage.DBPath})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite instance: %w", err)
		}
		store, err := runs.NewStore(db, runs.WithRetention(cfg.Storage.MaxRuns))
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create run store: %w", err)
		}
		a.db = db
		opts = append(opts, analysis.WithRunStore(store))
		logger.Debug().Str("path", cfg.Storage.DBPath).Msg("Run log enabled")
	}

	a.Service = analysis.NewService(registry, opts...)
	return a, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
