package main

import (
	"context"
	"fmt"

	"quakenav/internal/adapter/baseline/file"
	plannerhttp "quakenav/internal/adapter/planner/http"
	gormrepo "quakenav/internal/adapter/repo/gorm"
	"quakenav/internal/adapter/repo/memory"
	"quakenav/internal/app/baseline"
	"quakenav/internal/app/ports"
	"quakenav/internal/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPlanner(c config.Config, log *zap.Logger) (*plannerhttp.Client, error) {
	pc := plannerhttp.DefaultConfig()
	pc.BaseURL = c.Planner.BaseURL
	pc.DialTimeout = c.Planner.DialTimeout
	pc.ReadTimeout = c.Planner.ReadTimeout
	pc.ExtendedRadius = c.Planner.ExtendedRadius
	pc.Logger = log
	return plannerhttp.NewClient(pc)
}

func openDB(ctx context.Context, c config.Config) (*gorm.DB, error) {
	if c.DB.DSN == "" {
		return nil, fmt.Errorf("db.dsn or QUAKENAV_DB_DSN is required")
	}
	return gormrepo.OpenPostgres(ctx, gormrepo.DBConfig{DSN: c.DB.DSN, LogSQL: c.DB.LogSQL})
}

// newBaselineLoader picks the reset terrain source: a file when configured,
// then the database, then an empty in-memory store (which falls through to
// the default grid). The returned func releases whatever was opened.
func newBaselineLoader(ctx context.Context, c config.Config, log *zap.Logger) (ports.BaselineLoader, func(), error) {
	switch {
	case c.Baseline.File != "":
		log.Info("baseline from file", zap.String("path", c.Baseline.File))
		return file.Source{Path: c.Baseline.File}, func() {}, nil
	case c.DB.DSN != "":
		db, err := openDB(ctx, c)
		if err != nil {
			return nil, nil, err
		}
		log.Info("baseline from database", zap.String("name", c.Baseline.Name))
		return baseline.Loader{Repo: gormrepo.NewBaselineRepo(db), Name: c.Baseline.Name}, func() { _ = gormrepo.Close(db) }, nil
	default:
		log.Info("no baseline source configured, using empty grid", zap.Int("size", c.Sim.GridSize))
		return baseline.Loader{Repo: memory.NewBaselineRepo(memory.NewStore()), Name: c.Baseline.Name}, func() {}, nil
	}
}
