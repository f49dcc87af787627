package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/grid"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("QUAKENAV_DB_DSN")
	if dsn == "" {
		t.Skip("QUAKENAV_DB_DSN is required for integration test")
	}
	return dsn
}

func openTestDB(t *testing.T) *BaselineRepo {
	t.Helper()
	ctx := context.Background()
	db, err := OpenPostgres(ctx, DBConfig{DSN: requireDSN(t)})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	if _, err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	repo := NewBaselineRepo(db)
	return &repo
}

func TestBaselineRepo_RoundTripAndUpsert(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	name := "it-baseline-roundtrip"
	_ = repo.db.Exec("DELETE FROM grid_baselines WHERE name = ?", name).Error

	g := grid.New(3, 4)
	g[1][2] = grid.Obstacle
	seed := ports.Baseline{
		Name:      name,
		Grid:      g,
		Start:     grid.Position{Row: 0, Col: 0},
		Goal:      grid.Position{Row: 2, Col: 3},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := repo.Save(ctx, seed); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetByName(ctx, name)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Grid.Rows() != 3 || got.Grid.Cols() != 4 || got.Grid[1][2] != grid.Obstacle {
		t.Fatalf("unexpected grid: %v", got.Grid)
	}
	if got.Goal != seed.Goal {
		t.Fatalf("expected goal %v, got %v", seed.Goal, got.Goal)
	}

	seed.Grid[1][2] = grid.Free
	if err := repo.Save(ctx, seed); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = repo.GetByName(ctx, name)
	if got.Grid[1][2] != grid.Free {
		t.Fatalf("expected upsert to overwrite cells")
	}
}

func TestBaselineRepo_NotFound(t *testing.T) {
	repo := openTestDB(t)
	if _, err := repo.GetByName(context.Background(), "it-missing-baseline"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
