package ports

import (
	"context"
	"time"

	"quakenav/internal/domain/grid"
)

// Baseline is the terrain a run starts from and resets to.
type Baseline struct {
	Name      string        `json:"name" yaml:"name"`
	Grid      grid.Grid     `json:"grid" yaml:"grid"`
	Start     grid.Position `json:"start" yaml:"start"`
	Goal      grid.Position `json:"goal" yaml:"goal"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"-"`
}

type BaselineLoader interface {
	LoadBaseline(ctx context.Context) (Baseline, error)
}

type BaselineRepository interface {
	GetByName(ctx context.Context, name string) (Baseline, error)
	Save(ctx context.Context, baseline Baseline) error
}
