package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quakenav/internal/adapter/repo/gorm/model"
	"quakenav/internal/app/ports"
	"quakenav/internal/domain/grid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BaselineRepo struct {
	db *gorm.DB
}

func NewBaselineRepo(db *gorm.DB) BaselineRepo {
	return BaselineRepo{db: db}
}

func (r BaselineRepo) GetByName(ctx context.Context, name string) (ports.Baseline, error) {
	var row model.GridBaseline
	if err := getDBFromCtx(ctx, r.db).WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Baseline{}, ports.ErrNotFound
		}
		return ports.Baseline{}, err
	}
	g, err := decodeCells(row.Cells, int(row.Rows), int(row.Cols))
	if err != nil {
		return ports.Baseline{}, fmt.Errorf("decode baseline %q: %w", name, err)
	}
	return ports.Baseline{
		Name:      row.Name,
		Grid:      g,
		Start:     grid.Position{Row: int(row.StartRow), Col: int(row.StartCol)},
		Goal:      grid.Position{Row: int(row.GoalRow), Col: int(row.GoalCol)},
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r BaselineRepo) Save(ctx context.Context, b ports.Baseline) error {
	cells, err := json.Marshal(b.Grid)
	if err != nil {
		return err
	}
	updatedAt := b.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	row := model.GridBaseline{
		Name:      b.Name,
		Rows:      int32(b.Grid.Rows()),
		Cols:      int32(b.Grid.Cols()),
		Cells:     cells,
		StartRow:  int32(b.Start.Row),
		StartCol:  int32(b.Start.Col),
		GoalRow:   int32(b.Goal.Row),
		GoalCol:   int32(b.Goal.Col),
		UpdatedAt: updatedAt,
	}
	return getDBFromCtx(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"rows", "cols", "cells", "start_row", "start_col", "goal_row", "goal_col", "updated_at"}),
	}).Create(&row).Error
}

func decodeCells(data []byte, rows, cols int) (grid.Grid, error) {
	var g grid.Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	if g.Rows() != rows || g.Cols() != cols {
		return nil, fmt.Errorf("%w: stored %dx%d, cells %dx%d", grid.ErrInvalidGrid, rows, cols, g.Rows(), g.Cols())
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

var _ ports.BaselineRepository = BaselineRepo{}
