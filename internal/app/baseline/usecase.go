package baseline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/grid"
)

var ErrInvalidRequest = errors.New("invalid baseline request")

// Loader resolves the baseline a controller resets to by name.
type Loader struct {
	Repo ports.BaselineRepository
	Name string
}

func (l Loader) LoadBaseline(ctx context.Context) (ports.Baseline, error) {
	return l.Repo.GetByName(ctx, l.Name)
}

type ImportRequest struct {
	Baselines []ports.Baseline
}

type ImportResponse struct {
	Saved []string
}

// ImportUseCase validates and stores baselines; either all are saved or none.
type ImportUseCase struct {
	TxManager ports.TxManager
	Repo      ports.BaselineRepository
	Now       func() time.Time
}

func (u ImportUseCase) Execute(ctx context.Context, req ImportRequest) (ImportResponse, error) {
	if len(req.Baselines) == 0 {
		return ImportResponse{}, ErrInvalidRequest
	}
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	prepared := make([]ports.Baseline, 0, len(req.Baselines))
	for i, b := range req.Baselines {
		p, err := prepare(b)
		if err != nil {
			return ImportResponse{}, fmt.Errorf("baseline %d: %w", i, err)
		}
		p.UpdatedAt = now()
		prepared = append(prepared, p)
	}

	resp := ImportResponse{Saved: make([]string, 0, len(prepared))}
	err := u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		for _, b := range prepared {
			if err := u.Repo.Save(ctx, b); err != nil {
				return fmt.Errorf("save baseline %q: %w", b.Name, err)
			}
			resp.Saved = append(resp.Saved, b.Name)
		}
		return nil
	})
	if err != nil {
		return ImportResponse{}, err
	}
	return resp, nil
}

func prepare(b ports.Baseline) (ports.Baseline, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return b, fmt.Errorf("%w: missing name", ErrInvalidRequest)
	}
	if err := b.Grid.Validate(); err != nil {
		return b, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if !b.Grid.InBounds(b.Start) || !b.Grid.InBounds(b.Goal) {
		return b, fmt.Errorf("%w: start or goal outside grid", ErrInvalidRequest)
	}
	g := b.Grid.Clone()
	for r := range g {
		for c := range g[r] {
			g[r][c] = grid.Normalize(g[r][c])
		}
	}
	g[b.Start.Row][b.Start.Col] = grid.Free
	g[b.Goal.Row][b.Goal.Col] = grid.Free
	b.Grid = g
	return b, nil
}
