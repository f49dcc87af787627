package memory

import (
	"context"

	"quakenav/internal/app/ports"
)

type BaselineRepo struct {
	store *Store
}

func NewBaselineRepo(store *Store) BaselineRepo {
	return BaselineRepo{store: store}
}

func (r BaselineRepo) GetByName(ctx context.Context, name string) (ports.Baseline, error) {
	var (
		b  ports.Baseline
		ok bool
	)
	r.store.read(ctx, func() {
		b, ok = r.store.baselines[name]
	})
	if !ok {
		return ports.Baseline{}, ports.ErrNotFound
	}
	return cloneBaseline(b), nil
}

func (r BaselineRepo) Save(ctx context.Context, b ports.Baseline) error {
	r.store.write(ctx, func() {
		r.store.baselines[b.Name] = cloneBaseline(b)
	})
	return nil
}

var _ ports.BaselineRepository = BaselineRepo{}
