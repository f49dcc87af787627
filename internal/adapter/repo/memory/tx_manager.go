package memory

import (
	"context"

	"quakenav/internal/app/ports"
)

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serialises fn against all other store access and restores the
// previous contents if fn fails.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	saved := make(map[string]ports.Baseline, len(t.store.baselines))
	for k, v := range t.store.baselines {
		saved[k] = v
	}
	if err := fn(context.WithValue(ctx, txKey, true)); err != nil {
		t.store.baselines = saved
		return err
	}
	return nil
}

var _ ports.TxManager = TxManager{}
