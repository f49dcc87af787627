package memory

import (
	"context"
	"sync"

	"quakenav/internal/app/ports"
)

type Store struct {
	mu        sync.RWMutex
	baselines map[string]ports.Baseline
}

func NewStore() *Store {
	return &Store{
		baselines: make(map[string]ports.Baseline),
	}
}

func (s *Store) SeedBaseline(b ports.Baseline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baselines[b.Name] = cloneBaseline(b)
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

// read and write take the store lock unless ctx already runs inside RunInTx,
// which holds it for the whole transaction.
func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

func cloneBaseline(b ports.Baseline) ports.Baseline {
	b.Grid = b.Grid.Clone()
	return b
}
