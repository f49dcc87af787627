package sequencer

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for an operation whose generation was replaced
// or cancelled before its result could be committed.
var ErrSuperseded = errors.New("operation superseded")

type Op[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Value T
	Gen   uint64
	Err   error
}

// Sequencer runs at most one logical operation at a time. Submitting a new
// operation cancels the previous one and advances the generation; results
// are only applied through Commit while their generation is still current.
type Sequencer[T any] struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func New[T any]() *Sequencer[T] {
	return &Sequencer[T]{}
}

func (s *Sequencer[T]) Submit(ctx context.Context, op Op[T]) Result[T] {
	opCtx, gen := s.begin(ctx)
	v, err := op(opCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return Result[T]{Gen: gen, Err: ErrSuperseded}
	}
	if err != nil {
		return Result[T]{Gen: gen, Err: err}
	}
	return Result[T]{Value: v, Gen: gen}
}

// Go is Submit on its own goroutine. The channel receives exactly one result.
func (s *Sequencer[T]) Go(ctx context.Context, op Op[T]) <-chan Result[T] {
	opCtx, gen := s.begin(ctx)
	out := make(chan Result[T], 1)
	go func() {
		v, err := op(opCtx)
		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case gen != s.gen:
			out <- Result[T]{Gen: gen, Err: ErrSuperseded}
		case err != nil:
			out <- Result[T]{Gen: gen, Err: err}
		default:
			out <- Result[T]{Value: v, Gen: gen}
		}
	}()
	return out
}

func (s *Sequencer[T]) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.gen++
	opCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return opCtx, s.gen
}

// Commit runs apply only if gen is still current. Cancel cannot interleave
// between the check and apply.
func (s *Sequencer[T]) Commit(gen uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	if apply != nil {
		apply()
	}
	return true
}

// Cancel aborts the in-flight operation, if any, and invalidates the current
// generation. Safe to call repeatedly and after the operation finished.
func (s *Sequencer[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.gen++
}

func (s *Sequencer[T]) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Sequencer[T]) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
