package inmemory

import (
	"sync"

	"quakenav/internal/app/ports"
)

type Snapshot struct {
	StepTotal       uint64  `json:"step_total"`
	StepDiscarded   uint64  `json:"step_discarded"`
	StepFailure     uint64  `json:"step_failure"`
	RunCompleted    uint64  `json:"run_completed"`
	CellsChanged    uint64  `json:"cells_changed"`
	AvgCellsPerStep float64 `json:"avg_cells_per_step"`
}

type Recorder struct {
	mu        sync.Mutex
	steps     uint64
	discarded uint64
	failure   uint64
	completed uint64
	cells     uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordStep(changedCells int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	if changedCells > 0 {
		r.cells += uint64(changedCells)
	}
}

func (r *Recorder) RecordDiscard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discarded++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) RecordCompletion() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		StepTotal:     r.steps,
		StepDiscarded: r.discarded,
		StepFailure:   r.failure,
		RunCompleted:  r.completed,
		CellsChanged:  r.cells,
	}
	if r.steps > 0 {
		out.AvgCellsPerStep = float64(r.cells) / float64(r.steps)
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

var _ ports.SimMetrics = (*Recorder)(nil)
