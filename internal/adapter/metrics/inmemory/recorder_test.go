package inmemory

import "testing"

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordStep(3)
	r.RecordStep(0)
	r.RecordStep(-1)
	r.RecordStep(1)
	r.RecordDiscard()
	r.RecordFailure()
	r.RecordCompletion()

	s := r.Snapshot()
	if s.StepTotal != 4 {
		t.Fatalf("expected steps 4, got %d", s.StepTotal)
	}
	if s.CellsChanged != 4 {
		t.Fatalf("expected cells 4, got %d", s.CellsChanged)
	}
	if s.AvgCellsPerStep != 1 {
		t.Fatalf("expected avg 1, got %v", s.AvgCellsPerStep)
	}
	if s.StepDiscarded != 1 || s.StepFailure != 1 || s.RunCompleted != 1 {
		t.Fatalf("unexpected counters: %+v", s)
	}
}

func TestRecorderSnapshot_EmptyHasZeroAverage(t *testing.T) {
	if got := NewRecorder().Snapshot().AvgCellsPerStep; got != 0 {
		t.Fatalf("expected avg 0, got %v", got)
	}
}
