package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGridSetIgnoresOutOfBounds(t *testing.T) {
	g := New(3, 3)
	if g.Set(Position{Row: 99, Col: 99}, Obstacle) {
		t.Fatalf("expected out of bounds set to be rejected")
	}
	if g.Set(Position{Row: -1, Col: 0}, Obstacle) {
		t.Fatalf("expected negative row to be rejected")
	}
	if diff := cmp.Diff(New(3, 3), g); diff != "" {
		t.Fatalf("grid changed (-want +got):\n%s", diff)
	}
	if !g.Set(Position{Row: 2, Col: 1}, 7) {
		t.Fatalf("expected in bounds set to succeed")
	}
	if v, _ := g.At(Position{Row: 2, Col: 1}); v != Obstacle {
		t.Fatalf("expected non-zero value normalized to obstacle, got %d", v)
	}
}

func TestGridCloneIsDeep(t *testing.T) {
	g := New(2, 2)
	c := g.Clone()
	c[0][0] = Obstacle
	if g[0][0] != Free {
		t.Fatalf("clone shares storage with original")
	}
}

func TestGridValidateAndShape(t *testing.T) {
	if err := (Grid{}).Validate(); err != ErrInvalidGrid {
		t.Fatalf("expected ErrInvalidGrid for empty grid, got %v", err)
	}
	if err := (Grid{{0, 0}, {0}}).Validate(); err != ErrInvalidGrid {
		t.Fatalf("expected ErrInvalidGrid for ragged grid, got %v", err)
	}
	if err := New(2, 3).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if New(2, 3).SameShape(New(3, 2)) {
		t.Fatalf("expected 2x3 and 3x2 to differ in shape")
	}
}

func TestTrailSuppressesConsecutiveDuplicates(t *testing.T) {
	reported := []Position{{0, 0}, {0, 0}, {0, 1}, {0, 1}, {0, 2}}
	tr := NewTrail(reported[0])
	for _, p := range reported {
		tr.Append(p)
	}
	want := Path{{0, 0}, {0, 1}, {0, 2}}
	if diff := cmp.Diff(want, tr.Points()); diff != "" {
		t.Fatalf("trail mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailAllowsRevisitAfterMove(t *testing.T) {
	tr := NewTrail(Position{Row: 1, Col: 1})
	tr.Append(Position{Row: 1, Col: 2})
	tr.Append(Position{Row: 1, Col: 1})
	if tr.Len() != 3 {
		t.Fatalf("expected revisit to be recorded, got len %d", tr.Len())
	}
}

func TestTrailResetReseeds(t *testing.T) {
	tr := NewTrail(Position{})
	tr.Append(Position{Row: 0, Col: 1})
	points := tr.Points()
	tr.Reset(Position{Row: 4, Col: 4})
	if tr.Len() != 1 {
		t.Fatalf("expected single seed after reset, got %d", tr.Len())
	}
	if last, _ := tr.Last(); last != (Position{Row: 4, Col: 4}) {
		t.Fatalf("expected seed 4,4, got %+v", last)
	}
	if len(points) != 2 {
		t.Fatalf("reset mutated a previously returned copy")
	}
}
