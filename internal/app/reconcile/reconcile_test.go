package reconcile

import (
	"encoding/json"
	"errors"
	"testing"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/grid"

	"github.com/google/go-cmp/cmp"
)

func newTestState(rows, cols int) *State {
	return NewState(ports.Baseline{
		Grid:  grid.New(rows, cols),
		Start: grid.Position{Row: 0, Col: 0},
		Goal:  grid.Position{Row: rows - 1, Col: cols - 1},
	})
}

func pos(r, c int) *grid.Position {
	return &grid.Position{Row: r, Col: c}
}

func TestApplyDeltaOverwritesSingleCell(t *testing.T) {
	s := newTestState(3, 3)
	out := Apply(s, ports.StepResult{OK: true, Changed: []ports.CellDelta{{Row: 1, Col: 1, Value: 1}}})

	want := grid.New(3, 3)
	want[1][1] = 1
	if diff := cmp.Diff(want, s.Grid); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
	if out.ChangedCells != 1 || out.Terminal {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestApplyIgnoresOutOfBoundsDelta(t *testing.T) {
	s := newTestState(3, 3)
	out := Apply(s, ports.StepResult{OK: true, Changed: []ports.CellDelta{{Row: 99, Col: 99, Value: 1}}})
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if diff := cmp.Diff(grid.New(3, 3), s.Grid); diff != "" {
		t.Fatalf("grid changed (-want +got):\n%s", diff)
	}
	if out.SkippedCells != 1 {
		t.Fatalf("expected 1 skipped cell, got %d", out.SkippedCells)
	}
}

func TestApplyDeltaTakesPrecedenceOverGrid(t *testing.T) {
	s := newTestState(2, 2)
	full := grid.Grid{{1, 1}, {1, 1}}
	Apply(s, ports.StepResult{OK: true, Changed: []ports.CellDelta{}, Grid: full})
	if diff := cmp.Diff(grid.New(2, 2), s.Grid); diff != "" {
		t.Fatalf("expected empty delta list to win over grid (-want +got):\n%s", diff)
	}
}

func TestApplyFullGridReplaces(t *testing.T) {
	s := newTestState(2, 2)
	full := grid.Grid{{0, 1}, {1, 0}}
	out := Apply(s, ports.StepResult{OK: true, Grid: full})
	if diff := cmp.Diff(full, s.Grid); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
	if !out.GridReplaced || out.ChangedCells != 2 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	full[0][0] = 1
	if s.Grid[0][0] != 0 {
		t.Fatalf("state aliases the response grid")
	}
}

func TestApplyRejectsResizedGrid(t *testing.T) {
	s := newTestState(2, 2)
	out := Apply(s, ports.StepResult{OK: true, Grid: grid.New(3, 3)})
	if out.GridReplaced || s.Grid.Rows() != 2 {
		t.Fatalf("expected resized grid to be ignored, got rows=%d outcome=%+v", s.Grid.Rows(), out)
	}
}

func TestApplyNoTerrainChange(t *testing.T) {
	s := newTestState(2, 2)
	before := s.Grid.Clone()
	Apply(s, ports.StepResult{OK: true})
	if diff := cmp.Diff(before, s.Grid); diff != "" {
		t.Fatalf("grid changed (-want +got):\n%s", diff)
	}
}

func TestApplyAgentSequenceBuildsTrail(t *testing.T) {
	s := newTestState(3, 3)
	for _, p := range []*grid.Position{pos(0, 0), pos(0, 0), pos(0, 1), pos(0, 1), pos(0, 2)} {
		Apply(s, ports.StepResult{OK: true, Agent: p})
	}
	want := grid.Path{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}
	if diff := cmp.Diff(want, s.Trail.Points()); diff != "" {
		t.Fatalf("trail mismatch (-want +got):\n%s", diff)
	}
	if s.Agent != (grid.Position{Row: 0, Col: 2}) {
		t.Fatalf("unexpected agent %+v", s.Agent)
	}
}

func TestApplyAbsentAgentKeepsTrail(t *testing.T) {
	s := newTestState(3, 3)
	Apply(s, ports.StepResult{OK: true, Agent: pos(1, 0)})
	Apply(s, ports.StepResult{OK: true})
	if s.Trail.Len() != 2 || s.Agent != (grid.Position{Row: 1, Col: 0}) {
		t.Fatalf("expected trail len 2 and agent 1,0; got len=%d agent=%+v", s.Trail.Len(), s.Agent)
	}
}

func TestApplyIgnoresOutOfBoundsAgent(t *testing.T) {
	s := newTestState(3, 3)
	Apply(s, ports.StepResult{OK: true, Agent: pos(5, 5)})
	if s.Agent != (grid.Position{}) || s.Trail.Len() != 1 {
		t.Fatalf("expected agent to stay at start, got %+v len=%d", s.Agent, s.Trail.Len())
	}
}

func TestApplyFailureDoesNotMutate(t *testing.T) {
	s := newTestState(3, 3)
	s.Token = json.RawMessage(`{"tick":3}`)
	out := Apply(s, ports.StepResult{
		OK:      false,
		Error:   "dynamic-step failed",
		Changed: []ports.CellDelta{{Row: 0, Col: 0, Value: 1}},
		Agent:   pos(1, 1),
		State:   json.RawMessage(`{"tick":4}`),
	})
	if !out.Terminal || !out.Failed {
		t.Fatalf("expected terminal failure, got %+v", out)
	}
	if !errors.Is(out.Err, ports.ErrPlannerFailure) {
		t.Fatalf("expected ErrPlannerFailure, got %v", out.Err)
	}
	if s.Grid[0][0] != 0 || s.Agent != (grid.Position{}) || string(s.Token) != `{"tick":3}` {
		t.Fatalf("state mutated on failure: grid=%v agent=%+v token=%s", s.Grid, s.Agent, s.Token)
	}
}

func TestApplyTokenReplacedVerbatimOrRetained(t *testing.T) {
	s := newTestState(2, 2)
	Apply(s, ports.StepResult{OK: true, State: json.RawMessage(`{"events":[1,2],"seed":9}`)})
	if string(s.Token) != `{"events":[1,2],"seed":9}` {
		t.Fatalf("unexpected token %s", s.Token)
	}
	Apply(s, ports.StepResult{OK: true, State: json.RawMessage(`null`)})
	Apply(s, ports.StepResult{OK: true})
	if string(s.Token) != `{"events":[1,2],"seed":9}` {
		t.Fatalf("expected token retained, got %s", s.Token)
	}
}

func TestApplyDoneIsTerminalReasonInformational(t *testing.T) {
	s := newTestState(2, 2)
	out := Apply(s, ports.StepResult{OK: true, Done: true, Reason: "arrived", Agent: pos(1, 1)})
	if !out.Terminal || out.Failed || out.Reason != "arrived" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	out = Apply(s, ports.StepResult{OK: true, Reason: "no path"})
	if out.Terminal {
		t.Fatalf("reason alone must not terminate")
	}
}

func TestApplyEchoedStartGoal(t *testing.T) {
	s := newTestState(3, 3)
	Apply(s, ports.StepResult{OK: true, Start: pos(1, 0), Goal: pos(9, 9)})
	if s.Start != (grid.Position{Row: 1, Col: 0}) {
		t.Fatalf("expected start updated, got %+v", s.Start)
	}
	if s.Goal != (grid.Position{Row: 2, Col: 2}) {
		t.Fatalf("expected out of bounds goal ignored, got %+v", s.Goal)
	}
}

func TestResetReseedsFromBaseline(t *testing.T) {
	s := newTestState(2, 2)
	Apply(s, ports.StepResult{OK: true, Agent: pos(0, 1), State: json.RawMessage(`1`), Changed: []ports.CellDelta{{Row: 1, Col: 0, Value: 1}}})
	s.Reset(ports.Baseline{Grid: grid.New(2, 2), Start: grid.Position{Row: 1, Col: 1}, Goal: grid.Position{}})
	if s.Grid[1][0] != 0 || s.Agent != (grid.Position{Row: 1, Col: 1}) || s.Token != nil {
		t.Fatalf("reset incomplete: grid=%v agent=%+v token=%s", s.Grid, s.Agent, s.Token)
	}
	if diff := cmp.Diff(grid.Path{{Row: 1, Col: 1}}, s.Trail.Points()); diff != "" {
		t.Fatalf("trail mismatch (-want +got):\n%s", diff)
	}
}
