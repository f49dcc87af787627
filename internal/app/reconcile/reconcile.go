package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/grid"
)

// State is the authoritative local copy of a run. Only Apply and Reset write it.
type State struct {
	Grid  grid.Grid
	Start grid.Position
	Goal  grid.Position
	Agent grid.Position
	Trail *grid.Trail
	Token json.RawMessage
}

func NewState(b ports.Baseline) *State {
	return &State{
		Grid:  b.Grid.Clone(),
		Start: b.Start,
		Goal:  b.Goal,
		Agent: b.Start,
		Trail: grid.NewTrail(b.Start),
	}
}

// Reset reseeds the state from a baseline. The trail is cleared only here.
func (s *State) Reset(b ports.Baseline) {
	s.Grid = b.Grid.Clone()
	s.Start = b.Start
	s.Goal = b.Goal
	s.restart()
}

// Restart keeps terrain, start and goal but returns the agent to the start.
func (s *State) Restart() {
	s.restart()
}

func (s *State) restart() {
	s.Agent = s.Start
	if s.Trail == nil {
		s.Trail = grid.NewTrail(s.Start)
	} else {
		s.Trail.Reset(s.Start)
	}
	s.Token = nil
}

type Outcome struct {
	Terminal     bool
	Failed       bool
	Err          error
	Reason       string
	ChangedCells int
	SkippedCells int
	GridReplaced bool
	Moved        bool
}

// Apply merges one planner tick into s. A failed result leaves s untouched.
// Malformed optional fields are skipped rather than reported.
func Apply(s *State, res ports.StepResult) Outcome {
	if !res.OK {
		reason := res.Error
		if reason == "" {
			reason = res.Reason
		}
		return Outcome{
			Terminal: true,
			Failed:   true,
			Err:      fmt.Errorf("%w: %s", ports.ErrPlannerFailure, reason),
			Reason:   reason,
		}
	}

	out := Outcome{Terminal: res.Done, Reason: res.Reason}
	switch {
	case res.Changed != nil:
		for _, d := range res.Changed {
			if s.Grid.Set(grid.Position{Row: d.Row, Col: d.Col}, d.Value) {
				out.ChangedCells++
			} else {
				out.SkippedCells++
			}
		}
	case res.Grid != nil:
		if res.Grid.SameShape(s.Grid) {
			next := res.Grid.Clone()
			for r := range next {
				for c := range next[r] {
					next[r][c] = grid.Normalize(next[r][c])
				}
			}
			out.ChangedCells = countDiff(s.Grid, next)
			s.Grid = next
			out.GridReplaced = true
		}
	}

	if res.Start != nil && s.Grid.InBounds(*res.Start) {
		s.Start = *res.Start
	}
	if res.Goal != nil && s.Grid.InBounds(*res.Goal) {
		s.Goal = *res.Goal
	}
	if res.Agent != nil && s.Grid.InBounds(*res.Agent) {
		s.Agent = *res.Agent
		out.Moved = s.Trail.Append(*res.Agent)
	}
	if hasToken(res.State) {
		s.Token = append(json.RawMessage(nil), res.State...)
	}
	return out
}

func hasToken(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func countDiff(a, b grid.Grid) int {
	n := 0
	for r := range a {
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				n++
			}
		}
	}
	return n
}
