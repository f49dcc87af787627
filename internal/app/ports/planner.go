package ports

import (
	"context"
	"encoding/json"

	"quakenav/internal/domain/direction"
	"quakenav/internal/domain/grid"
)

type CellDelta struct {
	Row   int `json:"r"`
	Col   int `json:"c"`
	Value int `json:"val"`
}

type StepRequest struct {
	Grid          grid.Grid       `json:"grid"`
	Start         grid.Position   `json:"start"`
	Goal          grid.Position   `json:"goal"`
	Agent         grid.Position   `json:"agent"`
	IntervalTicks int             `json:"intervalTicks"`
	FreqPer10     int             `json:"freqPer10"`
	Severity      float64         `json:"severity"`
	Algo          string          `json:"algo"`
	State         json.RawMessage `json:"aftershockState"`
	ReturnDelta   bool            `json:"returnDelta"`
}

// StepResult is one planner tick. Nil fields were absent on the wire.
type StepResult struct {
	OK      bool
	Changed []CellDelta
	Grid    grid.Grid
	Start   *grid.Position
	Goal    *grid.Position
	Agent   *grid.Position
	State   json.RawMessage
	Done    bool
	Reason  string
	Error   string
}

type StepPlanner interface {
	Step(ctx context.Context, req StepRequest) (StepResult, error)
}

type SolveRequest struct {
	Topology direction.Topology
	Algo     string
	Grid     grid.Grid
	Start    grid.Position
	End      grid.Position
	Safe     bool
	Radius   int
}

type SolveResult struct {
	OK       bool
	Triplets []direction.Triplet
	Error    string
}

type StaticPlanner interface {
	Solve(ctx context.Context, req SolveRequest) (SolveResult, error)
}
