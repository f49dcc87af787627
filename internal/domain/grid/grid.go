package grid

import "errors"

const (
	Free     = 0
	Obstacle = 1
)

var ErrInvalidGrid = errors.New("invalid grid")

type Position struct {
	Row int `json:"r" yaml:"r"`
	Col int `json:"c" yaml:"c"`
}

func (p Position) Add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

type Path []Position

// Grid is a row-major occupancy matrix. Rows are expected to share one width.
type Grid [][]int

func New(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]int, cols)
	}
	return g
}

func (g Grid) Rows() int {
	return len(g)
}

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g Grid) InBounds(p Position) bool {
	if p.Row < 0 || p.Row >= len(g) {
		return false
	}
	return p.Col >= 0 && p.Col < len(g[p.Row])
}

func (g Grid) At(p Position) (int, bool) {
	if !g.InBounds(p) {
		return 0, false
	}
	return g[p.Row][p.Col], true
}

// Set overwrites one cell. It reports false and leaves the grid untouched
// when p is outside the grid.
func (g Grid) Set(p Position, v int) bool {
	if !g.InBounds(p) {
		return false
	}
	g[p.Row][p.Col] = Normalize(v)
	return true
}

func (g Grid) SameShape(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
	}
	return true
}

func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]int(nil), row...)
	}
	return out
}

func (g Grid) Validate() error {
	if len(g) == 0 || len(g[0]) == 0 {
		return ErrInvalidGrid
	}
	cols := len(g[0])
	for _, row := range g {
		if len(row) != cols {
			return ErrInvalidGrid
		}
	}
	return nil
}

// Normalize maps any non-zero occupancy value to Obstacle.
func Normalize(v int) int {
	if v != Free {
		return Obstacle
	}
	return Free
}
