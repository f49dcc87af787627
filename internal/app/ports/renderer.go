package ports

import "quakenav/internal/domain/grid"

// Frame is a read-only copy of controller state handed to renderers.
type Frame struct {
	RunID  string        `json:"run_id"`
	Step   int           `json:"step"`
	State  string        `json:"state"`
	Status string        `json:"status"`
	Grid   grid.Grid     `json:"grid"`
	Start  grid.Position `json:"start"`
	Goal   grid.Position `json:"goal"`
	Agent  grid.Position `json:"agent"`
	Trail  grid.Path     `json:"trail"`
	Done   bool          `json:"done"`
}

type Renderer interface {
	Render(frame Frame)
}
