package solve

import (
	"quakenav/internal/domain/direction"
	"quakenav/internal/domain/grid"
)

type Request struct {
	Topology direction.Topology
	Algo     string
	Grid     grid.Grid
	Start    grid.Position
	End      grid.Position
	Safe     bool
	Radius   int
}

type Response struct {
	Topology direction.Topology  `json:"topology"`
	Algo     string              `json:"algo,omitempty"`
	Triplets []direction.Triplet `json:"triplets"`
	Path     grid.Path           `json:"path"`
}
