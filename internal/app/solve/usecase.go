package solve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/direction"
	"quakenav/internal/domain/grid"
)

var (
	ErrInvalidRequest = errors.New("invalid solve request")
	ErrNoPath         = errors.New("no feasible path")
)

var cardinalAlgos = map[string]bool{"astar": true, "dijkstra": true}

type UseCase struct {
	Planner ports.StaticPlanner
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Topology == "" {
		req.Topology = direction.Cardinal4
	}
	if req.Topology.Size() == 0 {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, direction.ErrUnknownTopology)
	}
	if err := req.Grid.Validate(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if !req.Grid.InBounds(req.Start) || !req.Grid.InBounds(req.End) {
		return Response{}, fmt.Errorf("%w: start or end outside grid", ErrInvalidRequest)
	}
	if req.Topology == direction.Cardinal4 {
		req.Algo = strings.ToLower(strings.TrimSpace(req.Algo))
		if req.Algo == "" {
			req.Algo = "astar"
		}
		if !cardinalAlgos[req.Algo] {
			return Response{}, fmt.Errorf("%w: unsupported algo %q", ErrInvalidRequest, req.Algo)
		}
	} else {
		req.Algo = ""
	}

	res, err := u.Planner.Solve(ctx, ports.SolveRequest{
		Topology: req.Topology,
		Algo:     req.Algo,
		Grid:     req.Grid,
		Start:    req.Start,
		End:      req.End,
		Safe:     req.Safe,
		Radius:   req.Radius,
	})
	if err != nil {
		return Response{}, err
	}
	if !res.OK {
		if res.Error != "" {
			return Response{}, fmt.Errorf("%w: %s", ErrNoPath, res.Error)
		}
		return Response{}, ErrNoPath
	}
	if len(res.Triplets) == 0 {
		return Response{}, ErrNoPath
	}
	path := direction.Decode(req.Topology, res.Triplets)
	return Response{
		Topology: req.Topology,
		Algo:     req.Algo,
		Triplets: canonicalTriplets(req.Topology, path, res.Triplets),
		Path:     path,
	}, nil
}

// canonicalTriplets re-anchors every triplet on the cell it actually leaves,
// since only the first triplet's row/col is trusted. A path holding an
// unknown code cannot be re-encoded and keeps the planner's triplets.
func canonicalTriplets(topology direction.Topology, path grid.Path, raw []direction.Triplet) []direction.Triplet {
	out, ok := direction.Encode(topology, path)
	if !ok {
		return raw
	}
	return out
}
