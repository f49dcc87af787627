package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"quakenav/internal/adapter/baseline/file"
	"quakenav/internal/app/solve"
	"quakenav/internal/domain/direction"
	"quakenav/internal/domain/grid"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	solveTopology string
	solveAlgo     string
	solveSafe     bool
	solveRadius   int
	solveJSON     bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <baseline-file>",
	Short: "Ask the static planner for a path and print it decoded",
	Long: `Sends the grid, start and goal of a baseline file to the static planner and
decodes the compact [row, col, code] triplets it returns into cell positions.

Topologies:
  - cardinal4: 4-neighbour moves, --algo astar|dijkstra, optional --safe
  - extended24: moves within a 5x5 neighbourhood, --radius (default 2)`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveTopology, "topology", "t", "cardinal4", "cardinal4 or extended24")
	solveCmd.Flags().StringVar(&solveAlgo, "algo", "astar", "search algorithm for cardinal4")
	solveCmd.Flags().BoolVar(&solveSafe, "safe", false, "prefer cells away from obstacles (cardinal4)")
	solveCmd.Flags().IntVar(&solveRadius, "radius", 0, "neighbourhood radius for extended24 (0 means planner default)")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print the full response as JSON")
}

func runSolve(cmd *cobra.Command, args []string) error {
	topology, err := direction.ParseTopology(solveTopology)
	if err != nil {
		return err
	}
	all, err := file.Read(args[0])
	if err != nil {
		return err
	}
	b := all[0]

	planner, err := newPlanner(cfg, logger)
	if err != nil {
		return err
	}
	resp, err := solve.UseCase{Planner: planner}.Execute(cmd.Context(), solve.Request{
		Topology: topology,
		Algo:     solveAlgo,
		Grid:     b.Grid,
		Start:    b.Start,
		End:      b.Goal,
		Safe:     solveSafe,
		Radius:   solveRadius,
	})
	if err != nil {
		return err
	}
	logger.Debug("static path decoded", zap.String("topology", string(topology)), zap.Int("triplets", len(resp.Triplets)), zap.Int("cells", len(resp.Path)))

	if solveJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatPath(resp.Path))
	return nil
}

func formatPath(p grid.Path) string {
	parts := make([]string, len(p))
	for i, pos := range p {
		parts[i] = fmt.Sprintf("(%d,%d)", pos.Row, pos.Col)
	}
	return strings.Join(parts, " -> ")
}
