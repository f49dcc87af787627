package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	metricsinmem "quakenav/internal/adapter/metrics/inmemory"
	"quakenav/internal/adapter/render"
	"quakenav/internal/app/simclock"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runQuiet bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation headless until the planner reports done",
	Long: `Runs the replanning loop without the control API, drawing each frame to the
terminal. Interrupting pauses the run and prints where it stopped.`,
	RunE: runHeadless,
}

func init() {
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "only print the final frame")
}

func runHeadless(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	planner, err := newPlanner(cfg, logger)
	if err != nil {
		return err
	}
	loader, closeLoader, err := newBaselineLoader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLoader()

	latest := render.NewLatest()
	renderers := render.Multi{latest}
	if !runQuiet {
		renderers = append(renderers, render.NewTerminal(cmd.OutOrStdout(), true))
	}
	kpi := metricsinmem.NewRecorder()
	clock, err := simclock.New(ctx, simclock.Config{
		Planner:  planner,
		Baseline: loader,
		Renderer: renderers,
		Metrics:  kpi,
		Logger:   logger,
		Params:   cfg.Sim.Params,
		GridSize: cfg.Sim.GridSize,
	})
	if err != nil {
		return err
	}
	defer clock.Close()

	clock.Start()
	st, waitErr := clock.Wait(ctx)
	if waitErr != nil {
		clock.Pause()
		st = clock.Status()
	}

	frame, ok := latest.Frame()
	if !ok {
		frame = clock.Frame()
	}
	if runQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), render.Draw(frame))
	}
	snap := kpi.Snapshot()
	logger.Info("run finished",
		zap.String("run_id", st.RunID),
		zap.String("state", string(st.State)),
		zap.String("status", st.Status),
		zap.Int("steps", st.Step),
		zap.Int("trail", len(frame.Trail)),
		zap.Uint64("cells_changed", snap.CellsChanged),
		zap.Uint64("discarded", snap.StepDiscarded))

	if st.Err != nil {
		return st.Err
	}
	return nil
}
