package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "quakenav/internal/adapter/http"
	metricsinmem "quakenav/internal/adapter/metrics/inmemory"
	"quakenav/internal/adapter/render"
	"quakenav/internal/app/ports"
	"quakenav/internal/app/simclock"
	"quakenav/internal/app/solve"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	serveAutostart bool
	serveRender    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation control API",
	Long: `Starts the HTTP control API (start/pause/resume/reset, live parameters,
state polling, static solve and /ops/kpi) backed by one simulation clock.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveAutostart, "autostart", false, "start the simulation immediately")
	serveCmd.Flags().BoolVar(&serveRender, "render", false, "also draw frames to the terminal")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	kpi := metricsinmem.NewRecorder()
	var renderer ports.Renderer
	if serveRender {
		renderer = render.NewTerminal(os.Stdout, true)
	}
	clock, err := simclock.New(ctx, simclock.Config{
		Planner:  planner,
		Baseline: loader,
		Renderer: renderer,
		Metrics:  kpi,
		Logger:   logger,
		Params:   cfg.Sim.Params,
		GridSize: cfg.Sim.GridSize,
	})
	if err != nil {
		return err
	}
	defer clock.Close()

	h := httpadapter.Handler{
		Sim:     clock,
		SolveUC: solve.UseCase{Planner: planner},
		KPI:     kpi,
		Log:     logger,

		CORSOrigins: cfg.CORSOrigins,
	}
	s := server.Default(server.WithHostPorts(cfg.Listen), server.WithExitWaitTime(time.Second))
	h.RegisterRoutes(s)

	if serveAutostart {
		clock.Start()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("quakenav control API listening", zap.String("addr", cfg.Listen), zap.String("planner", cfg.Planner.BaseURL))
		return s.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		clock.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
