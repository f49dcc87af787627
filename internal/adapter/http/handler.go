package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quakenav/internal/app/ports"
	"quakenav/internal/app/simclock"
	"quakenav/internal/app/solve"
	"quakenav/internal/domain/direction"
	"quakenav/internal/domain/grid"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

// SimController is the part of simclock.Clock the control API drives.
type SimController interface {
	Start() bool
	Pause() bool
	Resume() bool
	Reset(ctx context.Context) error
	Status() simclock.Status
	Frame() ports.Frame
	Params() simclock.Params
	SetParams(p simclock.Params) simclock.Params
}

type Handler struct {
	Sim     SimController
	SolveUC solve.UseCase
	KPI     kpiSnapshotProvider
	Log     *zap.Logger
	// CORSOrigins lists browser origins allowed to call the API; empty allows any.
	CORSOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsPolicy{origins: h.CORSOrigins}.middleware())

	sim := s.Group("/api/sim")
	sim.POST("/start", h.start)
	sim.POST("/pause", h.pause)
	sim.POST("/resume", h.resume)
	sim.POST("/reset", h.reset)
	sim.GET("/state", h.state)
	sim.PUT("/params", h.setParams)

	s.POST("/api/solve", h.solve)
	s.GET("/ops/kpi", h.kpi)
}

type paramsView struct {
	FreqPer10     int     `json:"freqPer10"`
	Severity      float64 `json:"severity"`
	StepDelayMs   int64   `json:"stepDelayMs"`
	Algo          string  `json:"algo"`
	IntervalTicks int     `json:"intervalTicks"`
}

type statusView struct {
	State  string     `json:"state"`
	RunID  string     `json:"run_id"`
	Step   int        `json:"step"`
	Status string     `json:"status"`
	Done   bool       `json:"done"`
	Error  string     `json:"error,omitempty"`
	Params paramsView `json:"params"`
}

type controlResponse struct {
	Changed bool       `json:"changed"`
	Sim     statusView `json:"sim"`
}

type stateResponse struct {
	Sim   statusView  `json:"sim"`
	Frame ports.Frame `json:"frame"`
}

type paramsRequest struct {
	FreqPer10   *int     `json:"freqPer10"`
	Severity    *float64 `json:"severity"`
	StepDelayMs *int64   `json:"stepDelayMs"`
	Algo        *string  `json:"algo"`
}

type solveRequest struct {
	Topology string        `json:"topology"`
	Algo     string        `json:"algo"`
	Grid     grid.Grid     `json:"grid"`
	Start    grid.Position `json:"start"`
	End      grid.Position `json:"end"`
	Safe     bool          `json:"safe"`
	Radius   int           `json:"radius"`
}

func (h Handler) start(_ context.Context, ctx *app.RequestContext) {
	h.control(ctx, h.Sim.Start)
}

func (h Handler) pause(_ context.Context, ctx *app.RequestContext) {
	h.control(ctx, h.Sim.Pause)
}

func (h Handler) resume(_ context.Context, ctx *app.RequestContext) {
	h.control(ctx, h.Sim.Resume)
}

func (h Handler) control(ctx *app.RequestContext, op func() bool) {
	if h.Sim == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "simulation not configured")
		return
	}
	changed := op()
	ctx.JSON(consts.StatusOK, controlResponse{Changed: changed, Sim: toStatusView(h.Sim.Status())})
}

func (h Handler) reset(c context.Context, ctx *app.RequestContext) {
	if h.Sim == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "simulation not configured")
		return
	}
	if err := h.Sim.Reset(c); err != nil {
		h.logger().Warn("reset failed", zap.Error(err))
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, controlResponse{Changed: true, Sim: toStatusView(h.Sim.Status())})
}

func (h Handler) state(_ context.Context, ctx *app.RequestContext) {
	if h.Sim == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "simulation not configured")
		return
	}
	ctx.JSON(consts.StatusOK, stateResponse{
		Sim:   toStatusView(h.Sim.Status()),
		Frame: h.Sim.Frame(),
	})
}

func (h Handler) setParams(_ context.Context, ctx *app.RequestContext) {
	if h.Sim == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "simulation not configured")
		return
	}
	var body paramsRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	p := h.Sim.Params()
	if body.FreqPer10 != nil {
		p.FreqPer10 = *body.FreqPer10
	}
	if body.Severity != nil {
		p.Severity = *body.Severity
	}
	if body.StepDelayMs != nil {
		p.StepDelay = time.Duration(*body.StepDelayMs) * time.Millisecond
	}
	if body.Algo != nil {
		p.Algo = *body.Algo
	}
	applied := h.Sim.SetParams(p)
	ctx.JSON(consts.StatusOK, toParamsView(applied))
}

func (h Handler) solve(c context.Context, ctx *app.RequestContext) {
	var body solveRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	topology := direction.Cardinal4
	if body.Topology != "" {
		t, err := direction.ParseTopology(body.Topology)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
			return
		}
		topology = t
	}
	resp, err := h.SolveUC.Execute(c, solve.Request{
		Topology: topology,
		Algo:     body.Algo,
		Grid:     body.Grid,
		Start:    body.Start,
		End:      body.End,
		Safe:     body.Safe,
		Radius:   body.Radius,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

func toStatusView(st simclock.Status) statusView {
	return statusView{
		State:  string(st.State),
		RunID:  st.RunID,
		Step:   st.Step,
		Status: st.Status,
		Done:   st.Done,
		Error:  st.Error,
		Params: toParamsView(st.Params),
	}
}

func toParamsView(p simclock.Params) paramsView {
	return paramsView{
		FreqPer10:     p.FreqPer10,
		Severity:      p.Severity,
		StepDelayMs:   p.StepDelay.Milliseconds(),
		Algo:          p.Algo,
		IntervalTicks: simclock.IntervalTicks(p.FreqPer10),
	}
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, solve.ErrInvalidRequest),
		errors.Is(err, direction.ErrUnknownTopology):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, solve.ErrNoPath):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "no_path", err.Error())
	case errors.Is(err, ports.ErrTransport):
		writeErrorBody(ctx, consts.StatusBadGateway, "planner_unreachable", err.Error())
	case errors.Is(err, ports.ErrPlannerFailure):
		writeErrorBody(ctx, consts.StatusBadGateway, "planner_error", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, simclock.ErrClosed):
		writeErrorBody(ctx, consts.StatusConflict, "closed", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
