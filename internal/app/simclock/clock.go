package simclock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quakenav/internal/app/ports"
	"quakenav/internal/app/reconcile"
	"quakenav/internal/app/sequencer"
	"quakenav/internal/domain/grid"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

const defaultGridSize = 20

var ErrClosed = errors.New("simulation clock closed")

type Config struct {
	Planner  ports.StepPlanner
	Baseline ports.BaselineLoader
	Renderer ports.Renderer
	Metrics  ports.SimMetrics
	Logger   *zap.Logger
	Params   Params
	// GridSize is the side of the empty grid used when no baseline is stored.
	GridSize int
	NewRunID func() string
}

type Status struct {
	State  State  `json:"state"`
	RunID  string `json:"run_id"`
	Step   int    `json:"step"`
	Status string `json:"status"`
	Done   bool   `json:"done"`
	Error  string `json:"error,omitempty"`
	Params Params `json:"params"`

	Err error `json:"-"`
}

// Clock owns one simulation run: its state machine, its single timer and all
// mutable grid/agent/trail state.
type Clock struct {
	cfg     Config
	log     *zap.Logger
	metrics ports.SimMetrics
	seq     *sequencer.Sequencer[ports.StepResult]
	base    context.Context
	stop    context.CancelFunc

	mu      sync.Mutex
	state   State
	sim     *reconcile.State
	params  Params
	epoch   uint64
	timer   *time.Timer
	runID   string
	step    int
	status  string
	done    bool
	lastErr error
	closed  bool
	changed chan struct{}
}

func New(ctx context.Context, cfg Config) (*Clock, error) {
	if cfg.Planner == nil {
		return nil, errors.New("simclock: planner is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.NewRunID == nil {
		cfg.NewRunID = uuid.NewString
	}
	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}
	if cfg.GridSize <= 0 {
		cfg.GridSize = defaultGridSize
	}

	b, _, err := loadBaseline(ctx, cfg.Baseline, cfg.GridSize)
	if err != nil {
		return nil, fmt.Errorf("simclock: load baseline: %w", err)
	}
	base, stop := context.WithCancel(context.Background())
	c := &Clock{
		cfg:     cfg,
		log:     cfg.Logger.Named("simclock"),
		metrics: cfg.Metrics,
		seq:     sequencer.New[ports.StepResult](),
		base:    base,
		stop:    stop,
		state:   Idle,
		sim:     reconcile.NewState(b),
		params:  cfg.Params.Normalize(),
		runID:   cfg.NewRunID(),
		status:  "ready",
		changed: make(chan struct{}),
	}
	return c, nil
}

// DefaultBaseline is an empty size x size grid from the top-left corner to
// the bottom-right corner.
func DefaultBaseline(size int) ports.Baseline {
	if size <= 0 {
		size = defaultGridSize
	}
	return ports.Baseline{
		Grid:  grid.New(size, size),
		Start: grid.Position{Row: 0, Col: 0},
		Goal:  grid.Position{Row: size - 1, Col: size - 1},
	}
}

func loadBaseline(ctx context.Context, loader ports.BaselineLoader, size int) (ports.Baseline, bool, error) {
	if loader == nil {
		return DefaultBaseline(size), false, nil
	}
	b, err := loader.LoadBaseline(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		return DefaultBaseline(size), false, nil
	}
	if err != nil {
		return ports.Baseline{}, false, err
	}
	if err := b.Grid.Validate(); err != nil {
		return ports.Baseline{}, false, err
	}
	if !b.Grid.InBounds(b.Start) {
		b.Start = grid.Position{}
	}
	if !b.Grid.InBounds(b.Goal) {
		b.Goal = grid.Position{Row: b.Grid.Rows() - 1, Col: b.Grid.Cols() - 1}
	}
	return b, true, nil
}

// Start moves Idle or Paused to Running. It reports false if the clock was
// already running or is closed.
func (c *Clock) Start() bool {
	c.mu.Lock()
	if c.closed || c.state == Running {
		c.mu.Unlock()
		return false
	}
	from := c.state
	c.state = Running
	c.epoch++
	c.done = false
	c.lastErr = nil
	c.status = "running"
	epoch := c.epoch
	c.notifyLocked()
	c.log.Info("simulation started", zap.String("run_id", c.runID), zap.String("from", string(from)))
	c.mu.Unlock()

	go c.tick(epoch)
	return true
}

func (c *Clock) Resume() bool {
	c.mu.Lock()
	paused := c.state == Paused
	c.mu.Unlock()
	if !paused {
		return false
	}
	return c.Start()
}

// Pause cancels the in-flight request and the pending timer without touching
// simulation state.
func (c *Clock) Pause() bool {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return false
	}
	c.haltLocked()
	c.state = Paused
	c.status = "paused"
	c.notifyLocked()
	c.log.Info("simulation paused", zap.String("run_id", c.runID), zap.Int("step", c.step))
	frame := c.frameLocked()
	c.mu.Unlock()

	c.render(frame)
	return true
}

// Reset cancels all pending work, returns to Idle and reloads the baseline.
// Without a stored baseline the current terrain is kept and only the agent,
// trail and planner state are reseeded.
func (c *Clock) Reset(ctx context.Context) error {
	b, found, loadErr := loadBaseline(ctx, c.cfg.Baseline, c.cfg.GridSize)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.haltLocked()
	c.state = Idle
	c.done = false
	c.lastErr = nil
	if loadErr != nil {
		c.status = "reset failed"
		c.notifyLocked()
		c.mu.Unlock()
		c.log.Warn("baseline reload failed", zap.Error(loadErr))
		return fmt.Errorf("simclock: reset: %w", loadErr)
	}
	if found {
		c.sim.Reset(b)
	} else {
		c.sim.Restart()
	}
	c.step = 0
	c.runID = c.cfg.NewRunID()
	c.status = "reset"
	c.notifyLocked()
	c.log.Info("simulation reset", zap.String("run_id", c.runID), zap.Bool("baseline_found", found))
	frame := c.frameLocked()
	c.mu.Unlock()

	c.render(frame)
	return nil
}

// Close stops the clock for good.
func (c *Clock) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.haltLocked()
	if c.state == Running {
		c.state = Paused
	}
	c.notifyLocked()
	c.mu.Unlock()
	c.stop()
}

func (c *Clock) SetParams(p Params) Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = p.Normalize()
	return c.params
}

func (c *Clock) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *Clock) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Clock) Frame() ports.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked()
}

// Wait blocks until the clock is no longer Running.
func (c *Clock) Wait(ctx context.Context) (Status, error) {
	for {
		c.mu.Lock()
		if c.state != Running {
			st := c.statusLocked()
			c.mu.Unlock()
			return st, nil
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return c.Status(), ctx.Err()
		}
	}
}

func (c *Clock) tick(epoch uint64) {
	c.mu.Lock()
	if c.state != Running || c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	req := c.requestLocked()
	runID := c.runID
	c.mu.Unlock()

	res := c.seq.Submit(c.base, func(ctx context.Context) (ports.StepResult, error) {
		return c.cfg.Planner.Step(ctx, req)
	})

	c.mu.Lock()
	if c.state != Running || c.epoch != epoch || errors.Is(res.Err, sequencer.ErrSuperseded) {
		c.mu.Unlock()
		c.metrics.RecordDiscard()
		c.log.Debug("discarded stale step response", zap.String("run_id", runID), zap.Uint64("generation", res.Gen))
		return
	}
	if res.Err != nil {
		err := res.Err
		if !errors.Is(err, ports.ErrTransport) {
			err = fmt.Errorf("%w: %v", ports.ErrTransport, err)
		}
		c.failLocked(err, "request failed: "+res.Err.Error())
		frame := c.frameLocked()
		c.mu.Unlock()
		c.render(frame)
		return
	}

	var out reconcile.Outcome
	if !c.seq.Commit(res.Gen, func() { out = reconcile.Apply(c.sim, res.Value) }) {
		c.mu.Unlock()
		c.metrics.RecordDiscard()
		return
	}

	switch {
	case out.Failed:
		c.failLocked(out.Err, "planner error")
	case out.Terminal:
		c.step++
		c.state = Idle
		c.done = true
		c.status = "arrived"
		c.notifyLocked()
		c.metrics.RecordStep(out.ChangedCells)
		c.metrics.RecordCompletion()
		c.log.Info("simulation finished",
			zap.String("run_id", runID),
			zap.Int("step", c.step),
			zap.Int("trail", c.sim.Trail.Len()),
			zap.String("reason", out.Reason))
	default:
		c.step++
		c.status = "running"
		if out.Reason != "" {
			c.status = "continuing (" + out.Reason + ")"
		}
		c.metrics.RecordStep(out.ChangedCells)
		c.log.Debug("step reconciled",
			zap.String("run_id", runID),
			zap.Int("step", c.step),
			zap.Int("changed", out.ChangedCells),
			zap.Int("skipped", out.SkippedCells),
			zap.Bool("moved", out.Moved),
			zap.String("reason", out.Reason))
		c.timer = time.AfterFunc(c.params.StepDelay, func() { c.tick(epoch) })
	}
	frame := c.frameLocked()
	c.mu.Unlock()

	c.render(frame)
}

func (c *Clock) requestLocked() ports.StepRequest {
	p := c.params
	return ports.StepRequest{
		Grid:          c.sim.Grid.Clone(),
		Start:         c.sim.Start,
		Goal:          c.sim.Goal,
		Agent:         c.sim.Agent,
		IntervalTicks: IntervalTicks(p.FreqPer10),
		FreqPer10:     p.FreqPer10,
		Severity:      p.Severity,
		Algo:          p.Algo,
		State:         append([]byte(nil), c.sim.Token...),
		ReturnDelta:   true,
	}
}

func (c *Clock) failLocked(err error, status string) {
	c.state = Idle
	c.lastErr = err
	c.status = status
	c.notifyLocked()
	c.metrics.RecordFailure()
	c.log.Warn("simulation stopped on failure", zap.String("run_id", c.runID), zap.Int("step", c.step), zap.Error(err))
}

func (c *Clock) haltLocked() {
	c.epoch++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq.Cancel()
}

func (c *Clock) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Clock) statusLocked() Status {
	st := Status{
		State:  c.state,
		RunID:  c.runID,
		Step:   c.step,
		Status: c.status,
		Done:   c.done,
		Params: c.params,
		Err:    c.lastErr,
	}
	if c.lastErr != nil {
		st.Error = c.lastErr.Error()
	}
	return st
}

func (c *Clock) frameLocked() ports.Frame {
	return ports.Frame{
		RunID:  c.runID,
		Step:   c.step,
		State:  string(c.state),
		Status: c.status,
		Grid:   c.sim.Grid.Clone(),
		Start:  c.sim.Start,
		Goal:   c.sim.Goal,
		Agent:  c.sim.Agent,
		Trail:  c.sim.Trail.Points(),
		Done:   c.done,
	}
}

func (c *Clock) render(frame ports.Frame) {
	if c.cfg.Renderer != nil {
		c.cfg.Renderer.Render(frame)
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordStep(int)    {}
func (nopMetrics) RecordDiscard()    {}
func (nopMetrics) RecordFailure()    {}
func (nopMetrics) RecordCompletion() {}
