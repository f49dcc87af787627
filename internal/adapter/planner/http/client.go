package plannerhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/direction"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

var errNotObject = errors.New("response is not a json object")

type Config struct {
	BaseURL           string
	StepPath          string
	SolvePath         string
	SolveExtendedPath string
	DialTimeout       time.Duration
	ReadTimeout       time.Duration
	ExtendedRadius    int
	Logger            *zap.Logger
}

func DefaultConfig() Config {
	return Config{
		BaseURL:           "http://localhost:9999",
		StepPath:          "/api/dynamic-step",
		SolvePath:         "/api/solve",
		SolveExtendedPath: "/api/solve-extended",
		DialTimeout:       5 * time.Second,
		ReadTimeout:       30 * time.Second,
		ExtendedRadius:    2,
	}
}

// Client talks to the remote planner over HTTP/JSON. It implements both
// ports.StepPlanner and ports.StaticPlanner.
type Client struct {
	cfg Config
	hc  *client.Client
	log *zap.Logger
}

func NewClient(cfg Config) (*Client, error) {
	def := DefaultConfig()
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StepPath == "" {
		cfg.StepPath = def.StepPath
	}
	if cfg.SolvePath == "" {
		cfg.SolvePath = def.SolvePath
	}
	if cfg.SolveExtendedPath == "" {
		cfg.SolveExtendedPath = def.SolveExtendedPath
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = def.DialTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.ExtendedRadius <= 0 {
		cfg.ExtendedRadius = def.ExtendedRadius
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	opts := []config.ClientOption{client.WithDialTimeout(cfg.DialTimeout)}
	// A cancelled exchange is abandoned, not interrupted; the read timeout
	// bounds how long its goroutine and connection outlive the caller.
	opts = append(opts, client.WithClientReadTimeout(cfg.ReadTimeout))
	hc, err := client.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("new planner client: %w", err)
	}
	return &Client{cfg: cfg, hc: hc, log: cfg.Logger.Named("planner")}, nil
}

func (c *Client) Step(ctx context.Context, req ports.StepRequest) (ports.StepResult, error) {
	req.ReturnDelta = true
	body, status, err := c.post(ctx, c.cfg.StepPath, req)
	if err != nil {
		return ports.StepResult{}, err
	}
	res, err := decodeStepResult(body)
	if err != nil {
		return ports.StepResult{}, fmt.Errorf("%w: status %d: %v", ports.ErrTransport, status, err)
	}
	if !res.OK {
		c.log.Debug("planner rejected step", zap.Int("status", status), zap.String("error", res.Error))
	}
	return res, nil
}

func (c *Client) Solve(ctx context.Context, req ports.SolveRequest) (ports.SolveResult, error) {
	path := c.cfg.SolvePath
	payload := solveRequest{
		Grid:  req.Grid,
		Start: req.Start,
		End:   req.End,
	}
	switch req.Topology {
	case direction.Cardinal4:
		safe := req.Safe
		payload.Algo = req.Algo
		payload.Safe = &safe
	case direction.Extended24:
		path = c.cfg.SolveExtendedPath
		payload.Radius = req.Radius
		if payload.Radius <= 0 {
			payload.Radius = c.cfg.ExtendedRadius
		}
	default:
		return ports.SolveResult{}, direction.ErrUnknownTopology
	}

	body, status, err := c.post(ctx, path, payload)
	if err != nil {
		return ports.SolveResult{}, err
	}
	res, err := decodeSolveResult(body)
	if err != nil {
		return ports.SolveResult{}, fmt.Errorf("%w: status %d: %v", ports.ErrTransport, status, err)
	}
	return res, nil
}

// post returns the raw body regardless of HTTP status; the planner reports
// its own failures in the body. Only an exchange that could not complete is
// an error. Cancelling ctx abandons the exchange immediately.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode planner request: %w", err)
	}
	req := &protocol.Request{}
	resp := &protocol.Response{}
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.cfg.BaseURL + path)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(b)

	done := make(chan error, 1)
	go func() {
		done <- c.hc.Do(ctx, req, resp)
	}()

	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s: %v", ports.ErrTransport, path, err)
		}
	}
	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	c.log.Debug("planner exchange", zap.String("path", path), zap.Int("status", status), zap.Int("bytes", len(body)))
	return body, status, nil
}

var _ ports.StepPlanner = (*Client)(nil)
var _ ports.StaticPlanner = (*Client)(nil)
