package plannerhttp

import (
	"bytes"
	"encoding/json"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/direction"
	"quakenav/internal/domain/grid"
)

type solveRequest struct {
	Algo   string        `json:"algo,omitempty"`
	Grid   grid.Grid     `json:"grid"`
	Start  grid.Position `json:"start"`
	End    grid.Position `json:"end"`
	Safe   *bool         `json:"safe,omitempty"`
	Radius int           `json:"radius,omitempty"`
}

// The planner's responses are decoded field by field so that one malformed
// member falls back to "absent" instead of failing the whole exchange.
type object map[string]json.RawMessage

func decodeObject(body []byte) (object, error) {
	var obj object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

func (o object) present(key string) bool {
	raw, ok := o[key]
	return ok && !isNull(raw)
}

func (o object) bool(key string) bool {
	var v bool
	if o.present(key) {
		_ = json.Unmarshal(o[key], &v)
	}
	return v
}

func (o object) string(key string) string {
	var v string
	if o.present(key) {
		_ = json.Unmarshal(o[key], &v)
	}
	return v
}

func (o object) position(key string) *grid.Position {
	if !o.present(key) {
		return nil
	}
	return decodePosition(o[key])
}

func decodeStepResult(body []byte) (ports.StepResult, error) {
	o, err := decodeObject(body)
	if err != nil {
		return ports.StepResult{}, err
	}
	res := ports.StepResult{
		OK:     o.bool("ok"),
		Start:  o.position("start"),
		Goal:   o.position("goal"),
		Agent:  o.position("agent"),
		Done:   o.bool("done"),
		Reason: o.string("reason"),
		Error:  o.string("error"),
	}
	if o.present("changed") {
		res.Changed = decodeDeltas(o["changed"])
	}
	if res.Changed == nil && o.present("grid") {
		var g grid.Grid
		if err := json.Unmarshal(o["grid"], &g); err == nil && g.Validate() == nil {
			res.Grid = g
		}
	}
	if o.present("aftershockState") {
		res.State = append(json.RawMessage(nil), bytes.TrimSpace(o["aftershockState"])...)
	}
	return res, nil
}

func decodeSolveResult(body []byte) (ports.SolveResult, error) {
	o, err := decodeObject(body)
	if err != nil {
		return ports.SolveResult{}, err
	}
	res := ports.SolveResult{OK: o.bool("ok"), Error: o.string("error")}
	if !o.present("triplets") {
		res.OK = false
		return res, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(o["triplets"], &entries); err != nil {
		res.OK = false
		return res, nil
	}
	res.Triplets = make([]direction.Triplet, 0, len(entries))
	for _, raw := range entries {
		var t direction.Triplet
		_ = json.Unmarshal(raw, &t)
		res.Triplets = append(res.Triplets, t)
	}
	return res, nil
}

// decodeDeltas returns nil when changed is not a list. Entries that are not
// objects are dropped.
func decodeDeltas(raw json.RawMessage) []ports.CellDelta {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	out := make([]ports.CellDelta, 0, len(entries))
	for _, e := range entries {
		o, err := decodeObject(e)
		if err != nil {
			continue
		}
		r, okR := number(o["r"])
		c, okC := number(o["c"])
		if !okR || !okC {
			continue
		}
		v, _ := number(o["val"])
		out = append(out, ports.CellDelta{Row: r, Col: c, Value: v})
	}
	return out
}

// decodePosition accepts {"r":..,"c":..} and [r, c].
func decodePosition(raw json.RawMessage) *grid.Position {
	if o, err := decodeObject(raw); err == nil {
		r, okR := number(o["r"])
		c, okC := number(o["c"])
		if !okR || !okC {
			return nil
		}
		return &grid.Position{Row: r, Col: c}
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
		return nil
	}
	r, okR := number(pair[0])
	c, okC := number(pair[1])
	if !okR || !okC {
		return nil
	}
	return &grid.Position{Row: r, Col: c}
}

func number(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return int(f), true
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
