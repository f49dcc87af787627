package direction

import (
	"encoding/json"
	"errors"
	"strings"

	"quakenav/internal/domain/grid"
)

var ErrUnknownTopology = errors.New("unknown topology")

type Topology string

const (
	Cardinal4  Topology = "cardinal4"
	Extended24 Topology = "extended24"
)

type Vector struct {
	DR int
	DC int
}

var (
	cardinal4 = map[int]Vector{
		1: {DR: 0, DC: 1},
		2: {DR: 1, DC: 0},
		3: {DR: 0, DC: -1},
		4: {DR: -1, DC: 0},
	}
	extended24 = buildExtended(2)

	tables = map[Topology]map[int]Vector{
		Cardinal4:  cardinal4,
		Extended24: extended24,
	}
)

// buildExtended enumerates every offset within radius, row-major from
// (-radius,-radius), skipping the origin. Code i+1 is the i-th offset; stored
// triplets depend on this order.
func buildExtended(radius int) map[int]Vector {
	out := make(map[int]Vector, (2*radius+1)*(2*radius+1)-1)
	code := 1
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			out[code] = Vector{DR: dr, DC: dc}
			code++
		}
	}
	return out
}

func ParseTopology(name string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cardinal4", "cardinal", "4":
		return Cardinal4, nil
	case "extended24", "extended", "24":
		return Extended24, nil
	default:
		return "", ErrUnknownTopology
	}
}

func (t Topology) Size() int {
	return len(tables[t])
}

func (t Topology) Vector(code int) (Vector, bool) {
	v, ok := tables[t][code]
	return v, ok
}

func (t Topology) Code(v Vector) (int, bool) {
	for code, candidate := range tables[t] {
		if candidate == v {
			return code, true
		}
	}
	return 0, false
}

// Triplet is one record of an encoded path. Only the first triplet's Row and
// Col are read; every triplet contributes its Code.
type Triplet struct {
	Row  int
	Col  int
	Code int
}

// UnmarshalJSON accepts [r, c, code]. Missing or non-numeric members decode
// as zero, which Decode treats as an unknown code.
func (t *Triplet) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fields := [3]*int{&t.Row, &t.Col, &t.Code}
	for i, f := range fields {
		*f = 0
		if i < len(raw) {
			var n float64
			if err := json.Unmarshal(raw[i], &n); err == nil {
				*f = int(n)
			}
		}
	}
	return nil
}

func (t Triplet) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{t.Row, t.Col, t.Code})
}

// Decode expands triplets into len(triplets)+1 positions. An unknown code
// repeats the current position instead of failing.
func Decode(topology Topology, triplets []Triplet) grid.Path {
	if len(triplets) == 0 {
		return grid.Path{}
	}
	table := tables[topology]
	cur := grid.Position{Row: triplets[0].Row, Col: triplets[0].Col}
	out := make(grid.Path, 0, len(triplets)+1)
	out = append(out, cur)
	for _, t := range triplets {
		if v, ok := table[t.Code]; ok {
			cur = cur.Add(v.DR, v.DC)
		}
		out = append(out, cur)
	}
	return out
}

// Encode is the inverse of Decode for paths whose consecutive steps are all
// representable in topology.
func Encode(topology Topology, path grid.Path) ([]Triplet, bool) {
	if len(path) < 2 {
		return []Triplet{}, true
	}
	out := make([]Triplet, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		prev := path[i-1]
		code, ok := topology.Code(Vector{DR: path[i].Row - prev.Row, DC: path[i].Col - prev.Col})
		if !ok {
			return nil, false
		}
		out = append(out, Triplet{Row: prev.Row, Col: prev.Col, Code: code})
	}
	return out, true
}
