package grid

// Trail is the append-only record of positions an agent has occupied.
// Consecutive duplicates are never stored and only Reset shortens it.
type Trail struct {
	points []Position
}

func NewTrail(seed Position) *Trail {
	return &Trail{points: []Position{seed}}
}

func (t *Trail) Append(p Position) bool {
	if last, ok := t.Last(); ok && last == p {
		return false
	}
	t.points = append(t.points, p)
	return true
}

func (t *Trail) Last() (Position, bool) {
	if len(t.points) == 0 {
		return Position{}, false
	}
	return t.points[len(t.points)-1], true
}

func (t *Trail) Len() int {
	return len(t.points)
}

func (t *Trail) Reset(seed Position) {
	t.points = append(t.points[:0:0], seed)
}

// Points returns a copy safe to hand to readers.
func (t *Trail) Points() Path {
	return append(Path(nil), t.points...)
}
