package simclock

import (
	"math"
	"strings"
	"time"
)

const (
	minFreqPer10 = 1
	maxFreqPer10 = 5
)

// Params are read fresh on every tick, so changes apply from the next step.
type Params struct {
	FreqPer10 int           `json:"freqPer10" yaml:"freq_per_10"`
	Severity  float64       `json:"severity" yaml:"severity"`
	StepDelay time.Duration `json:"stepDelay" yaml:"step_delay"`
	Algo      string        `json:"algo" yaml:"algo"`
}

func DefaultParams() Params {
	return Params{
		FreqPer10: 2,
		Severity:  0.2,
		StepDelay: 200 * time.Millisecond,
		Algo:      "astar",
	}
}

func (p Params) Normalize() Params {
	p.FreqPer10 = clampFreq(p.FreqPer10)
	if math.IsNaN(p.Severity) || p.Severity < 0 {
		p.Severity = 0
	}
	if p.Severity > 1 {
		p.Severity = 1
	}
	if p.StepDelay < 0 {
		p.StepDelay = 0
	}
	p.Algo = strings.TrimSpace(p.Algo)
	if p.Algo == "" {
		p.Algo = DefaultParams().Algo
	}
	return p
}

// IntervalTicks converts "aftershocks per 10 ticks" into the planner's mean
// tick interval.
func IntervalTicks(freqPer10 int) int {
	n := clampFreq(freqPer10)
	return max(1, int(math.Round(10/float64(n))))
}

func clampFreq(n int) int {
	return min(maxFreqPer10, max(minFreqPer10, n))
}
