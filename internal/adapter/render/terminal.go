package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/grid"

	"github.com/charmbracelet/lipgloss"
)

var (
	freeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A5568"))
	obstacleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	trailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	agentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	endpointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#999999"))
)

// Terminal draws each frame as a boxed character grid.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	clear bool
}

// NewTerminal returns a renderer writing to out. When clear is set every
// frame is preceded by an ANSI clear-screen sequence.
func NewTerminal(out io.Writer, clear bool) *Terminal {
	return &Terminal{out: out, clear: clear}
}

func (t *Terminal) Render(frame ports.Frame) {
	text := Draw(frame)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.clear {
		_, _ = io.WriteString(t.out, "\x1b[H\x1b[2J")
	}
	_, _ = io.WriteString(t.out, text+"\n")
}

// Draw renders frame to a string. Precedence per cell: agent, start/goal,
// obstacle, trail mark, free. An aftershock that blocks a visited cell shows
// as an obstacle.
func Draw(frame ports.Frame) string {
	onTrail := make(map[grid.Position]bool, len(frame.Trail))
	for _, p := range frame.Trail {
		onTrail[p] = true
	}

	var b strings.Builder
	for r, row := range frame.Grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, v := range row {
			p := grid.Position{Row: r, Col: c}
			switch {
			case p == frame.Agent:
				b.WriteString(agentStyle.Render("@"))
			case p == frame.Start:
				b.WriteString(endpointStyle.Render("S"))
			case p == frame.Goal:
				b.WriteString(endpointStyle.Render("G"))
			case v == grid.Obstacle:
				b.WriteString(obstacleStyle.Render("#"))
			case onTrail[p]:
				b.WriteString(trailStyle.Render("*"))
			default:
				b.WriteString(freeStyle.Render("."))
			}
		}
	}

	header := statusStyle.Render(fmt.Sprintf("step %d  %s  %s", frame.Step, frame.State, frame.Status))
	return lipgloss.JoinVertical(lipgloss.Left, header, boxStyle.Render(b.String()))
}

var _ ports.Renderer = (*Terminal)(nil)
