package render

import (
	"bytes"
	"strings"
	"testing"

	"quakenav/internal/app/ports"
	"quakenav/internal/domain/grid"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sampleFrame() ports.Frame {
	g := grid.New(3, 3)
	g[1][1] = grid.Obstacle
	return ports.Frame{
		Step:   4,
		State:  "running",
		Status: "continuing (replanned)",
		Grid:   g,
		Start:  grid.Position{Row: 0, Col: 0},
		Goal:   grid.Position{Row: 2, Col: 2},
		Agent:  grid.Position{Row: 0, Col: 2},
		Trail:  grid.Path{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
	}
}

func TestDraw_Glyphs(t *testing.T) {
	out := Draw(sampleFrame())
	for _, want := range []string{"S*@", ".#.", "..G", "step 4", "continuing (replanned)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTerminal_WritesFrame(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, false).Render(sampleFrame())
	if !strings.Contains(buf.String(), "S*@") {
		t.Fatalf("expected grid row in output, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[2J") {
		t.Fatalf("unexpected clear sequence")
	}
}

func TestLatestAndMulti(t *testing.T) {
	a, b := NewLatest(), NewLatest()
	if _, ok := a.Frame(); ok {
		t.Fatalf("expected no frame before first render")
	}
	Multi{a, nil, b}.Render(sampleFrame())
	fa, ok := a.Frame()
	if !ok || fa.Step != 4 {
		t.Fatalf("expected frame step 4, got %+v ok=%v", fa, ok)
	}
	if fb, _ := b.Frame(); fb.Agent != (grid.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected second renderer to receive frame")
	}
}

func TestDraw_ObstacleHidesTrail(t *testing.T) {
	f := sampleFrame()
	f.Grid[0][1] = grid.Obstacle
	out := Draw(f)
	if !strings.Contains(out, "S#@") {
		t.Fatalf("expected obstacle over trail cell:\n%s", out)
	}
}
