package ui

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/game"
	"github.com/pthm-cable/birdies/vmath"
)

func testSim(t *testing.T) (*game.Simulation, *rand.Rand) {
	t.Helper()
	cfg := config.Default()
	cfg.World.Animals = 4
	cfg.World.Foods = 6
	cfg.Evolution.GenerationLength = 10
	rng := rand.New(rand.NewSource(1))
	return game.New(cfg, rng), rng
}

func TestHUDLines(t *testing.T) {
	sim, rng := testSim(t)

	lines := NewHUDData(sim, 4, true).Lines()
	if len(lines) != hudRows {
		t.Fatalf("got %d lines, want %d", len(lines), hudRows)
	}
	if !strings.Contains(lines[1], "Animals: 4") || !strings.Contains(lines[1], "Foods: 6") {
		t.Errorf("counts line = %q", lines[1])
	}
	if lines[3] != "Last: -" {
		t.Errorf("report line before any generation = %q", lines[3])
	}
	if lines[4] != "PAUSED" {
		t.Errorf("status = %q", lines[4])
	}

	sim.Train(rng)
	lines = NewHUDData(sim, 4, false).Lines()
	if !strings.Contains(lines[2], "Generation: 1") {
		t.Errorf("generation line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "Last: min") {
		t.Errorf("report line = %q", lines[3])
	}
	if lines[4] != "Running" {
		t.Errorf("status = %q", lines[4])
	}
}

func TestCellFor(t *testing.T) {
	tests := []struct {
		name string
		p    vmath.Vec2
		x, y int
	}{
		{"origin is bottom left", vmath.Vec2{X: 0, Y: 0}, 0, 9},
		{"top right", vmath.Vec2{X: 0.999, Y: 0.999}, 19, 0},
		{"center", vmath.Vec2{X: 0.5, Y: 0.5}, 10, 5},
		{"clamped past one", vmath.Vec2{X: 1, Y: 1}, 19, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := cellFor(tt.p, 20, 10)
			if x != tt.x || y != tt.y {
				t.Errorf("cellFor(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestArrowFor(t *testing.T) {
	tests := []struct {
		rotation float64
		want     rune
	}{
		{0, '↑'},
		{math.Pi / 2, '←'},
		{-math.Pi / 2, '→'},
		{math.Pi, '↓'},
		{-math.Pi, '↓'},
		{math.Pi / 4, '↖'},
		{-math.Pi / 4, '↗'},
		{3 * math.Pi / 4, '↙'},
		{-3 * math.Pi / 4, '↘'},
	}
	for _, tt := range tests {
		if got := arrowFor(tt.rotation); got != tt.want {
			t.Errorf("arrowFor(%g) = %q, want %q", tt.rotation, got, tt.want)
		}
	}
}

func TestScreenDirFlipsY(t *testing.T) {
	d := screenDir(vmath.Forward(0))
	if d.Y >= 0 {
		t.Errorf("heading 0 should point up on screen, got %+v", d)
	}
	d = screenDir(vmath.Forward(-math.Pi / 2))
	if d.X <= 0 {
		t.Errorf("heading -pi/2 should point right on screen, got %+v", d)
	}
}

func TestScreenPositions(t *testing.T) {
	sim, rng := testSim(t)
	w := NewWindow(sim, rng)

	got := w.screenPositions(vmath.Vec2{X: 0.5, Y: 0.5}, 5)
	if len(got) != 1 || got[0].X != 400 || got[0].Y != 400 {
		t.Errorf("center of an 800x800 window = %+v", got)
	}

	w.camera.SetZoom(4)
	if got := w.screenPositions(vmath.Vec2{X: 0.95, Y: 0.95}, 5); len(got) != 0 {
		t.Errorf("point outside a zoomed view is drawn at %+v", got)
	}
}

func TestStepsPerFrameBounds(t *testing.T) {
	if got := slower(1); got != 1 {
		t.Errorf("slower(1) = %d", got)
	}
	if got := faster(maxStepsPerFrame); got != maxStepsPerFrame {
		t.Errorf("faster(max) = %d", got)
	}
	if got := faster(3); got != 6 {
		t.Errorf("faster(3) = %d", got)
	}
}

func TestTerminalKeys(t *testing.T) {
	sim, rng := testSim(t)
	var reports []game.Report
	term := &Terminal{sim: sim, rng: rng, stepsPerTick: 2}
	term.OnGeneration = func(r game.Report) { reports = append(reports, r) }

	if !term.handleKey(tcell.KeyRune, 'p') || !term.paused {
		t.Error("p should pause")
	}
	if !term.handleKey(tcell.KeyRune, '+') || term.stepsPerTick != 4 {
		t.Errorf("+ gives %d steps", term.stepsPerTick)
	}
	if !term.handleKey(tcell.KeyRune, '-') || term.stepsPerTick != 2 {
		t.Errorf("- gives %d steps", term.stepsPerTick)
	}
	if !term.handleKey(tcell.KeyRune, 't') {
		t.Error("t should keep running")
	}
	if len(reports) != 1 || reports[0].Generation != 1 || sim.Generation() != 1 {
		t.Errorf("train reports = %+v", reports)
	}
	if !term.handleKey(tcell.KeyUp, 0) {
		t.Error("unbound keys should keep running")
	}
	if term.handleKey(tcell.KeyRune, 'q') {
		t.Error("q should quit")
	}
	if term.handleKey(tcell.KeyEscape, 0) {
		t.Error("escape should quit")
	}
}

func TestKeepRunning(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		closed bool
		want   bool
	}{
		{"running", context.Background(), false, true},
		{"window closed", context.Background(), true, false},
		{"interrupted", cancelled, false, false},
	}
	for _, tt := range tests {
		if got := keepRunning(tt.ctx, tt.closed); got != tt.want {
			t.Errorf("%s: keepRunning = %v, want %v", tt.name, got, tt.want)
		}
	}
}
