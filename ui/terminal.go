package ui

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/birdies/game"
	"github.com/pthm-cable/birdies/vmath"
)

// hudRows is the number of terminal rows reserved above the field.
const hudRows = 5

// arrows are indexed by octant, counter-clockwise from east.
var arrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

var (
	foodStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	animalStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Terminal renders a simulation in a text terminal.
type Terminal struct {
	sim    *game.Simulation
	rng    *rand.Rand
	screen tcell.Screen
	chime  *Chime

	stepsPerTick int
	paused       bool

	// OnGeneration is called after every finished generation.
	OnGeneration func(game.Report)
}

// NewTerminal takes over the terminal. chime may be nil.
func NewTerminal(sim *game.Simulation, rng *rand.Rand, chime *Chime) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	return &Terminal{
		sim:          sim,
		rng:          rng,
		screen:       screen,
		chime:        chime,
		stepsPerTick: max(sim.Config().Screen.StepsPerFrame, 1),
	}, nil
}

// Run drives the simulation until the user quits or ctx is done.
// The terminal is restored on return.
func (t *Terminal) Run(ctx context.Context) {
	defer t.screen.Fini()

	fps := max(t.sim.Config().Screen.TargetFPS, 1)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !t.handleKey(ev.Key(), ev.Rune()) {
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}

		case <-ticker.C:
			if !t.paused {
				for i := 0; i < t.stepsPerTick; i++ {
					if _, ok := t.sim.Step(t.rng); ok {
						t.generationDone()
					}
				}
			}
			t.draw()
		}
	}
}

// handleKey applies a key press and reports whether to keep running.
func (t *Terminal) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q':
		return false
	case 'p', ' ':
		t.paused = !t.paused
	case 't':
		t.sim.Train(t.rng)
		t.generationDone()
	case '+', '=':
		t.stepsPerTick = faster(t.stepsPerTick)
	case '-':
		t.stepsPerTick = slower(t.stepsPerTick)
	}
	return true
}

func (t *Terminal) generationDone() {
	t.chime.Play()
	if t.OnGeneration == nil {
		return
	}
	if report, ok := t.sim.LastReport(); ok {
		t.OnGeneration(report)
	}
}

func (t *Terminal) draw() {
	t.screen.Clear()
	width, height := t.screen.Size()

	for i, line := range NewHUDData(t.sim, t.stepsPerTick, t.paused).Lines() {
		style := hudStyle
		switch {
		case i == 0:
			style = titleStyle
		case i == hudRows-1:
			style = statusStyle
		}
		drawString(t.screen, 0, i, line, style)
	}

	fieldHeight := height - hudRows
	if fieldHeight > 0 && width > 0 {
		for _, f := range t.sim.World().Foods() {
			x, y := cellFor(f.Position, width, fieldHeight)
			t.screen.SetContent(x, y+hudRows, '·', nil, foodStyle)
		}
		for _, a := range t.sim.World().Animals() {
			x, y := cellFor(a.Position, width, fieldHeight)
			t.screen.SetContent(x, y+hudRows, arrowFor(a.Rotation), nil, animalStyle)
		}
	}

	t.screen.Show()
}

func drawString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// cellFor maps a world point to a terminal cell in a width x height field.
// World +y points up.
func cellFor(p vmath.Vec2, width, height int) (int, int) {
	x := int(p.X * float64(width))
	y := int((1 - p.Y) * float64(height))
	return min(max(x, 0), width-1), min(max(y, 0), height-1)
}

// arrowFor returns the arrow closest to the heading of rotation.
func arrowFor(rotation float64) rune {
	f := vmath.Forward(rotation)
	octant := int(math.Round(math.Atan2(f.Y, f.X) / (math.Pi / 4)))
	return arrows[(octant%8+8)%8]
}
