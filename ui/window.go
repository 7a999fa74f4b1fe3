package ui

import (
	"context"
	"math"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/birdies/camera"
	"github.com/pthm-cable/birdies/game"
	"github.com/pthm-cable/birdies/vmath"
)

const (
	animalRadius = 8
	foodRadius   = 3
)

// Window renders a simulation with raylib and advances it every frame.
type Window struct {
	sim    *game.Simulation
	rng    *rand.Rand
	hud    *HUD
	camera *camera.Camera

	width, height int32
	stepsPerFrame int
	paused        bool

	// OnGeneration is called after every finished generation.
	OnGeneration func(game.Report)
}

// NewWindow creates a viewer for sim sized by the simulation's screen config.
func NewWindow(sim *game.Simulation, rng *rand.Rand) *Window {
	cfg := sim.Config()
	return &Window{
		sim:           sim,
		rng:           rng,
		hud:           NewHUD(),
		camera:        camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height)),
		width:         int32(cfg.Screen.Width),
		height:        int32(cfg.Screen.Height),
		stepsPerFrame: max(cfg.Screen.StepsPerFrame, 1),
	}
}

// Run opens the window and blocks until it is closed or ctx is done.
func (w *Window) Run(ctx context.Context) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(w.width, w.height, "birdies")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(w.sim.Config().Screen.TargetFPS))

	for keepRunning(ctx, rl.WindowShouldClose()) {
		w.handleResize()
		w.handleInput()
		w.handleCameraInput()

		if !w.paused {
			for i := 0; i < w.stepsPerFrame; i++ {
				if _, ok := w.sim.Step(w.rng); ok {
					w.generationDone()
				}
			}
		}

		w.draw()
	}
}

func (w *Window) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		w.paused = !w.paused
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		w.stepsPerFrame = slower(w.stepsPerFrame)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		w.stepsPerFrame = faster(w.stepsPerFrame)
	}
	if rl.IsKeyPressed(rl.KeyT) {
		w.train()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w.width = int32(rl.GetScreenWidth())
	w.height = int32(rl.GetScreenHeight())
	w.camera.Resize(float64(w.width), float64(w.height))
}

// handleCameraInput processes camera pan/zoom controls.
func (w *Window) handleCameraInput() {
	const panSpeed = 8.0

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		w.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		w.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		w.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		w.camera.Pan(0, -panSpeed)
	}

	// Right drag pans with the cursor
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		w.camera.Pan(-float64(d.X), -float64(d.Y))
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		w.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		w.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		w.camera.Reset()
	}
}

func (w *Window) train() {
	w.sim.Train(w.rng)
	w.generationDone()
}

func (w *Window) generationDone() {
	if w.OnGeneration == nil {
		return
	}
	if report, ok := w.sim.LastReport(); ok {
		w.OnGeneration(report)
	}
}

func (w *Window) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	scale := float32(w.camera.Zoom)
	for _, f := range w.sim.World().Foods() {
		for _, p := range w.screenPositions(f.Position, foodRadius*scale) {
			rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, foodRadius*scale, rl.Green)
		}
	}
	for _, a := range w.sim.World().Animals() {
		for _, p := range w.screenPositions(a.Position, animalRadius*1.5*scale) {
			drawAnimal(rl.Vector2{X: p.X, Y: p.Y}, a.Rotation, animalRadius*scale)
		}
	}

	w.hud.Draw(NewHUDData(w.sim, w.stepsPerFrame, w.paused))

	buttonX := float32(w.width) - 130
	if gui.Button(rl.Rectangle{X: buttonX, Y: 10, Width: 120, Height: 30}, "Train") {
		w.train()
	}
	if gui.Button(rl.Rectangle{X: buttonX, Y: 50, Width: 120, Height: 30}, toggleText(w.paused, "Resume", "Pause")) {
		w.paused = !w.paused
	}

	rl.EndDrawing()
}

// screenPositions returns every on-screen copy of a world point.
func (w *Window) screenPositions(p vmath.Vec2, radius float32) []camera.Point {
	var out []camera.Point
	if w.camera.IsVisible(p, float64(radius)) {
		out = append(out, w.camera.WorldToScreen(p))
	}
	return append(out, w.camera.GhostPositions(p, float64(radius))...)
}

// drawAnimal draws a triangle pointing along the heading given by rotation.
func drawAnimal(center rl.Vector2, rotation float64, radius float32) {
	front := screenDir(vmath.Forward(rotation))
	left := screenDir(vmath.Forward(rotation + 0.8*math.Pi))
	right := screenDir(vmath.Forward(rotation - 0.8*math.Pi))

	v1 := rl.Vector2{X: center.X + front.X*radius*1.5, Y: center.Y + front.Y*radius*1.5}
	v2 := rl.Vector2{X: center.X + left.X*radius, Y: center.Y + left.Y*radius}
	v3 := rl.Vector2{X: center.X + right.X*radius, Y: center.Y + right.Y*radius}

	// DrawTriangle requires counter-clockwise winding on screen
	if cross(v1, v2, v3) > 0 {
		v2, v3 = v3, v2
	}
	rl.DrawTriangle(v1, v2, v3, rl.White)
}

func screenDir(v vmath.Vec2) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(-v.Y)}
}

// cross is the z component of (b-a)x(c-a) in screen coordinates.
// With y pointing down, a visually counter-clockwise triangle is negative.
func cross(a, b, c rl.Vector2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// keepRunning reports whether the frame loop should continue.
func keepRunning(ctx context.Context, closeRequested bool) bool {
	return !closeRequested && ctx.Err() == nil
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

func slower(steps int) int {
	return max(steps/2, 1)
}

func faster(steps int) int {
	return min(steps*2, maxStepsPerFrame)
}

const maxStepsPerFrame = 4096
