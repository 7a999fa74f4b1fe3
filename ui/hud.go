package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/birdies/game"
)

// HUDData holds all the data needed to render the heads-up display.
type HUDData struct {
	Title         string
	Animals       int
	Foods         int
	Generation    int
	Age           int
	GenerationLen int
	Meals         int
	StepsPerFrame int
	Paused        bool

	Report    game.Report
	HasReport bool
}

// NewHUDData snapshots the simulation state shown by every viewer.
func NewHUDData(sim *game.Simulation, stepsPerFrame int, paused bool) HUDData {
	report, ok := sim.LastReport()
	return HUDData{
		Title:         "birdies",
		Animals:       sim.World().AnimalCount(),
		Foods:         sim.World().FoodCount(),
		Generation:    sim.Generation(),
		Age:           sim.Age(),
		GenerationLen: sim.Config().Evolution.GenerationLength,
		Meals:         sim.Meals(),
		StepsPerFrame: stepsPerFrame,
		Paused:        paused,
		Report:        report,
		HasReport:     ok,
	}
}

// Lines formats the HUD as plain text rows, title first.
func (d HUDData) Lines() []string {
	lines := []string{
		d.Title,
		fmt.Sprintf("Animals: %d | Foods: %d | Meals: %d", d.Animals, d.Foods, d.Meals),
		fmt.Sprintf("Generation: %d | Age: %d/%d | Speed: %dx", d.Generation, d.Age, d.GenerationLen, d.StepsPerFrame),
	}
	if d.HasReport {
		s := d.Report.Stats
		lines = append(lines, fmt.Sprintf("Last: min %.0f | max %.0f | avg %.2f | median %.1f",
			s.MinFitness, s.MaxFitness, s.AvgFitness, s.MedianFitness))
	} else {
		lines = append(lines, "Last: -")
	}
	status := "Running"
	if d.Paused {
		status = "PAUSED"
	}
	return append(lines, status)
}

// HUD renders the heads-up display in the raylib window.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	lines := data.Lines()
	rl.DrawText(lines[0], 10, 10, 20, rl.White)

	y := int32(35)
	for _, line := range lines[1 : len(lines)-1] {
		rl.DrawText(line, 10, y, 16, rl.LightGray)
		y += 20
	}

	rl.DrawText(lines[len(lines)-1], 10, y, 16, rl.Yellow)
}
