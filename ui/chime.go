package ui

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	chimeRate      = beep.SampleRate(44100)
	chimeFrequency = 880
	chimeLength    = 80 * time.Millisecond
)

// Chime plays a short tone when a generation finishes. A nil Chime is silent.
type Chime struct{}

// NewChime initializes the speaker.
func NewChime() (*Chime, error) {
	if err := speaker.Init(chimeRate, chimeRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Chime{}, nil
}

// Play queues the tone without blocking.
func (c *Chime) Play() {
	if c == nil {
		return
	}
	sine, err := generators.SineTone(chimeRate, chimeFrequency)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(chimeRate.N(chimeLength), sine))
}

// Close releases the speaker.
func (c *Chime) Close() {
	if c == nil {
		return
	}
	speaker.Close()
}
