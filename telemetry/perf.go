package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one part of a simulation step.
type Phase int

// Phases of a simulation step, in execution order.
const (
	PhaseCollisions Phase = iota
	PhaseBrains
	PhaseMovement
	PhaseEvolve
	numPhases
)

var phaseNames = [numPhases]string{"collisions", "brains", "movement", "evolve"}

// String returns the phase's log key.
func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PerfSample holds timing data for a single step.
type PerfSample struct {
	StepDuration time.Duration
	Phases       [numPhases]time.Duration
}

// PerfCollector tracks step timing over a rolling window.
// A nil *PerfCollector is valid and records nothing.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	stepStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 1000
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// StartStep begins timing a new simulation step.
func (p *PerfCollector) StartStep() {
	if p == nil {
		return
	}
	p.stepStart = time.Now()
	p.current = PerfSample{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	if p == nil {
		return
	}
	now := time.Now()
	p.endPhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

// EndStep finishes timing the current step and records the sample.
func (p *PerfCollector) EndStep() {
	if p == nil {
		return
	}
	now := time.Now()
	p.endPhase(now)
	p.current.StepDuration = now.Sub(p.stepStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.inPhase {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Samples int

	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration

	// Average phase durations and their share of the average step, in percent
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	StepsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p == nil || p.sampleCount == 0 {
		return PerfStats{}
	}

	var total time.Duration
	var minStep, maxStep time.Duration
	var phaseSum [numPhases]time.Duration

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.StepDuration

		if i == 0 || s.StepDuration < minStep {
			minStep = s.StepDuration
		}
		if s.StepDuration > maxStep {
			maxStep = s.StepDuration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats := PerfStats{
		Samples:         p.sampleCount,
		AvgStepDuration: total / n,
		MinStepDuration: minStep,
		MaxStepDuration: maxStep,
	}
	for phase, sum := range phaseSum {
		stats.PhaseAvg[phase] = sum / n
		if stats.AvgStepDuration > 0 {
			stats.PhasePct[phase] = float64(stats.PhaseAvg[phase]) / float64(stats.AvgStepDuration) * 100
		}
	}
	if stats.AvgStepDuration > 0 {
		stats.StepsPerSecond = float64(time.Second) / float64(stats.AvgStepDuration)
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Int("steps_per_sec", int(s.StepsPerSecond)),
	}
	for phase, pct := range s.PhasePct {
		// Rounded to a tenth of a percent
		attrs = append(attrs, slog.Float64(Phase(phase).String()+"_pct", float64(int(pct*10))/10))
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is a flat row of perf.csv.
type PerfRecord struct {
	Generation    int     `csv:"generation"`
	AvgStepUS     int64   `csv:"avg_step_us"`
	MinStepUS     int64   `csv:"min_step_us"`
	MaxStepUS     int64   `csv:"max_step_us"`
	StepsPerSec   float64 `csv:"steps_per_sec"`
	CollisionsPct float64 `csv:"collisions_pct"`
	BrainsPct     float64 `csv:"brains_pct"`
	MovementPct   float64 `csv:"movement_pct"`
	EvolvePct     float64 `csv:"evolve_pct"`
}

// Record flattens the stats into a perf.csv row.
func (s PerfStats) Record(generation int) PerfRecord {
	return PerfRecord{
		Generation:    generation,
		AvgStepUS:     s.AvgStepDuration.Microseconds(),
		MinStepUS:     s.MinStepDuration.Microseconds(),
		MaxStepUS:     s.MaxStepDuration.Microseconds(),
		StepsPerSec:   s.StepsPerSecond,
		CollisionsPct: s.PhasePct[PhaseCollisions],
		BrainsPct:     s.PhasePct[PhaseBrains],
		MovementPct:   s.PhasePct[PhaseMovement],
		EvolvePct:     s.PhasePct[PhaseEvolve],
	}
}
