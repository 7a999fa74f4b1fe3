package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/pthm-cable/birdies/genetic"
)

// HallEntry is a champion genome kept for later inspection or replay.
type HallEntry struct {
	Generation int                `json:"generation"`
	Fitness    float64            `json:"fitness"`
	Chromosome genetic.Chromosome `json:"chromosome"`
}

// HallOfFame keeps the fittest generation champions of a run, best first.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider adds the entry if the hall has room or it beats the weakest member.
// Returns true if the entry was added.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	if hof.maxSize <= 0 {
		return false
	}
	if len(hof.entries) >= hof.maxSize && entry.Fitness <= hof.entries[len(hof.entries)-1].Fitness {
		return false
	}

	entry.Chromosome = entry.Chromosome.Clone()
	hof.entries = append(hof.entries, entry)
	// Stable so earlier generations win ties
	sort.SliceStable(hof.entries, func(i, j int) bool {
		return hof.entries[i].Fitness > hof.entries[j].Fitness
	})
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Best returns the fittest entry.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Len returns the number of entries.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}

// MarshalJSON encodes the hall as a JSON array.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}
