package game

import (
	"fmt"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/genetic"
	"github.com/pthm-cable/birdies/neural"
	"github.com/pthm-cable/birdies/storage"
)

// GenomeLength returns the chromosome length of animals built from cfg.
func GenomeLength(cfg *config.Config) int {
	d := cfg.Derived
	return neural.WeightCount([]neural.LayerTopology{
		{Neurons: d.BrainInputs},
		{Neurons: d.HiddenNeurons},
		{Neurons: d.BrainOutputs},
	})
}

// ChampionGenomes extracts archived champion genomes for SeededWorld.
// A genome that does not fit cfg's brain is an error.
func ChampionGenomes(cfg *config.Config, records []storage.ChampionRecord) ([]genetic.Chromosome, error) {
	want := GenomeLength(cfg)
	genomes := make([]genetic.Chromosome, 0, len(records))
	for _, rec := range records {
		if rec.Chromosome.Len() != want {
			return nil, fmt.Errorf("champion of generation %d has %d genes, brain needs %d",
				rec.Generation, rec.Chromosome.Len(), want)
		}
		genomes = append(genomes, rec.Chromosome)
	}
	return genomes, nil
}
