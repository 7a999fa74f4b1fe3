package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/game"
	"github.com/pthm-cable/birdies/storage"
	"github.com/pthm-cable/birdies/telemetry"
	"github.com/pthm-cable/birdies/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	headless := flag.Bool("headless", false, "Run without graphics")
	tui := flag.Bool("tui", false, "Render in the terminal instead of a window")
	generations := flag.Int("generations", 0, "Stop after N generations in headless mode (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, hall of fame and config snapshot")
	dbPath := flag.String("db", "", "SQLite run archive (empty = disabled)")
	seedRun := flag.String("seed-run", "", "Seed the first generation with champions of an archived run (requires -db)")
	sound := flag.Bool("sound", false, "Chime after every generation in terminal mode")
	perf := flag.Bool("perf", false, "Time simulation phases and report them every generation")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout (terminal mode discards logs otherwise)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	var logOut io.Writer = os.Stdout
	switch {
	case *logFile != "":
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	case *tui:
		logOut = io.Discard
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, rng, rngSeed, options{
		headless:    *headless,
		tui:         *tui,
		generations: *generations,
		outputDir:   *outputDir,
		dbPath:      *dbPath,
		seedRun:     *seedRun,
		sound:       *sound,
		perf:        *perf,
	}); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	headless    bool
	tui         bool
	generations int
	outputDir   string
	dbPath      string
	seedRun     string
	sound       bool
	perf        bool
}

func run(ctx context.Context, cfg *config.Config, rng *rand.Rand, seed int64, opts options) error {
	var store *storage.SQLiteStore
	if opts.dbPath != "" {
		store = storage.NewSQLiteStore(opts.dbPath)
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("opening run archive: %w", err)
		}
		defer store.Close()
	} else if opts.seedRun != "" {
		return errors.New("-seed-run requires -db")
	}

	world, err := newWorld(ctx, cfg, rng, store, opts.seedRun)
	if err != nil {
		return err
	}
	sim := game.NewWithWorld(cfg, world)
	if opts.perf {
		sim.SetPerf(telemetry.NewPerfCollector(cfg.Evolution.GenerationLength + 1))
	}

	runID := storage.NewRunID()
	if store != nil {
		if err := store.SaveRun(ctx, runID, seed, cfg); err != nil {
			return err
		}
	}

	outDir := opts.outputDir
	if !cfg.Telemetry.CSV {
		outDir = ""
	}
	output, err := telemetry.NewOutputManager(outDir)
	if err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	defer func() {
		if err := output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	recorder := game.NewRecorder(game.RecorderOptions{
		RunID:    runID,
		LogStats: cfg.Telemetry.LogGenerations,
		Output:   output,
		Store:    store,
		Perf:     sim.Perf(),
	})
	record := func(report game.Report) {
		if err := recorder.Record(ctx, report); err != nil {
			slog.Error("failed to record generation", "generation", report.Generation, "error", err)
		}
	}

	slog.Info("starting simulation",
		"run_id", runID,
		"seed", seed,
		"animals", cfg.World.Animals,
		"foods", cfg.World.Foods,
		"generation_length", cfg.Evolution.GenerationLength,
		"output_dir", output.Dir(),
	)

	switch {
	case opts.headless:
		n, err := sim.TrainGenerations(ctx, rng, opts.generations, func(report game.Report) error {
			record(report)
			return nil
		})
		slog.Info("simulation finished", "generations", n)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

	case opts.tui:
		var chime *ui.Chime
		if opts.sound {
			// Non-fatal, the simulation can run without sound
			if chime, err = ui.NewChime(); err != nil {
				slog.Warn("audio initialization failed", "error", err)
			}
			defer chime.Close()
		}
		term, err := ui.NewTerminal(sim, rng, chime)
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		term.OnGeneration = record
		term.Run(ctx)

	default:
		window := ui.NewWindow(sim, rng)
		window.OnGeneration = record
		window.Run(ctx)
	}

	if best, ok := recorder.Hall().Best(); ok {
		slog.Info("best champion", "generation", best.Generation, "fitness", best.Fitness)
	}
	return nil
}

// newWorld builds the first generation, from archived champions when seedRun is set.
func newWorld(ctx context.Context, cfg *config.Config, rng *rand.Rand, store *storage.SQLiteStore, seedRun string) (*game.World, error) {
	if seedRun == "" {
		return game.RandomWorld(cfg, rng), nil
	}

	records, err := store.BestChampions(ctx, seedRun, cfg.World.Animals)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s has no archived champions", seedRun)
	}
	genomes, err := game.ChampionGenomes(cfg, records)
	if err != nil {
		return nil, fmt.Errorf("seeding from run %s: %w", seedRun, err)
	}

	slog.Info("seeding from archived run", "run_id", seedRun, "champions", len(genomes))
	return game.SeededWorld(cfg, rng, genomes), nil
}
