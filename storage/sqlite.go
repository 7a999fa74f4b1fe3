// Package storage archives run metadata, generation summaries and champion genomes in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/genetic"
	"github.com/pthm-cable/birdies/telemetry"

	_ "modernc.org/sqlite"
)

// Run describes one archived simulation run.
type Run struct {
	ID        string
	Seed      int64
	StartedAt time.Time
}

// ChampionRecord is an archived generation champion.
type ChampionRecord struct {
	Generation int
	Fitness    float64
	Chromosome genetic.Chromosome
}

// SQLiteStore is a run archive backed by a SQLite file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore creates a store for path. Call Init before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Init opens the database and creates missing tables.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("connecting to %s: %w", s.path, err)
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("creating tables: %w", err)
	}

	s.db = db
	return nil
}

// SaveRun records a run with its seed and a YAML snapshot of its config.
func (s *SQLiteStore) SaveRun(ctx context.Context, runID string, seed int64, cfg *config.Config) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, started_at, config)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			config = excluded.config
	`, runID, seed, time.Now().UTC().Format(time.RFC3339Nano), payload)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", runID, err)
	}
	return nil
}

// GetRun loads a run and its config.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (Run, *config.Config, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, nil, false, err
	}

	var (
		run       Run
		startedAt string
		payload   []byte
	)
	err = db.QueryRowContext(ctx, `SELECT id, seed, started_at, config FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Seed, &startedAt, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, nil, false, nil
		}
		return Run{}, nil, false, fmt.Errorf("loading run %s: %w", runID, err)
	}

	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Run{}, nil, false, fmt.Errorf("decoding run %s start time: %w", runID, err)
	}
	cfg, err := config.Parse(payload)
	if err != nil {
		return Run{}, nil, false, fmt.Errorf("decoding run %s config: %w", runID, err)
	}
	return run, cfg, true, nil
}

// SaveGeneration stores a generation summary and its champion genome.
func (s *SQLiteStore) SaveGeneration(ctx context.Context, runID string, record telemetry.GenerationRecord, champion genetic.Chromosome) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	recordPayload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding generation %d: %w", record.Generation, err)
	}
	championPayload, err := json.Marshal(champion)
	if err != nil {
		return fmt.Errorf("encoding champion %d: %w", record.Generation, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			payload = excluded.payload
	`, runID, record.Generation, recordPayload); err != nil {
		return fmt.Errorf("saving generation %d: %w", record.Generation, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO champions (run_id, generation, fitness, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			fitness = excluded.fitness,
			payload = excluded.payload
	`, runID, record.Generation, record.ChampionFitness, championPayload); err != nil {
		return fmt.Errorf("saving champion %d: %w", record.Generation, err)
	}

	return tx.Commit()
}

// Generations returns every archived generation of a run in order.
func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]telemetry.GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT payload FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	defer rows.Close()

	var out []telemetry.GenerationRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record telemetry.GenerationRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decoding generation: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Champion returns the champion genome of one generation.
func (s *SQLiteStore) Champion(ctx context.Context, runID string, generation int) (genetic.Chromosome, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `
		SELECT payload FROM champions WHERE run_id = ? AND generation = ?
	`, runID, generation).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading champion %d: %w", generation, err)
	}

	var chromosome genetic.Chromosome
	if err := json.Unmarshal(payload, &chromosome); err != nil {
		return nil, false, fmt.Errorf("decoding champion %d: %w", generation, err)
	}
	return chromosome, true, nil
}

// BestChampions returns up to limit champions of a run, fittest first.
// Earlier generations win ties.
func (s *SQLiteStore) BestChampions(ctx context.Context, runID string, limit int) ([]ChampionRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, fitness, payload FROM champions
		WHERE run_id = ?
		ORDER BY fitness DESC, generation ASC
		LIMIT ?
	`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing champions: %w", err)
	}
	defer rows.Close()

	var out []ChampionRecord
	for rows.Next() {
		var (
			rec     ChampionRecord
			payload []byte
		)
		if err := rows.Scan(&rec.Generation, &rec.Fitness, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &rec.Chromosome); err != nil {
			return nil, fmt.Errorf("decoding champion %d: %w", rec.Generation, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			config BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
		CREATE TABLE IF NOT EXISTS champions (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			fitness REAL NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
