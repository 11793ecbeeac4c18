package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/carrion/internal/game/death"
)

// ErrEmptySpecies is returned when a kill is recorded without a species.
var ErrEmptySpecies = errors.New("species must not be empty")

// KillRepository stores the per-species kill counter.
type KillRepository struct {
	db *pgxpool.Pool
}

// NewKillRepository creates a KillRepository backed by db.
//
// Precondition: db must be a valid, open connection pool.
func NewKillRepository(db *pgxpool.Pool) *KillRepository {
	return &KillRepository{db: db}
}

// Record adds one kill of species and returns the new count.
//
// Precondition: species must be non-empty.
// Postcondition: the stored count is one higher than before the call.
func (r *KillRepository) Record(ctx context.Context, species string) (int, error) {
	if species == "" {
		return 0, ErrEmptySpecies
	}
	var kills int
	err := r.db.QueryRow(ctx,
		`INSERT INTO kill_counts (species, kills)
		 VALUES ($1, 1)
		 ON CONFLICT (species) DO UPDATE
		 SET kills = kill_counts.kills + 1, updated_at = NOW()
		 RETURNING kills`,
		species,
	).Scan(&kills)
	if err != nil {
		return 0, fmt.Errorf("recording kill of %q: %w", species, err)
	}
	return kills, nil
}

// Count returns the kills recorded for species; an unknown species has zero.
func (r *KillRepository) Count(ctx context.Context, species string) (int, error) {
	var kills int
	err := r.db.QueryRow(ctx,
		`SELECT kills FROM kill_counts WHERE species = $1`, species,
	).Scan(&kills)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counting kills of %q: %w", species, err)
	}
	return kills, nil
}

// Memorial returns every species with at least one kill, most killed first.
func (r *KillRepository) Memorial(ctx context.Context) ([]death.Kills, error) {
	rows, err := r.db.Query(ctx,
		`SELECT species, kills FROM kill_counts
		 WHERE kills > 0
		 ORDER BY kills DESC, species ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing memorial: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (death.Kills, error) {
		var k death.Kills
		err := row.Scan(&k.Species, &k.Count)
		return k, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning memorial: %w", err)
	}
	return out, nil
}

// KillLedger adapts a KillRepository to death.KillLedger for the
// simulation thread, bounding every query by a timeout.
type KillLedger struct {
	repo    *KillRepository
	timeout time.Duration
}

// NewKillLedger creates a KillLedger.
//
// Precondition: timeout must be > 0.
func NewKillLedger(repo *KillRepository, timeout time.Duration) *KillLedger {
	return &KillLedger{repo: repo, timeout: timeout}
}

// Count implements death.KillLedger.
func (l *KillLedger) Count(species string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	return l.repo.Count(ctx, species)
}

// Record implements death.KillLedger.
func (l *KillLedger) Record(species string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	return l.repo.Record(ctx, species)
}

// Memorial lists the memorial within the ledger timeout.
func (l *KillLedger) Memorial() ([]death.Kills, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	return l.repo.Memorial(ctx)
}
