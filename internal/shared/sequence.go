package shared

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceStore allocates monotonically increasing numbers per kind.
// Allocation happens inside a transaction so concurrent callers never
// observe the same value, unlike deriving the next number from a table scan.
type SequenceStore struct {
	pool *pgxpool.Pool
}

// NewSequenceStore constructs the store.
func NewSequenceStore(pool *pgxpool.Pool) *SequenceStore {
	return &SequenceStore{pool: pool}
}

// Next reserves and returns the next value for the given sequence kind.
func (s *SequenceStore) Next(ctx context.Context, kind string) (int64, error) {
	return s.NextN(ctx, kind, 1)
}

// NextN reserves n consecutive values and returns the first of the block.
// A quote approval that spawns several cargo legs reserves the whole block
// up front so the legs get consecutive numbers even under concurrency.
func (s *SequenceStore) NextN(ctx context.Context, kind string, n int64) (int64, error) {
	if s == nil || s.pool == nil {
		return 0, errors.New("shared: sequence store not initialised")
	}
	if kind == "" {
		return 0, errors.New("shared: sequence kind required")
	}
	if n < 1 {
		n = 1
	}

	const query = `
		INSERT INTO sequences (kind, value) VALUES ($1, $2)
		ON CONFLICT (kind) DO UPDATE SET value = sequences.value + $2
		RETURNING value`

	var last int64
	if err := s.pool.QueryRow(ctx, query, kind, n).Scan(&last); err != nil {
		return 0, err
	}
	return last - n + 1, nil
}

// Seed raises the sequence to at least floor. Used once at migration time to
// start the cargo counter above the highest number found in legacy shipments.
func (s *SequenceStore) Seed(ctx context.Context, kind string, floor int64) error {
	if s == nil || s.pool == nil {
		return errors.New("shared: sequence store not initialised")
	}
	const query = `
		INSERT INTO sequences (kind, value) VALUES ($1, $2)
		ON CONFLICT (kind) DO UPDATE SET value = GREATEST(sequences.value, $2)`
	_, err := s.pool.Exec(ctx, query, kind, floor)
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
