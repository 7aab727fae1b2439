package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const createSlotsTable = `
	CREATE TABLE IF NOT EXISTS storage_slots (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// SlotRepository keeps each slot as one row. The upsert replaces the value in
// a single statement.
type SlotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{DB: db}
}

// Migrate creates the slots table when missing.
func (r *SlotRepository) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createSlotsTable); err != nil {
		return fmt.Errorf("creating storage_slots: %w", err)
	}
	return nil
}

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM storage_slots WHERE key = $1`

	var value []byte
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SlotRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO storage_slots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`

	if _, err := r.DB.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}
