package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const snapshotRowID = 1

// PostgresGateway stores the snapshot as one jsonb row, overwritten on
// every save. The upsert replaces the document in a single statement, which
// gives the same all-or-nothing behavior as the file rename.
type PostgresGateway struct {
	db *sql.DB
}

// NewPostgresGateway creates the snapshots table if needed and returns a
// gateway backed by db.
func NewPostgresGateway(ctx context.Context, db *sql.DB) (*PostgresGateway, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return &PostgresGateway{db: db}, nil
}

// Load reads the snapshot row. An absent row yields an empty document.
func (g *PostgresGateway) Load(ctx context.Context) (*Document, error) {
	var data []byte
	err := g.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE id = $1`, snapshotRowID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return &Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot row: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot row: %w", err)
	}
	return &doc, nil
}

// Save upserts the snapshot row.
func (g *PostgresGateway) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = g.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, snapshotRowID, data)
	if err != nil {
		return fmt.Errorf("failed to write snapshot row: %w", err)
	}
	return nil
}
