// Package postgres contains PostgreSQL implementations of the secondary ports.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/portplan/internal/ports/secondary"
)

// SchemaSQL creates the ships table. document is json rather than jsonb so
// key order, and with it door order, survives a round trip.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS ships (
	name text PRIMARY KEY,
	document json NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
`

// NewPool creates a pgx connection pool from a DSN and checks it.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// ShipStore implements secondary.ShipStore with PostgreSQL.
type ShipStore struct {
	pool   *pgxpool.Pool
	source string
}

var _ secondary.ShipStore = (*ShipStore)(nil)

// NewShipStore creates a store over pool.
func NewShipStore(pool *pgxpool.Pool) *ShipStore {
	cfg := pool.Config().ConnConfig
	return &ShipStore{pool: pool, source: fmt.Sprintf("postgres://%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)}
}

// Migrate creates the ships table if it does not exist.
func (s *ShipStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to create ships table: %w", err)
	}
	return nil
}

// List returns every document ordered by name.
func (s *ShipStore) List(ctx context.Context) ([]*secondary.ShipDocument, error) {
	rows, err := s.pool.Query(ctx, "SELECT name, document::text, updated_at FROM ships ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}
	defer rows.Close()

	var docs []*secondary.ShipDocument
	for rows.Next() {
		doc, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ship: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}
	return docs, nil
}

// Get retrieves one document by ship name.
func (s *ShipStore) Get(ctx context.Context, name string) (*secondary.ShipDocument, error) {
	row := s.pool.QueryRow(ctx, "SELECT name, document::text, updated_at FROM ships WHERE name = $1", name)
	doc, err := s.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ship %q: %w", name, secondary.ErrShipNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ship: %w", err)
	}
	return doc, nil
}

// Save creates or replaces the document for doc.Name.
func (s *ShipStore) Save(ctx context.Context, doc *secondary.ShipDocument) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ships (name, document) VALUES ($1, $2::json)
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		doc.Name, string(doc.Data),
	)
	if err != nil {
		return fmt.Errorf("failed to save ship %q: %w", doc.Name, err)
	}
	return nil
}

// Delete removes the document for name.
func (s *ShipStore) Delete(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM ships WHERE name = $1", name); err != nil {
		return fmt.Errorf("failed to delete ship %q: %w", name, err)
	}
	return nil
}

func (s *ShipStore) scan(row pgx.Row) (*secondary.ShipDocument, error) {
	var (
		doc       secondary.ShipDocument
		data      string
		updatedAt time.Time
	)
	if err := row.Scan(&doc.Name, &data, &updatedAt); err != nil {
		return nil, err
	}
	doc.Data = []byte(data)
	doc.Source = s.source + "/ships/" + doc.Name
	doc.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &doc, nil
}
