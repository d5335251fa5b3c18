// Package sqlite contains SQLite implementations of the secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/portplan/internal/ports/secondary"
)

// ShipStore implements secondary.ShipStore with SQLite.
type ShipStore struct {
	db *sql.DB
}

var _ secondary.ShipStore = (*ShipStore)(nil)

// NewShipStore creates a new SQLite ship store.
func NewShipStore(db *sql.DB) *ShipStore {
	return &ShipStore{db: db}
}

// List returns every document ordered by name.
func (s *ShipStore) List(ctx context.Context) ([]*secondary.ShipDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, document, updated_at FROM ships ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}
	defer rows.Close()

	var docs []*secondary.ShipDocument
	for rows.Next() {
		doc, err := scanShip(rows)
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
	row := s.db.QueryRowContext(ctx,
		"SELECT name, document, updated_at FROM ships WHERE name = ?",
		name,
	)
	doc, err := scanShip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ship %q: %w", name, secondary.ErrShipNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ship: %w", err)
	}
	return doc, nil
}

// Save creates or replaces the document for doc.Name.
func (s *ShipStore) Save(ctx context.Context, doc *secondary.ShipDocument) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ships (name, document, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET document = excluded.document, updated_at = CURRENT_TIMESTAMP`,
		doc.Name, string(doc.Data),
	)
	if err != nil {
		return fmt.Errorf("failed to save ship %q: %w", doc.Name, err)
	}
	return nil
}

// Delete removes the document for name.
func (s *ShipStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM ships WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete ship %q: %w", name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShip(row scanner) (*secondary.ShipDocument, error) {
	var (
		doc       secondary.ShipDocument
		data      string
		updatedAt sql.NullTime
	)
	if err := row.Scan(&doc.Name, &data, &updatedAt); err != nil {
		return nil, err
	}
	doc.Data = []byte(data)
	doc.Source = "sqlite:ships/" + doc.Name
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
	}
	return &doc, nil
}
