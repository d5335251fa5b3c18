package secondary

import (
	"context"
	"errors"
)

// ErrShipNotFound is returned by stores when no document has the given name.
var ErrShipNotFound = errors.New("ship not found")

// ShipStore defines the secondary port for ship document persistence.
// One document per ship, keyed by the ship's name.
type ShipStore interface {
	// List returns every stored document in a stable order. Entries the
	// store could not read are returned with Err set so loading can go on.
	List(ctx context.Context) ([]*ShipDocument, error)

	// Get retrieves one document by ship name.
	Get(ctx context.Context, name string) (*ShipDocument, error)

	// Save creates or replaces the document for doc.Name.
	Save(ctx context.Context, doc *ShipDocument) error

	// Delete removes the document for name. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, name string) error
}

// ShipDocument is a ship's persisted JSON document.
type ShipDocument struct {
	Name      string
	Data      []byte
	Source    string // file path or table row the document came from
	UpdatedAt string
	Err       error
}
