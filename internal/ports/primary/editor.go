package primary

import "context"

// EditorService defines the primary port for the interactive ship editor.
// All calls are applied one at a time in arrival order.
type EditorService interface {
	// Open loads the stored fleet into the editing session, replacing any
	// unsaved state.
	Open(ctx context.Context) (*LoadReport, error)

	// Tree returns the current outline.
	Tree(ctx context.Context) ([]*TreeRow, error)

	// Edit writes text into the field behind a row.
	Edit(ctx context.Context, rowID, value string) error

	// Activate clicks a row: add sentinels add, enumerated rows pick or cycle.
	Activate(ctx context.Context, rowID string) error

	// Pick assigns an enumerated value given as text (index or name).
	Pick(ctx context.Context, rowID, value string) error

	// AddShip creates a ship and returns its header row ID.
	AddShip(ctx context.Context) (string, error)

	// AddDoor creates a door on the ship owning rowID and returns the door's
	// header row ID.
	AddDoor(ctx context.Context, rowID string) (string, error)

	// Remove deletes the ship or door behind a header row.
	Remove(ctx context.Context, rowID string) error

	// Select makes the ship owning rowID the drag payload.
	Select(ctx context.Context, rowID string) (*Selection, error)

	// Selection returns the drag payload, or nil when nothing is selected.
	Selection(ctx context.Context) (*Selection, error)

	// Save writes every ship to the store and deletes documents of ships
	// removed or renamed since they were loaded.
	Save(ctx context.Context) (*SaveReport, error)

	// Document returns the serialized form of one ship in the session.
	Document(ctx context.Context, name string) ([]byte, error)

	// Subscribe streams tree snapshots after every change until ctx ends.
	// Slow readers only see the latest snapshot.
	Subscribe(ctx context.Context) (<-chan *TreeSnapshot, error)
}

// TreeRow represents one outline row at the port boundary.
type TreeRow struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Label    string     `json:"label"`
	Value    string     `json:"value"`
	Icon     string     `json:"icon,omitempty"`
	Tint     string     `json:"tint"`
	Editable bool       `json:"editable"`
	Children []*TreeRow `json:"children,omitempty"`
}

// TreeSnapshot is pushed to subscribers after a change.
type TreeSnapshot struct {
	Version int        `json:"version"`
	Op      string     `json:"op"`
	RowID   string     `json:"row_id,omitempty"`
	Rows    []*TreeRow `json:"rows"`
}

// Selection is the drag payload: a reference to the selected ship.
type Selection struct {
	ShipID string `json:"ship_id"`
	Name   string `json:"name"`
}

// SaveReport lists what a save wrote.
type SaveReport struct {
	Saved   []string    `json:"saved"`
	Deleted []string    `json:"deleted,omitempty"`
	Skipped []*SaveSkip `json:"skipped,omitempty"`
}

// SaveSkip is a ship that could not be written. Ship is the current name,
// or the name it is stored under when the name was cleared.
type SaveSkip struct {
	Ship   string `json:"ship"`
	Reason string `json:"reason"`
}
