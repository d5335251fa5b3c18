package primary

import "context"

// FleetService defines the primary port for read-only fleet operations.
type FleetService interface {
	// ListShips loads every stored ship and summarizes it.
	ListShips(ctx context.Context) (*FleetListing, error)

	// GetShip loads the stored ships and returns one in full.
	GetShip(ctx context.Context, name string) (*ShipDetail, error)

	// Schema returns the JSON Schema describing ship documents.
	Schema(ctx context.Context) ([]byte, error)
}

// FleetListing is the result of loading the fleet.
type FleetListing struct {
	Ships  []*ShipSummary
	Report *LoadReport
}

// ShipSummary represents a ship at the port boundary.
type ShipSummary struct {
	Name      string
	Valid     bool
	Doors     int
	Height    float64
	HasHeight bool
	Source    string
}

// ShipDetail is a ship with every field and door.
type ShipDetail struct {
	ShipSummary
	Fields []*FieldValue
	Doors  []*DoorDetail
}

// DoorDetail is one door of a ship.
type DoorDetail struct {
	Name   string
	Valid  bool
	Fields []*FieldValue
}

// FieldValue is one field's display value and validity.
type FieldValue struct {
	Key   string
	Label string
	Kind  string
	Value string
	Valid bool
	Error string
}

// LoadReport lists what happened while loading documents.
type LoadReport struct {
	Loaded   int
	Problems []*LoadProblem
}

// Load problem kinds.
const (
	ProblemUnreadable = "unreadable"
	ProblemMalformed  = "malformed"
	ProblemDuplicate  = "duplicate"
)

// LoadProblem is a document that was skipped during load.
type LoadProblem struct {
	Kind    string
	Ship    string
	Source  string
	Message string
}
