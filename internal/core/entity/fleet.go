package entity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/validate"
)

// Fleet is the collection of every ship known to the application, in load
// and creation order. Ship names are unique within a fleet.
type Fleet struct {
	shipSchema schema.Schema
	doorSchema schema.Schema
	opts       []Option
	ships      []*Ship
	nextShip   int
}

// NewFleet creates an empty fleet whose ships use the given schemas.
func NewFleet(shipSchema, doorSchema schema.Schema, opts ...Option) *Fleet {
	o := buildOptions(opts)
	return &Fleet{
		shipSchema: shipSchema,
		doorSchema: doorSchema,
		opts:       []Option{WithRand(o.rng)},
	}
}

func (f *Fleet) ShipSchema() schema.Schema { return f.shipSchema }
func (f *Fleet) DoorSchema() schema.Schema { return f.doorSchema }

// Options returns the construction options shared by the fleet's ships, so
// ships hydrated elsewhere draw defaults from the same source.
func (f *Fleet) Options() []Option { return f.opts }

// NewShip creates an empty ship named "Ship {n}" and appends it.
// n follows the same never-reused counter policy as door names.
func (f *Fleet) NewShip() *Ship {
	s := NewShip(f.shipSchema, f.doorSchema, f.opts...)
	_ = s.set(f.shipSchema.Identity().Key, f.nextShipName(), nil, s)
	s.fleet = f
	f.ships = append(f.ships, s)
	s.Revalidate()
	return s
}

// Add appends a ship built elsewhere, such as one hydrated from a document.
// It fails with ErrDuplicateName when the name is already in the fleet.
func (f *Fleet) Add(s *Ship) error {
	if s.fleet == f {
		return nil
	}
	if s.fleet != nil {
		return fmt.Errorf("ship %q already belongs to another fleet", s.Name())
	}
	if name := s.Name(); name != "" && f.nameTaken(name, nil) {
		return &validate.FieldError{Key: f.shipSchema.Identity().Key, Input: name, Err: validate.ErrDuplicateName}
	}
	s.fleet = f
	f.ships = append(f.ships, s)
	return nil
}

// Remove drops a ship and, with it, all of its doors.
func (f *Fleet) Remove(s *Ship) bool {
	for i, cur := range f.ships {
		if cur == s {
			f.ships = append(f.ships[:i], f.ships[i+1:]...)
			s.fleet = nil
			return true
		}
	}
	return false
}

// Ships returns the ships in order.
func (f *Fleet) Ships() []*Ship {
	return append([]*Ship(nil), f.ships...)
}

// Len returns the number of ships.
func (f *Fleet) Len() int { return len(f.ships) }

// Ship finds a ship by name.
func (f *Fleet) Ship(name string) (*Ship, bool) {
	name = strings.TrimSpace(name)
	for _, s := range f.ships {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// ShipByID finds a ship by its in-memory identity.
func (f *Fleet) ShipByID(id uuid.UUID) (*Ship, bool) {
	for _, s := range f.ships {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

func (f *Fleet) nextShipName() string {
	for {
		f.nextShip++
		name := fmt.Sprintf("Ship %d", f.nextShip)
		if !f.nameTaken(name, nil) {
			return name
		}
	}
}

func (f *Fleet) nameTaken(name string, self any) bool {
	name = strings.TrimSpace(name)
	for _, s := range f.ships {
		if any(s) != self && s.Name() == name {
			return true
		}
	}
	return false
}
