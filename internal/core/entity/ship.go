package entity

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/validate"
)

// Option configures entity construction.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand sets the source used for pseudo-random default colors and patterns.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed seeds the default-value source deterministically.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// Ship is one ShipSchema instance plus the doors it owns.
// A ship is valid only when every field is valid, it owns at least one door
// and every door is valid.
type Ship struct {
	record
	id         uuid.UUID
	doorSchema schema.Schema
	doors      []*Door
	nextDoor   int
	fleet      *Fleet

	valid     bool
	height    float64
	hasHeight bool
}

// NewShip creates an empty ship: text and numbers unset, color and pattern
// pseudo-random, invalid until edited.
func NewShip(shipSchema, doorSchema schema.Schema, opts ...Option) *Ship {
	o := buildOptions(opts)
	s := &Ship{
		record:     newRecord(shipSchema),
		id:         uuid.New(),
		doorSchema: doorSchema,
	}
	for _, f := range s.fields {
		switch f.desc.Kind {
		case schema.KindColor:
			f.accept(randomColor(o.rng))
		case schema.KindPattern:
			patterns := schema.Patterns()
			f.accept(patterns[o.rng.IntN(len(patterns))])
		case schema.KindSide:
			f.accept(schema.SideBoth)
		}
	}
	s.Revalidate()
	return s
}

func randomColor(r *rand.Rand) schema.Color {
	var choices []schema.Color
	for _, nc := range schema.Palette() {
		if nc.Color.A == 0xff {
			choices = append(choices, nc.Color)
		}
	}
	return choices[r.IntN(len(choices))]
}

// ID is the in-memory identity of the ship. It is never persisted.
func (s *Ship) ID() uuid.UUID { return s.id }

// Name returns the ship's name field text.
func (s *Ship) Name() string { return s.name() }

func (s *Ship) Schema() schema.Schema     { return s.schema }
func (s *Ship) DoorSchema() schema.Schema { return s.doorSchema }

// Fields returns the ship's own fields in schema order.
func (s *Ship) Fields() []*Field { return s.snapshot() }

// Field returns the field with the given key.
func (s *Ship) Field(key string) (*Field, bool) {
	f, err := s.field(key)
	return f, err == nil
}

// SetField parses raw into the field and revalidates the ship.
func (s *Ship) SetField(key, raw string) error {
	err := s.set(key, raw, s.owner(), s)
	s.Revalidate()
	return err
}

// SetValue assigns a typed value and revalidates the ship.
func (s *Ship) SetValue(key string, v schema.Value) error {
	err := s.put(key, v, s.owner(), s)
	s.Revalidate()
	return err
}

// Doors returns the owned doors in creation order.
func (s *Ship) Doors() []*Door {
	return append([]*Door(nil), s.doors...)
}

// Door finds an owned door by name.
func (s *Ship) Door(name string) (*Door, bool) {
	for _, d := range s.doors {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// AddDoor creates a door named "Door {n}". n comes from a per-ship counter
// that only increases, skipping names currently in use.
func (s *Ship) AddDoor() *Door {
	d := newDoor(s.doorSchema, s)
	_ = d.set(s.doorSchema.Identity().Key, s.nextDoorName(), nil, d)
	s.doors = append(s.doors, d)
	s.Revalidate()
	return d
}

// AddNamedDoor creates a door with a user-supplied name, bypassing the
// counter.
func (s *Ship) AddNamedDoor(name string) (*Door, error) {
	v, err := validate.Parse(schema.KindString, name)
	if err != nil {
		return nil, &validate.FieldError{Key: s.doorSchema.Identity().Key, Input: name, Err: err}
	}
	if s.nameTaken(v.String(), nil) {
		return nil, &validate.FieldError{Key: s.doorSchema.Identity().Key, Input: name, Err: validate.ErrDuplicateName}
	}
	d := newDoor(s.doorSchema, s)
	_ = d.set(s.doorSchema.Identity().Key, v.String(), nil, d)
	s.doors = append(s.doors, d)
	s.Revalidate()
	return d, nil
}

// RemoveDoor detaches and discards a door. Remaining doors keep their names.
func (s *Ship) RemoveDoor(d *Door) bool {
	for i, cur := range s.doors {
		if cur == d {
			s.doors = append(s.doors[:i], s.doors[i+1:]...)
			d.ship = nil
			s.Revalidate()
			return true
		}
	}
	return false
}

// Valid is the ship's aggregate validity as of the last Revalidate.
func (s *Ship) Valid() bool { return s.valid }

// Height is the highest door height above the waterline, when any door
// has one.
func (s *Ship) Height() (float64, bool) { return s.height, s.hasHeight }

// Revalidate recomputes door validity, ship validity and height. It never
// changes field values.
func (s *Ship) Revalidate() bool {
	children := make([]bool, len(s.doors))
	s.height, s.hasHeight = 0, false
	for i, d := range s.doors {
		children[i] = d.Revalidate()
		if h, ok := d.HeightAboveWaterline(); ok && (!s.hasHeight || h > s.height) {
			s.height, s.hasHeight = h, true
		}
	}
	s.valid = validate.Aggregate(s.validity(), children, true)
	return s.valid
}

func (s *Ship) nextDoorName() string {
	for {
		s.nextDoor++
		name := fmt.Sprintf("Door %d", s.nextDoor)
		if !s.nameTaken(name, nil) {
			return name
		}
	}
}

func (s *Ship) nameTaken(name string, self any) bool {
	name = strings.TrimSpace(name)
	for _, d := range s.doors {
		if any(d) != self && d.Name() == name {
			return true
		}
	}
	return false
}

func (s *Ship) owner() nameOwner {
	if s.fleet == nil {
		return nil
	}
	return s.fleet
}
