package entity

import (
	"github.com/google/uuid"

	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/validate"
)

// Door is one DoorSchema instance owned by a ship.
type Door struct {
	record
	id    uuid.UUID
	ship  *Ship
	valid bool
}

func newDoor(s schema.Schema, ship *Ship) *Door {
	d := &Door{record: newRecord(s), id: uuid.New(), ship: ship}
	for _, f := range d.fields {
		if f.desc.Kind == schema.KindSide {
			f.accept(schema.SideBoth)
		}
	}
	return d
}

// ID is the in-memory identity of the door. It is never persisted.
func (d *Door) ID() uuid.UUID { return d.id }

// Name returns the door's name field text.
func (d *Door) Name() string { return d.name() }

// Ship returns the owning ship, or nil once the door has been removed.
func (d *Door) Ship() *Ship { return d.ship }

func (d *Door) Schema() schema.Schema { return d.schema }

// Fields returns the door's fields in schema order.
func (d *Door) Fields() []*Field { return d.snapshot() }

// Field returns the field with the given key.
func (d *Door) Field(key string) (*Field, bool) {
	f, err := d.field(key)
	return f, err == nil
}

// SetField parses raw into the field and revalidates the door and its ship.
func (d *Door) SetField(key, raw string) error {
	err := d.set(key, raw, d.owner(), d)
	d.propagate()
	return err
}

// SetValue assigns a typed value and revalidates the door and its ship.
func (d *Door) SetValue(key string, v schema.Value) error {
	err := d.put(key, v, d.owner(), d)
	d.propagate()
	return err
}

// Valid is the door's aggregate validity as of the last Revalidate.
func (d *Door) Valid() bool { return d.valid }

// Revalidate recomputes the door's aggregate validity from its fields.
func (d *Door) Revalidate() bool {
	d.valid = validate.Aggregate(d.validity(), nil, false)
	return d.valid
}

// HeightAboveWaterline returns the door's height above the waterline when set.
func (d *Door) HeightAboveWaterline() (float64, bool) {
	f, err := d.field("height_above_waterline")
	if err != nil {
		return 0, false
	}
	n, ok := f.value.(schema.Number)
	return float64(n), ok
}

func (d *Door) owner() nameOwner {
	if d.ship == nil {
		return nil
	}
	return d.ship
}

func (d *Door) propagate() {
	d.Revalidate()
	if d.ship != nil {
		d.ship.Revalidate()
	}
}
