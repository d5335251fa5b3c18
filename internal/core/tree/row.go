// Package tree is the hierarchical editable outline shown by every editor
// front end. It sits strictly downstream of the entity model: rows hold no
// state of their own beyond what they display, and every mutation goes
// through an entity.
package tree

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/example/portplan/internal/core/entity"
	"github.com/example/portplan/internal/core/schema"
)

// RowKind is the closed set of row variants.
type RowKind int

const (
	ShipHeaderRow RowKind = iota
	DoorHeaderRow
	FieldRow
	ColorRow
	PatternRow
	SideRow
	AddShipSentinel
	AddDoorSentinel
)

var rowKindNames = [...]string{
	ShipHeaderRow:   "ship",
	DoorHeaderRow:   "door",
	FieldRow:        "field",
	ColorRow:        "color",
	PatternRow:      "pattern",
	SideRow:         "side",
	AddShipSentinel: "add_ship",
	AddDoorSentinel: "add_door",
}

func (k RowKind) String() string {
	if k < 0 || int(k) >= len(rowKindNames) {
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
	return rowKindNames[k]
}

func (k RowKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Sentinel reports whether the row is a synthetic "add" row.
func (k RowKind) Sentinel() bool { return k == AddShipSentinel || k == AddDoorSentinel }

func rowKindFor(kind schema.Kind) RowKind {
	switch kind {
	case schema.KindColor:
		return ColorRow
	case schema.KindPattern:
		return PatternRow
	case schema.KindSide:
		return SideRow
	}
	return FieldRow
}

// Tint is the validity coloring of a row.
type Tint int

const (
	TintNone Tint = iota
	TintValid
	TintInvalid
)

func (t Tint) String() string {
	switch t {
	case TintValid:
		return "valid"
	case TintInvalid:
		return "invalid"
	}
	return "none"
}

func (t Tint) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func tintOf(valid bool) Tint {
	if valid {
		return TintValid
	}
	return TintInvalid
}

// Row is an immutable snapshot of one outline row and its subtree.
type Row struct {
	ID       string  `json:"id"`
	Kind     RowKind `json:"kind"`
	Label    string  `json:"label"`
	Value    string  `json:"value"`
	Icon     string  `json:"icon,omitempty"`
	Tint     Tint    `json:"tint"`
	Editable bool    `json:"editable"`
	Children []Row   `json:"children,omitempty"`
}

// Walk visits rows depth first in display order.
func Walk(rows []Row, fn func(r Row, depth int)) {
	var visit func([]Row, int)
	visit = func(rs []Row, depth int) {
		for _, r := range rs {
			fn(r, depth)
			visit(r.Children, depth+1)
		}
	}
	visit(rows, 0)
}

// node is the live row. ship is set on every row below (and including) a
// ship header; door on every row below a door header; key on field rows.
type node struct {
	id       string
	kind     RowKind
	label    string
	value    string
	icon     string
	tint     Tint
	parent   *node
	children []*node

	ship *entity.Ship
	door *entity.Door
	key  string
}

func (n *node) snapshot() Row {
	r := Row{
		ID:       n.id,
		Kind:     n.kind,
		Label:    n.label,
		Value:    n.value,
		Icon:     n.icon,
		Tint:     n.tint,
		Editable: n.editable(),
	}
	for _, c := range n.children {
		r.Children = append(r.Children, c.snapshot())
	}
	return r
}

func (n *node) editable() bool {
	switch n.kind {
	case ShipHeaderRow, DoorHeaderRow, FieldRow:
		return true
	}
	return false
}

// field resolves the entity field a field-like row edits.
func (n *node) field() (*entity.Field, bool) {
	switch {
	case n.door != nil:
		return n.door.Field(n.key)
	case n.ship != nil:
		return n.ship.Field(n.key)
	}
	return nil, false
}

func (n *node) indexOf(child *node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Row identifiers are derived from entity identities so a rebuilt tree keeps
// them stable.
const addShipID = "add-ship"

func shipRowID(id uuid.UUID) string      { return "s-" + id.String() }
func doorRowID(id uuid.UUID) string      { return "d-" + id.String() }
func addDoorRowID(ship uuid.UUID) string { return "add-door-" + ship.String() }

func fieldRowID(owner uuid.UUID, key string) string {
	return "f-" + owner.String() + "-" + key
}
