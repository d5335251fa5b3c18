package tree

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/example/portplan/internal/core/entity"
	"github.com/example/portplan/internal/core/schema"
)

var (
	ErrUnknownRow   = errors.New("unknown row")
	ErrNotEditable  = errors.New("row is not editable")
	ErrNotPickable  = errors.New("row does not take a picked value")
	ErrNotRemovable = errors.New("row cannot be removed")
	ErrNoPicker     = errors.New("no picker configured")
	ErrNoShip       = errors.New("row does not belong to a ship")
)

// Op names the public operation behind a change notification.
type Op string

const (
	OpEdit    Op = "edit"
	OpPick    Op = "pick"
	OpAddShip Op = "add_ship"
	OpAddDoor Op = "add_door"
	OpRemove  Op = "remove"
	OpSelect  Op = "select"
)

// Change is delivered to subscribers once per mutating operation.
type Change struct {
	Op    Op
	RowID string
}

// Listener receives change notifications.
type Listener func(Change)

// Options wires the tree's collaborators. Missing pickers make the matching
// rows fail activation with ErrNoPicker; a missing renderer uses PlainIcons.
type Options struct {
	Patterns PatternPicker
	Colors   ColorPicker
	Icons    IconRenderer
}

// Payload is the drag payload: a reference to the selected ship.
type Payload struct {
	ShipID uuid.UUID `json:"ship_id"`
	Name   string    `json:"name"`
}

type subscription struct {
	id int
	fn Listener
}

// Tree is the editable outline over a fleet. It is not safe for concurrent
// use; callers serialize access.
type Tree struct {
	fleet    *entity.Fleet
	opts     Options
	roots    []*node
	index    map[string]*node
	selected *entity.Ship

	subs    []subscription
	nextSub int
}

// New builds the outline for every ship already in the fleet.
func New(fleet *entity.Fleet, opts Options) *Tree {
	if opts.Icons == nil {
		opts.Icons = PlainIcons{}
	}
	t := &Tree{fleet: fleet, opts: opts, index: make(map[string]*node)}
	for _, s := range fleet.Ships() {
		t.attach(nil, t.shipNode(s))
	}
	t.attach(nil, t.addShipNode())
	return t
}

// Fleet returns the model the tree edits.
func (t *Tree) Fleet() *entity.Fleet { return t.fleet }

// Subscribe registers l and returns a function that removes it.
func (t *Tree) Subscribe(l Listener) (cancel func()) {
	t.nextSub++
	id := t.nextSub
	t.subs = append(t.subs, subscription{id: id, fn: l})
	return func() {
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Tree) notify(op Op, rowID string) {
	c := Change{Op: op, RowID: rowID}
	for _, s := range append([]subscription(nil), t.subs...) {
		s.fn(c)
	}
}

// Rows returns a snapshot of the whole outline.
func (t *Tree) Rows() []Row {
	out := make([]Row, 0, len(t.roots))
	for _, n := range t.roots {
		out = append(out, n.snapshot())
	}
	return out
}

// Row returns a snapshot of one row and its subtree.
func (t *Tree) Row(rowID string) (Row, bool) {
	n, ok := t.index[rowID]
	if !ok {
		return Row{}, false
	}
	return n.snapshot(), true
}

// ShipOf returns the ship owning a row.
func (t *Tree) ShipOf(rowID string) (*entity.Ship, error) {
	n, err := t.lookup(rowID)
	if err != nil {
		return nil, err
	}
	if n.ship == nil {
		return nil, fmt.Errorf("row %s: %w", rowID, ErrNoShip)
	}
	return n.ship, nil
}

// ShipRowID returns the header row of a ship.
func (t *Tree) ShipRowID(s *entity.Ship) (string, bool) {
	id := shipRowID(s.ID())
	_, ok := t.index[id]
	return id, ok
}

// ValueKind reports the kind of value a row accepts.
func (t *Tree) ValueKind(rowID string) (schema.Kind, error) {
	n, err := t.lookup(rowID)
	if err != nil {
		return 0, err
	}
	f, ok := n.field()
	if !ok {
		return 0, fmt.Errorf("row %s: %w", rowID, ErrNotEditable)
	}
	return f.Kind(), nil
}

// Edit writes typed text into the field behind a row. A rejected edit still
// changes the model (the value is cleared and flagged) so subscribers are
// notified either way; the validation error is returned.
func (t *Tree) Edit(rowID, text string) error {
	n, err := t.lookup(rowID)
	if err != nil {
		return err
	}
	if _, ok := n.field(); !ok {
		return fmt.Errorf("row %s: %w", rowID, ErrNotEditable)
	}

	var editErr error
	if n.door != nil {
		editErr = n.door.SetField(n.key, text)
	} else {
		editErr = n.ship.SetField(n.key, text)
	}
	t.recolor(n)
	t.notify(OpEdit, rowID)
	return editErr
}

// ApplyPick assigns a value chosen from a picker to an enumerated row.
func (t *Tree) ApplyPick(rowID string, v schema.Value) error {
	n, err := t.lookup(rowID)
	if err != nil {
		return err
	}
	switch n.kind {
	case ColorRow, PatternRow, SideRow:
	default:
		return fmt.Errorf("row %s: %w", rowID, ErrNotPickable)
	}

	var pickErr error
	if n.door != nil {
		pickErr = n.door.SetValue(n.key, v)
	} else {
		pickErr = n.ship.SetValue(n.key, v)
	}
	t.recolor(n)
	t.notify(OpPick, rowID)
	return pickErr
}

// Activate is a click on a row. Sentinels add, enumerated rows open their
// picker or cycle, other rows do nothing.
func (t *Tree) Activate(rowID string) error {
	n, err := t.lookup(rowID)
	if err != nil {
		return err
	}

	switch n.kind {
	case AddShipSentinel:
		t.AddShip()
		return nil
	case AddDoorSentinel:
		_, err := t.AddDoor(rowID)
		return err
	case PatternRow:
		if t.opts.Patterns == nil {
			return ErrNoPicker
		}
		f, _ := n.field()
		current, _ := f.Value().(schema.Pattern)
		p, ok, err := t.opts.Patterns.PickPattern(current)
		if err != nil {
			return fmt.Errorf("failed to pick pattern: %w", err)
		}
		if !ok {
			return nil
		}
		return t.ApplyPick(rowID, p)
	case ColorRow:
		if t.opts.Colors == nil {
			return ErrNoPicker
		}
		f, _ := n.field()
		current, _ := f.Value().(schema.Color)
		c, ok, err := t.opts.Colors.PickColor(current)
		if err != nil {
			return fmt.Errorf("failed to pick color: %w", err)
		}
		if !ok {
			return nil
		}
		return t.ApplyPick(rowID, c)
	case SideRow:
		f, _ := n.field()
		current, ok := f.Value().(schema.Side)
		if !ok {
			current = schema.SideBoth
		}
		return t.ApplyPick(rowID, current.Next())
	case ShipHeaderRow, DoorHeaderRow, FieldRow:
		return nil
	}
	return fmt.Errorf("row %s: unhandled row kind %s", rowID, n.kind)
}

// AddShip creates a ship in the fleet and returns its header row ID.
func (t *Tree) AddShip() string {
	s := t.fleet.NewShip()
	id := t.insertShip(s)
	t.notify(OpAddShip, id)
	return id
}

// AddDoor creates a door on the ship owning rowID and returns the door's
// header row ID.
func (t *Tree) AddDoor(rowID string) (string, error) {
	n, err := t.lookup(rowID)
	if err != nil {
		return "", err
	}
	if n.ship == nil {
		return "", fmt.Errorf("row %s: %w", rowID, ErrNoShip)
	}
	header := t.index[shipRowID(n.ship.ID())]

	d := n.ship.AddDoor()
	t.detach(header.children[len(header.children)-1])
	door := t.doorNode(header, d)
	t.attach(header, door)
	t.attach(header, t.addDoorNode(header))
	t.recolor(header)

	t.notify(OpAddDoor, door.id)
	return door.id, nil
}

// Remove deletes the ship or door behind a header row.
func (t *Tree) Remove(rowID string) error {
	n, err := t.lookup(rowID)
	if err != nil {
		return err
	}

	switch n.kind {
	case ShipHeaderRow:
		t.fleet.Remove(n.ship)
		if t.selected == n.ship {
			t.selected = nil
		}
		t.detach(n)
	case DoorHeaderRow:
		header := n.parent
		n.ship.RemoveDoor(n.door)
		t.detach(n)
		t.recolor(header)
	default:
		return fmt.Errorf("row %s: %w", rowID, ErrNotRemovable)
	}
	t.notify(OpRemove, rowID)
	return nil
}

// Select makes the ship owning rowID the drag payload.
func (t *Tree) Select(rowID string) (Payload, error) {
	n, err := t.lookup(rowID)
	if err != nil {
		return Payload{}, err
	}
	if n.ship == nil {
		return Payload{}, fmt.Errorf("row %s: %w", rowID, ErrNoShip)
	}
	t.selected = n.ship
	t.notify(OpSelect, rowID)
	return Payload{ShipID: n.ship.ID(), Name: n.ship.Name()}, nil
}

// DragPayload returns the currently selected ship, if any.
func (t *Tree) DragPayload() (Payload, bool) {
	if t.selected == nil {
		return Payload{}, false
	}
	return Payload{ShipID: t.selected.ID(), Name: t.selected.Name()}, true
}

func (t *Tree) lookup(rowID string) (*node, error) {
	n, ok := t.index[rowID]
	if !ok {
		return nil, fmt.Errorf("row %q: %w", rowID, ErrUnknownRow)
	}
	return n, nil
}

// insertShip removes the trailing "add ship" row, appends the ship's rows
// and re-appends a fresh sentinel.
func (t *Tree) insertShip(s *entity.Ship) string {
	t.detach(t.roots[len(t.roots)-1])
	n := t.shipNode(s)
	t.attach(nil, n)
	t.attach(nil, t.addShipNode())
	return n.id
}

// attach appends n under parent (nil for top level) and indexes its subtree.
func (t *Tree) attach(parent *node, n *node) {
	n.parent = parent
	if parent == nil {
		t.roots = append(t.roots, n)
	} else {
		parent.children = append(parent.children, n)
	}
	t.indexTree(n)
}

func (t *Tree) indexTree(n *node) {
	t.index[n.id] = n
	for _, c := range n.children {
		t.indexTree(c)
	}
}

// detach unlinks n from its parent and drops its subtree from the index.
func (t *Tree) detach(n *node) {
	if n.parent == nil {
		for i, r := range t.roots {
			if r == n {
				t.roots = append(t.roots[:i], t.roots[i+1:]...)
				break
			}
		}
	} else if i := n.parent.indexOf(n); i >= 0 {
		n.parent.children = append(n.parent.children[:i], n.parent.children[i+1:]...)
	}
	var drop func(*node)
	drop = func(n *node) {
		delete(t.index, n.id)
		for _, c := range n.children {
			drop(c)
		}
	}
	drop(n)
}

func (t *Tree) shipNode(s *entity.Ship) *node {
	header := &node{
		id:   shipRowID(s.ID()),
		kind: ShipHeaderRow,
		ship: s,
		key:  s.Schema().Identity().Key,
	}
	for _, f := range s.Fields() {
		if f.Descriptor().Identity {
			continue
		}
		header.children = append(header.children, t.fieldNode(header, s.ID(), f, nil))
	}
	for _, d := range s.Doors() {
		header.children = append(header.children, t.doorNode(header, d))
	}
	header.children = append(header.children, t.addDoorNode(header))
	t.paint(header)
	return header
}

func (t *Tree) doorNode(header *node, d *entity.Door) *node {
	n := &node{
		id:     doorRowID(d.ID()),
		kind:   DoorHeaderRow,
		parent: header,
		ship:   header.ship,
		door:   d,
		key:    d.Schema().Identity().Key,
	}
	for _, f := range d.Fields() {
		if f.Descriptor().Identity {
			continue
		}
		n.children = append(n.children, t.fieldNode(n, d.ID(), f, d))
	}
	t.paint(n)
	return n
}

func (t *Tree) fieldNode(parent *node, owner uuid.UUID, f *entity.Field, d *entity.Door) *node {
	n := &node{
		id:     fieldRowID(owner, f.Key()),
		kind:   rowKindFor(f.Kind()),
		label:  f.Label(),
		parent: parent,
		ship:   parent.ship,
		door:   d,
		key:    f.Key(),
	}
	t.paint(n)
	return n
}

func (t *Tree) addShipNode() *node {
	n := &node{id: addShipID, kind: AddShipSentinel}
	t.paint(n)
	return n
}

func (t *Tree) addDoorNode(header *node) *node {
	n := &node{id: addDoorRowID(header.ship.ID()), kind: AddDoorSentinel, parent: header, ship: header.ship}
	t.paint(n)
	return n
}

// paint writes a row's display state from the model. It is the only writer
// of display state and never notifies, so the value a rejected edit cleared
// is written back without a second change event.
func (t *Tree) paint(n *node) {
	switch n.kind {
	case AddShipSentinel:
		n.label, n.value, n.icon, n.tint = "Add ship", "", IconAdd, TintNone
	case AddDoorSentinel:
		n.label, n.value, n.icon, n.tint = "Add door", "", IconAdd, TintNone
	case ShipHeaderRow:
		n.label = n.ship.Name()
		n.value = ""
		if h, ok := n.ship.Height(); ok {
			n.value = "height " + strconv.FormatFloat(h, 'f', -1, 64)
		}
		n.tint = tintOf(n.ship.Valid())
	case DoorHeaderRow:
		n.label = n.door.Name()
		n.tint = tintOf(n.door.Valid())
	case FieldRow, ColorRow, PatternRow, SideRow:
		f, ok := n.field()
		if !ok {
			return
		}
		n.value = f.Text()
		n.tint = tintOf(f.Valid())
		n.icon = ""
		switch {
		case !f.Valid():
			n.icon = IconInvalid
		case n.kind != FieldRow:
			n.icon = t.opts.Icons.Icon(f.Value())
		}
	}
}

// recolor repaints a row and every ancestor. Door validity feeds ship
// validity, so a header repaint covers its children too.
func (t *Tree) recolor(n *node) {
	for cur := n; cur != nil; cur = cur.parent {
		t.paint(cur)
		if cur.kind == ShipHeaderRow || cur.kind == DoorHeaderRow {
			for _, c := range cur.children {
				t.paint(c)
			}
		}
	}
}
