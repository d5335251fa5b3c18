package tree

import (
	"errors"
	"fmt"
)

// Check verifies the outline's structural invariants against the fleet:
// ships appear in fleet order followed by exactly one "add ship" row, each
// ship lists its fields, then its doors, then exactly one "add door" row,
// and sentinels carry no tint. It returns every violation found.
func (t *Tree) Check() error {
	var errs []error
	ships := t.fleet.Ships()

	if len(t.roots) != len(ships)+1 {
		errs = append(errs, fmt.Errorf("%d top-level rows for %d ships", len(t.roots), len(ships)))
	}
	for i, n := range t.roots {
		last := i == len(t.roots)-1
		switch {
		case last && n.kind != AddShipSentinel:
			errs = append(errs, fmt.Errorf("last top-level row is %s, want %s", n.kind, AddShipSentinel))
		case !last && n.kind != ShipHeaderRow:
			errs = append(errs, fmt.Errorf("top-level row %d is %s", i, n.kind))
		case !last && i < len(ships) && n.ship != ships[i]:
			errs = append(errs, fmt.Errorf("top-level row %d is not ship %q", i, ships[i].Name()))
		}
		if n.kind == ShipHeaderRow {
			errs = append(errs, t.checkShip(n)...)
		}
	}

	count := 0
	Walk(t.Rows(), func(r Row, _ int) {
		count++
		if r.Kind.Sentinel() && r.Tint != TintNone {
			errs = append(errs, fmt.Errorf("sentinel %s is tinted %s", r.ID, r.Tint))
		}
		if _, ok := t.index[r.ID]; !ok {
			errs = append(errs, fmt.Errorf("row %s is not indexed", r.ID))
		}
	})
	if count != len(t.index) {
		errs = append(errs, fmt.Errorf("%d rows but %d indexed", count, len(t.index)))
	}
	return errors.Join(errs...)
}

func (t *Tree) checkShip(header *node) []error {
	var errs []error
	s := header.ship
	fields := s.Schema().Count() - 1
	doors := s.Doors()

	if want := fields + len(doors) + 1; len(header.children) != want {
		errs = append(errs, fmt.Errorf("ship %q has %d rows, want %d", s.Name(), len(header.children), want))
		return errs
	}
	for i, c := range header.children {
		switch {
		case i < fields:
			if c.kind == ShipHeaderRow || c.kind == DoorHeaderRow || c.kind.Sentinel() {
				errs = append(errs, fmt.Errorf("ship %q row %d is %s, want a field", s.Name(), i, c.kind))
			}
		case i < fields+len(doors):
			if c.kind != DoorHeaderRow || c.door != doors[i-fields] {
				errs = append(errs, fmt.Errorf("ship %q row %d is not door %q", s.Name(), i, doors[i-fields].Name()))
			}
		default:
			if c.kind != AddDoorSentinel {
				errs = append(errs, fmt.Errorf("last row of ship %q is %s, want %s", s.Name(), c.kind, AddDoorSentinel))
			}
		}
		if c.parent != header {
			errs = append(errs, fmt.Errorf("row %s has the wrong parent", c.id))
		}
	}
	return errs
}
