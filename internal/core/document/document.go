// Package document converts ships to and from their persisted JSON form.
//
// A ship document is a flat object holding one key per ship field (the name
// is carried by the document's location, not its body). Every other key is a
// door: an object keyed by the door's name holding the door's fields.
// Door detection works by exclusion, so a misspelled ship key is read as a
// door definition; a door definition that lacks door keys is then rejected
// as malformed.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/iancoleman/orderedmap"

	"github.com/example/portplan/internal/core/entity"
	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/validate"
)

// ToDocument serializes a ship by walking the entity model. Keys follow
// schema order, doors follow creation order, unset values are null.
func ToDocument(s *entity.Ship) ([]byte, error) {
	doc := orderedmap.New()
	for _, f := range s.Fields() {
		if f.Descriptor().Identity {
			continue
		}
		doc.Set(f.Key(), encodeValue(f.Value()))
	}

	for i, d := range s.Doors() {
		name := d.Name()
		if name == "" {
			return nil, fmt.Errorf("door %d of ship %q: %w", i+1, s.Name(), validate.ErrEmptyRequired)
		}
		if s.Schema().Has(name) {
			return nil, fmt.Errorf("door %q of ship %q collides with a ship field: %w", name, s.Name(), validate.ErrDuplicateName)
		}
		door := orderedmap.New()
		for _, f := range d.Fields() {
			if f.Descriptor().Identity {
				continue
			}
			door.Set(f.Key(), encodeValue(f.Value()))
		}
		doc.Set(name, door)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode ship %q: %w", s.Name(), err)
	}
	return append(data, '\n'), nil
}

func encodeValue(v schema.Value) any {
	switch t := v.(type) {
	case nil:
		return nil
	case schema.Text:
		return string(t)
	case schema.Number:
		return float64(t)
	case schema.Pattern:
		return t.Index()
	case schema.Side:
		return int(t)
	case schema.Color:
		if i, ok := t.PaletteIndex(); ok {
			return i
		}
		return t.Hex()
	}
	return v.String()
}

// FromDocument hydrates a ship from its document. name is the ship's
// identity from the document's location; when empty a "name" key in the
// body is used instead. Field values that fail validation load as invalid
// fields; only structural problems fail with ErrMalformedDocument.
func FromDocument(name string, data []byte, shipSchema, doorSchema schema.Schema, opts ...entity.Option) (*entity.Ship, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &validate.DocumentError{Name: name, Reason: "not a JSON object: " + err.Error()}
	}
	if body == nil {
		return nil, &validate.DocumentError{Name: name, Reason: "not a JSON object"}
	}
	order := orderedmap.New()
	if err := json.Unmarshal(data, order); err != nil {
		order = orderedmap.New()
	}

	ship := entity.NewShip(shipSchema, doorSchema, opts...)
	identity := shipSchema.Identity().Key
	if name == "" {
		name = rawText(body[identity])
	}
	_ = ship.SetField(identity, name)

	for _, key := range documentKeys(order, body) {
		raw := body[key]
		if shipSchema.Has(key) {
			if key != identity {
				_ = ship.SetField(key, rawText(raw))
			}
			continue
		}
		if err := hydrateDoor(ship, name, key, raw, doorSchema); err != nil {
			return nil, err
		}
	}

	ship.Revalidate()
	return ship, nil
}

// documentKeys returns the body keys in document order. Keys the ordered
// decoder did not report are appended sorted.
func documentKeys(order *orderedmap.OrderedMap, body map[string]json.RawMessage) []string {
	seen := make(map[string]bool, len(body))
	var keys []string
	for _, k := range order.Keys() {
		if _, ok := body[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range body {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func hydrateDoor(ship *entity.Ship, shipName, doorName string, raw json.RawMessage, doorSchema schema.Schema) error {
	var fields map[string]json.RawMessage
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &validate.DocumentError{Name: shipName, Reason: fmt.Sprintf("key %q is neither a ship field nor a door object", doorName)}
	}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return &validate.DocumentError{Name: shipName, Reason: fmt.Sprintf("door %q: %v", doorName, err)}
	}

	identity := doorSchema.Identity().Key
	for _, f := range doorSchema.Fields() {
		if f.Key == identity {
			continue
		}
		if _, ok := fields[f.Key]; !ok {
			return &validate.DocumentError{Name: shipName, Reason: fmt.Sprintf("door %q is missing %q", doorName, f.Key)}
		}
	}

	door, err := ship.AddNamedDoor(doorName)
	if err != nil {
		return &validate.DocumentError{Name: shipName, Reason: fmt.Sprintf("door %q: %v", doorName, err)}
	}
	for _, f := range doorSchema.Fields() {
		if f.Key == identity {
			continue
		}
		_ = door.SetField(f.Key, rawText(fields[f.Key]))
	}
	return nil
}

// rawText turns a JSON scalar into the text the validation engine parses.
// Integral numbers lose their fraction so they can index enumerations.
func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil && f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return string(trimmed)
}
