// Package schema describes the attribute schemas of the editable entities.
// A schema is an ordered, immutable list of typed fields; its order is the
// display order and the serialization order.
package schema

import "fmt"

// FieldDescriptor describes one field of an entity kind.
type FieldDescriptor struct {
	Key   string // persisted document key
	Label string // display label
	Kind  Kind

	// Identity marks the name field. It is carried by the document's
	// location rather than inside the document body.
	Identity bool
}

// Schema is the ordered field list of one entity kind.
type Schema struct {
	name     string
	fields   []FieldDescriptor
	index    map[string]int
	identity int
}

// New builds a schema. Duplicate keys or a missing/duplicate identity field
// are programming errors and panic.
func New(name string, fields ...FieldDescriptor) Schema {
	s := Schema{
		name:     name,
		fields:   append([]FieldDescriptor(nil), fields...),
		index:    make(map[string]int, len(fields)),
		identity: -1,
	}
	for i, f := range s.fields {
		if _, dup := s.index[f.Key]; dup {
			panic(fmt.Sprintf("schema %s: duplicate field key %q", name, f.Key))
		}
		s.index[f.Key] = i
		if f.Identity {
			if s.identity >= 0 {
				panic(fmt.Sprintf("schema %s: more than one identity field", name))
			}
			if f.Kind != KindString {
				panic(fmt.Sprintf("schema %s: identity field %q must be a string", name, f.Key))
			}
			s.identity = i
		}
	}
	if s.identity < 0 {
		panic(fmt.Sprintf("schema %s: no identity field", name))
	}
	return s
}

// Name is the entity kind, e.g. "ship".
func (s Schema) Name() string { return s.name }

// Fields returns the descriptors in schema order.
func (s Schema) Fields() []FieldDescriptor {
	return append([]FieldDescriptor(nil), s.fields...)
}

// FieldAt returns the descriptor at position i.
func (s Schema) FieldAt(i int) FieldDescriptor { return s.fields[i] }

// Count returns the number of fields.
func (s Schema) Count() int { return len(s.fields) }

// Lookup finds a field by key and returns its position.
func (s Schema) Lookup(key string) (FieldDescriptor, int, bool) {
	i, ok := s.index[key]
	if !ok {
		return FieldDescriptor{}, -1, false
	}
	return s.fields[i], i, true
}

// Has reports whether key is a field of this schema.
func (s Schema) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Identity returns the name field.
func (s Schema) Identity() FieldDescriptor { return s.fields[s.identity] }

// Ship is the ship attribute schema.
var Ship = New("ship",
	FieldDescriptor{Key: "name", Label: "Name", Kind: KindString, Identity: true},
	FieldDescriptor{Key: "length", Label: "Length", Kind: KindFloat},
	FieldDescriptor{Key: "pattern", Label: "Pattern", Kind: KindPattern},
	FieldDescriptor{Key: "color", Label: "Color", Kind: KindColor},
	FieldDescriptor{Key: "width", Label: "Width", Kind: KindFloat},
)

// Door is the door attribute schema.
var Door = New("door",
	FieldDescriptor{Key: "name", Label: "Name", Kind: KindString, Identity: true},
	FieldDescriptor{Key: "side", Label: "Side", Kind: KindSide},
	FieldDescriptor{Key: "bow_distance", Label: "Bow distance", Kind: KindFloat},
	FieldDescriptor{Key: "stern_distance", Label: "Stern distance", Kind: KindFloat},
	FieldDescriptor{Key: "width", Label: "Width", Kind: KindFloat},
	FieldDescriptor{Key: "height", Label: "Height", Kind: KindFloat},
	FieldDescriptor{Key: "height_above_waterline", Label: "Height above waterline", Kind: KindFloat},
)
