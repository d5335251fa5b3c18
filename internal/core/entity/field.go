// Package entity holds the in-memory ship and door model. It is the source
// of truth for every view built on top of it.
package entity

import (
	"fmt"

	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/validate"
)

// Field is one schema field of an entity with its current value and
// per-field validity.
type Field struct {
	desc  schema.FieldDescriptor
	value schema.Value
	valid bool
	err   error
}

func (f *Field) Descriptor() schema.FieldDescriptor { return f.desc }
func (f *Field) Key() string                        { return f.desc.Key }
func (f *Field) Label() string                      { return f.desc.Label }
func (f *Field) Kind() schema.Kind                  { return f.desc.Kind }

// Value returns the typed value, or nil when unset.
func (f *Field) Value() schema.Value { return f.value }

// IsSet reports whether the field holds a value.
func (f *Field) IsSet() bool { return f.value != nil }

// Valid reports the result of the last validation of this field.
func (f *Field) Valid() bool { return f.valid }

// Err is the error of the last rejected edit, or nil.
func (f *Field) Err() error { return f.err }

// Text is the display text; empty when unset.
func (f *Field) Text() string {
	if f.value == nil {
		return ""
	}
	return f.value.String()
}

func (f *Field) accept(v schema.Value) {
	f.value = v
	f.valid = true
	f.err = nil
}

func (f *Field) reject(input string, err error) error {
	f.value = nil
	f.valid = false
	f.err = &validate.FieldError{Key: f.desc.Key, Input: input, Err: err}
	return f.err
}

// record is the field storage shared by ships and doors.
type record struct {
	schema schema.Schema
	fields []*Field
}

func newRecord(s schema.Schema) record {
	r := record{schema: s, fields: make([]*Field, s.Count())}
	for i, d := range s.Fields() {
		r.fields[i] = &Field{desc: d}
	}
	return r
}

func (r *record) field(key string) (*Field, error) {
	_, i, ok := r.schema.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%s has no field %q", r.schema.Name(), key)
	}
	return r.fields[i], nil
}

func (r *record) name() string {
	return r.fields[r.identityIndex()].Text()
}

func (r *record) identityIndex() int {
	_, i, _ := r.schema.Lookup(r.schema.Identity().Key)
	return i
}

func (r *record) validity() []bool {
	out := make([]bool, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.valid
	}
	return out
}

func (r *record) snapshot() []*Field {
	return append([]*Field(nil), r.fields...)
}

// nameOwner resolves sibling name collisions for identity fields.
type nameOwner interface {
	nameTaken(name string, self any) bool
}

// set parses raw into the field at key. Identity fields are also checked
// against the owner's other children.
func (r *record) set(key, raw string, owner nameOwner, self any) error {
	f, err := r.field(key)
	if err != nil {
		return err
	}
	v, err := validate.Parse(f.desc.Kind, raw)
	if err != nil {
		return f.reject(raw, err)
	}
	if f.desc.Identity && owner != nil && owner.nameTaken(v.String(), self) {
		return f.reject(raw, validate.ErrDuplicateName)
	}
	f.accept(v)
	return nil
}

// put assigns an already typed value, as returned by a picker.
func (r *record) put(key string, v schema.Value, owner nameOwner, self any) error {
	f, err := r.field(key)
	if err != nil {
		return err
	}
	input := ""
	if v != nil {
		input = v.String()
	}
	if err := validate.Check(f.desc.Kind, v); err != nil {
		return f.reject(input, err)
	}
	if f.desc.Identity && owner != nil && owner.nameTaken(v.String(), self) {
		return f.reject(input, validate.ErrDuplicateName)
	}
	f.accept(v)
	return nil
}
