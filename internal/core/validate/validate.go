// Package validate contains the pure validation rules for entity fields.
// Functions here hold no state and never touch an entity.
package validate

import (
	"strconv"
	"strings"

	"github.com/example/portplan/internal/core/schema"
)

// Parse converts raw text into a typed value of the given kind.
// Blank input fails with ErrEmptyRequired for every kind; unparseable input
// fails with ErrTypeMismatch.
func Parse(kind schema.Kind, raw string) (schema.Value, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyRequired
	}

	switch kind {
	case schema.KindString:
		return schema.Text(text), nil
	case schema.KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, ErrTypeMismatch
		}
		return schema.Number(f), nil
	case schema.KindColor:
		if c, ok := schema.ParseColor(text); ok {
			return c, nil
		}
	case schema.KindPattern:
		if p, ok := schema.ParsePattern(text); ok {
			return p, nil
		}
	case schema.KindSide:
		if s, ok := schema.ParseSide(text); ok {
			return s, nil
		}
	}
	return nil, ErrTypeMismatch
}

// Check validates an already-typed value against a declared kind.
// Enumerated values are valid by construction once the kind matches.
func Check(kind schema.Kind, v schema.Value) error {
	if v == nil {
		return ErrEmptyRequired
	}
	if v.Kind() != kind {
		return ErrTypeMismatch
	}
	switch t := v.(type) {
	case schema.Text:
		if strings.TrimSpace(string(t)) == "" {
			return ErrEmptyRequired
		}
	case schema.Pattern:
		if _, ok := schema.PatternFromIndex(int(t)); !ok {
			return ErrTypeMismatch
		}
	case schema.Side:
		if _, ok := schema.SideFromIndex(int(t)); !ok {
			return ErrTypeMismatch
		}
	}
	return nil
}

// Aggregate computes a composite entity's validity: every own field valid,
// every child valid, and at least one child when requireChild is set.
func Aggregate(fields []bool, children []bool, requireChild bool) bool {
	if requireChild && len(children) == 0 {
		return false
	}
	for _, ok := range fields {
		if !ok {
			return false
		}
	}
	for _, ok := range children {
		if !ok {
			return false
		}
	}
	return true
}
