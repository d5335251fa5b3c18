package tree

import (
	"github.com/example/portplan/internal/core/schema"
)

// PatternPicker asks the user for a fill pattern. ok is false when the user
// cancels.
type PatternPicker interface {
	PickPattern(current schema.Pattern) (p schema.Pattern, ok bool, err error)
}

// ColorPicker asks the user for a color. ok is false when the user cancels.
type ColorPicker interface {
	PickColor(current schema.Color) (c schema.Color, ok bool, err error)
}

// IconRenderer turns an enumerated value into the swatch shown beside it.
type IconRenderer interface {
	Icon(v schema.Value) string
}

// Icon names for rows without a value swatch.
const (
	IconAdd     = "add"
	IconInvalid = "invalid"
)

// PlainIcons renders swatches as short text tokens that front ends map to
// their own glyphs or styles.
type PlainIcons struct{}

func (PlainIcons) Icon(v schema.Value) string {
	switch t := v.(type) {
	case schema.Color:
		return "color:" + t.Hex()
	case schema.Pattern:
		return "pattern:" + t.String()
	case schema.Side:
		return "side:" + t.String()
	}
	return ""
}
