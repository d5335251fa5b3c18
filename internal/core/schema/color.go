package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA ship color. The bitmap aliases color0 and color1 render
// like white and black but stay distinct values, so a document keeps the
// index it was written with.
type Color struct {
	R, G, B, A uint8

	alias int8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xff} }

// NamedColor is a palette entry. Palette position is the persisted integer form.
type NamedColor struct {
	Name  string
	Color Color
}

var palette = [...]NamedColor{
	{"color0", Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff, alias: 1}},
	{"color1", Color{A: 0xff, alias: 2}},
	{"black", RGB(0x00, 0x00, 0x00)},
	{"white", RGB(0xff, 0xff, 0xff)},
	{"darkGray", RGB(0x80, 0x80, 0x80)},
	{"gray", RGB(0xa0, 0xa0, 0xa4)},
	{"lightGray", RGB(0xc0, 0xc0, 0xc0)},
	{"red", RGB(0xff, 0x00, 0x00)},
	{"green", RGB(0x00, 0xff, 0x00)},
	{"blue", RGB(0x00, 0x00, 0xff)},
	{"cyan", RGB(0x00, 0xff, 0xff)},
	{"magenta", RGB(0xff, 0x00, 0xff)},
	{"yellow", RGB(0xff, 0xff, 0x00)},
	{"darkRed", RGB(0x80, 0x00, 0x00)},
	{"darkGreen", RGB(0x00, 0x80, 0x00)},
	{"darkBlue", RGB(0x00, 0x00, 0x80)},
	{"darkCyan", RGB(0x00, 0x80, 0x80)},
	{"darkMagenta", RGB(0x80, 0x00, 0x80)},
	{"darkYellow", RGB(0x80, 0x80, 0x00)},
	{"transparent", Color{}},
}

var (
	Black = palette[2].Color
	White = palette[3].Color
	Red   = palette[7].Color
	Green = palette[8].Color
	Blue  = palette[9].Color
)

// Palette returns the named colors in index order.
func Palette() []NamedColor {
	out := make([]NamedColor, len(palette))
	copy(out, palette[:])
	return out
}

// ColorFromIndex returns the palette color at index i.
func ColorFromIndex(i int) (Color, bool) {
	if i < 0 || i >= len(palette) {
		return Color{}, false
	}
	return palette[i].Color, true
}

// ParseColor accepts a palette index, a case-insensitive palette name or a
// "#rrggbb" / "#rrggbbaa" hex string.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return ColorFromIndex(i)
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	for _, nc := range palette {
		if strings.EqualFold(nc.Name, s) {
			return nc.Color, true
		}
	}
	return Color{}, false
}

func parseHex(h string) (Color, bool) {
	if len(h) != 6 && len(h) != 8 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(h) == 6 {
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// PaletteIndex returns the palette position holding c.
func (c Color) PaletteIndex() (int, bool) {
	for i := range palette {
		if palette[i].Color == c {
			return i, true
		}
	}
	return 0, false
}

// IsAlias reports whether c is one of the color0/color1 bitmap aliases.
func (c Color) IsAlias() bool { return c.alias != 0 }

// Hex formats c as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (Color) Kind() Kind { return KindColor }

func (c Color) String() string {
	if i, ok := c.PaletteIndex(); ok {
		return palette[i].Name
	}
	return c.Hex()
}

func (Color) isValue() {}
