package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/ports/primary"
)

// TreeRenderer prints the editor outline as numbered lines. Numbers follow
// display order and are what REPL commands refer to.
type TreeRenderer struct {
	out io.Writer
}

// NewTreeRenderer creates a renderer writing to out.
func NewTreeRenderer(out io.Writer) *TreeRenderer {
	return &TreeRenderer{out: out}
}

type line struct {
	row   *primary.TreeRow
	depth int
}

// Render prints rows and returns them flattened in display order, so that
// rows[n-1] is the row printed as n.
func (r *TreeRenderer) Render(rows []*primary.TreeRow) []*primary.TreeRow {
	var lines []line
	flatten(rows, 0, &lines)

	width := 0
	for _, l := range lines {
		if w := 2*l.depth + utf8.RuneCountInString(l.row.Label); w > width {
			width = w
		}
	}

	flat := make([]*primary.TreeRow, 0, len(lines))
	for i, l := range lines {
		label := strings.Repeat("  ", l.depth) + l.row.Label
		label += strings.Repeat(" ", width-utf8.RuneCountInString(label))
		fmt.Fprintf(r.out, "%3d  %s  %s %s\n", i+1, tintLabel(l.row, label), glyph(l.row.Icon), l.row.Value)
		flat = append(flat, l.row)
	}
	return flat
}

func flatten(rows []*primary.TreeRow, depth int, out *[]line) {
	for _, row := range rows {
		*out = append(*out, line{row: row, depth: depth})
		flatten(row.Children, depth+1, out)
	}
}

func tintLabel(row *primary.TreeRow, label string) string {
	switch row.Tint {
	case "valid":
		return color.GreenString(label)
	case "invalid":
		return color.RedString(label)
	}
	if strings.HasPrefix(row.Kind, "add_") {
		return color.New(color.Faint).Sprint(label)
	}
	return label
}

var patternGlyphs = map[string]string{
	"Solid":      "█",
	"Dense1":     "▓",
	"Dense2":     "▓",
	"Dense3":     "▒",
	"Dense4":     "▒",
	"Dense5":     "░",
	"Dense6":     "░",
	"Dense7":     "·",
	"Horizontal": "═",
	"Vertical":   "║",
	"Cross":      "╬",
	"BDiag":      "╲",
	"FDiag":      "╱",
	"DiagCross":  "╳",
}

var sideGlyphs = map[string]string{
	"Port":      "◀",
	"Starboard": "▶",
	"Both":      "◆",
}

// glyph maps an icon token from the tree to a single terminal cell.
func glyph(icon string) string {
	kind, arg, _ := strings.Cut(icon, ":")
	switch kind {
	case "add":
		return "+"
	case "invalid":
		return color.RedString("✗")
	case "color":
		return swatch(arg)
	case "pattern":
		if g, ok := patternGlyphs[arg]; ok {
			return g
		}
	case "side":
		if g, ok := sideGlyphs[arg]; ok {
			return g
		}
	}
	return " "
}

var ansiColors = []struct {
	attr  color.Attribute
	color schema.Color
}{
	{color.FgBlack, schema.RGB(0, 0, 0)},
	{color.FgRed, schema.RGB(0xff, 0, 0)},
	{color.FgGreen, schema.RGB(0, 0xff, 0)},
	{color.FgYellow, schema.RGB(0xff, 0xff, 0)},
	{color.FgBlue, schema.RGB(0, 0, 0xff)},
	{color.FgMagenta, schema.RGB(0xff, 0, 0xff)},
	{color.FgCyan, schema.RGB(0, 0xff, 0xff)},
	{color.FgWhite, schema.RGB(0xff, 0xff, 0xff)},
}

// swatch draws a block in the basic terminal color closest to hex.
func swatch(hex string) string {
	c, ok := schema.ParseColor(hex)
	if !ok || c.A == 0 {
		return "□"
	}
	best, bestDist := ansiColors[0].attr, -1
	for _, a := range ansiColors {
		dr := int(c.R) - int(a.color.R)
		dg := int(c.G) - int(a.color.G)
		db := int(c.B) - int(a.color.B)
		if d := dr*dr + dg*dg + db*db; bestDist < 0 || d < bestDist {
			best, bestDist = a.attr, d
		}
	}
	return color.New(best).Sprint("■")
}
