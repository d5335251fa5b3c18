package schema

import (
	"strconv"
	"strings"
)

// Pattern is a ship fill pattern. Its integer value is the index into the
// allowed pattern list, which is also the persisted representation.
// NoBrush, gradient and texture fills are not part of the list.
type Pattern int

const (
	PatternSolid Pattern = iota
	PatternDense1
	PatternDense2
	PatternDense3
	PatternDense4
	PatternDense5
	PatternDense6
	PatternDense7
	PatternHorizontal
	PatternVertical
	PatternCross
	PatternBDiag
	PatternFDiag
	PatternDiagCross
)

var patternNames = [...]string{
	PatternSolid:      "Solid",
	PatternDense1:     "Dense1",
	PatternDense2:     "Dense2",
	PatternDense3:     "Dense3",
	PatternDense4:     "Dense4",
	PatternDense5:     "Dense5",
	PatternDense6:     "Dense6",
	PatternDense7:     "Dense7",
	PatternHorizontal: "Horizontal",
	PatternVertical:   "Vertical",
	PatternCross:      "Cross",
	PatternBDiag:      "BDiag",
	PatternFDiag:      "FDiag",
	PatternDiagCross:  "DiagCross",
}

// Patterns returns the allowed patterns in index order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patternNames))
	for i := range patternNames {
		out[i] = Pattern(i)
	}
	return out
}

// PatternFromIndex returns the allowed pattern at index i.
func PatternFromIndex(i int) (Pattern, bool) {
	if i < 0 || i >= len(patternNames) {
		return 0, false
	}
	return Pattern(i), true
}

// ParsePattern accepts an index into the allowed list or a case-insensitive
// pattern name ("dense3", "Dense3Pattern").
func ParsePattern(s string) (Pattern, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return PatternFromIndex(i)
	}
	name := strings.TrimSuffix(strings.ToLower(s), "pattern")
	for i, n := range patternNames {
		if strings.ToLower(n) == name {
			return Pattern(i), true
		}
	}
	return 0, false
}

func (Pattern) Kind() Kind { return KindPattern }

func (p Pattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return "Pattern(" + strconv.Itoa(int(p)) + ")"
	}
	return patternNames[p]
}

// Index is the persisted integer form.
func (p Pattern) Index() int { return int(p) }

func (Pattern) isValue() {}
