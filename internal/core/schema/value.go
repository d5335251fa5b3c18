package schema

import (
	"math"
	"strconv"
)

// Kind is the declared value kind of a schema field.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindColor
	KindPattern
	KindSide
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindColor:
		return "color"
	case KindPattern:
		return "pattern"
	case KindSide:
		return "side"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Enumerated reports whether values of this kind come from a closed set
// (picked, not typed).
func (k Kind) Enumerated() bool {
	return k == KindColor || k == KindPattern || k == KindSide
}

// Value is a typed field value. The set of implementations is closed:
// Text, Number, Color, Pattern and Side.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// Text is a String field value.
type Text string

func (Text) Kind() Kind       { return KindString }
func (t Text) String() string { return string(t) }
func (Text) isValue()         {}

// Number is a Float field value.
type Number float64

func (Number) Kind() Kind { return KindFloat }

// String prints n in plain decimal, switching to exponent form for very
// large or very small magnitudes the way encoding/json does.
func (n Number) String() string {
	f := float64(n)
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (Number) isValue() {}
