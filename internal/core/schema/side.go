package schema

import (
	"strconv"
	"strings"
)

// Side is the hull side a door opens on.
type Side int

const (
	SidePort Side = iota
	SideStarboard
	SideBoth
)

var sideNames = [...]string{
	SidePort:      "Port",
	SideStarboard: "Starboard",
	SideBoth:      "Both",
}

// SideFromIndex returns the side with persisted integer i.
func SideFromIndex(i int) (Side, bool) {
	if i < 0 || i >= len(sideNames) {
		return 0, false
	}
	return Side(i), true
}

// ParseSide accepts the integer form or a case-insensitive name.
func ParseSide(s string) (Side, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return SideFromIndex(i)
	}
	for i, n := range sideNames {
		if strings.EqualFold(n, s) {
			return Side(i), true
		}
	}
	return 0, false
}

// Next cycles Port -> Starboard -> Both -> Port.
func (s Side) Next() Side {
	return Side((int(s) + 1) % len(sideNames))
}

func (Side) Kind() Kind { return KindSide }

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return "Side(" + strconv.Itoa(int(s)) + ")"
	}
	return sideNames[s]
}

func (Side) isValue() {}
