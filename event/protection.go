package event

import (
	"fmt"
	"strings"
)

type Protection int

const (
	Open Protection = iota
	Internal
	Sealed
)

func (p Protection) String() string {
	s, ok := map[Protection]string{
		Open:     "open",
		Internal: "internal",
		Sealed:   "sealed",
	}[p]
	if ok {
		return s
	}
	return "<unknown protection>"
}

func ParseProtection(s string) (Protection, error) {
	p, ok := map[string]Protection{
		"open":     Open,
		"internal": Internal,
		"sealed":   Sealed,
	}[s]
	if !ok {
		return Open, fmt.Errorf("unrecognized protection %q", s)
	}
	return p, nil
}

// effective raises p to Internal for dot-prefixed names.
func effective(name string, p Protection) Protection {
	if strings.HasPrefix(name, ".") && p < Internal {
		return Internal
	}
	return p
}

type Origin int

const (
	// Native events are raised by Go code.
	Native Origin = iota
	// Instruction events are raised while executing a program tree.
	Instruction
)

func (o Origin) String() string {
	if o == Instruction {
		return "instruction"
	}
	return "native"
}
