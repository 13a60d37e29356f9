package query

import (
	"fmt"
	"strings"

	"github.com/signadot/go-lambda/ir"
)

type Extractor int

const (
	ExtractNode Extractor = iota
	ExtractValue
	ExtractName
	ExtractPath
	ExtractCount
)

var extractorNames = [...]string{
	ExtractNode:  "node",
	ExtractValue: "value",
	ExtractName:  "name",
	ExtractPath:  "path",
	ExtractCount: "count",
}

func (x Extractor) String() string {
	if x < 0 || int(x) >= len(extractorNames) {
		return fmt.Sprintf("Extractor(%d)", int(x))
	}
	return extractorNames[x]
}

func parseExtractor(s string) (Extractor, bool) {
	for i, name := range extractorNames {
		if name == s {
			return Extractor(i), true
		}
	}
	return 0, false
}

// Entity is one result of an evaluated expression. Node is the matched
// node, nil for counts.
type Entity struct {
	Node  *ir.Node
	Value ir.Value
}

type Match struct {
	Extractor Extractor
	Entities  []Entity
}

func (m *Match) Len() int {
	return len(m.Entities)
}

func (m *Match) Values() []ir.Value {
	res := make([]ir.Value, len(m.Entities))
	for i := range m.Entities {
		res[i] = m.Entities[i].Value
	}
	return res
}

// Nodes returns the matched nodes themselves, not their clones.
func (m *Match) Nodes() []*ir.Node {
	res := make([]*ir.Node, 0, len(m.Entities))
	for i := range m.Entities {
		if n := m.Entities[i].Node; n != nil {
			res = append(res, n)
		}
	}
	return res
}

func (m *Match) Join(sep string) string {
	parts := make([]string, len(m.Entities))
	for i := range m.Entities {
		parts[i] = m.Entities[i].Value.String()
	}
	return strings.Join(parts, sep)
}

// Single returns the only value of m, absent for an empty match, or the
// concatenated string values if there are several.
func (m *Match) Single() ir.Value {
	switch len(m.Entities) {
	case 0:
		return ir.Absent()
	case 1:
		return m.Entities[0].Value
	}
	return ir.StringValue(m.Join(""))
}
