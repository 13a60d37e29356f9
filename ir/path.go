package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path locates a node by the child indices leading to it from its root.
type Path []int

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "-")
}

func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "-")
	res := make(Path, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
		}
		res[i] = idx
	}
	return res, nil
}

// Path returns the path from the root of y to y.
func (y *Node) Path() Path {
	if y.Parent == nil {
		return Path{}
	}
	return append(y.Parent.Path(), y.Index())
}

// Resolve follows p from y, returning nil if p leaves the tree.
func (y *Node) Resolve(p Path) *Node {
	res := y
	for _, idx := range p {
		res = res.Child(idx)
		if res == nil {
			return nil
		}
	}
	return res
}

// Compare orders paths in document order.
func (p Path) Compare(o Path) int {
	for i := range min(len(p), len(o)) {
		if p[i] != o[i] {
			if p[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}
