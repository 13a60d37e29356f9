package lambda

import (
	"cmp"
	"strings"

	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"
)

var comparisons = map[string]func(int) bool{
	"=":  func(c int) bool { return c == 0 },
	"!=": func(c int) bool { return c != 0 },
	"<":  func(c int) bool { return c < 0 },
	">":  func(c int) bool { return c > 0 },
	"<=": func(c int) bool { return c <= 0 },
	">=": func(c int) bool { return c >= 0 },
}

func isOperator(name string) bool {
	if _, ok := comparisons[name]; ok {
		return true
	}
	switch name {
	case "~", "!~", "and", "or", "xor", "not":
		return true
	}
	return false
}

// condition evaluates the condition held by n: its value, refined by the
// leading operator children. It returns the index of the first child of
// the body.
//
// Comparison children compare the values of n with their own. The
// logical children and, xor and or hold nested conditions; and and xor
// bind tighter than or. not negates everything before it.
func (x *Executor) condition(n *ir.Node) (bool, int, error) {
	if n.Value.IsAbsent() {
		return false, 0, blockErr("%q needs a condition", n.Name)
	}
	v, err := query.Single(n, n)
	if err != nil {
		return false, 0, err
	}
	var (
		cur  = v.Truthy()
		held bool
		lhs  []ir.Value
		have bool
	)
	i := 0
	for ; i < n.Len(); i++ {
		c := n.Child(i)
		if c.Name == "" {
			continue
		}
		if !isOperator(c.Name) {
			break
		}
		switch c.Name {
		case "~", "!~":
			r, err := query.Single(c, c)
			if err != nil {
				return false, 0, err
			}
			cur = strings.Contains(v.String(), r.String()) == (c.Name == "~")
		case "and":
			if cur {
				if cur, err = x.nested(c); err != nil {
					return false, 0, err
				}
			}
		case "xor":
			r, err := x.nested(c)
			if err != nil {
				return false, 0, err
			}
			cur = cur != r
		case "or":
			held = held || cur
			if cur, err = x.nested(c); err != nil {
				return false, 0, err
			}
		case "not":
			if !c.Value.IsAbsent() || c.Len() != 0 {
				return false, 0, blockErr("not takes no value or children")
			}
			cur, held = !(held || cur), false
		default:
			if !have {
				if lhs, err = query.Iterate(n, n); err != nil {
					return false, 0, err
				}
				have = true
			}
			rhs, err := query.Iterate(c, c)
			if err != nil {
				return false, 0, err
			}
			cur = comparisons[c.Name](compareValues(lhs, rhs))
		}
	}
	return held || cur, i, nil
}

// nested evaluates the condition of a logical operator, which has no body.
func (x *Executor) nested(n *ir.Node) (bool, error) {
	ok, skip, err := x.condition(n)
	if err != nil {
		return false, err
	}
	if skip < n.Len() {
		return false, blockErr("%q in the condition of %q", n.Child(skip).Name, n.Name)
	}
	return ok, nil
}

// compareValues orders two lists of values item by item, shorter lists
// first. Lists holding only absent values are equal.
func compareValues(a, b []ir.Value) int {
	if allAbsent(a) && allAbsent(b) {
		return 0
	}
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := ir.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func allAbsent(vs []ir.Value) bool {
	for _, v := range vs {
		if !v.IsAbsent() {
			return false
		}
	}
	return true
}
