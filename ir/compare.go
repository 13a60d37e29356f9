package ir

import (
	"bytes"
	"cmp"
)

// Equal reports whether a and b have the same names, values and children,
// recursively. Parents are not compared and references compare by
// identity.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Name != b.Name || !a.Value.Equal(b.Value) {
		return false
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

func isNumber(k Kind) bool {
	return k == IntKind || k == UintKind || k == FloatKind
}

// Compare orders two values. Absent sorts first. Numbers of different kinds compare
// numerically; other values of different kinds order by kind, so they
// are never equal. References compare their trees.
func Compare(v, o Value) int {
	if v.Kind != o.Kind {
		if isNumber(v.Kind) && isNumber(o.Kind) {
			a, _ := v.ToFloat()
			b, _ := o.ToFloat()
			return cmp.Compare(a, b)
		}
		return cmp.Compare(v.Kind, o.Kind)
	}
	switch v.Kind {
	case StringKind:
		return cmp.Compare(v.Str, o.Str)
	case IntKind:
		return cmp.Compare(v.Int, o.Int)
	case UintKind:
		return cmp.Compare(v.Uint, o.Uint)
	case FloatKind:
		return cmp.Compare(v.Float, o.Float)
	case BoolKind:
		switch {
		case v.Bool == o.Bool:
			return 0
		case o.Bool:
			return -1
		}
		return 1
	case TimeKind:
		return v.Time.Compare(o.Time)
	case BytesKind:
		return bytes.Compare(v.Bytes, o.Bytes)
	case RefKind:
		return compareNodes(v.Ref, o.Ref)
	case ExtKind:
		if v.Equal(o) {
			return 0
		}
		return cmp.Compare(v.String(), o.String())
	}
	return 0
}

// compareNodes orders trees by name, value, then children. References
// held in values compare by identity.
func compareNodes(a, b *Node) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if a.Value.Kind == RefKind && b.Value.Kind == RefKind {
		ra, rb := a.Value.Ref, b.Value.Ref
		switch {
		case ra == rb:
		case ra == nil:
			return -1
		case rb == nil:
			return 1
		default:
			if c := cmp.Compare(ra.Path().String(), rb.Path().String()); c != 0 {
				return c
			}
		}
	} else if c := Compare(a.Value, b.Value); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.children), len(b.children)); c != 0 {
		return c
	}
	for i := range a.children {
		if c := compareNodes(a.children[i], b.children[i]); c != 0 {
			return c
		}
	}
	return 0
}
