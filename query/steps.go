package query

import (
	"iter"
	"slices"

	"github.com/signadot/go-lambda/ir"
)

// step transforms the current node set into the next one.
type step interface {
	apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node]
}

// each maps every node of the set to zero or more nodes.
type each func(n *ir.Node, yield func(*ir.Node) bool) bool

func (f each) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		for n := range in {
			if !f(n, yield) {
				return
			}
		}
	}
}

// keep retains the nodes satisfying the predicate.
type keep func(n *ir.Node) bool

func (f keep) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		for n := range in {
			if f(n) && !yield(n) {
				return
			}
		}
	}
}

// unique drops nodes already produced by s.
type unique struct {
	step
}

func (u unique) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	return dedup(u.step.apply(in))
}

func dedup(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		seen := map[*ir.Node]struct{}{}
		for n := range in {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			if !yield(n) {
				return
			}
		}
	}
}

var children = each(func(n *ir.Node, yield func(*ir.Node) bool) bool {
	for c := range n.All() {
		if !yield(c) {
			return false
		}
	}
	return true
})

var descendants = each(func(n *ir.Node, yield func(*ir.Node) bool) bool {
	for d := range n.Descendants() {
		if !yield(d) {
			return false
		}
	}
	return true
})

var parent = unique{each(func(n *ir.Node, yield func(*ir.Node) bool) bool {
	if n.Parent == nil {
		return true
	}
	return yield(n.Parent)
})}

var deref = each(func(n *ir.Node, yield func(*ir.Node) bool) bool {
	if n.Value.Kind != ir.RefKind || n.Value.Ref == nil {
		return true
	}
	return yield(n.Value.Ref)
})

func sibling(offset int) step {
	return each(func(n *ir.Node, yield func(*ir.Node) bool) bool {
		s := n.Sibling(offset)
		if s == nil {
			return true
		}
		return yield(s)
	})
}

func nth(i int) step {
	return each(func(n *ir.Node, yield func(*ir.Node) bool) bool {
		c := n.Child(i)
		if c == nil {
			return true
		}
		return yield(c)
	})
}

func ancestor(name string) step {
	return unique{each(func(n *ir.Node, yield func(*ir.Node) bool) bool {
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Name == name {
				return yield(p)
			}
		}
		return true
	})}
}

type rootStep struct{}

func (rootStep) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		for n := range in {
			yield(n.Root())
			return
		}
	}
}

// rangeStep keeps positions [start, end) of the set; end < 0 is unbounded.
type rangeStep struct {
	start, end int
}

func (r rangeStep) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		i := 0
		for n := range in {
			if r.end >= 0 && i >= r.end {
				return
			}
			if i >= r.start && !yield(n) {
				return
			}
			i++
		}
	}
}

type modStep int

func (m modStep) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		i := 0
		for n := range in {
			if i%int(m) == 0 && !yield(n) {
				return
			}
			i++
		}
	}
}

type logical int

const (
	opOr logical = iota
	opAnd
	opNot
	opXor
)

func logicalOf(c byte) logical {
	switch c {
	case '&':
		return opAnd
	case '!':
		return opNot
	case '^':
		return opXor
	}
	return opOr
}

func (op logical) combine(acc, items []*ir.Node) []*ir.Node {
	in := make(map[*ir.Node]bool, len(items))
	for _, n := range items {
		in[n] = true
	}
	switch op {
	case opAnd:
		return slices.DeleteFunc(acc, func(n *ir.Node) bool { return !in[n] })
	case opNot:
		return slices.DeleteFunc(acc, func(n *ir.Node) bool { return in[n] })
	case opXor:
		had := make(map[*ir.Node]bool, len(acc))
		for _, n := range acc {
			had[n] = true
		}
		acc = slices.DeleteFunc(acc, func(n *ir.Node) bool { return in[n] })
		for _, n := range items {
			if !had[n] {
				had[n] = true
				acc = append(acc, n)
			}
		}
		return acc
	}
	had := make(map[*ir.Node]bool, len(acc))
	for _, n := range acc {
		had[n] = true
	}
	for _, n := range items {
		if !had[n] {
			had[n] = true
			acc = append(acc, n)
		}
	}
	return acc
}

type branch struct {
	op    logical
	steps []step
}

func (b *branch) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	res := in
	for _, s := range b.steps {
		res = s.apply(res)
	}
	return res
}

// group evaluates each branch from the set it starts from and folds the
// results left to right.
type group struct {
	branches []*branch
}

func (g *group) apply(in iter.Seq[*ir.Node]) iter.Seq[*ir.Node] {
	if len(g.branches) == 1 {
		return dedup(g.branches[0].apply(in))
	}
	return func(yield func(*ir.Node) bool) {
		root := slices.Collect(in)
		var acc []*ir.Node
		for _, b := range g.branches {
			acc = b.op.combine(acc, slices.Collect(b.apply(slices.Values(root))))
		}
		for _, n := range acc {
			if !yield(n) {
				return
			}
		}
	}
}
