package query

import (
	"iter"

	"github.com/signadot/go-lambda/debug"
	"github.com/signadot/go-lambda/ir"
)

// Expr is a parsed expression.
type Expr struct {
	src     string
	ref     bool
	root    *group
	extract Extractor
	cast    ir.Kind
}

func (e *Expr) String() string {
	return e.src
}

// IsReference reports whether e was written with '@@'.
func (e *Expr) IsReference() bool {
	return e.ref
}

func (e *Expr) Extractor() Extractor {
	return e.extract
}

// Nodes returns the nodes selected from anchor, evaluated lazily.
func (e *Expr) Nodes(anchor *ir.Node) iter.Seq[*ir.Node] {
	return e.root.apply(func(yield func(*ir.Node) bool) {
		yield(anchor)
	})
}

// First returns the first node selected from anchor, or nil.
func (e *Expr) First(anchor *ir.Node) *ir.Node {
	for n := range e.Nodes(anchor) {
		return n
	}
	return nil
}

// MaxReferenceDepth bounds the chain of expressions followed by '@@'.
const MaxReferenceDepth = 64

// Evaluate runs e from anchor and applies its extractor.
func (e *Expr) Evaluate(anchor *ir.Node) (*Match, error) {
	return e.evaluate(anchor, 0)
}

func (e *Expr) evaluate(anchor *ir.Node, depth int) (*Match, error) {
	m := &Match{Extractor: e.extract}
	if e.extract == ExtractCount {
		n := 0
		for range e.Nodes(anchor) {
			n++
		}
		m.Entities = []Entity{{Value: ir.IntValue(int64(n))}}
		e.log(anchor, m)
		return m, nil
	}
	for n := range e.Nodes(anchor) {
		if e.ref {
			sub, err := e.follow(n, depth)
			if err != nil {
				return nil, err
			}
			if sub != nil {
				m.Entities = append(m.Entities, sub.Entities...)
				continue
			}
		}
		ent, err := e.entity(n)
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, ent)
	}
	e.log(anchor, m)
	return m, nil
}

// follow evaluates the expression held by the extracted string of n
// relative to n, returning nil if it is not an expression.
func (e *Expr) follow(n *ir.Node, depth int) (*Match, error) {
	s := n.Name
	if e.extract == ExtractValue {
		if n.Value.Kind != ir.StringKind {
			return nil, nil
		}
		s = n.Value.Str
	}
	if !IsExpression(s) {
		return nil, nil
	}
	if depth >= MaxReferenceDepth {
		return nil, exprErr(s, "references nested deeper than %d", MaxReferenceDepth)
	}
	sub, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return sub.evaluate(n, depth+1)
}

func (e *Expr) entity(n *ir.Node) (Entity, error) {
	var v ir.Value
	switch e.extract {
	case ExtractNode:
		return Entity{Node: n, Value: ir.RefValue(n.Clone())}, nil
	case ExtractPath:
		return Entity{Node: n, Value: ir.StringValue(n.Path().String())}, nil
	case ExtractName:
		v = ir.StringValue(n.Name)
	default:
		v = n.Value
	}
	if e.cast != ir.AbsentKind {
		cv, err := v.To(e.cast)
		if err != nil {
			return Entity{}, err
		}
		v = cv
	}
	return Entity{Node: n, Value: v}, nil
}

func (e *Expr) log(anchor *ir.Node, m *Match) {
	if !debug.Query() {
		return
	}
	debug.Logf("query %s from %q: %d %s result(s)\n", e.src, anchor.Name, m.Len(), m.Extractor)
}
