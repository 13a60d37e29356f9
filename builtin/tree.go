package builtin

import (
	"slices"

	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"
)

// destination parses the expression held in the value of args.
func destination(args *ir.Node) (*query.Expr, error) {
	if !query.IsExpressionValue(args.Value) {
		return nil, argsErr("%q needs a destination expression, got %s", args.Name, args.Value)
	}
	src := args.Value.Str
	if query.IsFormatted(args) {
		var err error
		if src, err = query.Format(args, args); err != nil {
			return nil, err
		}
	}
	return query.Parse(src)
}

// set assigns the source in its "src" child to every node the destination
// matches. What is assigned depends on the destination extractor: values,
// names, or whole nodes. Without a source values are cleared, names
// emptied and nodes removed.
func (b *Builtins) set(_ *event.Context, args *ir.Node) error {
	e, err := destination(args)
	if err != nil {
		return err
	}
	dests := slices.Collect(e.Nodes(args))
	src := args.Find("src")
	switch e.Extractor() {
	case query.ExtractValue:
		v := ir.Absent()
		if src != nil {
			if v, err = query.Single(src, src); err != nil {
				return err
			}
		}
		for _, d := range dests {
			d.Value = v.Clone()
		}
	case query.ExtractName:
		name := ""
		if src != nil {
			v, err := query.Single(src, src)
			if err != nil {
				return err
			}
			if name, err = v.ToString(); err != nil {
				return err
			}
		}
		for _, d := range dests {
			d.Name = name
		}
	case query.ExtractNode:
		var nodes []*ir.Node
		if src != nil {
			if nodes, err = query.IterateNodes(src, src, b.Parser); err != nil {
				return err
			}
		}
		for _, d := range dests {
			replace(d, nodes)
		}
	default:
		return argsErr("cannot set %s", e.Extractor())
	}
	return nil
}

// replace puts clones of with in the place of d, or removes d when with
// is empty.
func replace(d *ir.Node, with []*ir.Node) {
	p := d.Parent
	if p == nil {
		return
	}
	if len(with) == 0 {
		d.Untie()
		return
	}
	i := d.Index()
	d.Replace(with[0].Clone())
	for j, n := range with[1:] {
		p.Insert(i+1+j, n.Clone())
	}
}

// add appends clones of the nodes of each "src" child to every node the
// destination matches.
func (b *Builtins) add(_ *event.Context, args *ir.Node) error {
	e, err := destination(args)
	if err != nil {
		return err
	}
	if e.Extractor() != query.ExtractNode {
		return argsErr("%q needs a node destination", args.Name)
	}
	dests := slices.Collect(e.Nodes(args))
	var nodes []*ir.Node
	for src := range args.FindAll("src") {
		ns, err := query.IterateNodes(src, src, b.Parser)
		if err != nil {
			return err
		}
		nodes = append(nodes, ns...)
	}
	for _, d := range dests {
		for _, n := range nodes {
			d.Add(n.Clone())
		}
	}
	return nil
}

func remove(_ *event.Context, args *ir.Node) error {
	e, err := destination(args)
	if err != nil {
		return err
	}
	if e.Extractor() != query.ExtractNode {
		return argsErr("%q needs a node destination", args.Name)
	}
	for _, d := range slices.Collect(e.Nodes(args)) {
		d.Untie()
	}
	return nil
}
