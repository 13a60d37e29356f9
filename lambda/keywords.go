package lambda

import (
	"context"
	"time"

	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"
)

func (x *Executor) name(s string) string {
	if x.cfg.Namespace == "" {
		return s
	}
	return x.cfg.Namespace + "." + s
}

// is reports whether the instruction name n is the keyword k.
func (x *Executor) is(n, k string) bool {
	return n == k || n == x.name(k)
}

func (x *Executor) Bindings() []event.Binding {
	nop := event.HandlerFunc(func(*event.Context, *ir.Node) error { return nil })
	bs := []struct {
		name string
		f    event.HandlerFunc
	}{
		{"lambda", x.lambda},
		{"lambda-copy", x.lambdaCopy},
		{"fork", x.fork},
		{"wait", x.wait},
		{"if", x.ifElse},
		{"else-if", nop},
		{"else", nop},
		{"while", x.while},
		{"for-each", x.forEach},
		{"try", x.try},
		{"catch", nop},
		{"finally", nop},
		{"throw", throw},
	}
	res := make([]event.Binding, len(bs))
	for i, b := range bs {
		res[i] = event.Binding{Name: x.name(b.name), Handler: b.f}
	}
	return res
}

func (x *Executor) lambda(ctx *event.Context, args *ir.Node) error {
	return x.Execute(ctx, args)
}

// lambdaCopy runs clones of the blocks of args, leaving the caller's tree
// untouched.
func (x *Executor) lambdaCopy(ctx *event.Context, args *ir.Node) error {
	run, err := x.detach(args)
	if err != nil {
		return err
	}
	return run(ctx)
}

func (x *Executor) fork(ctx *event.Context, args *ir.Node) error {
	run, err := x.detach(args)
	if err != nil {
		return err
	}
	x.start(context.WithoutCancel(ctx), args.Name, Detached, run)
	return nil
}

// wait runs its fork children on the shared tree and waits for them,
// within the number of milliseconds in its value if there is one.
func (x *Executor) wait(ctx *event.Context, args *ir.Node) error {
	budget := time.Duration(-1)
	if !args.Value.IsAbsent() {
		v, err := query.Single(args, args)
		if err != nil {
			return err
		}
		ms, err := v.ToInt()
		if err != nil {
			return err
		}
		budget = time.Duration(ms) * time.Millisecond
	}
	var forks []*ir.Node
	for c := range args.All() {
		switch {
		case x.is(c.Name, "fork"):
			forks = append(forks, c)
		case x.inert(c.Name):
		default:
			return blockErr("wait accepts only fork children, got %q", c.Name)
		}
	}
	tasks := make([]*Task, len(forks))
	for i, f := range forks {
		tasks[i] = x.Fork(ctx, f, Waited)
	}
	_, err := WaitAll(tasks, budget)
	return err
}

// ifElse runs the first block of the if, else-if, else chain starting
// at args whose condition holds.
func (x *Executor) ifElse(ctx *event.Context, args *ir.Node) error {
	ok, skip, err := x.condition(args)
	if err != nil {
		return err
	}
	if ok {
		return x.blockFrom(ctx, args, nil, skip)
	}
	for s := args.NextSibling(); s != nil; s = s.NextSibling() {
		switch {
		case x.is(s.Name, "else-if"):
			ok, skip, err := x.condition(s)
			if err != nil {
				return err
			}
			if ok {
				return x.blockFrom(ctx, s, nil, skip)
			}
		case x.is(s.Name, "else"):
			return x.block(ctx, s, nil)
		default:
			return nil
		}
	}
	return nil
}

func (x *Executor) while(ctx *event.Context, args *ir.Node) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, skip, err := x.condition(args)
		if err != nil || !ok {
			return err
		}
		if err := x.blockFrom(ctx, args, nil, skip); err != nil {
			return err
		}
	}
}

// forEach runs its children once per item, passing the item as the
// parameter named by the data prefix followed by "dp". Nodes are passed
// as references.
func (x *Executor) forEach(ctx *event.Context, args *ir.Node) error {
	var items []ir.Value
	switch {
	case args.Value.IsAbsent():
		return blockErr("%q needs a source", args.Name)
	case query.IsExpressionValue(args.Value) && !query.IsFormatted(args):
		e, err := query.Parse(args.Value.Str)
		if err != nil {
			return err
		}
		m, err := e.Evaluate(args)
		if err != nil {
			return err
		}
		for _, ent := range m.Entities {
			if m.Extractor == query.ExtractNode {
				items = append(items, ir.RefValue(ent.Node))
				continue
			}
			items = append(items, ent.Value)
		}
	default:
		vals, err := query.Iterate(args, args)
		if err != nil {
			return err
		}
		items = vals
	}
	name := x.cfg.DataPrefix + "dp"
	for _, it := range items {
		if err := x.block(ctx, args, []*ir.Node{ir.New(name, it)}); err != nil {
			return err
		}
	}
	return nil
}

// try runs its children. On failure a following catch block runs with
// the message, type and trace of the error as parameters, and the error
// is cleared. A finally block after them always runs.
func (x *Executor) try(ctx *event.Context, args *ir.Node) error {
	err := x.block(ctx, args, nil)
	next := args.NextSibling()
	if next != nil && x.is(next.Name, "catch") {
		if err != nil && !canceled(err) {
			err = x.block(ctx, next, errorNodes(err))
		}
		next = next.NextSibling()
	}
	if next != nil && x.is(next.Name, "finally") {
		if ferr := x.block(ctx, next, nil); err == nil {
			err = ferr
		}
	}
	return err
}

func throw(ctx *event.Context, args *ir.Node) error {
	msg := "no message"
	if !args.Value.IsAbsent() {
		v, err := query.Single(args, args)
		if err != nil {
			return err
		}
		msg = v.String()
	}
	return &ThrowError{Msg: msg}
}

var _ event.Listener = (*Executor)(nil)
