package lambda

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/go-lambda/debug"
	"github.com/signadot/go-lambda/diag"
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"
)

type Executor struct {
	cfg   Config
	tasks sync.WaitGroup
}

// New returns an executor for cfg, or for DefaultConfig if cfg is nil.
func New(cfg *Config) *Executor {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if c.Registry == nil {
		c.Registry = event.Default
	}
	if c.DataPrefix == "" {
		c.DataPrefix = "_"
	}
	return &Executor{cfg: c}
}

func (x *Executor) Config() Config {
	return x.cfg
}

func (x *Executor) Registry() *event.Registry {
	return x.cfg.Registry
}

// Register adds the control flow instructions of x to its registry. It
// fails with ErrRegistered if another executor already provides them.
func (x *Executor) Register() error {
	for _, b := range x.Bindings() {
		if x.cfg.Registry.Has(b.Name) {
			return fmt.Errorf("%w: %q", ErrRegistered, b.Name)
		}
	}
	return x.cfg.Registry.RegisterListener(x)
}

func (x *Executor) Unregister() {
	x.cfg.Registry.UnregisterListener(x)
}

// EventName returns the event raised for an instruction named name.
func (x *Executor) EventName(name string) string {
	if x.cfg.Namespace == "" || strings.Contains(name, ".") {
		return name
	}
	full := x.cfg.Namespace + "." + name
	if !x.cfg.Registry.Has(full) && x.cfg.Registry.Has(name) {
		return name
	}
	return full
}

func (x *Executor) inert(name string) bool {
	return name == "" || strings.HasPrefix(name, x.cfg.DataPrefix)
}

// Execute runs scope as a program.
func (x *Executor) Execute(ctx context.Context, scope *ir.Node) error {
	targets, ok, err := x.targets(scope)
	if err != nil {
		return err
	}
	if !ok {
		return x.block(ctx, scope, nil)
	}
	params := scope.Children()
	bounded := topOf(ctx) != nil
	for _, t := range targets {
		tctx := ctx
		if bounded {
			tctx = withTop(ctx, t)
		}
		if err := x.block(tctx, t, params); err != nil {
			return err
		}
	}
	return nil
}

// Invoke raises n as a single instruction. The children of n are restored
// afterwards and its value is kept.
func (x *Executor) Invoke(ctx context.Context, n *ir.Node) error {
	snap := n.CloneChildren()
	defer n.SetChildren(snap)
	return x.dispatch(ctx, n)
}

// targets resolves the blocks a scope value redirects to. It reports
// false if the scope runs its own children.
func (x *Executor) targets(scope *ir.Node) ([]*ir.Node, bool, error) {
	switch scope.Value.Kind {
	case ir.RefKind:
		if scope.Value.Ref == nil {
			return nil, false, nil
		}
		return []*ir.Node{scope.Value.Ref}, true, nil
	case ir.StringKind:
	default:
		return nil, false, nil
	}
	s := scope.Value.Str
	if query.IsFormatted(scope) {
		var err error
		if s, err = query.Format(scope, scope); err != nil {
			return nil, false, err
		}
	}
	if s == "" {
		return nil, false, nil
	}
	if !query.IsExpression(s) {
		b, err := x.parse(query.Unescape(s))
		if err != nil {
			return nil, false, err
		}
		return []*ir.Node{b}, true, nil
	}
	e, err := query.Parse(s)
	if err != nil {
		return nil, false, err
	}
	if e.Extractor() == query.ExtractNode && !e.IsReference() {
		return slices.Collect(e.Nodes(scope)), true, nil
	}
	m, err := e.Evaluate(scope)
	if err != nil {
		return nil, false, err
	}
	var res []*ir.Node
	for _, v := range m.Values() {
		switch v.Kind {
		case ir.AbsentKind:
		case ir.StringKind:
			b, err := x.parse(v.Str)
			if err != nil {
				return nil, false, err
			}
			res = append(res, b)
		default:
			ref, err := v.ToNode()
			if err != nil {
				return nil, false, err
			}
			res = append(res, ref)
		}
	}
	return res, true, nil
}

func (x *Executor) parse(text string) (*ir.Node, error) {
	if x.cfg.Parser == nil {
		return nil, query.ErrNoParser
	}
	nodes, err := x.cfg.Parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return ir.New("", ir.Absent(), nodes...), nil
}

// block runs the children of scope with clones of params inserted before
// them. Parameters are not executed.
func (x *Executor) block(ctx context.Context, scope *ir.Node, params []*ir.Node) error {
	return x.blockFrom(ctx, scope, params, 0)
}

// blockFrom is block starting at the child with index skip.
func (x *Executor) blockFrom(ctx context.Context, scope *ir.Node, params []*ir.Node, skip int) error {
	snap := scope.CloneChildren()
	defer scope.SetChildren(snap)
	var first *ir.Node
	if skip < scope.Len() {
		first = scope.Child(skip)
	}
	for i, p := range params {
		scope.Insert(i, p.Clone())
	}
	if debug.Exec() {
		debug.Logf("exec %q with %d params\n", scope.Name, len(params))
	}
	for cur := first; cur != nil; {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := cur.NextSibling()
		if err := x.dispatch(ctx, cur); err != nil {
			return err
		}
		switch {
		case cur.Parent == scope:
			cur = cur.NextSibling()
		case next != nil && next.Parent == scope:
			cur = next
		default:
			cur = nil
		}
	}
	return nil
}

func (x *Executor) dispatch(ctx context.Context, n *ir.Node) error {
	if x.inert(n.Name) {
		return nil
	}
	name := x.EventName(n.Name)
	if debug.Exec() {
		debug.Logf("dispatch %s at %s\n", name, n.Path())
	}
	err := x.cfg.Registry.RaiseInstruction(ctx, name, n)
	if err == nil {
		return nil
	}
	var ee *diag.ExecutionError
	if errors.As(err, &ee) || canceled(err) {
		return err
	}
	snap := diag.CaptureWithin(n, x.cfg.ContextDepth, topOf(ctx))
	return diag.NewExecutionError(name, err, snap, x.cfg.Renderer)
}
