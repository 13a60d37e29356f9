package builtin

import (
	"fmt"
	"maps"
	"slices"

	"github.com/signadot/go-lambda/debug"
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"

	"github.com/expr-lang/expr"
)

// script evaluates the expression in the value of args with the named
// children of args as variables. The result becomes the value of args,
// lists and maps as a reference to a node holding them as children.
func script(_ *event.Context, args *ir.Node) error {
	if args.Value.IsAbsent() {
		return argsErr("%q needs a script", args.Name)
	}
	v, err := query.Single(args, args)
	if err != nil {
		return err
	}
	src, err := v.ToString()
	if err != nil {
		return err
	}
	if debug.Script() {
		debug.Logf("script %q at %s\n", src, args.Path())
	}
	env := map[string]any{}
	for c := range args.All() {
		if c.Name == "" {
			continue
		}
		env[c.Name] = toAny(c)
	}
	prg, err := expr.Compile(src, exprOpts(args)...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArgs, err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return err
	}
	v, err = toValue(res)
	if err != nil {
		return err
	}
	args.Value = v
	return nil
}

func exprOpts(n *ir.Node) []expr.Option {
	return []expr.Option{
		expr.Function("whereami", func(params ...any) (any, error) {
			return n.Path().String(), nil
		},
			new(func() string)),
		expr.Function("query", func(params ...any) (any, error) {
			e, err := query.Parse(params[0].(string))
			if err != nil {
				return nil, err
			}
			m, err := e.Evaluate(n)
			if err != nil {
				return nil, err
			}
			res := make([]any, 0, m.Len())
			for _, v := range m.Values() {
				res = append(res, v.Interface())
			}
			return res, nil
		},
			new(func(string) []any)),
	}
}

// toAny converts n for use in a script: a valueless node with children
// becomes a map of its named children, anything else its value.
func toAny(n *ir.Node) any {
	if !n.Value.IsAbsent() || n.Len() == 0 {
		return n.Value.Interface()
	}
	res := map[string]any{}
	for c := range n.All() {
		res[c.Name] = toAny(c)
	}
	return res
}

func toValue(res any) (ir.Value, error) {
	switch x := res.(type) {
	case []any:
		n := &ir.Node{}
		for _, item := range x {
			v, err := toValue(item)
			if err != nil {
				return ir.Absent(), err
			}
			n.Add(ir.New("", v))
		}
		return ir.RefValue(n), nil
	case map[string]any:
		n := &ir.Node{}
		for _, k := range slices.Sorted(maps.Keys(x)) {
			v, err := toValue(x[k])
			if err != nil {
				return ir.Absent(), err
			}
			n.Add(ir.New(k, v))
		}
		return ir.RefValue(n), nil
	}
	v, ok := ir.ValueOf(res)
	if !ok {
		return ir.Absent(), fmt.Errorf("script returned unsupported %T", res)
	}
	return v, nil
}
