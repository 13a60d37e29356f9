package builtin

import (
	"fmt"
	"math"

	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"
)

type op int

const (
	opAdd op = iota
	opSub
	opMul
	opDiv
	opMod
)

// arith folds the value of args and the values of its children with o,
// storing the result in the value of args. The result is a float if any
// operand is one and an int otherwise.
func arith(o op) event.HandlerFunc {
	return func(_ *event.Context, args *ir.Node) error {
		var operands []ir.Value
		if !args.Value.IsAbsent() {
			v, err := query.Single(args, args)
			if err != nil {
				return err
			}
			operands = append(operands, v)
		}
		for c := range args.All() {
			v, err := query.Single(c, c)
			if err != nil {
				return err
			}
			operands = append(operands, v)
		}
		if len(operands) == 0 {
			return argsErr("%q has no operands", args.Name)
		}
		res, err := o.fold(operands)
		if err != nil {
			return fmt.Errorf("%s: %w", args.Name, err)
		}
		args.Value = res
		return nil
	}
}

func number(v ir.Value) (ir.Value, error) {
	switch v.Kind {
	case ir.IntKind, ir.FloatKind:
		return v, nil
	case ir.StringKind:
		if res, err := v.To(ir.IntKind); err == nil {
			return res, nil
		}
		return v.To(ir.FloatKind)
	}
	return v.To(ir.IntKind)
}

func (o op) fold(operands []ir.Value) (ir.Value, error) {
	nums := make([]ir.Value, len(operands))
	isFloat := false
	for i, v := range operands {
		n, err := number(v)
		if err != nil {
			return ir.Absent(), err
		}
		isFloat = isFloat || n.Kind == ir.FloatKind
		nums[i] = n
	}
	if isFloat {
		acc, _ := nums[0].ToFloat()
		for _, n := range nums[1:] {
			f, _ := n.ToFloat()
			var err error
			if acc, err = o.applyFloat(acc, f); err != nil {
				return ir.Absent(), err
			}
		}
		return ir.FloatValue(acc), nil
	}
	acc := nums[0].Int
	for _, n := range nums[1:] {
		var err error
		if acc, err = o.applyInt(acc, n.Int); err != nil {
			return ir.Absent(), err
		}
	}
	return ir.IntValue(acc), nil
}

func (o op) applyInt(a, b int64) (int64, error) {
	switch o {
	case opAdd:
		return a + b, nil
	case opSub:
		return a - b, nil
	case opMul:
		return a * b, nil
	}
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if o == opDiv {
		return a / b, nil
	}
	return a % b, nil
}

func (o op) applyFloat(a, b float64) (float64, error) {
	switch o {
	case opAdd:
		return a + b, nil
	case opSub:
		return a - b, nil
	case opMul:
		return a * b, nil
	}
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if o == opDiv {
		return a / b, nil
	}
	return math.Mod(a, b), nil
}
