package lambda

import (
	"context"
	"errors"
	"fmt"

	"github.com/signadot/go-lambda/diag"
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"
)

var (
	ErrRegistered = errors.New("executor instructions already registered")
	ErrBadBlock   = errors.New("bad block")
)

// ThrowError is raised by the throw instruction.
type ThrowError struct {
	Msg string
}

func (e *ThrowError) Error() string {
	return e.Msg
}

// errorKind names the class of err for catch blocks.
func errorKind(err error) string {
	var te *ThrowError
	switch {
	case errors.As(err, &te):
		return "throw"
	case errors.Is(err, event.ErrUnknownEvent):
		return "unknown-event"
	case errors.Is(err, event.ErrProtection):
		return "protection"
	case errors.Is(err, diag.ErrExpression):
		return "expression"
	case errors.Is(err, ir.ErrTypeMismatch):
		return "type-mismatch"
	case errors.Is(err, query.ErrFormat):
		return "format"
	}
	return "error"
}

func errorNodes(err error) []*ir.Node {
	msg := err.Error()
	var ee *diag.ExecutionError
	if errors.As(err, &ee) {
		msg = ee.Err.Error()
	}
	res := []*ir.Node{
		ir.FromString("message", msg),
		ir.FromString("type", errorKind(err)),
	}
	if trace := diag.TraceOf(err); trace != "" {
		res = append(res, ir.FromString("trace", trace))
	}
	return res
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func blockErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadBlock, fmt.Sprintf(format, args...))
}
