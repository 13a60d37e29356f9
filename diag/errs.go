package diag

import (
	"errors"
	"fmt"
	"sync"
)

var ErrExpression = errors.New("invalid expression")

type ExpressionError struct {
	Expr string
	Msg  string
}

func NewExpressionError(expr, format string, args ...any) *ExpressionError {
	return &ExpressionError{Expr: expr, Msg: fmt.Sprintf(format, args...)}
}

func (e *ExpressionError) Error() string {
	res := fmt.Sprintf("Expression '%s' is not a valid expression.", e.Expr)
	if e.Msg != "" {
		res = e.Msg + "\n" + res
	}
	return res
}

func (e *ExpressionError) Unwrap() error {
	return ErrExpression
}

// ExecutionError wraps an error returned while dispatching an
// instruction. Expression errors reach the caller wrapped in one, so
// their context is the snapshot of the instruction holding the
// expression.
type ExecutionError struct {
	Event string
	Err   error

	Context  *Snapshot
	Renderer Renderer

	once  sync.Once
	trace string
}

func NewExecutionError(event string, err error, ctx *Snapshot, r Renderer) *ExecutionError {
	return &ExecutionError{
		Event:    event,
		Err:      err,
		Context:  ctx,
		Renderer: r,
	}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Event, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Trace renders the captured context. The first call does the rendering.
func (e *ExecutionError) Trace() string {
	e.once.Do(func() {
		e.trace = renderTrace(e.Context, e.Renderer)
	})
	return e.trace
}

func renderTrace(s *Snapshot, r Renderer) string {
	if s == nil {
		return ""
	}
	text, err := s.Render(r)
	if err != nil {
		return fmt.Sprintf("<trace unavailable: %v>", err)
	}
	return text
}

// Tracer is implemented by errors carrying a renderable context.
type Tracer interface {
	error
	Trace() string
}

// TraceOf returns the trace of the innermost Tracer in err's chain.
func TraceOf(err error) string {
	var res string
	for err != nil {
		if t, ok := err.(Tracer); ok {
			if s := t.Trace(); s != "" {
				res = s
			}
		}
		err = errors.Unwrap(err)
	}
	return res
}
