package event

import (
	"context"

	"github.com/signadot/go-lambda/ir"
)

// Context is passed to every handler invocation.
type Context struct {
	context.Context

	Registry *Registry
	Event    string
	Origin   Origin
}

// Raise dispatches a nested event on the same registry with native origin.
func (c *Context) Raise(name string, args *ir.Node) error {
	return c.Registry.raise(c.Context, name, args, Native)
}

type Handler interface {
	Handle(ctx *Context, args *ir.Node) error
}

type HandlerFunc func(ctx *Context, args *ir.Node) error

func (f HandlerFunc) Handle(ctx *Context, args *ir.Node) error {
	return f(ctx, args)
}

// Binding names a handler a Listener contributes.
type Binding struct {
	Name       string
	Handler    Handler
	Protection Protection
}

// Listener is an object whose handlers live as long as it stays
// registered. Listeners are compared by identity, so implementations
// should be pointers.
type Listener interface {
	Bindings() []Binding
}
