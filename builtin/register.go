package builtin

import (
	"github.com/signadot/go-lambda/debug"
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/query"
)

// Builtins contributes the builtin instructions. Tree instructions are
// named in Namespace; the others carry their own.
type Builtins struct {
	Namespace string
	// Parser reads node sources given as text.
	Parser query.Parser
}

func New(ns string) *Builtins {
	return &Builtins{Namespace: ns, Parser: hyperlambda.Codec{}}
}

func (b *Builtins) name(s string) string {
	if b.Namespace == "" {
		return s
	}
	return b.Namespace + "." + s
}

func (b *Builtins) Bindings() []event.Binding {
	return []event.Binding{
		{Name: b.name("set"), Handler: event.HandlerFunc(b.set)},
		{Name: b.name("add"), Handler: event.HandlerFunc(b.add)},
		{Name: b.name("remove"), Handler: event.HandlerFunc(remove)},
		{Name: b.name("script"), Handler: event.HandlerFunc(script)},
		{Name: "math.add", Handler: arith(opAdd)},
		{Name: "math.sub", Handler: arith(opSub)},
		{Name: "math.mul", Handler: arith(opMul)},
		{Name: "math.div", Handler: arith(opDiv)},
		{Name: "math.mod", Handler: arith(opMod)},
		{Name: "json.patch", Handler: event.HandlerFunc(jsonPatch)},
		{Name: "text.diff", Handler: event.HandlerFunc(textDiff)},
		{Name: "text.patch", Handler: event.HandlerFunc(textPatch)},
	}
}

// Register adds the builtins named in ns to r.
func Register(r *event.Registry, ns string) (*Builtins, error) {
	b := New(ns)
	if err := r.RegisterListener(b); err != nil {
		return nil, err
	}
	if debug.Register() {
		debug.Logf("builtins registered in %q\n", ns)
	}
	return b, nil
}

// Default is the instance registered in event.Default under "core".
// Unregister it before registering the builtins in another namespace.
var Default *Builtins

func init() {
	b, err := Register(event.Default, "core")
	if err != nil {
		panic(err)
	}
	Default = b
}

var _ event.Listener = (*Builtins)(nil)
