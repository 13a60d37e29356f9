package event

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/signadot/go-lambda/debug"
	"github.com/signadot/go-lambda/ir"
)

type entry struct {
	h     Handler
	prot  Protection
	owner Listener
}

type Registry struct {
	mu sync.RWMutex
	d  map[string][]*entry
}

func NewRegistry() *Registry {
	return &Registry{d: map[string][]*entry{}}
}

// Default is the process wide registry used by the package level
// functions.
var Default = NewRegistry()

func (r *Registry) add(name string, e *entry) error {
	e.prot = effective(name, e.prot)
	present := r.d[name]
	for _, pe := range present {
		if pe.prot == Sealed {
			return fmt.Errorf("%q is sealed: %w", name, ErrProtection)
		}
	}
	if e.prot == Sealed && len(present) != 0 {
		return fmt.Errorf("cannot seal bound event %q: %w", name, ErrProtection)
	}
	r.d[name] = append(present, e)
	if debug.Register() {
		debug.Logf("register %s (%s)\n", name, e.prot)
	}
	return nil
}

// Register adds a static handler for name.
func (r *Registry) Register(name string, h Handler, p Protection) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler for %q", ErrBadName, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(name, &entry{h: h, prot: p})
}

func (r *Registry) RegisterFunc(name string, f HandlerFunc, p Protection) error {
	return r.Register(name, f, p)
}

// RegisterListener adds every binding of l. Either all bindings are added
// or none are. A listener is registered at most once.
func (r *Registry) RegisterListener(l Listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owns(l) {
		return ErrRegistered
	}
	bs := l.Bindings()
	added := make([]*entry, 0, len(bs))
	for i, b := range bs {
		if b.Handler == nil {
			r.drop(added)
			return fmt.Errorf("%w: nil handler for %q", ErrBadName, b.Name)
		}
		e := &entry{h: b.Handler, prot: b.Protection, owner: l}
		if err := r.add(b.Name, e); err != nil {
			r.drop(added)
			return fmt.Errorf("binding %d: %w", i, err)
		}
		added = append(added, e)
	}
	return nil
}

func (r *Registry) owns(l Listener) bool {
	for _, es := range r.d {
		for _, e := range es {
			if e.owner == l {
				return true
			}
		}
	}
	return false
}

// drop removes exactly the given entries.
func (r *Registry) drop(added []*entry) {
	if len(added) == 0 {
		return
	}
	r.filter(func(e *entry) bool { return slices.Contains(added, e) })
}

// UnregisterListener removes the handlers contributed by l and leaves all
// others in place.
func (r *Registry) UnregisterListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(l)
}

func (r *Registry) remove(l Listener) {
	r.filter(func(e *entry) bool { return e.owner == l })
}

func (r *Registry) filter(del func(*entry) bool) {
	for name, es := range r.d {
		es = slices.DeleteFunc(slices.Clone(es), del)
		if len(es) == 0 {
			delete(r.d, name)
			continue
		}
		r.d[name] = es
	}
}

// Raise calls every handler for name, then the catch-all handlers.
func (r *Registry) Raise(ctx context.Context, name string, args *ir.Node) error {
	return r.raise(ctx, name, args, Native)
}

// RaiseInstruction is Raise for names read from a program tree. It fails
// with ErrProtection if name is bound with Internal or Sealed protection.
func (r *Registry) RaiseInstruction(ctx context.Context, name string, args *ir.Node) error {
	return r.raise(ctx, name, args, Instruction)
}

func (r *Registry) raise(ctx context.Context, name string, args *ir.Node, origin Origin) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrBadName)
	}
	r.mu.RLock()
	es := slices.Clone(r.d[name])
	catchAll := slices.Clone(r.d[""])
	r.mu.RUnlock()
	if len(es) == 0 {
		return fmt.Errorf("%q: %w", name, ErrUnknownEvent)
	}
	if origin == Instruction {
		for _, e := range es {
			if e.prot >= Internal {
				return fmt.Errorf("%q is %s: %w", name, e.prot, ErrProtection)
			}
		}
	}
	if debug.Dispatch() {
		debug.Logf("raise %s (%s) with %d handlers on %s\n", name, origin, len(es)+len(catchAll), args)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Context{Context: ctx, Registry: r, Event: name, Origin: origin}
	for _, e := range append(es, catchAll...) {
		if err := e.h.Handle(c, args); err != nil {
			return err
		}
	}
	return nil
}

// Info describes the bindings of one event name.
type Info struct {
	Name       string
	Protection Protection
	Handlers   int
}

// Events lists the registered names in sorted order, catch-all excluded.
func (r *Registry) Events() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Info, 0, len(r.d))
	for name, es := range r.d {
		if name == "" {
			continue
		}
		info := Info{Name: name, Handlers: len(es)}
		for _, e := range es {
			info.Protection = max(info.Protection, e.prot)
		}
		res = append(res, info)
	}
	slices.SortFunc(res, func(a, b Info) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return res
}

// Has reports whether name has at least one handler.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.d[name]) != 0
}

func Register(name string, h Handler, p Protection) error {
	return Default.Register(name, h, p)
}

// MustRegister is Register for init functions.
func MustRegister(name string, f HandlerFunc, p Protection) {
	if err := Default.Register(name, f, p); err != nil {
		panic(err)
	}
}

func RegisterListener(l Listener) error {
	return Default.RegisterListener(l)
}

func UnregisterListener(l Listener) {
	Default.UnregisterListener(l)
}

func Raise(ctx context.Context, name string, args *ir.Node) error {
	return Default.Raise(ctx, name, args)
}

func Events() []Info {
	return Default.Events()
}
