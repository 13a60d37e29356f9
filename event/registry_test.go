package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/signadot/go-lambda/ir"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) handler(tag string) HandlerFunc {
	return func(ctx *Context, args *ir.Node) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, tag)
		return nil
	}
}

type listener struct {
	tag string
	rec *recorder
}

func (l *listener) Bindings() []Binding {
	return []Binding{
		{Name: "greet", Handler: l.rec.handler(l.tag)},
		{Name: "greet." + l.tag, Handler: l.rec.handler(l.tag + ".own")},
	}
}

func TestRaiseOrder(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}
	if err := r.RegisterFunc("greet", rec.handler("static"), Open); err != nil {
		t.Fatal(err)
	}
	a := &listener{tag: "a", rec: rec}
	b := &listener{tag: "b", rec: rec}
	for _, l := range []*listener{a, b} {
		if err := r.RegisterListener(l); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Raise(context.Background(), "greet", ir.New("greet", ir.Absent())); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"static", "a", "b"}, rec.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}

	rec.calls = nil
	r.UnregisterListener(a)
	if err := r.Raise(nil, "greet", ir.New("greet", ir.Absent())); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"static", "b"}, rec.calls); diff != "" {
		t.Errorf("calls after unregister (-want +got):\n%s", diff)
	}
	if r.Has("greet.a") {
		t.Errorf("greet.a survived unregistering its listener")
	}
	if !r.Has("greet.b") {
		t.Errorf("greet.b removed with another listener")
	}
}

func TestHandlersMutateArgs(t *testing.T) {
	r := NewRegistry()
	err := r.RegisterFunc("math.add", func(ctx *Context, args *ir.Node) error {
		sum, err := args.Value.ToInt()
		if err != nil {
			return err
		}
		for c := range args.All() {
			i, err := c.Value.ToInt()
			if err != nil {
				return err
			}
			sum += i
		}
		args.Value = ir.IntValue(sum)
		return nil
	}, Open)
	if err != nil {
		t.Fatal(err)
	}
	n := ir.New("math.add", ir.IntValue(2), ir.FromInt("", 2))
	if err := r.Raise(context.Background(), n.Name, n); err != nil {
		t.Fatal(err)
	}
	if !n.Value.Equal(ir.IntValue(4)) {
		t.Errorf("value = %v, want 4", n.Value)
	}
}

func TestUnknownEvent(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}
	if err := r.RegisterFunc("", rec.handler("all"), Open); err != nil {
		t.Fatal(err)
	}
	err := r.Raise(context.Background(), "no.such", ir.New("x", ir.Absent()))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("error = %v, want ErrUnknownEvent", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("catch-all called for an unknown event")
	}
	if err := r.Raise(context.Background(), "", nil); !errors.Is(err, ErrBadName) {
		t.Errorf("empty name error = %v", err)
	}
}

func TestCatchAll(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}
	var seen []string
	r.RegisterFunc("", func(ctx *Context, args *ir.Node) error {
		seen = append(seen, ctx.Event)
		return nil
	}, Open)
	r.RegisterFunc("x", rec.handler("x"), Open)
	if err := r.Raise(context.Background(), "x", nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"x"}, seen); diff != "" {
		t.Errorf("catch-all events (-want +got):\n%s", diff)
	}
	for _, info := range r.Events() {
		if info.Name == "" {
			t.Errorf("Events lists the catch-all")
		}
	}
}

func TestProtection(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}
	if err := r.RegisterFunc("sealed", rec.handler("s"), Sealed); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterFunc("sealed", rec.handler("s2"), Open); !errors.Is(err, ErrProtection) {
		t.Errorf("re-register sealed error = %v", err)
	}
	r.RegisterFunc("open", rec.handler("o"), Open)
	if err := r.RegisterFunc("open", rec.handler("o2"), Sealed); !errors.Is(err, ErrProtection) {
		t.Errorf("sealing a bound name error = %v", err)
	}
	r.RegisterFunc(".hidden", rec.handler("h"), Open)
	r.RegisterFunc("internal", rec.handler("i"), Internal)

	ctx := context.Background()
	for _, name := range []string{".hidden", "internal", "sealed"} {
		if err := r.RaiseInstruction(ctx, name, nil); !errors.Is(err, ErrProtection) {
			t.Errorf("RaiseInstruction(%q) error = %v", name, err)
		}
		if err := r.Raise(ctx, name, nil); err != nil {
			t.Errorf("Raise(%q) error = %v", name, err)
		}
	}
	if err := r.RaiseInstruction(ctx, "open", nil); err != nil {
		t.Errorf("RaiseInstruction(open) error = %v", err)
	}
	want := []Info{
		{Name: ".hidden", Protection: Internal, Handlers: 1},
		{Name: "internal", Protection: Internal, Handlers: 1},
		{Name: "open", Protection: Open, Handlers: 1},
		{Name: "sealed", Protection: Sealed, Handlers: 1},
	}
	if diff := cmp.Diff(want, r.Events()); diff != "" {
		t.Errorf("Events (-want +got):\n%s", diff)
	}
}

type badListener struct{}

func (*badListener) Bindings() []Binding {
	return []Binding{
		{Name: "fine", Handler: HandlerFunc(func(*Context, *ir.Node) error { return nil })},
		{Name: "locked", Handler: HandlerFunc(func(*Context, *ir.Node) error { return nil })},
	}
}

func TestRegisterListenerAtomic(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunc("locked", func(*Context, *ir.Node) error { return nil }, Sealed)
	if err := r.RegisterListener(&badListener{}); !errors.Is(err, ErrProtection) {
		t.Fatalf("error = %v", err)
	}
	if r.Has("fine") {
		t.Errorf("partial listener registration left %q bound", "fine")
	}
}

func TestHandlerError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	rec := &recorder{}
	r.RegisterFunc("x", func(*Context, *ir.Node) error { return boom }, Open)
	r.RegisterFunc("x", rec.handler("after"), Open)
	if err := r.Raise(context.Background(), "x", nil); !errors.Is(err, boom) {
		t.Errorf("error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("handler after a failure was called")
	}
}

func TestConcurrentRegister(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunc("x", func(*Context, *ir.Node) error { return nil }, Open)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l := &listener{tag: fmt.Sprint(i), rec: &recorder{}}
			if err := r.RegisterListener(l); err != nil {
				t.Error(err)
			}
			r.UnregisterListener(l)
		}()
		go func() {
			defer wg.Done()
			if err := r.Raise(context.Background(), "x", nil); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if r.Has("greet") {
		t.Errorf("listeners left bindings behind")
	}
}

func TestRegisterListenerOnce(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}
	l := &listener{tag: "a", rec: rec}
	if err := r.RegisterListener(l); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterListener(l); !errors.Is(err, ErrRegistered) {
		t.Fatalf("second registration error = %v, want ErrRegistered", err)
	}
	if err := r.Raise(context.Background(), "greet", nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, rec.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

type lateBadListener struct{ first *listener }

func (l *lateBadListener) Bindings() []Binding {
	return []Binding{
		{Name: "greet", Handler: l.first.rec.handler("late")},
		{Name: "locked", Handler: HandlerFunc(func(*Context, *ir.Node) error { return nil })},
	}
}

func TestRegisterListenerRollbackKeepsOthers(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}
	a := &listener{tag: "a", rec: rec}
	if err := r.RegisterListener(a); err != nil {
		t.Fatal(err)
	}
	r.RegisterFunc("locked", func(*Context, *ir.Node) error { return nil }, Sealed)
	if err := r.RegisterListener(&lateBadListener{first: a}); !errors.Is(err, ErrProtection) {
		t.Fatalf("error = %v, want ErrProtection", err)
	}
	if !r.Has("greet.a") {
		t.Errorf("failed registration removed another listener's binding")
	}
	if err := r.Raise(context.Background(), "greet", nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, rec.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}
