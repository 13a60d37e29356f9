package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/signadot/go-lambda/builtin"
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"

	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"
)

func TestEnvNodes(t *testing.T) {
	env := map[string]any{}
	for _, a := range []string{"name=bob", "n=3", "list=[a, b]", "db.host=localhost", "db.user=admin"} {
		if err := envFunc(env, a); err != nil {
			t.Fatalf("%s: %v", a, err)
		}
	}
	nodes := envNodes(env, "_")
	if n, err := nodes[2].Value.ToInt(); err != nil || n != 3 {
		t.Errorf("_n = %v", nodes[2].Value)
	}
	nodes[2].Value = ir.Absent()
	got, err := hyperlambda.Render(nodes)
	if err != nil {
		t.Fatal(err)
	}
	want := `_db
  host:localhost
  user:admin
_list
  :a
  :b
_n
_name:bob`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("env nodes (-want +got):\n%s", diff)
	}
}

func TestEnvUsage(t *testing.T) {
	if err := envFunc(map[string]any{}, "novalue"); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("error = %v, want cli.ErrUsage", err)
	}
	env := map[string]any{"a": 1}
	if err := envFunc(env, "a.b=2"); err == nil {
		t.Error("expected an error descending into a scalar")
	}
}

func TestQueryRoot(t *testing.T) {
	root, err := hyperlambda.ParseNode([]byte("a:1\nb:2\n  c:3\n"))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		expr string
		sep  string
		want string
	}{
		{"@/*?value", "", "1\n2\n"},
		{"@/*?name", ",", "a,b\n"},
		{"@/*/b", "", "b:2\n  c:3\n"},
		{"@/**?count", "", "4\n"},
	}
	for _, tt := range tests {
		e, err := query.Parse(tt.expr)
		if err != nil {
			t.Fatalf("%s: %v", tt.expr, err)
		}
		cfg := &QueryConfig{MainConfig: &MainConfig{}, Sep: tt.sep}
		var buf bytes.Buffer
		if err := queryRoot(cfg, &buf, e, root); err != nil {
			t.Fatalf("%s: %v", tt.expr, err)
		}
		if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tt.expr, diff)
		}
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}
	ref := ir.New("x", ir.Absent(), ir.FromInt("y", 1))
	for _, n := range []*ir.Node{
		ir.FromString("print", "hello"),
		ir.FromRef("print", ref),
	} {
		if err := p.print(&event.Context{}, n); err != nil {
			t.Fatal(err)
		}
	}
	want := "hello\nx\n  y:int:1\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestSetupNamespace(t *testing.T) {
	r := event.NewRegistry()
	def, err := builtin.Register(r, "core")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cfg := &MainConfig{NS: "foo", Depth: 2}
	x, err := cfg.setup(r, def, &buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"foo.set", "foo.print", "foo.if"} {
		if !r.Has(name) {
			t.Errorf("%s not registered", name)
		}
	}
	if r.Has("core.set") {
		t.Errorf("core.set still registered")
	}
	n := ir.New("math.add", ir.IntValue(2), ir.FromInt("", 2))
	if err := x.Invoke(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	if !n.Value.Equal(ir.IntValue(4)) {
		t.Errorf("math.add 2+2 = %v, want 4", n.Value)
	}
	root, err := hyperlambda.ParseNode([]byte("foo.print:hello\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := x.Execute(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "hello\n" {
		t.Errorf("output = %q, want %q", got, "hello\n")
	}
}
