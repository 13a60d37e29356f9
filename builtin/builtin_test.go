package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/lambda"

	"github.com/google/go-cmp/cmp"
)

func newExecutor(t *testing.T) *lambda.Executor {
	t.Helper()
	r := event.NewRegistry()
	if _, err := Register(r, "core"); err != nil {
		t.Fatal(err)
	}
	x := lambda.New(&lambda.Config{
		Registry:     r,
		Namespace:    "core",
		ContextDepth: 2,
		Parser:       hyperlambda.Codec{},
		Renderer:     hyperlambda.Codec{},
	})
	if err := x.Register(); err != nil {
		t.Fatal(err)
	}
	return x
}

// invokeAll invokes the instructions of root one by one, so their effects
// on data siblings remain visible afterwards.
func invokeAll(t *testing.T, x *lambda.Executor, src string) (*ir.Node, error) {
	t.Helper()
	root, err := hyperlambda.ParseNode([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range root.Children() {
		if c.Name == "" || strings.HasPrefix(c.Name, "_") {
			continue
		}
		if err := x.Invoke(context.Background(), c); err != nil {
			return root, err
		}
	}
	return root, nil
}

func render(t *testing.T, root *ir.Node) string {
	t.Helper()
	s, err := hyperlambda.Render(root.Children())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTreeInstructions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "set value",
			src:  "_x:old\nset:@/../*/_x?value\n  src:new\n",
			want: "_x:new\nset:@/../*/_x?value\n  src:new",
		},
		{
			name: "set value from expression",
			src:  "_a:int:1\n_b\nset:@/../*/_b?value\n  src:@/../*/_a?value\n",
			want: "_a:int:1\n_b:int:1\nset:@/../*/_b?value\n  src:@/../*/_a?value",
		},
		{
			name: "clear value",
			src:  "_x:old\nset:@/../*/_x?value\n",
			want: "_x\nset:@/../*/_x?value",
		},
		{
			name: "set name",
			src:  "_x:v\nset:@/../*/_x?name\n  src:_y\n",
			want: "_y:v\nset:@/../*/_x?name\n  src:_y",
		},
		{
			name: "replace node",
			src:  "_x:v\nset:@/../*/_x\n  src\n    _n1:a\n    _n2:b\n",
			want: "_n1:a\n_n2:b\nset:@/../*/_x\n  src\n    _n1:a\n    _n2:b",
		},
		{
			name: "remove by set",
			src:  "_x\nset:@/../*/_x\n",
			want: "set:@/../*/_x",
		},
		{
			name: "add",
			src:  "_list\nadd:@/../*/_list\n  src\n    a:1\n  src:\"b:2\"\n",
			want: "_list\n  a:1\n  b:2\nadd:@/../*/_list\n  src\n    a:1\n  src:\"b:2\"",
		},
		{
			name: "remove",
			src:  "_a\n_b\n_c\nremove:@/../*/_a,_c\n",
			want: "_b\nremove:@/../*/_a,_c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newExecutor(t)
			root, err := invokeAll(t, x, tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, render(t, root)); diff != "" {
				t.Errorf("tree (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetNeedsDestination(t *testing.T) {
	x := newExecutor(t)
	_, err := invokeAll(t, x, "set:foo\n")
	if !errors.Is(err, ErrArgs) {
		t.Errorf("error = %v, want ErrArgs", err)
	}
}

func TestMath(t *testing.T) {
	tests := []struct {
		src  string
		want ir.Value
	}{
		{"math.add:int:2\n  :int:3\n  :4\n", ir.IntValue(9)},
		{"math.sub:int:10\n  :int:3\n", ir.IntValue(7)},
		{"math.mul:1.5\n  :int:2\n", ir.FloatValue(3)},
		{"math.div:int:7\n  :int:2\n", ir.IntValue(3)},
		{"math.div:float:7\n  :int:2\n", ir.FloatValue(3.5)},
		{"math.mod:int:7\n  :int:3\n", ir.IntValue(1)},
		{"_n:int:5\nmath.add:@/../*/_n?value\n  :@/../*/_n?value\n", ir.IntValue(10)},
	}
	for _, tt := range tests {
		x := newExecutor(t)
		root, err := invokeAll(t, x, tt.src)
		if err != nil {
			t.Errorf("%q: %v", tt.src, err)
			continue
		}
		got := root.Child(root.Len() - 1).Value
		if !got.Equal(tt.want) {
			t.Errorf("%q = %v (%s), want %v (%s)", tt.src, got, got.Kind, tt.want, tt.want.Kind)
		}
	}
}

func TestMathErrors(t *testing.T) {
	x := newExecutor(t)
	if _, err := invokeAll(t, x, "math.div:int:1\n  :int:0\n"); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("divide by zero: %v", err)
	}
	if _, err := invokeAll(t, x, "math.add\n"); !errors.Is(err, ErrArgs) {
		t.Errorf("no operands: %v", err)
	}
	if _, err := invokeAll(t, x, "math.add:abc\n"); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("non number: %v", err)
	}
}

func TestScript(t *testing.T) {
	x := newExecutor(t)
	root, err := invokeAll(t, x, `script:a + b * 2
  a:int:1
  b:int:3
_items
  :1
  :2
  :3
script:len(query("@/../*/_items/*?value"))
_x
script:whereami()
`)
	if err != nil {
		t.Fatal(err)
	}
	want := []ir.Value{ir.IntValue(7), ir.IntValue(3), ir.StringValue("4")}
	var got []ir.Value
	for c := range root.FindAll("script") {
		got = append(got, c.Value)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d scripts", len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("script %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScriptList(t *testing.T) {
	x := newExecutor(t)
	root, err := invokeAll(t, x, "script:\"[1, 2]\"\n")
	if err != nil {
		t.Fatal(err)
	}
	v := root.Child(0).Value
	if v.Kind != ir.RefKind || v.Ref.Len() != 2 {
		t.Fatalf("script result: %s", render(t, root))
	}
	if !v.Ref.Child(1).Value.Equal(ir.IntValue(2)) {
		t.Errorf("second item = %v", v.Ref.Child(1).Value)
	}
}

func TestJSONPatch(t *testing.T) {
	x := newExecutor(t)
	n := ir.FromString("json.patch", `{"a":1}`)
	n.Add(ir.FromString("patch", `[{"op":"add","path":"/b","value":2},{"op":"replace","path":"/a","value":3}]`))
	if err := x.Invoke(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal([]byte(n.Value.Str), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"a": 3, "b": 2}, got); diff != "" {
		t.Errorf("patched (-want +got):\n%s", diff)
	}

	bad := ir.FromString("json.patch", `{"a":1}`)
	bad.Add(ir.FromString("patch", `[{"op":"remove","path":"/nope"}]`))
	if err := x.Invoke(context.Background(), bad); err == nil {
		t.Error("expected an error removing a missing path")
	}
}

func TestTextDiffPatch(t *testing.T) {
	x := newExecutor(t)
	ctx := context.Background()
	from, to := "the quick brown fox", "the quick red fox jumps"
	d := ir.FromString("text.diff", from)
	d.Add(ir.FromString("with", to))
	if err := x.Invoke(ctx, d); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(d.Value.Str, "@@ ") {
		t.Fatalf("diff = %q", d.Value.Str)
	}
	p := ir.FromString("text.patch", from)
	p.Add(ir.FromString("patch", d.Value.Str))
	if err := x.Invoke(ctx, p); err != nil {
		t.Fatal(err)
	}
	if p.Value.Str != to {
		t.Errorf("patched = %q, want %q", p.Value.Str, to)
	}
}

func TestDefaultRegistered(t *testing.T) {
	for _, name := range []string{"core.set", "core.add", "core.remove", "core.script", "math.add", "json.patch", "text.diff"} {
		if !event.Default.Has(name) {
			t.Errorf("%s not registered", name)
		}
	}
	if Default == nil || Default.Namespace != "core" {
		t.Errorf("Default = %+v, want the core builtins", Default)
	}
}

func TestRegisterTwiceRejected(t *testing.T) {
	r := event.NewRegistry()
	b, err := Register(r, "core")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterListener(b); !errors.Is(err, event.ErrRegistered) {
		t.Errorf("error = %v, want ErrRegistered", err)
	}
	if infos := r.Events(); len(infos) == 0 || infos[0].Handlers != 1 {
		t.Errorf("events after a rejected registration: %+v", infos)
	}
}
