package query

import (
	"errors"
	"slices"
	"testing"

	"github.com/signadot/go-lambda/diag"
	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/ir"

	"github.com/google/go-cmp/cmp"
)

const sample = `_data
  a:int:1
  b:int:2
  c:foo
  a:int:3
  "":anon
other:x
  inner:y
    deep:z
`

func tree(t *testing.T, src string) *ir.Node {
	t.Helper()
	root, err := hyperlambda.ParseNode([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func names(nodes []*ir.Node) []string {
	res := []string{}
	for _, n := range nodes {
		res = append(res, n.Name)
	}
	return res
}

func strs(vals []ir.Value) []string {
	res := []string{}
	for _, v := range vals {
		res = append(res, v.String())
	}
	return res
}

func eval(t *testing.T, src string, anchor *ir.Node) *Match {
	t.Helper()
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	m, err := e.Evaluate(anchor)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
	return m
}

func TestChildrenValues(t *testing.T) {
	root := tree(t, "a:foo\nb:bar\n")
	if diff := cmp.Diff([]string{"a", "b"}, strs(eval(t, "@/*?name", root).Values())); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"foo", "bar"}, strs(eval(t, "@/*?value", root).Values())); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
	nodes := slices.Collect(MustParse("@/*").Nodes(root))
	if diff := cmp.Diff(root.Children(), nodes); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestDescendantsPreOrder(t *testing.T) {
	root := tree(t, sample)
	got := slices.Collect(MustParse("@/**").Nodes(root))
	if len(got) != root.Count()+1 {
		t.Errorf("got %d nodes, want %d", len(got), root.Count()+1)
	}
	want := slices.Collect(root.Descendants())
	if diff := cmp.Diff(names(want), names(got)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if got[0] != root {
		t.Errorf("descendants did not start with the anchor")
	}
}

func TestShiftLeft(t *testing.T) {
	root := tree(t, sample)
	data := root.Find("_data")
	e := MustParse("@/<")
	if n := e.First(data.Child(0)); n != nil {
		t.Errorf("shift-left of first child = %q", n.Name)
	}
	for k := 1; k < data.Len(); k++ {
		got := slices.Collect(e.Nodes(data.Child(k)))
		if len(got) != 1 || got[0] != data.Child(k-1) {
			t.Errorf("shift-left of child %d = %v", k, names(got))
		}
	}
}

func TestExpressions(t *testing.T) {
	root := tree(t, sample)
	tests := []struct {
		expr string
		want []string
	}{
		{"@/_data/*?name", []string{"a", "b", "c", "a", ""}},
		{"@/_data/*/a?value", []string{"1", "3"}},
		{"@/_data/*/a, b?name", []string{"a", "b", "a"}},
		{"@/_data/1?name", []string{"b"}},
		{"@/_data/*/[1,3]?name", []string{"b", "c"}},
		{"@/_data/*/[3,]?name", []string{"a", ""}},
		{"@/_data/*/[,1]?name", []string{"a"}},
		{"@/_data/*/%2?name", []string{"a", "c", ""}},
		{"@/_data/*//?value", []string{"anon"}},
		{"@/_data/*/=foo?name", []string{"c"}},
		{"@/_data/*/=2?name", []string{"b"}},
		{"@/_data/*/=:int:2?name", []string{"b"}},
		{"@/_data/*/=:string:2?name", []string{}},
		{`@/_data/*/="foo"?name`, []string{"c"}},
		{"@/**/deep/..other?value", []string{"x"}},
		{"@/**/deep/./.?name", []string{"other"}},
		{"@/**/deep/..?count", []string{"1"}},
		{"@/_data/*/c/-2?name", []string{"a"}},
		{"@/_data/*/c/+?value", []string{"3"}},
		{"@/_data/*/c/>?value", []string{"3"}},
		{"@/_data/*/c/<?value", []string{"2"}},
		{"@/_data/*/a/.?name", []string{"_data"}},
		{"@/_data/*/(/a|/b)?name", []string{"a", "a", "b"}},
		{"@/_data/*/(/=:int:1|/=:int:2|/=foo&/a)?value", []string{"1"}},
		{"@/_data/*/(!/a)?name", []string{"b", "c", ""}},
		{"@/_data/*/(/a,b^/b,c)?name", []string{"a", "a", "c"}},
		{"@/_data/*/(/a|/c)/[1,]?value", []string{"3", "foo"}},
		{"@/_data/*/a|/other?name", []string{"a", "a", "other"}},
		{"@/**/d*?name", []string{"deep"}},
		{`@/**/"/^in/"?name`, []string{"inner"}},
		{`@/"_data"/*/c?value`, []string{"foo"}},
		{"@/_data/*?count", []string{"5"}},
		{"@/other/inner/deep?path", []string{"1-0-0"}},
		{"@/other/0/0?value", []string{"z"}},
		{"@/nosuch/*?value", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := strs(eval(t, tt.expr, root).Values())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestRestartable(t *testing.T) {
	root := tree(t, sample)
	e := MustParse("@/**/(/a|/deep|/inner)/.")
	seq := e.Nodes(root)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if diff := cmp.Diff(names(first), names(second)); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
	again := slices.Collect(MustParse(e.String()).Nodes(root))
	if diff := cmp.Diff(names(first), names(again)); diff != "" {
		t.Errorf("reparse differs (-first +again):\n%s", diff)
	}
}

func TestLazy(t *testing.T) {
	root := tree(t, sample)
	seq := MustParse("@/_data/*").Nodes(root)
	root.Find("_data").Add(ir.FromString("late", "v"))
	got := slices.Collect(seq)
	if got[len(got)-1].Name != "late" {
		t.Errorf("sequence was evaluated before being ranged over")
	}
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("break did not stop iteration")
	}
}

func TestExtractNodeClones(t *testing.T) {
	root := tree(t, sample)
	m := eval(t, "@/other", root)
	if m.Len() != 1 {
		t.Fatalf("got %d entities", m.Len())
	}
	ent := m.Entities[0]
	if ent.Node != root.Find("other") {
		t.Errorf("entity node is not the matched node")
	}
	if ent.Value.Kind != ir.RefKind || ent.Value.Ref == ent.Node || !ir.Equal(ent.Value.Ref, ent.Node) {
		t.Errorf("entity value is not a clone of the matched node")
	}
}

func TestCast(t *testing.T) {
	root := tree(t, sample)
	m := eval(t, "@/_data/*/a?value.string", root)
	for _, v := range m.Values() {
		if v.Kind != ir.StringKind {
			t.Errorf("value %v has kind %s", v, v.Kind)
		}
	}
	_, err := MustParse("@/other?value.int").Evaluate(root)
	if !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("bad cast error = %v", err)
	}
}

func TestDeref(t *testing.T) {
	target := ir.New("target", ir.Absent(), ir.FromString("t", "v"))
	root := ir.New("", ir.Absent(),
		ir.FromRef("r", target),
		ir.FromString("s", "not a ref"),
	)
	got := strs(eval(t, "@/*/#/*?value", root).Values())
	if diff := cmp.Diff([]string{"v"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReferenceExpression(t *testing.T) {
	root := tree(t, sample)
	refs := ir.New("_refs", ir.Absent(),
		ir.FromString("", "@/../*/_data/*/c?value"),
		ir.FromString("", "literal"),
		ir.FromString("", "@/./.?name"),
	)
	root.Add(refs)
	got := strs(eval(t, "@@/_refs/*?value", root).Values())
	if diff := cmp.Diff([]string{"foo", "literal", ""}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReferenceCycle(t *testing.T) {
	a := ir.FromString("a", "@@/./*/a?value")
	ir.New("", ir.Absent(), a)
	e, err := Parse(a.Value.Str)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Evaluate(a); !errors.Is(err, diag.ErrExpression) {
		t.Errorf("error = %v, want ErrExpression", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"foo",
		"@",
		"@foo",
		"@/*/[1,",
		"@/*/[1]",
		"@/*/[3,1]",
		"@/*/(/a",
		"@/*/a)",
		"@/*?bogus",
		"@/*?",
		"@/*?node.int",
		"@/*?value/x",
		"@@/*",
		`@/"abc`,
		"@/%0",
		"@/=:int:x",
		`@/"/[/"`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			if !errors.Is(err, diag.ErrExpression) {
				t.Fatalf("Parse(%q) error = %v, want ErrExpression", src, err)
			}
			var xe *diag.ExpressionError
			if !errors.As(err, &xe) || xe.Expr != src {
				t.Errorf("error does not carry the expression: %v", err)
			}
		})
	}
}
