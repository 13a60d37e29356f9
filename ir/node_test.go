package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(nodes []*Node) []string {
	res := make([]string, len(nodes))
	for i, n := range nodes {
		res[i] = n.Name
	}
	return res
}

func checkParents(t *testing.T, root *Node) {
	t.Helper()
	for _, c := range root.children {
		if c.Parent != root {
			t.Errorf("child %q of %q has parent %v", c.Name, root.Name, c.Parent)
		}
		checkParents(t, c)
	}
}

func TestAddReparents(t *testing.T) {
	a := New("a", Absent())
	b := New("b", Absent())
	x := FromString("x", "1")
	a.Add(x)
	b.Add(x)
	if a.Len() != 0 {
		t.Errorf("a.Len() = %d, want 0", a.Len())
	}
	if x.Parent != b {
		t.Errorf("x.Parent = %v, want b", x.Parent)
	}
	checkParents(t, a)
	checkParents(t, b)
}

func TestAddCyclePanics(t *testing.T) {
	root := New("root", Absent())
	child := New("child", Absent())
	root.Add(child)
	defer func() {
		if recover() == nil {
			t.Errorf("adding an ancestor did not panic")
		}
	}()
	child.Add(root)
}

func TestMutations(t *testing.T) {
	root := New("root", Absent(),
		New("a", Absent()), New("b", Absent()), New("c", Absent()))
	root.Insert(1, New("x", Absent()))
	if diff := cmp.Diff([]string{"a", "x", "b", "c"}, names(root.Children())); diff != "" {
		t.Errorf("after Insert (-want +got):\n%s", diff)
	}
	b := root.Find("b")
	b.Replace(New("y", Absent()))
	if b.Parent != nil {
		t.Errorf("replaced node still has parent")
	}
	if diff := cmp.Diff([]string{"a", "x", "y", "c"}, names(root.Children())); diff != "" {
		t.Errorf("after Replace (-want +got):\n%s", diff)
	}
	root.Find("x").Untie()
	root.RemoveAt(0)
	if diff := cmp.Diff([]string{"y", "c"}, names(root.Children())); diff != "" {
		t.Errorf("after removal (-want +got):\n%s", diff)
	}
	checkParents(t, root)
	kids := root.Children()
	root.Clear()
	for _, k := range kids {
		if k.Parent != nil {
			t.Errorf("%q still has parent after Clear", k.Name)
		}
	}
}

func TestSiblings(t *testing.T) {
	root := New("root", Absent(),
		New("a", Absent()), New("b", Absent()), New("c", Absent()))
	a, b, c := root.Child(0), root.Child(1), root.Child(2)
	if a.PreviousSibling() != nil {
		t.Errorf("a.PreviousSibling() = %v, want nil", a.PreviousSibling())
	}
	if b.PreviousSibling() != a || b.NextSibling() != c {
		t.Errorf("siblings of b wrong")
	}
	if c.NextSibling() != nil {
		t.Errorf("c.NextSibling() = %v, want nil", c.NextSibling())
	}
	if root.NextSibling() != nil {
		t.Errorf("root has sibling")
	}
}

func TestFindOrCreate(t *testing.T) {
	root := New("root", Absent(), FromString("a", "1"), FromString("a", "2"))
	if got := root.Find("a").Value.Str; got != "1" {
		t.Errorf("Find(a) = %q, want first match", got)
	}
	n := 0
	for range root.FindAll("a") {
		n++
	}
	if n != 2 {
		t.Errorf("FindAll(a) yielded %d, want 2", n)
	}
	b := root.FindOrCreate("b")
	if b.Parent != root || root.Len() != 3 || !b.Value.IsAbsent() {
		t.Errorf("FindOrCreate did not append an empty child")
	}
	if root.FindOrCreate("b") != b {
		t.Errorf("FindOrCreate created a duplicate")
	}
}

func TestDescendantsPreOrder(t *testing.T) {
	root := New("r", Absent(),
		New("a", Absent(), New("a1", Absent()), New("a2", Absent())),
		New("b", Absent(), New("b1", Absent())))
	var got []string
	for n := range root.Descendants() {
		got = append(got, n.Name)
	}
	want := []string{"r", "a", "a1", "a2", "b", "b1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Descendants (-want +got):\n%s", diff)
	}
	if len(got) != root.Count()+1 {
		t.Errorf("len(Descendants) = %d, Count()+1 = %d", len(got), root.Count()+1)
	}
}

func TestCloneIgnoresRefs(t *testing.T) {
	target := New("target", Absent(), New("deep", Absent()))
	root := New("root", Absent(), FromRef("ref", target), FromString("s", "v"))
	clone := root.Clone()
	if clone.Parent != nil {
		t.Errorf("clone has parent")
	}
	if !Equal(root, clone) {
		t.Errorf("clone not equal to original")
	}
	if clone.Child(0).Value.Ref != target {
		t.Errorf("clone did not keep reference target")
	}
	if root.Count() != 2 {
		t.Errorf("Count() = %d, want 2", root.Count())
	}
	clone.Child(1).Value = StringValue("changed")
	if root.Child(1).Value.Str != "v" {
		t.Errorf("clone shares state with original")
	}
	checkParents(t, clone)
}

func TestPath(t *testing.T) {
	root := New("r", Absent(),
		New("a", Absent()),
		New("b", Absent(), New("b0", Absent()), New("b1", Absent())))
	b1 := root.Child(1).Child(1)
	p := b1.Path()
	if p.String() != "1-1" {
		t.Errorf("Path() = %q, want 1-1", p)
	}
	q, err := ParsePath("1-1")
	if err != nil {
		t.Fatal(err)
	}
	if root.Resolve(q) != b1 {
		t.Errorf("Resolve(%s) did not return b1", q)
	}
	if root.Resolve(Path{5}) != nil {
		t.Errorf("Resolve out of range returned a node")
	}
	if _, err := ParsePath("1-x"); err == nil {
		t.Errorf("ParsePath(1-x) succeeded")
	}
	if root.Child(0).Path().Compare(p) != -1 {
		t.Errorf("paths not in document order")
	}
}

func TestJSON(t *testing.T) {
	root := New("r", Absent(), FromInt("i", 3), New("b", BytesValue([]byte("hi"))))
	d, err := root.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	got := &Node{}
	if err := got.UnmarshalJSON(d); err != nil {
		t.Fatal(err)
	}
	if !Equal(root, got) {
		t.Errorf("json round trip mismatch: %s", d)
	}
	bad := New("r", Absent(), FromRef("x", root))
	if _, err := bad.MarshalJSON(); err == nil {
		t.Errorf("marshalling a reference succeeded")
	}
}
