package ir

import (
	"fmt"
	"iter"
	"slices"
)

type Node struct {
	Name   string
	Value  Value
	Parent *Node

	children []*Node
}

func New(name string, v Value, children ...*Node) *Node {
	res := &Node{Name: name, Value: v}
	return res.Add(children...)
}

func FromString(name, v string) *Node {
	return &Node{Name: name, Value: StringValue(v)}
}

func FromInt(name string, v int64) *Node {
	return &Node{Name: name, Value: IntValue(v)}
}

func FromFloat(name string, v float64) *Node {
	return &Node{Name: name, Value: FloatValue(v)}
}

func FromBool(name string, v bool) *Node {
	return &Node{Name: name, Value: BoolValue(v)}
}

func FromRef(name string, ref *Node) *Node {
	return &Node{Name: name, Value: RefValue(ref)}
}

// WithValue sets the value of y and returns y.
func (y *Node) WithValue(v Value) *Node {
	y.Value = v
	return y
}

// Children returns a copy of the child list.
func (y *Node) Children() []*Node {
	return slices.Clone(y.children)
}

// All iterates the children as they are when each step is taken.
func (y *Node) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := 0; i < len(y.children); i++ {
			if !yield(y.children[i]) {
				return
			}
		}
	}
}

func (y *Node) Len() int {
	return len(y.children)
}

// Child returns the i'th child, or nil if i is out of range.
func (y *Node) Child(i int) *Node {
	if i < 0 || i >= len(y.children) {
		return nil
	}
	return y.children[i]
}

// adopt detaches c from its current parent and makes y its parent.
func (y *Node) adopt(c *Node) {
	if c == nil {
		panic("ir: nil child")
	}
	for p := y; p != nil; p = p.Parent {
		if p == c {
			panic("ir: node added to itself or its descendant")
		}
	}
	if c.Parent != nil {
		c.Untie()
	}
	c.Parent = y
}

// Add appends children to y and returns y. A child that already has a
// parent is detached from it first.
func (y *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		y.adopt(c)
		y.children = append(y.children, c)
	}
	return y
}

func (y *Node) AddRange(children []*Node) {
	y.Add(children...)
}

// Insert places c at index i, shifting later children right.
func (y *Node) Insert(i int, c *Node) {
	y.adopt(c)
	if i < 0 || i > len(y.children) {
		i = len(y.children)
	}
	y.children = slices.Insert(y.children, i, c)
}

// Remove detaches c from y, returning false if c is not a child of y.
func (y *Node) Remove(c *Node) bool {
	i := slices.Index(y.children, c)
	if i == -1 {
		return false
	}
	y.RemoveAt(i)
	return true
}

func (y *Node) RemoveAt(i int) *Node {
	c := y.children[i]
	y.children = slices.Delete(y.children, i, i+1)
	c.Parent = nil
	return c
}

// Untie detaches y from its parent and returns y.
func (y *Node) Untie() *Node {
	p := y.Parent
	if p == nil {
		return y
	}
	i := slices.Index(p.children, y)
	if i == -1 {
		panic("parent but not in container")
	}
	p.RemoveAt(i)
	return y
}

// Replace puts with in the position y occupies in its parent.
func (y *Node) Replace(with *Node) {
	p := y.Parent
	if p == nil || with == y {
		return
	}
	with.Untie()
	i := slices.Index(p.children, y)
	p.adopt(with)
	p.children[i] = with
	y.Parent = nil
}

// Clear detaches all children of y.
func (y *Node) Clear() {
	for _, c := range y.children {
		c.Parent = nil
	}
	y.children = nil
}

// SetChildren replaces the children of y with children.
func (y *Node) SetChildren(children []*Node) {
	y.Clear()
	y.Add(children...)
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Index returns the position of y in its parent, or -1 for a root.
func (y *Node) Index() int {
	if y.Parent == nil {
		return -1
	}
	return slices.Index(y.Parent.children, y)
}

func (y *Node) FirstChild() *Node {
	return y.Child(0)
}

func (y *Node) LastChild() *Node {
	return y.Child(len(y.children) - 1)
}

func (y *Node) NextSibling() *Node {
	return y.Sibling(1)
}

func (y *Node) PreviousSibling() *Node {
	return y.Sibling(-1)
}

// Sibling returns the node offset positions away from y in its parent.
func (y *Node) Sibling(offset int) *Node {
	if y.Parent == nil {
		return nil
	}
	i := y.Index()
	return y.Parent.Child(i + offset)
}

// Find returns the first child named name, or nil.
func (y *Node) Find(name string) *Node {
	for _, c := range y.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (y *Node) FindAll(name string) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range y.children {
			if c.Name != name {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// FindOrCreate returns the first child named name, appending an empty one
// if there is none.
func (y *Node) FindOrCreate(name string) *Node {
	if c := y.Find(name); c != nil {
		return c
	}
	c := &Node{Name: name}
	y.Add(c)
	return c
}

// Get returns the value of the first child named name.
func (y *Node) Get(name string) Value {
	if c := y.Find(name); c != nil {
		return c.Value
	}
	return Absent()
}

// Visit walks y in pre-order, calling f before and after the children of
// each node. Children are skipped when the pre-visit returns false.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.children {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// Descendants yields y and then the pre-order subtree of each child.
func (y *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		y.descend(yield)
	}
}

func (y *Node) descend(yield func(*Node) bool) bool {
	if !yield(y) {
		return false
	}
	for _, c := range y.children {
		if !c.descend(yield) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes below y.
func (y *Node) Count() int {
	n := 0
	for _, c := range y.children {
		n += 1 + c.Count()
	}
	return n
}

// Clone returns a deep copy of y with no parent. Reference values are
// copied as references.
func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Name = y.Name
	dst.Value = y.Value.Clone()
	dst.children = make([]*Node, len(y.children))
	for i, c := range y.children {
		dstI := &Node{}
		c.CloneTo(dstI)
		dstI.Parent = dst
		dst.children[i] = dstI
	}
	return dst
}

// CloneChildren deep copies the children of y.
func (y *Node) CloneChildren() []*Node {
	res := make([]*Node, len(y.children))
	for i, c := range y.children {
		res[i] = c.Clone()
	}
	return res
}

func (y *Node) String() string {
	if y == nil {
		return "<nil>"
	}
	if y.Value.IsAbsent() {
		return fmt.Sprintf("%s{%d}", y.Name, len(y.children))
	}
	return fmt.Sprintf("%s:%s{%d}", y.Name, y.Value, len(y.children))
}
