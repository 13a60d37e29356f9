package diag

import (
	"fmt"

	"github.com/signadot/go-lambda/ir"
)

// DefaultDepth is the number of ancestor levels captured when no depth is
// configured.
const DefaultDepth = 2

// Renderer turns a forest into text.
type Renderer interface {
	Render(nodes []*ir.Node) (string, error)
}

// MarkRenderer is a Renderer that can flag the line of one node.
type MarkRenderer interface {
	Renderer
	RenderMarked(nodes []*ir.Node, mark *ir.Node, text string) (string, error)
}

type Snapshot struct {
	// Root is a clone of the ancestor the snapshot was taken from.
	Root *ir.Node
	// Failing is the clone of the failing node inside Root.
	Failing *ir.Node
	// Path is the path of the failing node in its original tree.
	Path ir.Path
}

// Capture clones the tree depth levels above n. A negative depth is
// treated as DefaultDepth.
func Capture(n *ir.Node, depth int) *Snapshot {
	return CaptureWithin(n, depth, nil)
}

// CaptureWithin is Capture, except that it never climbs above top. Nodes
// outside top may be modified concurrently and are not read beyond the
// parent links of the path.
func CaptureWithin(n *ir.Node, depth int, top *ir.Node) *Snapshot {
	if n == nil {
		return nil
	}
	if depth < 0 {
		depth = DefaultDepth
	}
	anc := n
	for range depth {
		if anc == top || anc.Parent == nil {
			break
		}
		anc = anc.Parent
	}
	full := n.Path()
	rel := full[len(anc.Path()):]
	root := anc.Clone()
	return &Snapshot{Root: root, Failing: root.Resolve(rel), Path: full}
}

// Levels returns how many ancestors of the failing node the snapshot
// holds.
func (s *Snapshot) Levels() int {
	n := 0
	for p := s.Failing; p != nil && p != s.Root; p = p.Parent {
		n++
	}
	return n
}

const marker = "   <-- error"

func (s *Snapshot) Render(r Renderer) (string, error) {
	if s == nil {
		return "", nil
	}
	if r == nil {
		return fmt.Sprintf("at %q (path %s)", s.Failing.Name, s.Path), nil
	}
	nodes := []*ir.Node{s.Root}
	if mr, ok := r.(MarkRenderer); ok {
		return mr.RenderMarked(nodes, s.Failing, marker)
	}
	text, err := r.Render(nodes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\nat %q (path %s)", text, s.Failing.Name, s.Path), nil
}
