package hyperlambda

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/go-lambda/ir"
)

var ErrRefCycle = errors.New("reference cycle")

type EncState struct {
	Color func(Colorable, string) string

	w        io.Writer
	mark     *ir.Node
	markText string
	inRef    map[*ir.Node]bool
}

type EncodeOption func(*EncState)

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeMark appends text to the line of node n.
func EncodeMark(n *ir.Node, text string) EncodeOption {
	return func(es *EncState) {
		es.mark = n
		es.markText = text
	}
}

// Encode writes node and its subtree to w.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	return EncodeForest([]*ir.Node{node}, w, opts...)
}

func EncodeForest(nodes []*ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{w: w, inRef: map[*ir.Node]bool{}}
	for _, opt := range opts {
		opt(es)
	}
	for _, n := range nodes {
		if err := es.encode(n, 0); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the text of nodes without a trailing newline.
func Render(nodes []*ir.Node, opts ...EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := EncodeForest(nodes, buf, opts...); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func MustString(nodes ...*ir.Node) string {
	s, err := Render(nodes)
	if err != nil {
		panic(err)
	}
	return s
}

func (es *EncState) color(k ir.Kind, attr ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(Colorable{Kind: k, Attr: attr}, s)
}

func (es *EncState) encode(n *ir.Node, level int) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", level))
	nameAttr := NameColor
	if strings.HasPrefix(n.Name, "_") || n.Name == "" {
		nameAttr = DataNameColor
	}
	b.WriteString(es.color(n.Value.Kind, nameAttr, quoteName(n)))
	if !n.Value.IsAbsent() {
		typ, text, err := es.valueText(n.Value)
		if err != nil {
			return fmt.Errorf("%q: %w", n.Name, err)
		}
		b.WriteString(es.color(n.Value.Kind, SepColor, ":"))
		if typ != "" {
			b.WriteString(es.color(n.Value.Kind, TypeColor, typ))
			b.WriteString(es.color(n.Value.Kind, SepColor, ":"))
		}
		b.WriteString(es.color(n.Value.Kind, ValueColor, quoteValue(text)))
	}
	if n == es.mark {
		b.WriteString(es.color(n.Value.Kind, MarkColor, es.markText))
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(es.w, b.String()); err != nil {
		return err
	}
	for c := range n.All() {
		if err := es.encode(c, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (es *EncState) valueText(v ir.Value) (typ, text string, err error) {
	switch v.Kind {
	case ir.StringKind:
		return "", v.Str, nil
	case ir.RefKind:
		return "node", "", es.refText(v.Ref, &text)
	case ir.ExtKind:
		text, err = v.ToString()
		return v.Ext.Tag, text, err
	}
	text, err = v.ToString()
	return v.Kind.String(), text, err
}

func (es *EncState) refText(ref *ir.Node, dst *string) error {
	if ref == nil {
		return nil
	}
	if es.inRef[ref] {
		return fmt.Errorf("%w at %q", ErrRefCycle, ref.Name)
	}
	es.inRef[ref] = true
	defer delete(es.inRef, ref)
	sub := &EncState{w: bytes.NewBuffer(nil), inRef: es.inRef}
	nodes := []*ir.Node{ref}
	if ref.Name == "" && ref.Value.IsAbsent() {
		nodes = ref.Children()
	}
	for _, n := range nodes {
		if err := sub.encode(n, 0); err != nil {
			return err
		}
	}
	*dst = strings.TrimRight(sub.w.(*bytes.Buffer).String(), "\n")
	return nil
}

func needsQuotes(s string) bool {
	return strings.Contains(s, ":") ||
		strings.TrimSpace(s) != s ||
		strings.HasPrefix(s, "//") ||
		strings.HasPrefix(s, "/*") ||
		strings.HasPrefix(s, "@\"")
}

func quoteName(n *ir.Node) string {
	s := n.Name
	switch {
	case strings.ContainsAny(s, "\n\r") || strings.HasPrefix(s, "\""):
		return multi(s)
	case (s == "" && n.Value.IsAbsent()) || needsQuotes(s):
		return quote(s)
	}
	return s
}

func quoteValue(s string) string {
	switch {
	case strings.ContainsAny(s, "\n\r\""):
		return multi(s)
	case needsQuotes(s):
		return quote(s)
	}
	return s
}

func multi(s string) string {
	return `@"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\t", `\t`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
