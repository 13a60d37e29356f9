package query

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/go-lambda/ir"
)

// Parser turns program text into detached nodes.
type Parser interface {
	Parse(text string) ([]*ir.Node, error)
}

type ParserFunc func(text string) ([]*ir.Node, error)

func (f ParserFunc) Parse(text string) ([]*ir.Node, error) {
	return f(text)
}

// IsExpression reports whether s is an expression rather than a literal.
func IsExpression(s string) bool {
	s, ok := strings.CutPrefix(s, "@")
	if !ok {
		return false
	}
	s = strings.TrimPrefix(s, "@")
	return s != "" && strings.IndexByte("/(?{", s[0]) >= 0
}

func IsExpressionValue(v ir.Value) bool {
	return v.Kind == ir.StringKind && IsExpression(v.Str)
}

// Unescape removes the '\' protecting a literal starting with '@'.
func Unescape(s string) string {
	if strings.HasPrefix(s, `\@`) {
		return s[1:]
	}
	return s
}

// IsFormatted reports whether n holds a template with placeholders and
// at least one anonymous child supplying arguments.
func IsFormatted(n *ir.Node) bool {
	if n.Value.Kind != ir.StringKind || !strings.Contains(n.Value.Str, "{") {
		return false
	}
	return n.Find("") != nil
}

var placeholder = regexp.MustCompile(`\{([0-9]+)\}`)

// Format substitutes each {i} in the value of n with the resolved value of
// its i'th anonymous child. Arguments are resolved from dataSource, or from
// each argument itself when dataSource is n.
func Format(n, dataSource *ir.Node) (string, error) {
	var args []string
	for c := range n.FindAll("") {
		src := dataSource
		if dataSource == n {
			src = c
		}
		v, err := Single(c, src)
		if err != nil {
			return "", err
		}
		args = append(args, v.String())
	}
	var ferr error
	res := placeholder.ReplaceAllStringFunc(n.Value.Str, func(m string) string {
		i, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || i >= len(args) {
			if ferr == nil {
				ferr = formatErr("%s in %q has %d argument(s)", m, n.Value.Str, len(args))
			}
			return m
		}
		return args[i]
	})
	if ferr != nil {
		return "", ferr
	}
	return res, nil
}

// text returns the string value of n, formatted if needed.
func text(n, dataSource *ir.Node) (string, error) {
	if IsFormatted(n) {
		return Format(n, dataSource)
	}
	return n.Value.Str, nil
}

// Iterate resolves the values n refers to: the results of its expression,
// its literal value, or the values of its children when it has none. A
// child without a value contributes its name.
func Iterate(n, dataSource *ir.Node) ([]ir.Value, error) {
	switch n.Value.Kind {
	case ir.StringKind:
		s, err := text(n, dataSource)
		if err != nil {
			return nil, err
		}
		if !IsExpression(s) {
			return []ir.Value{ir.StringValue(Unescape(s))}, nil
		}
		x, err := Parse(s)
		if err != nil {
			return nil, err
		}
		m, err := x.Evaluate(dataSource)
		if err != nil {
			return nil, err
		}
		return m.Values(), nil
	case ir.AbsentKind:
		var res []ir.Value
		for c := range n.All() {
			if c.Value.IsAbsent() {
				res = append(res, ir.StringValue(c.Name))
				continue
			}
			res = append(res, c.Value)
		}
		return res, nil
	}
	return []ir.Value{n.Value}, nil
}

// IterateNodes resolves the nodes n refers to. Expressions with the node
// extractor yield the matched nodes; other values are converted, parsing
// strings with p. A node without a value yields its children.
func IterateNodes(n, dataSource *ir.Node, p Parser) ([]*ir.Node, error) {
	switch n.Value.Kind {
	case ir.AbsentKind:
		return n.Children(), nil
	case ir.StringKind:
		s, err := text(n, dataSource)
		if err != nil {
			return nil, err
		}
		if !IsExpression(s) {
			return parseNodes(Unescape(s), p)
		}
		x, err := Parse(s)
		if err != nil {
			return nil, err
		}
		if x.Extractor() == ExtractNode && !x.IsReference() {
			return slices.Collect(x.Nodes(dataSource)), nil
		}
		m, err := x.Evaluate(dataSource)
		if err != nil {
			return nil, err
		}
		var res []*ir.Node
		for _, v := range m.Values() {
			ns, err := valueNodes(v, p)
			if err != nil {
				return nil, err
			}
			res = append(res, ns...)
		}
		return res, nil
	}
	return valueNodes(n.Value, p)
}

func valueNodes(v ir.Value, p Parser) ([]*ir.Node, error) {
	switch v.Kind {
	case ir.AbsentKind:
		return nil, nil
	case ir.StringKind:
		return parseNodes(v.Str, p)
	}
	ref, err := v.ToNode()
	if err != nil {
		return nil, err
	}
	return []*ir.Node{ref}, nil
}

func parseNodes(s string, p Parser) ([]*ir.Node, error) {
	if p == nil {
		return nil, ErrNoParser
	}
	return p.Parse(s)
}

// Single resolves n to one value, concatenating several results as
// strings.
func Single(n, dataSource *ir.Node) (ir.Value, error) {
	vals, err := Iterate(n, dataSource)
	if err != nil {
		return ir.Value{}, err
	}
	switch len(vals) {
	case 0:
		return ir.Absent(), nil
	case 1:
		return vals[0], nil
	}
	var b strings.Builder
	for _, v := range vals {
		b.WriteString(v.String())
	}
	return ir.StringValue(b.String()), nil
}
