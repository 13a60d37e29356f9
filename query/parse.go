package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/go-lambda/ir"
)

type parser struct {
	src  string
	toks []token
	i    int
}

func Parse(src string) (*Expr, error) {
	body, ok := strings.CutPrefix(src, "@")
	if !ok {
		return nil, exprErr(src, "expression must start with '@'")
	}
	e := &Expr{src: src}
	if body, ok = strings.CutPrefix(body, "@"); ok {
		e.ref = true
	}
	toks, err := tokenize(body)
	if err != nil {
		return nil, exprErr(src, "%v", err)
	}
	if len(toks) == 0 {
		return nil, exprErr(src, "empty expression")
	}
	p := &parser{src: src, toks: toks}
	e.root, err = p.group(false)
	if err != nil {
		return nil, err
	}
	if err := p.extractor(e); err != nil {
		return nil, err
	}
	if e.ref && e.extract != ExtractValue && e.extract != ExtractName {
		return nil, exprErr(src, "reference expressions need a value or name extractor")
	}
	return e, nil
}

func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) peek() (token, bool) {
	if p.i >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) group(nested bool) (*group, error) {
	g := &group{}
	cur := &branch{op: opOr}
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		switch t.sep {
		case '/':
			p.i++
			s, err := p.step()
			if err != nil {
				return nil, err
			}
			if s != nil {
				cur.steps = append(cur.steps, s)
			}
		case '(':
			p.i++
			sub, err := p.group(true)
			if err != nil {
				return nil, err
			}
			cur.steps = append(cur.steps, sub)
		case ')':
			if !nested {
				return nil, exprErr(p.src, "unmatched ')' at %d", t.pos)
			}
			p.i++
			g.branches = append(g.branches, cur)
			return g, nil
		case '|', '&', '!', '^':
			p.i++
			g.branches = append(g.branches, cur)
			cur = &branch{op: logicalOf(t.sep)}
		case '?':
			if nested {
				return nil, exprErr(p.src, "group not closed")
			}
			g.branches = append(g.branches, cur)
			return g, nil
		default:
			return nil, exprErr(p.src, "unexpected %q at %d", t.text, t.pos)
		}
	}
	if nested {
		return nil, exprErr(p.src, "group not closed")
	}
	g.branches = append(g.branches, cur)
	return g, nil
}

// step parses the iterator following a '/'. A '/' followed by another
// separator selects empty names, except before a group.
func (p *parser) step() (step, error) {
	t, ok := p.peek()
	if !ok || (t.sep != 0 && t.sep != '(') {
		return nameIs(""), nil
	}
	if t.sep == '(' {
		return nil, nil
	}
	p.i++
	s, err := p.iterator(t.text)
	if err != nil {
		return nil, exprErr(p.src, "%v", err)
	}
	return s, nil
}

func (p *parser) iterator(s string) (step, error) {
	if lit, ok := unquote(s); ok {
		if len(lit) > 2 && lit[0] == '/' && lit[len(lit)-1] == '/' {
			re, err := regexp.Compile(lit[1 : len(lit)-1])
			if err != nil {
				return nil, err
			}
			return nameRegexp(re), nil
		}
		return nameIs(lit), nil
	}
	switch s {
	case "*":
		return children, nil
	case "**":
		return descendants, nil
	case ".":
		return parent, nil
	case "..":
		return rootStep{}, nil
	case "#":
		return deref, nil
	case "<", "-":
		return sibling(-1), nil
	case ">", "+":
		return sibling(1), nil
	}
	switch s[0] {
	case '=':
		return valueStep(s[1:])
	case '[':
		return rangeOf(s)
	case '%':
		n, err := strconv.Atoi(s[1:])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad modulo %q", s)
		}
		return modStep(n), nil
	case '-', '+':
		if n, err := strconv.Atoi(s[1:]); err == nil && isDigits(s[1:]) {
			if s[0] == '-' {
				n = -n
			}
			return sibling(n), nil
		}
	}
	if name, ok := strings.CutPrefix(s, ".."); ok {
		if lit, ok := unquote(name); ok {
			name = lit
		}
		return ancestor(name), nil
	}
	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		return nth(n), nil
	}
	return nameStep(s)
}

func valueStep(s string) (step, error) {
	if lit, ok := unquote(s); ok {
		return valueIs(lit), nil
	}
	if rest, ok := strings.CutPrefix(s, `\`); ok {
		return valueIs(rest), nil
	}
	rest, ok := strings.CutPrefix(s, ":")
	if !ok {
		return valueIs(s), nil
	}
	typ, text, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, fmt.Errorf("typed value filter %q needs a type and a value", s)
	}
	if lit, ok := unquote(text); ok {
		text = lit
	}
	if k, err := ir.ParseKind(typ); err == nil {
		v, err := ir.ParseValue(k, text)
		if err != nil {
			return nil, err
		}
		return valueEq(v), nil
	}
	v, err := ir.ParseExt(typ, text)
	if err != nil {
		return nil, err
	}
	return valueEq(v), nil
}

func rangeOf(s string) (step, error) {
	inner, ok := strings.CutSuffix(s[1:], "]")
	if !ok {
		return nil, fmt.Errorf("range %q not closed", s)
	}
	lo, hi, ok := strings.Cut(inner, ",")
	if !ok {
		return nil, fmt.Errorf("range %q needs a ','", s)
	}
	r := rangeStep{end: -1}
	var err error
	if lo = strings.TrimSpace(lo); lo != "" {
		if r.start, err = strconv.Atoi(lo); err != nil || r.start < 0 {
			return nil, fmt.Errorf("bad range start %q", lo)
		}
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		if r.end, err = strconv.Atoi(hi); err != nil || r.end < 0 {
			return nil, fmt.Errorf("bad range end %q", hi)
		}
		if r.end <= r.start {
			return nil, fmt.Errorf("range %q ends before it starts", s)
		}
	}
	return r, nil
}

func (p *parser) extractor(e *Expr) error {
	if _, ok := p.peek(); !ok {
		return nil
	}
	p.i++
	next, ok := p.peek()
	if !ok || next.sep != 0 {
		return exprErr(p.src, "missing extractor after '?'")
	}
	p.i++
	if rest, ok := p.peek(); ok {
		return exprErr(p.src, "unexpected %q after extractor", rest.String())
	}
	name, cast, hasCast := strings.Cut(next.text, ".")
	x, ok := parseExtractor(name)
	if !ok {
		return exprErr(p.src, "unknown extractor %q", name)
	}
	e.extract = x
	if !hasCast {
		return nil
	}
	if x != ExtractValue && x != ExtractName {
		return exprErr(p.src, "extractor %q cannot be converted", name)
	}
	k, err := ir.ParseKind(cast)
	if err != nil || !k.IsScalar() {
		return exprErr(p.src, "bad conversion %q", cast)
	}
	e.cast = k
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
