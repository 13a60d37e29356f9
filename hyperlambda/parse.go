package hyperlambda

import (
	"strconv"
	"strings"

	"github.com/signadot/go-lambda/ir"
)

// Parse reads a forest of nodes. The returned nodes have no parent.
func Parse(d []byte) ([]*ir.Node, error) {
	p := &parser{s: newScanner(d)}
	root := &ir.Node{}
	if err := p.parse(root); err != nil {
		return nil, err
	}
	res := root.Children()
	root.Clear()
	return res, nil
}

func ParseString(s string) ([]*ir.Node, error) {
	return Parse([]byte(s))
}

// ParseNode reads a forest and returns it as the children of a new
// anonymous node.
func ParseNode(d []byte) (*ir.Node, error) {
	nodes, err := Parse(d)
	if err != nil {
		return nil, err
	}
	return ir.New("", ir.Absent(), nodes...), nil
}

type parser struct {
	s *scanner
}

func (p *parser) parse(root *ir.Node) error {
	level := 0
	curRoot := root
	var cur *ir.Node
	for {
		tok, spaces, eol, ok, err := p.nameToken()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch {
		case spaces%2 != 0:
			return p.s.errf(nil, "odd indentation near %q", tok)
		case spaces == level:
		case spaces == level+2:
			if cur == nil {
				return p.s.errf(nil, "indented first node %q", tok)
			}
			curRoot = cur
			level = spaces
		case spaces > level+2:
			return p.s.errf(nil, "too much indentation near %q", tok)
		default:
			for level > spaces {
				level -= 2
				curRoot = curRoot.Parent
			}
		}
		cur = &ir.Node{Name: tok}
		curRoot.Add(cur)
		if eol {
			continue
		}
		vt, quoted, eol, err := p.valueToken(false)
		if err != nil {
			return err
		}
		if eol {
			cur.Value = ir.StringValue(vt)
			continue
		}
		if quoted {
			return p.s.errf(nil, "quoted type %q", vt)
		}
		val, _, eol, err := p.valueToken(true)
		if err != nil {
			return err
		}
		if !eol {
			return p.s.errf(nil, "unexpected ':' after value of %q", tok)
		}
		v, err := decode(vt, val)
		if err != nil {
			return p.s.errf(err, "bad %s value for %q", vt, tok)
		}
		cur.Value = v
	}
}

func decode(typ, text string) (ir.Value, error) {
	switch typ {
	case "", "string":
		return ir.StringValue(text), nil
	case "node":
		nodes, err := ParseString(text)
		if err != nil {
			return ir.Absent(), err
		}
		if len(nodes) == 1 {
			return ir.RefValue(nodes[0]), nil
		}
		return ir.RefValue(ir.New("", ir.Absent(), nodes...)), nil
	}
	k, err := ir.ParseKind(typ)
	if err != nil {
		if ir.LookupExtType(typ) == nil {
			return ir.Absent(), err
		}
		return ir.ParseExt(typ, text)
	}
	return ir.ParseValue(k, text)
}

func trimEnd(s string) string {
	return strings.TrimRight(s, " \t")
}

func (p *parser) nameToken() (tok string, spaces int, eol, ok bool, err error) {
	s := p.s
	var b strings.Builder
	for !s.eof() {
		c := s.peek()
		switch {
		case b.Len() == 0 && c == '@' && s.peekAt(1) == '"':
			s.next()
			s.next()
			tok, err = p.multiLine()
			if err != nil {
				return "", 0, false, false, err
			}
			eol, err = p.afterQuoted()
			return tok, spaces, eol, true, err
		case b.Len() == 0 && c == '"':
			s.next()
			tok, err = p.quoted()
			if err != nil {
				return "", 0, false, false, err
			}
			eol, err = p.afterQuoted()
			return tok, spaces, eol, true, err
		case b.Len() == 0 && c == '/' && s.peekAt(1) == '*':
			if err := p.blockComment(); err != nil {
				return "", 0, false, false, err
			}
			if _, err := p.afterQuoted(); err != nil {
				return "", 0, false, false, err
			}
			spaces = 0
		case b.Len() == 0 && c == '/' && s.peekAt(1) == '/':
			p.eatLine()
			spaces = 0
		case b.Len() == 0 && c == ' ':
			s.next()
			spaces++
		case c == ':':
			s.next()
			return trimEnd(b.String()), spaces, false, true, nil
		case s.atNewline() || c == '\r':
			if !s.newline() {
				s.next()
			}
			if b.Len() == 0 {
				spaces = 0
				continue
			}
			return trimEnd(b.String()), spaces, true, true, nil
		default:
			b.WriteRune(s.next())
		}
	}
	if b.Len() == 0 {
		return "", 0, true, false, nil
	}
	return trimEnd(b.String()), spaces, true, true, nil
}

// valueToken reads a type or value. With rest set, ':' does not end the
// token.
func (p *parser) valueToken(rest bool) (tok string, quoted, eol bool, err error) {
	s := p.s
	for s.peek() == ' ' || s.peek() == '\t' {
		s.next()
	}
	switch {
	case s.peek() == '@' && s.peekAt(1) == '"':
		s.next()
		s.next()
		tok, err = p.multiLine()
		if err != nil {
			return "", true, false, err
		}
		eol, err = p.afterQuoted()
		return tok, true, eol, err
	case s.peek() == '"':
		s.next()
		tok, err = p.quoted()
		if err != nil {
			return "", true, false, err
		}
		eol, err = p.afterQuoted()
		return tok, true, eol, err
	}
	var b strings.Builder
	for !s.eof() {
		c := s.peek()
		if c == ':' && !rest {
			s.next()
			return trimEnd(b.String()), false, false, nil
		}
		if s.newline() {
			return trimEnd(b.String()), false, true, nil
		}
		b.WriteRune(s.next())
	}
	return trimEnd(b.String()), false, true, nil
}

// afterQuoted checks what follows a quoted token: a ':' or the end of the
// line.
func (p *parser) afterQuoted() (eol bool, err error) {
	s := p.s
	for !s.eof() {
		c := s.peek()
		switch {
		case c == ' ' || c == '\t':
			s.next()
		case c == ':':
			s.next()
			return false, nil
		case s.newline():
			return true, nil
		default:
			return false, s.errf(nil, "unexpected %q after quoted text", c)
		}
	}
	return true, nil
}

func (p *parser) eatLine() {
	s := p.s
	for !s.eof() && !s.newline() {
		s.next()
	}
}

func (p *parser) blockComment() error {
	s := p.s
	s.next()
	s.next()
	for !s.eof() {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.next()
			s.next()
			return nil
		}
		s.next()
	}
	return s.errf(nil, "comment not closed")
}

func (p *parser) multiLine() (string, error) {
	s := p.s
	var b strings.Builder
	for !s.eof() {
		if s.newline() {
			b.WriteByte('\n')
			continue
		}
		c := s.next()
		if c != '"' {
			b.WriteRune(c)
			continue
		}
		if s.peek() == '"' {
			b.WriteRune(s.next())
			continue
		}
		return b.String(), nil
	}
	return "", s.errf(nil, "string literal not closed near %q", b.String())
}

func (p *parser) quoted() (string, error) {
	s := p.s
	var b strings.Builder
	for !s.eof() {
		if s.atNewline() {
			return "", s.errf(nil, "newline in string literal near %q", b.String())
		}
		c := s.next()
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			e, err := p.escape()
			if err != nil {
				return "", err
			}
			b.WriteRune(e)
		default:
			b.WriteRune(c)
		}
	}
	return "", s.errf(nil, "string literal not closed near %q", b.String())
}

func (p *parser) escape() (rune, error) {
	s := p.s
	c := s.next()
	switch c {
	case '"', '\'', '\\':
		return c, nil
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case 'u', 'x':
		var hex [4]rune
		for i := range hex {
			hex[i] = s.next()
		}
		n, err := strconv.ParseUint(string(hex[:]), 16, 32)
		if err != nil {
			return 0, s.errf(err, "bad escape \\%c%s", c, string(hex[:]))
		}
		return rune(n), nil
	case -1:
		return 0, s.errf(nil, "end of input in escape")
	}
	return 0, s.errf(nil, "bad escape \\%c", c)
}
