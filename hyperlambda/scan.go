package hyperlambda

import (
	"fmt"
	"unicode/utf8"
)

type scanner struct {
	src       []byte
	pos       int
	line, col int
}

func newScanner(d []byte) *scanner {
	return &scanner{src: d, line: 1, col: 1}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peekAt(off int) rune {
	pos := s.pos
	for range off {
		if pos >= len(s.src) {
			return -1
		}
		_, sz := utf8.DecodeRune(s.src[pos:])
		pos += sz
	}
	if pos >= len(s.src) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.src[pos:])
	return r
}

func (s *scanner) peek() rune {
	return s.peekAt(0)
}

func (s *scanner) next() rune {
	if s.eof() {
		return -1
	}
	r, sz := utf8.DecodeRune(s.src[s.pos:])
	s.pos += sz
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

// newline consumes "\n" or "\r\n" and reports whether it did.
func (s *scanner) newline() bool {
	switch s.peek() {
	case '\n':
		s.next()
		return true
	case '\r':
		if s.peekAt(1) == '\n' {
			s.next()
			s.next()
			return true
		}
	}
	return false
}

func (s *scanner) atNewline() bool {
	c := s.peek()
	return c == '\n' || (c == '\r' && s.peekAt(1) == '\n')
}

func (s *scanner) errf(err error, format string, args ...any) error {
	return &ParseError{Line: s.line, Col: s.col, Msg: fmt.Sprintf(format, args...), Err: err}
}
