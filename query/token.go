package query

import (
	"fmt"
	"strconv"
	"strings"
)

const separators = "/|&^!()?"

type token struct {
	sep  byte
	text string
	pos  int
}

func (t token) String() string {
	if t.sep != 0 {
		return string(t.sep)
	}
	return t.text
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func tokenize(src string) ([]token, error) {
	var res []token
	i := 0
	for i < len(src) {
		c := src[i]
		if strings.IndexByte(separators, c) >= 0 {
			res = append(res, token{sep: c, pos: i})
			i++
			continue
		}
		if isSpace(c) {
			i++
			continue
		}
		start := i
		for i < len(src) && strings.IndexByte(separators, src[i]) < 0 {
			var err error
			switch {
			case src[i] == '"':
				i, err = skipQuoted(src, i+1, false)
			case src[i] == '@' && i+1 < len(src) && src[i+1] == '"':
				i, err = skipQuoted(src, i+2, true)
			default:
				i++
			}
			if err != nil {
				return nil, err
			}
		}
		res = append(res, token{
			text: strings.TrimRightFunc(src[start:i], func(r rune) bool {
				return r < 128 && isSpace(byte(r))
			}),
			pos: start,
		})
	}
	return res, nil
}

// skipQuoted returns the index just past the closing quote of the literal
// whose content starts at i.
func skipQuoted(src string, i int, multi bool) (int, error) {
	for i < len(src) {
		switch src[i] {
		case '\\':
			if multi {
				i++
				continue
			}
			i += 2
			continue
		case '"':
			if multi && i+1 < len(src) && src[i+1] == '"' {
				i += 2
				continue
			}
			return i + 1, nil
		}
		i++
	}
	return 0, fmt.Errorf("unterminated string literal")
}

// unquote returns the content of s if s is a single quoted literal.
func unquote(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, `@"`):
		end, err := skipQuoted(s, 2, true)
		if err != nil || end != len(s) {
			return "", false
		}
		return strings.ReplaceAll(s[2:len(s)-1], `""`, `"`), true
	case strings.HasPrefix(s, `"`):
		end, err := skipQuoted(s, 1, false)
		if err != nil || end != len(s) {
			return "", false
		}
		if res, err := strconv.Unquote(s); err == nil {
			return res, true
		}
		return s[1 : len(s)-1], true
	}
	return "", false
}
