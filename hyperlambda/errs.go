package hyperlambda

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("parse error")

type ParseError struct {
	Line, Col int
	Msg       string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
