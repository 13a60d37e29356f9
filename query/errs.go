package query

import (
	"errors"
	"fmt"

	"github.com/signadot/go-lambda/diag"
)

var (
	ErrFormat   = errors.New("format error")
	ErrNoParser = errors.New("no parser")
)

func exprErr(src, format string, args ...any) error {
	return diag.NewExpressionError(src, format, args...)
}

func formatErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}
