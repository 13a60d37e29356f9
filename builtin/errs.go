package builtin

import (
	"errors"
	"fmt"
)

var (
	ErrArgs         = errors.New("bad arguments")
	ErrDivideByZero = errors.New("division by zero")
)

func argsErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArgs, fmt.Sprintf(format, args...))
}
