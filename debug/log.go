package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/ir"
)

// Logf writes to stderr. Node arguments are rendered as text, maps and
// slices as indented JSON.
func Logf(msg string, args ...any) {
	for i, a := range args {
		args[i] = render(a)
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func render(a any) any {
	switch x := a.(type) {
	case *ir.Node:
		if x == nil {
			return a
		}
		s, err := hyperlambda.Render([]*ir.Node{x})
		if err != nil {
			return fmt.Sprintf("<node %q: %v>", x.Name, err)
		}
		return s
	case map[string]any, []any:
		d, err := json.MarshalIndent(x, "   |", "  ")
		if err != nil {
			return a
		}
		return string(d)
	}
	return a
}
