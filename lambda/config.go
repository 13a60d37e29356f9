package lambda

import (
	"github.com/signadot/go-lambda/diag"
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/query"
)

type Config struct {
	// Registry receives the instructions. Nil means event.Default.
	Registry *event.Registry

	// Namespace prefixes instruction names without a '.'. Empty disables
	// expansion.
	Namespace string

	// DataPrefix marks inert children. Empty means "_".
	DataPrefix string

	// ContextDepth is the number of ancestors captured in execution
	// errors.
	ContextDepth int

	// Parser reads program text held in values.
	Parser query.Parser

	// Renderer renders the context of execution errors.
	Renderer diag.Renderer
}

func DefaultConfig() Config {
	return Config{
		Registry:     event.Default,
		Namespace:    "core",
		DataPrefix:   "_",
		ContextDepth: diag.DefaultDepth,
		Parser:       hyperlambda.Codec{},
		Renderer:     hyperlambda.Codec{},
	}
}
