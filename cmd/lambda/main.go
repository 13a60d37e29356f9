package main

import (
	"context"

	"github.com/scott-cotton/cli"
	_ "github.com/signadot/go-lambda/builtin"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
