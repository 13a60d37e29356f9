package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/signadot/go-lambda/diag"
	"github.com/signadot/go-lambda/hyperlambda"

	"github.com/scott-cotton/cli"
)

func run(cfg *RunConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Run.Parse(cc, args)
	if err != nil {
		return err
	}
	x, err := cfg.executor(cc.Out)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, file := range args {
		d, err := readInput(cc, file)
		if err != nil {
			return err
		}
		root, err := hyperlambda.ParseNode(d)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", file, err)
		}
		for i, n := range envNodes(cfg.Env, x.Config().DataPrefix) {
			root.Insert(i, n)
		}
		if cfg.Show {
			if err := hyperlambda.EncodeForest(root.Children(), cc.Out, cfg.encOpts(cc.Out)...); err != nil {
				return err
			}
		}
		if err := x.Execute(ctx, root); err != nil {
			return runErr(file, err)
		}
	}
	x.Wait()
	return nil
}

// runErr adds the rendered context of err, if any, to the message.
func runErr(file string, err error) error {
	trace := diag.TraceOf(err)
	if trace == "" {
		return fmt.Errorf("error running %s: %w", file, err)
	}
	return fmt.Errorf("error running %s: %w\n%s", file, err, trace)
}
