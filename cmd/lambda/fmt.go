package main

import (
	"fmt"

	"github.com/signadot/go-lambda/hyperlambda"

	"github.com/scott-cotton/cli"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, file := range args {
		d, err := readInput(cc, file)
		if err != nil {
			return err
		}
		nodes, err := hyperlambda.Parse(d)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", file, err)
		}
		if err := hyperlambda.EncodeForest(nodes, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}
