package main

import (
	"fmt"
	"io"

	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"

	"github.com/scott-cotton/cli"
)

func queryFiles(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: expected an expression", cli.ErrUsage)
	}
	e, err := query.Parse(args[0])
	if err != nil {
		return err
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		d, err := readInput(cc, file)
		if err != nil {
			return err
		}
		root, err := hyperlambda.ParseNode(d)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", file, err)
		}
		if err := queryRoot(cfg, cc.Out, e, root); err != nil {
			return fmt.Errorf("error querying %s: %w", file, err)
		}
	}
	return nil
}

func queryRoot(cfg *QueryConfig, w io.Writer, e *query.Expr, root *ir.Node) error {
	m, err := e.Evaluate(root)
	if err != nil {
		return err
	}
	if m.Extractor == query.ExtractNode {
		return hyperlambda.EncodeForest(m.Nodes(), w, cfg.encOpts(w)...)
	}
	if cfg.Sep != "" {
		_, err := fmt.Fprintln(w, m.Join(cfg.Sep))
		return err
	}
	for _, v := range m.Values() {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}
