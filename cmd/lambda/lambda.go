package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/signadot/go-lambda/builtin"
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/lambda"
	"github.com/signadot/go-lambda/query"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func lambdaMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Depth < 0 {
		return fmt.Errorf("%w: -depth must not be negative", cli.ErrUsage)
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		}
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

var (
	setupOnce sync.Once
	shared    *lambda.Executor
	setupErr  error
)

// executor returns the process executor, registering the builtins in the
// configured namespace and a print instruction writing to w.
func (cfg *MainConfig) executor(w io.Writer) (*lambda.Executor, error) {
	setupOnce.Do(func() {
		shared, setupErr = cfg.setup(event.Default, builtin.Default, w)
	})
	return shared, setupErr
}

// setup moves the builtins of def to the configured namespace when it is
// not the one they were registered in.
func (cfg *MainConfig) setup(r *event.Registry, def *builtin.Builtins, w io.Writer) (*lambda.Executor, error) {
	if def == nil || cfg.NS != def.Namespace {
		if def != nil {
			r.UnregisterListener(def)
		}
		if _, err := builtin.Register(r, cfg.NS); err != nil {
			return nil, err
		}
	}
	p := &printer{w: w, opts: cfg.encOpts(w)}
	name := "print"
	if cfg.NS != "" {
		name = cfg.NS + "." + name
	}
	if err := r.RegisterFunc(name, p.print, event.Open); err != nil {
		return nil, err
	}
	x := lambda.New(&lambda.Config{
		Registry:     r,
		Namespace:    cfg.NS,
		DataPrefix:   "_",
		ContextDepth: cfg.Depth,
		Parser:       hyperlambda.Codec{},
		Renderer:     hyperlambda.Codec{},
	})
	if err := x.Register(); err != nil {
		return nil, err
	}
	return x, nil
}

type printer struct {
	mu   sync.Mutex
	w    io.Writer
	opts []hyperlambda.EncodeOption
}

// print writes the value of args on a line of its own. Node references
// are rendered.
func (p *printer) print(_ *event.Context, args *ir.Node) error {
	v, err := query.Single(args, args)
	if err != nil {
		return err
	}
	s := v.String()
	if v.Kind == ir.RefKind && v.Ref != nil {
		if s, err = hyperlambda.Render([]*ir.Node{v.Ref}, p.opts...); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = fmt.Fprintln(p.w, s)
	return err
}

func readInput(cc *cli.Context, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return d, nil
}
