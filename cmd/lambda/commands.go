package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{NS: "core", Depth: 2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "lambda").
		WithSynopsis("lambda [opts] command [opts]").
		WithDescription("lambda runs programs written as node trees.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lambdaMain(cfg, cc, args)
		}).
		WithSubs(
			RunCommand(cfg),
			QueryCommand(cfg),
			FmtCommand(cfg),
			EventsCommand(cfg),
			ReplCommand(cfg))
}

func RunCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RunConfig{MainConfig: mainCfg, Env: map[string]any{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "e",
			Description: "set data node _name to a yaml value",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(envOptTypeFunc(cfg.Env)), "(name=val)"),
		})
	return cli.NewCommandAt(&cfg.Run, "run").
		WithAliases("r").
		WithSynopsis("run [-e name=val [ -e name2=val2 ]...] [files]").
		WithDescription("run programs from files or stdin").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func envOptTypeFunc(env map[string]any) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		if err := envFunc(env, a); err != nil {
			return nil, err
		}
		return 0, nil
	}
}

func QueryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &QueryConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Query, "query").
		WithAliases("q").
		WithSynopsis("query [opts] <expression> [files]").
		WithDescription("evaluate an expression against the root of each file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return queryFiles(cfg, cc, args)
		})
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Fmt, "fmt").
		WithAliases("f").
		WithSynopsis("fmt [files]").
		WithDescription("reformat programs").
		WithRun(func(cc *cli.Context, args []string) error {
			return format(cfg, cc, args)
		})
}

func EventsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EventsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Events, "events").
		WithAliases("ev").
		WithSynopsis("events").
		WithDescription("list registered events").
		WithRun(func(cc *cli.Context, args []string) error {
			return events(cfg, cc, args)
		})
}

func ReplCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReplConfig{MainConfig: mainCfg, Env: map[string]any{}}
	opts := []*cli.Opt{
		{
			Name:        "e",
			Description: "set data node _name to a yaml value",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(envOptTypeFunc(cfg.Env)), "(name=val)"),
		},
	}
	return cli.NewCommandAt(&cfg.Repl, "repl").
		WithSynopsis("repl [-e name=val]...").
		WithDescription(replDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return repl(cfg, cc, args)
		})
}

const replDescription = `repl reads programs interactively.

Each program is ended by an empty line and runs in a fresh scope holding
the -e data nodes. Lines starting with ':' are commands:

  :quit     exit
  :events   list registered events
  :help     show this help`
