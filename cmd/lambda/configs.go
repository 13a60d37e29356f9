package main

import (
	"io"
	"os"

	"github.com/signadot/go-lambda/hyperlambda"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool   `cli:"name=color desc='render with color'"`
	NS    string `cli:"name=ns desc='namespace of instructions without a dot' default=core"`
	Depth int    `cli:"name=depth desc='ancestor levels shown in errors' default=2"`
	Gops  bool   `cli:"name=gops desc='start a gops diagnostics agent'"`

	Main *cli.Command
}

func (cfg *MainConfig) encOpts(w io.Writer) []hyperlambda.EncodeOption {
	if cfg.Color {
		return []hyperlambda.EncodeOption{hyperlambda.EncodeColors(hyperlambda.NewColors())}
	}
	if cfg.Main == nil {
		return nil
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return nil
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return []hyperlambda.EncodeOption{hyperlambda.EncodeColors(hyperlambda.NewColors())}
	}
	return nil
}

type RunConfig struct {
	*MainConfig
	Env  map[string]any
	Show bool `cli:"name=s aliases=show desc='print the program before running it'"`

	Run *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Sep string `cli:"name=sep desc='join scalar results with this separator instead of newlines'"`

	Query *cli.Command
}

type FmtConfig struct {
	*MainConfig
	Fmt *cli.Command
}

type EventsConfig struct {
	*MainConfig
	Events *cli.Command
}

type ReplConfig struct {
	*MainConfig
	Env map[string]any

	Repl *cli.Command
}
