package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/go-lambda/hyperlambda"
	"github.com/signadot/go-lambda/lambda"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/scott-cotton/cli"
)

const (
	historyFile = ".lambda_history"
	promptMain  = "λ> "
	promptCont  = ".. "
)

func repl(cfg *ReplConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Repl.Parse(cc, args); err != nil {
		return err
	}
	x, err := cfg.executor(cc.Out)
	if err != nil {
		return err
	}
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	red := color.New(color.FgRed).SprintFunc()
	for {
		src, ok := readProgram(ln)
		if !ok {
			break
		}
		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			x.Wait()
			return nil
		case ":events":
			if err := listEvents(cc.Out, x.Registry()); err != nil {
				return err
			}
			continue
		case ":help":
			fmt.Fprintln(cc.Out, replDescription)
			continue
		}
		ln.AppendHistory(src)
		if err := replRun(cfg, x, src); err != nil {
			fmt.Fprintln(cc.Out, red(err.Error()))
		}
	}
	x.Wait()
	return nil
}

// readProgram reads lines until an empty one. Commands are read alone.
// It reports false at end of input.
func readProgram(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return b.String(), b.Len() > 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() == 0 && strings.HasPrefix(line, ":") {
			return line, true
		}
		if strings.TrimSpace(line) == "" {
			return b.String(), true
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func replRun(cfg *ReplConfig, x *lambda.Executor, src string) error {
	root, err := hyperlambda.ParseNode([]byte(src))
	if err != nil {
		return err
	}
	for i, n := range envNodes(cfg.Env, x.Config().DataPrefix) {
		root.Insert(i, n)
	}
	if err := x.Execute(context.Background(), root); err != nil {
		return runErr("input", err)
	}
	return nil
}
