package main

import (
	"fmt"
	"io"

	"github.com/signadot/go-lambda/event"

	"github.com/scott-cotton/cli"
)

func events(cfg *EventsConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Events.Parse(cc, args); err != nil {
		return err
	}
	x, err := cfg.executor(cc.Out)
	if err != nil {
		return err
	}
	return listEvents(cc.Out, x.Registry())
}

func listEvents(w io.Writer, r *event.Registry) error {
	for _, info := range r.Events() {
		if _, err := fmt.Fprintf(w, "%-24s %-9s %d\n", info.Name, info.Protection, info.Handlers); err != nil {
			return err
		}
	}
	return nil
}
