package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/signadot/go-lambda/ir"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

func envFunc(env map[string]any, a string) error {
	key, val, ok := strings.Cut(a, "=")
	if !ok {
		return fmt.Errorf("%w: argument %q expected name=val", cli.ErrUsage, a)
	}
	var v any
	if err := yaml.Unmarshal([]byte(val), &v); err != nil {
		return err
	}
	parts := strings.Split(key, ".")
	n := len(parts)
	tmpEnv := env
	for i, part := range parts {
		if i == n-1 {
			tmpEnv[part] = v
			break
		}
		next := tmpEnv[part]
		if next == nil {
			next = map[string]any{}
			tmpEnv[part] = next
		}
		nextEnv, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot access %s, list or scalar", strings.Join(parts[:i+1], "."))
		}
		tmpEnv = nextEnv
	}
	return nil
}

// envNodes turns env into data nodes named with prefix.
func envNodes(env map[string]any, prefix string) []*ir.Node {
	res := make([]*ir.Node, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		res = append(res, toNode(prefix+k, env[k]))
	}
	return res
}

func toNode(name string, v any) *ir.Node {
	switch x := v.(type) {
	case map[string]any:
		n := ir.New(name, ir.Absent())
		for _, k := range slices.Sorted(maps.Keys(x)) {
			n.Add(toNode(k, x[k]))
		}
		return n
	case []any:
		n := ir.New(name, ir.Absent())
		for _, item := range x {
			n.Add(toNode("", item))
		}
		return n
	}
	if iv, ok := ir.ValueOf(v); ok {
		return ir.New(name, iv)
	}
	return ir.FromString(name, fmt.Sprint(v))
}
