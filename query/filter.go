package query

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/signadot/go-lambda/ir"
)

func nameIs(name string) step {
	return keep(func(n *ir.Node) bool {
		return n.Name == name
	})
}

func nameIn(names []string) step {
	return keep(func(n *ir.Node) bool {
		return slices.Contains(names, n.Name)
	})
}

func nameGlob(pattern string) step {
	return keep(func(n *ir.Node) bool {
		ok, _ := path.Match(pattern, n.Name)
		return ok
	})
}

func nameRegexp(re *regexp.Regexp) step {
	return keep(func(n *ir.Node) bool {
		return re.MatchString(n.Name)
	})
}

// valueIs matches nodes whose value renders as s. Absent values never
// match.
func valueIs(s string) step {
	return keep(func(n *ir.Node) bool {
		if n.Value.IsAbsent() {
			return false
		}
		vs, err := n.Value.ToString()
		return err == nil && vs == s
	})
}

// valueEq matches nodes holding a value of the same kind equal to v.
func valueEq(v ir.Value) step {
	return keep(func(n *ir.Node) bool {
		return n.Value.Equal(v)
	})
}

// nameStep classifies a plain name token.
func nameStep(s string) (step, error) {
	switch {
	case strings.Contains(s, ","):
		names := strings.Split(s, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		return nameIn(names), nil
	case strings.Contains(s, "*"):
		if _, err := path.Match(s, ""); err != nil {
			return nil, err
		}
		return nameGlob(s), nil
	}
	return nameIs(s), nil
}
