package builtin

import (
	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"
	"github.com/signadot/go-lambda/query"

	jsonpatch "github.com/evanphx/json-patch"
)

// jsonPatch applies the RFC 6902 patch in the "patch" child to the JSON
// document in the value of args, replacing the value with the result.
func jsonPatch(_ *event.Context, args *ir.Node) error {
	doc, err := text(args)
	if err != nil {
		return err
	}
	p := args.Find("patch")
	if p == nil {
		return argsErr("%q needs a patch child", args.Name)
	}
	pd, err := text(p)
	if err != nil {
		return err
	}
	ops, err := jsonpatch.DecodePatch([]byte(pd))
	if err != nil {
		return err
	}
	out, err := ops.Apply([]byte(doc))
	if err != nil {
		return err
	}
	args.Value = ir.StringValue(string(out))
	return nil
}

// text resolves the value of n as a string.
func text(n *ir.Node) (string, error) {
	if n.Value.IsAbsent() {
		return "", argsErr("%q needs a value", n.Name)
	}
	v, err := query.Single(n, n)
	if err != nil {
		return "", err
	}
	return v.ToString()
}
