package builtin

import (
	"fmt"

	"github.com/signadot/go-lambda/event"
	"github.com/signadot/go-lambda/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// textDiff replaces the value of args with the patch text turning it into
// the value of the "with" child.
func textDiff(_ *event.Context, args *ir.Node) error {
	from, err := text(args)
	if err != nil {
		return err
	}
	w := args.Find("with")
	if w == nil {
		return argsErr("%q needs a with child", args.Name)
	}
	to, err := text(w)
	if err != nil {
		return err
	}
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	args.Value = ir.StringValue(dmp.PatchToText(dmp.PatchMake(from, diffs)))
	return nil
}

// textPatch applies the patch text in the "patch" child to the value of
// args. It fails if any hunk does not apply.
func textPatch(_ *event.Context, args *ir.Node) error {
	from, err := text(args)
	if err != nil {
		return err
	}
	p := args.Find("patch")
	if p == nil {
		return argsErr("%q needs a patch child", args.Name)
	}
	pt, err := text(p)
	if err != nil {
		return err
	}
	dmp := diffpatch.New()
	patches, err := dmp.PatchFromText(pt)
	if err != nil {
		return err
	}
	out, applied := dmp.PatchApply(patches, from)
	for i, ok := range applied {
		if !ok {
			return fmt.Errorf("%w: hunk %d of %q does not apply", ErrArgs, i, args.Name)
		}
	}
	args.Value = ir.StringValue(out)
	return nil
}
