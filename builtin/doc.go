// Package builtin provides the instructions every program can rely on:
// tree mutation (set, add, remove), arithmetic (math.add, math.sub,
// math.mul, math.div, math.mod), expression scripts (script), JSON patches
// (json.patch) and text diffs (text.diff, text.patch).
//
// Importing the package registers the instructions in [event.Default]
// under the "core" namespace. Other registries use [Register].
package builtin
