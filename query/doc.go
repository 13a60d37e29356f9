// Package query implements lambda expressions: path queries over an
// [ir.Node] tree.
//
// An expression starts with '@' (or '@@' for a reference expression) and
// is followed by iterators separated by '/', optional groups and logicals,
// and an optional extractor:
//
//	@/../*/_data/*?value
//	@/*/(/a|/b)?name
//	@@/*/_refs/*?value
//
// Expressions are parsed once by [Parse] and are pure: [Expr.Nodes]
// returns a lazy sequence which can be ranged over any number of times
// with the same result against an unmodified tree.
//
// The resolution helpers ([Iterate], [IterateNodes], [Single], [Format])
// implement the conventions used by instructions to read their arguments:
// a value may be an expression, a formatted template, a literal or absent.
package query
