// Package diag holds the errors raised while parsing expressions and
// executing lambda trees.
//
// Both error types can carry a [Snapshot]: a clone of the tree a bounded
// number of levels above the failing node. Snapshots are rendered to text
// only when [ExecutionError.Trace] or [ExpressionError.Trace] is called.
package diag
