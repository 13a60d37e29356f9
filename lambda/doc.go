// Package lambda executes node trees as programs.
//
// The children of a scope are instructions run in document order: the
// name of each child, expanded with the configured namespace when it has
// no '.', is raised as an event with the child itself as argument.
// Children whose names are empty or start with the data prefix are inert.
//
// A scope's children are snapshotted before the first instruction and
// restored once the scope completes, on every exit path. Instructions
// see each other's mutations while the scope runs; only the scope's value
// survives. A scope whose value is a node reference, an expression or
// program text is redirected: the values name the blocks to run and the
// scope's own children are passed to each as parameters.
//
// The Executor is also an [event.Listener] contributing the control flow
// instructions: lambda, lambda-copy, fork, wait, if, else-if, else, while,
// for-each, try, catch, finally and throw.
package lambda
