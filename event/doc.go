// Package event maps event names to handlers.
//
// A [Registry] holds, for each name, an ordered list of handlers. Raising an
// event calls every handler registered under its name in registration
// order, then every catch-all handler registered under the empty name.
// Handlers communicate results by mutating the argument node.
//
// Handlers are either static, added once with [Registry.Register], or
// bound to a [Listener] with [Registry.RegisterListener] and removed
// together with [Registry.UnregisterListener].
//
// Each registration carries a [Protection]. Events raised from program
// trees with [Registry.RaiseInstruction] may only reach Open handlers;
// names starting with "." are always at least Internal. Sealed names
// cannot be registered twice.
package event
