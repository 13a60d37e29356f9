// Package ir provides the tree representation shared by every part of a
// lambda program.
//
// # Overview
//
// A program, its data and the results it produces are all trees of [Node].
// Each node has a name, a [Value] and an ordered list of children. Nodes
// keep a pointer to their parent, and every structural mutation keeps that
// pointer consistent with the container the node actually lives in.
//
// # Values
//
// A [Value] is a tagged union. The [Kind] field says which of the payload
// fields is meaningful:
//
//   - AbsentKind: no value
//   - StringKind, IntKind, UintKind, FloatKind, BoolKind: scalars
//   - TimeKind: a point in time
//   - BytesKind: a byte sequence
//   - RefKind: a non-owning pointer to another node
//   - ExtKind: an opaque extension value tagged with a registered [ExtType]
//
// Values convert between kinds with the To* methods, see [Value.To].
//
// # References
//
// A reference value is not part of the tree. Clone, Equal, Count and Visit
// never follow it; a clone of a node holding a reference points at the same
// target as the original.
//
// # Creating Nodes
//
//	prog := ir.New("", ir.Absent(),
//		ir.FromString("_data", "hello"),
//		ir.FromInt("math.add", 2).Add(ir.FromInt("", 2)))
package ir
