// Package hyperlambda reads and writes the line oriented text form of
// lambda trees.
//
// Each line holds one node. Indentation by two spaces per level gives the
// parent, and the line itself is
//
//	name
//	name:value
//	name:type:value
//
// where type is a kind name understood by [ir.ParseKind] or the tag of a
// registered extension type. Untyped values are strings. Names and values
// containing ':' or surrounding blanks are written in double quotes with
// backslash escapes; text containing newlines or quotes uses the @"..."
// form, in which a quote is doubled. A node typed "node" holds the text of
// a sub tree and is read back as a reference to it.
//
// Comments run from // to the end of a line, or between /* and */.
package hyperlambda
