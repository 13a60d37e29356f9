package ir

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"time"
)

// Value is the payload of a Node. Only the field selected by Kind is
// meaningful.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Uint  uint64
	Float float64
	Bool  bool
	Time  time.Time
	Bytes []byte
	Ref   *Node
	Ext   *Extension
}

func Absent() Value { return Value{} }
func StringValue(s string) Value { return Value{Kind: StringKind, Str: s} }
func IntValue(i int64) Value { return Value{Kind: IntKind, Int: i} }
func UintValue(u uint64) Value { return Value{Kind: UintKind, Uint: u} }
func FloatValue(f float64) Value { return Value{Kind: FloatKind, Float: f} }
func BoolValue(b bool) Value { return Value{Kind: BoolKind, Bool: b} }
func TimeValue(t time.Time) Value { return Value{Kind: TimeKind, Time: t} }
func BytesValue(d []byte) Value { return Value{Kind: BytesKind, Bytes: d} }
func RefValue(n *Node) Value { return Value{Kind: RefKind, Ref: n} }
func ExtValue(tag string, data any) Value {
	return Value{Kind: ExtKind, Ext: &Extension{Tag: tag, Data: data}}
}

// ValueOf wraps a Go value. Unsupported types return false.
func ValueOf(v any) (Value, bool) {
	switch x := v.(type) {
	case nil:
		return Absent(), true
	case Value:
		return x, true
	case string:
		return StringValue(x), true
	case int:
		return IntValue(int64(x)), true
	case int32:
		return IntValue(int64(x)), true
	case int64:
		return IntValue(x), true
	case uint:
		return UintValue(uint64(x)), true
	case uint32:
		return UintValue(uint64(x)), true
	case uint64:
		return UintValue(x), true
	case float32:
		return FloatValue(float64(x)), true
	case float64:
		return FloatValue(x), true
	case bool:
		return BoolValue(x), true
	case time.Time:
		return TimeValue(x), true
	case []byte:
		return BytesValue(x), true
	case *Node:
		return RefValue(x), true
	case *Extension:
		return Value{Kind: ExtKind, Ext: x}, true
	}
	return Absent(), false
}

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.Kind {
	case StringKind:
		return v.Str
	case IntKind:
		return v.Int
	case UintKind:
		return v.Uint
	case FloatKind:
		return v.Float
	case BoolKind:
		return v.Bool
	case TimeKind:
		return v.Time
	case BytesKind:
		return v.Bytes
	case RefKind:
		return v.Ref
	case ExtKind:
		return v.Ext
	}
	return nil
}

func (v Value) IsAbsent() bool { return v.Kind == AbsentKind }

// String renders the value for humans. Use ToString for conversions.
func (v Value) String() string {
	switch v.Kind {
	case AbsentKind:
		return ""
	case RefKind:
		if v.Ref == nil {
			return "<nil node>"
		}
		return fmt.Sprintf("<node %q>", v.Ref.Name)
	}
	s, err := v.ToString()
	if err != nil {
		return fmt.Sprintf("<%s>", v.Kind)
	}
	return s
}

// Truthy reports whether v counts as true in a condition.
func (v Value) Truthy() bool {
	switch v.Kind {
	case StringKind:
		return v.Str != ""
	case IntKind:
		return v.Int != 0
	case UintKind:
		return v.Uint != 0
	case FloatKind:
		return v.Float != 0
	case BoolKind:
		return v.Bool
	case TimeKind:
		return !v.Time.IsZero()
	case BytesKind:
		return len(v.Bytes) != 0
	case RefKind:
		return v.Ref != nil
	case ExtKind:
		return v.Ext != nil
	case AbsentKind:
		return false
	default:
		panic("kind")
	}
}

func (v Value) Clone() Value {
	switch v.Kind {
	case BytesKind:
		if v.Bytes != nil {
			v.Bytes = bytes.Clone(v.Bytes)
		}
	case ExtKind:
		if v.Ext != nil {
			v.Ext = v.Ext.clone()
		}
	}
	return v
}

// Equal compares two values of the same kind. References compare by
// identity.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case AbsentKind:
		return true
	case StringKind:
		return v.Str == o.Str
	case IntKind:
		return v.Int == o.Int
	case UintKind:
		return v.Uint == o.Uint
	case FloatKind:
		return v.Float == o.Float
	case BoolKind:
		return v.Bool == o.Bool
	case TimeKind:
		return v.Time.Equal(o.Time)
	case BytesKind:
		return bytes.Equal(v.Bytes, o.Bytes)
	case RefKind:
		return v.Ref == o.Ref
	case ExtKind:
		return v.Ext.equal(o.Ext)
	}
	return false
}

// ParseValue decodes the text form of a value of kind k, as produced by
// ToString. Bytes are base64 encoded.
func ParseValue(k Kind, text string) (Value, error) {
	switch k {
	case AbsentKind:
		return Absent(), nil
	case BytesKind:
		d, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return Absent(), mismatch(StringKind, BytesKind, err)
		}
		return BytesValue(d), nil
	case RefKind, ExtKind:
		return Absent(), mismatch(StringKind, k, nil)
	}
	return StringValue(text).To(k)
}
