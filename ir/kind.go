package ir

import "fmt"

type Kind int

const (
	AbsentKind Kind = iota
	StringKind
	IntKind
	UintKind
	FloatKind
	BoolKind
	TimeKind
	BytesKind
	RefKind
	ExtKind
)

var kindNames = map[Kind]string{
	AbsentKind: "absent",
	StringKind: "string",
	IntKind:    "int",
	UintKind:   "uint",
	FloatKind:  "float",
	BoolKind:   "bool",
	TimeKind:   "date",
	BytesKind:  "blob",
	RefKind:    "node",
	ExtKind:    "ext",
}

var kindAliases = map[string]Kind{
	"absent":  AbsentKind,
	"string":  StringKind,
	"int":     IntKind,
	"long":    IntKind,
	"integer": IntKind,
	"uint":    UintKind,
	"ulong":   UintKind,
	"float":   FloatKind,
	"double":  FloatKind,
	"decimal": FloatKind,
	"bool":    BoolKind,
	"boolean": BoolKind,
	"date":    TimeKind,
	"time":    TimeKind,
	"blob":    BytesKind,
	"bytes":   BytesKind,
	"node":    RefKind,
	"ref":     RefKind,
	"ext":     ExtKind,
}

func (k Kind) String() string {
	s, ok := kindNames[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// ParseKind maps a kind name, or one of its aliases, to a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[s]
	if !ok {
		return AbsentKind, fmt.Errorf("unrecognized kind %q", s)
	}
	return k, nil
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, err := ParseKind(string(d))
	if err != nil {
		return err
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		AbsentKind,
		StringKind,
		IntKind,
		UintKind,
		FloatKind,
		BoolKind,
		TimeKind,
		BytesKind,
		RefKind,
		ExtKind,
	}
}

// IsScalar reports whether values of kind k have a plain text rendering.
func (k Kind) IsScalar() bool {
	switch k {
	case RefKind, ExtKind, AbsentKind:
		return false
	default:
		return true
	}
}
