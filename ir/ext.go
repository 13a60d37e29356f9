package ir

import (
	"fmt"
	"sync"
)

// Extension is an opaque value owned by a collaborator. Its Tag selects
// the ExtType that knows how to convert it.
type Extension struct {
	Tag  string
	Data any
}

// ExtType supplies conversion hooks for extension values with a given tag.
// Any hook may be nil.
type ExtType struct {
	Tag     string
	Format  func(data any) string
	Parse   func(text string) (any, error)
	Convert func(data any, k Kind) (Value, error)
	Clone   func(data any) any
}

var (
	extMu    sync.RWMutex
	extTypes = map[string]*ExtType{}
)

func RegisterExtType(t *ExtType) error {
	extMu.Lock()
	defer extMu.Unlock()
	if _, present := extTypes[t.Tag]; present {
		return fmt.Errorf("%s: %w", t.Tag, ErrExtTypeExists)
	}
	extTypes[t.Tag] = t
	return nil
}

func LookupExtType(tag string) *ExtType {
	extMu.RLock()
	defer extMu.RUnlock()
	return extTypes[tag]
}

// ParseExt decodes text into an extension value using the hooks registered
// for tag.
func ParseExt(tag, text string) (Value, error) {
	t := LookupExtType(tag)
	if t == nil || t.Parse == nil {
		return Absent(), fmt.Errorf("no parser for extension %q: %w", tag, ErrTypeMismatch)
	}
	d, err := t.Parse(text)
	if err != nil {
		return Absent(), mismatch(StringKind, ExtKind, err)
	}
	return ExtValue(tag, d), nil
}

func (e *Extension) format() (string, bool) {
	if e == nil {
		return "", false
	}
	t := LookupExtType(e.Tag)
	if t != nil && t.Format != nil {
		return t.Format(e.Data), true
	}
	if s, ok := e.Data.(fmt.Stringer); ok {
		return s.String(), true
	}
	return fmt.Sprint(e.Data), true
}

func (e *Extension) convert(k Kind) (Value, error) {
	if e == nil {
		return Absent(), mismatch(ExtKind, k, nil)
	}
	if t := LookupExtType(e.Tag); t != nil && t.Convert != nil {
		return t.Convert(e.Data, k)
	}
	if k == StringKind {
		s, _ := e.format()
		return StringValue(s), nil
	}
	return Absent(), mismatch(ExtKind, k, fmt.Errorf("extension %q", e.Tag))
}

func (e *Extension) clone() *Extension {
	res := &Extension{Tag: e.Tag, Data: e.Data}
	if t := LookupExtType(e.Tag); t != nil && t.Clone != nil {
		res.Data = t.Clone(e.Data)
	}
	return res
}

func (e *Extension) equal(o *Extension) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Tag != o.Tag {
		return false
	}
	a, _ := e.format()
	b, _ := o.format()
	return a == b
}
