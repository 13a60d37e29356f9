package ir

import (
	"encoding/json"
	"fmt"
)

type irBase struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind,omitempty"`
	Tag      string  `json:"tag,omitempty"`
	Value    *string `json:"value,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func (y *Node) MarshalJSON() ([]byte, error) {
	base := &irBase{
		Name:     y.Name,
		Kind:     y.Value.Kind,
		Children: y.children,
	}
	switch y.Value.Kind {
	case AbsentKind:
	case RefKind:
		return nil, fmt.Errorf("%s: %w", y.Value.Kind, ErrUnserializable)
	case ExtKind:
		s, ok := y.Value.Ext.format()
		if !ok {
			return nil, fmt.Errorf("%s: %w", y.Value.Kind, ErrUnserializable)
		}
		base.Tag = y.Value.Ext.Tag
		base.Value = &s
	default:
		s, err := y.Value.ToString()
		if err != nil {
			return nil, err
		}
		base.Value = &s
	}
	return json.Marshal(base)
}

func (y *Node) UnmarshalJSON(d []byte) error {
	tmp := &irBase{}
	if err := json.Unmarshal(d, tmp); err != nil {
		return err
	}
	var text string
	if tmp.Value != nil {
		text = *tmp.Value
	}
	var (
		v   Value
		err error
	)
	switch tmp.Kind {
	case ExtKind:
		v, err = ParseExt(tmp.Tag, text)
	default:
		v, err = ParseValue(tmp.Kind, text)
	}
	if err != nil {
		return err
	}
	y.Name = tmp.Name
	y.Value = v
	y.Clear()
	y.Add(tmp.Children...)
	return nil
}
