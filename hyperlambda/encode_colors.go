package hyperlambda

import (
	"strings"

	"github.com/signadot/go-lambda/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	Kind ir.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	NameColor ColorAttr = iota
	DataNameColor
	TypeColor
	ValueColor
	SepColor
	MarkColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range ir.Kinds() {
		able := Colorable{Kind: k, Attr: NameColor}
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
		able.Attr = DataNameColor
		colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
		able.Attr = TypeColor
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = MarkColor
		colors.Map[able] = color.New(color.FgRed, color.Bold).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}

	able.Kind = ir.StringKind
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	for _, k := range []ir.Kind{ir.IntKind, ir.UintKind, ir.FloatKind} {
		able.Kind = k
		colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	}
	able.Kind = ir.BoolKind
	colors.Map[able] = color.CyanString
	able.Kind = ir.TimeKind
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	able.Kind = ir.BytesKind
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	able.Kind = ir.RefKind
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string {
	return v
}

func (c *Colors) Color(able Colorable, v string) string {
	return c.Get(able)(v)
}

func (c *Colors) Get(able Colorable) func(string, ...any) string {
	f := c.Map[able]
	if f == nil {
		return c.Default
	}
	return f
}
