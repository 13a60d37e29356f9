package hyperlambda

import "github.com/signadot/go-lambda/ir"

// Codec converts between text and node forests.
type Codec struct {
	Opts []EncodeOption
}

func (c Codec) Parse(text string) ([]*ir.Node, error) {
	return ParseString(text)
}

func (c Codec) Render(nodes []*ir.Node) (string, error) {
	return Render(nodes, c.Opts...)
}

// RenderMarked renders nodes, flagging the line of mark.
func (c Codec) RenderMarked(nodes []*ir.Node, mark *ir.Node, text string) (string, error) {
	opts := append(c.Opts[:len(c.Opts):len(c.Opts)], EncodeMark(mark, text))
	return Render(nodes, opts...)
}
