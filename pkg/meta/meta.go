package meta

// Meta ties a source span to the exact text that occupied it. For a leaf
// that lies on a single row, len(Text) always equals End.Col-Start.Col.
type Meta struct {
	Span Span   `yaml:"span"`
	Text string `yaml:"text"`
}

// New builds a single-row Meta starting at start and covering text.
func New(start Position, text string) Meta {
	return Meta{
		Span: Span{Start: start, End: start.Advance(len([]rune(text)))},
		Text: text,
	}
}

// MetaChar is one source character tagged with its original position.
// The keyword sub-tokenizers consume MetaChars so that a token assembled
// across continuation lines still knows where each character came from.
type MetaChar struct {
	Value    rune
	Position Position
}

// Chars explodes a single-row field into position-tagged characters.
func Chars(start Position, text string) []MetaChar {
	out := make([]MetaChar, 0, len(text))
	for i, r := range []rune(text) {
		out = append(out, MetaChar{Value: r, Position: start.Advance(i)})
	}
	return out
}

// Cut slices a run of MetaChars into one Meta per row. The input must be
// sorted ascending by position; runs produced by the scanners always are.
func Cut(mchars []MetaChar) []Meta {
	if len(mchars) == 0 {
		return nil
	}
	var out []Meta
	row := mchars[0].Position.Row
	start := mchars[0].Position
	var buf []rune
	flush := func() {
		out = append(out, Meta{
			Span: Span{Start: start, End: start.Advance(len(buf))},
			Text: string(buf),
		})
	}
	for _, mc := range mchars {
		if mc.Position.Row != row {
			flush()
			row = mc.Position.Row
			start = mc.Position
			buf = buf[:0]
		}
		buf = append(buf, mc.Value)
	}
	flush()
	return out
}
