package rpgle

import (
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/kwlex"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// OpKind classifies what a calculation spec does, to the extent the core
// cares: subroutine definition, subroutine call, external program call,
// or unknown.
type OpKind string

const (
	OpBegsr OpKind = "Begsr"
	OpEndsr OpKind = "Endsr"
	OpExsr  OpKind = "Exsr"
	OpCallp OpKind = "Callp"
	OpIdk   OpKind = "Idk"
)

// Op is the recognised operation of a C-spec.
type Op struct {
	Kind   OpKind      `yaml:"kind"`
	Name   string      `yaml:"name,omitempty"`
	Metas  []meta.Meta `yaml:"metas"`
	Reason string      `yaml:"reason,omitempty"`
}

// Span covers the op's source extent.
func (o Op) Span() meta.Span {
	spans := make([]meta.Span, len(o.Metas))
	for i, m := range o.Metas {
		spans[i] = m.Span
	}
	return meta.CoverAll(spans)
}

// opCursor is a read-only walk over the token sequence of one logical
// code area.
type opCursor struct {
	tokens []kwlex.Token
	idx    int
}

func (c *opCursor) peek() (kwlex.Token, bool) {
	if c.idx >= len(c.tokens) {
		return kwlex.Token{}, false
	}
	return c.tokens[c.idx], true
}

func (c *opCursor) take(kind kwlex.TokenKind) (kwlex.Token, bool) {
	t, ok := c.peek()
	if !ok || t.Kind != kind {
		return kwlex.Token{}, false
	}
	c.idx++
	return t, true
}

func (c *opCursor) skipWhitespace() int {
	n := 0
	for {
		if _, ok := c.take(kwlex.KindWhitespace); !ok {
			return n
		}
		n++
	}
}

// skipInsignificant consumes whitespace and line comments.
func (c *opCursor) skipInsignificant() {
	for {
		t, ok := c.peek()
		if !ok || (t.Kind != kwlex.KindWhitespace && t.Kind != kwlex.KindLineComment) {
			return
		}
		c.idx++
	}
}

func (c *opCursor) done() bool { return c.idx >= len(c.tokens) }

func opMetas(tokens []kwlex.Token) []meta.Meta {
	var out []meta.Meta
	for _, t := range tokens {
		out = append(out, t.Metas...)
	}
	return out
}

// recognizeFree matches the free-form C-spec patterns in order:
// EXSR name;  BEGSR name;  ENDSR;  name(...);  — first match wins, and a
// match must consume every significant token.
func recognizeFree(tokens []kwlex.Token) Op {
	type pattern func(*opCursor) (OpKind, string, bool)
	patterns := []pattern{parseExsr, parseBegsr, parseEndsr, parseCallp}
	for _, p := range patterns {
		cur := &opCursor{tokens: tokens}
		if kind, name, ok := p(cur); ok {
			cur.skipInsignificant()
			if cur.done() {
				return Op{Kind: kind, Name: name, Metas: opMetas(tokens)}
			}
		}
	}
	return Op{Kind: OpIdk, Metas: opMetas(tokens), Reason: "no operation pattern matched"}
}

func parseExsr(c *opCursor) (OpKind, string, bool) {
	c.skipWhitespace()
	if _, ok := c.take(kwlex.KindExsr); !ok {
		return OpIdk, "", false
	}
	if c.skipWhitespace() == 0 {
		return OpIdk, "", false
	}
	name, ok := c.take(kwlex.KindIdentifier)
	if !ok {
		return OpIdk, "", false
	}
	if _, ok := c.take(kwlex.KindSemicolon); !ok {
		return OpIdk, "", false
	}
	return OpExsr, name.Text(), true
}

func parseBegsr(c *opCursor) (OpKind, string, bool) {
	c.skipWhitespace()
	if _, ok := c.take(kwlex.KindBegsr); !ok {
		return OpIdk, "", false
	}
	if c.skipWhitespace() == 0 {
		return OpIdk, "", false
	}
	name, ok := c.take(kwlex.KindIdentifier)
	if !ok {
		return OpIdk, "", false
	}
	if _, ok := c.take(kwlex.KindSemicolon); !ok {
		return OpIdk, "", false
	}
	return OpBegsr, name.Text(), true
}

func parseEndsr(c *opCursor) (OpKind, string, bool) {
	c.skipWhitespace()
	if _, ok := c.take(kwlex.KindEndsr); !ok {
		return OpIdk, "", false
	}
	if _, ok := c.take(kwlex.KindSemicolon); !ok {
		return OpIdk, "", false
	}
	return OpEndsr, "", true
}

func parseCallp(c *opCursor) (OpKind, string, bool) {
	c.skipWhitespace()
	name, ok := c.take(kwlex.KindIdentifier)
	if !ok {
		return OpIdk, "", false
	}
	c.skipWhitespace()
	if _, ok := c.take(kwlex.KindLParen); !ok {
		return OpIdk, "", false
	}
	for {
		t, ok := c.peek()
		if !ok {
			return OpIdk, "", false
		}
		if t.Kind == kwlex.KindRParen {
			break
		}
		c.idx++
	}
	if _, ok := c.take(kwlex.KindRParen); !ok {
		return OpIdk, "", false
	}
	if _, ok := c.take(kwlex.KindSemicolon); !ok {
		return OpIdk, "", false
	}
	return OpCallp, name.Text(), true
}

// recognizeTraditional dispatches on the operation column of a fixed-form
// C-spec.
func recognizeTraditional(line CTraditionalLine) Op {
	if line.Operation.Ok == nil {
		return Op{Kind: OpIdk, Metas: []meta.Meta{line.Operation.Unknown.Meta}, Reason: "unrecognised operation field"}
	}
	op := *line.Operation.Ok
	switch strings.ToUpper(op.Value) {
	case "BEGSR":
		return tradNamed(OpBegsr, line)
	case "EXSR":
		return tradNamed(OpExsr, line)
	case "ENDSR":
		return Op{Kind: OpEndsr, Metas: []meta.Meta{op.Meta}}
	default:
		return Op{Kind: OpIdk, Metas: []meta.Meta{op.Meta}, Reason: "operation not tracked"}
	}
}

func tradNamed(kind OpKind, line CTraditionalLine) Op {
	if line.Factor1.Ok == nil {
		return Op{Kind: OpIdk, Metas: []meta.Meta{line.Factor1.Unknown.Meta}, Reason: "unrecognised factor 1"}
	}
	f1 := *line.Factor1.Ok
	return Op{Kind: kind, Name: f1.Value, Metas: []meta.Meta{f1.Meta}}
}

// recognizeExtF2 handles the extended-factor-2 forms. CALLP names the
// called program in factor 2; the other extended operations are control
// flow the core does not track.
func recognizeExtF2(line CExtF2Line, tokens []kwlex.Token) Op {
	if line.Operation.Ok == nil {
		return Op{Kind: OpIdk, Metas: opMetas(tokens), Reason: "unrecognised operation field"}
	}
	op := *line.Operation.Ok
	if strings.ToUpper(op.Value) == "CALLP" {
		for _, t := range tokens {
			if t.Kind == kwlex.KindIdentifier {
				return Op{Kind: OpCallp, Name: t.Text(), Metas: opMetas(tokens)}
			}
		}
	}
	return Op{Kind: OpIdk, Metas: opMetas(tokens), Reason: "operation not tracked"}
}
