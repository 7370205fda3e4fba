// Package kwlex is the free-form keyword sub-tokenizer. It scans the
// keyword and extended factor-2 areas of RPGLE specs and the keyword
// areas of DDS entries, consuming position-tagged characters so every
// token knows the exact source cells it absorbed — including tokens that
// straddle a continuation-line boundary, which carry one Meta per row.
//
// A single scanner serves every context; the contexts differ only in the
// Variant they pass, which fixes the set of admissible token kinds. An
// inadmissible kind keeps its boundaries and collapses to KindUnknown
// (or a coarser admitted kind where one exists, e.g. a figurative
// constant degrades to an indicator in the file-keyword context).
package kwlex

import (
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// TokenKind names one member of the closed token-kind set.
type TokenKind string

const (
	KindUnknown            TokenKind = "Unknown"
	KindWhitespace         TokenKind = "Whitespace"
	KindNumber             TokenKind = "Number"
	KindLParen             TokenKind = "LParen"
	KindRParen             TokenKind = "RParen"
	KindColon              TokenKind = "Colon"
	KindSemicolon          TokenKind = "Semicolon"
	KindEquals             TokenKind = "Equals"
	KindLessThan           TokenKind = "LessThan"
	KindLessOrEqual        TokenKind = "LessOrEqual"
	KindGreaterThan        TokenKind = "GreaterThan"
	KindGreaterOrEqual     TokenKind = "GreaterOrEqual"
	KindNotEqual           TokenKind = "NotEqual"
	KindPlus               TokenKind = "Plus"
	KindPlusEquals         TokenKind = "PlusEquals"
	KindMinus              TokenKind = "Minus"
	KindMinusEquals        TokenKind = "MinusEquals"
	KindAsterisk           TokenKind = "Asterisk"
	KindAsteriskEquals     TokenKind = "AsteriskEquals"
	KindSlash              TokenKind = "Slash"
	KindSlashEquals        TokenKind = "SlashEquals"
	KindLineComment        TokenKind = "LineComment"
	KindIdentifier         TokenKind = "Identifier"
	KindStringLiteral      TokenKind = "StringLiteral"
	KindIndicator          TokenKind = "Indicator"
	KindIndicatorValue     TokenKind = "IndicatorValue"
	KindFigurativeConstant TokenKind = "FigurativeConstant"
	KindBuiltin            TokenKind = "Builtin"
)

// Opcode kinds. An identifier whose upper-case text matches an opcode
// name is promoted to that opcode's kind in contexts that admit opcodes.
const (
	KindSetLL  TokenKind = "SetLL"
	KindSetGT  TokenKind = "SetGT"
	KindChain  TokenKind = "Chain"
	KindRead   TokenKind = "Read"
	KindReadE  TokenKind = "ReadE"
	KindReadPE TokenKind = "ReadPE"
	KindWrite  TokenKind = "Write"
	KindUpdate TokenKind = "Update"
	KindDelete TokenKind = "Delete"
	KindIf     TokenKind = "If"
	KindOr     TokenKind = "Or"
	KindAnd    TokenKind = "And"
	KindElse   TokenKind = "Else"
	KindElseif TokenKind = "Elseif"
	KindEndif  TokenKind = "Endif"
	KindDou    TokenKind = "Dou"
	KindDow    TokenKind = "Dow"
	KindEnddo  TokenKind = "Enddo"
	KindIter   TokenKind = "Iter"
	KindLeave  TokenKind = "Leave"
	KindReset  TokenKind = "Reset"
	KindEval   TokenKind = "Eval"
	KindClear  TokenKind = "Clear"
	KindBegsr  TokenKind = "Begsr"
	KindEndsr  TokenKind = "Endsr"
	KindExsr   TokenKind = "Exsr"
)

var opcodes = map[string]TokenKind{
	"SETLL":  KindSetLL,
	"SETGT":  KindSetGT,
	"CHAIN":  KindChain,
	"READ":   KindRead,
	"READE":  KindReadE,
	"READPE": KindReadPE,
	"WRITE":  KindWrite,
	"UPDATE": KindUpdate,
	"DELETE": KindDelete,
	"IF":     KindIf,
	"OR":     KindOr,
	"AND":    KindAnd,
	"ELSE":   KindElse,
	"ELSEIF": KindElseif,
	"ENDIF":  KindEndif,
	"DOU":    KindDou,
	"DOW":    KindDow,
	"ENDDO":  KindEnddo,
	"ITER":   KindIter,
	"LEAVE":  KindLeave,
	"RESET":  KindReset,
	"EVAL":   KindEval,
	"CLEAR":  KindClear,
	"BEGSR":  KindBegsr,
	"ENDSR":  KindEndsr,
	"EXSR":   KindExsr,
}

// IsOpcode reports whether k is a member of the opcode sub-family.
func IsOpcode(k TokenKind) bool {
	for _, v := range opcodes {
		if v == k {
			return true
		}
	}
	return false
}

// Token is one lexeme with one Meta per source row it spans. The logical
// text is the concatenation of the per-row texts.
type Token struct {
	Kind  TokenKind   `yaml:"kind"`
	Metas []meta.Meta `yaml:"metas"`
}

// Text returns the token's logical text across rows.
func (t Token) Text() string {
	var sb strings.Builder
	for _, m := range t.Metas {
		sb.WriteString(m.Text)
	}
	return sb.String()
}

// Span returns the cover of the token's per-row spans.
func (t Token) Span() meta.Span {
	spans := make([]meta.Span, len(t.Metas))
	for i, m := range t.Metas {
		spans[i] = m.Span
	}
	return meta.CoverAll(spans)
}

// Highlight maps the token to its group, one entry per row so emitted
// spans never cross a line boundary.
func (t Token) Highlight() []meta.Highlight {
	group := hlGroup(t.Kind)
	out := make([]meta.Highlight, len(t.Metas))
	for i, m := range t.Metas {
		out[i] = meta.Highlight{Span: m.Span, Group: group}
	}
	return out
}

func hlGroup(k TokenKind) string {
	switch k {
	case KindNumber:
		return meta.HlNumber
	case KindLineComment:
		return meta.HlComment
	case KindIdentifier:
		return meta.HlIdentifier
	case KindStringLiteral:
		return meta.HlString
	case KindIndicator:
		return meta.HlVariableBuiltin
	case KindIndicatorValue:
		return meta.HlBoolean
	case KindFigurativeConstant:
		return meta.HlConstantBuiltin
	case KindBuiltin:
		return meta.HlFunctionBuiltin
	case KindUnknown:
		return meta.HlError
	}
	if IsOpcode(k) {
		return meta.HlFunctionBuiltin
	}
	return meta.HlNormal
}

// Variant fixes which kinds a scanning context admits, and how the
// inadmissible ones degrade.
type Variant struct {
	Name   string
	admit  map[TokenKind]bool
	demote map[TokenKind]TokenKind
}

func (v Variant) resolve(k TokenKind) TokenKind {
	if v.admit == nil || v.admit[k] {
		return k
	}
	if d, ok := v.demote[k]; ok {
		return d
	}
	return KindUnknown
}

var keywordBase = map[TokenKind]bool{
	KindUnknown:    true,
	KindWhitespace: true,
	KindIdentifier: true,
	KindLParen:     true,
	KindRParen:     true,
	KindIndicator:  true,
	KindColon:      true,
}

func withKinds(base map[TokenKind]bool, extra ...TokenKind) map[TokenKind]bool {
	out := make(map[TokenKind]bool, len(base)+len(extra))
	for k := range base {
		out[k] = true
	}
	for _, k := range extra {
		out[k] = true
	}
	return out
}

// demoteKeyword folds the full scan's finer kinds onto the keyword
// contexts' coarser vocabulary.
func demoteKeyword() map[TokenKind]TokenKind {
	d := map[TokenKind]TokenKind{
		KindNumber:             KindIdentifier,
		KindIndicatorValue:     KindIndicator,
		KindFigurativeConstant: KindIndicator,
	}
	for _, op := range opcodes {
		d[op] = KindIdentifier
	}
	return d
}

// The scanning contexts.
var (
	// FreeC and ExtF2 admit the full set.
	VariantFreeC = Variant{Name: "free"}
	VariantExtF2 = Variant{Name: "extf2"}

	// RPGLE keyword areas.
	VariantHKeywords = Variant{Name: "h-keywords", admit: withKinds(keywordBase), demote: demoteKeyword()}
	VariantFKeywords = Variant{Name: "f-keywords", admit: withKinds(keywordBase), demote: demoteKeyword()}
	VariantDKeywords = Variant{Name: "d-keywords", admit: withKinds(keywordBase, KindStringLiteral), demote: demoteKeyword()}

	// DDS keyword areas.
	VariantDDSRecordFormat = Variant{Name: "dds-recordformat", admit: withKinds(keywordBase, KindStringLiteral), demote: demoteKeyword()}
	VariantDDSFileEntry    = Variant{Name: "dds-fileentry", admit: withKinds(keywordBase, KindStringLiteral), demote: demoteKeyword()}
	VariantDDSKeyfield     = Variant{Name: "dds-keyfield", admit: withKinds(keywordBase, KindStringLiteral), demote: demoteKeyword()}
	VariantDDSField        = Variant{Name: "dds-field", admit: withKinds(keywordBase, KindStringLiteral, KindPlus, KindMinus, KindSlash), demote: demoteKeyword()}
)

func isIdentChar(r rune) bool {
	return r == '@' || r == '$' || r == '#' || r == '-' ||
		(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpaceOrTab(r rune) bool { return r == ' ' || r == '\t' }

// scanner holds the per-scan cursor. Its lifetime never escapes a single
// Tokenize call.
type scanner struct {
	input []meta.MetaChar
	idx   int
}

func (s *scanner) eof() bool { return s.idx >= len(s.input) }

func (s *scanner) ch() rune { return s.input[s.idx].Value }

func (s *scanner) peek(n int) (rune, bool) {
	if s.idx+n >= len(s.input) {
		return 0, false
	}
	return s.input[s.idx+n].Value, true
}

func (s *scanner) hasAhead(r rune) bool {
	for i := s.idx + 1; i < len(s.input); i++ {
		if s.input[i].Value == r {
			return true
		}
	}
	return false
}

func (s *scanner) read() meta.MetaChar {
	mc := s.input[s.idx]
	s.idx++
	return mc
}

func (s *scanner) readWhile(pred func(rune) bool) []meta.MetaChar {
	var out []meta.MetaChar
	for !s.eof() && pred(s.ch()) {
		out = append(out, s.read())
	}
	return out
}

func (s *scanner) readAll() []meta.MetaChar {
	out := s.input[s.idx:]
	s.idx = len(s.input)
	return out
}

// readStringLiteral consumes the opening quote, the body, and the closing
// quote. The caller must have verified a closing quote exists.
func (s *scanner) readStringLiteral() []meta.MetaChar {
	out := []meta.MetaChar{s.read()}
	for s.ch() != '\'' {
		out = append(out, s.read())
	}
	out = append(out, s.read())
	return out
}

func (s *scanner) next() (TokenKind, []meta.MetaChar) {
	switch ch := s.ch(); {
	case isSpaceOrTab(ch):
		return KindWhitespace, s.readWhile(isSpaceOrTab)
	case ch == '(':
		return KindLParen, []meta.MetaChar{s.read()}
	case ch == ')':
		return KindRParen, []meta.MetaChar{s.read()}
	case ch == ':':
		return KindColon, []meta.MetaChar{s.read()}
	case ch == ';':
		return KindSemicolon, []meta.MetaChar{s.read()}
	case ch == '\'':
		if s.hasAhead('\'') {
			return KindStringLiteral, s.readStringLiteral()
		}
		return KindUnknown, s.readAll()
	case ch == '=':
		return KindEquals, []meta.MetaChar{s.read()}
	case ch == '<':
		if p, ok := s.peek(1); ok && p == '=' {
			return KindLessOrEqual, []meta.MetaChar{s.read(), s.read()}
		} else if ok && p == '>' {
			return KindNotEqual, []meta.MetaChar{s.read(), s.read()}
		}
		return KindLessThan, []meta.MetaChar{s.read()}
	case ch == '>':
		if p, ok := s.peek(1); ok && p == '=' {
			return KindGreaterOrEqual, []meta.MetaChar{s.read(), s.read()}
		}
		return KindGreaterThan, []meta.MetaChar{s.read()}
	case ch == '+':
		if p, ok := s.peek(1); ok && p == '=' {
			return KindPlusEquals, []meta.MetaChar{s.read(), s.read()}
		}
		return KindPlus, []meta.MetaChar{s.read()}
	case ch == '-':
		if p, ok := s.peek(1); ok && p == '=' {
			return KindMinusEquals, []meta.MetaChar{s.read(), s.read()}
		}
		return KindMinus, []meta.MetaChar{s.read()}
	case ch == '/':
		if p, ok := s.peek(1); ok && p == '=' {
			return KindSlashEquals, []meta.MetaChar{s.read(), s.read()}
		} else if ok && p == '/' {
			out := []meta.MetaChar{s.read(), s.read()}
			return KindLineComment, append(out, s.readAll()...)
		}
		return KindSlash, []meta.MetaChar{s.read()}
	case ch == '*':
		if p, ok := s.peek(1); ok && p == '=' {
			return KindAsteriskEquals, []meta.MetaChar{s.read(), s.read()}
		} else if ok && isIdentChar(p) && !isDigit(p) {
			out := []meta.MetaChar{s.read()}
			lit := s.readWhile(isIdentChar)
			out = append(out, lit...)
			return starKind(textOf(lit)), out
		}
		return KindAsterisk, []meta.MetaChar{s.read()}
	case ch == '%':
		if p, ok := s.peek(1); ok && isIdentChar(p) {
			out := []meta.MetaChar{s.read()}
			return KindBuiltin, append(out, s.readWhile(isIdentChar)...)
		}
		return KindUnknown, s.readAll()
	case isDigit(ch):
		return KindNumber, s.readWhile(isDigit)
	case isIdentChar(ch):
		chars := s.readWhile(isIdentChar)
		if op, ok := opcodes[strings.ToUpper(textOf(chars))]; ok {
			return op, chars
		}
		return KindIdentifier, chars
	default:
		return KindUnknown, s.readAll()
	}
}

func starKind(ident string) TokenKind {
	switch upper := strings.ToUpper(ident); upper {
	case "ON", "OFF":
		return KindIndicatorValue
	case "BLANK", "BLANKS", "ZERO", "ZEROS", "HIVAL", "LOVAL", "NULL":
		return KindFigurativeConstant
	default:
		if strings.HasPrefix(upper, "ALL") {
			return KindFigurativeConstant
		}
		return KindIndicator
	}
}

func textOf(chars []meta.MetaChar) string {
	rs := make([]rune, len(chars))
	for i, mc := range chars {
		rs[i] = mc.Value
	}
	return string(rs)
}

// Tokenize scans the tagged characters into tokens covering every input
// character, in source order.
func Tokenize(input []meta.MetaChar, v Variant) []Token {
	s := &scanner{input: input}
	var out []Token
	for !s.eof() {
		kind, chars := s.next()
		out = append(out, Token{Kind: v.resolve(kind), Metas: meta.Cut(chars)})
	}
	return out
}
