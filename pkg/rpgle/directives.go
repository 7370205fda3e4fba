package rpgle

import (
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/field"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// DirectiveKind names one compiler directive.
type DirectiveKind string

const (
	DirectiveIdk              DirectiveKind = "Idk"
	DirectiveTitle            DirectiveKind = "Title"
	DirectiveEject            DirectiveKind = "Eject"
	DirectiveSpace            DirectiveKind = "Space"
	DirectiveCopy             DirectiveKind = "Copy"
	DirectiveInclude          DirectiveKind = "Include"
	DirectiveSet              DirectiveKind = "Set"
	DirectiveRestore          DirectiveKind = "Restore"
	DirectiveOverloadDetail   DirectiveKind = "OverloadDetail"
	DirectiveOverloadNoDetail DirectiveKind = "OverloadNoDetail"
	DirectiveDefine           DirectiveKind = "Define"
	DirectiveUndefine         DirectiveKind = "Undefine"
	DirectiveIf               DirectiveKind = "If"
	DirectiveElseif           DirectiveKind = "Elseif"
	DirectiveElse             DirectiveKind = "Else"
	DirectiveEndif            DirectiveKind = "Endif"
	DirectiveEof              DirectiveKind = "Eof"
	DirectiveFree             DirectiveKind = "Free"
	DirectiveEndFree          DirectiveKind = "EndFree"
)

var directiveNames = map[string]DirectiveKind{
	"TITLE":            DirectiveTitle,
	"EJECT":            DirectiveEject,
	"SPACE":            DirectiveSpace,
	"COPY":             DirectiveCopy,
	"INCLUDE":          DirectiveInclude,
	"SET":              DirectiveSet,
	"RESTORE":          DirectiveRestore,
	"OVERLOADDETAIL":   DirectiveOverloadDetail,
	"OVERLOADNODETAIL": DirectiveOverloadNoDetail,
	"DEFINE":           DirectiveDefine,
	"UNDEFINE":         DirectiveUndefine,
	"IF":               DirectiveIf,
	"ELSEIF":           DirectiveElseif,
	"ELSE":             DirectiveElse,
	"ENDIF":            DirectiveEndif,
	"EOF":              DirectiveEof,
	"FREE":             DirectiveFree,
	"END-FREE":         DirectiveEndFree,
}

// DirectiveToken is one lexeme of a compiler-directive line.
type DirectiveToken struct {
	Kind DirectiveKind `yaml:"kind"`
	Meta meta.Meta     `yaml:"meta"`
}

func (t DirectiveToken) Span() meta.Span { return t.Meta.Span }
func (t DirectiveToken) Render() string  { return t.Meta.Text }
func (t DirectiveToken) Highlight() []meta.Highlight {
	group := meta.HlDirectiveDefine
	if t.Kind == DirectiveIdk {
		group = meta.HlNormal
	}
	return []meta.Highlight{{Span: t.Meta.Span, Group: group}}
}

// CompilerDirectiveField holds the tokenized directive area.
type CompilerDirectiveField struct {
	Tokens []DirectiveToken `yaml:"tokens"`
}

func (f CompilerDirectiveField) Span() meta.Span {
	spans := make([]meta.Span, len(f.Tokens))
	for i, t := range f.Tokens {
		spans[i] = t.Span()
	}
	return meta.CoverAll(spans)
}

func (f CompilerDirectiveField) Render() string {
	var sb strings.Builder
	for _, t := range f.Tokens {
		sb.WriteString(t.Render())
	}
	return sb.String()
}

func (f CompilerDirectiveField) Highlight() []meta.Highlight {
	var out []meta.Highlight
	for _, t := range f.Tokens {
		out = append(out, t.Highlight()...)
	}
	return out
}

func isDirectiveIdentChar(r rune) bool {
	return r == '@' || r == '$' || r == '#' || r == '-' ||
		(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// newCompilerDirectiveField tokenizes the area after the `/` marker. The
// directive name is read greedily; a recognised name leaves the remainder
// (spacing, operands) as a trailing Idk token so the line still renders
// byte-for-byte.
func newCompilerDirectiveField(start meta.Position, text string) field.Result[CompilerDirectiveField] {
	runes := []rune(text)
	var tokens []DirectiveToken
	if len(runes) >= 2 && runes[0] == '/' && isDirectiveIdentChar(runes[1]) {
		i := 1
		for i < len(runes) && isDirectiveIdentChar(runes[i]) {
			i++
		}
		name := strings.ToUpper(string(runes[1:i]))
		kind, ok := directiveNames[name]
		if !ok {
			kind = DirectiveIdk
			i = len(runes)
		}
		tokens = append(tokens, DirectiveToken{Kind: kind, Meta: meta.New(start, string(runes[:i]))})
		if i < len(runes) {
			tokens = append(tokens, DirectiveToken{
				Kind: DirectiveIdk,
				Meta: meta.New(start.Advance(i), string(runes[i:])),
			})
		}
	} else {
		tokens = append(tokens, DirectiveToken{Kind: DirectiveIdk, Meta: meta.New(start, text)})
	}
	return field.OkOf(CompilerDirectiveField{Tokens: tokens})
}
