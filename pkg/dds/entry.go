package dds

import (
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/field"
	"github.com/midrangehq/go-fixedform/pkg/kwlex"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// EntryKind tags an assembled entry.
type EntryKind string

const (
	EntryFileEntry    EntryKind = "FileEntry"
	EntryRecordFormat EntryKind = "RecordFormat"
	EntryField        EntryKind = "Field"
	EntryKeyfield     EntryKind = "Keyfield"
)

// Entry is one logical record: a head line plus its continuations, with
// the combined keyword area tokenized.
type Entry interface {
	Kind() EntryKind
	Span() meta.Span
	Highlight() []meta.Highlight
}

// KeywordsField is the tokenized keyword area of an assembled entry.
type KeywordsField struct {
	Tokens []kwlex.Token `yaml:"tokens"`
}

func (f KeywordsField) Span() meta.Span {
	spans := make([]meta.Span, 0, len(f.Tokens))
	for _, t := range f.Tokens {
		spans = append(spans, t.Span())
	}
	return meta.CoverAll(spans)
}

func (f KeywordsField) Render() string {
	var sb strings.Builder
	for _, t := range f.Tokens {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

func (f KeywordsField) Highlight() []meta.Highlight {
	var out []meta.Highlight
	for _, t := range f.Tokens {
		out = append(out, t.Highlight()...)
	}
	return out
}

// FileEntry is the file-level keyword block that precedes the first
// record format.
type FileEntry struct {
	Keywords KeywordsField `yaml:"keywords"`
}

func (e FileEntry) Kind() EntryKind             { return EntryFileEntry }
func (e FileEntry) Span() meta.Span             { return e.Keywords.Span() }
func (e FileEntry) Highlight() []meta.Highlight { return e.Keywords.Highlight() }

// NamedEntry carries the positional fields moved off a named head line.
type NamedEntry struct {
	Sequence         field.Result[SequenceField]         `yaml:"sequence"`
	FormType         field.Result[FormtypeField]         `yaml:"form_type"`
	Comment          field.Result[IgnoredField]          `yaml:"comment"`
	Condition        field.Result[IgnoredField]          `yaml:"condition"`
	NameType         field.Result[NametypeField]         `yaml:"name_type"`
	Reserved         field.Result[IgnoredField]          `yaml:"reserved"`
	Name             field.Result[NameField]             `yaml:"name"`
	Reference        field.Result[ReferenceField]        `yaml:"reference"`
	Length           field.Result[LengthField]           `yaml:"length"`
	DataType         field.Result[DatatypeField]         `yaml:"data_type"`
	DecimalPositions field.Result[DecimalPositionsField] `yaml:"decimal_positions"`
	Usage            field.Result[UsageField]            `yaml:"usage"`
	Location         field.Result[IgnoredField]          `yaml:"location"`
	Keywords         KeywordsField                       `yaml:"keywords"`
}

func (e NamedEntry) Span() meta.Span {
	return meta.Cover(e.Sequence.Span(), meta.Cover(e.Location.Span(), e.Keywords.Span()))
}

func (e NamedEntry) Highlight() []meta.Highlight {
	var out []meta.Highlight
	out = append(out, highlightAll(e.Sequence, e.FormType, e.Comment, e.Condition,
		e.NameType, e.Reserved, e.Name, e.Reference, e.Length, e.DataType,
		e.DecimalPositions, e.Usage, e.Location)...)
	return append(out, e.Keywords.Highlight()...)
}

func newNamedEntry(line NamedLine, tokens []kwlex.Token) NamedEntry {
	return NamedEntry{
		Sequence:         line.Sequence,
		FormType:         line.FormType,
		Comment:          line.Comment,
		Condition:        line.Condition,
		NameType:         line.NameType,
		Reserved:         line.Reserved,
		Name:             line.Name,
		Reference:        line.Reference,
		Length:           line.Length,
		DataType:         line.DataType,
		DecimalPositions: line.DecimalPositions,
		Usage:            line.Usage,
		Location:         line.Location,
		Keywords:         KeywordsField{Tokens: tokens},
	}
}

// RecordFormat names a record format and owns its keyword tokens.
type RecordFormat struct {
	NamedEntry `yaml:",inline"`
}

func (e RecordFormat) Kind() EntryKind { return EntryRecordFormat }

// Field defines one field of the current record format.
type Field struct {
	NamedEntry `yaml:",inline"`
}

func (e Field) Kind() EntryKind { return EntryField }

// Keyfield references a field as part of the key.
type Keyfield struct {
	NamedEntry `yaml:",inline"`
}

func (e Keyfield) Kind() EntryKind { return EntryKeyfield }

// AST is the assembled view of a DDS CST.
type AST struct {
	Entries []Entry `yaml:"entries"`
}

// Diagnostic records a non-fatal structural irregularity found while
// assembling entries.
type Diagnostic struct {
	Span    meta.Span `yaml:"span"`
	Message string    `yaml:"message"`
}

func keywordChars(kw field.Result[RawKeywordsField]) []meta.MetaChar {
	if kw.Ok == nil {
		return nil
	}
	return meta.Chars(kw.Ok.Meta.Span.Start, kw.Ok.Meta.Text)
}

// ParseAST folds the line sequence into entries. The assembler starts in
// the file-entry phase, where leading continuations form the FileEntry;
// the first record format switches to the main phase, where an isolated
// continuation is a structural irregularity reported as a diagnostic and
// skipped.
func ParseAST(cst *CST) (*AST, []Diagnostic) {
	var lines []DDSLine
	for _, line := range cst.Lines {
		switch line.Kind() {
		case LineComment, LineIdk:
			continue
		default:
			lines = append(lines, line)
		}
	}

	var entries []Entry
	var diags []Diagnostic
	fileEntryPhase := true

	takeConts := func(i int) ([]*ContinuationLine, int) {
		var conts []*ContinuationLine
		for i+1 < len(lines) {
			cont, ok := lines[i+1].(ContinuationLine)
			if !ok {
				break
			}
			conts = append(conts, &cont)
			i++
		}
		return conts, i
	}

	tokenizeEntry := func(head NamedLine, conts []*ContinuationLine, v kwlex.Variant) []kwlex.Token {
		chars := keywordChars(head.Keywords)
		for _, c := range conts {
			chars = append(chars, keywordChars(c.Keywords)...)
		}
		return kwlex.Tokenize(chars, v)
	}

	for i := 0; i < len(lines); i++ {
		switch line := lines[i].(type) {
		case RecordFormatLine:
			fileEntryPhase = false
			conts, next := takeConts(i)
			i = next
			entries = append(entries, RecordFormat{newNamedEntry(line.NamedLine, tokenizeEntry(line.NamedLine, conts, kwlex.VariantDDSRecordFormat))})
		case FieldLine:
			fileEntryPhase = false
			conts, next := takeConts(i)
			i = next
			entries = append(entries, Field{newNamedEntry(line.NamedLine, tokenizeEntry(line.NamedLine, conts, kwlex.VariantDDSField))})
		case KeyLine:
			fileEntryPhase = false
			conts, next := takeConts(i)
			i = next
			entries = append(entries, Keyfield{newNamedEntry(line.NamedLine, tokenizeEntry(line.NamedLine, conts, kwlex.VariantDDSKeyfield))})
		case ContinuationLine:
			if !fileEntryPhase {
				diags = append(diags, Diagnostic{
					Span:    line.Span(),
					Message: "continuation line with no preceding entry",
				})
				continue
			}
			chars := keywordChars(line.Keywords)
			conts, next := takeConts(i)
			i = next
			for _, c := range conts {
				chars = append(chars, keywordChars(c.Keywords)...)
			}
			entries = append(entries, FileEntry{Keywords: KeywordsField{Tokens: kwlex.Tokenize(chars, kwlex.VariantDDSFileEntry)}})
		}
	}
	return &AST{Entries: entries}, diags
}

// Highlight walks every entry and returns the flat highlight stream.
func (a *AST) Highlight() []meta.Highlight {
	var out []meta.Highlight
	for _, e := range a.Entries {
		out = append(out, e.Highlight()...)
	}
	return out
}

// QueryDefinition locates the Name field span of the first Field entry
// matching pattern, case-insensitively.
func (a *AST) QueryDefinition(pattern string) (meta.Span, bool) {
	upper := strings.ToUpper(strings.TrimSpace(pattern))
	for _, e := range a.Entries {
		f, ok := e.(Field)
		if !ok || f.Name.Ok == nil {
			continue
		}
		if f.Name.Ok.Value != "" && strings.ToUpper(f.Name.Ok.Value) == upper {
			return f.Name.Ok.Meta.Span, true
		}
	}
	return meta.Span{}, false
}
