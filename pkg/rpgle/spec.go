package rpgle

import (
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/field"
	"github.com/midrangehq/go-fixedform/pkg/kwlex"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// SpecKind tags an assembled spec.
type SpecKind string

const (
	SpecH SpecKind = "H"
	SpecF SpecKind = "F"
	SpecD SpecKind = "D"
	SpecC SpecKind = "C"
)

// Spec is one logical record: a primary line plus any continuations,
// with its keyword area tokenized across the line boundaries.
type Spec interface {
	Kind() SpecKind
	Span() meta.Span
	Highlight() []meta.Highlight
}

// KeywordsField is the tokenized keyword area of an assembled spec.
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

// CodeField is the recognised operation of a C-spec plus the tokens it
// was recognised from.
type CodeField struct {
	Op     Op            `yaml:"op"`
	Tokens []kwlex.Token `yaml:"tokens"`
}

func (f CodeField) Span() meta.Span { return f.Op.Span() }
func (f CodeField) Render() string {
	var sb strings.Builder
	for _, t := range f.Tokens {
		sb.WriteString(t.Text())
	}
	return sb.String()
}
func (f CodeField) Highlight() []meta.Highlight {
	var out []meta.Highlight
	for _, t := range f.Tokens {
		out = append(out, t.Highlight()...)
	}
	return out
}

// HSpec is a control spec. H-specs take no continuations here.
type HSpec struct {
	Sequence field.Result[SequenceField] `yaml:"sequence"`
	FormType field.Result[FormtypeField] `yaml:"form_type"`
	Keywords KeywordsField               `yaml:"keywords"`
}

func (s HSpec) Kind() SpecKind { return SpecH }
func (s HSpec) Span() meta.Span {
	return meta.Cover(s.Sequence.Span(), s.Keywords.Span())
}
func (s HSpec) Highlight() []meta.Highlight {
	return highlightAll(s.Sequence, s.FormType, s.Keywords)
}

// FSpec is a file-description spec with its continuations folded in.
type FSpec struct {
	Sequence          field.Result[SequenceField]          `yaml:"sequence"`
	FormType          field.Result[FormtypeField]          `yaml:"form_type"`
	Name              field.Result[NameField]              `yaml:"name"`
	Filetype          field.Result[FiletypeField]          `yaml:"filetype"`
	FileDesignation   field.Result[FileDesignationField]   `yaml:"file_designation"`
	Endfile           field.Result[EndfileField]           `yaml:"endfile"`
	FileAddition      field.Result[FileAdditionField]      `yaml:"file_addition"`
	FileSequence      field.Result[FileSequenceField]      `yaml:"file_sequence"`
	FileFormat        field.Result[FileFormatField]        `yaml:"file_format"`
	RecordLength      field.Result[RecordLengthField]      `yaml:"record_length"`
	LimitsProcessing  field.Result[LimitsProcessingField]  `yaml:"limits_processing"`
	KeyLength         field.Result[KeyLengthField]         `yaml:"keylength"`
	RecordAddressType field.Result[RecordAddressTypeField] `yaml:"record_address_type"`
	FileOrganization  field.Result[FileOrganizationField]  `yaml:"file_organization"`
	Device            field.Result[DeviceField]            `yaml:"device"`
	Reserved          field.Result[IgnoredField]           `yaml:"reserved"`
	Keywords          KeywordsField                        `yaml:"keywords"`
}

func (s FSpec) Kind() SpecKind { return SpecF }
func (s FSpec) Span() meta.Span {
	return meta.Cover(s.Sequence.Span(), s.Keywords.Span())
}
func (s FSpec) Highlight() []meta.Highlight {
	return highlightAll(s.Sequence, s.FormType, s.Name, s.Filetype, s.FileDesignation,
		s.Endfile, s.FileAddition, s.FileSequence, s.FileFormat, s.RecordLength,
		s.LimitsProcessing, s.KeyLength, s.RecordAddressType, s.FileOrganization,
		s.Device, s.Reserved, s.Keywords)
}

// DSpec is a definition spec with its continuations folded in.
type DSpec struct {
	Sequence            field.Result[SequenceField]            `yaml:"sequence"`
	FormType            field.Result[FormtypeField]            `yaml:"form_type"`
	Name                field.Result[NameField]                `yaml:"name"`
	ExternalDescription field.Result[ExternalDescriptionField] `yaml:"external_description"`
	DatastructureType   field.Result[DatastructureTypeField]   `yaml:"datastructure_type"`
	DefinitionType      field.Result[DefinitionTypeField]      `yaml:"definition_type"`
	FromPosition        field.Result[PositionField]            `yaml:"from_position"`
	ToLength            field.Result[PositionField]            `yaml:"to_length"`
	Datatype            field.Result[DatatypeField]            `yaml:"datatype"`
	Decimals            field.Result[DecimalsField]            `yaml:"decimals"`
	Reserved            field.Result[IgnoredField]             `yaml:"reserved"`
	Keywords            KeywordsField                          `yaml:"keywords"`
}

func (s DSpec) Kind() SpecKind { return SpecD }
func (s DSpec) Span() meta.Span {
	return meta.Cover(s.Sequence.Span(), s.Keywords.Span())
}
func (s DSpec) Highlight() []meta.Highlight {
	return highlightAll(s.Sequence, s.FormType, s.Name, s.ExternalDescription,
		s.DatastructureType, s.DefinitionType, s.FromPosition, s.ToLength,
		s.Datatype, s.Decimals, s.Reserved, s.Keywords)
}

// CSpec is a calculation spec reduced to its recognised operation.
type CSpec struct {
	Code CodeField `yaml:"code"`
}

func (s CSpec) Kind() SpecKind              { return SpecC }
func (s CSpec) Span() meta.Span             { return s.Code.Span() }
func (s CSpec) Highlight() []meta.Highlight { return s.Code.Highlight() }

// AST is the assembled view of a CST.
type AST struct {
	Specs []Spec `yaml:"specs"`
}

func keywordChars(kw field.Result[RawKeywordsField]) []meta.MetaChar {
	if kw.Ok == nil {
		return nil
	}
	return meta.Chars(kw.Ok.Meta.Span.Start, kw.Ok.Meta.Text)
}

// ParseAST folds the CST's line sequence into specs. Comment, compiler
// directive, and unknown lines are filtered here; they remain available
// on the CST.
func ParseAST(cst *CST) *AST {
	var lines []Srcline
	for _, line := range cst.Lines {
		switch line.Kind() {
		case LineComment, LineCompilerDirective, LineIdk:
			continue
		default:
			lines = append(lines, line)
		}
	}

	var specs []Spec
	for i := 0; i < len(lines); i++ {
		switch line := lines[i].(type) {
		case HLine:
			chars := keywordChars(line.Keywords)
			specs = append(specs, HSpec{
				Sequence: line.Sequence,
				FormType: line.FormType,
				Keywords: KeywordsField{Tokens: kwlex.Tokenize(chars, kwlex.VariantHKeywords)},
			})
		case FLine:
			chars := keywordChars(line.Keywords)
			for i+1 < len(lines) {
				cont, ok := lines[i+1].(FContLine)
				if !ok {
					break
				}
				chars = append(chars, keywordChars(cont.Keywords)...)
				i++
			}
			specs = append(specs, FSpec{
				Sequence:          line.Sequence,
				FormType:          line.FormType,
				Name:              line.Name,
				Filetype:          line.Filetype,
				FileDesignation:   line.FileDesignation,
				Endfile:           line.Endfile,
				FileAddition:      line.FileAddition,
				FileSequence:      line.FileSequence,
				FileFormat:        line.FileFormat,
				RecordLength:      line.RecordLength,
				LimitsProcessing:  line.LimitsProcessing,
				KeyLength:         line.KeyLength,
				RecordAddressType: line.RecordAddressType,
				FileOrganization:  line.FileOrganization,
				Device:            line.Device,
				Reserved:          line.Reserved,
				Keywords:          KeywordsField{Tokens: kwlex.Tokenize(chars, kwlex.VariantFKeywords)},
			})
		case DLine:
			chars := keywordChars(line.Keywords)
			for i+1 < len(lines) {
				cont, ok := lines[i+1].(DContLine)
				if !ok {
					break
				}
				chars = append(chars, keywordChars(cont.Keywords)...)
				i++
			}
			specs = append(specs, DSpec{
				Sequence:            line.Sequence,
				FormType:            line.FormType,
				Name:                line.Name,
				ExternalDescription: line.ExternalDescription,
				DatastructureType:   line.DatastructureType,
				DefinitionType:      line.DefinitionType,
				FromPosition:        line.FromPosition,
				ToLength:            line.ToLength,
				Datatype:            line.Datatype,
				Decimals:            line.Decimals,
				Reserved:            line.Reserved,
				Keywords:            KeywordsField{Tokens: kwlex.Tokenize(chars, kwlex.VariantDKeywords)},
			})
		case CFreeLine:
			var tokens []kwlex.Token
			if line.Code.Ok != nil {
				chars := meta.Chars(line.Code.Ok.Meta.Span.Start, line.Code.Ok.Meta.Text)
				tokens = kwlex.Tokenize(chars, kwlex.VariantFreeC)
			}
			specs = append(specs, CSpec{Code: CodeField{Op: recognizeFree(tokens), Tokens: tokens}})
		case CTraditionalLine:
			var tokens []kwlex.Token
			if line.Factor2.Ok != nil {
				chars := meta.Chars(line.Factor2.Ok.Meta.Span.Start, line.Factor2.Ok.Meta.Text)
				tokens = kwlex.Tokenize(chars, kwlex.VariantExtF2)
			}
			specs = append(specs, CSpec{Code: CodeField{Op: recognizeTraditional(line), Tokens: tokens}})
		case CExtF2Line:
			var tokens []kwlex.Token
			if line.Factor2.Ok != nil {
				chars := meta.Chars(line.Factor2.Ok.Meta.Span.Start, line.Factor2.Ok.Meta.Text)
				tokens = kwlex.Tokenize(chars, kwlex.VariantExtF2)
			}
			specs = append(specs, CSpec{Code: CodeField{Op: recognizeExtF2(line, tokens), Tokens: tokens}})
		case FContLine, DContLine:
			// An isolated continuation has nothing to attach to; skip it.
			continue
		}
	}
	return &AST{Specs: specs}
}

// Highlight walks every spec and returns the flat highlight stream.
func (a *AST) Highlight() []meta.Highlight {
	var out []meta.Highlight
	for _, s := range a.Specs {
		out = append(out, s.Highlight()...)
	}
	return out
}

// QueryDefinition locates the first definition of name, case-insensitively.
// Field definitions win over subroutine definitions, which win over raw
// keyword-text matches inside definition specs.
func (a *AST) QueryDefinition(pattern string) (meta.Span, bool) {
	upper := strings.ToUpper(strings.TrimSpace(pattern))

	for _, s := range a.Specs {
		d, ok := s.(DSpec)
		if !ok || d.Name.Ok == nil {
			continue
		}
		if d.Name.Ok.Value != "" && strings.ToUpper(d.Name.Ok.Value) == upper {
			return d.Name.Ok.Meta.Span, true
		}
	}
	for _, s := range a.Specs {
		c, ok := s.(CSpec)
		if !ok || c.Code.Op.Kind != OpBegsr {
			continue
		}
		if strings.ToUpper(strings.TrimSpace(c.Code.Op.Name)) == upper {
			return c.Code.Op.Span(), true
		}
	}
	for _, s := range a.Specs {
		d, ok := s.(DSpec)
		if !ok {
			continue
		}
		for _, t := range d.Keywords.Tokens {
			if strings.Contains(strings.ToUpper(t.Text()), upper) {
				return t.Span(), true
			}
		}
	}
	return meta.Span{}, false
}
