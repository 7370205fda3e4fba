package rpgle

import (
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/field"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// LineKind tags the classified form of a source line.
type LineKind string

const (
	LineIdk               LineKind = "Idk"
	LineComment           LineKind = "Comment"
	LineCompilerDirective LineKind = "CompilerDirective"
	LineH                 LineKind = "H"
	LineF                 LineKind = "F"
	LineFCont             LineKind = "FCont"
	LineD                 LineKind = "D"
	LineDCont             LineKind = "DCont"
	LineCTraditional      LineKind = "CTraditional"
	LineCExtF2            LineKind = "CExtF2"
	LineCFree             LineKind = "CFree"
)

// Srcline is one classified line of the concrete syntax tree.
type Srcline interface {
	Kind() LineKind
	Render() string
	Span() meta.Span
	Highlight() []meta.Highlight
}

// cut slices a single field's text out of the padded line.
func cut(row int, chars []rune, start, width int) (meta.Position, string) {
	return meta.Pos(row, start), string(chars[start : start+width])
}

func renderAll(fields ...interface{ Render() string }) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(f.Render())
	}
	return sb.String()
}

func highlightAll(fields ...interface{ Highlight() []meta.Highlight }) []meta.Highlight {
	var out []meta.Highlight
	for _, f := range fields {
		out = append(out, f.Highlight()...)
	}
	return out
}

// IdkLine is the fallback: the whole line as one unknown field.
type IdkLine struct {
	Idk field.Result[IgnoredField] `yaml:"idk"`
}

func (l IdkLine) Kind() LineKind { return LineIdk }
func (l IdkLine) Render() string { return l.Idk.Render() }
func (l IdkLine) Span() meta.Span {
	return l.Idk.Span()
}
func (l IdkLine) Highlight() []meta.Highlight { return l.Idk.Highlight() }

// CommentLine: column 7 carries `*`.
type CommentLine struct {
	Sequence field.Result[SequenceField] `yaml:"sequence"`
	FormType field.Result[FormtypeField] `yaml:"form_type"`
	Comment  field.Result[CommentField]  `yaml:"comment"`
}

func (l CommentLine) Kind() LineKind { return LineComment }
func (l CommentLine) Render() string { return renderAll(l.Sequence, l.FormType, l.Comment) }
func (l CommentLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Comment.Span())
}
func (l CommentLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Comment)
}

// CompilerDirectiveLine: column 7 carries `/`.
type CompilerDirectiveLine struct {
	Sequence  field.Result[SequenceField]          `yaml:"sequence"`
	FormType  field.Result[FormtypeField]          `yaml:"form_type"`
	Directive field.Result[CompilerDirectiveField] `yaml:"directive"`
}

func (l CompilerDirectiveLine) Kind() LineKind { return LineCompilerDirective }
func (l CompilerDirectiveLine) Render() string {
	return renderAll(l.Sequence, l.FormType, l.Directive)
}
func (l CompilerDirectiveLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Directive.Span())
}
func (l CompilerDirectiveLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Directive)
}

// HLine is a control spec: everything after the form type is keywords.
type HLine struct {
	Sequence field.Result[SequenceField]    `yaml:"sequence"`
	FormType field.Result[FormtypeField]    `yaml:"form_type"`
	Keywords field.Result[RawKeywordsField] `yaml:"keywords"`
}

func (l HLine) Kind() LineKind { return LineH }
func (l HLine) Render() string { return renderAll(l.Sequence, l.FormType, l.Keywords) }
func (l HLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Keywords.Span())
}
func (l HLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Keywords)
}

// FLine is a primary file-description spec.
type FLine struct {
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
	Keywords          field.Result[RawKeywordsField]       `yaml:"keywords"`
}

func (l FLine) Kind() LineKind { return LineF }
func (l FLine) Render() string {
	return renderAll(l.Sequence, l.FormType, l.Name, l.Filetype, l.FileDesignation,
		l.Endfile, l.FileAddition, l.FileSequence, l.FileFormat, l.RecordLength,
		l.LimitsProcessing, l.KeyLength, l.RecordAddressType, l.FileOrganization,
		l.Device, l.Reserved, l.Keywords)
}
func (l FLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Keywords.Span())
}
func (l FLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Name, l.Filetype, l.FileDesignation,
		l.Endfile, l.FileAddition, l.FileSequence, l.FileFormat, l.RecordLength,
		l.LimitsProcessing, l.KeyLength, l.RecordAddressType, l.FileOrganization,
		l.Device, l.Reserved, l.Keywords)
}

// FContLine extends the previous F spec's keyword area.
type FContLine struct {
	Sequence field.Result[SequenceField]    `yaml:"sequence"`
	FormType field.Result[FormtypeField]    `yaml:"form_type"`
	Nothing  field.Result[IgnoredField]     `yaml:"nothing"`
	Keywords field.Result[RawKeywordsField] `yaml:"keywords"`
}

func (l FContLine) Kind() LineKind { return LineFCont }
func (l FContLine) Render() string {
	return renderAll(l.Sequence, l.FormType, l.Nothing, l.Keywords)
}
func (l FContLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Keywords.Span())
}
func (l FContLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Nothing, l.Keywords)
}

// DLine is a primary definition spec.
type DLine struct {
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
	Keywords            field.Result[RawKeywordsField]         `yaml:"keywords"`
}

func (l DLine) Kind() LineKind { return LineD }
func (l DLine) Render() string {
	return renderAll(l.Sequence, l.FormType, l.Name, l.ExternalDescription,
		l.DatastructureType, l.DefinitionType, l.FromPosition, l.ToLength,
		l.Datatype, l.Decimals, l.Reserved, l.Keywords)
}
func (l DLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Keywords.Span())
}
func (l DLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Name, l.ExternalDescription,
		l.DatastructureType, l.DefinitionType, l.FromPosition, l.ToLength,
		l.Datatype, l.Decimals, l.Reserved, l.Keywords)
}

// DContLine extends the previous D spec's keyword area.
type DContLine struct {
	Sequence field.Result[SequenceField]    `yaml:"sequence"`
	FormType field.Result[FormtypeField]    `yaml:"form_type"`
	Nothing  field.Result[IgnoredField]     `yaml:"nothing"`
	Keywords field.Result[RawKeywordsField] `yaml:"keywords"`
}

func (l DContLine) Kind() LineKind { return LineDCont }
func (l DContLine) Render() string {
	return renderAll(l.Sequence, l.FormType, l.Nothing, l.Keywords)
}
func (l DContLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Keywords.Span())
}
func (l DContLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Nothing, l.Keywords)
}

// CTraditionalLine is a fixed-form calculation spec. Factor 2 occupies
// columns 36-48 (1-based), narrower than IBM documents it; observed
// source agrees with the narrow range and round-tripping depends on it.
type CTraditionalLine struct {
	Nothing             field.Result[IgnoredField]      `yaml:"nothing"`
	FormType            field.Result[FormtypeField]     `yaml:"form_type"`
	ControlLevel        field.Result[ControlLevelField] `yaml:"control_level"`
	Indicators          field.Result[IndicatorsField]   `yaml:"indicators"`
	Factor1             field.Result[Factor1Field]      `yaml:"factor1"`
	Operation           field.Result[OperationField]    `yaml:"operation"`
	Factor2             field.Result[RawFactor2Field]   `yaml:"factor2"`
	Result              field.Result[ResultField]       `yaml:"result"`
	ResultLength        field.Result[ResultLengthField] `yaml:"result_length"`
	Decimals            field.Result[DecimalsField]     `yaml:"decimals"`
	ResultingIndicators field.Result[IndicatorsField]   `yaml:"resulting_indicators"`
	Comments            field.Result[CommentField]      `yaml:"comments"`
}

func (l CTraditionalLine) Kind() LineKind { return LineCTraditional }
func (l CTraditionalLine) Render() string {
	return renderAll(l.Nothing, l.FormType, l.ControlLevel, l.Indicators, l.Factor1,
		l.Operation, l.Factor2, l.Result, l.ResultLength, l.Decimals,
		l.ResultingIndicators, l.Comments)
}
func (l CTraditionalLine) Span() meta.Span {
	return meta.Cover(l.Nothing.Span(), l.Comments.Span())
}
func (l CTraditionalLine) Highlight() []meta.Highlight {
	return highlightAll(l.Nothing, l.FormType, l.ControlLevel, l.Indicators, l.Factor1,
		l.Operation, l.Factor2, l.Result, l.ResultLength, l.Decimals,
		l.ResultingIndicators, l.Comments)
}

// CExtF2Line widens factor 2 to the end of the line for the operations in
// the extended-factor-2 table.
type CExtF2Line struct {
	Nothing      field.Result[IgnoredField]      `yaml:"nothing"`
	FormType     field.Result[FormtypeField]     `yaml:"form_type"`
	ControlLevel field.Result[ControlLevelField] `yaml:"control_level"`
	Indicators   field.Result[IndicatorsField]   `yaml:"indicators"`
	Factor1      field.Result[Factor1Field]      `yaml:"factor1"`
	Operation    field.Result[OperationField]    `yaml:"operation"`
	Factor2      field.Result[RawFactor2Field]   `yaml:"factor2"`
}

func (l CExtF2Line) Kind() LineKind { return LineCExtF2 }
func (l CExtF2Line) Render() string {
	return renderAll(l.Nothing, l.FormType, l.ControlLevel, l.Indicators, l.Factor1,
		l.Operation, l.Factor2)
}
func (l CExtF2Line) Span() meta.Span {
	return meta.Cover(l.Nothing.Span(), l.Factor2.Span())
}
func (l CExtF2Line) Highlight() []meta.Highlight {
	return highlightAll(l.Nothing, l.FormType, l.ControlLevel, l.Indicators, l.Factor1,
		l.Operation, l.Factor2)
}

// CFreeLine is fully free-form code starting at column 8.
type CFreeLine struct {
	Nothing field.Result[IgnoredField] `yaml:"nothing"`
	Code    field.Result[RawCodeField] `yaml:"code"`
}

func (l CFreeLine) Kind() LineKind { return LineCFree }
func (l CFreeLine) Render() string { return renderAll(l.Nothing, l.Code) }
func (l CFreeLine) Span() meta.Span {
	return meta.Cover(l.Nothing.Span(), l.Code.Span())
}
func (l CFreeLine) Highlight() []meta.Highlight {
	return highlightAll(l.Nothing, l.Code)
}

// extFactor2Ops is the closed set of operations whose factor 2 extends to
// the end of the line.
var extFactor2Ops = map[string]bool{
	"IF": true, "OR": true, "AND": true, "DOU": true, "DOW": true,
	"ELSEIF": true, "EVAL": true, "EVALR": true, "WHEN": true,
	"RETURN": true, "CALLP": true,
}

func hasExtF2Op(chars []rune) bool {
	op := strings.ToUpper(strings.TrimSpace(string(chars[25:35])))
	return extFactor2Ops[op]
}

func allBlank(chars []rune) bool {
	for _, r := range chars {
		if r != ' ' {
			return false
		}
	}
	return true
}

// classify assigns exactly one tag to a padded 100-column line. Guard
// order matters: comment before directive before form-type dispatch, and
// a primary F/D line is distinguished from its continuation solely by
// columns 7-42 being uniformly blank.
func classify(row int, chars []rune) Srcline {
	switch {
	case chars[6] == '*':
		return classifyComment(row, chars)
	case chars[6] == '/':
		return classifyDirective(row, chars)
	case chars[5] == 'H':
		return classifyH(row, chars)
	case chars[5] == 'F' && !allBlank(chars[6:42]):
		return classifyF(row, chars)
	case chars[5] == 'F':
		return classifyFCont(row, chars)
	case chars[5] == 'D' && !allBlank(chars[6:42]):
		return classifyD(row, chars)
	case chars[5] == 'D':
		return classifyDCont(row, chars)
	case chars[5] == 'C' && hasExtF2Op(chars):
		return classifyCExtF2(row, chars)
	case chars[5] == 'C':
		return classifyCTraditional(row, chars)
	case chars[5] == ' ' && chars[6] == ' ' && !allBlank(chars):
		return classifyCFree(row, chars)
	default:
		p, text := cut(row, chars, 0, len(chars))
		return IdkLine{Idk: field.Idk[IgnoredField](field.NewUnknown(p, text, field.ReasonIncompletePositionalEntry))}
	}
}

func classifyComment(row int, chars []rune) Srcline {
	return CommentLine{
		Sequence: newSequenceField(cut(row, chars, 0, 5)),
		FormType: newFormtypeField(cut(row, chars, 5, 1)),
		Comment:  newCommentField(cut(row, chars, 6, 94)),
	}
}

func classifyDirective(row int, chars []rune) Srcline {
	return CompilerDirectiveLine{
		Sequence:  newSequenceField(cut(row, chars, 0, 5)),
		FormType:  newFormtypeField(cut(row, chars, 5, 1)),
		Directive: newCompilerDirectiveField(cut(row, chars, 6, 94)),
	}
}

func classifyH(row int, chars []rune) Srcline {
	return HLine{
		Sequence: newSequenceField(cut(row, chars, 0, 5)),
		FormType: newFormtypeField(cut(row, chars, 5, 1)),
		Keywords: newRawKeywordsField(cut(row, chars, 6, 94)),
	}
}

func classifyF(row int, chars []rune) Srcline {
	return FLine{
		Sequence:          newSequenceField(cut(row, chars, 0, 5)),
		FormType:          newFormtypeField(cut(row, chars, 5, 1)),
		Name:              newNameField(cut(row, chars, 6, 10)),
		Filetype:          newFiletypeField(cut(row, chars, 16, 1)),
		FileDesignation:   newFileDesignationField(cut(row, chars, 17, 1)),
		Endfile:           newEndfileField(cut(row, chars, 18, 1)),
		FileAddition:      newFileAdditionField(cut(row, chars, 19, 1)),
		FileSequence:      newFileSequenceField(cut(row, chars, 20, 1)),
		FileFormat:        newFileFormatField(cut(row, chars, 21, 1)),
		RecordLength:      newRecordLengthField(cut(row, chars, 22, 5)),
		LimitsProcessing:  newLimitsProcessingField(cut(row, chars, 27, 1)),
		KeyLength:         newKeyLengthField(cut(row, chars, 28, 5)),
		RecordAddressType: newRecordAddressTypeField(cut(row, chars, 33, 1)),
		FileOrganization:  newFileOrganizationField(cut(row, chars, 34, 1)),
		Device:            newDeviceField(cut(row, chars, 35, 7)),
		Reserved:          newIgnoredField(cut(row, chars, 42, 1)),
		Keywords:          newRawKeywordsField(cut(row, chars, 43, 57)),
	}
}

func classifyFCont(row int, chars []rune) Srcline {
	return FContLine{
		Sequence: newSequenceField(cut(row, chars, 0, 5)),
		FormType: newFormtypeField(cut(row, chars, 5, 1)),
		Nothing:  newIgnoredField(cut(row, chars, 6, 37)),
		Keywords: newRawKeywordsField(cut(row, chars, 43, 57)),
	}
}

func classifyD(row int, chars []rune) Srcline {
	return DLine{
		Sequence:            newSequenceField(cut(row, chars, 0, 5)),
		FormType:            newFormtypeField(cut(row, chars, 5, 1)),
		Name:                newNameField(cut(row, chars, 6, 15)),
		ExternalDescription: newExternalDescriptionField(cut(row, chars, 21, 1)),
		DatastructureType:   newDatastructureTypeField(cut(row, chars, 22, 1)),
		DefinitionType:      newDefinitionTypeField(cut(row, chars, 23, 2)),
		FromPosition:        newPositionField(cut(row, chars, 25, 7)),
		ToLength:            newPositionField(cut(row, chars, 32, 7)),
		Datatype:            newDatatypeField(cut(row, chars, 39, 1)),
		Decimals:            newDecimalsField(cut(row, chars, 40, 2)),
		Reserved:            newIgnoredField(cut(row, chars, 42, 1)),
		Keywords:            newRawKeywordsField(cut(row, chars, 43, 57)),
	}
}

func classifyDCont(row int, chars []rune) Srcline {
	return DContLine{
		Sequence: newSequenceField(cut(row, chars, 0, 5)),
		FormType: newFormtypeField(cut(row, chars, 5, 1)),
		Nothing:  newIgnoredField(cut(row, chars, 6, 37)),
		Keywords: newRawKeywordsField(cut(row, chars, 43, 57)),
	}
}

func classifyCTraditional(row int, chars []rune) Srcline {
	return CTraditionalLine{
		Nothing:             newIgnoredField(cut(row, chars, 0, 5)),
		FormType:            newFormtypeField(cut(row, chars, 5, 1)),
		ControlLevel:        newControlLevelField(cut(row, chars, 6, 2)),
		Indicators:          newIndicatorsField(cut(row, chars, 8, 3)),
		Factor1:             newFactor1Field(cut(row, chars, 11, 14)),
		Operation:           newOperationField(cut(row, chars, 25, 10)),
		Factor2:             newRawFactor2Field(cut(row, chars, 35, 13)),
		Result:              newResultField(cut(row, chars, 48, 14)),
		ResultLength:        newResultLengthField(cut(row, chars, 62, 5)),
		Decimals:            newDecimalsField(cut(row, chars, 67, 2)),
		ResultingIndicators: newIndicatorsField(cut(row, chars, 69, 5)),
		Comments:            newCommentField(cut(row, chars, 74, 26)),
	}
}

func classifyCExtF2(row int, chars []rune) Srcline {
	return CExtF2Line{
		Nothing:      newIgnoredField(cut(row, chars, 0, 5)),
		FormType:     newFormtypeField(cut(row, chars, 5, 1)),
		ControlLevel: newControlLevelField(cut(row, chars, 6, 2)),
		Indicators:   newIndicatorsField(cut(row, chars, 8, 3)),
		Factor1:      newFactor1Field(cut(row, chars, 11, 14)),
		Operation:    newOperationField(cut(row, chars, 25, 10)),
		Factor2:      newRawFactor2Field(cut(row, chars, 35, 65)),
	}
}

func classifyCFree(row int, chars []rune) Srcline {
	return CFreeLine{
		Nothing: newIgnoredField(cut(row, chars, 0, 7)),
		Code:    newRawCodeField(cut(row, chars, 7, 93)),
	}
}
