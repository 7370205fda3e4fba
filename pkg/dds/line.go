package dds

import (
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/field"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// LineKind tags the classified form of a DDS source line.
type LineKind string

const (
	LineIdk          LineKind = "Idk"
	LineComment      LineKind = "Comment"
	LineRecordFormat LineKind = "RecordFormat"
	LineField        LineKind = "Field"
	LineKey          LineKind = "Key"
	LineContinuation LineKind = "Continuation"
)

// DDSLine is one classified line of the DDS concrete syntax tree.
type DDSLine interface {
	Kind() LineKind
	Render() string
	Span() meta.Span
	Highlight() []meta.Highlight
}

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

func (l IdkLine) Kind() LineKind              { return LineIdk }
func (l IdkLine) Render() string              { return l.Idk.Render() }
func (l IdkLine) Span() meta.Span             { return l.Idk.Span() }
func (l IdkLine) Highlight() []meta.Highlight { return l.Idk.Highlight() }

// CommentLine: position 7 carries `*`.
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

// NamedLine is the column layout shared by record-format, field, and key
// lines; they differ only in the name-type letter at position 17.
type NamedLine struct {
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
	Keywords         field.Result[RawKeywordsField]      `yaml:"keywords"`
}

func (l NamedLine) Render() string {
	return renderAll(l.Sequence, l.FormType, l.Comment, l.Condition, l.NameType,
		l.Reserved, l.Name, l.Reference, l.Length, l.DataType, l.DecimalPositions,
		l.Usage, l.Location, l.Keywords)
}

func (l NamedLine) Span() meta.Span {
	return meta.Cover(l.Sequence.Span(), l.Keywords.Span())
}

func (l NamedLine) Highlight() []meta.Highlight {
	return highlightAll(l.Sequence, l.FormType, l.Comment, l.Condition, l.NameType,
		l.Reserved, l.Name, l.Reference, l.Length, l.DataType, l.DecimalPositions,
		l.Usage, l.Location, l.Keywords)
}

func newNamedLine(row int, chars []rune) NamedLine {
	return NamedLine{
		Sequence:         newSequenceField(cut(row, chars, 0, 5)),
		FormType:         newFormtypeField(cut(row, chars, 5, 1)),
		Comment:          newIgnoredField(cut(row, chars, 6, 1)),
		Condition:        newIgnoredField(cut(row, chars, 7, 9)),
		NameType:         newNametypeField(cut(row, chars, 16, 1)),
		Reserved:         newIgnoredField(cut(row, chars, 17, 1)),
		Name:             newNameField(cut(row, chars, 18, 10)),
		Reference:        newReferenceField(cut(row, chars, 28, 1)),
		Length:           newLengthField(cut(row, chars, 29, 5)),
		DataType:         newDatatypeField(cut(row, chars, 34, 1)),
		DecimalPositions: newDecimalPositionsField(cut(row, chars, 35, 2)),
		Usage:            newUsageField(cut(row, chars, 37, 1)),
		Location:         newIgnoredField(cut(row, chars, 38, 6)),
		Keywords:         newRawKeywordsField(cut(row, chars, 44, 36)),
	}
}

// RecordFormatLine names a record format (position 17 = `R`).
type RecordFormatLine struct {
	NamedLine `yaml:",inline"`
}

func (l RecordFormatLine) Kind() LineKind { return LineRecordFormat }

// FieldLine defines a field of the current record format.
type FieldLine struct {
	NamedLine `yaml:",inline"`
}

func (l FieldLine) Kind() LineKind { return LineField }

// KeyLine names a key field (position 17 = `K`).
type KeyLine struct {
	NamedLine `yaml:",inline"`
}

func (l KeyLine) Kind() LineKind { return LineKey }

// ContinuationLine extends the previous entry's keyword area.
type ContinuationLine struct {
	Nothing  field.Result[IgnoredField]     `yaml:"nothing"`
	Keywords field.Result[RawKeywordsField] `yaml:"keywords"`
}

func (l ContinuationLine) Kind() LineKind { return LineContinuation }
func (l ContinuationLine) Render() string { return renderAll(l.Nothing, l.Keywords) }
func (l ContinuationLine) Span() meta.Span {
	return meta.Cover(l.Nothing.Span(), l.Keywords.Span())
}
func (l ContinuationLine) Highlight() []meta.Highlight {
	return highlightAll(l.Nothing, l.Keywords)
}

func allBlank(chars []rune) bool {
	for _, r := range chars {
		if r != ' ' {
			return false
		}
	}
	return true
}

func isAlphabetic(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// classify assigns exactly one tag to a padded 80-column line, dispatched
// by positions 7 and 17 and the name column.
func classify(row int, chars []rune) DDSLine {
	switch {
	case chars[6] == '*':
		return CommentLine{
			Sequence: newSequenceField(cut(row, chars, 0, 5)),
			FormType: newFormtypeField(cut(row, chars, 5, 1)),
			Comment:  newCommentField(cut(row, chars, 6, 74)),
		}
	case chars[16] == 'R':
		return RecordFormatLine{newNamedLine(row, chars)}
	case chars[16] == 'K':
		return KeyLine{newNamedLine(row, chars)}
	case isAlphabetic(chars[18]):
		return FieldLine{newNamedLine(row, chars)}
	case !allBlank(chars[44:]):
		return ContinuationLine{
			Nothing:  newIgnoredField(cut(row, chars, 0, 44)),
			Keywords: newRawKeywordsField(cut(row, chars, 44, 36)),
		}
	default:
		p, text := cut(row, chars, 0, len(chars))
		return IdkLine{Idk: field.Idk[IgnoredField](field.NewUnknown(p, text, field.ReasonIncompletePositionalEntry))}
	}
}
