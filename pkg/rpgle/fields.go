package rpgle

import (
	"strconv"
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/field"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// The field catalogue. One typed field exists per column slot of each
// spec form; extraction either recognises the slot's domain or yields an
// in-band Unknown. Column ranges are those of the 100-column fixed form.

type FieldBase struct {
	Meta meta.Meta `yaml:"meta"`
}

func (f FieldBase) Span() meta.Span { return f.Meta.Span }
func (f FieldBase) Render() string  { return f.Meta.Text }

func one(span meta.Span, group string) []meta.Highlight {
	return []meta.Highlight{{Span: span, Group: group}}
}

// SequenceField covers columns 1-5; the content is opaque.
type SequenceField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f SequenceField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newSequenceField(start meta.Position, text string) field.Result[SequenceField] {
	return field.OkOf(SequenceField{FieldBase{meta.New(start, text)}, text})
}

// FormtypeField is the single spec letter. Upper-case only; lower-case
// letters are rejected.
type FormtypeField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f FormtypeField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newFormtypeField(start meta.Position, text string) field.Result[FormtypeField] {
	switch text {
	case " ", "H", "F", "D", "C", "I", "O", "P":
		return field.OkOf(FormtypeField{FieldBase{meta.New(start, text)}, text})
	}
	return field.Idk[FormtypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

// NameField strips interior blanks; any content is accepted.
type NameField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f NameField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlIdentifier) }

func newNameField(start meta.Position, text string) field.Result[NameField] {
	return field.OkOf(NameField{FieldBase{meta.New(start, text)}, stripBlanks(text)})
}

// IgnoredField accepts anything; used for reserved and filler slots.
type IgnoredField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f IgnoredField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newIgnoredField(start meta.Position, text string) field.Result[IgnoredField] {
	return field.OkOf(IgnoredField{FieldBase{meta.New(start, text)}, text})
}

// CommentField is the free text after a comment marker.
type CommentField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f CommentField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlComment) }

func newCommentField(start meta.Position, text string) field.Result[CommentField] {
	return field.OkOf(CommentField{FieldBase{meta.New(start, text)}, text})
}

// RawKeywordsField defers parsing of the keyword area to the sub-tokenizer.
type RawKeywordsField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f RawKeywordsField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newRawKeywordsField(start meta.Position, text string) field.Result[RawKeywordsField] {
	return field.OkOf(RawKeywordsField{FieldBase{meta.New(start, text)}, text})
}

// RawCodeField is the free-form C-spec code area, columns 8-100.
type RawCodeField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f RawCodeField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newRawCodeField(start meta.Position, text string) field.Result[RawCodeField] {
	return field.OkOf(RawCodeField{FieldBase{meta.New(start, text)}, text})
}

// RawFactor2Field is the factor-2 slot, traditional or extended.
type RawFactor2Field struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f RawFactor2Field) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newRawFactor2Field(start meta.Position, text string) field.Result[RawFactor2Field] {
	return field.OkOf(RawFactor2Field{FieldBase{meta.New(start, text)}, text})
}

// Factor1Field and ResultField carry operand identifiers.
type Factor1Field struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f Factor1Field) Highlight() []meta.Highlight { return one(f.Span(), meta.HlIdentifier) }

func newFactor1Field(start meta.Position, text string) field.Result[Factor1Field] {
	return field.OkOf(Factor1Field{FieldBase{meta.New(start, text)}, stripBlanks(text)})
}

type ResultField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f ResultField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlIdentifier) }

func newResultField(start meta.Position, text string) field.Result[ResultField] {
	return field.OkOf(ResultField{FieldBase{meta.New(start, text)}, stripBlanks(text)})
}

// OperationField carries the opcode text of a traditional or extended
// factor-2 C-spec.
type OperationField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f OperationField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlFunctionBuiltin) }

func newOperationField(start meta.Position, text string) field.Result[OperationField] {
	return field.OkOf(OperationField{FieldBase{meta.New(start, text)}, stripBlanks(text)})
}

// IndicatorsField covers conditioning and resulting indicator slots.
type IndicatorsField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f IndicatorsField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newIndicatorsField(start meta.Position, text string) field.Result[IndicatorsField] {
	return field.OkOf(IndicatorsField{FieldBase{meta.New(start, text)}, text})
}

// EnumField is the shared shape of every single-valued enumerated slot.
type EnumField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
	group     string
}

func (f EnumField) Highlight() []meta.Highlight { return one(f.Span(), f.group) }

func newEnum(start meta.Position, text, group string, domain []string) (EnumField, bool) {
	trimmed := strings.TrimSpace(text)
	for _, d := range domain {
		if trimmed == d {
			return EnumField{FieldBase{meta.New(start, text)}, trimmed, group}, true
		}
	}
	return EnumField{}, false
}

// Enumerated file-description slots.

type FiletypeField struct {
	EnumField `yaml:",inline"`
}
type FileDesignationField struct {
	EnumField `yaml:",inline"`
}
type EndfileField struct {
	EnumField `yaml:",inline"`
}
type FileAdditionField struct {
	EnumField `yaml:",inline"`
}
type FileSequenceField struct {
	EnumField `yaml:",inline"`
}
type FileFormatField struct {
	EnumField `yaml:",inline"`
}
type LimitsProcessingField struct {
	EnumField `yaml:",inline"`
}
type RecordAddressTypeField struct {
	EnumField `yaml:",inline"`
}
type FileOrganizationField struct {
	EnumField `yaml:",inline"`
}
type DeviceField struct {
	EnumField `yaml:",inline"`
}

// Enumerated definition slots.

type ExternalDescriptionField struct {
	EnumField `yaml:",inline"`
}
type DatastructureTypeField struct {
	EnumField `yaml:",inline"`
}
type DefinitionTypeField struct {
	EnumField `yaml:",inline"`
}
type DatatypeField struct {
	EnumField `yaml:",inline"`
}
type ControlLevelField struct {
	EnumField `yaml:",inline"`
}

func newFiletypeField(start meta.Position, text string) field.Result[FiletypeField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "I", "O", "U", "C"}); ok {
		return field.OkOf(FiletypeField{f})
	}
	return field.Idk[FiletypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newFileDesignationField(start meta.Position, text string) field.Result[FileDesignationField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "P", "S", "R", "T", "F"}); ok {
		return field.OkOf(FileDesignationField{f})
	}
	return field.Idk[FileDesignationField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newEndfileField(start meta.Position, text string) field.Result[EndfileField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "E"}); ok {
		return field.OkOf(EndfileField{f})
	}
	return field.Idk[EndfileField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newFileAdditionField(start meta.Position, text string) field.Result[FileAdditionField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "A"}); ok {
		return field.OkOf(FileAdditionField{f})
	}
	return field.Idk[FileAdditionField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newFileSequenceField(start meta.Position, text string) field.Result[FileSequenceField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "A", "D"}); ok {
		return field.OkOf(FileSequenceField{f})
	}
	return field.Idk[FileSequenceField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newFileFormatField(start meta.Position, text string) field.Result[FileFormatField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "F", "E"}); ok {
		return field.OkOf(FileFormatField{f})
	}
	return field.Idk[FileFormatField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newLimitsProcessingField(start meta.Position, text string) field.Result[LimitsProcessingField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "L"}); ok {
		return field.OkOf(LimitsProcessingField{f})
	}
	return field.Idk[LimitsProcessingField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newRecordAddressTypeField(start meta.Position, text string) field.Result[RecordAddressTypeField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "A", "P", "G", "K", "D", "T", "Z", "F"}); ok {
		return field.OkOf(RecordAddressTypeField{f})
	}
	return field.Idk[RecordAddressTypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newFileOrganizationField(start meta.Position, text string) field.Result[FileOrganizationField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"", "I", "T"}); ok {
		return field.OkOf(FileOrganizationField{f})
	}
	return field.Idk[FileOrganizationField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newDeviceField(start meta.Position, text string) field.Result[DeviceField] {
	if f, ok := newEnum(start, text, meta.HlStorage, []string{"PRINTER", "DISK", "WORKSTN", "SPECIAL", "SEQ"}); ok {
		return field.OkOf(DeviceField{f})
	}
	return field.Idk[DeviceField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
}

func newExternalDescriptionField(start meta.Position, text string) field.Result[ExternalDescriptionField] {
	if f, ok := newEnum(start, text, meta.HlTypeQualifier, []string{"", "E"}); ok {
		return field.OkOf(ExternalDescriptionField{f})
	}
	return field.Idk[ExternalDescriptionField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newDatastructureTypeField(start meta.Position, text string) field.Result[DatastructureTypeField] {
	if f, ok := newEnum(start, text, meta.HlTypeQualifier, []string{"", "S", "U"}); ok {
		return field.OkOf(DatastructureTypeField{f})
	}
	return field.Idk[DatastructureTypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newDefinitionTypeField(start meta.Position, text string) field.Result[DefinitionTypeField] {
	if f, ok := newEnum(start, text, meta.HlTypeQualifier, []string{"", "C", "DS", "PR", "PI", "S"}); ok {
		return field.OkOf(DefinitionTypeField{f})
	}
	return field.Idk[DefinitionTypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newDatatypeField(start meta.Position, text string) field.Result[DatatypeField] {
	domain := []string{"", "A", "B", "C", "D", "F", "G", "I", "N", "O", "P", "S", "T", "U", "Z", "*"}
	if f, ok := newEnum(start, text, meta.HlTypeDefinition, domain); ok {
		return field.OkOf(DatatypeField{f})
	}
	return field.Idk[DatatypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

func newControlLevelField(start meta.Position, text string) field.Result[ControlLevelField] {
	domain := []string{"", "L0", "L1", "L2", "L3", "L4", "L5", "L6", "L7", "L8", "L9", "LR", "SR", "AN", "OR"}
	if f, ok := newEnum(start, text, meta.HlNormal, domain); ok {
		return field.OkOf(ControlLevelField{f})
	}
	return field.Idk[ControlLevelField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

// NumField is the shared shape of the unsigned-integer slots. Empty is
// all-blank; anything else must parse as an unsigned integer after
// trimming.
type NumField struct {
	FieldBase `yaml:",inline"`
	Empty     bool `yaml:"empty"`
	Value     uint `yaml:"value"`
}

func (f NumField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNumber) }

func newNum(start meta.Position, text string) (NumField, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NumField{FieldBase: FieldBase{meta.New(start, text)}, Empty: true}, true
	}
	n, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return NumField{}, false
	}
	return NumField{FieldBase: FieldBase{meta.New(start, text)}, Value: uint(n)}, true
}

type RecordLengthField struct {
	NumField `yaml:",inline"`
}
type KeyLengthField struct {
	NumField `yaml:",inline"`
}
type PositionField struct {
	NumField `yaml:",inline"`
}
type DecimalsField struct {
	NumField `yaml:",inline"`
}
type ResultLengthField struct {
	NumField `yaml:",inline"`
}

func newRecordLengthField(start meta.Position, text string) field.Result[RecordLengthField] {
	if f, ok := newNum(start, text); ok {
		return field.OkOf(RecordLengthField{f})
	}
	return field.Idk[RecordLengthField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
}

func newKeyLengthField(start meta.Position, text string) field.Result[KeyLengthField] {
	if f, ok := newNum(start, text); ok {
		return field.OkOf(KeyLengthField{f})
	}
	return field.Idk[KeyLengthField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
}

func newPositionField(start meta.Position, text string) field.Result[PositionField] {
	if f, ok := newNum(start, text); ok {
		return field.OkOf(PositionField{f})
	}
	return field.Idk[PositionField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
}

func newDecimalsField(start meta.Position, text string) field.Result[DecimalsField] {
	if f, ok := newNum(start, text); ok {
		return field.OkOf(DecimalsField{f})
	}
	return field.Idk[DecimalsField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
}

func newResultLengthField(start meta.Position, text string) field.Result[ResultLengthField] {
	if f, ok := newNum(start, text); ok {
		return field.OkOf(ResultLengthField{f})
	}
	return field.Idk[ResultLengthField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
}

func stripBlanks(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
