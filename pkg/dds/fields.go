package dds

import (
	"strconv"
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/field"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// The DDS field catalogue for physical-file source: one typed field per
// column slot of the 80-column form.

type FieldBase struct {
	Meta meta.Meta `yaml:"meta"`
}

func (f FieldBase) Span() meta.Span { return f.Meta.Span }
func (f FieldBase) Render() string  { return f.Meta.Text }

func one(span meta.Span, group string) []meta.Highlight {
	return []meta.Highlight{{Span: span, Group: group}}
}

// SequenceField covers columns 1-5.
type SequenceField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f SequenceField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newSequenceField(start meta.Position, text string) field.Result[SequenceField] {
	return field.OkOf(SequenceField{FieldBase{meta.New(start, text)}, text})
}

// FormtypeField is the form letter: blank or `A` for DDS.
type FormtypeField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f FormtypeField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newFormtypeField(start meta.Position, text string) field.Result[FormtypeField] {
	switch text {
	case " ", "A":
		return field.OkOf(FormtypeField{FieldBase{meta.New(start, text)}, text})
	}
	return field.Idk[FormtypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

// CommentField is the free text after a `*` marker.
type CommentField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f CommentField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlComment) }

func newCommentField(start meta.Position, text string) field.Result[CommentField] {
	return field.OkOf(CommentField{FieldBase{meta.New(start, text)}, text})
}

// IgnoredField accepts any content.
type IgnoredField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f IgnoredField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNormal) }

func newIgnoredField(start meta.Position, text string) field.Result[IgnoredField] {
	return field.OkOf(IgnoredField{FieldBase{meta.New(start, text)}, text})
}

// NameField strips interior blanks.
type NameField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f NameField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlIdentifier) }

func newNameField(start meta.Position, text string) field.Result[NameField] {
	value := strings.ReplaceAll(text, " ", "")
	return field.OkOf(NameField{FieldBase{meta.New(start, text)}, value})
}

// NametypeField discriminates record formats (`R`) and key fields (`K`)
// from plain fields (blank).
type NametypeField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f NametypeField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlTypeQualifier) }

func newNametypeField(start meta.Position, text string) field.Result[NametypeField] {
	switch text {
	case " ", "R", "K":
		return field.OkOf(NametypeField{FieldBase{meta.New(start, text)}, strings.TrimSpace(text)})
	}
	return field.Idk[NametypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

// ReferenceField is blank or `R`.
type ReferenceField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f ReferenceField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlTypeQualifier) }

func newReferenceField(start meta.Position, text string) field.Result[ReferenceField] {
	switch text {
	case " ", "R":
		return field.OkOf(ReferenceField{FieldBase{meta.New(start, text)}, strings.TrimSpace(text)})
	}
	return field.Idk[ReferenceField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

// LengthField parses the field length.
type LengthField struct {
	FieldBase `yaml:",inline"`
	Empty     bool `yaml:"empty"`
	Value     uint `yaml:"value"`
}

func (f LengthField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNumber) }

func newLengthField(start meta.Position, text string) field.Result[LengthField] {
	trimmed := strings.ReplaceAll(text, " ", "")
	if trimmed == "" {
		return field.OkOf(LengthField{FieldBase: FieldBase{meta.New(start, text)}, Empty: true})
	}
	n, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return field.Idk[LengthField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
	}
	return field.OkOf(LengthField{FieldBase: FieldBase{meta.New(start, text)}, Value: uint(n)})
}

// DecimalPositionsField parses the decimal-position count.
type DecimalPositionsField struct {
	FieldBase `yaml:",inline"`
	Empty     bool `yaml:"empty"`
	Value     uint `yaml:"value"`
}

func (f DecimalPositionsField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlNumber) }

func newDecimalPositionsField(start meta.Position, text string) field.Result[DecimalPositionsField] {
	trimmed := strings.ReplaceAll(text, " ", "")
	if trimmed == "" {
		return field.OkOf(DecimalPositionsField{FieldBase: FieldBase{meta.New(start, text)}, Empty: true})
	}
	n, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return field.Idk[DecimalPositionsField](field.NewUnknown(start, text, field.ReasonIncompletePositionalEntry))
	}
	return field.OkOf(DecimalPositionsField{FieldBase: FieldBase{meta.New(start, text)}, Value: uint(n)})
}

// DatatypeField is the DDS data-type letter.
type DatatypeField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f DatatypeField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlTypeDefinition) }

func newDatatypeField(start meta.Position, text string) field.Result[DatatypeField] {
	switch text {
	case " ", "P", "S", "B", "F", "A", "H", "L", "T", "Z", "5":
		return field.OkOf(DatatypeField{FieldBase{meta.New(start, text)}, strings.TrimSpace(text)})
	}
	return field.Idk[DatatypeField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
}

// UsageField is blank or `B`.
type UsageField struct {
	FieldBase `yaml:",inline"`
	Value     string `yaml:"value"`
}

func (f UsageField) Highlight() []meta.Highlight { return one(f.Span(), meta.HlStorage) }

func newUsageField(start meta.Position, text string) field.Result[UsageField] {
	switch text {
	case " ", "B":
		return field.OkOf(UsageField{FieldBase{meta.New(start, text)}, strings.TrimSpace(text)})
	}
	return field.Idk[UsageField](field.NewUnknown(start, text, field.ReasonUnexpectedCharacter))
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
