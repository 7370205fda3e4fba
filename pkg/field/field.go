// Package field provides the result wrapper shared by every column
// extractor. An extractor either recognises its slice of the line and
// returns Ok, or it does not and returns Unknown — a line as a whole
// never fails. Both arms keep the exact source text, so rendering a
// Result reproduces the input regardless of which arm it took.
package field

import "github.com/midrangehq/go-fixedform/pkg/meta"

// Reason classifies why an extractor or tokenizer rejected its input.
type Reason string

const (
	ReasonIncompletePositionalEntry Reason = "IncompletePositionalEntry"
	ReasonUnknownCommentPrefix      Reason = "UnknownCommentPrefix"
	ReasonNotImplemented            Reason = "NotImplemented"
	ReasonUnexpectedCharacter       Reason = "UnexpectedCharacter"
)

// Behavior is the capability set every concrete field type implements.
type Behavior interface {
	Span() meta.Span
	Render() string
	Highlight() []meta.Highlight
}

// Unknown carries the raw text of an unrecognised field.
type Unknown struct {
	Value  string    `yaml:"value"`
	Meta   meta.Meta `yaml:"meta"`
	Reason Reason    `yaml:"reason"`
}

// NewUnknown builds an Unknown from a single-row slice of the line.
func NewUnknown(start meta.Position, text string, reason Reason) Unknown {
	return Unknown{Value: text, Meta: meta.New(start, text), Reason: reason}
}

func (u Unknown) Span() meta.Span { return u.Meta.Span }
func (u Unknown) Render() string  { return u.Meta.Text }
func (u Unknown) Highlight() []meta.Highlight {
	return []meta.Highlight{{Span: u.Meta.Span, Group: meta.HlError}}
}

// Result is the two-armed outcome of a field extraction.
type Result[T Behavior] struct {
	Ok      *T       `yaml:"ok,omitempty"`
	Unknown *Unknown `yaml:"unknown,omitempty"`
}

// OkOf wraps a recognised field value.
func OkOf[T Behavior](v T) Result[T] {
	return Result[T]{Ok: &v}
}

// Idk wraps an unrecognised field.
func Idk[T Behavior](u Unknown) Result[T] {
	return Result[T]{Unknown: &u}
}

// IsOk reports whether the extraction succeeded.
func (r Result[T]) IsOk() bool { return r.Ok != nil }

func (r Result[T]) Span() meta.Span {
	if r.Ok != nil {
		return (*r.Ok).Span()
	}
	return r.Unknown.Span()
}

func (r Result[T]) Render() string {
	if r.Ok != nil {
		return (*r.Ok).Render()
	}
	return r.Unknown.Render()
}

func (r Result[T]) Highlight() []meta.Highlight {
	if r.Ok != nil {
		return (*r.Ok).Highlight()
	}
	return r.Unknown.Highlight()
}
