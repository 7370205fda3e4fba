// Package rpgle parses fixed-form RPGLE source into a lossless,
// position-preserving concrete syntax tree and derives an abstract view
// (specs, operations, definitions) from it.
//
// # Pipeline
//
// ParseCST pads each line to the fixed 100-column width, classifies it by
// its column content, and slices it into typed fields. Nothing fails at
// line granularity: content a field extractor cannot place becomes an
// in-band Unknown carrying its exact text and span, so rendering the tree
// reproduces the padded input byte-for-byte. ParseAST folds the flat line
// sequence into multi-line specs, tokenizes keyword areas across
// continuations, and classifies C-spec operations.
//
// Both parse functions are pure; the only fatal condition is a line
// longer than the fixed width.
package rpgle

import (
	"fmt"
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// LineWidth is the fixed width of an RPGLE source line.
const LineWidth = 100

// LineTooLongError is the only structural parse error: a physical line
// exceeded the fixed width. The offending line is carried verbatim.
type LineTooLongError struct {
	Line  string
	Row   int
	Width int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line %d is longer than %d characters: %q", e.Row, e.Width, e.Line)
}

// CST is the lossless concrete syntax tree: one classified line per
// surviving input row.
type CST struct {
	Lines []Srcline `yaml:"lines"`
}

// normalize splits the source, drops empty lines, and pads the survivors
// to width. Row numbering counts the survivors from zero.
func normalize(input string, width int) ([][]rune, error) {
	var out [][]rune
	row := 0
	for _, line := range strings.Split(input, "\n") {
		runes := []rune(line)
		switch {
		case len(runes) == 0:
			continue
		case len(runes) > width:
			return nil, &LineTooLongError{Line: line, Row: row, Width: width}
		default:
			padded := make([]rune, width)
			copy(padded, runes)
			for i := len(runes); i < width; i++ {
				padded[i] = ' '
			}
			out = append(out, padded)
			row++
		}
	}
	return out, nil
}

// ParseCST parses RPGLE source into its concrete syntax tree.
func ParseCST(input string) (*CST, error) {
	padded, err := normalize(input, LineWidth)
	if err != nil {
		return nil, err
	}
	lines := make([]Srcline, len(padded))
	for row, chars := range padded {
		lines[row] = classify(row, chars)
	}
	return &CST{Lines: lines}, nil
}

// Render reconstructs the padded source, one line per row.
func (c *CST) Render() string {
	parts := make([]string, len(c.Lines))
	for i, line := range c.Lines {
		parts[i] = line.Render()
	}
	return strings.Join(parts, "\n")
}

// Highlight walks every line and returns the flat highlight stream.
func (c *CST) Highlight() []meta.Highlight {
	var out []meta.Highlight
	for _, line := range c.Lines {
		out = append(out, line.Highlight()...)
	}
	return out
}

// Span covers the whole tree.
func (c *CST) Span() meta.Span {
	spans := make([]meta.Span, len(c.Lines))
	for i, line := range c.Lines {
		spans[i] = line.Span()
	}
	return meta.CoverAll(spans)
}
