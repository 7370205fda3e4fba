// Package dds parses DDS source for physical files into a lossless,
// position-preserving concrete syntax tree and an entry-level abstract
// view (file entry, record formats, fields, key fields).
//
// The shape mirrors the RPGLE side: classification is total, unplaceable
// content becomes in-band Unknown fields, and rendering the tree
// reproduces the padded input byte-for-byte. The only fatal condition is
// a line longer than the fixed 80-column width.
package dds

import (
	"fmt"
	"strings"

	"github.com/midrangehq/go-fixedform/pkg/meta"
)

// LineWidth is the fixed width of a DDS source line.
const LineWidth = 80

// LineTooLongError is the only structural parse error.
type LineTooLongError struct {
	Line  string
	Row   int
	Width int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line %d is longer than %d characters: %q", e.Row, e.Width, e.Line)
}

// CST is the lossless concrete syntax tree.
type CST struct {
	Lines []DDSLine `yaml:"lines"`
}

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

// ParseCST parses DDS source into its concrete syntax tree.
func ParseCST(input string) (*CST, error) {
	padded, err := normalize(input, LineWidth)
	if err != nil {
		return nil, err
	}
	lines := make([]DDSLine, len(padded))
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
