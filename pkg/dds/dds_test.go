package dds

import (
	"errors"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/midrangehq/go-fixedform/pkg/kwlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// cowEvtFixture is the physical-file source for a cow events file: a
// header comment block, file-level keywords, one record format with
// fields, and a primary key.
func cowEvtFixture() string {
	lines := []string{
		"     A*",
		"     A*   FILE         - Cow Event",
		"     A*   APPLICATION  - Dairy Farm Management",
		"     A**************************************************************************",
		"     A                                      UNIQUE",
		"     A          R EVTFMT                    TEXT('Event Fmt')",
		"     A            ID             8  0       TEXT('Database ID')",
		"     A            EDAT           6  0       TEXT('Event Date YYYYMMDD')",
		"     A            ETIM           6  0       TEXT('Event Time HHMMSS')",
		"     A            ETYP           8          TEXT('Event Type')",
		"     A* PRIMARY KEY",
		"     A          K ID",
	}
	padded := make([]string, len(lines))
	for i, l := range lines {
		padded[i] = pad(l, LineWidth)
	}
	return strings.Join(padded, "\n")
}

func TestParseCSTRoundTrip(t *testing.T) {
	input := cowEvtFixture()
	cst, err := ParseCST(input)
	require.NoError(t, err)
	require.Equal(t, input, cst.Render())
}

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		line string
		kind LineKind
	}{
		{"     A* PRIMARY KEY", LineComment},
		{"     A          R EVTFMT                    TEXT('Event Fmt')", LineRecordFormat},
		{"     A            ID             8  0       TEXT('Database ID')", LineField},
		{"     A          K ID", LineKey},
		{"     A                                      UNIQUE", LineContinuation},
		{"", LineIdk},
	}
	for i, tt := range tests {
		if tt.line == "" {
			// An all-blank line has nothing in the keyword area either.
			tt.line = strings.Repeat(" ", LineWidth)
		}
		line := classify(0, []rune(pad(tt.line, LineWidth)))
		if line.Kind() != tt.kind {
			t.Fatalf("tests[%d] - %q classified %q, want %q", i, tt.line, line.Kind(), tt.kind)
		}
	}
}

func TestLineRenderRoundTrip(t *testing.T) {
	for i, src := range []string{
		"     A          R EVTFMT                    TEXT('Event Fmt')",
		"     A            ID             8  0       TEXT('Database ID')",
		"     A          K ID",
		"     A                                      UNIQUE",
		"     A* PRIMARY KEY",
		strings.Repeat("?", LineWidth),
	} {
		padded := pad(src, LineWidth)
		line := classify(0, []rune(padded))
		if got := line.Render(); got != padded {
			t.Fatalf("tests[%d] - render mismatch\nexpected: %q\ngot:      %q", i, padded, got)
		}
	}
}

func TestParseASTEntries(t *testing.T) {
	cst, err := ParseCST(cowEvtFixture())
	require.NoError(t, err)
	ast, diags := ParseAST(cst)
	require.Empty(t, diags)

	kinds := make([]EntryKind, len(ast.Entries))
	for i, e := range ast.Entries {
		kinds[i] = e.Kind()
	}
	require.Equal(t, []EntryKind{
		EntryFileEntry,
		EntryRecordFormat,
		EntryField, EntryField, EntryField, EntryField,
		EntryKeyfield,
	}, kinds)

	rf := ast.Entries[1].(RecordFormat)
	require.NotNil(t, rf.Name.Ok)
	assert.Equal(t, "EVTFMT", rf.Name.Ok.Value)

	id := ast.Entries[2].(Field)
	require.NotNil(t, id.Name.Ok)
	assert.Equal(t, "ID", id.Name.Ok.Value)
	require.NotNil(t, id.Length.Ok)
	assert.Equal(t, uint(8), id.Length.Ok.Value)
	require.NotNil(t, id.DecimalPositions.Ok)
	assert.False(t, id.DecimalPositions.Ok.Empty)
	assert.Equal(t, uint(0), id.DecimalPositions.Ok.Value)

	key := ast.Entries[6].(Keyfield)
	require.NotNil(t, key.Name.Ok)
	assert.Equal(t, "ID", key.Name.Ok.Value)
}

func TestFileEntryCollectsLeadingContinuations(t *testing.T) {
	cst, err := ParseCST(cowEvtFixture())
	require.NoError(t, err)
	ast, _ := ParseAST(cst)
	fe, ok := ast.Entries[0].(FileEntry)
	require.True(t, ok, "first entry must be the file entry")
	var idents []string
	for _, tok := range fe.Keywords.Tokens {
		if tok.Kind == kwlex.KindIdentifier {
			idents = append(idents, tok.Text())
		}
	}
	assert.Contains(t, idents, "UNIQUE")
}

func TestContinuationAfterKeyAttachesToIt(t *testing.T) {
	input := strings.Join([]string{
		pad("     A          R EVTFMT", LineWidth),
		pad("     A            ID             8  0", LineWidth),
		pad("     A          K ID", LineWidth),
		pad("     A                                      UNIQUE", LineWidth),
	}, "\n")
	cst, err := ParseCST(input)
	require.NoError(t, err)
	ast, diags := ParseAST(cst)
	require.Empty(t, diags)
	require.Equal(t, EntryKeyfield, ast.Entries[len(ast.Entries)-1].Kind())
}

func TestFileEntrySpansMultipleContinuations(t *testing.T) {
	input := strings.Join([]string{
		pad("     A                                      UNIQUE", LineWidth),
		pad("     A                                      REF(FIELDREF)", LineWidth),
		pad("     A          R EVTFMT", LineWidth),
	}, "\n")
	cst, err := ParseCST(input)
	require.NoError(t, err)
	ast, diags := ParseAST(cst)
	require.Empty(t, diags)
	require.Len(t, ast.Entries, 2)
	fe := ast.Entries[0].(FileEntry)
	text := fe.Keywords.Render()
	assert.Contains(t, text, "UNIQUE")
	assert.Contains(t, text, "REF(FIELDREF)")
}

func TestRecordFormatKeywordsTokenized(t *testing.T) {
	cst, err := ParseCST(cowEvtFixture())
	require.NoError(t, err)
	ast, _ := ParseAST(cst)
	rf := ast.Entries[1].(RecordFormat)

	var kinds []kwlex.TokenKind
	for _, tok := range rf.Keywords.Tokens {
		if tok.Kind != kwlex.KindWhitespace {
			kinds = append(kinds, tok.Kind)
		}
	}
	require.Equal(t, []kwlex.TokenKind{
		kwlex.KindIdentifier, // TEXT
		kwlex.KindLParen,
		kwlex.KindStringLiteral, // 'Event Fmt'
		kwlex.KindRParen,
	}, kinds)
}

func TestQueryDefinition(t *testing.T) {
	cst, err := ParseCST(cowEvtFixture())
	require.NoError(t, err)
	ast, _ := ParseAST(cst)

	upper, ok := ast.QueryDefinition("ID")
	require.True(t, ok)
	lower, ok := ast.QueryDefinition("id")
	require.True(t, ok)
	assert.Equal(t, upper, lower, "definition query must be case-insensitive")

	// Row 6 is the ID field line; the span is its name column.
	assert.Equal(t, 6, upper.Start.Row)
	assert.Equal(t, 18, upper.Start.Col)

	_, ok = ast.QueryDefinition("NOPE")
	assert.False(t, ok)
}

func TestOverLongLineRejected(t *testing.T) {
	long := strings.Repeat("x", LineWidth+1)
	cst, err := ParseCST(long)
	require.Nil(t, cst)
	var tooLong *LineTooLongError
	require.True(t, errors.As(err, &tooLong))
	assert.Equal(t, long, tooLong.Line)
}

func TestParseCSTSnapshot(t *testing.T) {
	cst, err := ParseCST(cowEvtFixture())
	require.NoError(t, err)
	out, err := SerializeCST(cst)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(out))
}

func TestParseASTSnapshot(t *testing.T) {
	cst, err := ParseCST(cowEvtFixture())
	require.NoError(t, err)
	ast, _ := ParseAST(cst)
	out, err := SerializeAST(ast)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(out))
}

func TestHighlightDisjointWithinLayer(t *testing.T) {
	cst, err := ParseCST(cowEvtFixture())
	require.NoError(t, err)
	type cell struct{ row, col int }
	seen := map[cell]bool{}
	for _, m := range cst.Highlight() {
		require.Equal(t, m.Span.Start.Row, m.Span.End.Row, "CST spans stay on one row")
		for c := m.Span.Start.Col; c < m.Span.End.Col; c++ {
			key := cell{m.Span.Start.Row, c}
			require.False(t, seen[key], "cell highlighted twice: %v", key)
			seen[key] = true
		}
	}
}
