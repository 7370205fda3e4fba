package rpgle

import (
	"errors"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// dfmsLikeFixture is a dairy-farm management program exercising the
// common line kinds: H, F with continuation, D, traditional and free
// C-specs, comments, and a compiler directive.
func dfmsLikeFixture() string {
	lines := []string{
		"     H OPTION(*nodebugio:*srcstmt)",
		"     FCowEvt    UF A E           K DISK",
		"     FBornEvt   UF A E           K DISK",
		"     FCowEvtL2  IF   E           K DISK     Rename(EVTFMT:VEVTFMT)",
		"     F                                     Prefix(V)",
		"     F" + strings.Repeat("*", 94),
		"     D" + strings.Repeat("*", 94),
		"     D LastId          S              8  0",
		"     D QCmdExc         PR                  EXTPGM('QCMDEXC')",
		"     D  Command                    2000",
		"     D  Length                       15  5",
		"     C" + strings.Repeat("*", 94),
		"      /free",
		"       Exsr $SetLstId;",
		"       Exsr $CrtEvts;",
		"       QCmdExc(Foo:Bar);",
		"       *inlr = *on;",
		"       Begsr $SetLstId;",
		"         SetLL *Loval CowEvtL2;",
		"         If Not %Eof;",
		"           Read CowEvtL2;",
		"           LastId = Vid;",
		"         Else;",
		"          LastId = 1;",
		"         Endif;",
		"       Endsr;",
		"     C     $CrtBRNEVT    BegSr",
		"         EID = Id;",
		"         BNAME = 'BESSE';",
		"         BDAT = 20240101;",
		"         Write BORNFMT;",
		"     C                   ENDSR",
		"       Begsr $CrtEvts;",
		"         Exsr $CrtBrnEvt;",
		"       Endsr;",
	}
	padded := make([]string, len(lines))
	for i, l := range lines {
		padded[i] = pad(l, LineWidth)
	}
	return strings.Join(padded, "\n")
}

func TestParseCSTRoundTrip(t *testing.T) {
	input := dfmsLikeFixture()
	cst, err := ParseCST(input)
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	if got := cst.Render(); got != input {
		t.Fatalf("round trip mismatch\nexpected:\n%s\ngot:\n%s", input, got)
	}
}

func TestParseCSTSnapshot(t *testing.T) {
	cst, err := ParseCST(dfmsLikeFixture())
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	out, err := SerializeCST(cst)
	if err != nil {
		t.Fatalf("SerializeCST failed: %v", err)
	}
	snaps.MatchSnapshot(t, string(out))
}

func TestParseCSTDeterminism(t *testing.T) {
	input := dfmsLikeFixture()
	a, err := ParseCST(input)
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	b, err := ParseCST(input)
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	ya, err := SerializeCST(a)
	if err != nil {
		t.Fatal(err)
	}
	yb, err := SerializeCST(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(ya) != string(yb) {
		t.Fatalf("two parses of the same input differ")
	}
}

func TestReclassifyRenderedLineIsStable(t *testing.T) {
	cst, err := ParseCST(dfmsLikeFixture())
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	for i, line := range cst.Lines {
		again := classify(i, []rune(line.Render()))
		if again.Kind() != line.Kind() {
			t.Fatalf("line %d reclassified from %q to %q", i, line.Kind(), again.Kind())
		}
		if again.Render() != line.Render() {
			t.Fatalf("line %d render changed after reclassification", i)
		}
	}
}

func TestEmptyLinesDroppedRowsRenumbered(t *testing.T) {
	input := "\n\n     H OPTION(*srcstmt)\n\n       Exsr $Run;\n"
	cst, err := ParseCST(input)
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	if len(cst.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cst.Lines))
	}
	if cst.Lines[0].Span().Start.Row != 0 || cst.Lines[1].Span().Start.Row != 1 {
		t.Fatalf("rows must number the surviving lines from zero")
	}
}

func TestIllFormedLineDegradesGracefully(t *testing.T) {
	input := strings.Repeat("?", 100)
	cst, err := ParseCST(input)
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	if len(cst.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cst.Lines))
	}
	idk, ok := cst.Lines[0].(IdkLine)
	if !ok {
		t.Fatalf("expected IdkLine, got %T", cst.Lines[0])
	}
	if idk.Idk.Unknown == nil || idk.Idk.Unknown.Value != input {
		t.Fatalf("unknown line must carry the full text")
	}
	if cst.Render() != input {
		t.Fatalf("render mismatch for ill-formed input")
	}
}

func TestOverLongLineRejected(t *testing.T) {
	long := strings.Repeat("x", 101)
	cst, err := ParseCST(long)
	if cst != nil {
		t.Fatalf("no partial CST may be produced")
	}
	var tooLong *LineTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("expected LineTooLongError, got %v", err)
	}
	if tooLong.Line != long {
		t.Fatalf("error must carry the offending line")
	}
}

func TestHighlightWithinExtentAndDisjoint(t *testing.T) {
	cst, err := ParseCST(dfmsLikeFixture())
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	extent := cst.Span()
	type cell struct{ row, col int }
	seen := make(map[cell]bool)
	for _, m := range cst.Highlight() {
		if m.Span.Start.Less(extent.Start) || extent.End.Less(m.Span.End) {
			t.Fatalf("highlight %v escapes input extent %v", m.Span, extent)
		}
		if m.Span.Start.Row != m.Span.End.Row {
			t.Fatalf("CST highlight %v crosses a row boundary", m.Span)
		}
		for c := m.Span.Start.Col; c < m.Span.End.Col; c++ {
			key := cell{m.Span.Start.Row, c}
			if seen[key] {
				t.Fatalf("cell %v highlighted twice within the CST layer", key)
			}
			seen[key] = true
		}
	}
}
