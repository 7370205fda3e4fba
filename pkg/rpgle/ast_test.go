package rpgle

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/midrangehq/go-fixedform/pkg/kwlex"
	"github.com/midrangehq/go-fixedform/pkg/meta"
)

func parseFixtureAST(t *testing.T, input string) *AST {
	t.Helper()
	cst, err := ParseCST(input)
	if err != nil {
		t.Fatalf("ParseCST failed: %v", err)
	}
	return ParseAST(cst)
}

func TestFreeExsrRecognition(t *testing.T) {
	input := pad("       Exsr $SetLstId;", LineWidth)
	ast := parseFixtureAST(t, input)
	if len(ast.Specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(ast.Specs))
	}
	c, ok := ast.Specs[0].(CSpec)
	if !ok {
		t.Fatalf("expected CSpec, got %T", ast.Specs[0])
	}
	if c.Code.Op.Kind != OpExsr {
		t.Fatalf("expected Exsr, got %q (%s)", c.Code.Op.Kind, c.Code.Op.Reason)
	}
	if c.Code.Op.Name != "$SetLstId" {
		t.Fatalf("expected name $SetLstId, got %q", c.Code.Op.Name)
	}
	if got := c.Code.Op.Span().Start.Col; got != 7 {
		t.Fatalf("op span must start at column 7, got %d", got)
	}
}

func TestFreeOpPatterns(t *testing.T) {
	tests := []struct {
		code string
		kind OpKind
		name string
	}{
		{"       Exsr $CrtEvts;", OpExsr, "$CrtEvts"},
		{"       Begsr $SetLstId;", OpBegsr, "$SetLstId"},
		{"       Endsr;", OpEndsr, ""},
		{"       QCmdExc(Foo:Bar);", OpCallp, "QCmdExc"},
		{"       QCmdExc(Foo:Bar); // kick off", OpCallp, "QCmdExc"},
		{"       *inlr = *on;", OpIdk, ""},
		{"       LastId = Vid;", OpIdk, ""},
		{"       SetLL *Loval CowEvtL2;", OpIdk, ""},
		{"       Exsr $CrtEvts; Endsr;", OpIdk, ""},
	}
	for i, tt := range tests {
		ast := parseFixtureAST(t, pad(tt.code, LineWidth))
		c := ast.Specs[0].(CSpec)
		if c.Code.Op.Kind != tt.kind {
			t.Fatalf("tests[%d] - %q recognised %q, want %q", i, tt.code, c.Code.Op.Kind, tt.kind)
		}
		if c.Code.Op.Name != tt.name {
			t.Fatalf("tests[%d] - %q name %q, want %q", i, tt.code, c.Code.Op.Name, tt.name)
		}
	}
}

func TestTraditionalOps(t *testing.T) {
	tests := []struct {
		code string
		kind OpKind
		name string
	}{
		{"     C     $CrtBRNEVT    BegSr", OpBegsr, "$CrtBRNEVT"},
		{"     C                   ENDSR", OpEndsr, ""},
		{"     C     $DoIt         ExSr", OpExsr, "$DoIt"},
		{"     C                   MOVE      A             B", OpIdk, ""},
	}
	for i, tt := range tests {
		ast := parseFixtureAST(t, pad(tt.code, LineWidth))
		c := ast.Specs[0].(CSpec)
		if c.Code.Op.Kind != tt.kind || c.Code.Op.Name != tt.name {
			t.Fatalf("tests[%d] - %q recognised %q/%q, want %q/%q",
				i, tt.code, c.Code.Op.Kind, c.Code.Op.Name, tt.kind, tt.name)
		}
	}
}

func TestExtF2Callp(t *testing.T) {
	ast := parseFixtureAST(t, pad("     C                   CALLP     QCmdExc(Foo:Bar)", LineWidth))
	c := ast.Specs[0].(CSpec)
	if c.Code.Op.Kind != OpCallp || c.Code.Op.Name != "QCmdExc" {
		t.Fatalf("expected Callp QCmdExc, got %q %q", c.Code.Op.Kind, c.Code.Op.Name)
	}
}

func TestFSpecContinuationFold(t *testing.T) {
	input := strings.Join([]string{
		pad("     FCowEvtL2  IF   E           K DISK     Rename(EVTFMT:VEVTFMT)", LineWidth),
		pad("     F                                     Prefix(V)", LineWidth),
	}, "\n")
	ast := parseFixtureAST(t, input)
	if len(ast.Specs) != 1 {
		t.Fatalf("expected exactly one F spec, got %d specs", len(ast.Specs))
	}
	f, ok := ast.Specs[0].(FSpec)
	if !ok {
		t.Fatalf("expected FSpec, got %T", ast.Specs[0])
	}

	rows := map[string]int{}
	for _, tok := range f.Keywords.Tokens {
		if tok.Kind == kwlex.KindIdentifier {
			rows[tok.Text()] = tok.Metas[0].Span.Start.Row
		}
	}
	for _, want := range []string{"Rename", "EVTFMT", "VEVTFMT", "Prefix", "V"} {
		if _, ok := rows[want]; !ok {
			t.Fatalf("identifier %q missing from folded keywords (have %v)", want, rows)
		}
	}
	for _, name := range []string{"Rename", "EVTFMT", "VEVTFMT"} {
		if rows[name] != 0 {
			t.Fatalf("%q must carry row 0, got %d", name, rows[name])
		}
	}
	for _, name := range []string{"Prefix", "V"} {
		if rows[name] != 1 {
			t.Fatalf("%q must carry row 1, got %d", name, rows[name])
		}
	}
}

func TestDSpecContinuationFold(t *testing.T) {
	input := strings.Join([]string{
		pad("     D Path            S           2000    VARYING", LineWidth),
		pad("     D"+strings.Repeat(" ", 37)+"Inz('/tmp')", LineWidth),
	}, "\n")
	ast := parseFixtureAST(t, input)
	if len(ast.Specs) != 1 {
		t.Fatalf("expected exactly one D spec, got %d", len(ast.Specs))
	}
	d := ast.Specs[0].(DSpec)
	var idents []string
	for _, tok := range d.Keywords.Tokens {
		if tok.Kind == kwlex.KindIdentifier {
			idents = append(idents, tok.Text())
		}
	}
	joined := strings.Join(idents, ",")
	if !strings.Contains(joined, "VARYING") || !strings.Contains(joined, "Inz") {
		t.Fatalf("folded D keywords missing identifiers: %v", idents)
	}
}

func TestCommentsAndDirectivesFilteredFromAST(t *testing.T) {
	ast := parseFixtureAST(t, dfmsLikeFixture())
	for _, s := range ast.Specs {
		switch s.Kind() {
		case SpecH, SpecF, SpecD, SpecC:
		default:
			t.Fatalf("unexpected spec kind %q in AST", s.Kind())
		}
	}
	// 1 H + 3 F + 4 D + 22 C lines survive assembly.
	var h, f, d, c int
	for _, s := range ast.Specs {
		switch s.Kind() {
		case SpecH:
			h++
		case SpecF:
			f++
		case SpecD:
			d++
		case SpecC:
			c++
		}
	}
	if h != 1 || f != 3 || d != 4 {
		t.Fatalf("unexpected spec counts: h=%d f=%d d=%d c=%d", h, f, d, c)
	}
}

func TestQueryDefinition(t *testing.T) {
	ast := parseFixtureAST(t, dfmsLikeFixture())

	upper, ok := ast.QueryDefinition("LASTID")
	if !ok {
		t.Fatalf("LASTID not found")
	}
	lower, ok := ast.QueryDefinition("lastid")
	if !ok {
		t.Fatalf("lastid not found")
	}
	if upper != lower {
		t.Fatalf("definition query must be case-insensitive: %v vs %v", upper, lower)
	}

	// The D-spec name wins over anything in keyword text.
	if upper.Start.Row != 7 {
		t.Fatalf("LastId defined on row 7, got %d", upper.Start.Row)
	}

	// Subroutines resolve to their Begsr.
	sr, ok := ast.QueryDefinition("$SetLstId")
	if !ok {
		t.Fatalf("$SetLstId not found")
	}
	if sr.Start.Row != 17 {
		t.Fatalf("$SetLstId defined on row 17, got %d", sr.Start.Row)
	}

	if _, ok := ast.QueryDefinition("NoSuchThing"); ok {
		t.Fatalf("expected not-found for NoSuchThing")
	}
}

func TestQueryDefinitionKeywordFallback(t *testing.T) {
	input := pad("     D QCmdExc         PR                  EXTPGM('QCMDEXC')", LineWidth)
	ast := parseFixtureAST(t, input)
	span, ok := ast.QueryDefinition("EXTPGM")
	if !ok {
		t.Fatalf("keyword text EXTPGM not found")
	}
	if span.Start.Col < 43 {
		t.Fatalf("keyword match must sit in the keyword area, got col %d", span.Start.Col)
	}
}

func TestParseASTSnapshot(t *testing.T) {
	ast := parseFixtureAST(t, dfmsLikeFixture())
	out, err := SerializeAST(ast)
	if err != nil {
		t.Fatalf("SerializeAST failed: %v", err)
	}
	snaps.MatchSnapshot(t, string(out))
}

func TestASTHighlightTokensKeepRows(t *testing.T) {
	input := strings.Join([]string{
		pad("     FCowEvtL2  IF   E           K DISK     Rename(EVTFMT:VEVTFMT)", LineWidth),
		pad("     F                                     Prefix(V)", LineWidth),
	}, "\n")
	ast := parseFixtureAST(t, input)
	var rows = map[int]bool{}
	for _, m := range ast.Highlight() {
		if m.Span.Start.Row != m.Span.End.Row {
			t.Fatalf("AST highlight %v crosses a row boundary", m.Span)
		}
		rows[m.Span.Start.Row] = true
	}
	if !rows[0] || !rows[1] {
		t.Fatalf("highlights must cover both physical rows, got %v", rows)
	}
}

func TestOpMetasSingleRow(t *testing.T) {
	ast := parseFixtureAST(t, pad("       Endsr;", LineWidth))
	op := ast.Specs[0].(CSpec).Code.Op
	if op.Kind != OpEndsr {
		t.Fatalf("expected Endsr, got %q", op.Kind)
	}
	span := op.Span()
	if span.Start != meta.Pos(0, 7) {
		t.Fatalf("op starts at (0,7), got %v", span.Start)
	}
	if span.End.Col != LineWidth {
		t.Fatalf("op covers the code area to column %d, got %d", LineWidth, span.End.Col)
	}
}
