package rpgle

import (
	"strings"
	"testing"
)

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func classifyLine(t *testing.T, s string) Srcline {
	t.Helper()
	return classify(0, []rune(pad(s, LineWidth)))
}

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		line string
		kind LineKind
	}{
		{"     H OPTION(*nodebugio:*srcstmt)", LineH},
		{"     FCowEvt    UF A E           K DISK", LineF},
		{"     F                                     Prefix(V)", LineFCont},
		{"     D LastId          S              8  0", LineD},
		{"     D                                     EXTPGM('QCMDEXC')", LineDCont},
		{"     C     $CrtBRNEVT    BegSr", LineCTraditional},
		{"     C                   if        LastId > 1", LineCExtF2},
		{"       Exsr $SetLstId;", LineCFree},
		{"      /free", LineCompilerDirective},
		{"     F*****************************", LineComment},
		{"     D* a comment on a D line", LineComment},
		{strings.Repeat("?", 100), LineIdk},
	}
	for i, tt := range tests {
		line := classifyLine(t, tt.line)
		if line.Kind() != tt.kind {
			t.Fatalf("tests[%d] - %q classified %q, want %q", i, tt.line, line.Kind(), tt.kind)
		}
	}
}

func TestCommentBeatsFormType(t *testing.T) {
	// The comment predicate fires before the form-type dispatch, so a
	// spec letter with a comment marker is still a comment.
	for _, form := range []string{"H", "F", "D", "C"} {
		line := classifyLine(t, "     "+form+"* anything at all")
		if line.Kind() != LineComment {
			t.Fatalf("form %q with comment marker classified %q, want Comment", form, line.Kind())
		}
	}
}

func TestLowercaseFormTypeRejected(t *testing.T) {
	// Form-type letters are upper-case only.
	line := classifyLine(t, "     h OPTION(*srcstmt)")
	if line.Kind() != LineIdk {
		t.Fatalf("lowercase form type classified %q, want Idk", line.Kind())
	}
}

func TestContinuationNeedsBlankColumns(t *testing.T) {
	// Any non-blank character in columns 7-42 makes the line a primary
	// spec.
	primary := classifyLine(t, "     D LastId          S              8  0")
	if primary.Kind() != LineD {
		t.Fatalf("expected D, got %q", primary.Kind())
	}
	cont := classifyLine(t, "     D"+strings.Repeat(" ", 37)+"Dim(100)")
	if cont.Kind() != LineDCont {
		t.Fatalf("expected DCont, got %q", cont.Kind())
	}
}

func TestExtF2Table(t *testing.T) {
	extOps := []string{"IF", "or", "AND", "dou", "DOW", "ElseIf", "EVAL", "EVALR", "WHEN", "return", "CALLP"}
	for _, op := range extOps {
		src := "     C                   " + pad(op, 10) + "Foo(Bar)"
		line := classifyLine(t, src)
		if line.Kind() != LineCExtF2 {
			t.Fatalf("op %q classified %q, want CExtF2", op, line.Kind())
		}
	}
	for _, op := range []string{"BEGSR", "EXSR", "MOVE", "Z-ADD"} {
		src := "     C                   " + pad(op, 10) + "Foo"
		line := classifyLine(t, src)
		if line.Kind() != LineCTraditional {
			t.Fatalf("op %q classified %q, want CTraditional", op, line.Kind())
		}
	}
}

func TestLineRenderRoundTrip(t *testing.T) {
	lines := []string{
		"     H OPTION(*nodebugio:*srcstmt)",
		"     FCowEvtL2  IF   E           K DISK     Rename(EVTFMT:VEVTFMT)",
		"     F                                     Prefix(V)",
		"     D LastId          S              8  0",
		"     D QCmdExc         PR                  EXTPGM('QCMDEXC')",
		"     C     $CrtBRNEVT    BegSr",
		"     C                   ENDSR",
		"       Exsr $SetLstId;",
		"      /free",
		"     C* comment",
		strings.Repeat("?", 100),
	}
	for i, src := range lines {
		padded := pad(src, LineWidth)
		line := classify(0, []rune(padded))
		if got := line.Render(); got != padded {
			t.Fatalf("tests[%d] - render mismatch\nexpected: %q\ngot:      %q", i, padded, got)
		}
	}
}

func TestSpanCoverageNoGapNoOverlap(t *testing.T) {
	// The union of a line's highlight spans equals the line's span. Every
	// field emits exactly one highlight here, so this checks the field
	// partition directly.
	lines := []string{
		"     FCowEvt    UF A E           K DISK",
		"     D LastId          S              8  0",
		"     C     $CrtBRNEVT    BegSr                    14 2",
		"     C                   if        LastId > 1",
		"       *inlr = *on;",
		"     H OPTION(*srcstmt)",
	}
	for i, src := range lines {
		line := classify(0, []rune(pad(src, LineWidth)))
		marks := line.Highlight()
		covered := make([]bool, LineWidth)
		for _, m := range marks {
			for c := m.Span.Start.Col; c < m.Span.End.Col; c++ {
				if covered[c] {
					t.Fatalf("tests[%d] - column %d covered twice", i, c)
				}
				covered[c] = true
			}
		}
		for c, ok := range covered {
			if !ok {
				t.Fatalf("tests[%d] - column %d not covered", i, c)
			}
		}
	}
}

func TestFLineFields(t *testing.T) {
	line := classifyLine(t, "     FCowEvtL2  IF   E           K DISK     Rename(EVTFMT:VEVTFMT)")
	f, ok := line.(FLine)
	if !ok {
		t.Fatalf("expected FLine, got %T", line)
	}
	if f.Name.Ok == nil || f.Name.Ok.Value != "CowEvtL2" {
		t.Fatalf("unexpected name: %+v", f.Name)
	}
	if f.Filetype.Ok == nil || f.Filetype.Ok.Value != "I" {
		t.Fatalf("unexpected filetype: %+v", f.Filetype)
	}
	if f.FileFormat.Ok == nil || f.FileFormat.Ok.Value != "E" {
		t.Fatalf("unexpected file format: %+v", f.FileFormat)
	}
	if f.RecordAddressType.Ok == nil || f.RecordAddressType.Ok.Value != "K" {
		t.Fatalf("unexpected record address type: %+v", f.RecordAddressType)
	}
	if f.Device.Ok == nil || f.Device.Ok.Value != "DISK" {
		t.Fatalf("unexpected device: %+v", f.Device)
	}
}

func TestDLineFields(t *testing.T) {
	line := classifyLine(t, "     D LastId          S              8  0")
	d, ok := line.(DLine)
	if !ok {
		t.Fatalf("expected DLine, got %T", line)
	}
	if d.Name.Ok == nil || d.Name.Ok.Value != "LastId" {
		t.Fatalf("unexpected name: %+v", d.Name)
	}
	if d.DefinitionType.Ok == nil || d.DefinitionType.Ok.Value != "S" {
		t.Fatalf("unexpected definition type: %+v", d.DefinitionType)
	}
	if d.ToLength.Ok == nil || d.ToLength.Ok.Empty || d.ToLength.Ok.Value != 8 {
		t.Fatalf("unexpected to-length: %+v", d.ToLength)
	}
	if d.Decimals.Ok == nil || d.Decimals.Ok.Empty || d.Decimals.Ok.Value != 0 {
		t.Fatalf("unexpected decimals: %+v", d.Decimals)
	}
}

func TestRejectedFieldIsUnknownNotFatal(t *testing.T) {
	// A junk filetype column surfaces in-band; the line still renders.
	src := pad("     FCowEvt    XF A E           K DISK", LineWidth)
	line := classify(0, []rune(src))
	f, ok := line.(FLine)
	if !ok {
		t.Fatalf("expected FLine, got %T", line)
	}
	if f.Filetype.Ok != nil {
		t.Fatalf("expected Unknown filetype, got Ok")
	}
	if f.Filetype.Unknown.Value != "X" {
		t.Fatalf("unknown filetype must carry its text, got %q", f.Filetype.Unknown.Value)
	}
	if line.Render() != src {
		t.Fatalf("render mismatch with unknown field present")
	}
}
