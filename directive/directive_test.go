package directive

import (
	"fmt"
	"testing"

	"asm8/eval"
	"asm8/lexer"
)

// stubContext is a minimal, recording implementation of Context used to
// exercise handlers without pulling in the assembler package.
type stubContext struct {
	pc        int64
	fill      byte
	emitted   []byte
	enum      bool
	symbols   map[string]bool
	ifs       []bool
	echoed    []string
	failTag   string
	failMsg   string
	dependent bool
}

func newStub() *stubContext {
	return &stubContext{symbols: map[string]bool{}}
}

func (s *stubContext) Position() lexer.Position { return lexer.Position{File: "t", Line: 1} }
func (s *stubContext) Scope() int               { return 0 }

func (s *stubContext) Eval(c lexer.Cursor) (eval.Result, lexer.Cursor, error) {
	return eval.Eval(c, s.Position(), s.Scope(), stubResolver{pc: s.pc})
}

func (s *stubContext) PC() int64        { return s.pc }
func (s *stubContext) SetOrg(v int64)   { s.pc = v }
func (s *stubContext) SetBase(v int64)  {}
func (s *stubContext) SetFill(b byte)   { s.fill = b }
func (s *stubContext) FillByte() byte   { return s.fill }

func (s *stubContext) Pad(target int64) bool {
	if target < s.pc {
		return false
	}
	for s.pc < target {
		s.emitted = append(s.emitted, s.fill)
		s.pc++
	}
	return true
}

func (s *stubContext) EmitBytes(data []byte) {
	s.emitted = append(s.emitted, data...)
	s.pc += int64(len(data))
}

func (s *stubContext) MarkDependent() { s.dependent = true }

func (s *stubContext) EnterEnum() { s.enum = true }
func (s *stubContext) LeaveEnum() { s.enum = false }
func (s *stubContext) InEnum() bool { return s.enum }

func (s *stubContext) DefineValue(name string, v int64) error { s.symbols[name] = true; return nil }
func (s *stubContext) DefineEquate(name, text string) error   { s.symbols[name] = true; return nil }
func (s *stubContext) SymbolExists(name string) bool          { return s.symbols[name] }

func (s *stubContext) BeginMacroCapture(name string, params []string) {}
func (s *stubContext) BeginReptCapture(count int64)                   {}

func (s *stubContext) PushIf(cond bool) error { s.ifs = append(s.ifs, cond); return nil }
func (s *stubContext) ElseIf(cond bool) error { return nil }
func (s *stubContext) Else() error            { return nil }
func (s *stubContext) PopIf() error {
	if len(s.ifs) == 0 {
		return nil
	}
	s.ifs = s.ifs[:len(s.ifs)-1]
	return nil
}
func (s *stubContext) Skipping() bool {
	for _, v := range s.ifs {
		if !v {
			return true
		}
	}
	return false
}

func (s *stubContext) IncludeFile(path string) error                  { return nil }
func (s *stubContext) IncludeBinary(path string, offset, size int64) error { return nil }
func (s *stubContext) AddIncludeDir(path string)                      {}

func (s *stubContext) Echo(msg string) { s.echoed = append(s.echoed, msg) }
func (s *stubContext) Fail(tag, format string, argv ...interface{}) {
	s.failTag = tag
	s.failMsg = fmt.Sprintf(format, argv...)
}

// stubResolver satisfies eval.Resolver with no labels bound, enough for
// the simple numeric-literal expressions these tests evaluate.
type stubResolver struct {
	pc int64
}

func (r stubResolver) CurrentPC() int64 { return r.pc }
func (r stubResolver) Resolve(name string, scope int) (int64, bool, bool) {
	return 0, false, false
}

func run(t *testing.T, name, operand string, ctx *stubContext) {
	t.Helper()
	h, ok := Lookup(name)
	if !ok {
		t.Fatalf("no handler registered for %s", name)
	}
	if err := h(ctx, lexer.NewCursor(operand)); err != nil {
		t.Fatalf("%s %q: %v", name, operand, err)
	}
}

func TestOrgAndBaseSetPC(t *testing.T) {
	ctx := newStub()
	run(t, "ORG", "$8000", ctx)
	if ctx.pc != 0x8000 {
		t.Fatalf("PC = %#x, want 0x8000", ctx.pc)
	}
}

func TestPadEmitsFillBytes(t *testing.T) {
	ctx := newStub()
	ctx.SetFill(0xEA)
	run(t, "PAD", "4", ctx)
	if ctx.pc != 4 || len(ctx.emitted) != 4 {
		t.Fatalf("pc=%d emitted=%v", ctx.pc, ctx.emitted)
	}
	for _, b := range ctx.emitted {
		if b != 0xEA {
			t.Fatalf("expected fill byte 0xEA, got %#x", b)
		}
	}
}

func TestPadRejectsBackwardTarget(t *testing.T) {
	ctx := newStub()
	ctx.pc = 10
	run(t, "PAD", "2", ctx)
	if ctx.failTag != "OutOfRange" {
		t.Fatalf("expected OutOfRange failure, got tag=%q", ctx.failTag)
	}
}

func TestAlignRoundsUpToBoundary(t *testing.T) {
	ctx := newStub()
	ctx.pc = 5
	run(t, "ALIGN", "4", ctx)
	if ctx.pc != 8 {
		t.Fatalf("pc = %d, want 8", ctx.pc)
	}
}

func TestAlignNoOpOnBoundary(t *testing.T) {
	ctx := newStub()
	ctx.pc = 8
	run(t, "ALIGN", "4", ctx)
	if ctx.pc != 8 {
		t.Fatalf("pc = %d, want 8 (already aligned)", ctx.pc)
	}
}

func TestByteAndWordEmission(t *testing.T) {
	ctx := newStub()
	run(t, "DB", "1,2,3", ctx)
	if len(ctx.emitted) != 3 {
		t.Fatalf("got %v", ctx.emitted)
	}

	ctx = newStub()
	run(t, "DW", "$1234", ctx)
	want := []byte{0x34, 0x12}
	if len(ctx.emitted) != 2 || ctx.emitted[0] != want[0] || ctx.emitted[1] != want[1] {
		t.Fatalf("got %v, want %v", ctx.emitted, want)
	}
}

func TestDSBFillsWithGivenByte(t *testing.T) {
	ctx := newStub()
	run(t, "DSB", "3,$EA", ctx)
	want := []byte{0xEA, 0xEA, 0xEA}
	if len(ctx.emitted) != len(want) {
		t.Fatalf("got %v, want %v", ctx.emitted, want)
	}
	for i := range want {
		if ctx.emitted[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, ctx.emitted[i], want[i])
		}
	}
}

func TestDSWFillsWordsWithGivenByte(t *testing.T) {
	ctx := newStub()
	run(t, "DSW", "2,$FF", ctx)
	if len(ctx.emitted) != 4 {
		t.Fatalf("got %v", ctx.emitted)
	}
	for _, b := range ctx.emitted {
		if b != 0xFF {
			t.Fatalf("expected all 0xFF, got %v", ctx.emitted)
		}
	}
}

func TestHexDirectiveParsesBytePairs(t *testing.T) {
	ctx := newStub()
	run(t, "HEX", "deadbeef", ctx)
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if len(ctx.emitted) != len(want) {
		t.Fatalf("got %v, want %v", ctx.emitted, want)
	}
	for i := range want {
		if ctx.emitted[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, ctx.emitted[i], want[i])
		}
	}
}

func TestEnumSuppressesThroughEnde(t *testing.T) {
	ctx := newStub()
	run(t, "ENUM", "$C000", ctx)
	if !ctx.enum {
		t.Fatal("expected ENUM to enter enum mode")
	}
	run(t, "ENDE", "", ctx)
	if ctx.enum {
		t.Fatal("expected ENDE to leave enum mode")
	}
}

func TestIfdefTracksDefinedSymbol(t *testing.T) {
	ctx := newStub()
	ctx.symbols["FLAG"] = true
	run(t, "IFDEF", "FLAG", ctx)
	if ctx.Skipping() {
		t.Fatal("expected IFDEF FLAG to not be skipping when FLAG is defined")
	}

	ctx2 := newStub()
	run(t, "IFNDEF", "FLAG", ctx2)
	if ctx2.Skipping() {
		t.Fatal("expected IFNDEF FLAG to not be skipping when FLAG is undefined")
	}
}

func TestAssertFailsOnZero(t *testing.T) {
	ctx := newStub()
	run(t, "ASSERT", `0, "boom"`, ctx)
	if ctx.failTag != "AssertionFailed" || ctx.failMsg != "boom" {
		t.Fatalf("tag=%q msg=%q", ctx.failTag, ctx.failMsg)
	}
}

func TestAssertPassesOnNonzero(t *testing.T) {
	ctx := newStub()
	run(t, "ASSERT", "1", ctx)
	if ctx.failTag != "" {
		t.Fatalf("did not expect a failure, got %q", ctx.failTag)
	}
}

func TestEchoRecordsMessage(t *testing.T) {
	ctx := newStub()
	run(t, "ECHO", `"hello"`, ctx)
	if len(ctx.echoed) != 1 || ctx.echoed[0] != "hello" {
		t.Fatalf("got %v", ctx.echoed)
	}
}

func TestStrayEndmFails(t *testing.T) {
	ctx := newStub()
	run(t, "ENDM", "", ctx)
	if ctx.failTag != "ExtraEndM" {
		t.Fatalf("expected ExtraEndM, got %q", ctx.failTag)
	}
}

func TestStrayEndeFails(t *testing.T) {
	ctx := newStub()
	run(t, "ENDE", "", ctx)
	if ctx.failTag != "ExtraEndE" {
		t.Fatalf("expected ExtraEndE, got %q", ctx.failTag)
	}
}

func TestPadWithTrailingFillDoesNotStick(t *testing.T) {
	ctx := newStub()
	ctx.SetFill(0x00)
	run(t, "PAD", "2,$EA", ctx)
	for _, b := range ctx.emitted {
		if b != 0xEA {
			t.Fatalf("expected scoped fill 0xEA, got %#x", b)
		}
	}
	if ctx.FillByte() != 0x00 {
		t.Fatalf("sticky fill leaked: got %#x, want 0x00", ctx.FillByte())
	}

	run(t, "PAD", "3", ctx)
	if len(ctx.emitted) != 3 || ctx.emitted[2] != 0x00 {
		t.Fatalf("unqualified PAD after a fill-qualified one should still use the default, got %v", ctx.emitted)
	}
}
