// Package directive implements the directive dispatcher: one handler
// per reserved directive keyword, each operating against the
// assembler's pass state through the Context interface so this
// package stays free of any dependency on the pass driver itself.
package directive

import (
	"asm8/eval"
	"asm8/lexer"
)

// Context is the slice of assembler pass state a directive handler
// needs. The assembler package implements it; tests supply a stub.
type Context interface {
	// Position returns the source position of the line being processed.
	Position() lexer.Position

	// Scope returns the lexical scope new local labels attach to.
	Scope() int

	// Eval evaluates one expression starting at c.
	Eval(c lexer.Cursor) (eval.Result, lexer.Cursor, error)

	// PC returns the current logical program counter.
	PC() int64
	SetOrg(v int64)
	SetBase(v int64)
	SetFill(b byte)
	FillByte() byte
	Pad(target int64) bool
	EmitBytes(data []byte)

	// MarkDependent forces another assembly pass: the line just emitted
	// bytes computed from a still-unresolved forward reference, so this
	// pass's output is only a placeholder.
	MarkDependent()

	EnterEnum()
	LeaveEnum()
	InEnum() bool

	DefineValue(name string, v int64) error
	DefineEquate(name, text string) error
	SymbolExists(name string) bool

	// BeginMacroCapture/BeginReptCapture switch the line walker into
	// capture mode; the walker itself recognizes the matching
	// terminator and finishes the capture.
	BeginMacroCapture(name string, params []string)
	BeginReptCapture(count int64)

	PushIf(cond bool) error
	ElseIf(cond bool) error
	Else() error
	PopIf() error
	Skipping() bool

	IncludeFile(path string) error
	IncludeBinary(path string, offset, size int64) error
	AddIncludeDir(path string)

	Echo(msg string)
	Fail(tag, format string, argv ...interface{})
}

// Handler processes one directive's operand text, starting at c
// (positioned just past the directive keyword and any separating
// space).
type Handler func(ctx Context, c lexer.Cursor) error

// table maps every recognized directive spelling to its handler. Several
// names are aliases of one handler (DB/BYTE/DCB/DC.B and friends).
var table map[string]Handler

func init() {
	table = map[string]Handler{
		"ORG":    handleOrg,
		"BASE":   handleBase,
		"PAD":    handlePad,
		"ALIGN":  handleAlign,
		"FILLVALUE": handleFillValue,

		"DB": handleBytes, "BYTE": handleBytes, "DCB": handleBytes, "DC.B": handleBytes,
		"DW": handleWords, "WORD": handleWords, "DCW": handleWords, "DC.W": handleWords,
		"DL": handleLowBytes,
		"DH": handleHighBytes,
		"DSB": handleDSB,
		"DSW": handleDSW,
		"HEX": handleHex,

		"INCBIN":  handleIncbin,
		"INCLUDE": handleInclude, "INCSRC": handleInclude,
		"INCDIR": handleIncdir,

		"MACRO": handleMacro,
		"REPT":  handleRept,
		"ENDM":  handleStrayEndm,
		"ENDR":  handleStrayEndr,

		"ENUM": handleEnum,
		"ENDE": handleEnde,

		"EQU": handleEqu,
		"=":   handleAssign,

		"IF": handleIf, "IFDEF": handleIfdef, "IFNDEF": handleIfndef,
		"ELSEIF": handleElseif, "ELSE": handleElse, "ENDIF": handleEndif,

		"ERROR":  handleError,
		"ECHO":   handleEcho,
		"ASSERT": handleAssert,
	}
}

// Lookup returns the handler registered for an upper-cased directive
// name, if any.
func Lookup(name string) (Handler, bool) {
	h, ok := table[name]
	return h, ok
}

// Names returns every directive keyword this package dispatches,
// for pre-registering them as RESERVED symbol-table entries.
func Names() []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}
