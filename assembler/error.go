// Package assembler implements the iterative-pass driver: it owns the
// symbol table, output sink and pass-local state, and ties the
// preprocessor, evaluator and directive dispatcher together into one
// source walk per pass.
package assembler

import "asm8/lexer"

// Error is a Position-stamped assembly failure, tagged with one of the
// taxonomy names below so callers (and tests) can branch on failure
// kind without parsing Msg.
type Error struct {
	Pos lexer.Position
	Tag string
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

func newError(pos lexer.Position, tag, msg string) *Error {
	return &Error{Pos: pos, Tag: tag, Msg: msg}
}

// Taxonomy of assembly failures. Names match spec terminology exactly
// so error-message greps and tests can rely on them.
const (
	OutOfRange           = "OutOfRange"
	NotANumber           = "NotANumber"
	UnknownLabel         = "UnknownLabel"
	IllegalInstruction   = "IllegalInstruction"
	IncompleteExpression = "IncompleteExpression"
	LabelAlreadyDefined  = "LabelAlreadyDefined"
	MissingOperand       = "MissingOperand"
	DivideByZero         = "DivideByZero"
	CantDetermineAddress = "CantDetermineAddress"
	NeedName             = "NeedName"
	CantOpenFile         = "CantOpenFile"
	ExtraEndM            = "ExtraEndM"
	ExtraEndR            = "ExtraEndR"
	ExtraEndE            = "ExtraEndE"
	RecursiveMacro       = "RecursiveMacro"
	RecursiveEquate      = "RecursiveEquate"
	MissingEndIf         = "MissingEndIf"
	MissingEndM          = "MissingEndM"
	MissingEndR          = "MissingEndR"
	MissingEndE          = "MissingEndE"
	IfNestLimit          = "IfNestLimit"
	UndefinedPC          = "UndefinedPC"
	BadIncbinSize        = "BadIncbinSize"
	SeekOutOfRange       = "SeekOutOfRange"
	ExtraCharsOnLine     = "ExtraCharsOnLine"
	AssertionFailed      = "AssertionFailed"
	UserError            = "UserError"
)

// maxIfDepth is the conditional-assembly stack depth cap.
const maxIfDepth = 32

// defaultMaxPasses is the hard ceiling on assembly passes before
// lastChance forces convergence or failure, absent an overriding
// project configuration value.
const defaultMaxPasses = 7
