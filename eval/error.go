package eval

import (
	"fmt"

	"asm8/lexer"
)

// Error is an evaluation failure tagged with the taxonomy name the
// driver uses to decide pass-convergence vs. hard-failure handling.
type Error struct {
	Pos lexer.Position
	Tag string
	Msg string
}

func newError(pos lexer.Position, tag, f string, argv ...interface{}) *Error {
	return &Error{Pos: pos, Tag: tag, Msg: fmt.Sprintf(f, argv...)}
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Tags mirror the taxonomy entries an evaluation failure can raise.
const (
	TagNotANumber         = "NotANumber"
	TagUnknownLabel       = "UnknownLabel"
	TagCantDetermineAddr  = "CantDetermineAddress"
	TagIncompleteExpr     = "IncompleteExpression"
	TagDivideByZero       = "DivideByZero"
	TagMissingOperand     = "MissingOperand"
	TagExtraCharsOnLine   = "ExtraCharsOnLine"
)
