package directive

import "asm8/lexer"

// handleEqu and handleAssign never bind a name: this package only sees
// the operand text. Name binding is performed by the pass driver
// directly — "NAME EQU text" and "NAME = value" are recognized before
// generic dispatch (see the pass's dispatchExpanded in package
// assembler), not through this table.
//
// These entries exist only so EQU/= are excluded from "undefined
// directive, must be a label" fallthrough; reaching them directly
// indicates a stray "EQU"/"=" with no preceding name, which is a
// NeedName error.
func handleEqu(ctx Context, c lexer.Cursor) error {
	ctx.Fail("NeedName", "EQU requires a preceding label name")
	return nil
}

func handleAssign(ctx Context, c lexer.Cursor) error {
	ctx.Fail("NeedName", "'=' requires a preceding label name")
	return nil
}
