package directive

import (
	"strings"

	"asm8/lexer"
)

func handleIf(ctx Context, c lexer.Cursor) error {
	r, _, err := ctx.Eval(c)
	if err != nil {
		return err
	}
	return ctx.PushIf(r.Value != 0)
}

func handleIfdef(ctx Context, c lexer.Cursor) error {
	name, ok := identOperand(c)
	if !ok {
		ctx.Fail("NeedName", "IFDEF requires a symbol name")
		return nil
	}
	_, found, err := evalIdentExists(ctx, name)
	if err != nil {
		return err
	}
	return ctx.PushIf(found)
}

func handleIfndef(ctx Context, c lexer.Cursor) error {
	name, ok := identOperand(c)
	if !ok {
		ctx.Fail("NeedName", "IFNDEF requires a symbol name")
		return nil
	}
	_, found, err := evalIdentExists(ctx, name)
	if err != nil {
		return err
	}
	return ctx.PushIf(!found)
}

func handleElseif(ctx Context, c lexer.Cursor) error {
	r, _, err := ctx.Eval(c)
	if err != nil {
		return err
	}
	return ctx.ElseIf(r.Value != 0)
}

func handleElse(ctx Context, c lexer.Cursor) error {
	return ctx.Else()
}

func handleEndif(ctx Context, c lexer.Cursor) error {
	return ctx.PopIf()
}

func identOperand(c lexer.Cursor) (string, bool) {
	c = c.SkipSpace()
	name, _, ok := lexer.ScanIdent(c)
	return strings.TrimPrefix(name, "."), ok
}

// evalIdentExists tests whether name is bound in the symbol table at
// all, independent of its kind or value — that is what IFDEF/IFNDEF
// mean, as distinct from evaluating an expression.
func evalIdentExists(ctx Context, name string) (int64, bool, error) {
	return 0, ctx.SymbolExists(name), nil
}
