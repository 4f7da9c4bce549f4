package lexer

import "fmt"

// Error defines a scanning error with source context.
type Error struct {
	Pos Position
	Msg string
}

func NewError(pos Position, f string, argv ...interface{}) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(f, argv...)}
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}
