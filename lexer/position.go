// Package lexer provides the line-level scanning primitives shared by
// the preprocessor, expression evaluator and directive dispatcher: an
// immutable-text Cursor and the atom-recognizer helpers (numbers,
// strings, identifiers, operators) used to walk a source line without
// ever mutating the line itself.
package lexer

import "fmt"

// Position identifies where a token or line originated, for error
// reporting and for ordering anonymous-label definitions across an
// entire assembly (Seq is a monotonically increasing counter stamped
// by the pass driver as it visits each line, including lines pulled in
// through nested INCLUDE files, so forward/backward anonymous-label
// lookups can be resolved by simple comparison even across file
// boundaries).
type Position struct {
	File string
	Line int
	Seq  int
}

func (p Position) String() string {
	return fmt.Sprintf("%s(%d)", p.File, p.Line)
}

// Before reports whether p occurred strictly earlier in the assembly
// than other.
func (p Position) Before(other Position) bool {
	return p.Seq < other.Seq
}
