// Package symtab implements the assembler's symbol table: a
// multimap of name to an ordered stack of labels, with per-name
// scope/pass lookup rules. See the package-level Table type for the
// full contract.
package symtab

import (
	"asm8/arch"
	"asm8/lexer"
)

// Kind identifies what a Label holds. This is the tagged-variant
// replacement for a dynamically-typed label value: exactly one of the
// value fields on Label is meaningful for a given Kind.
type Kind int

const (
	KindLabel Kind = iota // Address computed by position (a ':' label).
	KindValue             // Free integer, from '=' or ENUM.
	KindEquate            // Source text for textual substitution (EQU).
	KindMacro             // Captured macro body plus parameter names.
	KindReserved          // Pre-registered opcode or directive keyword.
)

func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindValue:
		return "value"
	case KindEquate:
		return "equate"
	case KindMacro:
		return "macro"
	case KindReserved:
		return "reserved"
	}
	return "?"
}

// MacroBody is the captured, unexpanded body of a MACRO definition:
// its formal parameter names and the raw source lines between MACRO
// and ENDM.
type MacroBody struct {
	Params []string
	Lines  []string
}

// Label is the central symbol-table entity. Exactly one of Number,
// Text, Macro, Opcode or Directive is meaningful, selected by Kind.
type Label struct {
	Name string
	Kind Kind
	// Scope is 0 for global labels and reserved words, nonzero for
	// labels local to a lexical block opened by a preceding global
	// label.
	Scope int

	// DefinedPass is the pass number in which this entry last
	// received a definition.
	DefinedPass int

	// AddressKnown is set once this entry's Number has been pinned
	// for the current pass; the expression evaluator consults this to
	// decide whether a reference is dependent on a not-yet-resolved
	// symbol.
	AddressKnown bool

	// Number holds the address (KindLabel) or free value (KindValue).
	Number int64

	// Text holds the substitution source for an EQU (KindEquate).
	Text string

	// Macro holds the captured body for a MACRO (KindMacro).
	Macro *MacroBody

	// Opcode holds the addressing-mode table for a mnemonic
	// (KindReserved opcodes only).
	Opcode []arch.Entry

	// Directive holds the dispatch tag for a directive keyword
	// (KindReserved directives only).
	Directive string

	// recursionGuard flags that this equate's expansion is currently
	// in progress, to detect RecursiveEquate. It is flipped around the
	// expansion call and restored on every exit path, including
	// errors, by the preprocessor.
	recursionGuard bool

	// DefinedAt records where this entry was most recently (re)bound,
	// for ordering anonymous labels and for diagnostics.
	DefinedAt lexer.Position
}

// Expanding reports whether this equate is currently being expanded,
// for cycle detection.
func (l *Label) Expanding() bool { return l.recursionGuard }

// BeginExpand marks this equate as currently expanding. Callers must
// invoke the returned function (typically via defer) to release the
// guard on every exit path, per the spec's recursion_guard discipline.
func (l *Label) BeginExpand() func() {
	l.recursionGuard = true
	return func() { l.recursionGuard = false }
}
