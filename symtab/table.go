package symtab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dolthub/swiss"

	"asm8/arch"
	"asm8/lexer"
)

// ErrLabelAlreadyDefined is returned by Define when name is already
// bound in the current pass with a non-reassignable kind.
type ErrLabelAlreadyDefined struct{ Name string }

func (e *ErrLabelAlreadyDefined) Error() string {
	return "label already defined: " + e.Name
}

// anonEntry records one anonymous-label definition's address and the
// position at which it was defined, so forward/backward lookups can
// be resolved by comparing Position.Seq.
type anonEntry struct {
	Pos     lexer.Position
	Address int64
}

// Table is the assembler's symbol table: a name -> stack-of-labels
// multimap (most recently pushed label last), backed by a SwissTable
// map for its hot per-line lookups, plus the scope counters and
// anonymous-label bookkeeping the pass driver resets every pass.
type Table struct {
	entries *swiss.Map[string, []*Label]

	// activeScope/nextScope are reset to 1/2 at the start of every
	// pass (spec.md 4.1 step 2). Defining a non-local label always
	// records Scope==0 on the label itself, but also opens a fresh
	// scope for any local labels that follow it in source order.
	activeScope int
	nextScope   int

	// Anonymous forward labels ("+", "++", ...) can only be resolved
	// against the previous pass's recorded positions, since within a
	// single top-to-bottom walk the defining "+:" has not been visited
	// yet when the reference is reached. anonForwardPrev is a frozen
	// snapshot taken at the start of each pass; anonForwardCur
	// accumulates this pass's definitions and becomes next pass's
	// snapshot.
	anonForwardPrev []anonEntry
	anonForwardCur  []anonEntry

	// Anonymous backward labels ("-", "--", ...) are always resolved
	// against definitions already visited earlier in the same pass.
	anonBackward []anonEntry
}

// New creates an empty symbol table with scope counters at their
// start-of-pass values.
func New() *Table {
	return &Table{
		entries:     swiss.NewMap[string, []*Label](256),
		activeScope: 1,
		nextScope:   2,
	}
}

// ResetPass prepares the table for a new pass: resets the scope
// counters, rolls this pass's anonymous-forward definitions into the
// snapshot the next pass will consult, and clears the backward list
// (which is rebuilt fresh every pass since it never needs history from
// a prior one).
func (t *Table) ResetPass() {
	t.activeScope = 1
	t.nextScope = 2
	t.anonForwardPrev = t.anonForwardCur
	t.anonForwardCur = nil
	t.anonBackward = nil
}

func (t *Table) stack(name string) []*Label {
	s, _ := t.entries.Get(name)
	return s
}

func (t *Table) setStack(name string, s []*Label) {
	t.entries.Put(name, s)
}

// RegisterReserved pre-registers a reserved word (mnemonic or
// directive keyword) at global scope 0. Reserved lookups are
// case-insensitive, so name is stored upper-cased.
func (t *Table) RegisterReserved(name string, build func(*Label)) {
	key := strings.ToUpper(name)
	l := &Label{Name: key, Kind: KindReserved, Scope: 0}
	build(l)
	t.setStack(key, append(t.stack(key), l))
}

// RegisterOpcode is a convenience wrapper around RegisterReserved for
// the 6502 mnemonic table.
func (t *Table) RegisterOpcode(name string, entries []arch.Entry) {
	t.RegisterReserved(name, func(l *Label) { l.Opcode = entries })
}

// RegisterDirective is a convenience wrapper around RegisterReserved
// for a directive dispatch tag.
func (t *Table) RegisterDirective(name, tag string) {
	t.RegisterReserved(name, func(l *Label) { l.Directive = tag })
}

// LookupReserved finds a pre-registered mnemonic or directive keyword,
// case-insensitively.
func (t *Table) LookupReserved(name string) (*Label, bool) {
	stack := t.stack(strings.ToUpper(name))
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind == KindReserved {
			return stack[i], true
		}
	}
	return nil, false
}

// CurrentScope returns the scope id that local (@-prefixed) labels
// defined right now would be attached to.
func (t *Table) CurrentScope() int { return t.activeScope }

// Lookup returns the innermost local match for name at the given
// scope if one exists, else the newest global (scope 0) match. name is
// matched case-sensitively, per the input format.
func (t *Table) Lookup(name string, scope int) (*Label, bool) {
	stack := t.stack(name)
	if len(stack) == 0 {
		return nil, false
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Scope == scope {
			return stack[i], true
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Scope == 0 {
			return stack[i], true
		}
	}
	return nil, false
}

// IsLocalName reports whether name should attach to the current scope
// rather than opening a new one: names starting with '@' are always
// local regardless of the caller-supplied local flag.
func IsLocalName(name string) bool {
	return len(name) > 0 && name[0] == '@'
}

// Define pushes or updates the label bound to name for the given pass.
// local forces attachment to the current scope even when the name
// itself doesn't start with '@' (used for block-local constructs);
// names starting with '@' are always local. Defining a non-local name
// allocates a fresh scope for any local labels that follow.
//
// Returns the label to populate (caller sets Number/Text/etc and
// AddressKnown), whether the label already existed prior to this call,
// and an error if name is already bound this pass with a
// non-reassignable kind.
func (t *Table) Define(name string, kind Kind, pass int, local bool, at lexer.Position) (label *Label, existed bool, err error) {
	local = local || IsLocalName(name)

	scope := 0
	if local {
		scope = t.activeScope
	}

	stack := t.stack(name)
	for _, l := range stack {
		if l.Scope != scope {
			continue
		}

		if l.DefinedPass == pass {
			if !(kind == KindValue && l.Kind == KindValue) {
				return nil, true, &ErrLabelAlreadyDefined{Name: name}
			}
		}

		l.Kind = kind
		l.DefinedPass = pass
		l.DefinedAt = at
		if !local {
			t.promoteScope()
		}
		return l, true, nil
	}

	l := &Label{Name: name, Kind: kind, Scope: scope, DefinedPass: pass, DefinedAt: at}
	t.setStack(name, append(stack, l))

	if !local {
		t.promoteScope()
	}

	return l, false, nil
}

func (t *Table) promoteScope() {
	t.activeScope = t.nextScope
	t.nextScope++
}

// DefineAnonymousForward records a "+:"-style label definition at pos
// with the given address, for the next pass's forward lookups.
func (t *Table) DefineAnonymousForward(pos lexer.Position, address int64) {
	t.anonForwardCur = append(t.anonForwardCur, anonEntry{Pos: pos, Address: address})
}

// DefineAnonymousBackward records a "-:"-style label definition at pos
// with the given address, immediately available to later lookups in
// the same pass.
func (t *Table) DefineAnonymousBackward(pos lexer.Position, address int64) {
	t.anonBackward = append(t.anonBackward, anonEntry{Pos: pos, Address: address})
}

// LookupAnonymousForward resolves a reference spelled with count '+'
// characters at pos: the count-th forward anonymous label defined
// after pos in the previous pass. Returns false if fewer than count
// such definitions exist yet (forcing another pass).
func (t *Table) LookupAnonymousForward(pos lexer.Position, count int) (int64, bool) {
	n := 0
	for _, e := range t.anonForwardPrev {
		if pos.Before(e.Pos) {
			n++
			if n == count {
				return e.Address, true
			}
		}
	}
	return 0, false
}

// Frontier returns a stable snapshot of every LABEL-kind entry's
// address, for the pass driver's convergence check: identical
// frontiers on two consecutive passes mean no forward reference
// shifted, so the next pass can safely be the final lastChance pass.
func (t *Table) Frontier() string {
	var parts []string
	t.entries.Iter(func(name string, stack []*Label) bool {
		for _, l := range stack {
			if l.Kind == KindLabel {
				parts = append(parts, fmt.Sprintf("%s@%d=%d", name, l.Scope, l.Number))
			}
		}
		return false
	})
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// LookupAnonymousBackward resolves a reference spelled with count '-'
// characters at pos: the count-th backward anonymous label defined
// before pos, counting from the nearest one outward.
func (t *Table) LookupAnonymousBackward(pos lexer.Position, count int) (int64, bool) {
	n := 0
	for i := len(t.anonBackward) - 1; i >= 0; i-- {
		e := t.anonBackward[i]
		if e.Pos.Before(pos) {
			n++
			if n == count {
				return e.Address, true
			}
		}
	}
	return 0, false
}
