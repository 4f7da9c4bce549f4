package symtab

import (
	"testing"

	"asm8/lexer"
)

func pos(seq int) lexer.Position {
	return lexer.Position{File: "t.asm", Line: seq, Seq: seq}
}

func TestDefineGlobalScoping(t *testing.T) {
	tab := New()

	l1, existed, err := tab.Define("START", KindLabel, 1, false, pos(1))
	if err != nil || existed {
		t.Fatalf("unexpected result defining START: %v %v", existed, err)
	}
	l1.Number = 0x8000
	l1.AddressKnown = true

	if l1.Scope != 0 {
		t.Fatalf("expected global label to have scope 0, got %d", l1.Scope)
	}

	scopeBefore := tab.CurrentScope()
	l2, _, err := tab.Define("@loop", KindLabel, 1, false, pos(2))
	if err != nil {
		t.Fatal(err)
	}
	if l2.Scope != scopeBefore {
		t.Fatalf("expected local label to attach to scope %d, got %d", scopeBefore, l2.Scope)
	}

	found, ok := tab.Lookup("START", scopeBefore)
	if !ok || found != l1 {
		t.Fatal("expected to find START from a different scope via global fallback")
	}
}

func TestDefineDuplicateFails(t *testing.T) {
	tab := New()
	if _, _, err := tab.Define("X", KindLabel, 1, false, pos(1)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := tab.Define("X", KindLabel, 1, false, pos(2)); err == nil {
		t.Fatal("expected a LabelAlreadyDefined-style error on duplicate define")
	}
}

func TestDefineValueReassignAllowed(t *testing.T) {
	tab := New()
	l, _, err := tab.Define("COUNT", KindValue, 1, false, pos(1))
	if err != nil {
		t.Fatal(err)
	}
	l.Number = 1

	l2, existed, err := tab.Define("COUNT", KindValue, 1, false, pos(2))
	if err != nil {
		t.Fatalf("expected VALUE redefinition within the same pass to be allowed: %v", err)
	}
	if !existed || l2 != l {
		t.Fatal("expected the same label to be returned on VALUE reassignment")
	}
}

func TestAnonymousForwardAcrossPasses(t *testing.T) {
	tab := New()

	// Pass 1: the "+" reference at seq=1 can't see the later "+:" def
	// recorded at seq=5, since forward lookups only consult the
	// previous pass's snapshot.
	if _, ok := tab.LookupAnonymousForward(pos(1), 1); ok {
		t.Fatal("did not expect a forward match on the first pass")
	}
	tab.DefineAnonymousForward(pos(5), 0x10)
	tab.ResetPass()

	// Pass 2: now the snapshot from pass 1 is visible.
	v, ok := tab.LookupAnonymousForward(pos(1), 1)
	if !ok || v != 0x10 {
		t.Fatalf("expected forward lookup to resolve to 0x10, got %d (ok=%v)", v, ok)
	}
}

func TestAnonymousBackwardWithinPass(t *testing.T) {
	tab := New()
	tab.DefineAnonymousBackward(pos(1), 0x20)
	tab.DefineAnonymousBackward(pos(2), 0x30)

	v, ok := tab.LookupAnonymousBackward(pos(3), 1)
	if !ok || v != 0x30 {
		t.Fatalf("expected nearest backward match to be 0x30, got %d (ok=%v)", v, ok)
	}

	v, ok = tab.LookupAnonymousBackward(pos(3), 2)
	if !ok || v != 0x20 {
		t.Fatalf("expected second backward match to be 0x20, got %d (ok=%v)", v, ok)
	}
}

func TestRegisterAndLookupReserved(t *testing.T) {
	tab := New()
	tab.RegisterDirective("ORG", "ORG")

	l, ok := tab.LookupReserved("org")
	if !ok {
		t.Fatal("expected case-insensitive reserved lookup to succeed")
	}
	if l.Directive != "ORG" {
		t.Fatalf("got directive tag %q, want ORG", l.Directive)
	}
}
