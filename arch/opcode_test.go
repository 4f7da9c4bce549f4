package arch

import "testing"

func TestEntries(t *testing.T) {
	entries, ok := Entries("lda")
	if !ok {
		t.Fatal("expected LDA to be a known mnemonic")
	}
	if len(entries) != 8 {
		t.Fatalf("expected 8 addressing modes for LDA, got %d", len(entries))
	}

	if entries[0].Mode != ZP || entries[0].Opcode != 0xA5 {
		t.Fatalf("expected LDA's first entry to be ZP/0xA5, got %+v", entries[0])
	}
}

func TestIsMnemonic(t *testing.T) {
	for _, name := range []string{"NOP", "brk", "Sta"} {
		if !IsMnemonic(name) {
			t.Errorf("expected %q to be a known mnemonic", name)
		}
	}
	if IsMnemonic("FROB") {
		t.Error("did not expect FROB to be a known mnemonic")
	}
}

func TestIsBranch(t *testing.T) {
	if !IsBranch("beq") {
		t.Error("expected BEQ to be a branch mnemonic")
	}
	if IsBranch("LDA") {
		t.Error("did not expect LDA to be a branch mnemonic")
	}
}

func TestMnemonicsCount(t *testing.T) {
	if n := len(Mnemonics()); n != 56 {
		t.Fatalf("expected 56 official mnemonics, got %d", n)
	}
}
