package output

import "testing"

func TestOrgTracksPhysicalOffsetByDefault(t *testing.T) {
	s := New()
	s.Org(0x8000)
	s.WriteByte(0xEA)
	if s.PC() != 0x8001 {
		t.Fatalf("PC = %#x, want 0x8001", s.PC())
	}
	if got := s.Bytes(); len(got) != 1 || got[0] != 0xEA {
		t.Fatalf("Bytes() = %v", got)
	}
}

func TestBaseDecouplesOffsetFromPC(t *testing.T) {
	s := New()
	s.Org(0x8000)
	s.Base(0)
	s.WriteByte(0x01)
	s.WriteByte(0x02)
	if s.PC() != 0x8002 {
		t.Fatalf("PC = %#x, want 0x8002", s.PC())
	}
	if got := s.Bytes(); len(got) != 2 || got[0] != 0x01 || got[1] != 0x02 {
		t.Fatalf("Bytes() = %v", got)
	}
}

func TestEnumSuppressesWritesButAdvancesPC(t *testing.T) {
	s := New()
	s.Org(0)
	s.EnterEnum()
	s.WriteByte(0xFF)
	s.WriteByte(0xFF)
	s.LeaveEnum()
	if s.PC() != 2 {
		t.Fatalf("PC = %d, want 2", s.PC())
	}
	if got := s.Bytes(); len(got) != 0 {
		t.Fatalf("expected no bytes written during ENUM, got %v", got)
	}
}

func TestPadToEmitsFillAndRejectsBackwardTarget(t *testing.T) {
	s := New()
	s.SetFill(0xAA)
	s.Org(0)
	if !s.PadTo(4) {
		t.Fatal("expected PadTo to succeed moving forward")
	}
	want := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	got := s.Bytes()
	if len(got) != len(want) {
		t.Fatalf("Bytes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes()[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}

	if s.PadTo(0) {
		t.Fatal("expected PadTo to fail moving backward")
	}
}

func TestResetClearsBufferButKeepsFill(t *testing.T) {
	s := New()
	s.SetFill(0x99)
	s.Org(0)
	s.WriteByte(1)
	s.Reset()
	if len(s.Bytes()) != 0 {
		t.Fatal("expected Reset to clear the buffer")
	}
	s.PadTo(1)
	if got := s.Bytes(); len(got) != 1 || got[0] != 0x99 {
		t.Fatalf("expected fill byte to persist across Reset, got %v", got)
	}
}
