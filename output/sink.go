// Package output implements the assembler's growable byte sink: the
// logical program counter and physical file offset the rest of the
// pipeline writes through.
package output

// Sink accumulates the bytes of one assembly pass. PC and offset track
// independently so BASE can relocate where bytes land in the output
// file without moving the addresses instructions are assembled
// against.
type Sink struct {
	buf []byte

	pc        int64
	offset    int64
	based     bool
	hasOrigin bool

	fill byte

	// enumDepth counts nested ENUM blocks; while > 0, writes advance
	// PC/offset but do not touch buf.
	enumDepth int

	minOffset int64
	maxOffset int64
	touched   bool
}

// New returns an empty sink with PC and offset both at 0 and the
// default filler byte 0x00.
func New() *Sink {
	return &Sink{fill: 0x00}
}

// PC returns the current logical program counter.
func (s *Sink) PC() int64 { return s.pc }

// SetFill sets the byte used by Pad/Align fills (FILLVALUE).
func (s *Sink) SetFill(b byte) { s.fill = b }

// FillByte returns the byte currently used by Pad/Align/Fill.
func (s *Sink) FillByte() byte { return s.fill }

// HasOrigin reports whether ORG has been issued yet this pass. Nothing
// may be emitted before it: the logical PC is otherwise undefined.
func (s *Sink) HasOrigin() bool { return s.hasOrigin }

// Org sets the logical PC to v. If BASE has never been set, the
// physical offset tracks it directly; otherwise the two remain
// decoupled by whatever distance BASE established.
func (s *Sink) Org(v int64) {
	delta := v - s.pc
	s.pc = v
	if !s.based {
		s.offset = v
	} else {
		s.offset += delta
	}
	s.hasOrigin = true
}

// Base sets the physical output offset explicitly, decoupling it from
// PC from this point forward.
func (s *Sink) Base(v int64) {
	s.offset = v
	s.based = true
}

// EnterEnum suppresses writes (PC/offset still advance) until a
// matching LeaveEnum.
func (s *Sink) EnterEnum() { s.enumDepth++ }

// LeaveEnum ends the innermost suppressed ENUM block.
func (s *Sink) LeaveEnum() {
	if s.enumDepth > 0 {
		s.enumDepth--
	}
}

// InEnum reports whether writes are currently suppressed.
func (s *Sink) InEnum() bool { return s.enumDepth > 0 }

// Write appends data at the current offset and advances both cursors
// by len(data). Suppressed while InEnum.
func (s *Sink) Write(data []byte) {
	if !s.InEnum() {
		s.ensure(s.offset + int64(len(data)))
		copy(s.buf[s.offset:], data)
		s.mark(s.offset, s.offset+int64(len(data)))
	}
	s.pc += int64(len(data))
	s.offset += int64(len(data))
}

// WriteByte appends a single byte, respecting ENUM suppression.
func (s *Sink) WriteByte(b byte) { s.Write([]byte{b}) }

// Fill emits n copies of the sink's current filler byte (PAD/ALIGN/DSB/DSW).
func (s *Sink) Fill(n int64) {
	for i := int64(0); i < n; i++ {
		s.WriteByte(s.fill)
	}
}

// PadTo emits filler bytes until PC reaches target. Returns false if
// target is behind the current PC (the caller raises OutOfRange).
func (s *Sink) PadTo(target int64) bool {
	if target < s.pc {
		return false
	}
	s.Fill(target - s.pc)
	return true
}

func (s *Sink) ensure(n int64) {
	if int64(len(s.buf)) >= n {
		return
	}
	grown := make([]byte, n)
	copy(grown, s.buf)
	s.buf = grown
}

func (s *Sink) mark(lo, hi int64) {
	if !s.touched {
		s.minOffset, s.maxOffset = lo, hi
		s.touched = true
		return
	}
	if lo < s.minOffset {
		s.minOffset = lo
	}
	if hi > s.maxOffset {
		s.maxOffset = hi
	}
}

// Bytes returns the exact span of the buffer that was actually
// written, byte-for-byte, with no padding for untouched leading or
// trailing regions.
func (s *Sink) Bytes() []byte {
	if !s.touched {
		return nil
	}
	return s.buf[s.minOffset:s.maxOffset]
}

// Reset clears the buffer and cursors for the start of a new pass. The
// filler byte is left unchanged; the pass driver sets it explicitly
// after each Reset.
func (s *Sink) Reset() {
	s.buf = nil
	s.pc = 0
	s.offset = 0
	s.based = false
	s.hasOrigin = false
	s.enumDepth = 0
	s.touched = false
	s.minOffset, s.maxOffset = 0, 0
}
