package lexer

import "testing"

func TestScanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$1A2b", "$1A2b"},
		{"%1010 ", "%1010"},
		{"1234,", "1234"},
		{"0FFh+1", "0FFh"},
		{"1_000_000", "1_000_000"},
	}

	for _, tt := range tests {
		lit, _, ok := ScanNumber(NewCursor(tt.in))
		if !ok {
			t.Errorf("ScanNumber(%q): expected a match", tt.in)
			continue
		}
		if lit != tt.want {
			t.Errorf("ScanNumber(%q) = %q, want %q", tt.in, lit, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"$FF", 255},
		{"%1010", 10},
		{"42", 42},
		{"0FFh", 255},
		{"1010b", 10},
		{"1_000", 1000},
	}

	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if err != nil {
			t.Errorf("ParseNumber(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestScanString(t *testing.T) {
	lit, next, ok := ScanString(NewCursor(`"hi\n"rest`))
	if !ok {
		t.Fatal("expected a match")
	}
	if lit != "hi\n" {
		t.Fatalf("got %q, want %q", lit, "hi\n")
	}
	if next.Rest() != "rest" {
		t.Fatalf("cursor left at %q, want %q", next.Rest(), "rest")
	}
}

func TestSplitComment(t *testing.T) {
	code, comment := SplitComment(`LDA #1 ; load one`)
	if code != "LDA #1 " {
		t.Errorf("code = %q", code)
	}
	if comment != " load one" {
		t.Errorf("comment = %q", comment)
	}

	code, comment = SplitComment(`DB "a;b" ; real comment`)
	if code != `DB "a;b" ` {
		t.Errorf("code = %q", code)
	}
	if comment != " real comment" {
		t.Errorf("comment = %q", comment)
	}
}

func TestIsAnonymousLabel(t *testing.T) {
	tests := []struct {
		in      string
		forward bool
		count   int
		ok      bool
	}{
		{"+", true, 1, true},
		{"++", true, 2, true},
		{"-", false, 1, true},
		{"---", false, 3, true},
		{"+-", false, 0, false},
		{"foo", false, 0, false},
	}

	for _, tt := range tests {
		forward, count, ok := IsAnonymousLabel(tt.in)
		if ok != tt.ok || forward != tt.forward || count != tt.count {
			t.Errorf("IsAnonymousLabel(%q) = (%v,%v,%v), want (%v,%v,%v)",
				tt.in, forward, count, ok, tt.forward, tt.count, tt.ok)
		}
	}
}
