package syntax

import "testing"

func newTestSource(src string) *source {
	s := &source{}
	s.init("test", []byte(src), nil)
	return s
}

func TestSourceBasic(t *testing.T) {
	s := newTestSource("abc")

	want := []struct {
		ch   int
		line uint32
		col  uint32
	}{
		{'a', 1, 1},
		{'b', 1, 2},
		{'c', 1, 3},
		{eof, 1, 4},
	}

	for i, w := range want {
		if s.ch != w.ch || s.line != w.line || s.col != w.col {
			t.Errorf("step %d: got ch=%q pos=%d:%d, want ch=%q pos=%d:%d",
				i, s.ch, s.line, s.col, w.ch, w.line, w.col)
		}
		s.nextch()
	}
}

func TestSourceNewline(t *testing.T) {
	s := newTestSource("a\nb\nc")

	// 'a' at 1:1
	if s.ch != 'a' || s.line != 1 || s.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='a' pos=1:1", s.ch, s.line, s.col)
	}

	// '\n' at 1:2
	s.nextch()
	if s.ch != '\n' || s.line != 1 || s.col != 2 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='\\n' pos=1:2", s.ch, s.line, s.col)
	}

	// 'b' at 2:1 (after newline)
	s.nextch()
	if s.ch != 'b' || s.line != 2 || s.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='b' pos=2:1", s.ch, s.line, s.col)
	}

	// 'c' at 3:1
	s.nextch()
	s.nextch()
	if s.ch != 'c' || s.line != 3 || s.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='c' pos=3:1", s.ch, s.line, s.col)
	}
}

func TestSourceEmpty(t *testing.T) {
	s := newTestSource("")
	if s.ch != eof {
		t.Errorf("ch = %d, want eof", s.ch)
	}

	// Advancing at end of input is a no-op.
	s.nextch()
	if s.ch != eof || s.offs != 0 || s.col != 1 {
		t.Errorf("after nextch at eof: ch=%d offs=%d col=%d", s.ch, s.offs, s.col)
	}
}

func TestSourcePeek(t *testing.T) {
	s := newTestSource("ab")

	tests := []struct {
		offset int
		want   int
	}{
		{0, 'a'},
		{1, 'b'},
		{2, eof}, // exactly at end of input
		{3, eof}, // past end of input
		{-1, eof},
	}

	for _, tt := range tests {
		if got := s.peek(tt.offset); got != tt.want {
			t.Errorf("peek(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}

	s.nextch() // at 'b'
	if got := s.peek(1); got != eof {
		t.Errorf("peek(1) on last byte = %d, want eof", got)
	}
	if got := s.peek(-1); got != 'a' {
		t.Errorf("peek(-1) = %d, want 'a'", got)
	}
}

func TestSourcePos(t *testing.T) {
	s := newTestSource("x\ny")
	s.nextch()
	s.nextch()

	pos := s.pos()
	if pos.Line() != 2 || pos.Col() != 1 || pos.Filename() != "test" {
		t.Errorf("pos() = %s, want test:2:1", pos)
	}
}

func TestSourceErrorHandler(t *testing.T) {
	var got []string
	s := &source{}
	s.init("test", []byte("abc"), func(pos Pos, msg string) {
		got = append(got, pos.String()+": "+msg)
	})

	s.nextch()
	s.errorAt(s.pos(), "boom")

	if len(got) != 1 || got[0] != "test:1:2: boom" {
		t.Errorf("errors = %v, want [test:1:2: boom]", got)
	}

	// A nil handler must not panic.
	newTestSource("abc").errorAt(NewPos("test", 1, 1), "ignored")
}

func TestIsLetter(t *testing.T) {
	for _, c := range "azAZ_" {
		if !isLetter(int(c)) {
			t.Errorf("isLetter(%q) = false, want true", c)
		}
	}
	for _, c := range "09 .$@" {
		if isLetter(int(c)) {
			t.Errorf("isLetter(%q) = true, want false", c)
		}
	}
	if isLetter(eof) {
		t.Error("isLetter(eof) = true")
	}
}

func TestIsDigit(t *testing.T) {
	for _, c := range "0123456789" {
		if !isDigit(int(c)) {
			t.Errorf("isDigit(%q) = false, want true", c)
		}
	}
	for _, c := range "aZ_ ." {
		if isDigit(int(c)) {
			t.Errorf("isDigit(%q) = true, want false", c)
		}
	}
	if isDigit(eof) {
		t.Error("isDigit(eof) = true")
	}
}

func TestIsWhitespace(t *testing.T) {
	for _, c := range " \t\r\n" {
		if !isWhitespace(int(c)) {
			t.Errorf("isWhitespace(%q) = false, want true", c)
		}
	}
	for _, c := range "a0/\f" {
		if isWhitespace(int(c)) {
			t.Errorf("isWhitespace(%q) = true, want false", c)
		}
	}
}
