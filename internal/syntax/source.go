package syntax

// eof is the sentinel returned by the source for positions at or past the
// end of input. It is never a valid byte value.
const eof = -1

// source is a byte reader with position tracking.
// The whole input is held in memory; characters are single bytes.
type source struct {
	// Input
	buf []byte // entire source buffer

	// Position tracking
	filename string // source file name
	line     uint32 // line of ch (1-based)
	col      uint32 // column of ch (1-based, byte offset in line)

	// Current state
	ch   int // current byte, eof at end of input
	offs int // byte offset of ch in buf

	// Error handling
	errh func(pos Pos, msg string)
}

// init resets s to the start of buf.
// The errh function is called for each error; if nil, errors are silently ignored.
func (s *source) init(filename string, buf []byte, errh func(pos Pos, msg string)) {
	*s = source{
		buf:      buf,
		filename: filename,
		line:     1,
		col:      1,
		errh:     errh,
	}
	s.ch = s.peek(0)
}

// nextch advances to the next byte.
//
// Position tracking: (line, col) always refers to the position of s.ch after
// nextch returns. Advancing past a '\n' starts a new line at column 1.
func (s *source) nextch() {
	if s.ch == eof {
		return
	}
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.offs++
	s.ch = s.peek(0)
}

// peek returns the byte offset bytes ahead of the current one, or eof if
// that position is at or past the end of input. peek(0) is s.ch.
func (s *source) peek(offset int) int {
	i := s.offs + offset
	if i < 0 || i >= len(s.buf) {
		return eof
	}
	return int(s.buf[i])
}

// pos returns the position of the current byte.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// errorAt reports a lexical error at pos.
func (s *source) errorAt(pos Pos, msg string) {
	if s.errh != nil {
		s.errh(pos, msg)
	}
}

// Character classification helpers

// isLetter reports whether c is a letter (a-z, A-Z, or _).
func isLetter(c int) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

// isDigit reports whether c is a decimal digit (0-9).
func isDigit(c int) bool {
	return '0' <= c && c <= '9'
}

// isWhitespace reports whether c is insignificant whitespace.
func isWhitespace(c int) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
