package syntax

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// msgUnterminated is the message of the one lexical error that more input
// could repair.
const msgUnterminated = "unterminated string"

// LexError is a lexical error: an unrecognized byte or an unterminated string.
type LexError struct {
	Pos Pos
	Msg string
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Line returns the line on which the offending lexeme began.
func (e *LexError) Line() int { return int(e.Pos.Line()) }

// Column returns the column on which the offending lexeme began.
func (e *LexError) Column() int { return int(e.Pos.Col()) }

// LexErrors is the failure value of a lexical pass. It holds every error
// found, in source order, and is never empty.
type LexErrors []*LexError

func (l LexErrors) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	b.WriteString(l[0].Error())
	fmt.Fprintf(&b, " (and %d more errors)", len(l)-1)
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l LexErrors) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Scanner performs lexical analysis on Ko source code.
type Scanner struct {
	source // embedded byte reader

	tok    Token // current token
	errcnt int
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are
// only counted.
func NewScanner(filename string, src io.Reader, errh func(pos Pos, msg string)) *Scanner {
	s := &Scanner{}
	buf, err := io.ReadAll(src)
	s.init(filename, buf, errh)
	if err != nil {
		s.error(s.pos(), "error reading source: "+err.Error())
	}
	return s
}

func newScanner(filename string, buf []byte, errh func(pos Pos, msg string)) *Scanner {
	s := &Scanner{}
	s.init(filename, buf, errh)
	return s
}

// Lex scans the whole of src and returns its tokens, terminated by a single
// EOF token. If any lexical error occurs, scanning continues so that every
// error is reported, but no tokens are returned and the error is a LexErrors.
func Lex(filename string, src []byte) ([]Token, error) {
	var errs LexErrors
	s := newScanner(filename, src, func(pos Pos, msg string) {
		errs = append(errs, &LexError{Pos: pos, Msg: msg})
	})

	var toks []Token
	for {
		s.Next()
		toks = append(toks, s.tok)
		if s.tok.Kind == _EOF {
			break
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return toks, nil
}

// Next advances to the next token.
// After the end of input has been reached, Next keeps returning EOF.
func (s *Scanner) Next() {
redo:
	// 1. Skip whitespace; nextch does the line bookkeeping.
	for isWhitespace(s.ch) {
		s.nextch()
	}

	// 2. Line comments.
	if s.ch == '/' && s.peek(1) == '/' {
		s.skipLineComment()
		goto redo
	}

	start, offs := s.pos(), s.offs

	switch {
	case s.ch == eof:
		s.tok = Token{Kind: _EOF, Pos: start, Offset: offs}
		return

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()
		return

	default:
		if !s.scanOperator() {
			s.error(start, fmt.Sprintf("unexpected character %q", rune(s.ch)))
			s.nextch()
			goto redo
		}
	}

	s.tok = Token{
		Kind:   s.tok.Kind,
		Lexeme: string(s.buf[offs:s.offs]),
		Pos:    start,
		Offset: offs,
	}
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return s.tok
}

// ErrorCount returns the number of lexical errors seen so far.
func (s *Scanner) ErrorCount() int {
	return s.errcnt
}

func (s *Scanner) error(pos Pos, msg string) {
	s.errcnt++
	s.errorAt(pos, msg)
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	start := s.offs
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
	s.tok.Kind = LookupKeyword(string(s.buf[start:s.offs]))
}

// scanNumber scans a number literal: digits, optionally followed by '.' and
// more digits. A '.' not followed by a digit is left for the next token.
func (s *Scanner) scanNumber() {
	for isDigit(s.ch) {
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peek(1)) {
		s.nextch() // consume .
		for isDigit(s.ch) {
			s.nextch()
		}
	}
	s.tok.Kind = _Number
}

// scanString scans a string literal. The token lexeme is the text between
// the quotes; there are no escape sequences.
func (s *Scanner) scanString() {
	start, offs := s.pos(), s.offs
	s.nextch() // skip opening "

	for s.ch != '"' {
		if s.ch == eof {
			s.error(start, msgUnterminated)
			s.tok = Token{Kind: _String, Lexeme: string(s.buf[offs+1:]), Pos: start, Offset: offs}
			return
		}
		s.nextch()
	}

	s.tok = Token{Kind: _String, Lexeme: string(s.buf[offs+1 : s.offs]), Pos: start, Offset: offs}
	s.nextch() // skip closing "
}

// scanOperator scans punctuation and operators.
// Returns false if the current byte does not start one.
func (s *Scanner) scanOperator() bool {
	var k Kind
	switch s.ch {
	case '(':
		k = _Lparen
	case ')':
		k = _Rparen
	case '{':
		k = _Lbrace
	case '}':
		k = _Rbrace
	case ',':
		k = _Comma
	case '.':
		k = _Dot
	case '-':
		k = _Sub
	case '+':
		k = _Add
	case ';':
		k = _Semi
	case '*':
		k = _Mul
	case '/':
		// Comments were handled by the caller.
		k = _Div
	case '!':
		k = s.twoChar(_Not, _Neq)
	case '=':
		k = s.twoChar(_Assign, _Eql)
	case '>':
		k = s.twoChar(_Gtr, _Geq)
	case '<':
		k = s.twoChar(_Lss, _Leq)
	default:
		return false
	}
	s.nextch()
	s.tok.Kind = k
	return true
}

// twoChar returns with if the byte after the current one is '=' (and
// consumes the current byte), otherwise it returns single.
func (s *Scanner) twoChar(single, with Kind) Kind {
	if s.peek(1) == '=' {
		s.nextch()
		return with
	}
	return single
}

// skipLineComment skips a line comment (from // to end of line).
// The newline itself is left for the whitespace loop.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch != eof {
		s.nextch()
	}
}

// IsLexError reports whether err carries at least one LexError.
func IsLexError(err error) bool {
	var le *LexError
	return errors.As(err, &le)
}
