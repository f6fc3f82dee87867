package syntax

import (
	"errors"
	"fmt"
	"strconv"
)

// ParseError is a syntax error. Parsing stops at the first one; there is
// no recovery.
type ParseError struct {
	Pos  Pos
	Msg  string
	Rule string // grammar rule that failed
	eof  bool   // error occurred at end of input
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// AtEOF reports whether the parser ran out of input. More input might
// turn such a source into a valid expression.
func (e *ParseError) AtEOF() bool {
	return e.eof
}

// IsIncomplete reports whether err means the source ended too early, so that
// appending more input might make it valid: a parse error at end of input,
// or a string literal still open at end of input with no other lexical error.
func IsIncomplete(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.AtEOF()
	}
	var list LexErrors
	if errors.As(err, &list) && len(list) > 0 {
		return len(list) == 1 && list[0].Msg == msgUnterminated
	}
	return false
}

// Parser performs syntax analysis on a token sequence.
// A Parser is not safe for concurrent use, but independent Parsers share
// nothing and may run in parallel.
type Parser struct {
	tokens  []Token
	current int // index of the next token to consume; only ever increases
}

// NewParser creates a new Parser over tokens. The sequence should end with
// an EOF token, as produced by Lex; one is assumed if it does not.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseExpr lexes and parses src as a single expression.
func ParseExpr(filename string, src []byte) (Expr, error) {
	toks, err := Lex(filename, src)
	if err != nil {
		return nil, err
	}
	return NewParser(toks).Parse()
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete expression and returns the root of its tree.
// The whole token sequence must be consumed.
func (p *Parser) Parse() (Expr, error) {
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		tok := p.peek()
		return nil, p.errorAt(tok, "expression", fmt.Sprintf("unexpected %s after expression", describe(tok)))
	}
	return x, nil
}

// ----------------------------------------------------------------------------
// Token navigation

// peek returns the next token without consuming it.
func (p *Parser) peek() Token {
	if p.current < len(p.tokens) {
		return p.tokens[p.current]
	}
	// Synthesize EOF just past the last token.
	var pos Pos
	if n := len(p.tokens); n > 0 {
		pos = p.tokens[n-1].Pos
	}
	return Token{Kind: _EOF, Pos: pos}
}

// previous returns the most recently consumed token.
func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

// atEnd reports whether only EOF remains.
func (p *Parser) atEnd() bool {
	return p.peek().Kind == _EOF
}

// advance consumes the next token and returns it.
func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

// check reports whether the next token has kind k.
func (p *Parser) check(k Kind) bool {
	return p.peek().Kind == k
}

// match consumes the next token if its kind is one of kinds.
func (p *Parser) match(kinds ...Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// consume consumes the next token if it has kind k; otherwise it returns
// an error with msg.
func (p *Parser) consume(k Kind, rule, msg string) (Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	tok := p.peek()
	return Token{}, p.errorAt(tok, rule, msg+", found "+describe(tok))
}

// errorAt builds a ParseError located at tok.
func (p *Parser) errorAt(tok Token, rule, msg string) *ParseError {
	return &ParseError{Pos: tok.Pos, Msg: msg, Rule: rule, eof: tok.Kind == _EOF}
}

// describe returns a short quoted form of tok for error messages.
func describe(tok Token) string {
	switch tok.Kind {
	case _EOF:
		return "end of input"
	case _String:
		return strconv.Quote(tok.Lexeme)
	}
	return "'" + tok.Lexeme + "'"
}

// ----------------------------------------------------------------------------
// Expressions
//
// One function per precedence level, lowest first. Each binary level loops,
// folding repeated operators into a left-leaning tree.

// expression := equality
func (p *Parser) expression() (Expr, error) {
	return p.equality()
}

// equality := comparison ( ("==" | "!=") comparison )*
func (p *Parser) equality() (Expr, error) {
	return p.binary(p.comparison, _Eql, _Neq)
}

// comparison := addition ( (">" | ">=" | "<" | "<=") addition )*
func (p *Parser) comparison() (Expr, error) {
	return p.binary(p.addition, _Gtr, _Geq, _Lss, _Leq)
}

// addition := multiplication ( ("+" | "-") multiplication )*
func (p *Parser) addition() (Expr, error) {
	return p.binary(p.multiplication, _Add, _Sub)
}

// multiplication := unary ( ("*" | "/") unary )*
func (p *Parser) multiplication() (Expr, error) {
	return p.binary(p.unary, _Mul, _Div)
}

// binary parses a left-associative chain of operand separated by ops.
func (p *Parser) binary(operand func() (Expr, error), ops ...Kind) (Expr, error) {
	x, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(ops...) {
		op := p.previous()
		y, err := operand()
		if err != nil {
			return nil, err
		}
		x = NewBinary(x, op, y)
	}
	return x, nil
}

// unary := ("!" | "-") unary | primary
func (p *Parser) unary() (Expr, error) {
	if p.match(_Not, _Sub) {
		op := p.previous()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return NewUnary(op, x), nil
	}
	return p.primary()
}

// primary := "true" | "false" | "null" | NUMBER | STRING | "(" expression ")"
func (p *Parser) primary() (Expr, error) {
	tok := p.peek()

	switch {
	case p.match(_True):
		return NewBool(tok.Pos, true), nil

	case p.match(_False):
		return NewBool(tok.Pos, false), nil

	case p.match(_Null):
		return NewNil(tok.Pos), nil

	case p.match(_Number):
		// Digit runs past the float64 range convert to ±Inf with ErrRange;
		// Raw keeps the digits, and codegen rejects the infinite value.
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, p.errorAt(tok, "primary", fmt.Sprintf("malformed number %s", tok.Lexeme))
		}
		return NewNumber(tok.Pos, v, tok.Lexeme), nil

	case p.match(_String):
		return NewString(tok.Pos, tok.Lexeme), nil

	case p.match(_Lparen):
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(_Rparen, "primary", "expected ')' after expression"); err != nil {
			return nil, err
		}
		return NewGrouping(tok.Pos, x), nil
	}

	return nil, p.errorAt(tok, "primary", "expected expression, found "+describe(tok))
}
