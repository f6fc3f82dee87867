package syntax

import (
	"fmt"
	"strconv"
)

// ----------------------------------------------------------------------------
// Interfaces
//
// The language is expressions only, so there is a single class of nodes.
// The set of node types is closed: Binary, Unary, Grouping and Literal.
// Consumers inspect nodes through Accept (see walk.go).

// Expr is the interface implemented by all expression nodes.
type Expr interface {
	Pos() Pos // position of first character belonging to the node
	aExpr()   // marker method to restrict implementations to this package
}

// expr is embedded in all expression nodes.
type expr struct {
	pos Pos
}

func (n *expr) Pos() Pos { return n.pos }
func (*expr) aExpr()     {}

// ----------------------------------------------------------------------------
// Expressions
//
// Nodes own their children exclusively and carry no parent pointers.
// They are built bottom-up by the parser and never modified afterwards.

// Binary represents Left Op Right.
type Binary struct {
	expr
	Left  Expr
	Op    Token // one of == != > >= < <= + - * /
	Right Expr
}

// Unary represents Op X.
type Unary struct {
	expr
	Op Token // ! or -
	X  Expr
}

// Grouping represents an explicitly parenthesized expression: (X).
// It has no effect on evaluation; precedence is encoded by tree shape.
type Grouping struct {
	expr
	X Expr
}

// LitKind represents the kind of a literal value.
type LitKind uint8

const (
	NumberLit LitKind = iota // 123, 4.5
	StringLit                // "text"
	BoolLit                  // true, false
	NilLit                   // null
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	NumberLit: "number",
	StringLit: "string",
	BoolLit:   "boolean",
	NilLit:    "nil",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= NilLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// Literal represents a leaf value. Exactly one of Number, Str and Bool is
// meaningful, selected by Kind; NilLit carries no payload.
type Literal struct {
	expr
	Kind   LitKind
	Number float64
	Str    string
	Bool   bool
	Raw    string // source lexeme of a number literal; empty if built in code
}

// ----------------------------------------------------------------------------
// Constructors
//
// The constructors panic on an operator kind the node cannot hold.
// Passing an operator of the wrong kind is a programming error.

// NewBinary returns the node left op right.
func NewBinary(left Expr, op Token, right Expr) *Binary {
	if !op.Kind.IsBinaryOp() {
		panic(fmt.Sprintf("syntax: %s is not a binary operator", op.Kind))
	}
	b := &Binary{Left: left, Op: op, Right: right}
	b.pos = left.Pos()
	return b
}

// NewUnary returns the node op x.
func NewUnary(op Token, x Expr) *Unary {
	if !op.Kind.IsUnaryOp() {
		panic(fmt.Sprintf("syntax: %s is not a unary operator", op.Kind))
	}
	u := &Unary{Op: op, X: x}
	u.pos = op.Pos
	return u
}

// NewGrouping returns the node (x) starting at pos.
func NewGrouping(pos Pos, x Expr) *Grouping {
	g := &Grouping{X: x}
	g.pos = pos
	return g
}

// NewNumber returns a number literal. raw is the source text, if any.
func NewNumber(pos Pos, v float64, raw string) *Literal {
	l := &Literal{Kind: NumberLit, Number: v, Raw: raw}
	l.pos = pos
	return l
}

// NewString returns a string literal.
func NewString(pos Pos, s string) *Literal {
	l := &Literal{Kind: StringLit, Str: s}
	l.pos = pos
	return l
}

// NewBool returns a boolean literal.
func NewBool(pos Pos, b bool) *Literal {
	l := &Literal{Kind: BoolLit, Bool: b}
	l.pos = pos
	return l
}

// NewNil returns the null literal.
func NewNil(pos Pos) *Literal {
	l := &Literal{Kind: NilLit}
	l.pos = pos
	return l
}

// Op returns a synthetic operator token of kind k, for building trees in code.
func Op(k Kind) Token {
	return Token{Kind: k, Lexeme: k.String()}
}

// ValueString returns the canonical textual form of the literal's value.
func (l *Literal) ValueString() string {
	switch l.Kind {
	case NumberLit:
		if l.Raw != "" {
			return l.Raw
		}
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	case StringLit:
		return l.Str
	case BoolLit:
		if l.Bool {
			return "true"
		}
		return "false"
	}
	return "nil"
}
