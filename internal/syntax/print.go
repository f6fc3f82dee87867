package syntax

import (
	"fmt"
	"io"
	"strings"
)

// ----------------------------------------------------------------------------
// Canonical form
//
// Every Binary and Unary node prints as (op operand...), every Grouping as
// (group inner), and literals as their value. The output is fully
// parenthesized, so two trees print the same exactly when they have the
// same shape, operators and values.

// Sprint returns the canonical form of e.
func Sprint(e Expr) string {
	return Accept[string](e, canonical{})
}

// Fprint writes the canonical form of e to w, followed by a newline.
func Fprint(w io.Writer, e Expr) error {
	_, err := io.WriteString(w, Sprint(e)+"\n")
	return err
}

// canonical renders the canonical form. It has no state.
type canonical struct{}

func (c canonical) VisitBinary(n *Binary) string {
	return c.parenthesize(n.Op.Lexeme, n.Left, n.Right)
}

func (c canonical) VisitGrouping(n *Grouping) string {
	return c.parenthesize("group", n.X)
}

func (c canonical) VisitLiteral(n *Literal) string {
	return n.ValueString()
}

func (c canonical) VisitUnary(n *Unary) string {
	return c.parenthesize(n.Op.Lexeme, n.X)
}

func (c canonical) parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		b.WriteString(Accept[string](e, c))
	}
	b.WriteByte(')')
	return b.String()
}

// ----------------------------------------------------------------------------
// Tree form

// FprintTree writes an indented, one-node-per-line representation of e to w,
// including source positions.
func FprintTree(w io.Writer, e Expr) error {
	p := &treePrinter{w: w}
	Accept[struct{}](e, p)
	return p.err
}

type treePrinter struct {
	w      io.Writer
	indent int
	err    error // first write error
}

func (p *treePrinter) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *treePrinter) child(e Expr) {
	p.indent++
	Accept[struct{}](e, p)
	p.indent--
}

func (p *treePrinter) VisitBinary(n *Binary) struct{} {
	p.printf("Binary %s %s\n", n.Op.Lexeme, n.pos)
	p.child(n.Left)
	p.child(n.Right)
	return struct{}{}
}

func (p *treePrinter) VisitGrouping(n *Grouping) struct{} {
	p.printf("Grouping %s\n", n.pos)
	p.child(n.X)
	return struct{}{}
}

func (p *treePrinter) VisitLiteral(n *Literal) struct{} {
	switch n.Kind {
	case StringLit:
		p.printf("Literal %s %q %s\n", n.Kind, n.Str, n.pos)
	case NilLit:
		p.printf("Literal %s %s\n", n.Kind, n.pos)
	default:
		p.printf("Literal %s %s %s\n", n.Kind, n.ValueString(), n.pos)
	}
	return struct{}{}
}

func (p *treePrinter) VisitUnary(n *Unary) struct{} {
	p.printf("Unary %s %s\n", n.Op.Lexeme, n.pos)
	p.child(n.X)
	return struct{}{}
}

// ----------------------------------------------------------------------------
// Tokens

// FprintTokens writes a table of tokens with their positions to w.
func FprintTokens(w io.Writer, toks []Token) error {
	if _, err := fmt.Fprintf(w, "%-20s %-16s %s\n", "POSITION", "TOKEN", "LEXEME"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-20s %-16s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 16), strings.Repeat("-", 20)); err != nil {
		return err
	}
	for _, tok := range toks {
		if _, err := fmt.Fprintf(w, "%-20s %-16s %q\n", tok.Pos, tok.Kind, tok.Lexeme); err != nil {
			return err
		}
	}
	return nil
}
