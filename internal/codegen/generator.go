// Package codegen generates ARM64 assembly for a Ko expression.
//
// The generated program evaluates the expression into x0 and exits with
// that value as its status. Numbers must be integers; booleans are 1 and 0,
// null is 0, and a string evaluates to the address of its bytes.
package codegen

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/you-not-fish/koc/internal/rtabi"
	"github.com/you-not-fish/koc/internal/syntax"
)

// Error is a code generation error: a tree that is syntactically valid but
// has no machine representation.
type Error struct {
	Pos syntax.Pos
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// location names the register a visit left its value in.
type location string

const inResult location = rtabi.ResultReg

// Generate returns the assembly program for root.
func Generate(root syntax.Expr) (string, error) {
	var b strings.Builder
	if err := Fprint(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Fprint writes the assembly program for root to w. Nothing is written if
// the tree cannot be compiled.
func Fprint(w io.Writer, root syntax.Expr) error {
	g := newGenerator()
	g.generate(root)
	if g.err != nil {
		return g.err
	}

	e := &emitter{w: w}
	if len(g.strings) > 0 {
		e.emitDirective("section %s", rtabi.DataSection)
		for i, s := range g.strings {
			e.emitLabel(stringLabel(i))
			e.emitInst(".asciz \"%s\"", escapeString(s))
		}
		e.emitLine()
	}

	e.emitDirective("section %s", rtabi.TextSection)
	e.emitDirective("globl %s", rtabi.EntrySymbol)
	e.emitDirective("p2align 2")
	e.emitLine()
	e.emitLabel(rtabi.EntrySymbol)
	if e.err != nil {
		return e.err
	}
	_, err := g.body.WriteTo(w)
	return err
}

// generator implements syntax.Visitor. Every visit leaves the value of its
// node in x0; binary operations spill the left operand to the stack while
// the right one is computed.
type generator struct {
	body bytes.Buffer
	text emitter

	strings   []string       // string constants, in source order
	stringMap map[string]int // string -> index in strings

	depth int   // values currently on the stack
	err   error // first error
}

func newGenerator() *generator {
	g := &generator{stringMap: make(map[string]int)}
	g.text.w = &g.body
	return g
}

func (g *generator) generate(root syntax.Expr) {
	syntax.Walk(root, func(n syntax.Expr) bool {
		if lit, ok := n.(*syntax.Literal); ok && lit.Kind == syntax.StringLit {
			g.stringIndex(lit.Str)
		}
		return true
	})

	res := syntax.Accept[location](root, g)
	if res != inResult {
		g.text.emitInst("mov %s, %s", inResult, res)
	}

	g.text.emitLine()
	g.text.emitComment("exit with the value of the expression")
	g.text.emitInst("mov %s, #%d", rtabi.SyscallReg, rtabi.SysExit)
	g.text.emitInst("svc %s", rtabi.SyscallTrap)

	if g.depth != 0 && g.err == nil {
		g.err = fmt.Errorf("codegen: unbalanced stack (%d values left)", g.depth)
	}
	if g.err == nil {
		g.err = g.text.err
	}
}

func (g *generator) errorf(pos syntax.Pos, format string, args ...interface{}) {
	if g.err == nil {
		g.err = &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	}
}

// ----------------------------------------------------------------------------
// Visitor

func (g *generator) VisitBinary(n *syntax.Binary) location {
	left := syntax.Accept[location](n.Left, g)
	g.push(left)
	right := syntax.Accept[location](n.Right, g)
	g.text.emitInst("mov %s, %s", rtabi.ScratchReg, right)
	g.pop(inResult)

	x, y := inResult, location(rtabi.ScratchReg)
	switch n.Op.Kind {
	case syntax.Add:
		g.text.emitInst("add %s, %s, %s", x, x, y)
	case syntax.Sub:
		g.text.emitInst("sub %s, %s, %s", x, x, y)
	case syntax.Mul:
		g.text.emitInst("mul %s, %s, %s", x, x, y)
	case syntax.Div:
		// sdiv yields 0 for a zero divisor; there is no trap.
		g.text.emitInst("sdiv %s, %s, %s", x, x, y)
	default:
		cond, ok := conditions[n.Op.Kind]
		if !ok {
			g.errorf(n.Pos(), "unsupported binary operator %s", n.Op.Kind)
			break
		}
		g.text.emitInst("cmp %s, %s", x, y)
		g.text.emitInst("cset %s, %s", x, cond)
	}
	return inResult
}

func (g *generator) VisitGrouping(n *syntax.Grouping) location {
	return syntax.Accept[location](n.X, g)
}

func (g *generator) VisitLiteral(n *syntax.Literal) location {
	switch n.Kind {
	case syntax.NumberLit:
		v, err := integer(n.Number)
		if err != "" {
			g.errorf(n.Pos(), "number %s %s", n.ValueString(), err)
			break
		}
		g.loadImmediate(v)

	case syntax.StringLit:
		label := stringLabel(g.stringIndex(n.Str))
		g.text.emitInst("adrp %s, %s@PAGE", inResult, label)
		g.text.emitInst("add %s, %s, %s@PAGEOFF", inResult, inResult, label)

	case syntax.BoolLit:
		if n.Bool {
			g.text.emitInst("mov %s, #1", inResult)
		} else {
			g.text.emitInst("mov %s, #0", inResult)
		}

	case syntax.NilLit:
		g.text.emitInst("mov %s, #0", inResult)
	}
	return inResult
}

func (g *generator) VisitUnary(n *syntax.Unary) location {
	x := syntax.Accept[location](n.X, g)
	switch n.Op.Kind {
	case syntax.Sub:
		g.text.emitInst("neg %s, %s", inResult, x)
	case syntax.Not:
		g.text.emitInst("cmp %s, #0", x)
		g.text.emitInst("cset %s, eq", inResult)
	default:
		g.errorf(n.Pos(), "unsupported unary operator %s", n.Op.Kind)
	}
	return inResult
}

// ----------------------------------------------------------------------------
// Helpers

// conditions maps comparison operators to signed condition codes.
var conditions = map[syntax.Kind]string{
	syntax.Eql: "eq",
	syntax.Neq: "ne",
	syntax.Gtr: "gt",
	syntax.Geq: "ge",
	syntax.Lss: "lt",
	syntax.Leq: "le",
}

// push spills r to a fresh stack slot.
func (g *generator) push(r location) {
	g.text.emitInst("str %s, [sp, #-%d]!", r, rtabi.StackSlot)
	g.depth++
}

// pop reloads the most recently pushed value into r.
func (g *generator) pop(r location) {
	g.text.emitInst("ldr %s, [sp], #%d", r, rtabi.StackSlot)
	g.depth--
}

// loadImmediate materializes v in x0, 16 bits at a time when it does not
// fit a single mov.
func (g *generator) loadImmediate(v int64) {
	if v >= -0xffff && v <= 0xffff {
		g.text.emitInst("mov %s, #%d", inResult, v)
		return
	}

	u := uint64(v)
	first := true
	for shift := 0; shift < 64; shift += 16 {
		chunk := (u >> shift) & 0xffff
		if chunk == 0 {
			continue
		}
		if first {
			g.text.emitInst("movz %s, #%d, lsl #%d", inResult, chunk, shift)
			first = false
		} else {
			g.text.emitInst("movk %s, #%d, lsl #%d", inResult, chunk, shift)
		}
	}
}

// integer converts f to an int64, or explains why it cannot.
func integer(f float64) (int64, string) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, "is not finite"
	case f != math.Trunc(f):
		return 0, "is not an integer"
	case f < math.MinInt64 || f >= math.MaxInt64:
		return 0, "does not fit in 64 bits"
	}
	return int64(f), ""
}

// stringIndex returns the index of a string in the string table,
// adding it if not present.
func (g *generator) stringIndex(s string) int {
	if idx, ok := g.stringMap[s]; ok {
		return idx
	}
	idx := len(g.strings)
	g.strings = append(g.strings, s)
	g.stringMap[s] = idx
	return idx
}

// stringLabel returns the data label of string constant i.
func stringLabel(i int) string {
	return fmt.Sprintf("%s%d", rtabi.StringLabelPrefix, i)
}

// escapeString returns s escaped for an .asciz directive.
// Non-printable bytes are written as three-digit octal escapes.
func escapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
