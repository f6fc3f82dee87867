package syntax

import "fmt"

// Visitor is implemented by every consumer of an expression tree.
// Each method handles one node type and returns the consumer's result
// type R: the printer returns strings, the code generator returns the
// location of the computed value.
//
// Adding a node type adds a method here, so every consumer stops compiling
// until it handles the new node.
type Visitor[R any] interface {
	VisitBinary(*Binary) R
	VisitGrouping(*Grouping) R
	VisitLiteral(*Literal) R
	VisitUnary(*Unary) R
}

// Accept dispatches e to the visitor method matching its node type and
// returns that method's result.
func Accept[R any](e Expr, v Visitor[R]) R {
	switch n := e.(type) {
	case *Binary:
		return v.VisitBinary(n)
	case *Grouping:
		return v.VisitGrouping(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *Unary:
		return v.VisitUnary(n)
	}
	panic(fmt.Sprintf("syntax: unexpected node %T", e))
}

// Walk traverses an expression tree in depth-first order, parents before
// children, left before right. If fn returns false, the children of the
// node are not visited.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch n := e.(type) {
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *Unary:
		Walk(n.X, fn)

	case *Grouping:
		Walk(n.X, fn)

	// Leaf nodes: Literal
	// No children to visit
	}
}
