package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the tree rooted at e to w.
func FprintJSON(w io.Writer, e Expr) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Accept[interface{}](e, jsonBuilder{}))
}

// jsonBuilder converts nodes to maps for encoding/json.
type jsonBuilder struct{}

func (b jsonBuilder) VisitBinary(n *Binary) interface{} {
	return map[string]interface{}{
		"type":  "Binary",
		"pos":   n.pos.String(),
		"op":    n.Op.Lexeme,
		"left":  Accept[interface{}](n.Left, b),
		"right": Accept[interface{}](n.Right, b),
	}
}

func (b jsonBuilder) VisitGrouping(n *Grouping) interface{} {
	return map[string]interface{}{
		"type":  "Grouping",
		"pos":   n.pos.String(),
		"inner": Accept[interface{}](n.X, b),
	}
}

func (b jsonBuilder) VisitLiteral(n *Literal) interface{} {
	m := map[string]interface{}{
		"type": "Literal",
		"pos":  n.pos.String(),
		"kind": n.Kind.String(),
	}
	switch n.Kind {
	case NumberLit:
		m["value"] = n.Number
		if n.Raw != "" {
			m["raw"] = n.Raw
		}
	case StringLit:
		m["value"] = n.Str
	case BoolLit:
		m["value"] = n.Bool
	case NilLit:
		m["value"] = nil
	}
	return m
}

func (b jsonBuilder) VisitUnary(n *Unary) interface{} {
	return map[string]interface{}{
		"type":    "Unary",
		"pos":     n.pos.String(),
		"op":      n.Op.Lexeme,
		"operand": Accept[interface{}](n.X, b),
	}
}
