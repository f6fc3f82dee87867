// Package syntax implements the lexer, parser and tree printers for the Ko
// expression language.
package syntax

import "fmt"

// Kind represents the type of a lexical token.
type Kind uint

const (
	// Special tokens
	_EOF Kind = iota // end of input

	// Single-character punctuation
	_Lparen // (
	_Rparen // )
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Dot    // .
	_Sub    // -
	_Add    // +
	_Semi   // ;
	_Mul    // *

	// One or two character operators
	_Not    // !
	_Neq    // !=
	_Assign // =
	_Eql    // ==
	_Gtr    // >
	_Geq    // >=
	_Lss    // <
	_Leq    // <=
	_Div    // /

	// Literals
	_Name   // identifier: foo, _bar, x1
	_Number // 123, 4.5
	_String // "text"

	// Boolean and null keywords
	_True
	_False
	_Null

	// C keywords
	_Auto
	_Break
	_Char
	_Const
	_Continue
	_Default
	_Do
	_Double
	_Else
	_Enum
	_Extern
	_Float
	_For
	_Goto
	_If
	_Int
	_Long
	_Register
	_Return
	_Short
	_Signed
	_Sizeof
	_Static
	_Struct
	_Switch
	_Typedef
	_Union
	_Unsigned
	_Void
	_Volatile
	_While

	kindCount
)

// kindNames maps kinds to their string representation.
var kindNames = [...]string{
	_EOF: "EOF",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Dot:    ".",
	_Sub:    "-",
	_Add:    "+",
	_Semi:   ";",
	_Mul:    "*",

	_Not:    "!",
	_Neq:    "!=",
	_Assign: "=",
	_Eql:    "==",
	_Gtr:    ">",
	_Geq:    ">=",
	_Lss:    "<",
	_Leq:    "<=",
	_Div:    "/",

	_Name:   "IDENTIFIER",
	_Number: "NUMBER",
	_String: "STRING_LITERAL",

	_True:  "true",
	_False: "false",
	_Null:  "null",

	_Auto:     "auto",
	_Break:    "break",
	_Char:     "char",
	_Const:    "const",
	_Continue: "continue",
	_Default:  "default",
	_Do:       "do",
	_Double:   "double",
	_Else:     "else",
	_Enum:     "enum",
	_Extern:   "extern",
	_Float:    "float",
	_For:      "for",
	_Goto:     "goto",
	_If:       "if",
	_Int:      "int",
	_Long:     "long",
	_Register: "register",
	_Return:   "return",
	_Short:    "short",
	_Signed:   "signed",
	_Sizeof:   "sizeof",
	_Static:   "static",
	_Struct:   "struct",
	_Switch:   "switch",
	_Typedef:  "typedef",
	_Union:    "union",
	_Unsigned: "unsigned",
	_Void:     "void",
	_Volatile: "volatile",
	_While:    "while",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsKeyword reports whether k is a keyword, including true, false and null.
func (k Kind) IsKeyword() bool {
	return k >= _True && k <= _While
}

// IsOperator reports whether k is an arithmetic, comparison or logical operator.
func (k Kind) IsOperator() bool {
	switch k {
	case _Sub, _Add, _Mul, _Div, _Not, _Neq, _Assign, _Eql, _Gtr, _Geq, _Lss, _Leq:
		return true
	}
	return false
}

// IsBinaryOp reports whether k may appear as the operator of a Binary node.
func (k Kind) IsBinaryOp() bool {
	switch k {
	case _Eql, _Neq, _Gtr, _Geq, _Lss, _Leq, _Add, _Sub, _Mul, _Div:
		return true
	}
	return false
}

// IsUnaryOp reports whether k may appear as the operator of a Unary node.
func (k Kind) IsUnaryOp() bool {
	return k == _Not || k == _Sub
}

// Exported kinds for consumers outside the package (code generator, driver).
const (
	EOF    Kind = _EOF
	Name   Kind = _Name
	Number Kind = _Number
	String Kind = _String

	Add Kind = _Add // +
	Sub Kind = _Sub // -
	Mul Kind = _Mul // *
	Div Kind = _Div // /
	Not Kind = _Not // !
	Eql Kind = _Eql // ==
	Neq Kind = _Neq // !=
	Gtr Kind = _Gtr // >
	Geq Kind = _Geq // >=
	Lss Kind = _Lss // <
	Leq Kind = _Leq // <=
)

// Token is a single lexeme produced by the lexer.
// Tokens are plain values; the lexer never hands out pointers to them.
type Token struct {
	Kind   Kind
	Lexeme string // source text; string literals exclude the quotes
	Pos    Pos    // position of the first byte of the lexeme
	Offset int    // byte offset of the first byte of the lexeme
}

// Line returns the 1-based line on which the token began.
func (t Token) Line() int { return int(t.Pos.Line()) }

// Column returns the 1-based column on which the token began.
func (t Token) Column() int { return int(t.Pos.Col()) }

func (t Token) String() string {
	switch t.Kind {
	case _Name, _Number:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
	case _String:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}

// keywords maps keyword strings to their kind.
// The table is built once and only read afterwards, so it is safe to share
// between scanners running concurrently.
var keywords = map[string]Kind{
	"true":  _True,
	"false": _False,
	"null":  _Null,

	"auto":     _Auto,
	"break":    _Break,
	"char":     _Char,
	"const":    _Const,
	"continue": _Continue,
	"default":  _Default,
	"do":       _Do,
	"double":   _Double,
	"else":     _Else,
	"enum":     _Enum,
	"extern":   _Extern,
	"float":    _Float,
	"for":      _For,
	"goto":     _Goto,
	"if":       _If,
	"int":      _Int,
	"long":     _Long,
	"register": _Register,
	"return":   _Return,
	"short":    _Short,
	"signed":   _Signed,
	"sizeof":   _Sizeof,
	"static":   _Static,
	"struct":   _Struct,
	"switch":   _Switch,
	"typedef":  _Typedef,
	"union":    _Union,
	"unsigned": _Unsigned,
	"void":     _Void,
	"volatile": _Volatile,
	"while":    _While,
}

// LookupKeyword returns the kind for the given identifier text.
// If the text is a keyword, returns the keyword kind.
// Otherwise, returns the identifier kind.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return _Name
}
