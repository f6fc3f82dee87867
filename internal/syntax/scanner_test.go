package syntax

import (
	"errors"
	"strings"
	"testing"
)

// lexKinds lexes src and returns the token kinds and lexemes, EOF included.
func lexKinds(t *testing.T, src string) ([]Kind, []string) {
	t.Helper()
	toks, err := Lex("test.ko", []byte(src))
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	kinds := make([]Kind, len(toks))
	lits := make([]string, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
		lits[i] = tok.Lexeme
	}
	return kinds, lits
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Kind
		lits   []string
	}{
		// Identifiers
		{"ident", "foo", []Kind{_Name, _EOF}, []string{"foo", ""}},
		{"ident_underscore", "_bar", []Kind{_Name, _EOF}, []string{"_bar", ""}},
		{"ident_mixed", "foo123", []Kind{_Name, _EOF}, []string{"foo123", ""}},
		{"ident_caps", "FooBar", []Kind{_Name, _EOF}, []string{"FooBar", ""}},
		{"ident_nil", "nil", []Kind{_Name, _EOF}, []string{"nil", ""}},

		// Boolean and null keywords
		{"kw_true", "true", []Kind{_True, _EOF}, []string{"true", ""}},
		{"kw_false", "false", []Kind{_False, _EOF}, []string{"false", ""}},
		{"kw_null", "null", []Kind{_Null, _EOF}, []string{"null", ""}},

		// Numbers
		{"int", "123", []Kind{_Number, _EOF}, []string{"123", ""}},
		{"int_zero", "0", []Kind{_Number, _EOF}, []string{"0", ""}},
		{"int_leading_zero", "007", []Kind{_Number, _EOF}, []string{"007", ""}},
		{"decimal", "3.14", []Kind{_Number, _EOF}, []string{"3.14", ""}},
		{"decimal_no_frac", "3.", []Kind{_Number, _Dot, _EOF}, []string{"3", ".", ""}},
		{"decimal_dot_ident", "3.x", []Kind{_Number, _Dot, _Name, _EOF}, []string{"3", ".", "x", ""}},
		{"no_exponent", "1e10", []Kind{_Number, _Name, _EOF}, []string{"1", "e10", ""}},
		{"no_sign", "-5", []Kind{_Sub, _Number, _EOF}, []string{"-", "5", ""}},
		{"two_dots", "1.2.3", []Kind{_Number, _Dot, _Number, _EOF}, []string{"1.2", ".", "3", ""}},

		// Strings
		{"string_simple", `"hello"`, []Kind{_String, _EOF}, []string{"hello", ""}},
		{"string_empty", `""`, []Kind{_String, _EOF}, []string{"", ""}},
		{"string_spaces", `"a b  c"`, []Kind{_String, _EOF}, []string{"a b  c", ""}},
		{"string_backslash", `"a\b"`, []Kind{_String, _EOF}, []string{`a\b`, ""}},
		{"string_slashes", `"//x"`, []Kind{_String, _EOF}, []string{"//x", ""}},

		// Punctuation
		{"lparen", "(", []Kind{_Lparen, _EOF}, []string{"(", ""}},
		{"rparen", ")", []Kind{_Rparen, _EOF}, []string{")", ""}},
		{"lbrace", "{", []Kind{_Lbrace, _EOF}, []string{"{", ""}},
		{"rbrace", "}", []Kind{_Rbrace, _EOF}, []string{"}", ""}},
		{"comma", ",", []Kind{_Comma, _EOF}, []string{",", ""}},
		{"dot", ".", []Kind{_Dot, _EOF}, []string{".", ""}},
		{"minus", "-", []Kind{_Sub, _EOF}, []string{"-", ""}},
		{"plus", "+", []Kind{_Add, _EOF}, []string{"+", ""}},
		{"semi", ";", []Kind{_Semi, _EOF}, []string{";", ""}},
		{"star", "*", []Kind{_Mul, _EOF}, []string{"*", ""}},

		// One and two character operators
		{"not", "!", []Kind{_Not, _EOF}, []string{"!", ""}},
		{"neq", "!=", []Kind{_Neq, _EOF}, []string{"!=", ""}},
		{"assign", "=", []Kind{_Assign, _EOF}, []string{"=", ""}},
		{"eql", "==", []Kind{_Eql, _EOF}, []string{"==", ""}},
		{"gtr", ">", []Kind{_Gtr, _EOF}, []string{">", ""}},
		{"geq", ">=", []Kind{_Geq, _EOF}, []string{">=", ""}},
		{"lss", "<", []Kind{_Lss, _EOF}, []string{"<", ""}},
		{"leq", "<=", []Kind{_Leq, _EOF}, []string{"<=", ""}},
		{"div", "/", []Kind{_Div, _EOF}, []string{"/", ""}},
		{"eql_assign", "===", []Kind{_Eql, _Assign, _EOF}, []string{"==", "=", ""}},
		{"not_not", "!!", []Kind{_Not, _Not, _EOF}, []string{"!", "!", ""}},
		{"spaced", "! =", []Kind{_Not, _Assign, _EOF}, []string{"!", "=", ""}},

		// Comments and whitespace
		{"comment_only", "// nothing", []Kind{_EOF}, []string{""}},
		{"comment_after", "1 // one", []Kind{_Number, _EOF}, []string{"1", ""}},
		{"comment_then_line", "// a\n2", []Kind{_Number, _EOF}, []string{"2", ""}},
		{"div_then_comment", "4 / 2 // half", []Kind{_Number, _Div, _Number, _EOF}, []string{"4", "/", "2", ""}},
		{"whitespace", " \t\r\n 1 \n", []Kind{_Number, _EOF}, []string{"1", ""}},
		{"empty", "", []Kind{_EOF}, []string{""}},

		// Compound expressions
		{"expr_add", "1 + 2", []Kind{_Number, _Add, _Number, _EOF}, []string{"1", "+", "2", ""}},
		{"expr_cmp", "a>=b", []Kind{_Name, _Geq, _Name, _EOF}, []string{"a", ">=", "b", ""}},
		{"expr_group", "(1)*2", []Kind{_Lparen, _Number, _Rparen, _Mul, _Number, _EOF}, []string{"(", "1", ")", "*", "2", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds, lits := lexKinds(t, tt.src)

			if len(kinds) != len(tt.tokens) {
				t.Fatalf("got %d tokens %v, want %d %v", len(kinds), kinds, len(tt.tokens), tt.tokens)
			}
			for i := range kinds {
				if kinds[i] != tt.tokens[i] {
					t.Errorf("token[%d] = %s, want %s", i, kinds[i], tt.tokens[i])
				}
				if lits[i] != tt.lits[i] {
					t.Errorf("lexeme[%d] = %q, want %q", i, lits[i], tt.lits[i])
				}
			}
		})
	}
}

func TestScanKeywords(t *testing.T) {
	src := strings.Join(cKeywords, " ")
	kinds, _ := lexKinds(t, src)

	if len(kinds) != len(cKeywords)+1 {
		t.Fatalf("got %d tokens, want %d", len(kinds), len(cKeywords)+1)
	}
	for i, kw := range cKeywords {
		if kinds[i].String() != kw || !kinds[i].IsKeyword() {
			t.Errorf("%q lexed as %s", kw, kinds[i])
		}
	}

	// Near misses are identifiers.
	for _, src := range []string{"autos", "_int", "Int", "while1", "do_", "sizeOf"} {
		kinds, _ := lexKinds(t, src)
		if kinds[0] != _Name {
			t.Errorf("%q lexed as %s, want IDENTIFIER", src, kinds[0])
		}
	}
}

func TestPosition(t *testing.T) {
	src := "1 +\n  (foo)\n\"a\nb\" >= 3"
	toks, err := Lex("test.ko", []byte(src))
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		kind   Kind
		line   int
		col    int
		offset int
	}{
		{_Number, 1, 1, 0},
		{_Add, 1, 3, 2},
		{_Lparen, 2, 3, 6},
		{_Name, 2, 4, 7},
		{_Rparen, 2, 7, 10},
		{_String, 3, 1, 12}, // string spans lines 3 and 4
		{_Geq, 4, 4, 18},
		{_Number, 4, 7, 21},
		{_EOF, 4, 8, 22},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		tok := toks[i]
		if tok.Kind != w.kind || tok.Line() != w.line || tok.Column() != w.col || tok.Offset != w.offset {
			t.Errorf("token[%d] = %s at %d:%d offset %d, want %s at %d:%d offset %d",
				i, tok.Kind, tok.Line(), tok.Column(), tok.Offset, w.kind, w.line, w.col, w.offset)
		}
	}
	if toks[5].Lexeme != "a\nb" {
		t.Errorf("string lexeme = %q, want %q", toks[5].Lexeme, "a\nb")
	}
}

func TestScanEndOfInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind Kind
		lit  string
	}{
		{"number_at_eof", "42", _Number, "42"},
		{"decimal_at_eof", "4.25", _Number, "4.25"},
		{"ident_at_eof", "abc", _Name, "abc"},
		{"op_at_eof", "<", _Lss, "<"},
		{"two_char_at_eof", "<=", _Leq, "<="},
		{"string_at_eof", `"x"`, _String, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds, lits := lexKinds(t, tt.src)
			if len(kinds) != 2 || kinds[0] != tt.kind || lits[0] != tt.lit || kinds[1] != _EOF {
				t.Errorf("Lex(%q) = %v %q, want [%s EOF] [%q]", tt.src, kinds, lits, tt.kind, tt.lit)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		pos   []string // positions of the reported errors
		first string   // message of the first error
	}{
		{"bad_char", "1 @ 2", []string{"test.ko:1:3"}, "unexpected character '@'"},
		{"two_bad_chars", "#\n  $", []string{"test.ko:1:1", "test.ko:2:3"}, "unexpected character '#'"},
		{"unterminated", `"abc`, []string{"test.ko:1:1"}, "unterminated string"},
		{"unterminated_later_line", "1 +\n  \"abc\ndef", []string{"test.ko:2:3"}, "unterminated string"},
		{"unterminated_after_error", "? \"x", []string{"test.ko:1:1", "test.ko:1:3"}, "unexpected character '?'"},
		{"non_ascii", "1 + \xc3\xa9", []string{"test.ko:1:5", "test.ko:1:6"}, "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex("test.ko", []byte(tt.src))
			if err == nil {
				t.Fatalf("Lex(%q) succeeded, want error", tt.src)
			}
			if toks != nil {
				t.Errorf("Lex(%q) returned %d tokens alongside an error", tt.src, len(toks))
			}

			var list LexErrors
			if !errors.As(err, &list) {
				t.Fatalf("error %T is not LexErrors", err)
			}
			if len(list) != len(tt.pos) {
				t.Fatalf("got %d errors %v, want %d", len(list), list, len(tt.pos))
			}
			for i, e := range list {
				if e.Pos.String() != tt.pos[i] {
					t.Errorf("error[%d] at %s, want %s", i, e.Pos, tt.pos[i])
				}
			}
			if !strings.HasPrefix(list[0].Msg, tt.first) {
				t.Errorf("first error = %q, want prefix %q", list[0].Msg, tt.first)
			}

			var first *LexError
			if !errors.As(err, &first) || first != list[0] {
				t.Errorf("errors.As(*LexError) did not find the first error")
			}
			if !IsLexError(err) {
				t.Error("IsLexError = false")
			}
		})
	}
}

func TestUnterminatedStringLine(t *testing.T) {
	_, err := Lex("test.ko", []byte("1 +\n2 +\n\"abc\n\n"))

	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("want LexError, got %v", err)
	}
	if le.Line() != 3 || le.Column() != 1 {
		t.Errorf("error at %d:%d, want 3:1 (where the string began)", le.Line(), le.Column())
	}
}

func TestLexErrorsMessage(t *testing.T) {
	_, err := Lex("test.ko", []byte("@ @ @"))
	if err == nil {
		t.Fatal("expected error")
	}
	want := "test.ko:1:1: unexpected character '@' (and 2 more errors)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestScannerStreaming(t *testing.T) {
	var errs []string
	s := NewScanner("test.ko", strings.NewReader("1 $ 2"), func(pos Pos, msg string) {
		errs = append(errs, pos.String())
	})

	var kinds []Kind
	for {
		s.Next()
		kinds = append(kinds, s.Token().Kind)
		if s.Token().Kind == _EOF {
			break
		}
	}

	if len(kinds) != 3 || kinds[0] != _Number || kinds[1] != _Number {
		t.Errorf("kinds = %v, want [NUMBER NUMBER EOF]", kinds)
	}
	if s.ErrorCount() != 1 || len(errs) != 1 || errs[0] != "test.ko:1:3" {
		t.Errorf("errors = %v (count %d), want [test.ko:1:3]", errs, s.ErrorCount())
	}

	// EOF is sticky.
	s.Next()
	if s.Token().Kind != _EOF {
		t.Errorf("Next after EOF = %s", s.Token().Kind)
	}
}

func TestLexDeterministic(t *testing.T) {
	src := []byte("(1 + 2) * -3 >= \"s\" // end")
	a, err := Lex("a.ko", src)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Lex("a.ko", src)
	if len(a) != len(b) {
		t.Fatalf("token counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("token %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
