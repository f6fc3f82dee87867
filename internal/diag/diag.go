// Package diag renders compiler errors as diagnostics for people.
//
// A diagnostic names the failing phase with a code, the message and the
// source position, then quotes the offending line with a caret under the
// column:
//
//	error[E_PARSE]: expected expression, found 'x'
//	  --> main.ko:1:5
//	   |
//	 1 | 1 + x
//	   |     ^
package diag

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/you-not-fish/koc/internal/codegen"
	"github.com/you-not-fish/koc/internal/syntax"
)

// Diagnostic code constants.
const (
	ELex     = "E_LEX"
	EParse   = "E_PARSE"
	ECodegen = "E_CODEGEN"
	EIO      = "E_IO"
)

// Diagnostic is one reportable problem.
type Diagnostic struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Pos     syntax.Pos `json:"-"`
	Loc     string     `json:"loc,omitempty"`
	Hint    string     `json:"hint,omitempty"`
}

// FromError converts err into diagnostics. A lexical failure yields one
// diagnostic per bad lexeme; anything else yields exactly one.
func FromError(err error) []Diagnostic {
	if err == nil {
		return nil
	}

	var lexErrs syntax.LexErrors
	if errors.As(err, &lexErrs) {
		diags := make([]Diagnostic, len(lexErrs))
		for i, le := range lexErrs {
			diags[i] = newDiag(ELex, le.Msg, le.Pos, "")
		}
		return diags
	}

	var le *syntax.LexError
	if errors.As(err, &le) {
		return []Diagnostic{newDiag(ELex, le.Msg, le.Pos, "")}
	}

	var pe *syntax.ParseError
	if errors.As(err, &pe) {
		hint := ""
		if pe.AtEOF() {
			hint = "the input ends before the expression is complete"
		}
		return []Diagnostic{newDiag(EParse, pe.Msg, pe.Pos, hint)}
	}

	var ce *codegen.Error
	if errors.As(err, &ce) {
		return []Diagnostic{newDiag(ECodegen, ce.Msg, ce.Pos, "")}
	}

	return []Diagnostic{{Code: EIO, Message: err.Error()}}
}

func newDiag(code, msg string, pos syntax.Pos, hint string) Diagnostic {
	d := Diagnostic{Code: code, Message: msg, Pos: pos, Hint: hint}
	if pos.IsValid() {
		d.Loc = pos.String()
	}
	return d
}

// ----------------------------------------------------------------------------
// Rendering

// styles holds the lipgloss styles for each part of a diagnostic.
// The zero value renders plain text.
type styles struct {
	color  bool
	header lipgloss.Style
	arrow  lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
	hint   lipgloss.Style
}

// Color palette
var (
	colorError = lipgloss.Color("#EF4444") // Red
	colorInfo  = lipgloss.Color("#06B6D4") // Cyan
	colorMuted = lipgloss.Color("#6B7280") // Gray
	colorHint  = lipgloss.Color("#F59E0B") // Amber
)

func newStyles(w io.Writer, color bool) styles {
	if !color {
		return styles{}
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return styles{
		color:  true,
		header: r.NewStyle().Foreground(colorError).Bold(true),
		arrow:  r.NewStyle().Foreground(colorInfo),
		gutter: r.NewStyle().Foreground(colorMuted),
		caret:  r.NewStyle().Foreground(colorError).Bold(true),
		hint:   r.NewStyle().Foreground(colorHint),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}

// Format renders d as plain text, quoting src when d has a position.
func Format(d Diagnostic, src []byte) string {
	return format(d, src, styles{})
}

func format(d Diagnostic, src []byte, s styles) string {
	var b strings.Builder
	b.WriteString(s.render(s.header, fmt.Sprintf("error[%s]", d.Code)))
	b.WriteString(": ")
	b.WriteString(d.Message)

	if d.Loc != "" {
		b.WriteString("\n  ")
		b.WriteString(s.render(s.arrow, "-->"))
		b.WriteString(" ")
		b.WriteString(d.Loc)
	}

	if line, ok := sourceLine(src, int(d.Pos.Line())); ok && d.Pos.IsValid() {
		num := strconv.Itoa(int(d.Pos.Line()))
		pad := strings.Repeat(" ", len(num))
		bar := s.render(s.gutter, "|")

		fmt.Fprintf(&b, "\n %s %s", pad, bar)
		fmt.Fprintf(&b, "\n %s %s %s", s.render(s.gutter, num), bar, line)
		fmt.Fprintf(&b, "\n %s %s %s%s", pad, bar, caretIndent(line, int(d.Pos.Col())), s.render(s.caret, "^"))
	}

	if d.Hint != "" {
		b.WriteString("\n  ")
		b.WriteString(s.render(s.hint, "hint: "+d.Hint))
	}
	return b.String()
}

// Fprint writes the diagnostics for err to w, separated by blank lines.
// With color set, the output carries ANSI styling.
func Fprint(w io.Writer, err error, src []byte, color bool) error {
	s := newStyles(w, color)
	diags := FromError(err)
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = format(d, src, s)
	}
	_, werr := io.WriteString(w, strings.Join(parts, "\n\n")+"\n")
	return werr
}

// FprintJSON writes the diagnostics for err to w as a JSON array.
func FprintJSON(w io.Writer, err error) error {
	diags := FromError(err)
	if diags == nil {
		diags = []Diagnostic{}
	}
	return json.NewEncoder(w).Encode(diags)
}

// sourceLine returns line n (1-based) of src without its terminator.
func sourceLine(src []byte, n int) (string, bool) {
	if n < 1 || src == nil {
		return "", false
	}
	lines := strings.Split(string(src), "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

// caretIndent returns the whitespace that puts a caret under column col
// of line. Tabs are kept so the caret lines up however tabs render.
func caretIndent(line string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1; i++ {
		if i < len(line) && line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
