package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/koc/internal/codegen"
	"github.com/you-not-fish/koc/internal/diag"
	"github.com/you-not-fish/koc/internal/syntax"
)

const (
	promptMain  = "ko> "
	promptCont  = "... "
	historyFile = ".koc_history"
	replSource  = "<repl>"
)

const replHelp = `Enter an expression to see its canonical form.
Commands:
  :tokens on|off   show the token table of each input
  :asm on|off      show the generated assembly of each input
  :help            show this text
  :quit            leave the REPL`

func newReplCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read expressions interactively and print their canonical form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(cmd, opts, stdout, stderr)
			if err != nil {
				return err
			}
			return d.repl()
		},
	}
}

// repl runs an interactive session on the terminal.
func (d *driver) repl() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath, ok := historyPath(); ok {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(d.stdout, "koc %s. Type :help for commands, :quit to exit.\n", Version)

	s := &session{d: d}
	for {
		src, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(d.stdout)
			return nil
		}
		if s.handle(src) {
			return nil
		}
		if strings.TrimSpace(src) != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
	}
}

// historyPath returns the REPL history file in the user's home directory.
// Without a home directory there is no history.
func historyPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, historyFile), true
}

// prompter reads one line of input after showing a prompt.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readByParseProbe reads lines until they form a complete input: one that
// parses, or one that fails for a reason more input cannot fix. It returns
// false at end of input.
func readByParseProbe(p prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = p.Prompt(prompt)
		} else {
			line, err = p.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops the pending input.
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		trimmed := strings.TrimSpace(src)
		if trimmed == "" || strings.HasPrefix(trimmed, ":") {
			return src, true
		}

		_, perr := syntax.ParseExpr(replSource, []byte(src))
		if perr != nil && syntax.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// session is the state of one REPL run.
type session struct {
	d          *driver
	showTokens bool
	showAsm    bool
}

// handle processes one complete input and reports whether the session
// should end.
func (s *session) handle(src string) bool {
	trimmed := strings.TrimSpace(src)
	switch {
	case trimmed == "":
		return false
	case strings.HasPrefix(trimmed, ":"):
		return s.command(strings.Fields(trimmed))
	}
	s.eval(src)
	return false
}

func (s *session) command(fields []string) bool {
	out := s.d.stdout
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(out, replHelp)
	case ":tokens":
		s.showTokens = s.toggle(fields, s.showTokens)
	case ":asm":
		s.showAsm = s.toggle(fields, s.showAsm)
	default:
		fmt.Fprintf(out, "unknown command %s. Type :help for commands.\n", fields[0])
	}
	return false
}

// toggle parses the on|off argument of a command. With no argument it
// reports the current setting.
func (s *session) toggle(fields []string, cur bool) bool {
	out := s.d.stdout
	if len(fields) < 2 {
		fmt.Fprintf(out, "%s is %s\n", fields[0], onOff(cur))
		return cur
	}
	switch strings.ToLower(fields[1]) {
	case "on":
		cur = true
	case "off":
		cur = false
	default:
		fmt.Fprintf(out, "usage: %s on|off\n", fields[0])
		return cur
	}
	fmt.Fprintf(out, "%s %s\n", fields[0], onOff(cur))
	return cur
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// eval compiles src and prints the results the session asks for.
// Errors are reported and the session goes on.
func (s *session) eval(src string) {
	d := s.d
	buf := []byte(src)

	toks, err := syntax.Lex(replSource, buf)
	if err != nil {
		diag.Fprint(d.stderr, err, buf, d.cfg.Color)
		return
	}
	if s.showTokens {
		syntax.FprintTokens(d.stdout, toks)
	}

	e, err := syntax.NewParser(toks).Parse()
	if err != nil {
		diag.Fprint(d.stderr, err, buf, d.cfg.Color)
		return
	}
	d.log.Debug("parsed", "nodes", countNodes(e))
	syntax.Fprint(d.stdout, e)

	if s.showAsm {
		asm, err := codegen.Generate(e)
		if err != nil {
			diag.Fprint(d.stderr, err, buf, d.cfg.Color)
			return
		}
		fmt.Fprint(d.stdout, asm)
	}
}
