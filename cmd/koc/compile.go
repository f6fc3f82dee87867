package main

import (
	"fmt"
	"os"

	"github.com/you-not-fish/koc/internal/codegen"
	"github.com/you-not-fish/koc/internal/config"
	"github.com/you-not-fish/koc/internal/diag"
	"github.com/you-not-fish/koc/internal/syntax"
)

// compile runs the whole pipeline over filename. Failures are reported on
// stderr as diagnostics and turned into errFailed.
func (d *driver) compile(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return d.fail(err, nil)
	}
	d.log.Debug("read", "file", filename, "bytes", len(src))

	toks, err := syntax.Lex(filename, src)
	if err != nil {
		return d.fail(err, src)
	}
	d.log.Debug("lexed", "tokens", len(toks))

	if d.cfg.Print == config.PrintTokens {
		if err := syntax.FprintTokens(d.stdout, toks); err != nil {
			return d.fail(err, nil)
		}
	}

	e, err := syntax.NewParser(toks).Parse()
	if err != nil {
		return d.fail(err, src)
	}
	d.log.Debug("parsed", "nodes", countNodes(e))

	if err := d.printTree(e); err != nil {
		return d.fail(err, nil)
	}

	if !d.cfg.EmitAssembly() {
		return nil
	}

	asm, err := codegen.Generate(e)
	if err != nil {
		return d.fail(err, src)
	}
	if err := d.writeOutput(asm); err != nil {
		return d.fail(err, nil)
	}
	d.log.Debug("generated", "bytes", len(asm), "output", d.cfg.Output)
	return nil
}

// printTree writes the tree in the configured print mode, if any.
func (d *driver) printTree(e syntax.Expr) error {
	switch d.cfg.Print {
	case config.PrintParser:
		return syntax.Fprint(d.stdout, e)
	case config.PrintTree:
		return syntax.FprintTree(d.stdout, e)
	case config.PrintJSON:
		return syntax.FprintJSON(d.stdout, e)
	}
	return nil
}

// writeOutput writes the assembly to the configured output; "-" is stdout.
func (d *driver) writeOutput(asm string) error {
	if d.cfg.Output == "-" {
		_, err := fmt.Fprint(d.stdout, asm)
		return err
	}
	if err := os.WriteFile(d.cfg.Output, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("write assembly: %w", err)
	}
	return nil
}

// fail reports err and returns errFailed.
func (d *driver) fail(err error, src []byte) error {
	d.log.Debug("failed", "error", err)
	diag.Fprint(d.stderr, err, src, d.cfg.Color)
	return errFailed
}

func countNodes(e syntax.Expr) int {
	n := 0
	syntax.Walk(e, func(syntax.Expr) bool {
		n++
		return true
	})
	return n
}
