package codegen

import (
	"fmt"
	"io"
)

// emitter wraps an io.Writer with helpers for emitting assembly text.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes a formatted line to the output (no indentation).
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitComment writes an indented comment line.
func (e *emitter) emitComment(text string) {
	e.emitInst("// %s", text)
}

// emitLabel writes a label line.
func (e *emitter) emitLabel(name string) {
	e.emit("%s:", name)
}

// emitDirective writes an assembler directive (no indentation).
func (e *emitter) emitDirective(format string, args ...interface{}) {
	e.emit("."+format, args...)
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "    "+format+"\n", args...)
}
