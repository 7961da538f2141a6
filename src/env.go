package qabalah

import (
	"bufio"
	"bytes"
	"io"
)

// Env is one running script: a source buffer, its cursor, its own frame
// stack and variables, and the three-register operand window. Included
// files and exec'd strings run in child environments linked to the parent
// that spawned them.
type Env struct {
	interp *Interpreter
	parent *Env

	// Name identifies the source in diagnostics.
	Name string

	src   []byte
	start int
	pos   int

	frames []Frame
	top    int

	vars    *[VariableCount]Value
	regs    [3]*Value // V0, V1, V2
	scratch Value

	in  *bufio.Reader
	out *bufio.Writer

	lines []string
}

// Open creates an environment over src, starting execution at index start.
// Children share the parent's input and output. Open returns nil when there
// is nothing to run.
func (interp *Interpreter) Open(src []byte, start int, in io.Reader, out io.Writer, parent *Env) *Env {
	if start < 0 {
		start = 0
	}
	if len(src) == 0 || src[0] == 0 || start >= len(src) {
		return nil
	}
	e := &Env{
		interp: interp,
		parent: parent,
		src:    src,
		start:  start,
		pos:    start - 1,
		frames: make([]Frame, interp.config.stackDepth()),
		vars:   new([VariableCount]Value),
	}
	e.frames[0] = Frame{
		Pos: start - 1,
		End: len(src) - 1,
		Ret: len(src) - 1,
	}
	for i := range e.regs {
		e.regs[i] = &e.vars[Aleph]
	}
	if in == nil {
		in = bytes.NewReader(nil)
	}
	if out == nil {
		out = io.Discard
	}
	// bufio returns the same reader or writer when given one, so children
	// opened with a parent's streams share its buffers.
	e.in = bufio.NewReader(in)
	e.out = bufio.NewWriter(out)
	interp.logger.DebugCat(CatEnv, "Opened %s (len: %d, start: %d, depth: %d)", e.name(), len(src), start, e.nesting())
	return e
}

// Close releases the environment's variables and scratch register and
// returns the parent, which resumes where it left off.
func (e *Env) Close() *Env {
	if e == nil {
		return nil
	}
	pe := e.parent
	if pe == nil || e.vars != pe.vars {
		for i := range e.vars {
			e.vars[i].Clear()
		}
	}
	e.scratch.Clear()
	if pe == nil || e.out != pe.out {
		_ = e.out.Flush()
	}
	e.interp.logger.DebugCat(CatEnv, "Closed %s", e.name())
	e.src = nil
	e.frames = nil
	e.parent = nil
	return pe
}

// Parent returns the environment that spawned e, or nil.
func (e *Env) Parent() *Env {
	return e.parent
}

// Var returns the variable in slot (see SlotOf).
func (e *Env) Var(slot int) *Value {
	return &e.vars[slot]
}

// Register returns operand register i, 0 for V0.
func (e *Env) Register(i int) *Value {
	return e.regs[i]
}

// Scratch returns the temporary that holds trailing literals.
func (e *Env) Scratch() *Value {
	return &e.scratch
}

// Pos returns the index of the last consumed source byte.
func (e *Env) Pos() int {
	return e.pos
}

// shift makes slot V0 and moves the window down.
func (e *Env) shift(slot int) {
	e.regs[2] = e.regs[1]
	e.regs[1] = e.regs[0]
	e.regs[0] = &e.vars[slot]
}

// lookup resolves a variable name used inside literals and templates.
func (e *Env) lookup(c byte) *Value {
	if c == '*' {
		return &e.scratch
	}
	if slot, ok := SlotOf(c); ok {
		return &e.vars[slot]
	}
	return nil
}

func (e *Env) name() string {
	if e.Name == "" {
		return "<script>"
	}
	return e.Name
}

func (e *Env) nesting() int {
	n := 0
	for p := e.parent; p != nil; p = p.parent {
		n++
	}
	return n
}

// scriptError builds a diagnostic located at source index at.
func (e *Env) scriptError(at int, msg string, err error) *ScriptError {
	if at < 0 {
		at = 0
	}
	if at > len(e.src) {
		at = len(e.src)
	}
	line, col := 1, 1
	for _, c := range e.src[:at] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ScriptError{
		Message: msg,
		Offset:  at,
		Line:    line,
		Column:  col,
		Name:    e.name(),
		Err:     err,
	}
}

// sourceLines returns the source split into lines for error context.
func (e *Env) sourceLines() []string {
	if e.lines == nil {
		for _, l := range bytes.Split(e.src, []byte{'\n'}) {
			e.lines = append(e.lines, string(bytes.TrimRight(l, "\r")))
		}
	}
	return e.lines
}
