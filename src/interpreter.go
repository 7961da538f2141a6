package qabalah

import (
	"fmt"
	"io"
	"os"
)

// Interpreter holds what the environments of one run share: configuration,
// diagnostics, the string buffer store and the output line state.
type Interpreter struct {
	config  *Config
	logger  *Logger
	buffers *bufferStore
	lines   lineState
	active  *Env
}

// New creates a new interpreter
func New(config *Config) *Interpreter {
	if config == nil {
		config = DefaultConfig()
	}

	logger := NewLogger(config.Debug || config.Verbose)
	if config.Debug {
		for _, cat := range debugCategories {
			logger.EnableCategory(cat)
		}
	}
	if config.Verbose {
		for _, cat := range verboseCategories {
			logger.EnableCategory(cat)
		}
	}
	if config.ShowErrorContext {
		logger.SetContextLines(config.ContextLines)
	} else {
		logger.SetContextLines(0)
	}

	interp := &Interpreter{
		config:  config,
		logger:  logger,
		buffers: newBufferStore(logger),
	}
	logger.setBeforeWrite(interp.beforeDiagnostic)
	return interp
}

// beforeDiagnostic flushes program output and ends a pending output line so
// diagnostics start on a line of their own.
func (interp *Interpreter) beforeDiagnostic(w io.Writer) {
	if interp.active != nil {
		_ = interp.active.out.Flush()
	}
	if interp.lines.midLine {
		_, _ = io.WriteString(w, "\n")
		interp.lines.midLine = false
	}
}

// Logger returns the interpreter's logger
func (interp *Interpreter) Logger() *Logger {
	return interp.logger
}

// GetConfig returns the interpreter's configuration
func (interp *Interpreter) GetConfig() *Config {
	return interp.config
}

// NeedsNewline reports whether the last output left a line unfinished.
func (interp *Interpreter) NeedsNewline() bool {
	return interp.lines.midLine
}

// LiveBuffers returns how many string buffers are still referenced.
func (interp *Interpreter) LiveBuffers() int {
	return interp.buffers.count()
}

// Execute runs e, and every environment it spawns, until e closes. It
// returns only errors from flushing output; script faults are reported
// through the logger.
func (interp *Interpreter) Execute(e *Env) error {
	if e == nil {
		return nil
	}
	out := e.out
	for e != nil {
		interp.active = e
		if child := e.run(); child != nil {
			e = child
			continue
		}
		e = e.Close()
	}
	interp.active = nil
	return out.Flush()
}

// Run executes src with the given input and output.
func (interp *Interpreter) Run(src []byte, in io.Reader, out io.Writer) error {
	e := interp.Open(src, 0, in, out, nil)
	if e == nil {
		return nil
	}
	return interp.Execute(e)
}

// RunFile executes the script at path, skipping a leading "#!" line.
func (interp *Interpreter) RunFile(path string, in io.Reader, out io.Writer) error {
	src, start, err := ReadScript(path)
	if err != nil {
		return fmt.Errorf("could not open input file: %w", err)
	}
	e := interp.Open(src, start, in, out, nil)
	if e == nil {
		return nil
	}
	e.Name = path
	return interp.Execute(e)
}

// FinishLine writes a newline to out if the last output left a line open.
func (interp *Interpreter) FinishLine(out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if interp.lines.midLine {
		_, _ = io.WriteString(out, "\n")
		interp.lines.midLine = false
	}
}
