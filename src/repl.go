package qabalah

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const replPrompt = "q > "

const replHelp = `Commands:
  eof     End input and run script
  exit    Exit this program
  help    Print this list of commands
  quit    Exit this program
  run     Run script, same as 'eof'
  show    Show entered data
`

// replAction is what a line of input asks the reader to do.
type replAction int

const (
	actionAppend replAction = iota // source line, keep it
	actionSkip                     // consumed, nothing to do
	actionRun                      // end of script: run it
	actionExit                     // leave without running
	actionShow                     // print the script so far
	actionHelp                     // print the command list
)

// ScriptCollector accumulates script source line by line, recognizing the
// commands of the q command's input reader. Show and help are only
// recognized when interactive.
type ScriptCollector struct {
	Interactive bool

	src   strings.Builder
	lines int
}

// add processes one input line without its line terminator.
func (c *ScriptCollector) add(line string) replAction {
	c.lines++
	switch {
	case c.lines == 1 && strings.HasPrefix(line, "#!"):
		return actionSkip
	case line == "eof" || line == "run":
		return actionRun
	case line == "exit" || line == "quit":
		return actionExit
	case c.Interactive && line == "show":
		return actionShow
	case c.Interactive && line == "help":
		return actionHelp
	}
	c.src.WriteString(line)
	c.src.WriteByte('\n')
	return actionAppend
}

// Source returns the collected script.
func (c *ScriptCollector) Source() []byte {
	return []byte(c.src.String())
}

// Reset discards the collected script.
func (c *ScriptCollector) Reset() {
	c.src.Reset()
	c.lines = 0
}

// ReadScriptFrom collects a script from br until end of input or an "eof"
// or "run" line. It reports false if an "exit" or "quit" line asked to
// leave without running. Input after the script stays in br, so the same
// reader can serve the script's line input.
func ReadScriptFrom(br *bufio.Reader) ([]byte, bool, error) {
	c := &ScriptCollector{}
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, false, err
		}
		if line == "" && err != nil {
			return c.Source(), true, nil
		}
		switch c.add(trimLineEnd(line)) {
		case actionRun:
			return c.Source(), true, nil
		case actionExit:
			return nil, false, nil
		}
		if err != nil {
			return c.Source(), true, nil
		}
	}
}

// trimLineEnd strips up to two trailing CR/LF bytes.
func trimLineEnd(line string) string {
	for k := 0; k < 2 && len(line) > 0; k++ {
		if c := line[len(line)-1]; c == '\n' || c == '\r' {
			line = line[:len(line)-1]
		}
	}
	return line
}

// REPLConfig configures the REPL behavior
type REPLConfig struct {
	Config      *Config
	HistoryFile string // "" disables history
	ShowBanner  bool
	Version     string
}

// REPL reads scripts interactively and runs each one when the user types
// "eof" or "run". Every run gets fresh variables.
type REPL struct {
	config    REPLConfig
	interp    *Interpreter
	collector ScriptCollector
	in        io.Reader
	out       io.Writer
}

// NewREPL creates a REPL whose scripts read from in and write to out.
func NewREPL(config REPLConfig, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		config:    config,
		interp:    New(config.Config),
		collector: ScriptCollector{Interactive: true},
		in:        in,
		out:       out,
	}
}

// Interpreter returns the interpreter scripts run on.
func (r *REPL) Interpreter() *Interpreter {
	return r.interp
}

// HandleLine processes one line typed at the prompt. It returns false when
// the user asked to leave.
func (r *REPL) HandleLine(line string) (bool, error) {
	switch r.collector.add(line) {
	case actionRun:
		return true, r.RunScript()
	case actionExit:
		return false, nil
	case actionShow:
		_, err := io.WriteString(r.out, r.collector.src.String())
		return true, err
	case actionHelp:
		_, err := io.WriteString(r.out, replHelp)
		return true, err
	}
	return true, nil
}

// RunScript runs the collected script and starts a new one.
func (r *REPL) RunScript() error {
	src := r.collector.Source()
	r.collector.Reset()
	if len(src) == 0 {
		return nil
	}
	if err := r.interp.Run(src, r.in, r.out); err != nil {
		return err
	}
	r.interp.FinishLine(r.out)
	return nil
}

// Start runs the interactive loop on the terminal until exit, quit or
// end of input. End of input runs what was entered before leaving.
func (r *REPL) Start() error {
	if r.config.ShowBanner {
		fmt.Fprintf(r.out, "Qabalah Language Interpreter ver. %s\n", r.config.Version)
		fmt.Fprintf(r.out, "Interactive mode enabled\n")
		fmt.Fprintf(r.out, "Enter Q-code, type 'help' for instructions.\n")
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	r.loadHistory(ln)
	defer r.saveHistory(ln)

	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			r.collector.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return r.RunScript()
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		more, err := r.HandleLine(line)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (r *REPL) loadHistory(ln *liner.State) {
	if r.config.HistoryFile == "" {
		return
	}
	f, err := os.Open(r.config.HistoryFile)
	if err != nil {
		return // File doesn't exist or can't be read
	}
	defer f.Close()
	if _, err := ln.ReadHistory(f); err != nil {
		r.interp.logger.DebugCat(CatIO, "History %s: %v", r.config.HistoryFile, err)
	}
}

func (r *REPL) saveHistory(ln *liner.State) {
	if r.config.HistoryFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.config.HistoryFile), 0755); err != nil {
		return // Graceful failure
	}
	f, err := os.Create(r.config.HistoryFile)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = ln.WriteHistory(f)
}
