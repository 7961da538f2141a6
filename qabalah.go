// Package qabalah provides an interpreter for Q, the Qabalah Language, that
// can be embedded in Go applications.
//
// This package re-exports the public API from the implementation in src/.
// For full documentation, see the implementation package.
//
// Basic usage:
//
//	q := qabalah.New(qabalah.DefaultConfig())
//	err := q.Run([]byte("'Hello, World!\\'&"), os.Stdin, os.Stdout)
//	q.FinishLine(os.Stdout)
package qabalah

import (
	"bufio"
	"io"
	"os"

	impl "github.com/phroun/qabalah/src"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// Interpreter is the shared context of one or more running scripts.
type Interpreter = impl.Interpreter

// Env is one running script with its own variables and frame stack.
type Env = impl.Env

// Config holds configuration options for the interpreter.
type Config = impl.Config

// FileAccessConfig restricts which files the include operator may read.
type FileAccessConfig = impl.FileAccessConfig

// ScriptError is a diagnostic raised while running a script.
type ScriptError = impl.ScriptError

// SourcePosition tracks location in source code for error reporting.
type SourcePosition = impl.SourcePosition

// ErrStackOverflow is reported when a script nests deeper than the frame
// stack allows.
var ErrStackOverflow = impl.ErrStackOverflow

// Stack and variable limits.
const (
	DefaultStackDepth = impl.DefaultStackDepth
	VariableCount     = impl.VariableCount
)

// =============================================================================
// VALUES
// =============================================================================

// Value is a variable or register content.
type Value = impl.Value

// Kind is the dynamic type of a Value.
type Kind = impl.Kind

// Value kinds.
const (
	Void    = impl.Void
	Integer = impl.Integer
	Float   = impl.Float
	String  = impl.String
)

// Buffer is a reference-counted string payload.
type Buffer = impl.Buffer

// =============================================================================
// LOGGING
// =============================================================================

// Logger writes categorized diagnostics.
type Logger = impl.Logger

// LogLevel represents the severity of a log message.
type LogLevel = impl.LogLevel

// Log levels.
const (
	LevelTrace  = impl.LevelTrace
	LevelInfo   = impl.LevelInfo
	LevelDebug  = impl.LevelDebug
	LevelNotice = impl.LevelNotice
	LevelWarn   = impl.LevelWarn
	LevelError  = impl.LevelError
	LevelFatal  = impl.LevelFatal
)

// LogCategory represents the subsystem generating a message.
type LogCategory = impl.LogCategory

// Log categories.
const (
	CatNone   = impl.CatNone
	CatDecode = impl.CatDecode
	CatFlow   = impl.CatFlow
	CatEnv    = impl.CatEnv
	CatMemory = impl.CatMemory
	CatIO     = impl.CatIO
	CatMath   = impl.CatMath
	CatString = impl.CatString
)

// =============================================================================
// REPL AND CLI
// =============================================================================

// REPL runs scripts typed at a terminal.
type REPL = impl.REPL

// REPLConfig configures the REPL.
type REPLConfig = impl.REPLConfig

// CLIConfig is the q command's configuration file.
type CLIConfig = impl.CLIConfig

// =============================================================================
// CONSTRUCTORS AND HELPERS
// =============================================================================

// New creates a new interpreter. A nil config uses DefaultConfig.
func New(config *Config) *Interpreter {
	return impl.New(config)
}

// DefaultConfig returns the default interpreter configuration.
func DefaultConfig() *Config {
	return impl.DefaultConfig()
}

// NewLogger creates a diagnostics logger.
func NewLogger(enabled bool) *Logger {
	return impl.NewLogger(enabled)
}

// NewREPL creates a REPL whose scripts read from in and write to out.
func NewREPL(config REPLConfig, in io.Reader, out io.Writer) *REPL {
	return impl.NewREPL(config, in, out)
}

// LoadCLIConfig reads the q command's configuration file.
func LoadCLIConfig(path string) (*CLIConfig, error) {
	return impl.LoadCLIConfig(path)
}

// ReadScript reads a script file, returning where execution starts.
func ReadScript(path string) ([]byte, int, error) {
	return impl.ReadScript(path)
}

// ValueSum returns the gematria value of a string.
func ValueSum(s []byte) int64 {
	return impl.ValueSum(s)
}

// Reduce replaces n by its digit sum until it is at most floor.
func Reduce(n, floor int64) int64 {
	return impl.Reduce(n, floor)
}

// ReadScriptFrom collects a script line by line from br, honoring the
// "eof", "run", "exit" and "quit" input commands. Lines after the script
// remain in br.
func ReadScriptFrom(br *bufio.Reader) ([]byte, bool, error) {
	return impl.ReadScriptFrom(br)
}

// DefaultCLIConfigPath returns ~/.q/config.yaml.
func DefaultCLIConfigPath() string {
	return impl.DefaultCLIConfigPath()
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return impl.IsTerminal(f)
}

// IsRedirected reports whether f is a pipe or file rather than a terminal.
func IsRedirected(f *os.File) bool {
	return impl.IsRedirected(f)
}

// SupportsColor reports whether ANSI colors written to f would show.
func SupportsColor(f *os.File) bool {
	return impl.SupportsColor(f)
}
