package qabalah

import (
	"errors"
	"fmt"
)

// DefaultStackDepth is the frame-stack capacity: 1+2+...+10, the sum of the
// ten spheres.
const DefaultStackDepth = 55

// VariableCount is the number of variable slots, one per Hebrew letter.
const VariableCount = 22

// ErrStackOverflow is reported when a push would exceed the frame stack.
var ErrStackOverflow = errors.New("stack overflow")

// SourcePosition tracks the position of code in source files
type SourcePosition struct {
	Line     int
	Column   int
	Length   int
	Filename string
}

// FileAccessConfig restricts which files a script may include.
// A nil ReadRoots leaves includes unrestricted; an empty, non-nil slice
// denies every include.
type FileAccessConfig struct {
	ReadRoots []string
}

// Config holds interpreter configuration
type Config struct {
	Debug            bool // operator decode and frame transitions
	Verbose          bool // strings, reductions, buffer lifetimes, file reads
	StackDepth       int
	ShowErrorContext bool
	ContextLines     int
	FileAccess       *FileAccessConfig
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		Verbose:          false,
		StackDepth:       DefaultStackDepth,
		ShowErrorContext: true,
		ContextLines:     2,
	}
}

// stackDepth returns the effective frame capacity.
func (c *Config) stackDepth() int {
	if c == nil || c.StackDepth == 0 {
		return DefaultStackDepth
	}
	if c.StackDepth < 2 {
		return 2
	}
	return c.StackDepth
}

// ScriptError is a diagnostic raised while running a script. Offset is the
// byte index into the environment's source; Line and Column are 1-based.
type ScriptError struct {
	Message string
	Offset  int
	Line    int
	Column  int
	Name    string
	Err     error
}

func (e *ScriptError) Error() string {
	name := e.Name
	if name == "" {
		name = "<script>"
	}
	return fmt.Sprintf("%s[%d]: %s", name, e.Offset, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Position converts the error location for the logger.
func (e *ScriptError) Position() *SourcePosition {
	return &SourcePosition{
		Line:     e.Line,
		Column:   e.Column,
		Length:   1,
		Filename: e.Name,
	}
}
