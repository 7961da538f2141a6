package qabalah

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// LogLevel represents the severity of a log message (higher value = higher severity)
type LogLevel int

const (
	LevelTrace  LogLevel = iota // Detailed tracing (requires enabled + category)
	LevelInfo                   // Informational messages (requires enabled + category)
	LevelDebug                  // Development debugging (requires enabled + category)
	LevelNotice                 // Notable events (always shown)
	LevelWarn                   // Warnings (always shown)
	LevelError                  // Runtime errors (always shown)
	LevelFatal                  // Fatal to the running environment (always shown)
)

// LogCategory represents the subsystem generating the message
type LogCategory string

const (
	CatNone   LogCategory = ""       // Uncategorized
	CatDecode LogCategory = "decode" // Operator decoding
	CatFlow   LogCategory = "flow"   // Frame stack transitions
	CatEnv    LogCategory = "env"    // Environment open/close, include, exec
	CatMemory LogCategory = "memory" // String buffer refcounting
	CatIO     LogCategory = "io"     // File reads, line input
	CatMath   LogCategory = "math"   // Reduction, gematria sums
	CatString LogCategory = "string" // String creation
)

// debugCategories are switched on by Config.Debug.
var debugCategories = []LogCategory{CatDecode, CatFlow, CatEnv}

// verboseCategories are switched on by Config.Verbose.
var verboseCategories = []LogCategory{CatString, CatMath, CatMemory, CatIO}

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// Logger handles diagnostics for the interpreter
type Logger struct {
	enabled           bool
	enabledCategories map[LogCategory]bool
	out               io.Writer
	errOut            io.Writer
	// colorEnabled is true if terminal colors should be used for error output
	colorEnabled bool
	contextLines int
	// beforeWrite runs ahead of every emitted message; the interpreter uses
	// it to flush program output and finish a pending output line.
	beforeWrite func(w io.Writer)
}

// NewLogger creates a new logger writing to stderr
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled:           enabled,
		enabledCategories: make(map[LogCategory]bool),
		out:               os.Stderr,
		errOut:            os.Stderr,
		colorEnabled:      SupportsColor(os.Stderr),
		contextLines:      2,
	}
}

// SetWriters redirects diagnostic output. Color is disabled unless the
// error writer is the terminal's stderr.
func (l *Logger) SetWriters(out, errOut io.Writer) {
	if out != nil {
		l.out = out
	}
	if errOut != nil {
		l.errOut = errOut
		if f, ok := errOut.(*os.File); !ok || f != os.Stderr {
			l.colorEnabled = false
		}
	}
}

// SetContextLines sets how many source lines surround a positioned error.
// Zero disables the source excerpt.
func (l *Logger) SetContextLines(n int) {
	if n < 0 {
		n = 0
	}
	l.contextLines = n
}

// setBeforeWrite installs the hook run ahead of each message.
func (l *Logger) setBeforeWrite(fn func(w io.Writer)) {
	l.beforeWrite = fn
}

func (l *Logger) writeOutput(isDebug bool, output string) {
	w := l.errOut
	if isDebug {
		w = l.out
	}
	if l.beforeWrite != nil {
		l.beforeWrite(w)
	}
	if !isDebug && l.colorEnabled {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", colorYellow, output, colorReset)
		return
	}
	_, _ = fmt.Fprintln(w, output)
}

// EnableCategory enables debug logging for a specific category
func (l *Logger) EnableCategory(cat LogCategory) {
	l.enabledCategories[cat] = true
}

// shouldLog determines if a message should be logged based on level and category
func (l *Logger) shouldLog(level LogLevel, cat LogCategory) bool {
	switch level {
	case LevelFatal, LevelError, LevelWarn, LevelNotice:
		return true // Always shown
	case LevelDebug, LevelInfo, LevelTrace:
		return l.enabled && (cat == CatNone || l.enabledCategories[cat])
	default:
		return false
	}
}

// Enabled reports whether a debug message in cat would be written. Callers
// use it to skip building expensive messages.
func (l *Logger) Enabled(cat LogCategory) bool {
	return l.shouldLog(LevelDebug, cat)
}

// Log is the unified logging method
func (l *Logger) Log(level LogLevel, cat LogCategory, message string, position *SourcePosition, context []string) {
	if !l.shouldLog(level, cat) {
		return
	}

	var prefix string
	catSuffix := ""
	if cat != CatNone {
		catSuffix = fmt.Sprintf(":%s", cat)
	}

	switch level {
	case LevelTrace:
		prefix = fmt.Sprintf("[TRACE%s]", catSuffix)
	case LevelInfo:
		prefix = fmt.Sprintf("[INFO%s]", catSuffix)
	case LevelDebug:
		prefix = fmt.Sprintf("[DEBUG%s]", catSuffix)
	case LevelNotice:
		prefix = fmt.Sprintf("[Q%s NOTICE]", catSuffix)
	case LevelWarn:
		prefix = fmt.Sprintf("[Q%s WARN]", catSuffix)
	case LevelError, LevelFatal:
		prefix = fmt.Sprintf("[Q%s ERROR]", catSuffix)
	}

	output := fmt.Sprintf("%s %s", prefix, message)

	if position != nil {
		filename := position.Filename
		if filename == "" {
			filename = "<script>"
		}
		output += fmt.Sprintf("\n  at line %d, column %d in %s", position.Line, position.Column, filename)

		if len(context) > 0 && l.contextLines > 0 {
			output += l.formatSourceContext(position, context)
		}
	}

	isLowSeverity := level == LevelTrace || level == LevelInfo || level == LevelDebug
	l.writeOutput(isLowSeverity, output)
}

// WarnCat logs a categorized warning message
func (l *Logger) WarnCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelWarn, cat, fmt.Sprintf(format, args...), nil, nil)
}

// DebugCat logs a categorized debug message
func (l *Logger) DebugCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelDebug, cat, fmt.Sprintf(format, args...), nil, nil)
}

// TraceCat logs a categorized trace message
func (l *Logger) TraceCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelTrace, cat, fmt.Sprintf(format, args...), nil, nil)
}

// ScriptError logs a positioned script error. context holds the source
// split into lines; it may be nil.
func (l *Logger) ScriptError(cat LogCategory, err *ScriptError, context []string) {
	l.Log(LevelError, cat, err.Message, err.Position(), context)
}

// formatSourceContext formats source context with line numbers
func (l *Logger) formatSourceContext(position *SourcePosition, context []string) string {
	var message strings.Builder
	message.WriteString("\n")

	contextStart := max(0, position.Line-l.contextLines)
	contextEnd := min(len(context), position.Line+l.contextLines-1)

	for i := contextStart; i < contextEnd; i++ {
		lineNum := i + 1
		isErrorLine := lineNum == position.Line

		var prefix string
		if isErrorLine {
			prefix = ">"
		} else {
			prefix = " "
		}

		lineNumStr := fmt.Sprintf("%3d", lineNum)
		message.WriteString(fmt.Sprintf("\n  %s %s | %s", prefix, lineNumStr, context[i]))

		if isErrorLine && position.Column > 0 {
			indent := "      | " + strings.Repeat(" ", position.Column-1)
			caretLen := max(1, position.Length)
			caret := strings.Repeat("^", caretLen)
			message.WriteString(fmt.Sprintf("\n  %s%s", indent, caret))
		}
	}

	return message.String()
}
