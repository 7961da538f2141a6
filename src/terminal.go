package qabalah

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// IsRedirected reports whether f is a pipe or a regular file rather than a
// terminal.
func IsRedirected(f *os.File) bool {
	return !IsTerminal(f)
}

// SupportsColor reports whether ANSI color codes written to f would be
// shown as color.
func SupportsColor(f *os.File) bool {
	if !IsTerminal(f) {
		return false
	}
	// Respect NO_COLOR environment variable (https://no-color.org/)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return detectANSISupport(os.Getenv("TERM"))
}

// detectANSISupport checks if the terminal type likely supports ANSI
// escape codes
func detectANSISupport(termType string) bool {
	if termType == "dumb" {
		return false
	}
	if termType == "" {
		// Windows consoles leave TERM unset
		return os.Getenv("COLORTERM") != "" || os.Getenv("WT_SESSION") != ""
	}
	// Any other TERM is assumed to speak ANSI
	return true
}
