package qabalah

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runScript runs src with input on a fresh interpreter and returns the
// program output and the diagnostics.
func runScript(t *testing.T, config *Config, src, input string) (string, string, *Interpreter) {
	t.Helper()
	interp := New(config)
	var out, diag bytes.Buffer
	interp.Logger().SetWriters(&diag, &diag)
	if err := interp.Run([]byte(src), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return out.String(), diag.String(), interp
}

func TestExecPrograms(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{"void prints question mark", "&", "", "?"},
		{"string", "'Hi'&", "", "Hi"},
		{"register window sum", "A1B2C+&", "", "3"},
		{"trailing literal", "A1+2&", "", "3"},
		{"compound assign", "A5B3A+:&", "", "8"},
		{"multiply", "A7 B6 C*&", "", "42"},
		{"float promotion", "A1.5B2C*&", "", "3"},
		{"integer division", "A7B2C/&", "", "3"},
		{"integer remainder", "A7B2C%&", "", "1"},
		{"float remainder", "A7.0B2C%&", "", "0.5"},
		{"division by zero", "A7B0C/&", "", "?"},
		{"power", "A2B10C**&", "", "1024"},
		{"square root", "A16B//&", "", "4"},
		{"increment", "A5++&", "", "6"},
		{"decrement", "A5--&", "", "4"},
		{"abs", "A5B+-C-+&", "", "5"},
		{"negative abs", "A5B+-&", "", "-5"},
		{"floor", "A2.5%-&", "", "2"},
		{"ceil", "A2.5%+&", "", "3"},
		{"round to float", "A3.7B0.0%%&", "", "4"},
		{"bitwise and", "A6B3C&&&", "", "2"},
		{"shift left", "A1B4C<<&", "", "16"},
		{"negative shift ignored", "A8 B0 B-:5 C3 A B C>>C&", "", "3"},
		{"not", "A0B~&", "", "-1"},
		{"hex literal", "A0x1F&", "", "31"},
		{"exponent literal", "A1e6&", "", "1e+06"},
		{"gematria", "A'AB'##&", "", "3"},
		{"integer string", "A'123'#:&", "", "123"},
		{"integer reduce", "A1234##&", "", "10"},
		{"reduce", "A'AMEN'B9C#%&", "", "1"},
		{"elvis keeps non-empty", "A3B7C??&", "", "7"},
		{"elvis falls back", "A3B0C??&", "", "3"},
		{"elvis assign", "A0B5A?:&", "", "5"},
		{"hebrew variables", "א3 ב4 ג+ G&", "", "7"},
		{"hebrew aliases latin", "א5A&", "", "5"},
		{"unicode is ignored", "A€1&", "", "1"},
		{"template variable", "A'x'B'[&A]\\'&", "", "[x]\n"},
		{"template escape", "A'&&'&", "", "&"},
		{"template tab", "A'a^b'&", "", "a\tb"},
		{"template hebrew variable", "A'q'B'&א'&", "", "q"},
		{"template trailing ampersand", "&>x&<&&", "", "x"},
		{"template non-variable input marker", "A'&<1'&", "", "<1"},
		{"control bytes dropped", "A'a\x01b'&", "", "ab"},
		{"interpolation", "A5B'v=&:A'&", "", "v=5"},
		{"interpolate scratch", "A5B'&:*'&", "", "5"},
		{"read line", "A&<B'[&A]'&", "hello\r\n", "[hello]"},
		{"read at end of input", "A&<B'[&A]'&", "", "[]"},
		{"template reads input", "A'&<B'&B&", "zz\n", "zz"},
		{"string reads input", "A'<'&B'[&A]'&", "in\n", "[in]"},
		{"direct output", "?>raw text<?'x'&", "", "raw textx"},
		{"nested direct output", "?>a?>b<?c<?", "", "a?>b<?c"},
		{"raw string", "&>a'b<&&", "", "a'b"},
		{"comment", "/* 'no'& */'yes'&", "", "yes"},
		{"nested comment", "/* /* */ 'no'& */'yes'&", "", "yes"},
		{"exec", "@&'B7B&'", "", "7"},
		{"exec variables are separate", "B1@&'B2'B&", "", "1"},
		{"exec from variable", "A'B7B&'@&", "", "7"},
		{"missing include", "@#'/nonexistent/q/file.q'A'ok'&", "", "ok"},
		{"unbalanced group close", ")'x'&", "", ""},
		{"concatenation keeps left operand", "A'x'B'y'C+&", "", "x"},
		{"concatenation with number on the left", "A1B'y'C+&", "", ""},
		{"string makes arithmetic a no-op", "A'x'B2C5ABC-&", "", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diag, _ := runScript(t, nil, tt.src, tt.input)
			if got != tt.want {
				t.Errorf("Expected %q, got %q (diagnostics: %q)", tt.want, got, diag)
			}
		})
	}
}

func TestExecControlFlow(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"if false takes else", "A1[A=2?'yes'&|'no'&]", "no"},
		{"if true skips else", "A2[A=2?'yes'&|'no'&]", "yes"},
		{"false guard skips block", "A1[A=2?B'x'&]C'done'&", "done"},
		{"negated if", "A1[A=2!?'y'&|'n'&]", "y"},
		{"negated unset is false", "[!?'x'&]'y'&", "y"},
		{"unset is true", "[?'x'&]", "x"},
		{"else without if", "[|'no'&]'yes'&", "yes"},
		{"and of comparisons", "A1B2[A=1B=5?'y'&|'n'&]", "n"},
		{"or group", "A1B2[(A=1B=5)?'y'&|'n'&]", "y"},
		{"nested group is and", "A1B2[((A=1B=5))?'y'&|'n'&]", "n"},
		{"and of or group", "A1B0C3[A=1(B=2C=3)?'y'&|'n'&]", "y"},
		{"and of false or group", "A1B0C0[A=1(B=2C=3)?'y'&|'n'&]", "n"},
		{"is not empty", "A3[!!?'y'&|'n'&]", "y"},
		{"is empty", "A'0'[! ?'y'&|'n'&]", "y"},
		{"string against number", "A'10'B9[BA>?'y'&|'n'&]", "y"},
		{"less or equal", "A3[A<=3?'y'&|'n'&]", "y"},
		{"not equal", "A3[A!=3?'y'&|'n'&]", "n"},
		{"nested blocks", "A1[[A=1?'a'&]'b'&]'c'&", "abc"},
		{"skipped nested blocks", "A1[A=2?[B'a'&]B'b'&]'c'&", "c"},
		{"loop", "A0[A++A<3?@<]A&", "3"},
		{"loop output", "A0 [A++ A& A<5? @<]", "12345"},
		{"call", "F@:[G'hi'&]F@F@", "hihi"},
		{"return", "F@:[G'a'&@^G'b'&]F@G'c'&", "ac"},
		{"return from nested block", "F@:[G'a'&[@^]G'b'&]F@G'c'&", "ac"},
		{"label is skipped", "F@:[G'no'&]G'yes'&", "yes"},
		{"unterminated block", "A1[A=2?'x'&", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diag, _ := runScript(t, nil, tt.src, "")
			if got != tt.want {
				t.Errorf("Expected %q, got %q (diagnostics: %q)", tt.want, got, diag)
			}
		})
	}
}

func TestExecStackOverflow(t *testing.T) {
	t.Run("root environment stops", func(t *testing.T) {
		got, diag, _ := runScript(t, nil, "F@:[F@]F@'x'&", "")
		if got != "" {
			t.Errorf("Expected no output, got %q", got)
		}
		if !strings.Contains(diag, "Stack overflow") {
			t.Errorf("Expected stack overflow diagnostic, got %q", diag)
		}
		if !strings.Contains(diag, "at line 1") {
			t.Errorf("Expected a source position, got %q", diag)
		}
	})

	t.Run("only the child environment stops", func(t *testing.T) {
		got, diag, _ := runScript(t, nil, "@&'F@:[F@]F@''after'&", "")
		if got != "after" {
			t.Errorf("Expected parent to resume, got %q", got)
		}
		if !strings.Contains(diag, "Stack overflow") {
			t.Errorf("Expected stack overflow diagnostic, got %q", diag)
		}
	})

	t.Run("parent variables survive", func(t *testing.T) {
		got, diag, _ := runScript(t, nil, "A5@&'A9F@:[F@]F@'A&", "")
		if got != "5" {
			t.Errorf("Expected parent A to stay 5, got %q", got)
		}
		if !strings.Contains(diag, "Stack overflow") {
			t.Errorf("Expected stack overflow diagnostic, got %q", diag)
		}
	})

	t.Run("configured depth", func(t *testing.T) {
		config := DefaultConfig()
		config.StackDepth = 4
		got, _, _ := runScript(t, config, "[[['x'&]]]", "")
		if got != "x" {
			t.Errorf("Expected three levels to fit, got %q", got)
		}
		got, diag, _ := runScript(t, config, "[[[['x'&]]]]", "")
		if got != "" {
			t.Errorf("Expected four levels to overflow, got %q", got)
		}
		if !strings.Contains(diag, "Stack overflow") {
			t.Errorf("Expected stack overflow diagnostic, got %q", diag)
		}
	})
}

func TestExecInclude(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.q")
	if err := os.WriteFile(lib, []byte("#!/usr/bin/q\nB'inc'B&"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("runs included file", func(t *testing.T) {
		got, diag, _ := runScript(t, nil, "@#'"+lib+"''main'&", "")
		if got != "incmain" {
			t.Errorf("Expected %q, got %q (diagnostics: %q)", "incmain", got, diag)
		}
	})

	t.Run("included file has its own variables", func(t *testing.T) {
		got, _, _ := runScript(t, nil, "B'outer'@#'"+lib+"'B&", "")
		if got != "incouter" {
			t.Errorf("Expected %q, got %q", "incouter", got)
		}
	})

	t.Run("read roots allow", func(t *testing.T) {
		config := DefaultConfig()
		config.FileAccess = &FileAccessConfig{ReadRoots: []string{dir}}
		got, _, _ := runScript(t, config, "@#'"+lib+"'", "")
		if got != "inc" {
			t.Errorf("Expected %q, got %q", "inc", got)
		}
	})

	t.Run("read roots deny", func(t *testing.T) {
		config := DefaultConfig()
		config.FileAccess = &FileAccessConfig{ReadRoots: []string{t.TempDir()}}
		got, _, _ := runScript(t, config, "@#'"+lib+"''main'&", "")
		if got != "main" {
			t.Errorf("Expected include to be skipped, got %q", got)
		}
	})

	t.Run("empty read roots deny everything", func(t *testing.T) {
		config := DefaultConfig()
		config.FileAccess = &FileAccessConfig{ReadRoots: []string{}}
		got, _, _ := runScript(t, config, "@#'"+lib+"'", "")
		if got != "" {
			t.Errorf("Expected include to be skipped, got %q", got)
		}
	})
}

func TestExecReleasesBuffers(t *testing.T) {
	programs := []string{
		"A'x'B'y'C+&",
		"A'x'A'y'A'z'&",
		"B2C3A'x'*&",
		"A'x'B:C:A1B2C3",
		"&>raw<&B'a'C'&:A'",
		"&>A'x'B'y'C+<&@&",
		"A&<B'&A'&",
	}
	for _, src := range programs {
		_, diag, interp := runScript(t, nil, src, "line\n")
		if n := interp.LiveBuffers(); n != 0 {
			t.Errorf("%q: expected all buffers released, %d still live", src, n)
		}
		if diag != "" {
			t.Errorf("%q: unexpected diagnostics %q", src, diag)
		}
	}
}

func TestExecDiagnosticStartsNewLine(t *testing.T) {
	interp := New(nil)
	var buf bytes.Buffer
	interp.Logger().SetWriters(&buf, &buf)
	if err := interp.Run([]byte("'ab'&F@:[F@]F@"), nil, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "ab\n[Q:flow ERROR] Stack overflow") {
		t.Errorf("Expected diagnostic on its own line, got %q", buf.String())
	}
	if interp.NeedsNewline() {
		t.Error("Expected line state to be reset by the diagnostic")
	}
}

func TestExecFinishLine(t *testing.T) {
	interp := New(nil)
	var out bytes.Buffer
	if err := interp.Run([]byte("'x'&"), nil, &out); err != nil {
		t.Fatal(err)
	}
	if !interp.NeedsNewline() {
		t.Error("Expected output to end mid-line")
	}
	interp.FinishLine(&out)
	interp.FinishLine(&out)
	if out.String() != "x\n" {
		t.Errorf("Expected %q, got %q", "x\n", out.String())
	}
}

func TestExecDebugLogging(t *testing.T) {
	config := DefaultConfig()
	config.Debug = true
	config.Verbose = true
	got, diag, _ := runScript(t, config, "A'AB'##[A=3?'ok'&]", "")
	if got != "ok" {
		t.Errorf("Expected %q, got %q", "ok", got)
	}
	for _, want := range []string{"[DEBUG:decode]", "[TRACE:flow]", "[DEBUG:env]", "[DEBUG:string]", "[DEBUG:math]", "[DEBUG:memory]"} {
		if !strings.Contains(diag, want) {
			t.Errorf("Expected %s messages in diagnostics", want)
		}
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.q")
	if err := os.WriteFile(path, []byte("#!/usr/bin/env q\n'hello'&"), 0644); err != nil {
		t.Fatal(err)
	}
	interp := New(nil)
	var out bytes.Buffer
	if err := interp.RunFile(path, nil, &out); err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}
	if out.String() != "hello" {
		t.Errorf("Expected %q, got %q", "hello", out.String())
	}

	if err := interp.RunFile(filepath.Join(dir, "missing.q"), nil, &out); err == nil {
		t.Error("Expected an error for a missing file")
	} else if !os.IsNotExist(errors.Unwrap(err)) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}
