package qabalah

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// maxTemplateDepth bounds how deeply output templates may refer to
// variables that are themselves templates.
const maxTemplateDepth = 64

// lineState records whether program output stopped mid-line, so a
// diagnostic or the end of a run can start on a fresh line.
type lineState struct {
	midLine bool
}

// putc writes one template byte: tab, printable ASCII and DEL pass,
// newline ends the line, other control bytes are dropped.
func (e *Env) putc(c byte) {
	switch {
	case c == '\t' || (c >= 32 && c <= 127):
		_ = e.out.WriteByte(c)
		e.interp.lines.midLine = true
	case c == '\n':
		_ = e.out.WriteByte('\n')
		e.interp.lines.midLine = false
	}
}

// putUTF8 writes the multi-byte sequence starting at p[0] and returns its
// length.
func (e *Env) putUTF8(p []byte) int {
	n := utf8SeqLen(p[0])
	if n > len(p) {
		n = len(p)
	}
	_, _ = e.out.Write(p[:n])
	e.interp.lines.midLine = true
	return n
}

// utf8SeqLen returns the sequence length announced by a lead byte.
func utf8SeqLen(c byte) int {
	switch {
	case c >= 0xF0:
		return 4
	case c >= 0xE0:
		return 3
	case c >= 0xC0:
		return 2
	}
	return 1
}

// output prints v. Void prints "?", numbers print in decimal and %g form.
// A String is a template: "&X" prints variable X (Hebrew letters allowed,
// "*" is the scratch register), "&<X" reads a line into X, "&c" prints c
// as is, '\' prints a newline and '^' a tab. A String starting with '<'
// reads a line into v instead of printing.
func (e *Env) output(v *Value, depth int) {
	if v.Kind() != String {
		_, _ = e.out.Write(v.AppendFormat(nil))
		e.interp.lines.midLine = true
		return
	}
	p := v.Buffer().Bytes()
	if len(p) == 0 {
		return
	}
	if p[0] == '<' {
		e.readLine(v)
		return
	}
	if depth >= maxTemplateDepth {
		e.interp.logger.WarnCat(CatIO, "Output template nested deeper than %d levels", maxTemplateDepth)
		return
	}
	for i := 0; i < len(p) && p[i] != 0; {
		c := p[i]
		i++
		switch c {
		case '&':
			n := i
			input := at(p, n) == '<'
			if input {
				n++
			}
			name, width := at(p, n), 1
			if name >= 0xC0 {
				r, size := utf8.DecodeRune(p[n:])
				width = size
				if l, ok := Transliterate(r); ok {
					name = l
				}
			}
			if target := e.templateVar(name); target != nil {
				if input {
					e.readLine(target)
				} else {
					e.output(target, depth+1)
				}
				i = n + width
				continue
			}
			if input {
				e.putc('<')
				i = n
				continue
			}
			if i >= len(p) || p[i] == 0 {
				return
			}
			if p[i] >= 0xC0 {
				i += e.putUTF8(p[i:])
			} else {
				e.putc(p[i])
				i++
			}
		case '\\':
			e.putc('\n')
		case '^':
			e.putc('\t')
		default:
			if c >= 0xC0 {
				i += e.putUTF8(p[i-1:]) - 1
			} else {
				e.putc(c)
			}
		}
	}
}

// templateVar resolves a template variable reference; only '*' and ASCII
// letters name variables.
func (e *Env) templateVar(c byte) *Value {
	if c != '*' && !isLatin(c) {
		return nil
	}
	return e.lookup(c)
}

// readLine reads one line of input into v as a String, without its line
// terminator. Pending output is flushed first so prompts appear.
func (e *Env) readLine(v *Value) {
	_ = e.out.Flush()
	line, err := e.in.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		e.interp.logger.WarnCat(CatIO, "Input error: %v", err)
	}
	for k := 0; k < 2 && len(line) > 0; k++ {
		if c := line[len(line)-1]; c == '\n' || c == '\r' {
			line = line[:len(line)-1]
		}
	}
	v.SetString(e.interp.buffers.adopt(line))
	e.interp.lines.midLine = false
	e.interp.logger.DebugCat(CatIO, "Read line (len: %d)", len(line))
}

// span measures a delimited region starting after index from. Nested
// open/close pairs balance. It returns the content length and whether the
// closing delimiter was found.
func span(src []byte, from int, open, close string) (int, bool) {
	rest := src[from+1:]
	if k := bytes.IndexByte(rest, 0); k >= 0 {
		rest = rest[:k]
	}
	depth := 1
	for l := 0; l < len(rest); l++ {
		switch {
		case bytes.HasPrefix(rest[l:], []byte(open)):
			depth++
			l++
		case bytes.HasPrefix(rest[l:], []byte(close)):
			depth--
			if depth == 0 {
				return l, true
			}
			l++
		}
	}
	return len(rest), false
}

// directOutput copies the bytes after the cursor up to the matching "<?"
// straight to the output. It returns false if the span never closes.
func (e *Env) directOutput() bool {
	l, ok := span(e.src, e.pos, "?>", "<?")
	if !ok {
		return false
	}
	content := e.src[e.pos+1 : e.pos+1+l]
	_, _ = e.out.Write(content)
	if len(content) > 0 {
		last := content[len(content)-1]
		e.interp.lines.midLine = last != '\n' && last != '\r'
	}
	e.pos += l + 2
	return true
}

// rawString captures the bytes after the cursor up to the matching "<&".
// It returns nil if the span never closes.
func (e *Env) rawString() *Buffer {
	l, ok := span(e.src, e.pos, "&>", "<&")
	if !ok {
		return nil
	}
	b := e.interp.buffers.dup(e.src[e.pos+1 : e.pos+1+l])
	e.pos += l + 2
	e.interp.logger.DebugCat(CatString, "Created string: %q", b.Bytes())
	return b
}
