package qabalah

import (
	"bytes"
	"math"
	"strconv"
)

// Kind is the dynamic type of a Value.
type Kind uint8

const (
	Void Kind = iota
	Integer
	Float
	String
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Integer:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	}
	return "unknown"
}

// Value is a variable or register content. A String value holds one
// reference to its buffer; the buffer may be nil, which reads as empty.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    *Buffer
}

// IntValue returns an Integer value.
func IntValue(i int64) Value { return Value{kind: Integer, i: i} }

// FloatValue returns a Float value.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// StringValue returns a String value holding the caller's reference to b.
func StringValue(b *Buffer) Value { return Value{kind: String, s: b} }

// Kind returns the dynamic type.
func (v *Value) Kind() Kind { return v.kind }

// Buffer returns the held buffer, nil unless v is a String.
func (v *Value) Buffer() *Buffer {
	if v.kind != String {
		return nil
	}
	return v.s
}

// Int coerces v to an integer. Strings coerce to 0.
func (v *Value) Int() int64 {
	switch v.kind {
	case Integer:
		return v.i
	case Float:
		return int64(v.f)
	}
	return 0
}

// Float coerces v to a float. Strings coerce to 0.
func (v *Value) Float() float64 {
	switch v.kind {
	case Integer:
		return float64(v.i)
	case Float:
		return v.f
	}
	return 0
}

// Empty reports whether v is false-like: Void, 0, 0.0, or a String that is
// missing, zero length or exactly "0".
func (v *Value) Empty() bool {
	switch v.kind {
	case Integer:
		return v.i == 0
	case Float:
		return v.f == 0
	case String:
		data := v.s.Bytes()
		return len(data) == 0 || (len(data) == 1 && data[0] == '0')
	}
	return true
}

// Assign copies src into v, sharing src's buffer. Assigning a value to
// itself, or a String to a holder of the same buffer, does nothing.
func (v *Value) Assign(src *Value) {
	if v == src || (v.kind == String && src.kind == String && v.s == src.s) {
		return
	}
	v.Clear()
	*v = *src
	if v.kind == String {
		v.s.Retain()
	}
}

// SetInt replaces v with an integer.
func (v *Value) SetInt(i int64) {
	v.Clear()
	v.kind, v.i = Integer, i
}

// SetFloat replaces v with a float.
func (v *Value) SetFloat(f float64) {
	v.Clear()
	v.kind, v.f = Float, f
}

// SetString replaces v with a String taking over the caller's reference to
// b. If v already holds b the surplus reference is dropped.
func (v *Value) SetString(b *Buffer) {
	if v.kind == String && v.s == b {
		b.Release()
		return
	}
	v.Clear()
	v.kind, v.s = String, b
}

// Clear releases any held buffer and makes v Void.
func (v *Value) Clear() {
	if v.kind == String {
		v.s.Release()
	}
	*v = Value{}
}

// storeInt, storeFloat and storeBuf overwrite v without releasing what it
// held. The dispatch loop releases the previous V0 buffer once the operator
// has run.
func (v *Value) storeInt(i int64) {
	*v = Value{kind: Integer, i: i}
}

func (v *Value) storeFloat(f float64) {
	*v = Value{kind: Float, f: f}
}

func (v *Value) storeBuf(b *Buffer) {
	if v.kind == String && v.s == b {
		b.Release()
		return
	}
	*v = Value{kind: String, s: b}
}

// AppendFormat appends the printed form of v: "?" for Void, decimal
// integers, floats as C's %g, and String content verbatim.
func (v *Value) AppendFormat(dst []byte) []byte {
	switch v.kind {
	case Integer:
		return strconv.AppendInt(dst, v.i, 10)
	case Float:
		return appendFloatG(dst, v.f)
	case String:
		return append(dst, v.s.Bytes()...)
	}
	return append(dst, '?')
}

// String returns the printed form of v.
func (v *Value) String() string {
	return string(v.AppendFormat(nil))
}

// appendFloatG formats f like C's printf("%g").
func appendFloatG(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "nan"...)
	case math.IsInf(f, 1):
		return append(dst, "inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-inf"...)
	}
	return strconv.AppendFloat(dst, f, 'g', 6, 64)
}

// Compare orders a against b and returns -1, 0 or +1. Void compares as
// integer 0. Strings compare bytewise with each other; against a number a
// String compares as its parsed value when it reads as one, else as 0.
func Compare(a, b *Value) int {
	if a == b {
		return 0
	}
	if a.kind == String && b.kind == String {
		return bytes.Compare(a.s.Bytes(), b.s.Bytes())
	}
	if a.kind == String {
		return -Compare(b, a)
	}
	if b.kind == String {
		data := b.s.Bytes()
		if a.kind == Float {
			var f float64
			if isFloatString(data) {
				f, _ = ParseFloatPrefix(data)
			}
			return cmpFloat(a.f, f)
		}
		var i int64
		if isIntString(data) {
			i, _ = ParseIntPrefix(data)
		}
		return cmpInt(a.i, i)
	}
	if a.kind == Float || b.kind == Float {
		return cmpFloat(a.Float(), b.Float())
	}
	return cmpInt(a.i, b.i)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// isIntString reports whether s is an optional '-' followed by one or more
// decimal digits.
func isIntString(s []byte) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isFloatString reports whether s is an optional '-', a digit, further
// digits or dots, and optionally an exponent marker with an optional '-'
// followed by digits.
func isFloatString(s []byte) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	state := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case state == 1 && (c == 'e' || c == 'E'):
			if i+1 < len(s) && s[i+1] == '-' {
				i++
			}
			state = 2
		case c >= '0' && c <= '9', c == '.' && state == 1:
			if state == 0 {
				state = 1
			}
		default:
			return false
		}
	}
	return true
}
