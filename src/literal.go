package qabalah

import (
	"math"
	"strconv"
)

// ParseIntPrefix parses the longest integer prefix of s the way C's strtol
// does with base 0: optional leading space and sign, then "0x" hex, a
// leading-0 octal or decimal digits. Out-of-range values clamp. It returns
// the value and the number of bytes consumed, 0 if no digits were found.
func ParseIntPrefix(s []byte) (int64, int) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	base := uint64(10)
	switch {
	case i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') && digitValue(s[i+2]) < 16:
		base = 16
		i += 2
	case i < len(s) && s[i] == '0':
		base = 8
	}
	start := i
	var n uint64
	overflow := false
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	for ; i < len(s); i++ {
		d := digitValue(s[i])
		if d >= base {
			break
		}
		if !overflow {
			if n > (limit-d)/base {
				overflow = true
			} else {
				n = n*base + d
			}
		}
	}
	if i == start {
		return 0, 0
	}
	if overflow {
		n = limit
	}
	if neg {
		return -int64(n - 1) - 1, i
	}
	return int64(n), i
}

// ParseFloatPrefix parses the longest decimal floating-point prefix of s the
// way C's strtod does. It returns the value and the number of bytes
// consumed, 0 if no number was found.
func ParseFloatPrefix(s []byte) (float64, int) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			digits++
		}
	}
	if digits == 0 {
		return 0, 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	// A range error still yields the saturated value, as strtod does.
	f, _ := strconv.ParseFloat(string(s[start:i]), 64)
	return f, i
}

func isSpace(c byte) bool {
	return c == ' ' || (c >= '\t' && c <= '\r')
}

func digitValue(c byte) uint64 {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0')
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 10
	}
	return 36
}

// NumberLiteral reads the number starting at src[p]. A digit run followed by
// '.' or 'e', or a leading '.', makes a float; anything else is an integer
// in C base-0 notation. It returns the value and the index of the last
// byte consumed.
func NumberLiteral(src []byte, p int) (Value, int) {
	isFloat := src[p] == '.'
	for i := p + 1; !isFloat && i < len(src); i++ {
		c := src[i]
		if c >= '0' && c <= '9' {
			continue
		}
		isFloat = c == '.' || c == 'e'
		break
	}
	var v Value
	var n int
	if isFloat {
		var f float64
		f, n = ParseFloatPrefix(src[p:])
		v = FloatValue(f)
	} else {
		var i int64
		i, n = ParseIntPrefix(src[p:])
		v = IntValue(i)
	}
	if n == 0 {
		n = 1
	}
	return v, p + n - 1
}

// QuotedLiteral reads the quoted string whose opening quote is src[p].
// "&:X" splices in the printed value of variable X, or of the scratch
// register for "&:*"; lookup resolves those names. '&' before any other
// byte keeps both bytes, so "&'" does not end the literal. It returns the
// content and the index of the closing quote, or of the last byte when the
// literal is unterminated.
func QuotedLiteral(src []byte, p int, lookup func(c byte) *Value) ([]byte, int) {
	var out []byte
	i := p + 1
	for ; i < len(src); i++ {
		c := src[i]
		if c == 0 || c == '\'' {
			break
		}
		if c != '&' {
			out = append(out, c)
			continue
		}
		if at(src, i+1) == ':' {
			if name := at(src, i+2); name == '*' || isLatin(name) {
				if v := lookup(name); v != nil {
					out = v.AppendFormat(out)
					i += 2
					continue
				}
			}
		}
		out = append(out, c)
		if next := at(src, i+1); next != 0 {
			out = append(out, next)
			i++
		}
	}
	if at(src, i) == '\'' {
		return out, i
	}
	return out, i - 1
}
