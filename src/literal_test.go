package qabalah

import (
	"math"
	"testing"
)

func TestParseIntPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		n    int
	}{
		{"42", 42, 2},
		{"12abc", 12, 2},
		{"-5", -5, 2},
		{"+7", 7, 2},
		{"  9", 9, 3},
		{"0x1F", 31, 4},
		{"0X1f!", 31, 4},
		{"017", 15, 3},
		{"019", 1, 2},
		{"0", 0, 1},
		{"0x", 0, 1},
		{"abc", 0, 0},
		{"-", 0, 0},
		{"99999999999999999999", math.MaxInt64, 20},
		{"-99999999999999999999", math.MinInt64, 21},
	}
	for _, tt := range tests {
		got, n := ParseIntPrefix([]byte(tt.in))
		if got != tt.want || n != tt.n {
			t.Errorf("ParseIntPrefix(%q): expected %d/%d, got %d/%d", tt.in, tt.want, tt.n, got, n)
		}
	}
}

func TestParseFloatPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		n    int
	}{
		{"1.5", 1.5, 3},
		{"1.5e3x", 1500, 5},
		{"2e-2", 0.02, 4},
		{"1e", 1, 1},
		{"1e+", 1, 1},
		{".5", 0.5, 2},
		{"5.", 5, 2},
		{"-0.25", -0.25, 5},
		{".", 0, 0},
		{"abc", 0, 0},
	}
	for _, tt := range tests {
		got, n := ParseFloatPrefix([]byte(tt.in))
		if got != tt.want || n != tt.n {
			t.Errorf("ParseFloatPrefix(%q): expected %v/%d, got %v/%d", tt.in, tt.want, tt.n, got, n)
		}
	}
}

func TestNumberLiteral(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
		str  string
		end  int
	}{
		{"42A", Integer, "42", 1},
		{"12.5+", Float, "12.5", 3},
		{"1e3&", Float, "1000", 2},
		{".25", Float, "0.25", 2},
		{"0x10", Integer, "16", 3},
		{"010", Integer, "8", 2},
		{".", Float, "0", 0},
	}
	for _, tt := range tests {
		v, end := NumberLiteral([]byte(tt.src), 0)
		if v.Kind() != tt.kind || v.String() != tt.str || end != tt.end {
			t.Errorf("NumberLiteral(%q): expected %s %s end %d, got %s %s end %d",
				tt.src, tt.kind, tt.str, tt.end, v.Kind(), v.String(), end)
		}
	}
}

func TestQuotedLiteral(t *testing.T) {
	vars := map[byte]*Value{}
	seven := IntValue(7)
	half := FloatValue(0.5)
	name := StringValue(NewBuffer([]byte("Q")))
	var void Value
	vars['A'] = &seven
	vars['B'] = &half
	vars['C'] = &name
	vars['D'] = &void
	lookup := func(c byte) *Value {
		return vars[c]
	}

	tests := []struct {
		src  string
		want string
		end  int
	}{
		{"'ab'", "ab", 3},
		{"''x", "", 1},
		{"'a&'b'", "a&'b", 5},
		{"'&&'", "&&", 3},
		{"'n=&:A'", "n=7", 6},
		{"'&:B &:C &:D'", "0.5 Q ?", 12},
		{"'&:1'", "&:1", 4},
		{"'abc", "abc", 3},
		{"'ab\x00cd'", "ab", 2},
	}
	for _, tt := range tests {
		got, end := QuotedLiteral([]byte(tt.src), 0, lookup)
		if string(got) != tt.want || end != tt.end {
			t.Errorf("QuotedLiteral(%q): expected %q end %d, got %q end %d", tt.src, tt.want, tt.end, got, end)
		}
	}
}
