package qabalah

import (
	"math"
	"testing"
)

func TestValueEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		empty bool
	}{
		{"void", Value{}, true},
		{"zero", IntValue(0), true},
		{"integer", IntValue(-3), false},
		{"zero float", FloatValue(0), true},
		{"float", FloatValue(0.5), false},
		{"nil string", StringValue(nil), true},
		{"empty string", StringValue(NewBuffer(nil)), true},
		{"string zero", StringValue(NewBuffer([]byte("0"))), true},
		{"string double zero", StringValue(NewBuffer([]byte("00"))), false},
		{"string", StringValue(NewBuffer([]byte("x"))), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Empty(); got != tt.empty {
				t.Errorf("Expected Empty() = %v, got %v", tt.empty, got)
			}
		})
	}
}

func TestValueFormat(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Value{}, "?"},
		{IntValue(42), "42"},
		{IntValue(-7), "-7"},
		{FloatValue(1.5), "1.5"},
		{FloatValue(3), "3"},
		{FloatValue(1e6), "1e+06"},
		{FloatValue(0.0001), "0.0001"},
		{FloatValue(math.Inf(1)), "inf"},
		{FloatValue(math.Inf(-1)), "-inf"},
		{FloatValue(math.NaN()), "nan"},
		{StringValue(NewBuffer([]byte("text"))), "text"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestValueAssignRefcount(t *testing.T) {
	b := NewBuffer([]byte("x"))
	var a, c Value
	a.SetString(b)
	if b.Refs() != 1 {
		t.Fatalf("Expected 1 reference, got %d", b.Refs())
	}

	c.Assign(&a)
	if b.Refs() != 2 {
		t.Errorf("Expected 2 references after assign, got %d", b.Refs())
	}

	// Same buffer and self assignment are no-ops
	c.Assign(&a)
	a.Assign(&a)
	if b.Refs() != 2 {
		t.Errorf("Expected 2 references after no-op assigns, got %d", b.Refs())
	}

	c.SetInt(5)
	if b.Refs() != 1 {
		t.Errorf("Expected 1 reference after overwrite, got %d", b.Refs())
	}
	if c.Kind() != Integer || c.Int() != 5 {
		t.Errorf("Expected integer 5, got %s %v", c.Kind(), c.String())
	}

	a.Clear()
	if b.Refs() != 0 {
		t.Errorf("Expected buffer to be released, got %d references", b.Refs())
	}
	if b.Bytes() != nil {
		t.Error("Expected released buffer to drop its content")
	}
	if a.Kind() != Void {
		t.Errorf("Expected void after Clear, got %s", a.Kind())
	}
}

func TestValueSetStringSameBuffer(t *testing.T) {
	b := NewBuffer([]byte("x"))
	var a Value
	a.SetString(b)
	a.SetString(b.Retain())
	if b.Refs() != 1 {
		t.Errorf("Expected surplus reference to be dropped, got %d", b.Refs())
	}
}

func TestValueCoercion(t *testing.T) {
	f := FloatValue(2.9)
	if f.Int() != 2 {
		t.Errorf("Expected float to truncate to 2, got %d", f.Int())
	}
	i := IntValue(3)
	if i.Float() != 3 {
		t.Errorf("Expected 3.0, got %v", i.Float())
	}
	s := StringValue(NewBuffer([]byte("12")))
	if s.Int() != 0 || s.Float() != 0 {
		t.Error("Expected strings to coerce to zero")
	}
}

func TestCompare(t *testing.T) {
	str := func(s string) Value { return StringValue(NewBuffer([]byte(s))) }
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"integers less", IntValue(1), IntValue(2), -1},
		{"integers equal", IntValue(2), IntValue(2), 0},
		{"integers greater", IntValue(3), IntValue(2), 1},
		{"void is zero", Value{}, IntValue(0), 0},
		{"void below one", Value{}, IntValue(1), -1},
		{"mixed float", IntValue(1), FloatValue(1.5), -1},
		{"strings", str("abc"), str("abd"), -1},
		{"string prefix", str("ab"), str("abc"), -1},
		{"equal strings", str("q"), str("q"), 0},
		{"number vs numeric string", IntValue(2), str("10"), -1},
		{"numeric string vs number", str("10"), IntValue(9), 1},
		{"float vs float string", FloatValue(1.5), str("1.5"), 0},
		{"number vs word", IntValue(1), str("word"), 1},
		{"word vs zero", str("word"), IntValue(0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(&tt.a, &tt.b); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
