package qabalah

import "math"

// Binary operators read V2 and V1 and write V0. A String operand wins over
// Float, which wins over Integer. Operand kinds an operator has no rule for
// leave V0 untouched.

// add joins strings or adds numbers. Joining yields the left operand's
// buffer; a left operand that is not a String yields an empty String.
func add(v0, v1, v2 *Value) {
	if v1.kind == String || v2.kind == String {
		v0.storeBuf(v2.Buffer().Retain())
		return
	}
	arith(v0, v1, v2, func(a, b int64) (int64, bool) { return a + b, true }, func(a, b float64) float64 { return a + b })
}

// arith applies an integer or float operation to V2 and V1. intOp may
// refuse an operand pair, leaving V0 as it was.
func arith(v0, v1, v2 *Value, intOp func(a, b int64) (int64, bool), floatOp func(a, b float64) float64) {
	if !isNumber(v1) || !isNumber(v2) {
		return
	}
	if v1.kind == Float || v2.kind == Float {
		v0.storeFloat(floatOp(v2.Float(), v1.Float()))
		return
	}
	if r, ok := intOp(v2.i, v1.i); ok {
		v0.storeInt(r)
	}
}

func isNumber(v *Value) bool {
	return v.kind == Integer || v.kind == Float
}

// power raises V2 to V1. Two integers give an integer.
func power(v0, v1, v2 *Value) {
	if !isNumber(v1) || !isNumber(v2) {
		return
	}
	if v1.kind == Integer && v2.kind == Integer {
		v0.storeInt(IntPow(v2.i, v1.i))
		return
	}
	v0.storeFloat(math.Pow(v2.Float(), v1.Float()))
}

// bitwise applies a shift or bit operator to two integers. Negative shift
// counts are ignored.
func bitwise(o Op, v0, v1, v2 *Value) {
	if v1.kind != Integer || v2.kind != Integer {
		return
	}
	a, b := v2.i, v1.i
	switch o {
	case OpLShift, OpLShift2:
		if b < 0 {
			return
		}
		v0.storeInt(a << uint64(b))
	case OpRShift, OpRShift2:
		if b < 0 {
			return
		}
		v0.storeInt(a >> uint64(b))
	case OpAnd, OpAnd2:
		v0.storeInt(a & b)
	case OpOr, OpOr2:
		v0.storeInt(a | b)
	case OpXor, OpXor2:
		v0.storeInt(a ^ b)
	}
}

// fracOfQuotient is the float remainder: the fractional part of a/b.
func fracOfQuotient(a, b float64) float64 {
	_, frac := math.Modf(a / b)
	return frac
}

// roundHalfAway rounds to the nearest integer, halves away from zero.
func roundHalfAway(f float64) float64 {
	return math.Round(f)
}

func sqrt(f float64) float64  { return math.Sqrt(f) }
func floor(f float64) float64 { return math.Floor(f) }
func ceil(f float64) float64  { return math.Ceil(f) }
func abs(f float64) float64   { return math.Abs(f) }

func absInt(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}
