package qabalah

import "unicode/utf8"

// ValueSum returns the gematria value of s. Letters count case-insensitively
// and Hebrew letters count as their transliteration; a letter not followed
// by another letter takes its final-form value. Decimal digits add their
// face value. Everything else, and anything after a NUL byte, is ignored.
func ValueSum(s []byte) int64 {
	var letters []byte
	var sum int64
	for len(s) > 0 && s[0] != 0 {
		r, size := utf8.DecodeRune(s)
		s = s[size:]
		switch {
		case r < utf8.RuneSelf && isLatin(byte(r)):
			letters = append(letters, byte(r))
			continue
		case r >= '0' && r <= '9':
			sum += int64(r - '0')
		default:
			if c, ok := Transliterate(r); ok {
				letters = append(letters, c)
				continue
			}
		}
		sum += wordValue(letters)
		letters = letters[:0]
	}
	return sum + wordValue(letters)
}

// wordValue sums a run of letters, the last one taking its final value.
func wordValue(letters []byte) int64 {
	var sum int64
	for i, c := range letters {
		idx := letterIndex(c)
		if i == len(letters)-1 {
			sum += int64(finalValue[idx])
		} else {
			sum += int64(letterValue[idx])
		}
	}
	return sum
}

// Reduce replaces n by the sum of its decimal digits until the result is no
// greater than floor. Floors below 9 are raised to 9. Zero and negative
// numbers are returned unchanged.
func Reduce(n, floor int64) int64 {
	if floor < 9 {
		floor = 9
	}
	for n > floor {
		var r int64
		for ; n != 0; n /= 10 {
			r += n % 10
		}
		n = r
	}
	return n
}

// IntPow raises b to a non-negative power e. A zero base or a negative
// exponent yields 0.
func IntPow(b, e int64) int64 {
	if b == 0 || e < 0 {
		return 0
	}
	n := int64(1)
	for ; e != 0; e >>= 1 {
		if e&1 != 0 {
			n *= b
		}
		b *= b
	}
	return n
}

// IntSqrt returns the integer square root of n. Values below 2 are returned
// as is.
func IntSqrt(n int64) int64 {
	if n < 2 {
		return n
	}
	var shift uint
	for u := n; u > 1; u >>= 1 {
		shift++
	}
	shift >>= 1
	u := int64(1) << shift
	u2 := u << shift
	for shift > 0 {
		shift--
		v := int64(1) << shift
		v2 := v << shift
		uv2 := u << (shift + 1)
		if n1 := u2 + uv2 + v2; n1 <= n {
			u += v
			u2 = n1
		}
	}
	return u
}
