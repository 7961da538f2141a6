package qabalah

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Letter slots, in alphabet order. The comment gives the Latin letters that
// address the slot.
const (
	Aleph  = iota // A
	Beth          // B
	Gimel         // G
	Daleth        // D
	Heh           // H
	Vav           // O U V W
	Zain          // Z
	Cheth         // X
	Teth          // J
	Yod           // I Y
	Kaph          // K
	Lamed         // L
	Mem           // M
	Nun           // N
	Samekh        // S
	Ayin          // E
	Peh           // P
	Tzaddi        // C
	Qoph          // Q
	Resh          // R
	Shin          // F
	Tau           // T
)

const (
	hebrewFirst = 0x5D0 // alef
	hebrewLast  = 0x5EA // tav
)

// latinSlot maps A..Z to a variable slot.
var latinSlot = [26]int{
	Aleph, Beth, Tzaddi, Daleth, Ayin, Shin, Gimel, Heh, Yod, Teth,
	Kaph, Lamed, Mem, Nun, Vav, Peh, Qoph, Resh,
	Samekh, Tau, Vav, Vav, Vav, Cheth, Yod, Zain,
}

// slotLetter is the canonical Latin letter of each slot.
var slotLetter = [VariableCount]byte{
	'A', 'B', 'G', 'D', 'H', 'W', 'Z', 'X', 'J', 'I', 'K', 'L',
	'M', 'N', 'S', 'E', 'P', 'C', 'Q', 'R', 'F', 'T',
}

// hebrewLatin transliterates U+05D0..U+05EA, final forms included.
var hebrewLatin = [hebrewLast - hebrewFirst + 1]byte{
	'A', 'B', 'G', 'D', 'H', 'V',
	'Z', 'X', 'J', 'I', 'K', 'K', 'L',
	'M', 'M', 'N', 'N', 'S', 'E', 'P', 'P', 'C', 'C',
	'Q', 'R', 'F', 'T',
}

// Gematria values for A..Z. finalValue is used for a letter that ends a word.
var (
	letterValue = [26]int{
		1, 2, 90, 4, 70, 300, 3, 5, 10, // A-I
		9, 20, 30, 40, 50, 6, 80, 100, 200, // J-R
		60, 400, 6, 6, 6, 8, 10, 7, // S-Z
	}
	finalValue = [26]int{
		1, 2, 900, 4, 70, 300, 3, 5, 10, // A-I
		9, 500, 30, 600, 700, 6, 800, 100, 200, // J-R
		60, 400, 6, 6, 6, 8, 10, 7, // S-Z
	}
)

// SlotOf returns the variable slot addressed by a Latin letter, either case.
func SlotOf(c byte) (int, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return latinSlot[c-'A'], true
	case c >= 'a' && c <= 'z':
		return latinSlot[c-'a'], true
	}
	return 0, false
}

// SlotName returns the canonical letter of a slot.
func SlotName(slot int) byte {
	if slot < 0 || slot >= VariableCount {
		return '?'
	}
	return slotLetter[slot]
}

// Transliterate maps a Hebrew letter to its Latin operator letter.
// Presentation forms (dagesh, shin/sin dots and the like) are folded to
// their base letter first.
func Transliterate(r rune) (byte, bool) {
	if r >= 0xFB1D && r <= 0xFB4F {
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		if base, _ := utf8.DecodeRune(norm.NFD.Bytes(buf[:n])); base != utf8.RuneError {
			r = base
		}
	}
	if r >= hebrewFirst && r <= hebrewLast {
		return hebrewLatin[r-hebrewFirst], true
	}
	return 0, false
}

// isLatin reports whether c is an ASCII letter.
func isLatin(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// letterIndex returns 0..25 for an ASCII letter of either case.
func letterIndex(c byte) int {
	if c >= 'a' && c <= 'z' {
		return int(c - 'a')
	}
	return int(c - 'A')
}
