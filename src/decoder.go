package qabalah

import "unicode/utf8"

// opTable maps a source byte to its operator code. Bytes 0xC0..0xFF start a
// multi-byte sequence; UTF-8 continuation bytes and unused ASCII decode to
// opNone and are skipped.
var opTable [256]Op

// compounds maps a pair of single-character operators to the two-character
// operator they form together.
var compounds = map[[2]byte]Op{
	{'+', '+'}: OpInc, {'+', '-'}: OpNeg, {'+', ':'}: OpAdd2,
	{'-', '+'}: OpAbs, {'-', '-'}: OpDec, {'-', ':'}: OpSub2,
	{'*', '*'}: OpPow, {'*', '/'}: OpCommentClose, {'*', ':'}: OpMul2,
	{'/', '*'}: OpCommentOpen, {'/', '/'}: OpSqrt, {'/', ':'}: OpDiv2,
	{'%', '+'}: OpCeil, {'%', '-'}: OpFloor, {'%', '%'}: OpFloat, {'%', ':'}: OpMod2,
	{'#', '%'}: OpRed, {'#', '#'}: OpInt, {'#', ':'}: OpInt2,
	{'&', '&'}: OpAnd, {'&', ':'}: OpAnd2, {'&', '<'}: OpInput, {'&', '>'}: OpDStr,
	{'?', ':'}: OpElvis2, {'?', '?'}: OpElvis, {'?', '>'}: OpDOut,
	{'!', '='}: OpNeq, {'!', '!'}: OpIs, {'!', '?'}: OpNif,
	{'<', '&'}: OpDStrEnd, {'<', ':'}: OpLShift2, {'<', '?'}: OpDOutEnd,
	{'<', '='}: OpLtEq, {'<', '<'}: OpLShift,
	{'>', ':'}: OpRShift2, {'>', '='}: OpGtEq, {'>', '>'}: OpRShift,
	{'@', '#'}: OpInclude, {'@', '&'}: OpExec, {'@', ':'}: OpPos,
	{'@', '<'}: OpLoop, {'@', '^'}: OpReturn,
	{'^', ':'}: OpXor2, {'^', '^'}: OpXor,
	{'|', ':'}: OpOr2, {'|', '|'}: OpOr,
	{'~', ':'}: OpNot2,
}

func init() {
	single := map[byte]Op{
		'!': OpNis, '#': OpIndex, '%': OpMod, '&': OpOutput, '\'': OpStr,
		'(': OpLExpr, ')': OpRExpr, '*': OpMul, '+': OpAdd, '-': OpSub,
		'/': OpDiv, ':': OpSet, '<': OpLt, '=': OpEq, '>': OpGt, '?': OpIf,
		'@': OpGoto, '[': OpLBlock, ']': OpRBlock, '^': OpCaret, '|': OpElse,
		'~': OpNot, '.': OpNum,
	}
	for c, o := range single {
		opTable[c] = o
	}
	for c := '0'; c <= '9'; c++ {
		opTable[c] = OpNum
	}
	for c := 'A'; c <= 'Z'; c++ {
		opTable[c] = OpVar
		opTable[c+'a'-'A'] = OpVar
	}
	for c := 0xC0; c <= 0xFF; c++ {
		opTable[c] = opUnicode
	}
}

// Token is one decoded operator.
type Token struct {
	Op   Op
	Char byte // source byte, or the Latin letter a Hebrew codepoint stands for
	Pos  int  // index of the first byte
	End  int  // index of the last byte consumed
}

// at returns the byte at i, or 0 past either end of src.
func at(src []byte, i int) byte {
	if i < 0 || i >= len(src) {
		return 0
	}
	return src[i]
}

// scanOp advances from the last consumed index p to the next byte that
// decodes to anything. ok is false at a NUL byte or the end of src, in
// which case the returned index is where scanning stopped.
func scanOp(src []byte, p int) (int, Op, bool) {
	for {
		p++
		c := at(src, p)
		if c == 0 {
			return p, opNone, false
		}
		if o := opTable[c]; o != opNone {
			return p, o, true
		}
	}
}

// combine tries to merge the operator at p with the byte after it.
func combine(src []byte, p int, o Op) (int, Op) {
	if !o.combinable() {
		return p, o
	}
	c := at(src, p+1)
	if !opTable[c].combinable() {
		return p, o
	}
	if co, ok := compounds[[2]byte{src[p], c}]; ok {
		return p + 1, co
	}
	return p, o
}

// Decode reads the next operator after the last consumed index p. Hebrew
// letters decode as the variable their transliteration names; any other
// multi-byte codepoint decodes as opUnicode and has no effect.
func Decode(src []byte, p int) (Token, bool) {
	p, o, ok := scanOp(src, p)
	if !ok {
		return Token{Pos: p, End: p}, false
	}
	tok := Token{Op: o, Char: src[p], Pos: p, End: p}
	if o == opUnicode {
		r, size := utf8.DecodeRune(src[p:])
		tok.End = p + size - 1
		if c, ok := Transliterate(r); ok {
			tok.Char = c
			tok.Op = opTable[c]
		}
		return tok, true
	}
	tok.End, tok.Op = combine(src, p, o)
	return tok, true
}
