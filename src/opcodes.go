package qabalah

import "fmt"

// Op is an operator code produced by the decoder.
//
// Codes below 0x1000 are structural (blocks, groups, literals, variables).
// Codes at or above 0x1000 carry flag bits describing which registers the
// operator touches and whether a trailing literal is loaded before the
// operator body runs:
//
//	0x1000   no trailing literal
//	0x2000   operates on V0; a trailing literal replaces V0
//	0x4000   operates on V0 and V1; a trailing literal replaces V1
//	0x8000   operates on V0, V1 and V2; a trailing literal replaces V1 and V1 moves to V2
//	0x10000  a trailing literal replaces V2 instead
type Op int

const (
	opUnicode Op = -1 // lead byte of a multi-byte UTF-8 sequence
	opNone    Op = 0
)

const (
	flagNoLiteral Op = 0x1000
	flagLiteralV0 Op = 0x2000
	flagLiteralV1 Op = 0x4000
	flagOperandV2 Op = 0x8000
	flagLiteralV2 Op = 0x10000

	literalFlags = flagLiteralV0 | flagLiteralV1 | flagOperandV2
)

const (
	OpAdd    Op = 0xC001  // +    V0 = V2 + V1
	OpSub    Op = 0xC002  // -    V0 = V2 - V1
	OpMul    Op = 0xC003  // *    V0 = V2 * V1
	OpDiv    Op = 0xC004  // /    V0 = V2 / V1
	OpMod    Op = 0xC005  // %    V0 = V2 % V1
	OpIndex  Op = 0x4006  // #    reserved
	OpOutput Op = 0x1007  // &    output V0
	OpSet    Op = 0x1008  // :    V0 = V1
	OpIf     Op = 0x1009  // ?    if
	OpEq     Op = 0x400A  // =    V0 == V1
	OpNis    Op = 0x100B  // !    V0 is empty
	OpLt     Op = 0x400C  // <    V0 < V1
	OpGt     Op = 0x400D  // >    V0 > V1
	OpGoto   Op = 0x200E  // @    call position V0
	OpCaret  Op = 0x100F  // ^    reserved
	OpElse   Op = 0x1010  // |    else
	OpNot    Op = 0x4011  // ~    V0 = ~V1

	OpLExpr  Op = 0x101 // (
	OpRExpr  Op = 0x102 // )
	OpLBlock Op = 0x103 // [
	OpRBlock Op = 0x104 // ]

	OpNum Op = 0x201 // 0-9 .
	OpStr Op = 0x202 // '
	OpVar Op = 0x203 // A-Z a-z

	OpInt   Op = 0x1101 // ##   V0 = int(V1)
	OpFloat Op = 0x1102 // %%   V0 = float(V1)

	OpAdd2 Op = 0x4001 // +:   V0 += V1
	OpSub2 Op = 0x4002 // -:   V0 -= V1
	OpMul2 Op = 0x4003 // *:   V0 *= V1
	OpDiv2 Op = 0x4004 // /:   V0 /= V1
	OpMod2 Op = 0x4005 // %:   V0 %= V1

	OpInc  Op = 0x1201 // ++   V0++
	OpDec  Op = 0x1202 // --   V0--
	OpPow  Op = 0xC208 // **   V0 = pow(V2, V1)
	OpSqrt Op = 0x4209 // //   V0 = sqrt(V1)

	OpLShift Op = 0xC301 // <<   V0 = V2 << V1
	OpRShift Op = 0xC302 // >>   V0 = V2 >> V1
	OpAnd    Op = 0xC303 // &&   V0 = V2 & V1
	OpOr     Op = 0xC304 // ||   V0 = V2 | V1
	OpXor    Op = 0xC305 // ^^   V0 = V2 ^ V1

	OpLShift2 Op = 0x4301 // <:   V0 <<= V1
	OpRShift2 Op = 0x4302 // >:   V0 >>= V1
	OpAnd2    Op = 0x4303 // &:   V0 &= V1
	OpOr2     Op = 0x4304 // |:   V0 |= V1
	OpXor2    Op = 0x4305 // ^:   V0 ^= V1
	OpNot2    Op = 0x1306 // ~:   V0 = ~V0

	OpAbs Op = 0x4501 // -+   V0 = abs(V1)
	OpNeg Op = 0x4502 // +-   V0 = -abs(V1)

	OpFloor Op = 0x4601 // %-   V0 = floor(V0)
	OpCeil  Op = 0x4603 // %+   V0 = ceil(V0)

	OpInt2 Op = 0x1701 // #:   V0 = int(V0)
	OpRed  Op = 0xC702 // #%   V0 = reduce(V2, V1)

	OpNif Op = 0x1781 // !?   if not

	OpIs   Op = 0x1791 // !!   V0 is not empty
	OpNeq  Op = 0x4792 // !=   V0 != V1
	OpLtEq Op = 0x4793 // <=   V0 <= V1
	OpGtEq Op = 0x4794 // >=   V0 >= V1

	OpElvis  Op = 0x1C7A1 // ??   V0 = V1 ?: V2
	OpElvis2 Op = 0x47A1  // ?:   V0 = V0 ?: V1

	OpInput   Op = 0x1901 // &<   V0 = read line
	OpDOut    Op = 0x1902 // ?>   direct output ...
	OpDOutEnd Op = 0x1903 // <?   ... direct output end
	OpDStr    Op = 0x1904 // &>   raw string ...
	OpDStrEnd Op = 0x1905 // <&   ... raw string end

	OpPos    Op = 0x1A01 // @:   V0 = position
	OpLoop   Op = 0x1A02 // @<   continue
	OpReturn Op = 0x1A03 // @^   return

	OpInclude Op = 0x2A11 // @#   include V0
	OpExec    Op = 0x2A12 // @&   exec V0

	OpCommentOpen  Op = 0x1FFE // /*
	OpCommentClose Op = 0x1FFF // */
)

var opNames = map[Op]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpIndex: "#", OpOutput: "&", OpSet: ":", OpIf: "?", OpEq: "=",
	OpNis: "!", OpLt: "<", OpGt: ">", OpGoto: "@", OpCaret: "^",
	OpElse: "|", OpNot: "~",
	OpLExpr: "(", OpRExpr: ")", OpLBlock: "[", OpRBlock: "]",
	OpNum: "number", OpStr: "string", OpVar: "variable",
	OpInt: "##", OpFloat: "%%",
	OpAdd2: "+:", OpSub2: "-:", OpMul2: "*:", OpDiv2: "/:", OpMod2: "%:",
	OpInc: "++", OpDec: "--", OpPow: "**", OpSqrt: "//",
	OpLShift: "<<", OpRShift: ">>", OpAnd: "&&", OpOr: "||", OpXor: "^^",
	OpLShift2: "<:", OpRShift2: ">:", OpAnd2: "&:", OpOr2: "|:", OpXor2: "^:",
	OpNot2: "~:", OpAbs: "-+", OpNeg: "+-", OpFloor: "%-", OpCeil: "%+",
	OpInt2: "#:", OpRed: "#%", OpNif: "!?", OpIs: "!!",
	OpNeq: "!=", OpLtEq: "<=", OpGtEq: ">=",
	OpElvis: "??", OpElvis2: "?:",
	OpInput: "&<", OpDOut: "?>", OpDOutEnd: "<?", OpDStr: "&>", OpDStrEnd: "<&",
	OpPos: "@:", OpLoop: "@<", OpReturn: "@^",
	OpInclude: "@#", OpExec: "@&",
	OpCommentOpen: "/*", OpCommentClose: "*/",
}

// String returns the source spelling of the operator.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	if o == opUnicode {
		return "unicode"
	}
	return fmt.Sprintf("op(0x%X)", int(o))
}

// IsOperator reports whether o is a flagged operator rather than a
// structural token.
func (o Op) IsOperator() bool {
	return o >= flagNoLiteral
}

// combinable reports whether o may start or end a compound operator.
// Only single-character operators are ever passed here.
func (o Op) combinable() bool {
	return o >= flagNoLiteral
}

// WantsLiteral reports whether a trailing number or string literal is
// scanned and loaded into a register before the operator runs.
func (o Op) WantsLiteral() bool {
	return o > 0 && o&literalFlags != 0
}

// Arity returns the number of operand registers the operator touches.
func (o Op) Arity() int {
	switch {
	case o <= 0 || o < flagNoLiteral:
		return 0
	case o&flagOperandV2 != 0:
		return 3
	case o&flagLiteralV1 != 0:
		return 2
	case o&flagLiteralV0 != 0:
		return 1
	default:
		return 0
	}
}
