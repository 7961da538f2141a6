package qabalah

import "errors"

// run executes e until its script ends or it spawns a child environment.
// It returns the child, or nil when e is finished and should be closed.
func (e *Env) run() *Env {
	logger := e.interp.logger
	for {
		tok, ok := Decode(e.src, e.pos)
		e.pos = tok.End
		if !ok {
			return nil
		}
		o := tok.Op
		if o.IsOperator() && logger.Enabled(CatDecode) {
			logger.DebugCat(CatDecode, "Operator: %s [0x%X] at %d", o, int(o), tok.Pos)
		}

		v0, v1, v2 := e.regs[0], e.regs[1], e.regs[2]
		if o.WantsLiteral() && e.trailingLiteral() {
			switch {
			case o&flagLiteralV0 != 0:
				v0 = &e.scratch
			case o&flagLiteralV2 != 0:
				v2 = &e.scratch
			default:
				v1 = &e.scratch
				v2 = e.regs[1]
			}
		}

		// The buffer V0 holds going in is released once the operator has
		// replaced it. Operators that assign through Value methods release
		// it themselves and clear held.
		var held *Buffer
		if v0 == e.regs[0] && v0.kind == String {
			held = v0.s
		}

		switch o {
		case OpAdd2:
			v2 = v0
			fallthrough
		case OpAdd:
			add(v0, v1, v2)

		case OpSub2:
			v2 = v0
			fallthrough
		case OpSub:
			arith(v0, v1, v2, func(a, b int64) (int64, bool) { return a - b, true }, func(a, b float64) float64 { return a - b })

		case OpMul2:
			v2 = v0
			fallthrough
		case OpMul:
			arith(v0, v1, v2, func(a, b int64) (int64, bool) { return a * b, true }, func(a, b float64) float64 { return a * b })

		case OpDiv2:
			v2 = v0
			fallthrough
		case OpDiv:
			arith(v0, v1, v2, func(a, b int64) (int64, bool) {
				if b == 0 {
					return 0, false
				}
				return a / b, true
			}, func(a, b float64) float64 { return a / b })

		case OpMod2:
			v2 = v0
			fallthrough
		case OpMod:
			arith(v0, v1, v2, func(a, b int64) (int64, bool) {
				if b == 0 {
					return 0, false
				}
				return a % b, true
			}, fracOfQuotient)

		case OpOutput:
			e.output(v0, 0)
			held = nil

		case OpSet:
			v0.Assign(v1)
			held = nil

		case OpNum:
			v, end := NumberLiteral(e.src, tok.Pos)
			e.pos = end
			e.scratch.Clear()
			e.scratch = v
			v0.Assign(&e.scratch)
			held = nil

		case OpStr:
			e.loadString(tok.Pos)
			v0.Assign(&e.scratch)
			held = nil

		case OpVar:
			if slot, ok := SlotOf(tok.Char); ok {
				e.shift(slot)
			}
			held = nil

		case OpGoto:
			if err := e.call(v0.Int()); err != nil {
				e.fatal(err)
				return nil
			}

		case OpLExpr:
			if err := e.enterGroup(); err != nil {
				e.fatal(err)
				return nil
			}

		case OpRExpr:
			if !e.exitGroup() {
				return nil
			}

		case OpLBlock:
			if err := e.enterBlock(); err != nil {
				e.fatal(err)
				return nil
			}

		case OpRBlock:
			e.exitBlock()

		case OpElse:
			e.skipBlock(false, true)
			e.traceFrame("else")

		case OpIf:
			e.cond(false)

		case OpNif:
			e.cond(true)

		case OpIs:
			e.fold(!v0.Empty())
		case OpNis:
			e.fold(v0.Empty())
		case OpEq:
			e.fold(Compare(v0, v1) == 0)
		case OpNeq:
			e.fold(Compare(v0, v1) != 0)
		case OpLt:
			e.fold(Compare(v0, v1) < 0)
		case OpGt:
			e.fold(Compare(v0, v1) > 0)
		case OpLtEq:
			e.fold(Compare(v0, v1) <= 0)
		case OpGtEq:
			e.fold(Compare(v0, v1) >= 0)

		case OpInt2:
			v1 = v0
			fallthrough
		case OpInt:
			e.toInt(v0, v1)

		case OpFloat:
			switch v0.kind {
			case Float:
				v0.storeFloat(roundHalfAway(v1.Float()))
			case Integer:
				v0.storeFloat(v1.Float())
			}

		case OpInc:
			switch v0.kind {
			case Integer:
				v0.i++
			case Float:
				v0.f++
			}

		case OpDec:
			switch v0.kind {
			case Integer:
				v0.i--
			case Float:
				v0.f--
			}

		case OpPow:
			power(v0, v1, v2)

		case OpSqrt:
			switch v1.kind {
			case Float:
				v0.storeFloat(sqrt(v1.f))
			case Integer:
				v0.storeInt(IntSqrt(v1.i))
			}

		case OpLShift2, OpRShift2, OpAnd2, OpOr2, OpXor2:
			v2 = v0
			fallthrough
		case OpLShift, OpRShift, OpAnd, OpOr, OpXor:
			bitwise(o, v0, v1, v2)

		case OpNot2:
			v1 = v0
			fallthrough
		case OpNot:
			if v1.kind == Integer {
				v0.storeInt(^v1.i)
			}

		case OpAbs:
			switch v1.kind {
			case Float:
				v0.storeFloat(abs(v1.f))
			case Integer:
				v0.storeInt(absInt(v1.i))
			}

		case OpNeg:
			switch v1.kind {
			case Float:
				v0.storeFloat(-abs(v1.f))
			case Integer:
				v0.storeInt(-absInt(v1.i))
			}

		case OpFloor:
			if v0.kind == Float {
				v0.f = floor(v0.f)
			}

		case OpCeil:
			if v0.kind == Float {
				v0.f = ceil(v0.f)
			}

		case OpRed:
			e.reduce(v0, v1, v2)

		case OpElvis2:
			v2, v1 = v1, v0
			fallthrough
		case OpElvis:
			if v1.Empty() {
				v1 = v2
			}
			v0.Assign(v1)
			held = nil

		case OpInput:
			e.readLine(v0)
			held = nil

		case OpDOut:
			if !e.directOutput() {
				return nil
			}
			held = nil

		case OpDStr:
			b := e.rawString()
			if b == nil {
				return nil
			}
			e.scratch.SetString(b)
			v0.Assign(&e.scratch)
			held = nil

		case OpPos:
			if p, next, ok := scanOp(e.src, e.pos); ok && next == OpLBlock {
				e.pos = p
				v0.SetInt(int64(p))
				e.skipBlock(false, false)
			} else {
				v0.SetInt(int64(e.pos))
			}
			held = nil

		case OpLoop:
			e.loop()

		case OpReturn:
			e.ret()

		case OpInclude:
			if v0.kind == String {
				if child := e.include(v0.s.String()); child != nil {
					return child
				}
			}

		case OpExec:
			if v0.kind == String && v0.s.Len() > 0 {
				src := append([]byte(nil), v0.s.Bytes()...)
				if child := e.interp.Open(src, 0, e.in, e.out, e); child != nil {
					child.Name = "<exec>"
					logger.DebugCat(CatEnv, "Exec (len: %d)", len(src))
					return child
				}
			}

		case OpCommentOpen:
			e.skipComment()

		case OpIndex, OpCaret, OpDOutEnd, OpDStrEnd, OpCommentClose, opUnicode:
		}

		if held != nil && (v0.kind != String || v0.s != held) {
			held.Release()
		}
	}
}

// trailingLiteral loads a number or quoted string following the operator
// into the scratch register. A quote followed by '>' is not a literal.
func (e *Env) trailingLiteral() bool {
	p, o, ok := scanOp(e.src, e.pos)
	if !ok || (o != OpNum && o != OpStr) {
		return false
	}
	if o == OpStr && at(e.src, p+1) == '>' {
		return false
	}
	if o == OpNum {
		v, end := NumberLiteral(e.src, p)
		e.scratch.Clear()
		e.scratch = v
		e.pos = end
		return true
	}
	e.loadString(p)
	return true
}

// loadString reads the quoted literal at src[p] into the scratch register.
func (e *Env) loadString(p int) {
	data, end := QuotedLiteral(e.src, p, e.lookup)
	e.scratch.SetString(e.interp.buffers.adopt(data))
	e.pos = end
	e.interp.logger.DebugCat(CatString, "Created string: %q", data)
}

// fatal reports an error that ends the environment.
func (e *Env) fatal(err error) {
	msg := err.Error()
	if errors.Is(err, ErrStackOverflow) {
		msg = "Stack overflow"
	}
	serr := e.scriptError(e.pos, msg, err)
	var context []string
	if e.interp.config.ShowErrorContext {
		context = e.sourceLines()
	}
	e.interp.logger.ScriptError(CatFlow, serr, context)
}

// include opens the named file as a child environment.
func (e *Env) include(name string) *Env {
	src, start, path := e.interp.include(name)
	if len(src)-start <= 0 {
		return nil
	}
	child := e.interp.Open(src, start, e.in, e.out, e)
	if child != nil {
		child.Name = path
		e.interp.logger.DebugCat(CatEnv, "Include %s (len: %d)", path, len(src))
	}
	return child
}

// skipComment discards a "/* ... */" span; comments nest.
func (e *Env) skipComment() {
	depth := 1
	for {
		e.pos++
		c := at(e.src, e.pos)
		if c == 0 {
			e.pos--
			return
		}
		next := at(e.src, e.pos+1)
		switch {
		case c == '/' && next == '*':
			depth++
			e.pos++
		case c == '*' && next == '/':
			e.pos++
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// toInt converts src into an integer in dst. Strings that read as integers
// are parsed, other strings take their gematria value. Integers are
// reduced to at most 10.
func (e *Env) toInt(dst, src *Value) {
	switch src.kind {
	case String:
		data := src.s.Bytes()
		if isIntString(data) {
			i, _ := ParseIntPrefix(data)
			dst.storeInt(i)
		} else {
			sum := ValueSum(data)
			e.interp.logger.DebugCat(CatMath, "Value sum of %q: %d", data, sum)
			dst.storeInt(sum)
		}
	case Float:
		dst.storeInt(int64(src.f))
	case Integer:
		r := Reduce(src.i, 10)
		e.interp.logger.DebugCat(CatMath, "Reduce value: %d [0..10] = %d", src.i, r)
		dst.storeInt(r)
	}
}

// reduce stores reduce(V2, V1) in V0; a String V2 is summed first.
func (e *Env) reduce(v0, v1, v2 *Value) {
	if v1.kind != Integer {
		return
	}
	var n int64
	switch v2.kind {
	case String:
		n = ValueSum(v2.s.Bytes())
	case Integer:
		n = v2.i
	default:
		return
	}
	r := Reduce(n, v1.i)
	e.interp.logger.DebugCat(CatMath, "Reduce value: %d [0..%d] = %d", n, v1.i, r)
	v0.storeInt(r)
}
