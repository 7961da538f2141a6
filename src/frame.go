package qabalah

// Truth is a frame's boolean accumulator.
type Truth int8

const (
	Unset Truth = iota
	False
	True
)

func truthOf(b bool) Truth {
	if b {
		return True
	}
	return False
}

func (t Truth) String() string {
	switch t {
	case False:
		return "false"
	case True:
		return "true"
	}
	return "unset"
}

// Combine selects how a frame folds new truth values into its accumulator.
type Combine uint8

const (
	And Combine = iota
	Or
)

func (c Combine) String() string {
	if c == Or {
		return "or"
	}
	return "and"
}

// Frame is one control-stack entry. Positions are source indices of the
// last consumed byte.
type Frame struct {
	Pos      int // where the frame was entered; loops resume here
	End      int // where a closing ']' resumes when it differs from Pos
	EndFrame int // frame index restored by a closing ']'
	Ret      int // where a return resumes
	RetFrame int // frame index restored by a return
	Expr     Truth
	Mode     Combine
}

// frame returns the current top frame.
func (e *Env) frame() *Frame {
	return &e.frames[e.top]
}

// Depth returns the number of frames on the stack, the root included.
func (e *Env) Depth() int {
	return e.top + 1
}

func (e *Env) push(f Frame) error {
	if e.top+1 >= len(e.frames) {
		return ErrStackOverflow
	}
	e.top++
	e.frames[e.top] = f
	return nil
}

func (e *Env) popTo(i int) {
	if i < 0 {
		i = 0
	}
	if i < e.top {
		e.top = i
	}
}

func (e *Env) traceFrame(what string) {
	if !e.interp.logger.Enabled(CatFlow) {
		return
	}
	f := e.frame()
	e.interp.logger.TraceCat(CatFlow, "%s[%d] pos: %d, end: %d, end_frame: %d, ret: %d, ret_frame: %d, expr: %s, mode: %s",
		what, e.top, f.Pos, f.End, f.EndFrame, f.Ret, f.RetFrame, f.Expr, f.Mode)
}

// enterGroup opens '(' with a fresh accumulator and the opposite mode.
func (e *Env) enterGroup() error {
	f := *e.frame()
	f.Expr = Unset
	if f.Mode == And {
		f.Mode = Or
	} else {
		f.Mode = And
	}
	if err := e.push(f); err != nil {
		return err
	}
	e.traceFrame("group")
	return nil
}

// exitGroup closes ')' and folds the group's truth into the enclosing
// frame. It returns false when there is nothing to close.
func (e *Env) exitGroup() bool {
	if e.top <= 0 {
		return false
	}
	inner := e.frames[e.top]
	e.top--
	if inner.Expr != Unset {
		e.fold(inner.Expr == True)
	}
	e.traceFrame("ungroup")
	return true
}

// fold combines a truth value into the current accumulator.
func (e *Env) fold(b bool) {
	f := e.frame()
	switch {
	case f.Expr == Unset:
		f.Expr = truthOf(b)
	case f.Mode == And:
		f.Expr = truthOf(f.Expr == True && b)
	default:
		f.Expr = truthOf(f.Expr == True || b)
	}
}

// enterBlock opens '['. A return inside it still goes to the enclosing
// call site.
func (e *Env) enterBlock() error {
	cur := e.frame()
	f := Frame{
		Pos:      e.pos,
		End:      e.pos,
		EndFrame: e.top,
		Ret:      cur.Ret,
		RetFrame: cur.RetFrame,
	}
	if err := e.push(f); err != nil {
		return err
	}
	e.traceFrame("block")
	return nil
}

// exitBlock closes ']'.
func (e *Env) exitBlock() {
	f := e.frame()
	if f.End != f.Pos {
		e.pos = f.End
	}
	e.popTo(f.EndFrame)
	e.traceFrame("unblock")
}

// skipBlock scans forward to the ']' closing the current block. With
// elseStop it stops early at a '|' on the same level. With unwind, reaching
// the ']' also closes the block. Running off the end of the source
// unwinds everything and leaves the cursor at the end.
func (e *Env) skipBlock(elseStop, unwind bool) {
	depth := 1
	for {
		p, o, ok := scanOp(e.src, e.pos)
		if !ok {
			e.pos = p
			e.resetToRoot()
			return
		}
		e.pos, o = combine(e.src, p, o)
		switch {
		case o == OpLBlock:
			depth++
		case o == OpElse && depth == 1 && elseStop:
			return
		case o == OpRBlock:
			depth--
			if depth > 0 {
				continue
			}
			if unwind {
				e.exitBlock()
			}
			return
		}
	}
}

func (e *Env) resetToRoot() {
	e.top = 0
	e.pos = e.frames[0].End
	e.traceFrame("eof")
}

// call jumps to target, returning to the current cursor when the target's
// block closes or returns.
func (e *Env) call(target int64) error {
	lo, hi := int64(e.start-1), int64(len(e.src)-1)
	if target < lo {
		target = lo
	} else if target > hi {
		target = hi
	}
	f := Frame{
		Pos:      int(target),
		End:      e.pos,
		EndFrame: e.top,
		Ret:      e.pos,
		RetFrame: e.top,
	}
	if err := e.push(f); err != nil {
		return err
	}
	e.pos = int(target)
	e.traceFrame("call")
	return nil
}

// loop restarts the current frame.
func (e *Env) loop() {
	f := e.frame()
	f.Expr = Unset
	e.pos = f.Pos
	e.traceFrame("loop")
}

// ret unwinds to the nearest call site.
func (e *Env) ret() {
	f := e.frame()
	e.pos = f.Ret
	e.popTo(f.RetFrame)
	e.traceFrame("return")
}

// cond consumes the accumulator and skips to the else branch or the block
// end when it is false. An unset accumulator counts as true, except that
// negation turns it false.
func (e *Env) cond(negate bool) {
	f := e.frame()
	if negate {
		if f.Expr == False {
			f.Expr = True
		} else {
			f.Expr = False
		}
	}
	a := f.Expr
	f.Expr = Unset
	if a == False {
		e.skipBlock(true, true)
	}
	e.traceFrame("if")
}
