package qabalah

import "testing"

func TestDecodeOperators(t *testing.T) {
	tests := []struct {
		src  string
		op   Op
		char byte
		pos  int
		end  int
	}{
		{"+", OpAdd, '+', 0, 0},
		{"+:", OpAdd2, '+', 0, 1},
		{"++", OpInc, '+', 0, 1},
		{"+ +", OpAdd, '+', 0, 0},
		{"  a", OpVar, 'a', 2, 2},
		{"Z", OpVar, 'Z', 0, 0},
		{"7", OpNum, '7', 0, 0},
		{".5", OpNum, '.', 0, 0},
		{"''", OpStr, '\'', 0, 0},
		{"&&&", OpAnd, '&', 0, 1},
		{"&<", OpInput, '&', 0, 1},
		{"!?", OpNif, '!', 0, 1},
		{"!!", OpIs, '!', 0, 1},
		{"?>", OpDOut, '?', 0, 1},
		{"@^", OpReturn, '@', 0, 1},
		{"@:", OpPos, '@', 0, 1},
		{"/*", OpCommentOpen, '/', 0, 1},
		{"*/", OpCommentClose, '*', 0, 1},
		{"[:", OpLBlock, '[', 0, 0},
		{"&]", OpOutput, '&', 0, 0},
		{"#%", OpRed, '#', 0, 1},
		{"$,;{}`\"x", OpVar, 'x', 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tok, ok := Decode([]byte(tt.src), -1)
			if !ok {
				t.Fatal("Expected a token")
			}
			if tok.Op != tt.op {
				t.Errorf("Expected %s, got %s", tt.op, tok.Op)
			}
			if tok.Char != tt.char {
				t.Errorf("Expected char %q, got %q", tt.char, tok.Char)
			}
			if tok.Pos != tt.pos || tok.End != tt.end {
				t.Errorf("Expected span %d..%d, got %d..%d", tt.pos, tt.end, tok.Pos, tok.End)
			}
		})
	}
}

func TestDecodeEnd(t *testing.T) {
	for _, src := range []string{"", "   ", "\x00+", " ;,"} {
		if _, ok := Decode([]byte(src), -1); ok {
			t.Errorf("Expected no token in %q", src)
		}
	}
}

func TestDecodeSequence(t *testing.T) {
	src := []byte("A1+:B")
	var ops []Op
	for p := -1; ; {
		tok, ok := Decode(src, p)
		if !ok {
			break
		}
		ops = append(ops, tok.Op)
		p = tok.End
	}
	want := []Op{OpVar, OpNum, OpAdd2, OpVar}
	if len(ops) != len(want) {
		t.Fatalf("Expected %d tokens, got %d", len(want), len(ops))
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("Token %d: expected %s, got %s", i, want[i], ops[i])
		}
	}
}

func TestDecodeHebrew(t *testing.T) {
	tests := []struct {
		src  string
		char byte
	}{
		{"א", 'A'},
		{"ב", 'B'},
		{"ך", 'K'}, // final kaf
		{"ש", 'F'},
		{"ת", 'T'},
		{"\uFB2E", 'A'}, // alef with patah
		{"\uFB35", 'V'}, // vav with dagesh
	}
	for _, tt := range tests {
		tok, ok := Decode([]byte(tt.src), -1)
		if !ok {
			t.Fatalf("Expected a token for %q", tt.src)
		}
		if tok.Op != OpVar || tok.Char != tt.char {
			t.Errorf("%q: expected variable %c, got %s %q", tt.src, tt.char, tok.Op, tok.Char)
		}
		if tok.End != len(tt.src)-1 {
			t.Errorf("%q: expected end %d, got %d", tt.src, len(tt.src)-1, tok.End)
		}
	}
}

func TestDecodeOtherUnicode(t *testing.T) {
	tok, ok := Decode([]byte("€+"), -1)
	if !ok {
		t.Fatal("Expected a token")
	}
	if tok.Op != opUnicode {
		t.Errorf("Expected unicode no-op, got %s", tok.Op)
	}
	if tok.End != 2 {
		t.Errorf("Expected the whole sequence to be consumed, got end %d", tok.End)
	}
	next, _ := Decode([]byte("€+"), tok.End)
	if next.Op != OpAdd {
		t.Errorf("Expected + after the sequence, got %s", next.Op)
	}
}

func TestSlotOf(t *testing.T) {
	tests := []struct {
		c    byte
		slot int
	}{
		{'A', Aleph}, {'a', Aleph}, {'C', Tzaddi}, {'E', Ayin}, {'F', Shin},
		{'O', Vav}, {'U', Vav}, {'V', Vav}, {'W', Vav}, {'Y', Yod}, {'I', Yod},
		{'X', Cheth}, {'J', Teth}, {'T', Tau},
	}
	for _, tt := range tests {
		slot, ok := SlotOf(tt.c)
		if !ok || slot != tt.slot {
			t.Errorf("SlotOf(%q): expected %d, got %d (%v)", tt.c, tt.slot, slot, ok)
		}
	}
	if _, ok := SlotOf('1'); ok {
		t.Error("Expected digits not to name a slot")
	}
	if SlotName(Vav) != 'W' || SlotName(Tzaddi) != 'C' {
		t.Errorf("Unexpected slot names %c %c", SlotName(Vav), SlotName(Tzaddi))
	}
}

func TestOpFlags(t *testing.T) {
	if !OpAdd.WantsLiteral() || OpAdd.Arity() != 3 {
		t.Errorf("Expected + to take a literal and three operands")
	}
	if OpSet.WantsLiteral() {
		t.Error("Expected : not to take a literal")
	}
	if !OpGoto.WantsLiteral() || OpGoto.Arity() != 1 {
		t.Error("Expected @ to take a literal into V0")
	}
	if !OpElvis.WantsLiteral() {
		t.Error("Expected ?? to take a literal")
	}
	if OpLBlock.IsOperator() || OpVar.WantsLiteral() {
		t.Error("Expected structural tokens to carry no flags")
	}
	if OpInc.String() != "++" {
		t.Errorf("Expected ++, got %s", OpInc)
	}
}
