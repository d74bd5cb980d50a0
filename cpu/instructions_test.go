// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "testing"

func expectInstruction(t *testing.T, inst *Instruction, name string, mode Mode, length byte) {
	t.Helper()
	if inst == nil {
		t.Fatalf("Instruction %s missing from instruction set", name)
	}
	if inst.Name != name {
		t.Errorf("Name incorrect. exp: %s, got: %s", name, inst.Name)
	}
	if inst.Mode != mode {
		t.Errorf("Mode incorrect for %s. exp: %d, got: %d", name, mode, inst.Mode)
	}
	if inst.Length != length {
		t.Errorf("Length incorrect for %s. exp: %d, got: %d", name, length, inst.Length)
	}
}

func TestOpcodeCoverage(t *testing.T) {
	set := GetInstructionSet()
	for i := 0; i < 256; i++ {
		inst := set.Lookup(byte(i))
		if inst.Name == "" {
			t.Errorf("opcode $%02X has no instruction", i)
		}
		if inst.Opcode != byte(i) {
			t.Errorf("opcode $%02X stored under wrong index $%02X", inst.Opcode, i)
		}
	}
}

func TestInstructionLengths(t *testing.T) {
	set := GetInstructionSet()
	for _, variants := range set.variants {
		for _, inst := range variants {
			exp := byte(1 + inst.Mode.OperandSize())
			if inst.Length != exp {
				t.Errorf("%s $%02X length incorrect. exp: %d, got: %d",
					inst.Name, inst.Opcode, exp, inst.Length)
			}
		}
	}
}

func TestDuplicateOpcodes(t *testing.T) {
	// Only the 8- and 16-bit immediate forms of a mnemonic may share
	// an opcode value.
	type claim struct {
		sym  opsym
		mode Mode
	}
	seen := make(map[byte]claim)
	for _, d := range data {
		prev, ok := seen[d.opcode]
		if !ok {
			seen[d.opcode] = claim{d.sym, d.mode}
			continue
		}
		if prev.sym != d.sym || prev.mode != IMM8 || d.mode != IMM16 {
			t.Errorf("opcode $%02X claimed twice", d.opcode)
		}
	}
}

func TestLookup(t *testing.T) {
	set := GetInstructionSet()
	expectInstruction(t, set.Lookup(0xa9), "LDA", IMM8, 2)
	expectInstruction(t, set.Lookup(0xf0), "BEQ", REL, 2)
	expectInstruction(t, set.Lookup(0x82), "BRL", RLL, 3)
	expectInstruction(t, set.Lookup(0x5c), "JMP", LNG, 4)
	expectInstruction(t, set.Lookup(0x54), "MVN", BLK, 3)
	expectInstruction(t, set.Lookup(0xea), "NOP", IMP, 1)
	expectInstruction(t, set.Lookup(0x42), "???", IMM8, 2)
}

func TestImmediateWidths(t *testing.T) {
	set := GetInstructionSet()

	// Opcode-indexed lookup returns the 8-bit immediate form.
	expectInstruction(t, set.Lookup(0x69), "ADC", IMM8, 2)

	// The 16-bit form is reachable by name and mode.
	expectInstruction(t, set.GetInstruction("ADC", IMM16), "ADC", IMM16, 3)
	expectInstruction(t, set.GetInstruction("lda", IMM16), "LDA", IMM16, 3)

	// REP and SEP always take an 8-bit mask.
	if inst := set.GetInstruction("REP", IMM16); inst != nil {
		t.Errorf("REP should have no 16-bit immediate form")
	}

	// PEA is 16-bit only.
	expectInstruction(t, set.GetInstruction("PEA", IMM16), "PEA", IMM16, 3)
	if inst := set.GetInstruction("PEA", IMM8); inst != nil {
		t.Errorf("PEA should have no 8-bit immediate form")
	}
}

func TestIndexedImmediates(t *testing.T) {
	set := GetInstructionSet()
	immX := map[string]bool{"CPX": true, "CPY": true, "LDX": true, "LDY": true}
	for name, variants := range set.variants {
		for _, inst := range variants {
			if inst.ImmX != immX[name] {
				t.Errorf("%s ImmX incorrect. exp: %v, got: %v",
					name, immX[name], inst.ImmX)
			}
		}
	}
}

func TestVariantCounts(t *testing.T) {
	set := GetInstructionSet()
	cases := []struct {
		name  string
		count int
	}{
		{"LDA", 16},
		{"ADC", 16},
		{"STA", 14},
		{"LDX", 6},
		{"JMP", 5},
		{"BEQ", 1},
		{"NOP", 1},
	}
	for _, c := range cases {
		if got := len(set.GetInstructions(c.name)); got != c.count {
			t.Errorf("%s variant count incorrect. exp: %d, got: %d",
				c.name, c.count, got)
		}
	}
}

func TestFormatOperand(t *testing.T) {
	cases := []struct {
		mode Mode
		arg  int
		exp  string
	}{
		{IMM8, 0x3e, "#$3E"},
		{IMM16, 0x1234, "#$1234"},
		{DPG, 0x7f, "$7F"},
		{IDX, 0x10, "($10,X)"},
		{SRY, 0x03, "($03,S),Y"},
		{ABS, 0x8000, "$8000"},
		{IAX, 0xfffc, "($FFFC,X)"},
		{LNG, 0xc2d450, "$C2D450"},
		{LNX, 0x7e0000, "$7E0000,X"},
		{REL, -2, "$FE"},
		{RLL, -4, "$FFFC"},
		{BLK, 0x7e7f, "#$7E,#$7F"},
		{IMP, 0, ""},
	}
	for _, c := range cases {
		if got := FormatOperand(c.mode, c.arg); got != c.exp {
			t.Errorf("operand format incorrect. exp: %s, got: %s", c.exp, got)
		}
	}
}
