// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 65816 instruction set
// disassembler.
package disasm

import (
	"fmt"

	"github.com/beevik/go65816/cpu"
)

// Memory is the interface through which the disassembler reads
// machine code.
type Memory interface {
	LoadByte(addr int) byte
	LoadBytes(addr int, b []byte)
}

// Disassemble the machine code in memory m at address addr. The flags
// value supplies the M and X status register bits, which select the
// width of immediate operands. Return a line string representing the
// disassembled instruction and a next address that starts the
// following line of machine code.
func Disassemble(m Memory, addr int, flags byte) (line string, next int) {
	set := cpu.GetInstructionSet()
	inst := set.Lookup(m.LoadByte(addr))

	// An immediate instruction takes a 16-bit operand when its
	// governing width bit is clear.
	if inst.Mode == cpu.IMM8 {
		bit := cpu.FlagM
		if inst.ImmX {
			bit = cpu.FlagX
		}
		if flags&bit == 0 {
			if wide := set.GetInstruction(inst.Name, cpu.IMM16); wide != nil {
				inst = wide
			}
		}
	}

	operand := make([]byte, inst.Mode.OperandSize())
	m.LoadBytes(addr+1, operand)

	var arg int
	for i := len(operand) - 1; i >= 0; i-- {
		arg = arg<<8 | int(operand[i])
	}

	next = addr + int(inst.Length)

	var text string
	if inst.Mode.Relative() {
		// Convert the relative displacement to an absolute address.
		// The program counter wraps within its bank.
		disp := arg
		if inst.Mode == cpu.REL && disp > 0x7f {
			disp -= 0x100
		}
		if inst.Mode == cpu.RLL && disp > 0x7fff {
			disp -= 0x10000
		}
		target := (next + disp) & 0xffff
		text = fmt.Sprintf("$%04X", target)
	} else {
		text = cpu.FormatOperand(inst.Mode, arg)
	}

	if text == "" {
		line = inst.Name
	} else {
		line = inst.Name + " " + text
	}
	return line, next
}
