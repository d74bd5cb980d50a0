// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strings"

	"github.com/beevik/go65816/cpu"
)

var instructions = cpu.GetInstructionSet()

var modeName = []string{
	"IMM8",
	"IMM16",
	"DPG",
	"DPX",
	"DPY",
	"IDP",
	"IDX",
	"IDY",
	"ILP",
	"ILY",
	"SRS",
	"SRY",
	"ABS",
	"ABX",
	"ABY",
	"IND",
	"IAX",
	"IAL",
	"LNG",
	"LNX",
	"REL",
	"RLL",
	"BLK",
	"IMP",
}

// NewOp builds an instruction item from a mnemonic name, an operand
// value and an addressing mode. Branch mnemonics must be built with
// NewBranch or one of the branch constructors so their displacements
// can be resolved against the snippet.
func NewOp(name string, arg int, mode cpu.Mode) *Op {
	op := &Op{}
	switch inst := instructions.GetInstruction(name, mode); {
	case inst == nil:
		op.err = fmt.Errorf("%w: %s does not support %s",
			ErrInvalidMode, strings.ToUpper(name), modeName[mode])
	case mode.Relative():
		op.err = fmt.Errorf("%w: %s takes a branch target",
			ErrInvalidMode, strings.ToUpper(name))
	default:
		op.inst = inst
		op.arg = arg
		op.err = verifyArg(inst, arg)
	}
	return op
}

// NewBranch builds a branch instruction item. The target may be a
// Label or string naming a label defined in the same snippet, an int
// giving an explicit displacement from the end of the instruction, or
// nil to leave the branch unresolved.
func NewBranch(name string, target any) *BranchOp {
	inst := instructions.GetInstruction(name, cpu.REL)
	if inst == nil {
		inst = instructions.GetInstruction(name, cpu.RLL)
	}

	b := &BranchOp{inst: inst}
	if inst == nil {
		b.err = fmt.Errorf("%w: %s is not a branch",
			ErrInvalidMode, strings.ToUpper(name))
		return b
	}

	switch t := target.(type) {
	case nil:
	case string:
		b.label, b.hasLabel = t, true
	case Label:
		b.label, b.hasLabel = string(t), true
	case int:
		b.err = b.setDisp(t)
	default:
		b.err = fmt.Errorf("%w: branch target %v", ErrInvalidArgument, target)
	}
	return b
}

// The operand must fit the addressing mode's width. Implied mode
// instructions take no operand at all.
func verifyArg(inst *cpu.Instruction, arg int) error {
	max := 1 << (8 * inst.Mode.OperandSize())
	if arg < 0 || arg >= max {
		return fmt.Errorf("%w: %s operand %d out of range",
			ErrInvalidArgument, inst.Name, arg)
	}
	return nil
}

func blockMove(name string, srcBank, dstBank int) *Op {
	if srcBank < 0 || srcBank > 0xff || dstBank < 0 || dstBank > 0xff {
		return &Op{err: fmt.Errorf("%w: %s banks $%X,$%X",
			ErrInvalidArgument, name, srcBank, dstBank)}
	}
	// The destination bank occupies the low operand byte so the
	// little-endian encoding emits it first.
	return NewOp(name, srcBank<<8|dstBank, cpu.BLK)
}

// ADC adds memory and carry to the accumulator.
func ADC(arg int, mode cpu.Mode) *Op { return NewOp("ADC", arg, mode) }

// AND ands memory with the accumulator.
func AND(arg int, mode cpu.Mode) *Op { return NewOp("AND", arg, mode) }

// ASL shifts the operand left one bit.
func ASL(arg int, mode cpu.Mode) *Op { return NewOp("ASL", arg, mode) }

// BIT tests memory bits against the accumulator.
func BIT(arg int, mode cpu.Mode) *Op { return NewOp("BIT", arg, mode) }

// CMP compares memory with the accumulator.
func CMP(arg int, mode cpu.Mode) *Op { return NewOp("CMP", arg, mode) }

// COP triggers a coprocessor interrupt.
func COP(arg int, mode cpu.Mode) *Op { return NewOp("COP", arg, mode) }

// CPX compares memory with the X register.
func CPX(arg int, mode cpu.Mode) *Op { return NewOp("CPX", arg, mode) }

// CPY compares memory with the Y register.
func CPY(arg int, mode cpu.Mode) *Op { return NewOp("CPY", arg, mode) }

// DEC decrements the operand.
func DEC(arg int, mode cpu.Mode) *Op { return NewOp("DEC", arg, mode) }

// EOR exclusive-ors memory with the accumulator.
func EOR(arg int, mode cpu.Mode) *Op { return NewOp("EOR", arg, mode) }

// INC increments the operand.
func INC(arg int, mode cpu.Mode) *Op { return NewOp("INC", arg, mode) }

// JMP jumps to a new address.
func JMP(arg int, mode cpu.Mode) *Op { return NewOp("JMP", arg, mode) }

// JSR calls a subroutine.
func JSR(arg int, mode cpu.Mode) *Op { return NewOp("JSR", arg, mode) }

// LDA loads the accumulator from memory.
func LDA(arg int, mode cpu.Mode) *Op { return NewOp("LDA", arg, mode) }

// LDX loads the X register from memory.
func LDX(arg int, mode cpu.Mode) *Op { return NewOp("LDX", arg, mode) }

// LDY loads the Y register from memory.
func LDY(arg int, mode cpu.Mode) *Op { return NewOp("LDY", arg, mode) }

// LSR shifts the operand right one bit.
func LSR(arg int, mode cpu.Mode) *Op { return NewOp("LSR", arg, mode) }

// ORA ors memory with the accumulator.
func ORA(arg int, mode cpu.Mode) *Op { return NewOp("ORA", arg, mode) }

// ROL rotates the operand left through the carry.
func ROL(arg int, mode cpu.Mode) *Op { return NewOp("ROL", arg, mode) }

// ROR rotates the operand right through the carry.
func ROR(arg int, mode cpu.Mode) *Op { return NewOp("ROR", arg, mode) }

// SBC subtracts memory and borrow from the accumulator.
func SBC(arg int, mode cpu.Mode) *Op { return NewOp("SBC", arg, mode) }

// STA stores the accumulator to memory.
func STA(arg int, mode cpu.Mode) *Op { return NewOp("STA", arg, mode) }

// STX stores the X register to memory.
func STX(arg int, mode cpu.Mode) *Op { return NewOp("STX", arg, mode) }

// STY stores the Y register to memory.
func STY(arg int, mode cpu.Mode) *Op { return NewOp("STY", arg, mode) }

// STZ stores zero to memory.
func STZ(arg int, mode cpu.Mode) *Op { return NewOp("STZ", arg, mode) }

// TRB clears the memory bits selected by the accumulator.
func TRB(arg int, mode cpu.Mode) *Op { return NewOp("TRB", arg, mode) }

// TSB sets the memory bits selected by the accumulator.
func TSB(arg int, mode cpu.Mode) *Op { return NewOp("TSB", arg, mode) }

// JSL calls a subroutine at a long address.
func JSL(addr int) *Op { return NewOp("JSL", addr, cpu.LNG) }

// PEA pushes a 16-bit constant onto the stack.
func PEA(v int) *Op { return NewOp("PEA", v, cpu.IMM16) }

// PEI pushes a 16-bit value read from the direct page.
func PEI(dp int) *Op { return NewOp("PEI", dp, cpu.DPG) }

// PER pushes a PC-relative address onto the stack.
func PER(v int) *Op { return NewOp("PER", v, cpu.IMM16) }

// REP clears the status register bits selected by the mask.
func REP(mask int) *Op { return NewOp("REP", mask, cpu.IMM8) }

// SEP sets the status register bits selected by the mask.
func SEP(mask int) *Op { return NewOp("SEP", mask, cpu.IMM8) }

// MVN copies a block of memory, ascending through addresses.
func MVN(srcBank, dstBank int) *Op { return blockMove("MVN", srcBank, dstBank) }

// MVP copies a block of memory, descending through addresses.
func MVP(srcBank, dstBank int) *Op { return blockMove("MVP", srcBank, dstBank) }

// BRK triggers a software interrupt.
func BRK() *Op { return NewOp("BRK", 0, cpu.IMP) }

// CLC clears the carry bit.
func CLC() *Op { return NewOp("CLC", 0, cpu.IMP) }

// CLD clears the decimal mode bit.
func CLD() *Op { return NewOp("CLD", 0, cpu.IMP) }

// CLI clears the interrupt disable bit.
func CLI() *Op { return NewOp("CLI", 0, cpu.IMP) }

// CLV clears the overflow bit.
func CLV() *Op { return NewOp("CLV", 0, cpu.IMP) }

// SEC sets the carry bit.
func SEC() *Op { return NewOp("SEC", 0, cpu.IMP) }

// SED sets the decimal mode bit.
func SED() *Op { return NewOp("SED", 0, cpu.IMP) }

// SEI sets the interrupt disable bit.
func SEI() *Op { return NewOp("SEI", 0, cpu.IMP) }

// DEX decrements the X register.
func DEX() *Op { return NewOp("DEX", 0, cpu.IMP) }

// DEY decrements the Y register.
func DEY() *Op { return NewOp("DEY", 0, cpu.IMP) }

// INX increments the X register.
func INX() *Op { return NewOp("INX", 0, cpu.IMP) }

// INY increments the Y register.
func INY() *Op { return NewOp("INY", 0, cpu.IMP) }

// NOP does nothing for two cycles.
func NOP() *Op { return NewOp("NOP", 0, cpu.IMP) }

// WAI halts the processor until an interrupt arrives.
func WAI() *Op { return NewOp("WAI", 0, cpu.IMP) }

// STP stops the processor clock.
func STP() *Op { return NewOp("STP", 0, cpu.IMP) }

// XBA swaps the high and low bytes of the accumulator.
func XBA() *Op { return NewOp("XBA", 0, cpu.IMP) }

// XCE exchanges the carry and emulation bits.
func XCE() *Op { return NewOp("XCE", 0, cpu.IMP) }

// PHA pushes the accumulator onto the stack.
func PHA() *Op { return NewOp("PHA", 0, cpu.IMP) }

// PLA pulls the accumulator from the stack.
func PLA() *Op { return NewOp("PLA", 0, cpu.IMP) }

// PHX pushes the X register onto the stack.
func PHX() *Op { return NewOp("PHX", 0, cpu.IMP) }

// PLX pulls the X register from the stack.
func PLX() *Op { return NewOp("PLX", 0, cpu.IMP) }

// PHY pushes the Y register onto the stack.
func PHY() *Op { return NewOp("PHY", 0, cpu.IMP) }

// PLY pulls the Y register from the stack.
func PLY() *Op { return NewOp("PLY", 0, cpu.IMP) }

// PHB pushes the data bank register onto the stack.
func PHB() *Op { return NewOp("PHB", 0, cpu.IMP) }

// PLB pulls the data bank register from the stack.
func PLB() *Op { return NewOp("PLB", 0, cpu.IMP) }

// PHD pushes the direct page register onto the stack.
func PHD() *Op { return NewOp("PHD", 0, cpu.IMP) }

// PLD pulls the direct page register from the stack.
func PLD() *Op { return NewOp("PLD", 0, cpu.IMP) }

// PHK pushes the program bank register onto the stack.
func PHK() *Op { return NewOp("PHK", 0, cpu.IMP) }

// PHP pushes the status register onto the stack.
func PHP() *Op { return NewOp("PHP", 0, cpu.IMP) }

// PLP pulls the status register from the stack.
func PLP() *Op { return NewOp("PLP", 0, cpu.IMP) }

// RTS returns from a subroutine.
func RTS() *Op { return NewOp("RTS", 0, cpu.IMP) }

// RTL returns from a subroutine called by JSL.
func RTL() *Op { return NewOp("RTL", 0, cpu.IMP) }

// RTI returns from an interrupt handler.
func RTI() *Op { return NewOp("RTI", 0, cpu.IMP) }

// TAX transfers the accumulator to the X register.
func TAX() *Op { return NewOp("TAX", 0, cpu.IMP) }

// TAY transfers the accumulator to the Y register.
func TAY() *Op { return NewOp("TAY", 0, cpu.IMP) }

// TXA transfers the X register to the accumulator.
func TXA() *Op { return NewOp("TXA", 0, cpu.IMP) }

// TYA transfers the Y register to the accumulator.
func TYA() *Op { return NewOp("TYA", 0, cpu.IMP) }

// TSX transfers the stack pointer to the X register.
func TSX() *Op { return NewOp("TSX", 0, cpu.IMP) }

// TXS transfers the X register to the stack pointer.
func TXS() *Op { return NewOp("TXS", 0, cpu.IMP) }

// TXY transfers the X register to the Y register.
func TXY() *Op { return NewOp("TXY", 0, cpu.IMP) }

// TYX transfers the Y register to the X register.
func TYX() *Op { return NewOp("TYX", 0, cpu.IMP) }

// TCD transfers the accumulator to the direct page register.
func TCD() *Op { return NewOp("TCD", 0, cpu.IMP) }

// TDC transfers the direct page register to the accumulator.
func TDC() *Op { return NewOp("TDC", 0, cpu.IMP) }

// TCS transfers the accumulator to the stack pointer.
func TCS() *Op { return NewOp("TCS", 0, cpu.IMP) }

// TSC transfers the stack pointer to the accumulator.
func TSC() *Op { return NewOp("TSC", 0, cpu.IMP) }

// BCC branches if the carry bit is clear.
func BCC(target any) *BranchOp { return NewBranch("BCC", target) }

// BCS branches if the carry bit is set.
func BCS(target any) *BranchOp { return NewBranch("BCS", target) }

// BEQ branches if the zero bit is set.
func BEQ(target any) *BranchOp { return NewBranch("BEQ", target) }

// BMI branches if the negative bit is set.
func BMI(target any) *BranchOp { return NewBranch("BMI", target) }

// BNE branches if the zero bit is clear.
func BNE(target any) *BranchOp { return NewBranch("BNE", target) }

// BPL branches if the negative bit is clear.
func BPL(target any) *BranchOp { return NewBranch("BPL", target) }

// BVC branches if the overflow bit is clear.
func BVC(target any) *BranchOp { return NewBranch("BVC", target) }

// BVS branches if the overflow bit is set.
func BVS(target any) *BranchOp { return NewBranch("BVS", target) }

// BRA branches unconditionally.
func BRA(target any) *BranchOp { return NewBranch("BRA", target) }

// BRL branches unconditionally with a 16-bit displacement.
func BRL(target any) *BranchOp { return NewBranch("BRL", target) }
