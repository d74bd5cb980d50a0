// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu describes the 65816 CPU instruction set: its addressing
// modes, opcode assignments, instruction lengths and operand syntax.
package cpu

import (
	"fmt"
	"strings"
)

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symADC opsym = iota
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRA
	symBRK
	symBRL
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCOP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSL
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symMVN
	symMVP
	symNOP
	symORA
	symPEA
	symPEI
	symPER
	symPHA
	symPHB
	symPHD
	symPHK
	symPHP
	symPHX
	symPHY
	symPLA
	symPLB
	symPLD
	symPLP
	symPLX
	symPLY
	symREP
	symROL
	symROR
	symRTI
	symRTL
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSEP
	symSTA
	symSTP
	symSTX
	symSTY
	symSTZ
	symTAX
	symTAY
	symTCD
	symTCS
	symTDC
	symTRB
	symTSB
	symTSC
	symTSX
	symTXA
	symTXS
	symTXY
	symTYA
	symTYX
	symWAI
	symXBA
	symXCE
)

// Data shared by all addressing-mode variants of a mnemonic. The immX
// column marks instructions whose immediate operand width follows the
// index register width (X) status bit instead of the accumulator width
// (M) bit.
type opcodeInfo struct {
	sym  opsym
	name string
	immX bool
}

var info = []opcodeInfo{
	{symADC, "ADC", false},
	{symAND, "AND", false},
	{symASL, "ASL", false},
	{symBCC, "BCC", false},
	{symBCS, "BCS", false},
	{symBEQ, "BEQ", false},
	{symBIT, "BIT", false},
	{symBMI, "BMI", false},
	{symBNE, "BNE", false},
	{symBPL, "BPL", false},
	{symBRA, "BRA", false},
	{symBRK, "BRK", false},
	{symBRL, "BRL", false},
	{symBVC, "BVC", false},
	{symBVS, "BVS", false},
	{symCLC, "CLC", false},
	{symCLD, "CLD", false},
	{symCLI, "CLI", false},
	{symCLV, "CLV", false},
	{symCMP, "CMP", false},
	{symCOP, "COP", false},
	{symCPX, "CPX", true},
	{symCPY, "CPY", true},
	{symDEC, "DEC", false},
	{symDEX, "DEX", false},
	{symDEY, "DEY", false},
	{symEOR, "EOR", false},
	{symINC, "INC", false},
	{symINX, "INX", false},
	{symINY, "INY", false},
	{symJMP, "JMP", false},
	{symJSL, "JSL", false},
	{symJSR, "JSR", false},
	{symLDA, "LDA", false},
	{symLDX, "LDX", true},
	{symLDY, "LDY", true},
	{symLSR, "LSR", false},
	{symMVN, "MVN", false},
	{symMVP, "MVP", false},
	{symNOP, "NOP", false},
	{symORA, "ORA", false},
	{symPEA, "PEA", false},
	{symPEI, "PEI", false},
	{symPER, "PER", false},
	{symPHA, "PHA", false},
	{symPHB, "PHB", false},
	{symPHD, "PHD", false},
	{symPHK, "PHK", false},
	{symPHP, "PHP", false},
	{symPHX, "PHX", false},
	{symPHY, "PHY", false},
	{symPLA, "PLA", false},
	{symPLB, "PLB", false},
	{symPLD, "PLD", false},
	{symPLP, "PLP", false},
	{symPLX, "PLX", false},
	{symPLY, "PLY", false},
	{symREP, "REP", false},
	{symROL, "ROL", false},
	{symROR, "ROR", false},
	{symRTI, "RTI", false},
	{symRTL, "RTL", false},
	{symRTS, "RTS", false},
	{symSBC, "SBC", false},
	{symSEC, "SEC", false},
	{symSED, "SED", false},
	{symSEI, "SEI", false},
	{symSEP, "SEP", false},
	{symSTA, "STA", false},
	{symSTP, "STP", false},
	{symSTX, "STX", false},
	{symSTY, "STY", false},
	{symSTZ, "STZ", false},
	{symTAX, "TAX", false},
	{symTAY, "TAY", false},
	{symTCD, "TCD", false},
	{symTCS, "TCS", false},
	{symTDC, "TDC", false},
	{symTRB, "TRB", false},
	{symTSB, "TSB", false},
	{symTSC, "TSC", false},
	{symTSX, "TSX", false},
	{symTXA, "TXA", false},
	{symTXS, "TXS", false},
	{symTXY, "TXY", false},
	{symTYA, "TYA", false},
	{symTYX, "TYX", false},
	{symWAI, "WAI", false},
	{symXBA, "XBA", false},
	{symXCE, "XCE", false},
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes. The 8- and 16-bit immediate
// modes share opcode values; the CPU chooses the operand width from
// its status register, so the assembler must be told which is meant.
const (
	IMM8  Mode = iota // Immediate, 8-bit operand
	IMM16             // Immediate, 16-bit operand
	DPG               // Direct page
	DPX               // Direct page,X
	DPY               // Direct page,Y
	IDP               // (Direct page)
	IDX               // (Direct page,X)
	IDY               // (Direct page),Y
	ILP               // [Direct page]
	ILY               // [Direct page],Y
	SRS               // Stack relative
	SRY               // (Stack relative),Y
	ABS               // Absolute
	ABX               // Absolute,X
	ABY               // Absolute,Y
	IND               // (Absolute)
	IAX               // (Absolute,X)
	IAL               // [Absolute]
	LNG               // Absolute long
	LNX               // Absolute long,X
	REL               // PC-relative, 8-bit signed displacement
	RLL               // PC-relative, 16-bit signed displacement
	BLK               // Block move source and destination banks
	IMP               // Implied or accumulator (no operand)
)

// Number of operand bytes for each addressing mode
var modeOperandSize = []byte{
	1, // IMM8
	2, // IMM16
	1, // DPG
	1, // DPX
	1, // DPY
	1, // IDP
	1, // IDX
	1, // IDY
	1, // ILP
	1, // ILY
	1, // SRS
	1, // SRY
	2, // ABS
	2, // ABX
	2, // ABY
	2, // IND
	2, // IAX
	2, // IAL
	3, // LNG
	3, // LNX
	1, // REL
	2, // RLL
	2, // BLK
	0, // IMP
}

// Operand formatting for each addressing mode
var modeFormat = []string{
	"#$%02X",        // IMM8
	"#$%04X",        // IMM16
	"$%02X",         // DPG
	"$%02X,X",       // DPX
	"$%02X,Y",       // DPY
	"($%02X)",       // IDP
	"($%02X,X)",     // IDX
	"($%02X),Y",     // IDY
	"[$%02X]",       // ILP
	"[$%02X],Y",     // ILY
	"$%02X,S",       // SRS
	"($%02X,S),Y",   // SRY
	"$%04X",         // ABS
	"$%04X,X",       // ABX
	"$%04X,Y",       // ABY
	"($%04X)",       // IND
	"($%04X,X)",     // IAX
	"[$%04X]",       // IAL
	"$%06X",         // LNG
	"$%06X,X",       // LNX
	"$%02X",         // REL
	"$%04X",         // RLL
	"#$%02X,#$%02X", // BLK
	"",              // IMP
}

// OperandSize returns the number of operand bytes consumed by the
// addressing mode.
func (m Mode) OperandSize() int {
	return int(modeOperandSize[m])
}

// Relative returns true for the PC-relative branch addressing modes.
func (m Mode) Relative() bool {
	return m == REL || m == RLL
}

// FormatOperand renders an operand value using the syntax of the
// requested addressing mode. Values are masked to the mode's operand
// width, so negative relative displacements render in two's
// complement form.
func FormatOperand(mode Mode, arg int) string {
	switch mode {
	case IMP:
		return ""
	case BLK:
		// Block moves encode the destination bank in the low byte and
		// the source bank in the high byte.
		return fmt.Sprintf(modeFormat[mode], (arg>>8)&0xff, arg&0xff)
	default:
		mask := 1<<(8*mode.OperandSize()) - 1
		return fmt.Sprintf(modeFormat[mode], arg&mask)
	}
}

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym    opsym // internal opcode symbol
	mode   Mode  // addressing mode
	opcode byte  // opcode hex value
	length byte  // length of opcode + operand in bytes
}

// All valid (opcode, mode) pairs. The 8-bit immediate row of a
// mnemonic precedes its 16-bit row so the opcode-indexed lookup table
// holds the 8-bit form.
var data = []opcodeData{
	{symLDA, IMM8, 0xa9, 2},
	{symLDA, IMM16, 0xa9, 3},
	{symLDA, DPG, 0xa5, 2},
	{symLDA, DPX, 0xb5, 2},
	{symLDA, ABS, 0xad, 3},
	{symLDA, ABX, 0xbd, 3},
	{symLDA, ABY, 0xb9, 3},
	{symLDA, IDP, 0xb2, 2},
	{symLDA, IDX, 0xa1, 2},
	{symLDA, IDY, 0xb1, 2},
	{symLDA, ILP, 0xa7, 2},
	{symLDA, ILY, 0xb7, 2},
	{symLDA, SRS, 0xa3, 2},
	{symLDA, SRY, 0xb3, 2},
	{symLDA, LNG, 0xaf, 4},
	{symLDA, LNX, 0xbf, 4},

	{symLDX, IMM8, 0xa2, 2},
	{symLDX, IMM16, 0xa2, 3},
	{symLDX, DPG, 0xa6, 2},
	{symLDX, DPY, 0xb6, 2},
	{symLDX, ABS, 0xae, 3},
	{symLDX, ABY, 0xbe, 3},

	{symLDY, IMM8, 0xa0, 2},
	{symLDY, IMM16, 0xa0, 3},
	{symLDY, DPG, 0xa4, 2},
	{symLDY, DPX, 0xb4, 2},
	{symLDY, ABS, 0xac, 3},
	{symLDY, ABX, 0xbc, 3},

	{symSTA, DPG, 0x85, 2},
	{symSTA, DPX, 0x95, 2},
	{symSTA, ABS, 0x8d, 3},
	{symSTA, ABX, 0x9d, 3},
	{symSTA, ABY, 0x99, 3},
	{symSTA, IDP, 0x92, 2},
	{symSTA, IDX, 0x81, 2},
	{symSTA, IDY, 0x91, 2},
	{symSTA, ILP, 0x87, 2},
	{symSTA, ILY, 0x97, 2},
	{symSTA, SRS, 0x83, 2},
	{symSTA, SRY, 0x93, 2},
	{symSTA, LNG, 0x8f, 4},
	{symSTA, LNX, 0x9f, 4},

	{symSTX, DPG, 0x86, 2},
	{symSTX, DPY, 0x96, 2},
	{symSTX, ABS, 0x8e, 3},

	{symSTY, DPG, 0x84, 2},
	{symSTY, DPX, 0x94, 2},
	{symSTY, ABS, 0x8c, 3},

	{symSTZ, DPG, 0x64, 2},
	{symSTZ, DPX, 0x74, 2},
	{symSTZ, ABS, 0x9c, 3},
	{symSTZ, ABX, 0x9e, 3},

	{symADC, IMM8, 0x69, 2},
	{symADC, IMM16, 0x69, 3},
	{symADC, DPG, 0x65, 2},
	{symADC, DPX, 0x75, 2},
	{symADC, ABS, 0x6d, 3},
	{symADC, ABX, 0x7d, 3},
	{symADC, ABY, 0x79, 3},
	{symADC, IDP, 0x72, 2},
	{symADC, IDX, 0x61, 2},
	{symADC, IDY, 0x71, 2},
	{symADC, ILP, 0x67, 2},
	{symADC, ILY, 0x77, 2},
	{symADC, SRS, 0x63, 2},
	{symADC, SRY, 0x73, 2},
	{symADC, LNG, 0x6f, 4},
	{symADC, LNX, 0x7f, 4},

	{symSBC, IMM8, 0xe9, 2},
	{symSBC, IMM16, 0xe9, 3},
	{symSBC, DPG, 0xe5, 2},
	{symSBC, DPX, 0xf5, 2},
	{symSBC, ABS, 0xed, 3},
	{symSBC, ABX, 0xfd, 3},
	{symSBC, ABY, 0xf9, 3},
	{symSBC, IDP, 0xf2, 2},
	{symSBC, IDX, 0xe1, 2},
	{symSBC, IDY, 0xf1, 2},
	{symSBC, ILP, 0xe7, 2},
	{symSBC, ILY, 0xf7, 2},
	{symSBC, SRS, 0xe3, 2},
	{symSBC, SRY, 0xf3, 2},
	{symSBC, LNG, 0xef, 4},
	{symSBC, LNX, 0xff, 4},

	{symCMP, IMM8, 0xc9, 2},
	{symCMP, IMM16, 0xc9, 3},
	{symCMP, DPG, 0xc5, 2},
	{symCMP, DPX, 0xd5, 2},
	{symCMP, ABS, 0xcd, 3},
	{symCMP, ABX, 0xdd, 3},
	{symCMP, ABY, 0xd9, 3},
	{symCMP, IDP, 0xd2, 2},
	{symCMP, IDX, 0xc1, 2},
	{symCMP, IDY, 0xd1, 2},
	{symCMP, ILP, 0xc7, 2},
	{symCMP, ILY, 0xd7, 2},
	{symCMP, SRS, 0xc3, 2},
	{symCMP, SRY, 0xd3, 2},
	{symCMP, LNG, 0xcf, 4},
	{symCMP, LNX, 0xdf, 4},

	{symCPX, IMM8, 0xe0, 2},
	{symCPX, IMM16, 0xe0, 3},
	{symCPX, DPG, 0xe4, 2},
	{symCPX, ABS, 0xec, 3},

	{symCPY, IMM8, 0xc0, 2},
	{symCPY, IMM16, 0xc0, 3},
	{symCPY, DPG, 0xc4, 2},
	{symCPY, ABS, 0xcc, 3},

	{symAND, IMM8, 0x29, 2},
	{symAND, IMM16, 0x29, 3},
	{symAND, DPG, 0x25, 2},
	{symAND, DPX, 0x35, 2},
	{symAND, ABS, 0x2d, 3},
	{symAND, ABX, 0x3d, 3},
	{symAND, ABY, 0x39, 3},
	{symAND, IDP, 0x32, 2},
	{symAND, IDX, 0x21, 2},
	{symAND, IDY, 0x31, 2},
	{symAND, ILP, 0x27, 2},
	{symAND, ILY, 0x37, 2},
	{symAND, SRS, 0x23, 2},
	{symAND, SRY, 0x33, 2},
	{symAND, LNG, 0x2f, 4},
	{symAND, LNX, 0x3f, 4},

	{symEOR, IMM8, 0x49, 2},
	{symEOR, IMM16, 0x49, 3},
	{symEOR, DPG, 0x45, 2},
	{symEOR, DPX, 0x55, 2},
	{symEOR, ABS, 0x4d, 3},
	{symEOR, ABX, 0x5d, 3},
	{symEOR, ABY, 0x59, 3},
	{symEOR, IDP, 0x52, 2},
	{symEOR, IDX, 0x41, 2},
	{symEOR, IDY, 0x51, 2},
	{symEOR, ILP, 0x47, 2},
	{symEOR, ILY, 0x57, 2},
	{symEOR, SRS, 0x43, 2},
	{symEOR, SRY, 0x53, 2},
	{symEOR, LNG, 0x4f, 4},
	{symEOR, LNX, 0x5f, 4},

	{symORA, IMM8, 0x09, 2},
	{symORA, IMM16, 0x09, 3},
	{symORA, DPG, 0x05, 2},
	{symORA, DPX, 0x15, 2},
	{symORA, ABS, 0x0d, 3},
	{symORA, ABX, 0x1d, 3},
	{symORA, ABY, 0x19, 3},
	{symORA, IDP, 0x12, 2},
	{symORA, IDX, 0x01, 2},
	{symORA, IDY, 0x11, 2},
	{symORA, ILP, 0x07, 2},
	{symORA, ILY, 0x17, 2},
	{symORA, SRS, 0x03, 2},
	{symORA, SRY, 0x13, 2},
	{symORA, LNG, 0x0f, 4},
	{symORA, LNX, 0x1f, 4},

	{symBIT, IMM8, 0x89, 2},
	{symBIT, IMM16, 0x89, 3},
	{symBIT, DPG, 0x24, 2},
	{symBIT, DPX, 0x34, 2},
	{symBIT, ABS, 0x2c, 3},
	{symBIT, ABX, 0x3c, 3},

	{symTRB, DPG, 0x14, 2},
	{symTRB, ABS, 0x1c, 3},

	{symTSB, DPG, 0x04, 2},
	{symTSB, ABS, 0x0c, 3},

	{symINC, IMP, 0x1a, 1},
	{symINC, DPG, 0xe6, 2},
	{symINC, DPX, 0xf6, 2},
	{symINC, ABS, 0xee, 3},
	{symINC, ABX, 0xfe, 3},

	{symDEC, IMP, 0x3a, 1},
	{symDEC, DPG, 0xc6, 2},
	{symDEC, DPX, 0xd6, 2},
	{symDEC, ABS, 0xce, 3},
	{symDEC, ABX, 0xde, 3},

	{symINX, IMP, 0xe8, 1},
	{symINY, IMP, 0xc8, 1},
	{symDEX, IMP, 0xca, 1},
	{symDEY, IMP, 0x88, 1},

	{symASL, IMP, 0x0a, 1},
	{symASL, DPG, 0x06, 2},
	{symASL, DPX, 0x16, 2},
	{symASL, ABS, 0x0e, 3},
	{symASL, ABX, 0x1e, 3},

	{symLSR, IMP, 0x4a, 1},
	{symLSR, DPG, 0x46, 2},
	{symLSR, DPX, 0x56, 2},
	{symLSR, ABS, 0x4e, 3},
	{symLSR, ABX, 0x5e, 3},

	{symROL, IMP, 0x2a, 1},
	{symROL, DPG, 0x26, 2},
	{symROL, DPX, 0x36, 2},
	{symROL, ABS, 0x2e, 3},
	{symROL, ABX, 0x3e, 3},

	{symROR, IMP, 0x6a, 1},
	{symROR, DPG, 0x66, 2},
	{symROR, DPX, 0x76, 2},
	{symROR, ABS, 0x6e, 3},
	{symROR, ABX, 0x7e, 3},

	{symJMP, ABS, 0x4c, 3},
	{symJMP, IND, 0x6c, 3},
	{symJMP, IAX, 0x7c, 3},
	{symJMP, IAL, 0xdc, 3},
	{symJMP, LNG, 0x5c, 4},

	{symJSR, ABS, 0x20, 3},
	{symJSR, IAX, 0xfc, 3},

	{symJSL, LNG, 0x22, 4},

	{symRTS, IMP, 0x60, 1},
	{symRTL, IMP, 0x6b, 1},
	{symRTI, IMP, 0x40, 1},

	{symBPL, REL, 0x10, 2},
	{symBMI, REL, 0x30, 2},
	{symBVC, REL, 0x50, 2},
	{symBVS, REL, 0x70, 2},
	{symBCC, REL, 0x90, 2},
	{symBCS, REL, 0xb0, 2},
	{symBNE, REL, 0xd0, 2},
	{symBEQ, REL, 0xf0, 2},
	{symBRA, REL, 0x80, 2},
	{symBRL, RLL, 0x82, 3},

	{symPHA, IMP, 0x48, 1},
	{symPLA, IMP, 0x68, 1},
	{symPHX, IMP, 0xda, 1},
	{symPLX, IMP, 0xfa, 1},
	{symPHY, IMP, 0x5a, 1},
	{symPLY, IMP, 0x7a, 1},
	{symPHB, IMP, 0x8b, 1},
	{symPLB, IMP, 0xab, 1},
	{symPHD, IMP, 0x0b, 1},
	{symPLD, IMP, 0x2b, 1},
	{symPHK, IMP, 0x4b, 1},
	{symPHP, IMP, 0x08, 1},
	{symPLP, IMP, 0x28, 1},

	{symPEA, IMM16, 0xf4, 3},
	{symPEI, DPG, 0xd4, 2},
	{symPER, IMM16, 0x62, 3},

	{symTAX, IMP, 0xaa, 1},
	{symTAY, IMP, 0xa8, 1},
	{symTXA, IMP, 0x8a, 1},
	{symTYA, IMP, 0x98, 1},
	{symTSX, IMP, 0xba, 1},
	{symTXS, IMP, 0x9a, 1},
	{symTXY, IMP, 0x9b, 1},
	{symTYX, IMP, 0xbb, 1},
	{symTCD, IMP, 0x5b, 1},
	{symTDC, IMP, 0x7b, 1},
	{symTCS, IMP, 0x1b, 1},
	{symTSC, IMP, 0x3b, 1},

	{symCLC, IMP, 0x18, 1},
	{symCLD, IMP, 0xd8, 1},
	{symCLI, IMP, 0x58, 1},
	{symCLV, IMP, 0xb8, 1},
	{symSEC, IMP, 0x38, 1},
	{symSED, IMP, 0xf8, 1},
	{symSEI, IMP, 0x78, 1},

	{symREP, IMM8, 0xc2, 2},
	{symSEP, IMM8, 0xe2, 2},

	{symMVN, BLK, 0x54, 3},
	{symMVP, BLK, 0x44, 3},

	{symBRK, IMP, 0x00, 1},
	{symCOP, IMM8, 0x02, 2},
	{symCOP, IMM16, 0x02, 3},

	{symNOP, IMP, 0xea, 1},
	{symWAI, IMP, 0xcb, 1},
	{symSTP, IMP, 0xdb, 1},
	{symXBA, IMP, 0xeb, 1},
	{symXCE, IMP, 0xfb, 1},
}

// Unused opcodes
type unused struct {
	opcode byte
	mode   Mode
	length byte
}

// WDM ($42) is the only opcode the 65816 reserves. It consumes a
// signature byte and performs no operation.
var unusedData = []unused{
	{0x42, IMM8, 2},
}

// An Instruction describes a CPU instruction, including its name, its
// addressing mode, its opcode value and its length in bytes.
type Instruction struct {
	Name   string // all-caps name of the instruction
	Mode   Mode   // addressing mode
	Opcode byte   // hexadecimal opcode value
	Length byte   // combined size of opcode and operand, in bytes
	ImmX   bool   // immediate width follows the X status bit
}

// An InstructionSet defines the set of all instructions the 65816
// can execute.
type InstructionSet struct {
	instructions [256]Instruction          // all instructions by opcode
	variants     map[string][]*Instruction // variants of each instruction
}

// Lookup retrieves a CPU instruction corresponding to the requested
// opcode. For opcodes shared by the 8- and 16-bit immediate modes the
// 8-bit form is returned.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

// GetInstruction returns the instruction with the requested name and
// addressing mode, or nil if the mnemonic has no such mode.
func (s *InstructionSet) GetInstruction(name string, mode Mode) *Instruction {
	for _, inst := range s.variants[strings.ToUpper(name)] {
		if inst.Mode == mode {
			return inst
		}
	}
	return nil
}

// Create the 65816 instruction set.
func newInstructionSet() *InstructionSet {
	set := &InstructionSet{}

	// Create a map from symbol to mnemonic data for fast lookups.
	symToInfo := make(map[opsym]*opcodeInfo, len(info))
	for i := range info {
		symToInfo[info[i].sym] = &info[i]
	}

	// Create a map from instruction name to the slice of all
	// instruction variants matching that name.
	set.variants = make(map[string][]*Instruction)

	// A 16-bit immediate form shares its opcode byte with the 8-bit
	// form, so it cannot claim the opcode-indexed table entry. Such
	// variants are stored out of band.
	var nwide int
	for _, d := range data {
		if d.mode == IMM16 {
			nwide++
		}
	}
	wide := make([]Instruction, 0, nwide)

	for _, d := range data {
		nf := symToInfo[d.sym]

		inst := &set.instructions[d.opcode]
		if inst.Name != "" {
			wide = append(wide, Instruction{})
			inst = &wide[len(wide)-1]
		}

		inst.Name = nf.name
		inst.Mode = d.mode
		inst.Opcode = d.opcode
		inst.Length = d.length
		inst.ImmX = nf.immX

		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}

	// Add reserved opcodes to the instruction set so that every value
	// decodes to a known length.
	unusedName := "???"
	for _, u := range unusedData {
		inst := &set.instructions[u.opcode]
		inst.Name = unusedName
		inst.Mode = u.mode
		inst.Opcode = u.opcode
		inst.Length = u.length
	}

	for i := 0; i < 256; i++ {
		if set.instructions[i].Name == "" {
			panic("missing instruction")
		}
	}
	return set
}

var instructionSet *InstructionSet

// GetInstructionSet returns the 65816 instruction set.
func GetInstructionSet() *InstructionSet {
	if instructionSet == nil {
		// Lazy-create the instruction set.
		instructionSet = newInstructionSet()
	}
	return instructionSet
}
