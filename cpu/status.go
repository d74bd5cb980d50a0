// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Masks for the bits of the 65816 processor status register. REP and
// SEP take a mask of these bits as their immediate operand. In native
// mode the M and X bits select the width of immediate operands: an
// instruction governed by a clear M (or, for index instructions, a
// clear X) takes a 16-bit immediate.
const (
	FlagC byte = 1 << iota // carry
	FlagZ                  // zero
	FlagI                  // interrupt disable
	FlagD                  // decimal mode
	FlagX                  // index register width (0 selects 16 bits)
	FlagM                  // accumulator width (0 selects 16 bits)
	FlagV                  // overflow
	FlagN                  // negative
)
