// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a single-pass 65816 snippet assembler.
// Instruction and label items are gathered into a snippet, which
// assigns each item an offset, resolves branch displacements from
// labels, and produces machine code.
package asm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/go65816/cpu"
)

// Errors reported while building a snippet.
var (
	ErrUnresolved      = errors.New("unresolved branch")
	ErrUnknownLabel    = errors.New("unknown label")
	ErrInvalidTarget   = errors.New("invalid branch target")
	ErrInvalidArgument = errors.New("invalid operand")
	ErrInvalidMode     = errors.New("invalid addressing mode")
)

// An Item is a single element of a snippet: an instruction or a
// label. Instructions contribute machine code bytes. Labels
// contribute none and name the offset of the item that follows them.
type Item interface {
	// Length returns the number of machine code bytes the item
	// contributes to a snippet.
	Length() int

	encode(buf []byte) []byte
	fault() error
}

// A Label names the offset of the item that follows it. It occupies
// no space in the assembled machine code. A branch built with the
// label's name resolves to the labeled offset.
type Label string

// Length returns 0. Labels contribute no machine code.
func (l Label) Length() int { return 0 }

func (l Label) encode(buf []byte) []byte { return buf }
func (l Label) fault() error             { return nil }

// An Op is an instruction with a fully evaluated operand.
type Op struct {
	inst *cpu.Instruction
	arg  int
	err  error
}

// Length returns the size of the instruction's machine code,
// including its opcode byte.
func (o *Op) Length() int {
	if o.inst == nil {
		return 0
	}
	return int(o.inst.Length)
}

// Operand bytes are stored little-endian.
func (o *Op) encode(buf []byte) []byte {
	buf = append(buf, o.inst.Opcode)
	for i, v := 0, o.arg; i < o.inst.Mode.OperandSize(); i++ {
		buf = append(buf, byte(v))
		v >>= 8
	}
	return buf
}

func (o *Op) fault() error { return o.err }

// String returns the instruction in assembly syntax.
func (o *Op) String() string {
	operand := cpu.FormatOperand(o.inst.Mode, o.arg)
	if operand == "" {
		return o.inst.Name
	}
	return o.inst.Name + " " + operand
}

// A BranchOp is a PC-relative branch instruction. Its displacement
// may be given explicitly or left to be resolved from a label when
// the snippet is built. A displacement is measured from the end of
// the branch instruction.
type BranchOp struct {
	inst     *cpu.Instruction
	label    string
	hasLabel bool
	disp     int
	resolved bool
	err      error
}

// Length returns the size of the branch's machine code, including
// its opcode byte.
func (b *BranchOp) Length() int {
	if b.inst == nil {
		return 0
	}
	return int(b.inst.Length)
}

func (b *BranchOp) encode(buf []byte) []byte {
	buf = append(buf, b.inst.Opcode)
	for i, v := 0, b.disp; i < b.inst.Mode.OperandSize(); i++ {
		buf = append(buf, byte(v))
		v >>= 8
	}
	return buf
}

func (b *BranchOp) fault() error { return b.err }

// String returns the branch in assembly syntax. An unresolved branch
// shows its label.
func (b *BranchOp) String() string {
	switch {
	case b.resolved:
		return b.inst.Name + " " + cpu.FormatOperand(b.inst.Mode, b.disp)
	case b.hasLabel:
		return b.inst.Name + " " + b.label
	default:
		return b.inst.Name + " ???"
	}
}

// Displacement limits for the branch addressing modes.
const (
	minDisp8, maxDisp8   = -0x80, 0x7f
	minDisp16, maxDisp16 = -0x800, 0x7ff
)

func (b *BranchOp) setDisp(disp int) error {
	lo, hi := minDisp8, maxDisp8
	if b.inst.Mode == cpu.RLL {
		lo, hi = minDisp16, maxDisp16
	}
	if disp < lo || disp > hi {
		return fmt.Errorf("%w: %s displacement %d out of range", ErrInvalidTarget, b.inst.Name, disp)
	}
	b.disp = disp
	b.resolved = true
	return nil
}

// A Record pairs an item with the offset assigned to it within a
// snippet.
type Record struct {
	Offset int  // offset from the start of the snippet
	Item   Item // the instruction or label at that offset
}

// A Snippet is an assembled sequence of items with assigned offsets
// and resolved branch displacements.
type Snippet struct {
	records []Record
	labels  map[string]int // label -> item index
	length  int
}

// NewSnippet assigns an offset to each item, records label positions,
// and resolves branch displacements. It fails if any item carries a
// construction error, if a branch names a label the snippet does not
// define, if a branch is left without a displacement, or if a branch
// displacement does not land on an item boundary. A label defined
// more than once keeps its last position.
func NewSnippet(items []Item) (*Snippet, error) {
	s := &Snippet{
		records: make([]Record, 0, len(items)),
		labels:  make(map[string]int),
	}

	// First pass: assign offsets and gather labels. Each item starts
	// where the previous item ended.
	offset := 0
	for i, it := range items {
		if err := it.fault(); err != nil {
			return nil, err
		}
		s.records = append(s.records, Record{Offset: offset, Item: it})
		if l, ok := it.(Label); ok {
			s.labels[string(l)] = i
		}
		offset += it.Length()
	}
	s.length = offset

	// Offsets at which an item begins. A branch may target any of
	// them, including the offset just past the final item when a
	// trailing label names it.
	starts := make(map[int]int, len(s.records))
	for i, r := range s.records {
		starts[r.Offset] = i
	}

	// Second pass: resolve branch displacements. A displacement is
	// measured from the end of the branch instruction. Branches built
	// with an explicit displacement skip label lookup but must still
	// land on an item boundary.
	for _, r := range s.records {
		b, ok := r.Item.(*BranchOp)
		if !ok {
			continue
		}
		if b.hasLabel {
			idx, ok := s.labels[b.label]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownLabel, b.label)
			}
			target := s.records[idx].Offset
			if err := b.setDisp(target - (r.Offset + b.Length())); err != nil {
				return nil, err
			}
		}
		if !b.resolved {
			return nil, fmt.Errorf("%w: %s", ErrUnresolved, b.inst.Name)
		}
		target := r.Offset + b.Length() + b.disp
		if _, ok := starts[target]; !ok {
			return nil, fmt.Errorf("%w: %s lands at offset %d", ErrInvalidTarget, b.inst.Name, target)
		}
	}

	return s, nil
}

// Assemble builds a snippet from the items and returns its machine
// code.
func Assemble(items []Item) ([]byte, error) {
	s, err := NewSnippet(items)
	if err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// Len returns the number of machine code bytes the snippet assembles
// to.
func (s *Snippet) Len() int {
	return s.length
}

// Bytes returns the snippet's machine code: the concatenation of each
// item's encoding in item order.
func (s *Snippet) Bytes() []byte {
	buf := make([]byte, 0, s.length)
	for _, r := range s.records {
		buf = r.Item.encode(buf)
	}
	return buf
}

// WriteTo writes the snippet's machine code to w.
func (s *Snippet) WriteTo(w io.Writer) (n int64, err error) {
	nn, err := w.Write(s.Bytes())
	return int64(nn), err
}

// String renders the snippet in listing form. Each line shows an
// item's offset and machine code bytes followed by its assembly
// syntax. Branch lines include the offset the branch lands on.
func (s *Snippet) String() string {
	var sb strings.Builder
	for _, r := range s.records {
		var code, text string
		switch it := r.Item.(type) {
		case Label:
			text = string(it) + ":"
		case *BranchOp:
			code = codeString(it.encode(nil))
			text = fmt.Sprintf("%s (to: [%04X])", it, r.Offset+it.Length()+it.disp)
		case *Op:
			code = codeString(it.encode(nil))
			text = it.String()
		}
		fmt.Fprintf(&sb, "[%04X]  %-12s %s\n", r.Offset, code, text)
	}
	return sb.String()
}

// Format a byte slice as a hexadecimal string.
func codeString(b []byte) string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}
