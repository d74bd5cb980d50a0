// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/go65816/cpu"
)

func checkSnippet(t *testing.T, items []Item, expected string) *Snippet {
	t.Helper()

	s, err := NewSnippet(items)
	if err != nil {
		t.Error(err)
		return nil
	}

	got := fmt.Sprintf("%X", s.Bytes())
	if got != expected {
		t.Error("code doesn't match expected")
		t.Errorf("got: %s\n", got)
		t.Errorf("exp: %s\n", expected)
	}
	if s.Len() != len(expected)/2 {
		t.Errorf("Len incorrect. exp: %d, got: %d", len(expected)/2, s.Len())
	}
	return s
}

func checkSnippetError(t *testing.T, items []Item, want error) {
	t.Helper()

	_, err := NewSnippet(items)
	if err == nil {
		t.Errorf("Expected error '%v', didn't get one", want)
		return
	}
	if !errors.Is(err, want) {
		t.Errorf("Expected '%v', got '%v'", want, err)
	}
}

func TestForwardBranch(t *testing.T) {
	s := checkSnippet(t, []Item{
		BEQ("end"),
		LDA(0x3e, cpu.IMM8),
		Label("end"),
		NOP(),
	}, "F002A93EEA")
	if s == nil {
		return
	}

	// The branch lands on the labeled item's offset.
	b := s.records[0].Item.(*BranchOp)
	if b.disp != 2 {
		t.Errorf("displacement incorrect. exp: %d, got: %d", 2, b.disp)
	}
	if idx := s.labels["end"]; idx != 2 {
		t.Errorf("label index incorrect. exp: %d, got: %d", 2, idx)
	}
}

func TestBackwardBranch(t *testing.T) {
	checkSnippet(t, []Item{
		Label("top"),
		NOP(),
		BNE("top"),
	}, "EAD0FD")
}

func TestBranchToSelf(t *testing.T) {
	checkSnippet(t, []Item{
		Label("spin"),
		BRA("spin"),
	}, "80FE")
}

func TestLongBranch(t *testing.T) {
	checkSnippet(t, []Item{
		BRL("end"),
		LDA(0x1234, cpu.IMM16),
		Label("end"),
		RTS(),
	}, "820300A9341260")
}

func TestExplicitDisplacement(t *testing.T) {
	// An explicit displacement needs no label but must still land on
	// an item boundary.
	checkSnippet(t, []Item{
		BEQ(2),
		LDA(0x3e, cpu.IMM8),
		NOP(),
	}, "F002A93EEA")

	checkSnippetError(t, []Item{
		BEQ(1),
		LDA(0x3e, cpu.IMM8),
		NOP(),
	}, ErrInvalidTarget)
}

func TestBranchPastEnd(t *testing.T) {
	// Branching just past the final item requires a trailing label to
	// mark the offset.
	checkSnippet(t, []Item{
		NOP(),
		BEQ("end"),
		Label("end"),
	}, "EAF000")

	checkSnippetError(t, []Item{
		NOP(),
		BEQ(0),
	}, ErrInvalidTarget)
}

func TestUnknownLabel(t *testing.T) {
	checkSnippetError(t, []Item{
		BEQ("nowhere"),
		NOP(),
	}, ErrUnknownLabel)
}

func TestUnresolvedBranch(t *testing.T) {
	checkSnippetError(t, []Item{
		BEQ(nil),
		NOP(),
	}, ErrUnresolved)
}

func TestDuplicateLabel(t *testing.T) {
	// The last definition of a label wins.
	checkSnippet(t, []Item{
		Label("a"),
		NOP(),
		Label("a"),
		NOP(),
		BNE("a"),
	}, "EAEAD0FD")
}

func TestDisplacementRange(t *testing.T) {
	checkSnippetError(t, []Item{BEQ(0x80), NOP()}, ErrInvalidTarget)
	checkSnippetError(t, []Item{BEQ(-0x81), NOP()}, ErrInvalidTarget)
	checkSnippetError(t, []Item{BRL(0x800), NOP()}, ErrInvalidTarget)
	checkSnippetError(t, []Item{BRL(-0x801), NOP()}, ErrInvalidTarget)

	// A conditional branch cannot span more than 127 bytes forward.
	items := []Item{BEQ("far")}
	for i := 0; i < 64; i++ {
		items = append(items, LDA(0, cpu.IMM8))
	}
	items = append(items, Label("far"), NOP())
	checkSnippetError(t, items, ErrInvalidTarget)
}

func TestOffsets(t *testing.T) {
	s, err := NewSnippet([]Item{
		JSL(0x123456),
		Label("mid"),
		STA(0x7e2000, cpu.LNG),
		MVN(0x7e, 0x7f),
		Label("end"),
	})
	if err != nil {
		t.Fatal(err)
	}

	expOffsets := []int{0, 4, 4, 8, 11}
	for i, r := range s.records {
		if r.Offset != expOffsets[i] {
			t.Errorf("offset %d incorrect. exp: %d, got: %d", i, expOffsets[i], r.Offset)
		}
	}
	if s.Len() != 11 {
		t.Errorf("Len incorrect. exp: %d, got: %d", 11, s.Len())
	}
}

func TestEncodings(t *testing.T) {
	cases := []struct {
		item Item
		exp  string
	}{
		{LDA(0x3e, cpu.IMM8), "A93E"},
		{LDA(0x1234, cpu.IMM16), "A93412"},
		{LDA(0x7f, cpu.DPG), "A57F"},
		{STA(0x123456, cpu.LNG), "8F563412"},
		{STA(0xc0ffee, cpu.LNX), "9FEEFFC0"},
		{JMP(0x8000, cpu.IAX), "7C0080"},
		{MVN(0x7e, 0x7f), "547F7E"},
		{MVP(0x00, 0x40), "444000"},
		{REP(0x30), "C230"},
		{SEP(0x10), "E210"},
		{PEA(0x1234), "F43412"},
		{PEI(0x40), "D440"},
		{ASL(0, cpu.IMP), "0A"},
		{INC(0x20, cpu.DPG), "E620"},
		{NOP(), "EA"},
		{XCE(), "FB"},
	}
	for _, c := range cases {
		checkSnippet(t, []Item{c.item}, c.exp)
	}
}

func TestConstructionErrors(t *testing.T) {
	checkSnippetError(t, []Item{LDA(0x100, cpu.IMM8)}, ErrInvalidArgument)
	checkSnippetError(t, []Item{LDA(-1, cpu.IMM8)}, ErrInvalidArgument)
	checkSnippetError(t, []Item{STA(0x1000000, cpu.LNG)}, ErrInvalidArgument)
	checkSnippetError(t, []Item{MVN(0x100, 0)}, ErrInvalidArgument)
	checkSnippetError(t, []Item{LDA(0, cpu.REL)}, ErrInvalidMode)
	checkSnippetError(t, []Item{STA(0, cpu.IMM8)}, ErrInvalidMode)
	checkSnippetError(t, []Item{NewOp("BEQ", 0, cpu.REL)}, ErrInvalidMode)
	checkSnippetError(t, []Item{NewBranch("LDA", nil)}, ErrInvalidMode)
	checkSnippetError(t, []Item{NewBranch("BEQ", 3.5)}, ErrInvalidArgument)
}

func TestEmptySnippet(t *testing.T) {
	s, err := NewSnippet(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Len incorrect. exp: %d, got: %d", 0, s.Len())
	}
	if len(s.Bytes()) != 0 {
		t.Errorf("Bytes not empty: %X", s.Bytes())
	}
}

func TestAssemble(t *testing.T) {
	code, err := Assemble([]Item{
		SEI(),
		CLC(),
		XCE(),
		REP(0x30),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprintf("%X", code); got != "7818FBC230" {
		t.Errorf("code incorrect. exp: %s, got: %s", "7818FBC230", got)
	}

	if _, err = Assemble([]Item{BEQ("nowhere")}); err == nil {
		t.Error("Expected error, didn't get one")
	}
}

func TestWriteTo(t *testing.T) {
	s, err := NewSnippet([]Item{LDA(0x3e, cpu.IMM8), RTS()})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("WriteTo count incorrect. exp: %d, got: %d", 3, n)
	}
	if got := fmt.Sprintf("%X", buf.Bytes()); got != "A93E60" {
		t.Errorf("code incorrect. exp: %s, got: %s", "A93E60", got)
	}
}

func TestListing(t *testing.T) {
	s, err := NewSnippet([]Item{
		BEQ("end"),
		LDA(0x3e, cpu.IMM8),
		Label("end"),
		NOP(),
	})
	if err != nil {
		t.Fatal(err)
	}

	listing := s.String()
	lines := strings.Split(strings.TrimRight(listing, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("listing line count incorrect. exp: %d, got: %d", 4, len(lines))
	}

	cases := []struct {
		line     int
		contains []string
	}{
		{0, []string{"[0000]", "F0 02", "BEQ $02", "(to: [0004])"}},
		{1, []string{"[0002]", "A9 3E", "LDA #$3E"}},
		{2, []string{"[0004]", "end:"}},
		{3, []string{"[0004]", "EA", "NOP"}},
	}
	for _, c := range cases {
		for _, sub := range c.contains {
			if !strings.Contains(lines[c.line], sub) {
				t.Errorf("line %d missing %q: %s", c.line, sub, lines[c.line])
			}
		}
	}
}

func TestItemStrings(t *testing.T) {
	cases := []struct {
		item Item
		exp  string
	}{
		{LDA(0x3e, cpu.IMM8), "LDA #$3E"},
		{STA(0x7e2000, cpu.LNG), "STA $7E2000"},
		{NOP(), "NOP"},
		{MVN(0x7e, 0x7f), "MVN #$7E,#$7F"},
		{BEQ("end"), "BEQ end"},
		{BEQ(-2), "BEQ $FE"},
		{BEQ(nil), "BEQ ???"},
	}
	for _, c := range cases {
		got := fmt.Sprint(c.item)
		if got != c.exp {
			t.Errorf("item string incorrect. exp: %q, got: %q", c.exp, got)
		}
	}
}
