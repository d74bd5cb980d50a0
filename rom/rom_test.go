// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rom

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func expectInt(t *testing.T, name string, got, exp int) {
	t.Helper()
	if got != exp {
		t.Errorf("%s incorrect. exp: $%X, got: $%X", name, exp, got)
	}
}

func TestLoadStore(t *testing.T) {
	r := New(make([]byte, 0x100), false)

	r.StoreByte(0x10, 0x42)
	expectInt(t, "LoadByte", int(r.LoadByte(0x10)), 0x42)

	r.StoreAddress(0x20, 0xbeef)
	expectInt(t, "LoadAddress", r.LoadAddress(0x20), 0xbeef)
	expectInt(t, "lo byte", int(r.LoadByte(0x20)), 0xef)
	expectInt(t, "hi byte", int(r.LoadByte(0x21)), 0xbe)

	r.StoreLong(0x30, 0x123456)
	expectInt(t, "LoadLong", r.LoadLong(0x30), 0x123456)
	expectInt(t, "bank byte", int(r.LoadByte(0x32)), 0x12)

	r.StoreBytes(0x40, []byte{1, 2, 3})
	b := make([]byte, 3)
	r.LoadBytes(0x40, b)
	if !bytes.Equal(b, []byte{1, 2, 3}) {
		t.Errorf("LoadBytes incorrect. exp: [1 2 3], got: %v", b)
	}
}

func TestWrite(t *testing.T) {
	r := New(make([]byte, 0x100), false)
	r.Mark(0x40, 0x80, MarkFree)

	if err := r.Write(0x10, []byte{1, 2, 3}, MarkUsed); err != nil {
		t.Fatal(err)
	}
	expectInt(t, "byte", int(r.LoadByte(0x11)), 2)

	// Writing into free space claims it.
	if err := r.Write(0x40, []byte{9}, MarkUsed); err != nil {
		t.Fatal(err)
	}
	expectBlocks(t, "free", r.Space().FreeBlocks(), []Block{{0x41, 0x80}})

	// Writes past the end grow the image, zero-filling the gap.
	if err := r.Write(0x110, []byte{5}, MarkUsed); err != nil {
		t.Fatal(err)
	}
	expectInt(t, "Size", r.Size(), 0x111)
	expectInt(t, "grown byte", int(r.LoadByte(0x110)), 5)
	expectInt(t, "gap byte", int(r.LoadByte(0x105)), 0)

	// Growth needs a marking mode.
	if err := r.Write(0x200, []byte{5}, NoMark); err == nil {
		t.Errorf("expected error growing image with NoMark")
	}
	if err := r.Write(-1, []byte{5}, MarkUsed); err == nil {
		t.Errorf("expected error writing at negative offset")
	}
}

func TestWriteFree(t *testing.T) {
	r := New(make([]byte, 0x100), false)
	r.Mark(0x40, 0x80, MarkFree)

	addr, err := r.WriteFree([]byte{9, 9, 9, 9}, 0)
	if err != nil {
		t.Fatal(err)
	}
	expectInt(t, "addr", addr, 0x40)
	expectInt(t, "byte", int(r.LoadByte(0x43)), 9)
	expectBlocks(t, "free", r.Space().FreeBlocks(), []Block{{0x44, 0x80}})

	// When nothing fits after the hint, placement retries from the
	// start of the image.
	addr, err = r.WriteFree(make([]byte, 0x20), 0x70)
	if err != nil {
		t.Fatal(err)
	}
	expectInt(t, "addr", addr, 0x44)

	if _, err = r.WriteFree(make([]byte, 0x40), 0); !errors.Is(err, ErrNoSpace) {
		t.Errorf("expected ErrNoSpace, got: %v", err)
	}
}

func TestPtrs(t *testing.T) {
	cases := []struct {
		file, bus int
	}{
		{0x000000, 0xc00000},
		{0x001234, 0xc01234},
		{0x3fffff, 0xffffff},
		{0x400000, 0x400000},
		{0x5fffff, 0x5fffff},
	}
	for _, c := range cases {
		bus, err := RomPtr(c.file)
		if err != nil {
			t.Errorf("RomPtr($%06X) failed: %v", c.file, err)
			continue
		}
		expectInt(t, "RomPtr", bus, c.bus)

		file, err := FilePtr(bus)
		if err != nil {
			t.Errorf("FilePtr($%06X) failed: %v", bus, err)
			continue
		}
		expectInt(t, "FilePtr", file, c.file)
	}

	for _, ptr := range []int{-1, 0x600000, 0x1000000} {
		if _, err := RomPtr(ptr); !errors.Is(err, ErrPtrRange) {
			t.Errorf("RomPtr($%06X): expected ErrPtrRange, got: %v", ptr, err)
		}
	}
	for _, ptr := range []int{0x3fffff, 0x600000, 0xbfffff} {
		if _, err := FilePtr(ptr); !errors.Is(err, ErrPtrRange) {
			t.Errorf("FilePtr($%06X): expected ErrPtrRange, got: %v", ptr, err)
		}
	}
}

func TestChecksum(t *testing.T) {
	r := New(make([]byte, 0x10000), false)

	// The checksum and complement fields count as $0000 and $FFFF no
	// matter what they hold, so an otherwise zeroed image sums to
	// $01FE.
	expectInt(t, "Checksum", int(r.Checksum()), 0x01fe)
	if r.ChecksumOK() {
		t.Errorf("ChecksumOK on unfixed image")
	}

	if err := r.FixChecksum(); err != nil {
		t.Fatal(err)
	}
	expectInt(t, "stored checksum", r.LoadAddress(ChecksumAddr), 0x01fe)
	expectInt(t, "stored complement", r.LoadAddress(ChecksumComplementAddr), 0xfe01)
	if !r.ChecksumOK() {
		t.Errorf("ChecksumOK false after fix")
	}
	expectInt(t, "Checksum after fix", int(r.Checksum()), 0x01fe)

	r.StoreByte(0x1000, 0xff)
	if r.ChecksumOK() {
		t.Errorf("ChecksumOK after modification")
	}
	if err := r.FixChecksum(); err != nil {
		t.Fatal(err)
	}
	expectInt(t, "Checksum", int(r.Checksum()), 0x02fd)
	if !r.ChecksumOK() {
		t.Errorf("ChecksumOK false after refix")
	}
}

func TestChecksumTail(t *testing.T) {
	// A 1.5MB-style image: the 0x8000-byte tail beyond the largest
	// power of two is counted twice.
	r := New(make([]byte, 0x18000), false)
	expectInt(t, "Checksum", int(r.Checksum()), 0x01fe)

	r.StoreByte(0x10000, 1)
	expectInt(t, "tail byte Checksum", int(r.Checksum()), 0x0200)

	r.StoreByte(0x10000, 0)
	r.StoreByte(0x0800, 1)
	expectInt(t, "head byte Checksum", int(r.Checksum()), 0x01ff)
}

func ipsRecord(addr, size int, data []byte) []byte {
	rec := []byte{byte(addr >> 16), byte(addr >> 8), byte(addr), byte(size >> 8), byte(size)}
	return append(rec, data...)
}

func TestApplyIPS(t *testing.T) {
	r := New(make([]byte, 0x40), false)

	var p []byte
	p = append(p, "PATCH"...)
	p = append(p, ipsRecord(0x10, 3, []byte("abc"))...)
	// A long zeroing run releases the region as free space.
	p = append(p, ipsRecord(0x20, 0, []byte{0x00, 0x20, 0x00})...)
	// A short run stores data like any other record.
	p = append(p, ipsRecord(0x08, 0, []byte{0x00, 0x04, 0xaa})...)
	// A run past the end of the image grows it.
	p = append(p, ipsRecord(0x40, 0, []byte{0x00, 0x40, 0x00})...)
	p = append(p, "EOF"...)

	if err := r.ApplyIPS(bytes.NewReader(p)); err != nil {
		t.Fatal(err)
	}

	expectInt(t, "Size", r.Size(), 0x80)
	b := make([]byte, 3)
	r.LoadBytes(0x10, b)
	if string(b) != "abc" {
		t.Errorf("patched bytes incorrect. exp: %q, got: %q", "abc", b)
	}
	expectInt(t, "rle byte", int(r.LoadByte(0x08)), 0xaa)
	expectInt(t, "zeroed byte", int(r.LoadByte(0x30)), 0)
	expectBlocks(t, "free", r.Space().FreeBlocks(), []Block{{0x20, 0x80}})
	expectBlocks(t, "used", r.Space().UsedBlocks(), []Block{{0x00, 0x20}})
}

func TestApplyIPSErrors(t *testing.T) {
	cases := []struct {
		name  string
		patch []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("HCTAPxxxxx")},
		{"no eof", append([]byte("PATCH"), ipsRecord(0x10, 3, []byte("abc"))...)},
		{"truncated record", append([]byte("PATCH"), 0x00, 0x00, 0x10, 0x00)},
		{"truncated payload", append([]byte("PATCH"), ipsRecord(0x10, 8, []byte("abc"))...)},
		{"truncated rle", append([]byte("PATCH"), 0x00, 0x00, 0x10, 0x00, 0x00, 0x00)},
	}
	for _, c := range cases {
		r := New(make([]byte, 0x40), false)
		if err := r.ApplyIPS(bytes.NewReader(c.patch)); !errors.Is(err, ErrPatch) {
			t.Errorf("%s: expected ErrPatch, got: %v", c.name, err)
		}
	}
}

func TestLoadSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.sfc")

	data := []byte{0x10, 0x20, 0x30, 0x40}
	if err := New(data, false).SaveFile(path); err != nil {
		t.Fatal(err)
	}
	r, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expectInt(t, "Size", r.Size(), 4)
	if !bytes.Equal(r.Bytes(), data) {
		t.Errorf("image bytes incorrect. exp: %v, got: %v", data, r.Bytes())
	}
}

func TestLoadFileHeadered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "headered.smc")

	// A 512-byte copier header before a full 4MB image is stripped on
	// load.
	data := make([]byte, headeredSize)
	data[0x200] = 0x42
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expectInt(t, "Size", r.Size(), 0x400000)
	expectInt(t, "first byte", int(r.LoadByte(0)), 0x42)
}
