// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rom manipulates HiROM SNES images: file loading and saving,
// bus address translation, free space tracking, IPS patching and
// header checksums.
package rom

import (
	"errors"
	"fmt"
	"os"
)

// ErrPtrRange is returned when an address falls outside the ROM's bus
// mapping.
var ErrPtrRange = errors.New("pointer out of rom range")

// Addresses of SNES hardware registers commonly referenced by
// assembled code sequences.
const (
	WRMPYA = 0x4202 // multiplicand A
	WRMPYB = 0x4203 // multiplier B, write starts the multiply
	RDMPYL = 0x4216 // multiply result, low byte
	RDMPYH = 0x4217 // multiply result, high byte
)

// Offsets within the HiROM internal header.
const (
	HeaderAddr             = 0xffc0 // cartridge title, start of the header
	ChecksumComplementAddr = 0xffdc
	ChecksumAddr           = 0xffde
)

// Size of an image file carrying a 512-byte copier header ahead of a
// 4MB ROM.
const headeredSize = 0x400000 + 0x200

// A ROM is an SNES image combined with its free space accounting.
// Plain loads and stores leave the accounting untouched; Write,
// WriteFree and ApplyIPS keep it current.
type ROM struct {
	data  []byte
	space *FreeSpace
}

// New creates a ROM from an image, taking ownership of the slice.
// When free is true, the whole image starts out free.
func New(data []byte, free bool) *ROM {
	return &ROM{
		data:  data,
		space: NewFreeSpace(len(data), free),
	}
}

// LoadFile reads a ROM image from a file, stripping the 512-byte
// copier header when present. The image starts out fully used.
func LoadFile(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == headeredSize {
		data = data[0x200:]
	}
	return New(data, false), nil
}

// SaveFile writes the ROM image to a file.
func (r *ROM) SaveFile(path string) error {
	return os.WriteFile(path, r.data, 0644)
}

// Size returns the image size in bytes.
func (r *ROM) Size() int {
	return len(r.data)
}

// Bytes returns the underlying image.
func (r *ROM) Bytes() []byte {
	return r.data
}

// Space returns the ROM's free space map.
func (r *ROM) Space() *FreeSpace {
	return r.space
}

// LoadByte returns the value of the byte at the file offset addr.
func (r *ROM) LoadByte(addr int) byte {
	return r.data[addr]
}

// LoadBytes loads a block of bytes starting at the file offset addr.
// A block reaching past the end of the image is truncated.
func (r *ROM) LoadBytes(addr int, b []byte) {
	copy(b, r.data[addr:])
}

// LoadAddress returns the 16-bit little-endian value stored at the
// file offset addr.
func (r *ROM) LoadAddress(addr int) int {
	return int(r.data[addr]) | int(r.data[addr+1])<<8
}

// LoadLong returns the 24-bit little-endian value stored at the file
// offset addr, the form far pointers take in bank tables.
func (r *ROM) LoadLong(addr int) int {
	return int(r.data[addr]) | int(r.data[addr+1])<<8 | int(r.data[addr+2])<<16
}

// StoreByte stores a byte at the file offset addr. Free space
// accounting is unchanged.
func (r *ROM) StoreByte(addr int, v byte) {
	r.data[addr] = v
}

// StoreBytes stores a block of bytes starting at the file offset
// addr. Free space accounting is unchanged.
func (r *ROM) StoreBytes(addr int, b []byte) {
	copy(r.data[addr:], b)
}

// StoreAddress stores v at the file offset addr as a 16-bit
// little-endian value.
func (r *ROM) StoreAddress(addr int, v int) {
	r.data[addr] = byte(v)
	r.data[addr+1] = byte(v >> 8)
}

// StoreLong stores v at the file offset addr as a 24-bit
// little-endian value.
func (r *ROM) StoreLong(addr int, v int) {
	r.data[addr] = byte(v)
	r.data[addr+1] = byte(v >> 8)
	r.data[addr+2] = byte(v >> 16)
}

// Mark records the state of [start, end) in the free space map
// without storing any data.
func (r *ROM) Mark(start, end int, mark WriteMark) {
	r.space.MarkBlock(start, end, mark)
}

// Write stores bytes at the file offset addr and records the
// region's state in the free space map. A write reaching past the end
// of the image grows it, zero-filling any gap; growth requires a
// marking mode.
func (r *ROM) Write(addr int, b []byte, mark WriteMark) error {
	if addr < 0 {
		return fmt.Errorf("write at negative offset %d", addr)
	}
	end := addr + len(b)
	if end > len(r.data) {
		if mark == NoMark {
			return errors.New("write past end of image with no mark")
		}
		r.data = append(r.data, make([]byte, end-len(r.data))...)
		r.space.ExtendEnd(end, mark == MarkFree)
	}
	r.space.MarkBlock(addr, end, mark)
	copy(r.data[addr:], b)
	return nil
}

// WriteFree stores bytes into free space at or after hint and marks
// the region used. When no space remains after the hint, placement
// retries from the start of the image. Returns the file offset
// chosen.
func (r *ROM) WriteFree(b []byte, hint int) (int, error) {
	addr, err := r.space.Alloc(len(b), hint)
	if err != nil && hint != 0 {
		addr, err = r.space.Alloc(len(b), 0)
	}
	if err != nil {
		return 0, err
	}
	if err = r.Write(addr, b, MarkUsed); err != nil {
		return 0, err
	}
	return addr, nil
}

// FilePtr converts a 65816 bus address into a file offset. HiROM maps
// the [0xC00000, 0xFFFFFF] bus range onto the first 4MB of the file;
// the extended [0x400000, 0x5FFFFF] range maps onto itself.
func FilePtr(ptr int) (int, error) {
	switch {
	case ptr >= 0xc00000 && ptr <= 0xffffff:
		return ptr - 0xc00000, nil
	case ptr >= 0x400000 && ptr <= 0x5fffff:
		return ptr, nil
	default:
		return 0, fmt.Errorf("%w: $%06X", ErrPtrRange, ptr)
	}
}

// RomPtr converts a file offset into the 65816 bus address where the
// byte appears. It is the inverse of FilePtr.
func RomPtr(ptr int) (int, error) {
	switch {
	case ptr >= 0 && ptr <= 0x3fffff:
		return ptr + 0xc00000, nil
	case ptr >= 0x400000 && ptr <= 0x5fffff:
		return ptr, nil
	default:
		return 0, fmt.Errorf("%w: $%06X", ErrPtrRange, ptr)
	}
}

// Checksum computes the 16-bit header checksum of the image: the sum
// of all image bytes, with the checksum and complement fields counted
// as $0000 and $FFFF. An image whose size is not a power of two has
// its tail repeated up to the next power of two.
func (r *ROM) Checksum() uint16 {
	p := 1
	for p*2 <= len(r.data) {
		p *= 2
	}

	total := byteSum(r.data[:p])
	if tail := len(r.data) - p; tail > 0 {
		total += byteSum(r.data[p:]) * (p / tail)
	}

	if len(r.data) >= ChecksumAddr+2 {
		stored := int(r.data[ChecksumComplementAddr]) +
			int(r.data[ChecksumComplementAddr+1]) +
			int(r.data[ChecksumAddr]) +
			int(r.data[ChecksumAddr+1])
		total += 2*0xff - stored
	}

	return uint16(total)
}

// ChecksumOK reports whether the stored header checksum and
// complement match the image contents.
func (r *ROM) ChecksumOK() bool {
	if len(r.data) < ChecksumAddr+2 {
		return false
	}
	sum := r.Checksum()
	return r.LoadAddress(ChecksumAddr) == int(sum) &&
		r.LoadAddress(ChecksumComplementAddr) == int(sum^0xffff)
}

// FixChecksum recomputes the header checksum and stores the checksum
// and complement fields.
func (r *ROM) FixChecksum() error {
	if len(r.data) < ChecksumAddr+2 {
		return errors.New("image too small for a header checksum")
	}
	sum := r.Checksum()
	r.StoreAddress(ChecksumComplementAddr, int(sum^0xffff))
	r.StoreAddress(ChecksumAddr, int(sum))
	return nil
}

func byteSum(b []byte) (n int) {
	for _, v := range b {
		n += int(v)
	}
	return n
}
