// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrPatch is returned when an IPS patch cannot be parsed.
var ErrPatch = errors.New("malformed ips patch")

// ApplyIPS applies an IPS patch to the ROM, updating the free space
// map as it goes. Patched regions are marked used, except run-length
// records of 16 or more zero bytes: those pad the file out rather
// than store data, so they are marked free. Writes past the end of
// the image grow it.
func (r *ROM) ApplyIPS(rd io.Reader) error {
	p, err := io.ReadAll(rd)
	if err != nil {
		return err
	}
	if len(p) < 8 || string(p[:5]) != "PATCH" {
		return fmt.Errorf("%w: missing PATCH header", ErrPatch)
	}

	pos := 5
	for {
		if pos+3 > len(p) {
			return fmt.Errorf("%w: missing EOF record", ErrPatch)
		}
		if string(p[pos:pos+3]) == "EOF" {
			return nil
		}

		// Each record holds a 3-byte big-endian offset and a 2-byte
		// big-endian payload size. A zero size introduces a
		// run-length record instead: a 2-byte run length and the byte
		// to repeat.
		addr := int(p[pos])<<16 | int(p[pos+1])<<8 | int(p[pos+2])
		pos += 3
		if pos+2 > len(p) {
			return fmt.Errorf("%w: truncated record", ErrPatch)
		}
		size := int(p[pos])<<8 | int(p[pos+1])
		pos += 2

		mark := MarkUsed
		var payload []byte
		if size == 0 {
			if pos+3 > len(p) {
				return fmt.Errorf("%w: truncated rle record", ErrPatch)
			}
			runLen := int(p[pos])<<8 | int(p[pos+1])
			v := p[pos+2]
			pos += 3

			if v == 0 && runLen >= 0x10 {
				mark = MarkFree
			}
			payload = bytes.Repeat([]byte{v}, runLen)
		} else {
			if pos+size > len(p) {
				return fmt.Errorf("%w: truncated record", ErrPatch)
			}
			payload = p[pos : pos+size]
			pos += size
		}

		if err := r.Write(addr, payload, mark); err != nil {
			return err
		}
	}
}
