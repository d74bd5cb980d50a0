// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rom

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoSpace is returned when an allocation cannot be satisfied.
var ErrNoSpace = errors.New("not enough free space")

// A WriteMark selects how a write affects free space accounting.
type WriteMark byte

const (
	MarkUsed WriteMark = iota // record the region as used
	MarkFree                  // record the region as free
	NoMark                    // leave the accounting unchanged
)

// A Block is a half-open range of file offsets.
type Block struct {
	Start int
	End   int
}

// Len returns the block's size in bytes.
func (b Block) Len() int {
	return b.End - b.Start
}

// A FreeSpace tracks which regions of an image are free and which are
// in use. The image is partitioned into maximal runs of bytes sharing
// a state. The markers slice holds the boundaries between runs: run i
// spans [markers[i], markers[i+1]). Runs alternate state, and
// firstFree gives the state of run 0.
type FreeSpace struct {
	markers   []int
	firstFree bool
}

// NewFreeSpace tracks an image of the requested size, with every byte
// starting in the given state.
func NewFreeSpace(size int, free bool) *FreeSpace {
	return &FreeSpace{
		markers:   []int{0, size},
		firstFree: free,
	}
}

// Size returns the size of the tracked image.
func (f *FreeSpace) Size() int {
	return f.markers[len(f.markers)-1]
}

// Index of the run containing addr. Addresses past the final marker
// belong to the final run.
func (f *FreeSpace) search(addr int) int {
	if addr >= f.markers[len(f.markers)-1] {
		return len(f.markers) - 2
	}
	lo, hi := 0, len(f.markers)-2
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case addr < f.markers[mid]:
			hi = mid - 1
		case addr >= f.markers[mid+1]:
			lo = mid + 1
		default:
			return mid
		}
	}
	return lo
}

func (f *FreeSpace) isFree(ind int) bool {
	return (ind%2 == 0) == f.firstFree
}

// MarkBlock sets the state of the half-open range [start, end).
// Ranges reaching outside the image are truncated. Marking splits a
// run of the opposite state and coalesces adjacent runs of like
// state.
func (f *FreeSpace) MarkBlock(start, end int, mark WriteMark) {
	if mark == NoMark {
		return
	}
	free := mark == MarkFree

	if end > f.markers[len(f.markers)-1] {
		end = f.markers[len(f.markers)-1]
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return
	}

	left := f.search(start)
	right := f.search(end)

	// Run states are decided by index parity, so they must be read
	// before any insertion shifts the indices.
	leftMatch := f.isFree(left) == free
	rightMatch := f.isFree(right) == free

	var s, e int

	switch {
	case leftMatch:
		// The range starts in a run of the marked state, so that
		// run's left edge begins the merged run.
		s = left
	case start == f.markers[left]:
		// The range begins exactly where a run of the opposite state
		// begins, extending the run before it.
		if left != 0 {
			s = left - 1
		} else {
			s = 0
			f.firstFree = free
		}
	default:
		// The range begins inside a run of the opposite state. Cut
		// the run.
		f.markers = slices.Insert(f.markers, left+1, start)
		s = left + 1
		right++
	}

	switch {
	case rightMatch:
		e = right + 1
	case end == f.markers[right+1]:
		if right+2 == len(f.markers) {
			e = right + 1
		} else {
			e = right + 2
		}
	default:
		f.markers = slices.Insert(f.markers, right+1, end)
		e = right + 1
	}

	// Remove the markers interior to the merged run.
	if e > s+1 {
		f.markers = slices.Delete(f.markers, s+1, e)
	}
}

// IsFree reports whether every byte of [start, end) is free. An empty
// range is vacuously free.
func (f *FreeSpace) IsFree(start, end int) bool {
	if end <= start {
		return true
	}
	left := f.search(start)
	return f.isFree(left) && f.search(end-1) == left
}

// ExtendEnd grows the tracked image to newEnd, with the added bytes
// in the given state.
func (f *FreeSpace) ExtendEnd(newEnd int, free bool) {
	if newEnd <= f.markers[len(f.markers)-1] {
		return
	}
	if f.isFree(len(f.markers)-2) == free {
		f.markers[len(f.markers)-1] = newEnd
	} else {
		f.markers = append(f.markers, newEnd)
	}
}

// FreeBlocks returns the free runs in ascending order.
func (f *FreeSpace) FreeBlocks() []Block {
	return f.blocks(true)
}

// UsedBlocks returns the used runs in ascending order.
func (f *FreeSpace) UsedBlocks() []Block {
	return f.blocks(false)
}

func (f *FreeSpace) blocks(free bool) []Block {
	start := 0
	if f.firstFree != free {
		start = 1
	}
	var blocks []Block
	for x := start; x+1 < len(f.markers); x += 2 {
		blocks = append(blocks, Block{f.markers[x], f.markers[x+1]})
	}
	return blocks
}

// TotalFree returns the number of free bytes.
func (f *FreeSpace) TotalFree() int {
	var n int
	for _, b := range f.FreeBlocks() {
		n += b.Len()
	}
	return n
}

// Alloc returns the first-fit address of a free run of at least size
// bytes located at or after hint. An allocation never crosses a 64KB
// bank boundary: when a free run straddles a bank, the allocation
// comes from the run's head before the boundary or from the bank
// start after it.
func (f *FreeSpace) Alloc(size, hint int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: size %d", ErrNoSpace, size)
	}

	ind := f.search(hint)
	if !f.isFree(ind) {
		ind++
	}

	for x := ind; x+1 < len(f.markers); x += 2 {
		st := max(f.markers[x], hint)
		end := f.markers[x+1]

		nextBank := (st & 0xff0000) + 0x010000
		head := min(end, nextBank)
		if head-st >= size {
			return st, nil
		}
		// When the run continues past the bank boundary, try the
		// start of the next bank.
		if end-head >= size {
			return head, nil
		}
	}

	return 0, fmt.Errorf("%w: size $%X, hint $%06X", ErrNoSpace, size, hint)
}

// AllocSameBank returns addresses for several blocks that must all
// share one 64KB bank, placing the largest first. The returned
// addresses follow the order of the sizes argument, and the free
// space map is left unchanged. The caller marks the blocks when it
// commits to them.
func (f *FreeSpace) AllocSameBank(sizes []int, hint int) ([]int, error) {
	if len(sizes) == 0 {
		return nil, nil
	}

	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return sizes[b] - sizes[a]
	})

	unmark := func(tries []int, n int) {
		for j := 0; j < n; j++ {
			f.MarkBlock(tries[j], tries[j]+sizes[order[j]], MarkFree)
		}
	}

	tries := make([]int, len(sizes))
	start := hint

retry:
	for {
		addr, err := f.Alloc(sizes[order[0]], start)
		if err != nil {
			return nil, err
		}
		tries[0] = addr
		f.MarkBlock(addr, addr+sizes[order[0]], MarkUsed)

		bank := addr &^ 0xffff
		for i := 1; i < len(order); i++ {
			addr, err = f.Alloc(sizes[order[i]], bank)
			if err != nil {
				unmark(tries, i)
				return nil, err
			}
			tries[i] = addr

			// A block that lands outside the first block's bank
			// restarts the whole placement in the later bank.
			if addr&^0xffff != bank {
				unmark(tries, i)
				start = addr &^ 0xffff
				continue retry
			}
			f.MarkBlock(addr, addr+sizes[order[i]], MarkUsed)
		}

		unmark(tries, len(order))

		addrs := make([]int, len(sizes))
		for i, oi := range order {
			addrs[oi] = tries[i]
		}
		return addrs, nil
	}
}
