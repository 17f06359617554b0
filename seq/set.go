// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seq

import (
	"fmt"

	"github.com/kortschak/swipe/residue"
)

// delimiter separates concatenated sequences in a SequenceSet's backing
// store; residue.Sentry never occurs in real encoded data so it is safe
// to use as a boundary marker for diagnostics without ambiguity.
const delimiter = residue.Sentry

// SequenceSet is a contiguous storage of many sequences concatenated
// with delimiters, plus an index giving the start offset of each —
// spec.md §3. Access by block-local id is O(1).
type SequenceSet struct {
	data    []residue.Letter
	offsets []int64 // len == n+1; offsets[i]:offsets[i+1]-1 is sequence i (last letter is the delimiter)
	ids     []string
}

// NewSequenceSet concatenates seqs into one SequenceSet.
func NewSequenceSet(seqs []Sequence) *SequenceSet {
	ss := &SequenceSet{offsets: make([]int64, 1, len(seqs)+1), ids: make([]string, 0, len(seqs))}
	var off int64
	for _, s := range seqs {
		ss.data = append(ss.data, s.Letter...)
		ss.data = append(ss.data, delimiter)
		off += int64(len(s.Letter)) + 1
		ss.offsets = append(ss.offsets, off)
		ss.ids = append(ss.ids, s.ID)
	}
	return ss
}

// NewPackedSequenceSet wraps an already delimiter-concatenated data
// slice (offsets and ids built alongside it by the caller) without
// copying, so a mmap-backed []residue.Letter can back a SequenceSet
// directly. data, offsets and ids must follow the same layout
// NewSequenceSet builds: offsets has len(ids)+1 entries and
// offsets[i+1]-1 is the delimiter ending sequence i.
func NewPackedSequenceSet(data []residue.Letter, offsets []int64, ids []string) *SequenceSet {
	return &SequenceSet{data: data, offsets: offsets, ids: ids}
}

// Len returns the number of sequences in the set.
func (ss *SequenceSet) Len() int { return len(ss.offsets) - 1 }

// Letters returns the total number of residue letters across all
// sequences (excluding delimiters), the `letters()` operation of the
// reference-database collaborator in spec.md §6.
func (ss *SequenceSet) Letters() int64 {
	var n int64
	for i := 0; i < ss.Len(); i++ {
		n += ss.seqLen(i)
	}
	return n
}

func (ss *SequenceSet) seqLen(i int) int64 {
	return ss.offsets[i+1] - ss.offsets[i] - 1
}

// At returns sequence i by block-local id in O(1).
func (ss *SequenceSet) At(i int) Sequence {
	if i < 0 || i >= ss.Len() {
		panic(fmt.Sprintf("seq: index %d out of range [0,%d)", i, ss.Len()))
	}
	start, end := ss.offsets[i], ss.offsets[i+1]-1
	return Sequence{ID: ss.ids[i], Letter: ss.data[start:end]}
}

// GlobalOffset returns the 48-bit-range global offset into the set's
// backing storage at which sequence id begins, matching the PackedLoc
// "global offset into the SequenceSet" encoding of spec.md §3.
func (ss *SequenceSet) GlobalOffset(id int) int64 { return ss.offsets[id] }

// LocalAt converts a global offset back to a (block-local id, position)
// pair, the inverse of GlobalOffset, using binary search over the
// monotonically increasing offsets index.
func (ss *SequenceSet) LocalAt(global int64) (id int, pos int64) {
	lo, hi := 0, ss.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		if ss.offsets[mid+1] <= global {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, global - ss.offsets[lo]
}
