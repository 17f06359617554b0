// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seq

// OId is an original (database-wide) sequence identifier, as distinct
// from a block-local id; spec.md §3 and §6 both key off it.
type OId int64

// Block pairs a SequenceSet with the per-block metadata spec.md §3
// requires: original ids, an optional unmasked copy, an optional
// per-position composition-bias vector and an optional self-alignment
// score, per sequence.
type Block struct {
	Set *SequenceSet

	// OIds maps block-local id to the original database id.
	OIds []OId

	// Unmasked is present only when the block's Set has been
	// soft-masked for seeding; it holds the original letters so that
	// stage-1/stage-2 extension can see through the mask.
	Unmasked *SequenceSet

	// CBS holds the composition-bias vector, one entry per sequence,
	// or is nil if composition-biased scoring is disabled.
	CBS [][]int32

	// SelfScore is the self-alignment raw score of each sequence; nil
	// if not computed. The stage-1 length-ratio test uses sequence
	// lengths, not SelfScore.
	SelfScore []int32

	// Query marks this as a query block (as opposed to a target
	// block); a block is exclusively one or the other per spec.md §3.
	Query bool
}

// NewBlock builds a Block from already-loaded sequences and their
// original ids. CBS and SelfScore are left nil; callers set those
// fields directly as needed so their cost is paid only when a caller
// actually wants composition-biased scoring.
func NewBlock(seqs []Sequence, oids []OId, query bool) *Block {
	return &Block{Set: NewSequenceSet(seqs), OIds: oids, Query: query}
}

// Len returns the number of sequences in the block.
func (b *Block) Len() int { return b.Set.Len() }
