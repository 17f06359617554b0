// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seq implements the data model of spec.md §3: Sequence,
// SequenceSet and Block, plus adapters from biogo's sequence types (the
// module's FASTA/FASTQ collaborator, per spec.md §6, is built on
// github.com/biogo/biogo).
package seq

import (
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kortschak/swipe/residue"
)

// Loc is a sequence-local coordinate. spec.md §3 requires it to fit in a
// signed 32-bit integer.
type Loc = int32

// Sequence is an ordered run of residue.Letter with a length that fits
// in a Loc. The letter array is immutable once constructed; callers that
// need a mutable copy (for masking) must copy it explicitly.
type Sequence struct {
	ID     string
	Desc   string
	Letter []residue.Letter
}

// Len returns the sequence length.
func (s Sequence) Len() Loc { return Loc(len(s.Letter)) }

// At returns the letter at position i; it panics on an out-of-range i,
// matching the teacher's preference for panics over silent
// out-of-bounds behaviour in internal invariants.
func (s Sequence) At(i Loc) residue.Letter { return s.Letter[i] }

// FromBiogo converts a *linear.Seq (as produced by
// github.com/biogo/biogo/io/seqio/fasta) into a Sequence over the
// residue alphabet. Ambiguity and case are handled by residue.Encode.
func FromBiogo(s *linear.Seq) Sequence {
	out := Sequence{ID: s.ID, Desc: s.Desc, Letter: make([]residue.Letter, len(s.Seq))}
	for i, l := range s.Seq {
		out.Letter[i] = residue.Encode(byte(l))
	}
	return out
}

// ToBiogo converts back to a *linear.Seq over alphabet.DNAredundant,
// used when a caller needs to hand a Sequence to biogo-based I/O (for
// example writing a masked FASTA copy the way ins/cmd/ins/blast.go's
// mask function does).
func ToBiogo(s Sequence) *linear.Seq {
	letters := make(alphabet.Letters, len(s.Letter))
	for i, l := range s.Letter {
		letters[i] = alphabet.Letter(l.Byte())
	}
	out := linear.NewSeq(s.ID, letters, alphabet.DNAredundant)
	out.Desc = s.Desc
	return out
}
