// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seed implements spec.md §4.B: spaced-seed shapes, the
// per-block seed index (SeedArray/SeedHistogram) and minimizer
// windowing.
package seed

import "github.com/kortschak/swipe/residue"

// bitsPerLetter is log2(residue.Size); Size is a power of two so every
// letter packs into exactly this many bits of a seed value.
const bitsPerLetter = 5

// Seed is the integer encoding of a spaced k-mer at a sequence position.
type Seed uint64

// Empty is the sentinel/masked seed value, per spec.md §3.
const Empty Seed = ^Seed(0)

// Shape defines the match positions (relative to a window start) that
// participate in a seed; positions not listed are "don't care" and are
// skipped. Multiple shapes may be active at once (the caller runs
// enumeration once per shape).
type Shape struct {
	// Positions are 0-based offsets from the window start, strictly
	// increasing; the first is always 0.
	Positions []int
}

// Span is one past the last match position: the width of sequence a
// seed at this shape consumes.
func (s Shape) Span() int {
	if len(s.Positions) == 0 {
		return 0
	}
	return s.Positions[len(s.Positions)-1] + 1
}

// Weight is the number of match positions (the seed's informational
// content, as opposed to its span).
func (s Shape) Weight() int { return len(s.Positions) }

// ContiguousShape returns the trivial (ungapped) shape of the given
// weight, matching a plain k-mer.
func ContiguousShape(weight int) Shape {
	pos := make([]int, weight)
	for i := range pos {
		pos[i] = i
	}
	return Shape{Positions: pos}
}

// Default16 and Default12 are representative spaced-seed shapes at two
// sensitivity levels, loosely modelled on the "11110111101011110111"-
// style masks used by SWIPE/DIAMOND-family tools; the exact bit pattern
// is not prescribed by spec.md, only that "a Shape defines positions...;
// multiple shapes may be active".
var (
	Default16 = Shape{Positions: []int{0, 1, 2, 3, 5, 6, 8, 9, 10, 11, 13, 14, 16}}
	Default12 = ContiguousShape(12)
)

// Encode computes the seed value for the window of letters starting at
// position pos in seq, using only the shape's match positions. It
// returns ok=false (and Empty) if the window runs past the end of seq,
// if any matched letter is masked, unknown or ambiguous, or if, with
// complexityCut > 0, more than complexityCut of the matched positions
// hold the same letter (the "seed-complexity cutoff" of spec.md §4.B).
func (s Shape) Encode(sequence []residue.Letter, pos, complexityCut int) (Seed, bool) {
	span := s.Span()
	if pos < 0 || pos+span > len(sequence) {
		return Empty, false
	}
	var v Seed
	counts := [residue.Size]int{}
	for _, p := range s.Positions {
		l := sequence[pos+p]
		if l == residue.Mask || l == residue.Unk || l.IsAmbiguous() {
			return Empty, false
		}
		counts[l]++
		if complexityCut > 0 && counts[l] > complexityCut {
			return Empty, false
		}
		v = v<<bitsPerLetter | Seed(l)
	}
	return v, true
}
