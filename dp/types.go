// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dp

import "github.com/kortschak/swipe/residue"

// DpTarget is the input to the DP engine, per spec.md §3: a target
// sequence, the diagonal band to compute, a target index, an optional
// per-target composition-adjusted score row bias, and an optional
// anchor.
type DpTarget struct {
	Letters  []residue.Letter
	TargetID int32
	DBegin   int32 // band start (inclusive), diagonal j-i
	DEnd     int32 // band end (exclusive)

	// Bias, if non-nil, is a per-query-position additive offset applied
	// on top of the matrix score (composition-adjusted matrix
	// selection, spec.md §4.E).
	Bias []int32

	// Anchor, if non-nil, marks this as an anchored-extension target
	// for the anchor package rather than a from-scratch banded search.
	Anchor *Anchor
}

// Anchor is a seed-extension anchor, spec.md §3.
type Anchor struct {
	QueryBegin, QueryEnd     int32
	SubjectBegin, SubjectEnd int32
	Score                    int32
	DMinLeft, DMaxLeft       int32
	DMinRight, DMaxRight     int32
	PrefixScore              int32
}

// EditOp is one operation of an HSP's edit transcript.
type EditOp byte

const (
	OpMatch EditOp = iota
	OpMismatch
	OpInsertion // gap in query (consumes target only)
	OpDeletion  // gap in target (consumes query only)
)

// Range is an inclusive-exclusive coordinate range, [Begin, End).
type Range struct {
	Begin, End int32
}

// Len returns End-Begin.
func (r Range) Len() int32 { return r.End - r.Begin }

// HSP is a high-scoring pair: a traced or score-only local alignment,
// per spec.md §3.
type HSP struct {
	QueryID    int32
	TargetID   int32
	QueryRange Range
	SubjRange  Range

	Score   int32
	Bits    float64
	EValue  float64

	// Transcript is nil unless traceback was requested.
	Transcript []EditOp

	Identities, Length, Mismatches, Gaps int32
}

// Valid checks the invariants spec.md §3 and §8 require of every HSP.
func (h HSP) Valid(qlen, tlen int32) bool {
	if !(0 <= h.QueryRange.Begin && h.QueryRange.Begin < h.QueryRange.End && h.QueryRange.End <= qlen) {
		return false
	}
	if !(0 <= h.SubjRange.Begin && h.SubjRange.Begin < h.SubjRange.End && h.SubjRange.End <= tlen) {
		return false
	}
	if h.Transcript != nil {
		if h.Identities > h.Length {
			return false
		}
		if h.Mismatches+h.Gaps+h.Identities != h.Length {
			return false
		}
	}
	return true
}
