// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dp

import "github.com/kortschak/swipe/residue"

// CellStats is the per-cell statistic spec.md §4.E's two-pass traceback
// asks for: ForwardCell walks the recovered path from its start and
// BackwardCell walks it from its end, so a caller can report, for any
// position along the alignment, how much score has accumulated in each
// direction.
type CellStats struct {
	Forward, Backward []int32
}

// Stats computes ForwardCell/BackwardCell running sums for an HSP whose
// Transcript was recovered by a TraceFull or TraceVector run.
func Stats(m *residue.Matrix, query, target []residue.Letter, hsp HSP) CellStats {
	n := len(hsp.Transcript)
	stats := CellStats{
		Forward:  make([]int32, n+1),
		Backward: make([]int32, n+1),
	}
	qi, ti := hsp.QueryRange.Begin, hsp.SubjRange.Begin
	var acc int32
	for i, op := range hsp.Transcript {
		switch op {
		case OpMatch, OpMismatch:
			acc += m.Score(query[qi], target[ti])
			qi++
			ti++
		case OpDeletion:
			acc -= gapCost(m, i, hsp.Transcript)
			qi++
		case OpInsertion:
			acc -= gapCost(m, i, hsp.Transcript)
			ti++
		}
		stats.Forward[i+1] = acc
	}

	qi, ti = hsp.QueryRange.End, hsp.SubjRange.End
	acc = 0
	for i := n - 1; i >= 0; i-- {
		op := hsp.Transcript[i]
		switch op {
		case OpMatch, OpMismatch:
			qi--
			ti--
			acc += m.Score(query[qi], target[ti])
		case OpDeletion:
			qi--
			acc -= gapCost(m, i, hsp.Transcript)
		case OpInsertion:
			ti--
			acc -= gapCost(m, i, hsp.Transcript)
		}
		stats.Backward[i] = acc
	}
	return stats
}

// gapCost reports the affine cost of extending at transcript position i:
// GapOpen if the previous operation was not the same kind of gap,
// GapExtend otherwise.
func gapCost(m *residue.Matrix, i int, ops []EditOp) int32 {
	if i > 0 && ops[i-1] == ops[i] {
		return m.GapExtend
	}
	return m.GapOpen
}
