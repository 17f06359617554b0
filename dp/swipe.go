// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dp

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kortschak/swipe/residue"
)

// Config parametrises one Run call, spec.md §4.E/§6.
type Config struct {
	Mode  Mode
	Bin   Bin
	XDrop int32 // stop extending once best minus the row's best exceeds XDrop
}

// Run computes one banded local alignment of query against target.Letters
// within the band [target.DBegin, target.DEnd), per spec.md §4.E's affine
// gap recurrence:
//
//	H[i][j] = max(0, H[i-1][j-1]+s(q_i,t_j), E[i][j], F[i][j])
//	E[i][j] = max(H[i][j-1]-gapOpen, E[i][j-1]-gapExtend)
//	F[i][j] = max(H[i-1][j]-gapOpen, F[i-1][j]-gapExtend)
//
// It reports the best HSP found and whether any cell saturated the
// active Bin's width, in which case the caller should re-dispatch the
// same target at the next-wider Bin (spec.md §7: saturation is a
// re-dispatch signal, not an error).
func Run(query []residue.Letter, m *residue.Matrix, target DpTarget, cfg Config) (HSP, bool) {
	switch cfg.Bin {
	case Bin8:
		return run(query, m, target, cfg, Score8)
	case Bin16:
		return run(query, m, target, cfg, Score16)
	default:
		return run(query, m, target, cfg, Score32)
	}
}

func run[S Score](query []residue.Letter, m *residue.Matrix, target DpTarget, cfg Config, traits Traits[S]) (HSP, bool) {
	qn := len(query)
	tn := len(target.Letters)
	if qn == 0 || tn == 0 {
		return HSP{}, false
	}

	dBegin, dEnd := target.DBegin, target.DEnd
	if dEnd <= dBegin {
		dEnd = dBegin + 1
	}
	width := int(dEnd - dBegin)

	bandOf := func(row int) int32 { return dBegin + int32(row)*0 } // band offset constant across rows; kept for walk() signature

	var full *fullMatrix
	var vec *vectorMatrix
	switch cfg.Mode {
	case TraceFull:
		full = newFullMatrix(qn+1, width)
	case TraceVector:
		vec = newVectorMatrix(qn+1, width)
	}

	band := newScoreBand(width)
	prevBand := newScoreBand(width)

	var best int32
	var bestRow, bestCol int
	saturated := false

	gapOpen := m.GapOpen
	gapExtend := m.GapExtend

	colToTarget := func(row, col int) int {
		// j = i + d, d in [dBegin, dEnd); col indexes d-dBegin.
		return row + int(dBegin) + col
	}

	const negInf = int32(-1 << 30)
	rowF := make([]float64, width)

	for i := 1; i <= qn; i++ {
		for c := range band.h {
			band.h[c] = 0
			band.e[c] = 0
			band.f[c] = 0
		}
		qLetter := query[i-1]
		var bias int32
		if target.Bias != nil && i-1 < len(target.Bias) {
			bias = target.Bias[i-1]
		}

		for c := 0; c < width; c++ {
			j := colToTarget(i, c)
			if j < 1 || j > tn {
				continue
			}
			tLetter := target.Letters[j-1]
			s := m.Score(qLetter, tLetter) + bias

			diagPrev := int32(0)
			if c < len(prevBand.h) {
				diagPrev = prevBand.h[c]
			}
			diag := diagPrev + s

			// E: extend/open a gap in the query (move left in target).
			var hLeft, eLeft int32
			if c > 0 {
				hLeft = band.h[c-1]
				eLeft = band.e[c-1]
			}
			e := max32(hLeft-gapOpen, eLeft-gapExtend)

			// F: extend/open a gap in the target (move down in query).
			// H[i-1][j] and F[i-1][j] sit at the SAME target position j,
			// which under diagonal-relative indexing is column c+1 of the
			// previous row (d = j-i grows by 1 as i shrinks by 1 at fixed
			// j); column width falling short of c+1 means that cell was
			// outside the band and is unreachable.
			hUp, fUp := negInf, negInf
			if c+1 < width {
				hUp = prevBand.h[c+1]
				fUp = prevBand.f[c+1]
			}
			f := max32(hUp-gapOpen, fUp-gapExtend)

			h := int32(0)
			tr := traceStop
			if diag > h {
				h, tr = diag, traceDiag
			}
			if e > h {
				// e is a horizontal move: same query row, one more
				// target letter consumed (gap in query).
				h, tr = e, traceLeft
			}
			if f > h {
				// f is a vertical move: one more query letter consumed,
				// no target letter (gap in target).
				h, tr = f, traceUp
			}

			if _, sat := traits.Saturate(h); sat {
				saturated = true
			}

			band.h[c] = h
			band.e[c] = e
			band.f[c] = f

			if full != nil {
				full.set(i, c, tr)
			}
			if vec != nil {
				vec.set(i, c, tr)
			}

		}
		for c, v := range band.h {
			rowF[c] = float64(v)
		}
		rowBest := floats.Max(rowF)
		if rowBest > float64(best) {
			best = int32(rowBest)
			bestRow = i
			bestCol = floats.MaxIdx(rowF)
		}
		// prevBand must hold this row's freshly computed values for the
		// next iteration; band (now stale) becomes the new scratch row.
		band, prevBand = prevBand, band

		// X-drop (spec.md §4.E/§4.F): once the best score seen anywhere
		// has pulled more than XDrop ahead of what this row can still
		// offer, further rows can only extend away from the optimum.
		if cfg.XDrop > 0 && best > 0 && float64(best)-rowBest > float64(cfg.XDrop) {
			break
		}
	}

	if best <= 0 {
		return HSP{}, saturated
	}

	hsp := HSP{
		TargetID: target.TargetID,
		Score:    best,
	}
	hsp.Bits = m.BitScore(best)

	switch cfg.Mode {
	case TraceFull:
		ops := full.walk(bestRow, bestCol, bandOf)
		hsp.Transcript = ops
		fillRanges(&hsp, query, target.Letters, bestRow, bestCol, dBegin, ops)
	case TraceVector:
		ops := vec.walk(bestRow, bestCol, bandOf)
		hsp.Transcript = ops
		fillRanges(&hsp, query, target.Letters, bestRow, bestCol, dBegin, ops)
	default:
		hsp.QueryRange = Range{Begin: 0, End: int32(bestRow)}
		hsp.SubjRange = Range{Begin: 0, End: int32(colToTarget(bestRow, bestCol))}
	}

	return hsp, saturated
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// fillRanges derives the HSP's query/subject ranges from a recovered
// transcript ending at (bestRow, bestCol), then walks forward through
// the ranges a second time to classify each diagonal move as a match
// or mismatch against the actual letters (walk itself only knows
// which recurrence term won, not letter identity).
func fillRanges(hsp *HSP, query, target []residue.Letter, endRow, endCol int, dBegin int32, ops []EditOp) {
	qLen, tLen := int32(0), int32(0)
	for _, op := range ops {
		switch op {
		case OpMatch, OpMismatch:
			qLen++
			tLen++
		case OpDeletion:
			qLen++
			hsp.Gaps++
		case OpInsertion:
			tLen++
			hsp.Gaps++
		}
	}
	hsp.Length = int32(len(ops))
	hsp.QueryRange = Range{Begin: int32(endRow) - qLen, End: int32(endRow)}
	tEnd := int32(endRow) + dBegin + int32(endCol)
	hsp.SubjRange = Range{Begin: tEnd - tLen, End: tEnd}

	qi, ti := hsp.QueryRange.Begin, hsp.SubjRange.Begin
	for i, op := range ops {
		switch op {
		case OpMatch, OpMismatch:
			if query[qi] == target[ti] {
				ops[i] = OpMatch
				hsp.Identities++
			} else {
				ops[i] = OpMismatch
				hsp.Mismatches++
			}
			qi++
			ti++
		case OpDeletion:
			qi++
		case OpInsertion:
			ti++
		}
	}
}
