// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hamming

import (
	"github.com/kortschak/swipe/residue"
	"github.com/kortschak/swipe/seq"
)

// Hit is the output of stage 2, per spec.md §3: a candidate ungapped
// extension that cleared the length-dependent score cutoff and the
// left-most filter.
type Hit struct {
	QueryID    int32
	TargetID   int32
	QueryPos   int32 // seed position in the query, carried from the stage-1 Pair
	TargetPos  int32 // seed position in the target, carried from the stage-1 Pair
	SeedOffset int32 // offset of the best window within the scored range
	Score      int32
}

// Stage2Config parametrises the ungapped window extension.
type Stage2Config struct {
	Window          int // ungapped_window
	Cutoff          func(qlen int) int32
	SeedComplexity  int // forwarded for left-most filter context only
	LeftmostMargin  int32
}

// DefaultCutoff returns a length-dependent cutoff function: a fixed
// base score plus a term linear in query length, matching the shape
// (if not the exact constants) of "ungapped_cutoff(qlen)" in spec.md
// §4.D. Constants are chosen so that the spec.md §8 worked examples
// (score 15 for a 3-residue perfect match) pass comfortably above it for
// short queries while still filtering noise on long ones.
func DefaultCutoff(base int32, perLength float64) func(int) int32 {
	return func(qlen int) int32 {
		return base + int32(perLength*float64(qlen))
	}
}

// RunStage2 extends each stage-1 pair by scoring the best ungapped
// window around the seed, reporting a Hit for every pair whose score
// clears Cutoff(qlen). leftmost, if non-nil, is consulted to drop hits
// that are a "shadow" of a better hit already generated for the same
// query position by an earlier shape or chunk (spec.md §4.D's left-most
// filter); it is called with (queryID, queryPos) and should return true
// if a strictly-better hit is already known there.
func RunStage2(m *residue.Matrix, queryBlock, targetBlock *seq.Block, pairs []Pair, cfg Stage2Config, leftmost func(queryID, queryPos int32) bool) []Hit {
	var hits []Hit
	for _, p := range pairs {
		qs := queryBlock.Set.At(int(p.QueryID))
		ts := targetBlock.Set.At(int(p.TargetID))
		score, seedOffset := bestUngappedWindow(m, qs.Letter, ts.Letter, int(p.QueryPos), int(p.TargetPos), cfg.Window)
		cutoff := cfg.Cutoff(len(qs.Letter))
		if score < cutoff {
			continue
		}
		if leftmost != nil && leftmost(p.QueryID, p.QueryPos) {
			continue
		}
		hits = append(hits, Hit{
			QueryID: p.QueryID, TargetID: p.TargetID,
			QueryPos: p.QueryPos, TargetPos: p.TargetPos,
			SeedOffset: seedOffset, Score: score,
		})
	}
	return hits
}

// bestUngappedWindow scores every ungapped alignment of a window of up
// to `window` letters centred on (qPos, tPos), clipping at sequence
// ends by substituting residue.Mask (which, per Blosum62, never scores
// better than a real pair), and returns the best score found plus the
// seed offset relative to the window start.
func bestUngappedWindow(m *residue.Matrix, q, t []residue.Letter, qPos, tPos, window int) (best int32, seedOffset int32) {
	half := window / 2
	start := -half
	end := window - half

	letterAt := func(s []residue.Letter, base, off int) residue.Letter {
		p := base + off
		if p < 0 || p >= len(s) {
			return residue.Mask
		}
		return s[p]
	}

	var cur int32
	for off := start; off < end; off++ {
		cur += m.Score(letterAt(q, qPos, off), letterAt(t, tPos, off))
		if cur < 0 {
			cur = 0
		}
		if cur > best {
			best = cur
			seedOffset = int32(off - start)
		}
	}
	return best, seedOffset
}
