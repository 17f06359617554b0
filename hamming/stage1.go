// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hamming

import (
	"github.com/kortschak/swipe/seed"
	"github.com/kortschak/swipe/seq"
)

// Mode selects which of spec.md §4.D's stage-1 kernel variants to run.
type Mode int

const (
	// Full compares every query fingerprint in the bucket against every
	// target fingerprint, tile-major.
	Full Mode = iota
	// Self restricts comparison to the upper triangle when query and
	// target blocks are identical.
	Self
	// MutualCover additionally requires the length ratio of the two
	// sequences to be >= MinLengthRatio.
	MutualCover
	// QueryLinear compares one query fingerprint against all target
	// fingerprints in the bucket (linearized, skips the quadratic tile).
	QueryLinear
	// TargetLinear is the mirror of QueryLinear.
	TargetLinear
)

// Config parametrises stage 1, per spec.md §6's option table.
type Config struct {
	Mode            Mode
	HammingFilterID int     // minimum fingerprint match count to pass
	MinLengthRatio  float64 // MutualCover only
	TileSize        int     // tile_size config option; <=0 means "whole bucket at once"
}

// Pair is a candidate (query position, target position) that passed
// stage 1, still carrying enough information for stage 2 to locate the
// extension window.
type Pair struct {
	QueryID, TargetID   int32
	QueryPos, TargetPos int32
}

// Run executes stage 1 over one seed-join bucket pair and returns the
// candidate pairs that pass the Hamming filter.
func Run(queryBlock, targetBlock *seq.Block, qBucket, tBucket []seed.Loc, cfg Config) []Pair {
	switch cfg.Mode {
	case QueryLinear:
		return runLinear(queryBlock, targetBlock, qBucket, tBucket, cfg, true)
	case TargetLinear:
		return runLinear(queryBlock, targetBlock, qBucket, tBucket, cfg, false)
	default:
		return runTiled(queryBlock, targetBlock, qBucket, tBucket, cfg)
	}
}

func runTiled(queryBlock, targetBlock *seq.Block, qBucket, tBucket []seed.Loc, cfg Config) []Pair {
	tile := cfg.TileSize
	if tile <= 0 {
		tile = len(qBucket) + len(tBucket) + 1
	}
	var pairs []Pair
	for qi := 0; qi < len(qBucket); qi += tile {
		qEnd := min(qi+tile, len(qBucket))
		for ti := 0; ti < len(tBucket); ti += tile {
			tEnd := min(ti+tile, len(tBucket))
			for _, q := range qBucket[qi:qEnd] {
				qs := queryBlock.Set.At(int(q.BlockID))
				qfp := Fingerprint(qs.Letter, int(q.Pos))
				for _, tg := range tBucket[ti:tEnd] {
					if cfg.Mode == Self && !upperTriangle(q, tg) {
						continue
					}
					ts := targetBlock.Set.At(int(tg.BlockID))
					if cfg.Mode == MutualCover && !lengthRatioOK(qs, ts, cfg.MinLengthRatio) {
						continue
					}
					tfp := Fingerprint(ts.Letter, int(tg.Pos))
					if Matches(qfp, tfp) >= cfg.HammingFilterID {
						pairs = append(pairs, Pair{
							QueryID: q.BlockID, QueryPos: q.Pos,
							TargetID: tg.BlockID, TargetPos: tg.Pos,
						})
					}
				}
			}
		}
	}
	return pairs
}

// runLinear compares one fingerprint from the "single" side against
// every fingerprint on the other side, skipping the quadratic tile.
func runLinear(queryBlock, targetBlock *seq.Block, qBucket, tBucket []seed.Loc, cfg Config, queryIsSingle bool) []Pair {
	var pairs []Pair
	if queryIsSingle {
		for _, q := range qBucket {
			qs := queryBlock.Set.At(int(q.BlockID))
			qfp := Fingerprint(qs.Letter, int(q.Pos))
			for _, tg := range tBucket {
				ts := targetBlock.Set.At(int(tg.BlockID))
				tfp := Fingerprint(ts.Letter, int(tg.Pos))
				if Matches(qfp, tfp) >= cfg.HammingFilterID {
					pairs = append(pairs, Pair{QueryID: q.BlockID, QueryPos: q.Pos, TargetID: tg.BlockID, TargetPos: tg.Pos})
				}
			}
		}
		return pairs
	}
	for _, tg := range tBucket {
		ts := targetBlock.Set.At(int(tg.BlockID))
		tfp := Fingerprint(ts.Letter, int(tg.Pos))
		for _, q := range qBucket {
			qs := queryBlock.Set.At(int(q.BlockID))
			qfp := Fingerprint(qs.Letter, int(q.Pos))
			if Matches(qfp, tfp) >= cfg.HammingFilterID {
				pairs = append(pairs, Pair{QueryID: q.BlockID, QueryPos: q.Pos, TargetID: tg.BlockID, TargetPos: tg.Pos})
			}
		}
	}
	return pairs
}

// upperTriangle reports whether (q, t) should be retained when the
// query and target blocks are the same block: only pairs with
// TargetID > QueryID, or equal ids with TargetPos > QueryPos, are kept,
// so a self-comparison never reports both (a,b) and (b,a).
func upperTriangle(q, t seed.Loc) bool {
	if t.BlockID != q.BlockID {
		return t.BlockID > q.BlockID
	}
	return t.Pos > q.Pos
}

func lengthRatioOK(a, b seq.Sequence, minRatio float64) bool {
	la, lb := float64(a.Len()), float64(b.Len())
	if la == 0 || lb == 0 {
		return false
	}
	if la > lb {
		la, lb = lb, la
	}
	return la/lb >= minRatio
}
