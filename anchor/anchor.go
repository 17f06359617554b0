// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package anchor implements spec.md §4.F: seed-anchored left/right
// banded extensions. Each extension is a dp.Run call that scores
// letter pairs through the scoring matrix; the LongScoreProfile
// arguments Run accepts are not read.
package anchor

import (
	"github.com/kortschak/swipe/dp"
	"github.com/kortschak/swipe/residue"
)

// SensDependentMin is the sensitivity-mode floor on the extension band,
// spec.md §4.F's `band = max(sens_dependent_min, 0.15*(d_max-d_min))`.
type SensDependentMin int32

// BandSize computes the effective half-band for an anchor extension.
func BandSize(min SensDependentMin, dMinLeft, dMaxLeft int32) int32 {
	spread := 0.15 * float64(dMaxLeft-dMinLeft)
	if spread < float64(min) {
		return int32(min)
	}
	return int32(spread)
}

// Extension is one directional (left or right) banded run anchored at a
// seed, computed by dp.Run's banded engine against the scoring Matrix.
type Extension struct {
	Score int32
	HSP   dp.HSP
}

// Result is the product of a full anchored extension: the two
// directional extensions plus their combined score, spec.md §4.F's
// `anchor.score + right.score + left.score`.
type Result struct {
	Anchor      dp.Anchor
	Left, Right Extension
	TotalScore  int32
}

// Run performs the two-sided anchored extension described in spec.md
// §4.F. Both extensions score through m; profile and reversedProfile
// are accepted but not read. The rightward extension starts at the
// anchor's QueryEnd/SubjectEnd offsets into query/target, and the
// leftward one runs over the reversed prefixes ending at
// QueryBegin/SubjectBegin.
func Run(m *residue.Matrix, profile, reversedProfile *residue.LongScoreProfile, query, target []residue.Letter, a dp.Anchor, min SensDependentMin, bin dp.Bin) Result {
	rightBand := BandSize(min, a.DMinRight, a.DMaxRight)
	leftBand := BandSize(min, a.DMinLeft, a.DMaxLeft)

	rightQuery := query[a.QueryEnd:]
	rightTarget := target[a.SubjectEnd:]
	right := extend(m, rightQuery, rightTarget, a.DMinRight-rightBand, a.DMaxRight+rightBand, bin)

	leftQuery := reverse(query[:a.QueryBegin])
	leftTarget := reverse(target[:a.SubjectBegin])
	left := extend(m, leftQuery, leftTarget, a.DMinLeft-leftBand, a.DMaxLeft+leftBand, bin)

	return Result{
		Anchor:     a,
		Left:       left,
		Right:      right,
		TotalScore: a.Score + right.Score + left.Score,
	}
}

func extend(m *residue.Matrix, query, target []residue.Letter, dBegin, dEnd int32, bin dp.Bin) Extension {
	if len(query) == 0 || len(target) == 0 {
		return Extension{}
	}
	target2 := dp.DpTarget{Letters: target, DBegin: dBegin, DEnd: dEnd}
	cfg := dp.Config{Mode: dp.TraceFull, Bin: bin}
	hsp, saturated := dp.Run(query, m, target2, cfg)
	if saturated {
		if next, ok := bin.Next(); ok {
			cfg.Bin = next
			hsp, _ = dp.Run(query, m, target2, cfg)
		}
	}
	return Extension{Score: hsp.Score, HSP: hsp}
}

func reverse(s []residue.Letter) []residue.Letter {
	out := make([]residue.Letter, len(s))
	for i, l := range s {
		out[len(s)-1-i] = l
	}
	return out
}
