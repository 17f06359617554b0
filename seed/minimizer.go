// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

// Window applies minimizer windowing to a sequence of seed locations
// already enumerated in position order: within each window of size w
// consecutive locations, only the numerically smallest seed is kept.
// This reduces sensitivity but shrinks the index linearly, per spec.md
// §4.B. Ties within a window keep the left-most (smallest position)
// occurrence.
func Window(locs []Loc, w int) []Loc {
	if w <= 1 || len(locs) == 0 {
		return locs
	}
	var out []Loc
	var lastKept = -1
	for i := range locs {
		lo := i - w + 1
		if lo < 0 {
			lo = 0
		}
		// Find the minimiser of the window [lo, i].
		min := lo
		for j := lo + 1; j <= i; j++ {
			if locs[j].Seed < locs[min].Seed {
				min = j
			}
		}
		if min != lastKept {
			out = append(out, locs[min])
			lastKept = min
		}
	}
	return out
}
