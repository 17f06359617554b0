// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

// Round is one entry of the cascaded clustering schedule, spec.md
// §6's `cluster_steps`/`round_coverage`/`round_approx_id` table.
type Round struct {
	Sensitivity    string
	CoverageCutoff float64
	ApproxID       float64
	CCD            int
}

// EdgeSource supplies the self-alignment edges for one clustering
// round over the vertex set selected by Members, decoupling the
// cascade driver from the pipeline package so cluster stays free of a
// dependency on it.
type EdgeSource func(members []int32, round Round) *Graph

// Result is the outcome of a full cascade: the final per-original-
// vertex centroid assignment and the per-round mapping chain, spec.md
// §4.H's "compose mappings across rounds: new[i] = prev[round_result[i]]".
type Result struct {
	// Centroid maps each original vertex id to its final centroid id.
	Centroid []int32
	// Rounds holds the per-round centroid assignment restricted to the
	// member set that round operated over, for audit/debugging.
	Rounds [][]int32
}

// Cascade runs spec.md §4.H over n vertices: for each round, builds the
// edge graph restricted to the current representative set (initially
// all vertices), runs GreedyVertexCover, composes the new mapping with
// the previous one, and carries forward only the surviving centroids
// as the next round's representative set.
func Cascade(n int, rounds []Round, edges EdgeSource) Result {
	mapping := make([]int32, n)
	for i := range mapping {
		mapping[i] = int32(i)
	}
	members := make([]int32, n)
	for i := range members {
		members[i] = int32(i)
	}

	var history [][]int32
	for _, round := range rounds {
		g := edges(members, round)
		roundCentroid := GreedyVertexCover(g, round.CCD)
		history = append(history, roundCentroid)

		// Compose: every vertex whose mapping currently points into
		// this round's member set gets remapped through the round's
		// result, per spec.md §4.H's new[i] = prev[round_result[i]].
		localIndex := make(map[int32]int32, len(members))
		for i, m := range members {
			localIndex[m] = int32(i)
		}
		for i, m := range mapping {
			li, ok := localIndex[m]
			if !ok {
				continue
			}
			mapping[i] = members[roundCentroid[li]]
		}

		members = survivingCentroids(members, roundCentroid)
	}

	return Result{Centroid: mapping, Rounds: history}
}

// survivingCentroids returns the subset of members that are their own
// centroid in roundCentroid (local indices), in ascending order.
func survivingCentroids(members []int32, roundCentroid []int32) []int32 {
	var out []int32
	for i, c := range roundCentroid {
		if int(c) == i {
			out = append(out, members[i])
		}
	}
	return out
}

// Reassign implements spec.md §4.H's end-of-round reassignment pass: it
// re-homes every member to the nearest surviving centroid rather than
// the one it happened to be swept up by, using score as the distance
// measure (higher is nearer). scoreTo(member, centroid) should return
// the alignment score between them, or a non-positive value if they do
// not align at all.
func Reassign(mapping []int32, centroids []int32, scoreTo func(member, centroid int32) int32) {
	for i, c := range mapping {
		best := c
		bestScore := scoreTo(int32(i), c)
		for _, cand := range centroids {
			if cand == c {
				continue
			}
			if s := scoreTo(int32(i), cand); s > bestScore {
				best, bestScore = cand, s
			}
		}
		mapping[i] = best
	}
}

// Recluster implements spec.md §4.H's optional recluster pass: members
// that fail the coverage test against their current centroid are
// extracted, clustered recursively among themselves via Cascade, and
// their resulting local centroids are mapped back into the global
// mapping.
func Recluster(mapping []int32, coverageOK func(member, centroid int32) bool, rounds []Round, edges EdgeSource) []int32 {
	var failing []int32
	for i, c := range mapping {
		if !coverageOK(int32(i), c) {
			failing = append(failing, int32(i))
		}
	}
	if len(failing) == 0 {
		return mapping
	}

	sub := Cascade(len(failing), rounds, func(localMembers []int32, round Round) *Graph {
		global := make([]int32, len(localMembers))
		for i, lm := range localMembers {
			global[i] = failing[lm]
		}
		return edges(global, round)
	})

	out := append([]int32(nil), mapping...)
	for local, globalCentroidLocal := range sub.Centroid {
		out[failing[local]] = failing[globalCentroidLocal]
	}
	return out
}
