// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import "testing"

func TestGreedyVertexCoverStarAssignsCenter(t *testing.T) {
	// Vertex 0 is connected to 1,2,3; they have no other edges, so 0
	// has the highest degree and must become the sole centroid.
	g := &Graph{Neighbors: [][]int32{
		{1, 2, 3},
		{0},
		{0},
		{0},
	}}
	centroid := GreedyVertexCover(g, 0)
	for i, c := range centroid {
		if i == 0 {
			if c != 0 {
				t.Errorf("centroid[0] = %d, want 0", c)
			}
			continue
		}
		if c != 0 {
			t.Errorf("centroid[%d] = %d, want 0", i, c)
		}
	}
}

func TestGreedyVertexCoverDisjointComponents(t *testing.T) {
	g := &Graph{Neighbors: [][]int32{
		{1}, {0},
		{3}, {2},
	}}
	centroid := GreedyVertexCover(g, 0)
	if centroid[0] != centroid[1] {
		t.Error("0 and 1 should share a centroid")
	}
	if centroid[2] != centroid[3] {
		t.Error("2 and 3 should share a centroid")
	}
	if centroid[0] == centroid[2] {
		t.Error("disjoint components should not share a centroid")
	}
}

func TestCascadeSingleRoundMatchesGreedyVertexCover(t *testing.T) {
	g := &Graph{Neighbors: [][]int32{
		{1, 2}, {0}, {0},
	}}
	result := Cascade(3, []Round{{Sensitivity: "sensitive", CoverageCutoff: 0.5}}, func(members []int32, round Round) *Graph {
		return g
	})
	if result.Centroid[1] != 0 || result.Centroid[2] != 0 {
		t.Errorf("Centroid = %v, want [0 0 0]", result.Centroid)
	}
}

func TestReassignMovesToHigherScoringCentroid(t *testing.T) {
	mapping := []int32{0, 0, 0}
	centroids := []int32{0, 1}
	scores := map[[2]int32]int32{
		{2, 0}: 5,
		{2, 1}: 50,
	}
	Reassign(mapping, centroids, func(member, centroid int32) int32 {
		return scores[[2]int32{member, centroid}]
	})
	if mapping[2] != 1 {
		t.Errorf("mapping[2] = %d, want 1 (higher score)", mapping[2])
	}
}
