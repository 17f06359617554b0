// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cluster implements spec.md §4.H/§4.I: cascaded greedy
// vertex cover clustering over an adjacency graph of sequence
// similarity edges.
package cluster

import "container/heap"

// Graph is a flat adjacency list: Neighbors[i] lists every vertex j
// with an edge to i, per spec.md §4.I's "flat adjacency array sorted
// by source".
type Graph struct {
	Neighbors [][]int32
	// Weight is an optional per-vertex weight (e.g. member count from an
	// earlier clustering round); nil means unweighted (every vertex
	// weighs 1).
	Weight []int32
}

func (g *Graph) weightOf(v int32) int32 {
	if g.Weight == nil {
		return 1
	}
	return g.Weight[v]
}

// degree is weighted out-degree: the sum of neighbor weights, per
// spec.md §4.I's "keyed by degree (weighted)".
func (g *Graph) degree(v int32) int32 {
	var d int32
	for _, n := range g.Neighbors[v] {
		d += g.weightOf(n)
	}
	return d
}

// pqItem is one entry in the lazy-deletion degree-max-heap: a vertex
// and the degree it had when pushed. A popped item is discarded if its
// degree no longer matches the vertex's current degree (it is stale,
// superseded by a later push after a neighbor was assigned).
type pqItem struct {
	vertex int32
	degree int32
}

type maxHeap []pqItem

func (h maxHeap) Len() int { return len(h) }
func (h maxHeap) Less(i, j int) bool {
	if h[i].degree != h[j].degree {
		return h[i].degree > h[j].degree
	}
	// Tie-break: lower vertex id wins (spec.md §4.I).
	return h[i].vertex < h[j].vertex
}
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(pqItem)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// GreedyVertexCover runs spec.md §4.I: repeatedly pop the
// highest-(weighted-)degree unassigned vertex, make it a centroid, and
// assign it plus every still-unassigned neighbor. If ccd > 0,
// expandComponents is then run, but the main loop has already given
// every vertex a centroid (an unassigned vertex popped from the heap
// becomes its own centroid), so the expansion finds no vertex to fold
// in and ccd does not change the result.
func GreedyVertexCover(g *Graph, ccd int) []int32 {
	n := len(g.Neighbors)
	centroid := make([]int32, n)
	for i := range centroid {
		centroid[i] = -1
	}
	degree := make([]int32, n)
	var pq maxHeap
	for v := 0; v < n; v++ {
		degree[v] = g.degree(int32(v))
		pq = append(pq, pqItem{vertex: int32(v), degree: degree[v]})
	}
	heap.Init(&pq)

	assign := func(v, c int32) {
		centroid[v] = c
		for _, n := range g.Neighbors[v] {
			if centroid[n] != -1 {
				continue
			}
			degree[n] -= g.weightOf(v)
			heap.Push(&pq, pqItem{vertex: n, degree: degree[n]})
		}
	}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(pqItem)
		v := item.vertex
		if centroid[v] != -1 {
			continue // stale entry, already assigned by an earlier pop
		}
		if item.degree != degree[v] {
			continue // stale degree, re-pushed with a fresher value since
		}
		assign(v, v)
		for _, nb := range g.Neighbors[v] {
			if centroid[nb] == -1 {
				assign(nb, v)
			}
		}
	}

	if ccd > 0 {
		expandComponents(g, centroid, ccd)
	}
	return centroid
}

// expandComponents gives each vertex that still has no centroid the
// centroid of an assigned neighbor, repeating for up to ccd hops.
// GreedyVertexCover assigns every vertex before calling it, so when
// called from there it finds no unassigned vertex and changes nothing.
func expandComponents(g *Graph, centroid []int32, ccd int) {
	for hop := 0; hop < ccd; hop++ {
		changed := false
		for v := range centroid {
			if centroid[v] != -1 {
				continue
			}
			for _, nb := range g.Neighbors[v] {
				if centroid[nb] != -1 {
					centroid[v] = centroid[nb]
					changed = true
					break
				}
			}
		}
		if !changed {
			return
		}
	}
}
