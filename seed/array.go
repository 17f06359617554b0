// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"sort"

	"github.com/kortschak/swipe/seq"
)

// Loc is a seed location: a global offset into the owning SequenceSet
// plus, when needed by the consumer, the block-local sequence id — the
// PackedLoc/PackedLocId pair of spec.md §3, represented here as one Go
// struct rather than two C++ bit-packed variants since Go has no
// equivalent space pressure and a struct is the idiomatic shape.
type Loc struct {
	Seed    Seed
	Global  int64 // offset into the block's SequenceSet
	BlockID int32 // block-local sequence id
	Pos     int32 // offset within the sequence
}

// Array is the SeedArray of spec.md §4.B: every seed location for one
// shape over one block, partitioned by a numeric bucket of the seed
// value and sorted within each partition.
type Array struct {
	Shape      Shape
	Partitions int
	buckets    [][]Loc
}

// Build enumerates every seed of every sequence in block for shape,
// partitions them into nPartitions buckets by the seed value modulo
// nPartitions, and sorts each partition by seed value. complexityCut is
// forwarded to Shape.Encode; minWindow, if > 1, applies minimizer
// windowing (Window) before returning.
func Build(block *seq.Block, shape Shape, nPartitions, complexityCut, minWindow int) *Array {
	a := &Array{Shape: shape, Partitions: nPartitions, buckets: make([][]Loc, nPartitions)}
	span := shape.Span()
	for id := 0; id < block.Len(); id++ {
		s := block.Set.At(id)
		if int(s.Len()) < span {
			continue // "a target shorter than the shape span contributes no seeds" — spec.md §8
		}
		base := block.Set.GlobalOffset(id)
		var windowed []Loc
		for pos := 0; pos+span <= len(s.Letter); pos++ {
			v, ok := shape.Encode(s.Letter, pos, complexityCut)
			if !ok {
				continue
			}
			windowed = append(windowed, Loc{Seed: v, Global: base + int64(pos), BlockID: int32(id), Pos: int32(pos)})
		}
		if minWindow > 1 {
			windowed = Window(windowed, minWindow)
		}
		for _, l := range windowed {
			b := bucketOf(l.Seed, nPartitions)
			a.buckets[b] = append(a.buckets[b], l)
		}
	}
	for _, b := range a.buckets {
		sort.Slice(b, func(i, j int) bool { return b[i].Seed < b[j].Seed })
	}
	return a
}

func bucketOf(s Seed, n int) int {
	if n <= 1 {
		return 0
	}
	return int(uint64(s) % uint64(n))
}

// Partition returns the sorted locations in partition p.
func (a *Array) Partition(p int) []Loc { return a.buckets[p] }

// Histogram records the size of each partition so a joining stage can
// address partitions directly without rescanning, per spec.md §4.B.
type Histogram struct {
	Sizes []int
}

// BuildHistogram computes a's partition size histogram.
func BuildHistogram(a *Array) Histogram {
	h := Histogram{Sizes: make([]int, len(a.buckets))}
	for i, b := range a.buckets {
		h.Sizes[i] = len(b)
	}
	return h
}

// Total returns the total number of seed locations across all
// partitions.
func (h Histogram) Total() int {
	var n int
	for _, s := range h.Sizes {
		n += s
	}
	return n
}
