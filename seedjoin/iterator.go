// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seedjoin implements spec.md §4.C: a forward iterator that
// walks two sorted seed.Array partitions and yields the buckets of
// locations sharing one seed value.
package seedjoin

import "github.com/kortschak/swipe/seed"

// Bucket is the set of locations, from one side (query or target), that
// share a single seed value.
type Bucket = []seed.Loc

// gallopRatio is the partition-size skew, per seed.Histogram, above
// which Next switches from a linear scan to a galloping binary search
// to skip through the larger side's run, per spec.md §4.B's histogram
// existing precisely so a joining stage can address a partition rather
// than blindly rescan it.
const gallopRatio = 8

// Iterator walks two seed.Array partitions, already sorted by seed
// value within the partition (see seed.Build), and yields matching
// (query, target) buckets in the order the partition was built (§4.C:
// "the iteration order matches the partition order of 4.B"). Empty
// buckets (a seed value present on only one side) are skipped
// entirely, never yielded.
type Iterator struct {
	q, t   []seed.Loc
	i, j   int
	gallop bool
}

// New returns an Iterator over the query and target locations of
// partition p, given the full per-partition size histograms Build
// produced for each side. Both slices must already be sorted ascending
// by Seed. When p's query and target partitions differ in size by at
// least gallopRatio, the iterator gallops through the larger side
// instead of stepping one location at a time.
func New(queryPartition, targetPartition []seed.Loc, qHist, tHist seed.Histogram, p int) *Iterator {
	it := &Iterator{q: queryPartition, t: targetPartition}
	if p < len(qHist.Sizes) && p < len(tHist.Sizes) {
		qn, tn := qHist.Sizes[p], tHist.Sizes[p]
		big, small := qn, tn
		if small > big {
			big, small = small, big
		}
		it.gallop = small > 0 && big/small >= gallopRatio
	}
	return it
}

// Next advances to the next shared seed value and returns the query and
// target buckets for it. ok is false once either side is exhausted.
func (it *Iterator) Next() (qBucket, tBucket Bucket, ok bool) {
	for it.i < len(it.q) && it.j < len(it.t) {
		qs, ts := it.q[it.i].Seed, it.t[it.j].Seed
		switch {
		case qs < ts:
			if it.gallop {
				it.i = gallopTo(it.q, it.i, ts)
			} else {
				it.i++
			}
		case qs > ts:
			if it.gallop {
				it.j = gallopTo(it.t, it.j, qs)
			} else {
				it.j++
			}
		default:
			qStart, tStart := it.i, it.j
			for it.i < len(it.q) && it.q[it.i].Seed == qs {
				it.i++
			}
			for it.j < len(it.t) && it.t[it.j].Seed == ts {
				it.j++
			}
			return it.q[qStart:it.i], it.t[tStart:it.j], true
		}
	}
	return nil, nil, false
}

// gallopTo returns the smallest index >= i in s (sorted ascending by
// Seed) whose Seed is >= target, found by exponential probing followed
// by a binary search over the bracketed range, the standard merge-join
// galloping search.
func gallopTo(s []seed.Loc, i int, target seed.Seed) int {
	lo, step := i, 1
	hi := i
	for hi < len(s) && s[hi].Seed < target {
		lo = hi
		hi += step
		step *= 2
	}
	if hi > len(s) {
		hi = len(s)
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if s[mid].Seed < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Each consumes the iterator, invoking fn once per matching bucket pair
// — the "per-bucket kernel" clients use to drive stage-1 filtering
// (hamming.Run), per spec.md §4.C.
func (it *Iterator) Each(fn func(q, t Bucket)) {
	for {
		q, t, ok := it.Next()
		if !ok {
			return
		}
		fn(q, t)
	}
}
