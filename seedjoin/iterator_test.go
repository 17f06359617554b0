// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seedjoin

import (
	"testing"

	"github.com/kortschak/swipe/seed"
)

func TestIteratorYieldsSharedSeedsOnly(t *testing.T) {
	q := []seed.Loc{{Seed: 1}, {Seed: 2}, {Seed: 2}, {Seed: 4}}
	tg := []seed.Loc{{Seed: 2}, {Seed: 3}, {Seed: 4}, {Seed: 4}}

	var got []struct{ seed, ql, tl int }
	qHist := seed.Histogram{Sizes: []int{len(q)}}
	tHist := seed.Histogram{Sizes: []int{len(tg)}}
	New(q, tg, qHist, tHist, 0).Each(func(qb, tb Bucket) {
		got = append(got, struct{ seed, ql, tl int }{int(qb[0].Seed), len(qb), len(tb)})
	})

	want := []struct{ seed, ql, tl int }{
		{2, 2, 1},
		{4, 1, 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestIteratorEmpty(t *testing.T) {
	n := 0
	tg := []seed.Loc{{Seed: 1}}
	New(nil, tg, seed.Histogram{Sizes: []int{0}}, seed.Histogram{Sizes: []int{len(tg)}}, 0).Each(func(q, tb Bucket) { n++ })
	if n != 0 {
		t.Errorf("expected no buckets when one side is empty, got %d", n)
	}
}

func TestIteratorGallops(t *testing.T) {
	// A large, evenly-spaced target run against a sparse query should
	// exercise the galloping branch (big/small >= gallopRatio) and
	// still yield exactly the matching seeds.
	var tg []seed.Loc
	for s := seed.Seed(0); s < 100; s++ {
		tg = append(tg, seed.Loc{Seed: s})
	}
	q := []seed.Loc{{Seed: 10}, {Seed: 50}, {Seed: 90}}

	qHist := seed.Histogram{Sizes: []int{len(q)}}
	tHist := seed.Histogram{Sizes: []int{len(tg)}}
	it := New(q, tg, qHist, tHist, 0)
	if !it.gallop {
		t.Fatal("expected gallop mode for a 33x partition-size skew")
	}

	var got []int
	it.Each(func(qb, tb Bucket) { got = append(got, int(qb[0].Seed)) })
	want := []int{10, 50, 90}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %d, want %d", i, got[i], want[i])
		}
	}
}
