// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"testing"

	"github.com/kortschak/swipe/residue"
	"github.com/kortschak/swipe/seq"
)

func TestContiguousShapeEncode(t *testing.T) {
	sh := ContiguousShape(3)
	letters := residue.EncodeAll([]byte("MKT"))
	v, ok := sh.Encode(letters, 0, 0)
	if !ok {
		t.Fatal("Encode returned ok=false")
	}
	v2, ok := sh.Encode(letters, 0, 0)
	if !ok || v != v2 {
		t.Errorf("Encode not deterministic: %v vs %v", v, v2)
	}
}

func TestEncodeShortWindowFails(t *testing.T) {
	sh := ContiguousShape(5)
	letters := residue.EncodeAll([]byte("MKT"))
	_, ok := sh.Encode(letters, 0, 0)
	if ok {
		t.Fatal("want ok=false for a window past end of sequence")
	}
}

func TestBuildSkipsShortTargets(t *testing.T) {
	b := seq.NewBlock([]seq.Sequence{
		{ID: "short", Letter: residue.EncodeAll([]byte("MK"))},
	}, []seq.OId{0}, false)
	a := Build(b, ContiguousShape(3), 4, 0, 0)
	if a.BuildTotal() != 0 {
		t.Errorf("expected no seeds for a target shorter than the shape span")
	}
}

func (a *Array) BuildTotal() int {
	var n int
	for _, b := range a.buckets {
		n += len(b)
	}
	return n
}

func TestBuildAndHistogram(t *testing.T) {
	b := seq.NewBlock([]seq.Sequence{
		{ID: "a", Letter: residue.EncodeAll([]byte("MKTMKTMKT"))},
	}, []seq.OId{0}, false)
	a := Build(b, ContiguousShape(3), 4, 0, 0)
	h := BuildHistogram(a)
	if h.Total() != a.BuildTotal() {
		t.Errorf("histogram total %d != actual %d", h.Total(), a.BuildTotal())
	}
	if h.Total() == 0 {
		t.Fatal("expected some seeds")
	}
}

func TestMinimizerWindowShrinksIndex(t *testing.T) {
	locs := make([]Loc, 20)
	for i := range locs {
		locs[i] = Loc{Seed: Seed((i * 7) % 13), Pos: int32(i)}
	}
	out := Window(locs, 4)
	if len(out) >= len(locs) {
		t.Errorf("minimizer windowing did not shrink: %d vs %d", len(out), len(locs))
	}
}
