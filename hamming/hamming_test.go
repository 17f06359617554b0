// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hamming

import (
	"testing"

	"github.com/kortschak/swipe/residue"
	"github.com/kortschak/swipe/seed"
	"github.com/kortschak/swipe/seq"
)

// TestFingerprintMatchThreshold reproduces spec.md §8 scenario 4: 48 A's
// vs the same with one C substituted at position 10.
func TestFingerprintMatchThreshold(t *testing.T) {
	a := make([]byte, 48)
	for i := range a {
		a[i] = 'A'
	}
	b := make([]byte, 48)
	copy(b, a)
	b[10] = 'C'

	qa := residue.EncodeAll(a)
	qb := residue.EncodeAll(b)
	var fa, fb [FingerprintWidth]residue.Letter
	copy(fa[:], qa)
	copy(fb[:], qb)

	n := Matches(fa, fb)
	if n != 47 {
		t.Fatalf("Matches = %d, want 47", n)
	}
	if n < 47 {
		t.Error("hamming_filter_id=47 should pass")
	}
	if n >= 48 {
		t.Error("hamming_filter_id=48 should fail")
	}
}

func TestStage1FullFindsExactMatch(t *testing.T) {
	qBlock := seq.NewBlock([]seq.Sequence{{ID: "q", Letter: residue.EncodeAll([]byte("MKTMKTMKT"))}}, []seq.OId{0}, true)
	tBlock := seq.NewBlock([]seq.Sequence{{ID: "t", Letter: residue.EncodeAll([]byte("MKTMKTMKT"))}}, []seq.OId{0}, false)

	qArr := seed.Build(qBlock, seed.ContiguousShape(3), 1, 0, 0)
	tArr := seed.Build(tBlock, seed.ContiguousShape(3), 1, 0, 0)

	cfg := Config{Mode: Full, HammingFilterID: 1}
	pairs := Run(qBlock, tBlock, qArr.Partition(0), tArr.Partition(0), cfg)
	if len(pairs) == 0 {
		t.Fatal("expected at least one candidate pair")
	}
}

func TestStage2AcceptsPerfectMatch(t *testing.T) {
	m := residue.Blosum62()
	qBlock := seq.NewBlock([]seq.Sequence{{ID: "q", Letter: residue.EncodeAll([]byte("MKT"))}}, []seq.OId{0}, true)
	tBlock := seq.NewBlock([]seq.Sequence{{ID: "t", Letter: residue.EncodeAll([]byte("MKT"))}}, []seq.OId{0}, false)

	pairs := []Pair{{QueryID: 0, TargetID: 0, QueryPos: 1, TargetPos: 1}}
	cfg := Stage2Config{Window: 16, Cutoff: DefaultCutoff(5, 0)}
	hits := RunStage2(m, qBlock, tBlock, pairs, cfg, nil)
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1", len(hits))
	}
	if hits[0].Score != 15 {
		t.Errorf("Score = %d, want 15", hits[0].Score)
	}
}

func TestStage2RejectsBelowCutoff(t *testing.T) {
	m := residue.Blosum62()
	qBlock := seq.NewBlock([]seq.Sequence{{ID: "q", Letter: residue.EncodeAll([]byte("MKT"))}}, []seq.OId{0}, true)
	tBlock := seq.NewBlock([]seq.Sequence{{ID: "t", Letter: residue.EncodeAll([]byte("PPP"))}}, []seq.OId{0}, false)

	pairs := []Pair{{QueryID: 0, TargetID: 0, QueryPos: 1, TargetPos: 1}}
	cfg := Stage2Config{Window: 16, Cutoff: DefaultCutoff(10, 0)}
	hits := RunStage2(m, qBlock, tBlock, pairs, cfg, nil)
	if len(hits) != 0 {
		t.Fatalf("len(hits) = %d, want 0", len(hits))
	}
}
