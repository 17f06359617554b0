// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dp

import (
	"testing"

	"github.com/kortschak/swipe/residue"
)

func TestRunScoreOnlyPerfectMatch(t *testing.T) {
	m := residue.Blosum62()
	q := residue.EncodeAll([]byte("MKT"))
	target := DpTarget{Letters: residue.EncodeAll([]byte("MKT")), DBegin: -2, DEnd: 3}
	cfg := Config{Mode: ScoreOnly, Bin: Bin32}

	hsp, saturated := Run(q, m, target, cfg)
	if saturated {
		t.Fatal("unexpected saturation")
	}
	if hsp.Score != 15 {
		t.Errorf("Score = %d, want 15", hsp.Score)
	}
}

func TestRunScoreOnlyMismatchLowerScore(t *testing.T) {
	m := residue.Blosum62()
	q := residue.EncodeAll([]byte("MKT"))
	target := DpTarget{Letters: residue.EncodeAll([]byte("MET")), DBegin: -2, DEnd: 3}
	cfg := Config{Mode: ScoreOnly, Bin: Bin32}

	hsp, _ := Run(q, m, target, cfg)
	if hsp.Score != 11 {
		t.Errorf("Score = %d, want 11", hsp.Score)
	}
}

func TestRunTraceFullRecoversTranscript(t *testing.T) {
	m := residue.Blosum62()
	q := residue.EncodeAll([]byte("MKT"))
	target := DpTarget{Letters: residue.EncodeAll([]byte("MKT")), DBegin: -2, DEnd: 3}
	cfg := Config{Mode: TraceFull, Bin: Bin32}

	hsp, _ := Run(q, m, target, cfg)
	if hsp.Score != 15 {
		t.Fatalf("Score = %d, want 15", hsp.Score)
	}
	if hsp.Length != 3 || hsp.Identities != 3 {
		t.Errorf("Length=%d Identities=%d, want 3/3", hsp.Length, hsp.Identities)
	}
	if !hsp.Valid(int32(len(q)), int32(len(target.Letters))) {
		t.Error("HSP failed its own invariant check")
	}
}

func TestRunTraceVectorMatchesTraceFull(t *testing.T) {
	m := residue.Blosum62()
	q := residue.EncodeAll([]byte("MKTMKT"))
	target := DpTarget{Letters: residue.EncodeAll([]byte("MKTMET")), DBegin: -3, DEnd: 4}

	full, _ := Run(q, m, target, Config{Mode: TraceFull, Bin: Bin32})
	vec, _ := Run(q, m, target, Config{Mode: TraceVector, Bin: Bin32})

	if full.Score != vec.Score {
		t.Errorf("full.Score=%d vec.Score=%d, want equal", full.Score, vec.Score)
	}
}

func TestRunNoPositiveAlignmentReturnsEmptyHSP(t *testing.T) {
	m := residue.Blosum62()
	q := residue.EncodeAll([]byte("W"))
	target := DpTarget{Letters: residue.EncodeAll([]byte("P")), DBegin: 0, DEnd: 1}

	hsp, _ := Run(q, m, target, Config{Mode: ScoreOnly, Bin: Bin32})
	if hsp.Score != 0 {
		t.Errorf("Score = %d, want 0 for a below-zero best cell", hsp.Score)
	}
}

func TestSaturateReportsOverflowAtOrAboveMax(t *testing.T) {
	if _, sat := Score8.Saturate(100); sat {
		t.Error("100 should not saturate int8 (max 127)")
	}
	if _, sat := Score8.Saturate(127); !sat {
		t.Error("127 should saturate int8 (>= Max)")
	}
	if _, sat := Score8.Saturate(200); !sat {
		t.Error("200 should saturate int8")
	}
}

func TestBinNextEscalates(t *testing.T) {
	b, ok := Bin8.Next()
	if !ok || b != Bin16 {
		t.Fatalf("Bin8.Next() = %v,%v want Bin16,true", b, ok)
	}
	b, ok = Bin32.Next()
	if ok {
		t.Errorf("Bin32.Next() ok = true, want false (no wider bin)")
	}
	if b != Bin32 {
		t.Errorf("Bin32.Next() bin = %v, want Bin32", b)
	}
}

func TestStatsForwardBackwardSumsMatchTotalScore(t *testing.T) {
	m := residue.Blosum62()
	q := residue.EncodeAll([]byte("MKT"))
	target := DpTarget{Letters: residue.EncodeAll([]byte("MKT")), DBegin: -2, DEnd: 3}
	hsp, _ := Run(q, m, target, Config{Mode: TraceFull, Bin: Bin32})

	s := Stats(m, q, target.Letters, hsp)
	if s.Forward[len(hsp.Transcript)] != hsp.Score {
		t.Errorf("final ForwardCell = %d, want Score %d", s.Forward[len(hsp.Transcript)], hsp.Score)
	}
	if s.Backward[0] != hsp.Score {
		t.Errorf("initial BackwardCell = %d, want Score %d", s.Backward[0], hsp.Score)
	}
}
