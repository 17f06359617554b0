// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anchor

import (
	"testing"

	"github.com/kortschak/swipe/dp"
	"github.com/kortschak/swipe/residue"
)

func TestBandSizeFloorsAtSensDependentMin(t *testing.T) {
	if got := BandSize(5, 0, 0); got != 5 {
		t.Errorf("BandSize = %d, want 5 (floor)", got)
	}
	if got := BandSize(1, 0, 100); got != 15 {
		t.Errorf("BandSize = %d, want 15 (0.15*100)", got)
	}
}

func TestRunExtendsBothDirections(t *testing.T) {
	m := residue.Blosum62()
	query := residue.EncodeAll([]byte("AAAMKTAAA"))
	target := residue.EncodeAll([]byte("AAAMKTAAA"))
	profile := residue.BuildProfile(m, query, nil)
	reversedProfile := profile.Reversed()

	a := dp.Anchor{
		QueryBegin: 3, QueryEnd: 6,
		SubjectBegin: 3, SubjectEnd: 6,
		Score:     15,
		DMinLeft:  0, DMaxLeft: 0,
		DMinRight: 0, DMaxRight: 0,
	}

	result := Run(m, profile, reversedProfile, query, target, a, 2, dp.Bin32)
	if result.TotalScore < a.Score {
		t.Errorf("TotalScore = %d, want >= anchor score %d", result.TotalScore, a.Score)
	}
}

func TestRunHandlesAnchorAtSequenceEdge(t *testing.T) {
	m := residue.Blosum62()
	query := residue.EncodeAll([]byte("MKT"))
	target := residue.EncodeAll([]byte("MKT"))
	profile := residue.BuildProfile(m, query, nil)

	a := dp.Anchor{QueryBegin: 0, QueryEnd: 3, SubjectBegin: 0, SubjectEnd: 3, Score: 15}
	result := Run(m, profile, profile.Reversed(), query, target, a, 2, dp.Bin32)
	if result.Left.Score != 0 || result.Right.Score != 0 {
		t.Errorf("edge anchor should have no room to extend, got left=%d right=%d", result.Left.Score, result.Right.Score)
	}
}
