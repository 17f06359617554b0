// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workstack

import "testing"

func TestMarshalChunkKeyRoundTrip(t *testing.T) {
	c := Chunk{Phase: 2, QueryBlock: 5, TargetBlock: 9}
	got := UnmarshalChunkKey(MarshalChunkKey(c))
	if got != c {
		t.Errorf("UnmarshalChunkKey(MarshalChunkKey(%v)) = %v", c, got)
	}
}

func TestByPhaseThenBlockPairOrdersNumerically(t *testing.T) {
	a := MarshalChunkKey(Chunk{Phase: 1, QueryBlock: 2, TargetBlock: 300})
	b := MarshalChunkKey(Chunk{Phase: 1, QueryBlock: 3, TargetBlock: 1})
	if ByPhaseThenBlockPair(a, b) != -1 {
		t.Error("expected a < b by query block despite a's larger target block")
	}
}

func TestStateString(t *testing.T) {
	for _, s := range []State{Pending, Claimed, Done, Failed} {
		if s.String() == "unknown" {
			t.Errorf("State(%d).String() = unknown", s)
		}
	}
}
