// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seq

import (
	"testing"

	"github.com/kortschak/swipe/residue"
)

func TestSequenceSetRandomAccess(t *testing.T) {
	seqs := []Sequence{
		{ID: "a", Letter: residue.EncodeAll([]byte("MKT"))},
		{ID: "b", Letter: residue.EncodeAll([]byte("PPPPPP"))},
	}
	ss := NewSequenceSet(seqs)
	if ss.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ss.Len())
	}
	got := ss.At(1)
	if got.ID != "b" || got.Len() != 6 {
		t.Errorf("At(1) = %+v", got)
	}
	if ss.Letters() != 9 {
		t.Errorf("Letters() = %d, want 9", ss.Letters())
	}
}

func TestSequenceSetLocalAt(t *testing.T) {
	seqs := []Sequence{
		{ID: "a", Letter: residue.EncodeAll([]byte("MKT"))},
		{ID: "b", Letter: residue.EncodeAll([]byte("PPPPPP"))},
	}
	ss := NewSequenceSet(seqs)
	off := ss.GlobalOffset(1)
	id, pos := ss.LocalAt(off)
	if id != 1 || pos != 0 {
		t.Errorf("LocalAt(%d) = (%d,%d), want (1,0)", off, id, pos)
	}
}

func TestBlockLen(t *testing.T) {
	seqs := []Sequence{{ID: "a", Letter: residue.EncodeAll([]byte("MKT"))}}
	b := NewBlock(seqs, []OId{42}, true)
	if b.Len() != 1 || b.OIds[0] != 42 || !b.Query {
		t.Errorf("unexpected block: %+v", b)
	}
}
